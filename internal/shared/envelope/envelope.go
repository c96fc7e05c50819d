// Package envelope provides the uniform {success, data, message} response
// wrapper returned by every API action, for results and errors alike.
package envelope

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the wire shape of every API reply.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

// OK builds a successful envelope carrying data and a human-readable message.
func OK(data any, message string) Response {
	return Response{Success: true, Data: data, Message: message}
}

// Fail builds a failure envelope. Data is always null on failure.
func Fail(message string) Response {
	return Response{Success: false, Data: nil, Message: message}
}

// Write sends the envelope with HTTP 200. Callers key off the success flag,
// not the status code.
func Write(c *gin.Context, response Response) {
	c.JSON(http.StatusOK, response)
}

// WriteStatus sends the envelope with an explicit status code, used for
// requests that never reached the application layer (e.g. unparseable JSON).
func WriteStatus(c *gin.Context, status int, response Response) {
	c.JSON(status, response)
}
