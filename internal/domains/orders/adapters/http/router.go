package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/dispensa-escolar/pedidos-api/internal/domains/orders/domain"
)

// requestIDHeader carries the per-request correlation id.
const requestIDHeader = "X-Request-ID"

// NewRouter assembles the gin engine: recovery, tracing, request ids, CORS,
// and the single action-dispatched entry point.
func NewRouter(api OrderAPI, serviceName, corsAllowOrigin string) *gin.Engine {
	registerValidations()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(RequestID())
	router.Use(CORS(corsAllowOrigin))

	router.GET("/api/orders", api.Dispatch)
	router.POST("/api/orders", api.Dispatch)

	return router
}

// registerValidations adds the orderdate rule to gin's validator engine so
// request bodies can declare `binding:"orderdate"`.
func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validatorv10.Validate); ok {
		_ = v.RegisterValidation("orderdate", func(fl validatorv10.FieldLevel) bool {
			return domain.ValidDate(fl.Field().String())
		})
	}
}

// RequestID ensures every request carries a correlation id, minting one when
// the client did not supply it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}

// CORS applies permissive cross-origin headers and answers preflight
// requests directly, keeping preflight handling out of the handlers.
func CORS(allowOrigin string) gin.HandlerFunc {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", allowOrigin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}
