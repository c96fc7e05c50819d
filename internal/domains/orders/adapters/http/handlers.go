package httpapi

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/dispensa-escolar/pedidos-api/internal/domains/orders/adapters/http/mapper"
	"github.com/dispensa-escolar/pedidos-api/internal/domains/orders/application"
	"github.com/dispensa-escolar/pedidos-api/internal/domains/orders/ports"
	"github.com/dispensa-escolar/pedidos-api/internal/shared/envelope"
)

// OrderAPI wires HTTP transport with the orders service and workflows.
type OrderAPI struct {
	service   ports.Service
	workflows ports.WorkflowOrchestrator
	logger    *slog.Logger
}

// NewOrderAPI creates an OrderAPI backed by the provided collaborators.
// workflows may be nil, in which case create calls the service directly.
func NewOrderAPI(service ports.Service, workflows ports.WorkflowOrchestrator, logger *slog.Logger) OrderAPI {
	if logger == nil {
		logger = slog.Default()
	}
	return OrderAPI{service: service, workflows: workflows, logger: logger}
}

// Dispatch routes the single entry point on its action selector.
func (api *OrderAPI) Dispatch(c *gin.Context) {
	switch c.Query("action") {
	case "list":
		api.listOrders(c)
	case "create":
		api.createOrder(c)
	case "get":
		api.getOrder(c)
	case "delete":
		api.deleteOrder(c)
	default:
		envelope.Write(c, envelope.Fail("unknown or missing action"))
	}
}

func (api *OrderAPI) listOrders(c *gin.Context) {
	orders, err := api.service.ListOrders(c.Request.Context())
	if err != nil {
		api.respondServiceError(c, err)
		return
	}
	envelope.Write(c, envelope.OK(mapper.FromDomainList(orders), "orders loaded"))
}

func (api *OrderAPI) createOrder(c *gin.Context) {
	var payload mapper.CreateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.respondBindingError(c, err)
		return
	}
	id, err := api.runCreate(c, mapper.ToCreateInput(payload))
	if err != nil {
		api.respondServiceError(c, err)
		return
	}
	envelope.Write(c, envelope.OK(mapper.CreatedResponse{ID: id}, "order created"))
}

func (api *OrderAPI) runCreate(c *gin.Context, input ports.CreateOrderInput) (int64, error) {
	if api.workflows != nil {
		return api.workflows.CreateOrder(c.Request.Context(), input)
	}
	return api.service.CreateOrder(c.Request.Context(), input)
}

func (api *OrderAPI) getOrder(c *gin.Context) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Query("id")), 10, 64)
	if err != nil || id <= 0 {
		envelope.Write(c, envelope.Fail("order id must be a positive integer"))
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		api.respondServiceError(c, err)
		return
	}
	envelope.Write(c, envelope.OK(mapper.FromDomain(order), "order found"))
}

func (api *OrderAPI) deleteOrder(c *gin.Context) {
	var payload mapper.DeleteOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.respondBindingError(c, err)
		return
	}
	if err := api.service.DeleteOrder(c.Request.Context(), payload.ID); err != nil {
		api.respondServiceError(c, err)
		return
	}
	envelope.Write(c, envelope.OK(nil, "order deleted"))
}

// respondBindingError distinguishes field validation failures, which are
// regular envelope failures, from unparseable bodies, which never reached
// the application layer and get a 400.
func (api *OrderAPI) respondBindingError(c *gin.Context, err error) {
	var fieldErrors validatorv10.ValidationErrors
	if errors.As(err, &fieldErrors) {
		envelope.Write(c, envelope.Fail(validationMessage(fieldErrors)))
		return
	}
	envelope.WriteStatus(c, http.StatusBadRequest, envelope.Fail("invalid or malformed JSON body"))
}

// respondServiceError converts the error taxonomy into the envelope.
// Storage failures are logged in full but reported generically so internal
// diagnostics never leak to clients.
func (api *OrderAPI) respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrInvalidInput):
		envelope.Write(c, envelope.Fail(err.Error()))
	case errors.Is(err, ports.ErrNotFound):
		envelope.Write(c, envelope.Fail("order not found"))
	default:
		api.logger.Error("order storage failure",
			slog.String("path", c.Request.URL.Path),
			slog.String("action", c.Query("action")),
			slog.String("error", err.Error()))
		envelope.Write(c, envelope.Fail("failed to access order storage"))
	}
}

func validationMessage(fieldErrors validatorv10.ValidationErrors) string {
	messages := make([]string, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		field := strings.ToLower(fieldError.Field())
		switch fieldError.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "orderdate":
			messages = append(messages, fmt.Sprintf("%s must use the YYYY-MM-DD format", field))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must contain at least one entry", field))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(messages, "; ")
}
