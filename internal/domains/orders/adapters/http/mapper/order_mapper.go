package mapper

import (
	"time"

	"github.com/dispensa-escolar/pedidos-api/internal/domains/orders/domain"
	"github.com/dispensa-escolar/pedidos-api/internal/domains/orders/ports"
)

// CreateOrderRequest is the JSON body accepted by action=create. The
// orderdate rule is registered on gin's validator engine at router setup.
type CreateOrderRequest struct {
	Requester string                   `json:"requester" binding:"required"`
	OrderDate string                   `json:"order_date" binding:"required,orderdate"`
	Unit      string                   `json:"unit" binding:"required"`
	Notes     string                   `json:"notes"`
	Items     []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateOrderItemRequest is one requested line entry.
type CreateOrderItemRequest struct {
	Name     string `json:"name" binding:"required"`
	Label    string `json:"label"`
	Quantity string `json:"quantity" binding:"required"`
}

// DeleteOrderRequest is the JSON body accepted by action=delete.
type DeleteOrderRequest struct {
	ID int64 `json:"id" binding:"required"`
}

// CreatedResponse carries the storage-assigned id of a new order.
type CreatedResponse struct {
	ID int64 `json:"id"`
}

// OrderResponse is the wire representation of one order with its items.
type OrderResponse struct {
	ID        int64               `json:"id"`
	Requester string              `json:"requester"`
	OrderDate string              `json:"order_date"`
	Unit      string              `json:"unit"`
	Notes     string              `json:"notes"`
	CreatedAt string              `json:"created_at"`
	Items     []OrderItemResponse `json:"items"`
}

// OrderItemResponse is one line entry as returned to clients.
type OrderItemResponse struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Quantity string `json:"quantity"`
}

// ToCreateInput converts the request body to the application command.
func ToCreateInput(req CreateOrderRequest) ports.CreateOrderInput {
	items := make([]ports.CreateOrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, ports.CreateOrderItemInput{
			Name:     item.Name,
			Label:    item.Label,
			Quantity: item.Quantity,
		})
	}
	return ports.CreateOrderInput{
		Requester: req.Requester,
		OrderDate: req.OrderDate,
		Unit:      req.Unit,
		Notes:     req.Notes,
		Items:     items,
	}
}

// FromDomain maps an order aggregate to its wire representation.
func FromDomain(order *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			Name:     item.Name,
			Label:    item.Label,
			Quantity: item.Quantity,
		})
	}
	createdAt := ""
	if !order.CreatedAt.IsZero() {
		createdAt = order.CreatedAt.UTC().Format(time.RFC3339)
	}
	return OrderResponse{
		ID:        order.ID,
		Requester: order.Requester,
		OrderDate: order.OrderDate,
		Unit:      order.Unit,
		Notes:     order.Notes,
		CreatedAt: createdAt,
		Items:     items,
	}
}

// FromDomainList maps a slice of orders preserving order.
func FromDomainList(orders []*domain.Order) []OrderResponse {
	result := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		result = append(result, FromDomain(order))
	}
	return result
}
