package ports

import (
	"context"

	"github.com/dispensa-escolar/pedidos-api/internal/domains/orders/domain"
)

// CreateOrderInput carries the raw (unsanitized) fields of a new requisition.
type CreateOrderInput struct {
	Requester string
	OrderDate string
	Unit      string
	Notes     string
	Items     []CreateOrderItemInput
}

// CreateOrderItemInput is one requested line entry. Label may be empty, in
// which case it defaults to Name.
type CreateOrderItemInput struct {
	Name     string
	Label    string
	Quantity string
}

// Service exposes the order use cases consumed by transport adapters and
// workflow activities.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (int64, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	ListOrders(ctx context.Context) ([]*domain.Order, error)
}
