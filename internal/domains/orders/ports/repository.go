package ports

import (
	"context"
	"errors"

	"github.com/dispensa-escolar/pedidos-api/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// Repository persists order aggregates across the orders and order_items
// tables. Create and Delete are transactional: either the header and all of
// its items are written/removed, or nothing is.
type Repository interface {
	Create(ctx context.Context, order *domain.Order) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*domain.Order, error)
}
