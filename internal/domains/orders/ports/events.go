package ports

import (
	"context"

	"github.com/dispensa-escolar/pedidos-api/internal/domains/orders/domain"
)

// EventPublisher broadcasts order lifecycle events to interested systems.
// Publishing happens after the owning transaction committed; failures are
// logged by the adapter and never undo the storage operation.
type EventPublisher interface {
	OrderCreated(ctx context.Context, order *domain.Order) error
	OrderDeleted(ctx context.Context, id int64) error
}
