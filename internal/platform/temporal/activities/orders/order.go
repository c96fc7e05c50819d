package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	"github.com/dispensa-escolar/pedidos-api/internal/domains/orders/ports"
)

// PersistOrderActivityName stores a new order aggregate transactionally.
const PersistOrderActivityName = "orders.activities.PersistOrder"

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service ports.Service
}

// NewActivities wires the orders service into the Temporal activities bundle.
func NewActivities(service ports.Service) *Activities {
	return &Activities{service: service}
}

// PersistOrder stores a new order aggregate and returns its id.
func (a *Activities) PersistOrder(ctx context.Context, input ports.CreateOrderInput) (int64, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order persist activity not initialized")
		return 0, errors.New("order persist activity not initialized")
	}
	logger.Info("PersistOrder activity started", "unit", input.Unit, "items", len(input.Items))
	id, err := a.service.CreateOrder(ctx, input)
	if err != nil {
		logger.Error("PersistOrder activity failed", "unit", input.Unit, "error", err)
		return 0, err
	}
	logger.Info("PersistOrder activity completed", "orderId", id)
	return id, nil
}
