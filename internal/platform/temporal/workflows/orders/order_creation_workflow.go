package orders

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/dispensa-escolar/pedidos-api/internal/domains/orders/ports"
	orderactivities "github.com/dispensa-escolar/pedidos-api/internal/platform/temporal/activities/orders"
)

const (
	// OrderCreationWorkflowName is the public identifier for registering the workflow.
	OrderCreationWorkflowName = "orders.workflows.Creation"
	// OrderCreationTaskQueue is the queue consumed by the worker processing order workflows.
	OrderCreationTaskQueue = "ORDER_CREATION"
)

// OrderCreationWorkflowInput captures the payload required to persist a new order.
type OrderCreationWorkflowInput struct {
	Command ports.CreateOrderInput
	TraceID string
}

// OrderCreationWorkflow orchestrates the activity that persists an order aggregate.
func OrderCreationWorkflow(ctx workflow.Context, input OrderCreationWorkflowInput) (int64, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("OrderCreationWorkflow started", withTraceID(input.TraceID, "unit", input.Command.Unit)...)

	// Order creation carries no idempotency key, so a blind retry could
	// persist the same order twice. The activity runs at most once.
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var orderID int64
	err := workflow.ExecuteActivity(ctx, orderactivities.PersistOrderActivityName, input.Command).Get(ctx, &orderID)
	if err != nil {
		logger.Error("OrderCreationWorkflow failed", withTraceID(input.TraceID, "error", err)...)
		return 0, err
	}
	logger.Info("OrderCreationWorkflow completed", withTraceID(input.TraceID, "orderId", orderID)...)
	return orderID, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
