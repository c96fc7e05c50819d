package ports

import "context"

// WorkflowOrchestrator runs the order creation flow, durably when a workflow
// engine is configured and inline otherwise.
type WorkflowOrchestrator interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (int64, error)
}
