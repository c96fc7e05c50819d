package application

import (
	"context"

	"github.com/dispensa-escolar/pedidos-api/internal/domains/orders/domain"
	"github.com/dispensa-escolar/pedidos-api/internal/domains/orders/ports"
)

// Service orchestrates the order use cases.
type Service struct {
	repo   ports.Repository
	events ports.EventPublisher
}

type Option func(*Service)

// WithEventPublisher wires an optional lifecycle event publisher.
func WithEventPublisher(events ports.EventPublisher) Option {
	return func(s *Service) {
		s.events = events
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateOrder validates and sanitizes the input, then persists the header
// and all items in one transaction. Returns the storage-assigned id.
func (s *Service) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (int64, error) {
	items := make([]domain.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, domain.OrderItem{
			Name:     item.Name,
			Label:    item.Label,
			Quantity: item.Quantity,
		})
	}
	order, err := domain.NewOrder(input.Requester, input.OrderDate, input.Unit, input.Notes, items)
	if err != nil {
		return 0, mapError(err)
	}
	id, err := s.repo.Create(ctx, order)
	if err != nil {
		return 0, err
	}
	order.ID = id
	s.publishCreated(ctx, order)
	return id, nil
}

// GetOrder loads one order with its items in insertion order.
func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	if err := domain.ValidateID(id); err != nil {
		return nil, mapError(err)
	}
	return s.repo.GetByID(ctx, id)
}

// DeleteOrder removes the header and every item row, or nothing at all.
func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	if err := domain.ValidateID(id); err != nil {
		return mapError(err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publishDeleted(ctx, id)
	return nil
}

// ListOrders returns every order, most recently created first.
func (s *Service) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.List(ctx)
}

// Event publication is best effort: the adapter logs failures and the
// committed storage operation is never undone.
func (s *Service) publishCreated(ctx context.Context, order *domain.Order) {
	if s.events == nil {
		return
	}
	_ = s.events.OrderCreated(ctx, order)
}

func (s *Service) publishDeleted(ctx context.Context, id int64) {
	if s.events == nil {
		return
	}
	_ = s.events.OrderDeleted(ctx, id)
}

var _ ports.Service = (*Service)(nil)
