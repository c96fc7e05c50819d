package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dispensa-escolar/pedidos-api/internal/domains/orders/domain"
	"github.com/dispensa-escolar/pedidos-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter. It mirrors the
// observable semantics of the Postgres adapter: ids ascend in creation
// order, List returns newest first, and items keep insertion order.
type Repository struct {
	mu     sync.RWMutex
	orders map[int64]*domain.Order
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{orders: map[int64]*domain.Order{}}
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (int64, error) {
	if order == nil {
		return 0, errors.New("order is nil")
	}
	clone := cloneOrder(order)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	clone.ID = r.nextID
	clone.CreatedAt = time.Now()
	r.orders[clone.ID] = clone
	return clone.ID, nil
}

// Seed inserts an order keeping its id, for fixtures that need stable ids.
func (r *Repository) Seed(order *domain.Order) {
	if order == nil || order.ID <= 0 {
		return
	}
	clone := cloneOrder(order)
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = time.Now()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.orders[clone.ID] = clone
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		list = append(list, cloneOrder(order))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.Items = append([]domain.OrderItem(nil), order.Items...)
	return &clone
}
