package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dispensa-escolar/pedidos-api/internal/domains/orders/domain"
	"github.com/dispensa-escolar/pedidos-api/internal/domains/orders/ports"
)

type fakeOrderRepo struct {
	orders    map[int64]*domain.Order
	nextID    int64
	createErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[int64]*domain.Order{}}
}

func (f *fakeOrderRepo) Create(_ context.Context, order *domain.Order) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.nextID++
	clone := *order
	clone.ID = f.nextID
	clone.Items = append([]domain.OrderItem(nil), order.Items...)
	f.orders[clone.ID] = &clone
	return clone.ID, nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *order
	return &clone, nil
}

func (f *fakeOrderRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.orders[id]; !ok {
		return ports.ErrNotFound
	}
	delete(f.orders, id)
	return nil
}

func (f *fakeOrderRepo) List(_ context.Context) ([]*domain.Order, error) {
	var list []*domain.Order
	for _, order := range f.orders {
		clone := *order
		list = append(list, &clone)
	}
	return list, nil
}

type recordingPublisher struct {
	created []int64
	deleted []int64
}

func (p *recordingPublisher) OrderCreated(_ context.Context, order *domain.Order) error {
	p.created = append(p.created, order.ID)
	return nil
}

func (p *recordingPublisher) OrderDeleted(_ context.Context, id int64) error {
	p.deleted = append(p.deleted, id)
	return nil
}

func validInput() ports.CreateOrderInput {
	return ports.CreateOrderInput{
		Requester: "Ana",
		OrderDate: "2024-03-01",
		Unit:      "Kitchen",
		Items: []ports.CreateOrderItemInput{
			{Name: "rice", Quantity: "5kg"},
		},
	}
}

func TestCreateOrder_PersistsAndReturnsID(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo)

	id, err := svc.CreateOrder(context.Background(), validInput())
	require.NoError(t, err)
	assert.Positive(t, id)

	stored, err := svc.GetOrder(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Ana", stored.Requester)
	assert.Equal(t, "2024-03-01", stored.OrderDate)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "rice", stored.Items[0].Name)
	assert.Equal(t, "rice", stored.Items[0].Label)
	assert.Equal(t, "5kg", stored.Items[0].Quantity)
}

func TestCreateOrder_EmptyItems(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo)

	input := validInput()
	input.Items = nil
	_, err := svc.CreateOrder(context.Background(), input)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrNoItems)
	assert.Empty(t, repo.orders, "no row may be persisted on validation failure")
}

func TestCreateOrder_WrongDateFormat(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo)

	input := validInput()
	input.OrderDate = "03-01-2024"
	_, err := svc.CreateOrder(context.Background(), input)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidDate)
	assert.Empty(t, repo.orders)
}

func TestCreateOrder_MalformedItem(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo)

	input := validInput()
	input.Items = append(input.Items, ports.CreateOrderItemInput{Name: "beans"})
	_, err := svc.CreateOrder(context.Background(), input)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidItem)
	assert.Empty(t, repo.orders)
}

func TestCreateOrder_StorageFailurePassesThrough(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.createErr = errors.New("connection reset")
	svc := NewService(repo)

	_, err := svc.CreateOrder(context.Background(), validInput())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidInput)
}

func TestCreateOrder_PublishesEvent(t *testing.T) {
	repo := newFakeOrderRepo()
	events := &recordingPublisher{}
	svc := NewService(repo, WithEventPublisher(events))

	id, err := svc.CreateOrder(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, []int64{id}, events.created)
}

func TestGetOrder_InvalidID(t *testing.T) {
	svc := NewService(newFakeOrderRepo())

	for _, id := range []int64{0, -1} {
		_, err := svc.GetOrder(context.Background(), id)
		require.ErrorIs(t, err, ErrInvalidInput)
		require.ErrorIs(t, err, domain.ErrInvalidID)
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	svc := NewService(newFakeOrderRepo())

	_, err := svc.GetOrder(context.Background(), 42)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestDeleteOrder_Twice(t *testing.T) {
	repo := newFakeOrderRepo()
	events := &recordingPublisher{}
	svc := NewService(repo, WithEventPublisher(events))

	id, err := svc.CreateOrder(context.Background(), validInput())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrder(context.Background(), id))
	assert.Equal(t, []int64{id}, events.deleted)

	err = svc.DeleteOrder(context.Background(), id)
	require.ErrorIs(t, err, ports.ErrNotFound)
	assert.Len(t, events.deleted, 1, "no event for a delete that found nothing")
}

func TestDeleteOrder_InvalidID(t *testing.T) {
	svc := NewService(newFakeOrderRepo())

	err := svc.DeleteOrder(context.Background(), 0)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestListOrders_Empty(t *testing.T) {
	svc := NewService(newFakeOrderRepo())

	orders, err := svc.ListOrders(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
}
