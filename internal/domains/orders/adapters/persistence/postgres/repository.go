package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/dispensa-escolar/pedidos-api/internal/domains/orders/domain"
	"github.com/dispensa-escolar/pedidos-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM. The header and item
// rows of one order always change together inside a single transaction.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&orderRecord{}, &orderItemRecord{})
	}
	return repo
}

// orderRecord maps the order header to the orders table.
type orderRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	Requester string    `gorm:"column:requester;type:varchar(255)"`
	OrderDate string    `gorm:"column:order_date;type:varchar(10)"`
	Unit      string    `gorm:"column:unit;type:varchar(255)"`
	Notes     string    `gorm:"column:notes;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
}

func (orderRecord) TableName() string { return "orders" }

// orderItemRecord maps one line entry to the order_items table. The
// autoincrement id doubles as the insertion sequence used for ordering.
type orderItemRecord struct {
	ID        int64  `gorm:"primaryKey;column:id"`
	OrderID   int64  `gorm:"column:order_id;index:idx_order_items_order"`
	ItemName  string `gorm:"column:item_name;type:varchar(255)"`
	ItemLabel string `gorm:"column:item_label;type:varchar(255)"`
	Quantity  string `gorm:"column:quantity;type:varchar(64)"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// Create inserts the header and every item inside one transaction. Any
// failure rolls the whole order back; no partial order is ever visible.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	if order == nil {
		return 0, errors.New("order is nil")
	}
	record := toRecord(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		// Items are inserted one at a time, in input order, so their
		// autoincrement ids preserve the insertion sequence.
		for _, item := range order.Items {
			itemRecord := toItemRecord(record.ID, item)
			if err := tx.Create(&itemRecord).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return record.ID, nil
}

// GetByID fetches one order with its items in insertion order.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	items, err := r.itemsFor(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	return record.toDomain(items), nil
}

// Delete removes the item rows and the header inside one transaction. When
// the header delete affects zero rows the transaction rolls back and
// ErrNotFound is returned, so an item-only orphan cleanup never reports
// success for a missing order.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&orderItemRecord{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&orderRecord{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrNotFound
		}
		return nil
	})
}

// List returns all orders newest first, each with its items attached. The
// per-order item lookup mirrors the header read at the time of the read;
// no isolation is guaranteed across orders under concurrent writes.
func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		items, err := r.itemsFor(ctx, records[i].ID)
		if err != nil {
			return nil, err
		}
		orders = append(orders, records[i].toDomain(items))
	}
	return orders, nil
}

func (r *Repository) itemsFor(ctx context.Context, orderID int64) ([]orderItemRecord, error) {
	var items []orderItemRecord
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:        order.ID,
		Requester: order.Requester,
		OrderDate: order.OrderDate,
		Unit:      order.Unit,
		Notes:     order.Notes,
	}
}

func toItemRecord(orderID int64, item domain.OrderItem) orderItemRecord {
	return orderItemRecord{
		OrderID:   orderID,
		ItemName:  item.Name,
		ItemLabel: item.Label,
		Quantity:  item.Quantity,
	}
}

func (r orderRecord) toDomain(items []orderItemRecord) *domain.Order {
	order := &domain.Order{
		ID:        r.ID,
		Requester: r.Requester,
		OrderDate: r.OrderDate,
		Unit:      r.Unit,
		Notes:     r.Notes,
		CreatedAt: r.CreatedAt,
		Items:     make([]domain.OrderItem, 0, len(items)),
	}
	for _, item := range items {
		order.Items = append(order.Items, domain.OrderItem{
			Name:     item.ItemName,
			Label:    item.ItemLabel,
			Quantity: item.Quantity,
		})
	}
	return order
}
