package migrations

import (
	"time"

	"gorm.io/gorm"
)

// Run applies the orders schema. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&orderRecord{},
		&orderItemRecord{},
	)
}

// Order header schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	Requester string    `gorm:"column:requester;type:varchar(255)"`
	OrderDate string    `gorm:"column:order_date;type:varchar(10)"`
	Unit      string    `gorm:"column:unit;type:varchar(255)"`
	Notes     string    `gorm:"column:notes;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
}

func (orderRecord) TableName() string { return "orders" }

// Order item schema mirrors the orders Postgres adapter. The autoincrement id
// doubles as the insertion sequence.
type orderItemRecord struct {
	ID        int64  `gorm:"primaryKey;column:id"`
	OrderID   int64  `gorm:"column:order_id;index:idx_order_items_order"`
	ItemName  string `gorm:"column:item_name;type:varchar(255)"`
	ItemLabel string `gorm:"column:item_label;type:varchar(255)"`
	Quantity  string `gorm:"column:quantity;type:varchar(64)"`
}

func (orderItemRecord) TableName() string { return "order_items" }
