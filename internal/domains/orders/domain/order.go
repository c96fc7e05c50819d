package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode"
)

var (
	ErrMissingRequester = errors.New("requester is required")
	ErrMissingDate      = errors.New("order date is required")
	ErrInvalidDate      = errors.New("order date must use the YYYY-MM-DD format")
	ErrMissingUnit      = errors.New("unit is required")
	ErrNoItems          = errors.New("an order must contain at least one item")
	ErrInvalidItem      = errors.New("every order item requires a name and a quantity")
	ErrInvalidID        = errors.New("order id must be a positive integer")
)

// datePattern checks shape only. Calendar validity is deliberately not
// enforced ("2024-02-31" passes), matching the system this service replaced.
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Order models one requisition header together with its line items.
type Order struct {
	ID        int64
	Requester string
	OrderDate string
	Unit      string
	Notes     string
	CreatedAt time.Time
	Items     []OrderItem
}

// OrderItem is one line entry owned by exactly one Order. Quantity stays a
// verbatim string so entries like "2 caixas" keep their unit suffix.
type OrderItem struct {
	Name     string
	Label    string
	Quantity string
}

// NewOrder sanitizes the inputs, defaults each item label to its name, and
// validates the resulting aggregate.
func NewOrder(requester, orderDate, unit, notes string, items []OrderItem) (*Order, error) {
	order := &Order{
		Requester: Sanitize(requester),
		OrderDate: strings.TrimSpace(orderDate),
		Unit:      Sanitize(unit),
		Notes:     Sanitize(notes),
		Items:     make([]OrderItem, 0, len(items)),
	}
	for _, item := range items {
		name := Sanitize(item.Name)
		label := Sanitize(item.Label)
		if label == "" {
			label = name
		}
		order.Items = append(order.Items, OrderItem{
			Name:     name,
			Label:    label,
			Quantity: Sanitize(item.Quantity),
		})
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces the aggregate invariants: required header fields, date
// shape, and at least one complete item.
func (o *Order) Validate() error {
	if o.Requester == "" {
		return ErrMissingRequester
	}
	if o.OrderDate == "" {
		return ErrMissingDate
	}
	if !ValidDate(o.OrderDate) {
		return ErrInvalidDate
	}
	if o.Unit == "" {
		return ErrMissingUnit
	}
	if len(o.Items) == 0 {
		return ErrNoItems
	}
	for _, item := range o.Items {
		if item.Name == "" || item.Quantity == "" {
			return ErrInvalidItem
		}
	}
	return nil
}

// ValidDate reports whether s matches YYYY-MM-DD.
func ValidDate(s string) bool {
	return datePattern.MatchString(s)
}

// Sanitize strips control characters and trims surrounding whitespace.
// It is idempotent: Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(cleaned)
}

// ValidateID rejects identifiers that cannot address a persisted order.
func ValidateID(id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}
	return nil
}
