package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusShipped   OrderStatus = "shipped"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusShipped:
		return true
	}
	return false
}

type Order struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"             json:"id"`
	Name      string          `gorm:"not null"                         json:"name"`
	Email     string          `gorm:"not null"                         json:"email"`
	Items     LineItems       `gorm:"serializer:json;not null"         json:"items"`
	Total     decimal.Decimal `gorm:"type:numeric;not null"            json:"total"`
	Status    OrderStatus     `gorm:"not null;default:completed"       json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Status == "" {
		o.Status = OrderStatusCompleted
	}
	if !o.Status.Valid() {
		return fmt.Errorf("order status %q is not valid", o.Status)
	}
	return nil
}

func (Order) TableName() string {
	return "orders"
}

func NewOrder(name, email string, items LineItems, now time.Time) *Order {
	snapshot := items.Clone()
	if snapshot == nil {
		snapshot = LineItems{}
	}
	return &Order{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Items:     snapshot,
		Total:     snapshot.Sum().Round(2),
		Status:    OrderStatusCompleted,
		CreatedAt: now,
	}
}
