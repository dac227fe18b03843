package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/vibe_commerce/internal/domain"
)

type Cart struct {
	ID        uint            `gorm:"primaryKey"                   json:"-"`
	CartKey   string          `gorm:"uniqueIndex;not null"         json:"cartId"`
	Items     LineItems       `gorm:"serializer:json;not null"     json:"items"`
	Total     decimal.Decimal `gorm:"type:numeric;not null"        json:"total"`
	Version   int64           `gorm:"not null;default:0"           json:"-"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (Cart) TableName() string {
	return "carts"
}

func NewCart(key string, now time.Time) *Cart {
	return &Cart{
		CartKey:   key,
		Items:     LineItems{},
		Total:     decimal.Zero,
		UpdatedAt: now,
	}
}

func (c *Cart) AddItem(p Product, quantity int, now time.Time) {
	if i := c.Items.index(p.ID); i >= 0 {
		c.Items[i].Quantity += quantity
	} else {
		c.Items = append(c.Items, NewLineItem(p, quantity))
	}
	c.touch(now)
}

func (c *Cart) RemoveItem(productID uuid.UUID, now time.Time) {
	kept := make(LineItems, 0, len(c.Items))
	for _, it := range c.Items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	c.Items = kept
	c.touch(now)
}

// SetQuantity sets an absolute quantity; anything <= 0 removes the line.
func (c *Cart) SetQuantity(productID uuid.UUID, quantity int, now time.Time) error {
	i := c.Items.index(productID)
	if i < 0 {
		return fmt.Errorf("item %s not in cart: %w", productID, domain.ErrNotFound)
	}
	if quantity <= 0 {
		c.RemoveItem(productID, now)
		return nil
	}
	c.Items[i].Quantity = quantity
	c.touch(now)
	return nil
}

func (c *Cart) Reset(now time.Time) {
	c.Items = LineItems{}
	c.touch(now)
}

func (c *Cart) touch(now time.Time) {
	if c.Items == nil {
		c.Items = LineItems{}
	}
	c.Total = c.Items.Sum()
	c.UpdatedAt = now
}
