package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"         json:"_id"`
	Name        string          `gorm:"not null"                     json:"name"`
	Price       decimal.Decimal `gorm:"type:numeric;not null"        json:"price"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `gorm:"index"                        json:"createdAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (Product) TableName() string {
	return "products"
}

type LineItem struct {
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image"`
}

func NewLineItem(p Product, quantity int) LineItem {
	return LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  quantity,
		Image:     p.Image,
	}
}

func (li LineItem) Subtotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

type LineItems []LineItem

func (items LineItems) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Subtotal())
	}
	return sum
}

func (items LineItems) index(productID uuid.UUID) int {
	for i := range items {
		if items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (items LineItems) Clone() LineItems {
	if items == nil {
		return nil
	}
	out := make(LineItems, len(items))
	copy(out, items)
	return out
}
