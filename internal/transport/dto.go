package transport

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/vibe_commerce/internal/models"
	"github.com/Skotchmaster/vibe_commerce/internal/util"
)

// Quantity accepts a JSON number or a numeric string.
type Quantity struct {
	Value int
	Set   bool
}

func (q *Quantity) UnmarshalJSON(b []byte) error {
	*q = Quantity{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		q.Value, q.Set = util.ParseLeadingInt(s)
		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return nil
	}
	q.Value, q.Set = util.TruncInt(f)
	return nil
}

type AddItemRequest struct {
	ProductID string   `json:"productId"`
	Qty       Quantity `json:"qty"`
}

type SetQuantityRequest struct {
	Qty Quantity `json:"qty"`
}

type CheckoutRequest struct {
	CartItems models.LineItems `json:"cartItems"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	CartID    string           `json:"cartId"`
}

type Receipt struct {
	ID        uuid.UUID          `json:"id"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Items     models.LineItems   `json:"items"`
	Total     decimal.Decimal    `json:"total"`
	Timestamp time.Time          `json:"timestamp"`
	Status    models.OrderStatus `json:"status"`
}

func NewReceipt(o *models.Order) Receipt {
	items := o.Items
	if items == nil {
		items = models.LineItems{}
	}
	return Receipt{
		ID:        o.ID,
		Name:      o.Name,
		Email:     o.Email,
		Items:     items,
		Total:     o.Total,
		Timestamp: o.CreatedAt,
		Status:    o.Status,
	}
}
