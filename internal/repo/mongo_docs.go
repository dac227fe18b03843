package repo

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Skotchmaster/vibe_commerce/internal/models"
)

type productDoc struct {
	ID          string               `bson:"_id"`
	Name        string               `bson:"name"`
	Price       primitive.Decimal128 `bson:"price"`
	Image       string               `bson:"image,omitempty"`
	Description string               `bson:"description,omitempty"`
	CreatedAt   time.Time            `bson:"createdAt"`
}

type lineItemDoc struct {
	ProductID string               `bson:"productId"`
	Name      string               `bson:"name"`
	Price     primitive.Decimal128 `bson:"price"`
	Quantity  int                  `bson:"quantity"`
	Image     string               `bson:"image,omitempty"`
}

type cartDoc struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	CartKey   string               `bson:"cartId"`
	Items     []lineItemDoc        `bson:"items"`
	Total     primitive.Decimal128 `bson:"total"`
	Version   int64                `bson:"version"`
	UpdatedAt time.Time            `bson:"updatedAt"`
}

type orderDoc struct {
	ID        string               `bson:"_id"`
	Name      string               `bson:"name"`
	Email     string               `bson:"email"`
	Items     []lineItemDoc        `bson:"items"`
	Total     primitive.Decimal128 `bson:"total"`
	Status    string               `bson:"status"`
	CreatedAt time.Time            `bson:"createdAt"`
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("encode decimal %s: %w", d, err)
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("decode decimal %s: %w", v, err)
	}
	return d, nil
}

func parseDocID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("decode id %q: %w", s, err)
	}
	return id, nil
}

func toProductDoc(p models.Product) (productDoc, error) {
	price, err := toDecimal128(p.Price)
	if err != nil {
		return productDoc{}, err
	}
	return productDoc{
		ID:          p.ID.String(),
		Name:        p.Name,
		Price:       price,
		Image:       p.Image,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}, nil
}

func (d productDoc) model() (models.Product, error) {
	id, err := parseDocID(d.ID)
	if err != nil {
		return models.Product{}, err
	}
	price, err := fromDecimal128(d.Price)
	if err != nil {
		return models.Product{}, err
	}
	return models.Product{
		ID:          id,
		Name:        d.Name,
		Price:       price,
		Image:       d.Image,
		Description: d.Description,
		CreatedAt:   d.CreatedAt.UTC(),
	}, nil
}

func toLineItemDocs(items models.LineItems) ([]lineItemDoc, error) {
	out := make([]lineItemDoc, 0, len(items))
	for _, it := range items {
		price, err := toDecimal128(it.Price)
		if err != nil {
			return nil, err
		}
		out = append(out, lineItemDoc{
			ProductID: it.ProductID.String(),
			Name:      it.Name,
			Price:     price,
			Quantity:  it.Quantity,
			Image:     it.Image,
		})
	}
	return out, nil
}

func lineItemsFromDocs(docs []lineItemDoc) (models.LineItems, error) {
	out := make(models.LineItems, 0, len(docs))
	for _, d := range docs {
		id, err := parseDocID(d.ProductID)
		if err != nil {
			return nil, err
		}
		price, err := fromDecimal128(d.Price)
		if err != nil {
			return nil, err
		}
		out = append(out, models.LineItem{
			ProductID: id,
			Name:      d.Name,
			Price:     price,
			Quantity:  d.Quantity,
			Image:     d.Image,
		})
	}
	return out, nil
}

func toCartDoc(c *models.Cart) (cartDoc, error) {
	items, err := toLineItemDocs(c.Items)
	if err != nil {
		return cartDoc{}, err
	}
	total, err := toDecimal128(c.Total)
	if err != nil {
		return cartDoc{}, err
	}
	return cartDoc{
		CartKey:   c.CartKey,
		Items:     items,
		Total:     total,
		Version:   c.Version,
		UpdatedAt: c.UpdatedAt,
	}, nil
}

func (d cartDoc) model() (*models.Cart, error) {
	items, err := lineItemsFromDocs(d.Items)
	if err != nil {
		return nil, err
	}
	total, err := fromDecimal128(d.Total)
	if err != nil {
		return nil, err
	}
	return &models.Cart{
		CartKey:   d.CartKey,
		Items:     items,
		Total:     total,
		Version:   d.Version,
		UpdatedAt: d.UpdatedAt.UTC(),
	}, nil
}

func toOrderDoc(o *models.Order) (orderDoc, error) {
	if !o.Status.Valid() {
		return orderDoc{}, fmt.Errorf("order status %q is not valid", o.Status)
	}
	items, err := toLineItemDocs(o.Items)
	if err != nil {
		return orderDoc{}, err
	}
	total, err := toDecimal128(o.Total)
	if err != nil {
		return orderDoc{}, err
	}
	return orderDoc{
		ID:        o.ID.String(),
		Name:      o.Name,
		Email:     o.Email,
		Items:     items,
		Total:     total,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
	}, nil
}

func (d orderDoc) model() (*models.Order, error) {
	status := models.OrderStatus(d.Status)
	if !status.Valid() {
		return nil, fmt.Errorf("decode order %s: unknown status %q", d.ID, d.Status)
	}
	id, err := parseDocID(d.ID)
	if err != nil {
		return nil, err
	}
	items, err := lineItemsFromDocs(d.Items)
	if err != nil {
		return nil, err
	}
	total, err := fromDecimal128(d.Total)
	if err != nil {
		return nil, err
	}
	return &models.Order{
		ID:        id,
		Name:      d.Name,
		Email:     d.Email,
		Items:     items,
		Total:     total,
		Status:    status,
		CreatedAt: d.CreatedAt.UTC(),
	}, nil
}
