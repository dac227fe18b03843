package repo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Skotchmaster/vibe_commerce/internal/domain"
	"github.com/Skotchmaster/vibe_commerce/internal/models"
)

type MongoRepo struct {
	db       *mongo.Database
	products *mongo.Collection
	carts    *mongo.Collection
	orders   *mongo.Collection
}

func OpenMongo(ctx context.Context, uri, database string) (*MongoRepo, error) {
	if uri == "" {
		return nil, fmt.Errorf("MONGO_URI is empty")
	}

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return NewMongoRepo(client.Database(database)), nil
}

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{
		db:       db,
		products: db.Collection("products"),
		carts:    db.Collection("carts"),
		orders:   db.Collection("orders"),
	}
}

func (r *MongoRepo) Migrate(ctx context.Context) error {
	if _, err := r.carts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "cartId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("carts index: %w", translateMongo(err))
	}
	if _, err := r.products.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}},
	}); err != nil {
		return fmt.Errorf("products index: %w", translateMongo(err))
	}
	return nil
}

func (r *MongoRepo) Ping(ctx context.Context) error {
	return translateMongo(r.db.Client().Ping(ctx, readpref.Primary()))
}

func (r *MongoRepo) DropDatabase(ctx context.Context) error {
	return translateMongo(r.db.Drop(ctx))
}

func (r *MongoRepo) Close(ctx context.Context) error {
	return r.db.Client().Disconnect(ctx)
}

func (r *MongoRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var doc productDoc
	if err := r.products.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		return nil, translateMongo(err)
	}
	p, err := doc.model()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *MongoRepo) ListProducts(ctx context.Context, q string) ([]models.Product, error) {
	filter := bson.M{}
	if q = strings.TrimSpace(q); q != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
		filter = bson.M{"$or": bson.A{
			bson.M{"name": re},
			bson.M{"description": re},
		}}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.products.Find(ctx, filter, opts)
	if err != nil {
		return nil, translateMongo(err)
	}

	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, translateMongo(err)
	}

	items := make([]models.Product, 0, len(docs))
	for _, d := range docs {
		p, err := d.model()
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, nil
}

func (r *MongoRepo) CountProducts(ctx context.Context) (int64, error) {
	n, err := r.products.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, translateMongo(err)
	}
	return n, nil
}

func (r *MongoRepo) CreateProducts(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(products))
	for i := range products {
		if products[i].ID == uuid.Nil {
			products[i].ID = uuid.New()
		}
		if products[i].CreatedAt.IsZero() {
			products[i].CreatedAt = now
		}
		doc, err := toProductDoc(products[i])
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}

	_, err := r.products.InsertMany(ctx, docs)
	return translateMongo(err)
}

func (r *MongoRepo) GetOrCreateCart(ctx context.Context, key string) (*models.Cart, error) {
	empty, err := toCartDoc(models.NewCart(key, time.Now().UTC()))
	if err != nil {
		return nil, err
	}

	update := bson.M{"$setOnInsert": bson.M{
		"items":     empty.Items,
		"total":     empty.Total,
		"version":   empty.Version,
		"updatedAt": empty.UpdatedAt,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	for attempt := 0; attempt < maxCartAttempts; attempt++ {
		var doc cartDoc
		err = r.carts.FindOneAndUpdate(ctx, bson.M{"cartId": key}, update, opts).Decode(&doc)
		if err == nil {
			return doc.model()
		}
		// concurrent upserts on a unique key: one wins, the rest re-read
		if !mongo.IsDuplicateKeyError(err) {
			break
		}
	}
	return nil, translateMongo(err)
}

func (r *MongoRepo) UpdateCart(ctx context.Context, key string, create bool, fn func(*models.Cart) error) (*models.Cart, error) {
	for attempt := 0; attempt < maxCartAttempts; attempt++ {
		var doc cartDoc
		err := r.carts.FindOne(ctx, bson.M{"cartId": key}).Decode(&doc)
		exists := true
		switch {
		case errors.Is(err, mongo.ErrNoDocuments) && create:
			exists = false
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, fmt.Errorf("cart %s: %w", key, domain.ErrNotFound)
		case err != nil:
			return nil, translateMongo(err)
		}

		var cart *models.Cart
		if exists {
			if cart, err = doc.model(); err != nil {
				return nil, err
			}
		} else {
			cart = models.NewCart(key, time.Now().UTC())
		}

		prev := cart.Version
		if err := fn(cart); err != nil {
			return nil, err
		}
		cart.Version = prev + 1

		next, err := toCartDoc(cart)
		if err != nil {
			return nil, err
		}

		if !exists {
			_, err := r.carts.InsertOne(ctx, next)
			if mongo.IsDuplicateKeyError(err) {
				continue
			}
			if err != nil {
				return nil, translateMongo(err)
			}
			return cart, nil
		}

		res, err := r.carts.ReplaceOne(ctx, bson.M{"cartId": key, "version": prev}, next)
		if err != nil {
			return nil, translateMongo(err)
		}
		if res.MatchedCount == 1 {
			return cart, nil
		}
	}
	return nil, fmt.Errorf("cart %s: too many concurrent updates: %w", key, domain.ErrConflict)
}

func (r *MongoRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	doc, err := toOrderDoc(order)
	if err != nil {
		return err
	}
	_, err = r.orders.InsertOne(ctx, doc)
	return translateMongo(err)
}

func (r *MongoRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var doc orderDoc
	if err := r.orders.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		return nil, translateMongo(err)
	}
	return doc.model()
}

func translateMongo(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrNotFound
	case mongo.IsNetworkError(err),
		mongo.IsTimeout(err),
		errors.Is(err, mongo.ErrClientDisconnected),
		errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	default:
		return err
	}
}
