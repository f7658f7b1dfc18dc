package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/giovassz/inventario/internal/adapters/mongo/document"
	"github.com/giovassz/inventario/internal/adapters/outbox"
	"github.com/giovassz/inventario/internal/core/domain"
	"github.com/giovassz/inventario/internal/core/logger"
	"github.com/giovassz/inventario/internal/core/port"
)

type ProductRepository struct {
	*BaseRepository[document.ProductDocument]
	collection *mongo.Collection
	outbox     outbox.Repository
}

func NewProductRepository(db *mongo.Database, outbox outbox.Repository) port.ProductPort {
	repo := &ProductRepository{
		BaseRepository: NewBaseRepository[document.ProductDocument](db, "products"),
		collection:     db.Collection("products"),
		outbox:         outbox,
	}

	if err := repo.createIndexes(context.Background()); err != nil {
		logger.Error(context.Background(), "failed to create indexes", err, map[string]any{
			"collection": "products",
		})
	}

	return repo
}

func (r *ProductRepository) createIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetUnique(false),
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if product.ID != "" {
		return errors.New("cannot create product with existing ID")
	}

	doc := document.ToProductDocument(product)

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return parseError(err)
	}

	product.ID = domain.ID(result.InsertedID.(primitive.ObjectID).Hex())

	return r.recordEvent(ctx, domain.NewProductCreatedEvent(product))
}

func (r *ProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	return r.list(ctx, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

func (r *ProductRepository) ListRecent(ctx context.Context, limit int64) ([]*domain.Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	return r.list(ctx, opts)
}

func (r *ProductRepository) list(ctx context.Context, opts ...*options.FindOptions) ([]*domain.Product, error) {
	docs, err := r.Find(ctx, bson.M{}, opts...)
	if err != nil {
		return nil, err
	}

	products := make([]*domain.Product, len(docs))
	for i, doc := range docs {
		products[i] = doc.ToDomain()
	}

	return products, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id domain.ID) error {
	if err := r.DeleteByID(ctx, string(id)); err != nil {
		return err
	}

	return r.recordEvent(ctx, domain.NewProductDeletedEvent(id, time.Now()))
}

func (r *ProductRepository) recordEvent(ctx context.Context, event domain.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return r.outbox.Insert(ctx, outbox.Entry{
		EventName:  event.GetName(),
		EntityName: event.GetEntityName(),
		EventData:  data,
	})
}
