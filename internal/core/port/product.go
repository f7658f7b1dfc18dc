package port

import (
	"context"

	"github.com/giovassz/inventario/internal/core/domain"
)

//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock

// ProductPort persists products. Create and Delete also record the
// matching lifecycle event in the outbox, so callers are expected to run
// them inside a transaction.
type ProductPort interface {
	Create(ctx context.Context, product *domain.Product) error
	List(ctx context.Context) ([]*domain.Product, error)
	ListRecent(ctx context.Context, limit int64) ([]*domain.Product, error)
	Delete(ctx context.Context, id domain.ID) error
}
