package ports

import (
	"context"

	"github.com/ngcore/auth-api/internal/core/domain"
)

// UpsertProductInput carries the fields a client may set on a product.
type UpsertProductInput struct {
	Name        string
	Description string
	ImageURL    string
	OutOfStock  bool
	Price       float64
}

// ProductService exposes the catalog CRUD surface guarded by the
// authorization middleware.
type ProductService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, input UpsertProductInput) (*domain.Product, error)
	// Update rejects a payload whose id does not match the path id with
	// domain.ErrProductIDMismatch.
	Update(ctx context.Context, pathID, bodyID string, input UpsertProductInput) error
	Delete(ctx context.Context, id string) (*domain.Product, error)
}
