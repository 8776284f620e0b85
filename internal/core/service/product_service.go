package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ngcore/auth-api/internal/core/domain"
	"github.com/ngcore/auth-api/internal/core/ports"
)

type productService struct {
	repo ports.ProductRepository
	log  zerolog.Logger
}

// NewProductService returns a ProductService implementation.
func NewProductService(repo ports.ProductRepository, log zerolog.Logger) ports.ProductService {
	return &productService{repo: repo, log: log}
}

func (s *productService) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *productService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *productService) Create(ctx context.Context, input ports.UpsertProductInput) (*domain.Product, error) {
	now := time.Now().UTC()
	product := &domain.Product{
		Name:        input.Name,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		OutOfStock:  input.OutOfStock,
		Price:       input.Price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		s.log.Error().Err(err).Str("name", input.Name).Msg("failed to create product")
		return nil, err
	}

	s.log.Info().Str("product_id", created.ID).Str("name", created.Name).Msg("product created")
	return created, nil
}

func (s *productService) Update(ctx context.Context, pathID, bodyID string, input ports.UpsertProductInput) error {
	if bodyID != "" && bodyID != pathID {
		return domain.ErrProductIDMismatch
	}

	existing, err := s.repo.FindByID(ctx, pathID)
	if err != nil {
		return err
	}

	existing.Name = input.Name
	existing.Description = input.Description
	existing.ImageURL = input.ImageURL
	existing.OutOfStock = input.OutOfStock
	existing.Price = input.Price
	existing.UpdatedAt = time.Now().UTC()

	return s.repo.Update(ctx, existing)
}

func (s *productService) Delete(ctx context.Context, id string) (*domain.Product, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("product_id", id).Msg("product deleted")
	return deleted, nil
}
