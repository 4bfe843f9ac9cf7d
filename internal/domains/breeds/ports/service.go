package ports

import (
	"context"

	"github.com/Apurer/go-gin-dog-registry/internal/domains/breeds/domain"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/pagination"
)

// Service exposes breed registry use cases to adapters.
type Service interface {
	Create(ctx context.Context, breed *domain.Breed) (*domain.Breed, error)
	Get(ctx context.Context, id int64) (*domain.Breed, error)
	GetByName(ctx context.Context, name string) (*domain.Breed, error)
	List(ctx context.Context, page pagination.Request) (pagination.Page[*domain.Breed], error)
	Search(ctx context.Context, filter domain.Filter) ([]*domain.Breed, error)
	Update(ctx context.Context, id int64, patch domain.Patch) (*domain.Breed, error)
	Delete(ctx context.Context, id int64) error
}
