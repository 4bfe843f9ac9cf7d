package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/domain"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/pagination"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/specification"
)

var ErrNotFound = errors.New("dog not found")

type Repository interface {
	Save(ctx context.Context, dog *domain.Dog) (*domain.Dog, error)
	GetByID(ctx context.Context, id int64) (*domain.Dog, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, page pagination.Request) (pagination.Page[*domain.Dog], error)
	ListByOwner(ctx context.Context, ownerID int64, page pagination.Request) (pagination.Page[*domain.Dog], error)
	Search(ctx context.Context, spec specification.Specification[*domain.Dog]) ([]*domain.Dog, error)
}
