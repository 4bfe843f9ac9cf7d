package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-dog-registry/internal/domains/breeds/domain"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/pagination"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/specification"
)

var (
	ErrNotFound = errors.New("breed not found")
	// ErrDuplicateName is returned when the unique name index rejects a write.
	ErrDuplicateName = errors.New("breed name already taken")
)

// Repository persists the breed registry.
type Repository interface {
	Save(ctx context.Context, breed *domain.Breed) (*domain.Breed, error)
	GetByID(ctx context.Context, id int64) (*domain.Breed, error)
	// FindByName matches names case-insensitively.
	FindByName(ctx context.Context, name string) (*domain.Breed, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, page pagination.Request) (pagination.Page[*domain.Breed], error)
	Search(ctx context.Context, spec specification.Specification[*domain.Breed]) ([]*domain.Breed, error)
}
