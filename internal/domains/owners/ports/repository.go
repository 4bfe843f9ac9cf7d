package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-dog-registry/internal/domains/owners/domain"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/pagination"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/specification"
)

var (
	ErrNotFound = errors.New("owner not found")
	// ErrDuplicateEmail is returned when the unique email index rejects a write.
	ErrDuplicateEmail = errors.New("owner email already registered")
)

// Repository persists owners. Reads return the owner together with its dogs.
type Repository interface {
	Save(ctx context.Context, owner *domain.Owner) (*domain.Owner, error)
	GetByID(ctx context.Context, id int64) (*domain.Owner, error)
	// FindByEmail matches emails case-insensitively.
	FindByEmail(ctx context.Context, email string) (*domain.Owner, error)
	// Delete removes the owner and its dogs in one transaction.
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, page pagination.Request) (pagination.Page[*domain.Owner], error)
	Search(ctx context.Context, spec specification.Specification[*domain.Owner]) ([]*domain.Owner, error)
}
