package ports

import (
	"context"

	dogtypes "github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/application/types"
	dogdomain "github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/domain"
	ownertypes "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/application/types"
	"github.com/Apurer/go-gin-dog-registry/internal/domains/owners/domain"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/pagination"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/principal"
)

// Service exposes owner use cases to adapters.
type Service interface {
	Create(ctx context.Context, owner *domain.Owner) (*domain.Owner, error)
	Get(ctx context.Context, id int64) (*domain.Owner, error)
	GetByEmail(ctx context.Context, email string) (*domain.Owner, error)
	List(ctx context.Context, page pagination.Request) (pagination.Page[*domain.Owner], error)
	Search(ctx context.Context, filter domain.Filter) ([]*domain.Owner, error)
	Update(ctx context.Context, id int64, patch domain.Patch) (*domain.Owner, error)
	Delete(ctx context.Context, id int64) error
	// VerifyOwnerDoesNotExist fails with AlreadyExists when email is taken.
	VerifyOwnerDoesNotExist(ctx context.Context, email string) error
	// VerifyOwnerConsistency fails with NotFound for a missing owner and
	// Forbidden when the owner is registered under another email.
	VerifyOwnerConsistency(ctx context.Context, ownerID int64, email string) error
	FindOwnerID(ctx context.Context, email string) (int64, error)
}

// Facade gates owner use cases on the calling principal and coordinates the
// identity provider.
type Facade interface {
	CreateOwner(ctx context.Context, input ownertypes.CreateOwnerInput) (*domain.Owner, error)
	Get(ctx context.Context, caller principal.Principal, id int64) (*domain.Owner, error)
	List(ctx context.Context, page pagination.Request) (pagination.Page[*domain.Owner], error)
	Search(ctx context.Context, filter domain.Filter) ([]*domain.Owner, error)
	Update(ctx context.Context, caller principal.Principal, id int64, patch domain.Patch) (*domain.Owner, error)
	Delete(ctx context.Context, caller principal.Principal, id int64) error
	UpdateRoles(ctx context.Context, change ownertypes.RoleChange) error
	AddDog(ctx context.Context, caller principal.Principal, ownerID int64, input dogtypes.CreateDogInput) (*dogdomain.Dog, error)
}
