package ports

import (
	"context"

	dogtypes "github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/application/types"
	"github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/domain"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/pagination"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/principal"
)

// Service defines the dog use cases exposed to adapters (inbound/driving port).
type Service interface {
	Create(ctx context.Context, input dogtypes.CreateDogInput) (*domain.Dog, error)
	Get(ctx context.Context, id int64) (*domain.Dog, error)
	List(ctx context.Context, page pagination.Request) (pagination.Page[*domain.Dog], error)
	ListByOwner(ctx context.Context, ownerID int64, page pagination.Request) (pagination.Page[*domain.Dog], error)
	Search(ctx context.Context, filter domain.Filter) ([]*domain.Dog, error)
	Update(ctx context.Context, id int64, patch domain.Patch) (*domain.Dog, error)
	Delete(ctx context.Context, id int64) error
}

// Facade gates dog use cases on the calling principal.
type Facade interface {
	Create(ctx context.Context, input dogtypes.CreateDogInput) (*domain.Dog, error)
	Get(ctx context.Context, caller principal.Principal, id int64) (*domain.Dog, error)
	List(ctx context.Context, caller principal.Principal, page pagination.Request) (pagination.Page[*domain.Dog], error)
	Search(ctx context.Context, filter domain.Filter) ([]*domain.Dog, error)
	Update(ctx context.Context, caller principal.Principal, id int64, patch domain.Patch) (*domain.Dog, error)
	Delete(ctx context.Context, caller principal.Principal, id int64) error
}
