package application

import (
	"context"
	"errors"

	types "github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/application/types"
	"github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/domain"
	"github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/ports"
	apierrors "github.com/Apurer/go-gin-dog-registry/internal/shared/errors"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/pagination"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/principal"
)

// Facade applies the ownership rules on top of the dog service. Admins bypass
// every check; other callers only reach dogs of the owner registered under
// their email.
type Facade struct {
	dogs   ports.Service
	owners ports.OwnerDirectory
}

func NewFacade(dogs ports.Service, owners ports.OwnerDirectory) *Facade {
	return &Facade{dogs: dogs, owners: owners}
}

// Create registers a dog without an owner.
func (f *Facade) Create(ctx context.Context, input types.CreateDogInput) (*domain.Dog, error) {
	input.OwnerID = nil
	return f.dogs.Create(ctx, input)
}

func (f *Facade) Get(ctx context.Context, caller principal.Principal, id int64) (*domain.Dog, error) {
	dog, err := f.dogs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := f.authorize(ctx, caller, dog); err != nil {
		return nil, err
	}
	return dog, nil
}

// List returns every dog to admins and the caller's own dogs otherwise.
func (f *Facade) List(ctx context.Context, caller principal.Principal, page pagination.Request) (pagination.Page[*domain.Dog], error) {
	if caller.IsAdmin() {
		return f.dogs.List(ctx, page)
	}
	ownerID, err := f.owners.FindOwnerID(ctx, caller.Email)
	if errors.Is(err, apierrors.ErrNotFound) {
		return pagination.New([]*domain.Dog{}, page.Normalize(), 0), nil
	}
	if err != nil {
		return pagination.Page[*domain.Dog]{}, err
	}
	return f.dogs.ListByOwner(ctx, ownerID, page)
}

func (f *Facade) Search(ctx context.Context, filter domain.Filter) ([]*domain.Dog, error) {
	return f.dogs.Search(ctx, filter)
}

func (f *Facade) Update(ctx context.Context, caller principal.Principal, id int64, patch domain.Patch) (*domain.Dog, error) {
	dog, err := f.dogs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := f.authorize(ctx, caller, dog); err != nil {
		return nil, err
	}
	return f.dogs.Update(ctx, id, patch)
}

func (f *Facade) Delete(ctx context.Context, caller principal.Principal, id int64) error {
	dog, err := f.dogs.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := f.authorize(ctx, caller, dog); err != nil {
		return err
	}
	return f.dogs.Delete(ctx, id)
}

func (f *Facade) authorize(ctx context.Context, caller principal.Principal, dog *domain.Dog) error {
	if caller.IsAdmin() {
		return nil
	}
	if dog.OwnerID == nil {
		return apierrors.NewForbidden("dog is not linked to an owner")
	}
	return f.owners.VerifyOwnerConsistency(ctx, *dog.OwnerID, caller.Email)
}

var _ ports.Facade = (*Facade)(nil)
