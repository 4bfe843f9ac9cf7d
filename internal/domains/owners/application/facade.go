package application

import (
	"context"

	dogtypes "github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/application/types"
	dogdomain "github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/domain"
	dogports "github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/ports"
	types "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/application/types"
	"github.com/Apurer/go-gin-dog-registry/internal/domains/owners/domain"
	"github.com/Apurer/go-gin-dog-registry/internal/domains/owners/ports"
	apierrors "github.com/Apurer/go-gin-dog-registry/internal/shared/errors"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/pagination"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/principal"
)

// Facade coordinates owners, their dogs and the identity provider. Admins
// bypass the ownership gate.
type Facade struct {
	owners    ports.Service
	dogs      dogports.Service
	identity  ports.IdentityGateway
	workflows ports.WorkflowOrchestrator
}

func NewFacade(owners ports.Service, dogs dogports.Service, identity ports.IdentityGateway, workflows ports.WorkflowOrchestrator) *Facade {
	return &Facade{owners: owners, dogs: dogs, identity: identity, workflows: workflows}
}

// CreateOwner registers the identity first; the local record is only written
// once the provider accepted it.
func (f *Facade) CreateOwner(ctx context.Context, input types.CreateOwnerInput) (*domain.Owner, error) {
	if err := f.owners.VerifyOwnerDoesNotExist(ctx, input.Email); err != nil {
		return nil, err
	}
	owner, err := domain.NewOwner(input.FirstName, input.LastName, input.Age, input.City, input.Email)
	if err != nil {
		return nil, mapError(err)
	}
	if err := f.identity.RegisterUser(ctx, ports.Registration{
		FirstName: owner.FirstName,
		LastName:  owner.LastName,
		Email:     owner.Email,
		Password:  input.Password,
	}); err != nil {
		return nil, err
	}
	return f.owners.Create(ctx, owner)
}

func (f *Facade) Get(ctx context.Context, caller principal.Principal, id int64) (*domain.Owner, error) {
	if err := f.authorize(ctx, caller, id); err != nil {
		return nil, err
	}
	return f.owners.Get(ctx, id)
}

func (f *Facade) List(ctx context.Context, page pagination.Request) (pagination.Page[*domain.Owner], error) {
	return f.owners.List(ctx, page)
}

func (f *Facade) Search(ctx context.Context, filter domain.Filter) ([]*domain.Owner, error) {
	return f.owners.Search(ctx, filter)
}

func (f *Facade) Update(ctx context.Context, caller principal.Principal, id int64, patch domain.Patch) (*domain.Owner, error) {
	if err := f.authorize(ctx, caller, id); err != nil {
		return nil, err
	}
	return f.owners.Update(ctx, id, patch)
}

// Delete removes the local owner with its dogs, then the identity registered
// under the owner's email.
func (f *Facade) Delete(ctx context.Context, caller principal.Principal, id int64) error {
	if err := f.authorize(ctx, caller, id); err != nil {
		return err
	}
	owner, err := f.owners.Get(ctx, id)
	if err != nil {
		return err
	}
	return f.workflows.DeleteOwner(ctx, types.DeleteOwnerInput{OwnerID: owner.ID, Username: owner.Email})
}

func (f *Facade) UpdateRoles(ctx context.Context, change types.RoleChange) error {
	switch change.Operation {
	case types.RoleOperationAdd:
		return f.identity.AssignRole(ctx, change.Email, change.Role)
	case types.RoleOperationDelete:
		return f.identity.RemoveRole(ctx, change.Email, change.Role)
	}
	return apierrors.NewValidation(apierrors.CodeInvalidParameter, "operationType")
}

// AddDog creates a dog linked to an existing owner.
func (f *Facade) AddDog(ctx context.Context, caller principal.Principal, ownerID int64, input dogtypes.CreateDogInput) (*dogdomain.Dog, error) {
	if err := f.authorize(ctx, caller, ownerID); err != nil {
		return nil, err
	}
	owner, err := f.owners.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	id := owner.ID
	input.OwnerID = &id
	return f.dogs.Create(ctx, input)
}

func (f *Facade) authorize(ctx context.Context, caller principal.Principal, ownerID int64) error {
	if caller.IsAdmin() {
		return nil
	}
	return f.owners.VerifyOwnerConsistency(ctx, ownerID, caller.Email)
}

var _ ports.Facade = (*Facade)(nil)
