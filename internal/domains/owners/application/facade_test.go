package application

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	breedmemory "github.com/Apurer/go-gin-dog-registry/internal/domains/breeds/adapters/memory"
	breedapp "github.com/Apurer/go-gin-dog-registry/internal/domains/breeds/application"
	breeddomain "github.com/Apurer/go-gin-dog-registry/internal/domains/breeds/domain"
	dogmemory "github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/adapters/memory"
	dogapp "github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/application"
	dogtypes "github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/application/types"
	"github.com/Apurer/go-gin-dog-registry/internal/domains/owners/adapters/memory"
	types "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/application/types"
	"github.com/Apurer/go-gin-dog-registry/internal/domains/owners/domain"
	"github.com/Apurer/go-gin-dog-registry/internal/domains/owners/ports"
	apierrors "github.com/Apurer/go-gin-dog-registry/internal/shared/errors"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/principal"
)

type fakeIdentity struct {
	calls       []string
	registerErr error
	deleteErr   error
}

func (f *fakeIdentity) RegisterUser(_ context.Context, registration ports.Registration) error {
	f.calls = append(f.calls, "register "+registration.Email+" "+registration.Password)
	return f.registerErr
}

func (f *fakeIdentity) AssignRole(_ context.Context, email string, role principal.Role) error {
	f.calls = append(f.calls, "assign "+email+" "+string(role))
	return nil
}

func (f *fakeIdentity) RemoveRole(_ context.Context, email string, role principal.Role) error {
	f.calls = append(f.calls, "remove "+email+" "+string(role))
	return nil
}

func (f *fakeIdentity) DeleteUser(_ context.Context, username string) error {
	f.calls = append(f.calls, "delete "+username)
	return f.deleteErr
}

func (f *fakeIdentity) FindUserByEmail(_ context.Context, email string) (*ports.IdentityUser, error) {
	return &ports.IdentityUser{ID: "1", Username: email, Email: email}, nil
}

// inlineDeletion mirrors the inline orchestrator: owner first, identity second.
type inlineDeletion struct {
	owners   ports.Service
	identity ports.IdentityGateway
}

func (d inlineDeletion) DeleteOwner(ctx context.Context, input types.DeleteOwnerInput) error {
	if err := d.owners.Delete(ctx, input.OwnerID); err != nil {
		return err
	}
	return d.identity.DeleteUser(ctx, input.Username)
}

var (
	admin    = principal.Principal{Email: "root@example.com", Roles: []principal.Role{principal.RoleAdmin}}
	ann      = principal.Principal{Email: "ann@example.com", Roles: []principal.Role{principal.RoleUser}}
	bob      = principal.Principal{Email: "bob@example.com", Roles: []principal.Role{principal.RoleUser}}
	roleless = principal.Principal{Email: "ann@example.com"}
	fixedAt  = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
)

type facadeFixture struct {
	facade   *Facade
	owners   *Service
	identity *fakeIdentity
}

func newFacadeFixture(t *testing.T) facadeFixture {
	t.Helper()
	dogRepo := dogmemory.NewRepository()
	breeds := breedapp.NewService(breedmemory.NewRepository(dogRepo))
	_, err := breeds.Create(context.Background(), &breeddomain.Breed{Name: "Corgi", AverageLifeExpectancy: 13, OriginCountry: "Wales"})
	require.NoError(t, err)

	dogs := dogapp.NewService(dogRepo, breeds, dogapp.WithClock(func() time.Time { return fixedAt }))
	owners := NewService(memory.NewRepository(dogRepo))
	identity := &fakeIdentity{}
	return facadeFixture{
		facade:   NewFacade(owners, dogs, identity, inlineDeletion{owners: owners, identity: identity}),
		owners:   owners,
		identity: identity,
	}
}

func annInput() types.CreateOwnerInput {
	return types.CreateOwnerInput{FirstName: "Ann", LastName: "Lee", Age: 31, City: "Oslo", Email: "ann@example.com", Password: "secret123"}
}

func (f facadeFixture) register(t *testing.T, input types.CreateOwnerInput) *domain.Owner {
	t.Helper()
	owner, err := f.facade.CreateOwner(context.Background(), input)
	require.NoError(t, err)
	return owner
}

func TestFacade_CreateOwnerRegistersIdentityThenPersists(t *testing.T) {
	f := newFacadeFixture(t)

	owner := f.register(t, annInput())
	assert.NotZero(t, owner.ID)
	assert.Equal(t, []string{"register ann@example.com secret123"}, f.identity.calls)

	_, err := f.owners.GetByEmail(context.Background(), "ann@example.com")
	require.NoError(t, err)
}

func TestFacade_CreateOwnerRejectsKnownEmailBeforeRegistration(t *testing.T) {
	f := newFacadeFixture(t)
	f.register(t, annInput())
	f.identity.calls = nil

	input := annInput()
	input.Email = "ANN@example.com"
	_, err := f.facade.CreateOwner(context.Background(), input)
	require.ErrorIs(t, err, apierrors.ErrAlreadyExists)
	assert.Empty(t, f.identity.calls)
}

func TestFacade_CreateOwnerWritesNothingWhenRegistrationFails(t *testing.T) {
	f := newFacadeFixture(t)
	f.identity.registerErr = apierrors.NewRegistrationFailed(http.StatusConflict, "User exists with same email")

	_, err := f.facade.CreateOwner(context.Background(), annInput())
	var problem apierrors.Problem
	require.ErrorAs(t, err, &problem)
	assert.Equal(t, apierrors.CodeRegistrationFailed, problem.Code)
	assert.Equal(t, http.StatusConflict, problem.Status)

	_, err = f.owners.GetByEmail(context.Background(), "ann@example.com")
	require.ErrorIs(t, err, apierrors.ErrNotFound)
}

func TestFacade_CreateOwnerValidatesBeforeRegistration(t *testing.T) {
	f := newFacadeFixture(t)
	input := annInput()
	input.FirstName = ""

	_, err := f.facade.CreateOwner(context.Background(), input)
	require.ErrorIs(t, err, apierrors.ErrValidation)
	assert.Empty(t, f.identity.calls)
}

func TestFacade_OwnershipGate(t *testing.T) {
	f := newFacadeFixture(t)
	owner := f.register(t, annInput())
	ctx := context.Background()

	got, err := f.facade.Get(ctx, ann, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.FirstName)

	_, err = f.facade.Get(ctx, admin, owner.ID)
	require.NoError(t, err)

	_, err = f.facade.Get(ctx, bob, owner.ID)
	require.ErrorIs(t, err, apierrors.ErrForbidden)

	// Role checks belong to the route guard; the gate only compares emails.
	_, err = f.facade.Get(ctx, roleless, owner.ID)
	require.NoError(t, err)

	_, err = f.facade.Get(ctx, ann, 404)
	require.ErrorIs(t, err, apierrors.ErrNotFound)

	_, err = f.facade.Update(ctx, bob, owner.ID, domain.Patch{City: ptr("Bergen")})
	require.ErrorIs(t, err, apierrors.ErrForbidden)

	updated, err := f.facade.Update(ctx, ann, owner.ID, domain.Patch{City: ptr("Bergen")})
	require.NoError(t, err)
	assert.Equal(t, "Bergen", updated.City)
}

func TestFacade_DeleteRemovesOwnerThenIdentity(t *testing.T) {
	f := newFacadeFixture(t)
	owner := f.register(t, annInput())
	ctx := context.Background()
	f.identity.calls = nil

	require.ErrorIs(t, f.facade.Delete(ctx, bob, owner.ID), apierrors.ErrForbidden)
	assert.Empty(t, f.identity.calls)

	require.NoError(t, f.facade.Delete(ctx, ann, owner.ID))
	assert.Equal(t, []string{"delete ann@example.com"}, f.identity.calls)
	_, err := f.owners.Get(ctx, owner.ID)
	require.ErrorIs(t, err, apierrors.ErrNotFound)

	require.ErrorIs(t, f.facade.Delete(ctx, admin, owner.ID), apierrors.ErrNotFound)
}

func TestFacade_DeleteReportsIdentityFailure(t *testing.T) {
	f := newFacadeFixture(t)
	owner := f.register(t, annInput())
	f.identity.deleteErr = apierrors.NewOperationFailed("deletion of user [ann@example.com] failed")

	err := f.facade.Delete(context.Background(), admin, owner.ID)
	var problem apierrors.Problem
	require.ErrorAs(t, err, &problem)
	assert.Equal(t, apierrors.CodeDeletionFailed, problem.Code)
}

func TestFacade_UpdateRoles(t *testing.T) {
	f := newFacadeFixture(t)
	ctx := context.Background()

	require.NoError(t, f.facade.UpdateRoles(ctx, types.RoleChange{Email: "bob@example.com", Role: principal.RoleAdmin, Operation: types.RoleOperationAdd}))
	require.NoError(t, f.facade.UpdateRoles(ctx, types.RoleChange{Email: "bob@example.com", Role: principal.RoleAdmin, Operation: types.RoleOperationDelete}))
	assert.Equal(t, []string{"assign bob@example.com ADMIN", "remove bob@example.com ADMIN"}, f.identity.calls)

	err := f.facade.UpdateRoles(ctx, types.RoleChange{Email: "bob@example.com", Role: principal.RoleAdmin, Operation: "TOGGLE"})
	require.ErrorIs(t, err, apierrors.ErrValidation)
}

func TestFacade_AddDogLinksOwner(t *testing.T) {
	f := newFacadeFixture(t)
	owner := f.register(t, annInput())
	ctx := context.Background()
	input := dogtypes.CreateDogInput{Name: "Rex", DateOfBirth: time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC), BreedName: "corgi"}

	_, err := f.facade.AddDog(ctx, bob, owner.ID, input)
	require.ErrorIs(t, err, apierrors.ErrForbidden)

	dog, err := f.facade.AddDog(ctx, ann, owner.ID, input)
	require.NoError(t, err)
	require.NotNil(t, dog.OwnerID)
	assert.Equal(t, owner.ID, *dog.OwnerID)
	assert.Equal(t, "Corgi", dog.BreedName())

	reloaded, err := f.facade.Get(ctx, ann, owner.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Dogs, 1)
	assert.Equal(t, "Rex", reloaded.Dogs[0].Name)

	_, err = f.facade.AddDog(ctx, admin, 404, input)
	require.ErrorIs(t, err, apierrors.ErrNotFound)
}
