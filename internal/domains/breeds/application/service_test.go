package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-dog-registry/internal/domains/breeds/adapters/memory"
	"github.com/Apurer/go-gin-dog-registry/internal/domains/breeds/domain"
	apierrors "github.com/Apurer/go-gin-dog-registry/internal/shared/errors"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/pagination"
)

func ptr[T any](v T) *T { return &v }

func newService(t *testing.T, seed ...*domain.Breed) *Service {
	t.Helper()
	svc := NewService(memory.NewRepository(nil))
	for _, breed := range seed {
		_, err := svc.Create(context.Background(), breed)
		require.NoError(t, err)
	}
	return svc
}

func corgi() *domain.Breed {
	return &domain.Breed{Name: "Corgi", AverageLifeExpectancy: 13, OriginCountry: "Wales", EasyToTrain: true}
}

func akita() *domain.Breed {
	return &domain.Breed{Name: "Akita", AverageLifeExpectancy: 11, OriginCountry: "Japan", EasyToTrain: false}
}

func TestService_CreateAssignsID(t *testing.T) {
	svc := newService(t)

	created, err := svc.Create(context.Background(), corgi())
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Corgi", created.Name)
}

func TestService_CreateRejectsDuplicateNameIgnoringCase(t *testing.T) {
	svc := newService(t, corgi())

	dup := corgi()
	dup.Name = "CORGI"
	_, err := svc.Create(context.Background(), dup)
	require.ErrorIs(t, err, apierrors.ErrAlreadyExists)

	var problem apierrors.Problem
	require.ErrorAs(t, err, &problem)
	assert.Equal(t, apierrors.CodeAlreadyExists, problem.Code)
}

func TestService_CreateMapsDomainValidation(t *testing.T) {
	svc := newService(t)

	invalid := corgi()
	invalid.AverageLifeExpectancy = 0
	_, err := svc.Create(context.Background(), invalid)

	var problem apierrors.Problem
	require.ErrorAs(t, err, &problem)
	assert.Equal(t, apierrors.CodeInvalidParameter, problem.Code)
	assert.Equal(t, "averageLifeExpectancy", problem.Detail)
}

func TestService_GetMissingBreed(t *testing.T) {
	svc := newService(t)

	_, err := svc.Get(context.Background(), 42)
	require.ErrorIs(t, err, apierrors.ErrNotFound)

	_, err = svc.GetByName(context.Background(), "Poodle")
	require.ErrorIs(t, err, apierrors.ErrNotFound)
}

func TestService_GetByNameIgnoresCase(t *testing.T) {
	svc := newService(t, corgi())

	breed, err := svc.GetByName(context.Background(), "corgi")
	require.NoError(t, err)
	assert.Equal(t, "Corgi", breed.Name)
}

func TestService_UpdateChangesOnlyProvidedFields(t *testing.T) {
	svc := newService(t, corgi())

	updated, err := svc.Update(context.Background(), 1, domain.Patch{OriginCountry: ptr("United Kingdom")})
	require.NoError(t, err)
	assert.Equal(t, "United Kingdom", updated.OriginCountry)
	assert.Equal(t, "Corgi", updated.Name)
	assert.Equal(t, 13, updated.AverageLifeExpectancy)
	assert.True(t, updated.EasyToTrain)
}

func TestService_UpdateRenameCollision(t *testing.T) {
	svc := newService(t, corgi(), akita())

	_, err := svc.Update(context.Background(), 2, domain.Patch{Name: ptr("corgi")})
	require.ErrorIs(t, err, apierrors.ErrAlreadyExists)

	// Re-casing the own name is not a collision.
	renamed, err := svc.Update(context.Background(), 1, domain.Patch{Name: ptr("CORGI")})
	require.NoError(t, err)
	assert.Equal(t, "CORGI", renamed.Name)
}

func TestService_DeleteMissingBreed(t *testing.T) {
	svc := newService(t, corgi())

	require.NoError(t, svc.Delete(context.Background(), 1))
	require.ErrorIs(t, svc.Delete(context.Background(), 1), apierrors.ErrNotFound)
}

func TestService_SearchIsConjunction(t *testing.T) {
	shiba := &domain.Breed{Name: "Shiba Inu", AverageLifeExpectancy: 13, OriginCountry: "Japan", EasyToTrain: true}
	svc := newService(t, corgi(), akita(), shiba)

	matches, err := svc.Search(context.Background(), domain.Filter{OriginCountry: "Japan", EasyToTrain: ptr(true)})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Shiba Inu", matches[0].Name)

	all, err := svc.Search(context.Background(), domain.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := svc.Search(context.Background(), domain.Filter{AverageLifeExpectancy: ptr(99)})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestService_ListPages(t *testing.T) {
	svc := newService(t, corgi(), akita())

	page, err := svc.List(context.Background(), pagination.Request{Page: 1, Size: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Akita", page.Content[0].Name)
}
