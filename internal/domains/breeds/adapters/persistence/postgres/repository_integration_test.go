//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-dog-registry/internal/domains/breeds/domain"
	"github.com/Apurer/go-gin-dog-registry/internal/domains/breeds/ports"
	"github.com/Apurer/go-gin-dog-registry/internal/platform/migrations"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/pagination"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/specification"
)

func setupBreedsPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("registry_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func TestRepository_SaveAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupBreedsPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	breed, err := domain.NewBreed("Corgi", 13, "Wales", true)
	require.NoError(t, err)

	saved, err := repo.Save(ctx, breed)
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)

	fetched, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Corgi", fetched.Name)
	assert.Equal(t, 13, fetched.AverageLifeExpectancy)
	assert.Equal(t, "Wales", fetched.OriginCountry)
	assert.True(t, fetched.EasyToTrain)

	byName, err := repo.FindByName(ctx, "cOrGi")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, byName.ID)
}

func TestRepository_UniqueNameIgnoresCase(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupBreedsPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.Save(ctx, &domain.Breed{Name: "Akita", AverageLifeExpectancy: 11, OriginCountry: "Japan"})
	require.NoError(t, err)

	_, err = repo.Save(ctx, &domain.Breed{Name: "AKITA", AverageLifeExpectancy: 12, OriginCountry: "Japan"})
	require.ErrorIs(t, err, ports.ErrDuplicateName)
}

func TestRepository_UpdateAndDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupBreedsPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	saved, err := repo.Save(ctx, &domain.Breed{Name: "Beagle", AverageLifeExpectancy: 12, OriginCountry: "England"})
	require.NoError(t, err)

	saved.OriginCountry = "United Kingdom"
	updated, err := repo.Save(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, "United Kingdom", updated.OriginCountry)

	require.NoError(t, repo.Delete(ctx, saved.ID))
	_, err = repo.GetByID(ctx, saved.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, saved.ID), ports.ErrNotFound)
}

func TestRepository_ListAndSearch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupBreedsPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	for _, b := range []*domain.Breed{
		{Name: "Corgi", AverageLifeExpectancy: 13, OriginCountry: "Wales", EasyToTrain: true},
		{Name: "Akita", AverageLifeExpectancy: 11, OriginCountry: "Japan"},
		{Name: "Shiba Inu", AverageLifeExpectancy: 13, OriginCountry: "Japan", EasyToTrain: true},
	} {
		_, err := repo.Save(ctx, b)
		require.NoError(t, err)
	}

	page, err := repo.List(ctx, pagination.Request{Page: 0, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Content, 2)

	japan := "Japan"
	trainable := true
	spec := specification.And(
		specification.EqualText("breeds.origin_country", japan, func(b *domain.Breed) string { return b.OriginCountry }),
		specification.Equal("breeds.easy_to_train", &trainable, func(b *domain.Breed) bool { return b.EasyToTrain }),
	)
	matches, err := repo.Search(ctx, spec)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Shiba Inu", matches[0].Name)
}
