//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

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

	breedspostgres "github.com/Apurer/go-gin-dog-registry/internal/domains/breeds/adapters/persistence/postgres"
	breeddomain "github.com/Apurer/go-gin-dog-registry/internal/domains/breeds/domain"
	"github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/domain"
	"github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/ports"
	"github.com/Apurer/go-gin-dog-registry/internal/platform/migrations"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/pagination"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/specification"
)

func setupPostgresContainer(t *testing.T) (*gorm.DB, func()) {
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

func seedBreed(t *testing.T, db *gorm.DB, name string) *breeddomain.Breed {
	t.Helper()
	breed, err := breedspostgres.NewRepository(db).Save(context.Background(),
		&breeddomain.Breed{Name: name, AverageLifeExpectancy: 12, OriginCountry: "Nowhere"})
	require.NoError(t, err)
	return breed
}

func seedOwner(t *testing.T, db *gorm.DB, email string) int64 {
	t.Helper()
	var id int64
	err := db.Raw(`INSERT INTO owners (first_name, last_name, age, city, email, created_at, updated_at)
		VALUES ('Ann', 'Lee', 30, 'Oslo', ?, NOW(), NOW()) RETURNING id`, email).Scan(&id).Error
	require.NoError(t, err)
	return id
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPostgresRepository_SaveAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	corgi := seedBreed(t, db, "Corgi")
	ownerID := seedOwner(t, db, "ann@example.com")

	saved, err := repo.Save(ctx, &domain.Dog{
		Name:        "Rex",
		DateOfBirth: date(2020, 3, 1),
		Breed:       &domain.BreedRef{ID: corgi.ID, Name: corgi.Name},
		OwnerID:     &ownerID,
	})
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.Equal(t, "Corgi", saved.BreedName())
	assert.True(t, saved.OwnedBy(ownerID))
	assert.Equal(t, date(2020, 3, 1), saved.DateOfBirth)

	saved.Name = "Max"
	updated, err := repo.Save(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, "Max", updated.Name)
	assert.Equal(t, "Corgi", updated.BreedName())
}

func TestPostgresRepository_ListByOwner(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	corgi := seedBreed(t, db, "Corgi")
	ann := seedOwner(t, db, "ann@example.com")
	bob := seedOwner(t, db, "bob@example.com")

	for _, owner := range []int64{ann, ann, bob} {
		owner := owner
		_, err := repo.Save(ctx, &domain.Dog{Name: "Dog", DateOfBirth: date(2021, 1, 1),
			Breed: &domain.BreedRef{ID: corgi.ID}, OwnerID: &owner})
		require.NoError(t, err)
	}

	page, err := repo.ListByOwner(ctx, ann, pagination.Request{Size: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalElements)
	assert.Len(t, page.Content, 2)

	all, err := repo.List(ctx, pagination.Request{Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.TotalElements)
	assert.Equal(t, 2, all.TotalPages)
}

func TestPostgresRepository_SearchJoinsBreedAndOwner(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	corgi := seedBreed(t, db, "Corgi")
	akita := seedBreed(t, db, "Akita")
	ann := seedOwner(t, db, "ann@example.com")

	_, err := repo.Save(ctx, &domain.Dog{Name: "Rex", DateOfBirth: date(2020, 1, 1), Breed: &domain.BreedRef{ID: corgi.ID}, OwnerID: &ann})
	require.NoError(t, err)
	_, err = repo.Save(ctx, &domain.Dog{Name: "Rex", DateOfBirth: date(2020, 1, 1), Breed: &domain.BreedRef{ID: akita.ID}, OwnerID: &ann})
	require.NoError(t, err)

	spec := specification.And(
		specification.EqualText("dogs.name", "Rex", func(d *domain.Dog) string { return d.Name }),
		specification.JoinEqualText("JOIN breeds ON breeds.id = dogs.breed_id", "breeds.breed_name", "Akita", (*domain.Dog).BreedName),
		specification.JoinEqual("JOIN owners ON owners.id = dogs.owner_id", "owners.id", &ann, (*domain.Dog).OwnerIDValue),
	)
	matches, err := repo.Search(ctx, spec)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Akita", matches[0].BreedName())
}

func TestPostgresRepository_ReferentialActions(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	corgi := seedBreed(t, db, "Corgi")
	ann := seedOwner(t, db, "ann@example.com")

	dog, err := repo.Save(ctx, &domain.Dog{Name: "Rex", DateOfBirth: date(2020, 1, 1), Breed: &domain.BreedRef{ID: corgi.ID}, OwnerID: &ann})
	require.NoError(t, err)

	require.NoError(t, breedspostgres.NewRepository(db).Delete(ctx, corgi.ID))
	orphan, err := repo.GetByID(ctx, dog.ID)
	require.NoError(t, err)
	assert.Nil(t, orphan.Breed)

	require.NoError(t, db.Exec("DELETE FROM owners WHERE id = ?", ann).Error)
	_, err = repo.GetByID(ctx, dog.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, dog.ID), ports.ErrNotFound)
}
