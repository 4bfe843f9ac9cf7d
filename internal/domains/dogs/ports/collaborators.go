package ports

import (
	"context"

	breeddomain "github.com/Apurer/go-gin-dog-registry/internal/domains/breeds/domain"
)

// BreedCatalog resolves registry breeds for new dogs.
type BreedCatalog interface {
	GetByName(ctx context.Context, name string) (*breeddomain.Breed, error)
}

// OwnerDirectory answers the ownership questions the dog facade needs.
type OwnerDirectory interface {
	// VerifyOwnerConsistency fails with NotFound when the owner is missing and
	// Forbidden when its email differs from the given one.
	VerifyOwnerConsistency(ctx context.Context, ownerID int64, email string) error
	// FindOwnerID returns the id of the owner registered under email.
	FindOwnerID(ctx context.Context, email string) (int64, error)
}
