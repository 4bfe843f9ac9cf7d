package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-dog-registry/internal/domains/breeds/domain"
	"github.com/Apurer/go-gin-dog-registry/internal/domains/breeds/ports"
	apierrors "github.com/Apurer/go-gin-dog-registry/internal/shared/errors"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/pagination"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/specification"
)

// Columns addressed by breed search predicates.
const (
	columnName           = "breeds.breed_name"
	columnLifeExpectancy = "breeds.average_life_expectancy"
	columnOriginCountry  = "breeds.origin_country"
	columnEasyToTrain    = "breeds.easy_to_train"
)

// Service orchestrates breed registry use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a breed after checking its name is not taken.
func (s *Service) Create(ctx context.Context, breed *domain.Breed) (*domain.Breed, error) {
	if breed == nil {
		return nil, errors.New("breed is nil")
	}
	if err := breed.Validate(); err != nil {
		return nil, mapError(err)
	}
	if err := s.ensureNameAvailable(ctx, breed.Name, 0); err != nil {
		return nil, err
	}
	candidate := *breed
	candidate.ID = 0
	saved, err := s.repo.Save(ctx, &candidate)
	if err != nil {
		return nil, duplicateName(breed.Name, err)
	}
	return saved, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Breed, error) {
	breed, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(id, err)
	}
	return breed, nil
}

// GetByName resolves a breed case-insensitively.
func (s *Service) GetByName(ctx context.Context, name string) (*domain.Breed, error) {
	breed, err := s.repo.FindByName(ctx, name)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", apierrors.ErrNotFound.WithDetail(fmt.Sprintf("Breed with name [%s] not found", name)), err)
	}
	if err != nil {
		return nil, err
	}
	return breed, nil
}

func (s *Service) List(ctx context.Context, page pagination.Request) (pagination.Page[*domain.Breed], error) {
	return s.repo.List(ctx, page.Normalize())
}

// Search returns every breed matching all provided criteria.
func (s *Service) Search(ctx context.Context, filter domain.Filter) ([]*domain.Breed, error) {
	return s.repo.Search(ctx, Specification(filter))
}

// Update applies the provided fields to an existing breed.
func (s *Service) Update(ctx context.Context, id int64, patch domain.Patch) (*domain.Breed, error) {
	breed, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil && !domain.SameName(*patch.Name, breed.Name) {
		if err := s.ensureNameAvailable(ctx, *patch.Name, id); err != nil {
			return nil, err
		}
	}
	if err := breed.Apply(patch); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, breed)
	if err != nil {
		return nil, duplicateName(breed.Name, err)
	}
	return saved, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return notFound(id, s.repo.Delete(ctx, id))
}

func (s *Service) ensureNameAvailable(ctx context.Context, name string, selfID int64) error {
	existing, err := s.repo.FindByName(ctx, name)
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID == selfID:
		return nil
	}
	return apierrors.NewAlreadyExists(resourceName, name)
}

// Specification turns a filter into the conjunction of its provided criteria.
func Specification(filter domain.Filter) specification.Specification[*domain.Breed] {
	return specification.And(
		specification.EqualText(columnName, filter.Name, func(b *domain.Breed) string { return b.Name }),
		specification.Equal(columnLifeExpectancy, filter.AverageLifeExpectancy, func(b *domain.Breed) int { return b.AverageLifeExpectancy }),
		specification.EqualText(columnOriginCountry, filter.OriginCountry, func(b *domain.Breed) string { return b.OriginCountry }),
		specification.Equal(columnEasyToTrain, filter.EasyToTrain, func(b *domain.Breed) bool { return b.EasyToTrain }),
	)
}

var _ ports.Service = (*Service)(nil)
