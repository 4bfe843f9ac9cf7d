package application

import (
	"context"
	"errors"
	"strings"
	"time"

	types "github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/application/types"
	"github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/domain"
	"github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/ports"
	apierrors "github.com/Apurer/go-gin-dog-registry/internal/shared/errors"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/pagination"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/specification"
)

// Joins and columns addressed by dog search predicates.
const (
	joinBreeds = "JOIN breeds ON breeds.id = dogs.breed_id"
	joinOwners = "JOIN owners ON owners.id = dogs.owner_id"

	columnName        = "dogs.name"
	columnDateOfBirth = "dogs.date_of_birth"
	columnBreedName   = "breeds.breed_name"
	columnOwnerID     = "owners.id"
)

// Service orchestrates the dogs bounded context use cases.
type Service struct {
	repo   ports.Repository
	breeds ports.BreedCatalog
	now    func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source used for date-of-birth checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the dogs service with its dependencies.
func NewService(repo ports.Repository, breeds ports.BreedCatalog, opts ...Option) *Service {
	s := &Service{repo: repo, breeds: breeds, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Create registers a dog of a registry breed, optionally linked to an owner.
func (s *Service) Create(ctx context.Context, input types.CreateDogInput) (*domain.Dog, error) {
	if strings.TrimSpace(input.BreedName) == "" {
		return nil, apierrors.NewValidation(apierrors.CodeMandatoryField, "breed")
	}
	breed, err := s.breeds.GetByName(ctx, input.BreedName)
	if err != nil {
		return nil, err
	}
	dog, err := domain.NewDog(input.Name, input.DateOfBirth, &domain.BreedRef{ID: breed.ID, Name: breed.Name}, input.OwnerID, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, dog)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Dog, error) {
	dog, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(id, err)
	}
	return dog, nil
}

func (s *Service) List(ctx context.Context, page pagination.Request) (pagination.Page[*domain.Dog], error) {
	return s.repo.List(ctx, page.Normalize())
}

// ListByOwner pages the dogs linked to one owner.
func (s *Service) ListByOwner(ctx context.Context, ownerID int64, page pagination.Request) (pagination.Page[*domain.Dog], error) {
	return s.repo.ListByOwner(ctx, ownerID, page.Normalize())
}

// Search returns every dog matching all provided criteria.
func (s *Service) Search(ctx context.Context, filter domain.Filter) ([]*domain.Dog, error) {
	return s.repo.Search(ctx, Specification(filter))
}

// Update changes name and/or date of birth; other fields are immutable.
func (s *Service) Update(ctx context.Context, id int64, patch domain.Patch) (*domain.Dog, error) {
	dog, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := dog.Apply(patch, s.now()); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, dog)
	if err != nil {
		return nil, notFound(id, err)
	}
	return saved, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return notFound(id, err)
		}
		return err
	}
	return nil
}

// Specification turns a filter into the conjunction of its provided criteria.
func Specification(filter domain.Filter) specification.Specification[*domain.Dog] {
	var dateOfBirth *time.Time
	if filter.DateOfBirth != nil {
		day := domain.TruncateDate(*filter.DateOfBirth)
		dateOfBirth = &day
	}
	return specification.And(
		specification.EqualText(columnName, filter.Name, func(d *domain.Dog) string { return d.Name }),
		specification.Equal(columnDateOfBirth, dateOfBirth, func(d *domain.Dog) time.Time { return domain.TruncateDate(d.DateOfBirth) }),
		specification.JoinEqualText(joinBreeds, columnBreedName, filter.BreedName, (*domain.Dog).BreedName),
		specification.JoinEqual(joinOwners, columnOwnerID, filter.OwnerID, (*domain.Dog).OwnerIDValue),
	)
}

var _ ports.Service = (*Service)(nil)
