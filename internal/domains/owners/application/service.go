package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-dog-registry/internal/domains/owners/domain"
	"github.com/Apurer/go-gin-dog-registry/internal/domains/owners/ports"
	apierrors "github.com/Apurer/go-gin-dog-registry/internal/shared/errors"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/pagination"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/specification"
)

// Columns addressed by owner search predicates.
const (
	columnFirstName = "owners.first_name"
	columnLastName  = "owners.last_name"
	columnAge       = "owners.age"
	columnCity      = "owners.city"
)

// Service exposes owner bounded context use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, owner *domain.Owner) (*domain.Owner, error) {
	if owner == nil {
		return nil, errors.New("owner is nil")
	}
	if err := owner.Validate(); err != nil {
		return nil, mapError(err)
	}
	if err := s.VerifyOwnerDoesNotExist(ctx, owner.Email); err != nil {
		return nil, err
	}
	candidate := *owner
	candidate.ID = 0
	candidate.Dogs = nil
	saved, err := s.repo.Save(ctx, &candidate)
	if err != nil {
		return nil, duplicateEmail(owner.Email, err)
	}
	return saved, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Owner, error) {
	owner, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(id, err)
	}
	return owner, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*domain.Owner, error) {
	owner, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", apierrors.ErrNotFound.WithDetail(fmt.Sprintf("Owner with email [%s] not found", email)), err)
	}
	if err != nil {
		return nil, err
	}
	return owner, nil
}

func (s *Service) List(ctx context.Context, page pagination.Request) (pagination.Page[*domain.Owner], error) {
	return s.repo.List(ctx, page.Normalize())
}

// Search returns every owner matching all provided criteria.
func (s *Service) Search(ctx context.Context, filter domain.Filter) ([]*domain.Owner, error) {
	return s.repo.Search(ctx, Specification(filter))
}

func (s *Service) Update(ctx context.Context, id int64, patch domain.Patch) (*domain.Owner, error) {
	owner, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := owner.Apply(patch); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, owner)
	if err != nil {
		return nil, notFound(id, err)
	}
	return saved, nil
}

// Delete removes the owner and, through the repository, its dogs.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return notFound(id, s.repo.Delete(ctx, id))
}

func (s *Service) VerifyOwnerDoesNotExist(ctx context.Context, email string) error {
	_, err := s.repo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return nil
	case err != nil:
		return err
	}
	return apierrors.NewAlreadyExists(resourceName, email)
}

func (s *Service) VerifyOwnerConsistency(ctx context.Context, ownerID int64, email string) error {
	owner, err := s.Get(ctx, ownerID)
	if err != nil {
		return err
	}
	if !owner.HasEmail(email) {
		return apierrors.NewForbidden(fmt.Sprintf("Owner with id [%d] does not belong to [%s]", ownerID, email))
	}
	return nil
}

func (s *Service) FindOwnerID(ctx context.Context, email string) (int64, error) {
	owner, err := s.GetByEmail(ctx, email)
	if err != nil {
		return 0, err
	}
	return owner.ID, nil
}

// Specification turns a filter into the conjunction of its provided criteria.
func Specification(filter domain.Filter) specification.Specification[*domain.Owner] {
	return specification.And(
		specification.EqualText(columnFirstName, filter.FirstName, func(o *domain.Owner) string { return o.FirstName }),
		specification.EqualText(columnLastName, filter.LastName, func(o *domain.Owner) string { return o.LastName }),
		specification.Equal(columnAge, filter.Age, func(o *domain.Owner) int { return o.Age }),
		specification.EqualText(columnCity, filter.City, func(o *domain.Owner) string { return o.City }),
	)
}

var _ ports.Service = (*Service)(nil)
