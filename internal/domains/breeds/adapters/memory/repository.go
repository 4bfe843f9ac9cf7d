package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Apurer/go-gin-dog-registry/internal/domains/breeds/domain"
	"github.com/Apurer/go-gin-dog-registry/internal/domains/breeds/ports"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/pagination"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/specification"
)

var _ ports.Repository = (*Repository)(nil)

// DogStore releases dogs from a deleted breed, as ON DELETE SET NULL does in Postgres.
type DogStore interface {
	ClearBreed(ctx context.Context, breedID int64) error
}

// Repository is an in-memory breed registry.
type Repository struct {
	mu     sync.RWMutex
	breeds map[int64]*domain.Breed
	nextID int64
	dogs   DogStore
}

// NewRepository builds the registry; dogs may be nil when no dog store shares the process.
func NewRepository(dogs DogStore) *Repository {
	return &Repository{breeds: map[int64]*domain.Breed{}, dogs: dogs}
}

func (r *Repository) Save(_ context.Context, breed *domain.Breed) (*domain.Breed, error) {
	if breed == nil {
		return nil, errors.New("breed is nil")
	}
	clone := *breed
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.breeds {
		if id != clone.ID && domain.SameName(existing.Name, clone.Name) {
			return nil, ports.ErrDuplicateName
		}
	}
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.breeds[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Breed, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	breed, ok := r.breeds[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *breed
	return &clone, nil
}

func (r *Repository) FindByName(_ context.Context, name string) (*domain.Breed, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, breed := range r.breeds {
		if domain.SameName(breed.Name, name) {
			clone := *breed
			return &clone, nil
		}
	}
	return nil, ports.ErrNotFound
}

// Delete detaches the breed's dogs, then drops it.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.breeds[id]; !ok {
		return ports.ErrNotFound
	}
	if r.dogs != nil {
		if err := r.dogs.ClearBreed(ctx, id); err != nil {
			return err
		}
	}
	delete(r.breeds, id)
	return nil
}

func (r *Repository) List(_ context.Context, page pagination.Request) (pagination.Page[*domain.Breed], error) {
	return pagination.Slice(r.sorted(), page), nil
}

func (r *Repository) Search(_ context.Context, spec specification.Specification[*domain.Breed]) ([]*domain.Breed, error) {
	return specification.Filter(r.sorted(), spec), nil
}

func (r *Repository) sorted() []*domain.Breed {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Breed, 0, len(r.breeds))
	for _, breed := range r.breeds {
		clone := *breed
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}
