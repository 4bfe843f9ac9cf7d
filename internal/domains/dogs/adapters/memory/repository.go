package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/domain"
	"github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/ports"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/pagination"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/specification"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps dogs in memory. It also serves the owner and breed
// repositories, which cascade owner deletes and detach deleted breeds.
type Repository struct {
	mu     sync.RWMutex
	dogs   map[int64]*domain.Dog
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{dogs: map[int64]*domain.Dog{}}
}

func (r *Repository) Save(_ context.Context, dog *domain.Dog) (*domain.Dog, error) {
	if dog == nil {
		return nil, errors.New("dog is nil")
	}
	clone := dog.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if _, ok := r.dogs[clone.ID]; !ok {
		return nil, ports.ErrNotFound
	}
	r.dogs[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Dog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	dog, ok := r.dogs[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return dog.Clone(), nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.dogs[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.dogs, id)
	return nil
}

func (r *Repository) List(_ context.Context, page pagination.Request) (pagination.Page[*domain.Dog], error) {
	return pagination.Slice(r.sorted(nil), page), nil
}

func (r *Repository) ListByOwner(_ context.Context, ownerID int64, page pagination.Request) (pagination.Page[*domain.Dog], error) {
	return pagination.Slice(r.sorted(func(d *domain.Dog) bool { return d.OwnedBy(ownerID) }), page), nil
}

func (r *Repository) Search(_ context.Context, spec specification.Specification[*domain.Dog]) ([]*domain.Dog, error) {
	return specification.Filter(r.sorted(nil), spec), nil
}

// ListAllByOwner returns every dog of the owner ordered by id.
func (r *Repository) ListAllByOwner(_ context.Context, ownerID int64) ([]*domain.Dog, error) {
	return r.sorted(func(d *domain.Dog) bool { return d.OwnedBy(ownerID) }), nil
}

// DeleteByOwner removes every dog of the owner.
func (r *Repository) DeleteByOwner(_ context.Context, ownerID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, dog := range r.dogs {
		if dog.OwnedBy(ownerID) {
			delete(r.dogs, id)
		}
	}
	return nil
}

// ClearBreed detaches every dog from the breed.
func (r *Repository) ClearBreed(_ context.Context, breedID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, dog := range r.dogs {
		if dog.Breed != nil && dog.Breed.ID == breedID {
			dog.Breed = nil
		}
	}
	return nil
}

func (r *Repository) sorted(keep func(*domain.Dog) bool) []*domain.Dog {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Dog, 0, len(r.dogs))
	for _, dog := range r.dogs {
		if keep == nil || keep(dog) {
			list = append(list, dog.Clone())
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}
