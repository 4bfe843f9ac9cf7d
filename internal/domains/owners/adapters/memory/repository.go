package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	dogdomain "github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/domain"
	"github.com/Apurer/go-gin-dog-registry/internal/domains/owners/domain"
	"github.com/Apurer/go-gin-dog-registry/internal/domains/owners/ports"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/pagination"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/specification"
)

var _ ports.Repository = (*Repository)(nil)

// DogStore is the slice of the in-memory dog repository owners rely on.
type DogStore interface {
	ListAllByOwner(ctx context.Context, ownerID int64) ([]*dogdomain.Dog, error)
	DeleteByOwner(ctx context.Context, ownerID int64) error
}

// Repository keeps owners in memory and reads their dogs from a DogStore.
type Repository struct {
	mu     sync.RWMutex
	owners map[int64]*domain.Owner
	nextID int64
	dogs   DogStore
}

func NewRepository(dogs DogStore) *Repository {
	return &Repository{owners: map[int64]*domain.Owner{}, dogs: dogs}
}

func (r *Repository) Save(ctx context.Context, owner *domain.Owner) (*domain.Owner, error) {
	if owner == nil {
		return nil, errors.New("owner is nil")
	}
	clone := *owner
	clone.Dogs = nil
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	for id, existing := range r.owners {
		if id != clone.ID && existing.HasEmail(clone.Email) {
			r.mu.Unlock()
			return nil, ports.ErrDuplicateEmail
		}
	}
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if _, ok := r.owners[clone.ID]; !ok {
		r.mu.Unlock()
		return nil, ports.ErrNotFound
	}
	r.owners[clone.ID] = &clone
	r.mu.Unlock()
	return r.GetByID(ctx, clone.ID)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Owner, error) {
	r.mu.RLock()
	owner, ok := r.owners[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ports.ErrNotFound
	}
	return r.withDogs(ctx, owner)
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*domain.Owner, error) {
	r.mu.RLock()
	var found *domain.Owner
	for _, owner := range r.owners {
		if owner.HasEmail(email) {
			found = owner
			break
		}
	}
	r.mu.RUnlock()
	if found == nil {
		return nil, ports.ErrNotFound
	}
	return r.withDogs(ctx, found)
}

// Delete drops the owner, then its dogs.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.owners[id]; !ok {
		return ports.ErrNotFound
	}
	if r.dogs != nil {
		if err := r.dogs.DeleteByOwner(ctx, id); err != nil {
			return err
		}
	}
	delete(r.owners, id)
	return nil
}

func (r *Repository) List(ctx context.Context, page pagination.Request) (pagination.Page[*domain.Owner], error) {
	all, err := r.sorted(ctx)
	if err != nil {
		return pagination.Page[*domain.Owner]{}, err
	}
	return pagination.Slice(all, page), nil
}

func (r *Repository) Search(ctx context.Context, spec specification.Specification[*domain.Owner]) ([]*domain.Owner, error) {
	all, err := r.sorted(ctx)
	if err != nil {
		return nil, err
	}
	return specification.Filter(all, spec), nil
}

func (r *Repository) sorted(ctx context.Context) ([]*domain.Owner, error) {
	r.mu.RLock()
	snapshot := make([]*domain.Owner, 0, len(r.owners))
	for _, owner := range r.owners {
		snapshot = append(snapshot, owner)
	}
	r.mu.RUnlock()
	sort.Slice(snapshot, func(i, j int) bool { return snapshot[i].ID < snapshot[j].ID })

	list := make([]*domain.Owner, 0, len(snapshot))
	for _, owner := range snapshot {
		withDogs, err := r.withDogs(ctx, owner)
		if err != nil {
			return nil, err
		}
		list = append(list, withDogs)
	}
	return list, nil
}

func (r *Repository) withDogs(ctx context.Context, owner *domain.Owner) (*domain.Owner, error) {
	out := owner.Clone()
	out.Dogs = []*dogdomain.Dog{}
	if r.dogs == nil {
		return out, nil
	}
	dogs, err := r.dogs.ListAllByOwner(ctx, owner.ID)
	if err != nil {
		return nil, err
	}
	out.Dogs = dogs
	return out, nil
}
