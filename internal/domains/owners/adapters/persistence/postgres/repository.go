package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dogdomain "github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/domain"
	"github.com/Apurer/go-gin-dog-registry/internal/domains/owners/domain"
	"github.com/Apurer/go-gin-dog-registry/internal/domains/owners/ports"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/pagination"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/specification"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists owners in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type ownerRecord struct {
	ID        int64            `gorm:"primaryKey;column:id"`
	FirstName string           `gorm:"column:first_name"`
	LastName  string           `gorm:"column:last_name"`
	Age       int              `gorm:"column:age"`
	City      string           `gorm:"column:city"`
	Email     string           `gorm:"column:email"`
	Dogs      []ownedDogRecord `gorm:"foreignKey:OwnerID"`
	CreatedAt time.Time        `gorm:"column:created_at"`
	UpdatedAt time.Time        `gorm:"column:updated_at"`
}

func (ownerRecord) TableName() string { return "owners" }

type ownedDogRecord struct {
	ID          int64             `gorm:"primaryKey;column:id"`
	Name        string            `gorm:"column:name"`
	DateOfBirth time.Time         `gorm:"column:date_of_birth"`
	OwnerID     *int64            `gorm:"column:owner_id"`
	BreedID     *int64            `gorm:"column:breed_id"`
	Breed       *ownedBreedRecord `gorm:"foreignKey:BreedID"`
}

func (ownedDogRecord) TableName() string { return "dogs" }

type ownedBreedRecord struct {
	ID        int64  `gorm:"primaryKey;column:id"`
	BreedName string `gorm:"column:breed_name"`
}

func (ownedBreedRecord) TableName() string { return "breeds" }

// Save inserts a new owner or updates the mutable columns of an existing one.
// Dogs are never written through the owner.
func (r *Repository) Save(ctx context.Context, owner *domain.Owner) (*domain.Owner, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, errors.New("owner is nil")
	}
	record := toRecord(owner)
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"first_name": record.FirstName,
				"last_name":  record.LastName,
				"age":        record.Age,
				"city":       record.City,
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).
		Create(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateEmail
		}
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Owner, error) {
	return r.first(ctx, "id = ?", id)
}

// FindByEmail matches LOWER(email), backed by the functional unique index.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*domain.Owner, error) {
	return r.first(ctx, "LOWER(email) = LOWER(?)", strings.TrimSpace(email))
}

// Delete removes the owner's dogs and then the owner in one transaction.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ?", id).Delete(&ownedDogRecord{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&ownerRecord{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrNotFound
		}
		return nil
	})
}

func (r *Repository) List(ctx context.Context, page pagination.Request) (pagination.Page[*domain.Owner], error) {
	if err := r.ensureDB(); err != nil {
		return pagination.Page[*domain.Owner]{}, err
	}
	page = page.Normalize()
	var total int64
	if err := r.db.WithContext(ctx).Model(&ownerRecord{}).Count(&total).Error; err != nil {
		return pagination.Page[*domain.Owner]{}, err
	}
	var records []ownerRecord
	if err := r.withDogs(r.db.WithContext(ctx)).Order("id").Offset(page.Offset()).Limit(page.Size).Find(&records).Error; err != nil {
		return pagination.Page[*domain.Owner]{}, err
	}
	return pagination.New(toDomainList(records), page, total), nil
}

func (r *Repository) Search(ctx context.Context, spec specification.Specification[*domain.Owner]) ([]*domain.Owner, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []ownerRecord
	query := spec.Apply(r.db.WithContext(ctx).Model(&ownerRecord{}))
	if err := r.withDogs(query).Order("owners.id").Find(&records).Error; err != nil {
		return nil, err
	}
	return toDomainList(records), nil
}

func (r *Repository) first(ctx context.Context, query string, args ...any) (*domain.Owner, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record ownerRecord
	if err := r.withDogs(r.db.WithContext(ctx)).Where(query, args...).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) withDogs(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Dogs", func(tx *gorm.DB) *gorm.DB { return tx.Order("dogs.id") }).
		Preload("Dogs.Breed")
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres owner repository not configured")
	}
	return nil
}

func toRecord(owner *domain.Owner) ownerRecord {
	return ownerRecord{
		ID:        owner.ID,
		FirstName: owner.FirstName,
		LastName:  owner.LastName,
		Age:       owner.Age,
		City:      owner.City,
		Email:     owner.Email,
	}
}

func (r ownerRecord) toDomain() *domain.Owner {
	owner := &domain.Owner{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Age:       r.Age,
		City:      r.City,
		Email:     r.Email,
		Dogs:      make([]*dogdomain.Dog, 0, len(r.Dogs)),
	}
	for _, dog := range r.Dogs {
		owner.Dogs = append(owner.Dogs, dog.toDomain())
	}
	return owner
}

func (r ownedDogRecord) toDomain() *dogdomain.Dog {
	dog := &dogdomain.Dog{
		ID:          r.ID,
		Name:        r.Name,
		DateOfBirth: dogdomain.TruncateDate(r.DateOfBirth),
	}
	if r.OwnerID != nil {
		owner := *r.OwnerID
		dog.OwnerID = &owner
	}
	if r.Breed != nil {
		dog.Breed = &dogdomain.BreedRef{ID: r.Breed.ID, Name: r.Breed.BreedName}
	}
	return dog
}

func toDomainList(records []ownerRecord) []*domain.Owner {
	owners := make([]*domain.Owner, 0, len(records))
	for i := range records {
		owners = append(owners, records[i].toDomain())
	}
	return owners
}
