package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/domain"
	"github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/ports"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/pagination"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/specification"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists dogs in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type dogRecord struct {
	ID          int64     `gorm:"primaryKey;column:id"`
	Name        string    `gorm:"column:name"`
	DateOfBirth time.Time `gorm:"column:date_of_birth;type:date"`
	OwnerID     *int64    `gorm:"column:owner_id"`
	BreedID     *int64    `gorm:"column:breed_id"`
	Breed       *breedRef `gorm:"foreignKey:BreedID"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (dogRecord) TableName() string { return "dogs" }

// breedRef reads the registry columns a dog exposes.
type breedRef struct {
	ID        int64  `gorm:"primaryKey;column:id"`
	BreedName string `gorm:"column:breed_name"`
}

func (breedRef) TableName() string { return "breeds" }

// Save inserts a new dog or updates the mutable columns of an existing one.
func (r *Repository) Save(ctx context.Context, dog *domain.Dog) (*domain.Dog, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if dog == nil {
		return nil, errors.New("dog is nil")
	}
	record := toRecord(dog)
	if err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":          record.Name,
				"date_of_birth": record.DateOfBirth,
				"updated_at":    gorm.Expr("NOW()"),
			}),
		}).
		Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Dog, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record dogRecord
	if err := r.db.WithContext(ctx).Preload("Breed").First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&dogRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) List(ctx context.Context, page pagination.Request) (pagination.Page[*domain.Dog], error) {
	return r.page(ctx, r.db.WithContext(ctx).Model(&dogRecord{}), page)
}

func (r *Repository) ListByOwner(ctx context.Context, ownerID int64, page pagination.Request) (pagination.Page[*domain.Dog], error) {
	return r.page(ctx, r.db.WithContext(ctx).Model(&dogRecord{}).Where("owner_id = ?", ownerID), page)
}

func (r *Repository) Search(ctx context.Context, spec specification.Specification[*domain.Dog]) ([]*domain.Dog, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []dogRecord
	query := spec.Apply(r.db.WithContext(ctx).Model(&dogRecord{}).Select("dogs.*"))
	if err := query.Preload("Breed").Order("dogs.id").Find(&records).Error; err != nil {
		return nil, err
	}
	return toDomainList(records), nil
}

func (r *Repository) page(ctx context.Context, scope *gorm.DB, page pagination.Request) (pagination.Page[*domain.Dog], error) {
	if err := r.ensureDB(); err != nil {
		return pagination.Page[*domain.Dog]{}, err
	}
	page = page.Normalize()
	var total int64
	if err := scope.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return pagination.Page[*domain.Dog]{}, err
	}
	var records []dogRecord
	if err := scope.Session(&gorm.Session{}).Preload("Breed").Order("id").Offset(page.Offset()).Limit(page.Size).Find(&records).Error; err != nil {
		return pagination.Page[*domain.Dog]{}, err
	}
	return pagination.New(toDomainList(records), page, total), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres dog repository not configured")
	}
	return nil
}

func toRecord(dog *domain.Dog) dogRecord {
	record := dogRecord{
		ID:          dog.ID,
		Name:        dog.Name,
		DateOfBirth: domain.TruncateDate(dog.DateOfBirth),
	}
	if dog.OwnerID != nil {
		owner := *dog.OwnerID
		record.OwnerID = &owner
	}
	if dog.Breed != nil && dog.Breed.ID != 0 {
		breed := dog.Breed.ID
		record.BreedID = &breed
	}
	return record
}

func (r dogRecord) toDomain() *domain.Dog {
	dog := &domain.Dog{
		ID:          r.ID,
		Name:        r.Name,
		DateOfBirth: domain.TruncateDate(r.DateOfBirth),
	}
	if r.OwnerID != nil {
		owner := *r.OwnerID
		dog.OwnerID = &owner
	}
	if r.Breed != nil {
		dog.Breed = &domain.BreedRef{ID: r.Breed.ID, Name: r.Breed.BreedName}
	}
	return dog
}

func toDomainList(records []dogRecord) []*domain.Dog {
	dogs := make([]*domain.Dog, 0, len(records))
	for i := range records {
		dogs = append(dogs, records[i].toDomain())
	}
	return dogs
}
