package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-dog-registry/internal/domains/breeds/domain"
	"github.com/Apurer/go-gin-dog-registry/internal/domains/breeds/ports"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/pagination"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/specification"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists breeds in PostgreSQL using GORM.
// The schema is owned by platform/migrations.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type breedRecord struct {
	ID                    int64     `gorm:"primaryKey;column:id"`
	BreedName             string    `gorm:"column:breed_name"`
	AverageLifeExpectancy int       `gorm:"column:average_life_expectancy"`
	OriginCountry         string    `gorm:"column:origin_country"`
	EasyToTrain           bool      `gorm:"column:easy_to_train"`
	CreatedAt             time.Time `gorm:"column:created_at"`
	UpdatedAt             time.Time `gorm:"column:updated_at"`
}

func (breedRecord) TableName() string { return "breeds" }

// Save inserts a new breed or updates an existing one.
func (r *Repository) Save(ctx context.Context, breed *domain.Breed) (*domain.Breed, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if breed == nil {
		return nil, errors.New("breed is nil")
	}
	record := toRecord(breed)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"breed_name":              record.BreedName,
				"average_life_expectancy": record.AverageLifeExpectancy,
				"origin_country":          record.OriginCountry,
				"easy_to_train":           record.EasyToTrain,
				"updated_at":              gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateName
		}
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Breed, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record breedRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// FindByName matches LOWER(breed_name), backed by the functional unique index.
func (r *Repository) FindByName(ctx context.Context, name string) (*domain.Breed, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record breedRecord
	if err := r.db.WithContext(ctx).First(&record, "LOWER(breed_name) = LOWER(?)", name).Error; err != nil {
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
	result := r.db.WithContext(ctx).Delete(&breedRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) List(ctx context.Context, page pagination.Request) (pagination.Page[*domain.Breed], error) {
	if err := r.ensureDB(); err != nil {
		return pagination.Page[*domain.Breed]{}, err
	}
	page = page.Normalize()
	var total int64
	if err := r.db.WithContext(ctx).Model(&breedRecord{}).Count(&total).Error; err != nil {
		return pagination.Page[*domain.Breed]{}, err
	}
	var records []breedRecord
	if err := r.db.WithContext(ctx).Order("id").Offset(page.Offset()).Limit(page.Size).Find(&records).Error; err != nil {
		return pagination.Page[*domain.Breed]{}, err
	}
	return pagination.New(toDomainList(records), page, total), nil
}

func (r *Repository) Search(ctx context.Context, spec specification.Specification[*domain.Breed]) ([]*domain.Breed, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []breedRecord
	if err := spec.Apply(r.db.WithContext(ctx).Model(&breedRecord{})).Order("breeds.id").Find(&records).Error; err != nil {
		return nil, err
	}
	return toDomainList(records), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres breed repository not configured")
	}
	return nil
}

func toRecord(breed *domain.Breed) breedRecord {
	return breedRecord{
		ID:                    breed.ID,
		BreedName:             breed.Name,
		AverageLifeExpectancy: breed.AverageLifeExpectancy,
		OriginCountry:         breed.OriginCountry,
		EasyToTrain:           breed.EasyToTrain,
	}
}

func (r breedRecord) toDomain() *domain.Breed {
	return &domain.Breed{
		ID:                    r.ID,
		Name:                  r.BreedName,
		AverageLifeExpectancy: r.AverageLifeExpectancy,
		OriginCountry:         r.OriginCountry,
		EasyToTrain:           r.EasyToTrain,
	}
}

func toDomainList(records []breedRecord) []*domain.Breed {
	breeds := make([]*domain.Breed, 0, len(records))
	for i := range records {
		breeds = append(breeds, records[i].toDomain())
	}
	return breeds
}
