package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the registry schema: tables through AutoMigrate, then the
// functional indexes GORM tags cannot express.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	if err := db.AutoMigrate(
		&breedRecord{},
		&ownerRecord{},
		&dogRecord{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return EnsureIndexes(context.Background(), sqlDB)
}

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type functionalIndex struct {
	name   string
	table  string
	column string
}

// Case-insensitive uniqueness for natural keys.
var uniqueLowerIndexes = []functionalIndex{
	{name: "ux_breeds_breed_name_lower", table: "breeds", column: "breed_name"},
	{name: "ux_owners_email_lower", table: "owners", column: "email"},
}

// EnsureIndexes creates the unique LOWER(column) indexes when missing.
func EnsureIndexes(ctx context.Context, db Execer) error {
	for _, idx := range uniqueLowerIndexes {
		if _, err := db.ExecContext(ctx, uniqueLowerIndexDDL(idx)); err != nil {
			return fmt.Errorf("create index %s: %w", idx.name, err)
		}
	}
	return nil
}

func uniqueLowerIndexDDL(idx functionalIndex) string {
	return fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (LOWER(%s))",
		pq.QuoteIdentifier(idx.name),
		pq.QuoteIdentifier(idx.table),
		pq.QuoteIdentifier(idx.column),
	)
}

// Breed schema mirrors the breeds Postgres adapter.
type breedRecord struct {
	ID                    int64     `gorm:"primaryKey;column:id"`
	BreedName             string    `gorm:"column:breed_name;type:varchar(128);not null"`
	AverageLifeExpectancy int       `gorm:"column:average_life_expectancy;not null"`
	OriginCountry         string    `gorm:"column:origin_country;type:varchar(64);not null"`
	EasyToTrain           bool      `gorm:"column:easy_to_train;not null"`
	CreatedAt             time.Time `gorm:"column:created_at"`
	UpdatedAt             time.Time `gorm:"column:updated_at"`
}

func (breedRecord) TableName() string { return "breeds" }

// Owner schema mirrors the owners Postgres adapter. Passwords are never stored.
type ownerRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	FirstName string    `gorm:"column:first_name;type:varchar(64);not null"`
	LastName  string    `gorm:"column:last_name;type:varchar(64);not null"`
	Age       int       `gorm:"column:age;not null"`
	City      string    `gorm:"column:city;type:varchar(64);not null"`
	Email     string    `gorm:"column:email;type:varchar(128);not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (ownerRecord) TableName() string { return "owners" }

// Dog schema mirrors the dogs Postgres adapter.
type dogRecord struct {
	ID          int64        `gorm:"primaryKey;column:id"`
	Name        string       `gorm:"column:name;type:varchar(128);not null"`
	DateOfBirth time.Time    `gorm:"column:date_of_birth;type:date;not null"`
	OwnerID     *int64       `gorm:"column:owner_id;index"`
	Owner       *ownerRecord `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	BreedID     *int64       `gorm:"column:breed_id;index"`
	Breed       *breedRecord `gorm:"foreignKey:BreedID;constraint:OnDelete:SET NULL"`
	CreatedAt   time.Time    `gorm:"column:created_at"`
	UpdatedAt   time.Time    `gorm:"column:updated_at"`
}

func (dogRecord) TableName() string { return "dogs" }
