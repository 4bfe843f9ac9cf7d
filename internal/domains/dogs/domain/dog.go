package domain

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for dates of birth.
const DateLayout = "2006-01-02"

var (
	ErrEmptyName          = errors.New("dog name is required")
	ErrMissingDateOfBirth = errors.New("date of birth is required")
	ErrFutureDateOfBirth  = errors.New("date of birth should not be in the future")
)

// BreedRef is the snapshot of the registry breed a dog belongs to.
type BreedRef struct {
	ID   int64
	Name string
}

// Dog is a registered animal, optionally linked to a single owner.
type Dog struct {
	ID          int64
	Name        string
	DateOfBirth time.Time
	Breed       *BreedRef
	OwnerID     *int64
}

// NewDog validates and constructs a dog.
func NewDog(name string, dateOfBirth time.Time, breed *BreedRef, ownerID *int64, now time.Time) (*Dog, error) {
	dog := &Dog{
		Name:        strings.TrimSpace(name),
		DateOfBirth: TruncateDate(dateOfBirth),
		Breed:       breed,
		OwnerID:     ownerID,
	}
	if err := dog.Validate(now); err != nil {
		return nil, err
	}
	return dog, nil
}

// Validate enforces the dog invariants relative to now.
func (d *Dog) Validate(now time.Time) error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	if d.DateOfBirth.IsZero() {
		return ErrMissingDateOfBirth
	}
	if TruncateDate(d.DateOfBirth).After(TruncateDate(now)) {
		return ErrFutureDateOfBirth
	}
	return nil
}

// Patch carries the patchable dog fields; breed and owner are fixed at creation.
type Patch struct {
	Name        *string
	DateOfBirth *time.Time
}

func (d *Dog) Apply(patch Patch, now time.Time) error {
	if patch.Name != nil {
		d.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.DateOfBirth != nil {
		d.DateOfBirth = TruncateDate(*patch.DateOfBirth)
	}
	return d.Validate(now)
}

// OwnedBy reports whether the dog is linked to the given owner.
func (d *Dog) OwnedBy(ownerID int64) bool {
	return d.OwnerID != nil && *d.OwnerID == ownerID
}

func (d *Dog) BreedName() string {
	if d.Breed == nil {
		return ""
	}
	return d.Breed.Name
}

func (d *Dog) OwnerIDValue() int64 {
	if d.OwnerID == nil {
		return 0
	}
	return *d.OwnerID
}

// Clone returns a deep copy.
func (d *Dog) Clone() *Dog {
	if d == nil {
		return nil
	}
	out := *d
	if d.Breed != nil {
		breed := *d.Breed
		out.Breed = &breed
	}
	if d.OwnerID != nil {
		owner := *d.OwnerID
		out.OwnerID = &owner
	}
	return &out
}

// TruncateDate drops the time of day, keeping the calendar date in UTC.
func TruncateDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Filter lists the optional dog search criteria.
type Filter struct {
	Name        string
	DateOfBirth *time.Time
	BreedName   string
	OwnerID     *int64
}
