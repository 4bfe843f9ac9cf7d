package domain

import (
	"errors"
	"strings"
)

var (
	ErrEmptyName             = errors.New("breed name is required")
	ErrEmptyOriginCountry    = errors.New("origin country is required")
	ErrInvalidLifeExpectancy = errors.New("average life expectancy must be greater than zero")
)

// Breed is an entry of the breed registry.
type Breed struct {
	ID                    int64
	Name                  string
	AverageLifeExpectancy int
	OriginCountry         string
	EasyToTrain           bool
}

// NewBreed validates and constructs a registry entry.
func NewBreed(name string, averageLifeExpectancy int, originCountry string, easyToTrain bool) (*Breed, error) {
	breed := &Breed{
		Name:                  strings.TrimSpace(name),
		AverageLifeExpectancy: averageLifeExpectancy,
		OriginCountry:         strings.TrimSpace(originCountry),
		EasyToTrain:           easyToTrain,
	}
	if err := breed.Validate(); err != nil {
		return nil, err
	}
	return breed, nil
}

// Validate enforces invariants on the entry.
func (b *Breed) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyName
	}
	if b.AverageLifeExpectancy <= 0 {
		return ErrInvalidLifeExpectancy
	}
	if strings.TrimSpace(b.OriginCountry) == "" {
		return ErrEmptyOriginCountry
	}
	return nil
}

// Patch carries the fields of a partial update; nil fields are left untouched.
type Patch struct {
	Name                  *string
	AverageLifeExpectancy *int
	OriginCountry         *string
	EasyToTrain           *bool
}

// Apply copies the provided fields and re-validates.
func (b *Breed) Apply(patch Patch) error {
	if patch.Name != nil {
		b.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.AverageLifeExpectancy != nil {
		b.AverageLifeExpectancy = *patch.AverageLifeExpectancy
	}
	if patch.OriginCountry != nil {
		b.OriginCountry = strings.TrimSpace(*patch.OriginCountry)
	}
	if patch.EasyToTrain != nil {
		b.EasyToTrain = *patch.EasyToTrain
	}
	return b.Validate()
}

// SameName reports whether two breed names collide under the case-insensitive rule.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Filter lists the optional search criteria; blank or nil criteria are ignored.
type Filter struct {
	Name                  string
	AverageLifeExpectancy *int
	OriginCountry         string
	EasyToTrain           *bool
}
