package mapper

import (
	"github.com/Apurer/go-gin-dog-registry/internal/domains/breeds/domain"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/validation"
)

const (
	maxNameLength          = 128
	maxOriginCountryLength = 64
)

// BreedRequest is the transport shape for creating and patching breeds.
type BreedRequest struct {
	BreedName             *string `json:"breedName,omitempty"`
	AverageLifeExpectancy *int    `json:"averageLifeExpectancy,omitempty"`
	OriginCountry         *string `json:"originCountry,omitempty"`
	EasyToTrain           *bool   `json:"easyToTrain,omitempty"`
}

// BreedResponse is the transport shape returned for a breed.
type BreedResponse struct {
	ID                    int64  `json:"id"`
	BreedName             string `json:"breedName"`
	AverageLifeExpectancy int    `json:"averageLifeExpectancy"`
	OriginCountry         string `json:"originCountry"`
	EasyToTrain           bool   `json:"easyToTrain"`
}

// SearchQuery binds the optional breed search criteria from the query string.
type SearchQuery struct {
	BreedName             string `form:"breedName"`
	AverageLifeExpectancy *int   `form:"averageLifeExpectancy"`
	OriginCountry         string `form:"originCountry"`
	EasyToTrain           *bool  `form:"easyToTrain"`
}

// Validate checks the payload for the given group.
func (r BreedRequest) Validate(group validation.Group) error {
	return validation.New(group).
		Text("breedName", r.BreedName, 0, maxNameLength).
		Positive("averageLifeExpectancy", r.AverageLifeExpectancy).
		Text("originCountry", r.OriginCountry, 0, maxOriginCountryLength).
		Present("easyToTrain", r.EasyToTrain != nil).
		Err()
}

// ToDomain maps a validated create payload; the id is server-assigned.
func (r BreedRequest) ToDomain() *domain.Breed {
	breed := &domain.Breed{}
	if r.BreedName != nil {
		breed.Name = *r.BreedName
	}
	if r.AverageLifeExpectancy != nil {
		breed.AverageLifeExpectancy = *r.AverageLifeExpectancy
	}
	if r.OriginCountry != nil {
		breed.OriginCountry = *r.OriginCountry
	}
	if r.EasyToTrain != nil {
		breed.EasyToTrain = *r.EasyToTrain
	}
	return breed
}

func (r BreedRequest) ToPatch() domain.Patch {
	return domain.Patch{
		Name:                  r.BreedName,
		AverageLifeExpectancy: r.AverageLifeExpectancy,
		OriginCountry:         r.OriginCountry,
		EasyToTrain:           r.EasyToTrain,
	}
}

func (q SearchQuery) ToFilter() domain.Filter {
	return domain.Filter{
		Name:                  q.BreedName,
		AverageLifeExpectancy: q.AverageLifeExpectancy,
		OriginCountry:         q.OriginCountry,
		EasyToTrain:           q.EasyToTrain,
	}
}

func FromDomain(breed *domain.Breed) BreedResponse {
	if breed == nil {
		return BreedResponse{}
	}
	return BreedResponse{
		ID:                    breed.ID,
		BreedName:             breed.Name,
		AverageLifeExpectancy: breed.AverageLifeExpectancy,
		OriginCountry:         breed.OriginCountry,
		EasyToTrain:           breed.EasyToTrain,
	}
}

func FromDomainList(breeds []*domain.Breed) []BreedResponse {
	out := make([]BreedResponse, 0, len(breeds))
	for _, breed := range breeds {
		out = append(out, FromDomain(breed))
	}
	return out
}
