package mapper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	dogtypes "github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/application/types"
	"github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/domain"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/validation"
)

const (
	maxNameLength  = 128
	maxBreedLength = 128
)

// Date is a calendar date serialised as "2006-01-02".
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{Time: domain.TruncateDate(t)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(domain.DateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := time.Parse(domain.DateLayout, raw)
	if err != nil {
		return fmt.Errorf("date must use the %s layout: %w", domain.DateLayout, err)
	}
	d.Time = parsed
	return nil
}

// DogRequest is the payload for dog creation and patching.
// Breed is only read on creation.
type DogRequest struct {
	Name        *string `json:"name,omitempty"`
	DateOfBirth *Date   `json:"dateOfBirth,omitempty"`
	Breed       *string `json:"breed,omitempty"`
}

type DogResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DateOfBirth Date   `json:"dateOfBirth"`
	Breed       string `json:"breed,omitempty"`
	OwnerID     *int64 `json:"ownerId"`
}

// SearchQuery binds the optional dog search criteria.
type SearchQuery struct {
	Name        string     `form:"name"`
	DateOfBirth *time.Time `form:"dateOfBirth" time_format:"2006-01-02" time_utc:"1"`
	Breed       string     `form:"breed"`
	OwnerID     *int64     `form:"ownerId"`
}

func (r DogRequest) Validate(group validation.Group, now time.Time) error {
	c := validation.New(group).
		Text("name", r.Name, 0, maxNameLength).
		Present("dateOfBirth", r.DateOfBirth != nil && !r.DateOfBirth.IsZero()).
		PastOrPresent("dateOfBirth", r.dateOfBirth(), now)
	if group == validation.Create {
		c.Text("breed", r.Breed, 0, maxBreedLength)
	}
	return c.Err()
}

func (r DogRequest) dateOfBirth() *time.Time {
	if r.DateOfBirth == nil || r.DateOfBirth.IsZero() {
		return nil
	}
	t := r.DateOfBirth.Time
	return &t
}

// ToCreateInput maps a validated creation payload.
func (r DogRequest) ToCreateInput(ownerID *int64) dogtypes.CreateDogInput {
	input := dogtypes.CreateDogInput{OwnerID: ownerID}
	if r.Name != nil {
		input.Name = *r.Name
	}
	if dob := r.dateOfBirth(); dob != nil {
		input.DateOfBirth = *dob
	}
	if r.Breed != nil {
		input.BreedName = *r.Breed
	}
	return input
}

func (r DogRequest) ToPatch() domain.Patch {
	return domain.Patch{Name: r.Name, DateOfBirth: r.dateOfBirth()}
}

func (q SearchQuery) ToFilter() domain.Filter {
	return domain.Filter{
		Name:        q.Name,
		DateOfBirth: q.DateOfBirth,
		BreedName:   q.Breed,
		OwnerID:     q.OwnerID,
	}
}

func FromDomain(dog *domain.Dog) DogResponse {
	if dog == nil {
		return DogResponse{}
	}
	resp := DogResponse{
		ID:          dog.ID,
		Name:        dog.Name,
		DateOfBirth: NewDate(dog.DateOfBirth),
		Breed:       dog.BreedName(),
	}
	if dog.OwnerID != nil {
		owner := *dog.OwnerID
		resp.OwnerID = &owner
	}
	return resp
}

func FromDomainList(dogs []*domain.Dog) []DogResponse {
	out := make([]DogResponse, 0, len(dogs))
	for _, dog := range dogs {
		out = append(out, FromDomain(dog))
	}
	return out
}
