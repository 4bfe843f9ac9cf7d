package domain

import (
	"errors"
	"strings"

	dogdomain "github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/domain"
)

var (
	ErrEmptyFirstName = errors.New("first name is required")
	ErrEmptyLastName  = errors.New("last name is required")
	ErrEmptyCity      = errors.New("city is required")
	ErrEmptyEmail     = errors.New("email is required")
	ErrInvalidAge     = errors.New("age must be greater than zero")
)

// Owner is a registered dog owner. Email doubles as the identity username.
type Owner struct {
	ID        int64
	FirstName string
	LastName  string
	Age       int
	City      string
	Email     string
	Dogs      []*dogdomain.Dog
}

// NewOwner validates and constructs an owner without dogs.
func NewOwner(firstName, lastName string, age int, city, email string) (*Owner, error) {
	owner := &Owner{
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Age:       age,
		City:      strings.TrimSpace(city),
		Email:     strings.TrimSpace(email),
	}
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	return owner, nil
}

func (o *Owner) Validate() error {
	switch {
	case strings.TrimSpace(o.FirstName) == "":
		return ErrEmptyFirstName
	case strings.TrimSpace(o.LastName) == "":
		return ErrEmptyLastName
	case o.Age <= 0:
		return ErrInvalidAge
	case strings.TrimSpace(o.City) == "":
		return ErrEmptyCity
	case strings.TrimSpace(o.Email) == "":
		return ErrEmptyEmail
	}
	return nil
}

// Patch carries the mutable owner fields. Email is fixed at registration.
type Patch struct {
	FirstName *string
	LastName  *string
	Age       *int
	City      *string
}

func (o *Owner) Apply(patch Patch) error {
	if patch.FirstName != nil {
		o.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		o.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.Age != nil {
		o.Age = *patch.Age
	}
	if patch.City != nil {
		o.City = strings.TrimSpace(*patch.City)
	}
	return o.Validate()
}

// HasEmail compares emails case-insensitively.
func (o *Owner) HasEmail(email string) bool {
	return SameEmail(o.Email, email)
}

func SameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Clone copies the owner and its dogs.
func (o *Owner) Clone() *Owner {
	if o == nil {
		return nil
	}
	out := *o
	out.Dogs = make([]*dogdomain.Dog, 0, len(o.Dogs))
	for _, dog := range o.Dogs {
		out.Dogs = append(out.Dogs, dog.Clone())
	}
	return &out
}

// Filter lists the optional owner search criteria.
type Filter struct {
	FirstName string
	LastName  string
	Age       *int
	City      string
}
