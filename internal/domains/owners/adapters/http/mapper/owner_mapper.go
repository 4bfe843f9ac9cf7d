package mapper

import (
	dogmapper "github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/adapters/http/mapper"
	ownertypes "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/application/types"
	ownerdomain "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/domain"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/principal"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/validation"
)

const (
	maxProfileLength  = 64
	maxEmailLength    = 128
	minPasswordLength = 8
)

// PatchOwnerRequest carries the mutable owner profile.
type PatchOwnerRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Age       *int    `json:"age,omitempty"`
	City      *string `json:"city,omitempty"`
}

// CreateOwnerRequest is the self-registration payload. Password is write-only.
type CreateOwnerRequest struct {
	PatchOwnerRequest
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

type OwnerResponse struct {
	ID        int64                   `json:"id"`
	FirstName string                  `json:"firstName"`
	LastName  string                  `json:"lastName"`
	Age       int                     `json:"age"`
	City      string                  `json:"city"`
	Email     string                  `json:"email"`
	Dogs      []dogmapper.DogResponse `json:"dogs"`
}

// RoleRequest grants or revokes a realm role.
type RoleRequest struct {
	Email         string `json:"email"`
	Role          string `json:"role"`
	OperationType string `json:"operationType"`
}

// SearchQuery binds the optional owner search criteria.
type SearchQuery struct {
	FirstName string `form:"firstName"`
	LastName  string `form:"lastName"`
	Age       *int   `form:"age"`
	City      string `form:"city"`
}

func (r PatchOwnerRequest) Validate(group validation.Group) error {
	return r.collect(validation.New(group)).Err()
}

func (r PatchOwnerRequest) collect(c *validation.Collector) *validation.Collector {
	return c.
		Text("firstName", r.FirstName, 0, maxProfileLength).
		Text("lastName", r.LastName, 0, maxProfileLength).
		Positive("age", r.Age).
		Text("city", r.City, 0, maxProfileLength)
}

func (r CreateOwnerRequest) Validate() error {
	c := r.collect(validation.New(validation.Create)).
		Text("email", r.Email, 0, maxEmailLength).
		Text("password", r.Password, minPasswordLength, 0)
	if r.Email != nil {
		c.Email("email", *r.Email)
	}
	return c.Err()
}

func (r CreateOwnerRequest) ToInput() ownertypes.CreateOwnerInput {
	return ownertypes.CreateOwnerInput{
		FirstName: deref(r.FirstName),
		LastName:  deref(r.LastName),
		Age:       derefInt(r.Age),
		City:      deref(r.City),
		Email:     deref(r.Email),
		Password:  deref(r.Password),
	}
}

func (r PatchOwnerRequest) ToPatch() ownerdomain.Patch {
	return ownerdomain.Patch{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Age:       r.Age,
		City:      r.City,
	}
}

func (r RoleRequest) Validate() error {
	c := validation.New(validation.Create).
		RequiredText("email", r.Email, 0, maxEmailLength).
		OneOf("role", r.Role, string(principal.RoleUser), string(principal.RoleAdmin)).
		OneOf("operationType", r.OperationType, string(ownertypes.RoleOperationAdd), string(ownertypes.RoleOperationDelete))
	c.Email("email", r.Email)
	return c.Err()
}

func (r RoleRequest) ToRoleChange() ownertypes.RoleChange {
	return ownertypes.RoleChange{
		Email:     r.Email,
		Role:      principal.Role(r.Role),
		Operation: ownertypes.RoleOperation(r.OperationType),
	}
}

func (q SearchQuery) ToFilter() ownerdomain.Filter {
	return ownerdomain.Filter{
		FirstName: q.FirstName,
		LastName:  q.LastName,
		Age:       q.Age,
		City:      q.City,
	}
}

// FromDomain renders an owner with its dogs; the password never leaves the identity provider.
func FromDomain(owner *ownerdomain.Owner) OwnerResponse {
	if owner == nil {
		return OwnerResponse{}
	}
	return OwnerResponse{
		ID:        owner.ID,
		FirstName: owner.FirstName,
		LastName:  owner.LastName,
		Age:       owner.Age,
		City:      owner.City,
		Email:     owner.Email,
		Dogs:      dogmapper.FromDomainList(owner.Dogs),
	}
}

func FromDomainList(owners []*ownerdomain.Owner) []OwnerResponse {
	out := make([]OwnerResponse, 0, len(owners))
	for _, owner := range owners {
		out = append(out, FromDomain(owner))
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
