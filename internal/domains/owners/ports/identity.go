package ports

import (
	"context"

	"github.com/Apurer/go-gin-dog-registry/internal/shared/principal"
)

// Registration is the identity created for a new owner.
type Registration struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// IdentityUser is a user known to the identity provider.
type IdentityUser struct {
	ID       string
	Username string
	Email    string
}

// IdentityGateway is the outbound port to the external identity provider.
// Implementations translate provider failures into apierrors problems.
type IdentityGateway interface {
	// RegisterUser creates an enabled identity with username = email and grants the USER role.
	RegisterUser(ctx context.Context, registration Registration) error
	AssignRole(ctx context.Context, email string, role principal.Role) error
	RemoveRole(ctx context.Context, email string, role principal.Role) error
	DeleteUser(ctx context.Context, username string) error
	FindUserByEmail(ctx context.Context, email string) (*IdentityUser, error)
}
