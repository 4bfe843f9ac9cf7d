package types

import "github.com/Apurer/go-gin-dog-registry/internal/shared/principal"

// CreateOwnerInput is a validated self-registration. The password is only
// forwarded to the identity provider.
type CreateOwnerInput struct {
	FirstName string
	LastName  string
	Age       int
	City      string
	Email     string
	Password  string
}

type RoleOperation string

const (
	RoleOperationAdd    RoleOperation = "ADD"
	RoleOperationDelete RoleOperation = "DELETE"
)

// RoleChange grants or revokes a realm role for the identity registered under Email.
type RoleChange struct {
	Email     string
	Role      principal.Role
	Operation RoleOperation
}

// DeleteOwnerInput identifies the local record and the identity removed together.
type DeleteOwnerInput struct {
	OwnerID  int64
	Username string
}
