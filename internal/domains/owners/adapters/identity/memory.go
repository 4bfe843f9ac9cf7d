package identity

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/Apurer/go-gin-dog-registry/internal/domains/owners/ports"
	apierrors "github.com/Apurer/go-gin-dog-registry/internal/shared/errors"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/principal"
)

var _ ports.IdentityGateway = (*MemoryGateway)(nil)

// MemoryGateway keeps identities in process, for development and tests.
type MemoryGateway struct {
	mu     sync.RWMutex
	users  map[string]*memoryUser
	nextID int
}

type memoryUser struct {
	id    string
	email string
	roles map[principal.Role]struct{}
}

func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{users: make(map[string]*memoryUser)}
}

func (g *MemoryGateway) RegisterUser(_ context.Context, registration ports.Registration) error {
	key := normalize(registration.Email)
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.users[key]; exists {
		return apierrors.NewRegistrationFailed(http.StatusConflict, "User exists with same email")
	}
	g.nextID++
	g.users[key] = &memoryUser{
		id:    strconv.Itoa(g.nextID),
		email: strings.TrimSpace(registration.Email),
		roles: map[principal.Role]struct{}{principal.RoleUser: {}},
	}
	return nil
}

func (g *MemoryGateway) AssignRole(_ context.Context, email string, role principal.Role) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	user, ok := g.users[normalize(email)]
	if !ok {
		return notFound(email)
	}
	user.roles[role] = struct{}{}
	return nil
}

func (g *MemoryGateway) RemoveRole(_ context.Context, email string, role principal.Role) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	user, ok := g.users[normalize(email)]
	if !ok {
		return notFound(email)
	}
	delete(user.roles, role)
	return nil
}

func (g *MemoryGateway) DeleteUser(_ context.Context, username string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	key := normalize(username)
	if _, ok := g.users[key]; !ok {
		return apierrors.ErrNotFound.WithDetail(fmt.Sprintf("User [%s] not found", username))
	}
	delete(g.users, key)
	return nil
}

func (g *MemoryGateway) FindUserByEmail(_ context.Context, email string) (*ports.IdentityUser, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	user, ok := g.users[normalize(email)]
	if !ok {
		return nil, notFound(email)
	}
	return &ports.IdentityUser{ID: user.id, Username: user.email, Email: user.email}, nil
}

// Roles lists the realm roles granted to email.
func (g *MemoryGateway) Roles(email string) []principal.Role {
	g.mu.RLock()
	defer g.mu.RUnlock()
	user, ok := g.users[normalize(email)]
	if !ok {
		return nil
	}
	roles := make([]principal.Role, 0, len(user.roles))
	for _, role := range []principal.Role{principal.RoleUser, principal.RoleAdmin} {
		if _, granted := user.roles[role]; granted {
			roles = append(roles, role)
		}
	}
	return roles
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func notFound(email string) error {
	return apierrors.ErrNotFound.WithDetail(fmt.Sprintf("User with email [%s] not found", email))
}
