package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Apurer/go-gin-dog-registry/internal/clients/http/keycloak"
	"github.com/Apurer/go-gin-dog-registry/internal/domains/owners/ports"
	apierrors "github.com/Apurer/go-gin-dog-registry/internal/shared/errors"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/principal"
)

// AdminAPI is the slice of the Keycloak admin client the gateway needs.
type AdminAPI interface {
	CreateUser(ctx context.Context, user keycloak.UserRepresentation) (string, error)
	FindUsers(ctx context.Context, query keycloak.UserQuery) ([]keycloak.UserRepresentation, error)
	GetRealmRole(ctx context.Context, name string) (*keycloak.RoleRepresentation, error)
	AddRealmRoleMappings(ctx context.Context, userID string, roles []keycloak.RoleRepresentation) error
	DeleteRealmRoleMappings(ctx context.Context, userID string, roles []keycloak.RoleRepresentation) error
	DeleteUser(ctx context.Context, userID string) error
}

var (
	_ ports.IdentityGateway = (*KeycloakGateway)(nil)
	_ AdminAPI              = (*keycloak.Client)(nil)
)

// KeycloakGateway registers owners and manages their realm roles in Keycloak.
type KeycloakGateway struct {
	api AdminAPI
}

func NewKeycloakGateway(api AdminAPI) *KeycloakGateway {
	return &KeycloakGateway{api: api}
}

// RegisterUser creates the identity and grants it the USER role.
func (g *KeycloakGateway) RegisterUser(ctx context.Context, registration ports.Registration) error {
	if g == nil || g.api == nil {
		return apierrors.NewRegistrationFailed(http.StatusInternalServerError, "identity provider not configured")
	}
	email := strings.TrimSpace(registration.Email)
	userID, err := g.api.CreateUser(ctx, keycloak.UserRepresentation{
		Username:      email,
		Email:         email,
		FirstName:     registration.FirstName,
		LastName:      registration.LastName,
		Enabled:       true,
		EmailVerified: true,
		Credentials: []keycloak.CredentialRepresentation{
			{Type: "password", Value: registration.Password, Temporary: false},
		},
	})
	if err != nil {
		return registrationFailed(err)
	}
	if err := g.grant(ctx, userID, principal.RoleUser, g.api.AddRealmRoleMappings); err != nil {
		return registrationFailed(err)
	}
	return nil
}

func (g *KeycloakGateway) AssignRole(ctx context.Context, email string, role principal.Role) error {
	return g.changeRole(ctx, email, role, "assign", func(ctx context.Context, userID string) error {
		return g.grant(ctx, userID, role, g.api.AddRealmRoleMappings)
	})
}

func (g *KeycloakGateway) RemoveRole(ctx context.Context, email string, role principal.Role) error {
	return g.changeRole(ctx, email, role, "remove", func(ctx context.Context, userID string) error {
		return g.grant(ctx, userID, role, g.api.DeleteRealmRoleMappings)
	})
}

// DeleteUser removes the identity whose username matches.
func (g *KeycloakGateway) DeleteUser(ctx context.Context, username string) error {
	if g == nil || g.api == nil {
		return apierrors.NewOperationFailed("identity provider not configured")
	}
	users, err := g.api.FindUsers(ctx, keycloak.UserQuery{Username: username, Exact: true})
	if err != nil {
		return fmt.Errorf("%w: %w", apierrors.NewOperationFailed(fmt.Sprintf("lookup of user [%s] failed", username)), err)
	}
	if len(users) == 0 {
		return apierrors.ErrNotFound.WithDetail(fmt.Sprintf("User [%s] not found", username))
	}
	if err := g.api.DeleteUser(ctx, users[0].ID); err != nil {
		if keycloak.IsNotFound(err) {
			return fmt.Errorf("%w: %w", apierrors.ErrNotFound.WithDetail(fmt.Sprintf("User [%s] not found", username)), err)
		}
		return fmt.Errorf("%w: %w", apierrors.NewOperationFailed(fmt.Sprintf("deletion of user [%s] failed", username)), err)
	}
	return nil
}

func (g *KeycloakGateway) FindUserByEmail(ctx context.Context, email string) (*ports.IdentityUser, error) {
	if g == nil || g.api == nil {
		return nil, apierrors.NewOperationFailed("identity provider not configured")
	}
	users, err := g.api.FindUsers(ctx, keycloak.UserQuery{Email: email, Exact: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apierrors.NewOperationFailed(fmt.Sprintf("lookup of user [%s] failed", email)), err)
	}
	for _, user := range users {
		if strings.EqualFold(user.Email, email) {
			return &ports.IdentityUser{ID: user.ID, Username: user.Username, Email: user.Email}, nil
		}
	}
	return nil, apierrors.ErrNotFound.WithDetail(fmt.Sprintf("User with email [%s] not found", email))
}

func (g *KeycloakGateway) changeRole(ctx context.Context, email string, role principal.Role, verb string, apply func(context.Context, string) error) error {
	user, err := g.FindUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := apply(ctx, user.ID); err != nil {
		if keycloak.IsNotFound(err) {
			return fmt.Errorf("%w: %w", apierrors.ErrNotFound.WithDetail(fmt.Sprintf("Role [%s] not found", role)), err)
		}
		return fmt.Errorf("%w: %w", apierrors.NewOperationFailed(fmt.Sprintf("failed to %s role [%s] for [%s]", verb, role, email)), err)
	}
	return nil
}

func (g *KeycloakGateway) grant(ctx context.Context, userID string, role principal.Role, mapping func(context.Context, string, []keycloak.RoleRepresentation) error) error {
	realmRole, err := g.api.GetRealmRole(ctx, string(role))
	if err != nil {
		return err
	}
	return mapping(ctx, userID, []keycloak.RoleRepresentation{*realmRole})
}

func registrationFailed(err error) error {
	var apiErr *keycloak.APIError
	if errors.As(err, &apiErr) {
		detail := apiErr.Message
		if detail == "" {
			detail = http.StatusText(apiErr.StatusCode)
		}
		return fmt.Errorf("%w: %w", apierrors.NewRegistrationFailed(apiErr.StatusCode, detail), err)
	}
	return fmt.Errorf("%w: %w", apierrors.NewRegistrationFailed(http.StatusInternalServerError, "identity provider unreachable"), err)
}
