package auth

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/go-gin-dog-registry/internal/shared/errors"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/principal"
)

// Access is the role a route demands.
type Access int

const (
	Public Access = iota
	// Authenticated admits USER or ADMIN.
	Authenticated
	Admin
)

// Middleware authenticates bearer tokens for gin routes.
type Middleware struct {
	verifier  TokenVerifier
	responder *apierrors.Responder
	logger    *slog.Logger
}

func NewMiddleware(verifier TokenVerifier, logger *slog.Logger) *Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &Middleware{verifier: verifier, responder: apierrors.NewResponder(logger), logger: logger}
}

// Require answers 401 without a valid token and 403 when the role is missing.
func (m *Middleware) Require(access Access) gin.HandlerFunc {
	return func(c *gin.Context) {
		if access == Public {
			c.Next()
			return
		}
		caller, ok := m.authenticate(c)
		if !ok {
			m.responder.Respond(c, apierrors.ErrUnauthorized.WithDetail("missing or invalid bearer token"))
			return
		}
		if !allowed(caller, access) {
			m.responder.Respond(c, apierrors.NewForbidden("required role is missing"))
			return
		}
		c.Request = c.Request.WithContext(principal.WithContext(c.Request.Context(), caller))
		c.Next()
	}
}

func (m *Middleware) authenticate(c *gin.Context) (principal.Principal, bool) {
	if m == nil || m.verifier == nil {
		return principal.Principal{}, false
	}
	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return principal.Principal{}, false
	}
	caller, err := m.verifier.Verify(strings.TrimSpace(token))
	if err != nil {
		m.logger.LogAttrs(c.Request.Context(), slog.LevelWarn, "bearer token rejected",
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()))
		return principal.Principal{}, false
	}
	return caller, true
}

func allowed(caller principal.Principal, access Access) bool {
	switch access {
	case Admin:
		return caller.IsAdmin()
	case Authenticated:
		return caller.HasAnyRole()
	}
	return true
}

// PrincipalFrom returns the caller stored by Require.
func PrincipalFrom(c *gin.Context) principal.Principal {
	caller, _ := principal.FromContext(c.Request.Context())
	return caller
}
