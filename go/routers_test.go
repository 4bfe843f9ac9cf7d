package registryserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	breedmemory "github.com/Apurer/go-gin-dog-registry/internal/domains/breeds/adapters/memory"
	breedapp "github.com/Apurer/go-gin-dog-registry/internal/domains/breeds/application"
	dogmemory "github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/adapters/memory"
	dogapp "github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/application"
	"github.com/Apurer/go-gin-dog-registry/internal/domains/owners/adapters/identity"
	ownermemory "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/adapters/memory"
	ownerworkflows "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/adapters/workflows"
	ownerapp "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/application"
	"github.com/Apurer/go-gin-dog-registry/internal/platform/auth"
	apierrors "github.com/Apurer/go-gin-dog-registry/internal/shared/errors"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/principal"
)

// tokenTable resolves bearer tokens by value.
type tokenTable map[string]principal.Principal

func (t tokenTable) Verify(raw string) (principal.Principal, error) {
	p, ok := t[raw]
	if !ok {
		return principal.Principal{}, errors.New("unknown token")
	}
	return p, nil
}

var tokens = tokenTable{
	"admin": {Subject: "1", Email: "root@example.com", Roles: []principal.Role{principal.RoleAdmin}},
	"ann":   {Subject: "2", Email: "ann@example.com", Roles: []principal.Role{principal.RoleUser}},
	"bob":   {Subject: "3", Email: "bob@example.com", Roles: []principal.Role{principal.RoleUser}},
	"nora":  {Subject: "4", Email: "ann@example.com"},
}

type harness struct {
	router   *gin.Engine
	identity *identity.MemoryGateway
}

func newHarness(t *testing.T) harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dogRepo := dogmemory.NewRepository()
	breeds := breedapp.NewService(breedmemory.NewRepository(dogRepo))
	dogs := dogapp.NewService(dogRepo, breeds)
	owners := ownerapp.NewService(ownermemory.NewRepository(dogRepo))
	gateway := identity.NewMemoryGateway()

	handlers := ApiHandleFunctions{
		BreedAPI: NewBreedAPI(breeds, 20),
		DogAPI:   NewDogAPI(dogapp.NewFacade(dogs, owners), 20),
		OwnerAPI: NewOwnerAPI(ownerapp.NewFacade(owners, dogs, gateway, ownerworkflows.NewInlineOwnerWorkflows(owners, gateway)), 20),
	}
	guard := auth.NewMiddleware(tokens, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return harness{router: NewRouterWithGinEngine(gin.New(), handlers, guard), identity: gateway}
}

func (h harness) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch v := body.(type) {
		case string:
			reader = bytes.NewBufferString(v)
		default:
			raw, err := json.Marshal(v)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader).WithContext(context.Background())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (h harness) registerOwner(t *testing.T, email string) int64 {
	t.Helper()
	rec := h.do(t, http.MethodPost, "/v1/owners", "", map[string]any{
		"firstName": "Ann", "lastName": "Lee", "age": 31, "city": "Oslo",
		"email": email, "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[struct {
		ID int64 `json:"id"`
	}](t, rec).ID
}

func (h harness) createBreed(t *testing.T, name string) {
	t.Helper()
	rec := h.do(t, http.MethodPost, "/v1/breeds", "admin", map[string]any{
		"breedName": name, "averageLifeExpectancy": 13, "originCountry": "Wales", "easyToTrain": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestRouter_BreedLifecycle(t *testing.T) {
	h := newHarness(t)
	h.createBreed(t, "Corgi")

	rec := h.do(t, http.MethodPost, "/v1/breeds", "admin", map[string]any{
		"breedName": "corgi", "averageLifeExpectancy": 12, "originCountry": "Wales", "easyToTrain": true,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apierrors.CodeAlreadyExists, decode[apierrors.ErrorResponse](t, rec).ErrorCode)

	rec = h.do(t, http.MethodGet, "/v1/breeds?page=0&size=5", "admin", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[struct {
		Content       []map[string]any `json:"content"`
		TotalElements int64            `json:"totalElements"`
		Size          int              `json:"size"`
	}](t, rec)
	assert.Len(t, page.Content, 1)
	assert.EqualValues(t, 1, page.TotalElements)
	assert.Equal(t, 5, page.Size)

	rec = h.do(t, http.MethodPatch, "/v1/breeds/1", "admin", map[string]any{"originCountry": "United Kingdom"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "United Kingdom", decode[map[string]any](t, rec)["originCountry"])

	rec = h.do(t, http.MethodGet, "/v1/breeds/search?originCountry=United%20Kingdom", "admin", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = h.do(t, http.MethodDelete, "/v1/breeds/1", "admin", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = h.do(t, http.MethodGet, "/v1/breeds/1", "admin", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apierrors.CodeNotFound, decode[apierrors.ErrorResponse](t, rec).ErrorCode)
}

func TestRouter_AccessMatrix(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/v1/breeds", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, apierrors.CodePermissionDenied, decode[apierrors.ErrorResponse](t, rec).ErrorCode)

	rec = h.do(t, http.MethodGet, "/v1/breeds", "forged", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(t, http.MethodGet, "/v1/breeds", "ann", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = h.do(t, http.MethodGet, "/v1/owners", "ann", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = h.do(t, http.MethodGet, "/v1/dogs", "ann", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RolelessTokenStopsAtGuard(t *testing.T) {
	h := newHarness(t)
	annID := h.registerOwner(t, "ann@example.com")

	// nora carries ann's email but no registry role.
	for _, path := range []string{"/v1/owners/" + itoa(annID), "/v1/dogs"} {
		rec := h.do(t, http.MethodGet, path, "nora", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
		assert.Equal(t, apierrors.CodePermissionDenied, decode[apierrors.ErrorResponse](t, rec).ErrorCode, path)
	}

	rec := h.do(t, http.MethodGet, "/v1/owners/"+itoa(annID), "ann", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_DeletedBreedDetachesDogs(t *testing.T) {
	h := newHarness(t)
	h.createBreed(t, "Corgi")
	annID := h.registerOwner(t, "ann@example.com")

	rec := h.do(t, http.MethodPost, "/v1/owners/"+itoa(annID)+"/dogs", "ann", map[string]any{
		"name": "Rex", "dateOfBirth": "2020-01-02", "breed": "Corgi",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	dogID := int64(decode[map[string]any](t, rec)["id"].(float64))

	rec = h.do(t, http.MethodGet, "/v1/dogs/search?breed=Corgi", "admin", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = h.do(t, http.MethodDelete, "/v1/breeds/1", "admin", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = h.do(t, http.MethodGet, "/v1/dogs/search?breed=Corgi", "admin", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]map[string]any](t, rec))

	rec = h.do(t, http.MethodGet, "/v1/dogs/"+itoa(dogID), "admin", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[map[string]any](t, rec)["breed"])
}

func TestRouter_OwnerAndDogs(t *testing.T) {
	h := newHarness(t)
	h.createBreed(t, "Corgi")
	annID := h.registerOwner(t, "ann@example.com")
	assert.Equal(t, []principal.Role{principal.RoleUser}, h.identity.Roles("ann@example.com"))

	rec := h.do(t, http.MethodPost, "/v1/owners/"+itoa(annID)+"/dogs", "ann", map[string]any{
		"name": "Rex", "dateOfBirth": "2020-01-02", "breed": "Corgi",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	dog := decode[map[string]any](t, rec)
	assert.Equal(t, "2020-01-02", dog["dateOfBirth"])
	assert.Equal(t, "Corgi", dog["breed"])
	dogID := int64(dog["id"].(float64))

	rec = h.do(t, http.MethodGet, "/v1/dogs/"+itoa(dogID), "bob", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = h.do(t, http.MethodGet, "/v1/owners/"+itoa(annID), "ann", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	owner := decode[map[string]any](t, rec)
	assert.Len(t, owner["dogs"], 1)
	assert.NotContains(t, owner, "password")

	rec = h.do(t, http.MethodPatch, "/v1/dogs/"+itoa(dogID), "ann", map[string]any{"dateOfBirth": "2999-01-01"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apierrors.CodeFutureDateOfBirth, decode[apierrors.ErrorResponse](t, rec).ErrorCode)

	rec = h.do(t, http.MethodDelete, "/v1/owners/"+itoa(annID), "ann", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = h.do(t, http.MethodGet, "/v1/dogs/"+itoa(dogID), "admin", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, h.identity.Roles("ann@example.com"))
}

func TestRouter_UpdateRoles(t *testing.T) {
	h := newHarness(t)
	h.registerOwner(t, "ann@example.com")

	rec := h.do(t, http.MethodPatch, "/v1/owners/roles", "admin", map[string]any{
		"email": "ann@example.com", "role": "ADMIN", "operationType": "ADD",
	})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
	assert.Equal(t, []principal.Role{principal.RoleUser, principal.RoleAdmin}, h.identity.Roles("ann@example.com"))

	rec = h.do(t, http.MethodPatch, "/v1/owners/roles", "admin", map[string]any{
		"email": "ann@example.com", "role": "OWNER", "operationType": "ADD",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_MalformedInput(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/v1/breeds", "admin", `{"breedName":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apierrors.CodeInvalidParameter, decode[apierrors.ErrorResponse](t, rec).ErrorCode)

	rec = h.do(t, http.MethodGet, "/v1/breeds/abc", "admin", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(t, http.MethodGet, "/v1/dogs?size=-1", "admin", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(t, http.MethodGet, "/v1/breeds?page=4611686018427387905&size=2", "admin", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	problem := decode[apierrors.ErrorResponse](t, rec)
	assert.Equal(t, apierrors.CodeInvalidParameter, problem.ErrorCode)

	rec = h.do(t, http.MethodGet, "/v1/breeds?page=4611686018427387903&size=2", "admin", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, decode[struct {
		Content []map[string]any `json:"content"`
	}](t, rec).Content)

	rec = h.do(t, http.MethodPost, "/v1/owners", "", map[string]any{
		"firstName": "Ann", "lastName": "Lee", "age": 31, "city": "Oslo", "email": "not-an-email", "password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apierrors.CodeInvalidEmail, decode[apierrors.ErrorResponse](t, rec).ErrorCode)
}

func TestRouter_Health(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
