package mapper

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dogdomain "github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/domain"
	ownertypes "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/application/types"
	ownerdomain "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/domain"
	apierrors "github.com/Apurer/go-gin-dog-registry/internal/shared/errors"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/validation"
)

func decodeCreate(t *testing.T, body string) CreateOwnerRequest {
	t.Helper()
	var req CreateOwnerRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return req
}

func codeOf(t *testing.T, err error) (apierrors.Code, string) {
	t.Helper()
	var problem apierrors.Problem
	require.ErrorAs(t, err, &problem)
	return problem.Code, problem.Detail
}

func TestCreateOwnerRequest_Validate(t *testing.T) {
	valid := decodeCreate(t, `{"firstName":"Ann","lastName":"Lee","age":30,"city":"Oslo","email":"ann@example.com","password":"s3cretpass"}`)
	require.NoError(t, valid.Validate())
	input := valid.ToInput()
	assert.Equal(t, "ann@example.com", input.Email)
	assert.Equal(t, "s3cretpass", input.Password)

	code, field := codeOf(t, decodeCreate(t, `{"firstName":"Ann","lastName":"Lee","age":30,"city":"Oslo","email":"not-an-email","password":"s3cretpass"}`).Validate())
	assert.Equal(t, apierrors.CodeInvalidEmail, code)
	assert.Equal(t, "email", field)

	code, field = codeOf(t, decodeCreate(t, `{"firstName":"Ann","lastName":"Lee","age":30,"city":"Oslo","email":"ann@example.com","password":"short"}`).Validate())
	assert.Equal(t, apierrors.CodeInvalidSize, code)
	assert.Equal(t, "password", field)

	code, field = codeOf(t, decodeCreate(t, `{"lastName":"Lee","age":30,"city":"Oslo","email":"ann@example.com","password":"s3cretpass"}`).Validate())
	assert.Equal(t, apierrors.CodeMandatoryField, code)
	assert.Equal(t, "firstName", field)
}

func TestPatchOwnerRequest_Validate(t *testing.T) {
	age := -3
	code, field := codeOf(t, PatchOwnerRequest{Age: &age}.Validate(validation.Patch))
	assert.Equal(t, apierrors.CodeInvalidParameter, code)
	assert.Equal(t, "age", field)

	require.NoError(t, PatchOwnerRequest{}.Validate(validation.Patch))
}

func TestRoleRequest(t *testing.T) {
	req := RoleRequest{Email: "ann@example.com", Role: "ADMIN", OperationType: "ADD"}
	require.NoError(t, req.Validate())
	change := req.ToRoleChange()
	assert.Equal(t, ownertypes.RoleOperationAdd, change.Operation)

	code, field := codeOf(t, RoleRequest{Email: "ann@example.com", Role: "ROOT", OperationType: "ADD"}.Validate())
	assert.Equal(t, apierrors.CodeInvalidParameter, code)
	assert.Equal(t, "role", field)

	code, _ = codeOf(t, RoleRequest{Role: "USER", OperationType: "DELETE"}.Validate())
	assert.Equal(t, apierrors.CodeMandatoryField, code)
}

func TestOwnerResponse_OmitsPassword(t *testing.T) {
	owner := &ownerdomain.Owner{
		ID: 1, FirstName: "Ann", LastName: "Lee", Age: 30, City: "Oslo", Email: "ann@example.com",
		Dogs: []*dogdomain.Dog{{ID: 4, Name: "Rex", DateOfBirth: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), OwnerID: ptrInt64(1)}},
	}
	body, err := json.Marshal(FromDomain(owner))
	require.NoError(t, err)
	assert.NotContains(t, string(body), "password")
	assert.JSONEq(t, `{"id":1,"firstName":"Ann","lastName":"Lee","age":30,"city":"Oslo","email":"ann@example.com",
		"dogs":[{"id":4,"name":"Rex","dateOfBirth":"2020-01-01","ownerId":1}]}`, string(body))
}

func ptrInt64(v int64) *int64 { return &v }
