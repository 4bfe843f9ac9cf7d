package owners

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"

	dogmemory "github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/adapters/memory"
	owneridentity "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/adapters/identity"
	ownermemory "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/adapters/memory"
	ownerapp "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/application"
	ownertypes "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/application/types"
	ownerdomain "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/domain"
	ownerports "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/ports"
	apierrors "github.com/Apurer/go-gin-dog-registry/internal/shared/errors"
)

func TestActivities_DeleteOwnerAndIdentity(t *testing.T) {
	ctx := context.Background()
	service := ownerapp.NewService(ownermemory.NewRepository(dogmemory.NewRepository()))
	identity := owneridentity.NewMemoryGateway()
	owner, err := service.Create(ctx, &ownerdomain.Owner{FirstName: "Ann", LastName: "Lee", Age: 30, City: "Oslo", Email: "ann@example.com"})
	require.NoError(t, err)
	require.NoError(t, identity.RegisterUser(ctx, ownerports.Registration{Email: "ann@example.com"}))

	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestActivityEnvironment()
	acts := NewActivities(service, identity)
	env.RegisterActivity(acts)
	input := ownertypes.DeleteOwnerInput{OwnerID: owner.ID, Username: owner.Email}

	_, err = env.ExecuteActivity(acts.DeleteOwnerRecord, input)
	require.NoError(t, err)
	_, err = service.Get(ctx, owner.ID)
	require.ErrorIs(t, err, apierrors.ErrNotFound)

	_, err = env.ExecuteActivity(acts.DeleteIdentity, input)
	require.NoError(t, err)
	_, err = identity.FindUserByEmail(ctx, owner.Email)
	require.ErrorIs(t, err, apierrors.ErrNotFound)
}

func TestActivities_FailureCarriesProblem(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestActivityEnvironment()
	acts := NewActivities(nil, owneridentity.NewMemoryGateway())
	env.RegisterActivity(acts)

	_, err := env.ExecuteActivity(acts.DeleteIdentity, ownertypes.DeleteOwnerInput{Username: "ghost@example.com"})
	require.Error(t, err)

	problem, ok := ProblemFromError(err)
	require.True(t, ok)
	assert.Equal(t, apierrors.CodeNotFound, problem.Code)
	assert.Equal(t, http.StatusNotFound, problem.Status)
}
