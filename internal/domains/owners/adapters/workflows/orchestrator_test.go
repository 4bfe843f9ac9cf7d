package workflows

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	oteltrace "go.opentelemetry.io/otel/trace"

	dogmemory "github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/adapters/memory"
	dogdomain "github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/domain"
	owneridentity "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/adapters/identity"
	ownermemory "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/adapters/memory"
	ownerapp "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/application"
	ownertypes "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/application/types"
	ownerdomain "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/domain"
	ownerports "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/ports"
	apierrors "github.com/Apurer/go-gin-dog-registry/internal/shared/errors"
)

func TestInlineOwnerWorkflows_DeletesOwnerDogsAndIdentity(t *testing.T) {
	ctx := context.Background()
	dogs := dogmemory.NewRepository()
	service := ownerapp.NewService(ownermemory.NewRepository(dogs))
	identity := owneridentity.NewMemoryGateway()

	owner, err := service.Create(ctx, &ownerdomain.Owner{FirstName: "Ann", LastName: "Lee", Age: 30, City: "Oslo", Email: "ann@example.com"})
	require.NoError(t, err)
	require.NoError(t, identity.RegisterUser(ctx, ownerports.Registration{Email: owner.Email}))
	ownerID := owner.ID
	_, err = dogs.Save(ctx, &dogdomain.Dog{Name: "Rex", OwnerID: &ownerID})
	require.NoError(t, err)

	orchestrator := NewInlineOwnerWorkflows(service, identity)
	require.NoError(t, orchestrator.DeleteOwner(ctx, ownertypes.DeleteOwnerInput{OwnerID: owner.ID, Username: owner.Email}))

	_, err = service.Get(ctx, owner.ID)
	require.ErrorIs(t, err, apierrors.ErrNotFound)
	remaining, err := dogs.ListAllByOwner(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
	_, err = identity.FindUserByEmail(ctx, owner.Email)
	require.ErrorIs(t, err, apierrors.ErrNotFound)
}

func TestInlineOwnerWorkflows_MissingOwnerSkipsIdentity(t *testing.T) {
	ctx := context.Background()
	service := ownerapp.NewService(ownermemory.NewRepository(dogmemory.NewRepository()))
	identity := owneridentity.NewMemoryGateway()
	require.NoError(t, identity.RegisterUser(ctx, ownerports.Registration{Email: "ann@example.com"}))

	err := NewInlineOwnerWorkflows(service, identity).DeleteOwner(ctx, ownertypes.DeleteOwnerInput{OwnerID: 99, Username: "ann@example.com"})
	require.ErrorIs(t, err, apierrors.ErrNotFound)

	_, err = identity.FindUserByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
}

func TestInlineOwnerWorkflows_NotConfigured(t *testing.T) {
	var orchestrator *InlineOwnerWorkflows
	require.Error(t, orchestrator.DeleteOwner(context.Background(), ownertypes.DeleteOwnerInput{}))
}

func TestWorkflowTraceComponent(t *testing.T) {
	traceID, err := oteltrace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := oteltrace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	spanCtx := oteltrace.NewSpanContext(oteltrace.SpanContextConfig{TraceID: traceID, SpanID: spanID})
	ctx := oteltrace.ContextWithSpanContext(context.Background(), spanCtx)

	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", workflowTraceComponent(ctx))
	assert.Contains(t, workflowTraceComponent(context.Background()), "fallback-")
}
