package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	ownertypes "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/application/types"
	"github.com/Apurer/go-gin-dog-registry/internal/domains/owners/ports"
	owneractivities "github.com/Apurer/go-gin-dog-registry/internal/platform/temporal/activities/owners"
	ownerworkflows "github.com/Apurer/go-gin-dog-registry/internal/platform/temporal/workflows/owners"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalOwnerWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineOwnerWorkflows)(nil)
)

// TemporalOwnerWorkflows starts owner workflows on a Temporal cluster.
type TemporalOwnerWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalOwnerWorkflows wires a Temporal client into the orchestrator.
func NewTemporalOwnerWorkflows(c client.Client) *TemporalOwnerWorkflows {
	return &TemporalOwnerWorkflows{client: c, taskQueue: ownerworkflows.OwnerDeletionTaskQueue}
}

// DeleteOwner runs the deletion workflow and waits for it to finish.
func (o *TemporalOwnerWorkflows) DeleteOwner(ctx context.Context, input ownertypes.DeleteOwnerInput) error {
	if o == nil || o.client == nil {
		return errors.New("temporal owner workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := fmt.Sprintf("owner-deletion-%d", input.OwnerID)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		ownerworkflows.OwnerDeletionWorkflowName,
		ownerworkflows.OwnerDeletionWorkflowInput{Command: input, TraceID: traceComponent},
	)
	if err != nil {
		// A deletion of the same owner is already running; wait on it instead.
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return err
		}
		run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	if err := run.Get(ctx, nil); err != nil {
		if problem, ok := owneractivities.ProblemFromError(err); ok {
			return fmt.Errorf("%w: %w", problem, err)
		}
		return err
	}
	return nil
}

// InlineOwnerWorkflows executes the deletion steps directly without Temporal, useful for tests or dev fallbacks.
type InlineOwnerWorkflows struct {
	owners   ports.Service
	identity ports.IdentityGateway
}

// NewInlineOwnerWorkflows wraps the owners service and identity gateway for synchronous execution.
func NewInlineOwnerWorkflows(owners ports.Service, identity ports.IdentityGateway) *InlineOwnerWorkflows {
	return &InlineOwnerWorkflows{owners: owners, identity: identity}
}

// DeleteOwner removes the local owner first; the identity is only removed when that succeeded.
func (o *InlineOwnerWorkflows) DeleteOwner(ctx context.Context, input ownertypes.DeleteOwnerInput) error {
	if o == nil || o.owners == nil || o.identity == nil {
		return errors.New("inline owner workflows not configured")
	}
	if err := o.owners.Delete(ctx, input.OwnerID); err != nil {
		return err
	}
	return o.identity.DeleteUser(ctx, input.Username)
}

func workflowTraceComponent(ctx context.Context) string {
	traceComponent := workflowTraceID(ctx)
	if traceComponent != "" {
		return traceComponent
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	traceID := spanCtx.TraceID()
	if !traceID.IsValid() {
		return ""
	}
	return traceID.String()
}
