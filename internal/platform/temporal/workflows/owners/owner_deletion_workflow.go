package owners

import (
	"go.temporal.io/sdk/workflow"

	ownertypes "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/application/types"
	"github.com/Apurer/go-gin-dog-registry/internal/platform/temporal/sequences"
)

const (
	// OwnerDeletionWorkflowName is the public identifier for registering the workflow.
	OwnerDeletionWorkflowName = "owners.workflows.Deletion"
	// OwnerDeletionTaskQueue is the queue consumed by the worker processing owner workflows.
	OwnerDeletionTaskQueue = "OWNER_DELETION"
)

// OwnerDeletionWorkflowInput captures the owner to remove.
type OwnerDeletionWorkflowInput struct {
	Command ownertypes.DeleteOwnerInput
	TraceID string
}

// OwnerDeletionWorkflow removes an owner locally and at the identity provider.
func OwnerDeletionWorkflow(ctx workflow.Context, input OwnerDeletionWorkflowInput) error {
	logger := workflow.GetLogger(ctx)
	ownerID := input.Command.OwnerID
	logger.Info("OwnerDeletionWorkflow started", withTraceID(input.TraceID, "ownerId", ownerID)...)
	if err := sequences.RunOwnerDeletionSequence(ctx, input.Command); err != nil {
		logger.Error("OwnerDeletionWorkflow failed", withTraceID(input.TraceID, "ownerId", ownerID, "error", err)...)
		return err
	}
	logger.Info("OwnerDeletionWorkflow completed", withTraceID(input.TraceID, "ownerId", ownerID)...)
	return nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
