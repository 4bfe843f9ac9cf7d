package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	ownertypes "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/application/types"
	owneractivities "github.com/Apurer/go-gin-dog-registry/internal/platform/temporal/activities/owners"
)

// RunOwnerDeletionSequence deletes the local owner first and the identity second.
// Each step runs exactly once; a failed step stops the sequence.
func RunOwnerDeletionSequence(ctx workflow.Context, input ownertypes.DeleteOwnerInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("owner deletion sequence started", "ownerId", input.OwnerID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	if err := workflow.ExecuteActivity(ctx, owneractivities.DeleteOwnerRecordActivityName, input).Get(ctx, nil); err != nil {
		logger.Error("owner deletion sequence failed to delete owner", "ownerId", input.OwnerID, "error", err)
		return err
	}
	logger.Info("owner deletion sequence deleted owner", "ownerId", input.OwnerID)

	if err := workflow.ExecuteActivity(ctx, owneractivities.DeleteIdentityActivityName, input).Get(ctx, nil); err != nil {
		logger.Error("owner deletion sequence failed to delete identity", "ownerId", input.OwnerID, "error", err)
		return err
	}
	logger.Info("owner deletion sequence deleted identity", "ownerId", input.OwnerID)
	return nil
}
