package owners

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	ownertypes "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/application/types"
	ownerports "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/ports"
	apierrors "github.com/Apurer/go-gin-dog-registry/internal/shared/errors"
)

const (
	// DeleteOwnerRecordActivityName removes the local owner together with its dogs.
	DeleteOwnerRecordActivityName = "owners.activities.DeleteOwnerRecord"
	// DeleteIdentityActivityName removes the owner's identity provider account.
	DeleteIdentityActivityName = "owners.activities.DeleteIdentity"

	// ProblemErrorType tags application errors that carry an API problem code.
	ProblemErrorType = "owners.Problem"
)

// Activities groups activities that operate on the owners bounded context.
type Activities struct {
	owners   ownerports.Service
	identity ownerports.IdentityGateway
}

// NewActivities wires the owners collaborators into the Temporal activities bundle.
func NewActivities(owners ownerports.Service, identity ownerports.IdentityGateway) *Activities {
	return &Activities{owners: owners, identity: identity}
}

// DeleteOwnerRecord deletes the owner row; dogs go in the same transaction.
func (a *Activities) DeleteOwnerRecord(ctx context.Context, input ownertypes.DeleteOwnerInput) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.owners == nil {
		logger.Error("owner delete activity not initialized", "ownerId", input.OwnerID)
		return errors.New("owner delete activity not initialized")
	}
	logger.Info("DeleteOwnerRecord activity started", "ownerId", input.OwnerID)
	if err := a.owners.Delete(ctx, input.OwnerID); err != nil {
		logger.Error("DeleteOwnerRecord activity failed", "ownerId", input.OwnerID, "error", err)
		return nonRetryable(err)
	}
	logger.Info("DeleteOwnerRecord activity completed", "ownerId", input.OwnerID)
	return nil
}

// DeleteIdentity deletes the identity whose username is the owner's email.
func (a *Activities) DeleteIdentity(ctx context.Context, input ownertypes.DeleteOwnerInput) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.identity == nil {
		logger.Error("identity delete activity not initialized", "username", input.Username)
		return errors.New("identity delete activity not initialized")
	}
	logger.Info("DeleteIdentity activity started", "username", input.Username)
	if err := a.identity.DeleteUser(ctx, input.Username); err != nil {
		logger.Error("DeleteIdentity activity failed", "username", input.Username, "error", err)
		return nonRetryable(err)
	}
	logger.Info("DeleteIdentity activity completed", "username", input.Username)
	return nil
}

// nonRetryable keeps the problem (kind, code, status, detail) in the failure
// details so the caller can rebuild it with ProblemFromError.
func nonRetryable(err error) error {
	var problem apierrors.Problem
	if errors.As(err, &problem) {
		return temporal.NewNonRetryableApplicationError(problem.Error(), ProblemErrorType, err, problem)
	}
	return temporal.NewNonRetryableApplicationError(err.Error(), "", err)
}

// ProblemFromError recovers the problem carried by a failed activity or workflow.
func ProblemFromError(err error) (apierrors.Problem, bool) {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) || appErr.Type() != ProblemErrorType || !appErr.HasDetails() {
		return apierrors.Problem{}, false
	}
	var problem apierrors.Problem
	if detailErr := appErr.Details(&problem); detailErr != nil {
		return apierrors.Problem{}, false
	}
	return problem, true
}
