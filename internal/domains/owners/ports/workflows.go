package ports

import (
	"context"

	ownertypes "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/application/types"
)

// WorkflowOrchestrator runs the multi-system owner flows.
type WorkflowOrchestrator interface {
	// DeleteOwner removes the local owner (and its dogs), then the identity.
	DeleteOwner(ctx context.Context, input ownertypes.DeleteOwnerInput) error
}
