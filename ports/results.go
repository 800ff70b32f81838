package ports

import (
	"context"

	"github.com/google/uuid"

	"photoeccentric/domain/fit"
)

// FitResultRepository persists completed fit runs. The statistical core
// never depends on persistence; the orchestration layer saves runs as a
// side effect when a repository is configured.
type FitResultRepository interface {
	SaveRun(ctx context.Context, run *fit.Run) error
	GetRun(ctx context.Context, id uuid.UUID) (*fit.Run, error)
	ListRuns(ctx context.Context, targetID string) ([]*fit.Run, error)
}
