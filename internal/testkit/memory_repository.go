package testkit

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"photoeccentric/domain/fit"
	"photoeccentric/internal/errors"
	"photoeccentric/ports"
)

// InMemoryRunRepository implements ports.FitResultRepository with in-memory
// storage. Tests and the CLI use it in place of Postgres.
type InMemoryRunRepository struct {
	mu         sync.RWMutex
	runs       map[uuid.UUID]*fit.Run
	targetRuns map[string][]uuid.UUID
}

// NewInMemoryRunRepository creates an empty repository.
func NewInMemoryRunRepository() *InMemoryRunRepository {
	return &InMemoryRunRepository{
		runs:       make(map[uuid.UUID]*fit.Run),
		targetRuns: make(map[string][]uuid.UUID),
	}
}

func (r *InMemoryRunRepository) SaveRun(_ context.Context, run *fit.Run) error {
	if run == nil {
		return errors.InvalidInput("cannot save a nil run")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, seen := r.runs[run.ID]; !seen {
		r.targetRuns[run.TargetID] = append(r.targetRuns[run.TargetID], run.ID)
	}
	r.runs[run.ID] = run
	return nil
}

func (r *InMemoryRunRepository) GetRun(_ context.Context, id uuid.UUID) (*fit.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, errors.NotFound("run " + id.String())
	}
	return run, nil
}

func (r *InMemoryRunRepository) ListRuns(_ context.Context, targetID string) ([]*fit.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.targetRuns[targetID]
	runs := make([]*fit.Run, 0, len(ids))
	for _, id := range ids {
		if run, ok := r.runs[id]; ok {
			runs = append(runs, run)
		}
	}
	return runs, nil
}

var _ ports.FitResultRepository = (*InMemoryRunRepository)(nil)
