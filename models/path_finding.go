package models

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gridworld/astar"
)

// PathFinding is one planning run of an agent over its own copy of a map.
type PathFinding struct {
	RunId   string
	World   *astar.Gridworld
	Options astar.Options
}

// NewPathFinding tags the run with a fresh id and threads it into the
// logger.
func NewPathFinding(world *astar.Gridworld, opts astar.Options) *PathFinding {
	runId := uuid.New().String()
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	opts.Logger = opts.Logger.With(zap.String("run_id", runId))
	return &PathFinding{RunId: runId, World: world, Options: opts}
}

// FindPath runs the planner to completion. The returned PlanResult is always
// populated; err carries the planner failure, if any.
func (p *PathFinding) FindPath(ctx context.Context) (*PlanResult, *astar.Result, error) {
	res, err := astar.NewPlanner(p.World, p.Options).Run(ctx)
	out := NewPlanResult(p.World.Snapshot(), res, err)
	out.RunId = p.RunId
	return out, res, err
}
