// Package astar plans a route for an agent on a grid it only partly knows.
//
// Each episode is a plain A* search from the agent's current cell to the
// goal, treating every cell the agent has not seen as open. The agent then
// walks the resulting path until it runs into a wall it has just discovered,
// and the planner searches again from there.
package astar

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

var (
	// ErrNoPath means the goal cannot be reached from the agent's current
	// cell given what the agent knows. It ends the whole run.
	ErrNoPath = errors.New("no path")

	// ErrBudgetExceeded is returned when an episode expands more nodes than
	// Options.MaxExpansions allows.
	ErrBudgetExceeded = errors.New("expansion budget exceeded")

	// ErrStalled is returned when an episode ends without moving the agent.
	ErrStalled = errors.New("planner made no progress")
)

// TieBreak orders nodes whose f values are equal.
type TieBreak int

const (
	// PreferG expands the node with the smaller g first, then smaller h.
	PreferG TieBreak = iota
	// PreferH expands the node with the smaller h first, then smaller g.
	PreferH
)

func (tb TieBreak) String() string {
	if tb == PreferH {
		return "prefer-h"
	}
	return "prefer-g"
}

// ParseTieBreak accepts "prefer-g", "prefer-h" and the short forms "g", "h".
func ParseTieBreak(s string) (TieBreak, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "g", "prefer-g", "prefer_g":
		return PreferG, nil
	case "h", "prefer-h", "prefer_h":
		return PreferH, nil
	}
	return PreferG, fmt.Errorf("unknown tie-break %q: want prefer-g or prefer-h", s)
}

// Options are fixed for the lifetime of a Planner.
type Options struct {
	TieBreak TieBreak
	// Omniscient reveals the whole grid before the first episode.
	Omniscient bool
	// MaxExpansions caps node expansions per episode; zero means no cap.
	MaxExpansions int
	Logger        *zap.Logger
	// OnEpisode, when set, is called on the planning goroutine after every
	// successful episode.
	OnEpisode func(EpisodeReport)
}

// EpisodeReport describes one finished episode.
type EpisodeReport struct {
	Index      int
	Start      Point
	Path       []Point
	Expansions int
	Grid       Snapshot
}

// Result is the outcome of a successful run. Path runs from the original
// start to the goal.
type Result struct {
	Path       []Point
	Episodes   int
	Expansions int
}

type Planner struct {
	world *Gridworld
	opts  Options
	log   *zap.Logger
}

// NewPlanner prepares a run over world. The planner takes ownership of world
// and mutates it as the agent moves.
func NewPlanner(world *Gridworld, opts Options) *Planner {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Omniscient {
		world.RevealAll()
	}
	return &Planner{world: world, opts: opts, log: log}
}

func (p *Planner) World() *Gridworld { return p.world }

// Run replans until the agent reaches the goal or no path remains. ctx is
// checked between episodes.
func (p *Planner) Run(ctx context.Context) (*Result, error) {
	var (
		full       []Point
		episodes   int
		expansions int
	)
	goal := p.world.Goal()
	p.log.Debug("Planning started.",
		zap.Stringer("start", p.world.Start()),
		zap.Stringer("goal", goal),
		zap.Stringer("tie_break", p.opts.TieBreak),
		zap.Bool("omniscient", p.opts.Omniscient))

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := p.world.Start()
		path, expanded, err := p.runEpisode()
		episodes++
		expansions += expanded
		if err != nil {
			p.log.Info("Planning failed.",
				zap.Int("episode", episodes),
				zap.Stringer("start", start),
				zap.Int("expansions", expansions),
				zap.Error(err))
			return nil, err
		}
		p.log.Debug("Episode finished.",
			zap.Int("episode", episodes),
			zap.Stringer("start", start),
			zap.Int("steps", len(path)-1),
			zap.Int("expansions", expanded))
		if p.opts.OnEpisode != nil {
			p.opts.OnEpisode(EpisodeReport{
				Index:      episodes,
				Start:      start,
				Path:       path,
				Expansions: expanded,
				Grid:       p.world.Snapshot(),
			})
		}

		// The junction cell is the next episode's first cell, so drop it here.
		full = append(full, path[:len(path)-1]...)
		last := path[len(path)-1]
		if last == goal {
			full = append(full, goal)
			p.log.Info("Planning succeeded.",
				zap.Int("episodes", episodes),
				zap.Int("length", len(full)-1),
				zap.Int("expansions", expansions))
			return &Result{Path: full, Episodes: episodes, Expansions: expansions}, nil
		}
		if len(path) < 2 {
			return nil, fmt.Errorf("%w: agent stuck at %v", ErrStalled, last)
		}
		p.world.SetStart(last)
	}
}

// runEpisode is one A* search from the current start. It returns the
// walkable prefix of the path it found along with the number of expansions.
func (p *Planner) runEpisode() ([]Point, int, error) {
	world := p.world
	arena := newNodeArena(world.Goal())
	open := newFrontier(arena, p.opts.TieBreak)
	closed := newExploredSet(arena)
	open.push(arena.alloc(world.Start(), 0, noParent))

	expansions := 0
	succ := make([]nodeID, 0, len(moves))
	for {
		current, err := open.popMin()
		if errors.Is(err, ErrEmptyFrontier) {
			return nil, expansions, ErrNoPath
		}
		if arena.get(current).pos == world.Goal() {
			return p.walk(arena.pathTo(current)), expansions, nil
		}
		closed.add(current)
		expansions++
		if p.opts.MaxExpansions > 0 && expansions > p.opts.MaxExpansions {
			return nil, expansions, fmt.Errorf("%w: %d", ErrBudgetExceeded, p.opts.MaxExpansions)
		}

		succ = arena.successors(current, world, succ)
		for _, s := range succ {
			pos := arena.get(s).pos
			if closed.contains(pos) {
				continue
			}
			if _, ok := open.find(pos); ok {
				open.replaceIfBetter(s)
			} else {
				open.push(s)
			}
		}
	}
}

// walk moves the agent along path until the first BLOCKED cell, marking each
// open cell it passes as traversed. It returns the cells actually walked.
func (p *Planner) walk(path []Point) []Point {
	walked := make([]Point, 0, len(path))
	for _, pos := range path {
		if p.world.IsBlocked(pos) {
			break
		}
		walked = append(walked, pos)
		if p.world.IsUnblocked(pos) {
			p.world.MarkTraversed(pos)
		}
	}
	return walked
}
