package models

import (
	"gridworld/astar"
)

const (
	FRAME_EPISODE = "episode"
	FRAME_WALK    = "walk"
	FRAME_DONE    = "done"
)

// PlanRequest is the body of POST /plan and the first message on /ws/plan.
type PlanRequest struct {
	Map           string `json:"map" binding:"required"`
	TieBreak      string `json:"tieBreak"`
	Omniscient    bool   `json:"omniscient"`
	MaxExpansions int    `json:"maxExpansions"`
}

// Frame is one message of the episode stream.
type Frame struct {
	Type       string      `json:"type"`
	Episode    int         `json:"episode,omitempty"`
	Start      *Position   `json:"start,omitempty"`
	Path       []*Position `json:"path,omitempty"`
	Expansions int         `json:"expansions,omitempty"`
	Terrain    []string    `json:"terrain,omitempty"`
	Visible    []string    `json:"visible,omitempty"`
	Agent      *Position   `json:"agent,omitempty"`
	Result     *PlanResult `json:"result,omitempty"`
}

func positions(path []astar.Point) []*Position {
	out := make([]*Position, 0, len(path))
	for _, p := range path {
		out = append(out, NewPosition(p))
	}
	return out
}

// NewEpisodeFrame captures a finished episode, including what the agent could
// see at the end of it. Visible rows use '1' for seen cells and '0' for
// hidden ones.
func NewEpisodeFrame(r astar.EpisodeReport) Frame {
	f := Frame{
		Type:       FRAME_EPISODE,
		Episode:    r.Index,
		Start:      NewPosition(r.Start),
		Path:       positions(r.Path),
		Expansions: r.Expansions,
	}
	for row := range r.Grid.Terrain {
		f.Terrain = append(f.Terrain, r.Grid.Row(row))
		seen := make([]byte, len(r.Grid.Visible[row]))
		for c, v := range r.Grid.Visible[row] {
			seen[c] = '0'
			if v {
				seen[c] = '1'
			}
		}
		f.Visible = append(f.Visible, string(seen))
	}
	return f
}

// WalkFrames replays path as one frame per agent step.
func WalkFrames(path []astar.Point) []Frame {
	walk := AstarPathToWalkInfo(path)
	if len(walk.Path) == 0 {
		return nil
	}
	frames := []Frame{{Type: FRAME_WALK, Agent: NewPosition(walk.CurrentPos)}}
	for !GotToGoal(&walk) {
		frames = append(frames, Frame{Type: FRAME_WALK, Agent: NewPosition(walk.CurrentPos)})
	}
	return frames
}

// Snapshot rebuilds the grid state carried by an episode frame.
func (f Frame) Snapshot() astar.Snapshot {
	snap := astar.Snapshot{
		Terrain: make([][]astar.Cell, len(f.Terrain)),
		Visible: make([][]bool, len(f.Terrain)),
	}
	for r, row := range f.Terrain {
		snap.Terrain[r] = []astar.Cell(row)
		snap.Visible[r] = make([]bool, len(row))
		for c := range row {
			snap.Visible[r][c] = r < len(f.Visible) && c < len(f.Visible[r]) && f.Visible[r][c] == '1'
		}
	}
	if f.Start != nil {
		snap.Start = f.Start.Point()
	}
	return snap
}
