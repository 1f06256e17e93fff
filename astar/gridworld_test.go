package astar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustGrid builds a grid from compact rows such as "s_x".
func mustGrid(t *testing.T, rows ...string) *Gridworld {
	t.Helper()
	terrain := make([][]Cell, len(rows))
	for r, row := range rows {
		terrain[r] = []Cell(row)
	}
	gw, err := NewGridworld(terrain)
	require.NoError(t, err)
	return gw
}

func TestNewGridworldFindsStartAndGoal(t *testing.T) {
	gw := mustGrid(t,
		"___",
		"_s_",
		"__g",
	)
	assert.Equal(t, 3, gw.Rows())
	assert.Equal(t, 3, gw.Cols())
	assert.Equal(t, Point{Row: 1, Col: 1}, gw.Start())
	assert.Equal(t, Point{Row: 2, Col: 2}, gw.Goal())

	// Only the start cross is visible.
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			p := Point{Row: r, Col: c}
			want := Manhattan(p, gw.Start()) <= 1
			assert.Equal(t, want, gw.Visible(p), "visibility of %v", p)
		}
	}
}

func TestNewGridworldRejectsBadTerrain(t *testing.T) {
	tests := []struct {
		name string
		rows []string
	}{
		{"empty", nil},
		{"no start", []string{"__g"}},
		{"no goal", []string{"s__"}},
		{"two starts", []string{"s_s", "__g"}},
		{"two goals", []string{"sgg"}},
		{"ragged", []string{"s__", "_g"}},
		{"unknown cell", []string{"s?g"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terrain := make([][]Cell, len(tt.rows))
			for r, row := range tt.rows {
				terrain[r] = []Cell(row)
			}
			_, err := NewGridworld(terrain)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidGrid)
		})
	}
}

func TestRevealClipsAtCorners(t *testing.T) {
	gw := mustGrid(t,
		"s__",
		"___",
		"__g",
	)
	corner := Point{Row: 2, Col: 2}
	gw.Reveal(corner)
	assert.True(t, gw.Visible(corner))
	assert.True(t, gw.Visible(Point{Row: 1, Col: 2}))
	assert.True(t, gw.Visible(Point{Row: 2, Col: 1}))
	assert.False(t, gw.Visible(Point{Row: 1, Col: 1}))
}

func TestMarkTraversed(t *testing.T) {
	gw := mustGrid(t,
		"s___",
		"____",
		"___g",
	)
	open := Point{Row: 1, Col: 2}
	gw.MarkTraversed(open)
	assert.Equal(t, TRAVERSED, gw.At(open))
	assert.True(t, gw.Visible(Point{Row: 2, Col: 2}))
	assert.True(t, gw.Visible(Point{Row: 1, Col: 3}))

	// START and GOAL keep their kind but still reveal.
	gw.MarkTraversed(gw.Goal())
	assert.Equal(t, GOAL, gw.At(gw.Goal()))
	assert.True(t, gw.Visible(Point{Row: 2, Col: 2}))
	gw.MarkTraversed(gw.Start())
	assert.Equal(t, START, gw.At(gw.Start()))
}

func TestBlockedAndUnblockedQueries(t *testing.T) {
	gw := mustGrid(t, "sx_0g")
	assert.False(t, gw.IsBlocked(Point{Col: 0}))
	assert.False(t, gw.IsUnblocked(Point{Col: 0}))
	assert.True(t, gw.IsBlocked(Point{Col: 1}))
	assert.True(t, gw.IsUnblocked(Point{Col: 2}))
	assert.False(t, gw.IsUnblocked(Point{Col: 3}))
	assert.False(t, gw.IsBlocked(Point{Col: 3}))
	assert.False(t, gw.IsBlocked(Point{Col: 4}))
	assert.False(t, gw.IsUnblocked(Point{Col: 4}))
}

func TestRevealAll(t *testing.T) {
	gw := mustGrid(t,
		"s____",
		"_____",
		"____g",
	)
	gw.RevealAll()
	for r := 0; r < gw.Rows(); r++ {
		for c := 0; c < gw.Cols(); c++ {
			assert.True(t, gw.Visible(Point{Row: r, Col: c}))
		}
	}
}

func TestSnapshotAndCloneAreIndependent(t *testing.T) {
	gw := mustGrid(t,
		"s__",
		"__g",
	)
	snap := gw.Snapshot()
	clone := gw.Clone()

	gw.MarkTraversed(Point{Row: 1, Col: 0})
	gw.SetStart(Point{Row: 1, Col: 0})

	assert.Equal(t, UNBLOCKED, snap.Terrain[1][0])
	assert.Equal(t, "__g", snap.Row(1))
	assert.Equal(t, UNBLOCKED, clone.At(Point{Row: 1, Col: 0}))
	assert.Equal(t, Point{}, clone.Start())
	assert.Equal(t, "0_g", gw.Snapshot().Row(1))
}
