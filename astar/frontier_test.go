package astar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeOrderingTieBreak(t *testing.T) {
	arena := newNodeArena(Point{})
	// Both have f == 3.
	shallow := arena.alloc(Point{Row: 0, Col: 2}, 1, noParent) // g=1 h=2
	deep := arena.alloc(Point{Row: 0, Col: 1}, 2, noParent)    // g=2 h=1
	cheap := arena.alloc(Point{Row: 0, Col: 1}, 0, noParent)   // f=1

	assert.True(t, arena.less(shallow, deep, PreferG))
	assert.False(t, arena.less(deep, shallow, PreferG))
	assert.True(t, arena.less(deep, shallow, PreferH))
	assert.False(t, arena.less(shallow, deep, PreferH))

	for _, tb := range []TieBreak{PreferG, PreferH} {
		assert.True(t, arena.less(cheap, shallow, tb))
		assert.True(t, arena.less(cheap, deep, tb))
	}

	twin := arena.alloc(Point{Row: 0, Col: 2}, 1, noParent)
	assert.True(t, arena.less(shallow, twin, PreferG), "full ties fall back to generation order")
	assert.False(t, arena.less(twin, shallow, PreferH))
}

func TestFrontierPopsInOrder(t *testing.T) {
	arena := newNodeArena(Point{Row: 4, Col: 4})
	open := newFrontier(arena, PreferG)

	far := arena.alloc(Point{Row: 0, Col: 0}, 0, noParent)  // f=8
	near := arena.alloc(Point{Row: 3, Col: 4}, 0, noParent) // f=1
	mid := arena.alloc(Point{Row: 2, Col: 2}, 0, noParent)  // f=4
	open.push(far)
	open.push(near)
	open.push(mid)
	require.Equal(t, 3, open.Len())

	var got []nodeID
	for open.Len() > 0 {
		id, err := open.popMin()
		require.NoError(t, err)
		got = append(got, id)
	}
	assert.Equal(t, []nodeID{near, mid, far}, got)

	_, err := open.popMin()
	assert.ErrorIs(t, err, ErrEmptyFrontier)
}

func TestFrontierReplaceIfBetter(t *testing.T) {
	arena := newNodeArena(Point{Row: 0, Col: 5})
	open := newFrontier(arena, PreferG)
	p := Point{Row: 0, Col: 2}

	costly := arena.alloc(p, 6, noParent)
	open.push(costly)

	same := arena.alloc(p, 6, noParent)
	assert.False(t, open.replaceIfBetter(same))
	id, ok := open.find(p)
	require.True(t, ok)
	assert.Equal(t, costly, id)

	better := arena.alloc(p, 2, noParent)
	assert.True(t, open.replaceIfBetter(better))
	id, ok = open.find(p)
	require.True(t, ok)
	assert.Equal(t, better, id)
	assert.Equal(t, 1, open.Len(), "stale entry is removed, not kept alongside")

	popped, err := open.popMin()
	require.NoError(t, err)
	assert.Equal(t, better, popped)
	_, ok = open.find(p)
	assert.False(t, ok)

	assert.False(t, open.replaceIfBetter(arena.alloc(Point{Row: 0, Col: 3}, 0, noParent)), "nothing queued there")
}

func TestSuccessorsRespectVisibility(t *testing.T) {
	gw := mustGrid(t,
		"_x_",
		"xsx",
		"_xg",
	)
	arena := newNodeArena(gw.Goal())
	root := arena.alloc(gw.Start(), 0, noParent)

	// Every neighbour of the start is a visible wall.
	assert.Empty(t, arena.successors(root, gw, nil))

	corner := arena.alloc(Point{Row: 0, Col: 0}, 3, root)
	succ := arena.successors(corner, gw, nil)
	// (1,0) is a visible wall; (0,1) is a wall too but visible as well.
	assert.Empty(t, succ)

	far := mustGrid(t,
		"s___",
		"____",
		"_xxg",
	)
	arena = newNodeArena(far.Goal())
	mid := arena.alloc(Point{Row: 1, Col: 2}, 4, noParent)
	succ = arena.successors(mid, far, nil)
	require.Len(t, succ, 4, "hidden walls are assumed open")
	var got []Point
	for _, id := range succ {
		n := arena.get(id)
		assert.Equal(t, 5, n.g)
		assert.Equal(t, mid, n.parent)
		got = append(got, n.pos)
	}
	assert.Equal(t, []Point{{Row: 0, Col: 2}, {Row: 2, Col: 2}, {Row: 1, Col: 1}, {Row: 1, Col: 3}}, got)
}

func TestExploredSet(t *testing.T) {
	arena := newNodeArena(Point{})
	closed := newExploredSet(arena)
	p := Point{Row: 1, Col: 1}
	assert.False(t, closed.contains(p))
	closed.add(arena.alloc(p, 3, noParent))
	closed.add(arena.alloc(p, 1, noParent))
	assert.True(t, closed.contains(p))
	assert.Equal(t, 1, closed.Len())
}

func TestPathToWalksParents(t *testing.T) {
	arena := newNodeArena(Point{Row: 0, Col: 2})
	a := arena.alloc(Point{Row: 0, Col: 0}, 0, noParent)
	b := arena.alloc(Point{Row: 0, Col: 1}, 1, a)
	c := arena.alloc(Point{Row: 0, Col: 2}, 2, b)
	assert.Equal(t, []Point{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}}, arena.pathTo(c))
	assert.Equal(t, []Point{{Row: 0, Col: 0}}, arena.pathTo(a))
}
