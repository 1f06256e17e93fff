package astar

import (
	mapset "github.com/deckarep/golang-set"
)

// exploredSet is the closed set of one episode, keyed by position. A closed
// position is never reopened, even if a cheaper route to it turns up later.
type exploredSet struct {
	closed mapset.Set
	arena  *nodeArena
}

func newExploredSet(arena *nodeArena) *exploredSet {
	return &exploredSet{closed: mapset.NewThreadUnsafeSet(), arena: arena}
}

func (e *exploredSet) contains(p Point) bool {
	return e.closed.Contains(p)
}

func (e *exploredSet) add(id nodeID) {
	e.closed.Add(e.arena.get(id).pos)
}

func (e *exploredSet) Len() int {
	return e.closed.Cardinality()
}
