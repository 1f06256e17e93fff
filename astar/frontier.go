package astar

import (
	"container/heap"
	"errors"
)

// ErrEmptyFrontier is returned by popMin when no open node remains.
var ErrEmptyFrontier = errors.New("frontier is empty")

// nodeHeap implements heap.Interface over arena handles.
type nodeHeap struct {
	ids   []nodeID
	index map[nodeID]int // heap slot of each queued handle
	arena *nodeArena
	tb    TieBreak
}

func (h nodeHeap) Len() int           { return len(h.ids) }
func (h nodeHeap) Less(i, j int) bool { return h.arena.less(h.ids[i], h.ids[j], h.tb) }
func (h nodeHeap) Swap(i, j int) {
	h.ids[i], h.ids[j] = h.ids[j], h.ids[i]
	h.index[h.ids[i]] = i
	h.index[h.ids[j]] = j
}

func (h *nodeHeap) Push(x interface{}) {
	id := x.(nodeID)
	h.index[id] = len(h.ids)
	h.ids = append(h.ids, id)
}

func (h *nodeHeap) Pop() interface{} {
	old := h.ids
	n := len(old)
	id := old[n-1]
	h.ids = old[:n-1]
	delete(h.index, id)
	return id
}

// frontier is the open set: a cost-ordered queue with a position index for
// the relaxation step. Stale entries are left in place; only replaceIfBetter
// removes one.
type frontier struct {
	queue nodeHeap
	byPos map[Point]nodeID
}

func newFrontier(arena *nodeArena, tb TieBreak) *frontier {
	return &frontier{
		queue: nodeHeap{index: make(map[nodeID]int), arena: arena, tb: tb},
		byPos: make(map[Point]nodeID),
	}
}

func (f *frontier) Len() int { return f.queue.Len() }

func (f *frontier) push(id nodeID) {
	heap.Push(&f.queue, id)
	f.byPos[f.queue.arena.get(id).pos] = id
}

func (f *frontier) popMin() (nodeID, error) {
	if f.queue.Len() == 0 {
		return noParent, ErrEmptyFrontier
	}
	id := heap.Pop(&f.queue).(nodeID)
	pos := f.queue.arena.get(id).pos
	if f.byPos[pos] == id {
		delete(f.byPos, pos)
	}
	return id, nil
}

// find returns the queued node at p, if any.
func (f *frontier) find(p Point) (nodeID, bool) {
	id, ok := f.byPos[p]
	return id, ok
}

// replaceIfBetter swaps the queued node at the successor's position for the
// successor when the successor is strictly cheaper. It reports whether the
// swap happened.
func (f *frontier) replaceIfBetter(succ nodeID) bool {
	arena := f.queue.arena
	old, ok := f.find(arena.get(succ).pos)
	if !ok || arena.g(old) <= arena.g(succ) {
		return false
	}
	heap.Remove(&f.queue, f.queue.index[old])
	f.push(succ)
	return true
}
