package astar

// nodeID is a stable handle into the episode's node arena.
type nodeID int

const noParent nodeID = -1

// node is one generated search state. Two nodes at the same pos are the same
// place reached at possibly different cost.
type node struct {
	pos    Point
	g      int
	parent nodeID
	seq    int // generation order, last-resort tie-break
}

// nodeArena owns every node generated during one episode. The frontier and
// the explored set only hold handles, so parent chains survive a node being
// popped or closed.
type nodeArena struct {
	nodes []node
	goal  Point
}

func newNodeArena(goal Point) *nodeArena {
	return &nodeArena{nodes: make([]node, 0, 64), goal: goal}
}

func (a *nodeArena) alloc(pos Point, g int, parent nodeID) nodeID {
	id := nodeID(len(a.nodes))
	a.nodes = append(a.nodes, node{pos: pos, g: g, parent: parent, seq: len(a.nodes)})
	return id
}

func (a *nodeArena) get(id nodeID) *node {
	return &a.nodes[id]
}

func (a *nodeArena) g(id nodeID) int { return a.nodes[id].g }

// h is the Manhattan distance to the goal; admissible and consistent on a
// 4-connected unit-cost grid.
func (a *nodeArena) h(id nodeID) int { return Manhattan(a.nodes[id].pos, a.goal) }

func (a *nodeArena) f(id nodeID) int { return a.g(id) + a.h(id) }

// less orders nodes by f, then by the tie-break policy, then by generation
// order.
func (a *nodeArena) less(i, j nodeID, tb TieBreak) bool {
	if fi, fj := a.f(i), a.f(j); fi != fj {
		return fi < fj
	}
	gi, gj := a.g(i), a.g(j)
	hi, hj := a.h(i), a.h(j)
	switch tb {
	case PreferH:
		if hi != hj {
			return hi < hj
		}
		if gi != gj {
			return gi < gj
		}
	default:
		if gi != gj {
			return gi < gj
		}
		if hi != hj {
			return hi < hj
		}
	}
	return a.nodes[i].seq < a.nodes[j].seq
}

// successors generates the up to four children of id. A child is dropped when
// it leaves the grid or when it is a visible BLOCKED cell; hidden cells are
// assumed open.
func (a *nodeArena) successors(id nodeID, gw *Gridworld, out []nodeID) []nodeID {
	out = out[:0]
	parent := a.nodes[id]
	for _, d := range moves {
		p := parent.pos.add(d)
		if !gw.InBounds(p) {
			continue
		}
		if gw.Visible(p) && gw.IsBlocked(p) {
			continue
		}
		out = append(out, a.alloc(p, parent.g+1, id))
	}
	return out
}

// pathTo walks parent links from id back to the episode root and returns
// the positions in root-to-id order.
func (a *nodeArena) pathTo(id nodeID) []Point {
	var rev []Point
	for cur := id; cur != noParent; cur = a.nodes[cur].parent {
		rev = append(rev, a.nodes[cur].pos)
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}
