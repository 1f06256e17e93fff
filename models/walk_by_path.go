package models

import (
	"gridworld/astar"
)

// WalkInfo replays a planned path one cell at a time.
type WalkInfo struct {
	Path            []astar.Point
	CurrentPos      astar.Point
	CurrentTarIndex int
}

func AstarPathToWalkInfo(path []astar.Point) WalkInfo {
	if len(path) == 0 {
		return WalkInfo{}
	}
	return WalkInfo{
		Path:            path,
		CurrentPos:      path[0],
		CurrentTarIndex: 1,
	}
}

// GotToGoal moves the walker onto the next cell of its path. It returns true,
// without moving, once the last cell has been reached.
func GotToGoal(walkInfo *WalkInfo) bool {
	if walkInfo.CurrentTarIndex >= len(walkInfo.Path) {
		return true
	}
	walkInfo.CurrentPos = walkInfo.Path[walkInfo.CurrentTarIndex]
	walkInfo.CurrentTarIndex++
	return false
}

// Contiguous reports whether every step of path is a single orthogonal move.
func Contiguous(path []astar.Point) bool {
	for i := 1; i < len(path); i++ {
		if astar.Manhattan(path[i-1], path[i]) != 1 {
			return false
		}
	}
	return true
}
