package models

import (
	"errors"

	"github.com/golang/protobuf/proto"

	"gridworld/astar"
)

const (
	RET_OK           = 1000
	RET_BAD_REQUEST  = 1001
	RET_NO_PATH      = 1002
	RET_NO_AGENT     = 1003
	RET_PLAN_FAILURE = 1004
)

type Position struct {
	Row int32 `protobuf:"varint,1,opt,name=row,proto3" json:"row"`
	Col int32 `protobuf:"varint,2,opt,name=col,proto3" json:"col"`
}

func (m *Position) Reset()         { *m = Position{} }
func (m *Position) String() string { return proto.CompactTextString(m) }
func (*Position) ProtoMessage()    {}

// PlanResult is what a planning run reports to the outside world, over HTTP
// or on the command line.
type PlanResult struct {
	Ret        int32       `protobuf:"varint,1,opt,name=ret,proto3" json:"ret"`
	Found      bool        `protobuf:"varint,2,opt,name=found,proto3" json:"found"`
	Path       []*Position `protobuf:"bytes,3,rep,name=path,proto3" json:"path,omitempty"`
	Episodes   int32       `protobuf:"varint,4,opt,name=episodes,proto3" json:"episodes,omitempty"`
	Expansions int32       `protobuf:"varint,5,opt,name=expansions,proto3" json:"expansions,omitempty"`
	Rows       int32       `protobuf:"varint,6,opt,name=rows,proto3" json:"rows"`
	Cols       int32       `protobuf:"varint,7,opt,name=cols,proto3" json:"cols"`
	Terrain    []string    `protobuf:"bytes,8,rep,name=terrain,proto3" json:"terrain,omitempty"`
	Err        string      `protobuf:"bytes,9,opt,name=err,proto3" json:"err,omitempty"`
	RunId      string      `protobuf:"bytes,10,opt,name=runId,proto3" json:"runId,omitempty"`
}

func (m *PlanResult) Reset()         { *m = PlanResult{} }
func (m *PlanResult) String() string { return proto.CompactTextString(m) }
func (*PlanResult) ProtoMessage()    {}

func NewPosition(p astar.Point) *Position {
	return &Position{Row: int32(p.Row), Col: int32(p.Col)}
}

func (m *Position) Point() astar.Point {
	return astar.Point{Row: int(m.Row), Col: int(m.Col)}
}

// NewPlanResult describes the final grid together with the run outcome. res
// is nil when the run failed.
func NewPlanResult(snap astar.Snapshot, res *astar.Result, runErr error) *PlanResult {
	out := &PlanResult{Ret: RET_OK, Rows: int32(len(snap.Terrain))}
	if len(snap.Terrain) > 0 {
		out.Cols = int32(len(snap.Terrain[0]))
	}
	for r := range snap.Terrain {
		out.Terrain = append(out.Terrain, snap.Row(r))
	}
	if runErr != nil {
		out.Ret = RET_PLAN_FAILURE
		if errors.Is(runErr, astar.ErrNoPath) {
			out.Ret = RET_NO_PATH
		}
		out.Err = runErr.Error()
		return out
	}
	out.Found = true
	out.Episodes = int32(res.Episodes)
	out.Expansions = int32(res.Expansions)
	out.Path = make([]*Position, 0, len(res.Path))
	for _, p := range res.Path {
		out.Path = append(out.Path, NewPosition(p))
	}
	return out
}

// Points converts the path back to grid points.
func (m *PlanResult) Points() []astar.Point {
	out := make([]astar.Point, 0, len(m.Path))
	for _, p := range m.Path {
		out = append(out, p.Point())
	}
	return out
}

func EncodePlanResult(m *PlanResult) ([]byte, error) {
	return proto.Marshal(m)
}

func DecodePlanResult(b []byte) (*PlanResult, error) {
	m := &PlanResult{}
	if err := proto.Unmarshal(b, m); err != nil {
		return nil, err
	}
	return m, nil
}
