package models

import (
	"errors"
	"sync"

	"go.uber.org/atomic"
)

var ErrNoLeisureAgent = errors.New("there is no leisure agent")

type IsLeisure bool
type AgentName string

// AgentManager hands out a fixed set of named agents, one planning run per
// agent at a time.
type AgentManager struct {
	mu       sync.Mutex
	agentMap map[AgentName]IsLeisure
	busy     atomic.Int64
}

func NewAgentManager(names []string) *AgentManager {
	am := &AgentManager{}
	am.SetAgents(names)
	return am
}

// SetAgents replaces the pool; every agent starts out at leisure.
func (am *AgentManager) SetAgents(names []string) {
	am.mu.Lock()
	defer am.mu.Unlock()
	am.agentMap = make(map[AgentName]IsLeisure, len(names))
	for _, name := range names {
		am.agentMap[AgentName(name)] = true
	}
	am.busy.Store(0)
}

func (am *AgentManager) GetLeisureAgent() (string, error) {
	am.mu.Lock()
	defer am.mu.Unlock()
	for name, isLeisure := range am.agentMap {
		if isLeisure {
			am.agentMap[name] = false
			am.busy.Inc()
			return string(name), nil
		}
	}
	return "", ErrNoLeisureAgent
}

// ReleaseAgent returns name to the pool. Releasing an unknown or idle agent
// is a no-op.
func (am *AgentManager) ReleaseAgent(name string) {
	am.mu.Lock()
	defer am.mu.Unlock()
	if isLeisure, ok := am.agentMap[AgentName(name)]; ok && !bool(isLeisure) {
		am.agentMap[AgentName(name)] = true
		am.busy.Dec()
	}
}

// Busy is the number of agents currently planning.
func (am *AgentManager) Busy() int64 {
	return am.busy.Load()
}

func (am *AgentManager) Size() int {
	am.mu.Lock()
	defer am.mu.Unlock()
	return len(am.agentMap)
}
