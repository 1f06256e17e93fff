package constants

import (
	"os"
	"strings"
)

var ADDR string
var AGENT_NAMES []string

const (
	DEFAULT_ADDR = "localhost:9992"
	SERVER_ADDR  = "0.0.0.0:9992"
)

// Init reads GRIDWORLD_ENV and GRIDWORLD_ADDR. GRIDWORLD_AGENTS, a comma
// separated list, overrides the default agent pool.
func Init() {
	if os.Getenv("GRIDWORLD_ENV") == "SERVER" {
		ADDR = SERVER_ADDR
	} else {
		ADDR = DEFAULT_ADDR
	}
	if addr := os.Getenv("GRIDWORLD_ADDR"); addr != "" {
		ADDR = addr
	}
	AGENT_NAMES = []string{"bot1", "bot2", "bot3", "bot4"}
	if names := os.Getenv("GRIDWORLD_AGENTS"); names != "" {
		AGENT_NAMES = AGENT_NAMES[:0]
		for _, name := range strings.Split(names, ",") {
			if name = strings.TrimSpace(name); name != "" {
				AGENT_NAMES = append(AGENT_NAMES, name)
			}
		}
	}
}
