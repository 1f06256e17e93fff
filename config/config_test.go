package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"

	"gridworld/astar"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadHCL(t *testing.T) {
	t.Setenv("GRIDWORLD_TEST_ADDR", "127.0.0.1:7070")
	path := writeFile(t, "planner.hcl", `
pretty_print   = true
tie_break      = "prefer-h"
max_expansions = 500
format         = "json"

server {
  addr   = env.GRIDWORLD_TEST_ADDR
  agents = ["bot1", "bot2"]
}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.PrettyPrint)
	assert.False(t, cfg.Omniscient)
	assert.Equal(t, FORMAT_JSON, cfg.Format)
	assert.Equal(t, COLOR_AUTO, cfg.Color)
	require.NotNil(t, cfg.Server)
	assert.Equal(t, "127.0.0.1:7070", cfg.Server.Addr)
	assert.Equal(t, []string{"bot1", "bot2"}, cfg.Server.Agents)

	opts := cfg.PlannerOptions()
	assert.Equal(t, astar.PreferH, opts.TieBreak)
	assert.Equal(t, 500, opts.MaxExpansions)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "planner.yaml", "omniscient: true\ntie_break: g\nlog_level: debug\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Omniscient)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Nil(t, cfg.Server)
	assert.Equal(t, astar.PreferG, cfg.PlannerOptions().TieBreak)
}

func TestLoadRejectsUnknownYAMLField(t *testing.T) {
	path := writeFile(t, "planner.yml", "omnicient: true\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode config")
}

func TestLoadRejectsBadHCL(t *testing.T) {
	path := writeFile(t, "planner.hcl", "tie_break = \n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	_, err := Load("planner.toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported extension")
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.TieBreak = "f"
	cfg.MaxExpansions = -1
	cfg.Format = "xml"
	cfg.Color = "sometimes"
	cfg.LogLevel = "loud"
	cfg.Server = &ServerConfig{Agents: []string{"bot1", " "}}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 6)
	assert.Contains(t, err.Error(), "server.agents[1] is empty")
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestNewLogger(t *testing.T) {
	log, err := NewLogger("debug", true)
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))

	log, err = NewLogger("error", false)
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.WarnLevel))

	_, err = NewLogger("loud", false)
	assert.Error(t, err)
}
