// Package config loads planner settings from an HCL or YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v2"

	"gridworld/astar"
)

const (
	FORMAT_TEXT  = "text"
	FORMAT_JSON  = "json"
	FORMAT_PROTO = "proto"

	COLOR_AUTO   = "auto"
	COLOR_ALWAYS = "always"
	COLOR_NEVER  = "never"
)

type Config struct {
	PrettyPrint   bool          `hcl:"pretty_print,optional" yaml:"pretty_print"`
	Omniscient    bool          `hcl:"omniscient,optional" yaml:"omniscient"`
	TieBreak      string        `hcl:"tie_break,optional" yaml:"tie_break"`
	MaxExpansions int           `hcl:"max_expansions,optional" yaml:"max_expansions"`
	Format        string        `hcl:"format,optional" yaml:"format"`
	Color         string        `hcl:"color,optional" yaml:"color"`
	LogLevel      string        `hcl:"log_level,optional" yaml:"log_level"`
	Development   bool          `hcl:"development,optional" yaml:"development"`
	Server        *ServerConfig `hcl:"server,block" yaml:"server"`
}

// ServerConfig only matters with -serve.
type ServerConfig struct {
	Addr   string   `hcl:"addr,optional" yaml:"addr"`
	Agents []string `hcl:"agents,optional" yaml:"agents"`
}

// Default is pretty printing on, partial knowledge, ties broken on g.
func Default() *Config {
	return &Config{
		PrettyPrint: true,
		TieBreak:    astar.PreferG.String(),
		Format:      FORMAT_TEXT,
		Color:       COLOR_AUTO,
		LogLevel:    "warn",
	}
}

// Load reads path, picking the decoder from its extension. Fields absent
// from the file keep their Default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".hcl":
		if err := decodeHCL(path, cfg); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
		if err := yaml.UnmarshalStrict(b, cfg); err != nil {
			return nil, errors.Wrapf(err, "decode config %s", path)
		}
	default:
		return nil, errors.Errorf("config %s: unsupported extension %q", path, ext)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

func decodeHCL(path string, cfg *Config) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return errors.Wrapf(diags, "parse config %s", path)
	}
	ctx := &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": envObject()},
	}
	if diags := gohcl.DecodeBody(file.Body, ctx, cfg); diags.HasErrors() {
		return errors.Wrapf(diags, "decode config %s", path)
	}
	return nil
}

// envObject exposes the process environment to HCL expressions as env.NAME.
func envObject() cty.Value {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			vars[k] = cty.StringVal(v)
		}
	}
	if len(vars) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vars)
}

// Validate reports every bad field at once.
func (c *Config) Validate() error {
	var err error
	if _, tbErr := astar.ParseTieBreak(c.TieBreak); tbErr != nil {
		err = multierr.Append(err, tbErr)
	}
	if c.MaxExpansions < 0 {
		err = multierr.Append(err, fmt.Errorf("max_expansions must not be negative, got %d", c.MaxExpansions))
	}
	switch c.Format {
	case FORMAT_TEXT, FORMAT_JSON, FORMAT_PROTO:
	default:
		err = multierr.Append(err, fmt.Errorf("unknown format %q: want text, json or proto", c.Format))
	}
	switch c.Color {
	case COLOR_AUTO, COLOR_ALWAYS, COLOR_NEVER:
	default:
		err = multierr.Append(err, fmt.Errorf("unknown color mode %q: want auto, always or never", c.Color))
	}
	var lvl zapcore.Level
	if lvlErr := lvl.UnmarshalText([]byte(c.LogLevel)); lvlErr != nil {
		err = multierr.Append(err, lvlErr)
	}
	if c.Server != nil {
		for i, name := range c.Server.Agents {
			if strings.TrimSpace(name) == "" {
				err = multierr.Append(err, fmt.Errorf("server.agents[%d] is empty", i))
			}
		}
	}
	return err
}

// PlannerOptions turns the file settings into planner options. Validate must
// have passed.
func (c *Config) PlannerOptions() astar.Options {
	tb, _ := astar.ParseTieBreak(c.TieBreak)
	return astar.Options{
		TieBreak:      tb,
		Omniscient:    c.Omniscient,
		MaxExpansions: c.MaxExpansions,
	}
}
