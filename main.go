package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"gridworld/astar"
	"gridworld/config"
	"gridworld/constants"
	"gridworld/models"
)

const (
	EXIT_OK      = 0
	EXIT_NO_PATH = 1
	EXIT_USAGE   = 2
)

const usageLine = "Arguments: [-pp0|-pp1] [-omni0|-omni1] [-g|-h] filename"

// switchValue is a boolean flag that stores a fixed value into a shared
// target, so that pairs like -pp0/-pp1 resolve to whichever came last.
type switchValue struct {
	target *bool
	value  bool
}

func (s switchValue) String() string   { return "" }
func (s switchValue) IsBoolFlag() bool { return true }

func (s switchValue) Set(v string) error {
	if v != "true" {
		return fmt.Errorf("%q takes no value", v)
	}
	*s.target = s.value
	return nil
}

type cliArgs struct {
	configPath string
	serve      bool
	watch      string
	filename   string
	cfg        *config.Config
	set        map[string]bool
}

func parseArgs(args []string, stderr io.Writer) (*cliArgs, error) {
	a := &cliArgs{cfg: config.Default(), set: make(map[string]bool)}
	preferG := true

	fs := flag.NewFlagSet("gridworld", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, usageLine)
		fs.PrintDefaults()
	}
	fs.Var(switchValue{&a.cfg.PrettyPrint, false}, "pp0", "plain grid output")
	fs.Var(switchValue{&a.cfg.PrettyPrint, true}, "pp1", "grid output with row and column headers")
	fs.Var(switchValue{&a.cfg.Omniscient, false}, "omni0", "agent starts knowing only its neighbourhood")
	fs.Var(switchValue{&a.cfg.Omniscient, true}, "omni1", "agent knows the whole grid")
	fs.Var(switchValue{&preferG, true}, "g", "break f ties on smaller g, then h")
	fs.Var(switchValue{&preferG, false}, "h", "break f ties on smaller h, then g")
	fs.StringVar(&a.configPath, "config", "", "HCL or YAML settings file")
	fs.BoolVar(&a.serve, "serve", false, "run the planning HTTP server")
	fs.StringVar(&a.watch, "watch", "", "stream a plan from the server at `host:port`")
	fs.StringVar(&a.cfg.Format, "format", a.cfg.Format, "output format: text, json or proto")
	fs.StringVar(&a.cfg.Color, "color", a.cfg.Color, "colour mode: auto, always or never")
	fs.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level")
	fs.BoolVar(&a.cfg.Development, "dev", a.cfg.Development, "development logging")
	fs.IntVar(&a.cfg.MaxExpansions, "max-expansions", a.cfg.MaxExpansions, "node expansions allowed per episode, 0 for no limit")

	// Switches and the filename may come in any order.
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if fs.NArg() == 0 {
			break
		}
		a.filename = fs.Arg(0)
		args = fs.Args()[1:]
	}
	fs.Visit(func(f *flag.Flag) { a.set[f.Name] = true })
	if a.set["g"] || a.set["h"] {
		a.cfg.TieBreak = tieBreakName(preferG)
	}

	if a.configPath != "" {
		fileCfg, err := config.Load(a.configPath)
		if err != nil {
			return nil, err
		}
		a.applyFlags(fileCfg)
		a.cfg = fileCfg
	}
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	if !a.serve && a.filename == "" {
		return nil, errUsage
	}
	return a, nil
}

var errUsage = errors.New(usageLine)

func tieBreakName(preferG bool) string {
	if preferG {
		return astar.PreferG.String()
	}
	return astar.PreferH.String()
}

// applyFlags copies every explicitly given flag over the file settings.
func (a *cliArgs) applyFlags(dst *config.Config) {
	src := a.cfg
	if a.set["pp0"] || a.set["pp1"] {
		dst.PrettyPrint = src.PrettyPrint
	}
	if a.set["omni0"] || a.set["omni1"] {
		dst.Omniscient = src.Omniscient
	}
	if a.set["g"] || a.set["h"] {
		dst.TieBreak = src.TieBreak
	}
	if a.set["format"] {
		dst.Format = src.Format
	}
	if a.set["color"] {
		dst.Color = src.Color
	}
	if a.set["log-level"] {
		dst.LogLevel = src.LogLevel
	}
	if a.set["dev"] {
		dst.Development = src.Development
	}
	if a.set["max-expansions"] {
		dst.MaxExpansions = src.MaxExpansions
	}
}

func useColor(mode string, out io.Writer) bool {
	switch mode {
	case config.COLOR_ALWAYS:
		return true
	case config.COLOR_NEVER:
		return false
	}
	f, ok := out.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func main() {
	constants.Init()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return EXIT_OK
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return EXIT_USAGE
	}
	logger, err := config.NewLogger(a.cfg.LogLevel, a.cfg.Development)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return EXIT_USAGE
	}
	defer logger.Sync()

	switch {
	case a.serve:
		return serve(ctx, a.cfg, logger, stderr)
	case a.watch != "":
		return watchPlan(ctx, a, logger, stdout, stderr)
	}
	return planFile(ctx, a, logger, stdout, stderr)
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger, stderr io.Writer) int {
	addr, agents := constants.ADDR, constants.AGENT_NAMES
	if cfg.Server != nil {
		if cfg.Server.Addr != "" {
			addr = cfg.Server.Addr
		}
		if len(cfg.Server.Agents) > 0 {
			agents = cfg.Server.Agents
		}
	}
	srv := NewServer(cfg.PlannerOptions(), models.NewAgentManager(agents), logger)
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		fmt.Fprintln(stderr, err)
		return EXIT_NO_PATH
	}
	return EXIT_OK
}

func planFile(ctx context.Context, a *cliArgs, logger *zap.Logger, stdout, stderr io.Writer) int {
	world, err := models.LoadMap(a.filename)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return EXIT_USAGE
	}
	opts := a.cfg.PlannerOptions()
	opts.Logger = logger

	if a.cfg.Format == config.FORMAT_TEXT {
		models.RenderOptions(stdout, a.cfg.PrettyPrint, opts.Omniscient, opts.TieBreak, a.filename)
	}
	pf := models.NewPathFinding(world, opts)
	out, res, runErr := pf.FindPath(ctx)

	switch a.cfg.Format {
	case config.FORMAT_JSON:
		err = json.NewEncoder(stdout).Encode(out)
	case config.FORMAT_PROTO:
		var b []byte
		if b, err = models.EncodePlanResult(out); err == nil {
			_, err = stdout.Write(b)
		}
	default:
		r := models.NewRenderer(a.cfg.PrettyPrint, useColor(a.cfg.Color, stdout))
		err = r.RenderResult(stdout, world.Snapshot(), res)
		if runErr != nil && !errors.Is(runErr, astar.ErrNoPath) {
			fmt.Fprintln(stderr, runErr)
		}
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return EXIT_USAGE
	}
	if runErr != nil {
		return EXIT_NO_PATH
	}
	return EXIT_OK
}
