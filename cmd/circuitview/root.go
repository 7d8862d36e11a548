package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-circuitview"
	"github.com/goliatone/go-circuitview/pkg/config"
	"github.com/goliatone/go-circuitview/pkg/display"
	"github.com/goliatone/go-circuitview/pkg/render"
	"github.com/goliatone/go-circuitview/pkg/renderers/circuitjs"
)

// Version is set via ldflags at build time.
var Version = "dev"

type app struct {
	cfgFile   string
	logLevel  string
	logFormat string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "circuitview",
		Short: "Render quantum circuits as self-contained HTML",
		Long: `circuitview turns circuit descriptions (JSON or YAML) into HTML pages
that draw the circuit in the browser. Pages are fully offline: the renderer
script and styles are inlined.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", config.DefaultPath(), "config file path")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format (text, json)")

	root.AddCommand(
		newRenderCmd(a),
		newViewCmd(a),
		newOptionsCmd(a),
		newAssetsCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg
	a.logger = cfg.Log.Logger(cmd.ErrOrStderr())
	return nil
}

// options translates the loaded config into circuitview options, with extra
// render options from flags layered on top.
func (a *app) options(flags renderFlags) []circuitview.Option {
	return []circuitview.Option{
		circuitview.WithOverrideDir(a.cfg.OverrideDir),
		circuitview.WithRenderOptions(a.cfg.Render),
		circuitview.WithRenderOptions(flags.options()),
		circuitview.WithCleanupDelay(a.cfg.CleanupDelay),
		circuitview.WithLogger(a.logger),
	}
}

// renderers registers the available variants: "offline" inlines everything,
// "base" uses the bundled templates alone and links KaTeX from a CDN.
func (a *app) renderers(flags renderFlags) (*render.Registry, error) {
	offline, err := circuitview.NewRenderer(a.options(flags)...)
	if err != nil {
		return nil, err
	}
	base, err := circuitjs.New(
		circuitjs.WithOverrideDir(a.cfg.OverrideDir),
		circuitjs.WithRenderOptions(a.cfg.Render),
		circuitjs.WithRenderOptions(flags.options()),
	)
	if err != nil {
		return nil, err
	}

	reg := render.NewRegistry()
	reg.MustRegister("offline", offline)
	reg.MustRegister("base", base)
	return reg, nil
}

// variant names the renderer used when --renderer is not given.
func (a *app) variant() string {
	if a.cfg.Offline {
		return "offline"
	}
	return "base"
}

// display builds the file-backed Offline display when the config asks for
// offline output and the string-returning Base display otherwise.
func (a *app) display(flags renderFlags, extra ...display.Option) (display.Display, error) {
	reg, err := a.renderers(flags)
	if err != nil {
		return nil, err
	}
	r, err := reg.Get(a.variant())
	if err != nil {
		return nil, err
	}

	opts := append([]display.Option{
		display.WithCleanupDelay(a.cfg.CleanupDelay),
		display.WithLogger(a.logger),
	}, extra...)
	if a.cfg.Offline {
		return display.NewOffline(r, opts...), nil
	}
	return display.NewBase(r, opts...), nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of circuitview",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "circuitview %s\n", Version)
		},
	}
}
