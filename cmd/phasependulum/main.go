package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/san-kum/phasependulum/internal/config"
	"github.com/san-kum/phasependulum/internal/viz"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	logFile    string

	// live
	paneWidth  int
	paneHeight int
	theme      string
	gifPath    string
	menu       bool

	// trace
	frames     int
	scriptPath string
	sweepArg   string
	saveRun    bool
	runName    string
	csvPath    string
	jsonPath   string

	// field and phase
	svgPath     string
	pngPath     string
	trailFrames int
	colorOut    bool
	fieldWidth  int
	fieldHeight int
)

// main registers the commands and runs the live TUI when no subcommand
// is given. It exits with status 1 if the command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:   "phasependulum",
		Short: "damped pendulum with its phase-space vector field",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cmd.Name() == "live" || cmd.Name() == "phasependulum")
		},
		RunE:          runLive,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".phasependulum", "run data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml or ini)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "start from a preset initial state")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file")
	addLiveFlags(rootCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the pendulum and field in the terminal",
		RunE:  runLive,
	}
	addLiveFlags(liveCmd)

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the pendulum and field in a window",
		RunE:  runGUI,
	}

	traceCmd := &cobra.Command{
		Use:   "trace",
		Short: "run headless and report the trajectory",
		RunE:  runTrace,
	}
	traceCmd.Flags().IntVar(&frames, "frames", 600, "frames to simulate")
	traceCmd.Flags().StringVar(&scriptPath, "script", "", "scenario file driving the run (yaml)")
	traceCmd.Flags().StringVar(&sweepArg, "sweep", "", "parameter sweep as name=min:max:steps")
	traceCmd.Flags().BoolVar(&saveRun, "save", false, "store the run in the data directory")
	traceCmd.Flags().StringVar(&runName, "name", "", "name of the stored run (default: preset or 'run')")
	traceCmd.Flags().StringVar(&csvPath, "csv", "", "write the states as CSV")
	traceCmd.Flags().StringVar(&jsonPath, "json", "", "write the run as JSON")

	fieldCmd := &cobra.Command{
		Use:   "field",
		Short: "render the phase field",
		RunE:  runField,
	}
	fieldCmd.Flags().StringVar(&svgPath, "svg", "", "write the field as SVG")
	fieldCmd.Flags().StringVar(&pngPath, "png", "", "write the field as PNG")
	fieldCmd.Flags().IntVar(&trailFrames, "trail", 0, "overlay this many frames of the trajectory")
	fieldCmd.Flags().IntVar(&fieldWidth, "width", 60, "terminal width in cells")
	fieldCmd.Flags().IntVar(&fieldHeight, "height", 30, "terminal height in cells")
	fieldCmd.Flags().BoolVar(&colorOut, "color", true, "colour the terminal output")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase portrait of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().StringVar(&svgPath, "svg", "", "write the portrait as SVG")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the effective config to a file (.yaml or .ini)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(liveCmd, guiCmd, traceCmd, fieldCmd, runsCmd, phaseCmd, presetsCmd, configCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.WithError(err).Error("command failed")
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func addLiveFlags(cmd *cobra.Command) {
	def := viz.DefaultOptions()
	cmd.Flags().IntVar(&paneWidth, "width", def.PaneWidth, "pane width in cells")
	cmd.Flags().IntVar(&paneHeight, "height", def.PaneHeight, "pane height in cells")
	cmd.Flags().StringVar(&theme, "theme", def.Theme, fmt.Sprintf("colour theme %v", viz.ThemeNames()))
	cmd.Flags().StringVar(&gifPath, "gif", def.GIFPath, "where G saves the recording")
	cmd.Flags().BoolVar(&menu, "menu", false, "pick a preset before starting")
}

// setupLogging routes logrus to --log-file. Full-screen commands discard
// logs without one, since they would tear the display.
func setupLogging(fullScreen bool) error {
	lvl, err := log.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	switch {
	case logFile != "":
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		log.SetOutput(f)
	case fullScreen:
		log.SetOutput(io.Discard)
	default:
		log.SetOutput(os.Stderr)
	}
	return nil
}

// loadConfig reads --config, or the defaults, then applies --preset's
// initial state on top.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.InitState = p.InitState
	}
	return cfg, nil
}
