package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/phasependulum/internal/analysis"
	"github.com/san-kum/phasependulum/internal/automation"
	"github.com/san-kum/phasependulum/internal/config"
	"github.com/san-kum/phasependulum/internal/dynamo"
	"github.com/san-kum/phasependulum/internal/export"
	"github.com/san-kum/phasependulum/internal/gui"
	"github.com/san-kum/phasependulum/internal/metrics"
	"github.com/san-kum/phasependulum/internal/scene"
	"github.com/san-kum/phasependulum/internal/session"
	"github.com/san-kum/phasependulum/internal/storage"
	"github.com/san-kum/phasependulum/internal/viz"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// stillThreshold is the |θ̇| under which a frame counts as still.
const stillThreshold = 0.05

func liveOptions() viz.Options {
	return viz.Options{
		PaneWidth:  paneWidth,
		PaneHeight: paneHeight,
		Theme:      theme,
		GIFPath:    gifPath,
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if menu {
		return viz.RunMenu(cfg, liveOptions())
	}
	sess, err := session.Setup(cfg)
	if err != nil {
		return err
	}
	return viz.Run(sess, liveOptions())
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sess, err := session.Setup(cfg)
	if err != nil {
		return err
	}
	gui.Run(sess)
	return nil
}

func runTrace(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if sweepArg != "" {
		return runSweep(cmd, cfg)
	}

	sess, err := session.Setup(cfg)
	if err != nil {
		return err
	}

	tr := storage.NewTrace()
	tr.Append(0, *sess.State)
	drift := metrics.NewEnergyDrift(sess.Params)
	still := metrics.NewStability(stillThreshold)
	observed := []metrics.Metric{metrics.NewEnergy(sess.Params), drift, still}
	drift.Observe(0, *sess.State)
	elapsed := 0.0
	sess.Observe(func(frame int, s dynamo.State) {
		elapsed += sess.Params.TimeStep
		tr.Append(elapsed, s)
		for _, m := range observed {
			m.Observe(frame, s)
		}
	})

	start := time.Now()
	if scriptPath != "" {
		sc, err := automation.LoadScenario(scriptPath)
		if err != nil {
			return err
		}
		fmt.Printf("running scenario %q...\n", sc.Name)
		if err := automation.RunScenario(cmd.Context(), sc, sess); err != nil {
			return err
		}
	} else {
		fmt.Printf("running %d frames...\n", frames)
		if err := sess.Run(cmd.Context(), frames); err != nil {
			return err
		}
	}
	fmt.Printf("completed in %v\n", time.Since(start))
	if err := sess.Pendulum.Err(); err != nil {
		fmt.Printf("warning: %v\n", err)
	}

	thetas := tr.Thetas()
	portrait := &analysis.PhasePortrait2D{Points: make([]analysis.Point, len(tr.States))}
	for i, s := range tr.States {
		portrait.Points[i] = analysis.Point{X: s.Theta, Y: s.ThetaDot}
	}

	for _, m := range observed {
		tr.Metrics[m.Name()] = m.Value()
	}
	tr.Metrics["turning_points"] = float64(len(analysis.TurningPoints(portrait)))
	if period, err := analysis.DominantPeriod(thetas, sess.Params.TimeStep); err == nil {
		tr.Metrics["period"] = period
	} else {
		log.WithError(err).Debug("period not estimated")
	}

	if len(thetas) > 1 {
		fmt.Println(asciigraph.Plot(thetas, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("theta (rad)")))
		fmt.Println()
	}
	if series := drift.Series(); len(series) > 1 {
		fmt.Println(asciigraph.Plot(series, asciigraph.Height(6), asciigraph.Width(80), asciigraph.Caption("energy")))
		fmt.Println()
	}

	fmt.Printf("final: %v\n", *sess.State)
	fmt.Printf("frames: %d\n", sess.Frames())
	if drift.Oscillating() {
		fmt.Println("energy: oscillating within the first-order error band")
	}
	if at := still.SettledAt(sess.Frames()); at >= 0 {
		fmt.Printf("settled: from frame %d\n", at)
	}
	fmt.Println("\nmetrics:")
	keys := make([]string, 0, len(tr.Metrics))
	for k := range tr.Metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %s: %.6f\n", k, tr.Metrics[k])
	}

	name := runName
	if name == "" {
		name = preset
	}
	if name == "" {
		name = "run"
	}
	return writeTrace(name, *sess.Params, tr)
}

func writeTrace(name string, p dynamo.Params, tr *storage.Trace) error {
	if saveRun {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(name, p, tr)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	if csvPath != "" {
		if err := writeFile(csvPath, func(f *os.File) error { return storage.WriteCSV(f, tr) }); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", csvPath)
	}
	if jsonPath != "" {
		if err := writeFile(jsonPath, func(f *os.File) error { return storage.ExportJSON(f, name, p, tr) }); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", jsonPath)
	}
	return nil
}

func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// parseSweep reads name=min:max:steps.
func parseSweep(arg string) (*automation.ParameterSweep, error) {
	name, rng, ok := strings.Cut(arg, "=")
	if !ok {
		return nil, fmt.Errorf("sweep %q: want name=min:max:steps", arg)
	}
	parts := strings.Split(rng, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("sweep %q: want name=min:max:steps", arg)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return nil, fmt.Errorf("sweep min: %w", err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return nil, fmt.Errorf("sweep max: %w", err)
	}
	steps, err := strconv.Atoi(parts[2])
	if err != nil {
		return nil, fmt.Errorf("sweep steps: %w", err)
	}
	return &automation.ParameterSweep{
		ParamName: name,
		ParamMin:  lo,
		ParamMax:  hi,
		NumSteps:  steps,
		Frames:    frames,
	}, nil
}

func runSweep(cmd *cobra.Command, cfg *config.Config) error {
	sweep, err := parseSweep(sweepArg)
	if err != nil {
		return err
	}
	results, err := automation.RunSweep(cmd.Context(), sweep, cfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tTHETA\tTHETA_DOT\tE_MIN\tE_MAX\n", strings.ToUpper(sweep.ParamName))
	for _, r := range results {
		fmt.Fprintf(w, "%.4g\t%.4f\t%.4f\t%.2f\t%.2f\n",
			r.ParamValue,
			r.FinalState.Theta,
			r.FinalState.ThetaDot,
			r.MinEnergy,
			r.MaxEnergy,
		)
	}
	return w.Flush()
}

func runField(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sess, err := session.Setup(cfg)
	if err != nil {
		return err
	}

	var trail []scene.Vec
	if trailFrames > 0 {
		portrait, err := analysis.GeneratePhasePortrait(*sess.State, *sess.Params, trailFrames)
		if err != nil {
			return err
		}
		trail = export.Trail(portrait.Points, sess.Field.Options().MarkerScale)
	}

	bc := viz.NewCanvas(fieldWidth, fieldHeight)
	viz.Rasterize(bc, sess.FieldCanvas, viz.ThemeMidnight.Grid)
	if colorOut {
		fmt.Println(bc.Render(lipgloss.Color("#ffffff")))
	} else {
		fmt.Print(bc.String())
	}

	if svgPath != "" {
		opts := sess.FieldCanvas.Options()
		svg := export.CanvasToSVG(sess.FieldCanvas, int(opts.Width), int(opts.Height), trail)
		if err := os.WriteFile(svgPath, []byte(svg), 0o644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
	}
	if pngPath != "" {
		if err := export.SaveFieldPNG(pngPath, sess.Field, trail); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", pngPath)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tFRAMES\tDAMPING\tGRAVITY\tDT\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4g\t%.4g\t%.4g\t%.2f%%\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Params.Damping,
			run.Params.Gravity,
			run.Params.TimeStep,
			run.Metrics["energy_drift"]*100,
		)
	}

	return w.Flush()
}

func phasePlot(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	tr, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	if len(tr.States) == 0 {
		return fmt.Errorf("no data to plot")
	}

	portrait := &analysis.PhasePortrait2D{Points: make([]analysis.Point, len(tr.States))}
	for i, s := range tr.States {
		portrait.Points[i] = analysis.Point{X: s.Theta, Y: s.ThetaDot}
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(tr.States))
	fmt.Println(analysis.PhasePortraitToASCII(portrait, 72, 24))
	fmt.Println("x: theta  y: theta-dot")

	if svgPath != "" {
		svg := export.TrajectoryToSVG(portrait.Points, 800, 600, "#00ffff")
		if err := os.WriteFile(svgPath, []byte(svg), 0o644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
	}
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "phasependulum.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
