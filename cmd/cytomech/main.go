package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/sbrunel/cytomech/internal/analysis"
	"github.com/sbrunel/cytomech/internal/config"
	"github.com/sbrunel/cytomech/internal/export"
	"github.com/sbrunel/cytomech/internal/metrics"
	"github.com/sbrunel/cytomech/internal/scenario"
	"github.com/sbrunel/cytomech/internal/sim"
	"github.com/sbrunel/cytomech/internal/storage"
	"github.com/sbrunel/cytomech/internal/tui"
)

var (
	dataDir    string
	dt         float64
	duration   float64
	seed       int64
	integrator string
	cellCount  int
	adhesion   float64
	configFile string
	preset     string
	ensemble   int
	outFile    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cytomech",
		Short: "deformable cell mechanics lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".cytomech", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scenario",
		RunE:  runScenario,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	runCmd.Flags().StringVar(&integrator, "integrator", "euler", "integrator")
	runCmd.Flags().IntVar(&cellCount, "cells", 0, "override cell count")
	runCmd.Flags().Float64Var(&adhesion, "adhesion", -1, "override adhesion in [0,1]")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().IntVar(&ensemble, "ensemble", 1, "number of seeded runs")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a scenario with live visualization",
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	liveCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().StringVar(&preset, "preset", "aggregate", "use preset configuration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the step pipeline",
		RunE:  benchPipeline,
	}
	benchCmd.Flags().StringVar(&preset, "preset", "aggregate", "preset to benchmark")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "run a scenario and write the final state as SVG",
		RunE:  snapshotScenario,
	}
	snapshotCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	snapshotCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	snapshotCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	snapshotCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	snapshotCmd.Flags().StringVar(&preset, "preset", "aggregate", "use preset configuration")
	snapshotCmd.Flags().StringVar(&outFile, "out", "snapshot.svg", "output file")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the connection series of a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&outFile, "out", "run.svg", "output file")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, exportCSVCmd,
		presetsCmd, benchCmd, analyzeCmd, snapshotCmd, exportSVGCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	// CLI flags override preset and file values.
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("cells") {
		cfg.Cells.Count = cellCount
	}
	if cmd.Flags().Changed("adhesion") {
		cfg.Cells.Adhesion = adhesion
	}
	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}

	return cfg, nil
}

func defaultMetrics() []sim.Metric {
	return []sim.Metric{
		metrics.NewMeanPressure(),
		metrics.NewConnectionChurn(),
		metrics.NewRadiusDrift(),
	}
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	runCfg := sim.Config{Dt: cfg.Dt, Duration: cfg.Duration, Seed: cfg.Seed}

	if ensemble > 1 {
		return runEnsemble(cfg, runCfg)
	}

	world, err := scenario.Build(cfg)
	if err != nil {
		return err
	}
	for _, m := range defaultMetrics() {
		world.AddMetric(m)
	}

	fmt.Printf("running %s scenario (%d cells)...\n", cfg.Scenario, len(world.Cells()))
	start := time.Now()

	result, err := world.Run(context.Background(), runCfg)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg.Scenario, cfg.Dt, cfg.Duration, cfg.Seed, cfg.Integrator, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func runEnsemble(cfg *config.Config, runCfg sim.Config) error {
	build := func(s int64) (*sim.World, error) {
		c := *cfg
		c.Seed = s
		w, err := scenario.Build(&c)
		if err != nil {
			return nil, err
		}
		for _, m := range defaultMetrics() {
			w.AddMetric(m)
		}
		return w, nil
	}

	fmt.Printf("running %d seeded %s runs...\n", ensemble, cfg.Scenario)
	start := time.Now()

	results, err := sim.NewEnsemble(build, ensemble, cfg.Seed).Run(context.Background(), runCfg)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSTEPS\tPRESSURE\tCHURN\tRADIUS_DRIFT")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%.4f\t%.1f\t%.4f\n",
			cfg.Seed+int64(i),
			r.StepsTaken,
			r.Metrics["mean_pressure"],
			r.Metrics["connection_churn"],
			r.Metrics["radius_drift"],
		)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	world, err := scenario.Build(cfg)
	if err != nil {
		return err
	}

	m := tui.NewModel(world, cfg.Scenario, cfg.Dt)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tDT\tINTEG")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
		)
	}

	return w.Flush()
}

var plotSeries = []struct {
	caption string
	value   func(s sim.StepStats) float64
}{
	{"connections", func(s sim.StepStats) float64 { return float64(s.Connections) }},
	{"mean pressure", func(s sim.StepStats) float64 { return s.MeanPressure }},
	{"mean corrected radius", func(s sim.StepStats) float64 { return s.MeanRadius }},
	{"total force", func(s sim.StepStats) float64 { return s.TotalForce }},
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	steps, err := st.LoadSteps(runID)
	if err != nil {
		return err
	}

	if len(steps) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(steps))

	for _, series := range plotSeries {
		data := make([]float64, len(steps))
		for i, s := range steps {
			data[i] = series.value(s)
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	steps, err := st.LoadSteps(runID)
	if err != nil {
		return err
	}

	if len(steps) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"time", "cells", "connections", "model_connections", "mean_pressure", "mean_radius", "total_force"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, s := range steps {
		row := []string{
			strconv.FormatFloat(s.Time, 'f', 6, 64),
			strconv.Itoa(s.Cells),
			strconv.Itoa(s.Connections),
			strconv.Itoa(s.ModelConnections),
			strconv.FormatFloat(s.MeanPressure, 'f', 6, 64),
			strconv.FormatFloat(s.MeanRadius, 'f', 6, 64),
			strconv.FormatFloat(s.TotalForce, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	steps, err := st.LoadSteps(runID)
	if err != nil {
		return err
	}
	if len(steps) == 0 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n\n", meta.Scenario)

	data := make([]float64, len(steps))
	for i, s := range steps {
		data[i] = float64(s.Connections)
	}

	ps := analysis.PowerSpectrum(data)
	plotData := ps[:len(ps)/4]
	if len(plotData) > 1 {
		graph := asciigraph.Plot(plotData,
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (connections)"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	freq := analysis.DominantFrequency(data, meta.Dt)
	if freq > 0 {
		fmt.Printf("dominant frequency: %.3f hz\n", freq)
		fmt.Printf("period: %.3f s\n", 1.0/freq)
		fmt.Println("a sharp peak in a settled aggregate points at connect/disconnect flapping")
	} else {
		fmt.Println("no dominant oscillation found")
	}

	return nil
}

func snapshotScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	world, err := scenario.Build(cfg)
	if err != nil {
		return err
	}

	if _, err := world.Run(context.Background(), sim.Config{Dt: cfg.Dt, Duration: cfg.Duration, Seed: cfg.Seed}); err != nil {
		return err
	}

	svg := export.WorldSVG(world, 1200, 900)
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	steps, err := st.LoadSteps(args[0])
	if err != nil {
		return err
	}
	if len(steps) < 2 {
		return fmt.Errorf("not enough data to plot")
	}

	svg := export.StepsSVG(steps, 1200, 400)
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func benchPipeline(cmd *cobra.Command, args []string) error {
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s", preset)
	}

	durations := []float64{5.0, 20.0}
	dts := []float64{0.01, 0.05}

	fmt.Printf("benchmarking %s\n\n", preset)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tDT\tSTEPS\tTIME\tSTEPS/SEC")

	for _, dur := range durations {
		for _, stepDt := range dts {
			c := *cfg
			c.Seed = 42
			world, err := scenario.Build(&c)
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := world.Run(context.Background(), sim.Config{Dt: stepDt, Duration: dur, Seed: 42})
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			stepsPerSec := float64(result.StepsTaken) / elapsed.Seconds()
			fmt.Fprintf(w, "%.1fs\t%.4fs\t%d\t%v\t%.0f\n",
				dur, stepDt, result.StepsTaken, elapsed, stepsPerSec)
		}
	}

	return w.Flush()
}
