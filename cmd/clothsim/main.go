package main

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/guptarohit/asciigraph"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/clothsim/internal/analysis"
	"github.com/san-kum/clothsim/internal/automation"
	"github.com/san-kum/clothsim/internal/config"
	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/experiment"
	"github.com/san-kum/clothsim/internal/export"
	"github.com/san-kum/clothsim/internal/gui"
	"github.com/san-kum/clothsim/internal/optim"
	"github.com/san-kum/clothsim/internal/sim"
	"github.com/san-kum/clothsim/internal/storage"
	"github.com/san-kum/clothsim/internal/viz"
)

var version = "dev"

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string

	timestep  float64
	timescale float64
	duration  float64
	seed      int64
	gravity   float64
	damping   float64
	stretch   float64
	repel     float64
	wind      bool
	frameRate float64

	plotOut     string
	exportOut   string
	snapshotOut string
	configOut   string
	showRepel   bool
	numRuns     int
	metricName  string
	settleTol   float64
	sweepParams []string
)

var log = logrus.New()

func main() {
	env := config.LoadEnv()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05"})
	if lvl, err := logrus.ParseLevel(env.LogLevel); err == nil {
		log.SetLevel(lvl)
	} else {
		log.WithError(err).Warn("bad log level, using info")
	}

	if env.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: env.SentryDSN, Release: "clothsim@" + version}); err != nil {
			log.WithError(err).Warn("sentry disabled")
		} else {
			sentry.ConfigureScope(func(scope *sentry.Scope) {
				scope.SetTag("data_dir", env.DataDir)
			})
			defer sentry.Flush(2 * time.Second)
			defer func() {
				if r := recover(); r != nil {
					sentry.CurrentHub().Recover(r)
					sentry.Flush(5 * time.Second)
					panic(r)
				}
			}()
		}
	}

	rootCmd := newRootCmd(env)
	if err := rootCmd.Execute(); err != nil {
		sentry.CaptureException(err)
		sentry.Flush(2 * time.Second)
		os.Exit(1)
	}
}

func newRootCmd(env config.Env) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "clothsim",
		Short:   "verlet cloth and rope playground",
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(experiment.NewRegistry(), snapshotter(), log)
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", env.DataDir, "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene headless and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	addSceneFlags(runCmd)
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "simulated seconds")
	runCmd.Flags().Float64Var(&frameRate, "fps", 60, "frames per simulated second")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the metric series of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVarP(&plotOut, "out", "o", "", "also write an SVG per metric with this path prefix")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [scene]",
		Short: "simulate a scene and save it as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  snapshotScene,
	}
	addSceneFlags(snapshotCmd)
	snapshotCmd.Flags().Float64Var(&duration, "time", 3, "simulated seconds before the snapshot")
	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "snapshot.svg", "output file")
	snapshotCmd.Flags().BoolVar(&showRepel, "repel", false, "draw repel links")

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "interactive terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSceneFlags(liveCmd)

	guiCmd := &cobra.Command{
		Use:   "gui [scene]",
		Short: "interactive desktop view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}
	addSceneFlags(guiCmd)

	scenesCmd := &cobra.Command{
		Use:   "scenes",
		Short: "list available scenes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range experiment.NewRegistry().ListScenes() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scene]",
		Short: "list available presets for a scene",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Fprintf(out, "no presets for scene: %s\n", args[0])
				return
			}
			fmt.Fprintf(out, "presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Fprintf(out, "  %s\n", p)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config [scene]",
		Short: "write the resolved configuration as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE:  writeConfig,
	}
	addSceneFlags(configCmd)
	configCmd.Flags().StringVarP(&configOut, "out", "o", "clothsim.yaml", "output file")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency and settling analysis of a metric",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&metricName, "metric", "kinetic_energy", "metric series to analyze")
	analyzeCmd.Flags().Float64Var(&settleTol, "tol", 1e-3, "settling tolerance")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario and store each step",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenarioFile,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [scene]",
		Short: "grid search settings for the smallest metric value",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepScene,
	}
	addSceneFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&duration, "time", 3, "simulated seconds per point")
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "setting to sweep as key=v1,v2,... (repeatable)")
	sweepCmd.Flags().StringVar(&metricName, "metric", "max_stretch", "metric to minimize")

	benchCmd := &cobra.Command{
		Use:   "bench [scene]",
		Short: "run several seeds in parallel and report throughput",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScene,
	}
	addSceneFlags(benchCmd)
	benchCmd.Flags().Float64Var(&duration, "time", 5, "simulated seconds per run")
	benchCmd.Flags().IntVar(&numRuns, "runs", 4, "number of seeds")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, snapshotCmd, liveCmd, guiCmd, scenesCmd, presetsCmd, configCmd, analyzeCmd, scenarioCmd, sweepCmd, benchCmd)
	return rootCmd
}

func addSceneFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.Float64Var(&timestep, "dt", config.DefaultTimestep, "fixed timestep")
	f.Float64Var(&timescale, "timescale", 1, "simulated seconds per wall second")
	f.Int64Var(&seed, "seed", 0, "shuffle seed")
	f.Float64Var(&gravity, "gravity", -1, "vertical gravity")
	f.Float64Var(&damping, "damping", dynamo.DefaultParams().Damping, "velocity damping [0,1]")
	f.Float64Var(&stretch, "stretch", dynamo.DefaultParams().Stretchiness, "stretchiness [0,5]")
	f.Float64Var(&repel, "repel", dynamo.DefaultParams().RepelStrength, "repel strength")
	f.BoolVar(&wind, "wind", false, "enable wind")
}

// resolveConfig layers defaults, then a preset, then a config file, then any
// flags set explicitly on the command line.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	scene := config.DefaultConfig().Scene
	if len(args) > 0 {
		scene = args[0]
	}

	cfg := config.DefaultConfig()
	if preset != "" {
		p := config.GetPreset(scene, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(scene))
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
	if len(args) > 0 {
		cfg.Scene = scene
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Timestep = timestep
	}
	if flags.Changed("timescale") {
		cfg.Timescale = timescale
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("gravity") {
		cfg.Gravity[1] = gravity
	}
	if flags.Changed("damping") {
		cfg.Params.Damping = damping
	}
	if flags.Changed("stretch") {
		cfg.Params.Stretchiness = stretch
	}
	if flags.Changed("repel") {
		cfg.Params.RepelStrength = repel
	}
	if flags.Changed("wind") {
		cfg.Wind.Enabled = wind
	}
	if flags.Lookup("time") != nil && flags.Changed("time") {
		cfg.Duration = duration
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupExperiment(cmd *cobra.Command, args []string) (*experiment.Experiment, error) {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return nil, err
	}
	exp := experiment.New(cfg, experiment.NewRegistry(), log)
	if err := exp.Setup(); err != nil {
		return nil, err
	}
	return exp, nil
}

func runScene(cmd *cobra.Command, args []string) error {
	exp, err := setupExperiment(cmd, args)
	if err != nil {
		return err
	}
	cfg := exp.Config()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	runCfg := sim.Config{FrameRate: frameRate, Duration: cfg.Duration, RecordEvery: 1}
	log.WithFields(logrus.Fields{"scene": cfg.Scene, "duration": cfg.Duration}).Info("running")

	result, err := exp.Run(cmd.Context(), runCfg)
	if err != nil {
		return err
	}

	runID, err := st.Save(storage.Run{
		Scene:     cfg.Scene,
		Seed:      cfg.Seed,
		Timestep:  cfg.Timestep,
		Duration:  cfg.Duration,
		FrameRate: runCfg.FrameRate,
		Params:    cfg.Params,
		Bodies:    len(exp.World().Bodies()),
	}, result)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "completed in %v\n", result.Elapsed)
	fmt.Fprintf(out, "run id: %s\n", runID)
	fmt.Fprintf(out, "steps: %d (%d stalls, %.0f steps/s)\n", result.Steps, result.Stalls, result.StepsPerSecond())
	fmt.Fprintf(out, "checksum: %016x\n", result.Checksum)
	fmt.Fprintln(out, "\nmetrics:")
	for _, name := range slices.Sorted(maps.Keys(result.Metrics)) {
		fmt.Fprintf(out, "  %s: %.6f\n", name, result.Metrics[name])
	}

	if series := result.Series["kinetic_energy"]; len(series) > 1 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, asciigraph.Plot(series, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("kinetic energy")))
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
		fmt.Fprintln(cmd.OutOrStdout(), "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tDT\tSEED\tSTEPS\tSTALLS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\t%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Timestep,
			run.Seed,
			run.Steps,
			run.Stalls,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	times, series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "scene: %s\n", meta.Scene)
	fmt.Fprintf(out, "samples: %d\n\n", len(times))

	for _, name := range slices.Sorted(maps.Keys(series)) {
		data := series[name]
		if len(data) < 2 {
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)

		if plotOut != "" {
			path := fmt.Sprintf("%s_%s.svg", plotOut, name)
			svg := export.SeriesToSVG(times, data, 800, 300, "#e8e0d0")
			if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
				return err
			}
			log.WithField("path", path).Info("wrote plot")
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
	times, series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	data, ok := series[metricName]
	if !ok {
		return fmt.Errorf("run %s has no metric %q (available: %v)", runID, metricName, slices.Sorted(maps.Keys(series)))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "analysis: %s\n", meta.ID)
	fmt.Fprintf(out, "scene: %s  metric: %s\n\n", meta.Scene, metricName)

	spectrum, err := analysis.PowerSpectrum(data, analysis.SampleRate(times))
	if err != nil {
		return err
	}
	graph := asciigraph.Plot(spectrum.Power[1:],
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum ("+metricName+")"),
	)
	fmt.Fprintln(out, graph)
	fmt.Fprintln(out)

	freq, _ := spectrum.Dominant()
	fmt.Fprintf(out, "dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Fprintf(out, "period: %.3f s\n", 1.0/freq)
	}
	if t, ok := analysis.SettlingTime(times, data, settleTol); ok {
		fmt.Fprintf(out, "settled after: %.2f s\n", t)
	} else {
		fmt.Fprintln(out, "not settled")
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	var w io.Writer = cmd.OutOrStdout()
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return st.ExportJSON(w, args[0])
}

func snapshotScene(cmd *cobra.Command, args []string) error {
	exp, err := setupExperiment(cmd, args)
	if err != nil {
		return err
	}

	runCfg := sim.Config{FrameRate: 60, Duration: exp.Config().Duration, RecordEvery: 60}
	if _, err := exp.Run(cmd.Context(), runCfg); err != nil {
		return err
	}

	opts := export.DefaultOptions()
	opts.ShowRepel = showRepel
	if err := os.WriteFile(snapshotOut, []byte(export.WorldToSVG(exp.World(), opts)), 0644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", snapshotOut)
	return nil
}

// snapshotter saves live views under the data directory.
func snapshotter() viz.SnapshotFunc {
	return func(w *dynamo.World) (string, error) {
		dir := filepath.Join(dataDir, "snapshots")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
		path := filepath.Join(dir, fmt.Sprintf("snapshot_%d.svg", time.Now().UnixNano()))
		opts := export.DefaultOptions()
		opts.ShowRepel = true
		return path, os.WriteFile(path, []byte(export.WorldToSVG(w, opts)), 0644)
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	exp, err := setupExperiment(cmd, args)
	if err != nil {
		return err
	}
	// the terminal belongs to bubbletea now
	log.SetOutput(io.Discard)
	return viz.Run(exp, snapshotter())
}

func runGUI(cmd *cobra.Command, args []string) error {
	exp, err := setupExperiment(cmd, args)
	if err != nil {
		return err
	}
	return gui.Run(exp, log)
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := config.Save(configOut, cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", configOut)
	return nil
}

func runScenarioFile(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	results, err := automation.RunScenario(cmd.Context(), sc, experiment.NewRegistry(), log)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "scenario %s: %d steps\n\n", sc.Name, len(results))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSCENE\tACTIONS\tTOUCHED\tLINKS\tSTRETCH\tRUN")
	for _, r := range results {
		runID, err := st.Save(storage.Run{
			Scene:     r.Config.Scene,
			Seed:      r.Config.Seed,
			Timestep:  r.Config.Timestep,
			Duration:  r.Config.Duration,
			FrameRate: float64(r.Result.Frames) / r.Config.Duration,
			Params:    r.Config.Params,
			Bodies:    len(r.World.Bodies()),
		}, r.Result)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%.4f\t%s\n",
			r.Name, r.Config.Scene, r.Fired, r.Touched,
			len(r.World.Constraints()), r.Result.Metrics["max_stretch"], runID)
	}
	return w.Flush()
}

func sweepScene(cmd *cobra.Command, args []string) error {
	if len(sweepParams) == 0 {
		return fmt.Errorf("at least one --param is required (settings: %v)", config.Keys())
	}
	base, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(sweepParams))
	ranges := make([][]float64, 0, len(sweepParams))
	for _, p := range sweepParams {
		key, values, err := config.ParseAssignment(p)
		if err != nil {
			return err
		}
		names = append(names, key)
		ranges = append(ranges, values)
	}

	registry := experiment.NewRegistry()
	build := func(values map[string]float64) (*experiment.Experiment, error) {
		c := *base
		for k, v := range values {
			if err := c.Set(k, v); err != nil {
				return nil, err
			}
		}
		if err := c.Validate(); err != nil {
			return nil, err
		}
		exp := experiment.New(&c, registry, log)
		return exp, exp.Setup()
	}

	g := optim.NewGridSearch(names, ranges)
	log.WithFields(logrus.Fields{"points": g.Size(), "metric": metricName}).Info("sweeping")
	best, evals, err := g.Search(cmd.Context(), build, sim.Config{FrameRate: 60, Duration: base.Duration, RecordEvery: 60}, metricName)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "%s\t", strings.ToUpper(name))
	}
	fmt.Fprintln(w, strings.ToUpper(metricName))
	for _, e := range evals {
		for _, name := range names {
			fmt.Fprintf(w, "%g\t", e.Values[name])
		}
		if e.Err != nil {
			fmt.Fprintf(w, "error: %v\n", e.Err)
		} else {
			fmt.Fprintf(w, "%.6f\n", e.Metric)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprint(out, "\nbest:")
	for _, name := range names {
		fmt.Fprintf(out, " %s=%g", name, best.Values[name])
	}
	fmt.Fprintf(out, " (%s %.6f)\n", metricName, best.Metric)
	return nil
}

func benchScene(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()

	build := func(s int64) (*dynamo.World, error) {
		c := *cfg
		c.Seed = s
		exp := experiment.New(&c, registry, log)
		if err := exp.Setup(); err != nil {
			return nil, err
		}
		return exp.World(), nil
	}
	metrics := func() []sim.Metric { return registry.DefaultMetrics(cfg) }

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	start := time.Now()
	results, err := sim.NewEnsemble(build, metrics, numRuns, cfg.Seed, log).Run(ctx, sim.Config{
		FrameRate: 60,
		Duration:  cfg.Duration,
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "benchmarking %s: %d runs of %.1fs\n\n", cfg.Scene, numRuns, cfg.Duration)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSTEPS\tSTALLS\tTIME\tSTEPS/SEC\tSTABILITY\tCHECKSUM")
	total := 0
	for i, r := range results {
		total += r.Steps
		fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\t%.3f\t%016x\n",
			cfg.Seed+int64(i), r.Steps, r.Stalls, r.Elapsed.Round(time.Millisecond),
			r.StepsPerSecond(), r.Metrics["stability"], r.Checksum)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\ntotal: %d steps in %v (%.0f steps/s)\n", total, elapsed.Round(time.Millisecond), float64(total)/elapsed.Seconds())
	return nil
}
