package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/fibersim/internal/analysis"
	"github.com/san-kum/fibersim/internal/automation"
	"github.com/san-kum/fibersim/internal/config"
	"github.com/san-kum/fibersim/internal/experiment"
	"github.com/san-kum/fibersim/internal/export"
	"github.com/san-kum/fibersim/internal/optim"
	"github.com/san-kum/fibersim/internal/storage"
	"github.com/san-kum/fibersim/internal/trajectory"
	"github.com/san-kum/fibersim/internal/tui"
	"github.com/san-kum/fibersim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	steps      int
	dt         float64
	stride     int
	seed       int64
	frames     bool
	watch      bool
	frameRate  int
	runs       int
	modelOnly  string
	column     string
	outFile    string
	withFrames bool
	svgOut     string
	svgFile    string
	step       int
	sweepParam []string
	sweepVals  []string
	sweepMax   bool
	metric     string
)

func main() {
	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	registry := experiment.NewRegistry()

	rootCmd := &cobra.Command{
		Use:          "fibersim",
		Short:        "reaction-driven polymer simulations",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(registry)
		},
	}
	rootCmd.PersistentFlags().AddGoFlagSet(fset)
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".fibersim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run a simulation and store it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd, args, registry)
		},
	}
	addConfigFlags(runCmd)
	runCmd.Flags().BoolVar(&frames, "frames", false, "store every recorded frame")
	runCmd.Flags().BoolVar(&watch, "watch", false, "draw frames while running")
	runCmd.Flags().IntVar(&frameRate, "fps", 10, "frame rate with --watch")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [model]",
		Short: "run independent seeds and summarize their metrics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnsemble(cmd, args, registry)
		},
	}
	addConfigFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&runs, "runs", 4, "number of seeds")

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "run a simulation in the live view",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, args)
			if err != nil {
				return err
			}
			e, err := experiment.New(registry, cfg)
			if err != nil {
				return err
			}
			if err := e.Setup(registry); err != nil {
				return err
			}
			return viz.RunLive(e)
		},
	}
	addConfigFlags(liveCmd)

	benchCmd := &cobra.Command{
		Use:   "bench [model]",
		Short: "measure steps per second",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return benchModel(cmd, args, registry)
		},
	}
	addConfigFlags(benchCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}
	listCmd.Flags().StringVar(&modelOnly, "model", "", "only runs of this model")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the observables of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "column", "", "plot only this observable")
	plotCmd.Flags().StringVar(&svgOut, "svg", "", "write the plotted column as SVG to this file")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportCmd.Flags().BoolVar(&withFrames, "frames", false, "export the stored frames as JSON lines instead")

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := storage.Open(dataDir)
			if err != nil {
				return err
			}
			defer st.Close()
			return st.Delete(args[0])
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	catalogCmd := &cobra.Command{
		Use:   "catalog [model]",
		Short: "list the reactions of a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printCatalog(args[0], registry)
		},
	}

	configCmd := &cobra.Command{
		Use:   "config [model]",
		Short: "print the config a run would use",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, args)
			if err != nil {
				return err
			}
			return config.Save("/dev/stdout", cfg)
		},
	}
	addConfigFlags(configCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "run a parameter grid and rank it by one metric",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd, args, registry)
		},
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweepParam, "param", nil, "dotted config key to sweep (repeatable)")
	sweepCmd.Flags().StringArrayVar(&sweepVals, "values", nil, "comma separated values for the matching --param")
	sweepCmd.Flags().StringVar(&metric, "metric", "", "metric to rank by")
	sweepCmd.Flags().BoolVar(&sweepMax, "maximize", false, "rank larger values first")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run every step of a scenario file and store the runs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(args[0], registry)
		},
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "summarize the observables of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [run_id]",
		Short: "draw a stored frame as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshotRun,
	}
	snapshotCmd.Flags().IntVar(&step, "step", -1, "frame step (default: last)")
	snapshotCmd.Flags().StringVarP(&svgFile, "out", "o", "snapshot.svg", "output file")

	rootCmd.AddCommand(runCmd, ensembleCmd, liveCmd, benchCmd, listCmd, plotCmd, exportCmd, deleteCmd,
		presetsCmd, catalogCmd, configCmd, sweepCmd, scenarioCmd, analyzeCmd, snapshotCmd)

	err := rootCmd.Execute()
	klog.Flush()
	if err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&steps, "steps", 0, "number of steps")
	cmd.Flags().Float64Var(&dt, "dt", 0, "timestep (ns)")
	cmd.Flags().IntVar(&stride, "stride", 0, "record every n-th step")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (default: time based)")
}

// resolveConfig starts from a config file or a preset and applies the
// flags the user changed.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	model := ""
	if len(args) > 0 {
		model = args[0]
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load config")
		}
		cfg = loaded
		if model == "" {
			model = cfg.Model
		}
	}
	if model == "" {
		model = cfg.Model
	}
	if preset != "" {
		p := config.GetPreset(model, preset)
		if p == nil {
			return nil, errors.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
		if configFile == "" {
			cfg = p
		} else {
			klog.Warningf("--preset %s ignored: --config %s given", preset, configFile)
		}
	}
	cfg.Model = model

	flags := cmd.Flags()
	if flags.Changed("steps") {
		cfg.Engine.Steps = steps
	}
	if flags.Changed("dt") {
		cfg.Engine.Dt = dt
	}
	if flags.Changed("stride") {
		cfg.Engine.RecordStride = stride
	}
	if flags.Changed("seed") {
		cfg.Engine.Seed = seed
	} else if configFile == "" {
		cfg.Engine.Seed = time.Now().UnixNano()
	}
	if flags.Lookup("frames") != nil && flags.Changed("frames") {
		cfg.Output.Frames = frames
	}
	return cfg, cfg.Validate()
}

func runSimulation(cmd *cobra.Command, args []string, registry *experiment.Registry) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	st, err := storage.Open(dataDir)
	if err != nil {
		return err
	}
	defer st.Close()

	exp, err := experiment.New(registry, cfg)
	if err != nil {
		return err
	}
	runID, err := st.NewRun(cfg.Model)
	if err != nil {
		return err
	}

	var recorders []trajectory.Recorder
	if cfg.Output.Frames {
		frameStore, err := trajectory.OpenBadger(st.FramesDir(runID))
		if err != nil {
			return err
		}
		defer frameStore.Close()
		recorders = append(recorders, frameStore)
	}
	if err := exp.Setup(registry, recorders...); err != nil {
		return err
	}
	if watch {
		r := tui.NewLiveRenderer(os.Stdout, cfg.Model, exp.System().Box, frameRate)
		r.Start()
		defer r.Stop()
		exp.Simulation().AddObserver(r)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s simulation (seed %d)...\n", cfg.Model, cfg.Engine.Seed)
	start := time.Now()
	result, runErr := exp.Run(ctx)
	elapsed := time.Since(start)

	if result != nil {
		if err := st.Save(runID, cfg, result, exp.Series()); err != nil {
			return err
		}
	}
	if runErr != nil {
		return errors.Wrapf(runErr, "run %s stopped", runID)
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d (%.4g ns)\n", result.StepsTaken, result.Time)
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %s: %.6g\n", name, result.Metrics[name])
	}
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string, registry *experiment.Registry) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	fmt.Printf("running %d %s simulations from seed %d...\n", runs, cfg.Model, cfg.Engine.Seed)
	start := time.Now()
	results, err := experiment.Ensemble(registry, cfg, runs).Run(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	values := make(map[string][]float64)
	for _, r := range results {
		for name, v := range r.Metrics {
			values[name] = append(values[name], v)
		}
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tSTD\tMIN\tMAX")
	for _, name := range sortedKeys(values) {
		vs := values[name]
		mean, std := stat.MeanStdDev(vs, nil)
		sorted := append([]float64(nil), vs...)
		sort.Float64s(sorted)
		fmt.Fprintf(w, "%s\t%.4g\t%.4g\t%.4g\t%.4g\n", name, mean, std, sorted[0], sorted[len(sorted)-1])
	}
	return w.Flush()
}

func benchModel(cmd *cobra.Command, args []string, registry *experiment.Registry) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	fmt.Printf("benchmarking %s\n\n", cfg.Model)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEPS\tSTRIDE\tTOPOLOGIES\tTIME\tSTEPS/SEC")

	for _, stride := range []int{0, 100, 10} {
		c := *cfg
		c.Engine.RecordStride = stride
		exp, err := experiment.New(registry, &c)
		if err != nil {
			return err
		}
		if err := exp.Setup(registry); err != nil {
			return err
		}

		start := time.Now()
		result, err := exp.Run(context.Background())
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\n",
			result.StepsTaken, stride, len(result.Final.Topologies), elapsed, float64(result.StepsTaken)/elapsed.Seconds())
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := storage.Open(dataDir)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.List(modelOnly)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tCREATED\tSEED\tSTEPS\tTIME")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.4g ns\n",
			run.ID,
			run.Model,
			run.Created.Format("2006-01-02 15:04:05"),
			run.Seed,
			run.Steps,
			run.Time,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st, err := storage.Open(dataDir)
	if err != nil {
		return err
	}
	defer st.Close()

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series.Rows) < 2 {
		return errors.New("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("samples: %d over %.4g ns\n\n", len(series.Rows), meta.Time)

	for _, name := range series.Columns {
		if column != "" && name != column {
			continue
		}
		graph := asciigraph.Plot(series.Column(name),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if svgOut != "" {
		name := column
		if name == "" {
			name = series.Columns[0]
		}
		values := series.Column(name)
		if values == nil {
			return errors.Errorf("no observable %s", name)
		}
		svg := export.SeriesToSVG(series.Times, values, 800, 300, string(viz.CurrentTheme.Primary))
		if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s to %s\n", name, svgOut)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st, err := storage.Open(dataDir)
	if err != nil {
		return err
	}
	defer st.Close()

	out := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if withFrames {
		frameStore, err := trajectory.OpenBadger(st.FramesDir(runID))
		if err != nil {
			return err
		}
		defer frameStore.Close()
		return trajectory.WriteJSONLines(out, frameStore)
	}

	data, err := st.Export(runID)
	if err != nil {
		return err
	}
	return storage.ExportJSON(out, data)
}

func printCatalog(model string, registry *experiment.Registry) error {
	cfg := config.DefaultConfig()
	cfg.Model = model
	m, err := registry.GetModel(cfg)
	if err != nil {
		return err
	}
	sys, err := m.System()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STRUCTURAL\tTOPOLOGY\tRATE")
	for _, r := range sys.Reactions.Structural() {
		rate := "state dependent"
		if r.Pending {
			rate = "pending"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Name, r.TopologyType, rate)
	}
	fmt.Fprintln(w, "\t\t")
	fmt.Fprintln(w, "SPATIAL\tPATTERN\tRATE\tRADIUS")
	for _, r := range sys.Reactions.Spatial() {
		fmt.Fprintf(w, "%s\t%s\t%.3g\t%.3g\n", r.Name, r.Pattern, r.Rate, r.Radius)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string, registry *experiment.Registry) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if len(sweepParam) == 0 || len(sweepParam) != len(sweepVals) {
		return errors.New("give one --values for every --param")
	}
	if metric == "" {
		return errors.New("--metric is required")
	}
	ranges := make([][]float64, len(sweepVals))
	for i, vs := range sweepVals {
		for _, v := range strings.Split(vs, ",") {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return errors.Wrapf(err, "--values %s", vs)
			}
			ranges[i] = append(ranges[i], f)
		}
	}

	g := optim.NewGridSearch(sweepParam, ranges)
	if sweepMax {
		g.Maximize()
	}
	res, err := g.Search(context.Background(), optim.ConfigBuilder(registry, cfg), metric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(sweepParam, "\t")), strings.ToUpper(metric))
	for _, p := range res.Points {
		for _, name := range sweepParam {
			fmt.Fprintf(w, "%g\t", p.Params[name])
		}
		fmt.Fprintf(w, "%.6g\n", p.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nbest: %v -> %.6g\n", res.Best.Params, res.Best.Value)
	return nil
}

func runScenario(path string, registry *experiment.Registry) error {
	scenario, err := automation.LoadScenario(path)
	if err != nil {
		return err
	}
	st, err := storage.Open(dataDir)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("scenario %s: %d steps\n", scenario.Name, len(scenario.Steps))
	results, err := automation.RunScenario(ctx, scenario, registry, st)
	for _, r := range results {
		fmt.Printf("  %s: run %s, %d steps\n", r.Step, r.RunID, r.Result.StepsTaken)
	}
	return err
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st, err := storage.Open(dataDir)
	if err != nil {
		return err
	}
	defer st.Close()

	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "OBSERVABLE\tMEAN\tSTD\tMIN\tMAX\tRATE (1/ns)\tR2\tPERIOD (ns)")
	for _, name := range series.Columns {
		s, err := analysis.Summarize(name, series.Times, series.Column(name))
		if err != nil {
			return err
		}
		period := "-"
		if s.Period > 0 {
			period = fmt.Sprintf("%.4g", s.Period)
		}
		fmt.Fprintf(w, "%s\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\t%.3f\t%s\n",
			s.Name, s.Mean, s.Std, s.Min, s.Max, s.Slope, s.R2, period)
	}
	return w.Flush()
}

func snapshotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st, err := storage.Open(dataDir)
	if err != nil {
		return err
	}
	defer st.Close()

	cfg, err := st.LoadConfig(runID)
	if err != nil {
		return err
	}
	frameStore, err := trajectory.OpenBadger(st.FramesDir(runID))
	if err != nil {
		return err
	}
	defer frameStore.Close()

	var (
		f     trajectory.Frame
		found bool
	)
	if step >= 0 {
		if f, found, err = frameStore.Frame(step); err != nil {
			return err
		}
	} else {
		err = frameStore.Frames(func(fr trajectory.Frame) error {
			f, found = fr, true
			return nil
		})
		if err != nil {
			return err
		}
	}
	if !found {
		return errors.Errorf("run %s has no stored frame (run it with --frames)", runID)
	}

	m, err := modelOf(cfg)
	if err != nil {
		return err
	}
	sys, err := m.System()
	if err != nil {
		return err
	}
	cam := viz.NewCamera(sys.Box.Size.X)
	svg := export.FrameToSVG(f, cam, viz.SpeciesOf(f), viz.CurrentTheme, 800, 2)
	if err := os.WriteFile(svgFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote step %d to %s\n", f.Step, svgFile)
	return nil
}

func modelOf(cfg *config.Config) (experiment.Model, error) {
	return experiment.NewRegistry().GetModel(cfg)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
