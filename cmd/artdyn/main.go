package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/artdyn/internal/analysis"
	"github.com/san-kum/artdyn/internal/automation"
	"github.com/san-kum/artdyn/internal/config"
	"github.com/san-kum/artdyn/internal/export"
	"github.com/san-kum/artdyn/internal/integrators"
	"github.com/san-kum/artdyn/internal/scenario"
	"github.com/san-kum/artdyn/internal/storage"
	"github.com/san-kum/artdyn/internal/viz"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string
	column     string
	outFile    string
	xCol, yCol string

	param     string
	perturb   float64
	from, to  float64
	points    int
	transient float64
	trials    int
)

// overrides are command-line values applied on top of preset and config file.
// Only flags the user set are applied.
type overrides struct {
	dt, duration, gravity float64
	integrator            string
	seed                  int64

	height, angle, angle2, omega, speed float64
	stiffness, damping, restitution     float64
	bodies, links                       int

	epsilon, jointFriction, coulomb float64
	maxBisections                   int
}

var ov overrides

func addSimFlags(fs *pflag.FlagSet) {
	d := config.DefaultConfig()
	fs.StringVar(&configFile, "config", "", "config file path (yaml)")
	fs.StringVar(&preset, "preset", "", "use preset configuration")
	fs.Float64Var(&ov.dt, "dt", d.Dt, "timestep")
	fs.Float64Var(&ov.duration, "time", d.Duration, "duration")
	fs.Float64Var(&ov.gravity, "gravity", d.Gravity, "gravity magnitude")
	fs.StringVar(&ov.integrator, "integrator", d.Integrator, "integrator ("+strings.Join(integrators.Names(), ", ")+")")
	fs.Int64Var(&ov.seed, "seed", 0, "seed recorded with the run")

	fs.Float64Var(&ov.height, "height", d.Params.Height, "drop height")
	fs.Float64Var(&ov.angle, "angle", d.Params.Angle, "initial joint angle")
	fs.Float64Var(&ov.angle2, "angle2", d.Params.Angle2, "second joint angle (double_pendulum)")
	fs.Float64Var(&ov.omega, "omega", d.Params.Omega, "initial angular velocity")
	fs.Float64Var(&ov.speed, "speed", d.Params.Speed, "initial or mount speed")
	fs.Float64Var(&ov.stiffness, "stiffness", d.Params.Stiffness, "spring stiffness")
	fs.Float64Var(&ov.damping, "damping", d.Params.Damping, "spring damping")
	fs.Float64Var(&ov.restitution, "restitution", d.Params.Restitution, "coefficient of restitution")
	fs.IntVar(&ov.bodies, "bodies", d.Params.Bodies, "number of bodies")
	fs.IntVar(&ov.links, "links", d.Params.Links, "number of links")

	fs.Float64Var(&ov.epsilon, "epsilon", d.World.Epsilon, "accepted interpenetration")
	fs.Float64Var(&ov.jointFriction, "joint-friction", d.World.JointFriction, "viscous joint friction")
	fs.Float64Var(&ov.coulomb, "coulomb", d.World.CoulombFraction, "coulomb joint friction fraction")
	fs.IntVar(&ov.maxBisections, "max-bisections", d.World.MaxBisections, "bisection cap per contact")
}

// resolveConfig layers defaults, preset, config file and set flags, in that order.
func resolveConfig(cmd *cobra.Command, name string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Scenario = name

	if preset != "" {
		p := config.GetPreset(name, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(name))
		}
		cfg = p
	}

	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
		if cfg.Scenario == "" {
			cfg.Scenario = name
		}
	}

	fs := cmd.Flags()
	set := func(flag string, apply func()) {
		if fs.Changed(flag) {
			apply()
		}
	}
	set("dt", func() { cfg.Dt = ov.dt })
	set("time", func() { cfg.Duration = ov.duration })
	set("gravity", func() { cfg.Gravity = ov.gravity })
	set("integrator", func() { cfg.Integrator = ov.integrator })
	set("seed", func() { cfg.Seed = ov.seed })
	set("height", func() { cfg.Params.Height = ov.height })
	set("angle", func() { cfg.Params.Angle = ov.angle })
	set("angle2", func() { cfg.Params.Angle2 = ov.angle2 })
	set("omega", func() { cfg.Params.Omega = ov.omega })
	set("speed", func() { cfg.Params.Speed = ov.speed })
	set("stiffness", func() { cfg.Params.Stiffness = ov.stiffness })
	set("damping", func() { cfg.Params.Damping = ov.damping })
	set("restitution", func() { cfg.Params.Restitution = ov.restitution })
	set("bodies", func() { cfg.Params.Bodies = ov.bodies })
	set("links", func() { cfg.Params.Links = ov.links })
	set("epsilon", func() { cfg.World.Epsilon = ov.epsilon })
	set("joint-friction", func() { cfg.World.JointFriction = ov.jointFriction })
	set("coulomb", func() { cfg.World.CoulombFraction = ov.coulomb })
	set("max-bisections", func() { cfg.World.MaxBisections = ov.maxBisections })

	return cfg, cfg.Validate()
}

func logger() *slog.Logger {
	if !verbose {
		return nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func main() {
	rootCmd := &cobra.Command{
		Use:          "artdyn",
		Short:        "articulated rigid-body dynamics lab",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".artdyn", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log world events to stderr")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario and store the result",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	addSimFlags(runCmd.Flags())

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run a scenario with live visualization",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addSimFlags(liveCmd.Flags())

	compareCmd := &cobra.Command{
		Use:   "compare [scenario] [integrator1] [integrator2] ...",
		Short: "compare integrators on the same scenario",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	addSimFlags(compareCmd.Flags())

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
	plotCmd.Flags().StringVar(&column, "column", "", "plot only this column")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list available scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := scenario.NewRegistry()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SCENARIO\tPRESETS\tDESCRIPTION")
			for _, name := range reg.List() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", name, strings.Join(config.ListPresets(name), ","), reg.Describe(name))
			}
			return w.Flush()
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list available presets for a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for scenario: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				cfg := config.GetPreset(args[0], p)
				fmt.Printf("  %-10s dt=%g time=%gs\n", p, cfg.Dt, cfg.Duration)
			}
			return nil
		},
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "plot two run columns against each other as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&xCol, "x", "time", "x column")
	exportSVGCmd.Flags().StringVar(&yCol, "y", "energy", "y column")
	exportSVGCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [scenario]",
		Short: "run a scenario and render its final frame as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshot,
	}
	addSimFlags(snapshotCmd.Flags())
	snapshotCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis and phase portrait of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&xCol, "x", "", "phase portrait x column (default first column)")
	analyzeCmd.Flags().StringVar(&yCol, "y", "", "phase portrait y column (default third column)")

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov [scenario]",
		Short: "estimate the largest lyapunov exponent",
		Args:  cobra.ExactArgs(1),
		RunE:  runLyapunov,
	}
	addSimFlags(lyapunovCmd.Flags())
	lyapunovCmd.Flags().StringVar(&param, "param", "angle", "perturbed parameter ("+strings.Join(config.ParamNames(), ", ")+")")
	lyapunovCmd.Flags().Float64Var(&perturb, "perturb", 1e-6, "perturbation size")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "sweep a parameter and print where a column settles",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd.Flags())
	sweepCmd.Flags().StringVar(&param, "param", "angle", "swept parameter ("+strings.Join(config.ParamNames(), ", ")+")")
	sweepCmd.Flags().Float64Var(&from, "from", 0.1, "first value")
	sweepCmd.Flags().Float64Var(&to, "to", 1.5, "last value")
	sweepCmd.Flags().IntVar(&points, "points", 8, "number of values")
	sweepCmd.Flags().StringVar(&column, "column", "", "recorded column (default first column)")
	sweepCmd.Flags().Float64Var(&transient, "transient", 1, "seconds skipped before recording")

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run a yaml script of scenario runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [scenario]",
		Short: "run randomized trials around a parameter value",
		Args:  cobra.ExactArgs(1),
		RunE:  runMonteCarlo,
	}
	addSimFlags(monteCarloCmd.Flags())
	monteCarloCmd.Flags().StringVar(&param, "param", "angle", "perturbed parameter ("+strings.Join(config.ParamNames(), ", ")+")")
	monteCarloCmd.Flags().Float64Var(&perturb, "perturb", 0.1, "perturbation half-width")
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")

	rootCmd.AddCommand(analyzeCmd, lyapunovCmd, sweepCmd, scriptCmd, monteCarloCmd)
	rootCmd.AddCommand(runCmd, liveCmd, compareCmd, listCmd, plotCmd, exportJSONCmd, exportSVGCmd, snapshotCmd, scenariosCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s, err := scenario.NewRegistry().Build(cfg, logger())
	if err != nil {
		return err
	}

	fmt.Printf("running %s (%s, dt=%g, %gs)...\n", cfg.Scenario, cfg.Integrator, cfg.Dt, cfg.Duration)
	start := time.Now()

	result, runErr := scenario.Run(cmd.Context(), s, cfg.Dt, cfg.Duration)
	elapsed := time.Since(start)

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d (rewinds %d, impacts %d)\n", result.StepsTaken, result.Stats.Rewinds, result.Stats.Catastrophes)
	fmt.Println("\nmetrics:")
	for _, name := range s.Metrics.Names() {
		fmt.Printf("  %s: %.6g\n", name, result.Metrics[name])
	}
	return runErr
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}
	reg := scenario.NewRegistry()
	build := func() (*scenario.Scene, error) { return reg.Build(cfg, nil) }

	m, err := viz.NewModel(build, cfg.Dt, cfg.Duration)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m).Run()
	return err
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}
	names := args[1:]

	fmt.Printf("comparing integrators for %s (dt=%.4f, duration=%.1fs)\n\n", cfg.Scenario, cfg.Dt, cfg.Duration)
	start := time.Now()
	results, err := scenario.Compare(cmd.Context(), scenario.NewRegistry(), cfg, names, logger())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tFINAL_"+strings.ToUpper(firstColumn(results[0]))+"\tENERGY_DRIFT\tREWINDS")
	for _, r := range results {
		final := 0.0
		if n := len(r.States); n > 0 && len(r.States[n-1]) > 0 {
			final = r.States[n-1][0]
		}
		fmt.Fprintf(w, "%s\t%.6f\t%.2e\t%d\n", r.Integrator, final, r.EnergyDrift, r.Stats.Rewinds)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nall runs finished in %v\n", elapsed)
	return nil
}

func firstColumn(r *scenario.Result) string {
	if len(r.Columns) == 0 {
		return "x0"
	}
	return r.Columns[0]
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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tDT\tINTEG\tSTEPS\tREWINDS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%d\t%d\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Steps,
			run.Stats.Rewinds,
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
	tr, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(tr.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(tr.Times))

	plot := func(data []float64, caption string) {
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(caption),
		))
		fmt.Println()
	}

	if column != "" {
		data := tr.Column(column)
		if data == nil {
			return fmt.Errorf("unknown column: %s (available: %v)", column, tr.Columns)
		}
		plot(data, column+" vs time")
		return nil
	}

	plot(tr.Energy, "total energy")
	const maxPlots = 6
	for i, name := range tr.Columns {
		if i >= maxPlots {
			break
		}
		plot(tr.Column(name), name+" vs time")
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	tr, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	cfg.Scenario = meta.Scenario
	cfg.Dt = meta.Dt
	cfg.Duration = meta.Duration
	cfg.Seed = meta.Seed

	result := &scenario.Result{
		Scenario:   meta.Scenario,
		Integrator: meta.Integrator,
		Columns:    tr.Columns,
		Times:      tr.Times,
		Energy:     tr.Energy,
		States:     tr.States,
		Metrics:    meta.Metrics,
		Stats:      meta.Stats,
		StepsTaken: meta.Steps,
	}
	return storage.ExportJSONStdout(cfg, result)
}

func writeOutput(data string) error {
	if outFile == "" {
		_, err := fmt.Println(data)
		return err
	}
	if err := os.WriteFile(outFile, []byte(data), 0644); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", outFile)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	tr, err := storage.New(dataDir).LoadStates(args[0])
	if err != nil {
		return err
	}
	svg, err := export.TraceToSVG(tr, xCol, yCol, 800, 600, "#00ff88")
	if err != nil {
		return err
	}
	return writeOutput(svg)
}

func snapshot(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}
	s, err := scenario.NewRegistry().Build(cfg, logger())
	if err != nil {
		return err
	}
	if _, err := scenario.Run(cmd.Context(), s, cfg.Dt, cfg.Duration); err != nil {
		return err
	}
	return writeOutput(export.CanvasToSVG(viz.Snapshot(s, 80, 24), 4, "#00ff88"))
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	tr, err := storage.New(dataDir).LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(tr.Columns) == 0 {
		return fmt.Errorf("run has no columns")
	}

	fmt.Println("dominant frequencies:")
	for _, name := range tr.Columns {
		f, err := analysis.DominantFrequency(tr.Times, tr.Column(name))
		if err != nil {
			return err
		}
		fmt.Printf("  %-16s %8.4f Hz\n", name, f)
	}

	x, y := xCol, yCol
	if x == "" {
		x = tr.Columns[0]
	}
	if y == "" {
		y = tr.Columns[min(2, len(tr.Columns)-1)]
	}
	xs, ys := tr.Column(x), tr.Column(y)
	if xs == nil || ys == nil {
		return fmt.Errorf("unknown column (available: %v)", tr.Columns)
	}
	fmt.Printf("\nphase portrait %s vs %s:\n", y, x)
	fmt.Print(analysis.PhasePortraitASCII(analysis.Zip(xs, ys), 60, 20))
	return nil
}

func runLyapunov(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}
	lambda, err := analysis.Lyapunov(cmd.Context(), scenario.NewRegistry(), cfg, param, perturb)
	if err != nil {
		return err
	}
	fmt.Printf("largest lyapunov exponent: %.4f 1/s\n", lambda)
	if lambda > 0.1 {
		fmt.Println("motion is sensitive to initial conditions")
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}
	if points < 2 {
		return fmt.Errorf("need at least 2 points, got %d", points)
	}
	values := make([]float64, points)
	for i := range values {
		values[i] = from + (to-from)*float64(i)/float64(points-1)
	}

	col := column
	if col == "" {
		s, err := scenario.NewRegistry().Build(cfg, nil)
		if err != nil {
			return err
		}
		cols := scenario.Columns(s.World)
		if len(cols) == 0 {
			return fmt.Errorf("scenario has no bodies")
		}
		col = cols[0]
	}

	res, err := analysis.Sweep(cmd.Context(), scenario.NewRegistry(), cfg, param, values, col, transient)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tMIN\tMAX\tPEAKS\n", strings.ToUpper(param))
	for _, p := range res {
		fmt.Fprintf(w, "%.4f\t%.4f\t%.4f\t%d\n", p.Param, p.Min, p.Max, len(p.Peaks))
	}
	return w.Flush()
}

func runScript(cmd *cobra.Command, args []string) error {
	script, err := automation.LoadScript(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	log := logger()
	if log == nil {
		log = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	results, err := automation.RunScript(cmd.Context(), script, scenario.NewRegistry(), st, log)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSCENARIO\tINTEG\tSTEPS\tENERGY_DRIFT\tRUN_ID")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%.2e\t%s\n", i+1, r.Result.Scenario, r.Result.Integrator, r.Result.StepsTaken, r.Result.EnergyDrift, r.RunID)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	return err
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}
	mc := &automation.MonteCarloConfig{Base: cfg, Param: param, Perturbation: perturb, NumTrials: trials}
	results, err := automation.RunMonteCarlo(cmd.Context(), mc, scenario.NewRegistry(), logger())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "TRIAL\t%s\tSTABLE\tENERGY_DRIFT\tREWINDS\n", strings.ToUpper(param))
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%.4f\t%v\t%.2e\t%d\n", r.TrialID, r.Param, r.Stable, r.EnergyDrift, r.Rewinds)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("\nstable: %d  unstable: %d\n", stable, unstable)
	return nil
}
