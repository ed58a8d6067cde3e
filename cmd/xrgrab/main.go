package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/xrgrab/internal/config"
	"github.com/san-kum/xrgrab/internal/experiment"
	"github.com/san-kum/xrgrab/internal/logging"
	"github.com/san-kum/xrgrab/internal/sim"
	"github.com/san-kum/xrgrab/internal/storage"
	"github.com/san-kum/xrgrab/internal/viz"
)

var (
	dataDir     string
	configFile  string
	preset      string
	logLevel    string
	logEncoding string
	seed        int64
	jitter      float64
	runs        int
	noSave      bool
	columns     []string
	bodyName    string
	svgPath     string

	logger = zap.NewNop()
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "xrgrab",
		Short:         "hand-controller grab and gravity-grab scenario lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger()
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".xrgrab", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logEncoding, "log-encoding", "", "log encoding (console, json)")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario and store the result",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "tracking noise seed")
	runCmd.Flags().Float64Var(&jitter, "jitter", 0, "tracking noise in metres")
	runCmd.Flags().IntVar(&runs, "runs", 1, "number of seeded runs")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	runAllCmd := &cobra.Command{
		Use:   "run-all",
		Short: "run every built-in scenario concurrently",
		Args:  cobra.NoArgs,
		RunE:  runAllScenarios,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot stored frame columns over time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&columns, "column", nil, "frame columns to plot (default: every y column)")

	trajectoryCmd := &cobra.Command{
		Use:   "trajectory [run_id]",
		Short: "draw body and hand paths in the x/y plane",
		Args:  cobra.ExactArgs(1),
		RunE:  trajectory,
	}
	trajectoryCmd.Flags().StringVar(&bodyName, "body", "", "only draw this body")
	trajectoryCmd.Flags().StringVar(&svgPath, "svg", "", "write an svg file instead of drawing in the terminal")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print the run's events as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportEvents,
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
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list built-in scenarios",
		RunE:  listScenarios,
	}

	bindingsCmd := &cobra.Command{
		Use:   "bindings",
		Short: "show the action set and hand bindings",
		RunE:  showBindings,
	}

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "play a scenario in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "configuration helpers",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "xrgrab.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	})

	rootCmd.AddCommand(runCmd, runAllCmd, listCmd, plotCmd, trajectoryCmd, exportCmd, presetsCmd, scenariosCmd, bindingsCmd, liveCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig resolves the preset, then the config file, then flags.
func loadConfig(cmd *cobra.Command, scenario string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(scenario, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(scenario))
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if f := cmd.Flags().Lookup("seed"); f != nil && f.Changed {
		cfg.Sim.Seed = seed
	}
	if f := cmd.Flags().Lookup("jitter"); f != nil && f.Changed {
		cfg.Sim.Jitter = jitter
	}
	return cfg, cfg.Validate()
}

// newLogger builds the CLI logger. Flags win over the config file's log
// section.
func newLogger() (*zap.Logger, error) {
	level, encoding := logLevel, logEncoding
	if configFile != "" {
		if cfg, err := config.Load(configFile); err == nil {
			if level == "" {
				level = cfg.Log.Level
			}
			if encoding == "" {
				encoding = cfg.Log.Encoding
			}
		}
	}
	if level == "" {
		level = config.DefaultConfig().Log.Level
	}
	return logging.New(level, encoding)
}

func runScenario(cmd *cobra.Command, args []string) error {
	name := args[0]
	cfg, err := loadConfig(cmd, name)
	if err != nil {
		return err
	}
	exp := experiment.New(cfg, experiment.NewRegistry(), logger)

	if runs > 1 {
		return runEnsemble(contextOf(cmd), exp, name)
	}

	s, err := exp.Build(name)
	if err != nil {
		return err
	}

	fmt.Printf("running %s...\n", name)
	start := time.Now()
	result, err := s.Run(contextOf(cmd))
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	if !noSave {
		runID, err := saveRun(s.Config(), result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	printResult(result)
	return nil
}

func runEnsemble(ctx context.Context, exp *experiment.Experiment, name string) error {
	fmt.Printf("running %s %d times...\n", name, runs)
	results, err := exp.Ensemble(ctx, name, runs)
	if err != nil {
		return err
	}

	sums := make(map[string]float64)
	for _, r := range results {
		for k, v := range r.Metrics {
			sums[k] += v
		}
	}
	fmt.Println("\nmean metrics:")
	for _, k := range sortedKeys(sums) {
		fmt.Printf("  %s: %.4f\n", k, sums[k]/float64(len(results)))
	}
	return nil
}

func runAllScenarios(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, "")
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()
	names := registry.ListScenarios()

	start := time.Now()
	results, err := experiment.New(cfg, registry, logger).RunAll(contextOf(cmd), names)
	if err != nil {
		return err
	}
	fmt.Printf("%d scenarios in %v\n\n", len(results), time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tSTEPS\tGRABS\tRELEASES\tPULLS\tLAUNCHES\tABORTS\tSKIPPED")
	for _, r := range results {
		m := r.Metrics
		fmt.Fprintf(w, "%s\t%d\t%.0f\t%.0f\t%.0f\t%.0f\t%.0f\t%d\n",
			r.Scenario, r.StepsTaken, m["grabs"], m["releases"], m["pulls"], m["launches"], m["aborts"], r.Skipped)
	}
	return w.Flush()
}

func saveRun(cfg sim.Config, result *sim.Result) (string, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return "", err
	}
	return st.Save(preset, cfg, result)
}

func printResult(result *sim.Result) {
	fmt.Printf("steps: %d\n", result.StepsTaken)
	if len(result.Disabled) > 0 {
		fmt.Println("\ndisabled:")
		for _, d := range result.Disabled {
			fmt.Printf("  %s\n", d)
		}
	}

	fmt.Println("\nevents:")
	for _, e := range result.Events {
		fmt.Printf("  %s\n", e)
	}
	fmt.Println("\nmetrics:")
	for _, k := range sortedKeys(result.Metrics) {
		fmt.Printf("  %s: %.4f\n", k, result.Metrics[k])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tPRESET\tTIME\tDURATION\tDT\tEVENTS")
	for _, run := range runs {
		total := 0
		for _, n := range run.Events {
			total += n
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%.4fs\t%d\n",
			run.ID,
			run.Scenario,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			total,
		)
	}
	return w.Flush()
}

func listScenarios(cmd *cobra.Command, args []string) error {
	registry := experiment.NewRegistry()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range registry.ListScenarios() {
		sc, err := registry.GetScenario(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%.1fs\t%s\n", name, sc.Duration, sc.Description)
	}
	return w.Flush()
}

func showBindings(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, "")
	if err != nil {
		return err
	}

	set := cfg.ActionSet
	fmt.Println(headerStyle.Render(set.PrettyName) + " " + dimStyle.Render("("+set.Name+")"))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, b := range set.Bindings {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", b.Action.Name, b.Action.Kind, b.InteractionProfile, strings.Join(b.Paths, ", "))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println("\n" + headerStyle.Render("hands"))
	for _, h := range cfg.Hands {
		fmt.Printf("  %-6s pose=%s grab=%s gravity_grab=%s\n", h.Side, h.PoseAction, h.GrabAction, h.GravityGrabAction)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	// Logs would tear the alternate screen.
	s, err := experiment.New(cfg, experiment.NewRegistry(), zap.NewNop()).Build(args[0])
	if err != nil {
		return err
	}
	return viz.Run(s)
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
