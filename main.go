//go:build !lambda

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// cliFlags are the flags shared by every command. They override the config
// file and environment only when given explicitly.
type cliFlags struct {
	configPath  string
	dbPath      string
	verbose     bool
	jsonOut     bool
	depth       int
	noPrune     bool
	metricsFile string
	last        int
}

func (f *cliFlags) resolve(cmd *cobra.Command) (Config, error) {
	cfg, err := LoadConfig(f.configPath)
	if err != nil {
		return Config{}, err
	}
	changed := cmd.Flags().Changed
	if changed("db") {
		cfg.DBPath = f.dbPath
	}
	if changed("verbose") {
		cfg.Verbose = f.verbose
	}
	if changed("json") {
		cfg.JSON = f.jsonOut
	}
	if changed("depth") {
		cfg.Depth = f.depth
	}
	if changed("no-prune") {
		cfg.Pruning = !f.noPrune
	}
	if changed("metrics-file") {
		cfg.MetricsFile = f.metricsFile
	}
	return cfg, cfg.Validate()
}

func newRootCmd() *cobra.Command {
	f := &cliFlags{}
	root := &cobra.Command{
		Use:           "scroll-optimizer",
		Short:         "Find the scroll strategy with the best chance of reaching a stat goal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "YAML config file")
	pf.StringVar(&f.dbPath, "db", "", "SQLite run history (empty = don't record)")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "Debug logging to stderr")
	pf.BoolVar(&f.jsonOut, "json", false, "Output results as JSON")

	root.AddCommand(newSolveCmd(f), newHistoryCmd(f))
	return root
}

func newSolveCmd(f *cliFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve <problem.json>",
		Short: "Solve a problem document and print the optimal strategy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd)
			if err != nil {
				return err
			}
			return runSolve(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], cfg)
		},
	}
	cmd.Flags().IntVar(&f.depth, "depth", DefaultConfig().Depth, "Scroll levels of the strategy tree to print")
	cmd.Flags().BoolVar(&f.noPrune, "no-prune", false, "Disable the master-scroll reachability bound")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus text metrics to this file")
	return cmd
}

func newHistoryCmd(f *cliFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded solve runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.resolve(cmd)
			if err != nil {
				return err
			}
			return runHistory(cmd.OutOrStdout(), cfg, f.last)
		},
	}
	cmd.Flags().IntVar(&f.last, "last", 10, "Number of runs to list (0 = all)")
	return cmd
}

func runSolve(stdout, stderr io.Writer, path string, cfg Config) error {
	log := newLogger(stderr, cfg)

	var metrics *Metrics
	if cfg.MetricsFile != "" {
		metrics = NewMetrics()
		defer func() {
			if err := metrics.WriteFile(cfg.MetricsFile); err != nil {
				log.Error("metrics not written", "error", err)
			}
		}()
	}

	p, err := LoadProblem(path)
	if err != nil {
		if metrics != nil {
			metrics.ObserveError()
		}
		return err
	}
	log.Debug("loaded problem", "path", path, "scrolls", len(p.Scrolls), "slots", p.Slots)

	r, err := runProblem(p, cfg, log)
	if err != nil {
		if metrics != nil {
			metrics.ObserveError()
		}
		return err
	}
	if metrics != nil {
		metrics.Observe(r)
	}

	if cfg.DBPath != "" {
		if err := recordRun(cfg.DBPath, r, log); err != nil {
			return err
		}
	}

	if cfg.JSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(NewReportView(r, cfg.Depth))
	}
	_, err = fmt.Fprint(stdout, FormatReport(r, cfg.Depth))
	return err
}

func recordRun(dbPath string, r Report, log *slog.Logger) error {
	store, err := NewStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	rec, err := store.RecordRun(NewRunRecord(r))
	if err != nil {
		return err
	}
	log.Debug("recorded run", "run_id", rec.RunID, "db", dbPath)
	return nil
}

func runHistory(stdout io.Writer, cfg Config, last int) error {
	if cfg.DBPath == "" {
		return errors.New("history needs a database: pass --db or set SCROLL_DB")
	}
	store, err := NewStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(last)
	if err != nil {
		return err
	}
	if cfg.JSON {
		if runs == nil {
			runs = []RunRecord{}
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}
	printHistory(stdout, runs)
	return nil
}

func printHistory(w io.Writer, runs []RunRecord) {
	fmt.Fprintf(w, "%-36s %-20s %-20s %10s %14s %8s\n", "Run", "Created", "Problem", "P(goal)", "Exp. cost", "Time")
	fmt.Fprintf(w, "%-36s %-20s %-20s %10s %14s %8s\n",
		"------------------------------------", "--------------------", "--------------------",
		"----------", "--------------", "--------")
	for _, r := range runs {
		fmt.Fprintf(w, "%-36s %-20s %-20s %10s %14s %7.1fs\n",
			r.RunID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Problem,
			formatPct(r.PGoal), formatCost(float64(r.ExpCost)), float64(r.ElapsedMs)/1000)
	}
}
