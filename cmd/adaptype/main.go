// Package main provides the CLI entrypoint for adaptype.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/adaptype/internal/app"
	"github.com/verte-zerg/adaptype/internal/charset"
	"github.com/verte-zerg/adaptype/internal/config"
	"github.com/verte-zerg/adaptype/internal/generator"
	"github.com/verte-zerg/adaptype/internal/input"
	"github.com/verte-zerg/adaptype/internal/logging"
	"github.com/verte-zerg/adaptype/internal/model"
	"github.com/verte-zerg/adaptype/internal/scores"
	"github.com/verte-zerg/adaptype/internal/stats"
	"github.com/verte-zerg/adaptype/internal/statsui"
	"github.com/verte-zerg/adaptype/internal/store"
	"github.com/verte-zerg/adaptype/internal/trainer"
	"github.com/verte-zerg/adaptype/internal/tui"
)

const (
	defaultCurveWindow = 20
	defaultLogLevel    = "info"
)

var (
	dbPath     string
	configPath string
	logLevel   string
	logPath    string

	practiceLineLength int
	practiceRounds     int
	practicePoolFactor int
	practicePrice      float64
	practiceSeed       int64
	practicePauseAtEnd bool

	scoringDecay   float64
	scoringInitial float64

	charsetHomeRow  string
	charsetAccented string
	charsetControls bool

	inputEncoding string

	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsTop         int
	statsPlain       bool

	resetHistory bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "adaptype",
		Short:         "Adaptive touch-typing trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dbPath, "db", config.DefaultDBPath(), "database path")
	pf.StringVar(&configPath, "config", config.DefaultConfigPath(), "config file path")
	pf.StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&logPath, "log-file", config.DefaultLogPath(), "log file path (empty disables logging)")

	f := rootCmd.Flags()
	f.IntVar(&practiceLineLength, "line-length", trainer.DefaultLineLength, "characters per line")
	f.IntVar(&practiceRounds, "rounds", trainer.DefaultRounds, "lines per session")
	f.IntVar(&practicePoolFactor, "pool-factor", generator.DefaultPoolFactor, "weighted pool size per character")
	f.Float64Var(&practicePrice, "price", trainer.DefaultPrice, "seconds of penalty per miss")
	f.Int64Var(&practiceSeed, "seed", 0, "random seed (0 = time based)")
	f.BoolVar(&practicePauseAtEnd, "pause-at-end", true, "wait for a key after the final summary")
	f.Float64Var(&scoringDecay, "decay", scores.DefaultDecay, "difficulty moving average weight (0-1]")
	f.Float64Var(&scoringInitial, "initial", scores.DefaultInitial, "difficulty of unseen characters")
	f.StringVar(&charsetHomeRow, "home-row", charset.DefaultHomeRow, "home row characters")
	f.StringVar(&charsetAccented, "accented", charset.DefaultAccented, "accented characters")
	f.BoolVar(&charsetControls, "controls", true, "practice control characters")
	f.StringVar(&inputEncoding, "encoding", input.DefaultEncoding, "terminal input encoding")

	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newResetCmd())

	return rootCmd
}

func loadFileConfig(cmd *cobra.Command) (config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fileCfg, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-file", &logPath, fileCfg.Log.Path)
	return fileCfg, nil
}

func openLogger() (*logging.Logger, error) {
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Config{Level: level, FilePath: logPath})
}

func openStore() (*store.Store, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func closeLogger(logger *logging.Logger) {
	if cerr := logger.Close(); cerr != nil {
		logErrf("failed to close log: %v\n", cerr)
	}
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "line-length", &practiceLineLength, fileCfg.Practice.LineLength)
	applyIntConfig(cmd, "rounds", &practiceRounds, fileCfg.Practice.Rounds)
	applyIntConfig(cmd, "pool-factor", &practicePoolFactor, fileCfg.Practice.PoolFactor)
	applyFloatConfig(cmd, "price", &practicePrice, fileCfg.Practice.Price)
	applyInt64Config(cmd, "seed", &practiceSeed, fileCfg.Practice.Seed)
	applyBoolConfig(cmd, "pause-at-end", &practicePauseAtEnd, fileCfg.Practice.PauseAtEnd)
	applyFloatConfig(cmd, "decay", &scoringDecay, fileCfg.Scoring.Decay)
	applyFloatConfig(cmd, "initial", &scoringInitial, fileCfg.Scoring.Initial)
	applyStringConfig(cmd, "home-row", &charsetHomeRow, fileCfg.Charset.HomeRow)
	applyStringConfig(cmd, "accented", &charsetAccented, fileCfg.Charset.Accented)
	applyBoolConfig(cmd, "controls", &charsetControls, fileCfg.Charset.Controls)
	applyStringConfig(cmd, "encoding", &inputEncoding, fileCfg.Input.Encoding)

	opts, err := practiceOptions()
	if err != nil {
		return err
	}

	logger, err := openLogger()
	if err != nil {
		return err
	}
	defer closeLogger(logger)
	opts.Logger = logger

	st, recovery, err := store.OpenOrRecreate(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeStore(st)
	opts.Store = st
	if recovery != nil {
		opts.StoreRecovery = recovery
	}

	terminal, err := input.OpenTerminal(os.Stdin)
	if err != nil {
		return err
	}
	width, _ := input.Size(os.Stdout)
	renderer := tui.NewRenderer(os.Stdout, width)
	opts.Source = terminal
	opts.Display = renderer

	ctx, stop := app.WatchSignals(context.Background(), func() {
		terminal.Cancel()
	})
	renderer.Start()
	out, runErr := app.Run(ctx, opts)
	stop()
	renderer.Stop()
	if cerr := terminal.Close(); cerr != nil {
		logErrf("%v\n", cerr)
	}
	if rerr := renderer.Err(); rerr != nil {
		logger.Warn("display write failed", "error", rerr)
	}

	failure := app.Failure(out, runErr)
	if runErr == nil || input.IsCanceled(runErr) {
		if err := app.WriteReport(cmd.OutOrStdout(), out); err != nil {
			return errors.Join(failure, fmt.Errorf("failed to write output: %w", err))
		}
	}
	return failure
}

func practiceOptions() (app.Options, error) {
	opts := app.Options{
		Trainer: trainer.Config{
			Rounds:     practiceRounds,
			LineLength: practiceLineLength,
			Price:      practicePrice,
			PauseAtEnd: practicePauseAtEnd,
		},
		Scoring: scores.Params{Decay: scoringDecay, Initial: scoringInitial},
		Charset: charset.Options{
			HomeRow:  charsetHomeRow,
			Accented: charsetAccented,
			Controls: charsetControls,
		},
		PoolFactor: practicePoolFactor,
		Seed:       practiceSeed,
	}
	if err := opts.Trainer.Validate(); err != nil {
		return opts, err
	}
	if err := opts.Scoring.Validate(); err != nil {
		return opts, err
	}
	if practicePoolFactor < 0 {
		return opts, fmt.Errorf("--pool-factor must be >= 0")
	}
	if strings.TrimSpace(charsetHomeRow) == "" {
		return opts, fmt.Errorf("--home-row must not be empty")
	}
	enc, err := input.LookupEncoding(inputEncoding)
	if err != nil {
		return opts, err
	}
	opts.Encoding = enc
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show session history and character difficulty",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().IntVar(&statsTop, "top", 0, "limit the difficulty table to N characters")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a plain text report instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	if _, err := loadFileConfig(cmd); err != nil {
		return err
	}
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}
	if statsTop < 0 {
		return fmt.Errorf("--top must be >= 0")
	}

	cfg := model.StatsConfig{
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		Top:         statsTop,
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if statsPlain {
		report, err := stats.BuildReport(cmd.Context(), st, cfg)
		if err != nil {
			return fmt.Errorf("failed to load stats: %w", err)
		}
		w := cmd.OutOrStdout()
		if err := stats.RenderSummary(w, report.Highscore, report.Sessions); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if err := stats.RenderDifficultyTable(w, report.Difficulty, 0); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	if err := config.EnsureFile(configPath); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], configPath)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear the difficulty profile and highscore",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetHistory, "history", false, "also delete the session history")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if _, err := loadFileConfig(cmd); err != nil {
		return err
	}
	logger, err := openLogger()
	if err != nil {
		return err
	}
	defer closeLogger(logger)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if err := st.Reset(cmd.Context(), resetHistory); err != nil {
		return fmt.Errorf("failed to reset: %w", err)
	}
	logger.Info("profile reset", "history", resetHistory)
	if resetHistory {
		logErrln("Cleared difficulty profile, highscore and session history.")
	} else {
		logErrln("Cleared difficulty profile and highscore.")
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
