// Package main provides the CLI entrypoint for yomi.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lass9436/YomiYomi-sub002/internal/choice"
	"github.com/lass9436/YomiYomi-sub002/internal/config"
	"github.com/lass9436/YomiYomi-sub002/internal/logger"
	"github.com/lass9436/YomiYomi-sub002/internal/model"
	"github.com/lass9436/YomiYomi-sub002/internal/stats"
	"github.com/lass9436/YomiYomi-sub002/internal/statsui"
	"github.com/lass9436/YomiYomi-sub002/internal/store"
	"github.com/lass9436/YomiYomi-sub002/internal/study"
	"github.com/lass9436/YomiYomi-sub002/internal/tui"
)

const defaultCurveWindow = 10

var (
	studyMode             string
	studyLevel            string
	studyCategory         string
	studyCount            int
	studyBlanks           int
	studyOptions          int
	studyPlaceholderWidth int
	logLevel              string
	dbPath                string

	statsMode        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := config.Defaults()
	rootCmd := &cobra.Command{
		Use:           "yomi",
		Short:         "Japanese reading and vocabulary trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runStudyCmd,
	}

	rootCmd.Flags().StringVar(&studyMode, "mode", defaults.Mode, "quiz mode: "+strings.Join(modeNames(), ", "))
	rootCmd.Flags().StringVar(&studyLevel, "level", defaults.Level.String(), "level filter (ALL, N5..N1)")
	rootCmd.Flags().StringVar(&studyCategory, "category", "", "category filter")
	rootCmd.Flags().IntVar(&studyCount, "count", defaults.Count, "quizzes per session")
	rootCmd.Flags().IntVar(&studyBlanks, "blanks", defaults.Blanks, "blanks per cloze passage")
	rootCmd.Flags().IntVar(&studyOptions, "options", defaults.Options, "options per multiple-choice quiz")
	rootCmd.Flags().IntVar(&studyPlaceholderWidth, "placeholder-width", defaults.PlaceholderWidth, "cloze blank width in terminal cells")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default $XDG_DATA_HOME/yomi/yomi.db)")

	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newAnnotateCmd())
	rootCmd.AddCommand(newCategoriesCmd())
	rootCmd.AddCommand(newLevelsCmd())
	rootCmd.AddCommand(newNextCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func modeNames() []string {
	modes := study.Modes()
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = string(m)
	}
	return names
}

// baseSettings resolves defaults, then the config file, then --log-level.
func baseSettings(cmd *cobra.Command) (config.Settings, error) {
	settings := config.Defaults()
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return settings, fmt.Errorf("failed to load config: %w", err)
	}
	if err := fileCfg.Apply(&settings); err != nil {
		return settings, err
	}
	overrideFlag(cmd, "log-level", &settings.LogLevel, logLevel)
	return settings, nil
}

// loadSettings is baseSettings plus the study flags that were set.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	settings, err := baseSettings(cmd)
	if err != nil {
		return settings, err
	}
	overrideFlag(cmd, "mode", &settings.Mode, studyMode)
	overrideFlag(cmd, "count", &settings.Count, studyCount)
	overrideFlag(cmd, "blanks", &settings.Blanks, studyBlanks)
	overrideFlag(cmd, "options", &settings.Options, studyOptions)
	overrideFlag(cmd, "placeholder-width", &settings.PlaceholderWidth, studyPlaceholderWidth)
	if flagChanged(cmd, "level") {
		level, err := model.ParseLevel(studyLevel)
		if err != nil {
			return settings, fmt.Errorf("invalid --level: %w", err)
		}
		settings.Level = level
	}
	return settings, settings.Validate()
}

func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

func overrideFlag[T any](cmd *cobra.Command, name string, target *T, value T) {
	if flagChanged(cmd, name) {
		*target = value
	}
}

// openLogger writes to the state dir so log lines never land on a TUI.
func openLogger(settings config.Settings) *logger.Logger {
	log, err := logger.New(logger.Options{
		Mode:  settings.LogMode,
		Level: settings.LogLevel,
		Path:  config.DefaultLogPath(),
	})
	if err != nil {
		logErrf("failed to open log file, logging disabled: %v\n", err)
		return logger.Nop()
	}
	return log
}

func openStore(log *logger.Logger) (*store.Store, func(), error) {
	path := dbPath
	if path == "" {
		path = config.DefaultDBPath()
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	log.Debug("store opened", "path", path)
	return st, func() {
		if cerr := st.Close(); cerr != nil {
			log.Warn("close store failed", "error", cerr)
		}
	}, nil
}

func runStudyCmd(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	mode, err := study.ParseMode(settings.Mode)
	if err != nil {
		return err
	}

	log := openLogger(settings)
	defer log.Sync()

	st, closeStore, err := openStore(log)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := study.NewService(st, study.Options{
		Floor:            settings.Floor,
		PlaceholderWidth: settings.PlaceholderWidth,
		Policy:           settings.Policy,
		Logger:           log,
	})
	plan := study.Plan{
		Mode:     mode,
		Level:    settings.Level,
		Category: studyCategory,
		Count:    settings.Count,
		Blanks:   settings.Blanks,
		Options:  settings.Options,
	}

	ctx := context.Background()
	quizzes, report, err := svc.Prepare(ctx, plan)
	if err != nil {
		return prepareError(mode, err)
	}
	if report.LevelFallback {
		logErrf("No %s items at level %s; using all levels.\n", mode.Kind(), plan.Level)
	}
	if len(report.Skipped) > 0 {
		logErrf("Skipped %d passages without readings.\n", len(report.Skipped))
	}

	sess := svc.NewSession()
	if err := sess.Start(quizzes); err != nil {
		return err
	}
	m := tui.NewModel(svc, sess, plan, log)
	defer m.Close()
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	final := sess.State()
	if final.IsFinished() {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Score %d/%d\n", final.Score, final.Total()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func prepareError(mode study.Mode, err error) error {
	switch {
	case errors.Is(err, study.ErrNoItems):
		return fmt.Errorf("%w\nAdd some with: yomi add %s", err, mode.Kind())
	case errors.Is(err, choice.ErrInsufficientData):
		return fmt.Errorf("%w\nAdd more %s items or lower --options", err, mode.Kind())
	default:
		return err
	}
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsMode, "mode", "", "mode filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := statsConfig(statsMode, statsSince, statsLast, statsCurveWindow)
	if err != nil {
		return err
	}

	settings, err := baseSettings(cmd)
	if err != nil {
		return err
	}
	log := openLogger(settings)
	defer log.Sync()

	st, closeStore, err := openStore(log)
	if err != nil {
		return err
	}
	defer closeStore()

	if statsPlain {
		report, err := stats.BuildReport(context.Background(), st, cfg)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		return report.Render(cmd.OutOrStdout(), cfg.CurveWindow, 0)
	}

	program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func statsConfig(mode, since string, last, window int) (model.StatsConfig, error) {
	cfg := model.StatsConfig{Last: last, CurveWindow: window}
	if mode != "" {
		m, err := study.ParseMode(mode)
		if err != nil {
			return cfg, fmt.Errorf("invalid --mode: %w", err)
		}
		cfg.Mode = string(m)
	}
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return cfg, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	if last < 0 {
		return cfg, fmt.Errorf("--last must be >= 0")
	}
	if window < 1 {
		return cfg, fmt.Errorf("--curve-window must be >= 1")
	}
	return cfg, nil
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
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	d := config.Defaults()
	return fmt.Sprintf(`# yomi configuration
# Uncomment a value to enable it. CLI flags override config values.

[study]
# mode = %q                # One of: %s
# level = %q                # ALL or N5..N1
# count = %d                  # Quizzes per session
# blanks = %d                  # Blanks per cloze passage
# options = %d                 # Options per multiple-choice quiz
# placeholder-width = %d       # Cloze blank width in terminal cells

[weight]
# floor = %.2f              # Minimum selection weight
# correct-factor = %.2f      # Weight multiplier after a correct answer
# wrong-boost = %.2f         # Share of the gap to 1 added after a wrong answer

[log]
# mode = %q                 # dev or prod
# level = %q               # debug, info, warn, error
`,
		d.Mode, strings.Join(modeNames(), ", "),
		d.Level.String(),
		d.Count,
		d.Blanks,
		d.Options,
		d.PlaceholderWidth,
		d.Floor,
		d.Policy.CorrectFactor,
		d.Policy.WrongBoost,
		d.LogMode,
		d.LogLevel,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
