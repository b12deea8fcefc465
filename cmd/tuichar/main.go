// Package main provides the CLI entrypoint for tuichar.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuichar/internal/ascii"
	"github.com/verte-zerg/tuichar/internal/config"
	"github.com/verte-zerg/tuichar/internal/generator"
	"github.com/verte-zerg/tuichar/internal/keyboard"
	"github.com/verte-zerg/tuichar/internal/logging"
	"github.com/verte-zerg/tuichar/internal/model"
	"github.com/verte-zerg/tuichar/internal/session"
	"github.com/verte-zerg/tuichar/internal/stats"
	"github.com/verte-zerg/tuichar/internal/statsui"
	"github.com/verte-zerg/tuichar/internal/store"
	"github.com/verte-zerg/tuichar/internal/tui"
)

const (
	defaultWeakTop    = 8
	defaultWeakFactor = 2.0
)

var (
	practiceKeyboard   bool
	practiceFocusWeak  bool
	practiceWeakTop    int
	practiceWeakFactor float64
	practiceExport     bool
	practiceDBPath     string
	practiceLogLevel   string
	practiceLogFile    string

	reportDBPath      string
	reportSession     int64
	reportFormat      string
	reportOut         string
	reportInteractive bool

	sessionsDBPath string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuichar",
		Short:         "Single-character typing drill",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().BoolVar(&practiceKeyboard, "keyboard", false, "show the keyboard hint")
	rootCmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias practice toward weak characters")
	rootCmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak characters to focus on")
	rootCmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak characters")
	rootCmd.Flags().BoolVar(&practiceExport, "export", false, "archive the session to SQLite on quit")
	rootCmd.Flags().StringVar(&practiceDBPath, "db", "", "archive database path")
	rootCmd.Flags().StringVar(&practiceLogLevel, "log-level", logging.DefaultLevel, "log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&practiceLogFile, "log-file", "", "log file used while the TUI is running")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCharsCmd())
	rootCmd.AddCommand(newSessionsCmd())
	rootCmd.AddCommand(newReportCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyBoolConfig(cmd, "keyboard", &practiceKeyboard, fileCfg.Practice.Keyboard)
	applyBoolConfig(cmd, "focus-weak", &practiceFocusWeak, fileCfg.Practice.FocusWeak)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, fileCfg.Practice.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &practiceWeakFactor, fileCfg.Practice.WeakFactor)
	applyBoolConfig(cmd, "export", &practiceExport, fileCfg.Practice.Export)
	applyStringConfig(cmd, "db", &practiceDBPath, fileCfg.Practice.DBPath)
	applyStringConfig(cmd, "log-level", &practiceLogLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-file", &practiceLogFile, fileCfg.Log.File)

	cfg := model.Config{
		Keyboard:   practiceKeyboard,
		FocusWeak:  practiceFocusWeak,
		WeakTop:    practiceWeakTop,
		WeakFactor: practiceWeakFactor,
		Export:     practiceExport,
		DBPath:     resolveDBPath(practiceDBPath),
		LogLevel:   practiceLogLevel,
		LogFile:    resolveLogPath(practiceLogFile),
	}

	if err := validateConfig(cfg); err != nil {
		return err
	}

	// The TUI owns the terminal, so the logger goes to a file.
	var logOut io.Writer = io.Discard
	logFile, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		logErrf("logging disabled: %v\n", err)
	} else {
		logOut = logFile
		defer func() {
			if cerr := logFile.Close(); cerr != nil {
				// Best-effort close of the log file.
				_ = cerr
			}
		}()
	}
	logger, err := logging.New(cfg.LogLevel, logOut)
	if err != nil {
		return err
	}

	var opts []session.Option
	if cfg.FocusWeak {
		opts = append(opts, session.WithWeakFocus(cfg.WeakTop, cfg.WeakFactor))
	}
	sess := session.New(generator.New(), opts...)
	logger.WithFields(logrus.Fields{
		"focus_weak": cfg.FocusWeak,
		"keyboard":   cfg.Keyboard,
		"export":     cfg.Export,
	}).Info("session started")

	ui := tui.NewModel(cfg, sess, logger)
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"hits":   sess.TotalHits(),
		"misses": sess.TotalMisses(),
	}).Info("session finished")

	if !cfg.Export {
		return nil
	}
	id, err := exportSession(context.Background(), cfg.DBPath, sess)
	if err != nil {
		logger.WithError(err).Error("failed to archive session")
		return err
	}
	logger.WithField("session_id", id).Info("session archived")
	logErrf("Archived session %d to %s\n", id, cfg.DBPath)
	return nil
}

func exportSession(ctx context.Context, dbPath string, sess *session.Session) (int64, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	id, err := st.InsertSession(ctx, sess.StartedAt(), time.Now(), sess.Snapshot())
	if err != nil {
		return 0, fmt.Errorf("failed to archive session: %w", err)
	}
	return id, nil
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
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newCharsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chars",
		Short: "List practice characters with their key hint",
		Args:  cobra.NoArgs,
		RunE:  runCharsCmd,
	}
}

func runCharsCmd(cmd *cobra.Command, _ []string) error {
	return writeChars(cmd.OutOrStdout())
}

func writeChars(w io.Writer) error {
	for _, c := range ascii.All() {
		if _, err := fmt.Fprintf(w, "%s\t%d\t%s\n", c, c.Rune(), keyboard.HintFor(c)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List archived sessions",
		Args:  cobra.NoArgs,
		RunE:  runSessionsCmd,
	}
	cmd.Flags().StringVar(&sessionsDBPath, "db", "", "archive database path")
	return cmd
}

func runSessionsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "db", &sessionsDBPath, fileCfg.Practice.DBPath)

	st, err := store.Open(resolveDBPath(sessionsDBPath))
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	sessions, err := st.ListSessions(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	return writeSessions(cmd.OutOrStdout(), sessions)
}

func writeSessions(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No archived sessions. Practice with --export to archive one.")
		return err
	}
	for _, s := range sessions {
		accuracy := 0.0
		if total := s.Hits + s.Misses; total > 0 {
			accuracy = float64(s.Hits) / float64(total) * 100
		}
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\thits=%d\tmisses=%d\taccuracy=%.2f%%\n",
			s.SessionID,
			s.StartedAt.Local().Format("2006-01-02 15:04"),
			(time.Duration(s.DurationMs())*time.Millisecond).Round(time.Second),
			s.Hits,
			s.Misses,
			accuracy,
		); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the report of an archived session",
		Args:  cobra.NoArgs,
		RunE:  runReportCmd,
	}
	cmd.Flags().StringVar(&reportDBPath, "db", "", "archive database path")
	cmd.Flags().Int64Var(&reportSession, "session", 0, "session id (default: latest)")
	cmd.Flags().StringVar(&reportFormat, "format", "text", "output format (text, html)")
	cmd.Flags().StringVar(&reportOut, "out", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&reportInteractive, "interactive", false, "browse the report in a TUI")
	return cmd
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "db", &reportDBPath, fileCfg.Practice.DBPath)
	logger, err := logging.New(logLevelOrDefault(fileCfg.Log.Level), os.Stderr)
	if err != nil {
		return err
	}

	cfg := model.ReportConfig{
		DBPath:    resolveDBPath(reportDBPath),
		SessionID: reportSession,
		Format:    reportFormat,
		Out:       reportOut,
	}
	if err := validateReportConfig(cfg); err != nil {
		return err
	}

	report, id, err := loadReport(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"session_id": id,
		"format":     cfg.Format,
	}).Debug("loaded archived session")

	if reportInteractive {
		view := statsui.NewModel(fmt.Sprintf("Session %d", id), report, true)
		program := tea.NewProgram(view, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run report TUI: %w", err)
		}
		return nil
	}

	out := cmd.OutOrStdout()
	if cfg.Out != "" {
		file, err := os.Create(cfg.Out)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer func() {
			if cerr := file.Close(); cerr != nil {
				logErrf("failed to close report file: %v\n", cerr)
			}
		}()
		out = file
	}
	if err := renderReport(out, cfg.Format, report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if cfg.Out != "" {
		logger.WithField("path", cfg.Out).Info("report written")
	}
	return nil
}

func loadReport(ctx context.Context, cfg model.ReportConfig) (stats.Report, int64, error) {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return stats.Report{}, 0, fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	id := cfg.SessionID
	if id == 0 {
		id, err = st.LatestSessionID(ctx)
		if errors.Is(err, store.ErrNoSessions) {
			return stats.Report{}, 0, fmt.Errorf("no archived sessions in %s (practice with --export first)", cfg.DBPath)
		}
		if err != nil {
			return stats.Report{}, 0, fmt.Errorf("failed to find latest session: %w", err)
		}
	}
	attempts, err := st.LoadAttempts(ctx, id)
	if err != nil {
		return stats.Report{}, 0, fmt.Errorf("failed to load session: %w", err)
	}
	return stats.Restore(attempts).Report(), id, nil
}

func renderReport(w io.Writer, format string, report stats.Report) error {
	switch format {
	case "html":
		return stats.RenderHTML(w, report)
	default:
		return stats.RenderText(w, report, 0)
	}
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

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuichar configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# keyboard = false        # Show the keyboard hint
# focus-weak = false      # Bias practice toward weak characters
# weak-top = %d            # Number of weak characters to focus on
# weak-factor = %.1f      # Weight factor for weak characters
# export = false          # Archive the session to SQLite on quit
# db = %q

[log]
# level = %q
# file = %q
`,
		defaultWeakTop,
		defaultWeakFactor,
		config.DefaultDBPath(),
		logging.DefaultLevel,
		config.DefaultLogPath(),
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if !logging.ValidLevel(cfg.LogLevel) {
		return fmt.Errorf("--log-level %q is not a valid level", cfg.LogLevel)
	}
	if cfg.Export && cfg.DBPath == "" {
		return fmt.Errorf("--db must not be empty when --export is set")
	}
	return nil
}

func validateReportConfig(cfg model.ReportConfig) error {
	switch cfg.Format {
	case "text", "html":
	default:
		return fmt.Errorf("--format must be text or html")
	}
	if cfg.SessionID < 0 {
		return fmt.Errorf("--session must be >= 0 (0 = latest)")
	}
	return nil
}

func resolveDBPath(path string) string {
	if strings.TrimSpace(path) == "" {
		return config.DefaultDBPath()
	}
	return path
}

func resolveLogPath(path string) string {
	if strings.TrimSpace(path) == "" {
		return config.DefaultLogPath()
	}
	return path
}

func logLevelOrDefault(level *string) string {
	if level == nil {
		return logging.DefaultLevel
	}
	return *level
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
