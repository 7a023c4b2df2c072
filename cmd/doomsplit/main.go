// Package main provides the CLI entrypoint for doomsplit.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"doomsplit/internal/config"
	"doomsplit/internal/history"
	"doomsplit/internal/launcher"
	"doomsplit/internal/model"
	"doomsplit/internal/records"
	"doomsplit/internal/savefile"
	"doomsplit/internal/stats"
	"doomsplit/internal/tui"
)

const defaultTrendWindow = 5

var (
	runBinary   string
	runSaveFile string
	runDB       string

	statsCode       string
	statsCategory   string
	statsDifficulty string
	statsSince      string
	statsLast       int
	statsWindow     int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "doomsplit [-- gzdoom args]",
		Short:         "Speedrun split timer for gzdoom",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTimerCmd,
	}

	rootCmd.Flags().StringVar(&runBinary, "binary", "", "gzdoom executable (default: gzdoom)")
	rootCmd.Flags().StringVar(&runSaveFile, "save-file", "", "record save file path")
	rootCmd.Flags().StringVar(&runDB, "db", "", "attempt history database path")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runTimerCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "binary", &runBinary, fileCfg.Game.Binary)
	applyStringConfig(cmd, "save-file", &runSaveFile, fileCfg.Paths.SaveFile)
	applyStringConfig(cmd, "db", &runDB, fileCfg.Paths.DB)
	if runSaveFile == "" {
		runSaveFile = config.DefaultSaveFilePath()
	}
	if runDB == "" {
		runDB = config.DefaultDBPath()
	}

	codec := savefile.New(runSaveFile)
	runs, uiBlob, err := codec.Load()
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}
	grid, err := records.NewGrid(runs)
	if err != nil {
		return fmt.Errorf("failed to build record grid: %w", err)
	}
	var sel model.Selection
	if len(uiBlob) > 0 {
		if err := json.Unmarshal(uiBlob, &sel); err != nil {
			logErrf("ignoring unreadable UI state: %v\n", err)
		}
	}

	st, err := history.Open(runDB)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	events, err := launcher.Launch(ctx, launcher.Options{
		Binary: runBinary,
		Args:   append(fileCfg.Game.Args, args...),
	})
	if err != nil {
		return err
	}

	uiModel := tui.NewModel(grid, st, events, sel)
	program := tea.NewProgram(uiModel, tea.WithAltScreen())
	finalModel, err := program.Run()
	if err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	cancel()

	final, ok := finalModel.(*tui.Model)
	if !ok {
		final = uiModel
	}
	blob, err := json.Marshal(final.Selection())
	if err != nil {
		return fmt.Errorf("failed to encode UI state: %w", err)
	}
	if err := codec.Save(grid, blob); err != nil {
		return fmt.Errorf("failed to save records: %w", err)
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

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show attempt stats",
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsCode, "code", "", "level code filter (e.g. E1M1)")
	cmd.Flags().StringVar(&statsCategory, "category", "", "category filter")
	cmd.Flags().StringVar(&statsDifficulty, "difficulty", "", "difficulty filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit trend to last N attempts")
	cmd.Flags().IntVar(&statsWindow, "window", defaultTrendWindow, "moving average window")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}

	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	dbPath := config.DefaultDBPath()
	if fileCfg.Paths.DB != nil {
		dbPath = *fileCfg.Paths.DB
	}
	st, err := history.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	filter := model.AttemptFilter{
		Code:       statsCode,
		Category:   statsCategory,
		Difficulty: statsDifficulty,
		Since:      sinceTime,
		Last:       statsLast,
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	aggs, err := st.Aggregates(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to aggregate attempts: %w", err)
	}
	if err := stats.RenderAggregates(out, aggs); err != nil {
		return err
	}
	if statsCode == "" {
		return nil
	}

	attempts, err := st.ListAttempts(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to list attempts: %w", err)
	}
	width := terminalWidth()
	return stats.RenderTrend(out, attempts, statsWindow, width)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
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

func defaultConfigTemplate() string {
	return `# doomsplit configuration
# Uncomment a value to enable it. CLI flags override config values.

[game]
# binary = "gzdoom"            # gzdoom executable
# args = ["-iwad", "DOOM.WAD"] # extra arguments passed to gzdoom

[paths]
# save_file = ""               # record save file (default: XDG data dir)
# db = ""                      # attempt history database (default: XDG data dir)
`
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
