// Command house-sim runs the house-guard controller against simulated
// hardware in the terminal.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/sweeney/house-guard/internal/logger"
	"github.com/sweeney/house-guard/internal/sim"
	"github.com/sweeney/house-guard/internal/version"
)

var (
	opts     sim.Options
	logFile  string
	logLevel string

	rootCmd = &cobra.Command{
		Use:   "house-sim",
		Short: "Simulate the house safety controller in the terminal.",
		Long: `Runs the same controller as house-guard with in-memory sensors and
actuators. Use the keyboard to raise gas and steam levels, trigger motion,
press the two buttons and send remote fan and door commands.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			closeLog, err := setupLogging(logFile, logLevel)
			if err != nil {
				return err
			}
			defer closeLog()

			p := tea.NewProgram(sim.New(time.Now(), opts), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run simulator: %w", err)
			}
			return nil
		},
	}
)

// setupLogging points the global logger at path, or discards everything
// when path is empty. Stderr would corrupt the terminal UI.
func setupLogging(path, level string) (func() error, error) {
	lvl, ok := logger.ParseLogLevel(level)
	if !ok {
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	logger.SetLevel(lvl)

	if path == "" {
		logger.SetLogger(logger.NewWithSink(logger.Level(), zapcore.AddSync(io.Discard)))
		return func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetLogger(logger.NewWithSink(logger.Level(), zapcore.Lock(f)))
	return f.Close, nil
}

func main() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().DurationVar(&opts.Poll, "poll", 20*time.Millisecond, "controller tick interval")
	rootCmd.Flags().DurationVar(&opts.Debounce, "debounce", 50*time.Millisecond, "button debounce window")
	rootCmd.Flags().BoolVar(&opts.SkipBoot, "skip-boot", false, "start with the boot sequence finished")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "append controller events to this file")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level for --log-file")
}
