package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Amr-9/luckyhunter/internal/config"
	logpkg "github.com/Amr-9/luckyhunter/internal/logger"
	"github.com/Amr-9/luckyhunter/internal/recorder"
	"github.com/Amr-9/luckyhunter/internal/ui"
	"github.com/Amr-9/luckyhunter/pkg/generator"
	"github.com/Amr-9/luckyhunter/pkg/generator/cpu"
	"github.com/Amr-9/luckyhunter/pkg/generator/ethereum"
)

const version = "1.0"

// ErrRecordFailures is returned when some matches only reached stderr.
var ErrRecordFailures = errors.New("some matches could not be saved")

var cfg = config.NewConfig()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "luckyhunter",
		Short: "Search for Ethereum wallets with lucky address patterns",
		Long: `LuckyHunter generates fresh mnemonic-backed Ethereum wallets on every CPU core
and saves those whose address starts or ends with one of the target patterns.
The search runs until interrupted with Ctrl+C.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runSearch,
	}

	rootCmd.Flags().StringSliceVarP(&cfg.Patterns, "pattern", "p", cfg.Patterns, "Target hex pattern (repeatable or comma separated)")
	rootCmd.Flags().IntVarP(&cfg.Workers, "workers", "w", runtime.NumCPU(), "Number of worker goroutines")
	rootCmd.Flags().IntVarP(&cfg.BatchMultiplier, "batch-multiplier", "b", cfg.BatchMultiplier, "Attempts per worker in each batch")
	rootCmd.Flags().IntVar(&cfg.Words, "words", cfg.Words, "Mnemonic length (12, 15, 18, 21 or 24)")
	rootCmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose logging")
	rootCmd.Flags().StringVarP(&cfg.LogFile, "log-file", "l", "", "Also write logs to this file (rotated)")
	rootCmd.Flags().BoolVar(&cfg.HighPriority, "high-priority", false, "Raise the process scheduling priority")
	rootCmd.PersistentFlags().StringVarP(&cfg.OutputFile, "output", "o", cfg.OutputFile, "File found wallets are appended to")

	rootCmd.AddCommand(newListCmd(), newVerifyCmd())
	return rootCmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logpkg.New(logpkg.Options{Verbose: cfg.Verbose, LogFile: cfg.LogFile})
	defer log.Sync()

	if cfg.HighPriority {
		if err := raisePriority(); err != nil {
			log.Warn("could not raise process priority", zap.Error(err))
		}
	}

	console := ui.NewStdoutConsole()
	clk := clock.NewDefaultClock()

	provider, err := ethereum.NewProvider(cfg.Words)
	if err != nil {
		return err
	}
	matcher := generator.NewMatcher(cfg.Patterns)

	searcher, err := cpu.NewCPUSearcher(cpu.Config{
		Provider:        provider,
		Matcher:         matcher,
		Recorder:        recorder.NewFileRecorder(cfg.OutputFile, console, os.Stderr),
		Reporter:        ui.NewRateReporter(console, clk),
		Workers:         cfg.Workers,
		BatchMultiplier: cfg.BatchMultiplier,
		Clock:           clk,
		Log:             log,
	})
	if err != nil {
		return err
	}

	console.PrintWelcomeBanner(version)
	console.PrintSearchInfo(searcher.Workers(), matcher.Patterns(), matcher.Difficulty(), cfg.OutputFile)

	// Handle interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats, err := searcher.Run(ctx)
	if err != nil {
		console.PrintError(err)
		console.PrintStopped(stats, clk.Now())
		return err
	}

	console.PrintStopped(stats, clk.Now())
	if stats.RecordFailures > 0 {
		log.Error("matches were written to stderr only",
			zap.Uint64("failures", stats.RecordFailures),
			zap.String("output", cfg.OutputFile))
		return fmt.Errorf("%w: %d of %d", ErrRecordFailures, stats.RecordFailures, stats.Matches)
	}
	return nil
}
