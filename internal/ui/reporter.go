package ui

import (
	"fmt"
	"time"

	"github.com/lightningnetwork/lnd/clock"

	"github.com/Amr-9/luckyhunter/pkg/generator"
)

// RateReporter prints a throughput line after every batch. On a live
// console the line is rewritten in place.
type RateReporter struct {
	console *Console
	clock   clock.Clock
}

// NewRateReporter creates a reporter printing to console. clk defaults to
// the wall clock.
func NewRateReporter(console *Console, clk clock.Clock) *RateReporter {
	if clk == nil {
		clk = clock.NewDefaultClock()
	}
	return &RateReporter{console: console, clock: clk}
}

// Report prints the snapshot for stats.
func (r *RateReporter) Report(stats generator.Stats) {
	line := Snapshot(stats, r.clock.Now())
	if r.console.live {
		fmt.Fprintf(r.console.out, "\r    %s", r.console.color(ColorGreen, line))
		return
	}
	fmt.Fprintf(r.console.out, "    %s\n", line)
}

// Snapshot renders stats as of now. With no elapsed time only the count is
// shown.
func Snapshot(stats generator.Stats, now time.Time) string {
	line := fmt.Sprintf("Generated %s wallets", FormatNumber(stats.Generated))

	rate, ok := stats.Rate(now)
	if !ok {
		return line
	}
	return fmt.Sprintf("%s │ Speed: %s │ %s",
		line, FormatHashRate(rate), FormatDuration(stats.Elapsed(now)))
}
