package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/Amr-9/luckyhunter/pkg/generator"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorCyan   = "\033[36m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorRed    = "\033[31m"
	ColorPurple = "\033[35m"
	ColorBold   = "\033[1m"
	ColorDim    = "\033[2m"
)

// Console writes operator-facing output. Colors and in-place line updates
// are only used on a terminal.
type Console struct {
	out  io.Writer
	live bool
}

// NewConsole creates a Console on out. live enables colors and the
// overwrite-style progress line.
func NewConsole(out io.Writer, live bool) *Console {
	return &Console{out: out, live: live}
}

// NewStdoutConsole creates a Console on stdout, live if stdout is a terminal.
func NewStdoutConsole() *Console {
	return NewConsole(os.Stdout, term.IsTerminal(int(os.Stdout.Fd())))
}

// Live reports whether the console updates lines in place.
func (c *Console) Live() bool {
	return c.live
}

// color wraps s in the given codes when live.
func (c *Console) color(codes, s string) string {
	if !c.live {
		return s
	}
	return codes + s + ColorReset
}

// PrintWelcomeBanner shows the startup banner
func (c *Console) PrintWelcomeBanner(version string) {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, c.color(ColorCyan+ColorBold, "  ╔══════════════════════════════════════════════════════════╗"))
	fmt.Fprintln(c.out, c.color(ColorCyan+ColorBold, "  ║        LuckyHunter • Lucky Wallet Generator              ║"))
	fmt.Fprintln(c.out, c.color(ColorCyan+ColorBold, "  ╚══════════════════════════════════════════════════════════╝"))
	fmt.Fprintf(c.out, "  %s\n\n", c.color(ColorDim, "v"+version))
}

// PrintSearchInfo displays core count, active patterns and the output file.
func (c *Console) PrintSearchInfo(workers int, patterns []string, difficulty uint64, outputFile string) {
	fmt.Fprintf(c.out, "    %s Starting wallet generation on %d CPU cores...\n",
		c.color(ColorGreen+ColorBold, "🚀"), workers)
	fmt.Fprintf(c.out, "    Looking for addresses starting or ending with: %s\n",
		c.color(ColorCyan+ColorBold, strings.Join(patterns, ", ")))
	if difficulty > 0 {
		fmt.Fprintf(c.out, "    %s\n", c.color(ColorDim, "≈1 hit per "+FormatNumber(difficulty)+" wallets"))
	}
	fmt.Fprintf(c.out, "    Saving matches to %s\n\n", c.color(ColorYellow, outputFile))
}

// NotifyMatch prints a single line for a saved match. The private key and
// mnemonic are never printed.
func (c *Console) NotifyMatch(rec *generator.Record) {
	if c.live {
		c.ClearLine()
	}
	fmt.Fprintf(c.out, "\n%s\n\n", c.color(ColorGreen+ColorBold,
		fmt.Sprintf("!!! Found matching wallet! Address: %s | Details: %s !!!",
			rec.Identity.Address, rec.Details())))
}

// PrintStopped prints the final status line.
func (c *Console) PrintStopped(stats generator.Stats, now time.Time) {
	if c.live {
		c.ClearLine()
	}
	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "    %s │ %s\n", c.color(ColorYellow+ColorBold, "⚠ Stopped"), Snapshot(stats, now))
	fmt.Fprintf(c.out, "    %s matching wallet(s) found\n", FormatNumber(stats.Matches))
	if stats.RecordFailures > 0 {
		fmt.Fprintf(c.out, "    %s\n", c.color(ColorRed+ColorBold,
			fmt.Sprintf("✗ %d wallet(s) could not be saved; see stderr", stats.RecordFailures)))
	}
}

// PrintError prints a failure message.
func (c *Console) PrintError(err error) {
	if c.live {
		c.ClearLine()
	}
	fmt.Fprintf(c.out, "\n    %s\n", c.color(ColorRed, "✗ Error: "+err.Error()))
}

// ClearLine clears the current line
func (c *Console) ClearLine() {
	fmt.Fprint(c.out, "\r"+strings.Repeat(" ", 94)+"\r")
}

// FormatHashRate formats hash rate nicely
func FormatHashRate(rate float64) string {
	if rate >= 1000000 {
		return fmt.Sprintf("%.1fM/s", rate/1000000)
	}
	if rate >= 1000 {
		return fmt.Sprintf("%.1fK/s", rate/1000)
	}
	return fmt.Sprintf("%.2f/s", rate)
}

// FormatNumber adds commas to large numbers
func FormatNumber(n uint64) string {
	s := fmt.Sprintf("%d", n)
	if n < 1000 {
		return s
	}
	result := make([]byte, 0, len(s)+(len(s)-1)/3)
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	return string(result)
}

// FormatDuration formats duration in a human-readable way
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", h, m)
}
