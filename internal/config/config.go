package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/Amr-9/luckyhunter/internal/recorder"
	"github.com/Amr-9/luckyhunter/pkg/generator"
	"github.com/Amr-9/luckyhunter/pkg/generator/cpu"
	"github.com/Amr-9/luckyhunter/pkg/generator/ethereum"
)

// Errors
var (
	ErrNoPatterns     = errors.New("must specify at least one --pattern")
	ErrInvalidPattern = errors.New("invalid pattern")
	ErrInvalidWorkers = errors.New("--workers must be positive")
	ErrInvalidBatch   = errors.New("--batch-multiplier must be positive")
)

// addressLength is the number of hex characters in an address body.
const addressLength = 40

// DefaultPatterns are searched when none are given.
var DefaultPatterns = []string{"88888888", "8888888", "888888"}

// Config holds the application configuration
type Config struct {
	Patterns        []string
	OutputFile      string
	Workers         int
	BatchMultiplier int
	Words           int
	Verbose         bool
	LogFile         string
	HighPriority    bool
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	patterns := make([]string, len(DefaultPatterns))
	copy(patterns, DefaultPatterns)
	return &Config{
		Patterns:        patterns,
		OutputFile:      recorder.DefaultOutputFile,
		Workers:         runtime.NumCPU(),
		BatchMultiplier: cpu.DefaultBatchMultiplier,
		Words:           ethereum.DefaultWords,
	}
}

// Validate normalizes the patterns and checks every option. After a nil
// return Patterns is lowercase hex, without 0x, deduplicated and sorted
// longest first.
func (c *Config) Validate() error {
	patterns, err := NormalizePatterns(c.Patterns)
	if err != nil {
		return err
	}
	if len(patterns) == 0 {
		return ErrNoPatterns
	}
	c.Patterns = patterns

	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if c.BatchMultiplier <= 0 {
		return ErrInvalidBatch
	}
	switch c.Words {
	case 12, 15, 18, 21, 24:
	default:
		return fmt.Errorf("--words must be 12, 15, 18, 21 or 24, got %d", c.Words)
	}
	if strings.TrimSpace(c.OutputFile) == "" {
		c.OutputFile = recorder.DefaultOutputFile
	}
	return nil
}

// NormalizePatterns trims, lowercases and strips 0x from each pattern, then
// checks it is hex no longer than an address.
func NormalizePatterns(raw []string) ([]string, error) {
	cleaned := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.ToLower(strings.TrimSpace(p))
		p = strings.TrimPrefix(p, "0x")
		if p == "" {
			continue
		}
		if !isValidHex(p) {
			return nil, fmt.Errorf("%w %q: hex only (0-9, a-f)", ErrInvalidPattern, p)
		}
		if len(p) > addressLength {
			return nil, fmt.Errorf("%w %q: longer than %d characters", ErrInvalidPattern, p, addressLength)
		}
		cleaned = append(cleaned, p)
	}
	return generator.SortPatterns(cleaned), nil
}

// isValidHex checks if string contains only hex characters
func isValidHex(s string) bool {
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}
