// Package generator defines the types and collaborator contracts for the
// lucky wallet search: identities, pattern matches, match records, search
// statistics and the interfaces the search engine is wired from.
package generator

import (
	"context"
	"strings"
	"time"
)

// Side is the end of an address a pattern was found on.
type Side int

const (
	Prefix Side = iota // Pattern starts the address body
	Suffix             // Pattern ends the address body
)

// String returns the side name as it appears in match records.
func (s Side) String() string {
	switch s {
	case Prefix:
		return "Prefix"
	case Suffix:
		return "Suffix"
	default:
		return "Unknown"
	}
}

// Match is a single pattern hit on one end of an address.
type Match struct {
	Pattern string
	Side    Side
}

// String renders the match as "<pattern> (<Side>)".
func (m Match) String() string {
	return m.Pattern + " (" + m.Side.String() + ")"
}

// Identity is one generated keypair with its recovery phrase.
// It is never mutated after creation.
type Identity struct {
	Address    string // 0x-prefixed, EIP-55 checksummed
	PrivateKey string // Hex encoded, no 0x
	Mnemonic   string // Space separated recovery words
}

// Body returns the address without its 0x marker, lowercased.
func (id Identity) Body() string {
	return NormalizeAddress(id.Address)
}

// Record is a confirmed match: the identity plus every pattern it hit.
// Matches holds at most one Prefix entry followed by at most one Suffix entry.
type Record struct {
	Identity Identity
	Matches  []Match
}

// Details joins all matches with " & ".
func (r *Record) Details() string {
	parts := make([]string, len(r.Matches))
	for i, m := range r.Matches {
		parts[i] = m.String()
	}
	return strings.Join(parts, " & ")
}

// Stats holds the search counters. It is owned by the dispatcher and handed
// to reporters by value.
type Stats struct {
	Generated      uint64    // Completed and collected attempts
	Matches        uint64    // Records handed to the recorder
	RecordFailures uint64    // Records the durable sink rejected
	StartTime      time.Time // When the search started
}

// Elapsed returns the time since StartTime as seen at now.
func (s Stats) Elapsed(now time.Time) time.Duration {
	if s.StartTime.IsZero() || now.Before(s.StartTime) {
		return 0
	}
	return now.Sub(s.StartTime)
}

// Rate returns generated identities per second at now. ok is false when no
// time has elapsed yet.
func (s Stats) Rate(now time.Time) (rate float64, ok bool) {
	elapsed := s.Elapsed(now).Seconds()
	if elapsed <= 0 {
		return 0, false
	}
	return float64(s.Generated) / elapsed, true
}

// State is the lifecycle of a search.
type State int32

const (
	Idle State = iota
	Running
	Stopping
	Terminated
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Running:
		return "Running"
	case Stopping:
		return "Stopping"
	case Terminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// IdentityProvider produces fresh, independently random identities.
// Generate must be safe to call from many goroutines at once.
type IdentityProvider interface {
	Generate() (Identity, error)
}

// Recorder persists a confirmed match and notifies the operator.
type Recorder interface {
	Record(rec *Record) error
}

// Reporter receives a stats snapshot after every completed batch.
type Reporter interface {
	Report(stats Stats)
}

// Searcher defines the contract for search backends.
type Searcher interface {
	// Run searches until ctx is cancelled or a fatal error occurs. The
	// returned stats are valid in both cases.
	Run(ctx context.Context) (Stats, error)

	// State returns the current lifecycle state.
	// This method is safe to call concurrently from any goroutine.
	State() State

	// Name returns the implementation name (e.g., "CPU").
	Name() string
}

// NormalizeAddress strips a 0x marker and lowercases the address.
func NormalizeAddress(address string) string {
	address = strings.ToLower(address)
	return strings.TrimPrefix(address, "0x")
}
