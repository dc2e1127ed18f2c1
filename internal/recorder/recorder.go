// Package recorder persists found wallets to an append-only text file.
package recorder

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Amr-9/luckyhunter/pkg/generator"
)

// DefaultOutputFile is where records go when no path is configured.
const DefaultOutputFile = "wallets_with_888_pro_dual.txt"

// Separator terminates every record block.
var Separator = strings.Repeat("-", 50)

// Field labels, in the order they appear in a block.
const (
	labelAddress    = "Address: "
	labelPrivateKey = "Private Key: "
	labelMnemonic   = "Mnemonic: "
	labelDetails    = "Match Details: "
)

// ErrMalformedRecord is returned by the reader for blocks it cannot parse.
var ErrMalformedRecord = errors.New("malformed record")

// Notifier is told about a match once it is safely on disk.
type Notifier interface {
	NotifyMatch(rec *generator.Record)
}

// FileRecorder appends match records to a file, opening it for every write.
type FileRecorder struct {
	path     string
	notifier Notifier
	fallback io.Writer
}

// NewFileRecorder creates a recorder writing to path. notifier may be nil.
// fallback receives the full record when the file write fails; it defaults
// to stderr.
func NewFileRecorder(path string, notifier Notifier, fallback io.Writer) *FileRecorder {
	if path == "" {
		path = DefaultOutputFile
	}
	if fallback == nil {
		fallback = os.Stderr
	}
	return &FileRecorder{
		path:     path,
		notifier: notifier,
		fallback: fallback,
	}
}

// Path returns the output file path.
func (r *FileRecorder) Path() string {
	return r.path
}

// Record appends rec to the file, then notifies. If the write fails the
// block is written to the fallback writer, no notification is sent and the
// write error is returned.
func (r *FileRecorder) Record(rec *generator.Record) error {
	block := Format(rec)

	if err := appendFile(r.path, block); err != nil {
		fmt.Fprintf(r.fallback, "\nFAILED TO SAVE WALLET TO %s: %v\n%s", r.path, err, block)
		return fmt.Errorf("append to %s: %w", r.path, err)
	}

	if r.notifier != nil {
		r.notifier.NotifyMatch(rec)
	}
	return nil
}

// appendFile writes block with a single write call and syncs it.
func appendFile(path, block string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return err
	}

	if _, err := f.WriteString(block); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Format renders rec as a self-delimited text block.
func Format(rec *generator.Record) string {
	var sb strings.Builder
	sb.WriteString(labelAddress + rec.Identity.Address + "\n")
	sb.WriteString(labelPrivateKey + rec.Identity.PrivateKey + "\n")
	sb.WriteString(labelMnemonic + rec.Identity.Mnemonic + "\n")
	sb.WriteString(labelDetails + rec.Details() + "\n")
	sb.WriteString(Separator + "\n")
	return sb.String()
}

// Entry is one record block as read back from a file.
type Entry struct {
	Address    string
	PrivateKey string
	Mnemonic   string
	Details    string
}

// ReadEntries parses every complete block from rd. A trailing block without
// its separator line is treated as a torn write and skipped.
func ReadEntries(rd io.Reader) ([]Entry, error) {
	var (
		entries []Entry
		cur     Entry
		fields  int
		line    int
	)

	scanner := bufio.NewScanner(rd)
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")

		switch {
		case text == Separator:
			if fields != 4 {
				return entries, fmt.Errorf("%w: line %d: block has %d of 4 fields", ErrMalformedRecord, line, fields)
			}
			entries = append(entries, cur)
			cur, fields = Entry{}, 0
		case strings.TrimSpace(text) == "":
			continue
		case fields == 0 && strings.HasPrefix(text, labelAddress):
			cur.Address = strings.TrimPrefix(text, labelAddress)
			fields++
		case fields == 1 && strings.HasPrefix(text, labelPrivateKey):
			cur.PrivateKey = strings.TrimPrefix(text, labelPrivateKey)
			fields++
		case fields == 2 && strings.HasPrefix(text, labelMnemonic):
			cur.Mnemonic = strings.TrimPrefix(text, labelMnemonic)
			fields++
		case fields == 3 && strings.HasPrefix(text, labelDetails):
			cur.Details = strings.TrimPrefix(text, labelDetails)
			fields++
		default:
			return entries, fmt.Errorf("%w: line %d: unexpected %q", ErrMalformedRecord, line, text)
		}
	}
	if err := scanner.Err(); err != nil {
		return entries, err
	}
	return entries, nil
}

// ReadFile parses the record file at path.
func ReadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadEntries(f)
}
