package cpu

import (
	"fmt"

	"github.com/Amr-9/luckyhunter/pkg/generator"
)

// worker is the pure compute unit: generate, normalize, match. It never
// performs I/O and holds no state of its own.
type worker struct {
	provider generator.IdentityProvider
	matcher  *generator.Matcher
}

// attempt generates one identity and returns a record when it hits any
// pattern. Unmatched identities are dropped here and never leave the worker.
func (w *worker) attempt() (*generator.Record, error) {
	id, err := w.provider.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate identity: %w", err)
	}

	matches := w.matcher.Match(id.Body())
	if len(matches) == 0 {
		return nil, nil
	}

	return &generator.Record{
		Identity: id,
		Matches:  matches,
	}, nil
}
