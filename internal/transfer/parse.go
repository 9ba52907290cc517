// Package transfer imports and exports card sets.
package transfer

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/at-ishikawa/cardapp/internal/card"
)

// DefaultExportName is the file name used when no export path is given.
const DefaultExportName = "cards_export.json"

type Reason string

const (
	ReasonMalformed      Reason = "malformed"
	ReasonNotAnArray     Reason = "not-an-array"
	ReasonNoValidRecords Reason = "no-valid-records"
)

// ImportError explains why an import payload was rejected.
type ImportError struct {
	Reason Reason
	Err    error
}

func (e *ImportError) Error() string {
	var msg string
	switch e.Reason {
	case ReasonMalformed:
		msg = "import file is not valid JSON"
	case ReasonNotAnArray:
		msg = "import file must contain a JSON array of cards"
	case ReasonNoValidRecords:
		msg = "import file has no valid cards"
	default:
		msg = "invalid import file"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// Result is the outcome of parsing an import payload.
type Result struct {
	Cards   []card.Card
	Skipped int
}

// Parse validates an import payload. The payload must be a JSON array; elements that are
// objects with both "front" and "back" keys become cards, anything else is skipped.
// It fails when nothing survives.
func Parse(data []byte) (Result, error) {
	if !json.Valid(data) {
		return Result{}, &ImportError{Reason: ReasonMalformed}
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil || elements == nil {
		return Result{}, &ImportError{Reason: ReasonNotAnArray, Err: err}
	}

	result := Result{Cards: make([]card.Card, 0, len(elements))}
	for _, element := range elements {
		c, ok := parseCard(element)
		if !ok {
			result.Skipped++
			continue
		}
		result.Cards = append(result.Cards, c)
	}
	if len(result.Cards) == 0 {
		return result, &ImportError{Reason: ReasonNoValidRecords}
	}
	return result, nil
}

func parseCard(element json.RawMessage) (card.Card, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(element, &fields); err != nil || fields == nil {
		return card.Card{}, false
	}
	front, hasFront := fields["front"]
	back, hasBack := fields["back"]
	if !hasFront || !hasBack {
		return card.Card{}, false
	}
	return card.Card{
		Front: card.TextValue(front),
		Back:  card.TextValue(back),
	}, true
}

// ReadFile reads and parses an import file.
func ReadFile(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}
	return Parse(data)
}
