package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// BracketCollection is the persisted bracket list per gender.
type BracketCollection = Gendered[[]TaggedBracket]

// WinnersByCategory maps a category hash to its derived winners, per gender.
type WinnersByCategory = Gendered[map[string]Winners]

// State is the document exchanged with the persistence layer.
type State struct {
	Players           []Player          `json:"players"`
	Brackets          BracketCollection `json:"brackets"`
	WinnersByCategory WinnersByCategory `json:"winnersByCategory"`
	ResultTables      []ResultTable     `json:"resultTables"`
}

// StateKeys are the top-level keys a state document must carry.
var StateKeys = []string{"players", "brackets", "winnersByCategory", "resultTables"}

var ErrInvalidStateDocument = errors.New("invalid state document")

// ValidateStateDocument checks that raw is a JSON object carrying every key
// of StateKeys.
func ValidateStateDocument(raw []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidStateDocument, err)
	}
	var missing []string
	for _, key := range StateKeys {
		if _, ok := doc[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidStateDocument, strings.Join(missing, ", "))
	}
	return nil
}

// DecodeState validates and decodes a state document.
func DecodeState(raw []byte) (*State, error) {
	if err := ValidateStateDocument(raw); err != nil {
		return nil, err
	}
	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStateDocument, err)
	}
	return &state, nil
}
