package models

import (
	"maps"
	"slices"
)

// Classification is a final placement: 1 champion, 2 runner-up, 3 and 4 the two
// losing semifinalists.
type Classification int

const (
	Unclassified Classification = iota
	FirstPlace
	SecondPlace
	ThirdPlace
	FourthPlace
)

// MatchResult records which classification each side of a match ended with.
type MatchResult struct {
	Top    Classification `json:"top,omitempty"`
	Bottom Classification `json:"bottom,omitempty"`
}

type Winner struct {
	ContestantID   string         `json:"contestantId"`
	Classification Classification `json:"classification"`
}

// Winners is derived from a bracket; it is recomputed whenever the champion or
// the terminal matches change.
type Winners struct {
	Matches map[string]MatchResult `json:"matches"`
	Winners []Winner               `json:"winners"`
}

func EmptyWinners() Winners {
	return Winners{Matches: map[string]MatchResult{}, Winners: []Winner{}}
}

func (w Winners) Clone() Winners {
	return Winners{Matches: maps.Clone(w.Matches), Winners: slices.Clone(w.Winners)}
}

func (w Winners) ClassificationOf(contestantID string) Classification {
	for _, winner := range w.Winners {
		if winner.ContestantID == contestantID {
			return winner.Classification
		}
	}
	return Unclassified
}

func (w Winners) Champion() (string, bool) {
	for _, winner := range w.Winners {
		if winner.Classification == FirstPlace {
			return winner.ContestantID, true
		}
	}
	return "", false
}
