package models

import (
	"fmt"
	"slices"
)

type Round struct {
	Name string `json:"name"`
}

type ContestantPlayer struct {
	Title       string `json:"title"`
	Nationality string `json:"nationality"`
}

type Contestant struct {
	Players []ContestantPlayer `json:"players"`
}

// Side is one slot of a match. An empty ContestantID is a bye.
type Side struct {
	ContestantID string `json:"contestantId,omitempty"`
}

type Match struct {
	RoundIndex int    `json:"roundIndex"`
	Order      int    `json:"order"`
	Sides      []Side `json:"sides"`
}

// Key is the "<roundIndex>:<order>" form used by Winners.Matches.
func (m Match) Key() string {
	return MatchKey(m.RoundIndex, m.Order)
}

func MatchKey(roundIndex, order int) string {
	return fmt.Sprintf("%d:%d", roundIndex, order)
}

type Bracket struct {
	Rounds      []Round               `json:"rounds"`
	Contestants map[string]Contestant `json:"contestants"`
	Matches     []Match               `json:"matches"`
}

type BracketStatus string

const StatusPrinted BracketStatus = "printed"

// TaggedBracket is a bracket together with the category it was built for.
type TaggedBracket struct {
	Bracket
	Category Category        `json:"category"`
	Status   []BracketStatus `json:"status"`
}

// Clone returns a copy that shares no slices or maps with b.
func (b TaggedBracket) Clone() TaggedBracket {
	out := b
	out.Rounds = slices.Clone(b.Rounds)
	out.Category = b.Category.Clone()
	out.Status = slices.Clone(b.Status)
	if b.Contestants != nil {
		out.Contestants = make(map[string]Contestant, len(b.Contestants))
		for id, c := range b.Contestants {
			c.Players = slices.Clone(c.Players)
			out.Contestants[id] = c
		}
	}
	if b.Matches != nil {
		out.Matches = make([]Match, len(b.Matches))
		for i, m := range b.Matches {
			m.Sides = slices.Clone(m.Sides)
			out.Matches[i] = m
		}
	}
	return out
}

func (b *TaggedBracket) HasStatus(s BracketStatus) bool {
	for _, st := range b.Status {
		if st == s {
			return true
		}
	}
	return false
}
