package models

// Player is a roster entry. ContestantID is minted once at creation and joins
// rosters, brackets and winner records; Category and IsMale may be edited later.
type Player struct {
	Name         string   `json:"name"`
	IsMale       bool     `json:"isMale"`
	Category     Category `json:"category"`
	Organization string   `json:"organization"`
	Present      bool     `json:"present"`
	ContestantID string   `json:"contestantId"`
}

func (p Player) Gender() Gender { return GenderOf(p.IsMale) }

// RawPlayer is a player as delivered by the roster importer, before the
// organization, presence and contestant id are attached.
type RawPlayer struct {
	Name     string   `json:"name"`
	IsMale   bool     `json:"isMale"`
	Category Category `json:"category"`
}

// Organization is the import unit: one institution and its players.
type Organization struct {
	Organization string      `json:"organization"`
	Players      []RawPlayer `json:"players"`
}
