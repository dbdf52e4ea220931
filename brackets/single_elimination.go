package brackets

import (
	"context"
	"log/slog"

	"github.com/Dosada05/bracket-manager/models"
)

type SingleEliminationGenerator struct {
	logger *slog.Logger
}

func NewSingleEliminationGenerator(logger *slog.Logger) BracketGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &SingleEliminationGenerator{logger: logger}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

func (g *SingleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) (*models.TaggedBracket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bracket, err := BuildBracket(params.Players, params.BracketSize)
	if err != nil {
		return nil, err
	}

	g.logger.DebugContext(ctx, "bracket generated",
		slog.String("category", HashCategory(bracket.Category)),
		slog.Int("players", len(params.Players)),
		slog.Int("rounds", len(bracket.Rounds)),
		slog.Int("first_round_matches", len(bracket.Matches)),
	)
	return bracket, nil
}

// BuildBracket seeds players into a single-elimination bracket and returns the
// round structure, the contestant registry and the first-round pairings.
// Later rounds are filled in as results are recorded.
//
// Player i takes slot order[i]-1 of the seeded order; slots 2k and 2k+1 form
// first-round match k. Slots nobody takes stay as byes (sides without a
// contestant id).
func BuildBracket(players []models.Player, bracketSize int) (*models.TaggedBracket, error) {
	if len(players) == 0 {
		return nil, validationErrorf(ErrEmptyRoster, "no players given")
	}
	if bracketSize != 0 && bracketSize < len(players) {
		return nil, validationErrorf(ErrBracketTooSmall, "players: %d; bracketSize: %d", len(players), bracketSize)
	}

	category := players[0].Category
	key := HashCategory(category)
	for _, p := range players[1:] {
		if HashCategory(p.Category) != key {
			return nil, validationErrorf(ErrMixedCategory, "player %q is %q, expected %q",
				p.ContestantID, HashCategory(p.Category), key)
		}
	}

	n := bracketSize
	if n == 0 {
		n = len(players)
	}
	size := PaddedSize(n)
	order := GenerateTournamentOrder(size)

	contestants := make(map[string]models.Contestant, len(players))
	slots := make([]string, size)
	for i, p := range players {
		contestants[p.ContestantID] = models.Contestant{
			Players: []models.ContestantPlayer{{Title: p.Name, Nationality: p.Organization}},
		}
		slots[order[i]-1] = p.ContestantID
	}

	rounds := RoundsBySize(n)
	bracket := &models.TaggedBracket{
		Bracket: models.Bracket{
			Rounds:      make([]models.Round, 0, len(rounds)),
			Contestants: contestants,
			Matches:     make([]models.Match, 0, (size+1)/2),
		},
		Category: category.Clone(),
		Status:   []models.BracketStatus{},
	}
	for _, name := range rounds {
		bracket.Rounds = append(bracket.Rounds, models.Round{Name: name})
	}

	for k := 0; k < (size+1)/2; k++ {
		match := models.Match{RoundIndex: 0, Order: k, Sides: []models.Side{{ContestantID: slots[2*k]}}}
		if 2*k+1 < size {
			match.Sides = append(match.Sides, models.Side{ContestantID: slots[2*k+1]})
		}
		bracket.Matches = append(bracket.Matches, match)
	}
	return bracket, nil
}
