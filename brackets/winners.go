package brackets

import (
	"sort"

	"github.com/Dosada05/bracket-manager/models"
)

// RetrieveWinners derives placements from the last two rounds of a bracket
// once the champion is known. Only the champion and the contestants found in
// the final and semifinal matches matter; earlier results are not needed.
func RetrieveWinners(bracket *models.Bracket, championID string) models.Winners {
	result := models.Winners{
		Matches: map[string]models.MatchResult{},
		Winners: []models.Winner{{ContestantID: championID, Classification: models.FirstPlace}},
	}

	last := len(bracket.Rounds) - 1
	matches := append([]models.Match(nil), bracket.Matches...)
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].RoundIndex > matches[j].RoundIndex })

	classified := func(id string) bool {
		return result.ClassificationOf(id) != models.Unclassified
	}
	hasThird := false

	for _, match := range matches {
		if match.RoundIndex < last-1 || match.RoundIndex > last {
			continue
		}
		key := match.Key()

		if match.RoundIndex == last {
			for i, side := range match.Sides {
				if side.ContestantID == "" || side.ContestantID == championID {
					continue
				}
				result.Winners = append(result.Winners, models.Winner{
					ContestantID:   side.ContestantID,
					Classification: models.SecondPlace,
				})
				if i == 0 {
					result.Matches[key] = models.MatchResult{Top: models.SecondPlace, Bottom: models.FirstPlace}
				} else {
					result.Matches[key] = models.MatchResult{Top: models.FirstPlace, Bottom: models.SecondPlace}
				}
			}
			continue
		}

		for i, side := range match.Sides {
			if side.ContestantID == "" || classified(side.ContestantID) {
				continue
			}
			classification := models.ThirdPlace
			if hasThird {
				classification = models.FourthPlace
			}
			hasThird = true
			result.Winners = append(result.Winners, models.Winner{
				ContestantID:   side.ContestantID,
				Classification: classification,
			})
			entry := result.Matches[key]
			if i == 0 {
				entry.Top = classification
			} else {
				entry.Bottom = classification
			}
			result.Matches[key] = entry
			break
		}
	}
	return result
}

// PointsFor converts a placement into standings points.
func PointsFor(c models.Classification) int {
	switch c {
	case models.FirstPlace:
		return 7
	case models.SecondPlace:
		return 5
	case models.ThirdPlace, models.FourthPlace:
		return 3
	default:
		return 0
	}
}
