package services

import (
	"log/slog"

	"github.com/Dosada05/bracket-manager/brackets"
	"github.com/Dosada05/bracket-manager/models"
)

// WinnerStore keeps the derived winners per gender and category.
type WinnerStore struct {
	winners *Partition[models.Winners]
	logger  *slog.Logger
}

func NewWinnerStore(logger *slog.Logger) *WinnerStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &WinnerStore{winners: NewPartition[models.Winners](), logger: logger}
}

func (s *WinnerStore) Init(gender models.Gender, category models.Category) {
	s.winners.Set(gender, category, models.EmptyWinners())
}

func (s *WinnerStore) Set(gender models.Gender, category models.Category, w models.Winners) {
	s.winners.Set(gender, category, w)
}

func (s *WinnerStore) Get(gender models.Gender, category models.Category) (models.Winners, bool) {
	return s.winners.Get(gender, category)
}

func (s *WinnerStore) Clear() {
	s.winners.Clear()
}

// Points sums the placement points of a player over every winners record
// whose category matches the player's effective category.
func (s *WinnerStore) Points(player models.Player) int {
	gender := player.Gender()
	points := 0
	for _, key := range s.winners.Keys(gender) {
		category, err := brackets.UnhashCategory(key)
		if err != nil {
			s.logger.Warn("skipping winners with malformed category key", slog.String("key", key), slog.Any("error", err))
			continue
		}
		if !brackets.CompareCategory(category, player.Category) {
			continue
		}
		w, _ := s.winners.GetKey(gender, key)
		points += brackets.PointsFor(w.ClassificationOf(player.ContestantID))
	}
	return points
}

func (s *WinnerStore) ByCategory() models.WinnersByCategory {
	return models.NewGendered(func(g models.Gender) map[string]models.Winners {
		out := make(map[string]models.Winners, s.winners.Len(g))
		for _, key := range s.winners.Keys(g) {
			w, _ := s.winners.GetKey(g, key)
			out[key] = w.Clone()
		}
		return out
	})
}

func (s *WinnerStore) Load(byCategory models.WinnersByCategory) {
	s.Clear()
	for _, g := range models.Genders {
		for key, w := range byCategory[g] {
			w = w.Clone()
			if w.Matches == nil {
				w.Matches = map[string]models.MatchResult{}
			}
			s.winners.SetKey(g, key, w)
		}
	}
}
