package services

import (
	"fmt"
	"slices"
	"sort"

	"github.com/Dosada05/bracket-manager/brackets"
	"github.com/Dosada05/bracket-manager/models"
)

// BracketStore keeps one bracket per gender and effective category.
type BracketStore struct {
	brackets *Partition[*models.TaggedBracket]
}

func NewBracketStore() *BracketStore {
	return &BracketStore{brackets: NewPartition[*models.TaggedBracket]()}
}

// Set stores b under its own category, replacing any previous bracket.
func (s *BracketStore) Set(gender models.Gender, b *models.TaggedBracket) {
	s.brackets.Set(gender, b.Category, b)
}

func (s *BracketStore) Get(gender models.Gender, category models.Category) (*models.TaggedBracket, bool) {
	return s.brackets.Get(gender, category)
}

func (s *BracketStore) Has(gender models.Gender, category models.Category) bool {
	return s.brackets.Has(gender, category)
}

func (s *BracketStore) Delete(gender models.Gender, category models.Category) {
	s.brackets.Delete(gender, category)
}

func (s *BracketStore) Clear() {
	s.brackets.Clear()
}

func (s *BracketStore) Len(gender models.Gender) int {
	return s.brackets.Len(gender)
}

// Brackets returns the brackets of a gender ordered by category hash.
func (s *BracketStore) Brackets(gender models.Gender) []*models.TaggedBracket {
	out := make([]*models.TaggedBracket, 0, s.brackets.Len(gender))
	for _, key := range s.brackets.Keys(gender) {
		b, _ := s.brackets.GetKey(gender, key)
		out = append(out, b)
	}
	return out
}

func (s *BracketStore) Categories(gender models.Gender) []models.Category {
	out := make([]models.Category, 0, s.brackets.Len(gender))
	for _, b := range s.Brackets(gender) {
		out = append(out, b.Category.Clone())
	}
	return out
}

// TagByID groups the distinct tags of every bracket category by tag id.
// Values are sorted.
func (s *BracketStore) TagByID(gender models.Gender) map[string][]models.Tag {
	values := map[string]map[string]struct{}{}
	for _, b := range s.Brackets(gender) {
		for _, t := range b.Category {
			if values[t.ID] == nil {
				values[t.ID] = map[string]struct{}{}
			}
			values[t.ID][t.Value] = struct{}{}
		}
	}

	out := make(map[string][]models.Tag, len(values))
	for id, set := range values {
		tags := make([]models.Tag, 0, len(set))
		for v := range set {
			tags = append(tags, models.Tag{ID: id, Value: v})
		}
		sort.Slice(tags, func(i, j int) bool { return tags[i].Value < tags[j].Value })
		out[id] = tags
	}
	return out
}

// MarkStatus adds a status marker (e.g. "printed") to a bracket once.
func (s *BracketStore) MarkStatus(gender models.Gender, category models.Category, status models.BracketStatus) error {
	b, ok := s.Get(gender, category)
	if !ok {
		return fmt.Errorf("%w: %s %q", ErrBracketNotFound, gender, brackets.HashCategory(category))
	}
	if !slices.Contains(b.Status, status) {
		b.Status = append(b.Status, status)
	}
	return nil
}

// Collection returns deep copies of every bracket.
func (s *BracketStore) Collection() models.BracketCollection {
	return models.NewGendered(func(g models.Gender) []models.TaggedBracket {
		out := make([]models.TaggedBracket, 0, s.brackets.Len(g))
		for _, b := range s.Brackets(g) {
			out = append(out, b.Clone())
		}
		return out
	})
}

func (s *BracketStore) Load(collection models.BracketCollection) {
	s.Clear()
	for _, g := range models.Genders {
		for i := range collection[g] {
			b := collection[g][i].Clone()
			if b.Status == nil {
				b.Status = []models.BracketStatus{}
			}
			s.Set(g, &b)
		}
	}
}
