package models

import (
	"errors"
	"fmt"
	"slices"
)

// Tag is one classification dimension, e.g. {"Peso", "Leve"}.
type Tag struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// Category is a set of tags unique by ID. Tag order carries no meaning.
type Category []Tag

var (
	ErrEmptyTagID     = errors.New("tag id must not be empty")
	ErrDuplicateTagID = errors.New("category contains the same tag id twice")
)

// Validate checks that every tag has an id and that ids are unique.
func (c Category) Validate() error {
	seen := make(map[string]struct{}, len(c))
	for _, t := range c {
		if t.ID == "" {
			return ErrEmptyTagID
		}
		if _, ok := seen[t.ID]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateTagID, t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}

func (c Category) Get(id string) (Tag, bool) {
	for _, t := range c {
		if t.ID == id {
			return t, true
		}
	}
	return Tag{}, false
}

func (c Category) Has(id string) bool {
	_, ok := c.Get(id)
	return ok
}

func (c Category) IDs() []string {
	ids := make([]string, 0, len(c))
	for _, t := range c {
		ids = append(ids, t.ID)
	}
	return ids
}

// Without returns a copy of c minus the tags whose id is listed.
func (c Category) Without(ids ...string) Category {
	out := make(Category, 0, len(c))
	for _, t := range c {
		if !slices.Contains(ids, t.ID) {
			out = append(out, t)
		}
	}
	return out
}

// Only returns a copy of c restricted to the listed ids.
func (c Category) Only(ids ...string) Category {
	out := make(Category, 0, len(c))
	for _, t := range c {
		if slices.Contains(ids, t.ID) {
			out = append(out, t)
		}
	}
	return out
}

// Merge layers newer on top of c. For a given id the tag from newer wins;
// within newer itself the last occurrence wins.
func (c Category) Merge(newer Category) Category {
	out := c.Clone()
	for _, t := range newer {
		if i := slices.IndexFunc(out, func(o Tag) bool { return o.ID == t.ID }); i >= 0 {
			out[i] = t
			continue
		}
		out = append(out, t)
	}
	return out
}

func (c Category) Clone() Category {
	if c == nil {
		return Category{}
	}
	return slices.Clone(c)
}
