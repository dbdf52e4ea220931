package brackets

import (
	"sort"
	"strings"

	"github.com/Dosada05/bracket-manager/models"
)

const (
	tagSeparator      = '¬' // between id and value
	categorySeparator = '¨' // between tags
	escapeChar        = '\\'
)

var tagEscaper = strings.NewReplacer(
	`\`, `\\`,
	string(tagSeparator), `\`+string(tagSeparator),
	string(categorySeparator), `\`+string(categorySeparator),
)

// HashCategory returns the canonical key of a category. Tag order does not
// matter; separator characters inside ids or values are escaped so distinct
// categories never share a key.
func HashCategory(c models.Category) string {
	parts := make([]string, 0, len(c))
	for _, t := range c {
		parts = append(parts, tagEscaper.Replace(t.ID)+string(tagSeparator)+tagEscaper.Replace(t.Value))
	}
	sort.Strings(parts)
	return strings.Join(parts, string(categorySeparator))
}

// UnhashCategory is the inverse of HashCategory.
func UnhashCategory(key string) (models.Category, error) {
	category := models.Category{}
	if key == "" {
		return category, nil
	}

	var (
		buf     strings.Builder
		id      string
		haveID  bool
		escaped bool
	)
	finishTag := func() error {
		if !haveID {
			return validationErrorf(ErrMalformedCategoryHash, "tag %q has no id/value separator", buf.String())
		}
		category = append(category, models.Tag{ID: id, Value: buf.String()})
		buf.Reset()
		haveID = false
		return nil
	}

	for _, r := range key {
		switch {
		case escaped:
			buf.WriteRune(r)
			escaped = false
		case r == escapeChar:
			escaped = true
		case r == tagSeparator:
			if haveID {
				return nil, validationErrorf(ErrMalformedCategoryHash, "tag in %q has two id/value separators", key)
			}
			id = buf.String()
			haveID = true
			buf.Reset()
		case r == categorySeparator:
			if err := finishTag(); err != nil {
				return nil, err
			}
		default:
			buf.WriteRune(r)
		}
	}
	if escaped {
		return nil, validationErrorf(ErrMalformedCategoryHash, "dangling escape at end of %q", key)
	}
	if err := finishTag(); err != nil {
		return nil, err
	}
	return category, nil
}

// CompareCategory reports whether a and b hold the same tags once the tags
// whose id is in excludeIDs are dropped from both.
func CompareCategory(a, b models.Category, excludeIDs ...string) bool {
	return HashCategory(a.Without(excludeIDs...)) == HashCategory(b.Without(excludeIDs...))
}
