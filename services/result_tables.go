package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Dosada05/bracket-manager/brackets"
	"github.com/Dosada05/bracket-manager/models"
)

const tagFieldPrefix = "tag:"

type pointsFunc func(models.Player) int

func noPoints(models.Player) int { return 0 }

// fieldOf extracts the string a filter or aggregator works on.
func fieldOf(field string, p models.Player, points pointsFunc) (string, error) {
	switch field {
	case "gender":
		return p.Gender().String(), nil
	case "organization":
		return p.Organization, nil
	case "present":
		return strconv.FormatBool(p.Present), nil
	case "name":
		return p.Name, nil
	case "category":
		return brackets.HashCategory(p.Category), nil
	case "points":
		return strconv.Itoa(points(p)), nil
	}
	if id, ok := strings.CutPrefix(field, tagFieldPrefix); ok && id != "" {
		tag, _ := p.Category.Get(id)
		return tag.Value, nil
	}
	return "", fmt.Errorf("%w: unknown field %q", ErrInvalidResultTable, field)
}

var resultSources = map[string]struct{}{
	"participants": {}, "organization": {}, "category": {}, "gender": {}, "name": {}, "points": {},
}

func sourceValues(source string, players []models.Player, points pointsFunc) ([]string, error) {
	out := make([]string, 0, len(players))
	for _, p := range players {
		if source == "participants" {
			out = append(out, p.ContestantID)
			continue
		}
		v, err := fieldOf(source, p, points)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

var resultOperations = map[string]func([]string) string{
	"count": func(items []string) string { return strconv.Itoa(len(items)) },
	"sum": func(items []string) string {
		total := 0
		for _, it := range items {
			n, _ := strconv.Atoi(it)
			total += n
		}
		return strconv.Itoa(total)
	},
	"min": func(items []string) string { return extreme(items, func(a, b int) bool { return a < b }) },
	"max": func(items []string) string { return extreme(items, func(a, b int) bool { return a > b }) },
	"most_common": func(items []string) string {
		counts := map[string]int{}
		best := ""
		for _, it := range items {
			counts[it]++
			if counts[it] > counts[best] || (counts[it] == counts[best] && it < best) {
				best = it
			}
		}
		return best
	},
}

func extreme(items []string, better func(a, b int) bool) string {
	if len(items) == 0 {
		return ""
	}
	best, _ := strconv.Atoi(items[0])
	for _, it := range items[1:] {
		n, _ := strconv.Atoi(it)
		if better(n, best) {
			best = n
		}
	}
	return strconv.Itoa(best)
}

// splitFilters separates narrowing filters from the (at most one) aggregator.
func splitFilters(items []models.FilterItem) (narrow []models.FilterItem, aggregator string, err error) {
	for _, f := range items {
		if _, err := fieldOf(f.Field, models.Player{}, noPoints); err != nil {
			return nil, "", err
		}
		if f.Selection != nil {
			narrow = append(narrow, f)
			continue
		}
		if aggregator != "" {
			return nil, "", fmt.Errorf("%w: only one row aggregator is allowed", ErrInvalidResultTable)
		}
		aggregator = f.Field
	}
	return narrow, aggregator, nil
}

func applyFilters(players []models.Player, filters []models.FilterItem, points pointsFunc) ([]models.Player, error) {
	out := players
	for _, f := range filters {
		kept := make([]models.Player, 0, len(out))
		for _, p := range out {
			v, err := fieldOf(f.Field, p, points)
			if err != nil {
				return nil, err
			}
			if v == *f.Selection {
				kept = append(kept, p)
			}
		}
		out = kept
	}
	return out, nil
}

// groupBy returns the distinct values of field (sorted) and the players per value.
func groupBy(players []models.Player, field string, points pointsFunc) ([]string, map[string][]models.Player, error) {
	groups := map[string][]models.Player{}
	for _, p := range players {
		v, err := fieldOf(field, p, points)
		if err != nil {
			return nil, nil, err
		}
		groups[v] = append(groups[v], p)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, groups, nil
}

// BuildResultTable renders a result table over the given players. Table
// filters narrow the roster; a table aggregator turns each of its values into
// a row. A column aggregator expands the column into one sub-column per value.
func BuildResultTable(table models.ResultTable, players []models.Player, points func(models.Player) int) (models.TableData, error) {
	data := models.TableData{Name: table.Name, Header: []string{}, Rows: [][]string{}}

	narrow, aggregator, err := splitFilters(table.Filters)
	if err != nil {
		return data, err
	}
	filtered, err := applyFilters(players, narrow, points)
	if err != nil {
		return data, err
	}

	rows := [][]models.Player{filtered}
	if aggregator != "" {
		keys, groups, err := groupBy(filtered, aggregator, points)
		if err != nil {
			return data, err
		}
		rows = rows[:0]
		for _, k := range keys {
			rows = append(rows, groups[k])
		}
	}

	cells := make([][]string, len(rows))
	for _, col := range table.Columns {
		if _, ok := resultSources[col.Formula.Source]; !ok {
			return data, fmt.Errorf("%w: invalid source %q for column %q", ErrInvalidResultTable, col.Formula.Source, col.Name)
		}
		op, ok := resultOperations[col.Formula.Operation]
		if !ok {
			return data, fmt.Errorf("%w: invalid operation %q for column %q", ErrInvalidResultTable, col.Formula.Operation, col.Name)
		}
		colNarrow, colAggregator, err := splitFilters(col.Filters)
		if err != nil {
			return data, err
		}

		type subColumn struct {
			header  string
			filters []models.FilterItem
		}
		subs := []subColumn{{header: col.Name, filters: colNarrow}}
		if colAggregator != "" {
			values, _, err := groupBy(filtered, colAggregator, points)
			if err != nil {
				return data, err
			}
			subs = subs[:0]
			for _, v := range values {
				selection := v
				fs := append(append([]models.FilterItem(nil), colNarrow...), models.FilterItem{Field: colAggregator, Selection: &selection})
				subs = append(subs, subColumn{header: col.Name + ": " + v, filters: fs})
			}
		}

		for _, sub := range subs {
			values := make([]string, len(rows))
			for i, rowPlayers := range rows {
				selected, err := applyFilters(rowPlayers, sub.filters, points)
				if err != nil {
					return data, err
				}
				items, err := sourceValues(col.Formula.Source, selected, points)
				if err != nil {
					return data, err
				}
				values[i] = op(items)
			}
			if col.Formula.Rank {
				values = rankValues(values)
			}
			data.Header = append(data.Header, sub.header)
			for i := range cells {
				cells[i] = append(cells[i], values[i])
			}
		}
	}
	data.Rows = cells
	return data, nil
}

// rankValues replaces numeric values with their 1-based descending rank; ties
// share the best rank.
func rankValues(values []string) []string {
	nums := make([]int, len(values))
	for i, v := range values {
		nums[i], _ = strconv.Atoi(v)
	}
	sorted := append([]int(nil), nums...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	out := make([]string, len(values))
	for i, n := range nums {
		out[i] = strconv.Itoa(sort.Search(len(sorted), func(j int) bool { return sorted[j] <= n }) + 1)
	}
	return out
}

func validateResultTable(table models.ResultTable) error {
	if table.Name == "" {
		return fmt.Errorf("%w: table name is required", ErrInvalidResultTable)
	}
	_, err := BuildResultTable(table, nil, noPoints)
	return err
}
