package models

// FilterItem narrows (Selection set) or groups (Selection nil) a player list.
type FilterItem struct {
	Field     string  `json:"field"`
	Selection *string `json:"selection"`
}

type Formula struct {
	Source    string `json:"source"`
	Operation string `json:"operation"`
	Rank      bool   `json:"rank,omitempty"`
}

type ResultColumn struct {
	Name    string       `json:"name"`
	Filters []FilterItem `json:"filters,omitempty"`
	Formula Formula      `json:"formula"`
}

// ResultTable describes a standings/report table built from the roster.
type ResultTable struct {
	Name    string         `json:"name"`
	Filters []FilterItem   `json:"filters,omitempty"`
	Columns []ResultColumn `json:"columns"`
}

// TableData is a rendered result table.
type TableData struct {
	Name   string     `json:"name"`
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}
