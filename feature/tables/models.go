package tables

import "time"

// Row is the view built for a tracked table row.
type Row struct {
	// Key is the string form of the row's key column.
	Key string `json:"key"`
	// Columns holds the row as loaded.
	Columns map[string]any `json:"columns"`
	// LoadedAt is when this view was built. A new view is built whenever the row changes.
	LoadedAt time.Time `json:"loaded_at"`
}
