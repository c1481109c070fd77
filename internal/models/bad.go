package models

import "time"

const (
	BadModeLike       = "like"
	BadModeRandomSort = "random_sort"
	BadModeJoinBomb   = "join_bomb"
)

// BadSampleSize caps the rows echoed back by /api/bad.
const BadSampleSize = 10

// BadModes lists the selectable modes in display order.
func BadModes() []string {
	return []string{BadModeLike, BadModeRandomSort, BadModeJoinBomb}
}

// CategoryMatches is a row of the like scan.
type CategoryMatches struct {
	Category string `json:"category"`
	Matches  int64  `json:"matches"`
}

// SortedProduct is a row of the random_sort query.
type SortedProduct struct {
	ID       int64  `json:"id"`
	SKU      string `json:"sku"`
	Category string `json:"category"`
}

// CategoryPairs is a row of the join_bomb aggregate.
type CategoryPairs struct {
	Category   string `json:"category"`
	PairCount  int64  `json:"pair_count"`
	MinLeftID  int64  `json:"min_left_id"`
	MaxRightID int64  `json:"max_right_id"`
}

// BadQueryResult holds the outcome of one bad query. Sample is one of
// []CategoryMatches, []SortedProduct or []CategoryPairs.
type BadQueryResult struct {
	Mode   string `json:"mode"`
	Rows   int    `json:"rows"`
	Sample any    `json:"sample"`
}

// RunRecord is a journal entry for an executed bad query.
type RunRecord struct {
	Mode       string    `json:"mode"`
	Rows       int       `json:"rows"`
	DurationMS int64     `json:"duration_ms"`
	At         time.Time `json:"at"`
}

// Sample returns the first n rows, never nil.
func Sample[T any](rows []T, n int) []T {
	if len(rows) < n {
		n = len(rows)
	}
	out := make([]T, n)
	copy(out, rows[:n])
	return out
}
