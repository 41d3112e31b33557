package domain

// ImportSkip explains why one CSV row was not added.
type ImportSkip struct {
	Line   int    `json:"line"`
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason"`
}

const (
	SkipEmptyName = "empty_name"
	SkipDuplicate = "duplicate"
	SkipFailed    = "create_failed"
)

type ImportResult struct {
	Added   int          `json:"addedCount"`
	Skipped int          `json:"skippedCount"`
	Skips   []ImportSkip `json:"skips,omitempty"`
}
