package clinicaladvice

import "errors"

var (
	ErrAdviceNotFound  = errors.New("no clinical advice found")
	ErrHistoryNotFound = errors.New("no advice history found")
)

// HistoryEntry is one row of the advice history, keyed by column name.
type HistoryEntry = map[string]any
