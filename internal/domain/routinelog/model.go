package routinelog

import (
	"errors"
	"time"

	"glow/internal/domain/routine"
)

// DateLayout is the calendar-date format used for log keys.
const DateLayout = "2006-01-02"

// Domain errors
var (
	ErrEmptyUserID    = errors.New("log user ID is required")
	ErrEmptyRoutineID = errors.New("log routine ID is required")
	ErrInvalidDate    = errors.New("log date must be in YYYY-MM-DD format")
)

// Log records which steps a user marked done on a specific calendar date.
// At most one log exists per (user, routine, date) triple.
type Log struct {
	ID             string
	UserID         string
	RoutineID      string
	Date           string // YYYY-MM-DD
	CompletedSteps []string
	CompletedAt    time.Time
}

// Validate checks if the Log has valid data.
// PRE: Log struct is populated
// POST: Returns nil if valid, error otherwise
func (l *Log) Validate() error {
	if l.UserID == "" {
		return ErrEmptyUserID
	}
	if l.RoutineID == "" {
		return ErrEmptyRoutineID
	}
	if !IsValidDate(l.Date) {
		return ErrInvalidDate
	}
	return nil
}

// IsValidDate reports whether date parses as a YYYY-MM-DD calendar date.
func IsValidDate(date string) bool {
	_, err := time.Parse(DateLayout, date)
	return err == nil
}

// Today returns the current calendar date in log-key format.
func Today(now func() time.Time) string {
	return now().UTC().Format(DateLayout)
}

// FilterCanonical returns only the IDs that are in canonical identifier
// format. The completed_steps column accepts canonical identifiers only;
// malformed entries from legacy data are dropped, not errored.
// INVARIANT: input slice is not mutated; relative order preserved
func FilterCanonical(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if routine.IsCanonicalID(id) {
			out = append(out, id)
		}
	}
	return out
}

// FilterExisting returns only the IDs present in the given step ID set.
// Stale identifiers referencing deleted steps are dropped silently.
// INVARIANT: input slice is not mutated; relative order preserved
func FilterExisting(ids []string, stepIDs []string) []string {
	known := make(map[string]bool, len(stepIDs))
	for _, id := range stepIDs {
		known[id] = true
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if known[id] {
			out = append(out, id)
		}
	}
	return out
}
