package routine

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxStepNameLength = 120
)

// Routine type constants
const (
	TypeAM = "AM"
	TypePM = "PM"
)

// Domain errors
var (
	ErrInvalidType     = errors.New("routine type must be 'AM' or 'PM'")
	ErrEmptyUserID     = errors.New("routine user ID is required")
	ErrEmptyStepName   = errors.New("step name cannot be empty")
	ErrStepNotFound    = errors.New("step not found in routine")
	ErrNotAPermutation = errors.New("ordered IDs must be a permutation of the routine's step IDs")
)

// canonicalIDPattern matches the 8-4-4-4-12 hex-grouped identifier format,
// including the version (1-5) and variant (8/9/a/b) nibbles. Completion logs
// only accept identifiers in this format, so step IDs must conform before any
// completion state can reference them.
var canonicalIDPattern = regexp.MustCompile(
	`^[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// IsCanonicalID reports whether id is in canonical UUID string format.
// Matching is case-insensitive, as in the original mobile client.
func IsCanonicalID(id string) bool {
	return canonicalIDPattern.MatchString(strings.ToLower(id))
}

// Step is a single entry in a routine, optionally linked to a catalog product.
type Step struct {
	ID          string
	Name        string
	Description string
	Order       int
	ProductID   string
}

// Validate checks if the Step has valid data.
// PRE: Step struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Step) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyStepName
	}
	if len(s.Name) > MaxStepNameLength {
		return errors.New("step name cannot exceed 120 characters")
	}
	if s.Order < 0 {
		return errors.New("step order cannot be negative")
	}
	return nil
}

// Routine is an ordered collection of skincare steps for a user, scoped to a
// time-of-day type (AM or PM). One routine exists per (user, type) pair.
type Routine struct {
	ID        string
	UserID    string
	Type      string
	Steps     []Step
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks if the Routine has valid data.
// PRE: Routine struct is populated
// POST: Returns nil if valid, error otherwise
func (r *Routine) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return ErrEmptyUserID
	}
	if r.Type != TypeAM && r.Type != TypePM {
		return ErrInvalidType
	}
	return nil
}

// SortedSteps returns the steps ordered by their Order value.
// INVARIANT: Routine state is not mutated
func (r *Routine) SortedSteps() []Step {
	out := make([]Step, len(r.Steps))
	copy(out, r.Steps)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// NextOrder returns the order value a newly appended step should receive.
// INVARIANT: Routine state is not mutated
func (r *Routine) NextOrder() int {
	max := -1
	for _, s := range r.Steps {
		if s.Order > max {
			max = s.Order
		}
	}
	return max + 1
}

// AppendStep adds a step at the end of the routine.
// PRE: step has been validated; step.ID is set
// POST: step appended with Order = NextOrder(); step.Order updated in place
func (r *Routine) AppendStep(step *Step) {
	step.Order = r.NextOrder()
	r.Steps = append(r.Steps, *step)
}

// RemoveStep deletes the step with the given ID and compacts the order values
// of the remaining steps to a dense 0..n-1 range.
// PRE: stepID is non-empty
// POST: step removed, remaining orders dense zero-based; ErrStepNotFound if absent
func (r *Routine) RemoveStep(stepID string) error {
	sorted := r.SortedSteps()
	found := false
	next := sorted[:0]
	for _, s := range sorted {
		if s.ID == stepID {
			found = true
			continue
		}
		next = append(next, s)
	}
	if !found {
		return ErrStepNotFound
	}
	for i := range next {
		next[i].Order = i
	}
	r.Steps = next
	return nil
}

// Reorder reassigns step order values to match the given ID sequence.
// PRE: orderedIDs is an exact permutation of the routine's step IDs
// POST: each step's Order equals its index in orderedIDs; steps sorted by Order
func (r *Routine) Reorder(orderedIDs []string) error {
	if len(orderedIDs) != len(r.Steps) {
		return ErrNotAPermutation
	}
	byID := make(map[string]Step, len(r.Steps))
	for _, s := range r.Steps {
		byID[s.ID] = s
	}
	next := make([]Step, 0, len(orderedIDs))
	for i, id := range orderedIDs {
		s, ok := byID[id]
		if !ok {
			return ErrNotAPermutation
		}
		delete(byID, id)
		s.Order = i
		next = append(next, s)
	}
	r.Steps = next
	return nil
}

// StepIDs returns the IDs of all steps in order.
// INVARIANT: Routine state is not mutated
func (r *Routine) StepIDs() []string {
	sorted := r.SortedSteps()
	ids := make([]string, len(sorted))
	for i, s := range sorted {
		ids[i] = s.ID
	}
	return ids
}

// HasStep reports whether a step with the given ID exists in the routine.
func (r *Routine) HasStep(stepID string) bool {
	for _, s := range r.Steps {
		if s.ID == stepID {
			return true
		}
	}
	return false
}

// MigrateStepIDs replaces every step ID that is not in canonical format with a
// freshly generated one, preserving name, description, product reference and
// relative order. Legacy clients stored keys like "step-3" which the completion
// log's uuid[] column silently refuses to round-trip.
// PRE: generateID produces canonical identifiers
// POST: all step IDs canonical; returns number of IDs rewritten
func (r *Routine) MigrateStepIDs(generateID func() string) int {
	migrated := 0
	for i := range r.Steps {
		if !IsCanonicalID(r.Steps[i].ID) {
			r.Steps[i].ID = generateID()
			migrated++
		}
	}
	return migrated
}
