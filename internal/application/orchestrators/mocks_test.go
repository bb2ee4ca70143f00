package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"glow/internal/domain/routine"
	"glow/internal/domain/routinelog"
	"glow/internal/domain/shelfitem"
	"glow/internal/domain/user"
)

var fixedTime = time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

// seqIDs returns a generator producing canonical IDs with a fixed prefix and
// an incrementing low block, so tests can predict every generated ID.
func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("11111111-2222-4333-8444-%012d", n)
	}
}

// --- routine store mock ---

type mockRoutineStore struct {
	routines   map[string]routine.Routine
	replaceErr error
	saveErr    error
	replaceOps int
}

func newMockRoutineStore() *mockRoutineStore {
	return &mockRoutineStore{routines: make(map[string]routine.Routine)}
}

func (m *mockRoutineStore) GetByID(_ context.Context, id string) (routine.Routine, error) {
	r, ok := m.routines[id]
	if !ok {
		return routine.Routine{}, errors.New("routine not found")
	}
	return r, nil
}

func (m *mockRoutineStore) GetByUserAndType(_ context.Context, userID, routineType string) (routine.Routine, error) {
	for _, r := range m.routines {
		if r.UserID == userID && r.Type == routineType {
			return r, nil
		}
	}
	return routine.Routine{}, errors.New("routine not found")
}

func (m *mockRoutineStore) Save(_ context.Context, r routine.Routine) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.routines[r.ID] = r
	return nil
}

func (m *mockRoutineStore) ReplaceSteps(_ context.Context, routineID string, steps []routine.Step) error {
	m.replaceOps++
	if m.replaceErr != nil {
		return m.replaceErr
	}
	r, ok := m.routines[routineID]
	if !ok {
		return errors.New("routine not found")
	}
	r.Steps = steps
	m.routines[routineID] = r
	return nil
}

// --- user store mock ---

type mockUserStore struct {
	users map[string]user.User
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[string]user.User)}
}

func (m *mockUserStore) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return user.User{}, errors.New("user not found")
	}
	return u, nil
}

func (m *mockUserStore) Save(_ context.Context, u user.User) error {
	m.users[u.ID] = u
	return nil
}

// --- log store mock ---

type mockLogStore struct {
	logs      map[string]routinelog.Log // keyed by user|routine|date
	getByDate error                     // forced GetByDate failure when set
}

func newMockLogStore() *mockLogStore {
	return &mockLogStore{logs: make(map[string]routinelog.Log)}
}

func logKey(userID, routineID, date string) string {
	return userID + "|" + routineID + "|" + date
}

func (m *mockLogStore) GetByDate(_ context.Context, userID, routineID, date string) (routinelog.Log, error) {
	if m.getByDate != nil {
		return routinelog.Log{}, m.getByDate
	}
	l, ok := m.logs[logKey(userID, routineID, date)]
	if !ok {
		return routinelog.Log{}, fmt.Errorf("routine log not found: %w", sql.ErrNoRows)
	}
	return l, nil
}

func (m *mockLogStore) Upsert(_ context.Context, l routinelog.Log) error {
	key := logKey(l.UserID, l.RoutineID, l.Date)
	if existing, ok := m.logs[key]; ok {
		l.ID = existing.ID
	}
	m.logs[key] = l
	return nil
}

func (m *mockLogStore) DistinctDayCount(_ context.Context, userID string) (int, error) {
	days := map[string]bool{}
	for _, l := range m.logs {
		if l.UserID == userID {
			days[l.Date] = true
		}
	}
	return len(days), nil
}

// --- shelf store mock ---

type mockShelfStore struct {
	items map[string]shelfitem.ShelfItem
}

func newMockShelfStore() *mockShelfStore {
	return &mockShelfStore{items: make(map[string]shelfitem.ShelfItem)}
}

func (m *mockShelfStore) GetByID(_ context.Context, id string) (shelfitem.ShelfItem, error) {
	s, ok := m.items[id]
	if !ok {
		return shelfitem.ShelfItem{}, errors.New("shelf item not found")
	}
	return s, nil
}

func (m *mockShelfStore) GetByUserAndProduct(_ context.Context, userID, productID string) (shelfitem.ShelfItem, error) {
	for _, s := range m.items {
		if s.UserID == userID && s.ProductID == productID {
			return s, nil
		}
	}
	return shelfitem.ShelfItem{}, errors.New("shelf item not found")
}

func (m *mockShelfStore) Save(_ context.Context, s shelfitem.ShelfItem) error {
	m.items[s.ID] = s
	return nil
}

func (m *mockShelfStore) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}
