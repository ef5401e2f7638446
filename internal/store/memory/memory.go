// Package memory is a mutex-guarded in-process Store, used for
// development and as the test double for the sqlite implementation.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/core"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/store"
)

type Store struct {
	mu       sync.Mutex
	records  map[string]map[string]core.FinancialRecord
	goals    map[string]map[string]core.SavingsGoal
	units    map[string]map[string]core.RentalUnit
	billings map[string]map[string]core.RentalBillingRecord
	users    map[string]store.User // keyed by id
	emails   map[string]string     // lower(email) -> id
	settings map[string]store.Settings
}

func New() *Store {
	return &Store{
		records:  make(map[string]map[string]core.FinancialRecord),
		goals:    make(map[string]map[string]core.SavingsGoal),
		units:    make(map[string]map[string]core.RentalUnit),
		billings: make(map[string]map[string]core.RentalBillingRecord),
		users:    make(map[string]store.User),
		emails:   make(map[string]string),
		settings: make(map[string]store.Settings),
	}
}

func (s *Store) ListTransactions(_ context.Context, userID string) ([]core.FinancialRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.FinancialRecord, 0, len(s.records[userID]))
	for _, r := range s.records[userID] {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		ki, kj := out[i].OccurredOn.Key(), out[j].OccurredOn.Key()
		if ki != kj {
			return ki > kj // most recent day first
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetTransaction(_ context.Context, userID, id string) (core.FinancialRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[userID][id]
	if !ok {
		return core.FinancialRecord{}, store.ErrNotFound
	}
	return r, nil
}

func (s *Store) CreateTransaction(_ context.Context, userID string, r core.FinancialRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records[userID] == nil {
		s.records[userID] = make(map[string]core.FinancialRecord)
	}
	if _, ok := s.records[userID][r.ID]; ok {
		return store.ErrConflict
	}
	s.records[userID][r.ID] = r
	return nil
}

func (s *Store) UpdateTransaction(_ context.Context, userID string, r core.FinancialRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[userID][r.ID]; !ok {
		return store.ErrNotFound
	}
	s.records[userID][r.ID] = r
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[userID][id]; !ok {
		return store.ErrNotFound
	}
	delete(s.records[userID], id)
	return nil
}

func (s *Store) ListGoals(_ context.Context, userID string) ([]core.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.SavingsGoal, 0, len(s.goals[userID]))
	for _, g := range s.goals[userID] {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetGoal(_ context.Context, userID, id string) (core.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[userID][id]
	if !ok {
		return core.SavingsGoal{}, store.ErrNotFound
	}
	return g, nil
}

func (s *Store) CreateGoal(_ context.Context, userID string, g core.SavingsGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.goals[userID] == nil {
		s.goals[userID] = make(map[string]core.SavingsGoal)
	}
	if _, ok := s.goals[userID][g.ID]; ok {
		return store.ErrConflict
	}
	s.goals[userID][g.ID] = g
	return nil
}

func (s *Store) UpdateGoal(_ context.Context, userID string, g core.SavingsGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.goals[userID][g.ID]; !ok {
		return store.ErrNotFound
	}
	s.goals[userID][g.ID] = g
	return nil
}

func (s *Store) DeleteGoal(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.goals[userID][id]; !ok {
		return store.ErrNotFound
	}
	delete(s.goals[userID], id)
	return nil
}

func (s *Store) ListUnits(_ context.Context, userID string) ([]core.RentalUnit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.RentalUnit, 0, len(s.units[userID]))
	for _, u := range s.units[userID] {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UnitLabel < out[j].UnitLabel })
	return out, nil
}

func (s *Store) GetUnit(_ context.Context, userID, id string) (core.RentalUnit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.units[userID][id]
	if !ok {
		return core.RentalUnit{}, store.ErrNotFound
	}
	return u, nil
}

func (s *Store) CreateUnit(_ context.Context, userID string, u core.RentalUnit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.units[userID] == nil {
		s.units[userID] = make(map[string]core.RentalUnit)
	}
	if _, ok := s.units[userID][u.ID]; ok {
		return store.ErrConflict
	}
	s.units[userID][u.ID] = u
	return nil
}

func (s *Store) UpdateUnit(_ context.Context, userID string, u core.RentalUnit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.units[userID][u.ID]; !ok {
		return store.ErrNotFound
	}
	s.units[userID][u.ID] = u
	return nil
}

// DeleteUnit removes a unit and cascades to its billing records.
func (s *Store) DeleteUnit(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.units[userID][id]; !ok {
		return store.ErrNotFound
	}
	delete(s.units[userID], id)
	for bid, b := range s.billings[userID] {
		if b.UnitID == id {
			delete(s.billings[userID], bid)
		}
	}
	return nil
}

func (s *Store) ListBillingRecords(_ context.Context, userID, unitID string) ([]core.RentalBillingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.RentalBillingRecord, 0, len(s.billings[userID]))
	for _, b := range s.billings[userID] {
		if unitID != "" && b.UnitID != unitID {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BillingMonth != out[j].BillingMonth {
			return out[i].BillingMonth > out[j].BillingMonth
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetBillingRecord(_ context.Context, userID, id string) (core.RentalBillingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.billings[userID][id]
	if !ok {
		return core.RentalBillingRecord{}, store.ErrNotFound
	}
	return b, nil
}

func (s *Store) CreateBillingRecord(_ context.Context, userID string, b core.RentalBillingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.units[userID][b.UnitID]; !ok {
		return store.ErrNotFound
	}
	if s.billings[userID] == nil {
		s.billings[userID] = make(map[string]core.RentalBillingRecord)
	}
	if _, ok := s.billings[userID][b.ID]; ok {
		return store.ErrConflict
	}
	s.billings[userID][b.ID] = b
	return nil
}

func (s *Store) SetBillingStatus(_ context.Context, userID, id string, status core.PaymentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.billings[userID][id]
	if !ok {
		return store.ErrNotFound
	}
	b.Status = status
	s.billings[userID][id] = b
	return nil
}

func (s *Store) CreateUser(_ context.Context, u store.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(u.Email)
	if _, ok := s.emails[key]; ok {
		return store.ErrConflict
	}
	s.users[u.ID] = u
	s.emails[key] = u.ID
	return nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.emails[strings.ToLower(email)]
	if !ok {
		return store.User{}, store.ErrNotFound
	}
	return s.users[id], nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return store.User{}, store.ErrNotFound
	}
	return u, nil
}

func (s *Store) GetSettings(_ context.Context, userID string) (store.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.settings[userID]
	if !ok {
		return store.Settings{}, store.ErrNotFound
	}
	return st, nil
}

func (s *Store) SaveSettings(_ context.Context, st store.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[st.UserID] = st
	return nil
}

func (s *Store) Close() error { return nil }
