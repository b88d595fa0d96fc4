package domain

import "fmt"

// ─── Application State ──────────────────────────────────────────────────────

// AppState is the whole economy: roster, catalog, ledgers, activity log,
// and the shared dream pool. It is a plain value owned by the reward engine;
// nothing here is global.
type AppState struct {
	Users []string
	Bank  Bank
	Log   map[string][]LogEntry
}

// NewAppState builds a state from a snapshot.
// Every rostered user is guaranteed a ledger; ledgers and logs of users
// missing from the roster are dropped.
func NewAppState(snap Snapshot) *AppState {
	s := &AppState{
		Users: append([]string(nil), snap.Users...),
		Bank:  cloneBank(snap.Bank),
		Log:   make(map[string][]LogEntry, len(snap.Users)),
	}
	rostered := make(map[string]bool, len(s.Users))
	for _, u := range s.Users {
		rostered[u] = true
		if s.Bank.Ledgers[u] == nil {
			s.Bank.Ledgers[u] = &Ledger{}
		}
		if entries := snap.Log[u]; len(entries) > 0 {
			s.Log[u] = append([]LogEntry(nil), entries...)
		}
	}
	for u := range s.Bank.Ledgers {
		if !rostered[u] {
			delete(s.Bank.Ledgers, u)
		}
	}
	return s
}

// Clone returns a deep copy that can be mutated independently.
func (s *AppState) Clone() *AppState {
	return NewAppState(s.Snapshot())
}

// Snapshot returns a deep copy of the state in its persisted shape.
func (s *AppState) Snapshot() Snapshot {
	log := make(map[string][]LogEntry, len(s.Log))
	for u, entries := range s.Log {
		log[u] = append([]LogEntry(nil), entries...)
	}
	return Snapshot{
		Users: append([]string(nil), s.Users...),
		Bank:  cloneBank(s.Bank),
		Log:   log,
	}
}

// ─── Lookups ────────────────────────────────────────────────────────────────
// Catalog references resolve by ID first, then by exact name.

// HasUser reports whether id is on the roster.
func (s *AppState) HasUser(id string) bool {
	for _, u := range s.Users {
		if u == id {
			return true
		}
	}
	return false
}

// Ledger returns the user's ledger. It never creates one: unknown users
// yield ErrNotFound.
func (s *AppState) Ledger(user string) (*Ledger, error) {
	if !s.HasUser(user) {
		return nil, fmt.Errorf("%w: user %q", ErrNotFound, user)
	}
	l := s.Bank.Ledgers[user]
	if l == nil {
		// Rostered users always carry a ledger; repair rather than fail.
		l = &Ledger{}
		s.Bank.Ledgers[user] = l
	}
	return l, nil
}

// FindActivity returns the index of the referenced activity.
func (s *AppState) FindActivity(ref string) (int, error) {
	for pass := 0; pass < 2; pass++ {
		for i, a := range s.Bank.Activities {
			if (pass == 0 && a.ID == ref) || (pass == 1 && a.Name == ref) {
				return i, nil
			}
		}
	}
	return -1, fmt.Errorf("%w: activity %q", ErrNotFound, ref)
}

// FindTreat returns the index of the referenced treat.
func (s *AppState) FindTreat(ref string) (int, error) {
	for pass := 0; pass < 2; pass++ {
		for i, t := range s.Bank.Treats {
			if (pass == 0 && t.ID == ref) || (pass == 1 && t.Name == ref) {
				return i, nil
			}
		}
	}
	return -1, fmt.Errorf("%w: treat %q", ErrNotFound, ref)
}

// FindDream returns the index of the referenced dream.
func (s *AppState) FindDream(ref string) (int, error) {
	for pass := 0; pass < 2; pass++ {
		for i, d := range s.Bank.Dreams {
			if (pass == 0 && d.ID == ref) || (pass == 1 && d.Name == ref) {
				return i, nil
			}
		}
	}
	return -1, fmt.Errorf("%w: dream %q", ErrNotFound, ref)
}

// FindLogEntry returns the index of the entry with the given ID in the
// user's log.
func (s *AppState) FindLogEntry(user, entryID string) (int, error) {
	if !s.HasUser(user) {
		return -1, fmt.Errorf("%w: user %q", ErrNotFound, user)
	}
	for i, e := range s.Log[user] {
		if e.ID == entryID {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: log entry %q for user %q", ErrNotFound, entryID, user)
}

func cloneBank(b Bank) Bank {
	out := Bank{
		Activities: append([]Activity(nil), b.Activities...),
		Treats:     append([]Treat(nil), b.Treats...),
		Dreams:     make([]Dream, len(b.Dreams)),
		Ledgers:    make(map[string]*Ledger, len(b.Ledgers)),
		DreamPool:  b.DreamPool,
	}
	for i, d := range b.Dreams {
		d.Purchasers = append([]string{}, d.Purchasers...)
		out.Dreams[i] = d
	}
	for u, l := range b.Ledgers {
		if l == nil {
			continue
		}
		cp := &Ledger{Balance: l.Balance, Lifetime: l.Lifetime}
		if len(l.Treats) > 0 {
			cp.Treats = make(map[string]bool, len(l.Treats))
			for id, ok := range l.Treats {
				if ok {
					cp.Treats[id] = true
				}
			}
		}
		out.Ledgers[u] = cp
	}
	return out
}
