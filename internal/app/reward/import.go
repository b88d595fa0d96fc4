package reward

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tutu-network/dreambank/internal/domain"
)

// Import replaces the whole state with snap after validating it. Missing
// IDs are generated; the snapshot must otherwise satisfy every invariant
// the engine maintains (unique users and names, positive amounts,
// non-negative balances and pool).
func (e *Engine) Import(ctx context.Context, snap domain.Snapshot) error {
	err := e.apply(ctx, "import", func(s *domain.AppState) error {
		next, err := e.normalize(snap)
		if err != nil {
			return err
		}
		*s = *next
		return nil
	})
	if err == nil {
		e.log.WithFields(logrus.Fields{
			"users":      len(snap.Users),
			"activities": len(snap.Bank.Activities),
			"treats":     len(snap.Bank.Treats),
			"dreams":     len(snap.Bank.Dreams),
			"pool":       snap.Bank.DreamPool,
		}).Info("snapshot imported")
	}
	return err
}

func (e *Engine) normalize(snap domain.Snapshot) (*domain.AppState, error) {
	users := make([]string, len(snap.Users))
	seen := make(map[string]bool, len(snap.Users))
	for i, u := range snap.Users {
		u = strings.TrimSpace(u)
		if u == "" {
			return nil, fmt.Errorf("%w: user id must not be empty", domain.ErrInvalidInput)
		}
		if seen[u] {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateUser, u)
		}
		seen[u] = true
		users[i] = u
	}
	snap.Users = users

	s := domain.NewAppState(snap)
	b := &s.Bank
	if b.DreamPool < 0 || b.DreamPool > domain.MaxPoints {
		return nil, fmt.Errorf("%w: dream pool %d is outside [0, %d]", domain.ErrInvalidInput, b.DreamPool, domain.MaxPoints)
	}

	for i := range b.Activities {
		a := &b.Activities[i]
		if a.ID == "" {
			a.ID = e.newID()
		}
		if err := uniqueID(b.Activities[:i], a.ID, activityKey); err != nil {
			return nil, err
		}
		if err := validateName(b.Activities[:i], a.Name, a.Points, "", activityKey); err != nil {
			return nil, err
		}
	}
	for i := range b.Treats {
		t := &b.Treats[i]
		if t.ID == "" {
			t.ID = e.newID()
		}
		if err := uniqueID(b.Treats[:i], t.ID, treatKey); err != nil {
			return nil, err
		}
		if err := validateName(b.Treats[:i], t.Name, t.Cost, "", treatKey); err != nil {
			return nil, err
		}
	}
	for i := range b.Dreams {
		d := &b.Dreams[i]
		if d.ID == "" {
			d.ID = e.newID()
		}
		if err := uniqueID(b.Dreams[:i], d.ID, dreamKey); err != nil {
			return nil, err
		}
		if err := validateName(b.Dreams[:i], d.Name, d.Cost, "", dreamKey); err != nil {
			return nil, err
		}
		d.Purchasers = dedupe(d.Purchasers)
	}

	for u, l := range b.Ledgers {
		if l.Balance < 0 || l.Lifetime < 0 || l.Balance > domain.MaxPoints || l.Lifetime > domain.MaxPoints {
			return nil, fmt.Errorf("%w: ledger of %q is outside [0, %d]", domain.ErrInvalidInput, u, domain.MaxPoints)
		}
	}
	ids := make(map[string]bool)
	for u, entries := range s.Log {
		for i := range entries {
			if entries[i].ID == "" {
				entries[i].ID = e.newID()
			}
			if ids[entries[i].ID] {
				return nil, fmt.Errorf("%w: duplicate log entry id %q", domain.ErrInvalidInput, entries[i].ID)
			}
			ids[entries[i].ID] = true
			if entries[i].Points < 0 || entries[i].Points > domain.MaxPoints {
				return nil, fmt.Errorf("%w: log entry %q has %d points", domain.ErrInvalidInput, entries[i].ID, entries[i].Points)
			}
			if entries[i].Kind == "" {
				entries[i].Kind = domain.EntryActivity
			}
		}
		s.Log[u] = entries
	}
	return s, nil
}

// uniqueID rejects an entry whose ID is already used by an earlier one.
func uniqueID[T any](earlier []T, id string, key func(T) (string, string)) error {
	for _, entry := range earlier {
		if other, name := key(entry); other == id {
			return fmt.Errorf("%w: id %q is used by %q and a later entry", domain.ErrInvalidInput, id, name)
		}
	}
	return nil
}

func dedupe(users []string) []string {
	out := make([]string, 0, len(users))
	seen := make(map[string]bool, len(users))
	for _, u := range users {
		if !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}
	return out
}
