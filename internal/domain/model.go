// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring: catalog entries, ledgers, the activity log,
// the shared dream pool, and the level curve all live here.
package domain

import (
	"fmt"
	"strings"
)

// ─── Catalog Types ──────────────────────────────────────────────────────────

// Activity is an exercise definition and the points it awards.
type Activity struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Points int64  `json:"points"`
}

// Treat is a personal reward bought with a user's own points.
// Purchase state is tracked per user on the Ledger, not here.
type Treat struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Cost int64  `json:"cost"`
}

// Dream is a shared reward bought from the dream pool.
// Each user may buy it once; every purchase debits the pool.
type Dream struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Cost       int64    `json:"cost"`
	Purchasers []string `json:"purchasers"`
}

// PurchasedBy reports whether user has bought this dream.
func (d *Dream) PurchasedBy(user string) bool {
	for _, u := range d.Purchasers {
		if u == user {
			return true
		}
	}
	return false
}

// ─── Ledger Types ───────────────────────────────────────────────────────────

// Ledger is a user's point account.
//
// Balance is what the user can spend. Lifetime is every point ever credited
// (minus retracted log entries) and drives the level; purchases never touch it.
type Ledger struct {
	Balance  int64           `json:"balance"`
	Lifetime int64           `json:"lifetime"`
	Treats   map[string]bool `json:"treats,omitempty"` // treat ID → purchased
}

// HasTreat reports whether the treat with the given ID was purchased.
func (l *Ledger) HasTreat(treatID string) bool {
	return l.Treats[treatID]
}

// Level returns the level derived from lifetime points.
func (l *Ledger) Level() Level {
	return LevelFor(l.Lifetime)
}

// ─── Snapshot Types ─────────────────────────────────────────────────────────

// Bank is the catalog plus every ledger and the dream pool, the unit
// persisted by SaveCatalogAndLedgers.
type Bank struct {
	Activities []Activity         `json:"activities"`
	Treats     []Treat            `json:"treats"`
	Dreams     []Dream            `json:"dreams"`
	Ledgers    map[string]*Ledger `json:"user_banks"`
	DreamPool  int64              `json:"dream_bank"`
}

// Snapshot is the complete durable state: roster, bank, and activity log.
type Snapshot struct {
	Users []string              `json:"users"`
	Bank  Bank                  `json:"bank"`
	Log   map[string][]LogEntry `json:"log"`
}

// DefaultBank returns the first-run catalog.
// IDs are deterministic so a fresh database always seeds the same rows.
func DefaultBank() Bank {
	return Bank{
		Activities: []Activity{
			{ID: "seed-activity-run-5km", Name: "Run 5km", Points: 10},
			{ID: "seed-activity-yoga-30min", Name: "Yoga 30min", Points: 5},
		},
		Treats: []Treat{
			{ID: "seed-treat-ice-cream", Name: "Ice Cream", Cost: 15},
		},
		Dreams: []Dream{
			{ID: "seed-dream-weekend-trip", Name: "Weekend Trip", Cost: 100, Purchasers: []string{}},
		},
		Ledgers: make(map[string]*Ledger),
	}
}

// ─── Validation ─────────────────────────────────────────────────────────────

// Amount limits. Catalog amounts and accumulated points are bounded so that
// no ledger, pool, or level computation can overflow.
const (
	MaxAmount = 1_000_000_000
	MaxPoints = 1_000_000_000_000_000
)

// ValidateEntry checks the name/amount pair shared by every catalog entry.
func ValidateEntry(name string, amount int64) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
	}
	if amount < 1 {
		return fmt.Errorf("%w: %q must cost or award at least 1 point, got %d", ErrInvalidInput, name, amount)
	}
	if amount > MaxAmount {
		return fmt.Errorf("%w: %q must cost or award at most %d points, got %d", ErrInvalidInput, name, MaxAmount, amount)
	}
	return nil
}

// AddPoints returns total+delta for a non-negative delta, refusing results
// above MaxPoints.
func AddPoints(total, delta int64) (int64, error) {
	if delta < 0 || total > MaxPoints || delta > MaxPoints-total {
		return 0, fmt.Errorf("%w: crediting %d to %d exceeds the %d point limit", ErrInvalidInput, delta, total, MaxPoints)
	}
	return total + delta, nil
}

// Credit adds points to both the balance and lifetime total.
func (l *Ledger) Credit(points int64) error {
	balance, err := AddPoints(l.Balance, points)
	if err != nil {
		return err
	}
	lifetime, err := AddPoints(l.Lifetime, points)
	if err != nil {
		return err
	}
	l.Balance, l.Lifetime = balance, lifetime
	return nil
}

// Percent returns min(have/want, 1) * 100, rounded to one decimal.
func Percent(have, want int64) float64 {
	if want <= 0 {
		return 100
	}
	if have <= 0 {
		return 0
	}
	if have >= want {
		return 100
	}
	return float64(int64(float64(have)/float64(want)*1000+0.5)) / 10
}
