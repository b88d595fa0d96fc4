// Package reward is the rules layer of the dream bank.
//
// The engine owns the AppState and applies every economy operation:
//  1. Clone the live state
//  2. Validate and mutate the clone
//  3. Commit the clone's snapshot through the gateway (one transaction)
//  4. Swap the clone in
//
// A failed validation or commit leaves both the live state and the store
// untouched. The engine holds no locks: callers serialize access.
package reward

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tutu-network/dreambank/internal/domain"
	"github.com/tutu-network/dreambank/internal/infra/logger"
	"github.com/tutu-network/dreambank/internal/infra/observability"
)

// Engine applies reward-economy operations to a persisted AppState.
type Engine struct {
	state *domain.AppState
	store domain.Gateway
	log   *logger.Logger
	now   func() time.Time
	newID func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithClock overrides the timestamp source for log entries.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDs overrides the ID generator for log and catalog entries.
func WithIDs(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// Open loads the roster, bank, and activity log from store and returns an
// engine over them. An empty store yields the first-run catalog.
func Open(ctx context.Context, store domain.Gateway, opts ...Option) (*Engine, error) {
	users, err := store.LoadUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	bank, err := store.LoadCatalogAndLedgers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	log, err := store.LoadActivityLog(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	e := &Engine{
		state: domain.NewAppState(domain.Snapshot{Users: users, Bank: bank, Log: log}),
		store: store,
		log:   logger.Discard(),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	observability.ObserveState(e.state)
	return e, nil
}

// apply runs fn against a clone of the state and commits the result.
func (e *Engine) apply(ctx context.Context, op string, fn func(s *domain.AppState) error) error {
	next := e.state.Clone()
	if err := fn(next); err != nil {
		observability.ObserveOperation(op, err)
		e.log.WithFields(logrus.Fields{"op": op, "error": err.Error()}).Debug("operation rejected")
		return err
	}

	start := time.Now()
	if err := e.store.Commit(ctx, next.Snapshot()); err != nil {
		err = fmt.Errorf("%w: %s: %v", domain.ErrPersistence, op, err)
		observability.ObserveOperation(op, err)
		e.log.WithFields(logrus.Fields{"op": op, "error": err.Error()}).Error("commit failed")
		return err
	}
	observability.ObserveCommit(start)

	e.state = next
	observability.ObserveOperation(op, nil)
	observability.ObserveState(next)
	return nil
}

// ─── Read Views ─────────────────────────────────────────────────────────────
// Reads return copies; callers cannot mutate engine state through them.

// Users returns the roster in insertion order.
func (e *Engine) Users() []string {
	return append([]string(nil), e.state.Users...)
}

// Activities returns the activity catalog.
func (e *Engine) Activities() []domain.Activity {
	return append([]domain.Activity(nil), e.state.Bank.Activities...)
}

// Treats returns the treat catalog.
func (e *Engine) Treats() []domain.Treat {
	return append([]domain.Treat(nil), e.state.Bank.Treats...)
}

// Dreams returns the dream catalog with purchaser lists.
func (e *Engine) Dreams() []domain.Dream {
	return e.state.Snapshot().Bank.Dreams
}

// Pool returns the shared dream pool balance.
func (e *Engine) Pool() int64 {
	return e.state.Bank.DreamPool
}

// Ledger returns a copy of the user's ledger.
func (e *Engine) Ledger(user string) (domain.Ledger, error) {
	l, err := e.state.Ledger(user)
	if err != nil {
		return domain.Ledger{}, err
	}
	cp := domain.Ledger{Balance: l.Balance, Lifetime: l.Lifetime}
	if len(l.Treats) > 0 {
		cp.Treats = make(map[string]bool, len(l.Treats))
		for id, ok := range l.Treats {
			cp.Treats[id] = ok
		}
	}
	return cp, nil
}

// Log returns the user's activity log in insertion order.
func (e *Engine) Log(user string) ([]domain.LogEntry, error) {
	if !e.state.HasUser(user) {
		return nil, fmt.Errorf("%w: user %q", domain.ErrNotFound, user)
	}
	return append([]domain.LogEntry{}, e.state.Log[user]...), nil
}

// Export returns a deep copy of the full state.
func (e *Engine) Export() domain.Snapshot {
	return e.state.Snapshot()
}
