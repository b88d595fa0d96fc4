package domain

import "context"

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; application layer depends on them.

// Gateway abstracts durable storage of the roster, the bank, and the
// activity log. Loads return first-run defaults when nothing was saved yet.
type Gateway interface {
	LoadUsers(ctx context.Context) ([]string, error)
	SaveUsers(ctx context.Context, users []string) error

	LoadCatalogAndLedgers(ctx context.Context) (Bank, error)
	SaveCatalogAndLedgers(ctx context.Context, bank Bank) error

	LoadActivityLog(ctx context.Context) (map[string][]LogEntry, error)
	SaveActivityLog(ctx context.Context, log map[string][]LogEntry) error

	// Commit persists a full snapshot atomically: either every part is
	// written or none is.
	Commit(ctx context.Context, snap Snapshot) error
}
