package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tutu-network/dreambank/internal/domain"
)

var _ domain.Gateway = (*DB)(nil)

// ─── Users ──────────────────────────────────────────────────────────────────

// LoadUsers returns the roster in insertion order.
func (db *DB) LoadUsers(ctx context.Context) ([]string, error) {
	rows, err := db.db.QueryContext(ctx, `SELECT id FROM users ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	defer rows.Close()

	users := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, id)
	}
	return users, rows.Err()
}

// SaveUsers replaces the roster.
func (db *DB) SaveUsers(ctx context.Context, users []string) error {
	return db.withTx(ctx, func(tx *sql.Tx) error { return saveUsers(ctx, tx, users) })
}

func saveUsers(ctx context.Context, tx *sql.Tx, users []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM users`); err != nil {
		return fmt.Errorf("clear users: %w", err)
	}
	for i, u := range users {
		if _, err := tx.ExecContext(ctx, `INSERT INTO users (id, position) VALUES (?, ?)`, u, i); err != nil {
			return fmt.Errorf("insert user %q: %w", u, err)
		}
	}
	return nil
}

// ─── Catalog & Ledgers ──────────────────────────────────────────────────────

// LoadCatalogAndLedgers returns the bank, or domain.DefaultBank() if no bank
// has ever been saved.
func (db *DB) LoadCatalogAndLedgers(ctx context.Context) (domain.Bank, error) {
	var pool int64
	err := db.db.QueryRowContext(ctx, `SELECT dream_pool FROM bank_state WHERE id = 1`).Scan(&pool)
	if err == sql.ErrNoRows {
		return domain.DefaultBank(), nil
	}
	if err != nil {
		return domain.Bank{}, fmt.Errorf("load bank state: %w", err)
	}

	bank := domain.Bank{
		Activities: []domain.Activity{},
		Treats:     []domain.Treat{},
		Dreams:     []domain.Dream{},
		Ledgers:    make(map[string]*domain.Ledger),
		DreamPool:  pool,
	}
	if err := db.loadCatalog(ctx, &bank); err != nil {
		return domain.Bank{}, err
	}
	if err := db.loadLedgers(ctx, &bank); err != nil {
		return domain.Bank{}, err
	}
	return bank, nil
}

func (db *DB) loadCatalog(ctx context.Context, bank *domain.Bank) error {
	rows, err := db.db.QueryContext(ctx, `SELECT id, name, points FROM activities ORDER BY position`)
	if err != nil {
		return fmt.Errorf("load activities: %w", err)
	}
	for rows.Next() {
		var a domain.Activity
		if err := rows.Scan(&a.ID, &a.Name, &a.Points); err != nil {
			rows.Close()
			return fmt.Errorf("scan activity: %w", err)
		}
		bank.Activities = append(bank.Activities, a)
	}
	rows.Close()

	rows, err = db.db.QueryContext(ctx, `SELECT id, name, cost FROM treats ORDER BY position`)
	if err != nil {
		return fmt.Errorf("load treats: %w", err)
	}
	for rows.Next() {
		var t domain.Treat
		if err := rows.Scan(&t.ID, &t.Name, &t.Cost); err != nil {
			rows.Close()
			return fmt.Errorf("scan treat: %w", err)
		}
		bank.Treats = append(bank.Treats, t)
	}
	rows.Close()

	rows, err = db.db.QueryContext(ctx, `SELECT id, name, cost FROM dreams ORDER BY position`)
	if err != nil {
		return fmt.Errorf("load dreams: %w", err)
	}
	index := make(map[string]int)
	for rows.Next() {
		d := domain.Dream{Purchasers: []string{}}
		if err := rows.Scan(&d.ID, &d.Name, &d.Cost); err != nil {
			rows.Close()
			return fmt.Errorf("scan dream: %w", err)
		}
		index[d.ID] = len(bank.Dreams)
		bank.Dreams = append(bank.Dreams, d)
	}
	rows.Close()

	rows, err = db.db.QueryContext(ctx, `SELECT dream_id, user_id FROM dream_purchasers ORDER BY dream_id, position`)
	if err != nil {
		return fmt.Errorf("load dream purchasers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var dreamID, userID string
		if err := rows.Scan(&dreamID, &userID); err != nil {
			return fmt.Errorf("scan dream purchaser: %w", err)
		}
		if i, ok := index[dreamID]; ok {
			bank.Dreams[i].Purchasers = append(bank.Dreams[i].Purchasers, userID)
		}
	}
	return rows.Err()
}

func (db *DB) loadLedgers(ctx context.Context, bank *domain.Bank) error {
	rows, err := db.db.QueryContext(ctx, `SELECT user_id, balance, lifetime FROM ledgers`)
	if err != nil {
		return fmt.Errorf("load ledgers: %w", err)
	}
	for rows.Next() {
		var user string
		l := &domain.Ledger{}
		if err := rows.Scan(&user, &l.Balance, &l.Lifetime); err != nil {
			rows.Close()
			return fmt.Errorf("scan ledger: %w", err)
		}
		bank.Ledgers[user] = l
	}
	rows.Close()

	rows, err = db.db.QueryContext(ctx, `SELECT user_id, treat_id FROM treat_purchases`)
	if err != nil {
		return fmt.Errorf("load treat purchases: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var user, treatID string
		if err := rows.Scan(&user, &treatID); err != nil {
			return fmt.Errorf("scan treat purchase: %w", err)
		}
		l := bank.Ledgers[user]
		if l == nil {
			l = &domain.Ledger{}
			bank.Ledgers[user] = l
		}
		if l.Treats == nil {
			l.Treats = make(map[string]bool)
		}
		l.Treats[treatID] = true
	}
	return rows.Err()
}

// SaveCatalogAndLedgers replaces the catalog, every ledger, and the pool.
func (db *DB) SaveCatalogAndLedgers(ctx context.Context, bank domain.Bank) error {
	return db.withTx(ctx, func(tx *sql.Tx) error { return saveBank(ctx, tx, bank) })
}

func saveBank(ctx context.Context, tx *sql.Tx, bank domain.Bank) error {
	for _, table := range []string{"activities", "treats", "dreams", "dream_purchasers", "ledgers", "treat_purchases"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i, a := range bank.Activities {
		if _, err := tx.ExecContext(ctx, `INSERT INTO activities (id, position, name, points) VALUES (?, ?, ?, ?)`,
			a.ID, i, a.Name, a.Points); err != nil {
			return fmt.Errorf("insert activity %q: %w", a.Name, err)
		}
	}
	for i, t := range bank.Treats {
		if _, err := tx.ExecContext(ctx, `INSERT INTO treats (id, position, name, cost) VALUES (?, ?, ?, ?)`,
			t.ID, i, t.Name, t.Cost); err != nil {
			return fmt.Errorf("insert treat %q: %w", t.Name, err)
		}
	}
	for i, d := range bank.Dreams {
		if _, err := tx.ExecContext(ctx, `INSERT INTO dreams (id, position, name, cost) VALUES (?, ?, ?, ?)`,
			d.ID, i, d.Name, d.Cost); err != nil {
			return fmt.Errorf("insert dream %q: %w", d.Name, err)
		}
		for j, u := range d.Purchasers {
			if _, err := tx.ExecContext(ctx, `INSERT INTO dream_purchasers (dream_id, user_id, position) VALUES (?, ?, ?)`,
				d.ID, u, j); err != nil {
				return fmt.Errorf("insert purchaser %q of %q: %w", u, d.Name, err)
			}
		}
	}

	for user, l := range bank.Ledgers {
		if l == nil {
			continue
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO ledgers (user_id, balance, lifetime) VALUES (?, ?, ?)`,
			user, l.Balance, l.Lifetime); err != nil {
			return fmt.Errorf("insert ledger %q: %w", user, err)
		}
		for treatID, ok := range l.Treats {
			if !ok {
				continue
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO treat_purchases (user_id, treat_id) VALUES (?, ?)`,
				user, treatID); err != nil {
				return fmt.Errorf("insert treat purchase %q/%q: %w", user, treatID, err)
			}
		}
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO bank_state (id, dream_pool) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET
			dream_pool = excluded.dream_pool,
			saved_at   = datetime('now')
	`, bank.DreamPool)
	if err != nil {
		return fmt.Errorf("save bank state: %w", err)
	}
	return nil
}

// ─── Activity Log ───────────────────────────────────────────────────────────

// LoadActivityLog returns every user's log in insertion order.
func (db *DB) LoadActivityLog(ctx context.Context) (map[string][]domain.LogEntry, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT id, user_id, timestamp, kind, activity, points, level, bonus_for
		FROM activity_log ORDER BY user_id, seq
	`)
	if err != nil {
		return nil, fmt.Errorf("load activity log: %w", err)
	}
	defer rows.Close()

	log := make(map[string][]domain.LogEntry)
	for rows.Next() {
		var (
			e    domain.LogEntry
			user string
			ts   string
			kind string
		)
		if err := rows.Scan(&e.ID, &user, &ts, &kind, &e.Activity, &e.Points, &e.Level, &e.BonusFor); err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		e.Kind = domain.EntryKind(kind)
		e.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp of %s: %w", e.ID, err)
		}
		log[user] = append(log[user], e)
	}
	return log, rows.Err()
}

// SaveActivityLog replaces the activity log.
func (db *DB) SaveActivityLog(ctx context.Context, log map[string][]domain.LogEntry) error {
	return db.withTx(ctx, func(tx *sql.Tx) error { return saveLog(ctx, tx, log) })
}

func saveLog(ctx context.Context, tx *sql.Tx, log map[string][]domain.LogEntry) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM activity_log`); err != nil {
		return fmt.Errorf("clear activity log: %w", err)
	}
	for user, entries := range log {
		for seq, e := range entries {
			kind := e.Kind
			if kind == "" {
				kind = domain.EntryActivity
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO activity_log (id, user_id, seq, timestamp, kind, activity, points, level, bonus_for)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, e.ID, user, seq, e.Timestamp.UTC().Format(time.RFC3339Nano), string(kind), e.Activity, e.Points, e.Level, e.BonusFor); err != nil {
				return fmt.Errorf("insert log entry %s: %w", e.ID, err)
			}
		}
	}
	return nil
}

// ─── Snapshot ───────────────────────────────────────────────────────────────

// Commit writes roster, bank, and log in one transaction.
func (db *DB) Commit(ctx context.Context, snap domain.Snapshot) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		if err := saveUsers(ctx, tx, snap.Users); err != nil {
			return err
		}
		if err := saveBank(ctx, tx, snap.Bank); err != nil {
			return err
		}
		return saveLog(ctx, tx, snap.Log)
	})
}
