// Package legacy reads and writes the two-file JSON layout of the first
// dream bank app: users.json (a list of user ids) and bank.json (catalog,
// per-user points, and the pool).
//
// The old layout keeps one number per user. It becomes both the balance and
// the lifetime total, so imported users start at the level their remaining
// points would earn.
package legacy

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/tutu-network/dreambank/internal/domain"
)

const (
	UsersFile = "users.json"
	BankFile  = "bank.json"
)

// idSpace namespaces the deterministic IDs given to legacy catalog entries.
var idSpace = uuid.MustParse("5b0c8a3e-2f1d-4c7a-9e61-0d7f3a9b8c21")

type activityEntry struct {
	Name   string `json:"name"`
	Points int64  `json:"points"`
}

type rewardEntry struct {
	Name        string   `json:"name"`
	Cost        int64    `json:"cost"`
	PurchasedBy []string `json:"purchased_by"`
}

type userBank struct {
	ActivityPoints int64 `json:"activity_points"`
}

type bankFile struct {
	Activities []activityEntry      `json:"activities"`
	Treats     []rewardEntry        `json:"treats"`
	Dreams     []rewardEntry        `json:"dreams"`
	UserBanks  map[string]*userBank `json:"user_banks,omitempty"`
	DreamBank  *int64               `json:"dream_bank,omitempty"`
}

// ReadDir loads users.json and bank.json from dir. Missing files and
// missing keys fall back to the first-run defaults, as the old app did.
func ReadDir(dir string) (domain.Snapshot, error) {
	var users []string
	if err := readJSON(filepath.Join(dir, UsersFile), &users); err != nil {
		return domain.Snapshot{}, err
	}
	var bf bankFile
	if err := readJSON(filepath.Join(dir, BankFile), &bf); err != nil {
		return domain.Snapshot{}, err
	}

	bank := domain.DefaultBank()
	if bf.Activities != nil {
		bank.Activities = make([]domain.Activity, 0, len(bf.Activities))
		seen := make(map[string]bool, len(bf.Activities))
		for _, a := range bf.Activities {
			if err := claimName(seen, "activity", a.Name); err != nil {
				return domain.Snapshot{}, err
			}
			bank.Activities = append(bank.Activities, domain.Activity{
				ID: entryID("activity", a.Name), Name: a.Name, Points: a.Points,
			})
		}
	}
	if bf.Treats != nil {
		bank.Treats = make([]domain.Treat, 0, len(bf.Treats))
	}
	seenTreats := make(map[string]bool, len(bf.Treats))
	for _, t := range bf.Treats {
		if err := claimName(seenTreats, "treat", t.Name); err != nil {
			return domain.Snapshot{}, err
		}
		treat := domain.Treat{ID: entryID("treat", t.Name), Name: t.Name, Cost: t.Cost}
		bank.Treats = append(bank.Treats, treat)
		for _, u := range t.PurchasedBy {
			l := ledgerFor(bank, u)
			if l.Treats == nil {
				l.Treats = make(map[string]bool)
			}
			l.Treats[treat.ID] = true
		}
	}
	if bf.Dreams != nil {
		bank.Dreams = make([]domain.Dream, 0, len(bf.Dreams))
		seen := make(map[string]bool, len(bf.Dreams))
		for _, d := range bf.Dreams {
			if err := claimName(seen, "dream", d.Name); err != nil {
				return domain.Snapshot{}, err
			}
			bank.Dreams = append(bank.Dreams, domain.Dream{
				ID:         entryID("dream", d.Name),
				Name:       d.Name,
				Cost:       d.Cost,
				Purchasers: append([]string{}, d.PurchasedBy...),
			})
		}
	}
	for u, ub := range bf.UserBanks {
		if ub == nil {
			continue
		}
		l := ledgerFor(bank, u)
		l.Balance = ub.ActivityPoints
		l.Lifetime = ub.ActivityPoints
	}
	if bf.DreamBank != nil {
		bank.DreamPool = *bf.DreamBank
	}

	return domain.Snapshot{Users: users, Bank: bank}, nil
}

// WriteDir stores snap in the old two-file layout. Lifetime points, log
// entries and IDs have no place there and are dropped.
func WriteDir(dir string, snap domain.Snapshot) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	users := snap.Users
	if users == nil {
		users = []string{}
	}
	bf := bankFile{
		Activities: make([]activityEntry, 0, len(snap.Bank.Activities)),
		Treats:     make([]rewardEntry, 0, len(snap.Bank.Treats)),
		Dreams:     make([]rewardEntry, 0, len(snap.Bank.Dreams)),
		UserBanks:  make(map[string]*userBank, len(users)),
		DreamBank:  &snap.Bank.DreamPool,
	}
	for _, a := range snap.Bank.Activities {
		bf.Activities = append(bf.Activities, activityEntry{Name: a.Name, Points: a.Points})
	}
	for _, t := range snap.Bank.Treats {
		e := rewardEntry{Name: t.Name, Cost: t.Cost, PurchasedBy: []string{}}
		for _, u := range users {
			if l := snap.Bank.Ledgers[u]; l != nil && l.HasTreat(t.ID) {
				e.PurchasedBy = append(e.PurchasedBy, u)
			}
		}
		bf.Treats = append(bf.Treats, e)
	}
	for _, d := range snap.Bank.Dreams {
		bf.Dreams = append(bf.Dreams, rewardEntry{Name: d.Name, Cost: d.Cost, PurchasedBy: append([]string{}, d.Purchasers...)})
	}
	for _, u := range users {
		var points int64
		if l := snap.Bank.Ledgers[u]; l != nil {
			points = l.Balance
		}
		bf.UserBanks[u] = &userBank{ActivityPoints: points}
	}

	if err := writeJSON(filepath.Join(dir, UsersFile), users); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, BankFile), bf)
}

// claimName records name in seen. The old app allowed two entries with the
// same name; they would share an ID here, so they are refused.
func claimName(seen map[string]bool, kind, name string) error {
	if seen[name] {
		return fmt.Errorf("%w: %s lists %s %q more than once; rename or remove the copy before importing",
			domain.ErrInvalidInput, BankFile, kind, name)
	}
	seen[name] = true
	return nil
}

func entryID(kind, name string) string {
	return uuid.NewSHA1(idSpace, []byte(kind+"/"+name)).String()
}

func ledgerFor(b domain.Bank, user string) *domain.Ledger {
	l := b.Ledgers[user]
	if l == nil {
		l = &domain.Ledger{}
		b.Ledgers[user] = l
	}
	return l
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: parse %s: %v", domain.ErrInvalidInput, filepath.Base(path), err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
