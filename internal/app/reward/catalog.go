package reward

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tutu-network/dreambank/internal/domain"
)

// ─── Catalog Store ──────────────────────────────────────────────────────────
// Names are unique per catalog. Edits keep the entry's ID, so purchase
// history (dream purchasers, per-user treat flags) survives renames and
// re-pricing. Nothing here touches recorded log entries.

// AddActivity adds an activity worth points.
func (e *Engine) AddActivity(ctx context.Context, name string, points int64) (domain.Activity, error) {
	a := domain.Activity{ID: e.newID(), Name: strings.TrimSpace(name), Points: points}
	err := e.apply(ctx, "add_activity", func(s *domain.AppState) error {
		if err := validateName(s.Bank.Activities, a.Name, points, "", activityKey); err != nil {
			return err
		}
		s.Bank.Activities = append(s.Bank.Activities, a)
		return nil
	})
	if err != nil {
		return domain.Activity{}, err
	}
	e.logCatalog("activity added", a.ID, a.Name, a.Points)
	return a, nil
}

// EditActivity renames and re-points the referenced activity.
func (e *Engine) EditActivity(ctx context.Context, ref, name string, points int64) (domain.Activity, error) {
	var out domain.Activity
	err := e.apply(ctx, "edit_activity", func(s *domain.AppState) error {
		i, err := s.FindActivity(ref)
		if err != nil {
			return err
		}
		a := &s.Bank.Activities[i]
		name := strings.TrimSpace(name)
		if err := validateName(s.Bank.Activities, name, points, a.ID, activityKey); err != nil {
			return err
		}
		a.Name, a.Points = name, points
		out = *a
		return nil
	})
	if err != nil {
		return domain.Activity{}, err
	}
	e.logCatalog("activity edited", out.ID, out.Name, out.Points)
	return out, nil
}

// RemoveActivity deletes the referenced activity. Logged completions keep
// their recorded points.
func (e *Engine) RemoveActivity(ctx context.Context, ref string) error {
	return e.apply(ctx, "remove_activity", func(s *domain.AppState) error {
		i, err := s.FindActivity(ref)
		if err != nil {
			return err
		}
		s.Bank.Activities = append(s.Bank.Activities[:i], s.Bank.Activities[i+1:]...)
		return nil
	})
}

// AddTreat adds a treat costing cost points.
func (e *Engine) AddTreat(ctx context.Context, name string, cost int64) (domain.Treat, error) {
	t := domain.Treat{ID: e.newID(), Name: strings.TrimSpace(name), Cost: cost}
	err := e.apply(ctx, "add_treat", func(s *domain.AppState) error {
		if err := validateName(s.Bank.Treats, t.Name, cost, "", treatKey); err != nil {
			return err
		}
		s.Bank.Treats = append(s.Bank.Treats, t)
		return nil
	})
	if err != nil {
		return domain.Treat{}, err
	}
	e.logCatalog("treat added", t.ID, t.Name, t.Cost)
	return t, nil
}

// EditTreat renames and re-prices the referenced treat.
func (e *Engine) EditTreat(ctx context.Context, ref, name string, cost int64) (domain.Treat, error) {
	var out domain.Treat
	err := e.apply(ctx, "edit_treat", func(s *domain.AppState) error {
		i, err := s.FindTreat(ref)
		if err != nil {
			return err
		}
		t := &s.Bank.Treats[i]
		name := strings.TrimSpace(name)
		if err := validateName(s.Bank.Treats, name, cost, t.ID, treatKey); err != nil {
			return err
		}
		t.Name, t.Cost = name, cost
		out = *t
		return nil
	})
	if err != nil {
		return domain.Treat{}, err
	}
	e.logCatalog("treat edited", out.ID, out.Name, out.Cost)
	return out, nil
}

// RemoveTreat deletes the referenced treat.
func (e *Engine) RemoveTreat(ctx context.Context, ref string) error {
	return e.apply(ctx, "remove_treat", func(s *domain.AppState) error {
		i, err := s.FindTreat(ref)
		if err != nil {
			return err
		}
		s.Bank.Treats = append(s.Bank.Treats[:i], s.Bank.Treats[i+1:]...)
		return nil
	})
}

// AddDream adds a shared dream costing cost pool points.
func (e *Engine) AddDream(ctx context.Context, name string, cost int64) (domain.Dream, error) {
	d := domain.Dream{ID: e.newID(), Name: strings.TrimSpace(name), Cost: cost, Purchasers: []string{}}
	err := e.apply(ctx, "add_dream", func(s *domain.AppState) error {
		if err := validateName(s.Bank.Dreams, d.Name, cost, "", dreamKey); err != nil {
			return err
		}
		s.Bank.Dreams = append(s.Bank.Dreams, d)
		return nil
	})
	if err != nil {
		return domain.Dream{}, err
	}
	e.logCatalog("dream added", d.ID, d.Name, d.Cost)
	return d, nil
}

// EditDream renames and re-prices the referenced dream. Purchasers are kept.
func (e *Engine) EditDream(ctx context.Context, ref, name string, cost int64) (domain.Dream, error) {
	var out domain.Dream
	err := e.apply(ctx, "edit_dream", func(s *domain.AppState) error {
		i, err := s.FindDream(ref)
		if err != nil {
			return err
		}
		d := &s.Bank.Dreams[i]
		name := strings.TrimSpace(name)
		if err := validateName(s.Bank.Dreams, name, cost, d.ID, dreamKey); err != nil {
			return err
		}
		d.Name, d.Cost = name, cost
		out = *d
		out.Purchasers = append([]string{}, d.Purchasers...)
		return nil
	})
	if err != nil {
		return domain.Dream{}, err
	}
	e.logCatalog("dream edited", out.ID, out.Name, out.Cost)
	return out, nil
}

// RemoveDream deletes the referenced dream.
func (e *Engine) RemoveDream(ctx context.Context, ref string) error {
	return e.apply(ctx, "remove_dream", func(s *domain.AppState) error {
		i, err := s.FindDream(ref)
		if err != nil {
			return err
		}
		s.Bank.Dreams = append(s.Bank.Dreams[:i], s.Bank.Dreams[i+1:]...)
		return nil
	})
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func activityKey(a domain.Activity) (string, string) { return a.ID, a.Name }
func treatKey(t domain.Treat) (string, string)       { return t.ID, t.Name }
func dreamKey(d domain.Dream) (string, string)       { return d.ID, d.Name }

// validateName checks name/amount and that no other entry (ID != selfID)
// already uses name.
func validateName[T any](entries []T, name string, amount int64, selfID string, key func(T) (string, string)) error {
	if err := domain.ValidateEntry(name, amount); err != nil {
		return err
	}
	for _, entry := range entries {
		id, n := key(entry)
		if id != selfID && n == name {
			return fmt.Errorf("%w: name %q is already taken", domain.ErrInvalidInput, name)
		}
	}
	return nil
}

func (e *Engine) logCatalog(msg, id, name string, amount int64) {
	e.log.WithFields(logrus.Fields{"id": id, "name": name, "amount": amount}).Info(msg)
}
