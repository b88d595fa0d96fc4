package reward

import (
	"context"
	"fmt"
	"strings"

	"github.com/tutu-network/dreambank/internal/domain"
)

// AddUser registers id with a zero ledger and an empty log.
func (e *Engine) AddUser(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	err := e.apply(ctx, "add_user", func(s *domain.AppState) error {
		if id == "" {
			return fmt.Errorf("%w: user id must not be empty", domain.ErrInvalidInput)
		}
		if s.HasUser(id) {
			return fmt.Errorf("%w: %q", domain.ErrDuplicateUser, id)
		}
		s.Users = append(s.Users, id)
		s.Bank.Ledgers[id] = &domain.Ledger{}
		delete(s.Log, id)
		return nil
	})
	if err == nil {
		e.log.WithUser(id).Info("user added")
	}
	return err
}

// DeleteUser removes id from the roster along with its ledger and log.
// Dream purchaser lists keep the id.
func (e *Engine) DeleteUser(ctx context.Context, id string) error {
	err := e.apply(ctx, "delete_user", func(s *domain.AppState) error {
		idx := -1
		for i, u := range s.Users {
			if u == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("%w: user %q", domain.ErrNotFound, id)
		}
		s.Users = append(s.Users[:idx], s.Users[idx+1:]...)
		delete(s.Bank.Ledgers, id)
		delete(s.Log, id)
		return nil
	})
	if err == nil {
		e.log.WithUser(id).Info("user deleted")
	}
	return err
}

// ResetUserLedger zeroes the user's points, clears the log, and marks every
// treat unpurchased for that user.
func (e *Engine) ResetUserLedger(ctx context.Context, user string) error {
	err := e.apply(ctx, "reset_user_ledger", func(s *domain.AppState) error {
		l, err := s.Ledger(user)
		if err != nil {
			return err
		}
		*l = domain.Ledger{}
		delete(s.Log, user)
		return nil
	})
	if err == nil {
		e.log.WithUser(user).Info("ledger reset")
	}
	return err
}
