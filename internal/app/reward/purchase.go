package reward

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tutu-network/dreambank/internal/domain"
	"github.com/tutu-network/dreambank/internal/infra/observability"
)

// Purchase is the outcome of a treat or dream purchase.
type Purchase struct {
	User    string `json:"user"`
	Reward  string `json:"reward"`
	Cost    int64  `json:"cost"`
	Balance int64  `json:"balance"`
	Pool    int64  `json:"pool"`
}

// PurchaseTreat spends the treat's cost from user's balance and moves it
// into the shared dream pool. Each user can hold a treat once.
func (e *Engine) PurchaseTreat(ctx context.Context, user, treatRef string) (Purchase, error) {
	var p Purchase
	err := e.apply(ctx, "purchase_treat", func(s *domain.AppState) error {
		l, err := s.Ledger(user)
		if err != nil {
			return err
		}
		i, err := s.FindTreat(treatRef)
		if err != nil {
			return err
		}
		treat := s.Bank.Treats[i]

		if l.HasTreat(treat.ID) {
			return fmt.Errorf("%w: %q already bought %q", domain.ErrAlreadyPurchased, user, treat.Name)
		}
		if l.Balance < treat.Cost {
			return fmt.Errorf("%w: %q costs %d, %q has %d",
				domain.ErrInsufficientPoints, treat.Name, treat.Cost, user, l.Balance)
		}

		pool, err := domain.AddPoints(s.Bank.DreamPool, treat.Cost)
		if err != nil {
			return err
		}
		l.Balance -= treat.Cost
		s.Bank.DreamPool = pool
		if l.Treats == nil {
			l.Treats = make(map[string]bool)
		}
		l.Treats[treat.ID] = true

		p = Purchase{User: user, Reward: treat.Name, Cost: treat.Cost, Balance: l.Balance, Pool: s.Bank.DreamPool}
		return nil
	})
	if err != nil {
		return Purchase{}, err
	}
	e.observePurchase("treat", p)
	return p, nil
}

// PurchaseDream spends the dream's cost from the shared pool on behalf of
// user. Each user can buy a dream once; other users buy it independently.
func (e *Engine) PurchaseDream(ctx context.Context, user, dreamRef string) (Purchase, error) {
	var p Purchase
	err := e.apply(ctx, "purchase_dream", func(s *domain.AppState) error {
		l, err := s.Ledger(user)
		if err != nil {
			return err
		}
		i, err := s.FindDream(dreamRef)
		if err != nil {
			return err
		}
		dream := &s.Bank.Dreams[i]

		if dream.PurchasedBy(user) {
			return fmt.Errorf("%w: %q already bought %q", domain.ErrAlreadyPurchased, user, dream.Name)
		}
		if s.Bank.DreamPool < dream.Cost {
			return fmt.Errorf("%w: %q costs %d, dream pool has %d",
				domain.ErrInsufficientPoints, dream.Name, dream.Cost, s.Bank.DreamPool)
		}

		s.Bank.DreamPool -= dream.Cost
		dream.Purchasers = append(dream.Purchasers, user)

		p = Purchase{User: user, Reward: dream.Name, Cost: dream.Cost, Balance: l.Balance, Pool: s.Bank.DreamPool}
		return nil
	})
	if err != nil {
		return Purchase{}, err
	}
	e.observePurchase("dream", p)
	return p, nil
}

// ResetDreamPool sets the shared pool to zero.
func (e *Engine) ResetDreamPool(ctx context.Context) error {
	var was int64
	err := e.apply(ctx, "reset_dream_pool", func(s *domain.AppState) error {
		was = s.Bank.DreamPool
		s.Bank.DreamPool = 0
		return nil
	})
	if err == nil {
		e.log.WithField("was", was).Info("dream pool reset")
	}
	return err
}

func (e *Engine) observePurchase(kind string, p Purchase) {
	observability.Purchases.WithLabelValues(kind).Inc()
	observability.PointsSpent.WithLabelValues(kind).Add(float64(p.Cost))
	e.log.WithFields(logrus.Fields{
		"user":   p.User,
		"reward": p.Reward,
		"cost":   p.Cost,
		"pool":   p.Pool,
	}).Infof("%s purchased", kind)
}
