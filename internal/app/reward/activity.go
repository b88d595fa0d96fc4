package reward

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tutu-network/dreambank/internal/domain"
	"github.com/tutu-network/dreambank/internal/infra/observability"
)

// Completion is the outcome of CompleteActivity.
type Completion struct {
	Entry      domain.LogEntry  `json:"entry"`
	Points     int64            `json:"points"`
	LeveledUp  bool             `json:"leveled_up"`
	Level      domain.Level     `json:"level"`
	Bonus      int64            `json:"bonus"`
	BonusEntry *domain.LogEntry `json:"bonus_entry,omitempty"`
	Balance    int64            `json:"balance"`
}

// Retraction is the outcome of DeleteLogEntry.
type Retraction struct {
	Removed []domain.LogEntry `json:"removed"`
	Points  int64             `json:"points"`
	Balance int64             `json:"balance"`
}

// CompleteActivity credits the activity's points to user and appends a log
// entry. Crossing one or more level thresholds awards a single bonus of
// LevelUpBonus(newLevel), logged as a separate LEVEL_BONUS entry linked to
// the primary entry.
func (e *Engine) CompleteActivity(ctx context.Context, user, activityRef string) (Completion, error) {
	var c Completion
	err := e.apply(ctx, "complete_activity", func(s *domain.AppState) error {
		l, err := s.Ledger(user)
		if err != nil {
			return err
		}
		i, err := s.FindActivity(activityRef)
		if err != nil {
			return err
		}
		activity := s.Bank.Activities[i]
		now := e.now()

		before := domain.LevelFor(l.Lifetime).Level
		if err := l.Credit(activity.Points); err != nil {
			return err
		}

		c = Completion{
			Entry: domain.LogEntry{
				ID:        e.newID(),
				Timestamp: now,
				Kind:      domain.EntryActivity,
				Activity:  activity.Name,
				Points:    activity.Points,
			},
			Points: activity.Points,
		}
		s.Log[user] = append(s.Log[user], c.Entry)

		if after := domain.LevelFor(l.Lifetime).Level; after > before {
			c.LeveledUp = true
			c.Bonus = domain.LevelUpBonus(after)
			if err := l.Credit(c.Bonus); err != nil {
				return err
			}
			bonus := domain.LogEntry{
				ID:        e.newID(),
				Timestamp: now,
				Kind:      domain.EntryLevelBonus,
				Activity:  fmt.Sprintf("Level %d bonus", after),
				Points:    c.Bonus,
				Level:     after,
				BonusFor:  c.Entry.ID,
			}
			c.BonusEntry = &bonus
			s.Log[user] = append(s.Log[user], bonus)
		}

		c.Level = domain.LevelFor(l.Lifetime)
		c.Balance = l.Balance
		return nil
	})
	if err != nil {
		return Completion{}, err
	}

	observability.PointsAwarded.WithLabelValues("activity").Add(float64(c.Points))
	if c.LeveledUp {
		observability.LevelUps.Inc()
		observability.PointsAwarded.WithLabelValues("bonus").Add(float64(c.Bonus))
	}
	e.log.WithFields(logrus.Fields{
		"user":     user,
		"activity": c.Entry.Activity,
		"points":   c.Points,
		"bonus":    c.Bonus,
		"level":    c.Level.Level,
	}).Info("activity completed")
	return c, nil
}

// DeleteLogEntry removes the entry with entryID from user's log and
// subtracts its points. Deleting a primary entry also removes the level-up
// bonus it triggered. The user's balance must still cover the retraction.
func (e *Engine) DeleteLogEntry(ctx context.Context, user, entryID string) (Retraction, error) {
	var r Retraction
	err := e.apply(ctx, "delete_log_entry", func(s *domain.AppState) error {
		l, err := s.Ledger(user)
		if err != nil {
			return err
		}
		i, err := s.FindLogEntry(user, entryID)
		if err != nil {
			return err
		}
		target := s.Log[user][i]

		kept := make([]domain.LogEntry, 0, len(s.Log[user]))
		r = Retraction{}
		for _, entry := range s.Log[user] {
			linked := !target.IsBonus() && entry.IsBonus() && entry.BonusFor == target.ID
			if entry.ID == target.ID || linked {
				r.Removed = append(r.Removed, entry)
				r.Points += entry.Points
				continue
			}
			kept = append(kept, entry)
		}

		if l.Balance < r.Points {
			return fmt.Errorf("%w: retracting %d points from %q with balance %d",
				domain.ErrInsufficientPoints, r.Points, user, l.Balance)
		}
		l.Balance -= r.Points
		l.Lifetime -= r.Points
		if l.Lifetime < 0 {
			l.Lifetime = 0
		}
		if len(kept) == 0 {
			delete(s.Log, user)
		} else {
			s.Log[user] = kept
		}
		r.Balance = l.Balance
		return nil
	})
	if err != nil {
		return Retraction{}, err
	}

	observability.PointsRetracted.Add(float64(r.Points))
	e.log.WithFields(logrus.Fields{
		"user":    user,
		"entry":   entryID,
		"removed": len(r.Removed),
		"points":  r.Points,
	}).Info("log entry deleted")
	return r, nil
}
