package reward

import "github.com/tutu-network/dreambank/internal/domain"

// RewardProgress describes how close a user is to one treat or dream.
type RewardProgress struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Cost       int64   `json:"cost"`
	Purchased  bool    `json:"purchased"`
	Affordable bool    `json:"affordable"`
	Percent    float64 `json:"percent"`
	Needed     int64   `json:"needed"`
}

// UserStatus is the dashboard view for one user.
type UserStatus struct {
	User      string       `json:"user"`
	Balance   int64        `json:"balance"`
	Lifetime  int64        `json:"lifetime"`
	Level     domain.Level `json:"level"`
	LevelPct  float64      `json:"level_pct"`
	ToNext    int64        `json:"to_next_level"`
	DreamPool int64        `json:"dream_pool"`

	Treats          []RewardProgress `json:"treats"`
	TreatsPurchased int              `json:"treats_purchased"`
	TreatsPct       float64          `json:"treats_pct"`

	Dreams          []RewardProgress `json:"dreams"`
	DreamsPurchased int              `json:"dreams_purchased"`
	DreamsPct       float64          `json:"dreams_pct"`
}

// Status builds the dashboard for user. Treat progress is measured against
// the user's balance, dream progress against the shared pool.
func (e *Engine) Status(user string) (UserStatus, error) {
	s := e.state
	l, err := s.Ledger(user)
	if err != nil {
		return UserStatus{}, err
	}
	lvl := domain.LevelFor(l.Lifetime)

	st := UserStatus{
		User:      user,
		Balance:   l.Balance,
		Lifetime:  l.Lifetime,
		Level:     lvl,
		LevelPct:  lvl.ProgressPct(),
		ToNext:    lvl.Remaining(),
		DreamPool: s.Bank.DreamPool,
		Treats:    make([]RewardProgress, 0, len(s.Bank.Treats)),
		Dreams:    make([]RewardProgress, 0, len(s.Bank.Dreams)),
	}

	for _, t := range s.Bank.Treats {
		p := progress(t.ID, t.Name, t.Cost, l.Balance, l.HasTreat(t.ID))
		if p.Purchased {
			st.TreatsPurchased++
		}
		st.Treats = append(st.Treats, p)
	}
	for _, d := range s.Bank.Dreams {
		p := progress(d.ID, d.Name, d.Cost, s.Bank.DreamPool, d.PurchasedBy(user))
		if p.Purchased {
			st.DreamsPurchased++
		}
		st.Dreams = append(st.Dreams, p)
	}
	st.TreatsPct = share(st.TreatsPurchased, len(st.Treats))
	st.DreamsPct = share(st.DreamsPurchased, len(st.Dreams))
	return st, nil
}

func progress(id, name string, cost, have int64, purchased bool) RewardProgress {
	p := RewardProgress{ID: id, Name: name, Cost: cost, Purchased: purchased}
	if purchased {
		p.Percent = 100
		return p
	}
	p.Percent = domain.Percent(have, cost)
	if need := cost - have; need > 0 {
		p.Needed = need
	}
	p.Affordable = have >= cost
	return p
}

func share(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return domain.Percent(int64(n), int64(total))
}
