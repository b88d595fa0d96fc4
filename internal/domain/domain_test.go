package domain

import (
	"errors"
	"math"
	"testing"
)

// ─── Level Curve Tests ──────────────────────────────────────────────────────

func TestLevelFor_Boundaries(t *testing.T) {
	tests := []struct {
		total int64
		want  Level
	}{
		{0, Level{Level: 1, PointsIntoLevel: 0, PointsForNext: 5}},
		{4, Level{Level: 1, PointsIntoLevel: 4, PointsForNext: 5}},
		{5, Level{Level: 2, PointsIntoLevel: 0, PointsForNext: 10}},
		{14, Level{Level: 2, PointsIntoLevel: 9, PointsForNext: 10}},
		{15, Level{Level: 3, PointsIntoLevel: 0, PointsForNext: 15}},
		{30, Level{Level: 4, PointsIntoLevel: 0, PointsForNext: 20}},
		{50, Level{Level: 5, PointsIntoLevel: 0, PointsForNext: 25}},
		{-7, Level{Level: 1, PointsIntoLevel: 0, PointsForNext: 5}},
	}
	for _, tt := range tests {
		got := LevelFor(tt.total)
		if got != tt.want {
			t.Errorf("LevelFor(%d) = %+v, want %+v", tt.total, got, tt.want)
		}
	}
}

func TestLevelFor_Monotonic(t *testing.T) {
	prev := LevelFor(0).Level
	for n := int64(1); n <= 5000; n++ {
		lvl := LevelFor(n)
		if lvl.Level < prev {
			t.Fatalf("LevelFor(%d).Level = %d, dropped below %d", n, lvl.Level, prev)
		}
		if lvl.PointsIntoLevel < 0 || lvl.PointsIntoLevel > lvl.PointsForNext {
			t.Fatalf("LevelFor(%d) into=%d outside [0,%d]", n, lvl.PointsIntoLevel, lvl.PointsForNext)
		}
		prev = lvl.Level
	}
}

func TestThreshold(t *testing.T) {
	want := []int64{0, 0, 5, 15, 30, 50, 75}
	for level := 1; level < len(want); level++ {
		if got := Threshold(level); got != want[level] {
			t.Errorf("Threshold(%d) = %d, want %d", level, got, want[level])
		}
	}
}

func TestLevelFor_MatchesThresholdScan(t *testing.T) {
	level := 1
	for total := int64(0); total <= 20000; total++ {
		for Threshold(level+1) <= total {
			level++
		}
		if got := LevelFor(total).Level; got != level {
			t.Fatalf("LevelFor(%d).Level = %d, want %d", total, got, level)
		}
	}
}

func TestLevelFor_HugeTotals(t *testing.T) {
	capped := LevelFor(MaxPoints)
	for _, total := range []int64{MaxPoints, MaxPoints + 1, math.MaxInt64 / 2, math.MaxInt64} {
		got := LevelFor(total)
		if got != capped {
			t.Errorf("LevelFor(%d) = %+v, want %+v", total, got, capped)
		}
	}
	if th := Threshold(capped.Level); th > MaxPoints {
		t.Errorf("Threshold(%d) = %d, above MaxPoints", capped.Level, th)
	}
	if th := Threshold(capped.Level + 1); th <= MaxPoints {
		t.Errorf("Threshold(%d) = %d, want above MaxPoints", capped.Level+1, th)
	}
	if capped.PointsIntoLevel < 0 || capped.PointsIntoLevel > capped.PointsForNext {
		t.Errorf("LevelFor(MaxPoints) into=%d outside [0,%d]", capped.PointsIntoLevel, capped.PointsForNext)
	}
}

func TestThreshold_NeverOverflows(t *testing.T) {
	prev := int64(0)
	for _, level := range []int{1_000_000, 1_400_000_000, maxThresholdLevel, maxThresholdLevel + 1, math.MaxInt32} {
		got := Threshold(level)
		if got < prev {
			t.Fatalf("Threshold(%d) = %d, below Threshold of a lower level (%d)", level, got, prev)
		}
		prev = got
	}
	if got := Threshold(maxThresholdLevel + 1); got != math.MaxInt64 {
		t.Errorf("Threshold(%d) = %d, want saturation at MaxInt64", maxThresholdLevel+1, got)
	}
}

func TestLevel_RemainingAndProgress(t *testing.T) {
	lvl := LevelFor(10) // level 2, 5 into a 10-wide level
	if lvl.Remaining() != 5 {
		t.Errorf("Remaining() = %d, want 5", lvl.Remaining())
	}
	if lvl.ProgressPct() != 50 {
		t.Errorf("ProgressPct() = %v, want 50", lvl.ProgressPct())
	}
}

func TestLevelUpBonus(t *testing.T) {
	tests := []struct {
		level int
		want  int64
	}{
		{2, 1}, {19, 1}, {20, 1}, {39, 1}, {40, 2}, {100, 5},
	}
	for _, tt := range tests {
		if got := LevelUpBonus(tt.level); got != tt.want {
			t.Errorf("LevelUpBonus(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

// ─── Utility Tests ──────────────────────────────────────────────────────────

func TestPercent(t *testing.T) {
	tests := []struct {
		have, want int64
		pct        float64
	}{
		{0, 15, 0},
		{5, 15, 33.3},
		{10, 15, 66.7},
		{15, 15, 100},
		{40, 15, 100},
		{-3, 15, 0},
	}
	for _, tt := range tests {
		if got := Percent(tt.have, tt.want); got != tt.pct {
			t.Errorf("Percent(%d, %d) = %v, want %v", tt.have, tt.want, got, tt.pct)
		}
	}
}

func TestValidateEntry(t *testing.T) {
	if err := ValidateEntry("Run", 1); err != nil {
		t.Errorf("ValidateEntry(Run, 1) = %v, want nil", err)
	}
	for _, tc := range []struct {
		name   string
		amount int64
	}{
		{"", 5}, {"   ", 5}, {"Run", 0}, {"Run", -2},
		{"Run", MaxAmount + 1}, {"Run", math.MaxInt64 / 2},
	} {
		if err := ValidateEntry(tc.name, tc.amount); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ValidateEntry(%q, %d) = %v, want ErrInvalidInput", tc.name, tc.amount, err)
		}
	}
	if err := ValidateEntry("Run", MaxAmount); err != nil {
		t.Errorf("ValidateEntry(Run, MaxAmount) = %v, want nil", err)
	}
}

func TestAddPoints(t *testing.T) {
	if got, err := AddPoints(10, 5); err != nil || got != 15 {
		t.Errorf("AddPoints(10, 5) = %d, %v, want 15, nil", got, err)
	}
	if got, err := AddPoints(MaxPoints-1, 1); err != nil || got != MaxPoints {
		t.Errorf("AddPoints(MaxPoints-1, 1) = %d, %v, want MaxPoints, nil", got, err)
	}
	for _, tc := range []struct{ total, delta int64 }{
		{MaxPoints, 1}, {1, math.MaxInt64}, {math.MaxInt64, 1}, {5, -1},
	} {
		if _, err := AddPoints(tc.total, tc.delta); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("AddPoints(%d, %d) = %v, want ErrInvalidInput", tc.total, tc.delta, err)
		}
	}
}

func TestLedgerCredit_AllOrNothing(t *testing.T) {
	l := Ledger{Balance: 3, Lifetime: MaxPoints}
	if err := l.Credit(1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Credit over the limit = %v, want ErrInvalidInput", err)
	}
	if l.Balance != 3 || l.Lifetime != MaxPoints {
		t.Errorf("failed Credit changed the ledger: %+v", l)
	}
	l = Ledger{Balance: 3, Lifetime: 8}
	if err := l.Credit(4); err != nil || l.Balance != 7 || l.Lifetime != 12 {
		t.Errorf("Credit(4) = %v, ledger %+v, want balance 7 lifetime 12", err, l)
	}
}

// ─── AppState Tests ─────────────────────────────────────────────────────────

func TestNewAppState_RepairsLedgers(t *testing.T) {
	bank := DefaultBank()
	bank.Ledgers["ghost"] = &Ledger{Balance: 9}
	s := NewAppState(Snapshot{Users: []string{"mike"}, Bank: bank})

	if _, ok := s.Bank.Ledgers["ghost"]; ok {
		t.Error("ledger of a user missing from the roster should be dropped")
	}
	l, err := s.Ledger("mike")
	if err != nil {
		t.Fatalf("Ledger(mike) error: %v", err)
	}
	if l.Balance != 0 || l.Lifetime != 0 {
		t.Errorf("new ledger = %+v, want zero", l)
	}
}

func TestAppState_CloneIsDeep(t *testing.T) {
	s := NewAppState(Snapshot{Users: []string{"mike"}, Bank: DefaultBank()})
	l, _ := s.Ledger("mike")
	l.Treats = map[string]bool{"t1": true}
	s.Log["mike"] = []LogEntry{{ID: "e1", Points: 10}}

	c := s.Clone()
	cl, _ := c.Ledger("mike")
	cl.Balance = 99
	cl.Treats["t2"] = true
	c.Bank.Dreams[0].Purchasers = append(c.Bank.Dreams[0].Purchasers, "mike")
	c.Log["mike"][0].Points = 1

	if l.Balance != 0 || l.Treats["t2"] {
		t.Error("mutating the clone's ledger leaked into the original")
	}
	if len(s.Bank.Dreams[0].Purchasers) != 0 {
		t.Error("mutating the clone's dream purchasers leaked into the original")
	}
	if s.Log["mike"][0].Points != 10 {
		t.Error("mutating the clone's log leaked into the original")
	}
}

func TestAppState_FindByIDThenName(t *testing.T) {
	bank := DefaultBank()
	// An activity whose name collides with another's ID must not shadow it.
	bank.Activities = append(bank.Activities, Activity{ID: "x", Name: "seed-activity-run-5km", Points: 1})
	s := NewAppState(Snapshot{Bank: bank})

	idx, err := s.FindActivity("seed-activity-run-5km")
	if err != nil {
		t.Fatal(err)
	}
	if s.Bank.Activities[idx].Name != "Run 5km" {
		t.Errorf("FindActivity resolved %q, want the ID match", s.Bank.Activities[idx].Name)
	}
	if _, err := s.FindTreat("Ice Cream"); err != nil {
		t.Errorf("FindTreat(by name) error: %v", err)
	}
	if _, err := s.FindDream("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindDream(nope) = %v, want ErrNotFound", err)
	}
	if _, err := s.Ledger("nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Ledger(nobody) = %v, want ErrNotFound", err)
	}
}

func TestDream_PurchasedBy(t *testing.T) {
	d := Dream{Purchasers: []string{"anna"}}
	if !d.PurchasedBy("anna") || d.PurchasedBy("mike") {
		t.Errorf("PurchasedBy mismatch for %v", d.Purchasers)
	}
}
