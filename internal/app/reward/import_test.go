package reward

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutu-network/dreambank/internal/domain"
)

func importable() domain.Snapshot {
	return domain.Snapshot{
		Users: []string{"mike", "anna"},
		Bank: domain.Bank{
			Activities: []domain.Activity{{Name: "Walk", Points: 3}},
			Treats:     []domain.Treat{{ID: "t1", Name: "Cake", Cost: 20}},
			Dreams:     []domain.Dream{{Name: "Cinema", Cost: 40, Purchasers: []string{"anna", "anna"}}},
			Ledgers: map[string]*domain.Ledger{
				"mike": {Balance: 7, Lifetime: 27, Treats: map[string]bool{"t1": true}},
			},
			DreamPool: 12,
		},
		Log: map[string][]domain.LogEntry{
			"mike": {{Timestamp: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), Activity: "Walk", Points: 3}},
		},
	}
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	e, gw := newTestEngine(t)

	require.NoError(t, e.Import(ctx, importable()))
	assert.Equal(t, []string{"mike", "anna"}, e.Users())
	assert.Equal(t, int64(12), e.Pool())
	assert.Equal(t, "id-1", e.Activities()[0].ID, "missing IDs are generated")
	assert.Equal(t, []string{"anna"}, e.Dreams()[0].Purchasers)

	mike, err := e.Ledger("mike")
	require.NoError(t, err)
	assert.True(t, mike.HasTreat("t1"))
	anna, err := e.Ledger("anna")
	require.NoError(t, err, "every rostered user gets a ledger")
	assert.Zero(t, anna.Balance)

	log, err := e.Log("mike")
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.NotEmpty(t, log[0].ID)
	assert.Equal(t, domain.EntryActivity, log[0].Kind)

	assert.Equal(t, e.Export(), gw.snap)
}

func TestImport_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Snapshot)
		want   error
	}{
		{"duplicate user", func(s *domain.Snapshot) { s.Users = append(s.Users, "mike") }, domain.ErrDuplicateUser},
		{"blank user", func(s *domain.Snapshot) { s.Users = append(s.Users, " ") }, domain.ErrInvalidInput},
		{"negative pool", func(s *domain.Snapshot) { s.Bank.DreamPool = -1 }, domain.ErrInvalidInput},
		{"negative balance", func(s *domain.Snapshot) { s.Bank.Ledgers["mike"].Balance = -5 }, domain.ErrInvalidInput},
		{"zero cost", func(s *domain.Snapshot) { s.Bank.Treats[0].Cost = 0 }, domain.ErrInvalidInput},
		{"duplicate activity", func(s *domain.Snapshot) {
			s.Bank.Activities = append(s.Bank.Activities, domain.Activity{Name: "Walk", Points: 1})
		}, domain.ErrInvalidInput},
		{"duplicate treat id", func(s *domain.Snapshot) {
			s.Bank.Treats = append(s.Bank.Treats, domain.Treat{ID: "t1", Name: "Pie", Cost: 5})
		}, domain.ErrInvalidInput},
		{"duplicate name sharing an id", func(s *domain.Snapshot) {
			s.Bank.Activities = []domain.Activity{
				{ID: "a1", Name: "Walk", Points: 3},
				{ID: "a1", Name: "Walk", Points: 3},
			}
		}, domain.ErrInvalidInput},
		{"huge cost", func(s *domain.Snapshot) { s.Bank.Dreams[0].Cost = domain.MaxAmount + 1 }, domain.ErrInvalidInput},
		{"pool above limit", func(s *domain.Snapshot) { s.Bank.DreamPool = domain.MaxPoints + 1 }, domain.ErrInvalidInput},
		{"lifetime above limit", func(s *domain.Snapshot) { s.Bank.Ledgers["mike"].Lifetime = domain.MaxPoints + 1 }, domain.ErrInvalidInput},
		{"log entry above limit", func(s *domain.Snapshot) { s.Log["mike"][0].Points = domain.MaxPoints + 1 }, domain.ErrInvalidInput},
		{"duplicate log id", func(s *domain.Snapshot) {
			entry := domain.LogEntry{ID: "x", Activity: "Walk", Points: 3}
			s.Log["mike"] = []domain.LogEntry{entry, entry}
		}, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEngine(t)
			before := e.Export()
			snap := importable()
			tt.mutate(&snap)

			err := e.Import(context.Background(), snap)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, before, e.Export())
		})
	}
}

func TestImport_DuplicateNamesAreInvalidNotStorageErrors(t *testing.T) {
	e, _ := newSQLiteEngine(t)
	snap := importable()
	snap.Bank.Activities = []domain.Activity{
		{ID: "same", Name: "Run 5km", Points: 10},
		{ID: "same", Name: "Run 5km", Points: 10},
	}

	err := e.Import(context.Background(), snap)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrPersistence)
}

func TestImport_DoesNotAliasInput(t *testing.T) {
	e, _ := newTestEngine(t)
	snap := importable()
	require.NoError(t, e.Import(context.Background(), snap))

	snap.Users[0] = "changed"
	snap.Bank.Ledgers["mike"].Balance = 999
	assert.Equal(t, []string{"mike", "anna"}, e.Users())
	l, _ := e.Ledger("mike")
	assert.Equal(t, int64(7), l.Balance)
}
