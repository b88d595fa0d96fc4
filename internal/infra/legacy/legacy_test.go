package legacy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutu-network/dreambank/internal/domain"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestReadDir_MissingFilesGiveDefaults(t *testing.T) {
	snap, err := ReadDir(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, snap.Users)
	assert.Equal(t, domain.DefaultBank(), snap.Bank)
}

func TestReadDir_OldLayout(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, UsersFile, `["mike", "anna"]`)
	writeFile(t, dir, BankFile, `{
		"activities": [{"name": "Swim", "points": 12}],
		"treats": [{"name": "Cake", "cost": 20, "purchased_by": ["anna"]}],
		"dreams": [{"name": "Cinema", "cost": 40, "purchased_by": ["mike"]}],
		"user_banks": {"mike": {"activity_points": 33}, "anna": {"activity_points": 4}},
		"dream_bank": 27
	}`)

	snap, err := ReadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"mike", "anna"}, snap.Users)

	b := snap.Bank
	require.Len(t, b.Activities, 1)
	assert.Equal(t, "Swim", b.Activities[0].Name)
	assert.Equal(t, int64(12), b.Activities[0].Points)
	assert.NotEmpty(t, b.Activities[0].ID)

	require.Len(t, b.Treats, 1)
	cake := b.Treats[0]
	assert.True(t, b.Ledgers["anna"].HasTreat(cake.ID))
	assert.False(t, b.Ledgers["mike"].HasTreat(cake.ID))

	require.Len(t, b.Dreams, 1)
	assert.Equal(t, []string{"mike"}, b.Dreams[0].Purchasers)

	assert.Equal(t, int64(33), b.Ledgers["mike"].Balance)
	assert.Equal(t, int64(33), b.Ledgers["mike"].Lifetime)
	assert.Equal(t, int64(27), b.DreamPool)
}

func TestReadDir_PartialBankKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, BankFile, `{"treats": [], "dream_bank": 5}`)

	snap, err := ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, snap.Bank.Activities, 2, "absent key keeps the default catalog")
	assert.Empty(t, snap.Bank.Treats, "an empty list is kept empty")
	assert.Len(t, snap.Bank.Dreams, 1)
	assert.Equal(t, int64(5), snap.Bank.DreamPool)
}

func TestReadDir_StableIDs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, BankFile, `{"treats": [{"name": "Cake", "cost": 20, "purchased_by": []}]}`)

	a, err := ReadDir(dir)
	require.NoError(t, err)
	b, err := ReadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, a.Bank.Treats[0].ID, b.Bank.Treats[0].ID)
}

func TestReadDir_Malformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, UsersFile, `{not json`)

	_, err := ReadDir(dir)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReadDir_DuplicateNames(t *testing.T) {
	for _, body := range []string{
		`{"activities": [{"name": "Run 5km", "points": 10}, {"name": "Run 5km", "points": 12}]}`,
		`{"treats": [{"name": "Cake", "cost": 20}, {"name": "Cake", "cost": 20}]}`,
		`{"dreams": [{"name": "Cinema", "cost": 40}, {"name": "Cinema", "cost": 50}]}`,
	} {
		dir := t.TempDir()
		writeFile(t, dir, BankFile, body)

		_, err := ReadDir(dir)
		require.ErrorIs(t, err, domain.ErrInvalidInput, body)
		assert.Contains(t, err.Error(), "more than once")
	}
}

func TestWriteDir_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	bank := domain.DefaultBank()
	bank.Ledgers["mike"] = &domain.Ledger{
		Balance:  9,
		Lifetime: 40,
		Treats:   map[string]bool{bank.Treats[0].ID: true},
	}
	bank.Dreams[0].Purchasers = []string{"mike"}
	bank.DreamPool = 15

	require.NoError(t, WriteDir(dir, domain.Snapshot{Users: []string{"mike"}, Bank: bank}))

	got, err := ReadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"mike"}, got.Users)
	assert.Equal(t, int64(15), got.Bank.DreamPool)
	assert.Equal(t, "Ice Cream", got.Bank.Treats[0].Name)
	assert.True(t, got.Bank.Ledgers["mike"].HasTreat(got.Bank.Treats[0].ID))
	assert.Equal(t, []string{"mike"}, got.Bank.Dreams[0].Purchasers)
	// Only the balance survives the old layout.
	assert.Equal(t, int64(9), got.Bank.Ledgers["mike"].Lifetime)
}
