package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutu-network/dreambank/internal/domain"
)

// run executes the root command against a fresh home directory state.
// Flag values survive between Execute calls on package-level commands, so
// every flag is reset first.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func newHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("DREAMBANK_HOME", home)
	return home
}

func TestCLI_CompleteAndStatus(t *testing.T) {
	newHome(t)

	out, err := run(t, "user", "add", "mike")
	require.NoError(t, err)
	assert.Contains(t, out, `Added user "mike"`)

	out, err = run(t, "activity", "complete", "mike", "Run 5km")
	require.NoError(t, err)
	assert.Contains(t, out, "+10 pts")
	assert.Contains(t, out, "Level 2 reached! Bonus +1 pts")
	assert.Contains(t, out, "Balance: 11 pts")

	_, err = run(t, "treat", "buy", "mike", "Ice Cream")
	assert.ErrorIs(t, err, domain.ErrInsufficientPoints)

	out, err = run(t, "status", "mike")
	require.NoError(t, err)
	assert.Contains(t, out, "Balance:  11 pts")
	assert.Contains(t, out, "Treats: purchased 0/1 (0.0%)")

	out, err = run(t, "status", "mike", "--json")
	require.NoError(t, err)
	var st map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, float64(11), st["balance"])

	out, err = run(t, "user", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "mike")
}

func TestCLI_LogRemove(t *testing.T) {
	newHome(t)
	_, err := run(t, "user", "add", "anna")
	require.NoError(t, err)
	_, err = run(t, "activity", "complete", "anna", "Yoga 30min")
	require.NoError(t, err)

	out, err := run(t, "export")
	require.NoError(t, err)
	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	require.Len(t, snap.Log["anna"], 2)

	out, err = run(t, "log", "rm", "anna", snap.Log["anna"][0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 2 entries (-6 pts). Balance: 0 pts")

	out, err = run(t, "log", "list", "anna")
	require.NoError(t, err)
	assert.Contains(t, out, "No activities logged for anna.")
}

func TestCLI_CatalogAndPool(t *testing.T) {
	newHome(t)

	out, err := run(t, "dream", "add", "Picnic", "30")
	require.NoError(t, err)
	assert.Contains(t, out, `Added dream "Picnic" (30 pts)`)

	_, err = run(t, "activity", "add", "Swim", "lots")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = run(t, "treat", "add", "Ice Cream", "3")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	out, err = run(t, "dream", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Dreams (2), pool 0 pts")

	out, err = run(t, "pool", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Dream pool reset to 0.")
}

func TestCLI_ImportLegacy(t *testing.T) {
	newHome(t)
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "users.json"), []byte(`["mike"]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "bank.json"), []byte(`{
		"user_banks": {"mike": {"activity_points": 40}},
		"dream_bank": 15
	}`), 0o644))

	out, err := run(t, "import", src)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 users")
	assert.Contains(t, out, "Dream pool: 15 pts")

	out, err = run(t, "pool", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Dream pool: 15 pts")

	dst := t.TempDir()
	_, err = run(t, "export", "--legacy", dst)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dst, "bank.json"))
}

func TestCLI_ConfigShow(t *testing.T) {
	newHome(t)
	t.Setenv("DREAMBANK_API_PORT", "9001")

	out, err := run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "port = 9001")
}
