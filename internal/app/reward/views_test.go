package reward

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutu-network/dreambank/internal/domain"
)

func TestStatus(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	require.NoError(t, e.AddUser(ctx, "mike"))
	give(t, e, "mike", 9) // 10 after the level-2 bonus

	st, err := e.Status("mike")
	require.NoError(t, err)
	assert.Equal(t, int64(10), st.Balance)
	assert.Equal(t, domain.Level{Level: 2, PointsIntoLevel: 5, PointsForNext: 10}, st.Level)
	assert.Equal(t, 50.0, st.LevelPct)
	assert.Equal(t, int64(5), st.ToNext)

	require.Len(t, st.Treats, 1)
	ice := st.Treats[0]
	assert.Equal(t, "Ice Cream", ice.Name)
	assert.False(t, ice.Affordable)
	assert.Equal(t, 66.7, ice.Percent)
	assert.Equal(t, int64(5), ice.Needed)
	assert.Zero(t, st.TreatsPurchased)
	assert.Zero(t, st.TreatsPct)

	require.Len(t, st.Dreams, 1)
	assert.Zero(t, st.Dreams[0].Percent)
	assert.Equal(t, int64(100), st.Dreams[0].Needed)
}

func TestStatus_AfterPurchase(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	require.NoError(t, e.AddUser(ctx, "mike"))
	give(t, e, "mike", 14)
	_, err := e.AddTreat(ctx, "Cake", 40)
	require.NoError(t, err)
	_, err = e.PurchaseTreat(ctx, "mike", "Ice Cream")
	require.NoError(t, err)

	st, err := e.Status("mike")
	require.NoError(t, err)
	assert.Zero(t, st.Balance)
	assert.Equal(t, int64(15), st.DreamPool)

	ice := st.Treats[0]
	assert.True(t, ice.Purchased)
	assert.Equal(t, 100.0, ice.Percent)
	assert.Zero(t, ice.Needed)
	assert.Equal(t, 1, st.TreatsPurchased)
	assert.Equal(t, 50.0, st.TreatsPct)

	trip := st.Dreams[0]
	assert.Equal(t, 15.0, trip.Percent)
	assert.Equal(t, int64(85), trip.Needed)
	assert.False(t, trip.Affordable)
}

func TestStatus_UnknownUser(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.Status("ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
