package analytics

import (
	"testing"

	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(ds []models.DAODetail) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Name)
	}
	return out
}

func TestLeaderboard_DefaultMembersDesc(t *testing.T) {
	svc := newTestService(t, nil, nil, nil)

	got, err := svc.Leaderboard("", "")
	require.NoError(t, err)
	require.Len(t, got, 21)
	assert.Equal(t, []string{"BonkDAO", "Grape", "Mango"}, names(got[:3]))
}

func TestLeaderboard_AscKeepsTieOrder(t *testing.T) {
	svc := newTestService(t, nil, nil, nil)

	got, err := svc.Leaderboard("members", "asc")
	require.NoError(t, err)
	assert.Equal(t, []string{"Metaplex Foundation", "Metaplex Genesis", "TheExiledApes"}, names(got[:3]))
}

func TestLeaderboard_OtherFields(t *testing.T) {
	svc := newTestService(t, nil, nil, nil)

	got, err := svc.Leaderboard("proposals", "desc")
	require.NoError(t, err)
	assert.Equal(t, "Mango", got[0].Name)

	got, err = svc.Leaderboard("VOTES", "DESC")
	require.NoError(t, err)
	assert.Equal(t, "BonkDAO", got[0].Name)
}

func TestLeaderboard_InvalidInput(t *testing.T) {
	svc := newTestService(t, nil, nil, nil)

	_, err := svc.Leaderboard("name", "desc")
	assert.Error(t, err)

	_, err = svc.Leaderboard("tvl", "sideways")
	assert.Error(t, err)
}

func TestLeaderboard_DoesNotReorderSource(t *testing.T) {
	svc := newTestService(t, nil, nil, nil)

	_, err := svc.Leaderboard("tvl", "asc")
	require.NoError(t, err)

	got, _ := svc.Leaderboard("", "")
	assert.Equal(t, "BonkDAO", got[0].Name)
	assert.Equal(t, "BonkDAO", svc.cfg.DAODetails[0].Name)
}

func TestTopByTVL(t *testing.T) {
	svc := newTestService(t, nil, nil, nil)

	assert.Equal(t, []string{"Jito", "BonkDAO", "Marinade", "Metaplex DAO", "Mango"}, names(svc.TopByTVL(5)))
	assert.Len(t, svc.TopByTVL(0), 1)
	assert.Len(t, svc.TopByTVL(500), 21)
}

func TestDAOLookup(t *testing.T) {
	svc := newTestService(t, nil, nil, nil)

	d, ok := svc.DAO("fungidao")
	require.True(t, ok)
	assert.Equal(t, "FungiDAO", d.Name)
	assert.True(t, decimal.NewFromInt(17159).Equal(d.TVL))

	_, ok = svc.DAO("NoSuchDAO")
	assert.False(t, ok)
}

func TestTotalTVL(t *testing.T) {
	total := newTestService(t, nil, nil, nil).TotalTVL()
	assert.True(t, decimal.NewFromInt(804891431).Equal(total.Total))
	assert.Equal(t, "804.9M", total.Formatted)
}

func TestFormatTVL(t *testing.T) {
	tests := []struct {
		in   decimal.Decimal
		want string
	}{
		{decimal.NewFromInt(1_200_000_000), "1.2B"},
		{decimal.NewFromInt(77_965_829), "78.0M"},
		{decimal.NewFromInt(1_000_000), "1.0M"},
		{decimal.NewFromInt(999_999), "999,999"},
		{decimal.NewFromInt(17159), "17,159"},
		{decimal.NewFromInt(999), "999"},
		{decimal.Zero, "0"},
		{decimal.RequireFromString("123456.5"), "123,456.5"},
		{decimal.RequireFromString("1234.56789"), "1,234.568"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTVL(tt.in), tt.in.String())
	}
}
