package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/dune"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/flags"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func proposalRows() *dune.LatestResultResponse {
	return duneRows(
		[]string{"proposal_creation_time", "proposals_created"},
		models.RawRow{"proposal_creation_time": "2025-04-02 00:00:00.000 UTC", "proposals_created": json.Number("7")},
		models.RawRow{"proposal_creation_time": "2025-04-01 00:00:00.000 UTC", "proposals_created": json.Number("5")},
		models.RawRow{"notes": "see attached"},
	)
}

func TestNewService_RequiresClients(t *testing.T) {
	_, err := NewService(Config{Flipside: &fakeFlipside{}, ProposalsQueryID: 1, NewestDAOsQueryID: 1})
	assert.Error(t, err)

	_, err = NewService(Config{Dune: &fakeDune{}, ProposalsQueryID: 1, NewestDAOsQueryID: 1})
	assert.Error(t, err)

	_, err = NewService(Config{Dune: &fakeDune{}, Flipside: &fakeFlipside{}})
	assert.Error(t, err)
}

func TestFetchDailyProposals(t *testing.T) {
	d := &fakeDune{results: map[int]*dune.LatestResultResponse{proposalsQuery: proposalRows()}}
	svc := newTestService(t, d, nil, nil)

	got := svc.FetchDailyProposals(context.Background())
	require.Len(t, got, 2)
	assert.Equal(t, models.DailyProposal{Day: "Apr 1", OriginalDate: "2025-04-01 00:00:00.000 UTC", Proposals: 5}, got[0])
	assert.Equal(t, "Apr 2", got[1].Day)
}

func TestFetchDailyProposals_ErrorsYieldEmpty(t *testing.T) {
	for _, err := range []error{dune.ErrMissingAPIKey, &dune.HTTPError{StatusCode: 500}, errors.New("dial tcp: refused")} {
		svc := newTestService(t, &fakeDune{err: err}, nil, nil)
		got := svc.FetchDailyProposals(context.Background())
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
}

func TestProposalActivity_FromDune(t *testing.T) {
	d := &fakeDune{results: map[int]*dune.LatestResultResponse{proposalsQuery: proposalRows()}}
	svc := newTestService(t, d, nil, nil)

	act := svc.ProposalActivity(context.Background())
	assert.Equal(t, SourceDune, act.Source)
	require.Len(t, act.Days, 2)
	assert.Equal(t, float64(12), act.Summary.Total)
}

func TestProposalActivity_FallbackWhenEmpty(t *testing.T) {
	tests := []struct {
		name string
		dune *fakeDune
	}{
		{"error", &fakeDune{err: dune.ErrMissingAPIKey}},
		{"no result", &fakeDune{}},
		{"empty rows", &fakeDune{results: map[int]*dune.LatestResultResponse{proposalsQuery: duneRows(nil)}}},
		{"no usable rows", &fakeDune{results: map[int]*dune.LatestResultResponse{
			proposalsQuery: duneRows(nil, models.RawRow{"notes": "see attached"}),
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			act := newTestService(t, tt.dune, nil, nil).ProposalActivity(context.Background())
			assert.Equal(t, SourceFallback, act.Source)
			require.Len(t, act.Days, 14)
			assert.Equal(t, "Mar 1", act.Days[0].Day)
			assert.Equal(t, float64(703), act.Summary.Total)
		})
	}
}

func TestProposalActivity_Toggles(t *testing.T) {
	d := &fakeDune{results: map[int]*dune.LatestResultResponse{proposalsQuery: proposalRows()}}

	svc := newTestService(t, d, nil, fakeToggles{flags.ForceFallback: true})
	act := svc.ProposalActivity(context.Background())
	assert.Equal(t, SourceFallback, act.Source)
	assert.Zero(t, d.calls.Load())

	svc = newTestService(t, d, nil, fakeToggles{flags.DuneEnabled: false})
	act = svc.ProposalActivity(context.Background())
	assert.Equal(t, SourceFallback, act.Source)
	assert.Zero(t, d.calls.Load())
}

func TestFetchNewestDAOs(t *testing.T) {
	rows := make([]models.RawRow, 0, 20)
	for i := 0; i < 20; i++ {
		rows = append(rows, models.RawRow{
			"realm_json":    fmt.Sprintf(`{"name":"Realm %d"}`, i),
			"realm_address": "GovER5Lthms3bLBqWub97yVrMmEogzX7xNjdXpPPCVZw",
			"created_at":    "2025-07-01",
		})
	}
	d := &fakeDune{results: map[int]*dune.LatestResultResponse{newestDAOsQuery: duneRows(nil, rows...)}}

	listing := newTestService(t, d, nil, nil).FetchNewestDAOs(context.Background())
	assert.Equal(t, SourceDune, listing.Source)
	require.Len(t, listing.DAOs, 15)
	assert.Equal(t, "Realm 0", listing.DAOs[0].Name)
	assert.Equal(t, "2025-07-01", listing.DAOs[0].CreatedAt)
}

func TestFetchNewestDAOs_Fallback(t *testing.T) {
	for name, svc := range map[string]*Service{
		"error":          newTestService(t, &fakeDune{err: dune.ErrMissingAPIKey}, nil, nil),
		"invalid":        newTestService(t, &fakeDune{}, nil, nil),
		"force fallback": newTestService(t, &fakeDune{}, nil, fakeToggles{flags.ForceFallback: true}),
	} {
		listing := svc.FetchNewestDAOs(context.Background())
		assert.Equal(t, SourceFallback, listing.Source, name)
		require.Len(t, listing.DAOs, 15, name)
		assert.Equal(t, "Jupiter", listing.DAOs[0].Name, name)
	}
}

func TestFetchNewestDAOs_EmptyRowsIsNotAFailure(t *testing.T) {
	d := &fakeDune{results: map[int]*dune.LatestResultResponse{newestDAOsQuery: duneRows(nil)}}
	listing := newTestService(t, d, nil, nil).FetchNewestDAOs(context.Background())
	assert.Equal(t, SourceDune, listing.Source)
	assert.NotNil(t, listing.DAOs)
	assert.Empty(t, listing.DAOs)
}

func TestOverview(t *testing.T) {
	d := &fakeDune{results: map[int]*dune.LatestResultResponse{proposalsQuery: proposalRows()}}
	f := &fakeFlipside{runs: map[string]*models.ResultSet{
		fungiRunID: {Rows: []models.RawRow{{"DAO_NAME": "FungiDAO", "TOTAL_TVL_USD": json.Number("17159")}}},
	}}

	ov, err := newTestService(t, d, f, nil).Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SourceDune, ov.Proposals.Source)
	assert.Equal(t, SourceFallback, ov.NewestDAOs.Source)
	assert.True(t, ov.FungiTVL.Success)
	assert.Equal(t, "17,159", ov.FungiTVL.Formatted)
	assert.Equal(t, "804.9M", ov.TVL.Formatted)
	assert.Len(t, ov.TopByTVL, 5)
	assert.Len(t, ov.Growth, 3)
}

func TestOverview_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestService(t, nil, nil, nil).Overview(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGrowth_ReturnsCopy(t *testing.T) {
	svc := newTestService(t, nil, nil, nil)
	g := svc.Growth()
	g[0].Month = "changed"
	assert.Equal(t, "May 2025", svc.Growth()[0].Month)
}
