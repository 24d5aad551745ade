// Package analytics assembles dashboard datasets from the query providers and
// substitutes static data whenever a provider has nothing to offer.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/constants"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/dune"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/flags"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/models"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/normalize"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/storage"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrSourceDisabled is reported when a provider has been switched off at runtime.
var ErrSourceDisabled = errors.New("source is disabled")

// DuneAPI is the subset of the Dune client the service uses.
type DuneAPI interface {
	storage.LatestResultFetcher
	GetLatestResult(ctx context.Context, queryID int) (*dune.LatestResultResponse, error)
}

// FlipsideAPI is the subset of the Flipside client the service uses.
type FlipsideAPI interface {
	storage.SQLRunner
	storage.QueryRunFetcher
}

// Config wires the service. Dune and Flipside are required; everything else
// is optional.
type Config struct {
	Dune      DuneAPI
	Flipside  FlipsideAPI
	Warehouse storage.SQLRunner
	Toggles   storage.Toggles

	ProposalsQueryID   int
	NewestDAOsQueryID  int
	FungiTVLQueryRunID string

	FallbackProposals []models.DailyProposal
	FallbackDAOs      []models.DAO
	DAODetails        []models.DAODetail
	Growth            []models.GrowthPoint

	Logger *logrus.Logger
}

type Service struct {
	cfg        Config
	normalizer *normalize.DailyNormalizer
	logger     *logrus.Logger
}

func NewService(cfg Config) (*Service, error) {
	if cfg.Dune == nil {
		return nil, fmt.Errorf("dune client is required")
	}
	if cfg.Flipside == nil {
		return nil, fmt.Errorf("flipside client is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.ProposalsQueryID <= 0 || cfg.NewestDAOsQueryID <= 0 {
		return nil, fmt.Errorf("dune query ids must be positive")
	}

	return &Service{
		cfg:        cfg,
		normalizer: normalize.NewDailyNormalizer(constants.ProposalFields, cfg.Logger),
		logger:     cfg.Logger,
	}, nil
}

func (s *Service) enabled(ctx context.Context, key string) bool {
	if s.cfg.Toggles == nil {
		return flags.Known[key]
	}
	return s.cfg.Toggles.Enabled(ctx, key, flags.Known[key])
}

// FetchDailyProposals returns the daily proposals series from Dune. Any
// failure, including a missing API key, yields an empty series.
func (s *Service) FetchDailyProposals(ctx context.Context) []models.DailyProposal {
	if !s.enabled(ctx, flags.DuneEnabled) {
		s.logger.Debug("dune disabled, skipping proposals fetch")
		return []models.DailyProposal{}
	}

	rs, err := s.cfg.Dune.LatestResult(ctx, s.cfg.ProposalsQueryID)
	if err != nil {
		s.logger.WithError(err).WithField("query_id", s.cfg.ProposalsQueryID).Warn("failed to fetch daily proposals")
		return []models.DailyProposal{}
	}
	return s.normalizer.Proposals(rs)
}

// ProposalActivity returns the proposals chart, using the fallback series
// when Dune has no data.
func (s *Service) ProposalActivity(ctx context.Context) ProposalActivity {
	var days []models.DailyProposal
	if !s.enabled(ctx, flags.ForceFallback) {
		days = s.FetchDailyProposals(ctx)
	}

	source := SourceDune
	if len(days) == 0 {
		s.logger.Info("no proposals data from dune, using fallback series")
		days = slices.Clone(s.cfg.FallbackProposals)
		if days == nil {
			days = []models.DailyProposal{}
		}
		source = SourceFallback
	}

	return ProposalActivity{Source: source, Days: days, Summary: Summarize(days)}
}

// FetchNewestDAOs returns the most recently created realms, or the fallback
// listing when the query fails.
func (s *Service) FetchNewestDAOs(ctx context.Context) DAOListing {
	fallback := func() DAOListing {
		daos := slices.Clone(s.cfg.FallbackDAOs)
		if daos == nil {
			daos = []models.DAO{}
		}
		return DAOListing{Source: SourceFallback, DAOs: daos}
	}

	if s.enabled(ctx, flags.ForceFallback) || !s.enabled(ctx, flags.DuneEnabled) {
		return fallback()
	}

	rs, err := s.cfg.Dune.LatestResult(ctx, s.cfg.NewestDAOsQueryID)
	if err != nil {
		s.logger.WithError(err).WithField("query_id", s.cfg.NewestDAOsQueryID).Warn("failed to fetch newest DAOs")
		return fallback()
	}
	return DAOListing{Source: SourceDune, DAOs: normalize.NormalizeDAOs(rs, constants.MaxNewestDAOs, s.logger)}
}

// Growth returns the monthly DAO creation series.
func (s *Service) Growth() []models.GrowthPoint {
	out := slices.Clone(s.cfg.Growth)
	if out == nil {
		return []models.GrowthPoint{}
	}
	return out
}

// Overview fetches every panel concurrently. Each panel degrades on its own,
// so one slow or failing provider never blanks the others.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	out := &Overview{
		TVL:      s.TotalTVL(),
		TopByTVL: s.TopByTVL(constants.DefaultTopDAOs),
		Growth:   s.Growth(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out.Proposals = s.ProposalActivity(gctx)
		return nil
	})
	g.Go(func() error {
		out.NewestDAOs = s.FetchNewestDAOs(gctx)
		return nil
	})
	g.Go(func() error {
		out.FungiTVL = s.FungiDAOTVL(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
