package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/recovery-api/internal/models"
	appErrors "github.com/noah-isme/recovery-api/pkg/errors"
	"github.com/noah-isme/recovery-api/pkg/outcomes"
)

// OutcomeStore provides the series the engine reads and accepts the snapshots it writes.
type OutcomeStore interface {
	ListAssessmentPoints(ctx context.Context, patientID string) ([]models.AssessmentPoint, error)
	ListPainPoints(ctx context.Context, patientID string) ([]models.PainPoint, error)
	UpsertSnapshot(ctx context.Context, record *models.SnapshotRecord) error
}

// BenchmarkStore looks up population reference rows. A nil row means no checkpoint applies.
type BenchmarkStore interface {
	FindBenchmark(ctx context.Context, treatmentType models.TreatmentType, maxWeeks int) (*models.BenchmarkRow, error)
}

type profileReader interface {
	FindProfile(ctx context.Context, patientID string) (*models.PatientProfile, error)
}

// OutcomeServiceConfig tunes outcome behaviour.
type OutcomeServiceConfig struct {
	PersistSnapshots  bool
	BenchmarkCacheTTL time.Duration
}

// OutcomeServiceParams groups constructor dependencies.
type OutcomeServiceParams struct {
	Store      OutcomeStore
	Benchmarks BenchmarkStore
	Profiles   profileReader
	Cache      *CacheService
	Metrics    *MetricsService
	Logger     *zap.Logger
	Config     OutcomeServiceConfig
}

// OutcomeService computes outcome snapshots, benchmark comparisons and the dashboard.
type OutcomeService struct {
	store      OutcomeStore
	benchmarks BenchmarkStore
	profiles   profileReader
	cache      *CacheService
	metrics    *MetricsService
	logger     *zap.Logger
	now        func() time.Time
	cfg        OutcomeServiceConfig
}

// NewOutcomeService constructs the service.
func NewOutcomeService(params OutcomeServiceParams) *OutcomeService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OutcomeService{
		store:      params.Store,
		benchmarks: params.Benchmarks,
		profiles:   params.Profiles,
		cache:      params.Cache,
		metrics:    params.Metrics,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
		cfg:        params.Config,
	}
}

type patientSeries struct {
	assessments []models.AssessmentPoint
	pains       []models.PainPoint
	profile     *models.PatientProfile
}

// Compute derives the patient's analytics snapshot from their full history and records it for
// the current day. Recording is best effort; only a failure to read the history is returned.
func (s *OutcomeService) Compute(ctx context.Context, patientID string) (*models.AnalyticsSnapshot, error) {
	start := time.Now()
	series, err := s.loadSeries(ctx, patientID, false)
	if err != nil {
		return nil, err
	}
	now := s.now()
	snapshot := outcomes.Compute(series.assessments, series.pains, now)
	s.metrics.ObserveOutcomeCompute(time.Since(start))

	s.persistSnapshot(ctx, patientID, now, snapshot)
	return &snapshot, nil
}

// Benchmark compares score with the reference row for treatmentType at weeks post treatment.
// It returns nil when no checkpoint at or before weeks exists. The bool reports a cache hit.
func (s *OutcomeService) Benchmark(ctx context.Context, score float64, treatmentType models.TreatmentType, weeks int) (*models.BenchmarkComparison, bool, error) {
	if !treatmentType.Valid() {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown treatment type %q", treatmentType))
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "score must be a finite number")
	}
	if weeks < 0 {
		s.metrics.RecordBenchmarkComparison("")
		return nil, false, nil
	}

	row, hit, err := s.benchmarkRow(ctx, treatmentType, weeks)
	if err != nil {
		return nil, false, err
	}
	if row == nil {
		s.metrics.RecordBenchmarkComparison("")
		return nil, hit, nil
	}
	cmp := outcomes.CompareToBenchmark(score, *row)
	s.metrics.RecordBenchmarkComparison(string(cmp.Interpretation))
	return &cmp, hit, nil
}

type benchmarkCacheEntry struct {
	Row *models.BenchmarkRow `json:"row"`
}

const benchmarkCachePrefix = "outcomes:benchmark:"

func benchmarkCacheKey(treatmentType models.TreatmentType, weeks int) string {
	return fmt.Sprintf("%s%s:%d", benchmarkCachePrefix, treatmentType, weeks)
}

// FlushBenchmarkCache drops every cached benchmark row, typically after reference data is reloaded.
func (s *OutcomeService) FlushBenchmarkCache(ctx context.Context) {
	s.cache.Invalidate(ctx, benchmarkCachePrefix+"*")
	s.logger.Info("benchmark cache flushed")
}

func (s *OutcomeService) benchmarkRow(ctx context.Context, treatmentType models.TreatmentType, weeks int) (*models.BenchmarkRow, bool, error) {
	key := benchmarkCacheKey(treatmentType, weeks)
	var cached benchmarkCacheEntry
	if s.cache.Get(ctx, key, &cached) {
		return cached.Row, true, nil
	}

	row, err := s.benchmarks.FindBenchmark(ctx, treatmentType, weeks)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrDataAccess.Code, appErrors.ErrDataAccess.Status, "failed to load benchmark")
	}
	s.cache.Set(ctx, key, benchmarkCacheEntry{Row: row}, s.cfg.BenchmarkCacheTTL)
	return row, false, nil
}

// Dashboard combines the snapshot, the latest score's benchmark comparison and insights. The
// benchmark is omitted when the patient has no profile, has no assessments, or the benchmark
// lookup fails.
func (s *OutcomeService) Dashboard(ctx context.Context, patientID string) (*models.OutcomeDashboard, error) {
	start := time.Now()
	series, err := s.loadSeries(ctx, patientID, true)
	if err != nil {
		return nil, err
	}
	now := s.now()
	snapshot := outcomes.Compute(series.assessments, series.pains, now)
	s.metrics.ObserveOutcomeCompute(time.Since(start))
	s.persistSnapshot(ctx, patientID, now, snapshot)

	dashboard := &models.OutcomeDashboard{
		PatientID:   patientID,
		Snapshot:    snapshot,
		GeneratedAt: now,
	}

	sorted := outcomes.SortAssessments(series.assessments)
	if len(sorted) > 0 {
		latest := sorted[len(sorted)-1].PercentageScore
		dashboard.LatestScore = &latest
	}

	if profile := series.profile; profile != nil {
		treatment := profile.TreatmentType
		dashboard.TreatmentType = &treatment
		if dashboard.LatestScore != nil {
			cmp, _, err := s.Benchmark(ctx, *dashboard.LatestScore, treatment, WeeksSince(profile.TreatmentDate, now))
			if err != nil {
				s.logger.Warn("dashboard benchmark unavailable",
					zap.String("patient_id", patientID),
					zap.String("treatment_type", string(treatment)),
					zap.Error(err))
			} else {
				dashboard.Benchmark = cmp
			}
		}
	}

	dashboard.Insights = outcomes.Insights(snapshot, len(sorted), dashboard.Benchmark)
	return dashboard, nil
}

// WeeksSince counts whole weeks from t to now; negative when t is in the future.
func WeeksSince(t, now time.Time) int {
	return int(math.Floor(now.Sub(t).Hours() / 24 / 7))
}

func (s *OutcomeService) loadSeries(ctx context.Context, patientID string, withProfile bool) (*patientSeries, error) {
	var series patientSeries
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		points, err := s.store.ListAssessmentPoints(gctx, patientID)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrDataAccess.Code, appErrors.ErrDataAccess.Status, "failed to load assessments")
		}
		series.assessments = points
		return nil
	})
	g.Go(func() error {
		points, err := s.store.ListPainPoints(gctx, patientID)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrDataAccess.Code, appErrors.ErrDataAccess.Status, "failed to load pain scores")
		}
		series.pains = points
		return nil
	})
	if withProfile && s.profiles != nil {
		g.Go(func() error {
			profile, err := s.profiles.FindProfile(gctx, patientID)
			if err != nil {
				return appErrors.Wrap(err, appErrors.ErrDataAccess.Code, appErrors.ErrDataAccess.Status, "failed to load patient profile")
			}
			series.profile = profile
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &series, nil
}

func (s *OutcomeService) persistSnapshot(ctx context.Context, patientID string, now time.Time, snapshot models.AnalyticsSnapshot) {
	if !s.cfg.PersistSnapshots {
		return
	}
	day := now.UTC()
	record := &models.SnapshotRecord{
		PatientID:         patientID,
		SnapshotDate:      time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
		AnalyticsSnapshot: snapshot,
		ComputedAt:        now,
	}
	if err := s.store.UpsertSnapshot(ctx, record); err != nil {
		s.metrics.IncSnapshotPersistFailure()
		s.logger.Warn("failed to persist outcome snapshot",
			zap.String("patient_id", patientID),
			zap.Time("snapshot_date", record.SnapshotDate),
			zap.Error(err))
	}
}
