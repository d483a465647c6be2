package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ibtsamraza/psychometric-analysis/internal/agent"
	"github.com/ibtsamraza/psychometric-analysis/internal/cache"
	"github.com/ibtsamraza/psychometric-analysis/internal/classifier"
	"github.com/ibtsamraza/psychometric-analysis/internal/model"
	"github.com/ibtsamraza/psychometric-analysis/internal/repository"
	"github.com/ibtsamraza/psychometric-analysis/internal/session"
)

var (
	// ErrNoProfiles means the analyze request carried nothing to analyze
	ErrNoProfiles = errors.New("analyze request has no profiles")

	// ErrMissingMatchingItems means a profile arrived without its item
	// responses; surfaced before any pipeline run starts.
	ErrMissingMatchingItems = errors.New("no matching item responses for profile")
)

// AnalysisService runs analyze batches: one session per request, one
// pipeline run per profile, executed sequentially. A failing profile is
// recorded in its report slot and does not abort the rest of the batch.
type AnalysisService struct {
	orchestrator *agent.Orchestrator
	sessions     *session.Store
	reportRepo   repository.ReportRepo
	reportCache  cache.ReportCache
	logger       *zap.Logger
}

// NewAnalysisService creates an analysis service. reportRepo and
// reportCache may be nil, in which case finished reports are not persisted.
func NewAnalysisService(orchestrator *agent.Orchestrator, sessions *session.Store, reportRepo repository.ReportRepo, reportCache cache.ReportCache, logger *zap.Logger) *AnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisService{
		orchestrator: orchestrator,
		sessions:     sessions,
		reportRepo:   reportRepo,
		reportCache:  reportCache,
		logger:       logger,
	}
}

// AnalyzeBatch analyzes every profile in the request under one session ID
// and persists the finished report.
func (s *AnalysisService) AnalyzeBatch(ctx context.Context, req model.AnalyzeRequest, sessionID string) (*model.SessionReport, error) {
	if len(req.Profiles) == 0 {
		return nil, ErrNoProfiles
	}

	report := &model.SessionReport{
		SessionID: sessionID,
		CreatedAt: time.Now(),
	}

	for _, input := range req.Profiles {
		report.Reports = append(report.Reports, s.analyzeProfile(ctx, input, sessionID))
	}

	s.persist(ctx, report)
	return report, nil
}

func (s *AnalysisService) analyzeProfile(ctx context.Context, input model.ProfileInput, sessionID string) model.ProfileReport {
	signals := s.resolveSignals(input)

	report := model.ProfileReport{Name: input.Name, Signals: signals}

	var profile model.ClassifiedProfile
	if !signals.ShortCircuit() {
		// Classification and item matching happen before the pipeline;
		// their failures abort this profile without entering it.
		var err error
		profile, err = classifier.Classify(input.Domains)
		if err == nil && len(input.Items) == 0 {
			err = fmt.Errorf("%w: %s", ErrMissingMatchingItems, input.Name)
		}
		if err != nil {
			s.sessions.Upsert(sessionID, "error", err.Error(), 0, input.Name)
			s.logger.Error("profile rejected before analysis",
				zap.String("session", sessionID),
				zap.String("profile", input.Name),
				zap.Error(err))
			report.Error = err.Error()
			return report
		}
	}

	result, err := s.orchestrator.RunAnalysis(ctx, profile, input.Items, signals, input.Name, sessionID)
	if err != nil {
		s.logger.Error("analysis run failed",
			zap.String("session", sessionID),
			zap.String("profile", input.Name),
			zap.Error(err))
		report.Error = err.Error()
		return report
	}

	report.Analysis = result.FinalOutput
	report.ItemAnalysis = result.ItemAnalysis
	return report
}

// resolveSignals uses caller-provided flags when present, otherwise runs
// anomaly detection over the raw data.
func (s *AnalysisService) resolveSignals(input model.ProfileInput) model.AnomalySignals {
	if input.Signals != nil {
		return *input.Signals
	}
	return classifier.DetectSignals(input.Domains, input.Responses)
}

// GetReport serves a finished report, cache first, then Mongo with a
// cache backfill.
func (s *AnalysisService) GetReport(ctx context.Context, sessionID string) (*model.SessionReport, error) {
	if s.reportCache != nil {
		report, err := s.reportCache.Get(ctx, sessionID)
		if err != nil {
			s.logger.Warn("report cache read failed", zap.String("session", sessionID), zap.Error(err))
		} else if report != nil {
			return report, nil
		}
	}

	if s.reportRepo == nil {
		return nil, nil
	}
	report, err := s.reportRepo.Get(ctx, sessionID)
	if err != nil || report == nil {
		return report, err
	}

	if s.reportCache != nil {
		if err := s.reportCache.Set(ctx, report); err != nil {
			s.logger.Warn("report cache backfill failed", zap.String("session", sessionID), zap.Error(err))
		}
	}
	return report, nil
}

func (s *AnalysisService) persist(ctx context.Context, report *model.SessionReport) {
	if s.reportRepo != nil {
		if err := s.reportRepo.Save(ctx, report); err != nil {
			s.logger.Error("report save failed", zap.String("session", report.SessionID), zap.Error(err))
		}
	}
	if s.reportCache != nil {
		if err := s.reportCache.Set(ctx, report); err != nil {
			s.logger.Warn("report cache write failed", zap.String("session", report.SessionID), zap.Error(err))
		}
	}
}
