package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibtsamraza/psychometric-analysis/internal/agent"
	"github.com/ibtsamraza/psychometric-analysis/internal/classifier"
	"github.com/ibtsamraza/psychometric-analysis/internal/model"
	"github.com/ibtsamraza/psychometric-analysis/internal/session"
)

// stubGenerator produces canned narratives that sail through both gates.
type stubGenerator struct {
	calls int
}

func (g *stubGenerator) GenerateAnalysis(ctx context.Context, profile model.ClassifiedProfile) (string, error) {
	g.calls++
	return "stub analysis", nil
}

func (g *stubGenerator) CheckCompleteness(ctx context.Context, profile model.ClassifiedProfile, analysis string) (agent.MissingTraits, error) {
	return agent.MissingTraits{}, nil
}

func (g *stubGenerator) JudgeAnalysis(ctx context.Context, analysis string) (agent.Verdict, error) {
	return agent.VerdictAcceptable, nil
}

func (g *stubGenerator) CorrelateDomains(ctx context.Context, analysis string, correlated map[string][]string) (string, error) {
	return analysis, nil
}

func (g *stubGenerator) ItemAnalysis(ctx context.Context, profile model.ClassifiedProfile, items model.ItemGroups) (string, error) {
	return "stub item analysis", nil
}

func newTestService(t *testing.T) (*AnalysisService, *stubGenerator, *session.Store) {
	t.Helper()
	gen := &stubGenerator{}
	sessions := session.NewStore()
	orch := agent.NewOrchestrator(gen, sessions, classifier.CorrelatedDomains, 0, nil)
	return NewAnalysisService(orch, sessions, nil, nil, nil), gen, sessions
}

func validProfile(name string) model.ProfileInput {
	return model.ProfileInput{
		Name: name,
		Domains: []model.Domain{
			{Name: "Teamwork", Score: 85, Subdomains: []model.ScoreNode{
				{Name: "Helping others", Score: 90},
				{Name: "Patience", Score: 45},
			}},
		},
		Items: model.ItemGroups{
			"Helping others": {{Item: "Enjoying helping others.", Subdomain: "Helping others", SelectedOption: "Agree"}},
		},
	}
}

func TestAnalyzeBatch_NoProfiles(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.AnalyzeBatch(context.Background(), model.AnalyzeRequest{}, "s1")
	assert.ErrorIs(t, err, ErrNoProfiles)
}

func TestAnalyzeBatch_HappyPath(t *testing.T) {
	svc, gen, sessions := newTestService(t)

	report, err := svc.AnalyzeBatch(context.Background(), model.AnalyzeRequest{
		Profiles: []model.ProfileInput{validProfile("Alice")},
	}, "s1")
	require.NoError(t, err)

	require.Len(t, report.Reports, 1)
	assert.Empty(t, report.Reports[0].Error)
	assert.Equal(t, "stub analysis", report.Reports[0].Analysis)
	assert.Equal(t, "stub item analysis", report.Reports[0].ItemAnalysis)
	assert.Equal(t, 1, gen.calls)

	rec, ok := sessions.Get("s1")
	require.True(t, ok)
	assert.Equal(t, 100, rec.Progress)
}

func TestAnalyzeBatch_FailingProfileDoesNotAbortBatch(t *testing.T) {
	svc, _, sessions := newTestService(t)

	bad := validProfile("Bad")
	bad.Domains[0].Subdomains[0].Name = ""

	report, err := svc.AnalyzeBatch(context.Background(), model.AnalyzeRequest{
		Profiles: []model.ProfileInput{bad, validProfile("Good")},
	}, "s1")
	require.NoError(t, err)

	require.Len(t, report.Reports, 2)
	assert.NotEmpty(t, report.Reports[0].Error)
	assert.Empty(t, report.Reports[0].Analysis)
	assert.Empty(t, report.Reports[1].Error)
	assert.Equal(t, "stub analysis", report.Reports[1].Analysis)

	// The failing profile still reported an error record along the way,
	// but the good profile finished the session.
	rec, ok := sessions.Get("s1")
	require.True(t, ok)
	assert.Equal(t, 100, rec.Progress)
}

func TestAnalyzeBatch_MissingItems(t *testing.T) {
	svc, gen, _ := newTestService(t)

	input := validProfile("Alice")
	input.Items = nil

	report, err := svc.AnalyzeBatch(context.Background(), model.AnalyzeRequest{
		Profiles: []model.ProfileInput{input},
	}, "s1")
	require.NoError(t, err)

	require.Len(t, report.Reports, 1)
	assert.Contains(t, report.Reports[0].Error, ErrMissingMatchingItems.Error())
	assert.Zero(t, gen.calls)
}

func TestAnalyzeBatch_ShortCircuitSkipsClassification(t *testing.T) {
	svc, gen, _ := newTestService(t)

	// High response bias skips classification entirely, so malformed
	// scores and absent items do not matter.
	input := model.ProfileInput{
		Name:    "Alice",
		Signals: &model.AnomalySignals{ResponseBias: true, HighResponseBias: true},
	}

	report, err := svc.AnalyzeBatch(context.Background(), model.AnalyzeRequest{
		Profiles: []model.ProfileInput{input},
	}, "s1")
	require.NoError(t, err)

	require.Len(t, report.Reports, 1)
	assert.Empty(t, report.Reports[0].Error)
	assert.Equal(t, agent.HighResponseBiasNarrative, report.Reports[0].Analysis)
	assert.Empty(t, report.Reports[0].ItemAnalysis)
	assert.Zero(t, gen.calls)
}

func TestAnalyzeBatch_DetectsSignalsWhenNotProvided(t *testing.T) {
	svc, _, _ := newTestService(t)

	input := validProfile("Alice")
	for i := 0; i < 24; i++ {
		input.Responses = append(input.Responses, "Neutral")
	}

	report, err := svc.AnalyzeBatch(context.Background(), model.AnalyzeRequest{
		Profiles: []model.ProfileInput{input},
	}, "s1")
	require.NoError(t, err)

	require.Len(t, report.Reports, 1)
	assert.True(t, report.Reports[0].Signals.HighResponseBias)
	assert.Equal(t, agent.HighResponseBiasNarrative, report.Reports[0].Analysis)
}

func TestGetReport_NoStores(t *testing.T) {
	svc, _, _ := newTestService(t)

	report, err := svc.GetReport(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, report)
}
