package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibtsamraza/psychometric-analysis/internal/agent"
	"github.com/ibtsamraza/psychometric-analysis/internal/config"
	"github.com/ibtsamraza/psychometric-analysis/internal/model"
)

func TestStripReasoning(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "  the answer  ", "the answer"},
		{"think block", "<think>step one\nstep two</think>\nthe answer", "the answer"},
		{"closing tag only", "reasoning</think>the answer", "the answer"},
		{"multiline answer", "<think>x</think>\nline one\nline two", "line one\nline two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripReasoning(tt.in))
		})
	}
}

func TestParseMissingTraits(t *testing.T) {
	missing, err := parseMissingTraits(`{"missing_strengths":["Patience"],"missing_weaknesses":[]}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Patience"}, missing.MissingStrengths)
	assert.Empty(t, missing.MissingWeaknesses)
}

func TestParseMissingTraits_ProseAroundJSON(t *testing.T) {
	response := "Here is the result:\n```json\n{\"missing_strengths\": [], \"missing_weaknesses\": [\"Dutifulness\", \"Patience\"]}\n```\nDone."

	missing, err := parseMissingTraits(response)
	require.NoError(t, err)
	assert.Empty(t, missing.MissingStrengths)
	assert.Equal(t, []string{"Dutifulness", "Patience"}, missing.MissingWeaknesses)
}

func TestParseMissingTraits_NoJSON(t *testing.T) {
	_, err := parseMissingTraits("everything is covered")
	assert.Error(t, err)
}

func TestFormatNodes(t *testing.T) {
	nodes := []model.ScoreNode{
		{Name: "Patience", Score: 85},
		{Name: "Dutifulness", Score: 42.5},
	}
	assert.Equal(t, "Patience (85.0), Dutifulness (42.5)", formatNodes(nodes))
	assert.Equal(t, "", formatNodes(nil))
}

func TestGeneratorService_MockMode(t *testing.T) {
	svc := NewGeneratorService(&config.AIConfig{TimeoutMS: 1000}, nil)
	ctx := context.Background()

	profile := model.ClassifiedProfile{
		Strengths:        []model.ScoreNode{{Name: "Patience", Score: 90}},
		DevelopmentAreas: []model.ScoreNode{{Name: "Dutifulness", Score: 40}},
	}

	analysis, err := svc.GenerateAnalysis(ctx, profile)
	require.NoError(t, err)
	assert.Contains(t, analysis, "Patience")
	assert.Contains(t, analysis, "Dutifulness")

	missing, err := svc.CheckCompleteness(ctx, profile, analysis)
	require.NoError(t, err)
	assert.Zero(t, missing.Count())

	verdict, err := svc.JudgeAnalysis(ctx, analysis)
	require.NoError(t, err)
	assert.Equal(t, agent.VerdictAcceptable, verdict)

	reordered, err := svc.CorrelateDomains(ctx, analysis, nil)
	require.NoError(t, err)
	assert.Equal(t, analysis, reordered)

	items, err := svc.ItemAnalysis(ctx, profile, model.ItemGroups{"Patience": nil})
	require.NoError(t, err)
	assert.NotEmpty(t, items)
}
