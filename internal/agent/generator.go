package agent

import (
	"context"

	"github.com/ibtsamraza/psychometric-analysis/internal/model"
)

// Generator is the narrative-generation collaborator. Each method is one
// request shape; implementations are stateless and every call is a
// blocking point for the run that issued it.
type Generator interface {
	// GenerateAnalysis writes the behavioral narrative from the
	// classified strengths and development areas.
	GenerateAnalysis(ctx context.Context, profile model.ClassifiedProfile) (string, error)

	// CheckCompleteness compares the narrative against the full trait
	// lists and names the traits it fails to cover.
	CheckCompleteness(ctx context.Context, profile model.ClassifiedProfile, analysis string) (MissingTraits, error)

	// JudgeAnalysis rules on the narrative's acceptance criteria.
	JudgeAnalysis(ctx context.Context, analysis string) (Verdict, error)

	// CorrelateDomains reorders the narrative's sentences so correlated
	// traits appear contiguously, without changing wording.
	CorrelateDomains(ctx context.Context, analysis string, correlated map[string][]string) (string, error)

	// ItemAnalysis writes the item-level narrative from the grouped
	// questionnaire responses.
	ItemAnalysis(ctx context.Context, profile model.ClassifiedProfile, items model.ItemGroups) (string, error)
}
