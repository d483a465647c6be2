package agent

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ibtsamraza/psychometric-analysis/internal/model"
)

// ErrQualityGateExhausted means a quality gate kept rejecting the
// narrative after the configured number of regenerations.
var ErrQualityGateExhausted = errors.New("quality gate retry budget exhausted")

// DefaultRetryBudget is how many regenerations each quality gate may
// force before the run fails.
const DefaultRetryBudget = 3

// Canned narratives returned verbatim when a high anomaly signal
// short-circuits the pipeline. The item-level narrative is empty in both
// cases.
const (
	HighResponseBiasNarrative = "The individual seems to have taken the test carefully, possibly to conceal certain aspects of themselves. The scores may not accurately reflect their traits and skills. Assessment during the interview is recommended."

	HighSocialDesirabilityNarrative = "According to the test scores, the candidate seems to have a tendency to appear in a desirable way. Due to this factor of social desirability, her test scores may not be interpreted as accurate presentation of her skills."
)

// Notes appended to the finished narrative for the non-high signals,
// response bias first.
const (
	responseBiasNote = "The individual seems to have taken the test cautiously, possibly to conceal certain aspects of himself/herself. Further assessment during the interview is recommended."

	socialDesirabilityNote = "There are no apparent areas of weakness in his profile. The individual needs to be assessed for social desirability during the interview."
)

// Progress percentage reported on entry to each state
var stateProgress = map[State]int{
	StateGenerateAnalysis:  10,
	StateCheckCompleteness: 35,
	StateJudgeAnalysis:     50,
	StateCorrelateDomains:  65,
	StateApplyAnomalyNotes: 80,
	StateItemLevelAnalysis: 95,
	StateDone:              100,
}

var stateStatus = map[State]string{
	StateGenerateAnalysis:  "Running psychometric analysis…",
	StateCheckCompleteness: "Checking for missing strengths/weaknesses…",
	StateJudgeAnalysis:     "Evaluating analysis quality…",
	StateCorrelateDomains:  "Analyzing correlated domains…",
	StateApplyAnomalyNotes: "Checking for bias/desirability…",
	StateItemLevelAnalysis: "Performing item-level analysis…",
	StateDone:              "Finalizing analysis…",
}

// Reporter receives a progress update on every state transition. The
// session ID is always an explicit argument, never ambient state, so
// concurrent runs cannot cross-talk.
type Reporter interface {
	Report(sessionID, agent, status string, progress int, name string)
}

// Result is the finished output of one run
type Result struct {
	FinalOutput  string
	ItemAnalysis string
}

// analysisState is the mutable record threaded through one run. Owned
// exclusively by that run.
type analysisState struct {
	profile model.ClassifiedProfile
	items   model.ItemGroups
	signals model.AnomalySignals

	analysisText     string
	itemAnalysisText string
	finalOutput      string

	missingCount     int
	exceedsThreshold bool
	isAcceptable     bool
}

// Orchestrator drives one classified profile through the generation
// pipeline, retrying on the two quality gates and reporting progress on
// every transition.
type Orchestrator struct {
	generator   Generator
	reporter    Reporter
	correlated  map[string][]string
	retryBudget int
	logger      *zap.Logger
}

// NewOrchestrator creates an orchestrator. retryBudget <= 0 selects
// DefaultRetryBudget.
func NewOrchestrator(generator Generator, reporter Reporter, correlated map[string][]string, retryBudget int, logger *zap.Logger) *Orchestrator {
	if retryBudget <= 0 {
		retryBudget = DefaultRetryBudget
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		generator:   generator,
		reporter:    reporter,
		correlated:  correlated,
		retryBudget: retryBudget,
		logger:      logger,
	}
}

// RunAnalysis executes the pipeline for one profile. A high anomaly
// signal skips the pipeline and returns the matching canned narrative with
// progress jumping straight from start to complete. Any generator failure
// aborts the run, reports an error status at 0% and propagates.
func (o *Orchestrator) RunAnalysis(ctx context.Context, profile model.ClassifiedProfile, items model.ItemGroups, signals model.AnomalySignals, profileName, sessionID string) (Result, error) {
	o.reporter.Report(sessionID, "start", "Starting analysis…", 0, profileName)

	if signals.HighResponseBias {
		o.reporter.Report(sessionID, "complete", "Analysis complete!", 100, profileName)
		return Result{FinalOutput: HighResponseBiasNarrative}, nil
	}
	if signals.HighSocialDesirable {
		o.reporter.Report(sessionID, "complete", "Analysis complete!", 100, profileName)
		return Result{FinalOutput: HighSocialDesirabilityNarrative}, nil
	}

	run := &analysisState{profile: profile, items: items, signals: signals}
	completenessRetries, judgeRetries := 0, 0

	state := StateGenerateAnalysis
	for state != StateDone {
		o.reporter.Report(sessionID, state.String(), stateStatus[state], stateProgress[state], profileName)

		outcome, err := o.execute(ctx, state, run)
		if err != nil {
			o.reporter.Report(sessionID, "error", err.Error(), 0, profileName)
			return Result{}, err
		}

		next := Next(state, outcome)
		if next == StateGenerateAnalysis {
			switch state {
			case StateCheckCompleteness:
				completenessRetries++
				if completenessRetries > o.retryBudget {
					err := fmt.Errorf("%w: %d traits still missing after %d regenerations", ErrQualityGateExhausted, run.missingCount, completenessRetries)
					o.reporter.Report(sessionID, "error", err.Error(), 0, profileName)
					return Result{}, err
				}
				o.logger.Warn("completeness gate forcing regeneration",
					zap.String("session", sessionID),
					zap.Int("missing", run.missingCount),
					zap.Int("attempt", completenessRetries))
			case StateJudgeAnalysis:
				judgeRetries++
				if judgeRetries > o.retryBudget {
					err := fmt.Errorf("%w: judge rejected the narrative %d times", ErrQualityGateExhausted, judgeRetries)
					o.reporter.Report(sessionID, "error", err.Error(), 0, profileName)
					return Result{}, err
				}
				o.logger.Warn("judge gate forcing regeneration",
					zap.String("session", sessionID),
					zap.Int("attempt", judgeRetries))
			}
		}
		state = next
	}

	o.reporter.Report(sessionID, StateDone.String(), stateStatus[StateDone], stateProgress[StateDone], profileName)
	o.reporter.Report(sessionID, "complete", "Analysis complete!", 100, profileName)
	return Result{FinalOutput: run.finalOutput, ItemAnalysis: run.itemAnalysisText}, nil
}

func (o *Orchestrator) execute(ctx context.Context, state State, run *analysisState) (Outcome, error) {
	var outcome Outcome

	switch state {
	case StateGenerateAnalysis:
		text, err := o.generator.GenerateAnalysis(ctx, run.profile)
		if err != nil {
			return outcome, fmt.Errorf("generate analysis: %w", err)
		}
		run.analysisText = text

	case StateCheckCompleteness:
		missing, err := o.generator.CheckCompleteness(ctx, run.profile, run.analysisText)
		if err != nil {
			return outcome, fmt.Errorf("check completeness: %w", err)
		}
		run.missingCount = missing.Count()
		run.exceedsThreshold = missing.ExceedsThreshold()
		outcome.ExceedsThreshold = run.exceedsThreshold

	case StateJudgeAnalysis:
		verdict, err := o.generator.JudgeAnalysis(ctx, run.analysisText)
		if err != nil {
			return outcome, fmt.Errorf("judge analysis: %w", err)
		}
		run.isAcceptable = verdict == VerdictAcceptable
		outcome.Verdict = verdict

	case StateCorrelateDomains:
		text, err := o.generator.CorrelateDomains(ctx, run.analysisText, o.correlated)
		if err != nil {
			return outcome, fmt.Errorf("correlate domains: %w", err)
		}
		run.finalOutput = text

	case StateApplyAnomalyNotes:
		// Deterministic, no generator call. Response-bias note first.
		if run.signals.ResponseBias {
			run.finalOutput += "\n\n" + responseBiasNote
		}
		if run.signals.SocialDesirable {
			run.finalOutput += "\n\n" + socialDesirabilityNote
		}

	case StateItemLevelAnalysis:
		text, err := o.generator.ItemAnalysis(ctx, run.profile, run.items)
		if err != nil {
			return outcome, fmt.Errorf("item analysis: %w", err)
		}
		run.itemAnalysisText = text
	}

	return outcome, nil
}
