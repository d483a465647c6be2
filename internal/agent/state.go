package agent

import "strings"

// State is one stage of the analysis pipeline
type State int

const (
	StateGenerateAnalysis State = iota
	StateCheckCompleteness
	StateJudgeAnalysis
	StateCorrelateDomains
	StateApplyAnomalyNotes
	StateItemLevelAnalysis
	StateDone
)

func (s State) String() string {
	switch s {
	case StateGenerateAnalysis:
		return "generate_analysis"
	case StateCheckCompleteness:
		return "check_completeness"
	case StateJudgeAnalysis:
		return "judge_analysis"
	case StateCorrelateDomains:
		return "correlate_domains"
	case StateApplyAnomalyNotes:
		return "apply_anomaly_notes"
	case StateItemLevelAnalysis:
		return "item_analysis"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Verdict is the judge's two-valued quality ruling, parsed once at the
// generator boundary so the orchestrator never inspects raw text.
type Verdict int

const (
	VerdictUnacceptable Verdict = iota
	VerdictAcceptable
)

// ParseVerdict maps the judge's free-text ruling onto a Verdict. The
// ruling is acceptable only when it contains the standalone word
// "acceptable"; "unacceptable" is its own token and does not match.
func ParseVerdict(text string) Verdict {
	for _, token := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	}) {
		if token == "acceptable" {
			return VerdictAcceptable
		}
	}
	return VerdictUnacceptable
}

// MissingTraits is the completeness gate's finding: named traits absent
// from the narrative.
type MissingTraits struct {
	MissingStrengths  []string `json:"missing_strengths"`
	MissingWeaknesses []string `json:"missing_weaknesses"`
}

// Count is the total number of missing traits
func (m MissingTraits) Count() int {
	return len(m.MissingStrengths) + len(m.MissingWeaknesses)
}

// ExceedsThreshold reports whether either list is long enough to force a
// regeneration (more than four missing on one side).
func (m MissingTraits) ExceedsThreshold() bool {
	return len(m.MissingStrengths) > 4 || len(m.MissingWeaknesses) > 4
}

// Outcome carries the routing-relevant result of executing one state
type Outcome struct {
	ExceedsThreshold bool
	Verdict          Verdict
}

// Next is the pure transition function of the pipeline. Both quality
// gates loop back to regeneration; every other edge is unconditional.
func Next(state State, outcome Outcome) State {
	switch state {
	case StateGenerateAnalysis:
		return StateCheckCompleteness
	case StateCheckCompleteness:
		if outcome.ExceedsThreshold {
			return StateGenerateAnalysis
		}
		return StateJudgeAnalysis
	case StateJudgeAnalysis:
		if outcome.Verdict != VerdictAcceptable {
			return StateGenerateAnalysis
		}
		return StateCorrelateDomains
	case StateCorrelateDomains:
		return StateApplyAnomalyNotes
	case StateApplyAnomalyNotes:
		return StateItemLevelAnalysis
	case StateItemLevelAnalysis:
		return StateDone
	default:
		return StateDone
	}
}
