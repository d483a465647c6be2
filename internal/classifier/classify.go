package classifier

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ibtsamraza/psychometric-analysis/internal/model"
)

// ErrMalformedScoreData means the score tree violates shape or type
// expectations. Classification never partially applies.
var ErrMalformedScoreData = errors.New("malformed score data")

// Classification thresholds, as percentages
const (
	strengthMin = 80

	developmentMax = 60

	// FAIRNESS uses a wider excluded band: only very low scores count
	// as a development area.
	fairnessDevelopmentMax = 40
)

// Subdomain renames applied inside the Emotional Stability domain
const (
	emotionalStabilityDomain = "emotional stability"

	selfControl    = "self-control"
	selfRegulation = "self-regulation"

	emotionalComposure  = "Emotional Composure"
	emotionalManagement = "Emotional Management"
)

// Classify splits every subdomain score into strengths and development
// areas. General rule: score >= 80 is a strength, <= 60 a development
// area, anything between is excluded from both. FAIRNESS keeps the
// strength threshold but only becomes a development area at <= 40.
// Strengths come back sorted descending by score, development areas
// ascending; ties keep encounter order.
func Classify(domains []model.Domain) (model.ClassifiedProfile, error) {
	if err := validate(domains); err != nil {
		return model.ClassifiedProfile{}, err
	}

	var profile model.ClassifiedProfile
	for _, domain := range domains {
		for _, sub := range domain.Subdomains {
			node := model.ScoreNode{
				Name:  effectiveName(domain.Name, sub.Name),
				Score: sub.Score,
			}

			if strings.EqualFold(node.Name, "FAIRNESS") {
				switch {
				case node.Score >= strengthMin:
					profile.Strengths = append(profile.Strengths, node)
				case node.Score <= fairnessDevelopmentMax:
					profile.DevelopmentAreas = append(profile.DevelopmentAreas, node)
				}
				continue
			}

			switch {
			case node.Score >= strengthMin:
				profile.Strengths = append(profile.Strengths, node)
			case node.Score <= developmentMax:
				profile.DevelopmentAreas = append(profile.DevelopmentAreas, node)
			}
		}
	}

	sort.SliceStable(profile.Strengths, func(i, j int) bool {
		return profile.Strengths[i].Score > profile.Strengths[j].Score
	})
	sort.SliceStable(profile.DevelopmentAreas, func(i, j int) bool {
		return profile.DevelopmentAreas[i].Score < profile.DevelopmentAreas[j].Score
	})

	return profile, nil
}

// effectiveName applies the Emotional Stability renames before
// classification so downstream narratives never see the raw labels.
func effectiveName(domainName, subName string) string {
	if !strings.EqualFold(domainName, emotionalStabilityDomain) {
		return subName
	}
	switch strings.ToLower(subName) {
	case selfControl:
		return emotionalComposure
	case selfRegulation:
		return emotionalManagement
	default:
		return subName
	}
}

func validate(domains []model.Domain) error {
	for _, domain := range domains {
		if domain.Name == "" {
			return fmt.Errorf("%w: domain with empty name", ErrMalformedScoreData)
		}
		for _, sub := range domain.Subdomains {
			if sub.Name == "" {
				return fmt.Errorf("%w: subdomain with empty name in domain %q", ErrMalformedScoreData, domain.Name)
			}
			if math.IsNaN(sub.Score) || math.IsInf(sub.Score, 0) {
				return fmt.Errorf("%w: subdomain %q has non-numeric score", ErrMalformedScoreData, sub.Name)
			}
		}
	}
	return nil
}
