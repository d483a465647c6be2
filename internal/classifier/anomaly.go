package classifier

import "github.com/ibtsamraza/psychometric-analysis/internal/model"

// Response-bias thresholds over the count of "Neutral" selections
const (
	neutralOption = "Neutral"

	biasNeutralMin     = 15
	highBiasNeutralMin = 24
)

// Social-desirability thresholds over subdomain score counts
const (
	desirableScoreMin = 95
	lowScoreMax       = 60

	socialHighCountMin     = 6
	highSocialHighCountMin = 11
)

// DetectResponseBias flags evasive answering from the flat option
// sequence. 15-23 neutral answers indicate possible bias; 24 or more is a
// hard signal that the whole pipeline must be skipped.
func DetectResponseBias(selectedOptions []string) (bias, highBias bool) {
	neutral := 0
	for _, opt := range selectedOptions {
		if opt == neutralOption {
			neutral++
		}
	}

	switch {
	case neutral >= highBiasNeutralMin:
		highBias = true
	case neutral >= biasNeutralMin:
		bias = true
	}
	return bias, highBias
}

// DetectSocialDesirability flags a favorable self-presentation skew: many
// near-ceiling subdomain scores with no low ones. The two conditions are
// evaluated independently, so a profile can set both flags at once.
func DetectSocialDesirability(domains []model.Domain) (social, highSocial bool) {
	countHigh, countLow := 0, 0
	for _, domain := range domains {
		for _, sub := range domain.Subdomains {
			if sub.Score >= desirableScoreMin {
				countHigh++
			} else if sub.Score <= lowScoreMax {
				countLow++
			}
		}
	}

	social = countHigh >= socialHighCountMin && countLow == 0
	highSocial = countHigh >= highSocialHighCountMin
	return social, highSocial
}

// DetectSignals bundles both detectors into one AnomalySignals value
func DetectSignals(domains []model.Domain, selectedOptions []string) model.AnomalySignals {
	var s model.AnomalySignals
	s.ResponseBias, s.HighResponseBias = DetectResponseBias(selectedOptions)
	s.SocialDesirable, s.HighSocialDesirable = DetectSocialDesirability(domains)
	return s
}
