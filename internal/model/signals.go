package model

// AnomalySignals are the response-quality flags computed before a run.
// The High variants are hard short-circuits: the analysis pipeline is
// skipped entirely and a canned narrative is returned instead. The plain
// variants only add a note to the finished narrative.
type AnomalySignals struct {
	ResponseBias        bool `json:"responseBias" bson:"responseBias"`
	HighResponseBias    bool `json:"highResponseBias" bson:"highResponseBias"`
	SocialDesirable     bool `json:"socialDesirable" bson:"socialDesirable"`
	HighSocialDesirable bool `json:"highSocialDesirable" bson:"highSocialDesirable"`
}

// ShortCircuit reports whether the pipeline must be skipped entirely
func (s AnomalySignals) ShortCircuit() bool {
	return s.HighResponseBias || s.HighSocialDesirable
}
