package model

import "time"

// ProfileInput is one candidate profile (one spreadsheet sheet in the
// original intake) inside an analyze request.
type ProfileInput struct {
	Name    string     `json:"name"`
	Domains []Domain   `json:"domains"`
	Items   ItemGroups `json:"items"`

	// Responses is the flat ordered option sequence, used for
	// response-bias detection when Signals is not pre-computed.
	Responses []string `json:"responses,omitempty"`

	// Signals, when non-nil, overrides server-side anomaly detection.
	Signals *AnomalySignals `json:"signals,omitempty"`
}

// AnalyzeRequest carries a batch of profiles to analyze
type AnalyzeRequest struct {
	Profiles []ProfileInput `json:"profiles"`
}

// ProfileReport is the finished narrative output for one profile
type ProfileReport struct {
	Name         string         `json:"name" bson:"name"`
	Analysis     string         `json:"analysis" bson:"analysis"`
	ItemAnalysis string         `json:"itemAnalysis" bson:"itemAnalysis"`
	Signals      AnomalySignals `json:"signals" bson:"signals"`
	Error        string         `json:"error,omitempty" bson:"error,omitempty"`
}

// SessionReport is the persisted result of one analyze session
type SessionReport struct {
	SessionID string          `json:"sessionId" bson:"sessionId"`
	Reports   []ProfileReport `json:"reports" bson:"reports"`
	CreatedAt time.Time       `json:"createdAt" bson:"createdAt"`
}
