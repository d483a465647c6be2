package model

// SessionRecord is the latest progress of one analysis session. One record
// per session ID, overwritten in place on every update; no history is kept.
// Timestamp is a process-local monotonic value, not wall time, so polling
// by "newer than T" is immune to clock adjustment.
type SessionRecord struct {
	SessionID string `json:"sessionId"`
	Agent     string `json:"agent"`
	Status    string `json:"status"`
	Progress  int    `json:"progress"`
	Timestamp int64  `json:"timestamp"`
	Name      string `json:"name"`
}

// Done reports whether observers should stop watching this session
func (r SessionRecord) Done() bool {
	return r.Progress >= 100
}
