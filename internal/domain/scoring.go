package domain

// ScoringPolicy selects how a session's final score is produced. Exactly one
// policy is active per deployment.
type ScoringPolicy string

const (
	// PolicyThreshold derives the score server-side from recorded events:
	// the count of hits whose flex angle reached the warmup baseline.
	PolicyThreshold ScoringPolicy = "threshold"
	// PolicyReported records a caller-supplied score verbatim.
	PolicyReported ScoringPolicy = "reported"
)

// ParseScoringPolicy validates a raw policy string.
func ParseScoringPolicy(raw string) (ScoringPolicy, error) {
	switch p := ScoringPolicy(raw); p {
	case PolicyThreshold, PolicyReported:
		return p, nil
	default:
		return "", ErrInvalidInput
	}
}

// CountQualifyingHits computes the threshold-policy score: a sum over the
// whole event sequence, independent of event order.
func CountQualifyingHits(baseline Baseline, events []Event) int {
	var hits int
	for _, e := range events {
		if e.Qualifies(baseline) {
			hits++
		}
	}
	return hits
}
