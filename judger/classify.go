package judger

import "strings"

const VerdictAccepted = "accepted"

// Outcome is the classified form of a raw provider verdict. When
// Pending is false, Verdict holds the normalized terminal verdict.
type Outcome struct {
	Pending bool
	Verdict string
}

// Classifier maps a raw provider verdict string to an Outcome. The rule
// is provider-specific, so it stays pluggable: another provider plugs in
// its own Classifier next to its own client.
type Classifier func(raw string) Outcome

// ClassifyPrefix is the codeforces-scraper policy: the provider reports
// non-terminal states as "In Queue", "Running on test N" and similar, so
// anything starting with "running" or "in" is still pending.
func ClassifyPrefix(raw string) Outcome {
	v := strings.ToLower(strings.TrimSpace(raw))
	if strings.HasPrefix(v, "running") || strings.HasPrefix(v, "in") {
		return Outcome{Pending: true}
	}
	return Outcome{Verdict: v}
}
