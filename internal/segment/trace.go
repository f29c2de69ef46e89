package segment

// Strategy identifies one of the mutually exclusive derivation methods.
type Strategy string

const (
	StrategyChapters    Strategy = "chapters"
	StrategyDescription Strategy = "description"
	StrategySilence     Strategy = "silence"
	// StrategyNone is the terminal fallback: keep the file whole.
	StrategyNone Strategy = "none"
)

// Attempt records the outcome of one strategy for the audit trail.
type Attempt struct {
	Strategy Strategy
	// Rejected holds the reason the strategy yielded nothing; empty when
	// the strategy won.
	Rejected string
	// Segments is the number of segments the strategy produced.
	Segments int
}

// Trace is the structured record of a derivation run. Decision logic stays
// pure; the CLI layer turns the trace into log output. An operator must be
// able to audit why a file was or wasn't split as expected, so this is
// observable behavior, not optional logging.
type Trace struct {
	// Chosen is the winning strategy, StrategyNone when every strategy
	// fell through.
	Chosen   Strategy
	Attempts []Attempt
	// Warnings are locally recovered anomalies (malformed timestamps,
	// demoted chapter ends) surfaced at warning level.
	Warnings []string
}

// reject appends a failed attempt.
func (t *Trace) reject(s Strategy, reason string) {
	t.Attempts = append(t.Attempts, Attempt{Strategy: s, Rejected: reason})
}

// accept appends the winning attempt and marks it chosen.
func (t *Trace) accept(s Strategy, n int) {
	t.Attempts = append(t.Attempts, Attempt{Strategy: s, Segments: n})
	t.Chosen = s
}

// warn appends a warning.
func (t *Trace) warn(msg string) {
	t.Warnings = append(t.Warnings, msg)
}
