package usecase

// RunState is the lifecycle of one ingestion run.
type RunState int

const (
	NotStarted RunState = iota
	Running
	Committed
	Aborted
)

func (s RunState) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Running:
		return "running"
	case Committed:
		return "committed"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Skip records a symbol that was left out of a run and why.
type Skip struct {
	Symbol string
	Reason error
}

// Report summarises one run. Ingested is empty unless the run committed.
type Report struct {
	State    RunState
	Ingested []string
	Skipped  []Skip
}
