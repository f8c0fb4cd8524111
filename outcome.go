package sculptor

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is the result class of a single file step.
type Status int

const (
	StatusApplied Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// ErrorKind classifies why a step was skipped or failed.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindInvalidPath
	KindUnreadableFile
	KindUnsupportedFormat
	KindFilesystem
	KindAsymmetricPair
	KindMetadata
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidPath:
		return "invalid_path"
	case KindUnreadableFile:
		return "unreadable_file"
	case KindUnsupportedFormat:
		return "unsupported_format"
	case KindFilesystem:
		return "filesystem_failure"
	case KindAsymmetricPair:
		return "asymmetric_pair_failure"
	case KindMetadata:
		return "metadata_failure"
	default:
		return ""
	}
}

// Outcome is the result of one step on one file.
type Outcome struct {
	Path   string // file the step acted on
	Dest   string // resulting location, when the step produced one
	Status Status
	Kind   ErrorKind
	Reason string
	Err    error
}

func applied(path, dest, reason string) Outcome {
	return Outcome{Path: path, Dest: dest, Status: StatusApplied, Reason: reason}
}

func skipped(path string, kind ErrorKind, reason string, err error) Outcome {
	return Outcome{Path: path, Status: StatusSkipped, Kind: kind, Reason: reason, Err: err}
}

func failed(path string, kind ErrorKind, reason string, err error) Outcome {
	return Outcome{Path: path, Status: StatusFailed, Kind: kind, Reason: reason, Err: err}
}

// PairOutcome reports an asset step and, when a caption was resolved, the
// matching caption step.
type PairOutcome struct {
	Asset   Outcome
	Caption *Outcome
}

// Asymmetric reports whether the pair diverged: one side changed and the other failed.
func (p PairOutcome) Asymmetric() bool {
	if p.Caption == nil {
		return false
	}
	return (p.Asset.Status == StatusApplied && p.Caption.Status == StatusFailed) ||
		(p.Asset.Status == StatusFailed && p.Caption.Status == StatusApplied)
}

func single(o Outcome) PairOutcome { return PairOutcome{Asset: o} }

// BatchReport summarizes one operation run.
type BatchReport struct {
	RunID     string
	Operation string

	Applied         int // assets changed
	Skipped         int // assets evaluated but left alone
	Failed          int // assets (or swept captions) whose step failed
	Asymmetric      int // pairs left diverged by a caption-side failure
	CaptionsApplied int // captions changed, including the orphan sweep

	Elapsed  time.Duration
	Outcomes []PairOutcome // sorted by asset path
	Sweep    []Outcome     // orphan-caption sweep, sorted by path
}

// ElapsedSeconds returns the run duration in seconds.
func (r *BatchReport) ElapsedSeconds() float64 {
	return r.Elapsed.Seconds()
}

func newReport(op string, started time.Time, outcomes []PairOutcome) *BatchReport {
	r := &BatchReport{
		RunID:     uuid.NewString(),
		Operation: op,
		Outcomes:  outcomes,
	}
	sort.SliceStable(r.Outcomes, func(i, j int) bool {
		return r.Outcomes[i].Asset.Path < r.Outcomes[j].Asset.Path
	})
	for _, o := range r.Outcomes {
		switch o.Asset.Status {
		case StatusApplied:
			r.Applied++
		case StatusSkipped:
			r.Skipped++
		default:
			r.Failed++
		}
		if o.Caption != nil && o.Caption.Status == StatusApplied {
			r.CaptionsApplied++
		}
		if o.Asymmetric() {
			r.Asymmetric++
		}
	}
	r.Elapsed = time.Since(started)
	return r
}

// addSweep folds orphan-sweep results into the report.
func (r *BatchReport) addSweep(started time.Time, sweep []Outcome) {
	sort.SliceStable(sweep, func(i, j int) bool { return sweep[i].Path < sweep[j].Path })
	r.Sweep = append(r.Sweep, sweep...)
	for _, o := range sweep {
		switch o.Status {
		case StatusApplied:
			r.CaptionsApplied++
		case StatusFailed:
			r.Failed++
		}
	}
	r.Elapsed = time.Since(started)
}

// collector gathers outcomes from concurrent workers.
type collector struct {
	mu        sync.Mutex
	outcomes  []PairOutcome
	onOutcome func(PairOutcome)
}

func (c *collector) add(o PairOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outcomes = append(c.outcomes, o)
	if c.onOutcome != nil {
		c.onOutcome(o)
	}
}
