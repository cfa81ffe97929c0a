package site

import (
	"fmt"
	"sync"
	"time"

	"git.home.luguber.info/inful/bollard/internal/metrics"
)

// StageName identifies a build stage.
type StageName string

const (
	StagePrep        StageName = "prep"
	StageCollections StageName = "render_collections"
	StagePages       StageName = "render_pages"
)

// Failure is one source item that could not be built.
type Failure struct {
	Path string
	Err  error
}

// Report captures the outcome of one build.
type Report struct {
	BuildID        string
	Start          time.Time
	End            time.Time
	Outcome        metrics.BuildOutcome
	StageDurations map[StageName]time.Duration

	mu           sync.Mutex
	Rendered     int
	Copied       int
	UpToDate     int
	FailedFiles  int
	Derivatives  int
	Failures     []Failure
	DuplicateOut []string
}

func newReport(id string, start time.Time) *Report {
	return &Report{
		BuildID:        id,
		Start:          start,
		StageDurations: make(map[StageName]time.Duration),
	}
}

func (r *Report) addFailure(path string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Failures = append(r.Failures, Failure{Path: path, Err: err})
}

func (r *Report) addDuplicate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.DuplicateOut = append(r.DuplicateOut, path)
}

func (r *Report) countFile(o metrics.FileOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch o {
	case metrics.FileRendered:
		r.Rendered++
	case metrics.FileCopied:
		r.Copied++
	case metrics.FileUpToDate:
		r.UpToDate++
	case metrics.FileFailed:
		r.FailedFiles++
	}
}

func (r *Report) countDerivative(o metrics.DerivativeOutcome) {
	if o != metrics.DerivativeCreated {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Derivatives++
}

func (r *Report) finish(end time.Time, err error) {
	r.End = end
	switch {
	case err != nil && isCanceled(err):
		r.Outcome = metrics.BuildCanceled
	case err != nil || len(r.Failures) > 0:
		r.Outcome = metrics.BuildFailed
	default:
		r.Outcome = metrics.BuildSuccess
	}
}

// Duration returns the wall time of the build.
func (r *Report) Duration() time.Duration { return r.End.Sub(r.Start) }

// Summary returns a human-readable single-line summary.
func (r *Report) Summary() string {
	return fmt.Sprintf("rendered=%d copied=%d up_to_date=%d derivatives=%d failures=%d duration=%s outcome=%s",
		r.Rendered, r.Copied, r.UpToDate, r.Derivatives, len(r.Failures),
		r.Duration().Truncate(time.Millisecond), r.Outcome)
}

// reportRecorder counts outcomes into the report before forwarding them.
type reportRecorder struct {
	next   metrics.Recorder
	report *Report
}

func (r reportRecorder) ObserveStageDuration(stage string, d time.Duration) {
	r.next.ObserveStageDuration(stage, d)
}

func (r reportRecorder) ObserveBuildDuration(d time.Duration) { r.next.ObserveBuildDuration(d) }

func (r reportRecorder) IncFileOutcome(o metrics.FileOutcome) {
	if r.report != nil {
		r.report.countFile(o)
	}
	r.next.IncFileOutcome(o)
}

func (r reportRecorder) IncDerivative(collection string, o metrics.DerivativeOutcome) {
	if r.report != nil {
		r.report.countDerivative(o)
	}
	r.next.IncDerivative(collection, o)
}

func (r reportRecorder) IncBuildOutcome(o metrics.BuildOutcome) { r.next.IncBuildOutcome(o) }
