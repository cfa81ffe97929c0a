package metrics

import "time"

// FileOutcome labels what the walker did with one source file.
type FileOutcome string

const (
	FileRendered FileOutcome = "rendered"
	FileCopied   FileOutcome = "copied"
	FileUpToDate FileOutcome = "up_to_date"
	FileFailed   FileOutcome = "failed"
)

// DerivativeOutcome labels the result of one derivative generation.
type DerivativeOutcome string

const (
	DerivativeCreated  DerivativeOutcome = "created"
	DerivativeExisting DerivativeOutcome = "existing"
	DerivativeFailed   DerivativeOutcome = "failed"
)

// BuildOutcome labels the final status of a build.
type BuildOutcome string

const (
	BuildSuccess  BuildOutcome = "success"
	BuildFailed   BuildOutcome = "failed"
	BuildCanceled BuildOutcome = "canceled"
)

// Recorder defines observability hooks for build and stage metrics.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncFileOutcome(outcome FileOutcome)
	IncDerivative(collection string, outcome DerivativeOutcome)
	IncBuildOutcome(outcome BuildOutcome)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncFileOutcome(FileOutcome)                 {}
func (NoopRecorder) IncDerivative(string, DerivativeOutcome)    {}
func (NoopRecorder) IncBuildOutcome(BuildOutcome)               {}
