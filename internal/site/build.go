package site

import (
	"context"
	stderrors "errors"
	"log/slog"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/bollard/internal/foundation/errors"
	"git.home.luguber.info/inful/bollard/internal/logfields"
	"git.home.luguber.info/inful/bollard/internal/templating"
	"git.home.luguber.info/inful/bollard/internal/util/sets"
)

type stage struct {
	name StageName
	fn   func(context.Context) error
}

// Build prepares every collection, renders the collections and then walks
// the source tree. Per-file failures are collected in the report and turn
// the returned error into a build error once the walk has finished. Config
// errors, sandbox violations and cancellation stop the build immediately.
func (s *Site) Build(ctx context.Context) (*Report, error) {
	report := newReport(uuid.NewString(), s.now())
	s.report = report
	s.engine = templating.NewEngine(s.resolver)
	s.dirs = sets.NewSync[string]()
	s.outputs = sets.NewSync[string]()
	s.siteAttrs = s.newSiteAttrs(report)

	log := s.logger.With(logfields.BuildID(report.BuildID))
	log.Info("Build started",
		logfields.Path(s.resolver.SourceRoot()),
		slog.String("output", s.resolver.DestRoot()),
		slog.Int("defaults_rules", s.defaults.Rules()))

	var stages []stage
	if s.target == "" {
		stages = append(stages,
			stage{StagePrep, s.prepCollections},
			stage{StageCollections, s.renderCollections},
			stage{StagePages, s.renderTree})
	} else {
		stages = append(stages, stage{StagePages, s.renderTarget})
	}

	err := s.runStages(ctx, stages)
	report.finish(s.now(), err)
	s.recorder.ObserveBuildDuration(report.Duration())
	s.recorder.IncBuildOutcome(report.Outcome)

	log.Info("Build finished",
		logfields.Outcome(string(report.Outcome)),
		logfields.Count(report.Rendered+report.Copied),
		logfields.DurationMS(float64(report.Duration().Milliseconds())))

	if err != nil {
		return report, err
	}
	if n := len(report.Failures); n > 0 {
		return report, errors.BuildError("build completed with failures").
			WithContext("failures", n).
			WithContext("build_id", report.BuildID).
			WithCause(report.Failures[0].Err).
			Build()
	}
	return report, nil
}

func (s *Site) runStages(ctx context.Context, stages []stage) error {
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := s.now()
		err := st.fn(ctx)
		d := s.now().Sub(start)
		s.report.StageDurations[st.name] = d
		s.recorder.ObserveStageDuration(string(st.name), d)
		s.logger.Debug("Stage finished",
			logfields.Stage(string(st.name)),
			logfields.DurationMS(float64(d.Microseconds())/1000))
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Site) prepCollections(ctx context.Context) error {
	for _, c := range s.collections {
		if err := c.Prep(ctx); err != nil {
			return err
		}
	}
	s.publishCollections()
	return nil
}

func (s *Site) renderCollections(ctx context.Context) error {
	for _, c := range s.collections {
		if err := c.Render(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Fail records a per-item failure and logs it with its classification context.
func (s *Site) Fail(sitePath string, err error) {
	s.report.addFailure(sitePath, err)
	args := []any{logfields.SitePath(sitePath), logfields.Error(err)}
	if classified, ok := errors.AsClassified(err); ok {
		args = append(args, "category", string(classified.Category()))
		for k, v := range classified.Context() {
			args = append(args, k, v)
		}
	}
	s.logger.Error("Build item failed", args...)
}

func isCanceled(err error) bool {
	return stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)
}
