// Package site runs a complete build of one source tree: collection
// preparation, collection rendering and the walk over every other file.
package site

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/bollard/internal/assetmeta"
	"git.home.luguber.info/inful/bollard/internal/attrs"
	"git.home.luguber.info/inful/bollard/internal/collection"
	"git.home.luguber.info/inful/bollard/internal/config"
	"git.home.luguber.info/inful/bollard/internal/defaults"
	"git.home.luguber.info/inful/bollard/internal/foundation/errors"
	"git.home.luguber.info/inful/bollard/internal/imaging"
	"git.home.luguber.info/inful/bollard/internal/markdown"
	"git.home.luguber.info/inful/bollard/internal/metrics"
	"git.home.luguber.info/inful/bollard/internal/sitepath"
	"git.home.luguber.info/inful/bollard/internal/templating"
	"git.home.luguber.info/inful/bollard/internal/util/sets"
)

// Site holds everything one build needs. It is created per build invocation.
type Site struct {
	cfg         *config.Config
	resolver    *sitepath.Resolver
	defaults    *defaults.Resolver
	converter   *markdown.Converter
	collections []collection.Collection
	store       assetmeta.Store
	codec       imaging.Codec

	// target is the single source file to render; empty in directory mode.
	target string

	logger   *slog.Logger
	recorder metrics.Recorder
	now      func() time.Time

	engine    *templating.Engine
	siteAttrs attrs.Map
	dirs      *sets.Sync[string]
	outputs   *sets.Sync[string]
	report    *Report
}

// Option configures a Site.
type Option func(*Site)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Site) { s.logger = l }
}

// WithRecorder sets the metrics recorder. The default records nothing.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Site) { s.recorder = r }
}

// WithMetadataStore replaces the EXIF metadata store used by collections.
func WithMetadataStore(st assetmeta.Store) Option {
	return func(s *Site) { s.store = st }
}

// WithCodec replaces the image codec used for derivatives.
func WithCodec(c imaging.Codec) Option {
	return func(s *Site) { s.codec = c }
}

// WithClock sets the time source for build timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Site) { s.now = now }
}

// WithTarget switches the site to single-file mode: only the given source
// file is rendered and collections are skipped.
func WithTarget(path string) Option {
	return func(s *Site) { s.target = path }
}

// New creates a site for cfg. Configuration problems are reported as fatal
// config errors before anything is written.
func New(cfg *config.Config, opts ...Option) (*Site, error) {
	if cfg == nil {
		return nil, errors.ConfigError("configuration is required").Build()
	}
	resolver, err := sitepath.NewResolver(cfg.SourceDir, cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	rules, err := defaults.NewResolver(cfg.DefaultsRules())
	if err != nil {
		return nil, err
	}

	s := &Site{
		cfg:       cfg,
		resolver:  resolver,
		defaults:  rules,
		converter: markdown.NewConverter(markdown.DefaultOptions),
		logger:    slog.Default(),
		recorder:  metrics.NoopRecorder{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.codec == nil {
		quality := cfg.JPEGQuality
		if quality == 0 {
			quality = imaging.DefaultQuality
		}
		s.codec = imaging.StdCodec{Quality: quality}
	}

	if s.target != "" {
		abs, err := filepath.Abs(s.target)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "invalid target file").
				WithContext("path", s.target).Fatal().Build()
		}
		info, err := os.Stat(abs)
		if err != nil || info.IsDir() {
			return nil, errors.ConfigError("target is not a file").
				WithContext("path", abs).
				WithCause(err).
				Build()
		}
		if _, err := resolver.SourceRelative(abs); err != nil {
			return nil, err
		}
		s.target = abs
	}

	gen := imaging.NewGenerator(s.codec)
	for _, c := range cfg.Collections {
		sizes := make([]collection.NamedSize, len(c.Sizes))
		for i, sz := range c.Sizes {
			sizes[i] = collection.NamedSize{Name: sz.Name, Bound: imaging.Size{Width: sz.Width, Height: sz.Height}}
		}
		s.collections = append(s.collections, collection.NewDerivatives(s, collection.Spec{
			Name:   c.Name,
			Source: c.Source,
			Layout: c.Layout,
			Sizes:  sizes,
		}, s.store, gen))
	}
	return s, nil
}

// Collections returns the configured collections in declaration order.
func (s *Site) Collections() []collection.Collection { return s.collections }

// Resolver returns the path resolver of the site.
func (s *Site) Resolver() *sitepath.Resolver { return s.resolver }

// Lookup resolves a layout or include name through the build's engine.
func (s *Site) Lookup(name string) (templating.Unit, error) { return s.engine.Lookup(name) }

// SiteAttrs returns the attributes exposed to templates as .Site.
func (s *Site) SiteAttrs() attrs.Map { return s.siteAttrs }

// Defaults resolves the defaults cascade for a site path.
func (s *Site) Defaults(sitePath, collection string) attrs.Map {
	return s.defaults.Resolve(sitePath, collection)
}

// Recorder returns the recorder feeding both the report and the configured metrics.
func (s *Site) Recorder() metrics.Recorder { return reportRecorder{next: s.recorder, report: s.report} }

// Logger returns the site logger.
func (s *Site) Logger() *slog.Logger { return s.logger }

func (s *Site) newSiteAttrs(r *Report) attrs.Map {
	return attrs.Map{
		"Url":         attrs.String(s.cfg.BaseURL),
		"Title":       attrs.String(s.cfg.Title),
		"Description": attrs.String(s.cfg.Description),
		"BuildID":     attrs.String(r.BuildID),
		"BuildTime":   attrs.Time(r.Start),
		"Params":      attrs.MapValue(attrs.MapFromAny(s.cfg.Params)),
		"Collections": attrs.MapValue(attrs.Map{}),
	}
}

// publishCollections exposes every prepared collection as .Site.Collections.<name>.
func (s *Site) publishCollections() {
	all := attrs.Map{}
	for _, c := range s.collections {
		pages := c.Pages()
		list := make([]attrs.Value, len(pages))
		for i, p := range pages {
			list[i] = attrs.MapValue(p)
		}
		all.Set(c.Name(), attrs.MapValue(attrs.Map{
			"Name":  attrs.String(c.Name()),
			"Path":  attrs.String(c.Path()),
			"Pages": attrs.List(list...),
		}))
	}
	s.siteAttrs.Set("Collections", attrs.MapValue(all))
}
