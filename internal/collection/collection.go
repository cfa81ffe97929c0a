// Package collection renders directories of photo assets as page collections.
package collection

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/bollard/internal/attrs"
	"git.home.luguber.info/inful/bollard/internal/metrics"
	"git.home.luguber.info/inful/bollard/internal/sitepath"
	"git.home.luguber.info/inful/bollard/internal/templating"
)

// Collection is a group of generated pages sharing one layout.
type Collection interface {
	Name() string
	// Path is the site path prefix of the generated pages.
	Path() string
	// Source is the site path of the source directory the collection owns.
	Source() string
	Prep(ctx context.Context) error
	Render(ctx context.Context) error
	Pages() []attrs.Map
}

// Host is the part of the site a collection builds against.
type Host interface {
	Resolver() *sitepath.Resolver
	Lookup(name string) (templating.Unit, error)
	SiteAttrs() attrs.Map
	Defaults(sitePath, collection string) attrs.Map
	EnsureDir(osPath string) error
	WriteOutput(sitePath string, content []byte) error
	// Fail records a per-item failure without stopping the build.
	Fail(sitePath string, err error)
	Recorder() metrics.Recorder
	Logger() *slog.Logger
}
