package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPath       = "path"
	KeySitePath   = "site_path"
	KeyCollection = "collection"
	KeyLayout     = "layout"
	KeyDirective  = "directive"
	KeyAsset      = "asset"
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyCount      = "count"
	KeyOutcome    = "outcome"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func SitePath(p string) slog.Attr     { return slog.String(KeySitePath, p) }
func Collection(n string) slog.Attr   { return slog.String(KeyCollection, n) }
func Layout(n string) slog.Attr       { return slog.String(KeyLayout, n) }
func Directive(d string) slog.Attr    { return slog.String(KeyDirective, d) }
func Asset(p string) slog.Attr        { return slog.String(KeyAsset, p) }
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
