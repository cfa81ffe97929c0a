package sitepath

import (
	stderrors "errors"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/bollard/internal/foundation/errors"
)

// ErrPathEscape is the cause of every path_escape error raised by a Resolver.
var ErrPathEscape = stderrors.New("path escapes root")

// Resolver maps site paths onto the source and destination roots and refuses
// any OS path outside them.
type Resolver struct {
	src string
	dst string
}

// NewResolver creates a resolver for the given roots. Both are made absolute.
func NewResolver(sourceRoot, destRoot string) (*Resolver, error) {
	src, err := filepath.Abs(sourceRoot)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid source root").
			WithContext("path", sourceRoot).Fatal().Build()
	}
	dst, err := filepath.Abs(destRoot)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid destination root").
			WithContext("path", destRoot).Fatal().Build()
	}
	return &Resolver{src: src, dst: dst}, nil
}

// SourceRoot returns the absolute source root.
func (r *Resolver) SourceRoot() string { return r.src }

// DestRoot returns the absolute destination root.
func (r *Resolver) DestRoot() string { return r.dst }

// SourcePath returns the OS path of a site path in the source tree. The source
// root itself is a valid result.
func (r *Resolver) SourcePath(sitePath string) (string, error) {
	p := filepath.Join(r.src, filepath.FromSlash(Clean(sitePath)))
	if p == r.src {
		return p, nil
	}
	return r.contain(r.src, p, sitePath)
}

// DestPath returns the OS path of a site path in the destination tree.
func (r *Resolver) DestPath(sitePath string) (string, error) {
	p := filepath.Join(r.dst, filepath.FromSlash(Clean(sitePath)))
	return r.contain(r.dst, p, sitePath)
}

// DestPathParts joins raw path parts under the destination root. Parts are not
// normalised as site paths, so ".." in a part is checked against the sandbox.
func (r *Resolver) DestPathParts(parts ...string) (string, error) {
	joined := filepath.Join(append([]string{r.dst}, parts...)...)
	return r.contain(r.dst, joined, strings.Join(parts, "/"))
}

// SiteRelative returns the site path of an OS path inside the destination root.
func (r *Resolver) SiteRelative(destPath string) (string, error) {
	p, err := r.contain(r.dst, destPath, destPath)
	if err != nil {
		return "", err
	}
	rel, _ := filepath.Rel(r.dst, p)
	return "/" + filepath.ToSlash(rel), nil
}

// SourceRelative returns the site path of an OS path inside the source root.
func (r *Resolver) SourceRelative(srcPath string) (string, error) {
	abs, err := filepath.Abs(srcPath)
	if err != nil {
		return "", escapeError(srcPath, err)
	}
	if abs == r.src {
		return Root, nil
	}
	p, err := r.contain(r.src, abs, srcPath)
	if err != nil {
		return "", err
	}
	rel, _ := filepath.Rel(r.src, p)
	return "/" + filepath.ToSlash(rel), nil
}

// IsDestRoot reports whether osPath is the destination root.
func (r *Resolver) IsDestRoot(osPath string) bool {
	abs, err := filepath.Abs(osPath)
	return err == nil && abs == r.dst
}

// contain verifies that p lies strictly inside root.
func (r *Resolver) contain(root, p, requested string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", escapeError(requested, err)
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", escapeError(requested, err)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", escapeError(requested, ErrPathEscape)
	}
	return abs, nil
}

func escapeError(requested string, cause error) error {
	return errors.WrapError(cause, errors.CategoryPathEscape, "path escapes sandbox").
		WithContext("path", requested).
		Fatal().
		Build()
}
