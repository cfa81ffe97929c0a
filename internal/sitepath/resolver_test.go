package sitepath

import (
	stderrors "errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/bollard/internal/foundation/errors"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	root := t.TempDir()
	r, err := NewResolver(filepath.Join(root, "src"), filepath.Join(root, "out"))
	require.NoError(t, err)
	return r
}

func TestDestPathStaysInside(t *testing.T) {
	r := newTestResolver(t)

	for _, p := range []string{"/a.html", "a/b/c.html", "/../../x", "/a/../../../../b", `\..\..\x`} {
		got, err := r.DestPath(p)
		if err != nil {
			// Only the root itself may be rejected.
			assert.True(t, errors.HasCategory(err, errors.CategoryPathEscape))
			continue
		}
		assert.True(t, strings.HasPrefix(got, r.DestRoot()+string(filepath.Separator)), "%s -> %s", p, got)
	}
}

func TestDestPathRejectsRoot(t *testing.T) {
	r := newTestResolver(t)

	_, err := r.DestPath("/")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, ErrPathEscape))
	assert.True(t, errors.HasCategory(err, errors.CategoryPathEscape))
}

func TestDestPathPartsEscape(t *testing.T) {
	r := newTestResolver(t)

	_, err := r.DestPathParts("..", "evil.html")
	require.Error(t, err)
	classified, ok := errors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, errors.CategoryPathEscape, classified.Category())
	path, _ := classified.Context().GetString("path")
	assert.Equal(t, "../evil.html", path)

	got, err := r.DestPathParts("photos", "images", "a.jpg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(r.DestRoot(), "photos", "images", "a.jpg"), got)
}

func TestSiteRelative(t *testing.T) {
	r := newTestResolver(t)

	p, err := r.DestPath("/blog/post.html")
	require.NoError(t, err)
	rel, err := r.SiteRelative(p)
	require.NoError(t, err)
	assert.Equal(t, "/blog/post.html", rel)

	_, err = r.SiteRelative(filepath.Join(r.SourceRoot(), "x"))
	assert.True(t, errors.HasCategory(err, errors.CategoryPathEscape))
}

func TestSourcePath(t *testing.T) {
	r := newTestResolver(t)

	root, err := r.SourcePath("/")
	require.NoError(t, err)
	assert.Equal(t, r.SourceRoot(), root)

	p, err := r.SourcePath("/blog/a.md")
	require.NoError(t, err)
	rel, err := r.SourceRelative(p)
	require.NoError(t, err)
	assert.Equal(t, "/blog/a.md", rel)

	assert.True(t, r.IsDestRoot(r.DestRoot()))
	assert.False(t, r.IsDestRoot(r.SourceRoot()))
}
