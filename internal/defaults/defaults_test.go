package defaults

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/bollard/internal/attrs"
	"git.home.luguber.info/inful/bollard/internal/foundation/errors"
)

func rule(path, ext, collection, marker string) Rule {
	return Rule{Path: path, Ext: ext, Collection: collection, Values: attrs.Map{"Layout": attrs.String(marker)}}
}

func TestResolveEmptyRulesYieldsFallback(t *testing.T) {
	d, err := NewResolver(nil)
	require.NoError(t, err)

	got := d.Resolve("/index.md", "")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestResolveSpecificity(t *testing.T) {
	d, err := NewResolver([]Rule{
		rule("/", "", "", "root"),
		rule("/blog", "", "", "blog"),
		rule("", ".md", "", "markdown"),
		rule("", "", "photos", "collection"),
		rule("/photos", ".html", "photos", "exact"),
	})
	require.NoError(t, err)

	assert.Equal(t, "root", d.Resolve("/about.gohtml", "").Str("Layout"))
	assert.Equal(t, "blog", d.Resolve("/blog/x.gohtml", "").Str("Layout"))
	// An extension match outranks any path prefix shorter than 250 characters.
	assert.Equal(t, "markdown", d.Resolve("/blog/x.md", "").Str("Layout"))
	assert.Equal(t, "markdown", d.Resolve("/blog/X.MD", "").Str("Layout"))
	assert.Equal(t, "collection", d.Resolve("/other/a.jpg", "photos").Str("Layout"))
	assert.Equal(t, "exact", d.Resolve("/photos/a.html", "photos").Str("Layout"))
	// Collection comparison is exact.
	assert.Equal(t, "root", d.Resolve("/other/a.jpg", "Photos").Str("Layout"))
}

func TestResolveTieGoesToFirstRule(t *testing.T) {
	d, err := NewResolver([]Rule{
		rule("/a", "", "", "first"),
		rule("/A", "", "", "second"),
	})
	require.NoError(t, err)
	assert.Equal(t, "first", d.Resolve("/a/page.md", "").Str("Layout"))
}

func TestResolveUnscopedRuleActsAsGlobalDefault(t *testing.T) {
	d, err := NewResolver([]Rule{
		rule("", "", "", "global"),
		rule("/docs", "", "", "docs"),
	})
	require.NoError(t, err)

	assert.Equal(t, "global", d.Resolve("/index.md", "").Str("Layout"))
	assert.Equal(t, "docs", d.Resolve("/docs/a.md", "").Str("Layout"))
}

func TestResolveDeclaredRuleWinsAtZero(t *testing.T) {
	d, err := NewResolver([]Rule{
		rule("/blog", "", "", "blog"),
		rule("/news", "", "", "news"),
	})
	require.NoError(t, err)
	assert.Equal(t, "blog", d.Resolve("/index.md", "").Str("Layout"))
}

func TestResolvePartialMatchesAddUp(t *testing.T) {
	d, err := NewResolver([]Rule{
		rule("/blog", ".md", "", "md-rule"),
		rule("/", "", "", "root"),
	})
	require.NoError(t, err)

	// The extension alone outweighs the one-character root prefix.
	assert.Equal(t, "md-rule", d.Resolve("/news/a.md", "").Str("Layout"))
	assert.Equal(t, "root", d.Resolve("/news/a.gohtml", "").Str("Layout"))
}

func TestResolveReturnsCopy(t *testing.T) {
	d, err := NewResolver([]Rule{rule("/", "", "", "root")})
	require.NoError(t, err)

	first := d.Resolve("/a.md", "")
	first.Set("Layout", attrs.String("mutated"))
	first.Set("Extra", attrs.Int(1))

	second := d.Resolve("/a.md", "")
	assert.Equal(t, "root", second.Str("Layout"))
	assert.False(t, second.Has("Extra"))
}

func TestNewResolverValidation(t *testing.T) {
	_, err := NewResolver([]Rule{{Path: "blog"}})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))

	d, err := NewResolver([]Rule{rule("", "md", "", "md")})
	require.NoError(t, err)
	assert.Equal(t, "md", d.Resolve("/x.md", "").Str("Layout"))
}

func TestScore(t *testing.T) {
	r := Rule{Path: "/blog", Ext: ".md", Collection: "posts"}
	assert.Equal(t, 250+250+5, r.Score("/blog/a.md", "posts"))
	assert.Equal(t, 250+5, r.Score("/blog/a.md", ""))
	assert.Equal(t, 250+250, r.Score("/news/a.md", "posts"))
	assert.Equal(t, 250, r.Score("/news/a.md", ""))
	assert.Equal(t, 5, r.Score("/BLOG/a.gohtml", ""))
	assert.Equal(t, 0, r.Score("/news/a.gohtml", "Posts"))
	assert.Equal(t, 0, Rule{}.Score("/a.md", "posts"))
}
