package sitepath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombine(t *testing.T) {
	cases := []struct {
		base, sub, want string
	}{
		{"/", "a", "/a"},
		{"/a/b", "c", "/a/b/c"},
		{"/a/b", "./c", "/a/b/c"},
		{"/a/b", "../c", "/a/c"},
		{"/a/b", "/c", "/c"},
		{"/a/b", "x//y", "/y"},
		{"/a", "c/", "/a/c"},
		{"", "", "/"},
		{"/a", `b\c`, "/a/b/c"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Combine(tc.base, tc.sub), "Combine(%q, %q)", tc.base, tc.sub)
	}
}

func TestCombineClampsAtRoot(t *testing.T) {
	p := "/a/b"
	for range 10 {
		p = Combine(p, "..")
		assert.Regexp(t, `^/`, p)
	}
	assert.Equal(t, "/", p)
	assert.Equal(t, "/etc", Combine("/", "../../../etc"))
}

func TestRelative(t *testing.T) {
	cases := []struct {
		from, to, want string
	}{
		{"/index.html", "/css/site.css", "css/site.css"},
		{"/blog/post.html", "/css/site.css", "../css/site.css"},
		{"/blog/2020/post.html", "/blog/img/a.jpg", "../img/a.jpg"},
		{"/blog/a.html", "/blog/b.html", "b.html"},
		{"/photos/x.html", "/photos/images/x_800x600.jpg", "images/x_800x600.jpg"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Relative(tc.from, tc.to), "Relative(%q, %q)", tc.from, tc.to)
	}
}

func TestDirExt(t *testing.T) {
	assert.Equal(t, "/blog", Dir("/blog/a.md"))
	assert.Equal(t, "/", Dir("/a.md"))
	assert.Equal(t, ".md", Ext("/blog/a.md"))
	assert.Equal(t, "", Ext("/blog.d/README"))
	assert.Equal(t, "", Ext("/.hidden"))
	assert.Equal(t, "/blog/a", TrimExt("/blog/a.md"))
}
