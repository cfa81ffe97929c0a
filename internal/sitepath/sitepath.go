// Package sitepath implements the site-relative path algebra and the sandbox
// that maps site paths onto the source and destination roots.
//
// Site paths use '/' as separator and always begin with '/'.
package sitepath

import (
	"strings"
)

// Root is the site path of the site root.
const Root = "/"

func splitSegments(p string) []string {
	return strings.Split(strings.ReplaceAll(p, "\\", "/"), "/")
}

// Combine appends sub to base and returns a normalised site path.
//
// A "." segment is ignored and ".." removes the previous segment, stopping at
// the root. An empty segment in leading or inner position resets to the root,
// so a sub path beginning with '/' replaces base instead of extending it.
func Combine(base, sub string) string {
	var segs []string
	apply := func(p string) {
		parts := splitSegments(p)
		for i, part := range parts {
			switch part {
			case "":
				if i < len(parts)-1 {
					segs = segs[:0]
				}
			case ".":
			case "..":
				if len(segs) > 0 {
					segs = segs[:len(segs)-1]
				}
			default:
				segs = append(segs, part)
			}
		}
	}
	apply(base)
	apply(sub)
	return "/" + strings.Join(segs, "/")
}

// Clean normalises p into a site path.
func Clean(p string) string {
	return Combine(Root, p)
}

// Dir returns the site path of the directory containing p.
func Dir(p string) string {
	p = Clean(p)
	i := strings.LastIndex(p, "/")
	if i <= 0 {
		return Root
	}
	return p[:i]
}

// Relative returns the relative URL leading from the page at from to the
// resource at to. Both are site paths; from names a page, not a directory.
func Relative(from, to string) string {
	fromSegs := splitSegments(Clean(from))[1:]
	toSegs := splitSegments(Clean(to))[1:]

	common := 0
	for common < len(fromSegs)-1 && common < len(toSegs)-1 && fromSegs[common] == toSegs[common] {
		common++
	}

	var b strings.Builder
	for range len(fromSegs) - 1 - common {
		b.WriteString("../")
	}
	b.WriteString(strings.Join(toSegs[common:], "/"))
	return b.String()
}

// Ext returns the extension of the final segment of p, including the dot.
func Ext(p string) string {
	base := p[strings.LastIndex(p, "/")+1:]
	if i := strings.LastIndex(base, "."); i > 0 {
		return base[i:]
	}
	return ""
}

// TrimExt returns p without the extension of its final segment.
func TrimExt(p string) string {
	return strings.TrimSuffix(p, Ext(p))
}
