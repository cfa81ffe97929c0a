// Package markdown converts Markdown page bodies to HTML with goldmark.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Options controls the converter.
type Options struct {
	// Unsafe passes raw HTML in the Markdown source through to the output.
	Unsafe bool
	// RewriteLinks turns relative links to .md and .markdown files into links to
	// the .html pages they are rendered to.
	RewriteLinks bool
}

// DefaultOptions is used by NewConverter when no options are given.
var DefaultOptions = Options{Unsafe: true, RewriteLinks: true}

// Converter turns Markdown into HTML. It holds no per-document state.
type Converter struct {
	md goldmark.Markdown
}

// NewConverter builds a converter with GFM, footnotes, definition lists and
// typographic punctuation enabled.
func NewConverter(opts ...Options) *Converter {
	o := DefaultOptions
	if len(opts) > 0 {
		o = opts[0]
	}

	parserOpts := []parser.Option{parser.WithAutoHeadingID()}
	if o.RewriteLinks {
		parserOpts = append(parserOpts, parser.WithASTTransformers(
			util.Prioritized(linkRewriter{}, 100),
		))
	}
	var rendererOpts []goldmark.Option
	if o.Unsafe {
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(html.WithUnsafe()))
	}

	md := goldmark.New(append([]goldmark.Option{
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.DefinitionList,
			extension.Typographer,
		),
		goldmark.WithParserOptions(parserOpts...),
	}, rendererOpts...)...)

	return &Converter{md: md}
}

// ToHTML converts a Markdown body (frontmatter already removed) to HTML.
func (c *Converter) ToHTML(source []byte) (string, error) {
	var buf bytes.Buffer
	if err := c.md.Convert(source, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type linkRewriter struct{}

func (linkRewriter) Transform(doc *gmast.Document, _ text.Reader, _ parser.Context) {
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if link, ok := n.(*gmast.Link); ok {
			link.Destination = []byte(RewriteLink(string(link.Destination)))
		}
		return gmast.WalkContinue, nil
	})
}

// RewriteLink maps a relative link to a Markdown source onto its rendered page.
// Absolute URLs and links to other files are returned unchanged.
func RewriteLink(dest string) string {
	if dest == "" || strings.Contains(dest, "://") || strings.HasPrefix(dest, "mailto:") || strings.HasPrefix(dest, "#") {
		return dest
	}

	path, suffix := dest, ""
	if i := strings.IndexAny(dest, "?#"); i >= 0 {
		path, suffix = dest[:i], dest[i:]
	}
	for _, ext := range []string{".md", ".markdown"} {
		if strings.HasSuffix(strings.ToLower(path), ext) {
			return path[:len(path)-len(ext)] + ".html" + suffix
		}
	}
	return dest
}
