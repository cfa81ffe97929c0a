package templating

import (
	stderrors "errors"
	htmltemplate "html/template"
	"io/fs"
	"os"
	"strings"
	"sync"
	texttemplate "text/template"

	"git.home.luguber.info/inful/bollard/internal/attrs"
	"git.home.luguber.info/inful/bollard/internal/foundation/errors"
	"git.home.luguber.info/inful/bollard/internal/frontmatter"
	"git.home.luguber.info/inful/bollard/internal/sitepath"
)

// Directories searched for bare layout and include names, in order.
var searchDirs = []string{"/_layouts/", "/_includes/"}

// Extensions tried for names without one, in order.
var searchExts = []string{".gohtml", ".tmpl"}

// Engine compiles template sources from the site tree and caches the units
// for the lifetime of one build.
type Engine struct {
	resolver *sitepath.Resolver

	mu    sync.Mutex
	units map[string]Unit
}

// NewEngine creates an engine reading sources through r.
func NewEngine(r *sitepath.Resolver) *Engine {
	return &Engine{resolver: r, units: make(map[string]Unit)}
}

// Compile parses source into a unit.
func (e *Engine) Compile(name, source string, flavor Flavor) (Unit, error) {
	return compile(name, source, flavor, attrs.Map{})
}

func compile(name, source string, flavor Flavor, meta attrs.Map) (Unit, error) {
	u := &templateUnit{name: name, meta: meta}
	var err error
	switch flavor {
	case FlavorText:
		u.text, err = texttemplate.New(name).Funcs(funcMap()).Option("missingkey=zero").Parse(source)
	default:
		u.html, err = htmltemplate.New(name).Funcs(funcMap()).Option("missingkey=zero").Parse(source)
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryCompile, "template compilation failed").
			WithContext("template", name).
			Build()
	}
	return u, nil
}

// Load compiles the template at a site path. Frontmatter is split off into
// the unit's meta. Units are cached per site path.
func (e *Engine) Load(sitePath string) (Unit, error) {
	sitePath = sitepath.Clean(sitePath)

	e.mu.Lock()
	defer e.mu.Unlock()
	if u, ok := e.units[sitePath]; ok {
		return u, nil
	}

	flavor, ok := FlavorFor(sitePath)
	if !ok {
		return nil, errors.CompileError("not a template source").
			WithContext("path", sitePath).
			Build()
	}
	osPath, err := e.resolver.SourcePath(sitePath)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(osPath)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.WrapError(err, errors.CategoryTemplateLookup, "template not found").
				WithContext("name", sitePath).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read template").
			WithContext("path", osPath).
			Build()
	}
	doc, err := frontmatter.Parse(content)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryCompile, "invalid template frontmatter").
			WithContext("template", sitePath).
			Build()
	}

	u, err := compile(sitePath, string(doc.Body), flavor, doc.Attrs())
	if err != nil {
		return nil, err
	}
	e.units[sitePath] = u
	return u, nil
}

// Lookup resolves a layout or include name. A name containing '/' is a site
// path, relative names resolving from the root. A bare name is searched in
// /_layouts/ and then /_includes/. Names without an extension try .gohtml
// and then .tmpl.
func (e *Engine) Lookup(name string) (Unit, error) {
	for _, candidate := range candidates(name) {
		osPath, err := e.resolver.SourcePath(candidate)
		if err != nil {
			return nil, err
		}
		if info, err := os.Stat(osPath); err == nil && !info.IsDir() {
			return e.Load(candidate)
		}
	}
	return nil, errors.TemplateLookupError("template not found").
		WithContext("name", name).
		Build()
}

func candidates(name string) []string {
	var bases []string
	if strings.Contains(name, "/") {
		bases = []string{sitepath.Clean(name)}
	} else {
		for _, dir := range searchDirs {
			bases = append(bases, dir+name)
		}
	}

	var out []string
	for _, base := range bases {
		if _, ok := FlavorFor(base); ok {
			out = append(out, base)
			continue
		}
		for _, ext := range searchExts {
			out = append(out, base+ext)
		}
	}
	return out
}
