package templating

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"slices"
	"strings"

	"git.home.luguber.info/inful/bollard/internal/attrs"
	"git.home.luguber.info/inful/bollard/internal/foundation/errors"
	"git.home.luguber.info/inful/bollard/internal/sitepath"
)

// MaxDepth bounds the number of nested layout and include frames.
const MaxDepth = 32

// LookupFunc resolves a layout or include name to a unit.
type LookupFunc func(name string) (Unit, error)

// Context carries the values injected into a session. Nil fields are absent
// and leave the session's current value untouched.
type Context struct {
	Site       attrs.Map
	Page       attrs.Map
	Model      attrs.Map
	Collection attrs.Map
	Body       *string
	Lookup     LookupFunc
}

// Session is one runnable instance of a unit with its own output buffer.
type Session struct {
	unit       Unit
	site       attrs.Map
	page       attrs.Map
	model      attrs.Map
	collection attrs.Map
	body       *string
	lookup     LookupFunc

	buf    *bytes.Buffer
	layout string
	frames []string
	views  [numSlots]map[string]any
}

// NewSession creates a session for u.
func NewSession(u Unit) *Session {
	return &Session{unit: u, buf: &bytes.Buffer{}, frames: []string{u.Name()}}
}

// SetContext overwrites every field c provides.
func (s *Session) SetContext(c Context) {
	if c.Site != nil {
		s.site = c.Site
		s.views[slotSite] = nil
	}
	if c.Page != nil {
		s.page = c.Page
		s.views[slotPage] = nil
	}
	if c.Model != nil {
		s.model = c.Model
		s.views[slotModel] = nil
	}
	if c.Collection != nil {
		s.collection = c.Collection
		s.views[slotCollection] = nil
	}
	if c.Body != nil {
		s.body = c.Body
	}
	if c.Lookup != nil {
		s.lookup = c.Lookup
	}
}

// Run merges c into the session, executes the unit into a fresh buffer and
// wraps the result with the layout the unit requested, if any.
func (s *Session) Run(c Context) (string, error) {
	out, err := s.execute(c)
	if err != nil {
		return "", err
	}
	if s.layout == "" {
		return out, nil
	}

	layout, err := s.resolve(s.layout, fmt.Sprintf("Layout=%q", s.layout))
	if err != nil {
		return "", err
	}
	child, err := s.child(layout)
	if err != nil {
		return "", err
	}
	child.SetContext(Context{
		Site:       s.site,
		Page:       s.page,
		Model:      s.model,
		Collection: s.collection,
		Body:       &out,
		Lookup:     s.lookup,
	})
	child.inheritViews(s, slotSite, slotPage, slotModel, slotCollection)
	return child.Run(Context{})
}

func (s *Session) execute(c Context) (string, error) {
	s.SetContext(c)
	if s.site == nil {
		s.site = attrs.Map{}
	}
	if s.page == nil {
		s.page = attrs.Map{}
	}
	if s.model == nil {
		s.model = attrs.Map{}
	}
	if s.collection == nil {
		s.collection = attrs.Map{}
	}

	s.buf = &bytes.Buffer{}
	s.layout = ""
	if mu, ok := s.unit.(MetaUnit); ok {
		s.layout = mu.Meta().Str("Layout")
	}

	if err := s.unit.Execute(s); err != nil {
		if errors.IsClassified(err) {
			return "", err
		}
		return "", errors.WrapError(err, errors.CategoryRender, "template execution failed").
			WithContext("template", s.unit.Name()).
			Build()
	}
	return s.buf.String(), nil
}

func (s *Session) resolve(name, directive string) (Unit, error) {
	if s.lookup == nil {
		return nil, errors.TemplateLookupError("no template lookup available").
			WithContext("name", name).
			WithContext("directive", directive).
			WithContext("template", s.unit.Name()).
			Build()
	}
	u, err := s.lookup(name)
	if err == nil {
		return u, nil
	}
	if classified, ok := errors.AsClassified(err); ok && classified.IsCategory(errors.CategoryTemplateLookup) {
		return nil, classified.
			WithContext("directive", directive).
			WithContext("template", s.unit.Name())
	}
	return nil, errors.WrapError(err, errors.CategoryTemplateLookup, "template not found").
		WithContext("name", name).
		WithContext("directive", directive).
		WithContext("template", s.unit.Name()).
		Build()
}

func (s *Session) child(u Unit) (*Session, error) {
	frames := append(slices.Clone(s.frames), u.Name())
	if len(frames) > MaxDepth {
		return nil, errors.RenderError("template nesting exceeds maximum depth").
			WithContext("max_depth", MaxDepth).
			WithContext("frames", strings.Join(frames, " > ")).
			Build()
	}
	return &Session{unit: u, buf: &bytes.Buffer{}, frames: frames}, nil
}

// Include runs the named sibling unit with the caller's site and page and
// appends its output to the current buffer. The sibling gets the supplied
// model, or the caller's when none is given. Layouts requested by the
// sibling are ignored.
func (s *Session) Include(name string, model ...any) (string, error) {
	u, err := s.resolve(name, fmt.Sprintf("Include(%q)", name))
	if err != nil {
		return "", err
	}
	child, err := s.child(u)
	if err != nil {
		return "", err
	}
	m := s.model
	if len(model) > 0 {
		m = toMap(model[0])
	}
	child.SetContext(Context{
		Site:       s.site,
		Page:       s.page,
		Model:      m,
		Collection: s.collection,
		Lookup:     s.lookup,
	})
	child.inheritViews(s, slotSite, slotPage, slotCollection)
	if len(model) == 0 {
		child.inheritViews(s, slotModel)
	}
	out, err := child.execute(Context{})
	if err != nil {
		return "", err
	}
	s.buf.WriteString(out)
	return "", nil
}

// RenderBody appends the wrapped body. It is a no-op when no body was supplied.
func (s *Session) RenderBody() (string, error) {
	if s.body != nil {
		s.buf.WriteString(*s.body)
	}
	return "", nil
}

// SetLayout requests that the output of this run be wrapped by the named layout.
func (s *Session) SetLayout(name string) string {
	s.layout = name
	return ""
}

// Layout returns the layout requested so far.
func (s *Session) Layout() string { return s.layout }

// WriteLiteral appends text without encoding.
func (s *Session) WriteLiteral(text string) {
	s.buf.WriteString(text)
}

// Write appends a value, HTML-encoding it for HTML units unless it is
// template.HTML.
func (s *Session) Write(v any) {
	s.buf.WriteString(s.encode(v))
}

// WriteAttribute appends ` name="value"`. Missing values write nothing.
func (s *Session) WriteAttribute(name string, v any) {
	if v == nil {
		return
	}
	if av, ok := v.(attrs.Value); ok && av.IsMissing() {
		return
	}
	s.buf.WriteString(" ")
	s.buf.WriteString(name)
	s.buf.WriteString(`="`)
	s.buf.WriteString(s.encode(v))
	s.buf.WriteString(`"`)
}

func (s *Session) encode(v any) string {
	if s.unit.Flavor() == FlavorText {
		return toString(v)
	}
	if h, ok := v.(htmltemplate.HTML); ok {
		return string(h)
	}
	return htmltemplate.HTMLEscapeString(toString(v))
}

// Raw marks a value as markup that HTML units must not encode.
func (s *Session) Raw(v any) htmltemplate.HTML {
	return htmltemplate.HTML(toString(v))
}

// Site returns the site attributes.
func (s *Session) Site() attrs.Map { return s.site }

// Page returns the page attributes.
func (s *Session) Page() attrs.Map { return s.page }

// Model returns the model attributes.
func (s *Session) Model() attrs.Map { return s.model }

// Collection returns the collection attributes.
func (s *Session) Collection() attrs.Map { return s.collection }

// Pages returns the page records of the current collection. Templates see
// them as plain maps.
func (s *Session) Pages() []attrs.Map {
	items := s.collection.Get("Pages").Items()
	out := make([]attrs.Map, 0, len(items))
	for _, item := range items {
		if m := item.Map(); m != nil {
			out = append(out, m)
		}
	}
	return out
}

// ToRelativePath returns the link from the current page to a site path.
func (s *Session) ToRelativePath(to any) string {
	return sitepath.Relative(s.page.Str("Path"), toString(to))
}

// ToAbsoluteURL returns the absolute URL of a path. Relative paths resolve
// against the directory of the current page.
func (s *Session) ToAbsoluteURL(p any) string {
	target := toString(p)
	if strings.Contains(target, "://") {
		return target
	}
	base := strings.TrimRight(s.site.Str("Url"), "/")
	return base + sitepath.Combine(sitepath.Dir(s.page.Str("Path")), target)
}

func toMap(v any) attrs.Map {
	switch x := v.(type) {
	case attrs.Map:
		return x
	case attrs.Value:
		if m := x.Map(); m != nil {
			return m
		}
	case map[string]any:
		return attrs.MapFromAny(x)
	}
	return attrs.Map{}
}
