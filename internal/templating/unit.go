package templating

import (
	"bytes"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"git.home.luguber.info/inful/bollard/internal/attrs"
)

// Flavor selects the output encoding of a unit.
type Flavor int

const (
	// FlavorHTML encodes plain values and passes template.HTML through.
	FlavorHTML Flavor = iota
	// FlavorText writes values verbatim.
	FlavorText
)

func (f Flavor) String() string {
	if f == FlavorText {
		return "text"
	}
	return "html"
}

// FlavorFor returns the flavor of a template source file, and false when the
// extension does not name a template.
func FlavorFor(name string) (Flavor, bool) {
	switch {
	case strings.HasSuffix(strings.ToLower(name), ".gohtml"):
		return FlavorHTML, true
	case strings.HasSuffix(strings.ToLower(name), ".tmpl"):
		return FlavorText, true
	default:
		return FlavorHTML, false
	}
}

// Unit is one runnable template unit.
type Unit interface {
	Name() string
	Flavor() Flavor
	Execute(s *Session) error
}

// MetaUnit is implemented by units that carry frontmatter. A "Layout" key in
// the meta is the layout the unit requests unless its body sets another.
type MetaUnit interface {
	Unit
	Meta() attrs.Map
}

type funcUnit struct {
	name   string
	flavor Flavor
	fn     func(*Session) error
}

// UnitFunc adapts a Go function to the Unit interface.
func UnitFunc(name string, flavor Flavor, fn func(*Session) error) Unit {
	return &funcUnit{name: name, flavor: flavor, fn: fn}
}

func (u *funcUnit) Name() string             { return u.name }
func (u *funcUnit) Flavor() Flavor           { return u.flavor }
func (u *funcUnit) Execute(s *Session) error { return u.fn(s) }

// templateUnit is a compiled html/template or text/template.
type templateUnit struct {
	name string
	html *htmltemplate.Template
	text *texttemplate.Template
	meta attrs.Map
}

func (u *templateUnit) Name() string { return u.name }

func (u *templateUnit) Flavor() Flavor {
	if u.text != nil {
		return FlavorText
	}
	return FlavorHTML
}

func (u *templateUnit) Meta() attrs.Map { return u.meta }

// noValue is what text/template prints for a key absent from a map of
// interfaces; html/template prints nothing for it.
const noValue = "<no value>"

func (u *templateUnit) Execute(s *Session) error {
	if u.html != nil {
		return u.html.Execute(s.buf, view{s})
	}

	out := s.buf
	s.buf = &bytes.Buffer{}
	err := u.text.Execute(s.buf, view{s})
	out.WriteString(strings.ReplaceAll(s.buf.String(), noValue, ""))
	s.buf = out
	return err
}
