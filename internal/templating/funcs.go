package templating

import (
	"fmt"
	"strings"
	texttemplate "text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/bollard/internal/attrs"
)

var titleCaser = cases.Title(language.Und)

// funcMap holds the helpers available to every compiled template. Session
// methods cover everything that needs render context.
func funcMap() map[string]any {
	return map[string]any{
		"lower": func(v any) string { return strings.ToLower(toString(v)) },
		"upper": func(v any) string { return strings.ToUpper(toString(v)) },
		"title": func(v any) string { return titleCaser.String(toString(v)) },
		"default": func(def, v any) any {
			if truth, ok := texttemplate.IsTrue(v); ok && truth {
				return v
			}
			return def
		},
	}
}

func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case attrs.Value:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
