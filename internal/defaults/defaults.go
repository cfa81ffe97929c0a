// Package defaults selects the default page attributes for a target path.
//
// Rules are scored by specificity: 250 for a matching extension, 250 for a
// matching collection and the length of a matching path prefix. The first
// declared rule with the highest score wins, even at a score of 0; an empty
// attribute map is the fallback when no rules are declared.
package defaults

import (
	"strings"

	"git.home.luguber.info/inful/bollard/internal/attrs"
	"git.home.luguber.info/inful/bollard/internal/foundation/errors"
)

const (
	extWeight        = 250
	collectionWeight = 250
)

// Rule is one scoped set of default attributes. Empty scope fields never add to the score.
type Rule struct {
	Path       string
	Ext        string
	Collection string
	Values     attrs.Map
}

// Score returns the specificity of r for the target. Each matching scope
// field adds its weight; fields that are unset or do not match add nothing.
func (r Rule) Score(sitePath, collection string) int {
	score := 0
	if r.Ext != "" && strings.EqualFold(r.Ext, extOf(sitePath)) {
		score += extWeight
	}
	if r.Collection != "" && r.Collection == collection {
		score += collectionWeight
	}
	if r.Path != "" && hasPrefixFold(sitePath, r.Path) {
		score += len(r.Path)
	}
	return score
}

// Resolver holds the ordered rule table.
type Resolver struct {
	rules []Rule
}

// NewResolver validates rules and returns a resolver over them in declaration order.
func NewResolver(rules []Rule) (*Resolver, error) {
	out := make([]Rule, len(rules))
	for i, r := range rules {
		if r.Path != "" && !strings.HasPrefix(r.Path, "/") {
			return nil, errors.ConfigError("defaults rule path must start with '/'").
				WithContext("rule", i).
				WithContext("scope_path", r.Path).
				Build()
		}
		if r.Ext != "" && !strings.HasPrefix(r.Ext, ".") {
			r.Ext = "." + r.Ext
		}
		if r.Ext == "." {
			return nil, errors.ConfigError("defaults rule extension is empty").
				WithContext("rule", i).
				Build()
		}
		if r.Values == nil {
			r.Values = attrs.Map{}
		}
		out[i] = r
	}
	return &Resolver{rules: out}, nil
}

// Rules returns the number of declared rules.
func (d *Resolver) Rules() int { return len(d.rules) }

// Resolve returns a deep copy of the attributes of the best matching rule.
func (d *Resolver) Resolve(sitePath, collection string) attrs.Map {
	best := -1
	bestScore := -1
	for i, r := range d.rules {
		if score := r.Score(sitePath, collection); score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return attrs.Map{}
	}
	return d.rules[best].Values.Clone()
}

func extOf(p string) string {
	base := p[strings.LastIndex(p, "/")+1:]
	if i := strings.LastIndex(base, "."); i > 0 {
		return base[i:]
	}
	return ""
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
