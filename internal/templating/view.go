package templating

import "git.home.luguber.info/inful/bollard/internal/attrs"

type slot int

const (
	slotSite slot = iota
	slotPage
	slotModel
	slotCollection
	numSlots
)

// view is the data compiled templates execute against. It shadows the
// attribute accessors of the session with plain Go values, so that {{if}},
// {{eq}} and friends see strings, numbers and nil rather than tagged values.
type view struct {
	*Session
}

func (v view) Site() map[string]any       { return v.native(slotSite, v.site) }
func (v view) Page() map[string]any       { return v.native(slotPage, v.page) }
func (v view) Model() map[string]any      { return v.native(slotModel, v.model) }
func (v view) Collection() map[string]any { return v.native(slotCollection, v.collection) }

// Pages returns the page records of the current collection.
func (v view) Pages() []map[string]any {
	items, _ := v.Collection()["Pages"].([]any)
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// native converts m once per session and slot.
func (s *Session) native(i slot, m attrs.Map) map[string]any {
	if s.views[i] == nil {
		s.views[i] = m.Native()
	}
	return s.views[i]
}

// inheritViews reuses the converted maps of parent for slots that share the
// same attribute map.
func (s *Session) inheritViews(parent *Session, slots ...slot) {
	for _, i := range slots {
		s.views[i] = parent.views[i]
	}
}
