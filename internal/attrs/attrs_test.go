package attrs

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingValue(t *testing.T) {
	m := Map{"Title": String("Home")}

	v := m.Get("Author")
	assert.True(t, v.IsMissing())
	assert.False(t, v.Truthy())
	assert.Equal(t, "", v.String())
	assert.Equal(t, "", fmt.Sprint(v))

	_, ok := m.Lookup("Author")
	assert.False(t, ok)
	assert.True(t, m.Has("Title"))
}

func TestFromAnyYAMLShapes(t *testing.T) {
	date := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	m := MapFromAny(map[string]any{
		"title":  "Post",
		"weight": 3,
		"ratio":  1.5,
		"draft":  false,
		"date":   date,
		"tags":   []any{"a", "b"},
		"params": map[string]any{"author": "jo"},
		"none":   nil,
	})

	assert.Equal(t, "Post", m.Str("title"))
	n, ok := m.Get("weight").Int()
	require.True(t, ok)
	assert.Equal(t, 3, n)
	f, _ := m.Get("ratio").Float()
	assert.InDelta(t, 1.5, f, 1e-9)
	assert.False(t, m.Get("draft").Truthy())
	got, ok := m.Get("date").Time()
	require.True(t, ok)
	assert.True(t, got.Equal(date))
	assert.Equal(t, "2020", m.Get("date").Format("2006"))
	assert.Len(t, m.Get("tags").Items(), 2)
	assert.Equal(t, "jo", m.Get("params").Get("author").String())
	assert.True(t, m.Get("none").IsMissing())
}

func TestCloneIsDeep(t *testing.T) {
	inner := Map{"k": String("v")}
	orig := Map{"nested": MapValue(inner), "list": List(String("x"))}

	c := orig.Clone()
	c.Get("nested").Map().Set("k", String("changed"))
	c.Set("extra", Int(1))

	assert.Equal(t, "v", inner.Str("k"))
	assert.False(t, orig.Has("extra"))

	var nilMap Map
	assert.NotNil(t, nilMap.Clone())
}

func TestNaNPrintsEmpty(t *testing.T) {
	v := Float(math.NaN())
	assert.Equal(t, "", v.String())
	assert.False(t, v.Truthy())
	assert.True(t, v.Present())
}

func TestMerge(t *testing.T) {
	m := Map{"a": Int(1), "b": Int(2)}
	m.Merge(Map{"b": Int(3), "c": Int(4)})
	b, _ := m.Get("b").Int()
	assert.Equal(t, 3, b)
	assert.Len(t, m, 3)
}

func TestNativeDropsMissingAndNaN(t *testing.T) {
	when := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	m := Map{
		"Title":    String("Bridge"),
		"Index":    Int(2),
		"Draft":    Bool(false),
		"Date":     Time(when),
		"Latitude": Float(math.NaN()),
		"Gone":     Value{},
		"Tags":     List(String("a"), String("b")),
		"Params":   MapValue(Map{"owner": String("me"), "none": Value{}}),
	}

	n := m.Native()
	assert.Equal(t, "Bridge", n["Title"])
	assert.Equal(t, 2, n["Index"])
	assert.Equal(t, false, n["Draft"])
	assert.Equal(t, when, n["Date"])
	assert.NotContains(t, n, "Latitude")
	assert.NotContains(t, n, "Gone")
	assert.Equal(t, []any{"a", "b"}, n["Tags"])
	assert.Equal(t, map[string]any{"owner": "me"}, n["Params"])
}
