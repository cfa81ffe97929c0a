// Package attrs implements the open attribute records shared by sites, pages,
// models and collections.
//
// A Map is a string-keyed map of tagged Values. Reading an absent key yields the
// zero Value, whose kind is KindMissing and which prints as an empty string.
// Templates get the plain Go values from Native instead, where an absent
// field is nil and tests false.
package attrs

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind identifies the dynamic type held by a Value.
type Kind int

const (
	KindMissing Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindTime
	KindMap
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	case KindMap:
		return "map"
	case KindList:
		return "list"
	default:
		return "missing"
	}
}

// Value is a tagged union of the scalar and container types an attribute may hold.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
	t    time.Time
	m    Map
	l    []Value
}

func String(s string) Value       { return Value{kind: KindString, s: s} }
func Int(i int) Value             { return Value{kind: KindInt, i: int64(i)} }
func Float(f float64) Value       { return Value{kind: KindFloat, f: f} }
func Bool(b bool) Value           { return Value{kind: KindBool, b: b} }
func Time(t time.Time) Value      { return Value{kind: KindTime, t: t} }
func MapValue(m Map) Value        { return Value{kind: KindMap, m: m} }
func List(items ...Value) Value   { return Value{kind: KindList, l: items} }
func (v Value) Kind() Kind        { return v.kind }
func (v Value) IsMissing() bool   { return v.kind == KindMissing }
func (v Value) Present() bool     { return v.kind != KindMissing }
func (v Value) Items() []Value    { return v.l }
func (v Value) Map() Map          { return v.m }
func (v Value) Len() int          { return len(v.l) }

// Get returns a key of a map value; missing for any other kind.
func (v Value) Get(key string) Value {
	return v.m[key]
}

// String renders the value the way templates print it. Missing values are empty.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		if math.IsNaN(v.f) {
			return ""
		}
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindTime:
		return v.t.Format(time.RFC3339)
	case KindMap:
		return fmt.Sprint(map[string]Value(v.m))
	case KindList:
		return fmt.Sprint(v.l)
	default:
		return ""
	}
}

// Str returns the string content, and false when the value is not a string.
func (v Value) Str() (string, bool) {
	return v.s, v.kind == KindString
}

// Int returns the integer content. Floats with no fractional part convert.
func (v Value) Int() (int, bool) {
	switch v.kind {
	case KindInt:
		return int(v.i), true
	case KindFloat:
		if v.f == math.Trunc(v.f) {
			return int(v.f), true
		}
	}
	return 0, false
}

// Float returns the numeric content as a float64.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	}
	return math.NaN(), false
}

// Bool returns the boolean content.
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Time returns the time content.
func (v Value) Time() (time.Time, bool) {
	return v.t, v.kind == KindTime
}

// Truthy reports whether the value is present and not a zero scalar.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindString:
		return v.s != ""
	case KindInt:
		return v.i != 0
	case KindFloat:
		return v.f != 0 && !math.IsNaN(v.f)
	case KindBool:
		return v.b
	case KindTime:
		return !v.t.IsZero()
	case KindMap:
		return len(v.m) > 0
	case KindList:
		return len(v.l) > 0
	default:
		return false
	}
}

// Format formats a time value with a Go layout. Non-time values print as String.
func (v Value) Format(layout string) string {
	if v.kind == KindTime {
		return v.t.Format(layout)
	}
	return v.String()
}

// Native returns the plain Go value held by v: string, int, float64, bool,
// time.Time, map[string]any or []any. Missing values and NaN floats are nil.
func (v Value) Native() any {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return int(v.i)
	case KindFloat:
		if math.IsNaN(v.f) {
			return nil
		}
		return v.f
	case KindBool:
		return v.b
	case KindTime:
		return v.t
	case KindMap:
		return v.m.Native()
	case KindList:
		items := make([]any, len(v.l))
		for i, item := range v.l {
			items[i] = item.Native()
		}
		return items
	default:
		return nil
	}
}

func (v Value) clone() Value {
	switch v.kind {
	case KindMap:
		return MapValue(v.m.Clone())
	case KindList:
		items := make([]Value, len(v.l))
		for i, item := range v.l {
			items[i] = item.clone()
		}
		return List(items...)
	default:
		return v
	}
}

// FromAny converts a decoded YAML or JSON value into a Value.
func FromAny(raw any) Value {
	switch x := raw.(type) {
	case nil:
		return Value{}
	case Value:
		return x
	case string:
		return String(x)
	case bool:
		return Bool(x)
	case int:
		return Int(x)
	case int64:
		return Int(int(x))
	case uint64:
		return Int(int(x))
	case float64:
		return Float(x)
	case float32:
		return Float(float64(x))
	case time.Time:
		return Time(x)
	case Map:
		return MapValue(x)
	case map[string]any:
		return MapValue(MapFromAny(x))
	case map[any]any:
		m := make(Map, len(x))
		for k, v := range x {
			m[fmt.Sprint(k)] = FromAny(v)
		}
		return MapValue(m)
	case []any:
		items := make([]Value, len(x))
		for i, item := range x {
			items[i] = FromAny(item)
		}
		return List(items...)
	case []string:
		items := make([]Value, len(x))
		for i, item := range x {
			items[i] = String(item)
		}
		return List(items...)
	default:
		return String(fmt.Sprint(x))
	}
}
