package attrs

import "maps"

// Map is an open attribute record.
type Map map[string]Value

// MapFromAny converts a decoded YAML mapping into a Map.
func MapFromAny(raw map[string]any) Map {
	m := make(Map, len(raw))
	for k, v := range raw {
		m[k] = FromAny(v)
	}
	return m
}

// Native converts m into plain Go values. Keys whose value is missing or NaN
// are left out, so an absent field and an unset one look the same.
func (m Map) Native() map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if n := v.Native(); n != nil {
			out[k] = n
		}
	}
	return out
}

// Clone returns a deep copy. Cloning nil yields an empty map.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v.clone()
	}
	return out
}

// Get returns the value stored under key, or the missing value.
func (m Map) Get(key string) Value {
	return m[key]
}

// Lookup returns the value stored under key and whether it was present.
func (m Map) Lookup(key string) (Value, bool) {
	v, ok := m[key]
	return v, ok && v.Present()
}

// Has reports whether key holds a present value.
func (m Map) Has(key string) bool {
	_, ok := m.Lookup(key)
	return ok
}

// Set stores v under key.
func (m Map) Set(key string, v Value) {
	m[key] = v
}

// Delete removes key.
func (m Map) Delete(key string) {
	delete(m, key)
}

// Str returns the string stored under key, or "".
func (m Map) Str(key string) string {
	s, _ := m[key].Str()
	return s
}

// Merge copies every key of other into m, overwriting existing keys.
func (m Map) Merge(other Map) Map {
	maps.Copy(m, other)
	return m
}
