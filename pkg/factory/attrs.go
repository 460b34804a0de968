package factory

import "sort"

// IDKey is the attribute that receives the per-definition id when a build
// does not supply one.
const IDKey = "id"

// Attrs is an attribute mapping used for defaults, variants, traits and
// caller overrides. Values are literals or markers (SequenceRef, ToOneAssoc,
// ToManyAssoc) resolved at build time.
type Attrs map[string]any

// Fixture is a fully resolved attribute mapping. Nested associations appear
// as Fixture (to-one) or []Fixture (to-many) values.
type Fixture map[string]any

// ID returns the fixture id, or nil when none is set.
func (f Fixture) ID() any {
	return f[IDKey]
}

// Clone returns a deep copy of the fixture.
func (f Fixture) Clone() Fixture {
	if f == nil {
		return nil
	}
	return cloneValue(f).(Fixture)
}

// merge copies src over a, key by key.
func (a Attrs) merge(src Attrs) {
	for k, v := range src {
		a[k] = v
	}
}

func sortedKeys(a Attrs) []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// cloneValue deep-copies the map and slice shapes a definition can hold so
// that no two fixtures share mutable state.
func cloneValue(v any) any {
	switch t := v.(type) {
	case Fixture:
		out := make(Fixture, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case Attrs:
		out := make(Attrs, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case []Fixture:
		out := make([]Fixture, len(t))
		for i, val := range t {
			out[i] = cloneValue(val).(Fixture)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(t))
		for i, val := range t {
			out[i] = cloneValue(val).(map[string]any)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneValue(val)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	case []int:
		return append([]int(nil), t...)
	default:
		return v
	}
}
