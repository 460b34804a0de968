package factory

import "fmt"

// Item is one element of a list build: its own traits and overrides.
type Item struct {
	Traits    []string
	Overrides Attrs
}

// Request is a normalized build call.
//
// Argument rules, shared by every variadic entry point:
//   - a trailing Attrs, Fixture or map[string]any is the overrides mapping;
//   - when a count is expected, a leading int is the count;
//   - every other string (or []string) is a trait name, applied in order;
//   - nil and empty strings are skipped;
//   - anything else is ErrInvalidArguments.
type Request struct {
	Name      string
	Traits    []string
	Overrides Attrs
	Count     int
	Items     []Item
}

// ParseBuildArgs normalizes the arguments of a single build.
func ParseBuildArgs(name string, args ...any) (Request, error) {
	if name == "" {
		return Request{}, ErrMissingName
	}
	traits, overrides, err := splitTraits(args)
	if err != nil {
		return Request{}, err
	}
	return Request{Name: name, Traits: traits, Overrides: overrides}, nil
}

// ParseListArgs normalizes the arguments of a list build. Two call forms are
// accepted: a count followed by shared traits/overrides, or one argument per
// item where each is a trait name, an overrides mapping, or a []any holding
// traits followed by overrides.
func ParseListArgs(name string, args ...any) (Request, error) {
	if name == "" {
		return Request{}, ErrMissingName
	}
	if len(args) == 0 {
		return Request{}, fmt.Errorf("%w: list of %q needs a count or item specs", ErrInvalidArguments, name)
	}

	if count, ok := args[0].(int); ok {
		if count < 0 {
			return Request{}, fmt.Errorf("%w: negative count %d", ErrInvalidArguments, count)
		}
		traits, overrides, err := splitTraits(args[1:])
		if err != nil {
			return Request{}, err
		}
		return Request{Name: name, Traits: traits, Overrides: overrides, Count: count}, nil
	}

	items := make([]Item, 0, len(args))
	for i, arg := range args {
		var inner []any
		switch a := arg.(type) {
		case []any:
			inner = a
		default:
			inner = []any{a}
		}
		traits, overrides, err := splitTraits(inner)
		if err != nil {
			return Request{}, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, Item{Traits: traits, Overrides: overrides})
	}
	return Request{Name: name, Count: len(items), Items: items}, nil
}

// items expands the request into one Item per fixture to build.
func (r Request) items() []Item {
	if r.Items != nil {
		return r.Items
	}
	return repeatItem(r.Count, r.Traits, r.Overrides)
}

func repeatItem(count int, traits []string, overrides Attrs) []Item {
	items := make([]Item, count)
	for i := range items {
		items[i] = Item{Traits: traits, Overrides: overrides}
	}
	return items
}

func splitTraits(args []any) ([]string, Attrs, error) {
	var overrides Attrs
	if n := len(args); n > 0 {
		if o, ok := asAttrs(args[n-1]); ok {
			overrides = o
			args = args[:n-1]
		}
	}

	var traits []string
	for _, arg := range args {
		switch a := arg.(type) {
		case nil:
		case string:
			if a != "" {
				traits = append(traits, a)
			}
		case []string:
			for _, s := range a {
				if s != "" {
					traits = append(traits, s)
				}
			}
		default:
			if _, ok := asAttrs(a); ok {
				return nil, nil, fmt.Errorf("%w: overrides must be the last argument", ErrInvalidArguments)
			}
			return nil, nil, fmt.Errorf("%w: unexpected %T argument %v", ErrInvalidArguments, arg, arg)
		}
	}
	return traits, overrides, nil
}

func asAttrs(v any) (Attrs, bool) {
	switch t := v.(type) {
	case Attrs:
		return t, true
	case Fixture:
		return Attrs(t), true
	case map[string]any:
		return Attrs(t), true
	default:
		return nil, false
	}
}
