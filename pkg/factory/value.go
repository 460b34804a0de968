package factory

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
)

// SequenceRef marks an attribute whose value is pulled from a sequence of
// the owning definition at build time.
type SequenceRef struct {
	name string
	fn   GenFunc
}

// Generate refers to a sequence declared in Config.Sequences.
func Generate(name string) SequenceRef {
	return SequenceRef{name: name}
}

// GenerateFunc declares an inline sequence. The sequence gets a synthetic
// name when the marker is created, so every build through the same marker
// advances the same counter.
func GenerateFunc(fn GenFunc) SequenceRef {
	return SequenceRef{name: inlineSequenceName(), fn: fn}
}

// Fake declares an inline sequence backed by a gofakeit faker seeded with
// the sequence counter. Values are random-looking but reproducible: the
// n-th build after a reset always yields the same value.
func Fake(fn func(f *gofakeit.Faker) any) SequenceRef {
	return GenerateFunc(func(n int) any {
		return fn(gofakeit.New(int64(n)))
	})
}

// Name returns the sequence name, synthetic for inline sequences.
func (r SequenceRef) Name() string {
	return r.name
}

// Inline reports whether the sequence was declared at the call site.
func (r SequenceRef) Inline() bool {
	return r.fn != nil
}

// ToOneAssoc marks an attribute holding one nested fixture.
type ToOneAssoc struct {
	Name      string
	Traits    []string
	Overrides Attrs
	err       error
}

// ToOne declares a to-one association. args are trait names optionally
// followed by an Attrs of overrides, as in Factory.Build.
func ToOne(name string, args ...any) ToOneAssoc {
	traits, overrides, err := splitTraits(args)
	return ToOneAssoc{Name: name, Traits: traits, Overrides: overrides, err: err}
}

// ToManyAssoc marks an attribute holding a list of nested fixtures.
type ToManyAssoc struct {
	Name      string
	Count     int
	Traits    []string
	Overrides Attrs
	err       error
}

// ToMany declares a to-many association of count fixtures.
func ToMany(name string, count int, args ...any) ToManyAssoc {
	traits, overrides, err := splitTraits(args)
	if err == nil && count < 0 {
		err = fmt.Errorf("%w: negative count %d", ErrInvalidArguments, count)
	}
	return ToManyAssoc{Name: name, Count: count, Traits: traits, Overrides: overrides, err: err}
}

// resolver turns merged attribute values into concrete ones for a single
// build of def.
type resolver struct {
	def   *Definition
	depth int
}

func (r resolver) resolve(v any) (any, error) {
	switch m := v.(type) {
	case SequenceRef:
		return r.def.generate(m)
	case ToOneAssoc:
		if m.err != nil {
			return nil, m.err
		}
		reg, err := r.registry(m.Name)
		if err != nil {
			return nil, err
		}
		return reg.build(m.Name, m.Traits, m.Overrides, r.depth+1)
	case ToManyAssoc:
		if m.err != nil {
			return nil, m.err
		}
		reg, err := r.registry(m.Name)
		if err != nil {
			return nil, err
		}
		return reg.buildItems(m.Name, repeatItem(m.Count, m.Traits, m.Overrides), r.depth+1)
	default:
		return cloneValue(v), nil
	}
}

func (r resolver) registry(target string) (*Registry, error) {
	if r.def.registry == nil {
		return nil, fmt.Errorf("%w: %q (definition %q is not registered)", ErrUnknownFixture, target, r.def.name)
	}
	return r.def.registry, nil
}
