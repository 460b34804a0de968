package factory

import (
	"fmt"
	"sort"
)

// MaxDepth bounds association nesting. A definition that associates itself
// without an override breaking the cycle fails with ErrAssociationDepth
// instead of recursing forever.
const MaxDepth = 32

// AfterMakeFunc runs after a fixture has been pushed into a store. It
// receives the stored record and the overrides of the make call.
type AfterMakeFunc func(record *Record, overrides Attrs) error

// Config declares one model's fixtures.
type Config struct {
	// Model is the canonical model name. Empty means the registry name.
	Model string
	// Sequences maps sequence names to their generators.
	Sequences map[string]GenFunc
	// Default holds the attributes every build starts from.
	Default Attrs
	// Variants are named fixtures: each key is a build name of its own whose
	// attributes override Default.
	Variants map[string]Attrs
	// Traits are composable partial overrides requested per build.
	Traits map[string]Attrs
	// AfterMake is invoked by Factory.Make after the record is stored.
	AfterMake AfterMakeFunc
}

// Definition is the resolved template of one model. It owns the model's id
// counter and sequences.
type Definition struct {
	name      string
	model     string
	defaults  Attrs
	variants  map[string]Attrs
	traits    map[string]Attrs
	sequences map[string]*Sequence
	afterMake AfterMakeFunc
	idCounter int

	registry *Registry
}

// NewDefinition validates cfg and creates a standalone definition. Standalone
// definitions can build literals and sequences; associations need the
// definition to be registered.
func NewDefinition(name string, cfg Config) (*Definition, error) {
	if name == "" {
		return nil, ErrMissingName
	}

	d := &Definition{
		name:      name,
		model:     cfg.Model,
		defaults:  make(Attrs, len(cfg.Default)),
		variants:  make(map[string]Attrs, len(cfg.Variants)),
		traits:    make(map[string]Attrs, len(cfg.Traits)),
		sequences: make(map[string]*Sequence, len(cfg.Sequences)),
		afterMake: cfg.AfterMake,
	}
	if d.model == "" {
		d.model = name
	}
	d.defaults.merge(cfg.Default)

	for alias, attrs := range cfg.Variants {
		if alias == "" {
			return nil, fmt.Errorf("%w: empty variant name in %q", ErrInvalidArguments, name)
		}
		if alias == name {
			return nil, fmt.Errorf("%w: variant %q repeats the definition name", ErrDuplicateAlias, alias)
		}
		v := make(Attrs, len(attrs))
		v.merge(attrs)
		d.variants[alias] = v
	}
	for trait, attrs := range cfg.Traits {
		t := make(Attrs, len(attrs))
		t.merge(attrs)
		d.traits[trait] = t
	}
	for seqName, fn := range cfg.Sequences {
		if fn == nil {
			return nil, fmt.Errorf("%w: sequence %q of %q has no generator", ErrInvalidArguments, seqName, name)
		}
		d.sequences[seqName] = NewSequence(seqName, fn)
	}
	return d, nil
}

// Name returns the registry name of the definition.
func (d *Definition) Name() string { return d.name }

// ModelName returns the canonical model name.
func (d *Definition) ModelName() string { return d.model }

// Matches reports whether name is the definition name or one of its variants.
func (d *Definition) Matches(name string) bool {
	if name == d.name {
		return true
	}
	_, ok := d.variants[name]
	return ok
}

// Aliases returns every build name served by the definition: its own name
// first, then its variants in sorted order.
func (d *Definition) Aliases() []string {
	aliases := make([]string, 0, len(d.variants)+1)
	aliases = append(aliases, d.name)
	return append(aliases, d.Variants()...)
}

// Variants returns the sorted variant names.
func (d *Definition) Variants() []string {
	names := make([]string, 0, len(d.variants))
	for v := range d.variants {
		names = append(names, v)
	}
	sort.Strings(names)
	return names
}

// Traits returns the sorted trait names.
func (d *Definition) Traits() []string {
	names := make([]string, 0, len(d.traits))
	for t := range d.traits {
		names = append(names, t)
	}
	sort.Strings(names)
	return names
}

// AssociationTarget returns the fixture name that key associates with. The
// defaults are consulted first, then variants and traits in sorted order.
// Associations passed as build overrides are not seen.
func (d *Definition) AssociationTarget(key string) (string, bool) {
	if target, ok := associationName(d.defaults[key]); ok {
		return target, true
	}
	for _, v := range d.Variants() {
		if target, ok := associationName(d.variants[v][key]); ok {
			return target, true
		}
	}
	for _, t := range d.Traits() {
		if target, ok := associationName(d.traits[t][key]); ok {
			return target, true
		}
	}
	return "", false
}

func associationName(v any) (string, bool) {
	switch m := v.(type) {
	case ToOneAssoc:
		return m.Name, true
	case ToManyAssoc:
		return m.Name, true
	default:
		return "", false
	}
}

// Sequence returns the named sequence, including inline sequences already
// used by a build.
func (d *Definition) Sequence(name string) (*Sequence, bool) {
	s, ok := d.sequences[name]
	return s, ok
}

// Build merges default, the variant selected by name, the traits in order
// and overrides, resolves every marker and assigns an id when none was set.
func (d *Definition) Build(name string, overrides Attrs, traits ...string) (Fixture, error) {
	return d.build(name, overrides, traits, 0)
}

// BuildList builds count fixtures sharing traits and overrides. Each member
// gets its own id and its own sequence values.
func (d *Definition) BuildList(name string, count int, overrides Attrs, traits ...string) ([]Fixture, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: negative count %d", ErrInvalidArguments, count)
	}
	return d.buildItems(name, repeatItem(count, traits, overrides), 0)
}

// BuildEach builds one fixture per item, each with its own traits and
// overrides.
func (d *Definition) BuildEach(name string, items []Item) ([]Fixture, error) {
	return d.buildItems(name, items, 0)
}

// Reset rewinds the id counter and every sequence, inline ones included.
func (d *Definition) Reset() {
	d.idCounter = 0
	for _, s := range d.sequences {
		s.Reset()
	}
}

// HasAfterMake reports whether an AfterMake hook is declared.
func (d *Definition) HasAfterMake() bool {
	return d.afterMake != nil
}

// ApplyAfterMake invokes the AfterMake hook, if any.
func (d *Definition) ApplyAfterMake(record *Record, overrides Attrs) error {
	if d.afterMake == nil {
		return nil
	}
	return d.afterMake(record, overrides)
}

func (d *Definition) build(name string, overrides Attrs, traits []string, depth int) (Fixture, error) {
	if depth > MaxDepth {
		return nil, fmt.Errorf("%w: %q nested %d levels deep", ErrAssociationDepth, name, depth)
	}

	attrs, err := d.merge(name, overrides, traits)
	if err != nil {
		return nil, err
	}

	r := resolver{def: d, depth: depth}
	fixture := make(Fixture, len(attrs)+1)
	for _, key := range sortedKeys(attrs) {
		v, err := r.resolve(attrs[key])
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, key, err)
		}
		fixture[key] = v
	}

	if _, ok := fixture[IDKey]; !ok {
		d.idCounter++
		fixture[IDKey] = d.idCounter
	}
	return fixture, nil
}

func (d *Definition) buildItems(name string, items []Item, depth int) ([]Fixture, error) {
	list := make([]Fixture, 0, len(items))
	for _, item := range items {
		f, err := d.build(name, item.Overrides, item.Traits, depth)
		if err != nil {
			return nil, err
		}
		list = append(list, f)
	}
	return list, nil
}

func (d *Definition) merge(name string, overrides Attrs, traits []string) (Attrs, error) {
	attrs := make(Attrs, len(d.defaults)+len(overrides))
	attrs.merge(d.defaults)

	if name != d.name {
		variant, ok := d.variants[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q is not served by definition %q", ErrUnknownFixture, name, d.name)
		}
		attrs.merge(variant)
	}

	for _, trait := range traits {
		t, ok := d.traits[trait]
		if !ok {
			return nil, fmt.Errorf("%w: %q on %q", ErrUnknownTrait, trait, name)
		}
		attrs.merge(t)
	}

	attrs.merge(overrides)
	return attrs, nil
}

func (d *Definition) generate(ref SequenceRef) (any, error) {
	seq, ok := d.sequences[ref.name]
	if !ok {
		if !ref.Inline() {
			return nil, fmt.Errorf("%w: %q in definition %q", ErrUnknownSequence, ref.name, d.name)
		}
		seq = NewSequence(ref.name, ref.fn)
		d.sequences[ref.name] = seq
	}
	return seq.Next(), nil
}
