package factory

import (
	"fmt"
	"log/slog"
	"sort"
)

// Registry maps fixture names to definitions. Every build name (a
// definition's registry name or one of its variants) resolves to exactly
// one definition.
//
// A Registry is not safe for concurrent use. Tests running in parallel
// should each construct their own.
type Registry struct {
	defs     map[string]*Definition
	aliases  map[string]*Definition
	redefine bool
	logger   *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// AllowRedefine makes Define replace an existing definition of the same
// name, logging a warning, instead of failing with ErrDuplicateDefinition.
func AllowRedefine() RegistryOption {
	return func(r *Registry) {
		r.redefine = true
	}
}

// RegistryLogger sets the logger used for registration warnings.
func RegistryLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		defs:    make(map[string]*Definition),
		aliases: make(map[string]*Definition),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Define parses cfg into a definition and registers it under name.
func (r *Registry) Define(name string, cfg Config) error {
	def, err := NewDefinition(name, cfg)
	if err != nil {
		return err
	}
	return r.Register(def)
}

// Register adds def. It fails with ErrDuplicateAlias when any of its build
// names is already served by another definition, and with
// ErrDuplicateDefinition when its name is taken and redefinition is off.
func (r *Registry) Register(def *Definition) error {
	existing, taken := r.defs[def.name]
	if taken && !r.redefine {
		return fmt.Errorf("%w: %q", ErrDuplicateDefinition, def.name)
	}

	for _, alias := range def.Aliases() {
		if owner, ok := r.aliases[alias]; ok && owner != existing {
			return fmt.Errorf("%w: %q of %q is served by %q", ErrDuplicateAlias, alias, def.name, owner.name)
		}
	}

	if taken {
		r.logger.Warn("redefining fixture definition",
			slog.String("name", def.name),
			slog.String("model", def.model),
		)
		r.remove(existing)
	}

	def.registry = r
	r.defs[def.name] = def
	for _, alias := range def.Aliases() {
		r.aliases[alias] = def
	}
	return nil
}

// Lookup returns the definition serving nameOrAlias.
func (r *Registry) Lookup(nameOrAlias string) (*Definition, bool) {
	def, ok := r.aliases[nameOrAlias]
	return def, ok
}

// ModelName returns the canonical model name behind nameOrAlias.
func (r *Registry) ModelName(nameOrAlias string) (string, bool) {
	def, ok := r.Lookup(nameOrAlias)
	if !ok {
		return "", false
	}
	return def.model, true
}

// AssociationModel returns the model of the fixtures that definitions of
// model nest under key. Definitions are consulted in name order.
func (r *Registry) AssociationModel(model, key string) (string, bool) {
	for _, name := range r.Names() {
		def := r.defs[name]
		if def.model != model {
			continue
		}
		if target, ok := def.AssociationTarget(key); ok {
			return r.ModelName(target)
		}
	}
	return "", false
}

// Names returns the sorted registry names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResetAll resets the id and sequence counters of every definition. The
// definitions stay registered.
func (r *Registry) ResetAll() {
	for _, def := range r.defs {
		def.Reset()
	}
}

// Clear removes the named definitions, or every definition when no name is
// given. Unknown names are ignored.
func (r *Registry) Clear(names ...string) {
	if len(names) == 0 {
		for _, def := range r.defs {
			def.registry = nil
		}
		r.defs = make(map[string]*Definition)
		r.aliases = make(map[string]*Definition)
		return
	}
	for _, name := range names {
		if def, ok := r.defs[name]; ok {
			r.remove(def)
		}
	}
}

func (r *Registry) remove(def *Definition) {
	for _, alias := range def.Aliases() {
		if r.aliases[alias] == def {
			delete(r.aliases, alias)
		}
	}
	delete(r.defs, def.name)
	def.registry = nil
}

func (r *Registry) lookup(name string) (*Definition, error) {
	def, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: no factory named %q", ErrUnknownFixture, name)
	}
	return def, nil
}

func (r *Registry) build(name string, traits []string, overrides Attrs, depth int) (Fixture, error) {
	def, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return def.build(name, overrides, traits, depth)
}

func (r *Registry) buildItems(name string, items []Item, depth int) ([]Fixture, error) {
	def, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return def.buildItems(name, items, depth)
}
