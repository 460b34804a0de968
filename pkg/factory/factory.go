package factory

import (
	"context"
	"fmt"
	"log/slog"
)

// Factory is the entry point for building and making fixtures. It owns a
// Registry and optionally a Converter and a Store.
type Factory struct {
	registry  *Registry
	converter Converter
	store     Store
	logger    *slog.Logger
}

type options struct {
	registry  *Registry
	converter Converter
	store     Store
	logger    *slog.Logger
	redefine  bool
}

// Option configures a Factory.
type Option func(*options)

// WithRegistry uses an existing registry instead of a fresh one.
func WithRegistry(r *Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithConverter sets the converter applied to Build and Make results.
func WithConverter(c Converter) Option {
	return func(o *options) { o.converter = c }
}

// WithStore sets the store used by Make and MakeList.
func WithStore(s Store) Option {
	return func(o *options) { o.store = s }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRedefine lets Define replace existing definitions. Ignored when
// WithRegistry is given.
func WithRedefine() Option {
	return func(o *options) { o.redefine = true }
}

// New creates a Factory.
func New(opts ...Option) *Factory {
	o := &options{
		converter: Identity{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.registry == nil {
		regOpts := []RegistryOption{RegistryLogger(o.logger)}
		if o.redefine {
			regOpts = append(regOpts, AllowRedefine())
		}
		o.registry = NewRegistry(regOpts...)
	}
	if b, ok := o.converter.(RegistryBinder); ok {
		b.BindRegistry(o.registry)
	}
	return &Factory{
		registry:  o.registry,
		converter: o.converter,
		store:     o.store,
		logger:    o.logger,
	}
}

// Registry returns the factory's registry.
func (f *Factory) Registry() *Registry {
	return f.registry
}

// SetStore injects the store used by Make. Passing nil detaches it.
func (f *Factory) SetStore(s Store) {
	f.store = s
}

// Define registers a definition. See Registry.Define.
func (f *Factory) Define(name string, cfg Config) error {
	return f.registry.Define(name, cfg)
}

// ModelName returns the model behind a fixture name.
func (f *Factory) ModelName(name string) (string, bool) {
	return f.registry.ModelName(name)
}

// Build builds one fixture and passes it through the converter.
//
//	f.Build("user")
//	f.Build("admin", "with_projects")
//	f.Build("user", "funny", factory.Attrs{"name": "Wombat"})
func (f *Factory) Build(name string, args ...any) (Fixture, error) {
	req, err := ParseBuildArgs(name, args...)
	if err != nil {
		return nil, err
	}
	raw, err := f.registry.build(req.Name, req.Traits, req.Overrides, 0)
	if err != nil {
		return nil, err
	}
	model, _ := f.registry.ModelName(req.Name)
	f.logger.Debug("built fixture",
		slog.String("name", req.Name),
		slog.String("model", model),
		slog.Any("id", raw.ID()),
	)
	return f.converter.ConvertForBuild(model, raw)
}

// BuildRaw builds one fixture without conversion.
func (f *Factory) BuildRaw(name string, args ...any) (Fixture, error) {
	req, err := ParseBuildArgs(name, args...)
	if err != nil {
		return nil, err
	}
	return f.registry.build(req.Name, req.Traits, req.Overrides, 0)
}

// BuildList builds a list of fixtures and converts the list as a whole.
// With the Identity converter the result is a []Fixture; a document
// converter returns a single document for the list.
//
//	f.BuildList("user", 2)
//	f.BuildList("user", 2, "funny", factory.Attrs{"age": 3})
//	f.BuildList("user", "funny", factory.Attrs{"name": "Bo"}, []any{"admin", factory.Attrs{"age": 9}})
func (f *Factory) BuildList(name string, args ...any) (any, error) {
	list, err := f.BuildRawList(name, args...)
	if err != nil {
		return nil, err
	}
	model, _ := f.registry.ModelName(name)
	f.logger.Debug("built fixture list",
		slog.String("name", name),
		slog.String("model", model),
		slog.Int("count", len(list)),
	)
	return f.converter.ConvertListForBuild(model, list)
}

// BuildRawList builds a list of fixtures without conversion.
func (f *Factory) BuildRawList(name string, args ...any) ([]Fixture, error) {
	req, err := ParseListArgs(name, args...)
	if err != nil {
		return nil, err
	}
	return f.registry.buildItems(req.Name, req.items(), 0)
}

// Make builds a fixture, pushes it into the store and runs the definition's
// AfterMake hook. It fails with ErrNoStore when no store is configured.
func (f *Factory) Make(ctx context.Context, name string, args ...any) (*Record, error) {
	req, err := ParseBuildArgs(name, args...)
	if err != nil {
		return nil, err
	}
	return f.make(ctx, req.Name, Item{Traits: req.Traits, Overrides: req.Overrides})
}

// MakeList makes a list of fixtures. It accepts the same call forms as
// BuildList.
func (f *Factory) MakeList(ctx context.Context, name string, args ...any) ([]*Record, error) {
	req, err := ParseListArgs(name, args...)
	if err != nil {
		return nil, err
	}
	items := req.items()
	records := make([]*Record, 0, len(items))
	for _, item := range items {
		rec, err := f.make(ctx, req.Name, item)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (f *Factory) make(ctx context.Context, name string, item Item) (*Record, error) {
	if f.store == nil {
		return nil, ErrNoStore
	}
	def, err := f.registry.lookup(name)
	if err != nil {
		return nil, err
	}

	raw, err := def.build(name, item.Overrides, item.Traits, 0)
	if err != nil {
		return nil, err
	}
	payload, err := f.converter.ConvertForMake(def.model, raw)
	if err != nil {
		return nil, err
	}
	rec, err := f.store.Push(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("push %s: %w", def.model, err)
	}
	f.logger.Debug("made fixture",
		slog.String("name", name),
		slog.String("model", def.model),
		slog.Any("id", rec.ID),
	)

	if def.HasAfterMake() {
		if err := def.ApplyAfterMake(rec, item.Overrides); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrAfterMake, name, err)
		}
	}
	return rec, nil
}

// ResetAll resets every definition's id and sequence counters.
func (f *Factory) ResetAll() {
	f.registry.ResetAll()
}

// Clear removes the named definitions, or all of them.
func (f *Factory) Clear(names ...string) {
	f.registry.Clear(names...)
}

// ClearPersisted unloads everything the store holds.
func (f *Factory) ClearPersisted(ctx context.Context) error {
	if f.store == nil {
		return ErrNoStore
	}
	return f.store.UnloadAll(ctx)
}

// ClearStore resets all counters and unloads the store, the usual teardown
// between test cases.
func (f *Factory) ClearStore(ctx context.Context) error {
	f.ResetAll()
	return f.ClearPersisted(ctx)
}
