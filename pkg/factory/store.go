package factory

import "context"

// Payload is a store-ready fixture produced by Converter.ConvertForMake.
// Included payloads (sideloaded associations) are pushed before the payload
// that references them.
type Payload struct {
	Model      string
	ID         any
	Attributes Fixture
	Included   []Payload
}

// Record is the handle a Store returns for a pushed payload.
type Record struct {
	Model      string
	ID         any
	Attributes Fixture
	// Ref is the store's own handle (a row, a record id, ...).
	Ref any
}

// Store persists payloads. It is the only collaborator doing I/O.
type Store interface {
	Push(ctx context.Context, payload Payload) (*Record, error)
	UnloadAll(ctx context.Context) error
}

// Converter shapes raw fixtures for callers (ConvertForBuild and
// ConvertListForBuild) and for stores (ConvertForMake). A list is converted
// as a whole, so a document format can return one document for it.
type Converter interface {
	ConvertForBuild(model string, fixture Fixture) (Fixture, error)
	ConvertListForBuild(model string, list []Fixture) (any, error)
	ConvertForMake(model string, fixture Fixture) (Payload, error)
}

// RegistryBinder is implemented by converters that look up association
// models. New binds the factory's registry into them.
type RegistryBinder interface {
	BindRegistry(r *Registry)
}

// Identity is the default converter: builds are returned untouched and
// stores receive the fixture with nested associations inline.
type Identity struct{}

// ConvertForBuild returns fixture as is.
func (Identity) ConvertForBuild(_ string, fixture Fixture) (Fixture, error) {
	return fixture, nil
}

// ConvertListForBuild returns list as is, a []Fixture.
func (Identity) ConvertListForBuild(_ string, list []Fixture) (any, error) {
	return list, nil
}

// ConvertForMake wraps fixture into a payload.
func (Identity) ConvertForMake(model string, fixture Fixture) (Payload, error) {
	return Payload{Model: model, ID: fixture.ID(), Attributes: fixture}, nil
}
