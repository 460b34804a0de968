// Package fixtures provides shared fixture definitions for tests.
//
// The definitions mirror the documented scenarios (person/dude, users with
// projects, hats) so that every package exercises the engine against the
// same shapes.
//
// # Usage
//
//	f := fixtures.NewFactory(t)
//	person, err := f.Build("person")
//
// # Isolation
//
// NewFactory registers a cleanup that resets every counter when the test
// ends. Each call returns a fresh factory, so parallel tests never share
// counters.
package fixtures
