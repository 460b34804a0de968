// Package factory builds test fixtures from declarative definitions.
//
// A definition declares default attributes, named variants, traits and
// sequences for one model. Building merges them with caller overrides and
// resolves lazy values into a plain Fixture:
//
//	f := factory.New()
//	_ = f.Define("person", factory.Config{
//	    Sequences: map[string]factory.GenFunc{
//	        "pname": func(n int) any { return fmt.Sprintf("person #%d", n) },
//	    },
//	    Default:  factory.Attrs{"name": factory.Generate("pname")},
//	    Variants: map[string]factory.Attrs{"dude": {"type": "cool"}},
//	})
//
//	f.Build("person") // {name: "person #1", id: 1}
//	f.Build("dude")   // {name: "person #2", type: "cool", id: 2}
//
// # Precedence
//
// Attributes are merged default → variant → traits (in the order given) →
// overrides; later sources win key by key. Values are then resolved in
// sorted key order, so output is deterministic for a given input.
//
// # Lazy values
//
// Attribute values may be markers instead of literals:
//
//   - Generate / GenerateFunc / Fake: pull the next value of a sequence
//   - ToOne: build another fixture and nest it
//   - ToMany: build a list of fixtures and nest it
//
// # Counters
//
// Ids and sequences are per definition and start at 1. ResetAll rewinds
// every counter, Clear drops definitions. Run both between test cases.
//
// # Persistence
//
// Make and MakeList push fixtures through a Store (see pkg/store) after the
// Converter shaped them, then run the definition's AfterMake hook.
package factory
