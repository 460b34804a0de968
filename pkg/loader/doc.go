// Package loader reads fixture definitions from YAML.
//
// A file holds a "definitions" mapping keyed by fixture name:
//
//	definitions:
//	  person:
//	    sequences:
//	      pname: "person #%d"
//	    default:
//	      name: {$seq: pname}
//	      email: {$fake: "{firstname}.{lastname}@example.com"}
//	    variants:
//	      dude: {type: cool}
//	    traits:
//	      funny: {funny: true}
//	  project:
//	    default:
//	      title: {$inline: "Project%d"}
//	      owner: {$one: person, traits: [funny]}
//	      hats: {$many: hat, count: 2, with: {type: SmallHat}}
//
// Sequences are fmt format strings receiving the counter. Mappings with a
// "$" key are value markers:
//
//	$seq      declared sequence by name
//	$inline   inline sequence from a format string
//	$fake     gofakeit template, seeded with the sequence counter
//	$one      to-one association; optional traits and with (overrides)
//	$many     to-many association; count required, optional traits and with
//
// Every other value is a literal.
package loader
