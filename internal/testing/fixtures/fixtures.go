package fixtures

import (
	"fmt"
	"testing"

	"github.com/forgo/factory/internal/testing/helpers"
	"github.com/forgo/factory/pkg/factory"
)

// NewFactory creates a quiet factory with every shared definition registered.
func NewFactory(t testing.TB, opts ...factory.Option) *factory.Factory {
	t.Helper()

	opts = append([]factory.Option{factory.WithLogger(helpers.QuietLogger())}, opts...)
	f := factory.New(opts...)
	Register(t, f)
	t.Cleanup(f.ResetAll)
	return f
}

// Register defines person, user, project and hat on f.
func Register(t testing.TB, f *factory.Factory) {
	t.Helper()

	defs := map[string]factory.Config{
		"person":  Person(),
		"user":    User(),
		"project": Project(),
		"hat":     Hat(),
	}
	for _, name := range []string{"person", "user", "project", "hat"} {
		if err := f.Define(name, defs[name]); err != nil {
			t.Fatalf("fixtures: failed to define %s: %v", name, err)
		}
	}
}

// Person has a name sequence, a "dude" variant and two traits.
func Person() factory.Config {
	return factory.Config{
		Sequences: map[string]factory.GenFunc{
			"pname": func(n int) any { return fmt.Sprintf("person #%d", n) },
		},
		Default: factory.Attrs{
			"name": factory.Generate("pname"),
		},
		Variants: map[string]factory.Attrs{
			"dude": {"type": "cool"},
		},
		Traits: map[string]factory.Attrs{
			"funny": {"funny": true, "type": "funny"},
			"tall":  {"height": "tall", "type": "tall"},
		},
	}
}

// User has an "admin" variant and traits adding projects and hats.
func User() factory.Config {
	return factory.Config{
		Default: factory.Attrs{
			"name":  "User1",
			"style": "normal",
		},
		Variants: map[string]factory.Attrs{
			"admin": {"name": "Admin"},
		},
		Traits: map[string]factory.Attrs{
			"with_projects": {"projects": factory.ToMany("project", 2)},
			"with_hats":     {"hats": factory.ToMany("hat", 2, factory.Attrs{"type": "SmallHat"})},
		},
	}
}

// Project has a title sequence and a user association, either through the
// "project_with_admin" variant or the "with_user" trait.
func Project() factory.Config {
	return factory.Config{
		Sequences: map[string]factory.GenFunc{
			"title": func(n int) any { return fmt.Sprintf("Project%d", n) },
		},
		Default: factory.Attrs{
			"title": factory.Generate("title"),
		},
		Variants: map[string]factory.Attrs{
			"project_with_admin": {"user": factory.ToOne("admin")},
		},
		Traits: map[string]factory.Attrs{
			"big":       {"title": "Big Project"},
			"with_user": {"user": factory.ToOne("user")},
		},
	}
}

// Hat is registered under its own name with a distinct model name.
func Hat() factory.Config {
	return factory.Config{
		Model: "big-hat",
		Default: factory.Attrs{
			"type": "BigHat",
		},
	}
}
