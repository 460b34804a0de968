package helpers

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/forgo/factory/pkg/factory"
)

// QuietLogger returns a logger that drops every record.
func QuietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// Context returns a context cancelled after 10 seconds or when the test ends.
func Context(t testing.TB) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// MustBuild builds a fixture or fails the test.
func MustBuild(t testing.TB, f *factory.Factory, name string, args ...any) factory.Fixture {
	t.Helper()

	fixture, err := f.Build(name, args...)
	if err != nil {
		t.Fatalf("helpers: failed to build %s: %v", name, err)
	}
	return fixture
}

// MustBuildList builds a list of fixtures or fails the test. The factory's
// converter must return the list as a []factory.Fixture.
func MustBuildList(t testing.TB, f *factory.Factory, name string, args ...any) []factory.Fixture {
	t.Helper()

	out, err := f.BuildList(name, args...)
	if err != nil {
		t.Fatalf("helpers: failed to build list of %s: %v", name, err)
	}
	list, ok := out.([]factory.Fixture)
	if !ok {
		t.Fatalf("helpers: list of %s converted to %T, not []factory.Fixture", name, out)
	}
	return list
}
