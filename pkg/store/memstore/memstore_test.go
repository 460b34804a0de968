package memstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/factory/internal/testing/fixtures"
	"github.com/forgo/factory/internal/testing/helpers"
	"github.com/forgo/factory/pkg/factory"
	"github.com/forgo/factory/pkg/format"
	"github.com/forgo/factory/pkg/store/memstore"
)

func TestStore_MakeAndFind(t *testing.T) {
	t.Parallel()
	store := memstore.New()
	f := fixtures.NewFactory(t, factory.WithStore(store))
	ctx := helpers.Context(t)

	rec, err := f.Make(ctx, "dude")
	require.NoError(t, err)

	found, ok := store.Find("person", 1)
	require.True(t, ok)
	assert.Same(t, rec, found)
	assert.Equal(t, "cool", found.Attributes["type"])
	assert.Equal(t, "1", found.Ref)
}

func TestStore_RecordsAreCopies(t *testing.T) {
	t.Parallel()
	store := memstore.New()
	attrs := factory.Fixture{"id": 1, "name": "Bo"}

	_, err := store.Push(helpers.Context(t), factory.Payload{Model: "person", ID: 1, Attributes: attrs})
	require.NoError(t, err)
	attrs["name"] = "changed"

	rec, _ := store.Find("person", 1)
	assert.Equal(t, "Bo", rec.Attributes["name"])
}

func TestStore_PushesIncludedFirst(t *testing.T) {
	t.Parallel()
	store := memstore.New()
	conv := format.NewJSONAPI(format.WithRelationshipType("projects", "project"))
	f := fixtures.NewFactory(t, factory.WithStore(store), factory.WithConverter(conv))

	_, err := f.Make(helpers.Context(t), "user", "with_projects")
	require.NoError(t, err)

	assert.Equal(t, []string{"project", "user"}, store.Models())
	projects := store.All("project")
	require.Len(t, projects, 2)
	assert.Equal(t, "Project1", projects[0].Attributes["title"])
	user, ok := store.Find("user", 1)
	require.True(t, ok)
	assert.Equal(t, []any{1, 2}, user.Attributes["projects"])
}

func TestStore_AssociatedAndDirectRecordsShareModel(t *testing.T) {
	t.Parallel()
	store := memstore.New()
	f := fixtures.NewFactory(t, factory.WithStore(store), factory.WithConverter(format.NewJSONAPI()))
	ctx := helpers.Context(t)

	_, err := f.Make(ctx, "user", "with_hats")
	require.NoError(t, err)
	direct, err := f.Make(ctx, "hat")
	require.NoError(t, err)

	assert.Equal(t, []string{"big-hat", "user"}, store.Models())
	assert.Equal(t, "big-hat", direct.Model)
	hats := store.All("big-hat")
	require.Len(t, hats, 3)
	assert.Equal(t, "SmallHat", hats[0].Attributes["type"])
	assert.Equal(t, 3, direct.ID)
}

func TestStore_SameIDReplaces(t *testing.T) {
	t.Parallel()
	store := memstore.New()
	ctx := helpers.Context(t)

	_, err := store.Push(ctx, factory.Payload{Model: "hat", ID: 1, Attributes: factory.Fixture{"type": "a"}})
	require.NoError(t, err)
	_, err = store.Push(ctx, factory.Payload{Model: "hat", ID: 1, Attributes: factory.Fixture{"type": "b"}})
	require.NoError(t, err)

	assert.Equal(t, 1, store.Len())
	assert.Equal(t, "b", store.All("hat")[0].Attributes["type"])
}

func TestStore_ClearStoreUnloadsAndResets(t *testing.T) {
	t.Parallel()
	store := memstore.New()
	f := fixtures.NewFactory(t, factory.WithStore(store))
	ctx := helpers.Context(t)

	_, err := f.MakeList(ctx, "hat", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, store.Len())

	require.NoError(t, f.ClearStore(ctx))

	assert.Zero(t, store.Len())
	rec, err := f.Make(ctx, "hat")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.ID)
}

func TestStore_CancelledContext(t *testing.T) {
	t.Parallel()
	store := memstore.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Push(ctx, factory.Payload{Model: "hat", ID: 1})

	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.UnloadAll(ctx), context.Canceled)
}
