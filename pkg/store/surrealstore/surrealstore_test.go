package surrealstore_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/forgo/factory/internal/database"
	"github.com/forgo/factory/internal/testing/fixtures"
	"github.com/forgo/factory/internal/testing/helpers"
	"github.com/forgo/factory/internal/testing/testdb"
	"github.com/forgo/factory/pkg/factory"
	"github.com/forgo/factory/pkg/format"
	"github.com/forgo/factory/pkg/store/surrealstore"
)

// ============================================================================
// Mock database
// ============================================================================

type mockDB struct {
	queryFunc func(ctx context.Context, query string, vars map[string]interface{}) ([]database.Result, error)
	queries   []string
	vars      []map[string]interface{}
}

func (m *mockDB) Connect(ctx context.Context) error { return nil }
func (m *mockDB) Close() error                      { return nil }
func (m *mockDB) Ping(ctx context.Context) error    { return nil }

func (m *mockDB) Query(ctx context.Context, query string, vars map[string]interface{}) ([]database.Result, error) {
	m.queries = append(m.queries, query)
	m.vars = append(m.vars, vars)
	if m.queryFunc != nil {
		return m.queryFunc(ctx, query, vars)
	}
	return nil, nil
}

func (m *mockDB) QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error) {
	results, err := m.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	return database.FirstRecord(results)
}

func (m *mockDB) Execute(ctx context.Context, query string, vars map[string]interface{}) error {
	_, err := m.Query(ctx, query, vars)
	return err
}

// varsWithSuffix returns the values of namespaced variables ending in suffix,
// in statement order.
func varsWithSuffix(vars map[string]interface{}, suffix string) []interface{} {
	names := make([]string, 0, len(vars))
	for name := range vars {
		if strings.HasSuffix(name, suffix) {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return len(names[i]) < len(names[j]) || (len(names[i]) == len(names[j]) && names[i] < names[j])
	})
	out := make([]interface{}, 0, len(names))
	for _, name := range names {
		out = append(out, vars[name])
	}
	return out
}

// ============================================================================
// Push
// ============================================================================

func TestStore_Push_WritesOneTransaction(t *testing.T) {
	t.Parallel()
	db := &mockDB{}
	store := surrealstore.New(db, helpers.QuietLogger())
	f := fixtures.NewFactory(t, factory.WithStore(store))

	rec, err := f.Make(helpers.Context(t), "dude")
	require.NoError(t, err)

	require.Len(t, db.queries, 1)
	assert.True(t, strings.HasPrefix(db.queries[0], "BEGIN TRANSACTION;"))
	assert.Contains(t, db.queries[0], "UPSERT type::thing(")
	assert.Equal(t, []interface{}{"person"}, varsWithSuffix(db.vars[0], "_tb"))

	data := varsWithSuffix(db.vars[0], "_data")
	require.Len(t, data, 1)
	content := data[0].(map[string]interface{})
	assert.NotContains(t, content, "id")
	assert.Equal(t, "cool", content["type"])

	assert.Equal(t, "person", rec.Model)
	assert.Equal(t, 1, rec.ID)
	assert.Equal(t, "person:1", rec.Ref)
}

func TestStore_Push_IncludedFirst(t *testing.T) {
	t.Parallel()
	db := &mockDB{}
	store := surrealstore.New(db, helpers.QuietLogger())
	conv := format.NewJSONAPI(format.WithRelationshipType("projects", "project"))
	f := fixtures.NewFactory(t, factory.WithStore(store), factory.WithConverter(conv))

	_, err := f.Make(helpers.Context(t), "user", "with_projects")
	require.NoError(t, err)

	require.Len(t, db.queries, 1)
	assert.Equal(t, 3, strings.Count(db.queries[0], "UPSERT"))
	assert.Equal(t, []string{"project", "user"}, store.Tables())
}

func TestStore_Push_MissingID(t *testing.T) {
	t.Parallel()
	db := &mockDB{}
	store := surrealstore.New(db, helpers.QuietLogger())

	_, err := store.Push(helpers.Context(t), factory.Payload{Model: "person"})
	require.Error(t, err)
	assert.Empty(t, db.queries)
}

func TestStore_Push_QueryError(t *testing.T) {
	t.Parallel()
	db := &mockDB{
		queryFunc: func(ctx context.Context, query string, vars map[string]interface{}) ([]database.Result, error) {
			return nil, database.ErrQuery
		},
	}
	store := surrealstore.New(db, helpers.QuietLogger())

	_, err := store.Push(helpers.Context(t), factory.Payload{Model: "hat", ID: 1, Attributes: factory.Fixture{"id": 1}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, database.ErrQuery))
	assert.Empty(t, store.Tables())
}

// ============================================================================
// Find / UnloadAll
// ============================================================================

func TestStore_Find_NormalizesRecordID(t *testing.T) {
	t.Parallel()
	db := &mockDB{
		queryFunc: func(ctx context.Context, query string, vars map[string]interface{}) ([]database.Result, error) {
			row := map[string]interface{}{
				"id":   models.RecordID{Table: "hat", ID: uint64(3)},
				"type": "BigHat",
			}
			return []database.Result{{Status: "OK", Result: []interface{}{row}}}, nil
		},
	}
	store := surrealstore.New(db, helpers.QuietLogger())

	rec, err := store.Find(helpers.Context(t), "hat", 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), rec["id"])
	assert.Equal(t, "BigHat", rec["type"])
	assert.Equal(t, "hat", db.vars[0]["tb"])
}

func TestStore_Find_NotFound(t *testing.T) {
	t.Parallel()
	db := &mockDB{
		queryFunc: func(ctx context.Context, query string, vars map[string]interface{}) ([]database.Result, error) {
			return []database.Result{{Status: "OK", Result: []interface{}{}}}, nil
		},
	}
	store := surrealstore.New(db, helpers.QuietLogger())

	_, err := store.Find(helpers.Context(t), "hat", 3)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestStore_UnloadAll_DeletesWrittenTables(t *testing.T) {
	t.Parallel()
	db := &mockDB{}
	store := surrealstore.New(db, helpers.QuietLogger())
	ctx := helpers.Context(t)

	_, err := store.Push(ctx, factory.Payload{Model: "hat", ID: 1, Attributes: factory.Fixture{"id": 1}})
	require.NoError(t, err)
	_, err = store.Push(ctx, factory.Payload{Model: "person", ID: 1, Attributes: factory.Fixture{"id": 1}})
	require.NoError(t, err)

	require.NoError(t, store.UnloadAll(ctx))
	require.Len(t, db.queries, 3)
	assert.Equal(t, 2, strings.Count(db.queries[2], "DELETE type::table("))
	assert.Equal(t, []interface{}{"hat", "person"}, varsWithSuffix(db.vars[2], "_tb"))
	assert.Empty(t, store.Tables())
}

func TestStore_UnloadAll_NothingWritten(t *testing.T) {
	t.Parallel()
	db := &mockDB{}
	store := surrealstore.New(db, helpers.QuietLogger())

	require.NoError(t, store.UnloadAll(helpers.Context(t)))
	assert.Empty(t, db.queries)
}

// ============================================================================
// Integration
// ============================================================================

func TestStore_Integration_MakeFindClear(t *testing.T) {
	tdb := testdb.New(t)
	store := surrealstore.New(tdb.DB, helpers.QuietLogger())
	f := fixtures.NewFactory(t, factory.WithStore(store))

	_, err := f.Make(tdb.Ctx(), "dude", "funny")
	require.NoError(t, err)

	rec, err := store.Find(tdb.Ctx(), "person", 1)
	require.NoError(t, err)
	assert.Equal(t, "funny", rec["type"])
	assert.Equal(t, "person #1", rec["name"])

	require.NoError(t, f.ClearStore(tdb.Ctx()))
	_, err = store.Find(tdb.Ctx(), "person", 1)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestStore_Integration_AssociationsShareTable(t *testing.T) {
	tdb := testdb.New(t)
	require.NoError(t, tdb.DB.Ping(tdb.Ctx()))
	store := surrealstore.New(tdb.DB, helpers.QuietLogger())
	f := fixtures.NewFactory(t, factory.WithStore(store), factory.WithConverter(format.NewJSONAPI()))

	_, err := f.Make(tdb.Ctx(), "user", "with_hats")
	require.NoError(t, err)
	_, err = f.Make(tdb.Ctx(), "hat")
	require.NoError(t, err)
	assert.Equal(t, []string{"big-hat", "user"}, store.Tables())

	results := tdb.MustQuery("SELECT VALUE id FROM type::table($tb)", map[string]interface{}{"tb": "big-hat"})
	require.Len(t, results, 1)
	assert.Len(t, results[0].Result, 3)

	tdb.MustExec("DELETE type::table($tb)", map[string]interface{}{"tb": "big-hat"})
	_, err = store.Find(tdb.Ctx(), "big-hat", 3)
	assert.ErrorIs(t, err, database.ErrNotFound)
}
