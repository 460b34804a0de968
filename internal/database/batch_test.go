package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockDB struct {
	queryFunc func(ctx context.Context, query string, vars map[string]interface{}) ([]Result, error)
	queries   []string
	vars      []map[string]interface{}
}

func (m *mockDB) Connect(ctx context.Context) error { return nil }
func (m *mockDB) Close() error                      { return nil }
func (m *mockDB) Ping(ctx context.Context) error    { return nil }

func (m *mockDB) Query(ctx context.Context, query string, vars map[string]interface{}) ([]Result, error) {
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
	return FirstRecord(results)
}

func (m *mockDB) Execute(ctx context.Context, query string, vars map[string]interface{}) error {
	_, err := m.Query(ctx, query, vars)
	return err
}

func TestTxBuilder_NamespacesVariables(t *testing.T) {
	t.Parallel()
	tb := NewTxBuilder()

	first := tb.Add("CREATE user SET email = $email", map[string]interface{}{"email": "a@test.local"})
	second := tb.Add("CREATE member SET email = $email;", map[string]interface{}{"email": "b@test.local"})
	query, vars := tb.Build()

	assert.Equal(t, map[string]string{"email": "v1_email"}, first)
	assert.Equal(t, map[string]string{"email": "v2_email"}, second)
	assert.Equal(t, "BEGIN TRANSACTION;\n"+
		"CREATE user SET email = $v1_email;\n"+
		"CREATE member SET email = $v2_email;\n"+
		"COMMIT TRANSACTION;", query)
	assert.Equal(t, map[string]interface{}{"v1_email": "a@test.local", "v2_email": "b@test.local"}, vars)
}

func TestTxBuilder_RenamesLongerNamesFirst(t *testing.T) {
	t.Parallel()
	tb := NewTxBuilder()

	tb.Add("UPSERT type::thing($tb, $tbl_id)", map[string]interface{}{"tb": "user", "tbl_id": 1})
	query, _ := tb.Build()

	assert.Contains(t, query, "type::thing($v2_tb, $v1_tbl_id)")
}

func TestTxBuilder_EmptyBuild(t *testing.T) {
	t.Parallel()
	db := &mockDB{}

	results, err := ExecuteTransaction(context.Background(), db, NewTxBuilder())

	require.NoError(t, err)
	assert.Nil(t, results)
	assert.Empty(t, db.queries)
}

func TestAtomicBatch_ExecutesOnce(t *testing.T) {
	t.Parallel()
	db := &mockDB{}
	batch := NewAtomicBatch().
		Add("DELETE type::table($tb)", map[string]interface{}{"tb": "user"}).
		Add("DELETE type::table($tb)", map[string]interface{}{"tb": "project"})

	require.NoError(t, batch.Execute(context.Background(), db))

	assert.Equal(t, 2, batch.Len())
	require.Len(t, db.queries, 1)
	assert.Equal(t, map[string]interface{}{"v1_tb": "user", "v2_tb": "project"}, db.vars[0])
}

func TestFirstRecord(t *testing.T) {
	t.Parallel()

	_, err := FirstRecord(nil)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = FirstRecord([]Result{{Status: "OK", Result: []interface{}{}}})
	assert.ErrorIs(t, err, ErrNotFound)

	rec, err := FirstRecord([]Result{{Status: "OK", Result: []interface{}{"a", "b"}}})
	require.NoError(t, err)
	assert.Equal(t, "a", rec)

	scalar, err := FirstRecord([]Result{{Status: "OK", Result: 3}})
	require.NoError(t, err)
	assert.Equal(t, 3, scalar)
}

func TestConfig_Endpoint(t *testing.T) {
	t.Parallel()

	cfg := Config{Host: "localhost", Port: "8000"}

	assert.Equal(t, "ws://localhost:8000", cfg.Endpoint())
}
