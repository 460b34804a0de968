// Package testdb provides SurrealDB integration-test connections.
//
// Each TestDB gets its own namespace, removed again on cleanup:
//
//	func TestSomething(t *testing.T) {
//	    tdb := testdb.New(t) // skipped without TEST_DB_HOST
//	    store := surrealstore.New(tdb.DB, nil)
//	    ...
//	}
//
// Connection settings come from TEST_DB_HOST, TEST_DB_PORT, TEST_DB_USER and
// TEST_DB_PASSWORD.
package testdb
