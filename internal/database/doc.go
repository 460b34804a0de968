// Package database wraps SurrealDB for the fixture store adapter.
//
// # Interface
//
// The Database interface exposes three query methods:
//
//   - Query: every statement result of a query
//   - QueryOne: the first record of the first statement
//   - Execute: mutations whose results are not needed
//
// # Batches
//
// Batches are accumulated in memory and sent as one
// BEGIN TRANSACTION ... COMMIT TRANSACTION query, so all statements succeed
// or fail together. Variables of each statement are namespaced to avoid
// collisions between statements using the same names.
//
//	batch := database.NewAtomicBatch()
//	batch.Add("DELETE type::table($tb)", map[string]interface{}{"tb": "user"})
//	batch.Add("DELETE type::table($tb)", map[string]interface{}{"tb": "project"})
//	err := batch.Execute(ctx, db)
//
// # Errors
//
// Failures wrap ErrConnection, ErrQuery or ErrNotFound; check with
// errors.Is.
package database
