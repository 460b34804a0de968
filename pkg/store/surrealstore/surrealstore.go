// Package surrealstore pushes fixtures into SurrealDB.
//
// Each payload becomes a record in the table named after its model, with the
// fixture id as record id:
//
//	UPSERT type::thing($tb, $id) CONTENT $data
//
// A payload and its included payloads are written in one transaction.
// UnloadAll deletes every table the store has written to.
package surrealstore

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/forgo/factory/internal/database"
	"github.com/forgo/factory/pkg/factory"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

var _ factory.Store = (*Store)(nil)

const (
	upsertQuery = "UPSERT type::thing($tb, $id) CONTENT $data"
	selectQuery = "SELECT * FROM type::thing($tb, $id)"
	deleteQuery = "DELETE type::table($tb)"
)

// Config holds connection settings for Open.
type Config = database.Config

// Store is a factory.Store backed by SurrealDB.
type Store struct {
	db     database.Database
	logger *slog.Logger

	mu     sync.Mutex
	tables map[string]struct{}
}

// New wraps an already connected database.
func New(db database.Database, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		db:     db,
		logger: logger,
		tables: make(map[string]struct{}),
	}
}

// Open connects to SurrealDB and returns a store over the connection.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	db := database.NewSurrealDB(cfg)
	if err := db.Connect(ctx); err != nil {
		return nil, err
	}
	if err := db.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return New(db, logger), nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Push writes the included payloads and then payload in one transaction.
func (s *Store) Push(ctx context.Context, payload factory.Payload) (*factory.Record, error) {
	if payload.ID == nil {
		return nil, fmt.Errorf("surrealstore: %s payload has no id", payload.Model)
	}

	batch := database.NewAtomicBatch()
	var tables []string
	s.addPayload(batch, payload, &tables)

	if err := batch.Execute(ctx, s.db); err != nil {
		return nil, fmt.Errorf("surrealstore: push %s: %w", payload.Model, err)
	}

	s.mu.Lock()
	for _, tb := range tables {
		s.tables[tb] = struct{}{}
	}
	s.mu.Unlock()

	s.logger.Debug("pushed fixture",
		slog.String("table", payload.Model),
		slog.Any("id", payload.ID),
		slog.Int("statements", batch.Len()),
	)
	return &factory.Record{
		Model:      payload.Model,
		ID:         payload.ID,
		Attributes: payload.Attributes,
		Ref:        recordID(payload.Model, payload.ID),
	}, nil
}

func (s *Store) addPayload(batch *database.AtomicBatch, p factory.Payload, tables *[]string) {
	for _, inc := range p.Included {
		s.addPayload(batch, inc, tables)
	}

	data := make(map[string]interface{}, len(p.Attributes))
	for k, v := range p.Attributes {
		if k == factory.IDKey {
			continue
		}
		data[k] = v
	}
	batch.Add(upsertQuery, map[string]interface{}{
		"tb":   p.Model,
		"id":   p.ID,
		"data": data,
	})
	*tables = append(*tables, p.Model)
}

// Find reads a pushed record back.
func (s *Store) Find(ctx context.Context, model string, id any) (map[string]interface{}, error) {
	row, err := s.db.QueryOne(ctx, selectQuery, map[string]interface{}{"tb": model, "id": id})
	if err != nil {
		return nil, err
	}
	rec, ok := toMap(row)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected %T row", database.ErrQuery, row)
	}
	if id, ok := rec[factory.IDKey]; ok {
		rec[factory.IDKey] = recordKey(id)
	}
	return rec, nil
}

func toMap(row interface{}) (map[string]interface{}, bool) {
	switch m := row.(type) {
	case map[string]interface{}:
		return m, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, v := range m {
			out[fmt.Sprint(k)] = v
		}
		return out, true
	}
	return nil, false
}

// recordKey returns the id part of a SurrealDB record id.
func recordKey(id interface{}) interface{} {
	switch v := id.(type) {
	case models.RecordID:
		return v.ID
	case *models.RecordID:
		if v != nil {
			return v.ID
		}
	}
	return id
}

// Tables returns the sorted tables written so far.
func (s *Store) Tables() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.tables))
	for tb := range s.tables {
		out = append(out, tb)
	}
	sort.Strings(out)
	return out
}

// UnloadAll deletes every table written by the store in one transaction.
func (s *Store) UnloadAll(ctx context.Context) error {
	tables := s.Tables()
	if len(tables) == 0 {
		return nil
	}

	batch := database.NewAtomicBatch()
	for _, tb := range tables {
		batch.Add(deleteQuery, map[string]interface{}{"tb": tb})
	}
	if err := batch.Execute(ctx, s.db); err != nil {
		return fmt.Errorf("surrealstore: unload: %w", err)
	}

	s.mu.Lock()
	s.tables = make(map[string]struct{})
	s.mu.Unlock()

	s.logger.Debug("unloaded fixtures", slog.Int("tables", len(tables)))
	return nil
}

func recordID(table string, id any) string {
	return fmt.Sprintf("%s:%v", table, id)
}
