// Package memstore provides an in-memory factory.Store for tests that need
// Make without a database.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/forgo/factory/pkg/factory"
)

// Compile-time check that Store satisfies factory.Store.
var _ factory.Store = (*Store)(nil)

// Store keeps pushed fixtures per model, keyed by id. Pushing a payload
// whose id is already stored replaces the earlier record.
type Store struct {
	mu      sync.RWMutex
	records map[string]map[string]*factory.Record
	order   map[string][]string
}

// New creates an empty store.
func New() *Store {
	return &Store{
		records: make(map[string]map[string]*factory.Record),
		order:   make(map[string][]string),
	}
}

// Push stores the included payloads first, then payload itself.
func (s *Store) Push(ctx context.Context, payload factory.Payload) (*factory.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, inc := range payload.Included {
		if _, err := s.Push(ctx, inc); err != nil {
			return nil, err
		}
	}

	rec := &factory.Record{
		Model:      payload.Model,
		ID:         payload.ID,
		Attributes: payload.Attributes.Clone(),
	}
	key := idKey(payload.ID)

	s.mu.Lock()
	defer s.mu.Unlock()

	byID, ok := s.records[payload.Model]
	if !ok {
		byID = make(map[string]*factory.Record)
		s.records[payload.Model] = byID
	}
	if _, exists := byID[key]; !exists {
		s.order[payload.Model] = append(s.order[payload.Model], key)
	}
	byID[key] = rec
	rec.Ref = key
	return rec, nil
}

// Find returns the record of model with the given id.
func (s *Store) Find(model string, id any) (*factory.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[model][idKey(id)]
	return rec, ok
}

// All returns the records of model in push order.
func (s *Store) All(model string) []*factory.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := s.order[model]
	out := make([]*factory.Record, 0, len(keys))
	for _, key := range keys {
		out = append(out, s.records[model][key])
	}
	return out
}

// Models returns the sorted names of models holding records.
func (s *Store) Models() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	models := make([]string, 0, len(s.records))
	for m := range s.records {
		models = append(models, m)
	}
	sort.Strings(models)
	return models
}

// Len returns the total number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, byID := range s.records {
		n += len(byID)
	}
	return n
}

// UnloadAll drops every record.
func (s *Store) UnloadAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]map[string]*factory.Record)
	s.order = make(map[string][]string)
	return nil
}

func idKey(id any) string {
	return fmt.Sprint(id)
}
