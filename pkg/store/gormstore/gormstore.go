// Package gormstore persists fixtures through GORM.
//
// Every payload becomes one FixtureRecord row keyed by (model, fixture id)
// with the attributes stored as JSON. Pushing the same key again replaces
// the row. SQLite and PostgreSQL are supported.
package gormstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/forgo/factory/pkg/factory"
)

var _ factory.Store = (*Store)(nil)

var (
	// ErrNotFound is returned by Find when no row matches.
	ErrNotFound = errors.New("fixture record not found")

	// ErrUnknownDialect is returned by Open for an unsupported dialect.
	ErrUnknownDialect = errors.New("unknown dialect")
)

// FixtureRecord is the row written for every pushed payload.
type FixtureRecord struct {
	ID        uint   `gorm:"primaryKey"`
	Model     string `gorm:"size:255;not null;uniqueIndex:idx_fixture_key"`
	FixtureID string `gorm:"size:255;not null;uniqueIndex:idx_fixture_key"`
	Payload   string `gorm:"type:text;not null"`
}

// Store is a factory.Store over a *gorm.DB.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

// Open connects with the given dialect ("sqlite" or "postgres") and migrates
// the fixture table.
func Open(dialect, dsn string, log *slog.Logger) (*Store, error) {
	var dialector gorm.Dialector
	switch dialect {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, dialect)
	}

	if log == nil {
		log = slog.Default()
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(
			slog.NewLogLogger(log.Handler(), slog.LevelWarn),
			logger.Config{
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("gormstore: open %s: %w", dialect, err)
	}
	return New(db, log)
}

// New migrates the fixture table on db and returns a store over it.
func New(db *gorm.DB, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := db.AutoMigrate(&FixtureRecord{}); err != nil {
		return nil, fmt.Errorf("gormstore: migrate: %w", err)
	}
	return &Store{db: db, logger: log}, nil
}

// DB returns the underlying connection.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Push writes the included payloads and then payload in one transaction.
func (s *Store) Push(ctx context.Context, payload factory.Payload) (*factory.Record, error) {
	if payload.ID == nil {
		return nil, fmt.Errorf("gormstore: %s payload has no id", payload.Model)
	}

	var row FixtureRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		row, err = upsert(tx, payload)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("gormstore: push %s: %w", payload.Model, err)
	}

	s.logger.Debug("pushed fixture",
		slog.String("model", payload.Model),
		slog.String("fixture_id", row.FixtureID),
		slog.Uint64("row", uint64(row.ID)),
	)
	return &factory.Record{
		Model:      payload.Model,
		ID:         payload.ID,
		Attributes: payload.Attributes,
		Ref:        row.ID,
	}, nil
}

func upsert(tx *gorm.DB, p factory.Payload) (FixtureRecord, error) {
	for _, inc := range p.Included {
		if _, err := upsert(tx, inc); err != nil {
			return FixtureRecord{}, err
		}
	}

	data, err := json.Marshal(p.Attributes)
	if err != nil {
		return FixtureRecord{}, fmt.Errorf("encode %s: %w", p.Model, err)
	}
	row := FixtureRecord{
		Model:     p.Model,
		FixtureID: fmt.Sprint(p.ID),
		Payload:   string(data),
	}
	err = tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "model"}, {Name: "fixture_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload"}),
	}).Create(&row).Error
	if err != nil {
		return FixtureRecord{}, err
	}

	// the conflict path leaves row.ID unset on some dialects
	if row.ID == 0 {
		if err := tx.Where("model = ? AND fixture_id = ?", row.Model, row.FixtureID).First(&row).Error; err != nil {
			return FixtureRecord{}, err
		}
	}
	return row, nil
}

// Find reads a pushed fixture back. Numbers decode as float64.
func (s *Store) Find(ctx context.Context, model string, id any) (factory.Fixture, error) {
	var row FixtureRecord
	err := s.db.WithContext(ctx).
		Where("model = ? AND fixture_id = ?", model, fmt.Sprint(id)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s %v", ErrNotFound, model, id)
	}
	if err != nil {
		return nil, fmt.Errorf("gormstore: find %s: %w", model, err)
	}

	var out factory.Fixture
	if err := json.Unmarshal([]byte(row.Payload), &out); err != nil {
		return nil, fmt.Errorf("gormstore: decode %s: %w", model, err)
	}
	return out, nil
}

// Count returns the number of rows for model, or for all models when model
// is empty.
func (s *Store) Count(ctx context.Context, model string) (int64, error) {
	q := s.db.WithContext(ctx).Model(&FixtureRecord{})
	if model != "" {
		q = q.Where("model = ?", model)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("gormstore: count: %w", err)
	}
	return n, nil
}

// UnloadAll deletes every fixture row.
func (s *Store) UnloadAll(ctx context.Context) error {
	res := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&FixtureRecord{})
	if res.Error != nil {
		return fmt.Errorf("gormstore: unload: %w", res.Error)
	}
	s.logger.Debug("unloaded fixtures", slog.Int64("rows", res.RowsAffected))
	return nil
}
