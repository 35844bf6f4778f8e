package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Item is one row of the key-value table.
type Item struct {
	Key   string `gorm:"column:item_key;primaryKey;size:255"`
	Value string `gorm:"column:item_value;type:text;not null"`
}

func (i *Item) TableName() string {
	return "kv_items"
}

// GormStore keeps every pair as a row in kv_items. It runs on any GORM dialect
// that understands ON CONFLICT upserts (SQLite, PostgreSQL).
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps db and creates the kv_items table if needed.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&Item{}); err != nil {
		return nil, unavailable("create table", err)
	}
	return &GormStore{db: db}, nil
}

// OpenSQLite opens (or creates) the SQLite database file at path.
func OpenSQLite(path string, cfg *gorm.Config) (*GormStore, error) {
	if cfg == nil {
		cfg = &gorm.Config{}
	}
	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, unavailable("open sqlite", err)
	}
	return NewGormStore(db)
}

// OpenPostgres connects through lib/pq and hands the connection to GORM.
func OpenPostgres(ctx context.Context, dsn string, cfg *gorm.Config) (*GormStore, error) {
	if cfg == nil {
		cfg = &gorm.Config{}
	}
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, unavailable("open postgres", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, unavailable("ping postgres", err)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), cfg)
	if err != nil {
		sqlDB.Close()
		return nil, unavailable("open postgres", err)
	}
	return NewGormStore(db)
}

func (s *GormStore) GetAllKeys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := s.db.WithContext(ctx).
		Model(&Item{}).
		Order("item_key").
		Pluck("item_key", &keys).Error; err != nil {
		return nil, unavailable("get all keys", err)
	}
	return keys, nil
}

func (s *GormStore) MultiGet(ctx context.Context, keys []string) ([]Pair, error) {
	if len(keys) == 0 {
		return []Pair{}, nil
	}

	var items []Item
	if err := s.db.WithContext(ctx).
		Where("item_key IN ?", keys).
		Find(&items).Error; err != nil {
		return nil, unavailable("multi get", err)
	}

	byKey := make(map[string]string, len(items))
	for _, it := range items {
		byKey[it.Key] = it.Value
	}

	// Keep the caller's key order.
	pairs := make([]Pair, 0, len(items))
	for _, k := range keys {
		if v, ok := byKey[k]; ok {
			pairs = append(pairs, Pair{Key: k, Value: v})
			delete(byKey, k)
		}
	}
	return pairs, nil
}

func (s *GormStore) MultiSet(ctx context.Context, pairs []Pair) error {
	if len(pairs) == 0 {
		return nil
	}

	// PostgreSQL rejects an upsert that touches the same row twice.
	pairs = lastWins(pairs)
	items := make([]Item, len(pairs))
	for i, p := range pairs {
		items[i] = Item{Key: p.Key, Value: p.Value}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "item_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"item_value"}),
		}).Create(&items).Error
	})
	if err != nil {
		return unavailable("multi set", err)
	}
	return nil
}

func (s *GormStore) Remove(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).
		Where("item_key = ?", key).
		Delete(&Item{}).Error; err != nil {
		return unavailable("remove", err)
	}
	return nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		return err
	}
	return nil
}

var _ Store = (*GormStore)(nil)
