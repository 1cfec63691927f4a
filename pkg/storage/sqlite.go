package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront/internal/repo"
	"github.com/angelmondragon/storefront/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is one persisted key-value row.
type Entry struct {
	Key       string `gorm:"primaryKey;size:128"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (Entry) TableName() string { return "device_entries" }

// SQLite persists entries in a local SQLite file through GORM.
type SQLite struct {
	repo.Base
	client *db.Client
}

// NewSQLite migrates the entries table and returns the store.
func NewSQLite(ctx context.Context, client *db.Client) (*SQLite, error) {
	if client == nil {
		return nil, fmt.Errorf("db client is required")
	}
	if err := client.Migrate(ctx, &Entry{}); err != nil {
		return nil, err
	}
	return &SQLite{Base: repo.NewBase(client.DB()), client: client}, nil
}

func (s *SQLite) Get(ctx context.Context, key string) (string, error) {
	var entry Entry
	err := s.DB(ctx).Where("key = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return entry.Value, nil
}

func (s *SQLite) Set(ctx context.Context, key, value string) error {
	entry := Entry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.DB(ctx).Where("key IN ?", keys).Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("delete keys: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.client.Close()
}
