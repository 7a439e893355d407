package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"blouconnect/internal/core"
)

// KVEntry is one collection blob.
type KVEntry struct {
	Key       string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}

func (KVEntry) TableName() string {
	return "kv_entries"
}

// KVStore keeps every collection as a row of kv_entries.
type KVStore struct {
	DB       core.DB
	Migrator core.DBMigrator
}

// Init brings the table up to date before the first read.
func (s *KVStore) Init(ctx context.Context) error {
	return s.Migrator.Up(ctx)
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var entry KVEntry
	err := s.DB.Model(&KVEntry{}).
		WithContext(ctx).
		Where("key = ?", key).
		Take(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return []byte(entry.Value), nil
}

func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	entry := KVEntry{Key: key, Value: string(value), UpdatedAt: time.Now()}

	return s.DB.Model(&KVEntry{}).
		WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	return s.DB.Model(&KVEntry{}).
		WithContext(ctx).
		Where("key = ?", key).
		Delete(&KVEntry{}).Error
}

func (s *KVStore) Keys(ctx context.Context) ([]string, error) {
	keys := []string{}
	err := s.DB.Model(&KVEntry{}).
		WithContext(ctx).
		Order("key").
		Pluck("key", &keys).Error
	return keys, err
}
