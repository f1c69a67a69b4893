package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Snapshot is one persisted blob in the snapshots table.
type Snapshot struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     []byte    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GormStore keeps snapshots in a relational table, for deployments that
// already run Postgres and want the state server-side.
type GormStore struct {
	db *gorm.DB
}

// OpenPostgres connects and migrates the snapshots table.
func OpenPostgres(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return NewGormStore(db)
}

// NewGormStore wraps an existing connection (tests use sqlite here).
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&Snapshot{}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

func (g *GormStore) Get(ctx context.Context, key string) ([]byte, error) {
	var snap Snapshot
	err := g.db.WithContext(ctx).Where("key = ?", key).First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return snap.Value, nil
}

func (g *GormStore) Put(ctx context.Context, key string, value []byte) error {
	snap := Snapshot{Key: key, Value: value, UpdatedAt: time.Now()}
	// Upsert: last write wins per key.
	return g.db.WithContext(ctx).Save(&snap).Error
}

func (g *GormStore) Delete(ctx context.Context, key string) error {
	return g.db.WithContext(ctx).Delete(&Snapshot{}, "key = ?", key).Error
}

func (g *GormStore) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
