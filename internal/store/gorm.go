package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is one persisted session value.
type Entry struct {
	Key       string     `gorm:"column:entry_key;primaryKey;size:255"`
	Value     string     `gorm:"type:text;not null"`
	ExpiresAt *time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// TableName keeps the table name stable regardless of naming strategy.
func (Entry) TableName() string { return "session_entries" }

// Migrate creates or updates the session_entries table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Entry{})
}

// Gorm stores entries in a SQL table (SQLite or PostgreSQL).
type Gorm struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewGorm wraps db. The table must exist, see Migrate.
func NewGorm(db *gorm.DB, ttl time.Duration) *Gorm {
	return &Gorm{db: db, ttl: ttl, now: time.Now}
}

func (g *Gorm) Get(ctx context.Context, key string) (string, bool, error) {
	var e Entry
	err := g.db.WithContext(ctx).Where("entry_key = ?", key).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if e.ExpiresAt != nil && g.now().After(*e.ExpiresAt) {
		return "", false, g.Remove(ctx, key)
	}
	return e.Value, true, nil
}

func (g *Gorm) Set(ctx context.Context, key, value string) error {
	e := Entry{Key: key, Value: value, UpdatedAt: g.now()}
	if g.ttl > 0 {
		exp := g.now().Add(g.ttl)
		e.ExpiresAt = &exp
	}
	return g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&e).Error
}

func (g *Gorm) Remove(ctx context.Context, key string) error {
	return g.db.WithContext(ctx).Where("entry_key = ?", key).Delete(&Entry{}).Error
}

// Sweep deletes expired rows and reports how many were removed.
func (g *Gorm) Sweep(ctx context.Context) (int64, error) {
	res := g.db.WithContext(ctx).Where("expires_at IS NOT NULL AND expires_at < ?", g.now()).Delete(&Entry{})
	return res.RowsAffected, res.Error
}

// Ping checks the database connection.
func (g *Gorm) Ping(ctx context.Context) error {
	return g.db.WithContext(ctx).Exec("SELECT 1").Error
}
