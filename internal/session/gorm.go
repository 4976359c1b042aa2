package session

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is one stored key of one visitor.
type Entry struct {
	VisitorID string    `gorm:"primaryKey;size:64"`
	Key       string    `gorm:"primaryKey;size:32;column:entry_key"`
	Value     string    `gorm:"type:text;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	UpdatedAt time.Time
}

func (Entry) TableName() string { return "storefront_sessions" }

type GormBackend struct {
	DB  *gorm.DB
	TTL time.Duration
}

func NewGormBackend(db *gorm.DB, ttl time.Duration) *GormBackend {
	return &GormBackend{DB: db, TTL: ttl}
}

func (b *GormBackend) Migrate(ctx context.Context) error {
	return b.DB.WithContext(ctx).AutoMigrate(&Entry{})
}

func (b *GormBackend) Scope(visitorID string) Store {
	return &gormStore{b: b, visitor: visitorID}
}

func (b *GormBackend) Ping(ctx context.Context) error {
	sqlDB, err := b.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (b *GormBackend) PurgeExpired(ctx context.Context) (int64, error) {
	res := b.DB.WithContext(ctx).
		Where("expires_at <= ?", time.Now().UTC()).
		Delete(&Entry{})
	return res.RowsAffected, res.Error
}

func (b *GormBackend) expiry() time.Time {
	ttl := b.TTL
	if ttl <= 0 {
		ttl = 100 * 365 * 24 * time.Hour
	}
	return time.Now().UTC().Add(ttl)
}

type gormStore struct {
	b       *GormBackend
	visitor string
}

func (s *gormStore) Get(ctx context.Context, key string) (string, error) {
	var e Entry
	err := s.b.DB.WithContext(ctx).
		Where("visitor_id = ? AND entry_key = ? AND expires_at > ?", s.visitor, key, time.Now().UTC()).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return e.Value, nil
}

func (s *gormStore) Set(ctx context.Context, key, value string) error {
	e := Entry{
		VisitorID: s.visitor,
		Key:       key,
		Value:     value,
		ExpiresAt: s.b.expiry(),
	}
	return s.b.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "visitor_id"}, {Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&e).Error
}

func (s *gormStore) Clear(ctx context.Context, keys ...string) error {
	q := s.b.DB.WithContext(ctx).Where("visitor_id = ?", s.visitor)
	if len(keys) > 0 {
		q = q.Where("entry_key IN ?", keys)
	}
	return q.Delete(&Entry{}).Error
}
