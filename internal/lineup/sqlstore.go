package lineup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// likesRow is one token's likes list, stored as a JSON document.
type likesRow struct {
	Token     string `gorm:"primaryKey;size:64"`
	Payload   string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (likesRow) TableName() string { return "likes" }

// SQLiteStore is a Store backed by a SQLite database through gorm.
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and migrates
// the likes table.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	// sqlite allows a single writer.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&likesRow{}); err != nil {
		return nil, fmt.Errorf("migrate likes: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// GetLikes implements Store.GetLikes.
func (s *SQLiteStore) GetLikes(ctx context.Context, token string) ([]Like, bool, error) {
	var row likesRow
	err := s.db.WithContext(ctx).First(&row, "token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var likes []Like
	if err := json.Unmarshal([]byte(row.Payload), &likes); err != nil {
		return nil, false, fmt.Errorf("decode likes of %s: %w", token, err)
	}
	return likes, true, nil
}

// SetLikes implements Store.SetLikes.
func (s *SQLiteStore) SetLikes(ctx context.Context, token string, likes []Like) error {
	payload, err := json.Marshal(likes)
	if err != nil {
		return fmt.Errorf("encode likes: %w", err)
	}
	row := likesRow{Token: token, Payload: string(payload)}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&row).Error
}

// CountTokens implements Store.CountTokens.
func (s *SQLiteStore) CountTokens(ctx context.Context) (int, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&likesRow{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

// Close releases the underlying connection pool.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
