// Package data keeps an optional log of served lookups in Postgres.
package data

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/spencer-p/lowtide/pkg/lowtide"
)

// Lookup is one successful lookup.
type Lookup struct {
	gorm.Model
	Zip     int    `gorm:"index"`
	Station string `gorm:"index"`
	Begin   time.Time
	End     time.Time
	Results int
}

// Log records lookups. A nil *Log records nothing.
type Log struct {
	db *gorm.DB
}

// Open connects to Postgres at dsn and migrates the lookups table.
func Open(dsn string) (*Log, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&Lookup{}); err != nil {
		return nil, fmt.Errorf("migrating lookups: %w", err)
	}
	return &Log{db: db}, nil
}

// NewLookup summarizes res as a row.
func NewLookup(res *lowtide.Result) *Lookup {
	return &Lookup{
		Zip:     res.Zip,
		Station: string(res.Station.ID),
		Begin:   res.Begin,
		End:     res.End,
		Results: len(res.Tides),
	}
}

// Record saves a row for res.
func (l *Log) Record(ctx context.Context, res *lowtide.Result) error {
	if l == nil {
		return nil
	}
	if tx := l.db.WithContext(ctx).Create(NewLookup(res)); tx.Error != nil {
		return fmt.Errorf("recording lookup: %w", tx.Error)
	}
	return nil
}
