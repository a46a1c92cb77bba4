package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nwestbury/lucky-draw-backend/internal/draw"
)

// stateRow is the single-row table holding the serialized aggregate. Every
// Save replaces the whole payload; there is nothing to merge.
type stateRow struct {
	ID      int    `gorm:"primaryKey"`
	Payload []byte `gorm:"not null"`
}

func (stateRow) TableName() string { return "draw_state" }

type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.AutoMigrate(&stateRow{}); err != nil {
		return nil, fmt.Errorf("migrate draw_state: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (p *PostgresStore) Load() (draw.State, error) {
	var row stateRow
	err := p.db.First(&row, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s := draw.NewEmptyState()
		if err := p.Save(s); err != nil {
			return draw.State{}, err
		}
		return s, nil
	}
	if err != nil {
		return draw.State{}, fmt.Errorf("load state row: %w", err)
	}

	var s draw.State
	if err := json.Unmarshal(row.Payload, &s); err != nil {
		return draw.State{}, fmt.Errorf("decode state row: %w", err)
	}
	return s, nil
}

func (p *PostgresStore) Save(s draw.State) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := p.db.Save(&stateRow{ID: 1, Payload: data}).Error; err != nil {
		return fmt.Errorf("save state row: %w", err)
	}
	return nil
}
