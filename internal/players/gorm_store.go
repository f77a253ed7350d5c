package players

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

type playerRecord struct {
	ID             string `gorm:"primaryKey"`
	DisplayName    string `gorm:"not null"`
	GameName       string
	TagLine        string
	Region         string
	PUUID          string   `gorm:"column:puuid"`
	OwnedChampions []string `gorm:"serializer:json"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (playerRecord) TableName() string { return "players" }

func toRecord(p Player) playerRecord {
	return playerRecord{
		ID:             p.ID,
		DisplayName:    p.DisplayName,
		GameName:       p.GameName,
		TagLine:        p.TagLine,
		Region:         p.Region,
		PUUID:          p.PUUID,
		OwnedChampions: p.OwnedChampions,
	}
}

func (r playerRecord) player() Player {
	return Player{
		ID:             r.ID,
		DisplayName:    r.DisplayName,
		GameName:       r.GameName,
		TagLine:        r.TagLine,
		Region:         r.Region,
		PUUID:          r.PUUID,
		OwnedChampions: r.OwnedChampions,
	}
}

// GormStore keeps players in Postgres.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

func OpenPostgres(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return NewGormStore(db)
}

// NewGormStore migrates the players table on db.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&playerRecord{}); err != nil {
		return nil, fmt.Errorf("migrate players: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Get(ctx context.Context, id string) (Player, bool, error) {
	var rec playerRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Player{}, false, nil
	}
	if err != nil {
		return Player{}, false, fmt.Errorf("get player %s: %w", id, err)
	}
	return rec.player(), true, nil
}

func (s *GormStore) List(ctx context.Context) ([]Player, error) {
	var recs []playerRecord
	if err := s.db.WithContext(ctx).Order("display_name").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	out := make([]Player, len(recs))
	for i, rec := range recs {
		out[i] = rec.player()
	}
	return out, nil
}

func (s *GormStore) Save(ctx context.Context, p Player) error {
	rec := toRecord(p)
	// Upsert; UpdateAll skips created_at so the original registration time stays.
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save player %s: %w", p.ID, err)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&playerRecord{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete player %s: %w", id, err)
	}
	return nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
