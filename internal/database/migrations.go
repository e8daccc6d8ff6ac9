package database

import (
	"errors"
	"time"

	"github.com/HiXaM94/cat-gallery/internal/cats"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	migrationBackfillBlankImages = "2026-07-12_backfill_blank_images"

	// Matches the config default; legacy rows imported before image
	// resolution existed carry empty or whitespace-only image columns.
	placeholderImage = "/img/placeholder.jpg"
)

type migrationRecord struct {
	Name             string `gorm:"column:name;primaryKey;size:190;not null"`
	AppliedAtSeconds int64  `gorm:"column:applied_at_s;not null"`
}

func (migrationRecord) TableName() string {
	return "db_migrations"
}

type migrationDefinition struct {
	name  string
	apply func(*gorm.DB) error
}

func applyMigrations(db *gorm.DB, logger *zap.Logger) error {
	migrations := []migrationDefinition{
		{name: migrationBackfillBlankImages, apply: backfillBlankImages},
	}

	for _, migration := range migrations {
		var record migrationRecord
		err := db.Where("name = ?", migration.name).Take(&record).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := migration.apply(db); err != nil {
			return err
		}
		appliedAt := time.Now().UTC().Unix()
		if err := db.Create(&migrationRecord{Name: migration.name, AppliedAtSeconds: appliedAt}).Error; err != nil {
			return err
		}
		if logger != nil {
			logger.Info("database migration applied", zap.String("migration", migration.name))
		}
	}
	return nil
}

func backfillBlankImages(db *gorm.DB) error {
	return db.Model(&cats.Cat{}).
		Where("img IS NULL OR TRIM(img) = ''").
		Update("img", placeholderImage).Error
}
