package database

import (
	"fmt"

	"github.com/Lisdexico96/Telegram-interview-bot/internal/config"
	"github.com/Lisdexico96/Telegram-interview-bot/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	// Early deployments tracked completion with a single flag; the lock
	// column was added later. Backfill it before gorm migrates.
	db.Exec(`DO $$
	BEGIN
		IF EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'candidates')
		   AND NOT EXISTS (SELECT 1 FROM information_schema.columns WHERE table_name = 'candidates' AND column_name = 'locked')
		THEN
			ALTER TABLE candidates ADD COLUMN locked boolean NOT NULL DEFAULT false;
			UPDATE candidates SET locked = true WHERE completed = true;
		END IF;
	END $$;`)

	if err := db.AutoMigrate(
		&models.Candidate{},
		&models.Response{},
		&models.Reviewer{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
