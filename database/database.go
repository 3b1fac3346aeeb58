package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/myiephero/matchengine/config"
	"github.com/myiephero/matchengine/models"
)

var DB *gorm.DB

func Connect(cfg *config.Config) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	DB = db

	if err := DB.AutoMigrate(
		// externally-owned, migrated here for dev/seed convenience
		&models.Profile{},
		&models.Student{},
		&models.AdvocateProfile{},
		// engine-owned
		&models.MatchProposal{},
		&models.MatchEvent{},
		&models.IntroCall{},
		&models.Notification{},
		&models.Assignment{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Retried propose calls must not duplicate an active pairing. Partial
	// indexes are outside AutoMigrate's vocabulary, so raw SQL it is.
	if err := DB.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_active_proposal_pair
		 ON match_proposals (student_id, advocate_id)
		 WHERE status NOT IN ('accepted', 'declined')`,
	).Error; err != nil {
		log.Fatalf("failed to create active proposal index: %v", err)
	}
}
