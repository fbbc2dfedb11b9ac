package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/posterspot/backend/models"
	"gorm.io/gorm"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20250601_create_core_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{}, &models.Spot{},
					&models.Assignment{}, &models.Submission{}, &models.SubmissionProof{})
			},
		},
		{
			ID: "20250614_index_active_assignments",
			Migrate: func(tx *gorm.DB) error {
				// at most one assignment per spot may be in the
				// "assigned" state; the partial unique index backs the
				// row-locked check in the assignment ledger
				return tx.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_assignments_spot_active
					ON assignments (spot_id) WHERE status = 'assigned'`).Error
			},
		},
	})
	return m.Migrate()
}
