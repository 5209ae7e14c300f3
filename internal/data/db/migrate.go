package db

import (
	"fmt"

	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"gorm.io/gorm"
)

// Statements run after AutoMigrate. Both Postgres and SQLite accept partial indexes.
var postMigrateStatements = []string{
	// one active adaptive session per (user, section)
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_adaptive_session_one_active
		ON adaptive_session (user_id, section_id)
		WHERE status = 'active'`,
	`CREATE INDEX IF NOT EXISTS idx_adaptive_archive_outbox_due
		ON adaptive_archive_outbox (status, next_attempt_at)`,
}

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(types.AllModels()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	for _, stmt := range postMigrateStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("post-migrate: %w", err)
		}
	}
	return nil
}
