package db

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"parking-ledger-backend/internal/model"
)

// Schema versions:
//
//	1 — hour-only records: visits carried entry/exit hours but no calendar
//	    dates or minutes.
//	2 — full timestamps: date + hour + minute on both ends.
const currentSchemaVersion = 2

// upgradeSchema applies pending upgrades, gated by the schema_versions
// marker so each rewrite runs exactly once.
func upgradeSchema(db *gorm.DB) error {
	var latest model.SchemaVersion
	err := db.Order("version DESC").First(&latest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Fresh database, or one predating the marker table. Hour-only rows
		// from a pre-marker deployment are recognizable by their empty
		// entry date.
		if err := upgradeHourOnlyVisits(db); err != nil {
			return err
		}
		return stamp(db, currentSchemaVersion)
	}
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if latest.Version >= currentSchemaVersion {
		return nil
	}

	if latest.Version < 2 {
		if err := upgradeHourOnlyVisits(db); err != nil {
			return err
		}
	}
	return stamp(db, currentSchemaVersion)
}

// upgradeHourOnlyVisits rewrites legacy history rows that carried only entry
// and exit hours into the full date+minute schema. The original dates are
// unrecoverable; the rows get today's date and a migration actor so they
// remain distinguishable.
func upgradeHourOnlyVisits(db *gorm.DB) error {
	today := time.Now().Format("2006-01-02")
	result := db.Model(&model.CompletedVisit{}).
		Where("entry_date = ? OR entry_date IS NULL", "").
		Updates(map[string]any{
			"entry_date": today,
			"exit_date":  today,
			"actor":      "migration",
		})
	if result.Error != nil {
		return fmt.Errorf("failed to rewrite legacy visits: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		log.Printf("Rewrote %d legacy hour-only visit records", result.RowsAffected)
	}
	return nil
}

func stamp(db *gorm.DB, version int) error {
	return db.Create(&model.SchemaVersion{Version: version, AppliedAt: time.Now()}).Error
}
