package model

import "time"

// SchemaVersion records which schema upgrades have been applied, so legacy
// data rewrites run exactly once instead of being re-detected at runtime.
type SchemaVersion struct {
	ID        int64 `gorm:"autoIncrement;primaryKey"`
	Version   int   `gorm:"not null"`
	AppliedAt time.Time
}
