package model

import "time"

// CompletedVisit is the historical record of one finished stay (cold table).
// Rows are append-only: they are never updated or deleted once written.
type CompletedVisit struct {
	ID            int64        `gorm:"autoIncrement;primaryKey"`
	Plate         string       `gorm:"size:16;not null;index"`
	Class         VehicleClass `gorm:"size:16;not null"`
	EntryDate     string       `gorm:"size:10;not null;index"`
	EntryHour     int          `gorm:"not null"`
	EntryMinute   int          `gorm:"not null"`
	ExitDate      string       `gorm:"size:10;not null"`
	ExitHour      int          `gorm:"not null"`
	ExitMinute    int          `gorm:"not null"`
	DurationHours float64      `gorm:"not null"`
	Amount        float64      `gorm:"not null"`
	Actor         string       `gorm:"size:64"`
	RecordedAt    time.Time    `gorm:"not null;index;autoCreateTime"`
}
