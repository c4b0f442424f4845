package model

import "time"

// ActiveStay represents a vehicle currently inside the facility (hot table).
// At most one row exists per plate; the plate is the primary key.
//
// Entry time is stored as the facility clock reads it: a local calendar date
// plus hour and minute, with no timezone attached.
type ActiveStay struct {
	Plate       string       `gorm:"primaryKey;size:16"`
	Class       VehicleClass `gorm:"size:16;not null"`
	EntryDate   string       `gorm:"size:10;not null"` // YYYY-MM-DD
	EntryHour   int          `gorm:"not null"`
	EntryMinute int          `gorm:"not null"`
	Actor       string       `gorm:"size:64"`
	CreatedAt   time.Time
}
