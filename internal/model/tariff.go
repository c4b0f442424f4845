package model

// DayAll marks a tariff rule that applies on every weekday.
const DayAll = "all"

// TariffRule maps (class, day, hour range) to a rate pair. The day field is a
// lowercase English weekday name ("monday".."sunday") or DayAll. The hour
// range is inclusive on both ends. Multiple rules may cover the same slot; a
// day-specific rule wins over a DayAll rule.
type TariffRule struct {
	ID           int64        `gorm:"autoIncrement;primaryKey"`
	Class        VehicleClass `gorm:"size:16;not null;index"`
	Day          string       `gorm:"size:16;not null"`
	HourStart    int          `gorm:"not null"`
	HourEnd      int          `gorm:"not null"`
	HourlyRate   float64      `gorm:"not null"`
	FractionRate float64      `gorm:"not null"`
	Active       bool         `gorm:"not null;default:true"`
}
