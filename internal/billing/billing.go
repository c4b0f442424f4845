// Package billing implements the duration and fee arithmetic for a stay.
package billing

import (
	"context"
	"fmt"
	"math"
	"time"

	"parking-ledger-backend/internal/model"
	"parking-ledger-backend/internal/tariff"
)

// RateResolver yields the rate pair to bill a stay with. Satisfied by
// *tariff.Resolver.
type RateResolver interface {
	Resolve(ctx context.Context, class model.VehicleClass, date string, hour int) tariff.Rate
}

// Duration computes the hours between entry and exit, rounded to 2 decimals.
//
// Exit strictly earlier than entry means the stay crossed midnight, so the
// exit date is advanced by one calendar day before taking the difference.
// Only a single day of rollover is assumed; a stay parked across several
// days must carry explicit dates.
func Duration(entryDate string, entryHour, entryMinute int, exitDate string, exitHour, exitMinute int) (float64, error) {
	entry, err := combine(entryDate, entryHour, entryMinute)
	if err != nil {
		return 0, fmt.Errorf("invalid entry timestamp: %w", err)
	}
	exit, err := combine(exitDate, exitHour, exitMinute)
	if err != nil {
		return 0, fmt.Errorf("invalid exit timestamp: %w", err)
	}

	if exit.Before(entry) {
		exit = exit.AddDate(0, 0, 1)
	}

	hours := exit.Sub(entry).Seconds() / 3600
	return math.Round(hours*100) / 100, nil
}

// Charge computes the amount owed for a stay. The rate is locked to the
// entry date and hour: a stay spanning a rate-change boundary is billed
// entirely at the entry-time rate.
//
// The sub-hour remainder is billed in quarter-hour bands of the fraction
// rate; past 45 minutes a full hour is billed instead. The total is rounded
// to the nearest whole currency unit.
func Charge(ctx context.Context, r RateResolver, class model.VehicleClass, durationHours float64, entryDate string, entryHour int) float64 {
	rate := r.Resolve(ctx, class, entryDate, entryHour)
	if !validRate(rate) {
		return fallbackCharge(class, durationHours)
	}

	whole := math.Floor(durationHours)
	fraction := durationHours - whole

	var fractionCharge float64
	switch {
	case fraction <= 0:
		fractionCharge = 0
	case fraction <= 0.25:
		fractionCharge = rate.Fraction
	case fraction <= 0.5:
		fractionCharge = rate.Fraction * 2
	case fraction <= 0.75:
		fractionCharge = rate.Fraction * 3
	default:
		fractionCharge = rate.Hourly
	}

	return math.Round(whole*rate.Hourly + fractionCharge)
}

// fallbackCharge is the simplified flat calculation used only when rate
// resolution produced something unusable.
func fallbackCharge(class model.VehicleClass, durationHours float64) float64 {
	hourly := 3000.0
	switch class {
	case model.ClassCar:
		hourly = 5000
	case model.ClassMotorcycle:
		hourly = 3500
	}
	return hourly * durationHours
}

func validRate(r tariff.Rate) bool {
	return r.Hourly > 0 && !math.IsNaN(r.Hourly) && r.Fraction >= 0 && !math.IsNaN(r.Fraction)
}

func combine(date string, hour, minute int) (time.Time, error) {
	if hour < 0 || hour > 23 {
		return time.Time{}, fmt.Errorf("hour %d out of range", hour)
	}
	if minute < 0 || minute > 59 {
		return time.Time{}, fmt.Errorf("minute %d out of range", minute)
	}
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, time.UTC), nil
}
