package tariff

import (
	"context"
	"log"
	"strings"
	"time"

	"parking-ledger-backend/internal/model"
)

// Rate is the price pair applied to a stay: a full-hour rate and a rate per
// quarter-hour fraction.
type Rate struct {
	Hourly   float64
	Fraction float64
}

// RuleSource provides the configured tariff rules for a vehicle class.
type RuleSource interface {
	TariffRules(ctx context.Context, class model.VehicleClass) ([]model.TariffRule, error)
}

// Resolver looks up the rate pair applicable to a vehicle class at a given
// calendar date and hour.
type Resolver struct {
	src RuleSource
}

// NewResolver creates a Resolver backed by the given rule source.
func NewResolver(src RuleSource) *Resolver {
	return &Resolver{src: src}
}

// Resolve returns the applicable rate pair. A rule matches when it is active,
// covers the hour inclusively, and applies either to the date's weekday or to
// all days; a weekday-specific rule beats an all-days rule. When no rule
// matches, or when the rules cannot be read at all, Resolve falls back to the
// per-class defaults so a charge can always be computed.
func (r *Resolver) Resolve(ctx context.Context, class model.VehicleClass, date string, hour int) Rate {
	day, err := weekdayName(date)
	if err != nil {
		log.Printf("tariff: cannot parse date %q, using default rates: %v", date, err)
		return DefaultRate(class)
	}

	rules, err := r.src.TariffRules(ctx, class)
	if err != nil {
		log.Printf("tariff: rule lookup failed, using default rates: %v", err)
		return DefaultRate(class)
	}

	var allDays *model.TariffRule
	for i := range rules {
		rule := &rules[i]
		if !rule.Active || hour < rule.HourStart || hour > rule.HourEnd {
			continue
		}
		switch rule.Day {
		case day:
			return Rate{Hourly: rule.HourlyRate, Fraction: rule.FractionRate}
		case model.DayAll:
			if allDays == nil {
				allDays = rule
			}
		}
	}
	if allDays != nil {
		return Rate{Hourly: allDays.HourlyRate, Fraction: allDays.FractionRate}
	}

	return DefaultRate(class)
}

// DefaultRate is the hardcoded fallback rate pair per vehicle class.
func DefaultRate(class model.VehicleClass) Rate {
	if class == model.ClassCar {
		return Rate{Hourly: 5000, Fraction: 1200}
	}
	return Rate{Hourly: 3500, Fraction: 900}
}

// DefaultRules returns the rule set seeded into an empty tariff table.
func DefaultRules() []model.TariffRule {
	return []model.TariffRule{
		{Class: model.ClassCar, Day: model.DayAll, HourStart: 0, HourEnd: 23, HourlyRate: 5000, FractionRate: 1200, Active: true},
		{Class: model.ClassMotorcycle, Day: model.DayAll, HourStart: 0, HourEnd: 23, HourlyRate: 3500, FractionRate: 900, Active: true},
	}
}

func weekdayName(date string) (string, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", err
	}
	return strings.ToLower(d.Weekday().String()), nil
}
