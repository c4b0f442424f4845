// Package ledger owns the lifecycle of active stays and their transition
// into completed visits.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"parking-ledger-backend/internal/billing"
	"parking-ledger-backend/internal/model"
	"parking-ledger-backend/internal/plate"
	"parking-ledger-backend/internal/tariff"
)

// Ledger defines the interface for all stay and history operations.
type Ledger interface {
	OpenStay(ctx context.Context, req OpenRequest) (*model.ActiveStay, error)
	CloseStay(ctx context.Context, req CloseRequest) (*ExitReceipt, error)
	ListActive(ctx context.Context) ([]model.ActiveStay, error)
	QueryHistory(ctx context.Context, filter HistoryFilter) ([]model.CompletedVisit, error)
	TariffRules(ctx context.Context, class model.VehicleClass) ([]model.TariffRule, error)
	DB() *gorm.DB
}

// OpenRequest registers a vehicle entering the facility.
type OpenRequest struct {
	Plate string
	Class string
	Entry *Timestamp // nil means "now"
	Actor string
}

// CloseRequest registers a vehicle leaving the facility.
type CloseRequest struct {
	Plate string
	Exit  *Timestamp // nil means "now"
	Actor string
}

// ExitReceipt is returned to the caller when a stay is closed.
type ExitReceipt struct {
	Plate         string             `json:"plate"`
	Class         model.VehicleClass `json:"class"`
	DurationHours float64            `json:"duration_hours"`
	Amount        float64            `json:"amount"`
	Entry         string             `json:"entry"`
	Exit          string             `json:"exit"`
}

// HistoryFilter narrows a history query. Zero values mean "no filter".
// Date bounds apply to the entry date and are inclusive.
type HistoryFilter struct {
	Plate    string // substring match
	Class    model.VehicleClass
	DateFrom string
	DateTo   string
}

// gormLedger implements the Ledger interface using GORM.
type gormLedger struct {
	db         *gorm.DB
	clock      Clock
	validPlate plate.Validator
}

// Option customizes a ledger at construction time.
type Option func(*gormLedger)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(l *gormLedger) { l.clock = c }
}

// WithPlateValidator replaces the plate acceptance predicate.
func WithPlateValidator(v plate.Validator) Option {
	return func(l *gormLedger) { l.validPlate = v }
}

// NewGormLedger creates a new GORM-backed ledger.
func NewGormLedger(db *gorm.DB, opts ...Option) Ledger {
	l := &gormLedger{db: db, clock: systemClock{}, validPlate: plate.Default}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *gormLedger) DB() *gorm.DB {
	return l.db
}

// OpenStay validates the request and creates the active stay. Validation
// failures are reported before any storage access.
func (l *gormLedger) OpenStay(ctx context.Context, req OpenRequest) (*model.ActiveStay, error) {
	p := plate.Normalize(req.Plate)
	if !l.validPlate(p) {
		return nil, ErrInvalidPlate
	}

	class, ok := model.ParseVehicleClass(req.Class)
	if !ok {
		return nil, ErrInvalidVehicleClass
	}

	entry := l.clock.Now()
	if req.Entry != nil {
		entry = *req.Entry
	}
	if err := entry.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntryTime, err)
	}

	actor := req.Actor
	if actor == "" {
		actor = "system"
	}

	stay := model.ActiveStay{
		Plate:       p,
		Class:       class,
		EntryDate:   entry.Date,
		EntryHour:   entry.Hour,
		EntryMinute: entry.Minute,
		Actor:       actor,
	}

	var existing model.ActiveStay
	err := l.db.WithContext(ctx).First(&existing, "plate = ?", p).Error
	switch {
	case err == nil:
		return nil, ErrDuplicateActiveStay
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("failed to check active stay for %s: %w", p, err)
	}

	if err := l.db.WithContext(ctx).Create(&stay).Error; err != nil {
		return nil, fmt.Errorf("failed to create active stay for %s: %w", p, err)
	}
	return &stay, nil
}

// CloseStay computes duration and charge for the stored entry, appends the
// completed visit, and removes the active stay. The append and the delete
// happen in one transaction so no reader can observe a half-closed stay.
func (l *gormLedger) CloseStay(ctx context.Context, req CloseRequest) (*ExitReceipt, error) {
	p := plate.Normalize(req.Plate)

	exit := l.clock.Now()
	if req.Exit != nil {
		exit = *req.Exit
	}
	if err := exit.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExitTime, err)
	}

	actor := req.Actor
	if actor == "" {
		actor = "system"
	}

	var receipt *ExitReceipt
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stay model.ActiveStay
		if err := tx.First(&stay, "plate = ?", p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStayNotFound
			}
			return fmt.Errorf("failed to fetch active stay for %s: %w", p, err)
		}

		duration, err := billing.Duration(
			stay.EntryDate, stay.EntryHour, stay.EntryMinute,
			exit.Date, exit.Hour, exit.Minute,
		)
		if err != nil {
			return fmt.Errorf("failed to compute duration for %s: %w", p, err)
		}

		resolver := tariff.NewResolver(txRules{tx})
		amount := billing.Charge(ctx, resolver, stay.Class, duration, stay.EntryDate, stay.EntryHour)

		visit := model.CompletedVisit{
			Plate:         stay.Plate,
			Class:         stay.Class,
			EntryDate:     stay.EntryDate,
			EntryHour:     stay.EntryHour,
			EntryMinute:   stay.EntryMinute,
			ExitDate:      exit.Date,
			ExitHour:      exit.Hour,
			ExitMinute:    exit.Minute,
			DurationHours: duration,
			Amount:        amount,
			Actor:         actor,
		}
		if err := tx.Create(&visit).Error; err != nil {
			return fmt.Errorf("failed to append visit for %s: %w", p, err)
		}
		if err := tx.Delete(&model.ActiveStay{}, "plate = ?", p).Error; err != nil {
			return fmt.Errorf("failed to delete active stay for %s: %w", p, err)
		}

		receipt = &ExitReceipt{
			Plate:         stay.Plate,
			Class:         stay.Class,
			DurationHours: duration,
			Amount:        amount,
			Entry:         formatTimestamp(stay.EntryDate, stay.EntryHour, stay.EntryMinute),
			Exit:          formatTimestamp(exit.Date, exit.Hour, exit.Minute),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// ListActive returns all vehicles currently parked, earliest entry first.
func (l *gormLedger) ListActive(ctx context.Context) ([]model.ActiveStay, error) {
	var stays []model.ActiveStay
	err := l.db.WithContext(ctx).
		Order("entry_date, entry_hour, entry_minute").
		Find(&stays).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active stays: %w", err)
	}
	return stays, nil
}

// QueryHistory returns completed visits matching the filter, most recently
// recorded first.
func (l *gormLedger) QueryHistory(ctx context.Context, filter HistoryFilter) ([]model.CompletedVisit, error) {
	q := l.db.WithContext(ctx).Model(&model.CompletedVisit{})
	if filter.Plate != "" {
		q = q.Where("plate LIKE ?", "%"+plate.Normalize(filter.Plate)+"%")
	}
	if filter.Class != "" {
		q = q.Where("class = ?", filter.Class)
	}
	if filter.DateFrom != "" {
		q = q.Where("entry_date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		q = q.Where("entry_date <= ?", filter.DateTo)
	}

	var visits []model.CompletedVisit
	if err := q.Order("recorded_at DESC").Find(&visits).Error; err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	return visits, nil
}

// TariffRules returns the active rules for a class in configuration order.
func (l *gormLedger) TariffRules(ctx context.Context, class model.VehicleClass) ([]model.TariffRule, error) {
	return fetchTariffRules(l.db.WithContext(ctx), class)
}

// txRules reads tariff rules through the closing transaction so the whole
// exit computation sees one snapshot.
type txRules struct {
	tx *gorm.DB
}

func (r txRules) TariffRules(_ context.Context, class model.VehicleClass) ([]model.TariffRule, error) {
	return fetchTariffRules(r.tx, class)
}

func fetchTariffRules(db *gorm.DB, class model.VehicleClass) ([]model.TariffRule, error) {
	var rules []model.TariffRule
	err := db.
		Where("class = ? AND active = ?", class, true).
		Order("id").
		Find(&rules).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tariff rules: %w", err)
	}
	return rules, nil
}

func formatTimestamp(date string, hour, minute int) string {
	return fmt.Sprintf("%s %d:%02d", date, hour, minute)
}
