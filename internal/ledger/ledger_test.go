package ledger

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"parking-ledger-backend/internal/model"
)

type fixedClock struct {
	ts Timestamp
}

func (f fixedClock) Now() Timestamp { return f.ts }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named in-memory database per test, so parallel tests cannot share state.
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(
		&model.ActiveStay{},
		&model.CompletedVisit{},
		&model.TariffRule{},
	))
	return db
}

func seedFlatRate(t *testing.T, db *gorm.DB, class model.VehicleClass, hourly, fraction float64) {
	t.Helper()
	require.NoError(t, db.Create(&model.TariffRule{
		Class: class, Day: model.DayAll, HourStart: 0, HourEnd: 23,
		HourlyRate: hourly, FractionRate: fraction, Active: true,
	}).Error)
}

func TestOpenStay(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates a normalized active stay", func(t *testing.T) {
		db := newTestDB(t)
		l := NewGormLedger(db, WithClock(fixedClock{Timestamp{Date: "2025-03-04", Hour: 9, Minute: 15}}))

		stay, err := l.OpenStay(ctx, OpenRequest{Plate: "abc 123", Class: "car", Actor: "gate"})
		require.NoError(t, err)
		assert.Equal(t, "ABC123", stay.Plate)
		assert.Equal(t, model.ClassCar, stay.Class)
		assert.Equal(t, "2025-03-04", stay.EntryDate)
		assert.Equal(t, 9, stay.EntryHour)
		assert.Equal(t, 15, stay.EntryMinute)
		assert.Equal(t, "gate", stay.Actor)
	})

	t.Run("Explicit entry timestamp is stored as given", func(t *testing.T) {
		db := newTestDB(t)
		l := NewGormLedger(db)

		entry := Timestamp{Date: "2025-03-01", Hour: 22, Minute: 40}
		stay, err := l.OpenStay(ctx, OpenRequest{Plate: "XYZ789", Class: "Motorcycle", Entry: &entry})
		require.NoError(t, err)
		assert.Equal(t, "2025-03-01", stay.EntryDate)
		assert.Equal(t, 22, stay.EntryHour)
		assert.Equal(t, 40, stay.EntryMinute)
		assert.Equal(t, "system", stay.Actor)
	})

	t.Run("Rejects malformed plate before touching storage", func(t *testing.T) {
		db := newTestDB(t)
		l := NewGormLedger(db)

		_, err := l.OpenStay(ctx, OpenRequest{Plate: "AB1", Class: "Car"})
		assert.ErrorIs(t, err, ErrInvalidPlate)

		var count int64
		db.Model(&model.ActiveStay{}).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("Rejects unknown vehicle class", func(t *testing.T) {
		db := newTestDB(t)
		l := NewGormLedger(db)

		_, err := l.OpenStay(ctx, OpenRequest{Plate: "ABC123", Class: "Truck"})
		assert.ErrorIs(t, err, ErrInvalidVehicleClass)
	})

	t.Run("Rejects out-of-range entry timestamp", func(t *testing.T) {
		db := newTestDB(t)
		l := NewGormLedger(db)

		entry := Timestamp{Date: "2025-03-04", Hour: 24, Minute: 0}
		_, err := l.OpenStay(ctx, OpenRequest{Plate: "ABC123", Class: "Car", Entry: &entry})
		assert.ErrorIs(t, err, ErrInvalidEntryTime)
	})

	t.Run("Duplicate plate fails regardless of class", func(t *testing.T) {
		db := newTestDB(t)
		l := NewGormLedger(db)

		_, err := l.OpenStay(ctx, OpenRequest{Plate: "ABC123", Class: "Car"})
		require.NoError(t, err)

		_, err = l.OpenStay(ctx, OpenRequest{Plate: "abc123", Class: "Motorcycle"})
		assert.ErrorIs(t, err, ErrDuplicateActiveStay)

		var count int64
		db.Model(&model.ActiveStay{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})
}

func TestCloseStay(t *testing.T) {
	ctx := context.Background()

	t.Run("Computes duration and charge and archives the stay", func(t *testing.T) {
		db := newTestDB(t)
		seedFlatRate(t, db, model.ClassCar, 3000, 750)
		l := NewGormLedger(db)

		entry := Timestamp{Date: "2025-03-04", Hour: 8, Minute: 0}
		_, err := l.OpenStay(ctx, OpenRequest{Plate: "ABC123", Class: "Car", Entry: &entry, Actor: "gate"})
		require.NoError(t, err)

		exit := Timestamp{Date: "2025-03-04", Hour: 10, Minute: 6}
		receipt, err := l.CloseStay(ctx, CloseRequest{Plate: "ABC123", Exit: &exit, Actor: "gate"})
		require.NoError(t, err)

		assert.Equal(t, "ABC123", receipt.Plate)
		assert.InDelta(t, 2.1, receipt.DurationHours, 1e-9)
		assert.Equal(t, 6750.0, receipt.Amount) // 2x3000 + 750
		assert.Equal(t, "2025-03-04 8:00", receipt.Entry)
		assert.Equal(t, "2025-03-04 10:06", receipt.Exit)

		var activeCount int64
		db.Model(&model.ActiveStay{}).Count(&activeCount)
		assert.Equal(t, int64(0), activeCount)

		var visit model.CompletedVisit
		require.NoError(t, db.First(&visit, "plate = ?", "ABC123").Error)
		assert.Equal(t, model.ClassCar, visit.Class)
		assert.InDelta(t, 2.1, visit.DurationHours, 1e-9)
		assert.Equal(t, 6750.0, visit.Amount)
		assert.Equal(t, "gate", visit.Actor)
		assert.WithinDuration(t, time.Now(), visit.RecordedAt, 5*time.Second)
	})

	t.Run("Midnight rollover never yields a negative duration", func(t *testing.T) {
		db := newTestDB(t)
		seedFlatRate(t, db, model.ClassCar, 3000, 750)
		l := NewGormLedger(db)

		entry := Timestamp{Date: "2025-03-04", Hour: 23, Minute: 30}
		_, err := l.OpenStay(ctx, OpenRequest{Plate: "ABC123", Class: "Car", Entry: &entry})
		require.NoError(t, err)

		exit := Timestamp{Date: "2025-03-04", Hour: 0, Minute: 15}
		receipt, err := l.CloseStay(ctx, CloseRequest{Plate: "ABC123", Exit: &exit})
		require.NoError(t, err)
		assert.InDelta(t, 0.75, receipt.DurationHours, 1e-9)
		assert.Equal(t, 2250.0, receipt.Amount) // three quarter-hour fractions
	})

	t.Run("Second close returns StayNotFound without a duplicate visit", func(t *testing.T) {
		db := newTestDB(t)
		seedFlatRate(t, db, model.ClassMotorcycle, 3500, 900)
		l := NewGormLedger(db, WithClock(fixedClock{Timestamp{Date: "2025-03-04", Hour: 12, Minute: 0}}))

		entry := Timestamp{Date: "2025-03-04", Hour: 10, Minute: 0}
		_, err := l.OpenStay(ctx, OpenRequest{Plate: "AB12C", Class: "Motorcycle", Entry: &entry})
		require.NoError(t, err)

		_, err = l.CloseStay(ctx, CloseRequest{Plate: "AB12C"})
		require.NoError(t, err)

		_, err = l.CloseStay(ctx, CloseRequest{Plate: "AB12C"})
		assert.ErrorIs(t, err, ErrStayNotFound)

		var visitCount int64
		db.Model(&model.CompletedVisit{}).Count(&visitCount)
		assert.Equal(t, int64(1), visitCount)
	})

	t.Run("Unknown plate returns StayNotFound", func(t *testing.T) {
		db := newTestDB(t)
		l := NewGormLedger(db)

		_, err := l.CloseStay(ctx, CloseRequest{Plate: "ZZZ999"})
		assert.ErrorIs(t, err, ErrStayNotFound)
	})

	t.Run("Empty tariff table bills at default rates", func(t *testing.T) {
		db := newTestDB(t)
		l := NewGormLedger(db)

		entry := Timestamp{Date: "2025-03-04", Hour: 8, Minute: 0}
		_, err := l.OpenStay(ctx, OpenRequest{Plate: "ABC123", Class: "Car", Entry: &entry})
		require.NoError(t, err)

		exit := Timestamp{Date: "2025-03-04", Hour: 9, Minute: 10}
		receipt, err := l.CloseStay(ctx, CloseRequest{Plate: "ABC123", Exit: &exit})
		require.NoError(t, err)
		assert.Equal(t, 6200.0, receipt.Amount) // 5000 + 1200 default car rates
	})
}

func TestListActive(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	l := NewGormLedger(db)

	entries := []struct {
		plate string
		ts    Timestamp
	}{
		{"CCC333", Timestamp{Date: "2025-03-04", Hour: 14, Minute: 5}},
		{"AAA111", Timestamp{Date: "2025-03-03", Hour: 23, Minute: 50}},
		{"BBB222", Timestamp{Date: "2025-03-04", Hour: 9, Minute: 0}},
	}
	for _, e := range entries {
		ts := e.ts
		_, err := l.OpenStay(ctx, OpenRequest{Plate: e.plate, Class: "Car", Entry: &ts})
		require.NoError(t, err)
	}

	stays, err := l.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, stays, 3)
	assert.Equal(t, "AAA111", stays[0].Plate)
	assert.Equal(t, "BBB222", stays[1].Plate)
	assert.Equal(t, "CCC333", stays[2].Plate)
}

func TestQueryHistory(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	l := NewGormLedger(db)

	base := time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC)
	visits := []model.CompletedVisit{
		{Plate: "ABC123", Class: model.ClassCar, EntryDate: "2025-03-01", ExitDate: "2025-03-01", DurationHours: 1, Amount: 5000, RecordedAt: base.Add(1 * time.Minute)},
		{Plate: "XYZ789", Class: model.ClassMotorcycle, EntryDate: "2025-03-02", ExitDate: "2025-03-02", DurationHours: 2, Amount: 7000, RecordedAt: base.Add(2 * time.Minute)},
		{Plate: "ABC456", Class: model.ClassCar, EntryDate: "2025-03-03", ExitDate: "2025-03-03", DurationHours: 3, Amount: 15000, RecordedAt: base.Add(3 * time.Minute)},
	}
	for i := range visits {
		require.NoError(t, db.Create(&visits[i]).Error)
	}

	t.Run("No filter returns everything most recent first", func(t *testing.T) {
		got, err := l.QueryHistory(ctx, HistoryFilter{})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "ABC456", got[0].Plate)
		assert.Equal(t, "XYZ789", got[1].Plate)
		assert.Equal(t, "ABC123", got[2].Plate)
	})

	t.Run("Plate filter is a substring match", func(t *testing.T) {
		got, err := l.QueryHistory(ctx, HistoryFilter{Plate: "abc"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "ABC456", got[0].Plate)
		assert.Equal(t, "ABC123", got[1].Plate)
	})

	t.Run("Class filter", func(t *testing.T) {
		got, err := l.QueryHistory(ctx, HistoryFilter{Class: model.ClassMotorcycle})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "XYZ789", got[0].Plate)
	})

	t.Run("Date range bounds are inclusive on entry date", func(t *testing.T) {
		got, err := l.QueryHistory(ctx, HistoryFilter{DateFrom: "2025-03-02", DateTo: "2025-03-03"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "ABC456", got[0].Plate)
		assert.Equal(t, "XYZ789", got[1].Plate)
	})

	t.Run("Combined filters", func(t *testing.T) {
		got, err := l.QueryHistory(ctx, HistoryFilter{Plate: "ABC", DateFrom: "2025-03-02"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "ABC456", got[0].Plate)
	})
}
