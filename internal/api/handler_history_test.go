package api

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parking-ledger-backend/internal/model"
)

func TestHistoryEndpoints(t *testing.T) {
	db, router := setupRouter(t)

	base := time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC)
	visits := []model.CompletedVisit{
		{Plate: "ABC123", Class: model.ClassCar, EntryDate: "2025-03-01", EntryHour: 8, ExitDate: "2025-03-01", ExitHour: 9, DurationHours: 1, Amount: 5000, RecordedAt: base.Add(time.Minute)},
		{Plate: "XYZ789", Class: model.ClassMotorcycle, EntryDate: "2025-03-02", EntryHour: 10, ExitDate: "2025-03-02", ExitHour: 12, DurationHours: 2, Amount: 7000, RecordedAt: base.Add(2 * time.Minute)},
	}
	for i := range visits {
		require.NoError(t, db.Create(&visits[i]).Error)
	}

	t.Run("History returns most recent record first", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/history", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var got []model.CompletedVisit
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "XYZ789", got[0].Plate)
		assert.Equal(t, "ABC123", got[1].Plate)
	})

	t.Run("Filters are passed through", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/history?class=Car&from=2025-03-01&to=2025-03-01", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var got []model.CompletedVisit
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "ABC123", got[0].Plate)
	})

	t.Run("Invalid class filter returns 400", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/history?class=Bus", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Export streams csv with attachment headers", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/history/export", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
		assert.Contains(t, w.Header().Get("Content-Disposition"), "parking_history.csv")

		records, err := csv.NewReader(w.Body).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3) // header + two visits
		assert.Equal(t, "XYZ789", records[1][0])
		assert.Equal(t, "ABC123", records[2][0])
	})
}

func TestTariffsEndpoint(t *testing.T) {
	db, router := setupRouter(t)
	require.NoError(t, db.Create(&model.TariffRule{
		Class: model.ClassCar, Day: "tuesday", HourStart: 8, HourEnd: 18,
		HourlyRate: 6000, FractionRate: 1500, Active: true,
	}).Error)

	t.Run("Lists configured rules", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/tariffs?class=Car", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var rules []model.TariffRule
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rules))
		require.Len(t, rules, 1)
		assert.Equal(t, "tuesday", rules[0].Day)
		assert.Equal(t, 6000.0, rules[0].HourlyRate)
	})

	t.Run("Invalid class returns 400", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/tariffs?class=Bus", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
