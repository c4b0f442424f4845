// Package export serializes history query results for external tools.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"parking-ledger-backend/internal/model"
)

var csvHeader = []string{
	"Plate", "Class", "Entry Date", "Entry Time",
	"Exit Date", "Exit Time", "Duration (hours)", "Amount",
}

// WriteCSV writes visits to w in the order given, one row per visit,
// preceded by a header row.
func WriteCSV(w io.Writer, visits []model.CompletedVisit) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, v := range visits {
		row := []string{
			v.Plate,
			string(v.Class),
			v.EntryDate,
			clockTime(v.EntryHour, v.EntryMinute),
			v.ExitDate,
			clockTime(v.ExitHour, v.ExitMinute),
			strconv.FormatFloat(v.DurationHours, 'f', 2, 64),
			strconv.FormatFloat(v.Amount, 'f', 0, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", v.Plate, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func clockTime(hour, minute int) string {
	return fmt.Sprintf("%d:%02d", hour, minute)
}
