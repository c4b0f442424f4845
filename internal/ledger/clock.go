package ledger

import (
	"fmt"
	"time"
)

// Clock supplies the wall-clock timestamp used when a caller omits one.
type Clock interface {
	Now() Timestamp
}

// Timestamp is a timezone-less point in facility time.
type Timestamp struct {
	Date   string `json:"date"` // YYYY-MM-DD
	Hour   int    `json:"hour"`
	Minute int    `json:"minute"`
}

func (t Timestamp) validate() error {
	if t.Hour < 0 || t.Hour > 23 {
		return fmt.Errorf("hour %d out of range", t.Hour)
	}
	if t.Minute < 0 || t.Minute > 59 {
		return fmt.Errorf("minute %d out of range", t.Minute)
	}
	if _, err := time.Parse("2006-01-02", t.Date); err != nil {
		return err
	}
	return nil
}

type systemClock struct{}

func (systemClock) Now() Timestamp {
	now := time.Now()
	return Timestamp{Date: now.Format("2006-01-02"), Hour: now.Hour(), Minute: now.Minute()}
}
