package scheduler

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nailscodev/backend/pkg/models"
)

var (
	ErrUnparseableTime = errors.New("unparseable time")
	ErrInvertedBooking = errors.New("booking ends before it starts")
)

// Clock is a time of day that was already split into fields
type Clock struct {
	Hour   int
	Minute int
	Second int
}

// Layouts tried for string times, most common first. None of them shift the
// wall clock: a zone suffix is accepted and ignored.
var clockLayouts = []string{
	"15:04:05",
	"15:04",
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05",
}

// MinutesOfDay normalizes a booking store time to minutes since midnight of
// its own wall clock. Seconds are truncated.
func MinutesOfDay(v any) (int, error) {
	switch t := v.(type) {
	case int:
		if t < 0 || t > 24*60 {
			return 0, fmt.Errorf("%w: minute %d out of range", ErrUnparseableTime, t)
		}
		return t, nil
	case time.Time:
		if t.IsZero() {
			return 0, fmt.Errorf("%w: zero time", ErrUnparseableTime)
		}
		return t.Hour()*60 + t.Minute(), nil
	case *time.Time:
		if t == nil {
			return 0, fmt.Errorf("%w: nil time", ErrUnparseableTime)
		}
		return MinutesOfDay(*t)
	case Clock:
		if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 || t.Second < 0 || t.Second > 59 {
			return 0, fmt.Errorf("%w: clock %02d:%02d:%02d", ErrUnparseableTime, t.Hour, t.Minute, t.Second)
		}
		return t.Hour*60 + t.Minute, nil
	case string:
		return parseClockString(t)
	case []byte:
		return parseClockString(string(t))
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrUnparseableTime, v)
	}
}

func parseClockString(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrUnparseableTime)
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour()*60 + t.Minute(), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnparseableTime, raw)
}

// NormalizeBooking converts a stored reservation into minutes of day
func NormalizeBooking(staffID string, start, end any) (models.Booking, error) {
	s, err := MinutesOfDay(start)
	if err != nil {
		return models.Booking{}, fmt.Errorf("booking start for staff %s: %w", staffID, err)
	}
	e, err := MinutesOfDay(end)
	if err != nil {
		return models.Booking{}, fmt.Errorf("booking end for staff %s: %w", staffID, err)
	}
	if e < s {
		return models.Booking{}, fmt.Errorf("staff %s %s-%s: %w", staffID, FormatClock(s), FormatClock(e), ErrInvertedBooking)
	}
	return models.Booking{StaffID: staffID, Start: s, End: e}, nil
}

// Overlaps is the half-open interval test: touching intervals do not overlap
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// FormatClock renders minutes since midnight as HH:MM
func FormatClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// FormatStoreClock renders minutes since midnight the way bookings are stored
func FormatStoreClock(m int) string {
	return FormatClock(m) + ":00"
}

// FormatLocal renders a local ISO-like timestamp without a zone suffix
func FormatLocal(date string, m int) string {
	if date == "" {
		return FormatStoreClock(m)
	}
	return date + "T" + FormatStoreClock(m)
}
