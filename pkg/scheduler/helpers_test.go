package scheduler

import (
	"testing"

	"github.com/nailscodev/backend/pkg/models"
	"go.uber.org/zap"
)

const testDate = "2025-03-01"

func team(ids ...string) []models.Staff {
	out := make([]models.Staff, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Staff{ID: id, Name: "Tech " + id})
	}
	return out
}

func newTestScheduler(snap Snapshot, cfg Config) *Scheduler {
	if snap.Date == "" {
		snap.Date = testDate
	}
	return NewScheduler(snap, cfg, zap.NewNop())
}

func mustMinutes(t *testing.T, v any) int {
	t.Helper()
	m, err := MinutesOfDay(v)
	if err != nil {
		t.Fatalf("MinutesOfDay(%v): %v", v, err)
	}
	return m
}

// checkNoDoubleBooking fails if a technician's new intervals overlap each
// other or an existing booking.
func checkNoDoubleBooking(t *testing.T, existing []models.Booking, assignments []models.StaffAssignment) {
	t.Helper()
	var intervals []models.Booking
	for _, a := range assignments {
		intervals = append(intervals, models.Booking{
			StaffID: a.StaffID,
			Start:   mustMinutes(t, a.StartTime),
			End:     mustMinutes(t, a.EndTime),
		})
	}
	for i, a := range intervals {
		for _, b := range existing {
			if a.StaffID == b.StaffID && Overlaps(a.Start, a.End, b.Start, b.End) {
				t.Errorf("Assignment %+v overlaps existing booking %+v", a, b)
			}
		}
		for _, b := range intervals[i+1:] {
			if a.StaffID == b.StaffID && Overlaps(a.Start, a.End, b.Start, b.End) {
				t.Errorf("Assignments %+v and %+v overlap", a, b)
			}
		}
	}
}
