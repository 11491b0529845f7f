package scheduler

import (
	"errors"
	"testing"

	"github.com/nailscodev/backend/pkg/models"
)

func vipScheduler(preferred string, bookings ...models.Booking) *Scheduler {
	return newTestScheduler(Snapshot{
		Services:         []models.Service{manicure, pedicure},
		Qualified:        map[string][]models.Staff{"mani": team("t1", "t2"), "pedi": team("t1", "t3")},
		Bookings:         bookings,
		PreferredStaffID: preferred,
	}, DefaultConfig())
}

func TestVIPComboSlots_DistinctTechnicians(t *testing.T) {
	s := vipScheduler("")
	slots, err := s.VIPComboSlots("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) == 0 {
		t.Fatalf("Expected slots, got none")
	}
	for _, sl := range slots {
		if len(sl.Assignments) != 2 {
			t.Fatalf("Expected 2 assignments, got %d", len(sl.Assignments))
		}
		a, b := sl.Assignments[0], sl.Assignments[1]
		if a.StaffID == b.StaffID {
			t.Errorf("Slot %s uses %s twice", sl.StartTime, a.StaffID)
		}
		if a.StartTime != b.StartTime || a.EndTime != b.EndTime {
			t.Errorf("Slot %s: services do not share a window", sl.StartTime)
		}
	}
	if slots[0].Duration != 60 {
		t.Errorf("Expected the longer service's 60 minutes, got %d", slots[0].Duration)
	}
	if slots[0].TotalPrice != 7000 {
		t.Errorf("Expected total price 7000, got %d", slots[0].TotalPrice)
	}
}

func TestVIPComboSlots_SkipsBusyPair(t *testing.T) {
	// t1 is busy, so mani must go to t2 and pedi to t3
	s := vipScheduler("", models.Booking{StaffID: "t1", Start: 450, End: 1290})
	slots, _ := s.VIPComboSlots("")
	if len(slots) == 0 {
		t.Fatalf("Expected slots, got none")
	}
	if slots[0].Assignments[0].StaffID != "t2" || slots[0].Assignments[1].StaffID != "t3" {
		t.Errorf("Expected t2 and t3, got %+v", slots[0].Assignments)
	}
}

func TestVIPComboSlots_PreferredAutoDetect(t *testing.T) {
	s := vipScheduler("t3")
	slots, _ := s.VIPComboSlots("")
	if len(slots) == 0 {
		t.Fatalf("Expected slots, got none")
	}
	if slots[0].Assignments[1].StaffID != "t3" || slots[0].Assignments[0].StaffID != "t1" {
		t.Errorf("Expected t1 on manicure and t3 on pedicure, got %+v", slots[0].Assignments)
	}
}

func TestVIPComboSlots_PreferredBusy(t *testing.T) {
	s := vipScheduler("t1", models.Booking{StaffID: "t1", Start: 450, End: 510})
	slots, _ := s.VIPComboSlots("")
	if len(slots) == 0 || slots[0].StartTime != testDate+"T08:30:00" {
		t.Fatalf("Expected the first slot once t1 is free at 08:30")
	}
	for _, sl := range slots {
		if !assignedTo(sl.Assignments, "t1") {
			t.Errorf("Slot %s was given without the preferred technician", sl.StartTime)
		}
	}
}

func TestVIPComboSlots_ExplicitService(t *testing.T) {
	s := vipScheduler("t1")
	slots, _ := s.VIPComboSlots("pedi")
	if len(slots) == 0 {
		t.Fatalf("Expected slots, got none")
	}
	if slots[0].Assignments[1].StaffID != "t1" || slots[0].Assignments[0].StaffID != "t2" {
		t.Errorf("Expected t1 on pedicure, got %+v", slots[0].Assignments)
	}

	unqualified := vipScheduler("t3")
	if slots, _ := unqualified.VIPComboSlots("mani"); len(slots) != 0 {
		t.Errorf("Expected no slots when t3 is asked to do a manicure, got %d", len(slots))
	}
}

func TestVIPComboSlots_NoSecondTechnician(t *testing.T) {
	s := newTestScheduler(Snapshot{
		Services:         []models.Service{manicure, pedicure},
		Qualified:        map[string][]models.Staff{"mani": team("t1"), "pedi": team("t1")},
		PreferredStaffID: "t1",
	}, DefaultConfig())
	slots, err := s.VIPComboSlots("")
	if err != nil || len(slots) != 0 {
		t.Errorf("Expected no slots with a single technician, got %d (%v)", len(slots), err)
	}
}

func TestVIPComboSlots_NeedsTwoServices(t *testing.T) {
	s := newTestScheduler(Snapshot{Services: []models.Service{manicure}}, DefaultConfig())
	if _, err := s.VIPComboSlots(""); !errors.Is(err, ErrComboSize) {
		t.Errorf("Expected ErrComboSize, got %v", err)
	}
}
