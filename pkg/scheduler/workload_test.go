package scheduler

import (
	"testing"

	"github.com/nailscodev/backend/pkg/models"
)

func workloadScheduler(preferred string) *Scheduler {
	return newTestScheduler(Snapshot{
		Bookings: []models.Booking{
			{StaffID: "t1", Start: 540, End: 600},
			{StaffID: "t2", Start: 700, End: 730},
		},
		PreferredStaffID: preferred,
	}, DefaultConfig())
}

func TestLeastLoaded(t *testing.T) {
	s := workloadScheduler("")
	if s.Workload("t1") != 60 || s.Workload("t2") != 30 || s.Workload("t3") != 0 {
		t.Fatalf("Unexpected workload t1=%d t2=%d t3=%d", s.Workload("t1"), s.Workload("t2"), s.Workload("t3"))
	}

	best, ok := s.LeastLoaded(team("t1", "t2", "t3"), 450, 500, nil, nil)
	if !ok || best.ID != "t3" {
		t.Errorf("Expected t3, got %v (ok=%v)", best.ID, ok)
	}
}

func TestLeastLoaded_ReusePenalty(t *testing.T) {
	s := workloadScheduler("")
	best, ok := s.LeastLoaded(team("t1", "t2", "t3"), 450, 500, []string{"t3"}, nil)
	if !ok || best.ID != "t2" {
		t.Errorf("Expected t2 once t3 is already used, got %v", best.ID)
	}

	pref := workloadScheduler("t3")
	best, ok = pref.LeastLoaded(team("t1", "t2", "t3"), 450, 500, []string{"t3"}, nil)
	if !ok || best.ID != "t3" {
		t.Errorf("Expected preferred t3 to escape the penalty, got %v", best.ID)
	}
}

func TestLeastLoaded_TiesKeepOrder(t *testing.T) {
	s := newTestScheduler(Snapshot{}, DefaultConfig())
	best, ok := s.LeastLoaded(team("t2", "t1"), 450, 500, nil, nil)
	if !ok || best.ID != "t2" {
		t.Errorf("Expected the first candidate on a tie, got %v", best.ID)
	}
}

func TestLeastLoaded_Conflicts(t *testing.T) {
	s := workloadScheduler("")
	best, ok := s.LeastLoaded(team("t1", "t3"), 550, 580, nil, nil)
	if !ok || best.ID != "t3" {
		t.Errorf("Expected busy t1 to be skipped, got %v", best.ID)
	}

	busy := []models.Booking{{StaffID: "t3", Start: 500, End: 600}}
	if _, ok := s.LeastLoaded(team("t1", "t3"), 550, 580, nil, busy); ok {
		t.Errorf("Expected no candidate when everyone is busy")
	}
}

func TestPrioritize(t *testing.T) {
	a := models.Service{ID: "a", Name: "Facial", Duration: 60}
	b := models.Service{ID: "b", Name: "Massage", Duration: 60}
	s := newTestScheduler(Snapshot{
		Services:         []models.Service{a, b},
		Qualified:        map[string][]models.Staff{"a": team("t1"), "b": team("t1", "p")},
		Bookings:         []models.Booking{{StaffID: "p", Start: 450, End: 510}},
		PreferredStaffID: "p",
	}, DefaultConfig())

	got := s.Prioritize([][]models.Service{{b, a}, {a, b}}, 450)
	if ids(got[0]) != "a,b" {
		t.Errorf("Expected the ordering with p free for massage first, got %s", ids(got[0]))
	}
}
