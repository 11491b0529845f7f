package scheduler

import (
	"fmt"

	"github.com/nailscodev/backend/pkg/models"
	"go.uber.org/zap"
)

// Config bounds the candidate start times
type Config struct {
	OpenMinute   int // minutes since midnight
	CloseMinute  int
	SlotInterval int
}

// DefaultConfig is 07:30-21:30 with hourly candidates
func DefaultConfig() Config {
	return Config{OpenMinute: 7*60 + 30, CloseMinute: 21*60 + 30, SlotInterval: 60}
}

// Snapshot is everything a search needs, fetched before the scheduler runs
type Snapshot struct {
	Date             string
	Services         []models.Service
	Qualified        map[string][]models.Staff // service id -> qualified technicians, in directory order
	Bookings         []models.Booking
	PreferredStaffID string
}

// Scheduler searches one snapshot for availability. It is not shared between requests.
type Scheduler struct {
	cfg    Config
	logger *zap.Logger
	snap   Snapshot

	byStaff  map[string][]models.Booking
	workload map[string]int

	Conflicts []models.SlotConflict
}

// NewScheduler creates a new scheduler instance
func NewScheduler(snap Snapshot, cfg Config, logger *zap.Logger) *Scheduler {
	if cfg.SlotInterval <= 0 {
		cfg.SlotInterval = DefaultConfig().SlotInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		cfg:    cfg,
		logger: logger,
		snap:   snap,
	}
	s.Prefill(snap.Bookings)
	return s
}

// Prefill indexes existing bookings per technician and totals their booked minutes
func (s *Scheduler) Prefill(bookings []models.Booking) {
	s.byStaff = make(map[string][]models.Booking)
	s.workload = make(map[string]int)
	for _, b := range bookings {
		s.byStaff[b.StaffID] = append(s.byStaff[b.StaffID], b)
		s.workload[b.StaffID] += b.End - b.Start
	}
}

// Workload returns the minutes a technician is already booked on the date
func (s *Scheduler) Workload(staffID string) int {
	return s.workload[staffID]
}

// isFree reports whether staffID has no existing booking and no interval in extra overlapping [start, end)
func (s *Scheduler) isFree(staffID string, start, end int, extra []models.Booking) bool {
	for _, b := range s.byStaff[staffID] {
		if Overlaps(start, end, b.Start, b.End) {
			return false
		}
	}
	for _, b := range extra {
		if b.StaffID == staffID && Overlaps(start, end, b.Start, b.End) {
			return false
		}
	}
	return true
}

func (s *Scheduler) qualified(serviceID string) []models.Staff {
	return s.snap.Qualified[serviceID]
}

func (s *Scheduler) preferredQualifiedFor(serviceID string) bool {
	if s.snap.PreferredStaffID == "" {
		return false
	}
	return containsStaff(s.qualified(serviceID), s.snap.PreferredStaffID)
}

// missingStaff returns the first service nobody can perform
func (s *Scheduler) missingStaff() (models.Service, bool) {
	for _, svc := range s.snap.Services {
		if len(s.qualified(svc.ID)) == 0 {
			return svc, true
		}
	}
	return models.Service{}, false
}

func (s *Scheduler) reject(start int, reasons ...string) {
	s.Conflicts = append(s.Conflicts, models.SlotConflict{
		StartTime: FormatClock(start),
		Reasons:   reasons,
	})
	s.logger.Debug("candidate rejected",
		zap.String("date", s.snap.Date),
		zap.String("start", FormatClock(start)),
		zap.Strings("reasons", reasons))
}

func (s *Scheduler) exceedsClose(start, total int) bool {
	return start+total > s.cfg.CloseMinute
}

func closingReason(end int) string {
	return fmt.Sprintf("ends at %s, after closing", FormatClock(end))
}

func containsStaff(list []models.Staff, id string) bool {
	for _, st := range list {
		if st.ID == id {
			return true
		}
	}
	return false
}
