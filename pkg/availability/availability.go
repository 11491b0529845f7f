package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nailscodev/backend/pkg/cache"
	"github.com/nailscodev/backend/pkg/database"
	"github.com/nailscodev/backend/pkg/metrics"
	"github.com/nailscodev/backend/pkg/models"
	"github.com/nailscodev/backend/pkg/repository"
	"github.com/nailscodev/backend/pkg/scheduler"
	"go.uber.org/zap"
)

const (
	ModeConsecutive = "consecutive"
	ModeVIPCombo    = "vip_combo"
	ModeCheck       = "check"
)

var ErrUnavailable = errors.New("requested time is no longer available")

// Service gathers the snapshot a search needs, runs the scheduler and
// persists accepted bookings.
type Service struct {
	repo   *repository.Repository
	cache  *cache.Cache
	cfg    scheduler.Config
	logger *zap.Logger
}

// NewService wires the availability service. A nil cache disables caching.
func NewService(repo *repository.Repository, c *cache.Cache, cfg scheduler.Config, logger *zap.Logger) *Service {
	if c == nil {
		c = cache.Disabled()
	}
	return &Service{repo: repo, cache: c, cfg: cfg, logger: logger}
}

// Config returns the business-hours window in use
func (s *Service) Config() scheduler.Config {
	return s.cfg
}

// snapshot loads services (with request add-ons applied), qualifications and
// the date's bookings. Removal add-ons become services of their own when elevate is set.
func (s *Service) snapshot(ctx context.Context, date string, reqs []models.ServiceRequest, staffID string, elevate bool) (scheduler.Snapshot, error) {
	ids := make([]string, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.ServiceID)
	}
	services, err := s.repo.ServicesByIDs(ctx, ids)
	if err != nil {
		return scheduler.Snapshot{}, err
	}

	chosen := make(map[string][]string, len(reqs))
	for _, r := range reqs {
		if r.AddonIDs != nil {
			chosen[r.ServiceID] = r.AddonIDs
		}
	}
	for i, svc := range services {
		addonIDs, ok := chosen[svc.ID]
		if !ok {
			continue
		}
		addons, err := s.repo.AddonsByIDs(ctx, addonIDs)
		if err != nil {
			return scheduler.Snapshot{}, err
		}
		services[i] = scheduler.ApplyRequestAddons(svc, addons)
	}
	if elevate {
		services = scheduler.ElevateRemovalAddons(services)
	}

	qualified, err := s.repo.QualifiedStaff(ctx, services)
	if err != nil {
		return scheduler.Snapshot{}, err
	}
	bookings, err := s.repo.BookingsOn(ctx, date)
	if err != nil {
		return scheduler.Snapshot{}, err
	}
	return scheduler.Snapshot{
		Date:             date,
		Services:         services,
		Qualified:        qualified,
		Bookings:         bookings,
		PreferredStaffID: staffID,
	}, nil
}

func (s *Service) observe(mode string, started time.Time, slots int) {
	metrics.SearchDuration.WithLabelValues(mode).Observe(time.Since(started).Seconds())
	metrics.SlotsReturned.WithLabelValues(mode).Observe(float64(slots))
}

// Consecutive lists the slots where the services fit back to back
func (s *Service) Consecutive(ctx context.Context, req models.AvailabilityRequest) (models.AvailabilityResponse, error) {
	var resp models.AvailabilityResponse
	version := s.cache.CurrentVersion(ctx, req.Date)
	if s.cache.GetAvailability(ctx, ModeConsecutive, req.Date, version, req, &resp) {
		metrics.AvailabilitySearches.WithLabelValues(ModeConsecutive, "hit").Inc()
		return resp, nil
	}
	metrics.AvailabilitySearches.WithLabelValues(ModeConsecutive, "miss").Inc()

	snap, err := s.snapshot(ctx, req.Date, req.Services, req.StaffID, true)
	if err != nil {
		return resp, fmt.Errorf("consecutive availability: %w", err)
	}
	started := time.Now()
	sch := scheduler.NewScheduler(snap, s.cfg, s.logger)
	resp = models.AvailabilityResponse{
		Date:      req.Date,
		Slots:     sch.ConsecutiveSlots(),
		Conflicts: sch.Conflicts,
	}
	s.observe(ModeConsecutive, started, len(resp.Slots))
	s.cache.SetAvailability(ctx, ModeConsecutive, req.Date, version, req, resp)
	return resp, nil
}

// VIPCombo lists the windows where the two services run side by side
func (s *Service) VIPCombo(ctx context.Context, req models.VIPComboRequest) (models.VIPComboResponse, error) {
	var resp models.VIPComboResponse
	version := s.cache.CurrentVersion(ctx, req.Date)
	if s.cache.GetAvailability(ctx, ModeVIPCombo, req.Date, version, req, &resp) {
		metrics.AvailabilitySearches.WithLabelValues(ModeVIPCombo, "hit").Inc()
		return resp, nil
	}
	metrics.AvailabilitySearches.WithLabelValues(ModeVIPCombo, "miss").Inc()

	snap, err := s.snapshot(ctx, req.Date, req.Services, req.StaffID, false)
	if err != nil {
		return resp, fmt.Errorf("vip combo availability: %w", err)
	}
	resp = models.VIPComboResponse{Date: req.Date, Slots: []models.VIPComboSlot{}}
	if len(snap.Services) != 2 {
		// an unknown service id is a lookup miss, not a request error
		return resp, nil
	}

	started := time.Now()
	sch := scheduler.NewScheduler(snap, s.cfg, s.logger)
	slots, err := sch.VIPComboSlots(req.PreferredServiceID)
	if err != nil {
		return resp, err
	}
	resp.Slots, resp.Conflicts = slots, sch.Conflicts
	s.observe(ModeVIPCombo, started, len(resp.Slots))
	s.cache.SetAvailability(ctx, ModeVIPCombo, req.Date, version, req, resp)
	return resp, nil
}

// Check answers for one exact start time
func (s *Service) Check(ctx context.Context, req models.CheckRequest) (models.AvailabilityCheck, error) {
	start, err := scheduler.MinutesOfDay(req.Time)
	if err != nil {
		return models.AvailabilityCheck{}, err
	}
	snap, err := s.snapshot(ctx, req.Date, req.Services, req.StaffID, true)
	if err != nil {
		return models.AvailabilityCheck{}, fmt.Errorf("check availability: %w", err)
	}
	metrics.AvailabilitySearches.WithLabelValues(ModeCheck, "miss").Inc()
	started := time.Now()
	res := scheduler.NewScheduler(snap, s.cfg, s.logger).CheckAvailability(start)
	slots := 0
	if res.Available {
		slots = 1
	}
	s.observe(ModeCheck, started, slots)
	return res, nil
}

// Book re-runs the search for the requested time and stores one booking per
// assignment. The repository repeats the overlap check inside its transaction.
func (s *Service) Book(ctx context.Context, req models.BookingRequest) ([]database.Booking, error) {
	assignments, catalog, err := s.assignmentsFor(ctx, req)
	if err != nil {
		return nil, err
	}

	rows := make([]database.Booking, 0, len(assignments))
	for _, a := range assignments {
		start, err := scheduler.MinutesOfDay(a.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := scheduler.MinutesOfDay(a.EndTime)
		if err != nil {
			return nil, err
		}
		rows = append(rows, database.Booking{
			CustomerName:  req.CustomerName,
			CustomerPhone: req.CustomerPhone,
			StaffID:       a.StaffID,
			ServiceID:     catalog[a.ServiceID].id,
			ServiceName:   a.ServiceName,
			Date:          req.Date,
			StartTime:     scheduler.FormatStoreClock(start),
			EndTime:       scheduler.FormatStoreClock(end),
			Price:         catalog[a.ServiceID].price,
			Status:        database.StatusConfirmed,
			VIPCombo:      req.VIPCombo,
		})
	}

	if err := s.repo.CreateBookings(ctx, rows); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			metrics.BookingConflicts.Inc()
		}
		return nil, err
	}
	metrics.BookingsCreated.Add(float64(len(rows)))
	s.cache.InvalidateDate(ctx, req.Date)
	s.logger.Info("booking created",
		zap.String("date", req.Date),
		zap.String("time", req.Time),
		zap.Int("services", len(rows)),
		zap.Bool("vip_combo", req.VIPCombo))
	return rows, nil
}

// bookedService is what a booking row records for one scheduled service
type bookedService struct {
	id    string
	price int
}

// assignmentsFor finds the technicians for a booking request at its exact time
func (s *Service) assignmentsFor(ctx context.Context, req models.BookingRequest) ([]models.StaffAssignment, map[string]bookedService, error) {
	start, err := scheduler.MinutesOfDay(req.Time)
	if err != nil {
		return nil, nil, err
	}
	snap, err := s.snapshot(ctx, req.Date, req.Services, req.StaffID, !req.VIPCombo)
	if err != nil {
		return nil, nil, err
	}
	catalog := make(map[string]bookedService, len(snap.Services))
	for _, svc := range snap.Services {
		catalog[svc.ID] = bookedService{id: scheduler.CatalogID(svc), price: scheduler.ServicePrice(svc)}
	}

	if !req.VIPCombo {
		res := scheduler.NewScheduler(snap, s.cfg, s.logger).CheckAvailability(start)
		if !res.Available {
			return nil, nil, fmt.Errorf("%w: %s", ErrUnavailable, res.Reason)
		}
		return res.Assignments, catalog, nil
	}

	// a VIP booking uses the combo search with the grid pinned to the requested time
	cfg := scheduler.Config{OpenMinute: start, CloseMinute: s.cfg.CloseMinute, SlotInterval: s.cfg.CloseMinute}
	if start < s.cfg.OpenMinute || start >= s.cfg.CloseMinute {
		return nil, nil, fmt.Errorf("%w: outside business hours", ErrUnavailable)
	}
	slots, err := scheduler.NewScheduler(snap, cfg, s.logger).VIPComboSlots(req.PreferredServiceID)
	if err != nil {
		return nil, nil, err
	}
	if len(slots) == 0 {
		return nil, nil, ErrUnavailable
	}
	return slots[0].Assignments, catalog, nil
}

// Cancel cancels a booking and forgets cached answers for its date
func (s *Service) Cancel(ctx context.Context, id string) (database.Booking, error) {
	b, err := s.repo.CancelBooking(ctx, id)
	if err != nil {
		return b, err
	}
	s.cache.InvalidateDate(ctx, b.Date)
	return b, nil
}

// InvalidateCatalog forgets cached answers after a catalog or qualification change
func (s *Service) InvalidateCatalog(ctx context.Context) {
	s.cache.InvalidateCatalog(ctx)
}
