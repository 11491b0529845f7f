package scheduler

import (
	"github.com/nailscodev/backend/pkg/models"
	"go.uber.org/zap"
)

const (
	reasonNoOrdering    = "no ordering of the services could be staffed"
	reasonNoPreferred   = "preferred technician could not be included"
	reasonBeforeOpening = "starts before opening"
)

// ConsecutiveSlots returns every candidate start at which the services can be
// performed back to back. An empty list is a normal answer.
func (s *Scheduler) ConsecutiveSlots() []models.MultiServiceSlot {
	s.Conflicts = nil
	slots := []models.MultiServiceSlot{}

	services := s.snap.Services
	if len(services) == 0 {
		return slots
	}
	if svc, missing := s.missingStaff(); missing {
		s.logger.Debug("no technician qualified", zap.String("service_id", svc.ID), zap.String("service", svc.Name))
		return slots
	}

	total := TotalDuration(services)
	price := TotalPrice(services)
	pairs := PairRemovals(services)
	orderings := s.Orderings(pairs)

	for start := s.cfg.OpenMinute; start < s.cfg.CloseMinute; start += s.cfg.SlotInterval {
		if s.exceedsClose(start, total) {
			s.reject(start, closingReason(start+total))
			continue
		}
		assignments, _, reason := s.firstFeasible(orderings, pairs, start)
		if assignments == nil {
			s.reject(start, reason)
			continue
		}
		slots = append(slots, models.MultiServiceSlot{
			StartTime:     FormatLocal(s.snap.Date, start),
			EndTime:       FormatLocal(s.snap.Date, start+total),
			TotalDuration: total,
			TotalPrice:    price,
			Available:     true,
			Assignments:   assignments,
		})
	}
	return slots
}

// firstFeasible tries the orderings at start and returns the first that
// staffs every service (and includes the preferred technician when one is set).
func (s *Scheduler) firstFeasible(orderings [][]models.Service, pairs Pairing, start int) ([]models.StaffAssignment, []models.Service, string) {
	preferred := s.snap.PreferredStaffID
	skippedForPreferred := false
	for _, ord := range s.Prioritize(orderings, start) {
		assignments, ok := s.AssignSequence(ord, start, pairs)
		if !ok {
			continue
		}
		if preferred != "" && !assignedTo(assignments, preferred) {
			skippedForPreferred = true
			continue
		}
		return assignments, ord, ""
	}
	if skippedForPreferred {
		return nil, nil, reasonNoPreferred
	}
	return nil, nil, reasonNoOrdering
}

// CheckAvailability answers for one fixed start time, also returning the
// service names in the order that worked.
func (s *Scheduler) CheckAvailability(start int) models.AvailabilityCheck {
	s.Conflicts = nil
	services := s.snap.Services
	total := TotalDuration(services)
	res := models.AvailabilityCheck{
		StartTime:     FormatLocal(s.snap.Date, start),
		EndTime:       FormatLocal(s.snap.Date, start+total),
		TotalDuration: total,
		TotalPrice:    TotalPrice(services),
		Assignments:   []models.StaffAssignment{},
		ServiceOrder:  []string{},
	}

	switch {
	case len(services) == 0:
		res.Reason = "no services requested"
		return res
	case start < s.cfg.OpenMinute:
		res.Reason = reasonBeforeOpening
		return res
	case s.exceedsClose(start, total):
		res.Reason = closingReason(start + total)
		return res
	}
	if svc, missing := s.missingStaff(); missing {
		res.Reason = "no technician qualified for " + svc.Name
		return res
	}

	pairs := PairRemovals(services)
	assignments, ord, reason := s.firstFeasible(s.Orderings(pairs), pairs, start)
	if assignments == nil {
		res.Reason = reason
		s.reject(start, reason)
		return res
	}
	res.Available = true
	res.Assignments = assignments
	for _, svc := range ord {
		res.ServiceOrder = append(res.ServiceOrder, svc.Name)
	}
	return res
}
