package scheduler

import (
	"errors"
	"fmt"

	"github.com/nailscodev/backend/pkg/models"
)

var ErrComboSize = errors.New("vip combo needs exactly two services")

// VIPComboSlots finds windows where both services run at once on two
// different technicians. The shared window lasts as long as the longer service.
// preferredServiceID optionally names which service the preferred technician performs.
func (s *Scheduler) VIPComboSlots(preferredServiceID string) ([]models.VIPComboSlot, error) {
	s.Conflicts = nil
	if len(s.snap.Services) != 2 {
		return nil, fmt.Errorf("%w: got %d", ErrComboSize, len(s.snap.Services))
	}

	slots := []models.VIPComboSlot{}
	first, second := s.snap.Services[0], s.snap.Services[1]
	window := max(ServiceDuration(first), ServiceDuration(second))
	price := ServicePrice(first) + ServicePrice(second)

	for start := s.cfg.OpenMinute; start < s.cfg.CloseMinute; start += s.cfg.SlotInterval {
		end := start + window
		if s.exceedsClose(start, window) {
			s.reject(start, closingReason(end))
			continue
		}
		pair, reason := s.comboPair(first, second, start, end, preferredServiceID)
		if pair == nil {
			s.reject(start, reason)
			continue
		}
		assignments := make([]models.StaffAssignment, 0, 2)
		for i, svc := range []models.Service{first, second} {
			assignments = append(assignments, models.StaffAssignment{
				ServiceID:   svc.ID,
				ServiceName: svc.Name,
				StaffID:     pair[i].ID,
				StaffName:   pair[i].Name,
				StartTime:   FormatLocal(s.snap.Date, start),
				EndTime:     FormatLocal(s.snap.Date, end),
				Duration:    window,
			})
		}
		slots = append(slots, models.VIPComboSlot{
			StartTime:   FormatLocal(s.snap.Date, start),
			EndTime:     FormatLocal(s.snap.Date, end),
			Duration:    window,
			TotalPrice:  price,
			Available:   true,
			Assignments: assignments,
		})
	}
	return slots, nil
}

// comboPair returns the technicians for first and second, in that order
func (s *Scheduler) comboPair(first, second models.Service, start, end int, preferredServiceID string) ([]models.Staff, string) {
	qFirst, qSecond := s.qualified(first.ID), s.qualified(second.ID)
	preferred := s.snap.PreferredStaffID

	if preferred == "" {
		for _, a := range qFirst {
			if !s.isFree(a.ID, start, end, nil) {
				continue
			}
			for _, b := range qSecond {
				if a.ID != b.ID && s.isFree(b.ID, start, end, nil) {
					return []models.Staff{a, b}, ""
				}
			}
		}
		return nil, "no two distinct technicians free for the window"
	}

	if !s.isFree(preferred, start, end, nil) {
		return nil, "preferred technician is busy"
	}
	inFirst, inSecond := containsStaff(qFirst, preferred), containsStaff(qSecond, preferred)

	var prefersFirst bool
	switch {
	case preferredServiceID == first.ID && inFirst:
		prefersFirst = true
	case preferredServiceID == second.ID && inSecond:
		prefersFirst = false
	case preferredServiceID != "":
		return nil, "preferred technician cannot perform the selected service"
	case inFirst:
		// qualified for both: first service
		prefersFirst = true
	case inSecond:
		prefersFirst = false
	default:
		return nil, "preferred technician is not qualified for either service"
	}

	own, other := qFirst, qSecond
	if !prefersFirst {
		own, other = qSecond, qFirst
	}
	me := filterStaff(own, func(m models.Staff) bool { return m.ID == preferred })[0]
	for _, b := range other {
		if b.ID != preferred && s.isFree(b.ID, start, end, nil) {
			if prefersFirst {
				return []models.Staff{me, b}, ""
			}
			return []models.Staff{b, me}, ""
		}
	}
	return nil, "no second technician free for the window"
}
