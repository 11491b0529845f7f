package scheduler

import (
	"maps"
	"slices"

	"github.com/nailscodev/backend/pkg/models"
)

// assignState is what one step of a sequence hands to the next. Steps never
// mutate it; advance returns a fresh copy so orderings tried one after another
// share nothing.
type assignState struct {
	cursor      int
	linked      map[string]models.Staff // main service id -> technician who did its removal
	used        []string
	intervals   []models.Booking
	assignments []models.StaffAssignment
}

func (st assignState) advance(date string, svc models.Service, staff models.Staff, end int, linkMain string) assignState {
	next := assignState{
		cursor:    end,
		linked:    maps.Clone(st.linked),
		used:      slices.Clone(st.used),
		intervals: append(slices.Clone(st.intervals), models.Booking{StaffID: staff.ID, Start: st.cursor, End: end}),
		assignments: append(slices.Clone(st.assignments), models.StaffAssignment{
			ServiceID:   svc.ID,
			ServiceName: svc.Name,
			StaffID:     staff.ID,
			StaffName:   staff.Name,
			StartTime:   FormatLocal(date, st.cursor),
			EndTime:     FormatLocal(date, end),
			Duration:    end - st.cursor,
		}),
	}
	if !containsID(next.used, staff.ID) {
		next.used = append(next.used, staff.ID)
	}
	if linkMain != "" {
		if next.linked == nil {
			next.linked = make(map[string]models.Staff)
		}
		next.linked[linkMain] = staff
	}
	return next
}

// AssignSequence walks one ordering from start, giving each service a
// technician. It returns false as soon as any service cannot be staffed.
func (s *Scheduler) AssignSequence(ordering []models.Service, start int, pairs Pairing) ([]models.StaffAssignment, bool) {
	st := assignState{cursor: start}
	single := len(ordering) == 1
	for _, svc := range ordering {
		next, ok := s.step(st, svc, pairs, single)
		if !ok {
			return nil, false
		}
		st = next
	}
	return st.assignments, true
}

func (s *Scheduler) step(st assignState, svc models.Service, pairs Pairing, single bool) (assignState, bool) {
	start, end := st.cursor, st.cursor+ServiceDuration(svc)
	preferred := s.snap.PreferredStaffID

	// removal: whoever does it must also be able to do the main service
	if mainID, ok := pairs[svc.ID]; ok {
		candidates := intersectStaff(s.qualified(svc.ID), s.qualified(mainID))
		if len(candidates) == 0 {
			return st, false
		}
		if preferred != "" && containsStaff(candidates, preferred) {
			candidates = filterStaff(candidates, func(m models.Staff) bool { return m.ID == preferred })
		} else {
			candidates = filterStaff(candidates, func(m models.Staff) bool { return !containsID(st.used, m.ID) })
		}
		staff, ok := s.LeastLoaded(candidates, start, end, st.used, st.intervals)
		if !ok {
			return st, false
		}
		return st.advance(s.snap.Date, svc, staff, end, mainID), true
	}

	// main service after its removal keeps the same technician
	if staff, ok := st.linked[svc.ID]; ok {
		if !s.isFree(staff.ID, start, end, st.intervals) {
			return st, false
		}
		return st.advance(s.snap.Date, svc, staff, end, ""), true
	}

	candidates := s.qualified(svc.ID)
	if len(candidates) == 0 {
		return st, false
	}
	if preferred != "" && containsStaff(candidates, preferred) {
		if s.isFree(preferred, start, end, st.intervals) {
			staff := filterStaff(candidates, func(m models.Staff) bool { return m.ID == preferred })[0]
			return st.advance(s.snap.Date, svc, staff, end, ""), true
		}
		if single {
			return st, false
		}
		candidates = filterStaff(candidates, func(m models.Staff) bool { return m.ID != preferred })
	}
	staff, ok := s.LeastLoaded(candidates, start, end, st.used, st.intervals)
	if !ok {
		return st, false
	}
	return st.advance(s.snap.Date, svc, staff, end, ""), true
}

// intersectStaff keeps the members of a that also appear in b, in a's order
func intersectStaff(a, b []models.Staff) []models.Staff {
	var out []models.Staff
	for _, st := range a {
		if containsStaff(b, st.ID) {
			out = append(out, st)
		}
	}
	return out
}

func filterStaff(list []models.Staff, keep func(models.Staff) bool) []models.Staff {
	var out []models.Staff
	for _, st := range list {
		if keep(st) {
			out = append(out, st)
		}
	}
	return out
}

func assignedTo(assignments []models.StaffAssignment, staffID string) bool {
	for _, a := range assignments {
		if a.StaffID == staffID {
			return true
		}
	}
	return false
}
