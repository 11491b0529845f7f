package scheduler

import "github.com/nailscodev/backend/pkg/models"

// ReusePenalty is added to the workload of a technician who already has a
// service earlier in the same sequence, so work spreads across the team.
const ReusePenalty = 10000

// LeastLoaded picks the conflict-free candidate with the lowest booked minutes.
// Technicians in used are penalized unless they are the preferred technician.
// Ties keep candidate order. ok is false when nobody is free.
func (s *Scheduler) LeastLoaded(candidates []models.Staff, start, end int, used []string, busy []models.Booking) (best models.Staff, ok bool) {
	bestLoad := 0
	for _, st := range candidates {
		if !s.isFree(st.ID, start, end, busy) {
			continue
		}
		load := s.workload[st.ID]
		if st.ID != s.snap.PreferredStaffID && containsID(used, st.ID) {
			load += ReusePenalty
		}
		if !ok || load < bestLoad {
			best, bestLoad, ok = st, load, true
		}
	}
	return best, ok
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
