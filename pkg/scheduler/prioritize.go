package scheduler

import (
	"sort"

	"github.com/nailscodev/backend/pkg/models"
)

// PreferredBonus is scored for each position where the preferred technician can work
const PreferredBonus = 100

// Prioritize sorts orderings so those where the preferred technician is free
// for their services come first. Equal scores keep their order.
func (s *Scheduler) Prioritize(orderings [][]models.Service, start int) [][]models.Service {
	preferred := s.snap.PreferredStaffID
	if preferred == "" || len(orderings) < 2 {
		return orderings
	}

	scores := make([]int, len(orderings))
	for i, ord := range orderings {
		cursor := start
		for _, svc := range ord {
			d := ServiceDuration(svc)
			if s.preferredQualifiedFor(svc.ID) && s.isFree(preferred, cursor, cursor+d, nil) {
				scores[i] += PreferredBonus
			}
			cursor += d
		}
	}

	idx := make([]int, len(orderings))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })

	out := make([][]models.Service, len(orderings))
	for i, j := range idx {
		out[i] = orderings[j]
	}
	return out
}
