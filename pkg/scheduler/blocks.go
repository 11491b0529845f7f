package scheduler

import (
	"slices"

	"github.com/nailscodev/backend/pkg/models"
	"go.uber.org/zap"
)

// MaxPermutationBlocks caps the ordering search. Past it only the input order is tried.
const MaxPermutationBlocks = 6

// Block is a removal followed by its main service, or a single service
type Block []models.Service

// Pairing maps a removal's service id to the id of the main service it prepares
type Pairing map[string]string

// PairRemovals links each removal to one main service. A promoted removal's
// own parent wins, then the catalog linkage (ParentCategoryID), then the name
// discipline; a main service takes at most one removal.
func PairRemovals(services []models.Service) Pairing {
	pairs := make(Pairing)
	taken := make(map[int]bool)

	match := func(removal models.Service, ok func(models.Service) bool) bool {
		for j, main := range services {
			if taken[j] || IsRemoval(main.Name) || !ok(main) {
				continue
			}
			taken[j] = true
			pairs[removal.ID] = main.ID
			return true
		}
		return false
	}

	for _, svc := range services {
		if !IsRemoval(svc.Name) {
			continue
		}
		if svc.ParentServiceID != "" && match(svc, func(m models.Service) bool {
			return m.ID == svc.ParentServiceID
		}) {
			continue
		}
		if svc.ParentCategoryID != "" && match(svc, func(m models.Service) bool {
			return m.CategoryID == svc.ParentCategoryID
		}) {
			continue
		}
		if d := DisciplineOf(svc.Name); d != DisciplineNone {
			match(svc, func(m models.Service) bool { return DisciplineOf(m.Name) == d })
		}
	}
	return pairs
}

// GroupBlocks builds blocks in input order. A pair is placed where its first
// member appears, with the removal first.
func GroupBlocks(services []models.Service, pairs Pairing) []Block {
	mainOf := make(map[string]string, len(pairs))
	for removalID, mainID := range pairs {
		mainOf[mainID] = removalID
	}
	byID := make(map[string]models.Service, len(services))
	for _, svc := range services {
		byID[svc.ID] = svc
	}

	placed := make(map[string]bool)
	var blocks []Block
	for _, svc := range services {
		if placed[svc.ID] {
			continue
		}
		if mainID, ok := pairs[svc.ID]; ok {
			blocks = append(blocks, Block{svc, byID[mainID]})
			placed[svc.ID], placed[mainID] = true, true
			continue
		}
		if removalID, ok := mainOf[svc.ID]; ok {
			blocks = append(blocks, Block{byID[removalID], svc})
			placed[svc.ID], placed[removalID] = true, true
			continue
		}
		blocks = append(blocks, Block{svc})
		placed[svc.ID] = true
	}
	return blocks
}

// Permutations enumerates every ordering with Heap's algorithm, identity first
func Permutations[T any](items []T) [][]T {
	a := slices.Clone(items)
	out := [][]T{slices.Clone(a)}
	c := make([]int, len(a))
	for i := 1; i < len(a); {
		if c[i] < i {
			if i%2 == 0 {
				a[0], a[i] = a[i], a[0]
			} else {
				a[c[i]], a[i] = a[i], a[c[i]]
			}
			out = append(out, slices.Clone(a))
			c[i]++
			i = 1
		} else {
			c[i] = 0
			i++
		}
	}
	return out
}

// Orderings lists the service sequences to try. Without any recognizable
// discipline or catalog pairing only the input order is tried.
func (s *Scheduler) Orderings(pairs Pairing) [][]models.Service {
	services := s.snap.Services
	if len(pairs) == 0 && !anyDiscipline(services) {
		return [][]models.Service{slices.Clone(services)}
	}

	blocks := GroupBlocks(services, pairs)
	if len(blocks) > MaxPermutationBlocks {
		s.logger.Warn("too many blocks to permute, using request order",
			zap.Int("blocks", len(blocks)),
			zap.Int("limit", MaxPermutationBlocks))
		return [][]models.Service{flatten(blocks)}
	}

	perms := Permutations(blocks)
	out := make([][]models.Service, 0, len(perms))
	for _, p := range perms {
		out = append(out, flatten(p))
	}
	return out
}

func anyDiscipline(services []models.Service) bool {
	for _, svc := range services {
		if DisciplineOf(svc.Name) != DisciplineNone {
			return true
		}
	}
	return false
}

func flatten(blocks []Block) []models.Service {
	var out []models.Service
	for _, b := range blocks {
		out = append(out, b...)
	}
	return out
}
