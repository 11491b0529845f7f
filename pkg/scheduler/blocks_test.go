package scheduler

import (
	"fmt"
	"strings"
	"testing"

	"github.com/nailscodev/backend/pkg/models"
)

func ids(services []models.Service) string {
	parts := make([]string, 0, len(services))
	for _, s := range services {
		parts = append(parts, s.ID)
	}
	return strings.Join(parts, ",")
}

func TestPermutations(t *testing.T) {
	factorial := []int{1, 1, 2, 6, 24, 120}
	for n := 0; n <= 5; n++ {
		items := make([]int, n)
		for i := range items {
			items[i] = i
		}
		perms := Permutations(items)
		if len(perms) != factorial[n] {
			t.Errorf("n=%d: expected %d permutations, got %d", n, factorial[n], len(perms))
		}
		seen := make(map[string]bool)
		for _, p := range perms {
			key := fmt.Sprint(p)
			if seen[key] {
				t.Errorf("n=%d: duplicate permutation %s", n, key)
			}
			seen[key] = true
		}
		if fmt.Sprint(perms[0]) != fmt.Sprint(items) {
			t.Errorf("n=%d: expected identity first, got %v", n, perms[0])
		}
	}
}

func TestPairRemovals_ByDiscipline(t *testing.T) {
	services := []models.Service{
		{ID: "pedi", Name: "Spa Pedicure"},
		{ID: "mani", Name: "Manicure"},
		{ID: "gel-mani", Name: "Gel Removal - Mani"},
		{ID: "gel-pedi", Name: "Gel Removal - Pedi"},
	}
	pairs := PairRemovals(services)
	if pairs["gel-mani"] != "mani" || pairs["gel-pedi"] != "pedi" || len(pairs) != 2 {
		t.Errorf("Unexpected pairs %v", pairs)
	}
}

func TestPairRemovals_CatalogLinkWins(t *testing.T) {
	services := []models.Service{
		{ID: "mani", Name: "Manicure", CategoryID: "cat-mani"},
		{ID: "pedi", Name: "Spa Pedicure", CategoryID: "cat-pedi"},
		// name says mani, catalog says pedicure
		{ID: "soak", Name: "Soak-off Removal Mani", ParentCategoryID: "cat-pedi"},
	}
	pairs := PairRemovals(services)
	if pairs["soak"] != "pedi" {
		t.Errorf("Expected removal paired with pedi, got %v", pairs)
	}
}

func TestPairRemovals_OneRemovalPerMain(t *testing.T) {
	services := []models.Service{
		{ID: "mani", Name: "Manicure"},
		{ID: "r1", Name: "Gel Removal - Mani"},
		{ID: "r2", Name: "Acrylic Removal - Mani"},
	}
	pairs := PairRemovals(services)
	if len(pairs) != 1 || pairs["r1"] != "mani" {
		t.Errorf("Expected only r1 paired, got %v", pairs)
	}
}

func TestGroupBlocks_RemovalFirst(t *testing.T) {
	services := []models.Service{
		{ID: "mani", Name: "Manicure"},
		{ID: "facial", Name: "Facial"},
		{ID: "gel", Name: "Gel Removal - Mani"},
	}
	blocks := GroupBlocks(services, PairRemovals(services))
	if len(blocks) != 2 {
		t.Fatalf("Expected 2 blocks, got %d", len(blocks))
	}
	if got := ids(blocks[0]); got != "gel,mani" {
		t.Errorf("Expected first block gel,mani, got %s", got)
	}
	if got := ids(blocks[1]); got != "facial" {
		t.Errorf("Expected second block facial, got %s", got)
	}
}

func TestOrderings_PermutesBlocksNotServices(t *testing.T) {
	services := []models.Service{
		{ID: "mani", Name: "Manicure"},
		{ID: "gel", Name: "Gel Removal - Mani"},
		{ID: "pedi", Name: "Pedicure"},
	}
	s := newTestScheduler(Snapshot{Services: services}, DefaultConfig())
	orderings := s.Orderings(PairRemovals(services))
	if len(orderings) != 2 {
		t.Fatalf("Expected 2 orderings, got %d", len(orderings))
	}
	if ids(orderings[0]) != "gel,mani,pedi" || ids(orderings[1]) != "pedi,gel,mani" {
		t.Errorf("Unexpected orderings %s / %s", ids(orderings[0]), ids(orderings[1]))
	}
}

func TestOrderings_NoDisciplineKeepsInputOrder(t *testing.T) {
	services := []models.Service{
		{ID: "wax", Name: "Eyebrow Wax"},
		{ID: "facial", Name: "Facial"},
		{ID: "lash", Name: "Lash Lift"},
	}
	s := newTestScheduler(Snapshot{Services: services}, DefaultConfig())
	orderings := s.Orderings(PairRemovals(services))
	if len(orderings) != 1 || ids(orderings[0]) != "wax,facial,lash" {
		t.Errorf("Expected the input order only, got %d orderings", len(orderings))
	}
}

func TestOrderings_TooManyBlocks(t *testing.T) {
	var services []models.Service
	for i := 0; i <= MaxPermutationBlocks; i++ {
		services = append(services, models.Service{ID: fmt.Sprintf("m%d", i), Name: fmt.Sprintf("Manicure %d", i)})
	}
	s := newTestScheduler(Snapshot{Services: services}, DefaultConfig())
	orderings := s.Orderings(PairRemovals(services))
	if len(orderings) != 1 || ids(orderings[0]) != ids(services) {
		t.Errorf("Expected request order only past the cap, got %d orderings", len(orderings))
	}
}

func TestElevateRemovalAddons(t *testing.T) {
	services := []models.Service{{
		ID: "mani", Name: "Manicure", Duration: 45, BufferTime: 10, CategoryID: "cat-mani", Price: 3000,
		Addons: []models.Addon{
			{ID: "art", Name: "Nail Art", AdditionalTime: 10, Price: 500},
			{ID: "gel", Name: "Gel Removal", AdditionalTime: 15, Price: 800},
		},
	}}
	out := ElevateRemovalAddons(services)
	if len(out) != 2 {
		t.Fatalf("Expected 2 services, got %d", len(out))
	}
	removal, main := out[0], out[1]
	if removal.ID != "mani/gel" || removal.CatalogID != "gel" || removal.ParentServiceID != "mani" || removal.Duration != 15 || removal.BufferTime != 0 || removal.ParentCategoryID != "cat-mani" || removal.Price != 800 {
		t.Errorf("Unexpected promoted removal %+v", removal)
	}
	if len(main.Addons) != 1 || main.Addons[0].ID != "art" {
		t.Errorf("Expected only nail art to stay on the manicure, got %+v", main.Addons)
	}
	if got := TotalPrice(out); got != 4300 {
		t.Errorf("Expected total price 4300, got %d", got)
	}
	if len(services[0].Addons) != 2 {
		t.Errorf("Input service was modified")
	}
}

func TestElevateRemovalAddons_SharedAddon(t *testing.T) {
	gel := models.Addon{ID: "gel", Name: "Gel Removal", AdditionalTime: 15, Price: 800}
	services := ElevateRemovalAddons([]models.Service{
		{ID: "mani", Name: "Gel Manicure", Duration: 45, CategoryID: "cat-mani", Addons: []models.Addon{gel}},
		{ID: "pedi", Name: "Spa Pedicure", Duration: 50, CategoryID: "cat-pedi", Addons: []models.Addon{gel}},
	})
	if got := ids(services); got != "mani/gel,mani,pedi/gel,pedi" {
		t.Fatalf("Expected distinct promoted removals, got %s", got)
	}

	pairs := PairRemovals(services)
	if pairs["mani/gel"] != "mani" || pairs["pedi/gel"] != "pedi" {
		t.Errorf("Expected each removal paired with its own parent, got %v", pairs)
	}
	blocks := GroupBlocks(services, pairs)
	if len(blocks) != 2 || len(flatten(blocks)) != 4 {
		t.Errorf("Expected 2 blocks covering 4 services, got %d blocks", len(blocks))
	}
	if CatalogID(services[0]) != "gel" || CatalogID(services[1]) != "mani" {
		t.Errorf("Unexpected catalog ids %s and %s", CatalogID(services[0]), CatalogID(services[1]))
	}
}

func TestServiceDuration(t *testing.T) {
	svc := models.Service{Duration: 45, BufferTime: 10, Addons: []models.Addon{{AdditionalTime: 10}, {AdditionalTime: 5}}}
	if got := ServiceDuration(svc); got != 70 {
		t.Errorf("Expected 70, got %d", got)
	}
	if got := ServiceDuration(models.Service{}); got != 0 {
		t.Errorf("Expected 0 for an empty service, got %d", got)
	}

	withRequest := ApplyRequestAddons(svc, []models.Addon{{AdditionalTime: 20}})
	if got := ServiceDuration(withRequest); got != 75 {
		t.Errorf("Expected request add-ons to replace stored ones, got %d", got)
	}
	if got := ServiceDuration(ApplyRequestAddons(svc, nil)); got != 70 {
		t.Errorf("Expected stored add-ons when the request has none, got %d", got)
	}
	if got := ServiceDuration(ApplyRequestAddons(svc, []models.Addon{})); got != 55 {
		t.Errorf("Expected an explicit empty list to clear add-ons, got %d", got)
	}
}
