package scheduler

import "github.com/nailscodev/backend/pkg/models"

// ElevateRemovalAddons promotes removal add-ons to services of their own,
// placed right before the service they belong to. The promoted service has no
// buffer, points at its parent and gets the id "<parent id>/<add-on id>", so
// one add-on shared by two requested services yields two distinct services.
func ElevateRemovalAddons(services []models.Service) []models.Service {
	out := make([]models.Service, 0, len(services))
	for _, svc := range services {
		var kept []models.Addon
		for _, a := range svc.Addons {
			if !IsRemoval(a.Name) {
				kept = append(kept, a)
				continue
			}
			out = append(out, models.Service{
				ID:               svc.ID + "/" + a.ID,
				CatalogID:        a.ID,
				Name:             a.Name,
				Duration:         a.AdditionalTime,
				BufferTime:       0,
				ParentCategoryID: svc.CategoryID,
				ParentServiceID:  svc.ID,
				Price:            a.Price,
			})
		}
		svc.Addons = kept
		out = append(out, svc)
	}
	return out
}

// CatalogID is the id a service is stored under: the add-on id for a
// promoted removal, the service id otherwise.
func CatalogID(svc models.Service) string {
	if svc.CatalogID != "" {
		return svc.CatalogID
	}
	return svc.ID
}
