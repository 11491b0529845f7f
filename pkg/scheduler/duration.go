package scheduler

import "github.com/nailscodev/backend/pkg/models"

// ServiceDuration is the time a service occupies a technician: base, buffer and add-ons
func ServiceDuration(svc models.Service) int {
	total := max(svc.Duration, 0) + max(svc.BufferTime, 0)
	for _, a := range svc.Addons {
		total += max(a.AdditionalTime, 0)
	}
	return total
}

// ServicePrice sums the service and its add-ons
func ServicePrice(svc models.Service) int {
	total := svc.Price
	for _, a := range svc.Addons {
		total += a.Price
	}
	return total
}

// TotalDuration sums ServiceDuration over a sequence
func TotalDuration(services []models.Service) int {
	total := 0
	for _, svc := range services {
		total += ServiceDuration(svc)
	}
	return total
}

// TotalPrice sums ServicePrice over a sequence
func TotalPrice(services []models.Service) int {
	total := 0
	for _, svc := range services {
		total += ServicePrice(svc)
	}
	return total
}

// ApplyRequestAddons replaces the stored add-ons with the ones chosen for this
// request. A nil list means the request did not choose, so stored add-ons stay.
func ApplyRequestAddons(svc models.Service, addons []models.Addon) models.Service {
	if addons == nil {
		return svc
	}
	svc.Addons = append([]models.Addon(nil), addons...)
	return svc
}
