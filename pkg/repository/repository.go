package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/nailscodev/backend/pkg/database"
	"github.com/nailscodev/backend/pkg/models"
	"github.com/nailscodev/backend/pkg/scheduler"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrSlotTaken = errors.New("slot already taken")
)

// Repository is the catalog, staff directory and booking store, backed by gorm
type Repository struct {
	db *gorm.DB
}

// New wraps an open database
func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ServicesByIDs returns active services in the order of ids. Unknown ids are skipped.
func (r *Repository) ServicesByIDs(ctx context.Context, ids []string) ([]models.Service, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []database.Service
	if err := r.db.WithContext(ctx).Preload("Addons").
		Where("id IN ? AND active = ?", ids, true).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load services: %w", err)
	}
	byID := make(map[string]database.Service, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	out := make([]models.Service, 0, len(ids))
	for _, id := range ids {
		if row, ok := byID[id]; ok {
			out = append(out, toService(row))
		}
	}
	return out, nil
}

// AddonsByIDs returns add-ons in the order of ids. Unknown ids are skipped.
func (r *Repository) AddonsByIDs(ctx context.Context, ids []string) ([]models.Addon, error) {
	out := make([]models.Addon, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []database.Addon
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load addons: %w", err)
	}
	byID := make(map[string]database.Addon, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	for _, id := range ids {
		if row, ok := byID[id]; ok {
			out = append(out, toAddon(row))
		}
	}
	return out, nil
}

// ListServices returns the active catalog with categories and add-ons
func (r *Repository) ListServices(ctx context.Context) ([]database.Service, error) {
	var rows []database.Service
	err := r.db.WithContext(ctx).Preload("Category").Preload("Addons").
		Where("active = ?", true).Order("name").Find(&rows).Error
	return rows, err
}

// ListStaff returns active technicians
func (r *Repository) ListStaff(ctx context.Context) ([]database.Staff, error) {
	var rows []database.Staff
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("name, id").Find(&rows).Error
	return rows, err
}

type qualifiedRow struct {
	ServiceID string
	StaffID   string
	StaffName string
}

// QualifiedStaff maps each service id to the technicians who may perform it.
// Promoted removals are looked up by their add-on id.
// A removal without its own qualification rows falls back to the technicians
// of its parent category, then of categories named like the removal's suffix
// ("Gel Removal - Mani" -> categories containing "mani").
func (r *Repository) QualifiedStaff(ctx context.Context, services []models.Service) (map[string][]models.Staff, error) {
	out := make(map[string][]models.Staff, len(services))
	if len(services) == 0 {
		return out, nil
	}
	ids := make([]string, 0, len(services))
	for _, svc := range services {
		ids = append(ids, scheduler.CatalogID(svc))
	}

	var rows []qualifiedRow
	err := r.db.WithContext(ctx).Table("staff_services").
		Select("staff_services.service_id AS service_id, staff.id AS staff_id, staff.name AS staff_name").
		Joins("JOIN staff ON staff.id = staff_services.staff_id").
		Where("staff_services.service_id IN ? AND staff.active = ?", ids, true).
		Order("staff.name, staff.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load qualifications: %w", err)
	}
	byCatalog := make(map[string][]models.Staff)
	for _, row := range rows {
		byCatalog[row.ServiceID] = append(byCatalog[row.ServiceID], models.Staff{ID: row.StaffID, Name: row.StaffName})
	}
	for _, svc := range services {
		if staff := byCatalog[scheduler.CatalogID(svc)]; len(staff) > 0 {
			out[svc.ID] = staff
		}
	}

	for _, svc := range services {
		if len(out[svc.ID]) > 0 || !scheduler.IsRemoval(svc.Name) {
			continue
		}
		staff, err := r.removalFallback(ctx, svc)
		if err != nil {
			return nil, err
		}
		if len(staff) > 0 {
			out[svc.ID] = staff
		}
	}
	return out, nil
}

func (r *Repository) removalFallback(ctx context.Context, svc models.Service) ([]models.Staff, error) {
	var categoryIDs []string
	if svc.ParentCategoryID != "" {
		categoryIDs = append(categoryIDs, svc.ParentCategoryID)
	}
	if suffix := removalSuffix(svc.Name); suffix != "" {
		var matched []string
		if err := r.db.WithContext(ctx).Model(&database.Category{}).
			Where("LOWER(name) LIKE ?", "%"+suffix+"%").
			Pluck("id", &matched).Error; err != nil {
			return nil, fmt.Errorf("match removal category: %w", err)
		}
		categoryIDs = append(categoryIDs, matched...)
	}
	if len(categoryIDs) == 0 {
		return nil, nil
	}

	var staff []models.Staff
	err := r.db.WithContext(ctx).Table("staff_services").
		Select("DISTINCT staff.id AS id, staff.name AS name").
		Joins("JOIN staff ON staff.id = staff_services.staff_id").
		Joins("JOIN services ON services.id = staff_services.service_id").
		Where("services.category_id IN ? AND staff.active = ?", categoryIDs, true).
		Order("staff.name, staff.id").
		Scan(&staff).Error
	if err != nil {
		return nil, fmt.Errorf("load removal fallback: %w", err)
	}
	return staff, nil
}

// removalSuffix is the lowercased text after the last dash
func removalSuffix(name string) string {
	i := strings.LastIndex(name, "-")
	if i < 0 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(name[i+1:]))
}

// BookingsOn returns the non-cancelled bookings of a date in minutes of day.
// A stored time that cannot be read fails the whole lookup.
func (r *Repository) BookingsOn(ctx context.Context, date string) ([]models.Booking, error) {
	var rows []database.Booking
	if err := r.db.WithContext(ctx).
		Where("date = ? AND status <> ?", date, database.StatusCancelled).
		Order("start_time").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	out := make([]models.Booking, 0, len(rows))
	for _, row := range rows {
		b, err := scheduler.NormalizeBooking(row.StaffID, row.StartTime, row.EndTime)
		if err != nil {
			return nil, fmt.Errorf("booking %s: %w", row.ID, err)
		}
		out = append(out, b)
	}
	return out, nil
}

// ListBookings returns a date's bookings, optionally for one technician
func (r *Repository) ListBookings(ctx context.Context, date, staffID string) ([]database.Booking, error) {
	q := r.db.WithContext(ctx).Where("date = ?", date)
	if staffID != "" {
		q = q.Where("staff_id = ?", staffID)
	}
	var rows []database.Booking
	err := q.Order("start_time, staff_id").Find(&rows).Error
	return rows, err
}

// CreateBookings stores a group of bookings atomically. Each technician's
// day is checked again inside the transaction; an overlap aborts everything
// with ErrSlotTaken. On postgres the technicians' staff rows are locked first,
// so two first bookings of an empty day cannot both pass the check.
// SQLite serializes writers on its own.
func (r *Repository) CreateBookings(ctx context.Context, bookings []database.Booking) error {
	groupID := uuid.NewString()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			var locked []database.Staff
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("id IN ?", bookedStaff(bookings)).
				Order("id").
				Find(&locked).Error; err != nil {
				return fmt.Errorf("lock staff: %w", err)
			}
		}

		for i := range bookings {
			b := &bookings[i]
			start, end, err := bookingWindow(*b)
			if err != nil {
				return err
			}

			var existing []database.Booking
			if err := tx.
				Where("date = ? AND staff_id = ? AND status <> ?", b.Date, b.StaffID, database.StatusCancelled).
				Find(&existing).Error; err != nil {
				return fmt.Errorf("load existing bookings: %w", err)
			}
			for _, e := range existing {
				eStart, eEnd, err := bookingWindow(e)
				if err != nil {
					return err
				}
				if scheduler.Overlaps(start, end, eStart, eEnd) {
					return fmt.Errorf("%w: staff %s %s-%s", ErrSlotTaken, b.StaffID, e.StartTime, e.EndTime)
				}
			}

			b.GroupID = groupID
			if b.Status == "" {
				b.Status = database.StatusConfirmed
			}
			if err := tx.Create(b).Error; err != nil {
				return fmt.Errorf("create booking: %w", err)
			}
		}
		return nil
	})
}

// bookedStaff lists the distinct technicians of a group in id order, the
// order their rows are locked in
func bookedStaff(bookings []database.Booking) []string {
	var ids []string
	for _, b := range bookings {
		if !slices.Contains(ids, b.StaffID) {
			ids = append(ids, b.StaffID)
		}
	}
	slices.Sort(ids)
	return ids
}

func bookingWindow(b database.Booking) (int, int, error) {
	n, err := scheduler.NormalizeBooking(b.StaffID, b.StartTime, b.EndTime)
	if err != nil {
		return 0, 0, fmt.Errorf("booking %s: %w", b.ID, err)
	}
	return n.Start, n.End, nil
}

// CancelBooking marks a booking cancelled and returns it
func (r *Repository) CancelBooking(ctx context.Context, id string) (database.Booking, error) {
	var b database.Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return b, ErrNotFound
	}
	if err != nil {
		return b, err
	}
	if err := r.db.WithContext(ctx).Model(&b).Update("status", database.StatusCancelled).Error; err != nil {
		return b, fmt.Errorf("cancel booking: %w", err)
	}
	return b, nil
}

// DaySummary aggregates a date for the dashboard
func (r *Repository) DaySummary(ctx context.Context, date string) (models.DaySummary, error) {
	summary := models.DaySummary{Date: date, BookedMinutes: map[string]int{}}
	rows, err := r.ListBookings(ctx, date, "")
	if err != nil {
		return summary, fmt.Errorf("load bookings: %w", err)
	}
	for _, row := range rows {
		if row.Status == database.StatusCancelled {
			summary.Cancelled++
			continue
		}
		start, end, err := bookingWindow(row)
		if err != nil {
			return summary, err
		}
		summary.Bookings++
		summary.Revenue += row.Price
		summary.BookedMinutes[row.StaffID] += end - start
	}
	busiest := 0
	for _, row := range rows {
		if m := summary.BookedMinutes[row.StaffID]; m > busiest {
			busiest, summary.BusiestStaffID = m, row.StaffID
		}
	}
	return summary, nil
}

func toService(row database.Service) models.Service {
	svc := models.Service{
		ID:         row.ID,
		Name:       row.Name,
		Duration:   row.Duration,
		BufferTime: row.BufferTime,
		CategoryID: row.CategoryID,
		Price:      row.Price,
	}
	for _, a := range row.Addons {
		svc.Addons = append(svc.Addons, toAddon(a))
	}
	return svc
}

func toAddon(row database.Addon) models.Addon {
	return models.Addon{ID: row.ID, Name: row.Name, AdditionalTime: row.AdditionalTime, Price: row.Price}
}
