package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nailscodev/backend/pkg/database"
	"gorm.io/gorm/clause"
)

// CreateCategory stores a category, generating an id when missing
func (r *Repository) CreateCategory(ctx context.Context, c *database.Category) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(c).Error
}

// CreateAddon stores an add-on, generating an id when missing
func (r *Repository) CreateAddon(ctx context.Context, a *database.Addon) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(a).Error
}

// CreateService stores a service and links the given add-ons
func (r *Repository) CreateService(ctx context.Context, s *database.Service, addonIDs []string) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if len(addonIDs) > 0 {
		var addons []database.Addon
		if err := r.db.WithContext(ctx).Where("id IN ?", addonIDs).Find(&addons).Error; err != nil {
			return fmt.Errorf("load addons: %w", err)
		}
		if len(addons) != len(addonIDs) {
			return fmt.Errorf("addon: %w", ErrNotFound)
		}
		s.Addons = addons
	}
	return r.db.WithContext(ctx).Create(s).Error
}

// CreateStaff stores a technician, generating an id when missing
func (r *Repository) CreateStaff(ctx context.Context, s *database.Staff) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(s).Error
}

// Qualify records that a technician may perform the given services or removal add-ons.
// Existing rows are left alone.
func (r *Repository) Qualify(ctx context.Context, staffID string, serviceIDs []string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&database.Staff{}).Where("id = ?", staffID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("staff %s: %w", staffID, ErrNotFound)
	}
	rows := make([]database.StaffService, 0, len(serviceIDs))
	for _, id := range serviceIDs {
		rows = append(rows, database.StaffService{StaffID: staffID, ServiceID: id})
	}
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}
