package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nailscodev/backend/pkg/database"
	"github.com/nailscodev/backend/pkg/models"
)

// ValidateInput checks an availability request against the catalog without searching
func (h *Handler) ValidateInput(c *gin.Context) {
	var input models.AvailabilityRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	// Check for duplicate IDs
	ids := make([]string, 0, len(input.Services))
	seen := make(map[string]bool)
	for _, s := range input.Services {
		if seen[s.ServiceID] {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Duplicate service ID: " + s.ServiceID})
			return
		}
		seen[s.ServiceID] = true
		ids = append(ids, s.ServiceID)
	}

	services, err := h.Repo.ServicesByIDs(c.Request.Context(), ids)
	if err != nil {
		h.fail(c, err)
		return
	}
	if len(services) != len(ids) {
		found := make(map[string]bool, len(services))
		for _, s := range services {
			found[s.ID] = true
		}
		for _, id := range ids {
			if !found[id] {
				c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Unknown service ID: " + id})
				return
			}
		}
	}

	for _, s := range input.Services {
		if s.AddonIDs == nil {
			continue
		}
		addons, err := h.Repo.AddonsByIDs(c.Request.Context(), s.AddonIDs)
		if err != nil {
			h.fail(c, err)
			return
		}
		if len(addons) != len(s.AddonIDs) {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Unknown add-on for service " + s.ServiceID})
			return
		}
	}

	if input.StaffID != "" {
		var count int64
		h.DB.Model(&database.Staff{}).Where("id = ? AND active = ?", input.StaffID, true).Count(&count)
		if count == 0 {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Unknown staff ID: " + input.StaffID})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"service_count": len(services),
		},
	})
}
