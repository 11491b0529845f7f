package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nailscodev/backend/pkg/database"
)

// ListServices returns the active catalog
func (h *Handler) ListServices(c *gin.Context) {
	rows, err := h.Repo.ListServices(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": rows})
}

// ListStaff returns the active technicians
func (h *Handler) ListStaff(c *gin.Context) {
	rows, err := h.Repo.ListStaff(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"staff": rows})
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var req struct {
		ID   string `json:"id"`
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cat := database.Category{ID: req.ID, Name: req.Name}
	if err := h.Repo.CreateCategory(c.Request.Context(), &cat); err != nil {
		h.fail(c, err)
		return
	}
	h.Availability.InvalidateCatalog(c.Request.Context())
	c.JSON(http.StatusCreated, cat)
}

func (h *Handler) CreateAddon(c *gin.Context) {
	var req struct {
		ID             string `json:"id"`
		Name           string `json:"name" binding:"required"`
		AdditionalTime int    `json:"additional_time" binding:"gte=0"`
		Price          int    `json:"price" binding:"gte=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	addon := database.Addon{ID: req.ID, Name: req.Name, AdditionalTime: req.AdditionalTime, Price: req.Price}
	if err := h.Repo.CreateAddon(c.Request.Context(), &addon); err != nil {
		h.fail(c, err)
		return
	}
	h.Availability.InvalidateCatalog(c.Request.Context())
	c.JSON(http.StatusCreated, addon)
}

func (h *Handler) CreateService(c *gin.Context) {
	var req struct {
		ID         string   `json:"id"`
		Name       string   `json:"name" binding:"required"`
		Duration   int      `json:"duration" binding:"gte=0"`
		BufferTime int      `json:"buffer_time" binding:"gte=0"`
		CategoryID string   `json:"category_id"`
		Price      int      `json:"price" binding:"gte=0"`
		AddonIDs   []string `json:"addon_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	svc := database.Service{
		ID:         req.ID,
		Name:       req.Name,
		Duration:   req.Duration,
		BufferTime: req.BufferTime,
		CategoryID: req.CategoryID,
		Price:      req.Price,
		Active:     true,
	}
	if err := h.Repo.CreateService(c.Request.Context(), &svc, req.AddonIDs); err != nil {
		h.fail(c, err)
		return
	}
	h.Availability.InvalidateCatalog(c.Request.Context())
	c.JSON(http.StatusCreated, svc)
}

func (h *Handler) CreateStaff(c *gin.Context) {
	var req struct {
		ID    string `json:"id"`
		Name  string `json:"name" binding:"required"`
		Email string `json:"email" binding:"omitempty,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	staff := database.Staff{ID: req.ID, Name: req.Name, Email: req.Email, Active: true}
	if err := h.Repo.CreateStaff(c.Request.Context(), &staff); err != nil {
		h.fail(c, err)
		return
	}
	h.Availability.InvalidateCatalog(c.Request.Context())
	c.JSON(http.StatusCreated, staff)
}

// QualifyStaff records which services (or removal add-ons) a technician performs
func (h *Handler) QualifyStaff(c *gin.Context) {
	var req struct {
		ServiceIDs []string `json:"service_ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Repo.Qualify(c.Request.Context(), c.Param("id"), req.ServiceIDs); err != nil {
		h.fail(c, err)
		return
	}
	h.Availability.InvalidateCatalog(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Qualifications updated"})
}
