package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nailscodev/backend/pkg/models"
)

type dayQuery struct {
	Date    string `form:"date" binding:"omitempty,day"`
	StaffID string `form:"staffId"`
}

func (q dayQuery) day() string {
	if q.Date == "" {
		return time.Now().Format("2006-01-02")
	}
	return q.Date
}

// ListBookings returns a date's bookings, optionally for one technician
func (h *Handler) ListBookings(c *gin.Context) {
	var q dayQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rows, err := h.Repo.ListBookings(c.Request.Context(), q.day(), q.StaffID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": q.day(), "bookings": rows})
}

// CreateBooking books the services at the requested time
func (h *Handler) CreateBooking(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if dup := duplicateService(req.Services); dup != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Duplicate service ID: " + dup})
		return
	}

	rows, err := h.Availability.Book(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.RecordUsage(c, len(req.Services), 1)
	c.JSON(http.StatusCreated, gin.H{"bookings": rows})
}

// CancelBooking cancels one booking
func (h *Handler) CancelBooking(c *gin.Context) {
	b, err := h.Availability.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled", "id": b.ID})
}

// Dashboard summarizes a date
func (h *Handler) Dashboard(c *gin.Context) {
	var q dayQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	summary, err := h.Repo.DaySummary(c.Request.Context(), q.day())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
