package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nailscodev/backend/pkg/models"
)

func duplicateService(reqs []models.ServiceRequest) string {
	seen := make(map[string]bool, len(reqs))
	for _, r := range reqs {
		if seen[r.ServiceID] {
			return r.ServiceID
		}
		seen[r.ServiceID] = true
	}
	return ""
}

// Consecutive lists the start times at which the services fit back to back
func (h *Handler) Consecutive(c *gin.Context) {
	var req models.AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if dup := duplicateService(req.Services); dup != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Duplicate service ID: " + dup})
		return
	}

	resp, err := h.Availability.Consecutive(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.RecordUsage(c, len(req.Services), len(resp.Slots))
	c.JSON(http.StatusOK, resp)
}

// VIPCombo lists the windows in which two services run side by side
func (h *Handler) VIPCombo(c *gin.Context) {
	var req models.VIPComboRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if dup := duplicateService(req.Services); dup != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Duplicate service ID: " + dup})
		return
	}
	if req.PreferredServiceID != "" && req.PreferredServiceID != req.Services[0].ServiceID && req.PreferredServiceID != req.Services[1].ServiceID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "preferredServiceId must be one of the requested services"})
		return
	}

	resp, err := h.Availability.VIPCombo(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.RecordUsage(c, len(req.Services), len(resp.Slots))
	c.JSON(http.StatusOK, resp)
}

// Check answers whether one exact time can still be booked
func (h *Handler) Check(c *gin.Context) {
	var req models.CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if dup := duplicateService(req.Services); dup != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Duplicate service ID: " + dup})
		return
	}

	res, err := h.Availability.Check(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	slots := 0
	if res.Available {
		slots = 1
	}
	h.RecordUsage(c, len(req.Services), slots)
	c.JSON(http.StatusOK, res)
}

// ConsecutiveCSV exports the consecutive slots, one row per assignment
func (h *Handler) ConsecutiveCSV(c *gin.Context) {
	var req models.AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if dup := duplicateService(req.Services); dup != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Duplicate service ID: " + dup})
		return
	}

	resp, err := h.Availability.Consecutive(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.RecordUsage(c, len(req.Services), len(resp.Slots))

	var out strings.Builder
	if err := writeSlotsCSV(&out, resp.Slots); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"csv": out.String()})
}

var csvHeader = []string{"slot_start", "slot_end", "total_price", "service_id", "service_name", "staff_id", "staff_name", "start", "end", "duration_minutes"}

// writeSlotsCSV writes one row per assignment after a header row
func writeSlotsCSV(w io.Writer, slots []models.MultiServiceSlot) error {
	records := [][]string{csvHeader}
	for _, sl := range slots {
		for _, a := range sl.Assignments {
			records = append(records, []string{
				sl.StartTime,
				sl.EndTime,
				strconv.Itoa(sl.TotalPrice),
				a.ServiceID,
				a.ServiceName,
				a.StaffID,
				a.StaffName,
				a.StartTime,
				a.EndTime,
				strconv.Itoa(a.Duration),
			})
		}
	}
	if err := csv.NewWriter(w).WriteAll(records); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
