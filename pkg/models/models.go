package models

// Addon is an optional extra attached to a service
type Addon struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	AdditionalTime int    `json:"additional_time"`
	Price          int    `json:"price"`
}

// Service is a bookable treatment. Durations are minutes, prices are minor units.
type Service struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Duration         int     `json:"duration"`
	BufferTime       int     `json:"buffer_time"`
	CategoryID       string  `json:"category_id"`
	ParentCategoryID string  `json:"parent_category_id,omitempty"` // set when a removal add-on is promoted to a service
	ParentServiceID  string  `json:"parent_service_id,omitempty"`
	CatalogID        string  `json:"catalog_id,omitempty"` // add-on id of a promoted removal; ID is then unique per request
	Price            int     `json:"price"`
	Addons           []Addon `json:"addons,omitempty"`
}

// Staff is a technician
type Staff struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Booking is an existing reservation on the target date, in minutes since midnight
type Booking struct {
	StaffID string `json:"staff_id"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

// StaffAssignment is one service performed by one technician
type StaffAssignment struct {
	ServiceID   string `json:"service_id"`
	ServiceName string `json:"service_name"`
	StaffID     string `json:"staff_id"`
	StaffName   string `json:"staff_name"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Duration    int    `json:"duration"`
}

// MultiServiceSlot is a start time at which every requested service can be performed back to back
type MultiServiceSlot struct {
	StartTime     string            `json:"start_time"`
	EndTime       string            `json:"end_time"`
	TotalDuration int               `json:"total_duration"`
	TotalPrice    int               `json:"total_price"`
	Available     bool              `json:"available"`
	Assignments   []StaffAssignment `json:"assignments"`
}

// VIPComboSlot is a window in which two services run side by side
type VIPComboSlot struct {
	StartTime   string            `json:"start_time"`
	EndTime     string            `json:"end_time"`
	Duration    int               `json:"duration"`
	TotalPrice  int               `json:"total_price"`
	Available   bool              `json:"available"`
	Assignments []StaffAssignment `json:"assignments"`
}

// AvailabilityCheck answers whether one exact start time can still be booked
type AvailabilityCheck struct {
	Available     bool              `json:"available"`
	StartTime     string            `json:"start_time"`
	EndTime       string            `json:"end_time"`
	TotalDuration int               `json:"total_duration"`
	TotalPrice    int               `json:"total_price"`
	Assignments   []StaffAssignment `json:"assignments"`
	ServiceOrder  []string          `json:"service_order"`
	Reason        string            `json:"reason,omitempty"`
}

// SlotConflict explains why a candidate start time was not offered
type SlotConflict struct {
	StartTime string   `json:"start_time"`
	Reasons   []string `json:"reasons"`
}

// ServiceRequest selects a service and, optionally, the add-ons wanted for this visit.
// A nil AddonIDs keeps the service's stored add-ons.
type ServiceRequest struct {
	ServiceID string   `json:"serviceId" binding:"required"`
	AddonIDs  []string `json:"addonIds"`
}

// AvailabilityRequest is the body of the consecutive availability endpoints
type AvailabilityRequest struct {
	Date     string           `json:"date" binding:"required,day"`
	Services []ServiceRequest `json:"services" binding:"required,min=1,max=8,dive"`
	StaffID  string           `json:"staffId"`
}

// VIPComboRequest is the body of the VIP combo endpoint
type VIPComboRequest struct {
	Date               string           `json:"date" binding:"required,day"`
	Services           []ServiceRequest `json:"services" binding:"required,len=2,dive"`
	StaffID            string           `json:"staffId"`
	PreferredServiceID string           `json:"preferredServiceId"`
}

// CheckRequest asks about a single start time
type CheckRequest struct {
	Date     string           `json:"date" binding:"required,day"`
	Time     string           `json:"time" binding:"required,clock"`
	Services []ServiceRequest `json:"services" binding:"required,min=1,max=8,dive"`
	StaffID  string           `json:"staffId"`
}

// AvailabilityResponse wraps the consecutive slots for a date
type AvailabilityResponse struct {
	Date      string             `json:"date"`
	Slots     []MultiServiceSlot `json:"slots"`
	Conflicts []SlotConflict     `json:"conflicts,omitempty"`
}

// VIPComboResponse wraps the VIP combo slots for a date
type VIPComboResponse struct {
	Date      string         `json:"date"`
	Slots     []VIPComboSlot `json:"slots"`
	Conflicts []SlotConflict `json:"conflicts,omitempty"`
}

// BookingRequest books the services at a fixed time, consecutively or as a VIP combo
type BookingRequest struct {
	Date               string           `json:"date" binding:"required,day"`
	Time               string           `json:"time" binding:"required,clock"`
	CustomerName       string           `json:"customerName" binding:"required"`
	CustomerPhone      string           `json:"customerPhone"`
	Services           []ServiceRequest `json:"services" binding:"required,min=1,max=8,dive"`
	StaffID            string           `json:"staffId"`
	VIPCombo           bool             `json:"vipCombo"`
	PreferredServiceID string           `json:"preferredServiceId"`
}

// DaySummary is the dashboard view of one date
type DaySummary struct {
	Date           string         `json:"date"`
	Bookings       int            `json:"bookings"`
	Cancelled      int            `json:"cancelled"`
	Revenue        int            `json:"revenue"`
	BookedMinutes  map[string]int `json:"booked_minutes"`
	BusiestStaffID string         `json:"busiest_staff_id,omitempty"`
}
