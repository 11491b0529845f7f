package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Booking statuses
const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Category groups services, e.g. manicure or pedicure
type Category struct {
	ID   string `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name"`
}

// Service represents the services table
type Service struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"not null" json:"name"`
	Duration   int       `gorm:"not null;default:0" json:"duration"`
	BufferTime int       `gorm:"not null;default:0" json:"buffer_time"`
	CategoryID string    `gorm:"index" json:"category_id"`
	Category   *Category `json:"category,omitempty"`
	Price      int       `gorm:"not null;default:0" json:"price"`
	Active     bool      `gorm:"not null;default:true" json:"active"`
	Addons     []Addon   `gorm:"many2many:service_addons" json:"addons,omitempty"`
}

func (Service) TableName() string { return "services" }

// Addon represents the addons table
type Addon struct {
	ID             string `gorm:"primaryKey" json:"id"`
	Name           string `gorm:"not null" json:"name"`
	AdditionalTime int    `gorm:"not null;default:0" json:"additional_time"`
	Price          int    `gorm:"not null;default:0" json:"price"`
}

// Staff represents the staff table
type Staff struct {
	ID     string `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"not null" json:"name"`
	Email  string `json:"email,omitempty"`
	Active bool   `gorm:"not null;default:true" json:"active"`
}

// TableName keeps the table singular
func (Staff) TableName() string { return "staff" }

// StaffService says a technician may perform a service or a removal add-on
type StaffService struct {
	StaffID   string `gorm:"primaryKey" json:"staff_id"`
	ServiceID string `gorm:"primaryKey" json:"service_id"`
}

func (StaffService) TableName() string { return "staff_services" }

// Booking represents the bookings table. Times are local wall clock for Date.
type Booking struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	GroupID       string    `gorm:"index" json:"group_id"`
	CustomerName  string    `gorm:"not null" json:"customer_name"`
	CustomerPhone string    `json:"customer_phone,omitempty"`
	StaffID       string    `gorm:"index:idx_booking_day;not null" json:"staff_id"`
	ServiceID     string    `gorm:"not null" json:"service_id"`
	ServiceName   string    `json:"service_name"`
	Date          string    `gorm:"index:idx_booking_day;not null" json:"date"`
	StartTime     string    `gorm:"not null" json:"start_time"`
	EndTime       string    `gorm:"not null" json:"end_time"`
	Price         int       `json:"price"`
	Status        string    `gorm:"not null;default:confirmed" json:"status"`
	VIPCombo      bool      `json:"vip_combo"`
	CreatedAt     time.Time `json:"created_at"`
}

func (Booking) TableName() string { return "bookings" }

// BeforeCreate assigns a UUID when the caller did not
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// APIKey represents the api_keys table
type APIKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Key        string     `gorm:"unique;not null" json:"-"`
	KeyPreview string     `json:"key_preview"`
	Name       string     `gorm:"not null" json:"name"`
	RateLimit  int        `gorm:"default:10000" json:"rate_limit"`
	Revoked    bool       `gorm:"not null;default:false" json:"revoked"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsed   *time.Time `json:"last_used"`
}

// APIUsage represents the api_usage table
type APIUsage struct {
	ID                uint   `gorm:"primaryKey" json:"id"`
	KeyID             uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date              string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount      int    `gorm:"default:0" json:"request_count"`
	ServicesRequested int    `gorm:"default:0" json:"services_requested"`
	SlotsReturned     int    `gorm:"default:0" json:"slots_returned"`
}

// MasterUser represents the master_users table
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Models lists every table, in migration order
func Models() []any {
	return []any{
		&Category{}, &Addon{}, &Service{}, &Staff{}, &StaffService{}, &Booking{},
		&APIKey{}, &APIUsage{}, &MasterUser{},
	}
}

// Open connects to Postgres when dsn is set and to a SQLite file otherwise
func Open(dsn, sqlitePath string, quiet bool) (*gorm.DB, error) {
	gcfg := &gorm.Config{PrepareStmt: false}
	if quiet {
		gcfg.Logger = logger.Default.LogMode(logger.Silent)
	}

	var dialector gorm.Dialector
	if dsn != "" {
		dialector = postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		})
	} else {
		if sqlitePath == "" {
			sqlitePath = "salon.db"
		}
		dialector = sqlite.Open(sqlitePath)
	}

	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}
