package models

import "time"

// Role enum
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleTherapist    Role = "therapist"
	RoleReceptionist Role = "receptionist"
)

// User represents a clinic staff member. Therapists own calendar columns.
type User struct {
	BaseModel
	TenantID    string `gorm:"size:36;index" json:"tenantId"`
	Email       string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FirstName   string `gorm:"size:100" json:"firstName"`
	LastName    string `gorm:"size:100" json:"lastName"`
	Role        Role   `gorm:"size:20;default:'therapist'" json:"role"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// Patient represents a patient referenced by appointments.
type Patient struct {
	BaseModel
	TenantID    string     `gorm:"size:36;index" json:"tenantId"`
	FirstName   string     `gorm:"size:100" json:"firstName"`
	LastName    string     `gorm:"size:100" json:"lastName"`
	Email       string     `gorm:"size:255" json:"email,omitempty"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
}

// Service represents a billable service offered by the clinic.
type Service struct {
	BaseModel
	TenantID        string `gorm:"size:36;index" json:"tenantId"`
	Name            string `gorm:"size:255" json:"name"`
	DurationMinutes int    `gorm:"default:45" json:"durationMinutes"`
	PriceCents      int64  `json:"priceCents"`
}

// Protocol represents a treatment protocol referenced from the edit surface.
type Protocol struct {
	BaseModel
	TenantID    string `gorm:"size:36;index" json:"tenantId"`
	Name        string `gorm:"size:255" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}
