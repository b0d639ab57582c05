package models

import "time"

// Reminder is a date-keyed overlay rendered on the calendar grid. Reminders
// are fixed-position entries and never participate in conflict columns.
type Reminder struct {
	BaseModel
	TenantID string    `gorm:"size:36;index" json:"tenantId"`
	Date     time.Time `gorm:"index" json:"date"`
	Title    string    `gorm:"size:255" json:"title"`
	Notes    string    `gorm:"type:text" json:"notes,omitempty"`
}
