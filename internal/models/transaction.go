package models

// TransactionStatus represents the lifecycle of a financial transaction.
type TransactionStatus string

const (
	TransactionPending TransactionStatus = "pending"
	TransactionPaid    TransactionStatus = "paid"
)

// Transaction is the financial record created when an appointment completes.
// Creation is best-effort; the appointment's status is the source of truth.
type Transaction struct {
	BaseModel
	TenantID      string            `gorm:"size:36;index" json:"tenantId"`
	AppointmentID string            `gorm:"size:36;index" json:"appointmentId"`
	PatientID     string            `gorm:"size:36;index" json:"patientId,omitempty"`
	Description   string            `gorm:"size:255" json:"description"`
	AmountCents   int64             `json:"amountCents"`
	Status        TransactionStatus `gorm:"size:20;default:'pending'" json:"status"`
}
