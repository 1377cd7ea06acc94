package models

import "time"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	// PaymentStatusRefunded is a declared terminal status. Transitioning to
	// it persists the status only; aggregate reversal is not implemented.
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// IsTerminal reports whether a status permits no further transitions.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed || s == PaymentStatusRefunded
}

// Valid reports whether s is one of the known payment statuses.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// Donation is the ledger record for a single contribution. CampaignID is
// nullable: organisation-level donations carry no campaign. Donations are
// never soft-deleted; the ledger is the source of truth for aggregates.
type Donation struct {
	ID             uint64        `gorm:"primarykey" json:"id"`
	DonorID        uint64        `gorm:"not null;index" json:"donor_id"`
	OrganisationID uint64        `gorm:"not null;index" json:"organisation_id"`
	CampaignID     *uint64       `gorm:"index" json:"campaign_id"`
	Amount         float64       `gorm:"not null" json:"amount"`
	PaymentStatus  PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	TransactionID  string        `gorm:"type:varchar(100)" json:"transaction_id"`
	ReceiptID      string        `gorm:"type:varchar(30);uniqueIndex;not null" json:"receipt_id"`
	IsAnonymous    bool          `gorm:"not null;default:false" json:"is_anonymous"`
	Message        string        `gorm:"type:text" json:"message,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`

	// Relations
	Donor        User         `gorm:"foreignKey:DonorID" json:"-"`
	Organisation Organisation `gorm:"foreignKey:OrganisationID" json:"-"`
	Campaign     *Campaign    `gorm:"foreignKey:CampaignID" json:"-"`
}
