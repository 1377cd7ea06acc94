package models

import (
	"time"

	"gorm.io/gorm"
)

// Campaign is a fundraising drive belonging to an organisation. RaisedAmount
// is a derived aggregate maintained incrementally from completed donations.
type Campaign struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	OrganisationID uint64         `gorm:"not null;index" json:"organisation_id"`
	Title          string         `gorm:"type:varchar(255);not null" json:"title"`
	Description    string         `gorm:"type:text" json:"description"`
	GoalAmount     float64        `gorm:"not null" json:"goal_amount"`
	RaisedAmount   float64        `gorm:"not null;default:0" json:"raised_amount"`
	IsActive       bool           `gorm:"not null;default:true" json:"is_active"`
	Category       string         `gorm:"type:varchar(100);not null;default:'General'" json:"category"`
	BannerImage    string         `gorm:"type:varchar(512)" json:"banner_image,omitempty"`
	EndDate        *time.Time     `json:"end_date"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Organisation Organisation `gorm:"foreignKey:OrganisationID" json:"organisation,omitempty"`
	Donations    []Donation   `gorm:"foreignKey:CampaignID" json:"-"`
}

// ProgressPercentage reports how far the campaign is toward its goal, capped
// at 100.
func (c *Campaign) ProgressPercentage() float64 {
	if c.GoalAmount <= 0 {
		return 0
	}
	progress := (c.RaisedAmount / c.GoalAmount) * 100
	if progress > 100 {
		return 100
	}
	return progress
}
