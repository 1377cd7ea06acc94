package models

import (
	"time"

	"gorm.io/gorm"
)

// Organisation is the charity profile owned by a user with the organisation
// role. TotalDonations is a derived aggregate maintained incrementally from
// completed donations, never recomputed on read.
type Organisation struct {
	ID                 uint64         `gorm:"primarykey" json:"id"`
	UserID             uint64         `gorm:"uniqueIndex;not null" json:"user_id"`
	Name               string         `gorm:"type:varchar(255);not null" json:"name"`
	Description        string         `gorm:"type:text" json:"description"`
	Mission            string         `gorm:"type:text" json:"mission"`
	IsVerified         bool           `gorm:"not null;default:false" json:"is_verified"`
	TotalDonations     float64        `gorm:"not null;default:0" json:"total_donations"`
	LogoImage          string         `gorm:"type:varchar(512)" json:"logo_image,omitempty"`
	BannerImage        string         `gorm:"type:varchar(512)" json:"banner_image,omitempty"`
	Website            string         `gorm:"type:varchar(255)" json:"website,omitempty"`
	Phone              string         `gorm:"type:varchar(50)" json:"phone,omitempty"`
	Address            string         `gorm:"type:text" json:"address,omitempty"`
	RegistrationNumber string         `gorm:"type:varchar(100)" json:"registration_number,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	User      User       `gorm:"foreignKey:UserID" json:"-"`
	Campaigns []Campaign `gorm:"foreignKey:OrganisationID" json:"campaigns,omitempty"`
}
