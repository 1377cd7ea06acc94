package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleDonor        UserRole = "donor"
	RoleOrganisation UserRole = "organisation"
	RoleAdmin        UserRole = "admin"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Username     string         `gorm:"type:varchar(100);not null" json:"username"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Role         UserRole       `gorm:"type:varchar(20);not null;default:'donor'" json:"role"`
	IsActive     bool           `gorm:"not null;default:true" json:"is_active"`
	ProfileImage string         `gorm:"type:varchar(512)" json:"profile_image,omitempty"`
	Phone        string         `gorm:"type:varchar(50)" json:"phone,omitempty"`
	Address      string         `gorm:"type:text" json:"address,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Donations []Donation `gorm:"foreignKey:DonorID" json:"-"`
}
