package models

import (
	"gorm.io/gorm"
)

// User is a wallet account holder at this custodian.
type User struct {
	gorm.Model
	Email               string `gorm:"uniqueIndex;not null"`
	Password            string `gorm:"not null"`
	Role                string `gorm:"default:'user'"`
	Status              string `gorm:"default:'active'"`
	KYCStatus           string `gorm:"default:'pending'"`
	TokenVersion        int    `gorm:"default:1"`
	FailedLoginAttempts int    `gorm:"default:0"`
}
