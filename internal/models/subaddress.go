package models

import "gorm.io/gorm"

// SubAddress maps an allocated receiving sub-address back to the local
// account that owns it. Rows are never updated; a fresh sub-address is
// allocated per receiving identifier.
type SubAddress struct {
	gorm.Model
	SubAddressHex string `gorm:"uniqueIndex;not null"`
	AccountID     uint   `gorm:"index;not null"`
}
