package models

import "gorm.io/gorm"

// KycProfile is the stored compliance profile for a wallet user. It is the
// source the wire-level KYC data object is rendered from when this custodian
// acts as the receiving side of a payment command.
type KycProfile struct {
	gorm.Model
	UserID          uint   `gorm:"uniqueIndex;not null"`
	GivenName       string
	Surname         string
	PostalAddress   string
	DateOfBirth     string
	PlaceOfBirth    string
	NationalID      string
	LegalEntityName string
}
