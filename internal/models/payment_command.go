package models

import "gorm.io/gorm"

// PaymentCommand is the persisted latest version of one in-flight compliance
// negotiation, keyed by its reference id. Payload holds the full wire-shaped
// payment object; the indexed columns exist for lookups only.
type PaymentCommand struct {
	gorm.Model
	ReferenceID    string `gorm:"uniqueIndex;not null"`
	AccountID      uint   `gorm:"index"`
	CID            string
	MyActorAddress string
	Inbound        bool
	Status         string
	Payload        JSON `gorm:"type:jsonb"`
}
