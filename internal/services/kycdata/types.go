package kycdata

// KYC data object types.
const (
	TypeIndividual = "individual"
	TypeEntity     = "entity"
)

// PayloadVersion is the wire payload version this service emits.
const PayloadVersion = 1

// Object is the wire shape of travel-rule KYC data attached to a payment
// command actor. Optional fields that are empty serialize as absent keys,
// never as nulls.
type Object struct {
	Type            string `json:"type"`
	PayloadVersion  int    `json:"payload_version"`
	GivenName       string `json:"given_name,omitempty"`
	Surname         string `json:"surname,omitempty"`
	Address         string `json:"address,omitempty"`
	DOB             string `json:"dob,omitempty"`
	PlaceOfBirth    string `json:"place_of_birth,omitempty"`
	NationalID      string `json:"national_id,omitempty"`
	LegalEntityName string `json:"legal_entity_name,omitempty"`
}
