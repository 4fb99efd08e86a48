// Package kycdata renders a local user's stored compliance profile into the
// wire-level KYC data object exchanged between custodians.
package kycdata

import (
	"errors"
	"fmt"

	"custos/internal/repositories"
)

// Provider looks up a local user's compliance profile and maps it into the
// wire KYC data shape.
type Provider interface {
	Fetch(userID uint) (*Object, error)
}

type provider struct {
	users repositories.UserRepository
}

func NewProvider(users repositories.UserRepository) Provider {
	if users == nil {
		panic("user repository is required")
	}
	return &provider{users: users}
}

// Fetch maps the stored profile into the wire shape. Profile fields that
// are missing pass through as empty values and drop out of the serialized
// object; completeness enforcement belongs to the counterparty's screening,
// not to this provider.
func (p *provider) Fetch(userID uint) (*Object, error) {
	profile, err := p.users.GetKycProfile(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrKycProfileNotFound) || errors.Is(err, repositories.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to load kyc profile: %w", err)
	}

	objType := TypeIndividual
	if profile.LegalEntityName != "" {
		objType = TypeEntity
	}

	return &Object{
		Type:            objType,
		PayloadVersion:  PayloadVersion,
		GivenName:       profile.GivenName,
		Surname:         profile.Surname,
		Address:         profile.PostalAddress,
		DOB:             profile.DateOfBirth,
		PlaceOfBirth:    profile.PlaceOfBirth,
		NationalID:      profile.NationalID,
		LegalEntityName: profile.LegalEntityName,
	}, nil
}
