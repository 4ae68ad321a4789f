// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

package synth

import (
	"fmt"
	"strings"
)

// Domain names one synthetic interaction style.
type Domain string

const (
	// DomainOTT models streaming watch history.
	DomainOTT Domain = "ott"
	// DomainSocial models social media engagement.
	DomainSocial Domain = "social"
	// DomainMedia models general media consumption.
	DomainMedia Domain = "media"
)

// AllDomains returns every supported domain in generation order.
func AllDomains() []Domain {
	return []Domain{DomainOTT, DomainSocial, DomainMedia}
}

// ParseDomain converts a case-insensitive name into a Domain.
func ParseDomain(s string) (Domain, error) {
	d := Domain(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case DomainOTT, DomainSocial, DomainMedia:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDomain, s)
	}
}

// DisplayName is the value written to the metadata "type" field.
func (d Domain) DisplayName() string {
	switch d {
	case DomainOTT:
		return "OTT"
	case DomainSocial:
		return "Social Media"
	case DomainMedia:
		return "Media"
	default:
		return string(d)
	}
}

func (d Domain) String() string {
	return string(d)
}
