package entities

import (
	"strings"
	"time"
)

type IdentifierType string

const (
	IdentifierTypeEmail     IdentifierType = "email"
	IdentifierTypeTwitter   IdentifierType = "twitter"
	IdentifierTypeFarcaster IdentifierType = "farcaster"
	IdentifierTypeGithub    IdentifierType = "github"
	IdentifierTypeWallet    IdentifierType = "wallet"
)

// KnownIdentifierType reports whether raw names one of the five types the
// whitelist accepts.
func KnownIdentifierType(raw string) bool {
	switch IdentifierType(strings.ToLower(strings.TrimSpace(raw))) {
	case IdentifierTypeEmail, IdentifierTypeTwitter, IdentifierTypeFarcaster,
		IdentifierTypeGithub, IdentifierTypeWallet:
		return true
	default:
		return false
	}
}

// WhitelistEntry is one membership grant. (ElectionID, IdentifierType,
// Value) is the natural key; removal flips Active rather than deleting so
// access decisions stay auditable.
type WhitelistEntry struct {
	ElectionID     string
	IdentifierType IdentifierType
	Value          string
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (e WhitelistEntry) Key() string {
	return strings.Join([]string{
		strings.TrimSpace(e.ElectionID),
		string(e.IdentifierType),
		strings.TrimSpace(e.Value),
	}, "|")
}
