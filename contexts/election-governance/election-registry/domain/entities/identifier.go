package entities

import "strings"

// Identifier types accepted on ballots. Kept as strings so the registry does
// not depend on the identity context's packages.
const (
	IdentifierTypeEmail     = "email"
	IdentifierTypeTwitter   = "twitter"
	IdentifierTypeFarcaster = "farcaster"
	IdentifierTypeGithub    = "github"
	IdentifierTypeWallet    = "wallet"
)

// KnownIdentifierType reports whether the type names a supported channel.
func KnownIdentifierType(identifierType string) bool {
	switch strings.ToLower(strings.TrimSpace(identifierType)) {
	case IdentifierTypeEmail, IdentifierTypeTwitter, IdentifierTypeFarcaster, IdentifierTypeGithub, IdentifierTypeWallet:
		return true
	default:
		return false
	}
}

// NormalizeIdentifier lowers the value and strips handle/address prefixes the
// same way the identity context does, so vote records and whitelist entries
// compare equal.
func NormalizeIdentifier(identifierType string, value string) (string, string) {
	identifierType = strings.ToLower(strings.TrimSpace(identifierType))
	value = strings.TrimSpace(value)
	switch identifierType {
	case IdentifierTypeTwitter, IdentifierTypeFarcaster, IdentifierTypeGithub:
		value = strings.TrimPrefix(value, "@")
	case IdentifierTypeWallet:
		if value != "" && !strings.HasPrefix(value, "0x") && !strings.HasPrefix(value, "0X") {
			value = "0x" + value
		}
	}
	return identifierType, strings.ToLower(value)
}
