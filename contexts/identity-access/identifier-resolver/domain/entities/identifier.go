package entities

import (
	"regexp"
	"strings"
)

type IdentifierType string

const (
	IdentifierTypeEmail     IdentifierType = "email"
	IdentifierTypeTwitter   IdentifierType = "twitter"
	IdentifierTypeFarcaster IdentifierType = "farcaster"
	IdentifierTypeGithub    IdentifierType = "github"
	IdentifierTypeWallet    IdentifierType = "wallet"
)

// Identifier is a normalized (type, value) pair. It is the unit of whitelist
// membership and vote deduplication across the system.
type Identifier struct {
	Type  IdentifierType
	Value string
}

// SocialFacet is the identity carried by a social login provider.
type SocialFacet struct {
	Provider string
	Email    string
	Handle   string
}

// Facets are the candidate identities available to the current session.
// Any of them may be absent.
type Facets struct {
	Social              *SocialFacet
	SmartAccountAddress string
	WalletAddress       string
}

var (
	emailPattern     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	twitterPattern   = regexp.MustCompile(`^@?[a-zA-Z0-9_]{1,15}$`)
	farcasterPattern = regexp.MustCompile(`^@?[a-zA-Z0-9_]{1,15}(\.farcaster)?$`)
	githubPattern    = regexp.MustCompile(`^@?[a-zA-Z0-9-]{1,39}$`)
	walletPattern    = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)
)

// KnownIdentifierType reports whether raw names one of the five supported
// identifier types.
func KnownIdentifierType(raw string) bool {
	switch IdentifierType(strings.ToLower(strings.TrimSpace(raw))) {
	case IdentifierTypeEmail, IdentifierTypeTwitter, IdentifierTypeFarcaster,
		IdentifierTypeGithub, IdentifierTypeWallet:
		return true
	default:
		return false
	}
}

// Valid applies the fixed-format check for the identifier type.
func Valid(value string, identifierType IdentifierType) bool {
	trimmed := strings.TrimSpace(value)
	switch identifierType {
	case IdentifierTypeEmail:
		return emailPattern.MatchString(trimmed)
	case IdentifierTypeTwitter:
		return twitterPattern.MatchString(trimmed)
	case IdentifierTypeFarcaster:
		return farcasterPattern.MatchString(trimmed)
	case IdentifierTypeGithub:
		return githubPattern.MatchString(trimmed)
	case IdentifierTypeWallet:
		return walletPattern.MatchString(trimmed)
	default:
		return false
	}
}

// Normalize lower-cases the value, strips handle prefixes, and enforces the
// 0x prefix for wallet addresses. The result is the canonical form stored in
// whitelists and vote records.
func Normalize(value string, identifierType IdentifierType) string {
	normalized := strings.TrimSpace(value)
	switch identifierType {
	case IdentifierTypeEmail:
		return strings.ToLower(normalized)
	case IdentifierTypeTwitter, IdentifierTypeFarcaster, IdentifierTypeGithub:
		normalized = strings.TrimPrefix(normalized, "@")
		return strings.ToLower(normalized)
	case IdentifierTypeWallet:
		if !strings.HasPrefix(normalized, "0x") && !strings.HasPrefix(normalized, "0X") {
			normalized = "0x" + normalized
		}
		return strings.ToLower(normalized)
	default:
		return normalized
	}
}

// Display renders an identifier for UI consumption: wallet addresses are
// shortened, handles regain their @ prefix.
func Display(identifier Identifier) string {
	switch identifier.Type {
	case IdentifierTypeWallet:
		if len(identifier.Value) >= 10 {
			return identifier.Value[:6] + "…" + identifier.Value[len(identifier.Value)-4:]
		}
		return identifier.Value
	case IdentifierTypeTwitter, IdentifierTypeFarcaster, IdentifierTypeGithub:
		return "@" + identifier.Value
	default:
		return identifier.Value
	}
}
