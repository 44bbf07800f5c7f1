package application

import (
	"log/slog"
	"strings"

	"agora/contexts/identity-access/identifier-resolver/domain/entities"
	domainerrors "agora/contexts/identity-access/identifier-resolver/domain/errors"
)

// Resolver turns session facets into one canonical identifier.
//
// Priority is social login > smart-account address > wallet address. A facet
// that fails its format check is treated as absent so resolution cascades to
// the next priority. Callers must re-resolve on every operation: social login
// completes asynchronously, so facets can appear after the first call.
type Resolver struct {
	Logger *slog.Logger
}

// Resolve returns the highest-priority valid identifier, normalized.
func (r Resolver) Resolve(facets entities.Facets) (entities.Identifier, error) {
	if identifier, ok := resolveSocial(facets.Social); ok {
		return identifier, nil
	}
	if identifier, ok := resolveWallet(facets.SmartAccountAddress); ok {
		return identifier, nil
	}
	if identifier, ok := resolveWallet(facets.WalletAddress); ok {
		return identifier, nil
	}
	resolveLogger(r.Logger).Debug("no identifier facet resolved",
		"event", "identifier_resolution_empty",
		"module", "identity-access/identifier-resolver",
		"layer", "application",
	)
	return entities.Identifier{}, domainerrors.ErrNoIdentifierAvailable
}

// ParseType maps an external type name onto the known identifier types.
func (r Resolver) ParseType(raw string) (entities.IdentifierType, error) {
	if !entities.KnownIdentifierType(raw) {
		return "", domainerrors.ErrInvalidIdentifierType
	}
	return entities.IdentifierType(strings.ToLower(strings.TrimSpace(raw))), nil
}

// NormalizeValue validates and normalizes a single presented identifier.
func (r Resolver) NormalizeValue(value string, identifierType entities.IdentifierType) (entities.Identifier, error) {
	if !entities.KnownIdentifierType(string(identifierType)) {
		return entities.Identifier{}, domainerrors.ErrInvalidIdentifierType
	}
	if !entities.Valid(value, identifierType) {
		return entities.Identifier{}, domainerrors.ErrNoIdentifierAvailable
	}
	return entities.Identifier{
		Type:  identifierType,
		Value: entities.Normalize(value, identifierType),
	}, nil
}

func resolveSocial(facet *entities.SocialFacet) (entities.Identifier, bool) {
	if facet == nil {
		return entities.Identifier{}, false
	}
	provider := strings.ToLower(strings.TrimSpace(facet.Provider))
	switch provider {
	case "google", "email":
		if entities.Valid(facet.Email, entities.IdentifierTypeEmail) {
			return entities.Identifier{
				Type:  entities.IdentifierTypeEmail,
				Value: entities.Normalize(facet.Email, entities.IdentifierTypeEmail),
			}, true
		}
	case "twitter":
		if entities.Valid(facet.Handle, entities.IdentifierTypeTwitter) {
			return entities.Identifier{
				Type:  entities.IdentifierTypeTwitter,
				Value: entities.Normalize(facet.Handle, entities.IdentifierTypeTwitter),
			}, true
		}
	case "farcaster":
		if entities.Valid(facet.Handle, entities.IdentifierTypeFarcaster) {
			return entities.Identifier{
				Type:  entities.IdentifierTypeFarcaster,
				Value: entities.Normalize(facet.Handle, entities.IdentifierTypeFarcaster),
			}, true
		}
	case "github":
		if entities.Valid(facet.Handle, entities.IdentifierTypeGithub) {
			return entities.Identifier{
				Type:  entities.IdentifierTypeGithub,
				Value: entities.Normalize(facet.Handle, entities.IdentifierTypeGithub),
			}, true
		}
	}
	// Unknown provider: fall back to the email facet if one is present, the
	// way a generic social login exposes only an email claim.
	if entities.Valid(facet.Email, entities.IdentifierTypeEmail) {
		return entities.Identifier{
			Type:  entities.IdentifierTypeEmail,
			Value: entities.Normalize(facet.Email, entities.IdentifierTypeEmail),
		}, true
	}
	return entities.Identifier{}, false
}

func resolveWallet(address string) (entities.Identifier, bool) {
	if !entities.Valid(address, entities.IdentifierTypeWallet) {
		return entities.Identifier{}, false
	}
	return entities.Identifier{
		Type:  entities.IdentifierTypeWallet,
		Value: entities.Normalize(address, entities.IdentifierTypeWallet),
	}, true
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
