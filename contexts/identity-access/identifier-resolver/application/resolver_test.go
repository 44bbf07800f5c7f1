package application

import (
	"errors"
	"testing"

	"agora/contexts/identity-access/identifier-resolver/domain/entities"
	domainerrors "agora/contexts/identity-access/identifier-resolver/domain/errors"
)

func TestResolvePriorityOrder(t *testing.T) {
	resolver := Resolver{}

	facets := entities.Facets{
		Social:              &entities.SocialFacet{Provider: "google", Email: "User@Example.COM"},
		SmartAccountAddress: "0x00000000000000000000000000000000000000aa",
		WalletAddress:       "0x00000000000000000000000000000000000000bb",
	}
	identifier, err := resolver.Resolve(facets)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if identifier.Type != entities.IdentifierTypeEmail || identifier.Value != "user@example.com" {
		t.Fatalf("expected normalized email identifier, got %+v", identifier)
	}

	facets.Social = nil
	identifier, err = resolver.Resolve(facets)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if identifier.Value != "0x00000000000000000000000000000000000000aa" {
		t.Fatalf("expected smart-account address before wallet, got %+v", identifier)
	}

	facets.SmartAccountAddress = ""
	identifier, err = resolver.Resolve(facets)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if identifier.Value != "0x00000000000000000000000000000000000000bb" {
		t.Fatalf("expected wallet fallback, got %+v", identifier)
	}
}

func TestResolveInvalidFacetCascades(t *testing.T) {
	resolver := Resolver{}

	identifier, err := resolver.Resolve(entities.Facets{
		Social:        &entities.SocialFacet{Provider: "google", Email: "not-an-email"},
		WalletAddress: "0x00000000000000000000000000000000000000CC",
	})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if identifier.Type != entities.IdentifierTypeWallet {
		t.Fatalf("invalid email should cascade to wallet, got %+v", identifier)
	}
	if identifier.Value != "0x00000000000000000000000000000000000000cc" {
		t.Fatalf("wallet address must be lower-cased, got %q", identifier.Value)
	}

	_, err = resolver.Resolve(entities.Facets{
		Social:        &entities.SocialFacet{Provider: "twitter", Handle: "this_handle_is_way_too_long"},
		WalletAddress: "0x1234",
	})
	if !errors.Is(err, domainerrors.ErrNoIdentifierAvailable) {
		t.Fatalf("expected ErrNoIdentifierAvailable, got %v", err)
	}
}

func TestNormalizeValuePerType(t *testing.T) {
	resolver := Resolver{}

	cases := []struct {
		name  string
		value string
		typ   entities.IdentifierType
		want  string
	}{
		{"email folds case", "User@Example.com", entities.IdentifierTypeEmail, "user@example.com"},
		{"twitter strips at", "@SomeHandle", entities.IdentifierTypeTwitter, "somehandle"},
		{"farcaster keeps suffix", "@caster.farcaster", entities.IdentifierTypeFarcaster, "caster.farcaster"},
		{"github strips at", "@Dev-User", entities.IdentifierTypeGithub, "dev-user"},
		{"wallet adds prefix", "ABCDEFabcdefABCDEFabcdefABCDEFabcdefABCD", entities.IdentifierTypeWallet, "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			identifier, err := resolver.NormalizeValue(tc.value, tc.typ)
			if err != nil {
				t.Fatalf("normalize failed: %v", err)
			}
			if identifier.Value != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, identifier.Value)
			}
		})
	}

	if _, err := resolver.NormalizeValue("anything", "phone"); !errors.Is(err, domainerrors.ErrInvalidIdentifierType) {
		t.Fatalf("expected ErrInvalidIdentifierType for unknown type, got %v", err)
	}
}

func TestParseType(t *testing.T) {
	resolver := Resolver{}
	if _, err := resolver.ParseType("Email"); err != nil {
		t.Fatalf("expected email to parse, got %v", err)
	}
	if _, err := resolver.ParseType("discord"); !errors.Is(err, domainerrors.ErrInvalidIdentifierType) {
		t.Fatalf("expected ErrInvalidIdentifierType, got %v", err)
	}
}
