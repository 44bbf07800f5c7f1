package application_test

import (
	"context"
	"errors"
	"testing"

	whitelistregistry "agora/contexts/election-governance/whitelist-registry"
	"agora/contexts/election-governance/whitelist-registry/application"
	domainerrors "agora/contexts/election-governance/whitelist-registry/domain/errors"
	"agora/contexts/election-governance/whitelist-registry/ports"
)

func newPrivateElectionModule(t *testing.T) whitelistregistry.Module {
	t.Helper()
	module := whitelistregistry.NewInMemoryModule(nil, nil)
	module.Store.SetElection(ports.ElectionProjection{
		ElectionID: "election-1",
		OwnerID:    "owner-1",
		Private:    true,
	})
	module.Store.SetElection(ports.ElectionProjection{
		ElectionID: "election-pub",
		OwnerID:    "owner-1",
		Private:    false,
	})
	return module
}

func TestAddMembershipAndRemove(t *testing.T) {
	module := newPrivateElectionModule(t)
	ctx := context.Background()

	added, err := module.Service.Add(ctx, application.AddEntriesCommand{
		ElectionID: "election-1",
		CallerID:   "owner-1",
		Entries: []application.EntryInput{
			{IdentifierType: "email", Value: "User@Example.com"},
		},
	})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if added != 1 {
		t.Fatalf("expected 1 activated entry, got %d", added)
	}

	member, err := module.Service.IsMember(ctx, "election-1", "email", "user@example.com")
	if err != nil || !member {
		t.Fatalf("expected membership for normalized email, got member=%v err=%v", member, err)
	}
	member, err = module.Service.IsMember(ctx, "election-1", "email", "other@example.com")
	if err != nil || member {
		t.Fatalf("expected no membership for other email, got member=%v err=%v", member, err)
	}

	if err := module.Service.Remove(ctx, application.RemoveEntriesCommand{
		ElectionID: "election-1",
		CallerID:   "owner-1",
		Entries: []application.EntryInput{
			{IdentifierType: "email", Value: "user@example.com"},
		},
	}); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	member, err = module.Service.IsMember(ctx, "election-1", "email", "user@example.com")
	if err != nil || member {
		t.Fatalf("expected membership revoked, got member=%v err=%v", member, err)
	}

	// Soft delete keeps the row for audit.
	entries, err := module.Service.ListEntries(ctx, "election-1", "owner-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Active {
		t.Fatalf("expected one inactive audit row, got %+v", entries)
	}
}

func TestAddIsIdempotent(t *testing.T) {
	module := newPrivateElectionModule(t)
	ctx := context.Background()

	cmd := application.AddEntriesCommand{
		ElectionID: "election-1",
		CallerID:   "owner-1",
		Entries: []application.EntryInput{
			{IdentifierType: "twitter", Value: "@handle"},
		},
	}
	if _, err := module.Service.Add(ctx, cmd); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	added, err := module.Service.Add(ctx, cmd)
	if err != nil {
		t.Fatalf("duplicate add failed: %v", err)
	}
	if added != 0 {
		t.Fatalf("duplicate add must be a no-op, activated %d", added)
	}
	if size := module.Store.ActiveCount("election-1"); size != 1 {
		t.Fatalf("set size changed on duplicate add: %d", size)
	}
}

func TestOwnerPermissioned(t *testing.T) {
	module := newPrivateElectionModule(t)
	ctx := context.Background()

	_, err := module.Service.Add(ctx, application.AddEntriesCommand{
		ElectionID: "election-1",
		CallerID:   "intruder",
		Entries: []application.EntryInput{
			{IdentifierType: "email", Value: "user@example.com"},
		},
	})
	if !errors.Is(err, domainerrors.ErrOwnerPermissioned) {
		t.Fatalf("expected ErrOwnerPermissioned, got %v", err)
	}

	err = module.Service.Remove(ctx, application.RemoveEntriesCommand{
		ElectionID: "election-1",
		CallerID:   "intruder",
		Entries: []application.EntryInput{
			{IdentifierType: "email", Value: "user@example.com"},
		},
	})
	if !errors.Is(err, domainerrors.ErrOwnerPermissioned) {
		t.Fatalf("expected ErrOwnerPermissioned, got %v", err)
	}
}

func TestInvalidEntriesRejected(t *testing.T) {
	module := newPrivateElectionModule(t)
	ctx := context.Background()

	_, err := module.Service.Add(ctx, application.AddEntriesCommand{
		ElectionID: "election-1",
		CallerID:   "owner-1",
		Entries: []application.EntryInput{
			{IdentifierType: "phone", Value: "555-0100"},
		},
	})
	if !errors.Is(err, domainerrors.ErrInvalidWhitelistEntry) {
		t.Fatalf("expected ErrInvalidWhitelistEntry for unknown type, got %v", err)
	}

	_, err = module.Service.Add(ctx, application.AddEntriesCommand{
		ElectionID: "election-1",
		CallerID:   "owner-1",
		Entries: []application.EntryInput{
			{IdentifierType: "twitter", Value: "@"},
		},
	})
	if !errors.Is(err, domainerrors.ErrInvalidWhitelistEntry) {
		t.Fatalf("expected ErrInvalidWhitelistEntry for empty normalized value, got %v", err)
	}
}

func TestCanAccessVisibilityRules(t *testing.T) {
	module := newPrivateElectionModule(t)
	ctx := context.Background()

	allowed, err := module.Service.CanAccess(ctx, "election-pub", "email", "anyone@example.com")
	if err != nil || !allowed {
		t.Fatalf("public election must admit everyone, got allowed=%v err=%v", allowed, err)
	}

	allowed, err = module.Service.CanAccess(ctx, "election-1", "email", "user@example.com")
	if err != nil || allowed {
		t.Fatalf("private election must require membership, got allowed=%v err=%v", allowed, err)
	}

	if _, err := module.Service.Add(ctx, application.AddEntriesCommand{
		ElectionID: "election-1",
		CallerID:   "owner-1",
		Entries: []application.EntryInput{
			{IdentifierType: "email", Value: "user@example.com"},
		},
	}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	allowed, err = module.Service.CanAccess(ctx, "election-1", "email", "user@example.com")
	if err != nil || !allowed {
		t.Fatalf("whitelisted identifier must access private election, got allowed=%v err=%v", allowed, err)
	}
}
