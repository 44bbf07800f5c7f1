package workers_test

import (
	"context"
	"testing"
	"time"

	"agora/contexts/election-governance/creator-quota-service/adapters/memory"
	"agora/contexts/election-governance/creator-quota-service/application"
	"agora/contexts/election-governance/creator-quota-service/application/workers"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func TestSweeperReleasesExpiredWindows(t *testing.T) {
	store := memory.NewStore()
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service := &application.Service{
		Profiles: store,
		Windows:  store,
		Clock:    fixedClock{now: start},
		Operator: "registry-operator",
	}

	ctx := context.Background()
	if err := service.RecordCreation(ctx, "alice", "e-expired", start.Add(time.Hour)); err != nil {
		t.Fatalf("creation failed: %v", err)
	}
	if err := service.RecordCreation(ctx, "alice", "e-live", start.Add(48*time.Hour)); err != nil {
		t.Fatalf("creation failed: %v", err)
	}
	if err := service.RecordDeposit(ctx, "alice", "e-expired", 5_000_000); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	sweeper := workers.DeadlineSweeper{
		Service: service,
		Windows: store,
		Clock:   fixedClock{now: start.Add(2 * time.Hour)},
	}
	if err := sweeper.RunOnce(ctx); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	expired, _, err := store.GetWindow(ctx, "e-expired")
	if err != nil {
		t.Fatalf("get window failed: %v", err)
	}
	if !expired.Released || expired.SponsorshipHeld != 0 {
		t.Fatalf("expired window not released: %+v", expired)
	}
	live, _, err := store.GetWindow(ctx, "e-live")
	if err != nil {
		t.Fatalf("get window failed: %v", err)
	}
	if live.Released {
		t.Fatal("live window should not be released")
	}

	profile, err := service.Profile(ctx, "alice")
	if err != nil {
		t.Fatalf("profile failed: %v", err)
	}
	if profile.SponsorshipHeld != 0 {
		t.Fatalf("held = %d, want 0", profile.SponsorshipHeld)
	}
}
