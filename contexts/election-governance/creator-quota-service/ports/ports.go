package ports

import (
	"context"
	"time"

	"agora/contexts/election-governance/creator-quota-service/domain/entities"
)

// ProfileRepository persists creator quota sheets.
type ProfileRepository interface {
	SaveProfile(ctx context.Context, profile entities.CreatorProfile) error
	GetProfile(ctx context.Context, creatorID string) (entities.CreatorProfile, bool, error)
}

// WindowRepository persists per-election quota windows.
type WindowRepository interface {
	SaveWindow(ctx context.Context, window entities.ElectionWindow) error
	GetWindow(ctx context.Context, electionID string) (entities.ElectionWindow, bool, error)
	ListWindowsByCreator(ctx context.Context, creatorID string) ([]entities.ElectionWindow, error)
	ListExpiredUnreleased(ctx context.Context, now time.Time, limit int) ([]entities.ElectionWindow, error)
}

type Clock interface {
	Now() time.Time
}
