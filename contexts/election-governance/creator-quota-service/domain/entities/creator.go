package entities

import "time"

const (
	// MaxActiveElectionsPerCreator caps concurrently running elections.
	MaxActiveElectionsPerCreator = 10

	// MaxSponsorshipPerCreator caps the total sponsorship a creator may
	// have locked across all active elections (10 ETH, in gwei).
	MaxSponsorshipPerCreator int64 = 10_000_000_000
)

// CreatorProfile is the per-creator quota sheet. SponsorshipHeld is the
// amount currently locked against the cap; the Total fields are lifetime
// counters and only ever grow.
type CreatorProfile struct {
	CreatorID       string
	Blacklisted     bool
	SponsorshipHeld int64
	TotalElections  int
	TotalDeposited  int64
	TotalWithdrawn  int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ElectionWindow tracks one election against its creator's quota. A window
// counts toward the active-election quota until it is released or its
// deadline passes.
type ElectionWindow struct {
	ElectionID      string
	CreatorID       string
	EndsAt          time.Time
	SponsorshipHeld int64
	Released        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ActiveAt reports whether the window still occupies a quota slot.
func (w ElectionWindow) ActiveAt(now time.Time) bool {
	return !w.Released && now.Before(w.EndsAt)
}
