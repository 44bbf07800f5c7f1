package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"agora/contexts/election-governance/creator-quota-service/domain/entities"
)

// Store is the in-memory quota repository used by tests and local runs.
type Store struct {
	mu       sync.RWMutex
	profiles map[string]entities.CreatorProfile
	windows  map[string]entities.ElectionWindow
}

func NewStore() *Store {
	return &Store{
		profiles: make(map[string]entities.CreatorProfile),
		windows:  make(map[string]entities.ElectionWindow),
	}
}

func (s *Store) SaveProfile(_ context.Context, profile entities.CreatorProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[strings.TrimSpace(profile.CreatorID)] = profile
	return nil
}

func (s *Store) GetProfile(_ context.Context, creatorID string) (entities.CreatorProfile, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[strings.TrimSpace(creatorID)]
	return profile, ok, nil
}

func (s *Store) SaveWindow(_ context.Context, window entities.ElectionWindow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows[strings.TrimSpace(window.ElectionID)] = window
	return nil
}

func (s *Store) GetWindow(_ context.Context, electionID string) (entities.ElectionWindow, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	window, ok := s.windows[strings.TrimSpace(electionID)]
	return window, ok, nil
}

func (s *Store) ListWindowsByCreator(_ context.Context, creatorID string) ([]entities.ElectionWindow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	creatorID = strings.TrimSpace(creatorID)
	windows := make([]entities.ElectionWindow, 0)
	for _, window := range s.windows {
		if window.CreatorID == creatorID {
			windows = append(windows, window)
		}
	}
	sort.Slice(windows, func(i, j int) bool {
		return windows[i].ElectionID < windows[j].ElectionID
	})
	return windows, nil
}

func (s *Store) ListExpiredUnreleased(_ context.Context, now time.Time, limit int) ([]entities.ElectionWindow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = 100
	}
	windows := make([]entities.ElectionWindow, 0)
	for _, window := range s.windows {
		if !window.Released && !now.Before(window.EndsAt) {
			windows = append(windows, window)
		}
	}
	sort.Slice(windows, func(i, j int) bool {
		return windows[i].EndsAt.Before(windows[j].EndsAt)
	})
	if len(windows) > limit {
		windows = windows[:limit]
	}
	return windows, nil
}

// SystemClock implements ports.Clock on the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
