package postgres

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	application "agora/contexts/election-governance/creator-quota-service/application"
	"agora/contexts/election-governance/creator-quota-service/domain/entities"
)

// Repository persists creator profiles and quota windows in Postgres.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: application.ResolveLogger(logger)}
}

func (r *Repository) SaveProfile(ctx context.Context, profile entities.CreatorProfile) error {
	row := profileModel{
		CreatorID:       strings.TrimSpace(profile.CreatorID),
		Blacklisted:     profile.Blacklisted,
		SponsorshipHeld: profile.SponsorshipHeld,
		TotalElections:  profile.TotalElections,
		TotalDeposited:  profile.TotalDeposited,
		TotalWithdrawn:  profile.TotalWithdrawn,
		CreatedAt:       profile.CreatedAt.UTC(),
		UpdatedAt:       profile.UpdatedAt.UTC(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "creator_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"blacklisted", "sponsorship_held", "total_elections",
			"total_deposited", "total_withdrawn", "updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("quota_repo_save_profile_failed", err, "creator_id", row.CreatorID)
	}
	return nil
}

func (r *Repository) GetProfile(ctx context.Context, creatorID string) (entities.CreatorProfile, bool, error) {
	var row profileModel
	err := r.db.WithContext(ctx).
		Where("creator_id = ?", strings.TrimSpace(creatorID)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.CreatorProfile{}, false, nil
	}
	if err != nil {
		return entities.CreatorProfile{}, false, r.logError("quota_repo_get_profile_failed", err, "creator_id", strings.TrimSpace(creatorID))
	}
	return row.toEntity(), true, nil
}

func (r *Repository) SaveWindow(ctx context.Context, window entities.ElectionWindow) error {
	row := windowModel{
		ElectionID:      strings.TrimSpace(window.ElectionID),
		CreatorID:       strings.TrimSpace(window.CreatorID),
		EndsAt:          window.EndsAt.UTC(),
		SponsorshipHeld: window.SponsorshipHeld,
		Released:        window.Released,
		CreatedAt:       window.CreatedAt.UTC(),
		UpdatedAt:       window.UpdatedAt.UTC(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "election_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"ends_at", "sponsorship_held", "released", "updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("quota_repo_save_window_failed", err, "election_id", row.ElectionID)
	}
	return nil
}

func (r *Repository) GetWindow(ctx context.Context, electionID string) (entities.ElectionWindow, bool, error) {
	var row windowModel
	err := r.db.WithContext(ctx).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.ElectionWindow{}, false, nil
	}
	if err != nil {
		return entities.ElectionWindow{}, false, r.logError("quota_repo_get_window_failed", err, "election_id", strings.TrimSpace(electionID))
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListWindowsByCreator(ctx context.Context, creatorID string) ([]entities.ElectionWindow, error) {
	var rows []windowModel
	if err := r.db.WithContext(ctx).
		Where("creator_id = ?", strings.TrimSpace(creatorID)).
		Order("election_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("quota_repo_list_windows_failed", err, "creator_id", strings.TrimSpace(creatorID))
	}
	return toEntities(rows), nil
}

func (r *Repository) ListExpiredUnreleased(ctx context.Context, now time.Time, limit int) ([]entities.ElectionWindow, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []windowModel
	if err := r.db.WithContext(ctx).
		Where("released = ? AND ends_at <= ?", false, now.UTC()).
		Order("ends_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("quota_repo_list_expired_failed", err, "limit", limit)
	}
	return toEntities(rows), nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "election-governance/creator-quota-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("creator quota repository operation failed", fields...)
	return err
}

func toEntities(rows []windowModel) []entities.ElectionWindow {
	windows := make([]entities.ElectionWindow, 0, len(rows))
	for _, row := range rows {
		windows = append(windows, row.toEntity())
	}
	return windows
}

type profileModel struct {
	CreatorID       string    `gorm:"column:creator_id;primaryKey"`
	Blacklisted     bool      `gorm:"column:blacklisted"`
	SponsorshipHeld int64     `gorm:"column:sponsorship_held"`
	TotalElections  int       `gorm:"column:total_elections"`
	TotalDeposited  int64     `gorm:"column:total_deposited"`
	TotalWithdrawn  int64     `gorm:"column:total_withdrawn"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (profileModel) TableName() string { return "creator_profiles" }

func (m profileModel) toEntity() entities.CreatorProfile {
	return entities.CreatorProfile{
		CreatorID:       m.CreatorID,
		Blacklisted:     m.Blacklisted,
		SponsorshipHeld: m.SponsorshipHeld,
		TotalElections:  m.TotalElections,
		TotalDeposited:  m.TotalDeposited,
		TotalWithdrawn:  m.TotalWithdrawn,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}

type windowModel struct {
	ElectionID      string    `gorm:"column:election_id;primaryKey"`
	CreatorID       string    `gorm:"column:creator_id;index"`
	EndsAt          time.Time `gorm:"column:ends_at"`
	SponsorshipHeld int64     `gorm:"column:sponsorship_held"`
	Released        bool      `gorm:"column:released"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (windowModel) TableName() string { return "creator_election_windows" }

func (m windowModel) toEntity() entities.ElectionWindow {
	return entities.ElectionWindow{
		ElectionID:      m.ElectionID,
		CreatorID:       m.CreatorID,
		EndsAt:          m.EndsAt.UTC(),
		SponsorshipHeld: m.SponsorshipHeld,
		Released:        m.Released,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}
