package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"agora/contexts/election-governance/whitelist-registry/domain/entities"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) UpsertEntry(ctx context.Context, entry entities.WhitelistEntry) error {
	row := entryModelFromEntity(entry)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "election_id"},
			{Name: "identifier_type"},
			{Name: "value"},
		},
		DoUpdates: clause.Assignments(map[string]any{
			"active":     row.Active,
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("whitelist_repo_upsert_entry_failed", create.Error,
			"election_id", row.ElectionID,
			"identifier_type", row.IdentifierType,
		)
	}
	return nil
}

func (r *Repository) GetEntry(
	ctx context.Context,
	electionID string,
	identifierType entities.IdentifierType,
	value string,
) (entities.WhitelistEntry, bool, error) {
	var row entryModel
	err := r.db.WithContext(ctx).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Where("identifier_type = ?", string(identifierType)).
		Where("value = ?", strings.TrimSpace(value)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.WhitelistEntry{}, false, nil
		}
		return entities.WhitelistEntry{}, false, r.logError("whitelist_repo_get_entry_failed", err,
			"election_id", strings.TrimSpace(electionID),
			"identifier_type", string(identifierType),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListEntriesByElection(ctx context.Context, electionID string) ([]entities.WhitelistEntry, error) {
	var rows []entryModel
	err := r.db.WithContext(ctx).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Order("identifier_type ASC, value ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("whitelist_repo_list_entries_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	items := make([]entities.WhitelistEntry, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "election-governance/whitelist-registry",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("whitelist repository operation failed", fields...)
	return err
}

type entryModel struct {
	ElectionID     string    `gorm:"column:election_id;primaryKey"`
	IdentifierType string    `gorm:"column:identifier_type;primaryKey"`
	Value          string    `gorm:"column:value;primaryKey"`
	Active         bool      `gorm:"column:active"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (entryModel) TableName() string {
	return "whitelist_entries"
}

func entryModelFromEntity(entry entities.WhitelistEntry) entryModel {
	row := entryModel{
		ElectionID:     strings.TrimSpace(entry.ElectionID),
		IdentifierType: string(entry.IdentifierType),
		Value:          strings.TrimSpace(entry.Value),
		Active:         entry.Active,
		CreatedAt:      entry.CreatedAt.UTC(),
		UpdatedAt:      entry.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m entryModel) toEntity() entities.WhitelistEntry {
	return entities.WhitelistEntry{
		ElectionID:     m.ElectionID,
		IdentifierType: entities.IdentifierType(m.IdentifierType),
		Value:          m.Value,
		Active:         m.Active,
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}

// SystemClock satisfies the service clock port in production wiring.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
