package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	application "agora/contexts/finance-core/sponsorship-ledger/application"
	"agora/contexts/finance-core/sponsorship-ledger/domain/entities"
	"agora/contexts/finance-core/sponsorship-ledger/ports"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

var errOutboxRowMissing = errors.New("outbox row not found")

// Repository persists sponsorship accounts and the event outbox in
// Postgres.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: application.ResolveLogger(logger)}
}

func (r *Repository) SaveAccount(ctx context.Context, account entities.SponsorshipAccount) error {
	row := accountModel{
		ElectionID:                 strings.TrimSpace(account.ElectionID),
		SponsorID:                  strings.TrimSpace(account.SponsorID),
		TotalDeposited:             account.TotalDeposited,
		TotalSpent:                 account.TotalSpent,
		TotalWithdrawn:             account.TotalWithdrawn,
		EmergencyWithdrawalEnabled: account.EmergencyWithdrawalEnabled,
		CreatedAt:                  account.CreatedAt.UTC(),
		UpdatedAt:                  account.UpdatedAt.UTC(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "election_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_deposited", "total_spent", "total_withdrawn",
			"emergency_withdrawal_enabled", "updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("ledger_repo_save_account_failed", err, "election_id", row.ElectionID)
	}
	return nil
}

func (r *Repository) GetAccount(ctx context.Context, electionID string) (entities.SponsorshipAccount, bool, error) {
	var row accountModel
	err := r.db.WithContext(ctx).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.SponsorshipAccount{}, false, nil
	}
	if err != nil {
		return entities.SponsorshipAccount{}, false, r.logError("ledger_repo_get_account_failed", err, "election_id", strings.TrimSpace(electionID))
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListAccounts(ctx context.Context) ([]entities.SponsorshipAccount, error) {
	var rows []accountModel
	if err := r.db.WithContext(ctx).
		Order("election_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("ledger_repo_list_accounts_failed", err)
	}
	accounts := make([]entities.SponsorshipAccount, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, row.toEntity())
	}
	return accounts, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return r.logError("ledger_repo_append_outbox_marshal_failed", err,
			"event_id", strings.TrimSpace(envelope.EventID),
			"event_type", strings.TrimSpace(envelope.EventType),
		)
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "outbox_id"}},
		DoNothing: true,
	}).Create(&row).Error
	if err != nil {
		return r.logError("ledger_repo_append_outbox_insert_failed", err,
			"outbox_id", row.OutboxID,
		)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("ledger_repo_list_pending_outbox_failed", err, "limit", limit)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("ledger_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	if result.RowsAffected == 0 {
		return errOutboxRowMissing
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "finance-core/sponsorship-ledger",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("sponsorship ledger repository operation failed", fields...)
	return err
}

type accountModel struct {
	ElectionID                 string    `gorm:"column:election_id;primaryKey"`
	SponsorID                  string    `gorm:"column:sponsor_id"`
	TotalDeposited             int64     `gorm:"column:total_deposited"`
	TotalSpent                 int64     `gorm:"column:total_spent"`
	TotalWithdrawn             int64     `gorm:"column:total_withdrawn"`
	EmergencyWithdrawalEnabled bool      `gorm:"column:emergency_withdrawal_enabled"`
	CreatedAt                  time.Time `gorm:"column:created_at"`
	UpdatedAt                  time.Time `gorm:"column:updated_at"`
}

func (accountModel) TableName() string { return "sponsorship_accounts" }

func (m accountModel) toEntity() entities.SponsorshipAccount {
	return entities.SponsorshipAccount{
		ElectionID:                 m.ElectionID,
		SponsorID:                  m.SponsorID,
		TotalDeposited:             m.TotalDeposited,
		TotalSpent:                 m.TotalSpent,
		TotalWithdrawn:             m.TotalWithdrawn,
		EmergencyWithdrawalEnabled: m.EmergencyWithdrawalEnabled,
		CreatedAt:                  m.CreatedAt.UTC(),
		UpdatedAt:                  m.UpdatedAt.UTC(),
	}
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string { return "sponsorship_ledger_outbox" }

var (
	_ ports.AccountRepository = (*Repository)(nil)
	_ ports.OutboxWriter      = (*Repository)(nil)
	_ ports.OutboxRepository  = (*Repository)(nil)
)
