package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	application "agora/contexts/election-governance/election-registry/application"
	"agora/contexts/election-governance/election-registry/domain/entities"
	"agora/contexts/election-governance/election-registry/ports"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

var errOutboxRowMissing = errors.New("outbox row not found")

// Repository persists elections, votes and the registry outbox in Postgres.
// Vote uniqueness is enforced by the composite primary key on
// (election_id, identifier_type, identifier_value).
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: application.ResolveLogger(logger)}
}

func (r *Repository) SaveElection(ctx context.Context, election entities.Election) error {
	rows := make([]candidateRow, 0, len(election.Candidates))
	for _, candidate := range election.Candidates {
		rows = append(rows, candidateRow{
			CandidateID: candidate.CandidateID,
			Name:        candidate.Name,
			Description: candidate.Description,
		})
	}
	candidates, err := json.Marshal(rows)
	if err != nil {
		return r.logError("registry_repo_marshal_candidates_failed", err, "election_id", election.ElectionID)
	}
	row := electionModel{
		ElectionID:  strings.TrimSpace(election.ElectionID),
		OwnerID:     strings.TrimSpace(election.OwnerID),
		Title:       election.Title,
		Description: election.Description,
		Candidates:  candidates,
		BallotType:  election.BallotType,
		ResultType:  election.ResultType,
		StartsAt:    election.StartsAt.UTC(),
		EndsAt:      election.EndsAt.UTC(),
		Private:     election.Private,
		CreatedAt:   election.CreatedAt.UTC(),
		UpdatedAt:   election.UpdatedAt.UTC(),
	}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "election_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "description", "candidates", "ballot_type", "result_type", "starts_at", "ends_at", "updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("registry_repo_save_election_failed", err, "election_id", row.ElectionID)
	}
	return nil
}

func (r *Repository) GetElection(ctx context.Context, electionID string) (entities.Election, bool, error) {
	var row electionModel
	err := r.db.WithContext(ctx).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.Election{}, false, nil
	}
	if err != nil {
		return entities.Election{}, false, r.logError("registry_repo_get_election_failed", err, "election_id", strings.TrimSpace(electionID))
	}
	election, err := row.toEntity()
	if err != nil {
		return entities.Election{}, false, r.logError("registry_repo_decode_election_failed", err, "election_id", row.ElectionID)
	}
	return election, true, nil
}

func (r *Repository) ListElections(ctx context.Context, private bool) ([]entities.Election, error) {
	var rows []electionModel
	if err := r.db.WithContext(ctx).
		Where("private = ?", private).
		Order("election_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("registry_repo_list_elections_failed", err, "private", private)
	}
	elections := make([]entities.Election, 0, len(rows))
	for _, row := range rows {
		election, err := row.toEntity()
		if err != nil {
			return nil, r.logError("registry_repo_decode_election_failed", err, "election_id", row.ElectionID)
		}
		elections = append(elections, election)
	}
	return elections, nil
}

func (r *Repository) CreateVote(ctx context.Context, vote entities.VoteRecord) (bool, error) {
	row := newVoteModel(vote)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "election_id"}, {Name: "identifier_type"}, {Name: "identifier_value"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return false, nil
		}
		return false, r.logError("registry_repo_create_vote_failed", create.Error,
			"election_id", row.ElectionID,
			"vote_id", row.VoteID,
		)
	}
	return create.RowsAffected > 0, nil
}

func (r *Repository) SaveVote(ctx context.Context, vote entities.VoteRecord) error {
	row := newVoteModel(vote)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "election_id"}, {Name: "identifier_type"}, {Name: "identifier_value"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"candidate", "sponsored",
		}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("registry_repo_save_vote_failed", err,
			"election_id", row.ElectionID,
			"vote_id", row.VoteID,
		)
	}
	return nil
}

func (r *Repository) GetVoteByIdentity(ctx context.Context, electionID string, identifierType string, value string) (entities.VoteRecord, bool, error) {
	var row voteModel
	err := r.db.WithContext(ctx).
		Where("election_id = ? AND identifier_type = ? AND identifier_value = ?",
			strings.TrimSpace(electionID), strings.TrimSpace(identifierType), strings.TrimSpace(value)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.VoteRecord{}, false, nil
	}
	if err != nil {
		return entities.VoteRecord{}, false, r.logError("registry_repo_get_vote_failed", err, "election_id", strings.TrimSpace(electionID))
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListVotesByElection(ctx context.Context, electionID string) ([]entities.VoteRecord, error) {
	var rows []voteModel
	if err := r.db.WithContext(ctx).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Order("cast_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("registry_repo_list_votes_failed", err, "election_id", strings.TrimSpace(electionID))
	}
	votes := make([]entities.VoteRecord, 0, len(rows))
	for _, row := range rows {
		votes = append(votes, row.toEntity())
	}
	return votes, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return r.logError("registry_repo_append_outbox_marshal_failed", err,
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
		return r.logError("registry_repo_append_outbox_insert_failed", err,
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
		return nil, r.logError("registry_repo_list_pending_outbox_failed", err, "limit", limit)
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
		return r.logError("registry_repo_mark_outbox_published_failed", result.Error,
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
		"module", "election-governance/election-registry",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("election registry repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type electionModel struct {
	ElectionID  string    `gorm:"column:election_id;primaryKey"`
	OwnerID     string    `gorm:"column:owner_id;index"`
	Title       string    `gorm:"column:title"`
	Description string    `gorm:"column:description"`
	Candidates  []byte    `gorm:"column:candidates"`
	BallotType  int64     `gorm:"column:ballot_type"`
	ResultType  int64     `gorm:"column:result_type"`
	StartsAt    time.Time `gorm:"column:starts_at"`
	EndsAt      time.Time `gorm:"column:ends_at"`
	Private     bool      `gorm:"column:private;index"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (electionModel) TableName() string { return "elections" }

// candidateRow is the JSON shape of one ballot entry in the candidates
// column.
type candidateRow struct {
	CandidateID int64  `json:"candidate_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (m electionModel) toEntity() (entities.Election, error) {
	var rows []candidateRow
	if len(m.Candidates) > 0 {
		if err := json.Unmarshal(m.Candidates, &rows); err != nil {
			return entities.Election{}, err
		}
	}
	candidates := make([]entities.Candidate, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, entities.Candidate{
			CandidateID: row.CandidateID,
			Name:        row.Name,
			Description: row.Description,
		})
	}
	return entities.Election{
		ElectionID:  m.ElectionID,
		OwnerID:     m.OwnerID,
		Title:       m.Title,
		Description: m.Description,
		Candidates:  candidates,
		BallotType:  m.BallotType,
		ResultType:  m.ResultType,
		StartsAt:    m.StartsAt.UTC(),
		EndsAt:      m.EndsAt.UTC(),
		Private:     m.Private,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}, nil
}

type voteModel struct {
	ElectionID      string    `gorm:"column:election_id;primaryKey"`
	IdentifierType  string    `gorm:"column:identifier_type;primaryKey"`
	IdentifierValue string    `gorm:"column:identifier_value;primaryKey"`
	VoteID          string    `gorm:"column:vote_id;uniqueIndex"`
	Candidate       string    `gorm:"column:candidate"`
	Sponsored       bool      `gorm:"column:sponsored"`
	CastAt          time.Time `gorm:"column:cast_at"`
}

func (voteModel) TableName() string { return "election_votes" }

func newVoteModel(vote entities.VoteRecord) voteModel {
	return voteModel{
		ElectionID:      strings.TrimSpace(vote.ElectionID),
		IdentifierType:  strings.TrimSpace(vote.IdentifierType),
		IdentifierValue: strings.TrimSpace(vote.IdentifierValue),
		VoteID:          strings.TrimSpace(vote.VoteID),
		Candidate:       strings.TrimSpace(vote.Candidate),
		Sponsored:       vote.Sponsored,
		CastAt:          vote.CastAt.UTC(),
	}
}

func (m voteModel) toEntity() entities.VoteRecord {
	return entities.VoteRecord{
		VoteID:          m.VoteID,
		ElectionID:      m.ElectionID,
		IdentifierType:  m.IdentifierType,
		IdentifierValue: m.IdentifierValue,
		Candidate:       m.Candidate,
		Sponsored:       m.Sponsored,
		CastAt:          m.CastAt.UTC(),
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

func (outboxModel) TableName() string { return "election_registry_outbox" }

var (
	_ ports.ElectionRepository = (*Repository)(nil)
	_ ports.VoteRepository     = (*Repository)(nil)
	_ ports.OutboxWriter       = (*Repository)(nil)
	_ ports.OutboxRepository   = (*Repository)(nil)
)
