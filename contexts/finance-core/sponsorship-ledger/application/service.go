package application

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"agora/contexts/finance-core/sponsorship-ledger/domain/entities"
	domainerrors "agora/contexts/finance-core/sponsorship-ledger/domain/errors"
	"agora/contexts/finance-core/sponsorship-ledger/ports"
)

// DepositCommand adds sponsor funds to an election. CallerID must be the
// election owner.
type DepositCommand struct {
	ElectionID string
	CallerID   string
	Amount     int64
}

// WithdrawCommand returns part of the remaining balance to the sponsor.
type WithdrawCommand struct {
	ElectionID string
	CallerID   string
	Amount     int64
}

// EmergencyWithdrawCommand drains the whole remaining balance. Allowed only
// when the account's emergency flag is armed or the balance exceeds the
// large-balance threshold.
type EmergencyWithdrawCommand struct {
	ElectionID string
	CallerID   string
	Reason     string
}

// StatusView is the read model for one election's sponsorship.
type StatusView struct {
	ElectionID                 string
	SponsorID                  string
	TotalDeposited             int64
	TotalSpent                 int64
	TotalWithdrawn             int64
	RemainingBalance           int64
	VotesRemaining             int64
	VotesSponsored             int64
	Sponsored                  bool
	EmergencyWithdrawalEnabled bool
}

// AnalyticsView is the per-election spend report. UtilizationRate is the
// percentage of deposits already spent on ballots; Efficiency is sponsored
// ballots delivered per ETH deposited. Both are zero for unfunded elections.
type AnalyticsView struct {
	ElectionID      string
	CostPerVote     int64
	VotesSponsored  int64
	UtilizationRate int64
	Efficiency      int64
}

// OverviewView aggregates the ledger across every account.
type OverviewView struct {
	Accounts           int
	SponsoredElections int
	TotalDeposited     int64
	TotalSpent         int64
	TotalWithdrawn     int64
	TotalRemaining     int64
}

// CheckFundsView answers whether the balance covers a number of votes.
type CheckFundsView struct {
	ElectionID       string
	RequestedVotes   int64
	Covered          bool
	VotesRemaining   int64
	RemainingBalance int64
}

// Service owns all balance mutations. Mutations on the same election are
// serialized so concurrent deposits, withdrawals and vote spends interleave
// without lost updates.
type Service struct {
	Elections ports.ElectionDirectory
	Accounts  ports.AccountRepository
	Outbox    ports.OutboxWriter
	// Quota is optional; when set, deposits claim the sponsor's creator
	// quota and withdrawals release it.
	Quota  ports.QuotaGate
	Clock  ports.Clock
	IDs    ports.IDGenerator
	Logger *slog.Logger

	mu           sync.Mutex
	accountLocks map[string]*sync.Mutex
}

// Deposit accumulates sponsor funds. Repeated deposits add up; the first one
// pins the sponsor of record.
func (s *Service) Deposit(ctx context.Context, cmd DepositCommand) (entities.SponsorshipAccount, error) {
	logger := ResolveLogger(s.Logger)
	electionID := strings.TrimSpace(cmd.ElectionID)
	callerID := strings.TrimSpace(cmd.CallerID)

	election, found, err := s.Elections.GetElection(ctx, electionID)
	if err != nil {
		return entities.SponsorshipAccount{}, err
	}
	if !found {
		return entities.SponsorshipAccount{}, domainerrors.ErrElectionNotFound
	}
	if !strings.EqualFold(strings.TrimSpace(election.OwnerID), callerID) {
		return entities.SponsorshipAccount{}, domainerrors.ErrOwnerPermissioned
	}
	if cmd.Amount < entities.MinSponsorshipAmount {
		logger.Warn("sponsorship deposit rejected",
			"event", "sponsorship_deposit_invalid_amount",
			"module", "finance-core/sponsorship-ledger",
			"layer", "application",
			"election_id", electionID,
			"amount_gwei", cmd.Amount,
		)
		return entities.SponsorshipAccount{}, domainerrors.ErrInvalidSponsorshipAmount
	}

	unlock := s.lockAccount(electionID)
	defer unlock()

	now := s.now()
	account, found, err := s.Accounts.GetAccount(ctx, electionID)
	if err != nil {
		return entities.SponsorshipAccount{}, err
	}
	if !found {
		account = entities.SponsorshipAccount{
			ElectionID: electionID,
			SponsorID:  callerID,
			CreatedAt:  now,
		}
	}
	account.TotalDeposited += cmd.Amount
	account.UpdatedAt = now
	if !account.Consistent() {
		return entities.SponsorshipAccount{}, domainerrors.ErrLedgerInconsistent
	}

	// The quota claim doubles as the cap check; a deposit past the
	// creator's sponsorship limit never reaches the account.
	if s.Quota != nil {
		if err := s.Quota.RecordDeposit(ctx, account.SponsorID, electionID, cmd.Amount); err != nil {
			logger.Warn("sponsorship deposit rejected by creator quota",
				"event", "sponsorship_deposit_quota_rejected",
				"module", "finance-core/sponsorship-ledger",
				"layer", "application",
				"election_id", electionID,
				"sponsor_id", account.SponsorID,
				"amount_gwei", cmd.Amount,
				"error", err.Error(),
			)
			return entities.SponsorshipAccount{}, err
		}
	}
	if err := s.Accounts.SaveAccount(ctx, account); err != nil {
		if s.Quota != nil {
			// Release the claim so the quota sheet does not drift.
			_ = s.Quota.RecordWithdrawal(ctx, account.SponsorID, electionID, cmd.Amount)
		}
		return entities.SponsorshipAccount{}, err
	}

	if err := s.appendEvent(ctx, EventTypeSponsorshipDeposited, electionID, now, map[string]any{
		"election_id":     electionID,
		"sponsor_id":      account.SponsorID,
		"amount_gwei":     cmd.Amount,
		"total_deposited": account.TotalDeposited,
		"remaining_gwei":  account.RemainingBalance(),
	}); err != nil {
		return entities.SponsorshipAccount{}, err
	}

	logger.Info("sponsorship deposit recorded",
		"event", "sponsorship_deposited",
		"module", "finance-core/sponsorship-ledger",
		"layer", "application",
		"election_id", electionID,
		"sponsor_id", account.SponsorID,
		"amount_gwei", cmd.Amount,
		"remaining_gwei", account.RemainingBalance(),
	)
	return account, nil
}

// Withdraw returns funds to the sponsor of record, bounded by the remaining
// balance.
func (s *Service) Withdraw(ctx context.Context, cmd WithdrawCommand) (entities.SponsorshipAccount, error) {
	logger := ResolveLogger(s.Logger)
	electionID := strings.TrimSpace(cmd.ElectionID)
	callerID := strings.TrimSpace(cmd.CallerID)
	if cmd.Amount <= 0 {
		return entities.SponsorshipAccount{}, domainerrors.ErrInvalidAmount
	}

	unlock := s.lockAccount(electionID)
	defer unlock()

	account, found, err := s.Accounts.GetAccount(ctx, electionID)
	if err != nil {
		return entities.SponsorshipAccount{}, err
	}
	if !found {
		return entities.SponsorshipAccount{}, domainerrors.ErrNoSponsorship
	}
	if !strings.EqualFold(account.SponsorID, callerID) {
		return entities.SponsorshipAccount{}, domainerrors.ErrOnlySponsorCanWithdraw
	}
	if cmd.Amount > account.RemainingBalance() {
		return entities.SponsorshipAccount{}, domainerrors.ErrInsufficientBalance
	}

	now := s.now()
	account.TotalWithdrawn += cmd.Amount
	account.UpdatedAt = now
	if !account.Consistent() {
		return entities.SponsorshipAccount{}, domainerrors.ErrLedgerInconsistent
	}
	if err := s.Accounts.SaveAccount(ctx, account); err != nil {
		return entities.SponsorshipAccount{}, err
	}

	if err := s.appendEvent(ctx, EventTypeSponsorshipWithdrawn, electionID, now, map[string]any{
		"election_id":    electionID,
		"sponsor_id":     account.SponsorID,
		"amount_gwei":    cmd.Amount,
		"remaining_gwei": account.RemainingBalance(),
	}); err != nil {
		return entities.SponsorshipAccount{}, err
	}
	s.notifyQuotaWithdrawal(ctx, account.SponsorID, electionID, cmd.Amount)

	logger.Info("sponsorship withdrawal recorded",
		"event", "sponsorship_withdrawn",
		"module", "finance-core/sponsorship-ledger",
		"layer", "application",
		"election_id", electionID,
		"sponsor_id", account.SponsorID,
		"amount_gwei", cmd.Amount,
		"remaining_gwei", account.RemainingBalance(),
	)
	return account, nil
}

// EmergencyWithdraw drains the remaining balance in one move. It requires
// either the account's armed emergency flag or a locked-up balance above
// LargeBalanceThreshold. Returns the amount withdrawn.
func (s *Service) EmergencyWithdraw(ctx context.Context, cmd EmergencyWithdrawCommand) (int64, error) {
	logger := ResolveLogger(s.Logger)
	electionID := strings.TrimSpace(cmd.ElectionID)
	callerID := strings.TrimSpace(cmd.CallerID)

	unlock := s.lockAccount(electionID)
	defer unlock()

	account, found, err := s.Accounts.GetAccount(ctx, electionID)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, domainerrors.ErrNoSponsorship
	}
	if !strings.EqualFold(account.SponsorID, callerID) {
		return 0, domainerrors.ErrOnlySponsorCanWithdraw
	}

	remaining := account.RemainingBalance()
	if remaining <= 0 {
		return 0, domainerrors.ErrInsufficientBalance
	}

	if !account.EmergencyWithdrawalEnabled && remaining <= entities.LargeBalanceThreshold {
		logger.Warn("emergency withdrawal rejected",
			"event", "sponsorship_emergency_withdrawal_rejected",
			"module", "finance-core/sponsorship-ledger",
			"layer", "application",
			"election_id", electionID,
			"remaining_gwei", remaining,
		)
		return 0, domainerrors.ErrEmergencyWithdrawalNotAllowed
	}

	now := s.now()
	account.TotalWithdrawn += remaining
	account.UpdatedAt = now
	if !account.Consistent() {
		return 0, domainerrors.ErrLedgerInconsistent
	}
	if err := s.Accounts.SaveAccount(ctx, account); err != nil {
		return 0, err
	}

	if err := s.appendEvent(ctx, EventTypeSponsorshipEmergencyWithdrawn, electionID, now, map[string]any{
		"election_id": electionID,
		"sponsor_id":  account.SponsorID,
		"amount_gwei": remaining,
		"reason":      strings.TrimSpace(cmd.Reason),
	}); err != nil {
		return 0, err
	}
	s.notifyQuotaWithdrawal(ctx, account.SponsorID, electionID, remaining)

	logger.Warn("emergency withdrawal executed",
		"event", "sponsorship_emergency_withdrawn",
		"module", "finance-core/sponsorship-ledger",
		"layer", "application",
		"election_id", electionID,
		"sponsor_id", account.SponsorID,
		"amount_gwei", remaining,
		"reason", strings.TrimSpace(cmd.Reason),
	)
	return remaining, nil
}

// EnableEmergencyWithdrawal arms the account's emergency flag. Sponsor of
// record only.
func (s *Service) EnableEmergencyWithdrawal(ctx context.Context, electionID string, callerID string) error {
	return s.setEmergencyWithdrawal(ctx, electionID, callerID, true)
}

// DisableEmergencyWithdrawal disarms the account's emergency flag. Sponsor
// of record only.
func (s *Service) DisableEmergencyWithdrawal(ctx context.Context, electionID string, callerID string) error {
	return s.setEmergencyWithdrawal(ctx, electionID, callerID, false)
}

func (s *Service) setEmergencyWithdrawal(ctx context.Context, electionID string, callerID string, enabled bool) error {
	logger := ResolveLogger(s.Logger)
	electionID = strings.TrimSpace(electionID)
	callerID = strings.TrimSpace(callerID)

	unlock := s.lockAccount(electionID)
	defer unlock()

	account, found, err := s.Accounts.GetAccount(ctx, electionID)
	if err != nil {
		return err
	}
	if !found {
		return domainerrors.ErrNoSponsorship
	}
	if !strings.EqualFold(account.SponsorID, callerID) {
		return domainerrors.ErrOnlySponsorCanWithdraw
	}

	account.EmergencyWithdrawalEnabled = enabled
	account.UpdatedAt = s.now()
	if err := s.Accounts.SaveAccount(ctx, account); err != nil {
		return err
	}
	logger.Info("emergency withdrawal flag changed",
		"event", "sponsorship_emergency_flag_changed",
		"module", "finance-core/sponsorship-ledger",
		"layer", "application",
		"election_id", electionID,
		"sponsor_id", account.SponsorID,
		"enabled", enabled,
	)
	return nil
}

// TrySpendForVote deducts one vote's cost if the balance covers it. A
// depleted or missing account is not an error: the ballot simply goes out
// unsponsored.
func (s *Service) TrySpendForVote(ctx context.Context, electionID string, voteID string) (bool, error) {
	logger := ResolveLogger(s.Logger)
	electionID = strings.TrimSpace(electionID)

	unlock := s.lockAccount(electionID)
	defer unlock()

	account, found, err := s.Accounts.GetAccount(ctx, electionID)
	if err != nil {
		return false, err
	}
	if !found || account.RemainingBalance() < entities.CostPerVote {
		return false, nil
	}

	now := s.now()
	account.TotalSpent += entities.CostPerVote
	account.UpdatedAt = now
	if !account.Consistent() {
		return false, domainerrors.ErrLedgerInconsistent
	}
	if err := s.Accounts.SaveAccount(ctx, account); err != nil {
		return false, err
	}

	// A lost event is acceptable here; a failed vote over a bookkeeping
	// hiccup is not.
	if err := s.appendEvent(ctx, EventTypeVoteSponsored, electionID, now, map[string]any{
		"election_id":    electionID,
		"vote_id":        voteID,
		"cost_gwei":      entities.CostPerVote,
		"remaining_gwei": account.RemainingBalance(),
	}); err != nil {
		logger.Error("sponsored vote event append failed",
			"event", "sponsorship_vote_event_failed",
			"module", "finance-core/sponsorship-ledger",
			"layer", "application",
			"election_id", electionID,
			"vote_id", voteID,
			"error", err.Error(),
		)
	}

	logger.Debug("vote paid from sponsorship",
		"event", "sponsorship_vote_spent",
		"module", "finance-core/sponsorship-ledger",
		"layer", "application",
		"election_id", electionID,
		"vote_id", voteID,
		"remaining_gwei", account.RemainingBalance(),
	)
	return true, nil
}

// Status returns the read model for one election. Elections without an
// account report a zeroed, unsponsored status.
func (s *Service) Status(ctx context.Context, electionID string) (StatusView, error) {
	electionID = strings.TrimSpace(electionID)
	_, found, err := s.Elections.GetElection(ctx, electionID)
	if err != nil {
		return StatusView{}, err
	}
	if !found {
		return StatusView{}, domainerrors.ErrElectionNotFound
	}

	account, accountFound, err := s.Accounts.GetAccount(ctx, electionID)
	if err != nil {
		return StatusView{}, err
	}
	if !accountFound {
		return StatusView{ElectionID: electionID}, nil
	}
	return StatusView{
		ElectionID:                 account.ElectionID,
		SponsorID:                  account.SponsorID,
		TotalDeposited:             account.TotalDeposited,
		TotalSpent:                 account.TotalSpent,
		TotalWithdrawn:             account.TotalWithdrawn,
		RemainingBalance:           account.RemainingBalance(),
		VotesRemaining:             account.VotesRemaining(),
		VotesSponsored:             account.VotesSponsored(),
		Sponsored:                  account.IsSponsored(),
		EmergencyWithdrawalEnabled: account.EmergencyWithdrawalEnabled,
	}, nil
}

// Analytics is the per-election spend report. An election without an
// account reports all-zero analytics rather than an error.
func (s *Service) Analytics(ctx context.Context, electionID string) (AnalyticsView, error) {
	electionID = strings.TrimSpace(electionID)
	_, found, err := s.Elections.GetElection(ctx, electionID)
	if err != nil {
		return AnalyticsView{}, err
	}
	if !found {
		return AnalyticsView{}, domainerrors.ErrElectionNotFound
	}

	account, accountFound, err := s.Accounts.GetAccount(ctx, electionID)
	if err != nil {
		return AnalyticsView{}, err
	}
	view := AnalyticsView{ElectionID: electionID}
	if !accountFound || account.TotalDeposited == 0 {
		return view, nil
	}
	view.CostPerVote = entities.CostPerVote
	view.VotesSponsored = account.VotesSponsored()
	view.UtilizationRate = account.TotalSpent * 100 / account.TotalDeposited
	view.Efficiency = view.VotesSponsored * 1_000_000_000 / account.TotalDeposited
	return view, nil
}

// Overview aggregates every account for operator dashboards.
func (s *Service) Overview(ctx context.Context) (OverviewView, error) {
	accounts, err := s.Accounts.ListAccounts(ctx)
	if err != nil {
		return OverviewView{}, err
	}
	view := OverviewView{Accounts: len(accounts)}
	for _, account := range accounts {
		view.TotalDeposited += account.TotalDeposited
		view.TotalSpent += account.TotalSpent
		view.TotalWithdrawn += account.TotalWithdrawn
		view.TotalRemaining += account.RemainingBalance()
		if account.IsSponsored() {
			view.SponsoredElections++
		}
	}
	return view, nil
}

// CheckFunds reports whether the balance covers votes more ballots.
func (s *Service) CheckFunds(ctx context.Context, electionID string, votes int64) (CheckFundsView, error) {
	electionID = strings.TrimSpace(electionID)
	account, found, err := s.Accounts.GetAccount(ctx, electionID)
	if err != nil {
		return CheckFundsView{}, err
	}
	view := CheckFundsView{
		ElectionID:     electionID,
		RequestedVotes: votes,
	}
	if !found {
		view.Covered = votes <= 0
		return view, nil
	}
	view.Covered = account.CanCoverVotes(votes)
	view.VotesRemaining = account.VotesRemaining()
	view.RemainingBalance = account.RemainingBalance()
	return view, nil
}

// IsSponsored is the single-flag convenience read used by election listings.
func (s *Service) IsSponsored(ctx context.Context, electionID string) (bool, error) {
	account, found, err := s.Accounts.GetAccount(ctx, strings.TrimSpace(electionID))
	if err != nil {
		return false, err
	}
	return found && account.IsSponsored(), nil
}

// notifyQuotaWithdrawal releases quota already claimed by a deposit. The
// funds have left the ledger by the time this runs, so a failed notification
// is logged rather than turned into a caller-visible error.
func (s *Service) notifyQuotaWithdrawal(ctx context.Context, sponsorID string, electionID string, amount int64) {
	if s.Quota == nil || amount <= 0 {
		return
	}
	if err := s.Quota.RecordWithdrawal(ctx, sponsorID, electionID, amount); err != nil {
		ResolveLogger(s.Logger).Warn("creator quota withdrawal notification failed",
			"event", "sponsorship_quota_notify_failed",
			"module", "finance-core/sponsorship-ledger",
			"layer", "application",
			"election_id", electionID,
			"sponsor_id", sponsorID,
			"amount_gwei", amount,
			"error", err.Error(),
		)
	}
}

func (s *Service) appendEvent(ctx context.Context, eventType string, electionID string, occurredAt time.Time, data map[string]any) error {
	if s.Outbox == nil {
		return nil
	}
	eventID, err := s.IDs.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newLedgerEnvelope(eventID, eventType, electionID, occurredAt, data)
	if err != nil {
		return err
	}
	return s.Outbox.AppendOutbox(ctx, envelope)
}

func (s *Service) lockAccount(electionID string) func() {
	key := strings.TrimSpace(electionID)
	s.mu.Lock()
	if s.accountLocks == nil {
		s.accountLocks = make(map[string]*sync.Mutex)
	}
	lock, ok := s.accountLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.accountLocks[key] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
