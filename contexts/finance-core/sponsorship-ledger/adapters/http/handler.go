package httpadapter

import (
	"context"
	"log/slog"

	"agora/contexts/finance-core/sponsorship-ledger/application"
	"agora/contexts/finance-core/sponsorship-ledger/domain/entities"
	httptransport "agora/contexts/finance-core/sponsorship-ledger/transport/http"
)

type Handler struct {
	Service *application.Service
	Logger  *slog.Logger
}

func (h Handler) DepositHandler(
	ctx context.Context,
	electionID string,
	callerID string,
	req httptransport.DepositRequest,
) (httptransport.SponsorshipResponse, error) {
	account, err := h.Service.Deposit(ctx, application.DepositCommand{
		ElectionID: electionID,
		CallerID:   callerID,
		Amount:     req.Amount,
	})
	if err != nil {
		return httptransport.SponsorshipResponse{}, err
	}
	return toSponsorshipResponse(account), nil
}

func (h Handler) WithdrawHandler(
	ctx context.Context,
	electionID string,
	callerID string,
	req httptransport.WithdrawRequest,
) (httptransport.SponsorshipResponse, error) {
	account, err := h.Service.Withdraw(ctx, application.WithdrawCommand{
		ElectionID: electionID,
		CallerID:   callerID,
		Amount:     req.Amount,
	})
	if err != nil {
		return httptransport.SponsorshipResponse{}, err
	}
	return toSponsorshipResponse(account), nil
}

func (h Handler) EmergencyWithdrawHandler(
	ctx context.Context,
	electionID string,
	callerID string,
	req httptransport.EmergencyWithdrawRequest,
) (httptransport.EmergencyWithdrawResponse, error) {
	withdrawn, err := h.Service.EmergencyWithdraw(ctx, application.EmergencyWithdrawCommand{
		ElectionID: electionID,
		CallerID:   callerID,
		Reason:     req.Reason,
	})
	if err != nil {
		return httptransport.EmergencyWithdrawResponse{}, err
	}
	return httptransport.EmergencyWithdrawResponse{
		ElectionID: electionID,
		Withdrawn:  withdrawn,
	}, nil
}

func (h Handler) EnableEmergencyHandler(ctx context.Context, electionID string, callerID string) (httptransport.EmergencyFlagResponse, error) {
	if err := h.Service.EnableEmergencyWithdrawal(ctx, electionID, callerID); err != nil {
		return httptransport.EmergencyFlagResponse{}, err
	}
	return httptransport.EmergencyFlagResponse{ElectionID: electionID, Enabled: true}, nil
}

func (h Handler) DisableEmergencyHandler(ctx context.Context, electionID string, callerID string) (httptransport.EmergencyFlagResponse, error) {
	if err := h.Service.DisableEmergencyWithdrawal(ctx, electionID, callerID); err != nil {
		return httptransport.EmergencyFlagResponse{}, err
	}
	return httptransport.EmergencyFlagResponse{ElectionID: electionID, Enabled: false}, nil
}

func (h Handler) StatusHandler(ctx context.Context, electionID string) (httptransport.StatusResponse, error) {
	status, err := h.Service.Status(ctx, electionID)
	if err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{
		ElectionID:                 status.ElectionID,
		SponsorID:                  status.SponsorID,
		TotalDeposited:             status.TotalDeposited,
		TotalSpent:                 status.TotalSpent,
		TotalWithdrawn:             status.TotalWithdrawn,
		RemainingBalance:           status.RemainingBalance,
		VotesRemaining:             status.VotesRemaining,
		VotesSponsored:             status.VotesSponsored,
		Sponsored:                  status.Sponsored,
		EmergencyWithdrawalEnabled: status.EmergencyWithdrawalEnabled,
	}, nil
}

func (h Handler) AnalyticsHandler(ctx context.Context, electionID string) (httptransport.AnalyticsResponse, error) {
	view, err := h.Service.Analytics(ctx, electionID)
	if err != nil {
		return httptransport.AnalyticsResponse{}, err
	}
	return httptransport.AnalyticsResponse{
		ElectionID:      view.ElectionID,
		CostPerVote:     view.CostPerVote,
		VotesSponsored:  view.VotesSponsored,
		UtilizationRate: view.UtilizationRate,
		Efficiency:      view.Efficiency,
	}, nil
}

func (h Handler) OverviewHandler(ctx context.Context) (httptransport.OverviewResponse, error) {
	view, err := h.Service.Overview(ctx)
	if err != nil {
		return httptransport.OverviewResponse{}, err
	}
	return httptransport.OverviewResponse{
		Accounts:           view.Accounts,
		SponsoredElections: view.SponsoredElections,
		TotalDeposited:     view.TotalDeposited,
		TotalSpent:         view.TotalSpent,
		TotalWithdrawn:     view.TotalWithdrawn,
		TotalRemaining:     view.TotalRemaining,
	}, nil
}

func (h Handler) CheckFundsHandler(ctx context.Context, electionID string, votes int64) (httptransport.CheckFundsResponse, error) {
	view, err := h.Service.CheckFunds(ctx, electionID, votes)
	if err != nil {
		return httptransport.CheckFundsResponse{}, err
	}
	return httptransport.CheckFundsResponse{
		ElectionID:       view.ElectionID,
		RequestedVotes:   view.RequestedVotes,
		Covered:          view.Covered,
		VotesRemaining:   view.VotesRemaining,
		RemainingBalance: view.RemainingBalance,
	}, nil
}

func toSponsorshipResponse(account entities.SponsorshipAccount) httptransport.SponsorshipResponse {
	return httptransport.SponsorshipResponse{
		ElectionID:       account.ElectionID,
		SponsorID:        account.SponsorID,
		TotalDeposited:   account.TotalDeposited,
		TotalSpent:       account.TotalSpent,
		TotalWithdrawn:   account.TotalWithdrawn,
		RemainingBalance: account.RemainingBalance(),
		Sponsored:        account.IsSponsored(),
	}
}
