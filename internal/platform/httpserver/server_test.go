package httpserver_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	quotahttp "agora/contexts/election-governance/creator-quota-service/transport/http"
	registryhttp "agora/contexts/election-governance/election-registry/transport/http"
	ledgerhttp "agora/contexts/finance-core/sponsorship-ledger/transport/http"
	resolverhttp "agora/contexts/identity-access/identifier-resolver/transport/http"
	dispatcherhttp "agora/contexts/submission-gateway/transaction-dispatcher/transport/http"
	"agora/internal/app/bootstrap"
	"agora/internal/platform/httpserver"
)

const testOperator = "registry-operator"

func newTestServer() http.Handler {
	modules := bootstrap.NewInMemoryModules(testOperator, nil)
	return bootstrap.NewServer(modules, nil, ":0").Handler()
}

func doJSON(t *testing.T, handler http.Handler, method string, path string, userID string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func createElection(t *testing.T, handler http.Handler, ownerID string) registryhttp.ElectionResponse {
	t.Helper()
	rr := doJSON(t, handler, http.MethodPost, "/elections", ownerID, registryhttp.CreateElectionRequest{
		Title:      "Board election",
		Candidates: []registryhttp.CandidateInput{{Name: "Ada"}, {Name: "Grace"}},
		EndsAt:     time.Now().Add(time.Hour),
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create election: %d body=%s", rr.Code, rr.Body.String())
	}
	var resp registryhttp.ElectionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode election: %v", err)
	}
	return resp
}

func TestCreateElectionRequiresUserHeader(t *testing.T) {
	handler := newTestServer()
	rr := doJSON(t, handler, http.MethodPost, "/elections", "", registryhttp.CreateElectionRequest{
		Title:      "Board election",
		Candidates: []registryhttp.CandidateInput{{Name: "Ada"}, {Name: "Grace"}},
		EndsAt:     time.Now().Add(time.Hour),
	})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCreateElectionRejectsInvalidJSON(t *testing.T) {
	handler := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/elections", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "creator-1")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestSponsoredVoteLandsOverHTTP(t *testing.T) {
	handler := newTestServer()
	election := createElection(t, handler, "creator-1")

	rr := doJSON(t, handler, http.MethodPost, "/elections/"+election.ElectionID+"/sponsorship", "creator-1",
		ledgerhttp.DepositRequest{Amount: 100_000_000})
	if rr.Code != http.StatusOK {
		t.Fatalf("deposit: %d body=%s", rr.Code, rr.Body.String())
	}

	wallet := "0x" + strings.Repeat("ab", 20)
	rr = doJSON(t, handler, http.MethodPost, "/elections/"+election.ElectionID+"/vote", "",
		dispatcherhttp.DispatchVoteRequest{SmartAccountAddress: wallet, WalletAddress: wallet, Candidate: "Ada"})
	if rr.Code != http.StatusOK {
		t.Fatalf("vote: %d body=%s", rr.Code, rr.Body.String())
	}

	var submission dispatcherhttp.SubmissionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &submission); err != nil {
		t.Fatalf("decode submission: %v", err)
	}
	if submission.State != "succeeded" {
		t.Fatalf("state = %s", submission.State)
	}
	if submission.Strategy != "sponsored-relay" {
		t.Fatalf("strategy = %s", submission.Strategy)
	}
	if !submission.Sponsored {
		t.Fatal("expected sponsored ballot")
	}

	// Same wallet again is a definitive rejection, not a fallback.
	rr = doJSON(t, handler, http.MethodPost, "/elections/"+election.ElectionID+"/vote", "",
		dispatcherhttp.DispatchVoteRequest{SmartAccountAddress: wallet, WalletAddress: wallet, Candidate: "Grace"})
	if rr.Code != http.StatusConflict {
		t.Fatalf("duplicate vote: %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, handler, http.MethodGet, "/elections/"+election.ElectionID+"/results", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("results: %d body=%s", rr.Code, rr.Body.String())
	}
	var results registryhttp.ResultsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &results); err != nil {
		t.Fatalf("decode results: %v", err)
	}
	if results.TotalVotes != 1 {
		t.Fatalf("total votes = %d", results.TotalVotes)
	}
}

func TestUnsponsoredVoteFallsBackToSelfPaid(t *testing.T) {
	handler := newTestServer()
	election := createElection(t, handler, "creator-1")

	wallet := "0x" + strings.Repeat("cd", 20)
	rr := doJSON(t, handler, http.MethodPost, "/elections/"+election.ElectionID+"/vote", "",
		dispatcherhttp.DispatchVoteRequest{SmartAccountAddress: wallet, WalletAddress: wallet, Candidate: "Grace"})
	if rr.Code != http.StatusOK {
		t.Fatalf("vote: %d body=%s", rr.Code, rr.Body.String())
	}

	var submission dispatcherhttp.SubmissionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &submission); err != nil {
		t.Fatalf("decode submission: %v", err)
	}
	if submission.Strategy != "self-paid-smart-account" {
		t.Fatalf("strategy = %s", submission.Strategy)
	}
	if submission.Sponsored {
		t.Fatal("unsponsored election produced a sponsored ballot")
	}
}

func TestPrivateElectionAccessOverHTTP(t *testing.T) {
	handler := newTestServer()

	rr := doJSON(t, handler, http.MethodPost, "/elections/private", "creator-1", registryhttp.CreatePrivateElectionRequest{
		CreateElectionRequest: registryhttp.CreateElectionRequest{
			Title:      "Members only",
			Candidates: []registryhttp.CandidateInput{{Name: "Ada"}, {Name: "Grace"}},
			EndsAt:     time.Now().Add(time.Hour),
		},
		Whitelist: []registryhttp.WhitelistEntryInput{
			{IdentifierType: "email", Value: "alice@example.com"},
		},
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create private election: %d body=%s", rr.Code, rr.Body.String())
	}
	var election registryhttp.ElectionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &election); err != nil {
		t.Fatalf("decode election: %v", err)
	}

	rr = doJSON(t, handler, http.MethodPost, "/elections/"+election.ElectionID+"/vote", "",
		dispatcherhttp.DispatchVoteRequest{SocialProvider: "google", Email: "bob@example.com", Candidate: "Ada"})
	if rr.Code != http.StatusForbidden {
		t.Fatalf("outsider vote: %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, handler, http.MethodPost, "/elections/"+election.ElectionID+"/vote", "",
		dispatcherhttp.DispatchVoteRequest{SocialProvider: "google", Email: "alice@example.com", Candidate: "Ada"})
	if rr.Code != http.StatusOK {
		t.Fatalf("member vote: %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, handler, http.MethodGet,
		"/elections/"+election.ElectionID+"/membership?identifier_type=email&identifier_value=alice@example.com", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("membership: %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestBlacklistRequiresOperator(t *testing.T) {
	handler := newTestServer()

	rr := doJSON(t, handler, http.MethodPost, "/creators/creator-1/blacklist", "someone-else", nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, handler, http.MethodPost, "/creators/creator-1/blacklist", testOperator, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestServerExposesHandler(t *testing.T) {
	modules := bootstrap.NewInMemoryModules(testOperator, nil)
	server := httpserver.New(
		modules.Elections,
		modules.Whitelist,
		modules.Ledger,
		modules.Quota,
		modules.Dispatcher,
		modules.Resolver,
		nil,
		"",
	)
	if server.Handler() == nil {
		t.Fatal("nil handler")
	}
}

func TestInitialDepositFundsElectionAtCreation(t *testing.T) {
	handler := newTestServer()

	rr := doJSON(t, handler, http.MethodPost, "/elections", "creator-1", registryhttp.CreateElectionRequest{
		Title:              "Funded election",
		Candidates:         []registryhttp.CandidateInput{{Name: "Ada"}, {Name: "Grace"}},
		EndsAt:             time.Now().Add(time.Hour),
		InitialDepositGwei: 50_000_000,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create election: %d body=%s", rr.Code, rr.Body.String())
	}
	var election registryhttp.ElectionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &election); err != nil {
		t.Fatalf("decode election: %v", err)
	}
	if !election.Sponsored {
		t.Fatal("election should be sponsored straight from creation")
	}

	rr = doJSON(t, handler, http.MethodGet, "/elections/"+election.ElectionID+"/sponsorship", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: %d body=%s", rr.Code, rr.Body.String())
	}
	var status ledgerhttp.StatusResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.TotalDeposited != 50_000_000 || !status.Sponsored {
		t.Fatalf("deposited=%d sponsored=%v, want 50000000/true", status.TotalDeposited, status.Sponsored)
	}

	rr = doJSON(t, handler, http.MethodGet, "/creators/creator-1", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("creator profile: %d body=%s", rr.Code, rr.Body.String())
	}
	var profile quotahttp.CreatorProfileResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.TotalElections != 1 || profile.TotalDeposited != 50_000_000 {
		t.Fatalf("elections=%d deposited=%d, want 1/50000000", profile.TotalElections, profile.TotalDeposited)
	}
	if profile.SponsorshipHeld != 50_000_000 {
		t.Fatalf("held=%d, want 50000000", profile.SponsorshipHeld)
	}
}

func TestDepositOverCreatorCapRejected(t *testing.T) {
	handler := newTestServer()
	election := createElection(t, handler, "creator-big")

	// The first deposit fills the creator's entire cap; the second one has
	// nowhere to go.
	rr := doJSON(t, handler, http.MethodPost, "/elections/"+election.ElectionID+"/sponsorship", "creator-big",
		ledgerhttp.DepositRequest{Amount: 10_000_000_000})
	if rr.Code != http.StatusOK {
		t.Fatalf("deposit: %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, handler, http.MethodPost, "/elections/"+election.ElectionID+"/sponsorship", "creator-big",
		ledgerhttp.DepositRequest{Amount: 10_000_000})
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 for over-cap deposit, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, handler, http.MethodGet, "/elections/"+election.ElectionID+"/sponsorship", "", nil)
	var status ledgerhttp.StatusResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.TotalDeposited != 10_000_000_000 {
		t.Fatalf("rejected deposit reached the ledger: %d", status.TotalDeposited)
	}
}

func TestResolveIdentifierShortensWallet(t *testing.T) {
	handler := newTestServer()

	rr := doJSON(t, handler, http.MethodPost, "/identifiers/resolve", "", resolverhttp.ResolveIdentifierRequest{
		WalletAddress: "0xAbCdEf0123456789aBcDeF0123456789abcdef01",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("resolve: %d body=%s", rr.Code, rr.Body.String())
	}
	var resp resolverhttp.IdentifierResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode identifier: %v", err)
	}
	if resp.IdentifierType != "wallet" {
		t.Fatalf("identifier type: %s", resp.IdentifierType)
	}
	if resp.IdentifierValue != "0xabcdef0123456789abcdef0123456789abcdef01" {
		t.Fatalf("identifier value: %s", resp.IdentifierValue)
	}
	if resp.Display != "0xabcd…ef01" {
		t.Fatalf("display: %s", resp.Display)
	}
}

func TestResolveIdentifierPrefersSocialFacet(t *testing.T) {
	handler := newTestServer()

	rr := doJSON(t, handler, http.MethodPost, "/identifiers/resolve", "", resolverhttp.ResolveIdentifierRequest{
		SocialProvider: "twitter",
		Handle:         "@Voter_One",
		WalletAddress:  "0xabcdef0123456789abcdef0123456789abcdef01",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("resolve: %d body=%s", rr.Code, rr.Body.String())
	}
	var resp resolverhttp.IdentifierResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode identifier: %v", err)
	}
	if resp.IdentifierType != "twitter" || resp.IdentifierValue != "voter_one" {
		t.Fatalf("identifier: %s/%s", resp.IdentifierType, resp.IdentifierValue)
	}
	if resp.Display != "@voter_one" {
		t.Fatalf("display: %s", resp.Display)
	}
}

func TestResolveIdentifierWithoutFacets(t *testing.T) {
	handler := newTestServer()

	rr := doJSON(t, handler, http.MethodPost, "/identifiers/resolve", "", resolverhttp.ResolveIdentifierRequest{})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without facets, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestEmergencyWithdrawalPerAccountOverHTTP(t *testing.T) {
	handler := newTestServer()
	first := createElection(t, handler, "creator-1")
	second := createElection(t, handler, "creator-2")

	for _, tc := range []struct {
		electionID string
		creator    string
	}{
		{first.ElectionID, "creator-1"},
		{second.ElectionID, "creator-2"},
	} {
		rr := doJSON(t, handler, http.MethodPost, "/elections/"+tc.electionID+"/sponsorship", tc.creator,
			ledgerhttp.DepositRequest{Amount: 50_000_000})
		if rr.Code != http.StatusOK {
			t.Fatalf("deposit: %d body=%s", rr.Code, rr.Body.String())
		}
	}

	// Only the sponsor of record can arm their account.
	rr := doJSON(t, handler, http.MethodPost, "/elections/"+first.ElectionID+"/sponsorship/emergency/enable", "creator-2", nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("foreign enable: %d body=%s", rr.Code, rr.Body.String())
	}
	rr = doJSON(t, handler, http.MethodPost, "/elections/"+first.ElectionID+"/sponsorship/emergency/enable", "creator-1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("enable: %d body=%s", rr.Code, rr.Body.String())
	}
	var flag ledgerhttp.EmergencyFlagResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &flag); err != nil {
		t.Fatalf("decode flag: %v", err)
	}
	if !flag.Enabled {
		t.Fatal("enable should report the armed flag")
	}

	// The first sponsor's flag must not unlock the second account.
	rr = doJSON(t, handler, http.MethodPost, "/elections/"+second.ElectionID+"/sponsorship/emergency", "creator-2",
		ledgerhttp.EmergencyWithdrawRequest{Reason: "test"})
	if rr.Code != http.StatusConflict {
		t.Fatalf("unarmed emergency withdraw: %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, handler, http.MethodPost, "/elections/"+first.ElectionID+"/sponsorship/emergency", "creator-1",
		ledgerhttp.EmergencyWithdrawRequest{Reason: "contract migration"})
	if rr.Code != http.StatusOK {
		t.Fatalf("emergency withdraw: %d body=%s", rr.Code, rr.Body.String())
	}
	var drained ledgerhttp.EmergencyWithdrawResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &drained); err != nil {
		t.Fatalf("decode withdrawal: %v", err)
	}
	if drained.Withdrawn != 50_000_000 {
		t.Fatalf("withdrawn = %d, want 50000000", drained.Withdrawn)
	}
}

func TestSponsorshipAnalyticsPerElectionOverHTTP(t *testing.T) {
	handler := newTestServer()
	funded := createElection(t, handler, "creator-1")
	unfunded := createElection(t, handler, "creator-2")

	rr := doJSON(t, handler, http.MethodPost, "/elections/"+funded.ElectionID+"/sponsorship", "creator-1",
		ledgerhttp.DepositRequest{Amount: 20_000_000})
	if rr.Code != http.StatusOK {
		t.Fatalf("deposit: %d body=%s", rr.Code, rr.Body.String())
	}

	wallet := "0x" + strings.Repeat("ef", 20)
	rr = doJSON(t, handler, http.MethodPost, "/elections/"+funded.ElectionID+"/vote", "",
		dispatcherhttp.DispatchVoteRequest{SmartAccountAddress: wallet, WalletAddress: wallet, Candidate: "Ada"})
	if rr.Code != http.StatusOK {
		t.Fatalf("vote: %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, handler, http.MethodGet, "/elections/"+funded.ElectionID+"/sponsorship/analytics", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("analytics: %d body=%s", rr.Code, rr.Body.String())
	}
	var analytics ledgerhttp.AnalyticsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &analytics); err != nil {
		t.Fatalf("decode analytics: %v", err)
	}
	if analytics.ElectionID != funded.ElectionID {
		t.Fatalf("analytics election = %s, want %s", analytics.ElectionID, funded.ElectionID)
	}
	if analytics.VotesSponsored != 1 {
		t.Fatalf("votes sponsored = %d, want 1", analytics.VotesSponsored)
	}
	if analytics.UtilizationRate != 5 {
		t.Fatalf("utilization = %d, want 5", analytics.UtilizationRate)
	}

	rr = doJSON(t, handler, http.MethodGet, "/elections/"+unfunded.ElectionID+"/sponsorship/analytics", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("analytics: %d body=%s", rr.Code, rr.Body.String())
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &analytics); err != nil {
		t.Fatalf("decode analytics: %v", err)
	}
	if analytics.VotesSponsored != 0 || analytics.UtilizationRate != 0 {
		t.Fatalf("unsponsored election should report zeros: %+v", analytics)
	}

	var status ledgerhttp.StatusResponse
	rr = doJSON(t, handler, http.MethodGet, "/elections/"+funded.ElectionID+"/sponsorship", "", nil)
	if err := json.Unmarshal(rr.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.VotesSponsored != 1 {
		t.Fatalf("status votes sponsored = %d, want 1", status.VotesSponsored)
	}
}
