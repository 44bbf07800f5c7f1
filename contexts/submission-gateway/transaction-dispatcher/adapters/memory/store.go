package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"agora/contexts/submission-gateway/transaction-dispatcher/domain/entities"
	"agora/contexts/submission-gateway/transaction-dispatcher/ports"
)

// Rails is an in-memory stand-in for every submission rail plus the vote
// record they land in. Failures are scripted per strategy: each Submit pops
// the next scripted error before a call may succeed.
type Rails struct {
	mu      sync.Mutex
	votes   map[string]ports.Ballot
	scripts map[string][]error
}

func NewRails() *Rails {
	return &Rails{
		votes:   make(map[string]ports.Ballot),
		scripts: make(map[string][]error),
	}
}

var (
	_ ports.SmartAccountClient = (*Rails)(nil)
	_ ports.WalletClient       = (*Rails)(nil)
	_ ports.VoteReader         = (*Rails)(nil)
	_ ports.SponsoredRelay     = sponsoredRelay{}
)

// Script queues errors for a strategy; each submission on that rail consumes
// one before any call can succeed.
func (r *Rails) Script(strategy string, errs ...error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scripts[strategy] = append(r.scripts[strategy], errs...)
}

func (r *Rails) Submit(ctx context.Context, ballot ports.Ballot) (ports.Receipt, error) {
	return r.land(entities.StrategySelfPaidAccount, ballot, false)
}

func (r *Rails) SubmitDirect(ctx context.Context, ballot ports.Ballot) (ports.Receipt, error) {
	return r.land(entities.StrategyDirectWallet, ballot, false)
}

func (r *Rails) SubmitRegular(ctx context.Context, ballot ports.Ballot) (ports.Receipt, error) {
	return r.land(entities.StrategyRegularWallet, ballot, false)
}

func (r *Rails) HasVoted(ctx context.Context, electionID string, identifierType string, value string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.votes[voteKey(electionID, identifierType, value)]
	return ok, nil
}

// Relay returns the sponsored rail backed by this store.
func (r *Rails) Relay() ports.SponsoredRelay {
	return sponsoredRelay{rails: r}
}

// Landed reports whether a ballot for the identity is recorded.
func (r *Rails) Landed(electionID string, identifierType string, value string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.votes[voteKey(electionID, identifierType, value)]
	return ok
}

func (r *Rails) land(strategy string, ballot ports.Ballot, sponsored bool) (ports.Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if queue := r.scripts[strategy]; len(queue) > 0 {
		err := queue[0]
		r.scripts[strategy] = queue[1:]
		if err != nil {
			return ports.Receipt{}, err
		}
	}
	r.votes[voteKey(ballot.ElectionID, ballot.IdentifierType, ballot.IdentifierValue)] = ballot
	return ports.Receipt{
		Reference: fmt.Sprintf("%s/%s", strategy, uuid.NewString()),
		Sponsored: sponsored,
	}, nil
}

type sponsoredRelay struct {
	rails *Rails
}

func (s sponsoredRelay) Submit(ctx context.Context, ballot ports.Ballot) (ports.Receipt, error) {
	return s.rails.land(entities.StrategySponsoredRelay, ballot, true)
}

func voteKey(electionID string, identifierType string, value string) string {
	return strings.Join([]string{electionID, identifierType, value}, "|")
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// UUIDGenerator issues random submission IDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(ctx context.Context) (string, error) {
	return uuid.NewString(), nil
}
