// Package sponsorshipledger tracks sponsor deposits per election and pays for
// voter transactions out of the sponsored balance. It owns the gas-credit
// accounting: deposits, sponsor withdrawals, emergency withdrawals and the
// per-vote spend that decides whether a ballot rides on the sponsor's funds.
package sponsorshipledger
