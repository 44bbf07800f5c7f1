// Package transactiondispatcher walks a ballot through the submission
// fallback chain: sponsored relay first, then a self-paid smart account,
// then a direct wallet transaction, and finally a regular wallet. Exactly
// one rail lands the ballot; rejections abort the chain and ambiguous
// outcomes are settled by reading the vote record back.
package transactiondispatcher
