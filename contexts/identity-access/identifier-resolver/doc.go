// Package identifierresolver implements identifier resolution inside the
// identity-access context.
//
// The module normalizes the identity facets available to a session (social
// login, smart-account address, wallet address) into a single canonical
// identifier used for whitelist membership and vote deduplication. It is a
// pure service: no persistence, no side effects, re-resolved on every
// operation because facets can appear asynchronously mid-session.
package identifierresolver
