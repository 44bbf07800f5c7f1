// Package whitelistregistry implements per-election access membership inside
// the election-governance context.
//
// The module owns the whitelist entry lifecycle (owner-only add/remove with
// soft deletes), membership queries, and the canAccess decision used by
// private elections. It evaluates exactly the single identifier it is given;
// multi-facet enrollment is a policy of the calling layer.
package whitelistregistry
