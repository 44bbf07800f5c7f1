// Package creatorquotaservice enforces per-creator limits: how many
// elections a creator may run at once, how much sponsorship they may have
// locked up across all of them, and the operator blacklist that cuts a
// creator off entirely. Quota is freed when an election ends or its
// sponsorship is released.
package creatorquotaservice
