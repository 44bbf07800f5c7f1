package errors

import "errors"

var (
	ErrOwnerPermissioned     = errors.New("caller is not the election owner")
	ErrInvalidWhitelistEntry = errors.New("whitelist entry is invalid")
	ErrElectionNotFound      = errors.New("election not found")
	ErrEntryNotFound         = errors.New("whitelist entry not found")
)
