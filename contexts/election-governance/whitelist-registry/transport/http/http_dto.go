package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type WhitelistEntryInput struct {
	IdentifierType string `json:"identifier_type"`
	Value          string `json:"value"`
}

type ModifyWhitelistRequest struct {
	Entries []WhitelistEntryInput `json:"entries"`
}

type ModifyWhitelistResponse struct {
	ElectionID string `json:"election_id"`
	Changed    int    `json:"changed"`
}

type WhitelistEntryResponse struct {
	IdentifierType string `json:"identifier_type"`
	Value          string `json:"value"`
	Active         bool   `json:"active"`
}

type WhitelistResponse struct {
	ElectionID string                   `json:"election_id"`
	Entries    []WhitelistEntryResponse `json:"entries"`
}

type MembershipResponse struct {
	ElectionID string `json:"election_id"`
	Member     bool   `json:"member"`
}

type AccessResponse struct {
	ElectionID string `json:"election_id"`
	CanAccess  bool   `json:"can_access"`
}
