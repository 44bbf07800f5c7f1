package http

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ResolveIdentifierRequest carries the session facets to resolve. Any facet
// may be absent; the resolver picks the highest-priority valid one.
type ResolveIdentifierRequest struct {
	SocialProvider      string `json:"social_provider,omitempty"`
	Email               string `json:"email,omitempty"`
	Handle              string `json:"handle,omitempty"`
	SmartAccountAddress string `json:"smart_account_address,omitempty"`
	WalletAddress       string `json:"wallet_address,omitempty"`
}

// IdentifierResponse is the resolved canonical identifier plus its
// display rendering.
type IdentifierResponse struct {
	IdentifierType  string `json:"identifier_type"`
	IdentifierValue string `json:"identifier_value"`
	Display         string `json:"display"`
}
