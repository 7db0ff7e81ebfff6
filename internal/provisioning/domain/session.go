package domain

// Session is what signup and login hand back to the client: a stateless
// bearer token plus enough context to render the signed-in state. The server
// keeps no revocation list; logout is a client-side discard.
type Session struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"` // always "Bearer"
	ExpiresIn   int64   `json:"expires_in"` // seconds until expiry
	UserID      string  `json:"user_id"`
	Role        Role    `json:"role"`
	BusinessID  *string `json:"business_id,omitempty"`
}
