package domain

// TokenPair is what a completed login or refresh returns: the short-lived
// access JWT and the independently-signed refresh JWT.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type,omitempty"` // typically "Bearer"
	ExpiresIn    int64  `json:"expires_in"`           // access token lifetime in seconds
}
