package dracoon

// OAuth2 grant_type values sent to the token endpoint.
const (
	grantTypePassword     = "password"
	grantTypeAuthCode     = "authorization_code"
	grantTypeRefreshToken = "refresh_token"
)

// Grant is one of PasswordGrant, AuthCodeGrant or RefreshTokenGrant.
// The set is closed: only types in this package implement it.
type Grant interface {
	grantType() string
}

// PasswordGrant exchanges a user's name and password for a token pair.
type PasswordGrant struct {
	Username string
	Password string
}

// AuthCodeGrant exchanges an authorization code obtained from CodeURL.
// An empty RedirectURI falls back to the client's configured redirect URI;
// it must match the one used to obtain the code.
type AuthCodeGrant struct {
	Code        string
	RedirectURI string
}

// RefreshTokenGrant exchanges a refresh token for a fresh token pair.
type RefreshTokenGrant struct {
	RefreshToken string
}

func (PasswordGrant) grantType() string     { return grantTypePassword }
func (AuthCodeGrant) grantType() string     { return grantTypeAuthCode }
func (RefreshTokenGrant) grantType() string { return grantTypeRefreshToken }
