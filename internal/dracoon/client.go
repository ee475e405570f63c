package dracoon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// Endpoint paths, relative to the service base URL.
const (
	authorizePath = "/oauth/authorize"
	tokenPath     = "/oauth/token"
	revokePath    = "/oauth/revoke"
	callbackPath  = "/oauth/callback"
	pingPath      = "/api/v4/user/ping"
)

const (
	defaultScope        = "all"
	tokenTypeHintAccess = "access_token"

	// maxErrorBody caps how much of an error response is kept in memory.
	maxErrorBody = 64 << 10
)

// Credentials identify the OAuth app registered with a DRACOON instance.
type Credentials struct {
	BaseURL      string // e.g. "https://dracoon.team"
	ClientID     string
	ClientSecret string
	RedirectURI  string // empty = BaseURL + "/oauth/callback"
}

// AuthClient manages one authenticated session against a DRACOON instance.
//
// The zero state is Unauthenticated. A successful Connect or Refresh moves
// it to Authenticated; Disconnect always moves it back. AuthClient has no
// internal locking: callers must not invoke Connect, Refresh, Disconnect or
// TestConnection concurrently on the same instance.
type AuthClient struct {
	creds      Credentials
	baseURL    string
	httpClient *http.Client
	oauth      *oauth2.Config
	logger     *slog.Logger
	token      *TokenPair

	// nowFunc stamps TokenPair.ObtainedAt and drives AccessTokenValid.
	// Tests override it.
	nowFunc func() time.Time
}

// NewAuthClient creates an unauthenticated client. A nil httpClient uses
// http.DefaultClient; a nil logger uses slog.Default().
func NewAuthClient(creds Credentials, httpClient *http.Client, logger *slog.Logger) *AuthClient {
	if logger == nil {
		logger = slog.Default()
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	base := strings.TrimRight(creds.BaseURL, "/")
	if creds.RedirectURI == "" {
		creds.RedirectURI = base + callbackPath
	}

	return &AuthClient{
		creds:      creds,
		baseURL:    base,
		httpClient: httpClient,
		logger:     logger,
		nowFunc:    time.Now,
		oauth: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  creds.RedirectURI,
			Endpoint: oauth2.Endpoint{
				AuthURL:  base + authorizePath,
				TokenURL: base + tokenPath,
				// Fixed style: auto-detection would retry a rejected
				// exchange with the other style.
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
	}
}

// Connect runs one grant against the token endpoint. On success the
// returned token pair replaces any previous one. On failure the previous
// pair, if any, is left untouched. Exactly one request is made.
//
// A nil grant, or one not defined in this package, is a programming error:
// the returned error matches none of ErrNotAuthenticated, ErrRejected or
// ErrTransport, and no request is made.
func (c *AuthClient) Connect(ctx context.Context, grant Grant) error {
	const op = "connect"

	if grant == nil {
		return fmt.Errorf("dracoon: %s: nil grant", op)
	}

	c.logger.Info("requesting token",
		slog.String("grant_type", grant.grantType()),
		slog.String("base_url", c.baseURL),
	)

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	var (
		tok      *oauth2.Token
		err      error
		fallback string
	)

	switch g := grant.(type) {
	case PasswordGrant:
		tok, err = c.oauth.PasswordCredentialsToken(ctx, g.Username, g.Password)
	case AuthCodeGrant:
		cfg := *c.oauth
		if g.RedirectURI != "" {
			cfg.RedirectURL = g.RedirectURI
		}

		tok, err = cfg.Exchange(ctx, g.Code)
	case RefreshTokenGrant:
		if g.RefreshToken == "" {
			return notAuthenticated(op)
		}

		fallback = g.RefreshToken
		// A token without an access token is never valid, so the source
		// goes straight to the refresh exchange.
		tok, err = c.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: g.RefreshToken}).Token()
	default:
		return fmt.Errorf("dracoon: %s: unsupported grant %T", op, grant)
	}

	if err != nil {
		authErr := classifyTokenError(op, err)
		c.logger.Warn("token request failed",
			slog.String("grant_type", grant.grantType()),
			slog.String("error", authErr.Error()),
		)

		return authErr
	}

	c.token = newTokenPair(tok, fallback, c.nowFunc())

	c.logger.Info("connected",
		slog.String("grant_type", grant.grantType()),
		slog.Time("expiry", c.token.Expiry),
		slog.Duration("inactivity_timeout", c.token.InactivityTimeout),
	)

	return nil
}

// Refresh runs a refresh token grant with the stored refresh token.
func (c *AuthClient) Refresh(ctx context.Context) error {
	if c.token == nil {
		return notAuthenticated("refresh")
	}

	return c.Connect(ctx, RefreshTokenGrant{RefreshToken: c.token.RefreshToken})
}

// Disconnect revokes the access token and clears the local session. The
// token pair is cleared even when revocation fails; the returned error then
// reports what the service or the network said. The refresh token is not
// revoked.
func (c *AuthClient) Disconnect(ctx context.Context) error {
	const op = "disconnect"

	if c.token == nil {
		return notAuthenticated(op)
	}

	access := c.token.AccessToken
	c.token = nil

	form := url.Values{
		"client_id":       {c.creds.ClientID},
		"client_secret":   {c.creds.ClientSecret},
		"token_type_hint": {tokenTypeHintAccess},
		"token":           {access},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+revokePath, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("dracoon: %s: creating request: %w", op, err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("revoke request failed, session cleared locally",
			slog.String("error", err.Error()),
		)

		return transportError(op, err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		body := readErrorBody(resp)
		c.logger.Warn("revoke rejected, session cleared locally",
			slog.Int("status", resp.StatusCode),
		)

		return rejectedError(op, resp.StatusCode, body)
	}

	drain(resp)
	c.logger.Info("disconnected")

	return nil
}

// CodeURL returns the authorization URL a user opens in a browser to obtain
// a code for AuthCodeGrant. An empty scope requests "all"; an empty state is
// omitted. The result depends only on its inputs and the client credentials.
func (c *AuthClient) CodeURL(scope, state string) string {
	if scope == "" {
		scope = defaultScope
	}

	cfg := *c.oauth
	cfg.Scopes = []string{scope}

	return cfg.AuthCodeURL(state, oauth2.SetAuthURLParam("branding", "full"))
}

// NewState returns a random value for the state parameter of CodeURL.
// Compare it with the state echoed back on the redirect.
func NewState() string {
	return uuid.NewString()
}

// TestConnection pings the API with the stored access token. It reports
// true on 2xx and false on 401/403 (token invalid or expired). Any other
// status is returned as ErrRejected.
func (c *AuthClient) TestConnection(ctx context.Context) (bool, error) {
	const op = "test connection"

	if c.token == nil {
		return false, notAuthenticated(op)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+pingPath, nil)
	if err != nil {
		return false, fmt.Errorf("dracoon: %s: creating request: %w", op, err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, transportError(op, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("ping",
		slog.String("path", pingPath),
		slog.Int("status", resp.StatusCode),
	)

	switch {
	case isSuccess(resp.StatusCode):
		drain(resp)
		return true, nil
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		drain(resp)
		return false, nil
	default:
		return false, rejectedError(op, resp.StatusCode, readErrorBody(resp))
	}
}

// Connected reports whether a token pair is held.
func (c *AuthClient) Connected() bool {
	return c.token != nil
}

// Token returns a copy of the current token pair.
func (c *AuthClient) Token() (TokenPair, bool) {
	if c.token == nil {
		return TokenPair{}, false
	}

	return *c.token, true
}

// AccessTokenValid reports whether the stored access token has neither
// expired nor sat idle past its inactivity timeout. It makes no network call.
func (c *AuthClient) AccessTokenValid() (bool, error) {
	if c.token == nil {
		return false, notAuthenticated("check token validity")
	}

	return c.token.Valid(c.nowFunc()), nil
}

// classifyTokenError maps an oauth2 exchange error onto the error kinds.
// A failed round trip is a transport error. Everything else means the
// service answered: a RetrieveError carries the non-2xx status and body,
// other errors are 2xx bodies oauth2 could not use (unparsable, or missing
// access_token).
func classifyTokenError(op string, err error) *AuthError {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		status := 0
		if re.Response != nil {
			status = re.Response.StatusCode
		}

		return rejectedError(op, status, re.Body)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return transportError(op, err)
	}

	return &AuthError{Op: op, Kind: ErrRejected, Err: err}
}

func isSuccess(code int) bool {
	return code >= http.StatusOK && code < http.StatusMultipleChoices
}

func readErrorBody(resp *http.Response) []byte {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return []byte("(failed to read response body)")
	}

	return body
}

// drain consumes the rest of the body so the connection can be reused.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
}
