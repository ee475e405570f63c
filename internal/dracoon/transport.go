package dracoon

import (
	"net"
	"net/http"
	"time"
)

// DefaultUserAgent is sent when TransportOptions.UserAgent is empty.
const DefaultUserAgent = "dracoon-go/0.1"

// TransportOptions configure the single HTTP client an AuthClient uses.
// Zero durations leave the corresponding timeout unset.
type TransportOptions struct {
	ConnectTimeout time.Duration // dial + TLS handshake
	DataTimeout    time.Duration // wait for response headers
	UserAgent      string
}

// NewHTTPClient builds an *http.Client from opts for use with NewAuthClient.
func NewHTTPClient(opts TransportOptions) *http.Client {
	base := http.DefaultTransport.(*http.Transport).Clone()

	if opts.ConnectTimeout > 0 {
		base.DialContext = (&net.Dialer{Timeout: opts.ConnectTimeout}).DialContext
		base.TLSHandshakeTimeout = opts.ConnectTimeout
	}

	if opts.DataTimeout > 0 {
		base.ResponseHeaderTimeout = opts.DataTimeout
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}

	return &http.Client{
		Transport: &userAgentTransport{wrapped: base, userAgent: ua},
	}
}

// userAgentTransport sets the User-Agent header on every outgoing request.
type userAgentTransport struct {
	wrapped   http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request.
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.userAgent)

	return t.wrapped.RoundTrip(clone)
}
