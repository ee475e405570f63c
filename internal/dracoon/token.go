package dracoon

import (
	"time"

	"golang.org/x/oauth2"
)

// extraInactiveKey is DRACOON's extension to the token response: seconds of
// inactivity after which the session expires regardless of expires_in.
const extraInactiveKey = "expires_in_inactive"

// TokenPair is the session credential produced by a successful grant.
// Never log AccessToken or RefreshToken.
type TokenPair struct {
	AccessToken       string
	RefreshToken      string
	TokenType         string
	Scope             string
	Expiry            time.Time     // zero if the service sent no expires_in
	InactivityTimeout time.Duration // zero if the service sent no expires_in_inactive
	ObtainedAt        time.Time
}

// Valid reports whether the access token is present and usable at now: it
// has not passed Expiry, and less than InactivityTimeout has elapsed since
// ObtainedAt. Zero Expiry or InactivityTimeout disables that check.
func (p TokenPair) Valid(now time.Time) bool {
	if p.AccessToken == "" {
		return false
	}

	if !p.Expiry.IsZero() && !now.Before(p.Expiry) {
		return false
	}

	if p.InactivityTimeout > 0 && !now.Before(p.ObtainedAt.Add(p.InactivityTimeout)) {
		return false
	}

	return true
}

// newTokenPair converts an oauth2.Token into a TokenPair. fallbackRefresh is
// kept when the response carries no refresh_token of its own.
func newTokenPair(tok *oauth2.Token, fallbackRefresh string, now time.Time) *TokenPair {
	pair := &TokenPair{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.Type(),
		Expiry:       tok.Expiry,
		ObtainedAt:   now,
	}

	if pair.RefreshToken == "" {
		pair.RefreshToken = fallbackRefresh
	}

	if scope, ok := tok.Extra("scope").(string); ok {
		pair.Scope = scope
	}

	pair.InactivityTimeout = extraSeconds(tok.Extra(extraInactiveKey))

	return pair
}

// extraSeconds reads a numeric extra field. JSON numbers decode as float64;
// form-encoded responses yield strings, which are ignored.
func extraSeconds(v any) time.Duration {
	switch n := v.(type) {
	case float64:
		return time.Duration(n) * time.Second
	case int64:
		return time.Duration(n) * time.Second
	case int:
		return time.Duration(n) * time.Second
	default:
		return 0
	}
}
