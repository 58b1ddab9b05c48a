// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package oauth implements Google sign-in with OpenID Connect. The OAuth 2.0
// handshake is handled by golang.org/x/oauth2; ID token verification by
// go-oidc. This package only turns a callback code into a profile.
package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"blogdans/internal/models"
)

// GoogleIssuer is the OpenID Connect issuer for Google accounts.
const GoogleIssuer = "https://accounts.google.com"

var (
	// ErrMissingIDToken is returned when the token response carries no id_token.
	ErrMissingIDToken = errors.New("token response has no id_token")

	// ErrNonceMismatch is returned when the ID token nonce differs from the
	// one issued with the authorization request.
	ErrNonceMismatch = errors.New("id token nonce mismatch")
)

// Client exchanges Google authorization codes for verified profiles.
type Client struct {
	config   *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// NewGoogle discovers Google's OpenID configuration and returns a client
// requesting the openid, email and profile scopes.
func NewGoogle(ctx context.Context, clientID, clientSecret, redirectURL string) (*Client, error) {
	provider, err := oidc.NewProvider(ctx, GoogleIssuer)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
	}
	return New(config, provider.Verifier(&oidc.Config{ClientID: clientID})), nil
}

// New creates a client from an explicit OAuth configuration and verifier.
func New(config *oauth2.Config, verifier *oidc.IDTokenVerifier) *Client {
	return &Client{config: config, verifier: verifier}
}

// AuthCodeURL returns the Google consent page URL for the given state and
// nonce.
func (c *Client) AuthCodeURL(state, nonce string) string {
	return c.config.AuthCodeURL(state, oidc.Nonce(nonce))
}

// Exchange trades an authorization code for tokens, verifies the ID token
// and its nonce, and decodes the profile claims. The profile is not
// validated here.
func (c *Client) Exchange(ctx context.Context, code, nonce string) (*models.GoogleProfile, error) {
	token, err := c.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, ErrMissingIDToken
	}

	idToken, err := c.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}
	if idToken.Nonce != nonce {
		return nil, ErrNonceMismatch
	}

	var profile models.GoogleProfile
	if err := idToken.Claims(&profile); err != nil {
		return nil, fmt.Errorf("decode claims: %w", err)
	}
	return &profile, nil
}

// RandomToken returns a URL-safe random string for OAuth state and nonce
// values.
func RandomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("random token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
