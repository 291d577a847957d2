// Package oidc talks to the OpenID Connect provider (Keycloak) used for
// single sign-on.
package oidc

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// Errors returned while completing a login
var (
	ErrMissingIDToken = errors.New("token response carries no id_token")
	ErrNonceMismatch  = errors.New("id token nonce does not match")
)

// Config describes the relying party registration
type Config struct {
	IssuerURL             string
	ClientID              string
	ClientSecret          string
	RedirectURL           string
	Scopes                []string
	PostLogoutRedirectURL string
}

// Authenticator is what the SSO handlers need from a provider
type Authenticator interface {
	AuthCodeURL(state, nonce string) string
	Exchange(ctx context.Context, code, nonce string) (*Claims, string, error)
	EndSessionURL(idTokenHint string) string
}

// Provider is an Authenticator backed by OIDC discovery
type Provider struct {
	oauth2        oauth2.Config
	verifier      *gooidc.IDTokenVerifier
	endSessionURL string
	postLogoutURL string
}

// NewProvider discovers the issuer and prepares the OAuth2 client
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	provider, err := gooidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to discover oidc issuer %s: %w", cfg.IssuerURL, err)
	}

	var meta struct {
		EndSessionEndpoint string `json:"end_session_endpoint"`
	}
	if err := provider.Claims(&meta); err != nil {
		return nil, fmt.Errorf("failed to read provider metadata: %w", err)
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{gooidc.ScopeOpenID, "email", "profile"}
	}

	return &Provider{
		oauth2: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       scopes,
		},
		verifier:      provider.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
		endSessionURL: meta.EndSessionEndpoint,
		postLogoutURL: cfg.PostLogoutRedirectURL,
	}, nil
}

// AuthCodeURL returns the provider login URL carrying state and nonce
func (p *Provider) AuthCodeURL(state, nonce string) string {
	return p.oauth2.AuthCodeURL(state, gooidc.Nonce(nonce))
}

// Exchange trades the authorization code for tokens, verifies the ID token
// and its nonce, and returns the decoded claims with the raw ID token.
func (p *Provider) Exchange(ctx context.Context, code, nonce string) (*Claims, string, error) {
	token, err := p.oauth2.Exchange(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("code exchange failed: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, "", ErrMissingIDToken
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, "", fmt.Errorf("id token verification failed: %w", err)
	}
	if idToken.Nonce != nonce {
		return nil, "", ErrNonceMismatch
	}

	var claims Claims
	if err := idToken.Claims(&claims); err != nil {
		return nil, "", fmt.Errorf("failed to decode id token claims: %w", err)
	}
	return &claims, rawIDToken, nil
}

// EndSessionURL returns the provider logout URL, or the post logout
// redirect when the provider does not advertise one.
func (p *Provider) EndSessionURL(idTokenHint string) string {
	if p.endSessionURL == "" {
		return p.postLogoutURL
	}
	u, err := url.Parse(p.endSessionURL)
	if err != nil {
		return p.postLogoutURL
	}

	q := u.Query()
	q.Set("client_id", p.oauth2.ClientID)
	if idTokenHint != "" {
		q.Set("id_token_hint", idTokenHint)
	}
	if p.postLogoutURL != "" {
		q.Set("post_logout_redirect_uri", p.postLogoutURL)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
