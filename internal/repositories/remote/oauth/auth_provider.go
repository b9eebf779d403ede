package oauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"

	"github.com/tindahan/tindahan/internal/apperrors"
	"github.com/tindahan/tindahan/internal/core/domain"
	portsrepo "github.com/tindahan/tindahan/internal/core/ports/repositories"
)

// OAuthAuthProvider authenticates against the cloud token endpoint using the
// resource-owner password grant (phone + PIN) and refresh tokens.
//
// Error contract: a definitive rejection from the token endpoint surfaces as
// apperrors.ErrUnauthorized so callers purge the cached bundle; anything
// else (timeouts, DNS, 5xx) is transient and the cache survives.
type OAuthAuthProvider struct {
	config *oauth2.Config
}

func NewOAuthAuthProvider(clientID, clientSecret, tokenURL string) portsrepo.AuthProvider {
	return &OAuthAuthProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL: tokenURL,
			},
		},
	}
}

var _ portsrepo.AuthProvider = (*OAuthAuthProvider)(nil)

// Login authenticates phone + PIN online and returns a fresh credential
// bundle. Identity claims ride along as extra token fields.
func (p *OAuthAuthProvider) Login(ctx context.Context, phone, pin string) (*domain.CachedCredential, error) {
	token, err := p.config.PasswordCredentialsToken(ctx, phone, pin)
	if err != nil {
		return nil, classifyTokenError(err, "login rejected")
	}

	ownerID, _ := token.Extra("owner_id").(string)
	storeName, _ := token.Extra("store_name").(string)
	if ownerID == "" {
		return nil, fmt.Errorf("%w: token response missing owner identity", apperrors.ErrInternal)
	}

	return &domain.CachedCredential{
		OwnerID:      ownerID,
		StoreName:    storeName,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenExpiry:  token.Expiry,
	}, nil
}

// Refresh exchanges a refresh token for a new access token. The rotated
// refresh token is returned when the endpoint issues one, otherwise the
// original stays in use.
func (p *OAuthAuthProvider) Refresh(ctx context.Context, refreshToken string) (string, time.Time, string, error) {
	src := p.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := src.Token()
	if err != nil {
		return "", time.Time{}, "", classifyTokenError(err, "refresh rejected")
	}

	newRefresh := token.RefreshToken
	if newRefresh == "" {
		newRefresh = refreshToken
	}
	return token.AccessToken, token.Expiry, newRefresh, nil
}

func classifyTokenError(err error, msg string) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		// The endpoint answered and said no. This is definitive.
		return fmt.Errorf("%w: %s", apperrors.ErrUnauthorized, msg)
	}
	return fmt.Errorf("token endpoint unreachable: %w", err)
}
