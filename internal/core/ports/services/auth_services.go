package services

import (
	"context"
	"time"

	"github.com/JobSiteOps/job_tracking_app/internal/core/domain"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

// TokenSvcFacade issues and validates the tokens backing the auth endpoints.
type TokenSvcFacade interface {
	// GenerateAccessToken issues a signed JWT for the user plus its expiry.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// GenerateRefreshToken issues a raw opaque refresh token plus its expiry.
	GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// ValidateAndParseRefreshToken checks a raw refresh token against the hash
	// stored on the user and returns the user when it is valid and unexpired.
	ValidateAndParseRefreshToken(ctx context.Context, userID string, refreshTokenString string) (*domain.User, error)
}

// GoogleOAuthHandlerSvcFacade covers the Google sign-in flow.
type GoogleOAuthHandlerSvcFacade interface {
	// GenerateStateString creates the CSRF state nonce for the OAuth redirect.
	GenerateStateString(ctx context.Context) (string, error)

	// GetGoogleLoginURL returns the consent-screen URL for the given state.
	GetGoogleLoginURL(ctx context.Context, state string) string

	// ExchangeCodeForToken trades an authorization code for Google's token set.
	ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error)

	// GetUserInfo fetches the signed-in user's profile from Google.
	GetUserInfo(ctx context.Context, token *oauth2.Token) (*domain.GoogleUserInfo, error)

	// ValidateGoogleIDToken verifies an ID token's signature and audience.
	ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error)
}
