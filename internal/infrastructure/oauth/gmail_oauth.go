package oauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"logbook-creator/pkg/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
)

// ErrNoRefreshToken is returned when the mailbox is used before a refresh token was obtained
var ErrNoRefreshToken = errors.New("gmail refresh token is not set, run cmd/utils/get_token.go first")

// Credentials identify the OAuth client and the mailbox owner's grant
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	RedirectURL  string

	// Endpoint defaults to Google's
	Endpoint oauth2.Endpoint
}

// GmailOAuth handles OAuth authentication with Gmail
type GmailOAuth struct {
	config       *oauth2.Config
	refreshToken string
	logger       logger.Logger
}

// NewGmailOAuth creates a new Gmail OAuth handler. The full mail scope is required to trash processed reports.
func NewGmailOAuth(creds Credentials, logger logger.Logger) *GmailOAuth {
	endpoint := creds.Endpoint
	if endpoint.TokenURL == "" {
		endpoint = google.Endpoint
	}

	return &GmailOAuth{
		config: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			Endpoint:     endpoint,
			RedirectURL:  creds.RedirectURL,
			Scopes:       []string{gmail.MailGoogleComScope},
		},
		refreshToken: creds.RefreshToken,
		logger:       logger,
	}
}

// GetTokenSource returns a token source that refreshes access tokens from the stored refresh token
func (o *GmailOAuth) GetTokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	if o.refreshToken == "" {
		return nil, ErrNoRefreshToken
	}

	token := &oauth2.Token{
		RefreshToken: o.refreshToken,
		Expiry:       time.Now(), // Force refresh
	}

	return oauth2.ReuseTokenSource(nil, o.config.TokenSource(ctx, token)), nil
}

// GenerateAuthURL generates a URL for the user to authorize the application
func (o *GmailOAuth) GenerateAuthURL(state string) string {
	return o.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// ExchangeCode exchanges an authorization code for a token carrying a refresh token
func (o *GmailOAuth) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	if code == "" {
		return nil, errors.New("missing authorization code")
	}

	token, err := o.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}
	if token.RefreshToken == "" {
		return nil, errors.New("no refresh token returned, revoke the app's access and retry")
	}

	o.logger.Info("Refresh token obtained", "expiry", token.Expiry)
	return token, nil
}
