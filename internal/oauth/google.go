package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/netts-ev/netts-backend/internal/apperr"
	"github.com/netts-ev/netts-backend/internal/config"
)

const (
	defaultUserInfoURL  = "https://www.googleapis.com/oauth2/v2/userinfo"
	defaultTokenInfoURL = "https://www.googleapis.com/oauth2/v3/tokeninfo"
)

// Bridge verifies Google-issued credentials and yields the verified
// email claim. Provider endpoints are injectable for tests.
type Bridge struct {
	conf         *oauth2.Config
	userInfoURL  string
	tokenInfoURL string
	client       *http.Client
}

// NewBridge builds a Google OAuth bridge from process configuration.
func NewBridge(cfg config.Config) *Bridge {
	return &Bridge{
		conf: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleCallbackURL,
			Scopes:       []string{"profile", "email"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL:  defaultUserInfoURL,
		tokenInfoURL: defaultTokenInfoURL,
		client:       http.DefaultClient,
	}
}

// Configured reports whether provider credentials were supplied.
func (b *Bridge) Configured() bool {
	return b.conf.ClientID != "" && b.conf.ClientSecret != "" && b.conf.RedirectURL != ""
}

// AuthCodeURL returns the provider consent-screen URL for the given
// anti-forgery state.
func (b *Bridge) AuthCodeURL(state string) string {
	return b.conf.AuthCodeURL(state)
}

// VerifyAuthorizationCode exchanges an authorization code at the
// provider's token endpoint and returns the verified email claim.
func (b *Bridge) VerifyAuthorizationCode(ctx context.Context, code string) (string, error) {
	token, err := b.conf.Exchange(ctx, code)
	if err != nil {
		return "", apperr.Auth("oauth verification failed")
	}
	return b.fetchEmail(ctx, b.userInfoURL+"?access_token="+url.QueryEscape(token.AccessToken))
}

// VerifyAccessToken introspects an access token at the provider and
// checks that it belongs to the claimed email.
func (b *Bridge) VerifyAccessToken(ctx context.Context, claimedEmail, accessToken string) error {
	email, err := b.fetchEmail(ctx, b.tokenInfoURL+"?access_token="+url.QueryEscape(accessToken))
	if err != nil {
		return err
	}
	if !strings.EqualFold(email, claimedEmail) {
		return apperr.Auth("token mismatch")
	}
	return nil
}

func (b *Bridge) fetchEmail(ctx context.Context, endpoint string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("oauth provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperr.Auth("oauth verification failed")
	}

	var payload struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", apperr.Auth("oauth verification failed")
	}
	if payload.Email == "" {
		return "", apperr.Auth("oauth verification failed")
	}
	return payload.Email, nil
}
