package oauth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/netts-ev/netts-backend/internal/apperr"
	"github.com/netts-ev/netts-backend/internal/auth"
	"github.com/netts-ev/netts-backend/internal/identity"
)

const stateCookie = "oauth_state"

// Handler exposes the Google OAuth endpoints: consent redirect,
// callback, and the phone-app token exchange.
type Handler struct {
	bridge        *Bridge
	resolver      *identity.Service
	frontendURL   string
	sessionSecret string
	logger        *slog.Logger
}

// NewHandler constructs the OAuth HTTP handler.
func NewHandler(bridge *Bridge, resolver *identity.Service, frontendURL, sessionSecret string, logger *slog.Logger) *Handler {
	return &Handler{
		bridge:        bridge,
		resolver:      resolver,
		frontendURL:   strings.TrimRight(frontendURL, "/"),
		sessionSecret: sessionSecret,
		logger:        logger,
	}
}

// GoogleLogin redirects the client to the provider consent screen.
func (h *Handler) GoogleLogin(c *fiber.Ctx) error {
	if !h.bridge.Configured() {
		return apperr.Config("google oauth is not configured")
	}

	state := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    h.signState(state),
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.Redirect(h.bridge.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// GoogleCallback completes the consent flow. A verified email that maps
// to an account redirects to the frontend login page with a token; an
// unknown email redirects to the registration page instead of failing.
func (h *Handler) GoogleCallback(c *fiber.Ctx) error {
	if !h.bridge.Configured() {
		return apperr.Config("google oauth is not configured")
	}

	state := c.Query("state")
	if state == "" || c.Cookies(stateCookie) != h.signState(state) {
		return h.redirectRegister(c, "Google login failed", "")
	}
	c.ClearCookie(stateCookie)

	code := c.Query("code")
	if code == "" {
		return h.redirectRegister(c, "Google login failed", "")
	}

	email, err := h.bridge.VerifyAuthorizationCode(c.UserContext(), code)
	if err != nil {
		if apperr.IsKind(err, apperr.KindAuth) {
			h.logger.Warn("google callback verification failed", slog.Any("error", err))
			return h.redirectRegister(c, "Google login failed", "")
		}
		return err
	}

	res, err := h.resolver.ResolveOAuthIdentity(c.UserContext(), email, auth.SessionTokenTTL)
	if err != nil {
		return err
	}

	if !res.Registered {
		return h.redirectRegister(c, "Google login: user not registered", res.Email)
	}

	q := url.Values{}
	q.Set("token", res.Token)
	q.Set("email", res.Email)
	return c.Redirect(h.frontendURL+"/login?"+q.Encode(), http.StatusFound)
}

type phoneAuthRequest struct {
	Email       string `json:"email"`
	AccessToken string `json:"accessToken"`
}

// GooglePhoneAuth exchanges a provider access token obtained on a
// mobile client. A registered account yields a long-lived token (201);
// an unregistered email is acknowledged with 202 so the client can
// continue to registration without parsing error bodies.
func (h *Handler) GooglePhoneAuth(c *fiber.Ctx) error {
	var req phoneAuthRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if req.Email == "" || req.AccessToken == "" {
		return apperr.Validation("email and accessToken are required")
	}

	if err := h.bridge.VerifyAccessToken(c.UserContext(), req.Email, req.AccessToken); err != nil {
		return err
	}

	res, err := h.resolver.ResolveOAuthIdentity(c.UserContext(), req.Email, auth.PhoneOAuthTokenTTL)
	if err != nil {
		return err
	}

	if !res.Registered {
		return c.Status(http.StatusAccepted).JSON(fiber.Map{
			"message": "Google login: user not registered",
			"email":   res.Email,
		})
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Google login successful",
		"token":   res.Token,
		"user":    res.User,
	})
}

func (h *Handler) redirectRegister(c *fiber.Ctx, message, email string) error {
	q := url.Values{}
	q.Set("message", message)
	if email != "" {
		q.Set("email", email)
	}
	return c.Redirect(h.frontendURL+"/register?"+q.Encode(), http.StatusFound)
}

// signState binds the state cookie to the session secret so the value
// cannot be forged client-side.
func (h *Handler) signState(state string) string {
	mac := hmac.New(sha256.New, []byte(h.sessionSecret))
	mac.Write([]byte(state))
	return state + "." + hex.EncodeToString(mac.Sum(nil))
}
