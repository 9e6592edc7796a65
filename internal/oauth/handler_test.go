package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/netts-ev/netts-backend/internal/auth"
	"github.com/netts-ev/netts-backend/internal/identity"
	"github.com/netts-ev/netts-backend/internal/logging"
)

// newProvider serves the token and userinfo endpoints, always vouching
// for the given email.
func newProvider(t *testing.T, email string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"access_token": "provider-token",
			"token_type":   "Bearer",
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"email": email})
	})
	return httptest.NewServer(mux)
}

func newCallbackApp(t *testing.T, srv *httptest.Server) (*fiber.App, *Handler, *identity.Service) {
	t.Helper()
	tokens, err := auth.NewIssuer("test-secret")
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	resolver := identity.NewService(identity.NewMemoryRepository(), tokens, "phone.netts.test")
	handler := NewHandler(newTestBridge(srv), resolver, "http://frontend.test", "session-secret", logging.Discard())

	app := fiber.New()
	app.Get("/api/auth/google/callback", handler.GoogleCallback)
	return app, handler, resolver
}

func callbackRequest(h *Handler, state, code string, withCookie bool) *http.Request {
	q := url.Values{}
	q.Set("state", state)
	q.Set("code", code)
	req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?"+q.Encode(), nil)
	if withCookie {
		req.AddCookie(&http.Cookie{Name: stateCookie, Value: h.signState(state)})
	}
	return req
}

func redirectLocation(t *testing.T, resp *http.Response) *url.URL {
	t.Helper()
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect, got status %d", resp.StatusCode)
	}
	loc, err := url.Parse(resp.Header.Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	return loc
}

func TestGoogleCallbackRegisteredUser(t *testing.T) {
	srv := newProvider(t, "known@example.com")
	defer srv.Close()
	app, handler, resolver := newCallbackApp(t, srv)

	registered, _, err := resolver.Register(context.Background(), identity.RegisterInput{
		FirstName: "A", LastName: "B",
		Email: "known@example.com", Password: "secret1",
		State: "KA", City: "BLR", Pincode: "560001",
	})
	if err != nil {
		t.Fatalf("seed register: %v", err)
	}

	resp, err := app.Test(callbackRequest(handler, "state-1", "auth-code", true), 5000)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	loc := redirectLocation(t, resp)

	if loc.Path != "/login" {
		t.Fatalf("expected /login redirect, got %s", loc.Path)
	}
	if loc.Query().Get("email") != "known@example.com" {
		t.Fatalf("unexpected email param %q", loc.Query().Get("email"))
	}
	token := loc.Query().Get("token")
	if token == "" {
		t.Fatal("expected token in redirect")
	}

	tokens, _ := auth.NewIssuer("test-secret")
	claims, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("verify redirect token: %v", err)
	}
	if auth.StringClaim(claims, "id") != registered.ID {
		t.Fatalf("token subject %q, want %q", auth.StringClaim(claims, "id"), registered.ID)
	}
}

func TestGoogleCallbackUnknownEmail(t *testing.T) {
	srv := newProvider(t, "stranger@example.com")
	defer srv.Close()
	app, handler, _ := newCallbackApp(t, srv)

	resp, err := app.Test(callbackRequest(handler, "state-2", "auth-code", true), 5000)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	loc := redirectLocation(t, resp)

	if loc.Path != "/register" {
		t.Fatalf("expected /register redirect, got %s", loc.Path)
	}
	if loc.Query().Get("message") != "Google login: user not registered" {
		t.Fatalf("unexpected message %q", loc.Query().Get("message"))
	}
	if loc.Query().Get("email") != "stranger@example.com" {
		t.Fatalf("unexpected email param %q", loc.Query().Get("email"))
	}
	if loc.Query().Get("token") != "" {
		t.Fatal("no token may be issued for an unknown email")
	}
}

func TestGoogleCallbackRejectsForgedState(t *testing.T) {
	srv := newProvider(t, "known@example.com")
	defer srv.Close()
	app, handler, _ := newCallbackApp(t, srv)

	// Missing cookie entirely.
	resp, err := app.Test(callbackRequest(handler, "state-3", "auth-code", false), 5000)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	loc := redirectLocation(t, resp)
	if loc.Path != "/register" || loc.Query().Get("message") != "Google login failed" {
		t.Fatalf("expected failure redirect, got %s?%s", loc.Path, loc.RawQuery)
	}
	if loc.Query().Get("token") != "" {
		t.Fatal("no token may be issued on state failure")
	}

	// Cookie signed for a different state value.
	req := callbackRequest(handler, "state-4", "auth-code", false)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: handler.signState("other-state")})
	resp, err = app.Test(req, 5000)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	loc = redirectLocation(t, resp)
	if loc.Path != "/register" || loc.Query().Get("message") != "Google login failed" {
		t.Fatalf("expected failure redirect, got %s?%s", loc.Path, loc.RawQuery)
	}
}
