package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/netts-ev/netts-backend/internal/config"
	"github.com/netts-ev/netts-backend/internal/logging"
)

func testConfig() config.Config {
	return config.Config{
		AppName:                "NettsBackendTest",
		AppEnv:                 "development",
		Port:                   "0",
		JWTSecret:              "test-secret",
		SessionSecret:          "session-secret",
		FrontendURL:            "http://frontend.test",
		PlaceholderEmailDomain: "phone.netts.test",
		ShutdownPeriod:         time.Second,
		IdempotencyTTL:         time.Minute,
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv, err := New(testConfig(), nil, nil, logging.Discard())
	if err != nil {
		t.Fatalf("build server: %v", err)
	}
	return srv
}

func postJSON(t *testing.T, srv *Server, path, body string, header map[string]string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := srv.app.Test(req, 5000)
	if err != nil {
		t.Fatalf("%s %s: %v", http.MethodPost, path, err)
	}
	return resp, decodeBody(t, resp)
}

func getJSON(t *testing.T, srv *Server, path string, header map[string]string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := srv.app.Test(req, 5000)
	if err != nil {
		t.Fatalf("%s %s: %v", http.MethodGet, path, err)
	}
	return resp, decodeBody(t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()
	var decoded map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode body %q: %v", raw, err)
		}
	}
	return decoded
}

func TestRegisterLoginSessionFlow(t *testing.T) {
	srv := newTestServer(t)

	resp, body := postJSON(t, srv, "/api/auth/register",
		`{"firstName":"A","lastName":"B","phone":"9990001111","password":"secret1","state":"KA","city":"BLR","pincode":"560001"}`, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status %d body %v", resp.StatusCode, body)
	}
	user, _ := body["user"].(map[string]any)
	if user["email"] != "9990001111@phone.netts.test" {
		t.Fatalf("unexpected placeholder email %v", user["email"])
	}

	resp, body = postJSON(t, srv, "/api/auth/login", `{"phone":"9990001111","password":"secret1"}`, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status %d body %v", resp.StatusCode, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("login returned no token")
	}

	bearer := map[string]string{"Authorization": "Bearer " + token}
	resp, body = getJSON(t, srv, "/api/auth/session", bearer)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("session status %d body %v", resp.StatusCode, body)
	}
	sessUser, _ := body["user"].(map[string]any)
	if sessUser["phone"] != "9990001111" {
		t.Fatalf("session user mismatch: %v", body)
	}

	resp, body = postJSON(t, srv, "/api/booking/", `{"manufacturer":"Ather","model":"450X","battery":"3.7kWh"}`, bearer)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("booking status %d body %v", resp.StatusCode, body)
	}

	resp, body = getJSON(t, srv, "/api/booking/", bearer)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list bookings status %d body %v", resp.StatusCode, body)
	}
	if bookings, _ := body["bookings"].([]any); len(bookings) != 1 {
		t.Fatalf("expected one booking, got %v", body)
	}
}

func TestRegisterValidationAndConflict(t *testing.T) {
	srv := newTestServer(t)

	resp, body := postJSON(t, srv, "/api/auth/register",
		`{"firstName":"A","lastName":"B","state":"KA","city":"BLR","pincode":"560001"}`, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if body["error"] != "identifier required" {
		t.Fatalf("unexpected error body %v", body)
	}

	payload := `{"firstName":"A","lastName":"B","phone":"9990001111","password":"secret1","state":"KA","city":"BLR","pincode":"560001"}`
	if resp, _ := postJSON(t, srv, "/api/auth/register", payload, nil); resp.StatusCode != http.StatusCreated {
		t.Fatalf("first register failed: %d", resp.StatusCode)
	}
	resp, body = postJSON(t, srv, "/api/auth/register", payload, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected conflict 400, got %d", resp.StatusCode)
	}
	if body["error"] != "phone number already registered" {
		t.Fatalf("unexpected conflict body %v", body)
	}
}

func TestLoginFailureKeeps400(t *testing.T) {
	srv := newTestServer(t)

	resp, body := postJSON(t, srv, "/api/auth/login", `{"phone":"0000000000","password":"x"}`, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if body["error"] != "user not found" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestSessionRequiresBearer(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := getJSON(t, srv, "/api/auth/session", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	resp, _ = getJSON(t, srv, "/api/auth/session", map[string]string{"Authorization": "Bearer not-a-token"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", resp.StatusCode)
	}
}

func TestGooglePhoneAuthValidation(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := postJSON(t, srv, "/api/auth/google-phone-auth", `{"email":"a@b.com"}`, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing accessToken, got %d", resp.StatusCode)
	}
}

func TestGoogleLoginUnconfigured(t *testing.T) {
	srv := newTestServer(t)

	resp, body := getJSON(t, srv, "/api/auth/google", nil)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500 when oauth unconfigured, got %d", resp.StatusCode)
	}
	if body["message"] == "" {
		t.Fatalf("expected message body, got %v", body)
	}
}

func TestDealershipAndAdmin(t *testing.T) {
	srv := newTestServer(t)

	resp, body := postJSON(t, srv, "/dealership",
		`{"company":"EV Motors","phno":"080123","email":"dealer@example.com","address":"MG Road"}`, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("dealership status %d body %v", resp.StatusCode, body)
	}

	if resp, _ := postJSON(t, srv, "/dealership", `{"company":"EV Motors"}`, nil); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing dealership fields, got %d", resp.StatusCode)
	}

	postJSON(t, srv, "/api/auth/register",
		`{"firstName":"A","lastName":"B","phone":"9990001111","password":"secret1","state":"KA","city":"BLR","pincode":"560001"}`, nil)

	resp, body = getJSON(t, srv, "/admin/users", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin users status %d", resp.StatusCode)
	}
	if users, _ := body["users"].([]any); len(users) != 1 {
		t.Fatalf("expected one user, got %v", body)
	}

	resp, body = getJSON(t, srv, "/admin/dashboard", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard status %d", resp.StatusCode)
	}
	if body["totalUsers"].(float64) != 1 {
		t.Fatalf("unexpected dashboard %v", body)
	}
}
