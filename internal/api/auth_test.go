package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/bookmarkd/bookmarkd/internal/auth"
)

func TestHandleSignup(t *testing.T) {
	_, router := testServer(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email":    "alice@example.com",
		"password": "testpass123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var pair auth.TokenPair
	if err := json.Unmarshal(w.Body.Bytes(), &pair); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Error("signup should return both tokens")
	}
}

func TestHandleSignup_Validation(t *testing.T) {
	_, router := testServer(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing email", map[string]string{"password": "testpass123"}},
		{"invalid email", map[string]string{"email": "not-an-email", "password": "testpass123"}},
		{"short password", map[string]string{"email": "alice@example.com", "password": "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", "", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestHandleSignup_DuplicateEmail(t *testing.T) {
	_, router := testServer(t)
	signupUser(t, router, "alice@example.com")

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email":    "alice@example.com",
		"password": "different-pass",
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("duplicate signup: status = %d, want %d", w.Code, http.StatusForbidden)
	}
}

func TestHandleLogin(t *testing.T) {
	_, router := testServer(t)
	signupUser(t, router, "alice@example.com")

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "testpass123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var pair auth.TokenPair
	if err := json.Unmarshal(w.Body.Bytes(), &pair); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Error("login should return both tokens")
	}
}

// Unknown email and wrong password both produce the identical 403.
func TestHandleLogin_IndistinguishableFailures(t *testing.T) {
	_, router := testServer(t)
	signupUser(t, router, "alice@example.com")

	unknown := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "testpass123",
	})
	wrong := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})

	if unknown.Code != http.StatusForbidden || wrong.Code != http.StatusForbidden {
		t.Fatalf("statuses = %d, %d; want both %d", unknown.Code, wrong.Code, http.StatusForbidden)
	}
	if unknown.Body.String() != wrong.Body.String() {
		t.Errorf("failure bodies differ:\n%s\n%s", unknown.Body.String(), wrong.Body.String())
	}
}

func TestHandleRefresh(t *testing.T) {
	_, router := testServer(t)
	pair := signupUser(t, router, "alice@example.com")

	w := doJSON(t, router, http.MethodGet, "/api/v1/auth/refresh", pair.RefreshToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var next auth.TokenPair
	if err := json.Unmarshal(w.Body.Bytes(), &next); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if next.RefreshToken == pair.RefreshToken {
		t.Error("refresh should rotate the refresh token")
	}

	// The redeemed token is single-use
	replay := doJSON(t, router, http.MethodGet, "/api/v1/auth/refresh", pair.RefreshToken, nil)
	if replay.Code != http.StatusUnauthorized {
		t.Errorf("replayed refresh: status = %d, want %d", replay.Code, http.StatusUnauthorized)
	}

	// The rotated token works
	again := doJSON(t, router, http.MethodGet, "/api/v1/auth/refresh", next.RefreshToken, nil)
	if again.Code != http.StatusOK {
		t.Errorf("rotated refresh: status = %d, want %d", again.Code, http.StatusOK)
	}
}

// An access token must not pass the refresh endpoint: the signature
// check against the refresh secret fails first.
func TestHandleRefresh_RejectsAccessToken(t *testing.T) {
	_, router := testServer(t)
	pair := signupUser(t, router, "alice@example.com")

	w := doJSON(t, router, http.MethodGet, "/api/v1/auth/refresh", pair.AccessToken, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("access token on refresh route: status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestHandleLogout(t *testing.T) {
	_, router := testServer(t)
	pair := signupUser(t, router, "alice@example.com")

	w := doJSON(t, router, http.MethodDelete, "/api/v1/auth/logout", pair.AccessToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("logout status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	// The outstanding refresh token is now dead
	refresh := doJSON(t, router, http.MethodGet, "/api/v1/auth/refresh", pair.RefreshToken, nil)
	if refresh.Code != http.StatusUnauthorized {
		t.Errorf("refresh after logout: status = %d, want %d", refresh.Code, http.StatusUnauthorized)
	}

	// The access token still validates until it expires; logout only
	// revokes the refresh side.
	me := doJSON(t, router, http.MethodGet, "/api/v1/users/me", pair.AccessToken, nil)
	if me.Code != http.StatusOK {
		t.Errorf("access token after logout: status = %d, want %d", me.Code, http.StatusOK)
	}
}

func TestHandleGetMe(t *testing.T) {
	_, router := testServer(t)
	pair := signupUser(t, router, "alice@example.com")

	w := doJSON(t, router, http.MethodGet, "/api/v1/users/me", pair.AccessToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		User      auth.User        `json:"user"`
		Bookmarks []map[string]any `json:"bookmarks"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.User.Email != "alice@example.com" {
		t.Errorf("user.email = %q, want alice@example.com", resp.User.Email)
	}
	if len(resp.Bookmarks) != 0 {
		t.Errorf("new user bookmarks = %d, want 0", len(resp.Bookmarks))
	}

	// Password and refresh hashes never leave the server
	body := w.Body.String()
	for _, forbidden := range []string{"password_hash", "refresh_token_hash", "$argon2id$"} {
		if strings.Contains(body, forbidden) {
			t.Errorf("response body leaks %q", forbidden)
		}
	}
}

func TestHandleUpdateMe(t *testing.T) {
	_, router := testServer(t)
	pair := signupUser(t, router, "alice@example.com")
	signupUser(t, router, "bob@example.com")

	w := doJSON(t, router, http.MethodPatch, "/api/v1/users/me", pair.AccessToken, map[string]string{
		"first_name": "Alice",
		"last_name":  "Smith",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var user auth.User
	if err := json.Unmarshal(w.Body.Bytes(), &user); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if user.FirstName != "Alice" || user.LastName != "Smith" {
		t.Errorf("updated user = %+v, want names applied", user)
	}

	// Taking another account's email is a conflict
	conflict := doJSON(t, router, http.MethodPatch, "/api/v1/users/me", pair.AccessToken, map[string]string{
		"email": "bob@example.com",
	})
	if conflict.Code != http.StatusConflict {
		t.Errorf("email collision: status = %d, want %d", conflict.Code, http.StatusConflict)
	}
}
