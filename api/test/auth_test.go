package test

import (
	"net/http"
	"testing"
)

type me struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
	Token   string `json:"token"`
}

func TestAuth(t *testing.T) {
	env := NewTestEnv(t)

	if code := env.Do(t, http.MethodGet, "/auth/me", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("expected status %d before login, but got %d", http.StatusUnauthorized, code)
	}

	bad := map[string]string{"email": env.UserEmail, "password": "wrong"}
	if code := env.Do(t, http.MethodPost, "/auth/login", bad, nil); code != http.StatusUnauthorized {
		t.Fatalf("expected status %d for bad credentials, but got %d", http.StatusUnauthorized, code)
	}

	malformed := map[string]string{"email": "not-an-email", "password": "x"}
	if code := env.Do(t, http.MethodPost, "/auth/login", malformed, nil); code != http.StatusBadRequest {
		t.Fatalf("expected status %d for a malformed email, but got %d", http.StatusBadRequest, code)
	}

	if err := Login(env, env.UserEmail, env.UserPass); err != nil {
		t.Fatal(err)
	}

	var u me
	if code := env.Do(t, http.MethodGet, "/auth/me", nil, &u); code != http.StatusOK {
		t.Fatalf("can't show current user: status code %d", code)
	}
	if u.ID != "u-user" || u.Name != "Amel" || u.IsAdmin || u.Token != "" {
		t.Fatalf("unexpected current user %+v", u)
	}

	if err := Logout(env); err != nil {
		t.Fatal(err)
	}
	if code := env.Do(t, http.MethodGet, "/auth/me", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("expected status %d after logout, but got %d", http.StatusUnauthorized, code)
	}
}

func TestRegister(t *testing.T) {
	env := NewTestEnv(t)

	reg := map[string]string{
		"name":            "Sami",
		"email":           "sami@marble.test",
		"password":        "secret1",
		"ConfirmPassword": "secret2",
	}
	if code := env.Do(t, http.MethodPost, "/auth/register", reg, nil); code != http.StatusBadRequest {
		t.Fatalf("expected status %d for mismatched passwords, but got %d", http.StatusBadRequest, code)
	}

	reg["ConfirmPassword"] = "secret1"
	var u me
	if code := env.Do(t, http.MethodPost, "/auth/register", reg, &u); code != http.StatusCreated {
		t.Fatalf("can't register: status code %d", code)
	}
	if u.Email != "sami@marble.test" {
		t.Fatalf("unexpected registered user %+v", u)
	}

	if code := env.Do(t, http.MethodGet, "/auth/me", nil, nil); code != http.StatusOK {
		t.Fatalf("expected to be signed in after registering, got status %d", code)
	}

	if err := Logout(env); err != nil {
		t.Fatal(err)
	}
	if code := env.Do(t, http.MethodPost, "/auth/register", reg, nil); code != http.StatusConflict {
		t.Fatalf("expected status %d for a taken email, but got %d", http.StatusConflict, code)
	}
}

func TestLoginRateLimit(t *testing.T) {
	env := NewTestEnv(t, withLimiter(2))

	bad := map[string]string{"email": env.UserEmail, "password": "wrong"}
	for i := 0; i < 2; i++ {
		if code := env.Do(t, http.MethodPost, "/auth/login", bad, nil); code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected status %d, but got %d", i, http.StatusUnauthorized, code)
		}
	}

	if code := env.Do(t, http.MethodPost, "/auth/login", bad, nil); code != http.StatusTooManyRequests {
		t.Fatalf("expected status %d once the bucket is empty, but got %d", http.StatusTooManyRequests, code)
	}

	if code := env.Do(t, http.MethodGet, "/products/tags", nil, nil); code != http.StatusOK {
		t.Fatalf("expected unthrottled routes to keep working, got status %d", code)
	}
}

func TestOauthUnknownProvider(t *testing.T) {
	env := NewTestEnv(t)

	if code := env.Do(t, http.MethodGet, "/auth/oauth-login/google", nil, nil); code != http.StatusNotFound {
		t.Fatalf("expected status %d for an unconfigured provider, but got %d", http.StatusNotFound, code)
	}
}
