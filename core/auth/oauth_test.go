package auth

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

const (
	testIssuer = "https://accounts.marble.test"
	testClient = "client-1"
)

// fakeIDP issues RS256 ID tokens from its token endpoint.
type fakeIDP struct {
	*httptest.Server
	key *rsa.PrivateKey

	mu    sync.Mutex
	nonce string
}

func newFakeIDP(t *testing.T) *fakeIDP {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}

	idp := &fakeIDP{key: key}
	idp.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/token" {
			http.NotFound(w, r)
			return
		}

		idp.mu.Lock()
		nonce := idp.nonce
		idp.mu.Unlock()

		tok, err := idp.sign(map[string]any{
			"iss":   testIssuer,
			"sub":   "google-42",
			"aud":   testClient,
			"email": "g@marble.test",
			"nonce": nonce,
			"iat":   time.Now().Unix(),
			"exp":   time.Now().Add(time.Hour).Unix(),
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "access",
			"token_type":   "Bearer",
			"expires_in":   3600,
			"id_token":     tok,
		})
	}))
	t.Cleanup(idp.Close)
	return idp
}

func (idp *fakeIDP) setNonce(n string) {
	idp.mu.Lock()
	defer idp.mu.Unlock()
	idp.nonce = n
}

func (idp *fakeIDP) sign(claims map[string]any) (string, error) {
	enc := base64.RawURLEncoding

	header := enc.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	input := header + "." + enc.EncodeToString(payload)

	sum := sha256.Sum256([]byte(input))
	sig, err := rsa.SignPKCS1v15(rand.Reader, idp.key, crypto.SHA256, sum[:])
	if err != nil {
		return "", err
	}
	return input + "." + enc.EncodeToString(sig), nil
}

func (idp *fakeIDP) provider() Provider {
	oc := &oauth2.Config{
		ClientID:     testClient,
		ClientSecret: "secret",
		RedirectURL:  "http://localhost/auth/oauth-callback/google",
		Endpoint: oauth2.Endpoint{
			AuthURL:  testIssuer + "/auth",
			TokenURL: idp.URL + "/token",
		},
		Scopes: []string{oidc.ScopeOpenID, "email"},
	}
	keys := &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&idp.key.PublicKey}}
	v := oidc.NewVerifier(testIssuer, keys, &oidc.Config{ClientID: testClient})

	return NewProvider("google", oc, v)
}

func TestOauthFlow(t *testing.T) {
	idp := newFakeIDP(t)
	h := newHarness(t)
	acc := newFakeAccounts()
	provs := map[string]Provider{"google": idp.provider()}

	h.handle(http.MethodGet, "/oauth-login/{provider}", HandleOauthLogin(h.session, provs))
	h.handle(http.MethodGet, "/oauth-callback/{provider}", HandleOauthCallback(h.session, provs, acc, "/shop"))
	h.handle(http.MethodGet, "/me", HandleShowCurrent(h.session))

	start := func() (state, nonce string) {
		w := h.get(t, "/oauth-login/google")
		if w.StatusCode != http.StatusFound {
			t.Fatalf("expected a redirect, but got status %d", w.StatusCode)
		}
		loc, err := url.Parse(w.Header.Get("Location"))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(loc.String(), testIssuer+"/auth") || loc.Query().Get("client_id") != testClient {
			t.Fatalf("unexpected authorization url %s", loc)
		}
		return loc.Query().Get("state"), loc.Query().Get("nonce")
	}

	if code := h.get(t, "/oauth-login/github").StatusCode; code != http.StatusNotFound {
		t.Fatalf("expected status %d for an unknown provider, but got %d", http.StatusNotFound, code)
	}

	state, nonce := start()
	if state == "" || nonce == "" {
		t.Fatal("expected the authorization url to carry a state and a nonce")
	}
	if code := h.get(t, "/oauth-callback/google?code=c&state=forged").StatusCode; code != http.StatusBadRequest {
		t.Fatalf("expected status %d for a forged state, but got %d", http.StatusBadRequest, code)
	}
	if code := h.get(t, "/oauth-callback/google?code=c&state="+url.QueryEscape(state)).StatusCode; code != http.StatusBadRequest {
		t.Fatalf("expected the state to be single use, but got status %d", code)
	}

	state, _ = start()
	idp.setNonce("replayed")
	if code := h.get(t, "/oauth-callback/google?code=c&state="+url.QueryEscape(state)).StatusCode; code != http.StatusUnauthorized {
		t.Fatalf("expected status %d for a nonce mismatch, but got %d", http.StatusUnauthorized, code)
	}
	if code := h.get(t, "/me").StatusCode; code != http.StatusUnauthorized {
		t.Fatalf("expected no user after a failed login, but got status %d", code)
	}

	state, nonce = start()
	idp.setNonce(nonce)
	w := h.get(t, "/oauth-callback/google?code=c&state="+url.QueryEscape(state))
	if w.StatusCode != http.StatusFound || w.Header.Get("Location") != "/shop" {
		t.Fatalf("expected a redirect to /shop, but got status %d to %q", w.StatusCode, w.Header.Get("Location"))
	}
	if acc.idToken == "" || strings.Count(acc.idToken, ".") != 2 {
		t.Fatalf("expected the id token to be handed to the backend, got %q", acc.idToken)
	}
	if code := h.get(t, "/me").StatusCode; code != http.StatusOK {
		t.Fatalf("expected the google user to be signed in, but got status %d", code)
	}
}
