package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/alicebob/miniredis/v2"
	"github.com/irsalhamdi/marble-store/api"
	"github.com/irsalhamdi/marble-store/backend"
	"github.com/irsalhamdi/marble-store/core/product"
	"github.com/irsalhamdi/marble-store/database"
	"github.com/irsalhamdi/marble-store/rate"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// TestEnv is a running storefront wired to a mock backend and an
// in-memory Redis. Its client keeps cookies and never follows
// redirects.
type TestEnv struct {
	*httptest.Server
	Backend *mockBackend
	Redis   *miniredis.Miniredis

	UserEmail  string
	UserPass   string
	AdminEmail string
	AdminPass  string
}

type envOptions struct {
	limiter func(ctx context.Context) *rate.Limiter
}

type envOpt func(*envOptions)

func withLimiter(burst int) envOpt {
	return func(o *envOptions) {
		o.limiter = func(ctx context.Context) *rate.Limiter {
			return rate.NewLimiter(ctx, burst, time.Minute, 0.001)
		}
	}
}

func NewTestEnv(t *testing.T, opts ...envOpt) *TestEnv {
	t.Helper()

	var o envOptions
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	log := logrus.New()
	log.SetOutput(io.Discard)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	sm := scs.New()
	sm.Store = database.NewSessionStore(rdb)
	sm.Lifetime = time.Hour

	mb := newMockBackend()
	bsrv := httptest.NewServer(mb.handle())
	t.Cleanup(bsrv.Close)

	be := backend.New(backend.Config{
		BaseURL:      bsrv.URL,
		Timeout:      5 * time.Second,
		OpenTimeout:  time.Minute,
		MinRequests:  3,
		FailureRatio: 0.6,
	}, log)

	cfg := api.APIConfig{
		Log:              log,
		Session:          sm,
		Backend:          be,
		LoginRedirectURL: "/",
		Catalog:          product.ListConfig{DefaultPageSize: 12, MaxPageSize: 100},
	}
	if o.limiter != nil {
		cfg.Limiter = o.limiter(ctx)
	}

	srv := httptest.NewServer(api.APIMux(cfg))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("creating cookie jar: %v", err)
	}
	cl := srv.Client()
	cl.Jar = jar
	cl.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	env := &TestEnv{
		Server:     srv,
		Backend:    mb,
		Redis:      mr,
		UserEmail:  "user@marble.test",
		UserPass:   "user-secret",
		AdminEmail: "admin@marble.test",
		AdminPass:  "admin-secret",
	}
	mb.addUser(mockUser{ID: "u-user", Name: "Amel", Email: env.UserEmail, Password: env.UserPass, Token: userToken})
	mb.addUser(mockUser{ID: "u-admin", Name: "Admin", Email: env.AdminEmail, Password: env.AdminPass, Token: adminToken, IsAdmin: true})

	return env
}

// Do sends in as JSON, when non-nil, decodes the response into out,
// when non-nil, and returns the status code.
func (env *TestEnv) Do(t *testing.T, method, path string, in, out any) int {
	t.Helper()

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			t.Fatal(err)
		}
		body = bytes.NewReader(b)
	}

	r, err := http.NewRequest(method, env.URL+path, body)
	if err != nil {
		t.Fatal(err)
	}
	if in != nil {
		r.Header.Set("Content-Type", "application/json")
	}

	w, err := env.Client().Do(r)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Body.Close()

	if out != nil && w.StatusCode < http.StatusBadRequest {
		if err := json.NewDecoder(w.Body).Decode(out); err != nil {
			t.Fatalf("decoding %s %s response: %v", method, path, err)
		}
	}
	return w.StatusCode
}

func Login(env *TestEnv, email, password string) error {
	b, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return err
	}

	w, err := env.Client().Post(env.URL+"/auth/login", "application/json", bytes.NewReader(b))
	if err != nil {
		return err
	}
	defer w.Body.Close()

	if w.StatusCode != http.StatusOK {
		return fmt.Errorf("can't login as %s: status code %s", email, w.Status)
	}
	return nil
}

func Logout(env *TestEnv) error {
	w, err := env.Client().Post(env.URL+"/auth/logout", "", nil)
	if err != nil {
		return err
	}
	defer w.Body.Close()

	if w.StatusCode != http.StatusNoContent {
		return fmt.Errorf("can't logout: status code %s", w.Status)
	}
	return nil
}
