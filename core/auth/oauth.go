package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/irsalhamdi/marble-store/api/web"
	"github.com/irsalhamdi/marble-store/api/weberr"
	"github.com/irsalhamdi/marble-store/random"
	"github.com/irsalhamdi/marble-store/validate"
	"golang.org/x/oauth2"
)

const (
	stateKey = "oauth_state"
	nonceKey = "oauth_nonce"
)

type ProviderConfig struct {
	Name        string
	Client      string
	Secret      string
	URL         string
	RedirectURL string
}

// Provider is an OpenID Connect identity provider.
type Provider struct {
	Name     string
	oauth    *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

func NewProvider(name string, oauth *oauth2.Config, verifier *oidc.IDTokenVerifier) Provider {
	return Provider{Name: name, oauth: oauth, verifier: verifier}
}

// MakeProviders runs OIDC discovery for every configured provider.
// Providers without a client id are skipped.
func MakeProviders(ctx context.Context, cfgs []ProviderConfig) (map[string]Provider, error) {
	provs := make(map[string]Provider, len(cfgs))
	for _, c := range cfgs {
		if c.Client == "" {
			continue
		}

		p, err := oidc.NewProvider(ctx, c.URL)
		if err != nil {
			return nil, fmt.Errorf("discovering provider[%s]: %w", c.Name, err)
		}

		oc := &oauth2.Config{
			ClientID:     c.Client,
			ClientSecret: c.Secret,
			RedirectURL:  c.RedirectURL,
			Endpoint:     p.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		}
		v := p.Verifier(&oidc.Config{ClientID: c.Client})

		provs[c.Name] = NewProvider(c.Name, oc, v)
	}
	return provs, nil
}

func HandleOauthLogin(session *scs.SessionManager, provs map[string]Provider) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		name := web.Param(r, "provider")
		p, ok := provs[name]
		if !ok {
			return weberr.NotFound(fmt.Errorf("provider[%s] not configured", name))
		}

		state, err := random.StringSecure(32)
		if err != nil {
			return fmt.Errorf("generating oauth state: %w", err)
		}
		nonce := validate.GenerateID()

		session.Put(ctx, stateKey, state)
		session.Put(ctx, nonceKey, nonce)

		http.Redirect(w, r, p.oauth.AuthCodeURL(state, oidc.Nonce(nonce)), http.StatusFound)
		return nil
	}
}

// HandleOauthCallback completes the code flow, verifies the ID token and
// hands it to the backend, which owns the account.
func HandleOauthCallback(session *scs.SessionManager, provs map[string]Provider, accounts Accounts, redirectURL string) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		name := web.Param(r, "provider")
		p, ok := provs[name]
		if !ok {
			return weberr.NotFound(fmt.Errorf("provider[%s] not configured", name))
		}

		state := session.PopString(ctx, stateKey)
		nonce := session.PopString(ctx, nonceKey)

		q := r.URL.Query()
		if state == "" || q.Get("state") != state {
			return weberr.BadRequest(errors.New("oauth state mismatch"))
		}
		if e := q.Get("error"); e != "" {
			return weberr.NotAuthorized(fmt.Errorf("provider[%s] denied login: %s", name, e))
		}

		tok, err := p.oauth.Exchange(ctx, q.Get("code"))
		if err != nil {
			return weberr.NotAuthorized(fmt.Errorf("exchanging code with provider[%s]: %w", name, err))
		}

		rawID, ok := tok.Extra("id_token").(string)
		if !ok {
			return weberr.NotAuthorized(fmt.Errorf("provider[%s] returned no id token", name))
		}

		idt, err := p.verifier.Verify(ctx, rawID)
		if err != nil {
			return weberr.NotAuthorized(fmt.Errorf("verifying id token of provider[%s]: %w", name, err))
		}
		if idt.Nonce != nonce {
			return weberr.NotAuthorized(errors.New("id token nonce mismatch"))
		}

		u, err := accounts.GoogleLogin(ctx, rawID)
		if err != nil {
			return fmt.Errorf("exchanging id token with the backend: %w", err)
		}

		if err := signIn(ctx, session, u); err != nil {
			return err
		}

		http.Redirect(w, r, redirectURL, http.StatusFound)
		return nil
	}
}
