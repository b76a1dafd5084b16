// Package session produces live, validated session handles for one
// integration, refreshing or re-authorizing stored credentials as needed.
// The provider owns the credential store: no other component mutates the
// on-disk bundles.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/satchelhq/satchel/pkg/config"
	"github.com/satchelhq/satchel/pkg/credstore"
	"github.com/satchelhq/satchel/pkg/logger"
)

// ErrAuthorizationUnavailable means the interactive flow cannot start
// because no OAuth client registration material is configured. Fatal to the
// call; requires operator setup, never retried automatically.
var ErrAuthorizationUnavailable = errors.New("authorization unavailable")

// Session is an in-memory handle bound to one valid credential bundle.
// It is rebuilt on every operation call; nothing caches it across calls.
type Session struct {
	Account    string
	Token      *oauth2.Token
	HTTPClient *http.Client
}

// Provider evaluates the credential state machine on every request for a
// session: valid bundle -> handle, expired with refresh token -> refresh
// exchange, anything else -> one interactive authorization attempt.
type Provider struct {
	integ config.Integration
	store *credstore.Store
	flow  AuthorizationFlow
	log   zerolog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewProvider(integ config.Integration, store *credstore.Store, flow AuthorizationFlow) *Provider {
	return &Provider{
		integ: integ,
		store: store,
		flow:  flow,
		log:   logger.C("session"),
		locks: make(map[string]*sync.Mutex),
	}
}

// GetSession returns a session valid for immediate use. The load -> refresh
// -> save sequence is atomic per account; two accounts never contend.
func (p *Provider) GetSession(ctx context.Context, account string) (*Session, error) {
	account = p.accountOrDefault(account)
	lock := p.accountLock(account)
	lock.Lock()
	defer lock.Unlock()
	return p.getSessionLocked(ctx, account)
}

// Reauthenticate deletes the stored bundle and forces a fresh interactive
// authorization. Called explicitly when a downstream call reports the
// credential as revoked; the provider never detects that condition itself.
func (p *Provider) Reauthenticate(ctx context.Context, account string) (*Session, error) {
	account = p.accountOrDefault(account)
	lock := p.accountLock(account)
	lock.Lock()
	defer lock.Unlock()

	if err := p.store.Delete(account); err != nil {
		return nil, err
	}
	p.log.Info().Str("account", account).Msg("credential deleted, re-authorizing")
	return p.getSessionLocked(ctx, account)
}

// Inspect reports the stored credential state for one account without
// touching the network. Used by the status command.
func (p *Provider) Inspect(account string) (configured bool, expiry time.Time, err error) {
	bundle, err := p.store.Load(p.accountOrDefault(account))
	if err != nil || bundle == nil {
		return false, time.Time{}, err
	}
	return true, bundle.Expiry, nil
}

func (p *Provider) getSessionLocked(ctx context.Context, account string) (*Session, error) {
	bundle, err := p.store.Load(account)
	if err != nil {
		return nil, err
	}

	if bundle != nil && bundle.HasScopes(p.integ.Scopes) {
		if !bundle.ShouldRefresh() {
			return p.newSession(ctx, account, bundle), nil
		}
		if bundle.RefreshToken != "" {
			refreshed, refreshErr := p.refresh(ctx, bundle)
			if refreshErr == nil {
				if err := p.store.Save(account, refreshed); err != nil {
					return nil, err
				}
				p.log.Debug().Str("account", account).Time("expiry", refreshed.Expiry).Msg("token refreshed")
				return p.newSession(ctx, account, refreshed), nil
			}
			// One fall-through to interactive authorization, never a retry loop.
			p.log.Warn().Str("account", account).Err(refreshErr).Msg("refresh failed, falling back to interactive authorization")
		}
	}

	conf, err := p.clientConfig()
	if err != nil {
		return nil, err
	}
	fresh, err := p.flow.Run(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("authorize %s (%s): %w", p.integ.DisplayName, account, err)
	}
	if err := p.store.Save(account, fresh); err != nil {
		return nil, err
	}
	p.log.Info().Str("account", account).Msg("authorized")
	return p.newSession(ctx, account, fresh), nil
}

// refresh exchanges the refresh token for a new access token. Exactly one
// token-endpoint call per invocation.
func (p *Provider) refresh(ctx context.Context, bundle *credstore.Bundle) (*credstore.Bundle, error) {
	conf, err := p.clientConfig()
	if err != nil {
		return nil, err
	}

	token, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: bundle.RefreshToken}).Token()
	if err != nil {
		return nil, err
	}

	refreshed := *bundle
	refreshed.AccessToken = token.AccessToken
	refreshed.TokenType = token.TokenType
	refreshed.Expiry = token.Expiry
	if token.RefreshToken != "" {
		refreshed.RefreshToken = token.RefreshToken
	}
	return &refreshed, nil
}

// clientConfig loads the OAuth client registration material. Its absence is
// the AuthorizationUnavailable condition from the error taxonomy.
func (p *Provider) clientConfig() (*oauth2.Config, error) {
	path := p.integ.ClientRegistrationPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s credentials not found at %s", ErrAuthorizationUnavailable, p.integ.DisplayName, path)
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrAuthorizationUnavailable, path, err)
	}

	conf, err := google.ConfigFromJSON(data, p.integ.Scopes...)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrAuthorizationUnavailable, path, err)
	}
	return conf, nil
}

func (p *Provider) newSession(ctx context.Context, account string, bundle *credstore.Bundle) *Session {
	token := &oauth2.Token{
		AccessToken:  bundle.AccessToken,
		RefreshToken: bundle.RefreshToken,
		TokenType:    bundle.TokenType,
		Expiry:       bundle.Expiry,
	}
	return &Session{
		Account:    account,
		Token:      token,
		HTTPClient: oauth2.NewClient(ctx, oauth2.StaticTokenSource(token)),
	}
}

func (p *Provider) accountOrDefault(account string) string {
	if account == "" {
		return config.DefaultAccount
	}
	return account
}

func (p *Provider) accountLock(account string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	lock, ok := p.locks[account]
	if !ok {
		lock = &sync.Mutex{}
		p.locks[account] = lock
	}
	return lock
}
