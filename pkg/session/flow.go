package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/satchelhq/satchel/pkg/credstore"
)

// AuthorizationFlow obtains a fresh credential bundle through an
// out-of-band, human-in-the-loop exchange. The production implementation
// opens a loopback listener and waits for the browser redirect; tests
// substitute a double that returns a canned bundle.
type AuthorizationFlow interface {
	Run(ctx context.Context, conf *oauth2.Config) (*credstore.Bundle, error)
}

// BrowserFlow is the interactive authorization flow: PKCE challenge,
// loopback callback listener, and authorization-code exchange. The
// verification URL is printed for the user to open; everything goes to
// stderr so the request stream stays clean.
type BrowserFlow struct {
	// Timeout bounds the wait for the browser callback. Zero means 5 minutes.
	Timeout time.Duration
	// Out receives user-facing instructions. Defaults to stderr.
	Out io.Writer
}

var errCallbackTimeout = errors.New("timed out waiting for authorization callback")

func (f *BrowserFlow) Run(ctx context.Context, conf *oauth2.Config) (*credstore.Bundle, error) {
	out := f.Out
	if out == nil {
		out = os.Stderr
	}
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("start callback listener: %w", err)
	}
	cb := newCallbackServer(listener, uuid.NewString())
	defer cb.Close()

	redirect := *conf
	redirect.RedirectURL = cb.RedirectURI()

	verifier := oauth2.GenerateVerifier()
	authURL := redirect.AuthCodeURL(cb.state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
		oauth2.S256ChallengeOption(verifier),
	)

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Open this URL in your browser to authorize:")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", authURL)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Waiting for authorization (up to %s)...\n", timeout)

	code, err := cb.WaitForCode(ctx, timeout)
	if err != nil {
		return nil, err
	}

	token, err := redirect.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	return BundleFromToken(token, conf.Scopes), nil
}

// BundleFromToken converts an exchanged token into a storable bundle. The
// granted scope set comes from the token response when the provider echoes
// it, otherwise the requested scopes are recorded.
func BundleFromToken(token *oauth2.Token, requested []string) *credstore.Bundle {
	scopes := requested
	if granted, ok := token.Extra("scope").(string); ok && granted != "" {
		scopes = splitScopes(granted)
	}
	return &credstore.Bundle{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Expiry:       token.Expiry,
		Scopes:       scopes,
	}
}

func splitScopes(s string) []string {
	return strings.Fields(s)
}

// callbackServer accepts exactly one redirect carrying the expected state
// nonce and hands the authorization code back to the flow.
type callbackServer struct {
	state    string
	listener net.Listener
	server   *http.Server
	result   chan callbackResult
	once     sync.Once
	closeOnce sync.Once
}

type callbackResult struct {
	code string
	err  error
}

func newCallbackServer(listener net.Listener, state string) *callbackServer {
	cb := &callbackServer{
		state:    state,
		listener: listener,
		result:   make(chan callbackResult, 1),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", cb.handle)
	cb.server = &http.Server{Handler: mux}

	go func() {
		if err := cb.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cb.send(callbackResult{err: err})
		}
	}()

	return cb
}

func (c *callbackServer) RedirectURI() string {
	if addr, ok := c.listener.Addr().(*net.TCPAddr); ok {
		return fmt.Sprintf("http://localhost:%d/callback", addr.Port)
	}
	return "http://localhost/callback"
}

func (c *callbackServer) WaitForCode(ctx context.Context, timeout time.Duration) (string, error) {
	select {
	case res := <-c.result:
		return res.code, res.err
	case <-time.After(timeout):
		return "", errCallbackTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (c *callbackServer) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.server.Close()
	})
	return err
}

func (c *callbackServer) handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if query.Get("state") != c.state {
		c.send(callbackResult{err: errors.New("authorization callback state mismatch")})
		http.Error(w, "state mismatch", http.StatusBadRequest)
		return
	}
	if oauthErr := query.Get("error"); oauthErr != "" {
		if desc := query.Get("error_description"); desc != "" {
			oauthErr += ": " + desc
		}
		c.send(callbackResult{err: errors.New(oauthErr)})
		http.Error(w, "authorization error", http.StatusBadRequest)
		return
	}
	code := query.Get("code")
	if code == "" {
		c.send(callbackResult{err: errors.New("authorization callback missing code")})
		http.Error(w, "missing code", http.StatusBadRequest)
		return
	}

	c.send(callbackResult{code: code})
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Authentication complete. You can close this window."))
}

func (c *callbackServer) send(res callbackResult) {
	c.once.Do(func() {
		c.result <- res
	})
}
