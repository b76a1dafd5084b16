package session

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestBundleFromTokenUsesGrantedScopes(t *testing.T) {
	token := (&oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour),
	}).WithExtra(map[string]any{
		"scope": "https://scope.example.com/a https://scope.example.com/b",
	})

	bundle := BundleFromToken(token, []string{"https://scope.example.com/a"})
	assert.Equal(t, "access", bundle.AccessToken)
	assert.Equal(t, []string{
		"https://scope.example.com/a",
		"https://scope.example.com/b",
	}, bundle.Scopes)
}

func TestBundleFromTokenFallsBackToRequestedScopes(t *testing.T) {
	token := &oauth2.Token{AccessToken: "access"}
	requested := []string{"https://scope.example.com/a"}

	bundle := BundleFromToken(token, requested)
	assert.Equal(t, requested, bundle.Scopes)
}

func newTestCallbackServer(t *testing.T, state string) *callbackServer {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	cb := newCallbackServer(listener, state)
	t.Cleanup(func() { cb.Close() })
	return cb
}

func redirectGet(t *testing.T, cb *callbackServer, params url.Values) *http.Response {
	t.Helper()
	resp, err := http.Get(fmt.Sprintf("%s?%s", cb.RedirectURI(), params.Encode()))
	require.NoError(t, err)
	resp.Body.Close()
	return resp
}

func TestCallbackServerDeliversCode(t *testing.T) {
	cb := newTestCallbackServer(t, "nonce")

	resp := redirectGet(t, cb, url.Values{"state": {"nonce"}, "code": {"auth-code"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	code, err := cb.WaitForCode(context.Background(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, "auth-code", code)
}

func TestCallbackServerRejectsStateMismatch(t *testing.T) {
	cb := newTestCallbackServer(t, "nonce")

	resp := redirectGet(t, cb, url.Values{"state": {"forged"}, "code": {"auth-code"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, err := cb.WaitForCode(context.Background(), time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state mismatch")
}

func TestCallbackServerReportsProviderError(t *testing.T) {
	cb := newTestCallbackServer(t, "nonce")

	redirectGet(t, cb, url.Values{
		"state":             {"nonce"},
		"error":             {"access_denied"},
		"error_description": {"user declined"},
	})

	_, err := cb.WaitForCode(context.Background(), time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access_denied")
	assert.Contains(t, err.Error(), "user declined")
}

func TestCallbackServerTimeout(t *testing.T) {
	cb := newTestCallbackServer(t, "nonce")

	_, err := cb.WaitForCode(context.Background(), 10*time.Millisecond)
	assert.ErrorIs(t, err, errCallbackTimeout)
}
