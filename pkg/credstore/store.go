// Package credstore persists delegated-access credential bundles on the
// local filesystem, one file per account alias. It is the only component
// the session provider uses for durable state; nothing else reads or
// writes these files.
package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/satchelhq/satchel/pkg/config"
	"github.com/satchelhq/satchel/pkg/fileutil"
)

// ErrCorruptCredential marks a token file that exists but cannot be parsed.
// It is fatal to the session request that hit it; the operator decides
// whether to delete the file or re-authenticate.
var ErrCorruptCredential = errors.New("stored credential is corrupt")

// Bundle is the delegated-access token material for one account, plus the
// scopes it was granted. The on-disk shape is this struct as JSON.
type Bundle struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
	Scopes       []string  `json:"scopes,omitempty"`
}

// ShouldRefresh reports whether the access token is expired or about to
// expire. A zero expiry means the token does not expire.
func (b *Bundle) ShouldRefresh() bool {
	if b.Expiry.IsZero() {
		return false
	}
	return time.Until(b.Expiry) < 30*time.Second
}

// HasScopes reports whether the bundle was granted every required scope.
// Bundles written before scope tracking have an empty set and fail the
// check, forcing one re-authorization.
func (b *Bundle) HasScopes(required []string) bool {
	granted := make(map[string]struct{}, len(b.Scopes))
	for _, s := range b.Scopes {
		granted[s] = struct{}{}
	}
	for _, s := range required {
		if _, ok := granted[s]; !ok {
			return false
		}
	}
	return true
}

// Store reads and writes bundles for one integration. Account aliases map
// to fixed file paths through the integration's static configuration.
type Store struct {
	integ config.Integration
}

func New(integ config.Integration) *Store {
	return &Store{integ: integ}
}

// Load returns the stored bundle for an account, or nil when no bundle
// exists. An unreadable or unparsable file is reported as
// ErrCorruptCredential and never retried here.
func (s *Store) Load(account string) (*Bundle, error) {
	path := s.integ.TokenFile(account)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var bundle Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptCredential, path, err)
	}
	if bundle.AccessToken == "" && bundle.RefreshToken == "" {
		return nil, fmt.Errorf("%w: %s: no token material", ErrCorruptCredential, path)
	}
	return &bundle, nil
}

// Save overwrites the stored bundle for an account, creating parent
// directories as needed. Token files never merge; last write wins.
func (s *Store) Save(account string, bundle *Bundle) error {
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credential: %w", err)
	}
	path := s.integ.TokenFile(account)
	if err := fileutil.WriteFileAtomic(path, data, 0o600, 0o700); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Delete removes the stored bundle. Deleting an absent bundle is a no-op.
func (s *Store) Delete(account string) error {
	path := s.integ.TokenFile(account)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}
