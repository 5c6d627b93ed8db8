package msgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"

	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/logger"
)

var requiredScopes = []string{
	"https://graph.microsoft.com/Calendars.Read",
	"offline_access",
}

func msEndpoint(tenantID, path string) string {
	return "https://login.microsoftonline.com/" + tenantID + "/oauth2/v2.0/" + path
}

// TokenStore persists the Graph token under <home>/auth.
type TokenStore struct {
	Path string
}

// NewTokenStore returns the token store of the data directory base.
func NewTokenStore(base string) TokenStore {
	return TokenStore{Path: filepath.Join(base, "auth", "msgraph_tokens.json")}
}

// oauth2Config returns the oauth2.Config for Microsoft Graph using the
// provided tenant and client IDs.
func oauth2Config(tenantID, clientID string) *oauth2.Config {
	return &oauth2.Config{
		ClientID: clientID,
		Scopes:   requiredScopes,
		Endpoint: oauth2.Endpoint{
			DeviceAuthURL: msEndpoint(tenantID, "devicecode"),
			TokenURL:      msEndpoint(tenantID, "token"),
			AuthStyle:     oauth2.AuthStyleInParams,
		},
	}
}

// Load returns the saved token, or nil when there is none.
func (s TokenStore) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("corrupt token file (delete %s to re-authenticate): %w", s.Path, err)
	}
	return &tok, nil
}

// Save writes tok atomically with owner-only permissions.
func (s TokenStore) Save(tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("creating auth directory: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling token: %w", err)
	}
	tmpPath := s.Path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving token file: %w", err)
	}
	return nil
}

// Authenticate returns a usable token for Microsoft Graph. It loads the saved
// token, refreshes it if needed, or runs the device code flow, printing the
// sign-in instructions to stdout.
func Authenticate(ctx context.Context, store TokenStore, tenantID, clientID string) (*oauth2.Token, *oauth2.Config, error) {
	log := logger.Named("msgraph")
	cfg := oauth2Config(tenantID, clientID)

	tok, err := store.Load()
	if err != nil {
		log.Warn().Err(err).Msg("ignoring saved token")
		tok = nil
	}

	if tok != nil && tok.Valid() {
		return tok, cfg, nil
	}

	if tok != nil && tok.RefreshToken != "" {
		refreshed, err := cfg.TokenSource(ctx, tok).Token()
		if err == nil {
			if err2 := store.Save(refreshed); err2 != nil {
				log.Warn().Err(err2).Msg("could not save refreshed token")
			}
			return refreshed, cfg, nil
		}
		log.Info().Err(err).Msg("token refresh failed, re-authenticating")
	}

	resp, err := cfg.DeviceAuth(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("device auth request failed: %w", err)
	}

	fmt.Println()
	fmt.Println("To sign in, use a web browser to open the page:")
	fmt.Printf("  %s\n", resp.VerificationURI)
	fmt.Printf("Enter the code: %s\n", resp.UserCode)
	fmt.Println()

	newTok, err := cfg.DeviceAccessToken(ctx, resp)
	if err != nil {
		return nil, nil, fmt.Errorf("device authentication failed: %w", err)
	}

	if err := store.Save(newTok); err != nil {
		log.Warn().Err(err).Msg("could not save token")
	}

	return newTok, cfg, nil
}
