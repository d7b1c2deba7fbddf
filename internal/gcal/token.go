package gcal

import (
	"encoding/json"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// tokenFile is the form written by saveToken. loadToken also accepts the
// google-auth layout, which stores the access token under "token".
type tokenFile struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type,omitempty"`
	RefreshToken string    `json:"refresh_token"`
	Expiry       time.Time `json:"expiry,omitempty"`
}

func loadToken(path string) (*oauth2.Token, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	tok := &oauth2.Token{
		AccessToken:  str(raw["access_token"]),
		TokenType:    str(raw["token_type"]),
		RefreshToken: str(raw["refresh_token"]),
	}
	if tok.AccessToken == "" {
		tok.AccessToken = str(raw["token"])
	}
	if exp := str(raw["expiry"]); exp != "" {
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999Z", "2006-01-02T15:04:05"} {
			if t, err := time.Parse(layout, exp); err == nil {
				tok.Expiry = t
				break
			}
		}
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, errors.New("token file holds neither access nor refresh token")
	}
	return tok, nil
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func saveToken(path string, tok *oauth2.Token) error {
	b, err := json.MarshalIndent(tokenFile{
		AccessToken:  tok.AccessToken,
		TokenType:    tok.TokenType,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// savingSource persists refreshed tokens so the next start does not need
// to refresh again.
type savingSource struct {
	mu   sync.Mutex
	base oauth2.TokenSource
	path string
	last string
	log  zerolog.Logger
}

func (s *savingSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		if err := saveToken(s.path, tok); err != nil {
			s.log.Warn().Err(err).Msg("persist refreshed token")
		}
	}
	return tok, nil
}
