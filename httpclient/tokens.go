package httpclient

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// OAuth1Token is the long-lived token obtained from the SSO ticket. It is only
// used to mint OAuth2 tokens.
type OAuth1Token struct {
	OAuthToken             string `json:"oauth_token"`
	OAuthTokenSecret       string `json:"oauth_token_secret"`
	MFAToken               string `json:"mfa_token,omitempty"`
	MFAExpirationTimestamp string `json:"mfa_expiration_timestamp,omitempty"`
}

// OAuth2Token is the bearer token attached to every API request.
type OAuth2Token struct {
	Scope                 string `json:"scope"`
	JTI                   string `json:"jti"`
	AccessToken           string `json:"access_token"`
	TokenType             string `json:"token_type"`
	RefreshToken          string `json:"refresh_token"`
	ExpiresIn             int64  `json:"expires_in"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
	ExpiresAt             int64  `json:"expires_at"`
	RefreshTokenExpiresAt int64  `json:"refresh_token_expires_at"`
	LastUpdateDate        string `json:"last_update_date"`
	ExpiresDate           string `json:"expires_date"`
}

// Expired reports whether the access token is no longer usable at now. A zero
// ExpiresAt means the expiry is unknown; such a token is used until the API
// rejects it.
func (t *OAuth2Token) Expired(now time.Time) bool {
	return t.ExpiresAt != 0 && t.ExpiresAt <= now.Unix()
}

// stamp fills the absolute expiry fields from the relative ones.
func (t *OAuth2Token) stamp(now time.Time) {
	t.ExpiresAt = now.Unix() + t.ExpiresIn
	t.RefreshTokenExpiresAt = now.Unix() + t.RefreshTokenExpiresIn
	t.LastUpdateDate = now.UTC().Format(time.RFC3339)
	t.ExpiresDate = time.Unix(t.ExpiresAt, 0).UTC().Format(time.RFC3339)
}

// expiryFromJWT reads the exp claim of the access token without verifying it.
func (t *OAuth2Token) expiryFromJWT() (int64, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(t.AccessToken, claims); err != nil {
		return 0, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0, false
	}
	return exp.Unix(), true
}

// Tokens is the OAuth1/OAuth2 pair. Both halves are required together.
type Tokens struct {
	OAuth1 *OAuth1Token `json:"oauth1"`
	OAuth2 *OAuth2Token `json:"oauth2"`
}

// Complete reports whether both halves are present and non-empty.
func (t Tokens) Complete() bool {
	return t.OAuth1 != nil && t.OAuth2 != nil &&
		t.OAuth1.OAuthToken != "" && t.OAuth2.AccessToken != ""
}

// Session owns the token pair. Either both tokens are held or neither.
type Session struct {
	mu     sync.RWMutex
	oauth1 *OAuth1Token
	oauth2 *OAuth2Token
}

// Tokens returns copies of the held pair; ok is false when the session is empty.
func (s *Session) Tokens() (Tokens, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.oauth1 == nil || s.oauth2 == nil {
		return Tokens{}, false
	}
	oauth1 := *s.oauth1
	oauth2 := *s.oauth2
	return Tokens{OAuth1: &oauth1, OAuth2: &oauth2}, true
}

// Set replaces the pair. A half pair is rejected and leaves the session unchanged.
func (s *Session) Set(tokens Tokens) error {
	if !tokens.Complete() {
		return ErrIncompleteTokens
	}

	oauth1 := *tokens.OAuth1
	oauth2 := *tokens.OAuth2
	if oauth2.ExpiresAt == 0 {
		if exp, ok := oauth2.expiryFromJWT(); ok {
			oauth2.ExpiresAt = exp
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.oauth1 = &oauth1
	s.oauth2 = &oauth2
	return nil
}

// Clear drops both tokens.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.oauth1 = nil
	s.oauth2 = nil
}

// Valid reports whether a complete pair is held.
func (s *Session) Valid() bool {
	_, ok := s.Tokens()
	return ok
}
