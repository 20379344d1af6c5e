package garmin

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/sstent/garminconnect/internal/fsutil"
)

const (
	oauth1File = "oauth1_token.json"
	oauth2File = "oauth2_token.json"
)

// TokenStore persists the token pair outside the filesystem layout used by
// ExportTokenToFile, e.g. in a database.
type TokenStore interface {
	SaveTokens(ctx context.Context, tokens Tokens) error
	LoadTokens(ctx context.Context) (Tokens, error)
}

// ExportToken returns the held token pair, or ErrTokenNotFound if either half
// is missing.
func (c *Client) ExportToken() (Tokens, error) {
	tokens, ok := c.http.Session().Tokens()
	if !ok {
		return Tokens{}, errors.Wrap(ErrTokenNotFound, "ExportToken")
	}
	return tokens, nil
}

// LoadToken installs a token pair, e.g. one read back from storage. Both
// tokens are required.
func (c *Client) LoadToken(oauth1 *OAuth1Token, oauth2 *OAuth2Token) error {
	if err := c.http.Session().Set(Tokens{OAuth1: oauth1, OAuth2: oauth2}); err != nil {
		return errors.Wrap(err, "LoadToken")
	}
	return nil
}

// ClearToken drops the held token pair.
func (c *Client) ClearToken() {
	c.http.Session().Clear()
}

// ExportTokenToFile writes oauth1_token.json and oauth2_token.json into dir,
// creating it if needed.
func (c *Client) ExportTokenToFile(dir string) error {
	tokens, err := c.ExportToken()
	if err != nil {
		return errors.Wrap(err, "ExportTokenToFile")
	}
	if err := fsutil.EnsureDirectory(dir); err != nil {
		return errors.Wrap(err, "ExportTokenToFile")
	}

	files := map[string]any{oauth1File: tokens.OAuth1, oauth2File: tokens.OAuth2}
	for name, token := range files {
		data, err := json.Marshal(token)
		if err != nil {
			return errors.Wrapf(err, "ExportTokenToFile: could not encode %s", name)
		}
		if err := fsutil.WriteFile(filepath.Join(dir, name), data); err != nil {
			return errors.Wrap(err, "ExportTokenToFile")
		}
	}
	c.log.WithField("dir", dir).Debug("exported garmin tokens")
	return nil
}

// LoadTokenByFile reads the token files written by ExportTokenToFile.
func (c *Client) LoadTokenByFile(dir string) error {
	ok, err := fsutil.IsDirectory(dir)
	if err != nil {
		return errors.Wrap(err, "LoadTokenByFile")
	}
	if !ok {
		return errors.Errorf("LoadTokenByFile: directory not found: %s", dir)
	}

	oauth1 := &OAuth1Token{}
	if err := readTokenFile(filepath.Join(dir, oauth1File), oauth1); err != nil {
		return errors.Wrap(err, "LoadTokenByFile")
	}
	oauth2 := &OAuth2Token{}
	if err := readTokenFile(filepath.Join(dir, oauth2File), oauth2); err != nil {
		return errors.Wrap(err, "LoadTokenByFile")
	}
	return c.LoadToken(oauth1, oauth2)
}

func readTokenFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "could not read %s", filepath.Base(path))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "could not decode %s", filepath.Base(path))
	}
	return nil
}

// SaveTokens writes the held token pair to store.
func (c *Client) SaveTokens(ctx context.Context, store TokenStore) error {
	tokens, err := c.ExportToken()
	if err != nil {
		return errors.Wrap(err, "SaveTokens")
	}
	if err := store.SaveTokens(ctx, tokens); err != nil {
		return errors.Wrap(err, "SaveTokens")
	}
	return nil
}

// LoadTokens installs the token pair held by store.
func (c *Client) LoadTokens(ctx context.Context, store TokenStore) error {
	tokens, err := store.LoadTokens(ctx)
	if err != nil {
		return errors.Wrap(err, "LoadTokens")
	}
	return c.LoadToken(tokens.OAuth1, tokens.OAuth2)
}
