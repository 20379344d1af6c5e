package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/sstent/garminconnect/garmin"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SaveTokens stores the token pair, replacing any previous one
func (d *SQLiteDatabase) SaveTokens(ctx context.Context, tokens garmin.Tokens) error {
	if !tokens.Complete() {
		return fmt.Errorf("failed to save tokens: %w", garmin.ErrTokenNotFound)
	}
	oauth1, err := json.MarshalToString(tokens.OAuth1)
	if err != nil {
		return fmt.Errorf("failed to encode oauth1 token: %w", err)
	}
	oauth2, err := json.MarshalToString(tokens.OAuth2)
	if err != nil {
		return fmt.Errorf("failed to encode oauth2 token: %w", err)
	}

	_, err = d.db.ExecContext(ctx, `
		INSERT INTO tokens (id, oauth1, oauth2, updated_at) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET oauth1 = excluded.oauth1, oauth2 = excluded.oauth2, updated_at = excluded.updated_at`,
		oauth1, oauth2, time.Now().UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to save tokens: %w", err)
	}
	return nil
}

// LoadTokens returns the stored token pair, or garmin.ErrTokenNotFound
func (d *SQLiteDatabase) LoadTokens(ctx context.Context) (garmin.Tokens, error) {
	var oauth1, oauth2 string
	err := d.db.QueryRowContext(ctx, "SELECT oauth1, oauth2 FROM tokens WHERE id = 1").Scan(&oauth1, &oauth2)
	if errors.Is(err, sql.ErrNoRows) {
		return garmin.Tokens{}, fmt.Errorf("failed to load tokens: %w", garmin.ErrTokenNotFound)
	}
	if err != nil {
		return garmin.Tokens{}, fmt.Errorf("failed to load tokens: %w", err)
	}

	tokens := garmin.Tokens{OAuth1: &garmin.OAuth1Token{}, OAuth2: &garmin.OAuth2Token{}}
	if err := json.UnmarshalFromString(oauth1, tokens.OAuth1); err != nil {
		return garmin.Tokens{}, fmt.Errorf("failed to decode oauth1 token: %w", err)
	}
	if err := json.UnmarshalFromString(oauth2, tokens.OAuth2); err != nil {
		return garmin.Tokens{}, fmt.Errorf("failed to decode oauth2 token: %w", err)
	}
	return tokens, nil
}

// ClearTokens removes the stored token pair
func (d *SQLiteDatabase) ClearTokens(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM tokens"); err != nil {
		return fmt.Errorf("failed to clear tokens: %w", err)
	}
	return nil
}

var _ garmin.TokenStore = (*SQLiteDatabase)(nil)
