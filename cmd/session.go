package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sstent/garminconnect/garmin"
	"github.com/sstent/garminconnect/httpclient"
	"github.com/sstent/garminconnect/internal/db"
	"github.com/sstent/garminconnect/urls"
)

// session is an authenticated client plus the database its tokens live in.
type session struct {
	client   *garmin.Client
	database *db.SQLiteDatabase
}

// openSession builds a client and authenticates it from stored tokens,
// falling back to a fresh login.
func openSession(ctx context.Context) (*session, error) {
	s, err := newSession()
	if err != nil {
		return nil, err
	}
	if err := s.authenticate(ctx); err != nil {
		s.database.Close()
		return nil, err
	}
	return s, nil
}

func newSession() (*session, error) {
	if err := cfg.RequireCredentials(); err != nil {
		return nil, err
	}

	log := logrus.StandardLogger()
	h, err := httpclient.New(urls.New(cfg.Domain), httpclient.Config{
		Logger:  log,
		Timeout: cfg.Timeout,
		Metrics: metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create http client: %w", err)
	}

	client, err := garmin.New(garmin.Config{
		Username: cfg.GarminUsername,
		Password: cfg.GarminPassword,
		Domain:   cfg.Domain,
	}, garmin.WithHTTPClient(h), garmin.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("failed to create Garmin client: %w", err)
	}

	database, err := db.NewDatabase(cfg.DatabasePath, db.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &session{client: client, database: database}, nil
}

func (s *session) authenticate(ctx context.Context) error {
	err := s.client.LoadTokenByFile(cfg.TokenDir)
	if err == nil {
		logrus.WithField("dir", cfg.TokenDir).Debug("using token files")
		return nil
	}
	logrus.WithError(err).Debug("no usable token files")

	err = s.client.LoadTokens(ctx, s.database)
	if err == nil {
		logrus.Debug("using tokens from database")
		return nil
	}
	if !errors.Is(err, garmin.ErrTokenNotFound) {
		logrus.WithError(err).Warn("stored tokens unusable")
	}

	return s.login(ctx)
}

func (s *session) login(ctx context.Context) error {
	logrus.Info("Logging in to Garmin Connect...")
	if err := s.client.Login(ctx, "", ""); err != nil {
		return fmt.Errorf("failed to login: %w", err)
	}
	return s.persist(ctx)
}

// persist writes the current token pair to the token directory and the
// database, so a refreshed OAuth2 token survives the process.
func (s *session) persist(ctx context.Context) error {
	if err := s.client.ExportTokenToFile(cfg.TokenDir); err != nil {
		return fmt.Errorf("failed to save token files: %w", err)
	}
	if err := s.client.SaveTokens(ctx, s.database); err != nil {
		return fmt.Errorf("failed to save tokens: %w", err)
	}
	return nil
}

// Close persists the tokens and closes the database.
func (s *session) Close(ctx context.Context) {
	if err := s.persist(ctx); err != nil {
		logrus.WithError(err).Warn("tokens not saved")
	}
	if err := s.database.Close(); err != nil {
		logrus.WithError(err).Warn("failed to close database")
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", arg, err)
	}
	return id, nil
}

// parseDate reads a YYYY-MM-DD date in local time; empty means today.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}
