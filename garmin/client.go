// Package garmin is a client for the Garmin Connect web API.
//
// Every remote operation is one method on Client. Required identifiers are
// checked before any request is made, and upstream failures are returned
// wrapped with the name of the failing operation.
package garmin

import (
	"context"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/sstent/garminconnect/httpclient"
	"github.com/sstent/garminconnect/urls"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var validate = validator.New()

// DefaultDomain is used when Config.Domain is empty.
const DefaultDomain = "garmin.com"

// Token and request types are shared with the httpclient package.
type (
	OAuth1Token    = httpclient.OAuth1Token
	OAuth2Token    = httpclient.OAuth2Token
	Tokens         = httpclient.Tokens
	RequestOptions = httpclient.RequestOptions
)

// Config holds the account credentials and the Garmin Connect domain.
type Config struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
	// Domain is garmin.com or garmin.cn.
	Domain string `validate:"omitempty,oneof=garmin.com garmin.cn"`
}

// HTTPClient performs authenticated requests and owns the token pair.
type HTTPClient interface {
	Login(ctx context.Context, username, password string) error
	Get(ctx context.Context, url string, opts *RequestOptions, out any) error
	Post(ctx context.Context, url string, body any, opts *RequestOptions, out any) error
	Put(ctx context.Context, url string, body any, opts *RequestOptions, out any) error
	Delete(ctx context.Context, url string, out any) error
	Session() *httpclient.Session
}

// Option configures a Client in New.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP collaborator.
func WithHTTPClient(h HTTPClient) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the logger used by the client.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) { c.log = l }
}

// WithURLTable overrides the endpoints derived from Config.Domain.
func WithURLTable(t *urls.Table) Option {
	return func(c *Client) { c.url = t }
}

// Client is the Garmin Connect facade.
type Client struct {
	cfg  Config
	url  *urls.Table
	http HTTPClient
	log  logrus.FieldLogger
}

// New validates cfg and builds a client. Missing credentials fail with
// ErrMissingCredentials.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.Username == "" || cfg.Password == "" {
		return nil, ErrMissingCredentials
	}
	if cfg.Domain == "" {
		cfg.Domain = DefaultDomain
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	c := &Client{cfg: cfg}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logrus.StandardLogger()
	}
	if c.url == nil {
		c.url = urls.New(cfg.Domain)
	}
	if c.http == nil {
		h, err := httpclient.New(c.url, httpclient.Config{Logger: c.log})
		if err != nil {
			return nil, errors.Wrap(err, "could not create http client")
		}
		c.http = h
	}
	return c, nil
}

// Domain returns the configured Garmin Connect domain.
func (c *Client) Domain() string {
	return c.cfg.Domain
}

// URLs exposes the endpoint table, for use with the Get/Post/Put passthroughs.
func (c *Client) URLs() *urls.Table {
	return c.url
}

// Login signs in with the configured credentials. Non-empty arguments replace
// them first.
func (c *Client) Login(ctx context.Context, username, password string) error {
	if username != "" && password != "" {
		c.cfg.Username = username
		c.cfg.Password = password
	}
	if err := c.http.Login(ctx, c.cfg.Username, c.cfg.Password); err != nil {
		return errors.Wrap(err, "login")
	}
	return nil
}

// Get issues a raw GET against url and decodes the response into out.
func (c *Client) Get(ctx context.Context, url string, opts *RequestOptions, out any) error {
	return c.http.Get(ctx, url, opts, out)
}

// Post sends body as JSON to url and decodes the response into out.
func (c *Client) Post(ctx context.Context, url string, body, out any) error {
	return c.http.Post(ctx, url, body, nil, out)
}

// Put is Post with the PUT method.
func (c *Client) Put(ctx context.Context, url string, body, out any) error {
	return c.http.Put(ctx, url, body, nil, out)
}
