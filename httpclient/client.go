// Package httpclient performs authenticated requests against Garmin Connect.
//
// It owns the OAuth1/OAuth2 token pair: Login obtains it through the SSO
// flow, and an expired OAuth2 token is re-minted from the OAuth1 token before
// the next request. It does not retry failed requests.
package httpclient

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/oauth2"

	"github.com/sstent/garminconnect/urls"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "GCM-iOS-5.7.2.1"
	browserUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Config holds optional client settings. The zero value is usable.
type Config struct {
	Logger    logrus.FieldLogger
	Timeout   time.Duration
	UserAgent string

	// ConsumerURL serves the OAuth consumer key pair as JSON. Ignored when
	// Consumer is set.
	ConsumerURL string
	Consumer    *Consumer

	Metrics *Metrics
}

// RequestOptions tunes a single request.
type RequestOptions struct {
	Query   url.Values
	Headers map[string]string
	// Binary reads the raw body into an *[]byte instead of decoding JSON.
	Binary bool
}

// Client is the HTTP collaborator behind the garmin facade.
type Client struct {
	urls    *urls.Table
	http    *http.Client
	session *Session
	log     logrus.FieldLogger
	cfg     Config
	metrics *Metrics
	now     func() time.Time

	consumerMu sync.Mutex
	consumer   *Consumer
}

// New creates a client for the endpoints in table.
func New(table *urls.Table, cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.ConsumerURL == "" {
		cfg.ConsumerURL = DefaultConsumerURL
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, errors.Wrap(err, "could not init cookiejar")
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		urls: table,
		http: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
			Jar:       jar,
		},
		session:  &Session{},
		log:      cfg.Logger,
		cfg:      cfg,
		metrics:  cfg.Metrics,
		now:      time.Now,
		consumer: cfg.Consumer,
	}, nil
}

// Session exposes the token pair held by the client.
func (c *Client) Session() *Session {
	return c.session
}

// Get issues a GET and decodes the response into out.
func (c *Client) Get(ctx context.Context, rawURL string, opts *RequestOptions, out any) error {
	return c.do(ctx, http.MethodGet, rawURL, nil, opts, out)
}

// Post issues a POST with body and decodes the response into out.
func (c *Client) Post(ctx context.Context, rawURL string, body any, opts *RequestOptions, out any) error {
	return c.do(ctx, http.MethodPost, rawURL, body, opts, out)
}

// Put issues a PUT with body and decodes the response into out.
func (c *Client) Put(ctx context.Context, rawURL string, body any, opts *RequestOptions, out any) error {
	return c.do(ctx, http.MethodPut, rawURL, body, opts, out)
}

// Delete issues a DELETE and decodes any response body into out.
func (c *Client) Delete(ctx context.Context, rawURL string, out any) error {
	return c.do(ctx, http.MethodDelete, rawURL, nil, nil, out)
}

func (c *Client) do(ctx context.Context, method, rawURL string, body any, opts *RequestOptions, out any) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	reqURL, err := withQuery(rawURL, opts)
	if err != nil {
		return err
	}

	reader, contentType, err := encodeBody(body)
	if err != nil {
		return errors.Wrap(err, "could not encode body")
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return errors.Wrap(err, "could not prepare request")
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("NK", "NT")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if opts != nil {
		for key, value := range opts.Headers {
			req.Header.Set(key, value)
		}
	}
	(&oauth2.Token{AccessToken: token.AccessToken, TokenType: token.TokenType}).SetAuthHeader(req)

	start := c.now()
	resp, err := c.http.Do(req)
	elapsed := c.now().Sub(start)
	if err != nil {
		c.metrics.observe(method, "error", elapsed)
		return errors.Wrapf(err, "%s %s", method, stripQuery(reqURL))
	}
	defer resp.Body.Close()

	c.metrics.observe(method, strconv.Itoa(resp.StatusCode), elapsed)
	c.log.WithFields(logrus.Fields{
		"method":   method,
		"url":      stripQuery(reqURL),
		"status":   resp.StatusCode,
		"duration": elapsed,
	}).Debug("garmin connect request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newStatusError(method, reqURL, resp)
	}
	return decodeResponse(resp.Body, opts, out)
}

// accessToken returns a usable OAuth2 token, re-minting it from the OAuth1
// token when it has expired.
func (c *Client) accessToken(ctx context.Context) (*OAuth2Token, error) {
	tokens, ok := c.session.Tokens()
	if !ok {
		return nil, ErrNotAuthenticated
	}
	if !tokens.OAuth2.Expired(c.now()) {
		return tokens.OAuth2, nil
	}

	c.log.Info("oauth2 token expired, exchanging oauth1 token")
	refreshed, err := c.exchange(ctx, tokens.OAuth1)
	if err != nil {
		return nil, errors.Wrap(err, "could not refresh oauth2 token")
	}
	if err := c.session.Set(Tokens{OAuth1: tokens.OAuth1, OAuth2: refreshed}); err != nil {
		return nil, err
	}
	return refreshed, nil
}

func withQuery(rawURL string, opts *RequestOptions) (string, error) {
	if opts == nil || len(opts.Query) == 0 {
		return rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrapf(err, "invalid url %q", rawURL)
	}
	query := u.Query()
	for key, values := range opts.Query {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	u.RawQuery = query.Encode()
	return u.String(), nil
}

// encodeBody sends readers as-is (the caller sets Content-Type through
// RequestOptions.Headers), url.Values as a form and anything else as JSON.
func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case io.Reader:
		return b, "", nil
	case url.Values:
		return strings.NewReader(b.Encode()), "application/x-www-form-urlencoded", nil
	default:
		payload, err := json.Marshal(b)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(payload), "application/json", nil
	}
}

func decodeResponse(body io.Reader, opts *RequestOptions, out any) error {
	if out == nil {
		_, _ = io.Copy(io.Discard, body)
		return nil
	}

	switch dst := out.(type) {
	case *[]byte:
		data, err := io.ReadAll(body)
		if err != nil {
			return errors.Wrap(err, "could not read response")
		}
		*dst = data
		return nil
	case *string:
		data, err := io.ReadAll(body)
		if err != nil {
			return errors.Wrap(err, "could not read response")
		}
		*dst = string(data)
		return nil
	}

	if opts != nil && opts.Binary {
		return errors.New("binary response requires *[]byte destination")
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return errors.Wrap(err, "could not read response")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, "could not decode response")
	}
	return nil
}

func stripQuery(rawURL string) string {
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}
