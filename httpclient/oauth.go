package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mrjones/oauth"
	"github.com/pkg/errors"
)

// DefaultConsumerURL publishes the consumer key pair of the Garmin Connect
// mobile app.
const DefaultConsumerURL = "https://thegarth.s3.amazonaws.com/oauth_consumer.json"

const mobileUserAgent = "com.garmin.android.apps.connectmobile"

// Consumer is the OAuth1 consumer key pair.
type Consumer struct {
	Key    string `json:"consumer_key"`
	Secret string `json:"consumer_secret"`
}

// oauthConsumer fetches the consumer key pair once per client.
func (c *Client) oauthConsumer(ctx context.Context) (*oauth.Consumer, error) {
	c.consumerMu.Lock()
	defer c.consumerMu.Unlock()

	if c.consumer == nil {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.ConsumerURL, nil)
		if err != nil {
			return nil, errors.Wrap(err, "could not prepare consumer request")
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, errors.Wrap(err, "could not fetch oauth consumer")
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, newStatusError(http.MethodGet, c.cfg.ConsumerURL, resp)
		}

		var consumer Consumer
		if err := json.NewDecoder(resp.Body).Decode(&consumer); err != nil {
			return nil, errors.Wrap(err, "could not decode oauth consumer")
		}
		if consumer.Key == "" || consumer.Secret == "" {
			return nil, errors.New("oauth consumer is incomplete")
		}
		c.consumer = &consumer
	}

	// signed requests go through c.http so they share its timeout and transport
	return oauth.NewCustomHttpClientConsumer(c.consumer.Key, c.consumer.Secret, oauth.ServiceProvider{}, c.http), nil
}

// doSigned sends an OAuth1-signed request and records it like any other.
func (c *Client) doSigned(signed *http.Client, req *http.Request) (*http.Response, error) {
	start := c.now()
	resp, err := signed.Do(req)
	elapsed := c.now().Sub(start)
	if err != nil {
		c.metrics.observe(req.Method, "error", elapsed)
		return nil, errors.Wrapf(err, "%s %s", req.Method, stripQuery(req.URL.String()))
	}
	c.metrics.observe(req.Method, strconv.Itoa(resp.StatusCode), elapsed)
	return resp, nil
}

// preauthorize trades an SSO ticket for an OAuth1 token. The request is signed
// with the consumer only.
func (c *Client) preauthorize(ctx context.Context, ticket string) (*OAuth1Token, error) {
	consumer, err := c.oauthConsumer(ctx)
	if err != nil {
		return nil, err
	}
	signed, err := consumer.MakeHttpClient(&oauth.AccessToken{})
	if err != nil {
		return nil, errors.Wrap(err, "could not create oauth1 client")
	}

	query := url.Values{
		"ticket":             {ticket},
		"login-url":          {c.urls.SSOEmbed()},
		"accepts-mfa-tokens": {"true"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.urls.Preauthorized()+"?"+query.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not prepare request")
	}
	req.Header.Set("User-Agent", mobileUserAgent)

	resp, err := c.doSigned(signed, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, newStatusError(http.MethodGet, req.URL.String(), resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "could not read response")
	}
	values, err := url.ParseQuery(string(data))
	if err != nil {
		return nil, errors.Wrap(err, "could not parse oauth1 token")
	}

	token := &OAuth1Token{
		OAuthToken:             values.Get("oauth_token"),
		OAuthTokenSecret:       values.Get("oauth_token_secret"),
		MFAToken:               values.Get("mfa_token"),
		MFAExpirationTimestamp: values.Get("mfa_expiration_timestamp"),
	}
	if token.OAuthToken == "" || token.OAuthTokenSecret == "" {
		return nil, errors.New("oauth1 response is missing the token")
	}
	return token, nil
}

// exchange mints an OAuth2 token from the OAuth1 token.
func (c *Client) exchange(ctx context.Context, oauth1 *OAuth1Token) (*OAuth2Token, error) {
	consumer, err := c.oauthConsumer(ctx)
	if err != nil {
		return nil, err
	}
	signed, err := consumer.MakeHttpClient(&oauth.AccessToken{
		Token:  oauth1.OAuthToken,
		Secret: oauth1.OAuthTokenSecret,
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create oauth1 client")
	}

	form := url.Values{}
	if oauth1.MFAToken != "" {
		form.Set("mfa_token", oauth1.MFAToken)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.urls.Exchange(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "could not prepare request")
	}
	req.Header.Set("User-Agent", mobileUserAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.doSigned(signed, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, newStatusError(http.MethodPost, c.urls.Exchange(), resp)
	}

	var token OAuth2Token
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, errors.Wrap(err, "could not decode oauth2 token")
	}
	if token.AccessToken == "" {
		return nil, errors.New("oauth2 response is missing the access token")
	}
	token.stamp(c.now())
	return &token, nil
}
