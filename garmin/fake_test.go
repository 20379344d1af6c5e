package garmin

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/sstent/garminconnect/httpclient"
	"github.com/sstent/garminconnect/urls"
)

type recordedCall struct {
	Method string
	URL    string
	Body   any
	Opts   *RequestOptions
}

// fakeHTTP records every call and answers GETs from canned JSON keyed by URL.
type fakeHTTP struct {
	session   httpclient.Session
	calls     []recordedCall
	responses map[string]string
	err       error
}

func newFakeHTTP() *fakeHTTP {
	return &fakeHTTP{responses: map[string]string{}}
}

func (f *fakeHTTP) Login(ctx context.Context, username, password string) error {
	f.calls = append(f.calls, recordedCall{Method: "LOGIN", Body: username})
	if f.err != nil {
		return f.err
	}
	return f.session.Set(testTokens())
}

func (f *fakeHTTP) Get(ctx context.Context, url string, opts *RequestOptions, out any) error {
	return f.record("GET", url, nil, opts, out)
}

func (f *fakeHTTP) Post(ctx context.Context, url string, body any, opts *RequestOptions, out any) error {
	return f.record("POST", url, body, opts, out)
}

func (f *fakeHTTP) Put(ctx context.Context, url string, body any, opts *RequestOptions, out any) error {
	return f.record("PUT", url, body, opts, out)
}

func (f *fakeHTTP) Delete(ctx context.Context, url string, out any) error {
	return f.record("DELETE", url, nil, nil, out)
}

func (f *fakeHTTP) Session() *httpclient.Session {
	return &f.session
}

func (f *fakeHTTP) record(method, url string, body any, opts *RequestOptions, out any) error {
	f.calls = append(f.calls, recordedCall{Method: method, URL: url, Body: body, Opts: opts})
	if f.err != nil {
		return f.err
	}
	payload, ok := f.responses[url]
	if !ok || out == nil {
		return nil
	}
	if raw, ok := out.(*[]byte); ok {
		*raw = []byte(payload)
		return nil
	}
	return json.Unmarshal([]byte(payload), out)
}

func (f *fakeHTTP) lastCall(t *testing.T) recordedCall {
	t.Helper()
	require.NotEmpty(t, f.calls)
	return f.calls[len(f.calls)-1]
}

func testTokens() Tokens {
	return Tokens{
		OAuth1: &OAuth1Token{OAuthToken: "oauth1-token", OAuthTokenSecret: "oauth1-secret"},
		OAuth2: &OAuth2Token{
			Scope:        "CONNECT_READ CONNECT_WRITE",
			JTI:          "jti-1",
			AccessToken:  "access-1",
			TokenType:    "Bearer",
			RefreshToken: "refresh-1",
			ExpiresIn:    3600,
			ExpiresAt:    1709298000,
			ExpiresDate:  "2024-03-01T13:00:00Z",
		},
	}
}

var testURLs = urls.New("")

func newTestClient(t *testing.T) (*Client, *fakeHTTP) {
	t.Helper()
	fake := newFakeHTTP()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	client, err := New(Config{Username: "user", Password: "pass"}, WithHTTPClient(fake), WithLogger(logger))
	require.NoError(t, err)
	return client, fake
}
