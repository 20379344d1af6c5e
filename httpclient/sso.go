package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	csrfRE   = regexp.MustCompile(`name="_csrf"\s+value="(.+?)"`)
	titleRE  = regexp.MustCompile(`<title>(.+?)</title>`)
	ticketRE = regexp.MustCompile(`embed\?ticket=([^"]+)"`)
	statusRE = regexp.MustCompile(`var\s+status\s*=\s*"([^"]*)"`)
)

// Login runs the SSO sign-in and stores the resulting token pair. Existing
// tokens are kept if any step fails.
func (c *Client) Login(ctx context.Context, username, password string) error {
	ticket, err := c.loginTicket(ctx, username, password)
	if err != nil {
		c.log.WithError(err).Warn("garmin sso login failed")
		return err
	}

	oauth1, err := c.preauthorize(ctx, ticket)
	if err != nil {
		return errors.Wrap(err, "login: preauthorize")
	}

	oauth2, err := c.exchange(ctx, oauth1)
	if err != nil {
		return errors.Wrap(err, "login: exchange")
	}

	if err := c.session.Set(Tokens{OAuth1: oauth1, OAuth2: oauth2}); err != nil {
		return err
	}
	c.log.WithField("domain", c.urls.Domain()).Info("logged in to garmin connect")
	return nil
}

func (c *Client) loginTicket(ctx context.Context, username, password string) (string, error) {
	embed := c.urls.SSOEmbed()

	// Step 1: session cookies.
	cookieParams := url.Values{
		"clientId": {"GarminConnect"},
		"locale":   {"en"},
		"service":  {c.urls.Modern()},
	}
	if _, err := c.ssoRequest(ctx, http.MethodGet, embed+"?"+cookieParams.Encode(), nil, ""); err != nil {
		return "", errors.Wrap(err, "login: embed")
	}

	// Step 2: csrf token from the sign-in widget.
	widgetParams := url.Values{
		"id":          {"gauth-widget"},
		"embedWidget": {"true"},
		"locale":      {"en"},
		"gauthHost":   {embed},
	}
	widgetURL := c.urls.SignIn() + "?" + widgetParams.Encode()
	page, err := c.ssoRequest(ctx, http.MethodGet, widgetURL, nil, "")
	if err != nil {
		return "", errors.Wrap(err, "login: signin page")
	}
	match := csrfRE.FindStringSubmatch(page)
	if match == nil {
		return "", ErrCSRFNotFound
	}

	// Step 3: credentials for a service ticket.
	signinParams := url.Values{
		"id":                              {"gauth-widget"},
		"embedWidget":                     {"true"},
		"clientId":                        {"GarminConnect"},
		"locale":                          {"en"},
		"gauthHost":                       {embed},
		"service":                         {embed},
		"source":                          {embed},
		"redirectAfterAccountLoginUrl":    {embed},
		"redirectAfterAccountCreationUrl": {embed},
	}
	form := url.Values{
		"username": {username},
		"password": {password},
		"embed":    {"true"},
		"_csrf":    {match[1]},
	}
	result, err := c.ssoRequest(ctx, http.MethodPost, c.urls.SignIn()+"?"+signinParams.Encode(), form, widgetURL)
	if err != nil {
		return "", errors.Wrap(err, "login: signin")
	}

	return parseTicket(result)
}

// parseTicket extracts the service ticket from the sign-in response page.
func parseTicket(page string) (string, error) {
	if status := statusRE.FindStringSubmatch(page); status != nil {
		if strings.Contains(status[1], "ACCOUNT_LOCKED") {
			return "", ErrAccountLocked
		}
	}
	if title := titleRE.FindStringSubmatch(page); title != nil && strings.Contains(title[1], "MFA") {
		return "", ErrMFARequired
	}
	ticket := ticketRE.FindStringSubmatch(page)
	if ticket == nil {
		return "", ErrTicketNotFound
	}
	return ticket[1], nil
}

// ssoRequest performs an unauthenticated browser-like request and returns the body.
func (c *Client) ssoRequest(ctx context.Context, method, rawURL string, form url.Values, referer string) (string, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return "", errors.Wrap(err, "could not prepare request")
	}
	req.Header.Set("User-Agent", browserUserAgent)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Origin", c.urls.SSOOrigin())
	}
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{
		"method": method,
		"url":    stripQuery(rawURL),
		"status": resp.StatusCode,
	}).Debug("garmin sso request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", newStatusError(method, rawURL, resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "could not read response")
	}
	return string(data), nil
}
