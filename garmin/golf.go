package garmin

import (
	"context"
	"net/url"

	"github.com/pkg/errors"
)

// GetGolfSummary lists the golf scorecards of the user.
func (c *Client) GetGolfSummary(ctx context.Context) (*GolfSummary, error) {
	var summary *GolfSummary
	if err := c.http.Get(ctx, c.url.GolfScorecardSummary(), nil, &summary); err != nil {
		return nil, errors.Wrap(err, "GetGolfSummary")
	}
	if summary == nil {
		return nil, errors.Wrap(ErrInvalidResponse, "GetGolfSummary")
	}
	return summary, nil
}

// GetGolfScorecard fetches the holes and strokes of one scorecard.
func (c *Client) GetGolfScorecard(ctx context.Context, scorecardID int64) (*GolfScorecard, error) {
	if scorecardID == 0 {
		return nil, errors.Wrap(ErrMissingID, "GetGolfScorecard: scorecardId")
	}
	query := url.Values{"scorecard-ids": {formatID(scorecardID)}}
	var scorecard *GolfScorecard
	if err := c.http.Get(ctx, c.url.GolfScorecardDetail(), &RequestOptions{Query: query}, &scorecard); err != nil {
		return nil, errors.Wrap(err, "GetGolfScorecard")
	}
	if scorecard == nil {
		return nil, errors.Wrap(ErrInvalidResponse, "GetGolfScorecard")
	}
	return scorecard, nil
}

// ConsentGrant accepts the data upload consent required before uploading
// activities from a new account.
func (c *Client) ConsentGrant(ctx context.Context) error {
	body := map[string]string{
		"consentTypeId":  "DI_CONNECT_UPLOAD",
		"consentLocale":  "en-US",
		"consentVersion": "59",
	}
	if err := c.http.Post(ctx, c.url.ConsentGrant(), body, nil, nil); err != nil {
		return errors.Wrap(err, "ConsentGrant")
	}
	return nil
}
