package garmin

import (
	"context"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

// GetSteps returns the total step count for the day of date.
func (c *Client) GetSteps(ctx context.Context, date time.Time) (int, error) {
	day := DateString(date)
	var days []DailySteps
	if err := c.http.Get(ctx, c.url.DailySteps(day, day), nil, &days); err != nil {
		return 0, errors.Wrap(err, "GetSteps")
	}
	for _, d := range days {
		if d.CalendarDate == day {
			return d.TotalSteps, nil
		}
	}
	return 0, errors.Wrapf(ErrInvalidResponse, "GetSteps: no daily steps for %s", day)
}

// GetSleepData returns the sleep record of the night ending on date.
func (c *Client) GetSleepData(ctx context.Context, date time.Time) (*SleepData, error) {
	query := url.Values{"date": {DateString(date)}}
	var sleep *SleepData
	if err := c.http.Get(ctx, c.url.DailySleep(), &RequestOptions{Query: query}, &sleep); err != nil {
		return nil, errors.Wrap(err, "GetSleepData")
	}
	if sleep == nil {
		return nil, errors.Wrap(ErrInvalidResponse, "GetSleepData")
	}
	return sleep, nil
}

// GetSleepDuration returns how long the night ending on date lasted.
func (c *Client) GetSleepDuration(ctx context.Context, date time.Time) (SleepDuration, error) {
	sleep, err := c.GetSleepData(ctx, date)
	if err != nil {
		return SleepDuration{}, errors.Wrap(err, "GetSleepDuration")
	}
	dto := sleep.DailySleepDTO
	if dto == nil || dto.SleepStartTimestampGMT == nil || dto.SleepEndTimestampGMT == nil {
		return SleepDuration{}, errors.Wrap(ErrInvalidResponse, "GetSleepDuration: missing sleep timestamps")
	}
	return TimeDifference(*dto.SleepStartTimestampGMT, *dto.SleepEndTimestampGMT), nil
}

// GetDailyWeightData returns the weigh-ins of date and their average.
func (c *Client) GetDailyWeightData(ctx context.Context, date time.Time) (*WeightData, error) {
	var weight *WeightData
	if err := c.http.Get(ctx, c.url.DailyWeight(DateString(date)), nil, &weight); err != nil {
		return nil, errors.Wrap(err, "GetDailyWeightData")
	}
	if weight == nil {
		return nil, errors.Wrap(ErrInvalidResponse, "GetDailyWeightData")
	}
	return weight, nil
}

// GetDailyWeightInPounds returns the average weight recorded on date.
func (c *Client) GetDailyWeightInPounds(ctx context.Context, date time.Time) (float64, error) {
	weight, err := c.GetDailyWeightData(ctx, date)
	if err != nil {
		return 0, err
	}
	if weight.TotalAverage == nil || weight.TotalAverage.Weight == nil {
		return 0, errors.Wrap(ErrInvalidResponse, "GetDailyWeightInPounds: no average weight")
	}
	return GramsToPounds(*weight.TotalAverage.Weight), nil
}

// GetDailyHydration returns the water logged on date in ounces.
func (c *Client) GetDailyHydration(ctx context.Context, date time.Time) (float64, error) {
	var hydration *HydrationData
	if err := c.http.Get(ctx, c.url.DailyHydration(DateString(date)), nil, &hydration); err != nil {
		return 0, errors.Wrap(err, "GetDailyHydration")
	}
	if hydration == nil || hydration.ValueInML == nil || *hydration.ValueInML == 0 {
		return 0, errors.Wrap(ErrInvalidResponse, "GetDailyHydration")
	}
	return MillilitersToOunces(*hydration.ValueInML), nil
}

// UpdateWeight records a weight in pounds at date, localised to tz.
func (c *Client) UpdateWeight(ctx context.Context, date time.Time, lbs float64, tz string) (*WeightEntry, error) {
	local, err := LocalTimestamp(date, tz)
	if err != nil {
		return nil, errors.Wrap(err, "UpdateWeight")
	}
	body := map[string]any{
		"dateTimestamp": local,
		"gmtTimestamp":  GMTTimestamp(date),
		"unitKey":       "lbs",
		"value":         lbs,
	}
	entry := &WeightEntry{}
	if err := c.http.Post(ctx, c.url.UpdateWeight(), body, nil, entry); err != nil {
		return nil, errors.Wrap(err, "UpdateWeight")
	}
	return entry, nil
}

// UpdateHydrationLogOunces adds oz ounces of water to the log for date.
func (c *Client) UpdateHydrationLogOunces(ctx context.Context, date time.Time, oz float64) (*WaterIntake, error) {
	profile, err := c.GetUserProfile(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "UpdateHydrationLogOunces")
	}
	body := map[string]any{
		"calendarDate":   DateString(date),
		"valueInML":      OuncesToMilliliters(oz),
		"userProfileId":  profile.ProfileID,
		"timestampLocal": GMTTimestamp(date),
	}
	intake := &WaterIntake{}
	if err := c.http.Put(ctx, c.url.HydrationLog(), body, nil, intake); err != nil {
		return nil, errors.Wrap(err, "UpdateHydrationLogOunces")
	}
	return intake, nil
}

// GetHeartRate returns the heart rate samples and resting rate for date.
func (c *Client) GetHeartRate(ctx context.Context, date time.Time) (*HeartRate, error) {
	query := url.Values{"date": {DateString(date)}}
	var heartRate *HeartRate
	if err := c.http.Get(ctx, c.url.DailyHeartRate(), &RequestOptions{Query: query}, &heartRate); err != nil {
		return nil, errors.Wrap(err, "GetHeartRate")
	}
	if heartRate == nil {
		return nil, errors.Wrap(ErrInvalidResponse, "GetHeartRate")
	}
	return heartRate, nil
}
