package garmin

import (
	"time"

	"github.com/pkg/errors"
)

const (
	millilitersPerOunce = 29.5735295625
	gramsPerPound       = 453.59237

	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05.000"
)

// OuncesToMilliliters converts US fluid ounces to millilitres.
func OuncesToMilliliters(oz float64) float64 {
	return oz * millilitersPerOunce
}

// MillilitersToOunces converts millilitres to US fluid ounces.
func MillilitersToOunces(ml float64) float64 {
	return ml / millilitersPerOunce
}

// GramsToPounds converts grams to pounds.
func GramsToPounds(g float64) float64 {
	return g / gramsPerPound
}

// PoundsToGrams converts pounds to grams.
func PoundsToGrams(lbs float64) float64 {
	return lbs * gramsPerPound
}

// TimeDifference splits the span between two epoch millisecond timestamps
// into whole hours and remaining minutes.
func TimeDifference(startMs, endMs int64) SleepDuration {
	diff := endMs - startMs
	return SleepDuration{
		Hours:   int(diff / 3600000),
		Minutes: int(diff % 3600000 / 60000),
	}
}

// DateString formats t as yyyy-mm-dd in its own location.
func DateString(t time.Time) string {
	return t.Format(dateLayout)
}

// LocalTimestamp formats t as a millisecond timestamp in the named zone.
func LocalTimestamp(t time.Time, tz string) (string, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return "", errors.Wrapf(err, "unknown timezone %q", tz)
	}
	return t.In(loc).Format(timestampLayout), nil
}

// GMTTimestamp formats t as a millisecond timestamp in UTC.
func GMTTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
