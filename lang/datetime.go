package lang

import (
	"log/slog"
	"math"
	"strings"
	"time"
)

const (
	msPerHour = int64(time.Hour / time.Millisecond)
	msPerDay  = 24 * msPerHour

	// Bounds of the float64 values that convert exactly into int64.
	minEpochMillis = -(1 << 63)
	maxEpochMillis = 1 << 63
)

// isoLayouts are tried in order when parsing date strings. Layouts without a
// zone are interpreted in UTC.
var isoLayouts = []string{
	time.RFC3339, // also accepts fractional seconds
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseISO parses an ISO-8601 date or date-time.
func ParseISO(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	for _, layout := range isoLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, ErrDomain.
		Msgf("invalid ISO-8601 date %q", s).
		With(slog.String("date", s))
}

// instant converts argument i to a time: a Numeric (or numeric text) is taken
// as milliseconds since the epoch, other text is parsed as ISO-8601.
func (c *call) instant(i int) (time.Time, error) {
	v := c.args[i]

	switch {
	case v.IsBoolean():
		return time.Time{}, typeError(c.name, v).With(slog.Int("argument", i))
	case v.IsNumeric():
		return c.epochMillis(i, v.num)
	}

	if ms, ok := parseDecimal(v.str); ok {
		return c.epochMillis(i, ms)
	}

	t, err := ParseISO(v.str)
	if err != nil {
		return time.Time{}, WrapError(err).With(slog.String("function", c.name))
	}

	return t, nil
}

// epochMillis converts ms to a time, rejecting values that are not finite or
// that lie outside the range of int64 milliseconds.
func (c *call) epochMillis(i int, ms float64) (time.Time, error) {
	if math.IsNaN(ms) || ms < minEpochMillis || ms >= maxEpochMillis {
		return time.Time{}, ErrDomain.
			Msgf("%s is not a valid epoch millisecond instant", formatNumber(ms)).
			With(slog.String("function", c.name), slog.Int("argument", i))
	}

	return time.UnixMilli(int64(ms)).UTC(), nil
}

// elapsed returns the whole number of units of unitMs from argument 0 until
// now, rounded toward negative infinity.
func (c *call) elapsed(unitMs int64) (Value, error) {
	t, err := c.instant(0)
	if err != nil {
		return Value{}, err
	}

	diff := float64(c.now().UnixMilli()) - float64(t.UnixMilli())

	return Number(math.Floor(diff / float64(unitMs))), nil
}

func fnISO(c *call) (Value, error) {
	t, err := c.instant(0)
	if err != nil {
		return Value{}, err
	}

	return Millis(t.UnixMilli()), nil
}

func fnDaysInMonth(c *call) (Value, error) {
	offset := 0

	if len(c.args) > 0 {
		f, err := c.number(0)
		if err != nil {
			return Value{}, err
		}

		if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			return Value{}, ErrDomain.
				Msgf("month offset %s is not an integer", formatNumber(f)).
				With(slog.Float64("offset", f))
		}

		offset = int(f)
	}

	return Int(DaysInMonth(c.now(), offset)), nil
}

// DaysInMonth returns the number of days in the month offset months away
// from the month of t. Offsets roll across year boundaries.
func DaysInMonth(t time.Time, offset int) int {
	first := time.Date(t.Year(), t.Month()+time.Month(offset), 1, 0, 0, 0, 0, time.UTC)

	return first.AddDate(0, 1, -1).Day()
}
