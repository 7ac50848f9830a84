package timeutil

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danmuck/devkit/internal/testutil/testlog"
	"github.com/danmuck/devkit/internal/tools"
)

func fixNow(t *testing.T, at time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
}

// fields parses RenderFields output back into a map.
func fields(t *testing.T, tool tools.Tool, action string, args map[string]string) map[string]string {
	t.Helper()
	res, err := tool.Execute(action, args)
	require.NoError(t, err, string(res.Stderr))
	out := map[string]string{}
	for _, line := range strings.Split(strings.TrimSpace(string(res.Stdout)), "\n") {
		key, value, ok := strings.Cut(line, ":")
		require.True(t, ok, line)
		out[key] = strings.TrimSpace(value)
	}
	return out
}

func TestCronNext(t *testing.T) {
	testlog.Start(t)
	res, err := Cron{}.Execute("next", map[string]string{
		"input": "*/15 9 * * MON", "from": "2024-01-01T00:00:00Z", "count": "3",
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01 09:00 Mon UTC\n2024-01-01 09:15 Mon UTC\n2024-01-01 09:30 Mon UTC\n", string(res.Stdout))

	fixNow(t, time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))
	res, err = Cron{}.Execute("next", map[string]string{"input": "@daily", "count": "1", "timezone": "Asia/Tokyo"})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-02 00:00 Sun JST\n", string(res.Stdout))
}

func TestCronNeverFires(t *testing.T) {
	testlog.Start(t)
	_, err := Cron{}.Execute("next", map[string]string{"input": "0 0 30 2 *", "from": "2024-01-01"})
	assert.True(t, errors.Is(err, tools.ErrInvalidInput))
}

func TestCronMatchesAndValidate(t *testing.T) {
	testlog.Start(t)
	f := fields(t, Cron{}, "matches", map[string]string{"input": "0 12 * * *", "at": "2024-03-05 12:00"})
	assert.Equal(t, "true", f["matches"])
	f = fields(t, Cron{}, "matches", map[string]string{"input": "0 12 * * *", "at": "2024-03-05T12:00:00Z", "timezone": "Europe/Berlin"})
	assert.Equal(t, "false", f["matches"])
	assert.Equal(t, "2024-03-05T13:00:00+01:00", f["at"])

	f = fields(t, Cron{}, "validate", map[string]string{"input": "30 9-17 * * 1-5"})
	assert.Equal(t, "valid", f["status"])
	assert.Contains(t, f["description"], "hour 9-17")

	res, err := Cron{}.Execute("validate", map[string]string{"input": "61 * * * *"})
	assert.True(t, errors.Is(err, tools.ErrInvalidInput))
	assert.Contains(t, string(res.Stderr), "61")

	_, err = Cron{}.Execute("next", map[string]string{"input": "* * * * *", "timezone": "Mars/Olympus"})
	assert.True(t, errors.Is(err, tools.ErrInvalidInput))
}

func TestTimestampConvert(t *testing.T) {
	testlog.Start(t)
	fixNow(t, time.Date(2023, 11, 17, 22, 13, 20, 0, time.UTC))

	f := fields(t, Timestamp{}, "convert", map[string]string{"input": "1700000000"})
	assert.Equal(t, "unix s", f["detected"])
	assert.Equal(t, "2023-11-14T22:13:20Z", f["utc"])
	assert.Equal(t, "1700000000000", f["unix_ms"])
	assert.Equal(t, "3 days ago", f["relative"])

	f = fields(t, Timestamp{}, "convert", map[string]string{"input": "1700000000123"})
	assert.Equal(t, "unix ms", f["detected"])
	assert.Equal(t, "2023-11-14T22:13:20.123Z", f["utc"])

	f = fields(t, Timestamp{}, "convert", map[string]string{"input": "1700000000123456789"})
	assert.Equal(t, "unix ns", f["detected"])
	assert.Equal(t, "1700000000123456", f["unix_us"])

	f = fields(t, Timestamp{}, "convert", map[string]string{"input": "1700000000", "unit": "ms"})
	assert.Equal(t, "1970-01-20T16:13:20Z", f["utc"])
}

func TestTimestampCalendarInput(t *testing.T) {
	testlog.Start(t)
	f := fields(t, Timestamp{}, "convert", map[string]string{"input": "2024-02-29"})
	assert.Equal(t, "date", f["detected"])
	assert.Equal(t, "1709164800", f["unix"])
	assert.Equal(t, "Thursday", f["weekday"])
	assert.Equal(t, "60", f["day_of_year"])
	assert.Equal(t, "2024-W09", f["iso_week"])

	f = fields(t, Timestamp{}, "convert", map[string]string{"input": "Tue, 14 Nov 2023 22:13:20 GMT", "timezone": "Asia/Kolkata"})
	assert.Equal(t, "RFC 1123", f["detected"])
	assert.Equal(t, "2023-11-15T03:43:20+05:30", f["local"])

	_, err := Timestamp{}.Execute("convert", map[string]string{"input": "yesterday-ish"})
	assert.True(t, errors.Is(err, tools.ErrInvalidInput))
	_, err = Timestamp{}.Execute("convert", map[string]string{"input": "99999999999999999999"})
	assert.True(t, errors.Is(err, tools.ErrInvalidInput))
}

func TestTimestampNow(t *testing.T) {
	testlog.Start(t)
	fixNow(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	f := fields(t, Timestamp{}, "now", nil)
	assert.Equal(t, "1704164645", f["unix"])
	assert.Equal(t, "now", f["relative"])
}

func TestDurationConvert(t *testing.T) {
	testlog.Start(t)
	f := fields(t, Duration{}, "convert", map[string]string{"input": "1h30m"})
	assert.Equal(t, "1h30m0s", f["go"])
	assert.Equal(t, "01:30:00", f["clock"])
	assert.Equal(t, "1h 30m", f["breakdown"])
	assert.Equal(t, "5400", f["seconds"])
	assert.Equal(t, "1.5", f["hours"])
	assert.Equal(t, "1 hour", f["human"])

	f = fields(t, Duration{}, "convert", map[string]string{"input": "1:02:03:04.5"})
	assert.Equal(t, "26h3m4.5s", f["go"])
	assert.Equal(t, "26:03:04.500", f["clock"])
	assert.Equal(t, "1d 2h 3m 4.5s", f["breakdown"])

	f = fields(t, Duration{}, "convert", map[string]string{"input": "-45"})
	assert.Equal(t, "-45s", f["go"])
	assert.Equal(t, "-00:00:45", f["clock"])
	assert.Equal(t, "-45s", f["breakdown"])

	for _, bad := range []string{"10:75", "abc", "", "1:2:3:4:5"} {
		_, err := Duration{}.Execute("convert", map[string]string{"input": bad})
		assert.True(t, errors.Is(err, tools.ErrInvalidInput), bad)
	}
}

func TestDurationClockOutOfRange(t *testing.T) {
	testlog.Start(t)
	for _, big := range []string{"200000:00:00:00", "3000000:00:00", "-200000:00:00:00", "4294967295:00"} {
		res, err := Duration{}.Execute("convert", map[string]string{"input": big})
		assert.True(t, errors.Is(err, tools.ErrInvalidInput), big)
		assert.Contains(t, string(res.Stderr), "out of range", big)
	}

	f := fields(t, Duration{}, "convert", map[string]string{"input": "106751:23:47:16"})
	assert.Equal(t, "2562047h47m16s", f["go"])
}
