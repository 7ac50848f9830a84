package timeutil

import (
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danmuck/devkit/internal/tools"
)

// Timestamp converts between Unix epochs and calendar notations.
type Timestamp struct{}

func (Timestamp) Metadata() tools.Metadata {
	return tools.Metadata{
		ID:          TimestampID,
		Name:        "Timestamp converter",
		Category:    Category,
		Description: "Convert Unix timestamps (s, ms, us, ns) and calendar times between notations",
	}
}

func (Timestamp) Operations() []tools.OperationSpec {
	return []tools.OperationSpec{
		{Name: "now", Description: "current time in every notation", Args: []tools.ArgSpec{timezoneArg}},
		{Name: "convert", Description: "detect the input notation and show every other", Args: []tools.ArgSpec{
			{Name: tools.ArgInput, Description: "Unix epoch, RFC 3339, RFC 1123 or YYYY-MM-DD", Required: true},
			{Name: "unit", Description: "auto|s|ms|us|ns for numeric input", Default: "auto"},
			timezoneArg,
		}},
	}
}

func (ts Timestamp) Execute(action string, args map[string]string) (tools.Result, error) {
	loc, err := location(args)
	if err != nil {
		return tools.Run("", err)
	}
	switch strings.TrimSpace(action) {
	case "now":
		return tools.Run(render(now(), "now", loc), nil)
	case "convert":
		t, detected, err := ts.parse(args, loc)
		if err != nil {
			return tools.Run("", err)
		}
		return tools.Run(render(t, detected, loc), nil)
	default:
		return tools.UnknownAction(TimestampID, action)
	}
}

func fromEpoch(v int64, unit string) time.Time {
	switch unit {
	case "s":
		return time.Unix(v, 0)
	case "ms":
		return time.UnixMilli(v)
	case "us":
		return time.UnixMicro(v)
	default:
		return time.Unix(0, v)
	}
}

// epochUnit guesses the unit of a numeric epoch from its magnitude.
func epochUnit(v int64) string {
	abs := v
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs < 1e11:
		return "s"
	case abs < 1e14:
		return "ms"
	case abs < 1e17:
		return "us"
	default:
		return "ns"
	}
}

func (Timestamp) parse(args map[string]string, loc *time.Location) (time.Time, string, error) {
	raw := strings.TrimSpace(tools.Input(args))
	unit, err := tools.Choice(args, "unit", "auto", "auto", "s", "ms", "us", "ns")
	if err != nil {
		return time.Time{}, "", err
	}
	if v, ok := new(big.Int).SetString(raw, 10); ok {
		if !v.IsInt64() || v.Int64() == math.MinInt64 {
			return time.Time{}, "", tools.Invalid("epoch %s is out of range", raw)
		}
		n := v.Int64()
		if unit == "auto" {
			unit = epochUnit(n)
		}
		return fromEpoch(n, unit), "unix " + unit, nil
	}
	t, layout, err := parseTime(raw, loc)
	if err != nil {
		return time.Time{}, "", err
	}
	return t, layoutName(layout), nil
}

func layoutName(layout string) string {
	switch layout {
	case time.RFC3339Nano:
		return "RFC 3339"
	case time.RFC1123Z, time.RFC1123:
		return "RFC 1123"
	case time.RFC850:
		return "RFC 850"
	case time.ANSIC:
		return "ANSI C"
	case time.DateOnly:
		return "date"
	default:
		return "date-time"
	}
}

func render(t time.Time, detected string, loc *time.Location) string {
	local := t.In(loc)
	year, week := local.ISOWeek()
	return tools.RenderFields([]tools.Field{
		tools.F("detected", detected),
		tools.F("unix", t.Unix()),
		tools.F("unix_ms", t.UnixMilli()),
		tools.F("unix_us", t.UnixMicro()),
		tools.F("unix_ns", t.UnixNano()),
		tools.F("utc", t.UTC().Format(time.RFC3339Nano)),
		tools.F("local", local.Format(time.RFC3339Nano)),
		tools.F("rfc1123", local.Format(time.RFC1123)),
		tools.F("weekday", local.Weekday()),
		tools.F("day_of_year", local.YearDay()),
		tools.F("iso_week", isoWeek(year, week)),
		tools.F("relative", humanize.RelTime(t, now(), "ago", "from now")),
	})
}

func isoWeek(year, week int) string {
	return fmt.Sprintf("%d-W%02d", year, week)
}
