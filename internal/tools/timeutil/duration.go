package timeutil

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danmuck/devkit/internal/tools"
)

// Duration converts a span of time between notations.
type Duration struct{}

func (Duration) Metadata() tools.Metadata {
	return tools.Metadata{
		ID:          DurationID,
		Name:        "Duration converter",
		Category:    Category,
		Description: "Break a duration into days, hours, minutes and seconds and convert between forms",
	}
}

func (Duration) Operations() []tools.OperationSpec {
	return []tools.OperationSpec{
		{Name: "convert", Description: "show every form", Args: []tools.ArgSpec{
			{Name: tools.ArgInput, Description: "Go duration (1h30m), [D:]HH:MM:SS[.fff] or seconds", Required: true},
		}},
	}
}

func (Duration) Execute(action string, args map[string]string) (tools.Result, error) {
	switch strings.TrimSpace(action) {
	case "convert":
		d, err := parseDuration(tools.Input(args))
		if err != nil {
			return tools.Run("", err)
		}
		return tools.Run(describeDuration(d), nil)
	default:
		return tools.UnknownAction(DurationID, action)
	}
}

func parseDuration(input string) (time.Duration, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return 0, tools.Invalid("empty duration")
	}
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		if math.IsNaN(secs) || math.IsInf(secs, 0) || math.Abs(secs) > float64(math.MaxInt64)/float64(time.Second) {
			return 0, tools.Invalid("duration %q is out of range", raw)
		}
		return time.Duration(secs * float64(time.Second)), nil
	}
	if strings.Contains(raw, ":") {
		return parseClock(raw)
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, tools.Invalid("%v", err)
	}
	return d, nil
}

// parseClock reads HH:MM:SS, MM:SS or D:HH:MM:SS with optional fractional seconds.
func parseClock(raw string) (time.Duration, error) {
	neg := strings.HasPrefix(raw, "-")
	parts := strings.Split(strings.TrimPrefix(raw, "-"), ":")
	if len(parts) < 2 || len(parts) > 4 {
		return 0, tools.Invalid("clock duration %q must have 2 to 4 fields", raw)
	}
	units := []time.Duration{time.Second, time.Minute, time.Hour, 24 * time.Hour}
	var total time.Duration
	for i := range parts {
		field := parts[len(parts)-1-i]
		unit := units[i]
		if i == 0 {
			secs, err := strconv.ParseFloat(field, 64)
			if err != nil || secs < 0 || (len(parts) > 1 && secs >= 60) {
				return 0, tools.Invalid("invalid seconds %q", field)
			}
			total += time.Duration(secs * float64(time.Second))
			continue
		}
		v, err := strconv.ParseUint(field, 10, 32)
		if err != nil {
			return 0, tools.Invalid("invalid field %q", field)
		}
		last := i == len(parts)-1
		if !last && ((unit == time.Minute && v >= 60) || (unit == time.Hour && v >= 24)) {
			return 0, tools.Invalid("field %q is out of range", field)
		}
		if v > uint64(math.MaxInt64/int64(unit)) {
			return 0, tools.Invalid("duration %q is out of range", raw)
		}
		term := time.Duration(v) * unit
		if total > math.MaxInt64-term {
			return 0, tools.Invalid("duration %q is out of range", raw)
		}
		total += term
	}
	if neg {
		total = -total
	}
	return total, nil
}

func breakdown(d time.Duration) string {
	if d == 0 {
		return "0s"
	}
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	mins := d / time.Minute
	d -= mins * time.Minute
	secs := d.Seconds()

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if mins > 0 {
		parts = append(parts, fmt.Sprintf("%dm", mins))
	}
	if secs > 0 {
		parts = append(parts, strconv.FormatFloat(secs, 'f', -1, 64)+"s")
	}
	return sign + strings.Join(parts, " ")
}

func clock(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	out := fmt.Sprintf("%s%02d:%02d:%02d", sign, h, m, s)
	if ms := (d % time.Second) / time.Millisecond; ms > 0 {
		out += fmt.Sprintf(".%03d", ms)
	}
	return out
}

func describeDuration(d time.Duration) string {
	epoch := time.Unix(0, 0)
	return tools.RenderFields([]tools.Field{
		tools.F("go", d.String()),
		tools.F("clock", clock(d)),
		tools.F("breakdown", breakdown(d)),
		tools.F("seconds", strconv.FormatFloat(d.Seconds(), 'f', -1, 64)),
		tools.F("milliseconds", d.Milliseconds()),
		tools.F("minutes", strconv.FormatFloat(d.Minutes(), 'f', -1, 64)),
		tools.F("hours", strconv.FormatFloat(d.Hours(), 'f', -1, 64)),
		tools.F("human", strings.TrimSpace(humanize.RelTime(epoch, epoch.Add(d), "", ""))),
	})
}
