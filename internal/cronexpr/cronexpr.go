// Package cronexpr parses five-field cron expressions and matches them
// against wall-clock times.
package cronexpr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrFieldCount   = errors.New("cronexpr: expected 5 fields")
	ErrInvalidField = errors.New("cronexpr: invalid field")
)

// searchHorizon bounds Next for schedules that can never fire, such as
// February 30th.
const searchHorizon = 5 * 366 * 24 * time.Hour

type fieldSpec struct {
	name  string
	min   int
	max   int
	names map[string]int
}

var (
	minuteSpec = fieldSpec{name: "minute", min: 0, max: 59}
	hourSpec   = fieldSpec{name: "hour", min: 0, max: 23}
	domSpec    = fieldSpec{name: "day-of-month", min: 1, max: 31}
	monthSpec  = fieldSpec{name: "month", min: 1, max: 12, names: map[string]int{
		"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
		"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
	}}
	// 7 is accepted as Sunday and folded onto 0 after parsing.
	dowSpec = fieldSpec{name: "day-of-week", min: 0, max: 7, names: map[string]int{
		"sun": 0, "mon": 1, "tue": 2, "wed": 3, "thu": 4, "fri": 5, "sat": 6,
	}}
)

var macros = map[string]string{
	"@yearly":   "0 0 1 1 *",
	"@annually": "0 0 1 1 *",
	"@monthly":  "0 0 1 * *",
	"@weekly":   "0 0 * * 0",
	"@daily":    "0 0 * * *",
	"@midnight": "0 0 * * *",
	"@hourly":   "0 * * * *",
}

// Schedule is a parsed expression. Each field is a bitset of allowed values.
type Schedule struct {
	Expr string

	minute, hour, dom, month, dow uint64
	domStar, dowStar              bool
}

// Parse reads a standard five-field expression or one of the @ macros.
func Parse(expr string) (*Schedule, error) {
	raw := strings.TrimSpace(expr)
	if expanded, ok := macros[strings.ToLower(raw)]; ok {
		raw = expanded
	}
	fields := strings.Fields(raw)
	if len(fields) != 5 {
		return nil, fmt.Errorf("%w, got %d in %q", ErrFieldCount, len(fields), expr)
	}

	s := &Schedule{Expr: strings.TrimSpace(expr)}
	var err error
	if s.minute, err = parseField(fields[0], minuteSpec); err != nil {
		return nil, err
	}
	if s.hour, err = parseField(fields[1], hourSpec); err != nil {
		return nil, err
	}
	if s.dom, err = parseField(fields[2], domSpec); err != nil {
		return nil, err
	}
	if s.month, err = parseField(fields[3], monthSpec); err != nil {
		return nil, err
	}
	if s.dow, err = parseField(fields[4], dowSpec); err != nil {
		return nil, err
	}
	if s.dow&(1<<7) != 0 {
		s.dow = s.dow&^(1<<7) | 1
	}
	s.domStar = isStar(fields[2])
	s.dowStar = isStar(fields[4])
	return s, nil
}

func isStar(field string) bool {
	return field == "*" || field == "?"
}

func parseField(field string, spec fieldSpec) (uint64, error) {
	var set uint64
	for _, part := range strings.Split(field, ",") {
		bitsForPart, err := parsePart(part, spec)
		if err != nil {
			return 0, err
		}
		set |= bitsForPart
	}
	return set, nil
}

func parsePart(part string, spec fieldSpec) (uint64, error) {
	if part == "" {
		return 0, fieldError(spec, part, "empty list element")
	}
	rangePart, stepPart, hasStep := strings.Cut(part, "/")
	step := 1
	if hasStep {
		n, err := strconv.Atoi(stepPart)
		if err != nil || n <= 0 {
			return 0, fieldError(spec, part, "step must be a positive integer")
		}
		step = n
	}

	var lo, hi int
	switch {
	case rangePart == "*" || rangePart == "?":
		lo, hi = spec.min, spec.max
	case strings.Contains(rangePart, "-"):
		a, b, _ := strings.Cut(rangePart, "-")
		var err error
		if lo, err = parseValue(a, spec); err != nil {
			return 0, fieldError(spec, part, err.Error())
		}
		if hi, err = parseValue(b, spec); err != nil {
			return 0, fieldError(spec, part, err.Error())
		}
		if lo > hi {
			return 0, fieldError(spec, part, "range start exceeds end")
		}
	default:
		v, err := parseValue(rangePart, spec)
		if err != nil {
			return 0, fieldError(spec, part, err.Error())
		}
		lo, hi = v, v
		if hasStep {
			hi = spec.max
		}
	}

	var set uint64
	for v := lo; v <= hi; v += step {
		set |= 1 << uint(v)
	}
	return set, nil
}

func parseValue(s string, spec fieldSpec) (int, error) {
	if v, ok := spec.names[strings.ToLower(s)]; ok {
		return v, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if v < spec.min || v > spec.max {
		return 0, fmt.Errorf("%d out of range %d-%d", v, spec.min, spec.max)
	}
	return v, nil
}

func fieldError(spec fieldSpec, part, reason string) error {
	return fmt.Errorf("%w: %s %q: %s", ErrInvalidField, spec.name, part, reason)
}

// Matches reports whether t, truncated to the minute, satisfies the schedule.
// When both day fields are restricted either one may match.
func (s *Schedule) Matches(t time.Time) bool {
	if s.minute&(1<<uint(t.Minute())) == 0 ||
		s.hour&(1<<uint(t.Hour())) == 0 ||
		s.month&(1<<uint(t.Month())) == 0 {
		return false
	}
	return s.dayMatches(t)
}

func (s *Schedule) dayMatches(t time.Time) bool {
	domOK := s.dom&(1<<uint(t.Day())) != 0
	dowOK := s.dow&(1<<uint(t.Weekday())) != 0
	if s.domStar || s.dowStar {
		return domOK && dowOK
	}
	return domOK || dowOK
}

// Next returns the first matching minute strictly after t, in t's location.
// ok is false when nothing matches within the search horizon.
func (s *Schedule) Next(after time.Time) (time.Time, bool) {
	loc := after.Location()
	t := after.Truncate(time.Minute).Add(time.Minute)
	limit := t.Add(searchHorizon)

	for t.Before(limit) {
		if s.month&(1<<uint(t.Month())) == 0 {
			t = time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, loc)
			continue
		}
		if !s.dayMatches(t) {
			t = time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, loc)
			continue
		}
		if s.hour&(1<<uint(t.Hour())) == 0 {
			t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour()+1, 0, 0, 0, loc)
			continue
		}
		if s.minute&(1<<uint(t.Minute())) == 0 {
			t = t.Add(time.Minute)
			continue
		}
		return t, true
	}
	return time.Time{}, false
}

// NextN collects up to n consecutive fire times after t.
func (s *Schedule) NextN(after time.Time, n int) []time.Time {
	out := make([]time.Time, 0, n)
	t := after
	for len(out) < n {
		next, ok := s.Next(t)
		if !ok {
			break
		}
		out = append(out, next)
		t = next
	}
	return out
}

var (
	monthLabels = []string{"", "Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	dowLabels   = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
)

// Describe renders each field as compressed value ranges.
func (s *Schedule) Describe() string {
	parts := []string{
		describeField("minute", s.minute, minuteSpec, nil),
		describeField("hour", s.hour, hourSpec, nil),
		describeField("day-of-month", s.dom, domSpec, nil),
		describeField("month", s.month, monthSpec, monthLabels),
		describeField("day-of-week", s.dow, fieldSpec{min: 0, max: 6}, dowLabels),
	}
	joiner := "and"
	if !s.domStar && !s.dowStar {
		joiner = "or"
	}
	return fmt.Sprintf("%s; %s; %s %s %s; %s", parts[0], parts[1], parts[2], joiner, parts[4], parts[3])
}

func describeField(name string, set uint64, spec fieldSpec, labels []string) string {
	full := uint64(0)
	for v := spec.min; v <= spec.max; v++ {
		full |= 1 << uint(v)
	}
	if set&full == full {
		return "every " + name
	}
	label := func(v int) string {
		if labels != nil {
			return labels[v]
		}
		return strconv.Itoa(v)
	}

	var ranges []string
	for v := spec.min; v <= spec.max; {
		if set&(1<<uint(v)) == 0 {
			v++
			continue
		}
		end := v
		for end+1 <= spec.max && set&(1<<uint(end+1)) != 0 {
			end++
		}
		switch {
		case end == v:
			ranges = append(ranges, label(v))
		case end == v+1:
			ranges = append(ranges, label(v), label(end))
		default:
			ranges = append(ranges, label(v)+"-"+label(end))
		}
		v = end + 1
	}
	return name + " " + strings.Join(ranges, ",")
}
