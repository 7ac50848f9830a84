// Package timeutil holds the cron, timestamp and duration tools.
package timeutil

import (
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/danmuck/devkit/internal/cronexpr"
	"github.com/danmuck/devkit/internal/tools"
)

const (
	Category    = "time"
	CronID      = "time.cron"
	TimestampID = "time.timestamp"
	DurationID  = "time.duration"
)

// now is swapped in tests.
var now = time.Now

var timezoneArg = tools.ArgSpec{Name: "timezone", Description: "IANA zone name, or Local", Default: "UTC"}

func location(args map[string]string) (*time.Location, error) {
	name := tools.String(args, "timezone", "UTC")
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, tools.Invalid("unknown timezone %q", name)
	}
	return loc, nil
}

// inputLayouts are tried in order for textual times.
var inputLayouts = []string{
	time.RFC3339Nano,
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	time.DateOnly,
}

// parseTime reads a textual time; layouts without a zone use loc.
func parseTime(raw string, loc *time.Location) (time.Time, string, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range inputLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, layout, nil
		}
	}
	return time.Time{}, "", tools.Invalid("unrecognized time %q", raw)
}

// Cron validates, explains and previews five-field cron schedules.
type Cron struct{}

func (Cron) Metadata() tools.Metadata {
	return tools.Metadata{
		ID:          CronID,
		Name:        "Cron expression",
		Category:    Category,
		Description: "Validate and explain cron schedules and list their next run times",
	}
}

func (Cron) Operations() []tools.OperationSpec {
	expr := tools.ArgSpec{Name: tools.ArgInput, Description: "five-field expression or @macro", Required: true}
	return []tools.OperationSpec{
		{Name: "validate", Description: "parse the expression", Args: []tools.ArgSpec{expr}},
		{Name: "describe", Description: "explain each field", Args: []tools.ArgSpec{expr}},
		{Name: "matches", Description: "check whether a time fires", Args: []tools.ArgSpec{
			expr, {Name: "at", Description: "time to check", Required: true}, timezoneArg,
		}},
		{Name: "next", Description: "list upcoming fire times", Args: []tools.ArgSpec{
			expr,
			{Name: "from", Description: "start time (default now)"},
			{Name: "count", Description: "how many times (1-100)", Default: "5"},
			timezoneArg,
		}},
	}
}

func (c Cron) Execute(action string, args map[string]string) (tools.Result, error) {
	sched, err := cronexpr.Parse(tools.Input(args))
	if err != nil {
		return tools.Run("", tools.Invalid("%v", err))
	}
	switch strings.TrimSpace(action) {
	case "validate":
		return tools.Run(tools.RenderFields([]tools.Field{
			tools.F("status", "valid"),
			tools.F("expression", strings.TrimSpace(sched.Expr)),
			tools.F("description", sched.Describe()),
		}), nil)
	case "describe":
		return tools.Run(sched.Describe(), nil)
	case "matches":
		loc, err := location(args)
		if err != nil {
			return tools.Run("", err)
		}
		at, _, err := parseTime(args["at"], loc)
		if err != nil {
			return tools.Run("", err)
		}
		at = at.In(loc)
		return tools.Run(tools.RenderFields([]tools.Field{
			tools.F("at", at.Format(time.RFC3339)),
			tools.F("matches", sched.Matches(at)),
		}), nil)
	case "next":
		return tools.Run(c.next(sched, args))
	default:
		return tools.UnknownAction(CronID, action)
	}
}

func (Cron) next(sched *cronexpr.Schedule, args map[string]string) (string, error) {
	loc, err := location(args)
	if err != nil {
		return "", err
	}
	count, err := tools.Int(args, "count", 5, 1, 100)
	if err != nil {
		return "", err
	}
	from := now().In(loc)
	if raw := tools.String(args, "from", ""); raw != "" {
		if from, _, err = parseTime(raw, loc); err != nil {
			return "", err
		}
		from = from.In(loc)
	}
	times := sched.NextN(from, count)
	if len(times) == 0 {
		return "", tools.Invalid("schedule never fires")
	}
	lines := make([]string, 0, len(times))
	for _, t := range times {
		lines = append(lines, t.Format("2006-01-02 15:04 Mon MST"))
	}
	return strings.Join(lines, "\n"), nil
}
