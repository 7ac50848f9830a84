package tools

import (
	"errors"
	"fmt"
	"strings"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrActionNotFound = errors.New("action not found")
)

// Invalid builds an ErrInvalidInput with a human-readable reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// UnknownAction is the shared default branch of every Execute switch.
func UnknownAction(toolID, action string) (Result, error) {
	err := fmt.Errorf("%s: %w: %q", toolID, ErrActionNotFound, action)
	return Fail(err), err
}

func OK(stdout string) Result {
	if stdout != "" && !strings.HasSuffix(stdout, "\n") {
		stdout += "\n"
	}
	return Result{
		Status:   StatusOK,
		Stdout:   []byte(stdout),
		ExitCode: 0,
	}
}

func Fail(err error) Result {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Result{
		Status:   StatusError,
		Stderr:   []byte(msg + "\n"),
		ExitCode: 1,
	}
}

// Run turns an action body's (output, error) pair into the Execute return.
func Run(out string, err error) (Result, error) {
	if err != nil {
		return Fail(err), err
	}
	return OK(out), nil
}

// Field is one line of structured output.
type Field struct {
	Key   string
	Value string
}

// F is shorthand for a Field literal.
func F(key string, value any) Field {
	return Field{Key: key, Value: fmt.Sprint(value)}
}

// RenderFields aligns keys so values start in the same column.
func RenderFields(fields []Field) string {
	width := 0
	for _, f := range fields {
		if len(f.Key) > width {
			width = len(f.Key)
		}
	}
	var b strings.Builder
	for _, f := range fields {
		b.WriteString(f.Key)
		b.WriteByte(':')
		b.WriteString(strings.Repeat(" ", width-len(f.Key)+1))
		b.WriteString(f.Value)
		b.WriteByte('\n')
	}
	return b.String()
}
