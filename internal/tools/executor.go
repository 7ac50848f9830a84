package tools

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var ErrInputTooLarge = errors.New("input too large")

// DefaultMaxInputBytes caps the combined size of all argument values.
const DefaultMaxInputBytes = 1 << 20

// RecordFunc receives one observation per executed action.
type RecordFunc func(tool, action, status string, duration time.Duration)

// Executor resolves and runs tool actions with shared validation, logging and
// metrics.
type Executor struct {
	registry *Registry
	maxInput int
	record   RecordFunc
	logger   zerolog.Logger
}

type ExecutorOption func(*Executor)

// WithMaxInputBytes overrides DefaultMaxInputBytes. Non-positive disables the
// check.
func WithMaxInputBytes(n int) ExecutorOption {
	return func(e *Executor) {
		e.maxInput = n
	}
}

func WithRecorder(fn RecordFunc) ExecutorOption {
	return func(e *Executor) {
		e.record = fn
	}
}

func WithLogger(logger zerolog.Logger) ExecutorOption {
	return func(e *Executor) {
		e.logger = logger
	}
}

func NewExecutor(registry *Registry, opts ...ExecutorOption) *Executor {
	e := &Executor{
		registry: registry,
		maxInput: DefaultMaxInputBytes,
		logger:   log.Logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Executor) Registry() *Registry {
	return e.registry
}

// Execute runs one action. The returned Result is always populated; on failure
// it carries the human-readable message in Stderr alongside the error.
func (e *Executor) Execute(toolID, action string, args map[string]string) (res Result, err error) {
	start := time.Now()
	defer func() {
		status := res.Status
		if status == "" {
			status = StatusError
		}
		if e.record != nil {
			e.record(toolID, action, status, time.Since(start))
		}
		event := e.logger.Debug()
		if err != nil {
			event = e.logger.Warn().Err(err)
		}
		event.
			Str("tool", toolID).
			Str("action", action).
			Str("status", status).
			Dur("duration", time.Since(start)).
			Msg("tool action executed")
	}()

	tool, ok := e.registry.Resolve(toolID)
	if !ok {
		err = fmt.Errorf("%w: %s", ErrToolNotFound, toolID)
		return Fail(err), err
	}
	op, ok := Operation(tool, action)
	if !ok {
		err = fmt.Errorf("%s: %w: %q", toolID, ErrActionNotFound, action)
		return Fail(err), err
	}

	resolved, err := e.resolveArgs(op, args)
	if err != nil {
		return Fail(err), err
	}
	return e.invoke(tool, action, resolved)
}

func (e *Executor) resolveArgs(op OperationSpec, args map[string]string) (map[string]string, error) {
	size := 0
	resolved := make(map[string]string, len(args)+len(op.Args))
	for k, v := range args {
		size += len(v)
		resolved[k] = v
	}
	if e.maxInput > 0 && size > e.maxInput {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrInputTooLarge, size, e.maxInput)
	}
	for _, spec := range op.Args {
		if _, ok := resolved[spec.Name]; !ok && spec.Default != "" {
			resolved[spec.Name] = spec.Default
		}
		if spec.Required && resolved[spec.Name] == "" {
			return nil, Invalid("missing required argument %q", spec.Name)
		}
	}
	return resolved, nil
}

func (e *Executor) invoke(tool Tool, action string, args map[string]string) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic during %q: %v", tool.Metadata().ID, action, r)
			res = Fail(err)
		}
	}()
	res, err = tool.Execute(action, args)
	if err != nil && res.Status != StatusError {
		res = Fail(err)
	}
	return res, err
}
