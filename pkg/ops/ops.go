// Package ops declares named, schema-described operations and dispatches
// requests to their handlers. Dispatch validates arguments against the
// declared schema, applies defaults, and converts every failure, whether a
// caller error, a handler error, or a handler panic, into a single error
// result.
// Nothing raised by a handler escapes this boundary.
package ops

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/satchelhq/satchel/pkg/logger"
)

var (
	// ErrUnknownOperation marks a request naming an operation that was
	// never registered. Reported to the caller, not fatal to the process.
	ErrUnknownOperation = errors.New("unknown operation")
	// ErrInvalidArgument marks a request whose arguments fail schema
	// validation. The message names the offending parameter.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ParamType enumerates the primitive parameter types an operation schema
// can declare.
type ParamType string

const (
	TypeString     ParamType = "string"
	TypeInteger    ParamType = "integer"
	TypeBoolean    ParamType = "boolean"
	TypeStringList ParamType = "array"
)

// Param describes one declared parameter.
type Param struct {
	Type        ParamType
	Description string
	Required    bool
	// Default is applied when the argument is absent. Ignored for
	// required parameters.
	Default any
	// Enum restricts a string parameter to a fixed set of values.
	Enum []string
}

// Handler executes one operation with validated arguments and returns a
// JSON-serializable payload or an error.
type Handler func(ctx context.Context, args Args) (any, error)

// Descriptor is one dispatchable operation: unique name, description,
// argument schema, and handler. Declared once at process start.
type Descriptor struct {
	Name        string
	Description string
	Params      map[string]Param
	Handler     Handler
}

// Result is the uniform dispatch outcome: a success payload or an error.
// Exactly one of the two is meaningful.
type Result struct {
	Payload any
	Err     error
}

// Registry holds the declared operations for one adapter process.
type Registry struct {
	ops map[string]Descriptor
	log zerolog.Logger
}

func NewRegistry() *Registry {
	return &Registry{
		ops: make(map[string]Descriptor),
		log: logger.C("dispatch"),
	}
}

// Register declares an operation. Registration happens once at startup;
// a duplicate or malformed descriptor is a programming error.
func (r *Registry) Register(d Descriptor) {
	if d.Name == "" {
		panic("ops: descriptor without a name")
	}
	if d.Handler == nil {
		panic(fmt.Sprintf("ops: operation %q has no handler", d.Name))
	}
	if _, exists := r.ops[d.Name]; exists {
		panic(fmt.Sprintf("ops: operation %q registered twice", d.Name))
	}
	r.ops[d.Name] = d
}

// List returns all descriptors sorted by name. The order is stable and
// meaningful only for display.
func (r *Registry) List() []Descriptor {
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Descriptor, 0, len(names))
	for _, name := range names {
		out = append(out, r.ops[name])
	}
	return out
}

// Dispatch resolves and invokes one operation. Every call yields exactly
// one Result; handler panics are recovered into an error result.
func (r *Registry) Dispatch(ctx context.Context, name string, raw map[string]any) (result Result) {
	desc, ok := r.ops[name]
	if !ok {
		r.log.Warn().Str("operation", name).Msg("unknown operation")
		return Result{Err: fmt.Errorf("%w: %s", ErrUnknownOperation, name)}
	}

	args, err := validate(desc, raw)
	if err != nil {
		r.log.Warn().Str("operation", name).Err(err).Msg("argument validation failed")
		return Result{Err: err}
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().Str("operation", name).Any("panic", rec).Msg("handler panicked")
			result = Result{Err: fmt.Errorf("operation %s failed: %v", name, rec)}
		}
	}()

	start := time.Now()
	payload, err := desc.Handler(ctx, args)
	duration := time.Since(start)

	if err != nil {
		r.log.Error().Str("operation", name).Dur("duration", duration).Err(err).Msg("operation failed")
		return Result{Err: err}
	}
	r.log.Info().Str("operation", name).Dur("duration", duration).Msg("operation completed")
	return Result{Payload: payload}
}

// validate checks raw arguments against the schema and produces the
// defaulted, coerced argument mapping the handler receives. Arguments not
// named by the schema are dropped.
func validate(desc Descriptor, raw map[string]any) (Args, error) {
	args := make(Args, len(desc.Params))

	// Deterministic parameter order keeps error messages stable.
	names := make([]string, 0, len(desc.Params))
	for name := range desc.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		param := desc.Params[name]
		value, present := raw[name]
		if !present || value == nil {
			if param.Required {
				return nil, fmt.Errorf("%w: missing required parameter %q", ErrInvalidArgument, name)
			}
			if param.Default != nil {
				args[name] = param.Default
			}
			continue
		}

		coerced, err := coerce(name, param, value)
		if err != nil {
			return nil, err
		}
		args[name] = coerced
	}
	return args, nil
}

func coerce(name string, param Param, value any) (any, error) {
	switch param.Type {
	case TypeString:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: parameter %q must be a string", ErrInvalidArgument, name)
		}
		if len(param.Enum) > 0 && !contains(param.Enum, s) {
			return nil, fmt.Errorf("%w: parameter %q must be one of %v", ErrInvalidArgument, name, param.Enum)
		}
		return s, nil

	case TypeInteger:
		n, err := toInt(value)
		if err != nil {
			return nil, fmt.Errorf("%w: parameter %q must be an integer", ErrInvalidArgument, name)
		}
		return n, nil

	case TypeBoolean:
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: parameter %q must be a boolean", ErrInvalidArgument, name)
		}
		return b, nil

	case TypeStringList:
		list, err := toStringList(value)
		if err != nil {
			return nil, fmt.Errorf("%w: parameter %q must be an array of strings", ErrInvalidArgument, name)
		}
		return list, nil

	default:
		return nil, fmt.Errorf("%w: parameter %q has unsupported type %q", ErrInvalidArgument, name, param.Type)
	}
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, errors.New("not an integer")
		}
		return int(n), nil
	default:
		return 0, errors.New("not an integer")
	}
}

func toStringList(v any) ([]string, error) {
	switch list := v.(type) {
	case []string:
		return list, nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, errors.New("not a string array")
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, errors.New("not a string array")
	}
}

func contains(set []string, s string) bool {
	for _, candidate := range set {
		if candidate == s {
			return true
		}
	}
	return false
}
