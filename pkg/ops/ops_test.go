package ops

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T, descs ...Descriptor) *Registry {
	t.Helper()
	reg := NewRegistry()
	for _, d := range descs {
		reg.Register(d)
	}
	return reg
}

func echoHandler(_ context.Context, args Args) (any, error) {
	return map[string]any(args), nil
}

func TestDispatchSuccess(t *testing.T) {
	reg := newTestRegistry(t, Descriptor{
		Name: "echo",
		Params: map[string]Param{
			"message": {Type: TypeString, Required: true},
		},
		Handler: echoHandler,
	})

	result := reg.Dispatch(context.Background(), "echo", map[string]any{"message": "hi"})
	require.NoError(t, result.Err)
	assert.Equal(t, map[string]any{"message": "hi"}, result.Payload)
}

func TestDispatchUnknownOperation(t *testing.T) {
	invoked := false
	reg := newTestRegistry(t, Descriptor{
		Name: "known",
		Handler: func(context.Context, Args) (any, error) {
			invoked = true
			return nil, nil
		},
	})

	result := reg.Dispatch(context.Background(), "missing", nil)
	require.ErrorIs(t, result.Err, ErrUnknownOperation)
	assert.Contains(t, result.Err.Error(), "missing")
	assert.False(t, invoked)
}

func TestDispatchMissingRequiredBeforeHandler(t *testing.T) {
	invoked := false
	reg := newTestRegistry(t, Descriptor{
		Name: "send",
		Params: map[string]Param{
			"to":   {Type: TypeString, Required: true},
			"body": {Type: TypeString, Required: true},
		},
		Handler: func(context.Context, Args) (any, error) {
			invoked = true
			return nil, nil
		},
	})

	result := reg.Dispatch(context.Background(), "send", map[string]any{"to": "a@example.com"})
	require.ErrorIs(t, result.Err, ErrInvalidArgument)
	assert.Contains(t, result.Err.Error(), `missing required parameter "body"`)
	assert.False(t, invoked, "handler must not run on invalid arguments")
}

func TestDispatchEnumViolation(t *testing.T) {
	reg := newTestRegistry(t, Descriptor{
		Name: "pick",
		Params: map[string]Param{
			"account": {Type: TypeString, Enum: []string{"primary", "secondary"}},
		},
		Handler: echoHandler,
	})

	result := reg.Dispatch(context.Background(), "pick", map[string]any{"account": "tertiary"})
	require.ErrorIs(t, result.Err, ErrInvalidArgument)
	assert.Contains(t, result.Err.Error(), `"account"`)
}

func TestDispatchAppliesDefaults(t *testing.T) {
	reg := newTestRegistry(t, Descriptor{
		Name: "list",
		Params: map[string]Param{
			"max_results": {Type: TypeInteger, Default: 10},
			"account":     {Type: TypeString, Default: "primary"},
			"query":       {Type: TypeString},
		},
		Handler: echoHandler,
	})

	result := reg.Dispatch(context.Background(), "list", map[string]any{})
	require.NoError(t, result.Err)
	payload := result.Payload.(map[string]any)
	assert.Equal(t, 10, payload["max_results"])
	assert.Equal(t, "primary", payload["account"])
	_, present := payload["query"]
	assert.False(t, present, "optional parameter without default stays absent")
}

func TestDispatchCoercesJSONNumbers(t *testing.T) {
	reg := newTestRegistry(t, Descriptor{
		Name: "list",
		Params: map[string]Param{
			"max_results": {Type: TypeInteger},
		},
		Handler: echoHandler,
	})

	// JSON decoding hands numbers over as float64.
	result := reg.Dispatch(context.Background(), "list", map[string]any{"max_results": float64(25)})
	require.NoError(t, result.Err)
	assert.Equal(t, 25, result.Payload.(map[string]any)["max_results"])

	result = reg.Dispatch(context.Background(), "list", map[string]any{"max_results": 2.5})
	require.ErrorIs(t, result.Err, ErrInvalidArgument)
}

func TestDispatchStringList(t *testing.T) {
	reg := newTestRegistry(t, Descriptor{
		Name: "modify",
		Params: map[string]Param{
			"add_labels": {Type: TypeStringList},
		},
		Handler: echoHandler,
	})

	result := reg.Dispatch(context.Background(), "modify", map[string]any{
		"add_labels": []any{"INBOX", "UNREAD"},
	})
	require.NoError(t, result.Err)
	assert.Equal(t, []string{"INBOX", "UNREAD"}, result.Payload.(map[string]any)["add_labels"])

	result = reg.Dispatch(context.Background(), "modify", map[string]any{
		"add_labels": []any{"INBOX", 3},
	})
	require.ErrorIs(t, result.Err, ErrInvalidArgument)
}

func TestDispatchDropsUndeclaredArguments(t *testing.T) {
	reg := newTestRegistry(t, Descriptor{
		Name: "echo",
		Params: map[string]Param{
			"message": {Type: TypeString},
		},
		Handler: echoHandler,
	})

	result := reg.Dispatch(context.Background(), "echo", map[string]any{
		"message": "hi",
		"extra":   "ignored",
	})
	require.NoError(t, result.Err)
	_, present := result.Payload.(map[string]any)["extra"]
	assert.False(t, present)
}

func TestDispatchRecoversPanic(t *testing.T) {
	reg := newTestRegistry(t, Descriptor{
		Name: "boom",
		Handler: func(context.Context, Args) (any, error) {
			panic("kaboom")
		},
	})

	result := reg.Dispatch(context.Background(), "boom", nil)
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "operation boom failed")
	assert.Contains(t, result.Err.Error(), "kaboom")
}

func TestDispatchHandlerError(t *testing.T) {
	sentinel := errors.New("backend unavailable")
	reg := newTestRegistry(t, Descriptor{
		Name: "flaky",
		Handler: func(context.Context, Args) (any, error) {
			return nil, sentinel
		},
	})

	result := reg.Dispatch(context.Background(), "flaky", nil)
	assert.ErrorIs(t, result.Err, sentinel)
}

func TestListIsNameSorted(t *testing.T) {
	reg := newTestRegistry(t,
		Descriptor{Name: "zeta", Handler: echoHandler},
		Descriptor{Name: "alpha", Handler: echoHandler},
		Descriptor{Name: "mu", Handler: echoHandler},
	)

	var names []string
	for _, d := range reg.List() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"alpha", "mu", "zeta"}, names)
}

func TestRegisterDuplicatePanics(t *testing.T) {
	reg := newTestRegistry(t, Descriptor{Name: "dup", Handler: echoHandler})
	assert.Panics(t, func() {
		reg.Register(Descriptor{Name: "dup", Handler: echoHandler})
	})
}

func TestRegisterNoHandlerPanics(t *testing.T) {
	reg := NewRegistry()
	assert.Panics(t, func() {
		reg.Register(Descriptor{Name: "bare"})
	})
}

func TestArgsAccessors(t *testing.T) {
	args := Args{
		"name":   "x",
		"count":  7,
		"flag":   true,
		"labels": []string{"a"},
	}
	assert.Equal(t, "x", args.String("name"))
	assert.Equal(t, "", args.String("absent"))
	assert.Equal(t, 7, args.Int("count"))
	assert.Equal(t, 0, args.Int("absent"))
	assert.True(t, args.Bool("flag"))
	assert.False(t, args.Bool("absent"))
	assert.Equal(t, []string{"a"}, args.StringList("labels"))
	assert.Nil(t, args.StringList("absent"))
	assert.True(t, args.Has("name"))
	assert.False(t, args.Has("absent"))
}
