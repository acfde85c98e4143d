package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type pingCommand struct {
	Name string
}

func (c pingCommand) Validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

type countingCache struct {
	clears int
}

func (c *countingCache) Clear(ctx context.Context) error {
	c.clears++
	return nil
}

func TestCommandBus_Send(t *testing.T) {
	b := NewCommandBus()
	require.NoError(t, b.Register(pingCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) {
		return "pong " + cmd.(pingCommand).Name, nil
	})))

	result, err := b.Send(context.Background(), pingCommand{Name: "a"})
	require.NoError(t, err)
	assert.Equal(t, "pong a", result)
}

func TestCommandBus_RegisterTwice(t *testing.T) {
	b := NewCommandBus()
	h := CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) { return nil, nil })

	require.NoError(t, b.Register(pingCommand{}, h))
	assert.Error(t, b.Register(pingCommand{}, h))
}

func TestCommandBus_ValidationRunsBeforeHandler(t *testing.T) {
	called := false
	b := NewCommandBus()
	require.NoError(t, b.Register(pingCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) {
		called = true
		return nil, nil
	})))

	_, err := b.Send(context.Background(), pingCommand{})
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.False(t, called)
}

func TestCommandBus_UnknownCommand(t *testing.T) {
	_, err := NewCommandBus().Send(context.Background(), pingCommand{Name: "a"})
	assert.ErrorIs(t, err, ErrHandlerNotFound)
}

func TestCommandBus_HandlerErrorPassesThrough(t *testing.T) {
	sentinel := errors.New("remote failed")
	b := NewCommandBus(LoggingMiddleware(zap.NewNop()))
	require.NoError(t, b.Register(pingCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) {
		return nil, sentinel
	})))

	_, err := b.Send(context.Background(), pingCommand{Name: "a"})
	assert.Same(t, sentinel, err)
}

func TestInvalidationMiddleware(t *testing.T) {
	cache := &countingCache{}
	fail := false
	b := NewCommandBus(InvalidationMiddleware(cache, zap.NewNop()))
	require.NoError(t, b.Register(pingCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return "ok", nil
	})))

	_, err := b.Send(context.Background(), pingCommand{Name: "a"})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.clears)

	fail = true
	_, err = b.Send(context.Background(), pingCommand{Name: "a"})
	require.Error(t, err)
	assert.Equal(t, 1, cache.clears)
}

func TestPipeline_Order(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next CommandHandler) CommandHandler {
			return CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) {
				order = append(order, name)
				return next.Handle(ctx, cmd)
			})
		}
	}

	h := NewPipeline(mw("outer"), mw("inner")).Execute(CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) {
		order = append(order, "handler")
		return nil, nil
	}))
	_, _ = h.Handle(context.Background(), pingCommand{Name: "a"})

	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestCommandName(t *testing.T) {
	assert.Equal(t, "pingCommand", CommandName(pingCommand{}))
	assert.Equal(t, "pingCommand", CommandName(&pingCommand{}))
}
