package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/olafwrieden/azurechat-v3/application/commands"
	"github.com/olafwrieden/azurechat-v3/application/commands/bus"
	"github.com/olafwrieden/azurechat-v3/application/ports"
	"github.com/olafwrieden/azurechat-v3/pkg/observability"
)

// adapt turns a typed handler method into a bus.CommandHandler
func adapt[C bus.Command, R any](handle func(context.Context, C) (R, error)) bus.CommandHandler {
	return bus.CommandHandlerFunc(func(ctx context.Context, cmd bus.Command) (interface{}, error) {
		typed, ok := cmd.(C)
		if !ok {
			return nil, fmt.Errorf("invalid command type %T", cmd)
		}
		return handle(ctx, typed)
	})
}

// Register wires every thread command handler into commandBus
func Register(
	commandBus *bus.CommandBus,
	threads ports.ThreadService,
	publisher ports.EventPublisher,
	metrics *observability.Collector,
	logger *zap.Logger,
) error {
	registrations := []struct {
		cmd     bus.Command
		handler bus.CommandHandler
	}{
		{commands.CreateThreadCommand{}, adapt(NewCreateThreadHandler(threads, publisher, metrics, logger).Handle)},
		{commands.ToggleBookmarkCommand{}, adapt(NewToggleBookmarkHandler(threads, publisher, metrics, logger).Handle)},
		{commands.RenameThreadCommand{}, adapt(NewRenameThreadHandler(threads, publisher, metrics, logger).Handle)},
		{commands.DeleteThreadCommand{}, adapt(NewDeleteThreadHandler(threads, publisher, metrics, logger).Handle)},
	}

	for _, r := range registrations {
		if err := commandBus.Register(r.cmd, r.handler); err != nil {
			return err
		}
	}
	return nil
}
