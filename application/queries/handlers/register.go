package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/olafwrieden/azurechat-v3/application/ports"
	"github.com/olafwrieden/azurechat-v3/application/queries"
	querybus "github.com/olafwrieden/azurechat-v3/application/queries/bus"
)

// adapt turns a typed handler method into a querybus.QueryHandler
func adapt[Q querybus.Query, R any](handle func(context.Context, Q) (R, error)) querybus.QueryHandler {
	return querybus.QueryHandlerFunc(func(ctx context.Context, query querybus.Query) (interface{}, error) {
		typed, ok := query.(Q)
		if !ok {
			return nil, fmt.Errorf("invalid query type %T", query)
		}
		return handle(ctx, typed)
	})
}

// Register wires every thread query handler into queryBus
func Register(queryBus *querybus.QueryBus, threads ports.ThreadService, logger *zap.Logger) error {
	if err := queryBus.Register(queries.ListThreadsQuery{}, adapt(NewListThreadsHandler(threads, logger).Handle)); err != nil {
		return err
	}
	return queryBus.Register(queries.GetThreadQuery{}, adapt(NewGetThreadHandler(threads, logger).Handle))
}
