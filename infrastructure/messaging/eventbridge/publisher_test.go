package eventbridge

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/olafwrieden/azurechat-v3/domain/events"
)

type fakeAPI struct {
	input  *eventbridge.PutEventsInput
	output *eventbridge.PutEventsOutput
	err    error
}

func (f *fakeAPI) PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	f.input = params
	if f.output == nil {
		f.output = &eventbridge.PutEventsOutput{}
	}
	return f.output, f.err
}

func TestPublisher_Publish(t *testing.T) {
	api := &fakeAPI{}
	p := NewPublisher(api, "threads-bus", zap.NewNop())

	event := events.NewThreadBookmarkToggled("thread_1", true, time.Now())
	require.NoError(t, p.Publish(context.Background(), event))

	require.Len(t, api.input.Entries, 1)
	entry := api.input.Entries[0]
	assert.Equal(t, "threads-bus", aws.ToString(entry.EventBusName))
	assert.Equal(t, events.SourceThreads, aws.ToString(entry.Source))
	assert.Equal(t, events.TypeThreadBookmarked, aws.ToString(entry.DetailType))

	var detail map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(entry.Detail)), &detail))
	assert.Equal(t, "thread_1", detail["aggregate_id"])
}

func TestPublisher_PublishFailures(t *testing.T) {
	event := events.NewThreadDeleted("thread_1", time.Now())

	t.Run("client error", func(t *testing.T) {
		p := NewPublisher(&fakeAPI{err: errors.New("throttled")}, "bus", zap.NewNop())
		assert.Error(t, p.Publish(context.Background(), event))
	})

	t.Run("rejected entry", func(t *testing.T) {
		api := &fakeAPI{output: &eventbridge.PutEventsOutput{
			FailedEntryCount: 1,
			Entries: []types.PutEventsResultEntry{{
				ErrorCode:    aws.String("InternalFailure"),
				ErrorMessage: aws.String("try again"),
			}},
		}}
		p := NewPublisher(api, "bus", zap.NewNop())
		err := p.Publish(context.Background(), event)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "InternalFailure")
	})
}
