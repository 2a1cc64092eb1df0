package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReader hands out queued messages, then blocks until ctx is done.
type fakeReader struct {
	queue     []kafka.Message
	committed []int64
	commitErr error
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.queue) == 0 {
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := r.queue[0]
	r.queue = r.queue[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	if r.commitErr != nil {
		return r.commitErr
	}
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func eventMessage(t *testing.T, offset int64, ev BookingEvent) kafka.Message {
	data, err := json.Marshal(ev)
	require.NoError(t, err)
	return kafka.Message{Offset: offset, Value: data}
}

func newTestConsumer(r *fakeReader) (*Consumer, *test.Hook) {
	logger, hook := test.NewNullLogger()
	return &Consumer{reader: r, log: logger}, hook
}

func TestConsumer_Consume_CommitsAfterHandler(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := &fakeReader{queue: []kafka.Message{
		eventMessage(t, 1, BookingEvent{EventID: "e1", BookingID: 5}),
		{Offset: 2, Value: []byte("{not json")},
		eventMessage(t, 3, BookingEvent{EventID: "e3", BookingID: 6}),
	}}
	c, hook := newTestConsumer(r)

	var seen []int64
	err := c.Consume(ctx, func(_ context.Context, ev BookingEvent) error {
		seen = append(seen, ev.BookingID)
		if len(seen) == 2 {
			cancel()
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int64{5, 6}, seen)
	assert.Equal(t, []int64{1, 2, 3}, r.committed)
	found := false
	for _, e := range hook.AllEntries() {
		if e.Message == "skipping malformed event" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestConsumer_Consume_HandlerErrorLeavesOffset(t *testing.T) {
	r := &fakeReader{queue: []kafka.Message{eventMessage(t, 7, BookingEvent{EventID: "e7"})}}
	c, _ := newTestConsumer(r)

	err := c.Consume(context.Background(), func(context.Context, BookingEvent) error {
		return errors.New("smtp down")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "e7")
	assert.Empty(t, r.committed)
}

func TestConsumer_Consume_CommitError(t *testing.T) {
	r := &fakeReader{
		queue:     []kafka.Message{eventMessage(t, 1, BookingEvent{EventID: "e1"})},
		commitErr: errors.New("coordinator moved"),
	}
	c, _ := newTestConsumer(r)

	err := c.Consume(context.Background(), func(context.Context, BookingEvent) error { return nil })

	assert.ErrorContains(t, err, "commit offset 1")
}

func TestConsumer_Close_Nil(t *testing.T) {
	var c *Consumer
	assert.NoError(t, c.Close())
}
