package eventbus

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/storefront/pkg/logger"
)

func TestPublishDeliversToSubscriber(t *testing.T) {
	b := New()
	var got []Message
	require.NoError(t, b.Subscribe("cart.item.added", func(m Message) { got = append(got, m) }))

	ctx := logger.ContextWithIDs(context.Background(), "req-9", "", "")
	require.NoError(t, b.Publish(ctx, "cart.item.added", "s1", map[string]int{"quantity": 1}))
	require.NoError(t, b.Publish(ctx, "cart.item.removed", "s1", nil))

	require.Len(t, got, 1)
	assert.Equal(t, "cart.item.added", got[0].Topic)
	assert.Equal(t, "s1", got[0].Key)
	assert.Equal(t, "req-9", got[0].RequestID)
	assert.False(t, got[0].At.IsZero())
}

func TestPublishEmptyTopic(t *testing.T) {
	assert.Error(t, New().Publish(context.Background(), "", "k", nil))
}

func TestSubscribeAll(t *testing.T) {
	b := New()
	seen := map[string]int{}
	require.NoError(t, b.SubscribeAll([]string{"a", "b"}, func(m Message) { seen[m.Topic]++ }))

	assert.True(t, b.HasSubscribers("a"))
	assert.False(t, b.HasSubscribers("c"))

	_ = b.Publish(context.Background(), "a", "", nil)
	_ = b.Publish(context.Background(), "b", "", nil)
	_ = b.Publish(context.Background(), "b", "", nil)
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, seen)
}

func TestSubscribeAsyncWait(t *testing.T) {
	b := New()
	var mu sync.Mutex
	count := 0
	require.NoError(t, b.SubscribeAsync("x", func(Message) {
		mu.Lock()
		count++
		mu.Unlock()
	}))

	for i := 0; i < 5; i++ {
		require.NoError(t, b.Publish(context.Background(), "x", "", i))
	}
	b.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 5, count)
}

type countingRecorder struct {
	mu     sync.Mutex
	topics map[string]int
}

func (c *countingRecorder) RecordEvent(topic string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.topics[topic]++
}

func TestAudit(t *testing.T) {
	b := New()
	rec := &countingRecorder{topics: map[string]int{}}
	require.NoError(t, b.Audit([]string{"product.created", "coupon.created"}, rec))
	assert.True(t, b.HasSubscribers("product.created"))

	_ = b.Publish(context.Background(), "product.created", "p1", nil)
	_ = b.Publish(context.Background(), "coupon.created", "C1", nil)
	_ = b.Publish(context.Background(), "coupon.created", "C2", nil)
	_ = b.Publish(context.Background(), "other", "", nil)
	b.Wait()

	assert.Equal(t, map[string]int{"product.created": 1, "coupon.created": 2}, rec.topics)
}

func TestPublishWithoutSubscribersIsDropped(t *testing.T) {
	var buf bytes.Buffer
	prev := logger.Get()
	logger.SetDefault(logger.New(&buf, logger.Config{Level: "debug", Format: "text"}))
	t.Cleanup(func() { logger.SetDefault(prev) })

	b := New()
	require.NoError(t, b.Publish(context.Background(), "cart.cleared", "s1", nil))
	assert.Contains(t, buf.String(), "no subscribers")
	assert.NotContains(t, buf.String(), "domain event published")
}
