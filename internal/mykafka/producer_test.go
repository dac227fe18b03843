package mykafka

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	msg, err := newMessage(TopicCartEvents, "abc", map[string]any{
		"type":   "cart_item_added",
		"cartId": "abc",
	})
	require.NoError(t, err)

	assert.Equal(t, TopicCartEvents, msg.Topic)
	assert.Equal(t, []byte("abc"), msg.Key)
	assert.False(t, msg.Time.IsZero())

	var event map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, "cart_item_added", event["type"])
}

func TestNewMessage_Unencodable(t *testing.T) {
	_, err := newMessage(TopicOrderEvents, "k", map[string]any{"bad": make(chan int)})
	require.Error(t, err)
}

func TestNewProducer_NoBrokers(t *testing.T) {
	_, err := NewProducer(nil)
	require.Error(t, err)
}

func TestNopProducer(t *testing.T) {
	var p NopProducer
	assert.NoError(t, p.PublishEvent(context.Background(), TopicOrderEvents, "k", struct{}{}))
	assert.NoError(t, p.Close())
}
