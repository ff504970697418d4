// Package streaming fans event-log events out onto a Pulse stream so
// remote subscribers (dashboards, other services) can follow invocation
// activity without polling the in-process event log.
package streaming

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"goa.design/pulse/streaming"
	streamopts "goa.design/pulse/streaming/options"

	"toolhub/spec"
)

// Publisher publishes spec.Event values onto a named Pulse stream backed
// by Redis. It implements runtime.EventSink (Append) so it can sit behind
// (or alongside) the in-memory EventLog.
type Publisher struct {
	stream *streaming.Stream
}

// NewPublisher opens (creating if needed) the Pulse stream named
// streamName over redisClient.
func NewPublisher(redisClient *redis.Client, streamName string, maxLen int) (*Publisher, error) {
	var opts []streamopts.Stream
	if maxLen > 0 {
		opts = append(opts, streamopts.WithStreamMaxLen(maxLen))
	}
	s, err := streaming.NewStream(streamName, redisClient, opts...)
	if err != nil {
		return nil, fmt.Errorf("open pulse stream %q: %w", streamName, err)
	}
	return &Publisher{stream: s}, nil
}

// Append publishes ev to the stream, named after ev.Type, with the event
// JSON-encoded as the payload. Encoding and publish errors are discarded
// without logging — losing a fan-out copy must never fail the invocation
// that produced the event.
func (p *Publisher) Append(ev spec.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = p.stream.Add(context.Background(), string(ev.Type), payload)
}

// Close destroys the underlying Pulse stream, deleting it and its
// messages from Redis.
func (p *Publisher) Close(ctx context.Context) error {
	return p.stream.Destroy(ctx)
}
