// Package pubsub shares invalidation signals between service instances over Redis.
//
// Every instance publishes its own mutations and listens for the others';
// a remote signal marks the same views stale locally.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/okian/weekplan/internal/domain/invalidation"
	"github.com/okian/weekplan/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const defaultChannel = "weekplan:invalidations"

// envelope is the wire form of a signal.
type envelope struct {
	Origin string              `json:"origin"`
	Signal invalidation.Signal `json:"signal"`
}

// Redis publishes signals and relays signals from other instances.
// It implements worker.Sink.
type Redis struct {
	client  *redis.Client
	channel string
	origin  string
	log     logger.Logger
}

// NewRedis connects to addr and verifies the connection.
func NewRedis(ctx context.Context, addr string, opts ...Option) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrConnect, addr, err)
	}
	return NewRedisWithClient(client, opts...), nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *redis.Client, opts ...Option) *Redis {
	r := &Redis{
		client:  client,
		channel: defaultChannel,
		origin:  uuid.NewString(),
		log:     logger.Get().Named("pubsub"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name implements worker.Sink.
func (r *Redis) Name() string { return "redis" }

// Origin returns the identifier this instance stamps on its messages.
func (r *Redis) Origin() string { return r.origin }

// Deliver publishes s on the channel.
func (r *Redis) Deliver(ctx context.Context, s invalidation.Signal) error {
	payload, err := json.Marshal(envelope{Origin: r.origin, Signal: s})
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, r.channel, payload).Err()
}

// Listen relays signals published by other instances to h until ctx ends.
// Messages from this instance are skipped.
func (r *Redis) Listen(ctx context.Context, h invalidation.Handler) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer func() { _ = sub.Close() }()

	// Wait for the subscription to be confirmed so no message is missed.
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("%w: subscribe %s: %w", ErrConnect, r.channel, err)
	}
	r.log.Info(ctx, "listening for remote invalidations", logger.String("channel", r.channel))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			env, err := decode(msg.Payload)
			if err != nil {
				r.log.Warn(ctx, "dropping invalidation message", logger.Error(err))
				continue
			}
			if env.Origin == r.origin {
				continue
			}
			h(ctx, env.Signal)
		}
	}
}

// Close releases the client.
func (r *Redis) Close() error {
	return r.client.Close()
}

func decode(payload string) (envelope, error) {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		return envelope{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if len(env.Signal.Views) == 0 {
		return envelope{}, fmt.Errorf("%w: no views", ErrDecode)
	}
	return env, nil
}
