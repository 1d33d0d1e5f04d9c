package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultChangeChannel is the Redis pub/sub channel catalog writers publish
// to after modifying parts or synonyms
const DefaultChangeChannel = "partsearch:catalog-changed"

// ChangeSignal listens for catalog-change notifications over Redis pub/sub
// and triggers a snapshot refresh when one arrives. It is optional: without
// Redis the holder still refreshes on its TTL, change signals just tighten
// the window between a catalog write and it becoming searchable.
type ChangeSignal struct {
	client  *redis.Client
	channel string
	holder  *Holder
	log     zerolog.Logger
}

// NewChangeSignal connects to Redis and verifies the connection with a ping
func NewChangeSignal(addr, password string, db int, channel string, holder *Holder, log zerolog.Logger) (*ChangeSignal, error) {
	if channel == "" {
		channel = DefaultChangeChannel
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &ChangeSignal{
		client:  client,
		channel: channel,
		holder:  holder,
		log:     log.With().Str("component", "change-signal").Logger(),
	}, nil
}

// Watch subscribes to the change channel and refreshes the snapshot on every
// message. Blocks until the context is canceled.
func (c *ChangeSignal) Watch(ctx context.Context) error {
	sub := c.client.Subscribe(ctx, c.channel)
	defer func() { _ = sub.Close() }()

	// Confirm the subscription before entering the receive loop
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", c.channel, err)
	}

	ch := sub.Channel()
	c.log.Info().Str("channel", c.channel).Msg("watching for catalog changes")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			c.log.Debug().Str("payload", msg.Payload).Msg("catalog change signal received")
			if err := c.holder.Refresh(ctx); err != nil {
				c.log.Warn().Err(err).Msg("signal-triggered refresh failed")
			}
		}
	}
}

// Publish notifies other instances that the catalog changed. Admin tooling
// calls this after a write.
func (c *ChangeSignal) Publish(ctx context.Context, reason string) error {
	if err := c.client.Publish(ctx, c.channel, reason).Err(); err != nil {
		return fmt.Errorf("failed to publish catalog change: %w", err)
	}
	return nil
}

// Close releases the Redis connection
func (c *ChangeSignal) Close() error {
	return c.client.Close()
}
