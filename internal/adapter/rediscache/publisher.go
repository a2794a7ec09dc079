// Package rediscache pushes fresh predictions to Redis: a pub/sub channel for
// live subscribers and a per-zone key holding the latest prediction so the
// dashboard can render without a database round trip.
package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/floodforge/flood-risk-service/internal/domain"
)

// Publisher pushes predictions to a Redis channel and cache.
// It implements forecast.PredictionPublisher.
type Publisher struct {
	client  *redis.Client
	channel string
	ttl     time.Duration
	logger  *slog.Logger
}

// NewPublisher connects to Redis and verifies connectivity.
func NewPublisher(ctx context.Context, redisURL, channel string, ttl time.Duration, logger *slog.Logger) (*Publisher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("rediscache: parse url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("rediscache: ping: %w", err)
	}

	return &Publisher{client: client, channel: channel, ttl: ttl, logger: logger}, nil
}

// PublishPrediction publishes the prediction to the channel and refreshes the
// zone's latest-prediction key.
func (p *Publisher) PublishPrediction(ctx context.Context, prediction domain.Prediction) error {
	data, err := json.Marshal(prediction)
	if err != nil {
		return fmt.Errorf("rediscache: serialize prediction: %w", err)
	}

	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("rediscache: publish: %w", err)
	}

	if err := p.client.Set(ctx, latestKey(prediction.ZoneID), data, p.ttl).Err(); err != nil {
		return fmt.Errorf("rediscache: cache latest: %w", err)
	}

	return nil
}

func (p *Publisher) Close() error {
	return p.client.Close()
}

func latestKey(zoneID string) string {
	return "floodrisk:prediction:latest:" + zoneID
}
