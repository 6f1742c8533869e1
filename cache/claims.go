package cache

import (
	"context"
	"fmt"
	"time"

	"MediCheck/util"

	"github.com/redis/go-redis/v9"
)

// ReminderClaims records which recipients already got a reminder for a
// slot on a given day, so a repeated or overlapping firing does not send twice.
type ReminderClaims struct {
	client *redis.Client
	ttl    time.Duration
}

func NewReminderClaims(client *redis.Client, ttl time.Duration) *ReminderClaims {
	return &ReminderClaims{client: client, ttl: ttl}
}

// NewRedisClient builds a client from a redis:// URL and checks connectivity.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func claimKey(slot, day, recipientKey string) string {
	return util.ReminderClaimKey + slot + ":" + day + ":" + recipientKey
}

// Claim returns true when the caller is the first to claim this reminder.
func (c *ReminderClaims) Claim(ctx context.Context, slot, day, recipientKey string) (bool, error) {
	ok, err := c.client.SetNX(ctx, claimKey(slot, day, recipientKey), time.Now().UTC().Format(time.RFC3339), c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim reminder: %w", err)
	}
	return ok, nil
}

// Release drops a claim so the reminder can be attempted again.
func (c *ReminderClaims) Release(ctx context.Context, slot, day, recipientKey string) error {
	if err := c.client.Del(ctx, claimKey(slot, day, recipientKey)).Err(); err != nil {
		return fmt.Errorf("release reminder claim: %w", err)
	}
	return nil
}

// NoClaims always grants the claim. Used when Redis is not configured.
type NoClaims struct{}

func (NoClaims) Claim(context.Context, string, string, string) (bool, error) { return true, nil }

func (NoClaims) Release(context.Context, string, string, string) error { return nil }
