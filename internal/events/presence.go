package events

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/classpoint/classroom-service/internal/models"
)

const (
	presenceKeyPrefix = "presence:user:"

	// PresenceTTL bounds how stale an online flag can get: a client that
	// stops heartbeating falls offline on expiry, and a service restart
	// starts from an empty presence set.
	PresenceTTL = 90 * time.Second
)

// PresenceTracker keeps the online set in Redis. All state is ephemeral; the
// database only stores the last known status for display after restarts.
type PresenceTracker struct {
	client *redis.Client
}

func NewPresenceTracker(client *redis.Client) *PresenceTracker {
	return &PresenceTracker{client: client}
}

// Enabled reports whether a Redis backend is configured. Without one,
// presence degrades to everyone-offline.
func (t *PresenceTracker) Enabled() bool {
	return t.client != nil
}

func (t *PresenceTracker) SetOnline(ctx context.Context, userID string) error {
	if t.client == nil {
		return nil
	}
	return t.client.Set(ctx, presenceKeyPrefix+userID, string(models.PresenceOnline), PresenceTTL).Err()
}

// Heartbeat extends the online window without rewriting the value.
func (t *PresenceTracker) Heartbeat(ctx context.Context, userID string) error {
	if t.client == nil {
		return nil
	}
	return t.client.Expire(ctx, presenceKeyPrefix+userID, PresenceTTL).Err()
}

func (t *PresenceTracker) SetOffline(ctx context.Context, userID string) error {
	if t.client == nil {
		return nil
	}
	return t.client.Del(ctx, presenceKeyPrefix+userID).Err()
}

func (t *PresenceTracker) IsOnline(ctx context.Context, userID string) (bool, error) {
	if t.client == nil {
		return false, nil
	}
	n, err := t.client.Exists(ctx, presenceKeyPrefix+userID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Statuses resolves presence for a batch of users in one pipeline round trip.
func (t *PresenceTracker) Statuses(ctx context.Context, userIDs []string) (map[string]models.PresenceStatus, error) {
	statuses := make(map[string]models.PresenceStatus, len(userIDs))
	for _, id := range userIDs {
		statuses[id] = models.PresenceOffline
	}
	if t.client == nil || len(userIDs) == 0 {
		return statuses, nil
	}

	pipe := t.client.Pipeline()
	cmds := make(map[string]*redis.IntCmd, len(userIDs))
	for _, id := range userIDs {
		cmds[id] = pipe.Exists(ctx, presenceKeyPrefix+id)
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, err
	}

	for id, cmd := range cmds {
		if cmd.Val() > 0 {
			statuses[id] = models.PresenceOnline
		}
	}
	return statuses, nil
}
