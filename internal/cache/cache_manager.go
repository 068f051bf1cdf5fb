package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/classpoint/classroom-service/internal/models"
)

const (
	assessmentTTL = 5 * time.Minute
	channelTTL    = 2 * time.Minute
)

// CacheManager wraps typed cache access for the repository layer. A nil redis
// client degrades every operation to a miss or a no-op.
type CacheManager struct {
	client      *redis.Client
	assessments *CacheHelper
	channels    *CacheHelper
}

func NewCacheManager(client *redis.Client) *CacheManager {
	return &CacheManager{
		client:      client,
		assessments: NewCacheHelper(client, "assessment:"),
		channels:    NewCacheHelper(client, "channel:"),
	}
}

func (m *CacheManager) GetAssessment(ctx context.Context, id uint) (*models.Assessment, bool) {
	var assessment models.Assessment
	if err := m.assessments.Get(ctx, fmt.Sprint(id), &assessment); err != nil {
		return nil, false
	}
	return &assessment, true
}

func (m *CacheManager) SetAssessment(ctx context.Context, assessment *models.Assessment) {
	// Cache write failures are invisible to callers; the row is the source
	// of truth.
	_ = m.assessments.Set(ctx, fmt.Sprint(assessment.ID), assessment, assessmentTTL)
}

func (m *CacheManager) DeleteAssessment(ctx context.Context, id uint) {
	_ = m.assessments.Delete(ctx, fmt.Sprint(id))
}

func (m *CacheManager) GetChannel(ctx context.Context, id uint) (*models.Channel, bool) {
	var channel models.Channel
	if err := m.channels.Get(ctx, fmt.Sprint(id), &channel); err != nil {
		return nil, false
	}
	return &channel, true
}

func (m *CacheManager) SetChannel(ctx context.Context, channel *models.Channel) {
	_ = m.channels.Set(ctx, fmt.Sprint(channel.ID), channel, channelTTL)
}

func (m *CacheManager) DeleteChannel(ctx context.Context, id uint) {
	_ = m.channels.Delete(ctx, fmt.Sprint(id))
	_ = m.channels.InvalidatePattern(ctx, fmt.Sprintf("%d:*", id))
}

func (m *CacheManager) HealthCheck(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	return m.client.Ping(ctx).Err()
}
