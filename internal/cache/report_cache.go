package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ibtsamraza/psychometric-analysis/internal/model"
)

// ReportCache is a read-through Redis cache for finished session reports
type ReportCache interface {
	Set(ctx context.Context, report *model.SessionReport) error
	Get(ctx context.Context, sessionID string) (*model.SessionReport, error)
	Delete(ctx context.Context, sessionID string) error
}

type reportCache struct {
	client *redis.Client
}

// NewReportCache creates a report cache
func NewReportCache(client *redis.Client) ReportCache {
	return &reportCache{
		client: client,
	}
}

func (c *reportCache) Set(ctx context.Context, report *model.SessionReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "report:"+report.SessionID, data, 24*time.Hour).Err()
}

func (c *reportCache) Get(ctx context.Context, sessionID string) (*model.SessionReport, error) {
	data, err := c.client.Get(ctx, "report:"+sessionID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var report model.SessionReport
	err = json.Unmarshal([]byte(data), &report)
	return &report, err
}

func (c *reportCache) Delete(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, "report:"+sessionID).Err()
}
