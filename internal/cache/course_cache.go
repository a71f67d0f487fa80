// Package cache keeps public course list pages in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/learnhub/backend/internal/models"
	"github.com/redis/go-redis/v9"
)

// Key patterns for the course list cache
const (
	// keyCourseListVersion is bumped on every course write; pages of older versions expire on their own.
	keyCourseListVersion = "learnhub:courses:list:version"
	keyCourseListPage    = "learnhub:courses:list:v%d:page:%d:count:%d"
)

// redisClient is the subset of *redis.Client the cache uses
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// CourseListCache caches course list pages keyed by a version counter
type CourseListCache struct {
	client redisClient
	ttl    time.Duration
}

// NewCourseListCache creates a new course list cache
func NewCourseListCache(client redisClient, ttl time.Duration) *CourseListCache {
	return &CourseListCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *CourseListCache) version(ctx context.Context) (int64, error) {
	version, err := c.client.Get(ctx, keyCourseListVersion).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read course list version: %w", err)
	}
	return version, nil
}

// GetCourseList returns a cached page and whether it was found
func (c *CourseListCache) GetCourseList(ctx context.Context, page, count int) ([]models.CourseListItem, bool, error) {
	version, err := c.version(ctx)
	if err != nil {
		return nil, false, err
	}

	data, err := c.client.Get(ctx, fmt.Sprintf(keyCourseListPage, version, page, count)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read course list page: %w", err)
	}

	var courses []models.CourseListItem
	if err := json.Unmarshal(data, &courses); err != nil {
		return nil, false, fmt.Errorf("failed to decode course list page: %w", err)
	}
	return courses, true, nil
}

// SetCourseList stores a page under the current version
func (c *CourseListCache) SetCourseList(ctx context.Context, page, count int, courses []models.CourseListItem) error {
	version, err := c.version(ctx)
	if err != nil {
		return err
	}

	data, err := json.Marshal(courses)
	if err != nil {
		return fmt.Errorf("failed to encode course list page: %w", err)
	}

	if err := c.client.Set(ctx, fmt.Sprintf(keyCourseListPage, version, page, count), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write course list page: %w", err)
	}
	return nil
}

// InvalidateCourseList makes every cached page stale
func (c *CourseListCache) InvalidateCourseList(ctx context.Context) error {
	if err := c.client.Incr(ctx, keyCourseListVersion).Err(); err != nil {
		return fmt.Errorf("failed to bump course list version: %w", err)
	}
	return nil
}

// NoopCourseListCache is used when Redis is not configured
type NoopCourseListCache struct{}

// GetCourseList always misses
func (NoopCourseListCache) GetCourseList(ctx context.Context, page, count int) ([]models.CourseListItem, bool, error) {
	return nil, false, nil
}

// SetCourseList does nothing
func (NoopCourseListCache) SetCourseList(ctx context.Context, page, count int, courses []models.CourseListItem) error {
	return nil
}

// InvalidateCourseList does nothing
func (NoopCourseListCache) InvalidateCourseList(ctx context.Context) error {
	return nil
}
