package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hiring-workers/internal/common/logger"
	"hiring-workers/internal/common/metrics"
	"hiring-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	keyPositions = "ref:positions"
	keySchools   = "ref:schools"
	keyMajors    = "ref:majors"
)

// CachedReference is a read-through redis cache in front of a ReferenceReader.
// Reference data is small, so whole lists are cached and single lookups are
// answered from them. Redis failures fall back to the underlying reader.
type CachedReference struct {
	next   ReferenceReader
	redis  redis.Cmdable
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedReference(next ReferenceReader, rdb redis.Cmdable, ttl time.Duration, log logger.Logger) *CachedReference {
	return &CachedReference{
		next:   next,
		redis:  rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "reference-cache"}),
	}
}

func (c *CachedReference) ListPositions(ctx context.Context) ([]models.Position, error) {
	var out []models.Position
	err := c.readThrough(ctx, keyPositions, &out, func() (interface{}, error) {
		return c.next.ListPositions(ctx)
	})
	return out, err
}

func (c *CachedReference) ListSchools(ctx context.Context) ([]models.School, error) {
	var out []models.School
	err := c.readThrough(ctx, keySchools, &out, func() (interface{}, error) {
		return c.next.ListSchools(ctx)
	})
	return out, err
}

func (c *CachedReference) ListMajors(ctx context.Context) ([]models.Major, error) {
	var out []models.Major
	err := c.readThrough(ctx, keyMajors, &out, func() (interface{}, error) {
		return c.next.ListMajors(ctx)
	})
	return out, err
}

func (c *CachedReference) GetPosition(ctx context.Context, id int64) (*models.Position, error) {
	positions, err := c.ListPositions(ctx)
	if err != nil {
		return nil, err
	}
	for i := range positions {
		if positions[i].ID == id {
			return &positions[i], nil
		}
	}
	// a position created after the list was cached
	return c.next.GetPosition(ctx, id)
}

func (c *CachedReference) GetSchool(ctx context.Context, id int64) (*models.School, error) {
	schools, err := c.ListSchools(ctx)
	if err != nil {
		return nil, err
	}
	for i := range schools {
		if schools[i].ID == id {
			return &schools[i], nil
		}
	}
	return nil, fmt.Errorf("%w: school %d", ErrNotFound, id)
}

func (c *CachedReference) SchoolExists(ctx context.Context, id int64) (bool, error) {
	schools, err := c.ListSchools(ctx)
	if err != nil {
		return false, err
	}
	for _, s := range schools {
		if s.ID == id {
			return true, nil
		}
	}
	return false, nil
}

// Invalidate drops every cached list; position writes call it.
func (c *CachedReference) Invalidate(ctx context.Context) error {
	return c.redis.Del(ctx, keyPositions, keySchools, keyMajors).Err()
}

func (c *CachedReference) readThrough(ctx context.Context, key string, dst interface{}, load func() (interface{}, error)) error {
	raw, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(raw, dst); jsonErr == nil {
			metrics.ReferenceCacheLookups.WithLabelValues("hit").Inc()
			return nil
		}
		metrics.ReferenceCacheLookups.WithLabelValues("corrupt").Inc()
	case err == redis.Nil:
		metrics.ReferenceCacheLookups.WithLabelValues("miss").Inc()
	default:
		metrics.ReferenceCacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("reference cache read failed", map[string]interface{}{"key": key, "error": err})
	}

	value, err := load()
	if err != nil {
		return err
	}
	body, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.redis.Set(ctx, key, body, c.ttl).Err(); err != nil {
		c.logger.Warn("reference cache write failed", map[string]interface{}{"key": key, "error": err})
	}
	return json.Unmarshal(body, dst)
}
