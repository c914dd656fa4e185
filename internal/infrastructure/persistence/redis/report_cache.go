package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/competencias-hub/seguimiento/internal/domain/evidence"
	"github.com/competencias-hub/seguimiento/internal/domain/student"
	"github.com/competencias-hub/seguimiento/pkg/circuitbreaker"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPORT CACHE
// ══════════════════════════════════════════════════════════════════════════════

// ReportCache implements evidence.ReportCache on top of the shared Cache.
//
// Key layout:
//   - "report:{group}" for group-wide reports
//   - "report:{group}:{student}" for single-student reports
//
// Invalidation is by group prefix: any capture or deletion inside a group
// drops every report the group could have influenced.
//
// Every Redis call goes through a circuit breaker. When Redis is unreachable
// the breaker opens after a few failures and the callers fall through to the
// store immediately instead of waiting out the dial timeout on each request.
type ReportCache struct {
	cache   *Cache
	ttl     time.Duration
	breaker *circuitbreaker.CircuitBreaker
}

// NewReportCache creates a ReportCache with the given TTL.
// A non-positive TTL falls back to TTLReportCache.
func NewReportCache(cache *Cache, ttl time.Duration) *ReportCache {
	if ttl <= 0 {
		ttl = TTLReportCache
	}
	return &ReportCache{
		cache:   cache,
		ttl:     ttl,
		breaker: circuitbreaker.CacheBreaker(nil),
	}
}

// GetReport returns the cached report, or (nil, nil) on a miss.
// An open circuit behaves like a miss.
func (r *ReportCache) GetReport(ctx context.Context, group student.Group, name student.Name) (*evidence.Report, error) {
	var report evidence.Report
	found := false

	err := r.breaker.Execute(ctx, func(ctx context.Context) error {
		err := r.cache.Get(ctx, reportKey(group, name), &report)
		if errors.Is(err, ErrCacheMiss) {
			// A miss is a normal outcome, not a cache failure.
			return nil
		}
		if err == nil {
			found = true
		}
		return err
	})
	if err != nil {
		if errors.Is(err, circuitbreaker.ErrCircuitOpen) || errors.Is(err, circuitbreaker.ErrTooManyRequests) {
			return nil, nil
		}
		return nil, err
	}
	if !found {
		return nil, nil
	}

	return &report, nil
}

// SetReport stores the report under its (group, student) key.
func (r *ReportCache) SetReport(ctx context.Context, report *evidence.Report) error {
	if report == nil {
		return nil
	}
	return r.breaker.Execute(ctx, func(ctx context.Context) error {
		return r.cache.Set(ctx, reportKey(report.Group, report.Student), report, r.ttl)
	})
}

// InvalidateGroup drops every cached report of the group.
func (r *ReportCache) InvalidateGroup(ctx context.Context, group student.Group) error {
	return r.breaker.Execute(ctx, func(ctx context.Context) error {
		if err := r.cache.Delete(ctx, reportKey(group, "")); err != nil {
			return err
		}
		return r.cache.DeleteByPattern(ctx, reportKey(group, "")+":*")
	})
}

// InvalidateAll drops every cached report.
func (r *ReportCache) InvalidateAll(ctx context.Context) error {
	return r.breaker.Execute(ctx, func(ctx context.Context) error {
		return r.cache.DeleteByPattern(ctx, PrefixReport+"*")
	})
}

// reportKey builds the cache key for a (group, student) pair.
// An empty student name addresses the group-wide report.
func reportKey(group student.Group, name student.Name) string {
	if name == "" {
		return PrefixReport + group.String()
	}
	return fmt.Sprintf("%s%s:%s", PrefixReport, group, name)
}
