// Package ratelimit 提供按 key 划分的进程内令牌桶限流
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter defines the interface for rate limiting
type RateLimiter interface {
	// Allow checks if the request is allowed for the given key and limit
	Allow(ctx context.Context, key string, limit Limit) (*Result, error)
}

// Limit 限流规则：每 Period 允许 Rate 个请求，突发上限 Burst
type Limit struct {
	Rate   float64
	Period time.Duration
	Burst  int
}

func (l Limit) perSecond() rate.Limit {
	if l.Period <= 0 {
		return rate.Limit(l.Rate)
	}
	return rate.Limit(l.Rate / l.Period.Seconds())
}

// Result 一次限流检查的结果
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// DefaultIdleTTL 令牌桶闲置超过该时长且已回满时被回收
const DefaultIdleTTL = 10 * time.Minute

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalRateLimiter 基于 golang.org/x/time/rate 的内存限流器，每个 key 一个令牌桶
type LocalRateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewLocalRateLimiter 创建内存限流器，闲置令牌桶按 DefaultIdleTTL 回收
func NewLocalRateLimiter() *LocalRateLimiter {
	return &LocalRateLimiter{
		buckets: make(map[string]*bucket),
		idleTTL: DefaultIdleTTL,
		now:     time.Now,
	}
}

// Allow 检查请求是否允许通过，规则变化时重建该 key 的令牌桶
func (r *LocalRateLimiter) Allow(_ context.Context, key string, limit Limit) (*Result, error) {
	r.mu.Lock()
	now := r.now()
	r.sweep(now)
	b, ok := r.buckets[key]
	if !ok || b.limiter.Limit() != limit.perSecond() || b.limiter.Burst() != limit.Burst {
		b = &bucket{limiter: rate.NewLimiter(limit.perSecond(), limit.Burst)}
		r.buckets[key] = b
	}
	b.lastSeen = now
	l := b.limiter
	r.mu.Unlock()

	res := l.ReserveN(now, 1)
	if !res.OK() {
		return &Result{Allowed: false}, nil
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return &Result{Allowed: false, RetryAfter: delay}, nil
	}

	remaining := int(l.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return &Result{Allowed: true, Remaining: remaining}, nil
}

// Len 当前持有的令牌桶数量
func (r *LocalRateLimiter) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buckets)
}

// sweep 每个 idleTTL 周期最多扫描一次，只回收已回满的闲置令牌桶，
// 回满的令牌桶与新建的等价，回收不会放宽限流。调用方持有 r.mu
func (r *LocalRateLimiter) sweep(now time.Time) {
	if r.idleTTL <= 0 || now.Sub(r.lastSweep) < r.idleTTL {
		return
	}
	r.lastSweep = now
	for key, b := range r.buckets {
		if now.Sub(b.lastSeen) < r.idleTTL {
			continue
		}
		if b.limiter.TokensAt(now) >= float64(b.limiter.Burst()) {
			delete(r.buckets, key)
		}
	}
}
