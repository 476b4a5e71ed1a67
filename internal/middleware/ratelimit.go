package middleware

import (
    "fmt"
    "math"
    "net/http"
    "strconv"
    "strings"
    "sync"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "golang.org/x/time/rate"

    "github.com/iliyamo/movielist/internal/config"
)

var limiterScript = redis.NewScript(`
    local key = KEYS[1]
    local now_ms = tonumber(ARGV[1])
    local capacity = tonumber(ARGV[2])
    local refill_tokens = tonumber(ARGV[3])
    local interval_ms = tonumber(ARGV[4])
    local ttl_seconds = tonumber(ARGV[5])

    local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
    local tokens = tonumber(state[1])
    local last_refill = tonumber(state[2])

    if tokens == nil or last_refill == nil then
        tokens = capacity
        last_refill = now_ms
    end

    if interval_ms > 0 and refill_tokens > 0 then
        local elapsed = math.max(0, now_ms - last_refill)
        local intervals = math.floor(elapsed / interval_ms)
        if intervals > 0 then
            tokens = math.min(capacity, tokens + (intervals * refill_tokens))
            last_refill = last_refill + (intervals * interval_ms)
        end
    end

    local allowed = 0
    local retry_after_ms = 0
    if tokens > 0 then
        allowed = 1
        tokens = tokens - 1
    else
        local until_next = interval_ms - (now_ms - last_refill)
        if until_next < 0 then until_next = 0 end
        retry_after_ms = until_next
    end

    redis.call('HMSET', key, 'tokens', tokens, 'last_refill_ms', last_refill, 'capacity', capacity)
    redis.call('EXPIRE', key, ttl_seconds)

    return { allowed, tokens, retry_after_ms }
`)

// bucketDecision is the outcome of taking one token.
type bucketDecision struct {
    allowed   bool
    remaining int64
    retry     time.Duration
}

// NewTokenBucket limits requests per key.  With Redis the bucket is shared
// by every instance through a Lua script; without it each process keeps its
// own golang.org/x/time/rate limiters with the same capacity and refill.
// Redis errors let the request through.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled {
        return passThrough
    }

    var take func(c echo.Context, key string) (bucketDecision, bool)
    if rdb != nil {
        take = func(c echo.Context, key string) (bucketDecision, bool) {
            return takeRedis(c, cfg, rdb, key)
        }
    } else {
        mem := newMemoryBuckets(cfg)
        take = func(_ echo.Context, key string) (bucketDecision, bool) {
            return mem.take(key, time.Now()), true
        }
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            key := buildRateKey(cfg, c)
            d, ok := take(c, key)
            if !ok {
                return next(c)
            }

            c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
            c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(d.remaining, 10))

            if !d.allowed {
                secs := int(math.Ceil(d.retry.Seconds()))
                if secs < 0 { secs = 0 }
                c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
                if cfg.Debug {
                    c.Logger().Infof("[ratelimit] block key=%s remaining=%d retry=%s", key, d.remaining, d.retry)
                }
                return c.JSON(http.StatusTooManyRequests, echo.Map{
                    "error":       "too_many_requests",
                    "message":     "rate limit exceeded",
                    "retry_after": secs,
                })
            }

            if cfg.Debug {
                c.Response().Header().Set("X-RateLimit-Key", key)
            }
            return next(c)
        }
    }
}

func takeRedis(c echo.Context, cfg config.RateLimitConfig, rdb *redis.Client, key string) (bucketDecision, bool) {
    args := []interface{}{
        time.Now().UnixMilli(),
        cfg.Capacity,
        cfg.RefillTokens,
        cfg.RefillInterval.Milliseconds(),
        int64(cfg.TTL / time.Second),
    }
    vals, err := limiterScript.Run(c.Request().Context(), rdb, []string{key}, args...).Result()
    if err != nil {
        if cfg.Debug {
            c.Logger().Warnf("[ratelimit] redis error for key=%s: %v", key, err)
        }
        return bucketDecision{}, false
    }
    arr, ok := vals.([]interface{})
    if !ok || len(arr) != 3 {
        if cfg.Debug {
            c.Logger().Warnf("[ratelimit] unexpected script result for key=%s: %#v", key, vals)
        }
        return bucketDecision{}, false
    }
    return bucketDecision{
        allowed:   fmt.Sprint(arr[0]) == "1",
        remaining: asInt64(arr[1]),
        retry:     time.Duration(asInt64(arr[2])) * time.Millisecond,
    }, true
}

func asInt64(v interface{}) int64 {
    switch t := v.(type) {
    case int64: return t
    case int32: return int64(t)
    case int: return int64(t)
    case float64: return int64(t)
    case string:
        if n, err := strconv.ParseInt(t, 10, 64); err == nil { return n }
    }
    return 0
}

func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
    parts := []string{cfg.Prefix}
    ip := c.RealIP()
    if ip == "" { ip = "unknown" }
    route := c.Request().Method + " " + c.Path()

    switch strings.ToLower(cfg.KeyStrategy) {
    case "ip":
        parts = append(parts, "ip", ip)
    case "route":
        parts = append(parts, "route", route)
    default: // "ip_route"
        parts = append(parts, "ip", ip, "route", route)
    }
    return strings.Join(parts, ":")
}

// memoryBuckets is the in-process fallback: one rate.Limiter per key,
// evicted after TTL of inactivity.
type memoryBuckets struct {
    mu        sync.Mutex
    limit     rate.Limit
    burst     int
    ttl       time.Duration
    lastSweep time.Time
    buckets   map[string]*memoryBucket
}

type memoryBucket struct {
    lim      *rate.Limiter
    lastSeen time.Time
}

func newMemoryBuckets(cfg config.RateLimitConfig) *memoryBuckets {
    every := cfg.RefillInterval / time.Duration(cfg.RefillTokens)
    return &memoryBuckets{
        limit:   rate.Every(every),
        burst:   cfg.Capacity,
        ttl:     cfg.TTL,
        buckets: make(map[string]*memoryBucket),
    }
}

func (m *memoryBuckets) take(key string, now time.Time) bucketDecision {
    m.mu.Lock()
    defer m.mu.Unlock()

    if now.Sub(m.lastSweep) > m.ttl {
        for k, b := range m.buckets {
            if now.Sub(b.lastSeen) > m.ttl {
                delete(m.buckets, k)
            }
        }
        m.lastSweep = now
    }

    b, ok := m.buckets[key]
    if !ok {
        b = &memoryBucket{lim: rate.NewLimiter(m.limit, m.burst)}
        m.buckets[key] = b
    }
    b.lastSeen = now

    r := b.lim.ReserveN(now, 1)
    if delay := r.DelayFrom(now); delay > 0 {
        r.CancelAt(now)
        return bucketDecision{allowed: false, remaining: 0, retry: delay}
    }
    remaining := int64(b.lim.TokensAt(now))
    if remaining < 0 { remaining = 0 }
    return bucketDecision{allowed: true, remaining: remaining}
}
