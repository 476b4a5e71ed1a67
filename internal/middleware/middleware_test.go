package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/movielist/internal/config"
    "github.com/iliyamo/movielist/internal/utils"
)

func okHandler(c echo.Context) error { return c.String(http.StatusOK, "ok") }

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    return rec
}

func TestTokenBucketInMemoryFallback(t *testing.T) {
    cfg := config.RateLimitConfig{
        Enabled:        true,
        Capacity:       2,
        RefillTokens:   1,
        RefillInterval: time.Hour,
        TTL:            5 * time.Hour,
        KeyStrategy:    "ip",
        Prefix:         "rl",
    }
    e := echo.New()
    e.GET("/movies", okHandler, NewTokenBucket(cfg, nil))

    for i := 0; i < 2; i++ {
        rec := serve(e, httptest.NewRequest(http.MethodGet, "/movies", nil))
        require.Equal(t, http.StatusOK, rec.Code)
        assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
    }

    rec := serve(e, httptest.NewRequest(http.MethodGet, "/movies", nil))
    assert.Equal(t, http.StatusTooManyRequests, rec.Code)
    assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
    assert.NotEmpty(t, rec.Header().Get("Retry-After"))
    assert.Contains(t, rec.Body.String(), "too_many_requests")

    // a different client has its own bucket
    req := httptest.NewRequest(http.MethodGet, "/movies", nil)
    req.RemoteAddr = "10.1.2.3:4567"
    assert.Equal(t, http.StatusOK, serve(e, req).Code)
}

func TestMemoryBucketsEvictIdleKeys(t *testing.T) {
    m := newMemoryBuckets(config.RateLimitConfig{Capacity: 1, RefillTokens: 1, RefillInterval: time.Minute, TTL: time.Minute})
    now := time.Now()

    assert.True(t, m.take("a", now).allowed)
    assert.False(t, m.take("a", now).allowed)

    later := now.Add(2 * time.Minute)
    assert.True(t, m.take("b", later).allowed)
    assert.NotContains(t, m.buckets, "a")
}

func TestTokenBucketDisabledIsPassThrough(t *testing.T) {
    e := echo.New()
    e.GET("/movies", okHandler, NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil))

    rec := serve(e, httptest.NewRequest(http.MethodGet, "/movies", nil))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestBuildRateKeyStrategies(t *testing.T) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodDelete, "/movies/1", nil)
    req.RemoteAddr = "192.0.2.1:1234"
    c := e.NewContext(req, httptest.NewRecorder())
    c.SetPath("/movies/:id")

    assert.Equal(t, "rl:ip:192.0.2.1", buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}, c))
    assert.Equal(t, "rl:route:DELETE /movies/:id", buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "route"}, c))
    assert.Equal(t, "rl:ip:192.0.2.1:route:DELETE /movies/:id", buildRateKey(config.RateLimitConfig{Prefix: "rl"}, c))
}

func TestCacheKeyIncludesGenerationAndPath(t *testing.T) {
    cfg := config.CacheConfig{Prefix: "movies:cache", KeyStrategy: "route_query"}
    e := echo.New()

    ctxFor := func(target string) echo.Context {
        c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
        c.SetPath("/movies/:id")
        return c
    }

    k1 := cacheKeyFrom(cfg, ctxFor("/movies/1"), 0)
    k2 := cacheKeyFrom(cfg, ctxFor("/movies/2"), 0)
    k1next := cacheKeyFrom(cfg, ctxFor("/movies/1"), 1)

    assert.NotEqual(t, k1, k2)
    assert.NotEqual(t, k1, k1next)
    assert.Contains(t, k1, "movies:cache:g0:")
    assert.Contains(t, k1next, "movies:cache:g1:")
}

func TestPayloadRoundTrip(t *testing.T) {
    hdr := http.Header{"Content-Type": []string{"application/json"}}
    bs, err := encodePayload(http.StatusOK, hdr, []byte(`[{"id":1}]`))
    require.NoError(t, err)

    status, gotHdr, body, ok := decodePayload(bs)
    require.True(t, ok)
    assert.Equal(t, http.StatusOK, status)
    assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
    assert.Equal(t, `[{"id":1}]`, string(body))

    _, _, _, ok = decodePayload([]byte{0, 0})
    assert.False(t, ok)
}

func TestCacheDisabledIsPassThrough(t *testing.T) {
    e := echo.New()
    e.GET("/movies", okHandler, NewRedisCache(config.CacheConfig{Enabled: true}, nil))
    e.POST("/movies", okHandler, InvalidateCache(config.CacheConfig{Enabled: true}, nil))

    rec := serve(e, httptest.NewRequest(http.MethodGet, "/movies", nil))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Empty(t, rec.Header().Get("X-Cache"))
    assert.Equal(t, http.StatusOK, serve(e, httptest.NewRequest(http.MethodPost, "/movies", nil)).Code)
}

func TestJWTAuthAndRequireRole(t *testing.T) {
    const secret = "s3cret"
    e := echo.New()
    e.POST("/movies", okHandler, JWTAuth(secret), RequireRole("ADMIN"))

    withToken := func(token string) *http.Request {
        req := httptest.NewRequest(http.MethodPost, "/movies", nil)
        if token != "" {
            req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
        }
        return req
    }

    admin, err := utils.NewAccessToken(secret, "admin", "ADMIN", 5)
    require.NoError(t, err)
    viewer, err := utils.NewAccessToken(secret, "bob", "VIEWER", 5)
    require.NoError(t, err)
    foreign, err := utils.NewAccessToken("other", "admin", "ADMIN", 5)
    require.NoError(t, err)
    noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "admin", "role": "ADMIN"}).SignedString([]byte(secret))
    require.NoError(t, err)

    testCases := []struct {
        name   string
        token  string
        status int
    }{
        {name: "missing token", token: "", status: http.StatusUnauthorized},
        {name: "wrong secret", token: foreign.Token, status: http.StatusUnauthorized},
        {name: "no expiry", token: noExp, status: http.StatusUnauthorized},
        {name: "wrong role", token: viewer.Token, status: http.StatusForbidden},
        {name: "admin", token: admin.Token, status: http.StatusOK},
    }

    for _, tc := range testCases {
        t.Run(tc.name, func(t *testing.T) {
            assert.Equal(t, tc.status, serve(e, withToken(tc.token)).Code)
        })
    }
}
