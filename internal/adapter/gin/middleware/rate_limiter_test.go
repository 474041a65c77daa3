package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func setupRateLimitedRouter(t *testing.T, client *redis.Client, cfg RateLimiterConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimiter(client, cfg, zaptest.NewLogger(t)))
	r.GET("/api/users", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doGet(r *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_BlocksWhenBucketEmpty(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	r := setupRateLimitedRouter(t, client, RateLimiterConfig{
		Enabled:           true,
		RequestsPerSecond: 1,
		BurstCapacity:     2,
	})

	require.Equal(t, http.StatusOK, doGet(r, "10.0.0.1").Code)
	require.Equal(t, http.StatusOK, doGet(r, "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, doGet(r, "10.0.0.1").Code)
}

func TestRateLimiter_BucketsPerClientIP(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	r := setupRateLimitedRouter(t, client, RateLimiterConfig{
		Enabled:           true,
		RequestsPerSecond: 1,
		BurstCapacity:     1,
	})

	require.Equal(t, http.StatusOK, doGet(r, "10.0.0.1").Code)
	require.Equal(t, http.StatusTooManyRequests, doGet(r, "10.0.0.1").Code)

	// A different client still has a full bucket.
	assert.Equal(t, http.StatusOK, doGet(r, "10.0.0.2").Code)
}

func TestRateLimiter_RefillsOverTime(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	r := setupRateLimitedRouter(t, client, RateLimiterConfig{
		Enabled:           true,
		RequestsPerSecond: 1,
		BurstCapacity:     1,
	})

	require.Equal(t, http.StatusOK, doGet(r, "10.0.0.1").Code)
	require.Equal(t, http.StatusTooManyRequests, doGet(r, "10.0.0.1").Code)

	// Rewind the bucket's refill timestamp so elapsed time restores a token.
	key := "ratelimit:tb:GET:/api/users:10.0.0.1"
	mr.HSet(key, "last_refill", "0")

	assert.Equal(t, http.StatusOK, doGet(r, "10.0.0.1").Code)
}

func TestRateLimiter_DisabledPassesThrough(t *testing.T) {
	r := setupRateLimitedRouter(t, nil, RateLimiterConfig{Enabled: false})

	for range 5 {
		assert.Equal(t, http.StatusOK, doGet(r, "10.0.0.1").Code)
	}
}

func TestRateLimiter_FailsOpenWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	r := setupRateLimitedRouter(t, client, RateLimiterConfig{
		Enabled:           true,
		RequestsPerSecond: 1,
		BurstCapacity:     1,
	})

	mr.Close()

	assert.Equal(t, http.StatusOK, doGet(r, "10.0.0.1").Code)
}
