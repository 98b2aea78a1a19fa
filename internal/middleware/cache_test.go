package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tickettrade/resale-market/internal/config"
)

func cacheTestConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:     true,
		Methods:     map[string]bool{"GET": true},
		TTL:         30 * time.Second,
		KeyStrategy: "route_query",
		Prefix:      "resale:cache",
	}
}

// keyFor reproduces the middleware's cache key for a routed request.
func keyFor(cfg config.CacheConfig, method, path, query string) string {
	req := httptest.NewRequest(method, path+"?"+query, nil)
	c := echo.New().NewContext(req, httptest.NewRecorder())
	c.SetPath(path)
	return cacheKey(cfg, c)
}

func TestResponseCacheMiss(t *testing.T) {
	cfg := cacheTestConfig()
	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet(keyFor(cfg, http.MethodGet, "/api/concerts", "query=iu")).RedisNil()

	calls := 0
	e := echo.New()
	e.GET("/api/concerts", func(c echo.Context) error {
		calls++
		return c.String(http.StatusOK, "fresh")
	}, ResponseCache(cfg, rdb))

	req := httptest.NewRequest(http.MethodGet, "/api/concerts?query=iu", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fresh", rec.Body.String())
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, 1, calls)
}

func TestResponseCacheHit(t *testing.T) {
	cfg := cacheTestConfig()
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	payload, err := encodePayload(http.StatusOK, hdr, []byte(`{"cached":true}`))
	require.NoError(t, err)

	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet(keyFor(cfg, http.MethodGet, "/api/concerts", "query=iu")).SetVal(string(payload))

	calls := 0
	e := echo.New()
	e.GET("/api/concerts", func(c echo.Context) error {
		calls++
		return c.String(http.StatusOK, "fresh")
	}, ResponseCache(cfg, rdb))

	req := httptest.NewRequest(http.MethodGet, "/api/concerts?query=iu", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"cached":true}`, rec.Body.String())
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, 0, calls, "handler skipped on a hit")
}

func TestResponseCacheStoresWithinBodyCap(t *testing.T) {
	cfg := cacheTestConfig()
	cfg.MaxBodyBytes = 64
	key := keyFor(cfg, http.MethodGet, "/api/concerts", "")

	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet(key).RedisNil()
	mock.Regexp().ExpectSetEx(key, `(?s).*`, cfg.TTL).SetVal("OK")

	e := echo.New()
	e.GET("/api/concerts", func(c echo.Context) error {
		return c.String(http.StatusOK, "small")
	}, ResponseCache(cfg, rdb))

	req := httptest.NewRequest(http.MethodGet, "/api/concerts", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "small", rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResponseCacheSkipsOversizeResponses(t *testing.T) {
	cfg := cacheTestConfig()
	cfg.MaxBodyBytes = 4
	key := keyFor(cfg, http.MethodGet, "/api/concerts", "")

	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet(key).RedisNil()
	mock.Regexp().ExpectSetEx(key, `(?s).*`, cfg.TTL).SetVal("OK")

	e := echo.New()
	e.GET("/api/concerts", func(c echo.Context) error {
		return c.String(http.StatusOK, "0123456789")
	}, ResponseCache(cfg, rdb))

	req := httptest.NewRequest(http.MethodGet, "/api/concerts", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	// The client still gets the whole body, but the SetEx expectation
	// stays unmet: an over-cap response is never stored.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0123456789", rec.Body.String())
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Error(t, mock.ExpectationsWereMet())
}

func TestResponseCacheDisabledWithoutRedis(t *testing.T) {
	e := echo.New()
	e.GET("/api/concerts", func(c echo.Context) error {
		return c.String(http.StatusOK, "fresh")
	}, ResponseCache(cacheTestConfig(), nil))

	req := httptest.NewRequest(http.MethodGet, "/api/concerts", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestResponseCacheSkipsUncachedMethods(t *testing.T) {
	rdb, _ := redismock.NewClientMock()
	e := echo.New()
	e.POST("/api/concerts", func(c echo.Context) error {
		return c.String(http.StatusCreated, "made")
	}, ResponseCache(cacheTestConfig(), rdb))

	req := httptest.NewRequest(http.MethodPost, "/api/concerts", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	// No Redis expectation was set: a POST never touches the cache.
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}, "X-Total": []string{"3"}}
	payload, err := encodePayload(http.StatusOK, hdr, []byte("body-bytes"))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, gotHdr)
	assert.Equal(t, "body-bytes", string(body))
}

func TestDecodePayloadRejectsTruncated(t *testing.T) {
	for _, bs := range [][]byte{nil, {1, 2, 3}, make([]byte, 8)} {
		_, _, _, ok := decodePayload(bs)
		if len(bs) == 8 {
			// Zero header length and empty body is still well-formed.
			assert.True(t, ok)
			continue
		}
		assert.False(t, ok)
	}
}

func TestCacheKeyStrategies(t *testing.T) {
	cfg := cacheTestConfig()

	sameQuery := keyFor(cfg, http.MethodGet, "/api/concerts", "query=iu")
	assert.Equal(t, sameQuery, keyFor(cfg, http.MethodGet, "/api/concerts", "query=iu"), "key is stable")
	assert.NotEqual(t, sameQuery, keyFor(cfg, http.MethodGet, "/api/concerts", "query=bts"), "query changes the key")

	cfg.KeyStrategy = "route"
	assert.Equal(t,
		keyFor(cfg, http.MethodGet, "/api/concerts", "query=iu"),
		keyFor(cfg, http.MethodGet, "/api/concerts", "query=bts"),
		"route strategy ignores the query")
}
