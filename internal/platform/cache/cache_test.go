package cache

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestKey_NormalizesQueryOrder(t *testing.T) {
	a, _ := url.ParseQuery("a=1&b=2")
	b, _ := url.ParseQuery("b=2&a=1")

	assert.Equal(t, Key("/api/products", a), Key("/api/products", b))
	assert.Equal(t, "/api/products", Key("/api/products", nil))
	assert.NotEqual(t, Key("/api/products", a), Key("/api/products", nil))
}

func TestResponseCache_GetSet(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	c := newWithClock(5*time.Minute, clock)

	t.Run("Miss before set", func(t *testing.T) {
		_, _, ok := c.Get("/api/products")
		assert.False(t, ok)
	})

	t.Run("Hit within TTL", func(t *testing.T) {
		c.Set("/api/products", []byte(`{"products":[]}`), "application/json", 0)

		payload, contentType, ok := c.Get("/api/products")
		assert.True(t, ok)
		assert.Equal(t, `{"products":[]}`, string(payload))
		assert.Equal(t, "application/json", contentType)
	})

	t.Run("Expired entry is a miss but stays until swept", func(t *testing.T) {
		now = now.Add(5 * time.Minute) // exactly at expiry: strict
		_, _, ok := c.Get("/api/products")
		assert.False(t, ok)
		assert.Equal(t, 1, c.Len())

		assert.Equal(t, 1, c.Sweep())
		assert.Equal(t, 0, c.Len())
	})
}

func TestResponseCache_Invalidate(t *testing.T) {
	c := newWithClock(5*time.Minute, time.Now)
	c.Set("/api/products", []byte("a"), "application/json", 0)
	c.Set("/api/products?category=graafbakken", []byte("b"), "application/json", 0)
	c.Set("/api/categories", []byte("c"), "application/json", 0)

	removed := c.Invalidate("/api/products")

	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, c.Len())
	_, _, ok := c.Get("/api/categories")
	assert.True(t, ok)
}

func TestResponseCache_Flush(t *testing.T) {
	c := newWithClock(5*time.Minute, time.Now)
	c.Set("/a", []byte("a"), "text/plain", 0)
	c.Set("/b", []byte("b"), "text/plain", 0)

	c.Flush()

	assert.Equal(t, 0, c.Len())
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(c *ResponseCache, calls *int) *gin.Engine {
		router := gin.New()
		router.GET("/api/products", c.Middleware(0), func(ctx *gin.Context) {
			*calls++
			ctx.JSON(http.StatusOK, gin.H{"calls": *calls})
		})
		router.GET("/api/broken", c.Middleware(0), func(ctx *gin.Context) {
			*calls++
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "boom"})
		})
		router.POST("/api/products", c.Middleware(0), func(ctx *gin.Context) {
			*calls++
			ctx.JSON(http.StatusOK, gin.H{"calls": *calls})
		})
		return router
	}

	t.Run("Second read is served from cache", func(t *testing.T) {
		c := newWithClock(5*time.Minute, time.Now)
		calls := 0
		router := newRouter(c, &calls)

		first := httptest.NewRecorder()
		router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/products?width=600", nil))
		second := httptest.NewRecorder()
		router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/products?width=600", nil))

		assert.Equal(t, 1, calls)
		assert.Equal(t, first.Body.String(), second.Body.String())
		assert.Equal(t, http.StatusOK, second.Code)
	})

	t.Run("Different query strings cache separately", func(t *testing.T) {
		c := newWithClock(5*time.Minute, time.Now)
		calls := 0
		router := newRouter(c, &calls)

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/products?width=600", nil))
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/products?width=800", nil))

		assert.Equal(t, 2, calls)
	})

	t.Run("Reordered query parameters share one entry", func(t *testing.T) {
		c := newWithClock(5*time.Minute, time.Now)
		calls := 0
		router := newRouter(c, &calls)

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/products?width=600&brand=abc", nil))
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/products?brand=abc&width=600", nil))

		assert.Equal(t, 1, calls)
	})

	t.Run("Error responses are never cached", func(t *testing.T) {
		c := newWithClock(5*time.Minute, time.Now)
		calls := 0
		router := newRouter(c, &calls)

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/broken", nil))
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/broken", nil))

		assert.Equal(t, 2, calls)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("Non-GET requests bypass the cache", func(t *testing.T) {
		c := newWithClock(5*time.Minute, time.Now)
		calls := 0
		router := newRouter(c, &calls)

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/products", nil))
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/products", nil))

		assert.Equal(t, 2, calls)
		assert.Equal(t, 0, c.Len())
	})
}
