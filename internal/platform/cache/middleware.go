package cache

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// bodyCapturer tees the response body so a successful render can be stored.
type bodyCapturer struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyCapturer) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyCapturer) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Middleware serves GET requests from the cache when a live entry exists and
// otherwise captures the handler's 200 response for later hits. ttl <= 0 uses
// the cache default. Non-GET requests pass straight through.
func (c *ResponseCache) Middleware(ttl time.Duration) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.Method != http.MethodGet {
			ctx.Next()
			return
		}

		key := Key(ctx.Request.URL.Path, ctx.Request.URL.Query())

		if payload, contentType, ok := c.Get(key); ok {
			ctx.Data(http.StatusOK, contentType, payload)
			ctx.Abort()
			return
		}

		capturer := &bodyCapturer{ResponseWriter: ctx.Writer, body: &bytes.Buffer{}}
		ctx.Writer = capturer

		ctx.Next()

		// Only successful reads are worth memoizing; errors must recompute.
		if capturer.Status() == http.StatusOK {
			c.Set(key, capturer.body.Bytes(), capturer.Header().Get("Content-Type"), ttl)
		}
	}
}
