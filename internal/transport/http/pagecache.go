package http

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/light-bringer/procat-web/internal/cache"
)

const htmlContentType = "text/html; charset=utf-8"

// captureWriter keeps a copy of the body written through it.
type captureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// PageCache serves GET pages from pages and stores successful renderings.
func PageCache(pages cache.PageCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		path, query := c.Request.URL.Path, c.Request.URL.RawQuery

		if body, ok := pages.Get(ctx, path, query); ok {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, htmlContentType, body)
			c.Abort()
			return
		}

		w := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Header("X-Cache", "MISS")
		c.Next()

		if w.Status() == http.StatusOK {
			pages.Set(ctx, path, query, w.body.Bytes())
		}
	}
}
