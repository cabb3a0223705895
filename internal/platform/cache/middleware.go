package cache

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// bufferedResponseWriter captures the response body so a successful
// list response can be stored before it is flushed to the client.
type bufferedResponseWriter struct {
	writer     http.ResponseWriter
	buf        *bytes.Buffer
	statusCode int
}

func newBufferedResponseWriter(w http.ResponseWriter) *bufferedResponseWriter {
	return &bufferedResponseWriter{writer: w, buf: &bytes.Buffer{}, statusCode: http.StatusOK}
}

func (w *bufferedResponseWriter) Header() http.Header { return w.writer.Header() }

func (w *bufferedResponseWriter) Write(b []byte) (int, error) { return w.buf.Write(b) }

func (w *bufferedResponseWriter) WriteHeader(code int) { w.statusCode = code }

func (w *bufferedResponseWriter) Flush() {}

func (w *bufferedResponseWriter) flushTo() error {
	w.writer.WriteHeader(w.statusCode)
	if w.buf.Len() > 0 {
		_, err := w.writer.Write(w.buf.Bytes())
		return err
	}
	return nil
}

// Key builds the cache key for one request: resource prefix plus the
// full request path and query, so every distinct filter/page view
// caches independently.
func Key(resource string, c echo.Context) string {
	return resource + ":" + c.Request().URL.RequestURI()
}

// Middleware caches successful JSON GET responses under the given
// resource prefix. Non-GET requests pass through and invalidate the
// prefix on a 2xx response, keeping list views coherent with writes.
// Non-JSON responses (CSV/XLSX/ZIP downloads carry their own
// content type and disposition headers) are never cached, since a
// replay via JSONBlob would lose them.
func Middleware(store Store, resource string, ttl time.Duration) echo.MiddlewareFunc {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			if c.Request().Method != http.MethodGet {
				err := next(c)
				if err == nil && c.Response().Status < 400 {
					store.InvalidatePrefix(ctx, resource+":")
				}
				return err
			}

			key := Key(resource, c)
			if data, ok := store.Get(ctx, key); ok {
				return c.JSONBlob(http.StatusOK, data)
			}

			res := c.Response()
			origWriter := res.Writer
			buf := newBufferedResponseWriter(origWriter)
			res.Writer = buf

			err := next(c)
			res.Writer = origWriter
			if err != nil {
				return err
			}

			ct := res.Header().Get(echo.HeaderContentType)
			if buf.statusCode == http.StatusOK && buf.buf.Len() > 0 &&
				strings.HasPrefix(ct, echo.MIMEApplicationJSON) {
				store.Set(ctx, key, buf.buf.Bytes(), ttl)
			}
			return buf.flushTo()
		}
	}
}
