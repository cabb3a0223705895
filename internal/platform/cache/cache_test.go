package cache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestMemoryStore_SetGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, ok := s.Get(ctx, "k"); ok {
		t.Fatal("expected miss on empty store")
	}

	s.Set(ctx, "k", []byte("v"), time.Minute)
	data, ok := s.Get(ctx, "k")
	if !ok || string(data) != "v" {
		t.Fatalf("expected hit with v, got ok=%v data=%q", ok, data)
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Set(ctx, "k", []byte("v"), -time.Second)
	if _, ok := s.Get(ctx, "k"); ok {
		t.Fatal("expected expired entry to miss")
	}
}

func TestMemoryStore_InvalidatePrefix(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Set(ctx, "staff:/a", []byte("1"), time.Minute)
	s.Set(ctx, "staff:/b", []byte("2"), time.Minute)
	s.Set(ctx, "doctor:/a", []byte("3"), time.Minute)

	s.InvalidatePrefix(ctx, "staff:")

	if _, ok := s.Get(ctx, "staff:/a"); ok {
		t.Fatal("expected staff entries invalidated")
	}
	if _, ok := s.Get(ctx, "doctor:/a"); !ok {
		t.Fatal("expected doctor entry to survive")
	}
}

func TestMiddleware_CachesGET(t *testing.T) {
	e := echo.New()
	store := NewMemoryStore()

	var calls int32
	e.GET("/staff", func(c echo.Context) error {
		atomic.AddInt32(&calls, 1)
		return c.JSON(http.StatusOK, map[string]string{"hello": "world"})
	}, Middleware(store, "staff", time.Minute))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/staff", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	}

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected handler to run once, ran %d times", got)
	}
}

func TestMiddleware_WriteInvalidates(t *testing.T) {
	e := echo.New()
	store := NewMemoryStore()
	mw := Middleware(store, "staff", time.Minute)

	var calls int32
	e.GET("/staff", func(c echo.Context) error {
		atomic.AddInt32(&calls, 1)
		return c.JSON(http.StatusOK, map[string]int{"n": int(calls)})
	}, mw)
	e.POST("/staff", func(c echo.Context) error {
		return c.NoContent(http.StatusCreated)
	}, mw)

	do := func(method string) {
		req := httptest.NewRequest(method, "/staff", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
	}

	do(http.MethodGet)
	do(http.MethodGet)
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected 1 handler call before write, got %d", calls)
	}

	do(http.MethodPost)
	do(http.MethodGet)
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("expected refetch after write invalidation, got %d calls", calls)
	}
}

func TestMiddleware_DistinctQueriesCacheSeparately(t *testing.T) {
	e := echo.New()
	store := NewMemoryStore()

	var calls int32
	e.GET("/staff", func(c echo.Context) error {
		atomic.AddInt32(&calls, 1)
		return c.JSON(http.StatusOK, map[string]string{"page": c.QueryParam("page")})
	}, Middleware(store, "staff", time.Minute))

	for _, target := range []string{"/staff?page=1", "/staff?page=2", "/staff?page=1"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
	}

	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected 2 handler calls for 2 distinct queries, got %d", got)
	}
}

func TestMiddleware_SkipsFileDownloads(t *testing.T) {
	e := echo.New()
	store := NewMemoryStore()

	var calls int32
	e.GET("/staff/export", func(c echo.Context) error {
		atomic.AddInt32(&calls, 1)
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="staff.csv"`)
		return c.Blob(http.StatusOK, "text/csv", []byte("Name,Role\nRavi,manager\n"))
	}, Middleware(store, "staff", time.Minute))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/staff/export", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
		if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, "text/csv") {
			t.Errorf("request %d: expected text/csv, got %q", i+1, ct)
		}
		if cd := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(cd, "attachment") {
			t.Errorf("request %d: expected attachment disposition, got %q", i+1, cd)
		}
	}

	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected downloads to bypass the cache, handler ran %d times", got)
	}
	if _, ok := store.Get(context.Background(), Key("staff", echo.New().NewContext(
		httptest.NewRequest(http.MethodGet, "/staff/export", nil), httptest.NewRecorder()))); ok {
		t.Error("expected no cache entry for a CSV download")
	}
}
