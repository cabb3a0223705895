package blobstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func seedBlob(t *testing.T, store BlobStore, ownerType, ownerID, category, fileName, content string) *BlobMetadata {
	t.Helper()
	meta := BlobMetadata{
		FileName:    fileName,
		ContentType: "application/pdf",
		OwnerType:   ownerType,
		OwnerID:     ownerID,
		Category:    category,
		CreatedBy:   "test-user",
	}
	result, err := store.Upload(context.Background(), meta, strings.NewReader(content))
	if err != nil {
		t.Fatalf("seedBlob: %v", err)
	}
	return result
}

// ---------------------------------------------------------------------------
// Store tests
// ---------------------------------------------------------------------------

func TestInMemoryBlobStore_Upload(t *testing.T) {
	store := NewInMemoryBlobStore()
	content := "report body"

	meta := BlobMetadata{
		FileName:    "report.pdf",
		ContentType: "application/pdf",
		OwnerType:   "booking",
		OwnerID:     "bk-1",
		Category:    "report",
		CreatedBy:   "user-1",
	}

	result, err := store.Upload(context.Background(), meta, strings.NewReader(content))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.ID == "" {
		t.Fatal("expected non-empty ID")
	}
	if result.Size != int64(len(content)) {
		t.Errorf("expected Size=%d, got %d", len(content), result.Size)
	}
	wantHash := fmt.Sprintf("%x", sha256.Sum256([]byte(content)))
	if result.Hash != wantHash {
		t.Errorf("expected Hash=%s, got %s", wantHash, result.Hash)
	}
	if result.CreatedAt.IsZero() {
		t.Fatal("expected non-zero CreatedAt")
	}
}

func TestInMemoryBlobStore_Upload_MissingFileName(t *testing.T) {
	store := NewInMemoryBlobStore()
	_, err := store.Upload(context.Background(), BlobMetadata{}, strings.NewReader("x"))
	if !errors.Is(err, ErrMissingFileName) {
		t.Fatalf("expected ErrMissingFileName, got %v", err)
	}
}

func TestInMemoryBlobStore_Upload_RejectedExtension(t *testing.T) {
	store := NewInMemoryBlobStore()
	_, err := store.Upload(context.Background(),
		BlobMetadata{FileName: "malware.exe"}, strings.NewReader("x"))
	if !errors.Is(err, ErrInvalidContentType) {
		t.Fatalf("expected ErrInvalidContentType, got %v", err)
	}
}

func TestInMemoryBlobStore_Upload_DefaultsCategory(t *testing.T) {
	store := NewInMemoryBlobStore()
	result, err := store.Upload(context.Background(),
		BlobMetadata{FileName: "scan.png"}, strings.NewReader("x"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Category != "other" {
		t.Errorf("expected default category other, got %s", result.Category)
	}
}

func TestInMemoryBlobStore_DownloadRoundTrip(t *testing.T) {
	store := NewInMemoryBlobStore()
	seeded := seedBlob(t, store, "booking", "bk-1", "report", "r.pdf", "the report")

	rc, meta, err := store.Download(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rc.Close()

	data, _ := io.ReadAll(rc)
	if string(data) != "the report" {
		t.Errorf("unexpected content %q", data)
	}
	if meta.FileName != "r.pdf" {
		t.Errorf("unexpected file name %q", meta.FileName)
	}
}

func TestInMemoryBlobStore_Download_NotFound(t *testing.T) {
	store := NewInMemoryBlobStore()
	_, _, err := store.Download(context.Background(), "missing")
	if !errors.Is(err, ErrBlobNotFound) {
		t.Fatalf("expected ErrBlobNotFound, got %v", err)
	}
}

func TestInMemoryBlobStore_Delete(t *testing.T) {
	store := NewInMemoryBlobStore()
	seeded := seedBlob(t, store, "booking", "bk-1", "report", "r.pdf", "x")

	if err := store.Delete(context.Background(), seeded.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Delete(context.Background(), seeded.ID); !errors.Is(err, ErrBlobNotFound) {
		t.Fatalf("expected ErrBlobNotFound on second delete, got %v", err)
	}
}

func TestInMemoryBlobStore_ListByOwner(t *testing.T) {
	store := NewInMemoryBlobStore()
	seedBlob(t, store, "booking", "bk-1", "report", "a.pdf", "x")
	seedBlob(t, store, "booking", "bk-1", "prescription", "b.pdf", "x")
	seedBlob(t, store, "booking", "bk-2", "report", "c.pdf", "x")
	seedBlob(t, store, "staff", "bk-1", "document", "d.pdf", "x")

	items, total, err := store.ListByOwner(context.Background(), "booking", "bk-1", "", 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("expected 2 attachments for bk-1, got total=%d len=%d", total, len(items))
	}

	items, total, err = store.ListByOwner(context.Background(), "booking", "bk-1", "report", 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || items[0].FileName != "a.pdf" {
		t.Fatalf("expected only the report attachment, got total=%d", total)
	}
}

func TestInMemoryBlobStore_Search(t *testing.T) {
	store := NewInMemoryBlobStore()
	seedBlob(t, store, "booking", "bk-1", "report", "blood-panel.pdf", "x")
	seedBlob(t, store, "booking", "bk-2", "report", "xray.png", "x")

	items, total, err := store.Search(context.Background(), SearchParams{FileName: "BLOOD"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || items[0].FileName != "blood-panel.pdf" {
		t.Fatalf("expected case-insensitive file name match, got total=%d", total)
	}
}

// ---------------------------------------------------------------------------
// Handler tests
// ---------------------------------------------------------------------------

func multipartUpload(t *testing.T, fileName, content string, fields map[string]string) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/attachments/upload", &body)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	return req, httptest.NewRecorder()
}

func TestBlobHandler_UploadAndDownload(t *testing.T) {
	e := echo.New()
	store := NewInMemoryBlobStore()
	h := NewBlobHandler(store)
	h.RegisterRoutes(e.Group(""))

	req, rec := multipartUpload(t, "report.pdf", "hello", map[string]string{
		"owner_type": "booking",
		"owner_id":   "bk-1",
		"category":   "report",
	})
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var meta BlobMetadata
	if err := json.Unmarshal(rec.Body.Bytes(), &meta); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if meta.OwnerID != "bk-1" || meta.Category != "report" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}

	dlReq := httptest.NewRequest(http.MethodGet, "/attachments/"+meta.ID, nil)
	dlRec := httptest.NewRecorder()
	e.ServeHTTP(dlRec, dlReq)

	if dlRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", dlRec.Code)
	}
	if dlRec.Body.String() != "hello" {
		t.Errorf("unexpected body %q", dlRec.Body.String())
	}
	if cd := dlRec.Header().Get("Content-Disposition"); !strings.Contains(cd, "report.pdf") {
		t.Errorf("unexpected content disposition %q", cd)
	}
}

func TestBlobHandler_Upload_BadExtension(t *testing.T) {
	e := echo.New()
	h := NewBlobHandler(NewInMemoryBlobStore())
	h.RegisterRoutes(e.Group(""))

	req, rec := multipartUpload(t, "notes.txt", "hello", nil)
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", rec.Code)
	}
}

func TestBlobHandler_Download_NotFound(t *testing.T) {
	e := echo.New()
	h := NewBlobHandler(NewInMemoryBlobStore())
	h.RegisterRoutes(e.Group(""))

	req := httptest.NewRequest(http.MethodGet, "/attachments/nope", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
