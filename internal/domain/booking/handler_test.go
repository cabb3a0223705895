package booking

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/caregrid/admin-api/internal/platform/blobstore"
)

func archiveRequestContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/bookings/attachments/archive", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestArchiveAttachmentsHandler_NoFiles(t *testing.T) {
	svc, _, _ := newTestService()
	h := NewHandler(svc)

	b := mustCreate(t, svc, &Booking{PatientName: "Ravi Kumar"})

	c, rec := archiveRequestContext(t, `{"booking_ids":["`+b.ID.String()+`"]}`)
	err := h.ArchiveAttachments(c)
	if err == nil {
		t.Fatal("expected error when no attachments exist")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T", err)
	}
	if he.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", he.Code)
	}
	if c.Response().Committed {
		t.Error("response must not be committed before the archive is built")
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %d bytes", rec.Body.Len())
	}
}

func TestArchiveAttachmentsHandler_StreamsZip(t *testing.T) {
	svc, _, blobs := newTestService()
	h := NewHandler(svc)

	b := mustCreate(t, svc, &Booking{PatientName: "Ravi Kumar"})
	_, err := blobs.Upload(context.Background(), blobstore.BlobMetadata{
		FileName:  "report.pdf",
		OwnerType: "booking",
		OwnerID:   b.ID.String(),
		Category:  "report",
	}, strings.NewReader("%PDF-1.4 test"))
	if err != nil {
		t.Fatalf("Upload() error: %v", err)
	}

	c, rec := archiveRequestContext(t, `{"booking_ids":["`+b.ID.String()+`"]}`)
	if err := h.ArchiveAttachments(c); err != nil {
		t.Fatalf("ArchiveAttachments() error: %v", err)
	}

	if got := rec.Header().Get(echo.HeaderContentType); got != "application/zip" {
		t.Errorf("expected application/zip, got %q", got)
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(cd, "attachment") {
		t.Errorf("expected attachment disposition, got %q", cd)
	}

	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	if err != nil {
		t.Fatalf("response body is not a valid ZIP: %v", err)
	}
	want := b.Ref + "/report.pdf"
	found := false
	for _, f := range zr.File {
		if f.Name == want {
			found = true
		}
	}
	if !found {
		t.Errorf("expected %q in archive, got %d other entries", want, len(zr.File))
	}
}
