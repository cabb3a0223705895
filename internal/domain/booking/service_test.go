package booking

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/caregrid/admin-api/internal/platform/archive"
	"github.com/caregrid/admin-api/internal/platform/blobstore"
	"github.com/caregrid/admin-api/pkg/datefilter"
	"github.com/caregrid/admin-api/pkg/listview"
	"github.com/caregrid/admin-api/pkg/pagination"
)

// -- Mock Repository --

type mockRepo struct {
	bookings map[uuid.UUID]*Booking
}

func newMockRepo() *mockRepo {
	return &mockRepo{bookings: make(map[uuid.UUID]*Booking)}
}

func (m *mockRepo) Create(_ context.Context, b *Booking) error {
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	b.UpdatedAt = time.Now()
	m.bookings[b.ID] = b
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	cp := *b
	return &cp, nil
}

func (m *mockRepo) GetByRef(_ context.Context, ref string) (*Booking, error) {
	for _, b := range m.bookings {
		if b.Ref == ref {
			return b, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (m *mockRepo) Update(_ context.Context, b *Booking) error {
	if _, ok := m.bookings[b.ID]; !ok {
		return fmt.Errorf("not found")
	}
	m.bookings[b.ID] = b
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.bookings, id)
	return nil
}

func (m *mockRepo) ListAll(_ context.Context, f Filter) ([]*Booking, error) {
	var result []*Booking
	for _, b := range m.bookings {
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		if f.CompanyID != nil && (b.CompanyID == nil || *b.CompanyID != *f.CompanyID) {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func newTestService() (*Service, *mockRepo, *blobstore.InMemoryBlobStore) {
	repo := newMockRepo()
	blobs := blobstore.NewInMemoryBlobStore()
	return NewService(repo, blobs, zerolog.Nop()), repo, blobs
}

func mustCreate(t *testing.T, svc *Service, b *Booking) *Booking {
	t.Helper()
	if b.ServiceType == "" {
		b.ServiceType = ServicePackage
	}
	if b.ServiceName == "" {
		b.ServiceName = "Full Body Checkup"
	}
	if err := svc.Create(context.Background(), b); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	return b
}

// -- Tests --

func TestCreate_Defaults(t *testing.T) {
	svc, _, _ := newTestService()

	b := mustCreate(t, svc, &Booking{PatientName: "Meera Shah"})
	if b.Status != StatusBooked {
		t.Errorf("expected initial status booked, got %s", b.Status)
	}
	if b.Ref == "" {
		t.Error("expected a booking ref to be assigned")
	}
	if b.BookedAt.IsZero() {
		t.Error("expected booked_at to default to now")
	}
}

func TestCreate_Validation(t *testing.T) {
	svc, _, _ := newTestService()

	if err := svc.Create(context.Background(), &Booking{ServiceType: ServicePackage, ServiceName: "x"}); err == nil {
		t.Error("expected error for missing patient name")
	}
	if err := svc.Create(context.Background(), &Booking{PatientName: "A", ServiceType: "subscription", ServiceName: "x"}); err == nil {
		t.Error("expected error for unknown service type")
	}
}

func TestStatusTransitions(t *testing.T) {
	svc, _, _ := newTestService()
	b := mustCreate(t, svc, &Booking{PatientName: "Meera Shah"})

	updated, err := svc.UpdateStatus(context.Background(), b.ID, StatusConfirmed)
	if err != nil {
		t.Fatalf("UpdateStatus(confirmed) error: %v", err)
	}
	if updated.Status != StatusConfirmed {
		t.Errorf("expected confirmed, got %s", updated.Status)
	}

	if _, err := svc.UpdateStatus(context.Background(), b.ID, StatusBooked); err == nil {
		t.Error("expected error moving confirmed back to booked")
	}

	if _, err := svc.UpdateStatus(context.Background(), b.ID, StatusCompleted); err != nil {
		t.Fatalf("UpdateStatus(completed) error: %v", err)
	}

	// Completed is terminal.
	if _, err := svc.UpdateStatus(context.Background(), b.ID, StatusCancelled); err == nil {
		t.Error("expected error cancelling a completed booking")
	}
}

func TestUpdate_PreservesStatusAndRef(t *testing.T) {
	svc, repo, _ := newTestService()
	b := mustCreate(t, svc, &Booking{PatientName: "Meera Shah"})
	if _, err := svc.UpdateStatus(context.Background(), b.ID, StatusConfirmed); err != nil {
		t.Fatalf("UpdateStatus() error: %v", err)
	}

	edit := *b
	edit.PatientName = "Meera S"
	edit.Status = StatusCancelled // must be ignored by Update
	edit.Ref = "FORGED"
	if err := svc.Update(context.Background(), &edit); err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	stored, _ := repo.GetByID(context.Background(), b.ID)
	if stored.Status != StatusConfirmed {
		t.Errorf("expected status preserved through update, got %s", stored.Status)
	}
	if stored.Ref != b.Ref {
		t.Errorf("expected ref preserved through update, got %s", stored.Ref)
	}
	if stored.PatientName != "Meera S" {
		t.Errorf("expected name updated, got %s", stored.PatientName)
	}
}

func TestUpdate_Validates(t *testing.T) {
	svc, repo, _ := newTestService()
	b := mustCreate(t, svc, &Booking{PatientName: "Meera Shah", Amount: 1500})

	cases := []struct {
		name   string
		mutate func(b *Booking)
	}{
		{"unknown service type", func(b *Booking) { b.ServiceType = "teleportation" }},
		{"negative amount", func(b *Booking) { b.Amount = -1 }},
		{"missing patient name", func(b *Booking) { b.PatientName = "" }},
		{"missing service name", func(b *Booking) { b.ServiceName = "" }},
	}
	for _, tc := range cases {
		edit := *b
		tc.mutate(&edit)
		if err := svc.Update(context.Background(), &edit); err == nil {
			t.Errorf("%s: expected update rejected", tc.name)
		}
	}

	stored, _ := repo.GetByID(context.Background(), b.ID)
	if stored.Amount != 1500 {
		t.Errorf("expected stored booking untouched, amount %v", stored.Amount)
	}
}

func TestList_SearchAndDateRange(t *testing.T) {
	svc, _, _ := newTestService()

	jan15 := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	jan31 := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
	feb1 := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	mustCreate(t, svc, &Booking{PatientName: "Meera Shah", BookedAt: jan15})
	mustCreate(t, svc, &Booking{PatientName: "Arjun Nair", BookedAt: jan31})
	mustCreate(t, svc, &Booking{PatientName: "Meera Pillai", BookedAt: feb1})

	filter, err := datefilter.New(datefilter.ModeCustom,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("datefilter.New() error: %v", err)
	}

	q := listview.Query{Date: filter, Page: pagination.Params{Page: 1, Size: 10}}
	result, err := svc.List(context.Background(), Filter{}, q)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}

	// Jan 15 and Jan 31 23:59:59 are inside the inclusive range; Feb 1 is not.
	if result.Total != 2 {
		t.Fatalf("expected 2 bookings in January range, got %d", result.Total)
	}

	q.Search = "meera"
	result, err = svc.List(context.Background(), Filter{}, q)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if result.Total != 1 {
		t.Errorf("expected 1 booking matching search within range, got %d", result.Total)
	}
}

func TestList_StatusFilter(t *testing.T) {
	svc, _, _ := newTestService()

	a := mustCreate(t, svc, &Booking{PatientName: "Meera Shah"})
	mustCreate(t, svc, &Booking{PatientName: "Arjun Nair"})
	if _, err := svc.UpdateStatus(context.Background(), a.ID, StatusConfirmed); err != nil {
		t.Fatalf("UpdateStatus() error: %v", err)
	}

	q := listview.Query{Page: pagination.Params{Page: 1, Size: 10}}
	result, err := svc.List(context.Background(), Filter{Status: StatusConfirmed}, q)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if result.Total != 1 {
		t.Errorf("expected 1 confirmed booking, got %d", result.Total)
	}
}

func TestExportCSV(t *testing.T) {
	svc, _, _ := newTestService()

	b := mustCreate(t, svc, &Booking{PatientName: "Meera Shah", Amount: 1500})
	mustCreate(t, svc, &Booking{PatientName: "Arjun Nair", Amount: 800})

	var buf bytes.Buffer
	q := listview.Query{Search: "meera"}
	if err := svc.ExportCSV(context.Background(), &buf, Filter{}, q); err != nil {
		t.Fatalf("ExportCSV() error: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "Booking Ref,Patient Name") {
		t.Errorf("unexpected CSV header: %q", out)
	}
	if !strings.Contains(out, b.Ref) || !strings.Contains(out, "₹1500") {
		t.Errorf("expected matched booking in export, got: %q", out)
	}
	if strings.Contains(out, "Arjun Nair") {
		t.Error("expected unmatched booking excluded from export")
	}
}

func TestArchiveAttachments(t *testing.T) {
	svc, _, blobs := newTestService()

	withFile := mustCreate(t, svc, &Booking{PatientName: "Meera Shah"})
	withoutFile := mustCreate(t, svc, &Booking{PatientName: "Arjun Nair"})

	_, err := blobs.Upload(context.Background(), blobstore.BlobMetadata{
		FileName:  "report.pdf",
		OwnerType: "booking",
		OwnerID:   withFile.ID.String(),
		Category:  "report",
	}, strings.NewReader("%PDF-1.4 test"))
	if err != nil {
		t.Fatalf("Upload() error: %v", err)
	}

	var buf bytes.Buffer
	count, err := svc.ArchiveAttachments(context.Background(), &buf,
		[]uuid.UUID{withFile.ID, withoutFile.ID})
	if err != nil {
		t.Fatalf("ArchiveAttachments() error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 archived file, got %d", count)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("reading archive: %v", err)
	}
	if len(zr.File) != 1 {
		t.Fatalf("expected 1 file in archive, got %d", len(zr.File))
	}
	want := withFile.Ref + "/report.pdf"
	if zr.File[0].Name != want {
		t.Errorf("expected %s, got %s", want, zr.File[0].Name)
	}
}

func TestArchiveAttachments_NoFiles(t *testing.T) {
	svc, _, _ := newTestService()
	b := mustCreate(t, svc, &Booking{PatientName: "Meera Shah"})

	var buf bytes.Buffer
	_, err := svc.ArchiveAttachments(context.Background(), &buf, []uuid.UUID{b.ID})
	if !errors.Is(err, archive.ErrNoFiles) {
		t.Errorf("expected ErrNoFiles, got %v", err)
	}
}
