package booking

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/caregrid/admin-api/internal/platform/archive"
	"github.com/caregrid/admin-api/internal/platform/blobstore"
	"github.com/caregrid/admin-api/internal/platform/bulk"
	"github.com/caregrid/admin-api/pkg/listview"
)

type Service struct {
	repo   Repository
	blobs  blobstore.BlobStore
	logger zerolog.Logger
}

func NewService(repo Repository, blobs blobstore.BlobStore, logger zerolog.Logger) *Service {
	return &Service{repo: repo, blobs: blobs, logger: logger}
}

// -- CRUD --

func validate(b *Booking) error {
	if b.PatientName == "" {
		return fmt.Errorf("patient name is required")
	}
	if b.ServiceName == "" {
		return fmt.Errorf("service name is required")
	}
	switch b.ServiceType {
	case ServicePackage, ServiceLabTest, ServiceXRay, ServiceConsultation:
	default:
		return fmt.Errorf("unknown service type %q", b.ServiceType)
	}
	if b.Amount < 0 {
		return fmt.Errorf("amount cannot be negative")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, b *Booking) error {
	if err := validate(b); err != nil {
		return err
	}
	if b.Ref == "" {
		b.Ref = newRef()
	}
	if b.BookedAt.IsZero() {
		b.BookedAt = time.Now()
	}
	b.Status = StatusBooked
	return s.repo.Create(ctx, b)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, b *Booking) error {
	if err := validate(b); err != nil {
		return err
	}
	current, err := s.repo.GetByID(ctx, b.ID)
	if err != nil {
		return err
	}
	// Status changes go through UpdateStatus so the lifecycle holds.
	b.Ref = current.Ref
	b.Status = current.Status
	return s.repo.Update(ctx, b)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// UpdateStatus applies a lifecycle transition and persists the result.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, next Status) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := b.Transition(next); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("booking", b.Ref).
		Str("status", string(next)).
		Msg("booking status changed")
	return b, nil
}

// -- Listing --

// List applies the search, date and page query to the bookings matching
// f and returns the visible page with per-mode date counts.
func (s *Service) List(ctx context.Context, f Filter, q listview.Query) (listview.Result[*Booking], error) {
	bookings, err := s.repo.ListAll(ctx, f)
	if err != nil {
		return listview.Result[*Booking]{}, err
	}
	result := listview.Apply(bookings, q,
		func(b *Booking) []string { return b.SearchFields() },
		func(b *Booking) time.Time { return b.BookedAt },
	)
	return result, nil
}

// -- CSV export --

var exportMapping = bulk.Mapping{
	{Header: "Booking Ref", Field: "ref"},
	{Header: "Patient Name", Field: "patient_name"},
	{Header: "Phone", Field: "phone"},
	{Header: "Service", Field: "service"},
	{Header: "Type", Field: "type"},
	{Header: "Amount", Field: "amount"},
	{Header: "Status", Field: "status"},
	{Header: "Booked At", Field: "booked_at"},
}

// ExportCSV writes the bookings matching the filter and query as CSV.
// The same search and date narrowing as List applies; pagination does
// not, the whole filtered set is exported.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, f Filter, q listview.Query) error {
	bookings, err := s.repo.ListAll(ctx, f)
	if err != nil {
		return err
	}

	var rows []bulk.Row
	for _, b := range bookings {
		if !listview.MatchesSearch(q.Search, b.SearchFields()) {
			continue
		}
		if !q.Date.Matches(b.BookedAt) {
			continue
		}
		row := bulk.Row{
			"ref":          b.Ref,
			"patient_name": b.PatientName,
			"service":      b.ServiceName,
			"type":         string(b.ServiceType),
			"amount":       bulk.FormatRupees(b.Amount),
			"status":       string(b.Status),
			"booked_at":    b.BookedAt.Format("02-01-2006 15:04"),
		}
		if b.PatientPhone != nil {
			row["phone"] = *b.PatientPhone
		}
		rows = append(rows, row)
	}

	return bulk.ExportCSV(w, exportMapping, rows)
}

// -- Attachment archive --

// ArchiveAttachments bundles the report and prescription files of the
// selected bookings into one ZIP, one folder per booking ref. A file
// that cannot be fetched is skipped; the build fails only when nothing
// could be collected.
func (s *Service) ArchiveAttachments(ctx context.Context, w io.Writer, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("no bookings selected")
	}

	var sources []archive.Source
	for _, id := range ids {
		b, err := s.repo.GetByID(ctx, id)
		if err != nil {
			s.logger.Warn().Str("booking_id", id.String()).Msg("skipping unknown booking")
			continue
		}

		metas, _, err := s.blobs.ListByOwner(ctx, "booking", b.ID.String(), "", 100, 0)
		if err != nil {
			s.logger.Warn().Err(err).Str("booking", b.Ref).Msg("listing attachments failed")
			continue
		}

		src := archive.Source{Folder: b.Ref}
		for _, meta := range metas {
			blobID := meta.ID
			src.Entries = append(src.Entries, archive.Entry{
				Name: meta.FileName,
				Open: func(ctx context.Context) (io.ReadCloser, error) {
					rc, _, err := s.blobs.Download(ctx, blobID)
					return rc, err
				},
			})
		}
		sources = append(sources, src)
	}

	return archive.Build(ctx, w, sources, s.logger)
}

func newRef() string {
	return "BK" + strings.ToUpper(uuid.New().String()[:8])
}
