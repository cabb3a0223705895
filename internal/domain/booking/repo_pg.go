package booking

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookingColumns = `id, ref, patient_name, patient_phone, patient_email,
	service_type, service_name, company_id, diagnostic_center_id, doctor_id,
	amount, status, booked_at, notes, created_at, updated_at`

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) Create(ctx context.Context, b *Booking) error {
	b.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO booking (
			id, ref, patient_name, patient_phone, patient_email,
			service_type, service_name, company_id, diagnostic_center_id, doctor_id,
			amount, status, booked_at, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		b.ID, b.Ref, b.PatientName, b.PatientPhone, b.PatientEmail,
		b.ServiceType, b.ServiceName, b.CompanyID, b.DiagnosticCenterID, b.DoctorID,
		b.Amount, b.Status, b.BookedAt, b.Notes,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return r.scanBooking(r.pool.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM booking WHERE id = $1`, id))
}

func (r *repoPG) GetByRef(ctx context.Context, ref string) (*Booking, error) {
	return r.scanBooking(r.pool.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM booking WHERE ref = $1`, ref))
}

func (r *repoPG) Update(ctx context.Context, b *Booking) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE booking SET
			patient_name = $2, patient_phone = $3, patient_email = $4,
			service_type = $5, service_name = $6, amount = $7, status = $8,
			booked_at = $9, notes = $10, updated_at = NOW()
		WHERE id = $1`,
		b.ID, b.PatientName, b.PatientPhone, b.PatientEmail,
		b.ServiceType, b.ServiceName, b.Amount, b.Status,
		b.BookedAt, b.Notes,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM booking WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListAll(ctx context.Context, f Filter) ([]*Booking, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	idx := 1
	if f.Status != "" {
		where += fmt.Sprintf(` AND status = $%d`, idx)
		args = append(args, f.Status)
		idx++
	}
	if f.CompanyID != nil {
		where += fmt.Sprintf(` AND company_id = $%d`, idx)
		args = append(args, *f.CompanyID)
		idx++
	}
	if f.DiagnosticCenterID != nil {
		where += fmt.Sprintf(` AND diagnostic_center_id = $%d`, idx)
		args = append(args, *f.DiagnosticCenterID)
		idx++
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+bookingColumns+` FROM booking`+where+` ORDER BY booked_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := r.scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *repoPG) scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID, &b.Ref, &b.PatientName, &b.PatientPhone, &b.PatientEmail,
		&b.ServiceType, &b.ServiceName, &b.CompanyID, &b.DiagnosticCenterID, &b.DoctorID,
		&b.Amount, &b.Status, &b.BookedAt, &b.Notes, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
