package directory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// -- DiagnosticCenter Repository --

const centerColumns = `id, name, contact_person, phone, email,
	address_line1, address_line2, city, state, postal_code,
	active, created_at, updated_at`

type centerRepoPG struct {
	pool *pgxpool.Pool
}

func NewDiagnosticCenterRepo(pool *pgxpool.Pool) DiagnosticCenterRepository {
	return &centerRepoPG{pool: pool}
}

func (r *centerRepoPG) Create(ctx context.Context, dc *DiagnosticCenter) error {
	dc.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO diagnostic_center (
			id, name, contact_person, phone, email,
			address_line1, address_line2, city, state, postal_code, active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		dc.ID, dc.Name, dc.ContactPerson, dc.Phone, dc.Email,
		dc.AddressLine1, dc.AddressLine2, dc.City, dc.State, dc.PostalCode, dc.Active,
	)
	return err
}

func (r *centerRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*DiagnosticCenter, error) {
	return r.scanCenter(r.pool.QueryRow(ctx,
		`SELECT `+centerColumns+` FROM diagnostic_center WHERE id = $1`, id))
}

func (r *centerRepoPG) Update(ctx context.Context, dc *DiagnosticCenter) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE diagnostic_center SET
			name = $2, contact_person = $3, phone = $4, email = $5,
			address_line1 = $6, address_line2 = $7, city = $8, state = $9,
			postal_code = $10, active = $11, updated_at = NOW()
		WHERE id = $1`,
		dc.ID, dc.Name, dc.ContactPerson, dc.Phone, dc.Email,
		dc.AddressLine1, dc.AddressLine2, dc.City, dc.State,
		dc.PostalCode, dc.Active,
	)
	return err
}

func (r *centerRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM diagnostic_center WHERE id = $1`, id)
	return err
}

func (r *centerRepoPG) List(ctx context.Context, search string, limit, offset int) ([]*DiagnosticCenter, int, error) {
	where := ``
	args := []interface{}{}
	if search != "" {
		where = ` WHERE name ILIKE $1 OR city ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM diagnostic_center`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM diagnostic_center%s ORDER BY name LIMIT $%d OFFSET $%d`,
		centerColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var centers []*DiagnosticCenter
	for rows.Next() {
		dc, err := r.scanCenterRow(rows)
		if err != nil {
			return nil, 0, err
		}
		centers = append(centers, dc)
	}
	return centers, total, rows.Err()
}

func (r *centerRepoPG) scanCenter(row pgx.Row) (*DiagnosticCenter, error) {
	var dc DiagnosticCenter
	err := row.Scan(
		&dc.ID, &dc.Name, &dc.ContactPerson, &dc.Phone, &dc.Email,
		&dc.AddressLine1, &dc.AddressLine2, &dc.City, &dc.State, &dc.PostalCode,
		&dc.Active, &dc.CreatedAt, &dc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &dc, nil
}

func (r *centerRepoPG) scanCenterRow(rows pgx.Rows) (*DiagnosticCenter, error) {
	return r.scanCenter(rows)
}

// -- Doctor Repository --

const doctorColumns = `id, name, specialization, qualification, registration_number,
	experience_years, consultation_fee, phone, email,
	diagnostic_center_id, profile_image_id, active, created_at, updated_at`

type doctorRepoPG struct {
	pool *pgxpool.Pool
}

func NewDoctorRepo(pool *pgxpool.Pool) DoctorRepository {
	return &doctorRepoPG{pool: pool}
}

func (r *doctorRepoPG) Create(ctx context.Context, d *Doctor) error {
	d.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO doctor (
			id, name, specialization, qualification, registration_number,
			experience_years, consultation_fee, phone, email,
			diagnostic_center_id, profile_image_id, active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		d.ID, d.Name, d.Specialization, d.Qualification, d.RegistrationNumber,
		d.ExperienceYears, d.ConsultationFee, d.Phone, d.Email,
		d.DiagnosticCenterID, d.ProfileImageID, d.Active,
	)
	return err
}

func (r *doctorRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return r.scanDoctor(r.pool.QueryRow(ctx,
		`SELECT `+doctorColumns+` FROM doctor WHERE id = $1`, id))
}

func (r *doctorRepoPG) Update(ctx context.Context, d *Doctor) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE doctor SET
			name = $2, specialization = $3, qualification = $4,
			registration_number = $5, experience_years = $6,
			consultation_fee = $7, phone = $8, email = $9,
			diagnostic_center_id = $10, profile_image_id = $11, active = $12,
			updated_at = NOW()
		WHERE id = $1`,
		d.ID, d.Name, d.Specialization, d.Qualification,
		d.RegistrationNumber, d.ExperienceYears,
		d.ConsultationFee, d.Phone, d.Email,
		d.DiagnosticCenterID, d.ProfileImageID, d.Active,
	)
	return err
}

func (r *doctorRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM doctor WHERE id = $1`, id)
	return err
}

func (r *doctorRepoPG) List(ctx context.Context, search string, centerID *uuid.UUID, limit, offset int) ([]*Doctor, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	idx := 1
	if search != "" {
		where += fmt.Sprintf(` AND (name ILIKE $%d OR specialization ILIKE $%d)`, idx, idx)
		args = append(args, "%"+search+"%")
		idx++
	}
	if centerID != nil {
		where += fmt.Sprintf(` AND diagnostic_center_id = $%d`, idx)
		args = append(args, *centerID)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM doctor`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM doctor%s ORDER BY name LIMIT $%d OFFSET $%d`,
		doctorColumns, where, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var doctors []*Doctor
	for rows.Next() {
		d, err := r.scanDoctor(rows)
		if err != nil {
			return nil, 0, err
		}
		doctors = append(doctors, d)
	}
	return doctors, total, rows.Err()
}

func (r *doctorRepoPG) scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(
		&d.ID, &d.Name, &d.Specialization, &d.Qualification, &d.RegistrationNumber,
		&d.ExperienceYears, &d.ConsultationFee, &d.Phone, &d.Email,
		&d.DiagnosticCenterID, &d.ProfileImageID, &d.Active, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// -- DoctorSlot Repository --

const slotColumns = `id, doctor_id, slot_date, start_time, end_time,
	capacity, booked, active, created_at, updated_at`

type slotRepoPG struct {
	pool *pgxpool.Pool
}

func NewDoctorSlotRepo(pool *pgxpool.Pool) DoctorSlotRepository {
	return &slotRepoPG{pool: pool}
}

func (r *slotRepoPG) Create(ctx context.Context, s *DoctorSlot) error {
	s.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO doctor_slot (
			id, doctor_id, slot_date, start_time, end_time, capacity, booked, active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.DoctorID, s.SlotDate, s.StartTime, s.EndTime, s.Capacity, s.Booked, s.Active,
	)
	return err
}

func (r *slotRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*DoctorSlot, error) {
	return r.scanSlot(r.pool.QueryRow(ctx,
		`SELECT `+slotColumns+` FROM doctor_slot WHERE id = $1`, id))
}

func (r *slotRepoPG) Update(ctx context.Context, s *DoctorSlot) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE doctor_slot SET
			slot_date = $2, start_time = $3, end_time = $4,
			capacity = $5, booked = $6, active = $7, updated_at = NOW()
		WHERE id = $1`,
		s.ID, s.SlotDate, s.StartTime, s.EndTime, s.Capacity, s.Booked, s.Active,
	)
	return err
}

func (r *slotRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM doctor_slot WHERE id = $1`, id)
	return err
}

func (r *slotRepoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*DoctorSlot, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+slotColumns+` FROM doctor_slot WHERE doctor_id = $1 ORDER BY slot_date, start_time`,
		doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []*DoctorSlot
	for rows.Next() {
		s, err := r.scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func (r *slotRepoPG) scanSlot(row pgx.Row) (*DoctorSlot, error) {
	var s DoctorSlot
	err := row.Scan(
		&s.ID, &s.DoctorID, &s.SlotDate, &s.StartTime, &s.EndTime,
		&s.Capacity, &s.Booked, &s.Active, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// -- Staff Repository --

const staffColumns = `id, diagnostic_center_id, name, role, phone, email,
	joined_on, active, created_at, updated_at`

type staffRepoPG struct {
	pool *pgxpool.Pool
}

func NewStaffRepo(pool *pgxpool.Pool) StaffRepository {
	return &staffRepoPG{pool: pool}
}

func (r *staffRepoPG) Create(ctx context.Context, s *Staff) error {
	s.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO staff (
			id, diagnostic_center_id, name, role, phone, email, joined_on, active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.DiagnosticCenterID, s.Name, s.Role, s.Phone, s.Email, s.JoinedOn, s.Active,
	)
	return err
}

func (r *staffRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Staff, error) {
	return r.scanStaff(r.pool.QueryRow(ctx,
		`SELECT `+staffColumns+` FROM staff WHERE id = $1`, id))
}

func (r *staffRepoPG) Update(ctx context.Context, s *Staff) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE staff SET
			name = $2, role = $3, phone = $4, email = $5,
			joined_on = $6, active = $7, updated_at = NOW()
		WHERE id = $1`,
		s.ID, s.Name, s.Role, s.Phone, s.Email, s.JoinedOn, s.Active,
	)
	return err
}

func (r *staffRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM staff WHERE id = $1`, id)
	return err
}

func (r *staffRepoPG) List(ctx context.Context, centerID uuid.UUID, search string, limit, offset int) ([]*Staff, int, error) {
	where := ` WHERE diagnostic_center_id = $1`
	args := []interface{}{centerID}
	idx := 2
	if search != "" {
		where += fmt.Sprintf(` AND (name ILIKE $%d OR role ILIKE $%d)`, idx, idx)
		args = append(args, "%"+search+"%")
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM staff`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM staff%s ORDER BY name LIMIT $%d OFFSET $%d`,
		staffColumns, where, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var members []*Staff
	for rows.Next() {
		s, err := r.scanStaff(rows)
		if err != nil {
			return nil, 0, err
		}
		members = append(members, s)
	}
	return members, total, rows.Err()
}

func (r *staffRepoPG) ListAllByCenter(ctx context.Context, centerID uuid.UUID) ([]*Staff, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+staffColumns+` FROM staff WHERE diagnostic_center_id = $1 ORDER BY name`,
		centerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*Staff
	for rows.Next() {
		s, err := r.scanStaff(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, s)
	}
	return members, rows.Err()
}

func (r *staffRepoPG) scanStaff(row pgx.Row) (*Staff, error) {
	var s Staff
	err := row.Scan(
		&s.ID, &s.DiagnosticCenterID, &s.Name, &s.Role, &s.Phone, &s.Email,
		&s.JoinedOn, &s.Active, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
