package company

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// -- Company Repository --

const companyColumns = `id, name, contact_person, phone, email, gst_number,
	city, employee_count, active, created_at, updated_at`

type companyRepoPG struct {
	pool *pgxpool.Pool
}

func NewCompanyRepo(pool *pgxpool.Pool) CompanyRepository {
	return &companyRepoPG{pool: pool}
}

func (r *companyRepoPG) Create(ctx context.Context, c *Company) error {
	c.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO company (
			id, name, contact_person, phone, email, gst_number, city,
			employee_count, active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.Name, c.ContactPerson, c.Phone, c.Email, c.GSTNumber, c.City,
		c.EmployeeCount, c.Active,
	)
	return err
}

func (r *companyRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Company, error) {
	return r.scanCompany(r.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM company WHERE id = $1`, id))
}

func (r *companyRepoPG) Update(ctx context.Context, c *Company) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE company SET
			name = $2, contact_person = $3, phone = $4, email = $5,
			gst_number = $6, city = $7, employee_count = $8, active = $9,
			updated_at = NOW()
		WHERE id = $1`,
		c.ID, c.Name, c.ContactPerson, c.Phone, c.Email,
		c.GSTNumber, c.City, c.EmployeeCount, c.Active,
	)
	return err
}

func (r *companyRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM company WHERE id = $1`, id)
	return err
}

func (r *companyRepoPG) List(ctx context.Context, search string, limit, offset int) ([]*Company, int, error) {
	where := ``
	args := []interface{}{}
	if search != "" {
		where = ` WHERE name ILIKE $1 OR city ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM company`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM company%s ORDER BY name LIMIT $%d OFFSET $%d`,
		companyColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var companies []*Company
	for rows.Next() {
		c, err := r.scanCompany(rows)
		if err != nil {
			return nil, 0, err
		}
		companies = append(companies, c)
	}
	return companies, total, rows.Err()
}

func (r *companyRepoPG) scanCompany(row pgx.Row) (*Company, error) {
	var c Company
	err := row.Scan(
		&c.ID, &c.Name, &c.ContactPerson, &c.Phone, &c.Email, &c.GSTNumber,
		&c.City, &c.EmployeeCount, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// -- Employee Repository --

const employeeColumns = `id, company_id, employee_no, name, department,
	phone, email, date_of_birth, gender, active, created_at, updated_at`

type employeeRepoPG struct {
	pool *pgxpool.Pool
}

func NewEmployeeRepo(pool *pgxpool.Pool) EmployeeRepository {
	return &employeeRepoPG{pool: pool}
}

func (r *employeeRepoPG) Create(ctx context.Context, e *Employee) error {
	e.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO employee (
			id, company_id, employee_no, name, department,
			phone, email, date_of_birth, gender, active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, e.CompanyID, e.EmployeeNo, e.Name, e.Department,
		e.Phone, e.Email, e.DateOfBirth, e.Gender, e.Active,
	)
	return err
}

func (r *employeeRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Employee, error) {
	return r.scanEmployee(r.pool.QueryRow(ctx,
		`SELECT `+employeeColumns+` FROM employee WHERE id = $1`, id))
}

func (r *employeeRepoPG) GetByEmployeeNo(ctx context.Context, companyID uuid.UUID, employeeNo string) (*Employee, error) {
	return r.scanEmployee(r.pool.QueryRow(ctx,
		`SELECT `+employeeColumns+` FROM employee WHERE company_id = $1 AND employee_no = $2`,
		companyID, employeeNo))
}

func (r *employeeRepoPG) Update(ctx context.Context, e *Employee) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE employee SET
			employee_no = $2, name = $3, department = $4, phone = $5,
			email = $6, date_of_birth = $7, gender = $8, active = $9,
			updated_at = NOW()
		WHERE id = $1`,
		e.ID, e.EmployeeNo, e.Name, e.Department, e.Phone,
		e.Email, e.DateOfBirth, e.Gender, e.Active,
	)
	return err
}

func (r *employeeRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM employee WHERE id = $1`, id)
	return err
}

func (r *employeeRepoPG) List(ctx context.Context, companyID uuid.UUID, search string, limit, offset int) ([]*Employee, int, error) {
	where := ` WHERE company_id = $1`
	args := []interface{}{companyID}
	idx := 2
	if search != "" {
		where += fmt.Sprintf(` AND (name ILIKE $%d OR employee_no ILIKE $%d OR department ILIKE $%d)`, idx, idx, idx)
		args = append(args, "%"+search+"%")
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM employee`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM employee%s ORDER BY name LIMIT $%d OFFSET $%d`,
		employeeColumns, where, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var employees []*Employee
	for rows.Next() {
		e, err := r.scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		employees = append(employees, e)
	}
	return employees, total, rows.Err()
}

func (r *employeeRepoPG) ListAllByCompany(ctx context.Context, companyID uuid.UUID) ([]*Employee, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+employeeColumns+` FROM employee WHERE company_id = $1 ORDER BY name`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []*Employee
	for rows.Next() {
		e, err := r.scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (r *employeeRepoPG) scanEmployee(row pgx.Row) (*Employee, error) {
	var e Employee
	err := row.Scan(
		&e.ID, &e.CompanyID, &e.EmployeeNo, &e.Name, &e.Department,
		&e.Phone, &e.Email, &e.DateOfBirth, &e.Gender, &e.Active,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// -- HRAQuestion Repository --

const questionColumns = `id, company_id, text, type, choices, position,
	active, created_at, updated_at`

type questionRepoPG struct {
	pool *pgxpool.Pool
}

func NewHRAQuestionRepo(pool *pgxpool.Pool) HRAQuestionRepository {
	return &questionRepoPG{pool: pool}
}

func (r *questionRepoPG) Create(ctx context.Context, q *HRAQuestion) error {
	q.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO hra_question (
			id, company_id, text, type, choices, position, active
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		q.ID, q.CompanyID, q.Text, q.Type, q.Choices, q.Position, q.Active,
	)
	return err
}

func (r *questionRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*HRAQuestion, error) {
	return r.scanQuestion(r.pool.QueryRow(ctx,
		`SELECT `+questionColumns+` FROM hra_question WHERE id = $1`, id))
}

func (r *questionRepoPG) Update(ctx context.Context, q *HRAQuestion) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE hra_question SET
			text = $2, type = $3, choices = $4, position = $5, active = $6,
			updated_at = NOW()
		WHERE id = $1`,
		q.ID, q.Text, q.Type, q.Choices, q.Position, q.Active,
	)
	return err
}

func (r *questionRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM hra_question WHERE id = $1`, id)
	return err
}

func (r *questionRepoPG) ListByCompany(ctx context.Context, companyID *uuid.UUID) ([]*HRAQuestion, error) {
	var rows pgx.Rows
	var err error
	if companyID == nil {
		rows, err = r.pool.Query(ctx,
			`SELECT `+questionColumns+` FROM hra_question WHERE company_id IS NULL ORDER BY position`)
	} else {
		rows, err = r.pool.Query(ctx,
			`SELECT `+questionColumns+` FROM hra_question WHERE company_id = $1 OR company_id IS NULL ORDER BY position`,
			*companyID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []*HRAQuestion
	for rows.Next() {
		q, err := r.scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (r *questionRepoPG) scanQuestion(row pgx.Row) (*HRAQuestion, error) {
	var q HRAQuestion
	err := row.Scan(
		&q.ID, &q.CompanyID, &q.Text, &q.Type, &q.Choices, &q.Position,
		&q.Active, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &q, nil
}
