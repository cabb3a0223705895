package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// -- HealthPackage Repository --

const packageColumns = `id, name, description, price, discount_price, test_count,
	home_collection, fasting_required, active, created_at, updated_at`

type packageRepoPG struct {
	pool *pgxpool.Pool
}

func NewHealthPackageRepo(pool *pgxpool.Pool) HealthPackageRepository {
	return &packageRepoPG{pool: pool}
}

func (r *packageRepoPG) Create(ctx context.Context, p *HealthPackage) error {
	p.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO health_package (
			id, name, description, price, discount_price, test_count,
			home_collection, fasting_required, active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.Name, p.Description, p.Price, p.DiscountPrice, p.TestCount,
		p.HomeCollection, p.FastingRequired, p.Active,
	)
	return err
}

func (r *packageRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*HealthPackage, error) {
	return r.scanPackage(r.pool.QueryRow(ctx,
		`SELECT `+packageColumns+` FROM health_package WHERE id = $1`, id))
}

func (r *packageRepoPG) Update(ctx context.Context, p *HealthPackage) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE health_package SET
			name = $2, description = $3, price = $4, discount_price = $5,
			test_count = $6, home_collection = $7, fasting_required = $8,
			active = $9, updated_at = NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.Description, p.Price, p.DiscountPrice,
		p.TestCount, p.HomeCollection, p.FastingRequired, p.Active,
	)
	return err
}

func (r *packageRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM health_package WHERE id = $1`, id)
	return err
}

func (r *packageRepoPG) List(ctx context.Context, search string, limit, offset int) ([]*HealthPackage, int, error) {
	where := ``
	args := []interface{}{}
	if search != "" {
		where = ` WHERE name ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM health_package`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM health_package%s ORDER BY name LIMIT $%d OFFSET $%d`,
		packageColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var packages []*HealthPackage
	for rows.Next() {
		p, err := r.scanPackage(rows)
		if err != nil {
			return nil, 0, err
		}
		packages = append(packages, p)
	}
	return packages, total, rows.Err()
}

func (r *packageRepoPG) ListAll(ctx context.Context) ([]*HealthPackage, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+packageColumns+` FROM health_package ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var packages []*HealthPackage
	for rows.Next() {
		p, err := r.scanPackage(rows)
		if err != nil {
			return nil, err
		}
		packages = append(packages, p)
	}
	return packages, rows.Err()
}

func (r *packageRepoPG) scanPackage(row pgx.Row) (*HealthPackage, error) {
	var p HealthPackage
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.DiscountPrice, &p.TestCount,
		&p.HomeCollection, &p.FastingRequired, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// -- LabTest Repository --

const testColumns = `id, name, category, sample_type, price, report_hours,
	home_collection, fasting_required, active, created_at, updated_at`

type testRepoPG struct {
	pool *pgxpool.Pool
}

func NewLabTestRepo(pool *pgxpool.Pool) LabTestRepository {
	return &testRepoPG{pool: pool}
}

func (r *testRepoPG) Create(ctx context.Context, t *LabTest) error {
	t.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO lab_test (
			id, name, category, sample_type, price, report_hours,
			home_collection, fasting_required, active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.Name, t.Category, t.SampleType, t.Price, t.ReportHours,
		t.HomeCollection, t.FastingRequired, t.Active,
	)
	return err
}

func (r *testRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*LabTest, error) {
	return r.scanTest(r.pool.QueryRow(ctx,
		`SELECT `+testColumns+` FROM lab_test WHERE id = $1`, id))
}

func (r *testRepoPG) Update(ctx context.Context, t *LabTest) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE lab_test SET
			name = $2, category = $3, sample_type = $4, price = $5,
			report_hours = $6, home_collection = $7, fasting_required = $8,
			active = $9, updated_at = NOW()
		WHERE id = $1`,
		t.ID, t.Name, t.Category, t.SampleType, t.Price,
		t.ReportHours, t.HomeCollection, t.FastingRequired, t.Active,
	)
	return err
}

func (r *testRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM lab_test WHERE id = $1`, id)
	return err
}

func (r *testRepoPG) List(ctx context.Context, search, category string, limit, offset int) ([]*LabTest, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	idx := 1
	if search != "" {
		where += fmt.Sprintf(` AND name ILIKE $%d`, idx)
		args = append(args, "%"+search+"%")
		idx++
	}
	if category != "" {
		where += fmt.Sprintf(` AND category = $%d`, idx)
		args = append(args, category)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM lab_test`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM lab_test%s ORDER BY name LIMIT $%d OFFSET $%d`,
		testColumns, where, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tests []*LabTest
	for rows.Next() {
		t, err := r.scanTest(rows)
		if err != nil {
			return nil, 0, err
		}
		tests = append(tests, t)
	}
	return tests, total, rows.Err()
}

func (r *testRepoPG) ListAll(ctx context.Context) ([]*LabTest, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+testColumns+` FROM lab_test ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tests []*LabTest
	for rows.Next() {
		t, err := r.scanTest(rows)
		if err != nil {
			return nil, err
		}
		tests = append(tests, t)
	}
	return tests, rows.Err()
}

func (r *testRepoPG) scanTest(row pgx.Row) (*LabTest, error) {
	var t LabTest
	err := row.Scan(
		&t.ID, &t.Name, &t.Category, &t.SampleType, &t.Price, &t.ReportHours,
		&t.HomeCollection, &t.FastingRequired, &t.Active, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// -- XRayService Repository --

const xrayColumns = `id, name, body_part, price, digital, active, created_at, updated_at`

type xrayRepoPG struct {
	pool *pgxpool.Pool
}

func NewXRayServiceRepo(pool *pgxpool.Pool) XRayServiceRepository {
	return &xrayRepoPG{pool: pool}
}

func (r *xrayRepoPG) Create(ctx context.Context, x *XRayService) error {
	x.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO xray_service (id, name, body_part, price, digital, active)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		x.ID, x.Name, x.BodyPart, x.Price, x.Digital, x.Active,
	)
	return err
}

func (r *xrayRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*XRayService, error) {
	return r.scanXRay(r.pool.QueryRow(ctx,
		`SELECT `+xrayColumns+` FROM xray_service WHERE id = $1`, id))
}

func (r *xrayRepoPG) Update(ctx context.Context, x *XRayService) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE xray_service SET
			name = $2, body_part = $3, price = $4, digital = $5, active = $6,
			updated_at = NOW()
		WHERE id = $1`,
		x.ID, x.Name, x.BodyPart, x.Price, x.Digital, x.Active,
	)
	return err
}

func (r *xrayRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM xray_service WHERE id = $1`, id)
	return err
}

func (r *xrayRepoPG) List(ctx context.Context, search string, limit, offset int) ([]*XRayService, int, error) {
	where := ``
	args := []interface{}{}
	if search != "" {
		where = ` WHERE name ILIKE $1 OR body_part ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM xray_service`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM xray_service%s ORDER BY name LIMIT $%d OFFSET $%d`,
		xrayColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var services []*XRayService
	for rows.Next() {
		x, err := r.scanXRay(rows)
		if err != nil {
			return nil, 0, err
		}
		services = append(services, x)
	}
	return services, total, rows.Err()
}

func (r *xrayRepoPG) ListAll(ctx context.Context) ([]*XRayService, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+xrayColumns+` FROM xray_service ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []*XRayService
	for rows.Next() {
		x, err := r.scanXRay(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, x)
	}
	return services, rows.Err()
}

func (r *xrayRepoPG) scanXRay(row pgx.Row) (*XRayService, error) {
	var x XRayService
	err := row.Scan(
		&x.ID, &x.Name, &x.BodyPart, &x.Price, &x.Digital, &x.Active,
		&x.CreatedAt, &x.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &x, nil
}
