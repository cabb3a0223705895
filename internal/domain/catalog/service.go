package catalog

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"

	"github.com/caregrid/admin-api/internal/platform/bulk"
)

type Service struct {
	packages HealthPackageRepository
	tests    LabTestRepository
	xrays    XRayServiceRepository
}

func NewService(packages HealthPackageRepository, tests LabTestRepository, xrays XRayServiceRepository) *Service {
	return &Service{packages: packages, tests: tests, xrays: xrays}
}

// -- HealthPackage --

func (s *Service) CreatePackage(ctx context.Context, p *HealthPackage) error {
	if p.Name == "" {
		return fmt.Errorf("package name is required")
	}
	if p.Price <= 0 {
		return fmt.Errorf("package price must be positive")
	}
	if p.DiscountPrice != nil && *p.DiscountPrice > p.Price {
		return fmt.Errorf("discount price cannot exceed the list price")
	}
	p.Active = true
	return s.packages.Create(ctx, p)
}

func (s *Service) GetPackage(ctx context.Context, id uuid.UUID) (*HealthPackage, error) {
	return s.packages.GetByID(ctx, id)
}

func (s *Service) UpdatePackage(ctx context.Context, p *HealthPackage) error {
	if p.Name == "" {
		return fmt.Errorf("package name is required")
	}
	if p.Price <= 0 {
		return fmt.Errorf("package price must be positive")
	}
	return s.packages.Update(ctx, p)
}

func (s *Service) DeletePackage(ctx context.Context, id uuid.UUID) error {
	return s.packages.Delete(ctx, id)
}

func (s *Service) ListPackages(ctx context.Context, search string, limit, offset int) ([]*HealthPackage, int, error) {
	return s.packages.List(ctx, search, limit, offset)
}

// -- LabTest --

func (s *Service) CreateTest(ctx context.Context, t *LabTest) error {
	if t.Name == "" {
		return fmt.Errorf("test name is required")
	}
	if t.Category == "" {
		return fmt.Errorf("test category is required")
	}
	if t.Price <= 0 {
		return fmt.Errorf("test price must be positive")
	}
	t.Active = true
	return s.tests.Create(ctx, t)
}

func (s *Service) GetTest(ctx context.Context, id uuid.UUID) (*LabTest, error) {
	return s.tests.GetByID(ctx, id)
}

func (s *Service) UpdateTest(ctx context.Context, t *LabTest) error {
	if t.Name == "" {
		return fmt.Errorf("test name is required")
	}
	if t.Price <= 0 {
		return fmt.Errorf("test price must be positive")
	}
	return s.tests.Update(ctx, t)
}

func (s *Service) DeleteTest(ctx context.Context, id uuid.UUID) error {
	return s.tests.Delete(ctx, id)
}

func (s *Service) ListTests(ctx context.Context, search, category string, limit, offset int) ([]*LabTest, int, error) {
	return s.tests.List(ctx, search, category, limit, offset)
}

// -- XRayService --

func (s *Service) CreateXRay(ctx context.Context, x *XRayService) error {
	if x.Name == "" {
		return fmt.Errorf("x-ray service name is required")
	}
	if x.BodyPart == "" {
		return fmt.Errorf("body part is required")
	}
	if x.Price <= 0 {
		return fmt.Errorf("x-ray price must be positive")
	}
	x.Active = true
	return s.xrays.Create(ctx, x)
}

func (s *Service) GetXRay(ctx context.Context, id uuid.UUID) (*XRayService, error) {
	return s.xrays.GetByID(ctx, id)
}

func (s *Service) UpdateXRay(ctx context.Context, x *XRayService) error {
	if x.Name == "" {
		return fmt.Errorf("x-ray service name is required")
	}
	if x.Price <= 0 {
		return fmt.Errorf("x-ray price must be positive")
	}
	return s.xrays.Update(ctx, x)
}

func (s *Service) DeleteXRay(ctx context.Context, id uuid.UUID) error {
	return s.xrays.Delete(ctx, id)
}

func (s *Service) ListXRays(ctx context.Context, search string, limit, offset int) ([]*XRayService, int, error) {
	return s.xrays.List(ctx, search, limit, offset)
}

// -- Bulk transfer --

var testMapping = bulk.Mapping{
	{Header: "Name", Field: "name"},
	{Header: "Category", Field: "category"},
	{Header: "Sample Type", Field: "sample_type"},
	{Header: "Price", Field: "price"},
	{Header: "Report Hours", Field: "report_hours"},
	{Header: "Home Collection", Field: "home_collection"},
	{Header: "Fasting Required", Field: "fasting_required"},
	{Header: "Active", Field: "active"},
}

var packageMapping = bulk.Mapping{
	{Header: "Name", Field: "name"},
	{Header: "Description", Field: "description"},
	{Header: "Price", Field: "price"},
	{Header: "Discount Price", Field: "discount_price"},
	{Header: "Test Count", Field: "test_count"},
	{Header: "Home Collection", Field: "home_collection"},
	{Header: "Fasting Required", Field: "fasting_required"},
	{Header: "Active", Field: "active"},
}

// ExportTests writes the whole lab test catalog as CSV or XLSX. Prices are
// rendered with the rupee prefix and booleans as Yes/No.
func (s *Service) ExportTests(ctx context.Context, w io.Writer, format string) error {
	tests, err := s.tests.ListAll(ctx)
	if err != nil {
		return err
	}

	rows := make([]bulk.Row, 0, len(tests))
	for _, t := range tests {
		row := bulk.Row{
			"name":             t.Name,
			"category":         t.Category,
			"price":            bulk.FormatRupees(t.Price),
			"report_hours":     strconv.Itoa(t.ReportHours),
			"home_collection":  bulk.FormatYesNo(t.HomeCollection),
			"fasting_required": bulk.FormatYesNo(t.FastingRequired),
			"active":           bulk.FormatYesNo(t.Active),
		}
		if t.SampleType != nil {
			row["sample_type"] = *t.SampleType
		}
		rows = append(rows, row)
	}

	switch format {
	case "xlsx":
		return bulk.ExportXLSX(w, testMapping, rows)
	default:
		return bulk.ExportCSV(w, testMapping, rows)
	}
}

// ImportTests reads a CSV or XLSX catalog and creates a lab test per row.
// Rows without a name are skipped.
func (s *Service) ImportTests(ctx context.Context, filename string, r io.Reader) (int, error) {
	rows, err := bulk.Import(filename, r)
	if err != nil {
		return 0, err
	}

	created := 0
	for i, row := range rows {
		if row["Name"] == "" {
			continue
		}
		price, err := bulk.ParseRupees(row["Price"])
		if err != nil {
			return created, fmt.Errorf("row %d: %w", i+2, err)
		}
		t := &LabTest{
			Name:            row["Name"],
			Category:        row["Category"],
			Price:           price,
			HomeCollection:  bulk.ParseYesNo(row["Home Collection"]),
			FastingRequired: bulk.ParseYesNo(row["Fasting Required"]),
		}
		if t.Category == "" {
			t.Category = "general"
		}
		if v := row["Sample Type"]; v != "" {
			t.SampleType = &v
		}
		if v := row["Report Hours"]; v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				t.ReportHours = n
			}
		}
		if err := s.CreateTest(ctx, t); err != nil {
			return created, fmt.Errorf("row %d: %w", i+2, err)
		}
		created++
	}
	return created, nil
}

// ExportPackages writes the package catalog as CSV or XLSX.
func (s *Service) ExportPackages(ctx context.Context, w io.Writer, format string) error {
	packages, err := s.packages.ListAll(ctx)
	if err != nil {
		return err
	}

	rows := make([]bulk.Row, 0, len(packages))
	for _, p := range packages {
		row := bulk.Row{
			"name":             p.Name,
			"price":            bulk.FormatRupees(p.Price),
			"test_count":       strconv.Itoa(p.TestCount),
			"home_collection":  bulk.FormatYesNo(p.HomeCollection),
			"fasting_required": bulk.FormatYesNo(p.FastingRequired),
			"active":           bulk.FormatYesNo(p.Active),
		}
		if p.Description != nil {
			row["description"] = *p.Description
		}
		if p.DiscountPrice != nil {
			row["discount_price"] = bulk.FormatRupees(*p.DiscountPrice)
		}
		rows = append(rows, row)
	}

	switch format {
	case "xlsx":
		return bulk.ExportXLSX(w, packageMapping, rows)
	default:
		return bulk.ExportCSV(w, packageMapping, rows)
	}
}

// ImportPackages reads a CSV or XLSX catalog and creates a package per row.
func (s *Service) ImportPackages(ctx context.Context, filename string, r io.Reader) (int, error) {
	rows, err := bulk.Import(filename, r)
	if err != nil {
		return 0, err
	}

	created := 0
	for i, row := range rows {
		if row["Name"] == "" {
			continue
		}
		price, err := bulk.ParseRupees(row["Price"])
		if err != nil {
			return created, fmt.Errorf("row %d: %w", i+2, err)
		}
		p := &HealthPackage{
			Name:            row["Name"],
			Price:           price,
			HomeCollection:  bulk.ParseYesNo(row["Home Collection"]),
			FastingRequired: bulk.ParseYesNo(row["Fasting Required"]),
		}
		if v := row["Description"]; v != "" {
			p.Description = &v
		}
		if v := row["Discount Price"]; v != "" {
			if d, err := bulk.ParseRupees(v); err == nil {
				p.DiscountPrice = &d
			}
		}
		if v := row["Test Count"]; v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				p.TestCount = n
			}
		}
		if err := s.CreatePackage(ctx, p); err != nil {
			return created, fmt.Errorf("row %d: %w", i+2, err)
		}
		created++
	}
	return created, nil
}
