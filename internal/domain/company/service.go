package company

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/caregrid/admin-api/internal/platform/bulk"
)

type Service struct {
	companies CompanyRepository
	employees EmployeeRepository
	questions HRAQuestionRepository
}

func NewService(companies CompanyRepository, employees EmployeeRepository, questions HRAQuestionRepository) *Service {
	return &Service{companies: companies, employees: employees, questions: questions}
}

// -- Company --

func (s *Service) CreateCompany(ctx context.Context, c *Company) error {
	if c.Name == "" {
		return fmt.Errorf("company name is required")
	}
	c.Active = true
	return s.companies.Create(ctx, c)
}

func (s *Service) GetCompany(ctx context.Context, id uuid.UUID) (*Company, error) {
	return s.companies.GetByID(ctx, id)
}

func (s *Service) UpdateCompany(ctx context.Context, c *Company) error {
	if c.Name == "" {
		return fmt.Errorf("company name is required")
	}
	return s.companies.Update(ctx, c)
}

func (s *Service) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	return s.companies.Delete(ctx, id)
}

func (s *Service) ListCompanies(ctx context.Context, search string, limit, offset int) ([]*Company, int, error) {
	return s.companies.List(ctx, search, limit, offset)
}

// -- Employee --

func (s *Service) CreateEmployee(ctx context.Context, e *Employee) error {
	if e.CompanyID == uuid.Nil {
		return fmt.Errorf("company id is required")
	}
	if e.Name == "" {
		return fmt.Errorf("employee name is required")
	}
	if e.EmployeeNo == "" {
		return fmt.Errorf("employee number is required")
	}
	if existing, err := s.employees.GetByEmployeeNo(ctx, e.CompanyID, e.EmployeeNo); err == nil && existing != nil {
		return fmt.Errorf("employee number %s already exists", e.EmployeeNo)
	}
	e.Active = true
	return s.employees.Create(ctx, e)
}

func (s *Service) GetEmployee(ctx context.Context, id uuid.UUID) (*Employee, error) {
	return s.employees.GetByID(ctx, id)
}

func (s *Service) UpdateEmployee(ctx context.Context, e *Employee) error {
	if e.Name == "" {
		return fmt.Errorf("employee name is required")
	}
	return s.employees.Update(ctx, e)
}

func (s *Service) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	return s.employees.Delete(ctx, id)
}

func (s *Service) ListEmployees(ctx context.Context, companyID uuid.UUID, search string, limit, offset int) ([]*Employee, int, error) {
	return s.employees.List(ctx, companyID, search, limit, offset)
}

// -- Employee bulk transfer --

var employeeMapping = bulk.Mapping{
	{Header: "Employee No", Field: "employee_no"},
	{Header: "Name", Field: "name"},
	{Header: "Department", Field: "department"},
	{Header: "Phone", Field: "phone"},
	{Header: "Email", Field: "email"},
	{Header: "Date of Birth", Field: "date_of_birth"},
	{Header: "Gender", Field: "gender"},
	{Header: "Active", Field: "active"},
}

const employeeDateLayout = "02-01-2006"

// ExportEmployees writes a company's roster as CSV or XLSX.
func (s *Service) ExportEmployees(ctx context.Context, w io.Writer, companyID uuid.UUID, format string) error {
	employees, err := s.employees.ListAllByCompany(ctx, companyID)
	if err != nil {
		return err
	}

	rows := make([]bulk.Row, 0, len(employees))
	for _, e := range employees {
		row := bulk.Row{
			"employee_no": e.EmployeeNo,
			"name":        e.Name,
			"active":      bulk.FormatYesNo(e.Active),
		}
		if e.Department != nil {
			row["department"] = *e.Department
		}
		if e.Phone != nil {
			row["phone"] = *e.Phone
		}
		if e.Email != nil {
			row["email"] = *e.Email
		}
		if e.DateOfBirth != nil {
			row["date_of_birth"] = e.DateOfBirth.Format(employeeDateLayout)
		}
		if e.Gender != nil {
			row["gender"] = *e.Gender
		}
		rows = append(rows, row)
	}

	switch format {
	case "xlsx":
		return bulk.ExportXLSX(w, employeeMapping, rows)
	default:
		return bulk.ExportCSV(w, employeeMapping, rows)
	}
}

// ImportEmployees reads a CSV or XLSX roster and creates an employee per
// row. Rows without a name or employee number are skipped; a duplicate
// employee number aborts the import at that row.
func (s *Service) ImportEmployees(ctx context.Context, companyID uuid.UUID, filename string, r io.Reader) (int, error) {
	rows, err := bulk.Import(filename, r)
	if err != nil {
		return 0, err
	}

	created := 0
	for i, row := range rows {
		if row["Name"] == "" || row["Employee No"] == "" {
			continue
		}
		e := &Employee{
			CompanyID:  companyID,
			EmployeeNo: row["Employee No"],
			Name:       row["Name"],
		}
		if v := row["Department"]; v != "" {
			e.Department = &v
		}
		if v := row["Phone"]; v != "" {
			e.Phone = &v
		}
		if v := row["Email"]; v != "" {
			e.Email = &v
		}
		if v := row["Date of Birth"]; v != "" {
			if t, err := time.Parse(employeeDateLayout, v); err == nil {
				e.DateOfBirth = &t
			}
		}
		if v := row["Gender"]; v != "" {
			e.Gender = &v
		}
		if err := s.CreateEmployee(ctx, e); err != nil {
			return created, fmt.Errorf("row %d: %w", i+2, err)
		}
		created++
	}
	return created, nil
}

// -- HRAQuestion --

func (s *Service) CreateQuestion(ctx context.Context, q *HRAQuestion) error {
	if q.Text == "" {
		return fmt.Errorf("question text is required")
	}
	switch q.Type {
	case QuestionYesNo, QuestionChoice, QuestionNumeric, QuestionFreeText:
	default:
		return fmt.Errorf("unknown question type %q", q.Type)
	}
	if q.Type == QuestionChoice && len(q.Choices) < 2 {
		return fmt.Errorf("choice questions need at least two choices")
	}
	q.Active = true
	return s.questions.Create(ctx, q)
}

func (s *Service) GetQuestion(ctx context.Context, id uuid.UUID) (*HRAQuestion, error) {
	return s.questions.GetByID(ctx, id)
}

func (s *Service) UpdateQuestion(ctx context.Context, q *HRAQuestion) error {
	if q.Text == "" {
		return fmt.Errorf("question text is required")
	}
	if q.Type == QuestionChoice && len(q.Choices) < 2 {
		return fmt.Errorf("choice questions need at least two choices")
	}
	return s.questions.Update(ctx, q)
}

func (s *Service) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	return s.questions.Delete(ctx, id)
}

func (s *Service) ListQuestions(ctx context.Context, companyID *uuid.UUID) ([]*HRAQuestion, error) {
	return s.questions.ListByCompany(ctx, companyID)
}
