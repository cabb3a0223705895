package company

import (
	"context"

	"github.com/google/uuid"
)

type CompanyRepository interface {
	Create(ctx context.Context, c *Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*Company, error)
	Update(ctx context.Context, c *Company) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search string, limit, offset int) ([]*Company, int, error)
}

type EmployeeRepository interface {
	Create(ctx context.Context, e *Employee) error
	GetByID(ctx context.Context, id uuid.UUID) (*Employee, error)
	GetByEmployeeNo(ctx context.Context, companyID uuid.UUID, employeeNo string) (*Employee, error)
	Update(ctx context.Context, e *Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, companyID uuid.UUID, search string, limit, offset int) ([]*Employee, int, error)
	ListAllByCompany(ctx context.Context, companyID uuid.UUID) ([]*Employee, error)
}

type HRAQuestionRepository interface {
	Create(ctx context.Context, q *HRAQuestion) error
	GetByID(ctx context.Context, id uuid.UUID) (*HRAQuestion, error)
	Update(ctx context.Context, q *HRAQuestion) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByCompany(ctx context.Context, companyID *uuid.UUID) ([]*HRAQuestion, error)
}
