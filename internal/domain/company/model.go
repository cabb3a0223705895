package company

import (
	"time"

	"github.com/google/uuid"
)

// Company maps to the company table. Corporate clients book packages
// and health risk assessments for their employees.
type Company struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	ContactPerson *string   `db:"contact_person" json:"contact_person,omitempty"`
	Phone         *string   `db:"phone" json:"phone,omitempty"`
	Email         *string   `db:"email" json:"email,omitempty"`
	GSTNumber     *string   `db:"gst_number" json:"gst_number,omitempty"`
	City          *string   `db:"city" json:"city,omitempty"`
	EmployeeCount int       `db:"employee_count" json:"employee_count"`
	Active        bool      `db:"active" json:"active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Employee maps to the employee table.
type Employee struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	CompanyID   uuid.UUID  `db:"company_id" json:"company_id"`
	EmployeeNo  string     `db:"employee_no" json:"employee_no"`
	Name        string     `db:"name" json:"name"`
	Department  *string    `db:"department" json:"department,omitempty"`
	Phone       *string    `db:"phone" json:"phone,omitempty"`
	Email       *string    `db:"email" json:"email,omitempty"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender      *string    `db:"gender" json:"gender,omitempty"`
	Active      bool       `db:"active" json:"active"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// QuestionType describes how an HRA question is answered.
type QuestionType string

const (
	QuestionYesNo    QuestionType = "yes_no"
	QuestionChoice   QuestionType = "choice"
	QuestionNumeric  QuestionType = "numeric"
	QuestionFreeText QuestionType = "free_text"
)

// HRAQuestion maps to the hra_question table. The question bank feeds
// the health risk assessment forms sent to company employees.
type HRAQuestion struct {
	ID        uuid.UUID    `db:"id" json:"id"`
	CompanyID *uuid.UUID   `db:"company_id" json:"company_id,omitempty"`
	Text      string       `db:"text" json:"text"`
	Type      QuestionType `db:"type" json:"type"`
	Choices   []string     `db:"choices" json:"choices,omitempty"`
	Position  int          `db:"position" json:"position"`
	Active    bool         `db:"active" json:"active"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
}

func (e *Employee) SearchFields() []string {
	fields := []string{e.EmployeeNo, e.Name}
	if e.Department != nil {
		fields = append(fields, *e.Department)
	}
	if e.Email != nil {
		fields = append(fields, *e.Email)
	}
	return fields
}
