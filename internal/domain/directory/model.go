package directory

import (
	"time"

	"github.com/google/uuid"
)

// DiagnosticCenter maps to the diagnostic_center table.
type DiagnosticCenter struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	ContactPerson *string   `db:"contact_person" json:"contact_person,omitempty"`
	Phone         *string   `db:"phone" json:"phone,omitempty"`
	Email         *string   `db:"email" json:"email,omitempty"`
	AddressLine1  *string   `db:"address_line1" json:"address_line1,omitempty"`
	AddressLine2  *string   `db:"address_line2" json:"address_line2,omitempty"`
	City          *string   `db:"city" json:"city,omitempty"`
	State         *string   `db:"state" json:"state,omitempty"`
	PostalCode    *string   `db:"postal_code" json:"postal_code,omitempty"`
	Active        bool      `db:"active" json:"active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Doctor maps to the doctor table.
type Doctor struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	Name               string     `db:"name" json:"name"`
	Specialization     string     `db:"specialization" json:"specialization"`
	Qualification      *string    `db:"qualification" json:"qualification,omitempty"`
	RegistrationNumber *string    `db:"registration_number" json:"registration_number,omitempty"`
	ExperienceYears    int        `db:"experience_years" json:"experience_years"`
	ConsultationFee    float64    `db:"consultation_fee" json:"consultation_fee"`
	Phone              *string    `db:"phone" json:"phone,omitempty"`
	Email              *string    `db:"email" json:"email,omitempty"`
	DiagnosticCenterID *uuid.UUID `db:"diagnostic_center_id" json:"diagnostic_center_id,omitempty"`
	ProfileImageID     *string    `db:"profile_image_id" json:"profile_image_id,omitempty"`
	Active             bool       `db:"active" json:"active"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// DoctorSlot maps to the doctor_slot table. StartTime and EndTime are
// wall-clock strings in "15:04" form.
type DoctorSlot struct {
	ID        uuid.UUID `db:"id" json:"id"`
	DoctorID  uuid.UUID `db:"doctor_id" json:"doctor_id"`
	SlotDate  time.Time `db:"slot_date" json:"slot_date"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	Capacity  int       `db:"capacity" json:"capacity"`
	Booked    int       `db:"booked" json:"booked"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SlotPatch carries the fields a slot update may change. Nil fields keep
// their stored values.
type SlotPatch struct {
	SlotDate  *time.Time `json:"slot_date,omitempty"`
	StartTime *string    `json:"start_time,omitempty"`
	EndTime   *string    `json:"end_time,omitempty"`
	Capacity  *int       `json:"capacity,omitempty"`
	Active    *bool      `json:"active,omitempty"`
}

// Staff maps to the staff table. Staff members belong to a diagnostic center.
type Staff struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	DiagnosticCenterID uuid.UUID  `db:"diagnostic_center_id" json:"diagnostic_center_id"`
	Name               string     `db:"name" json:"name"`
	Role               string     `db:"role" json:"role"`
	Phone              *string    `db:"phone" json:"phone,omitempty"`
	Email              *string    `db:"email" json:"email,omitempty"`
	JoinedOn           *time.Time `db:"joined_on" json:"joined_on,omitempty"`
	Active             bool       `db:"active" json:"active"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// SearchFields returns the values the list search matches against.
func (d *Doctor) SearchFields() []string {
	fields := []string{d.Name, d.Specialization}
	if d.Qualification != nil {
		fields = append(fields, *d.Qualification)
	}
	return fields
}

func (s *Staff) SearchFields() []string {
	fields := []string{s.Name, s.Role}
	if s.Email != nil {
		fields = append(fields, *s.Email)
	}
	return fields
}
