package booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusBooked    Status = "booked"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// transitions lists the states reachable from each status. Completed and
// cancelled are terminal.
var transitions = map[Status][]Status{
	StatusBooked:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// ValidStatus reports whether s names a known lifecycle state.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusBooked, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ServiceType distinguishes what was booked.
type ServiceType string

const (
	ServicePackage      ServiceType = "package"
	ServiceLabTest      ServiceType = "test"
	ServiceXRay         ServiceType = "xray"
	ServiceConsultation ServiceType = "consultation"
)

// Booking maps to the booking table. Ref is the human-readable booking
// number shown in listings and used as the folder name in attachment
// archives.
type Booking struct {
	ID                 uuid.UUID   `db:"id" json:"id"`
	Ref                string      `db:"ref" json:"ref"`
	PatientName        string      `db:"patient_name" json:"patient_name"`
	PatientPhone       *string     `db:"patient_phone" json:"patient_phone,omitempty"`
	PatientEmail       *string     `db:"patient_email" json:"patient_email,omitempty"`
	ServiceType        ServiceType `db:"service_type" json:"service_type"`
	ServiceName        string      `db:"service_name" json:"service_name"`
	CompanyID          *uuid.UUID  `db:"company_id" json:"company_id,omitempty"`
	DiagnosticCenterID *uuid.UUID  `db:"diagnostic_center_id" json:"diagnostic_center_id,omitempty"`
	DoctorID           *uuid.UUID  `db:"doctor_id" json:"doctor_id,omitempty"`
	Amount             float64     `db:"amount" json:"amount"`
	Status             Status      `db:"status" json:"status"`
	BookedAt           time.Time   `db:"booked_at" json:"booked_at"`
	Notes              *string     `db:"notes" json:"notes,omitempty"`
	CreatedAt          time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time   `db:"updated_at" json:"updated_at"`
}

// Transition moves the booking to next, rejecting jumps the lifecycle
// does not allow.
func (b *Booking) Transition(next Status) error {
	if b.Status == next {
		return nil
	}
	for _, allowed := range transitions[b.Status] {
		if allowed == next {
			b.Status = next
			return nil
		}
	}
	return fmt.Errorf("cannot move booking from %s to %s", b.Status, next)
}

// SearchFields returns the values the list search matches against.
func (b *Booking) SearchFields() []string {
	fields := []string{b.Ref, b.PatientName, b.ServiceName, string(b.Status)}
	if b.PatientPhone != nil {
		fields = append(fields, *b.PatientPhone)
	}
	if b.PatientEmail != nil {
		fields = append(fields, *b.PatientEmail)
	}
	return fields
}
