package directory

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/caregrid/admin-api/internal/platform/bulk"
)

type Service struct {
	centers DiagnosticCenterRepository
	doctors DoctorRepository
	slots   DoctorSlotRepository
	staff   StaffRepository
}

func NewService(centers DiagnosticCenterRepository, doctors DoctorRepository, slots DoctorSlotRepository, staff StaffRepository) *Service {
	return &Service{centers: centers, doctors: doctors, slots: slots, staff: staff}
}

// -- DiagnosticCenter --

func (s *Service) CreateCenter(ctx context.Context, dc *DiagnosticCenter) error {
	if dc.Name == "" {
		return fmt.Errorf("diagnostic center name is required")
	}
	dc.Active = true
	return s.centers.Create(ctx, dc)
}

func (s *Service) GetCenter(ctx context.Context, id uuid.UUID) (*DiagnosticCenter, error) {
	return s.centers.GetByID(ctx, id)
}

func (s *Service) UpdateCenter(ctx context.Context, dc *DiagnosticCenter) error {
	if dc.Name == "" {
		return fmt.Errorf("diagnostic center name is required")
	}
	return s.centers.Update(ctx, dc)
}

func (s *Service) DeleteCenter(ctx context.Context, id uuid.UUID) error {
	return s.centers.Delete(ctx, id)
}

func (s *Service) ListCenters(ctx context.Context, search string, limit, offset int) ([]*DiagnosticCenter, int, error) {
	return s.centers.List(ctx, search, limit, offset)
}

// -- Doctor --

func (s *Service) CreateDoctor(ctx context.Context, d *Doctor) error {
	if d.Name == "" {
		return fmt.Errorf("doctor name is required")
	}
	if d.Specialization == "" {
		return fmt.Errorf("specialization is required")
	}
	if d.ConsultationFee < 0 {
		return fmt.Errorf("consultation fee cannot be negative")
	}
	d.Active = true
	return s.doctors.Create(ctx, d)
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

func (s *Service) UpdateDoctor(ctx context.Context, d *Doctor) error {
	if d.Name == "" {
		return fmt.Errorf("doctor name is required")
	}
	if d.Specialization == "" {
		return fmt.Errorf("specialization is required")
	}
	return s.doctors.Update(ctx, d)
}

func (s *Service) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	return s.doctors.Delete(ctx, id)
}

func (s *Service) ListDoctors(ctx context.Context, search string, centerID *uuid.UUID, limit, offset int) ([]*Doctor, int, error) {
	return s.doctors.List(ctx, search, centerID, limit, offset)
}

// -- DoctorSlot --

func (s *Service) CreateSlot(ctx context.Context, slot *DoctorSlot) error {
	if slot.DoctorID == uuid.Nil {
		return fmt.Errorf("doctor id is required")
	}
	if slot.StartTime == "" || slot.EndTime == "" {
		return fmt.Errorf("slot start and end times are required")
	}
	if err := validateSlotTimes(slot.StartTime, slot.EndTime); err != nil {
		return err
	}
	if slot.Capacity <= 0 {
		return fmt.Errorf("slot capacity must be positive")
	}
	if _, err := s.doctors.GetByID(ctx, slot.DoctorID); err != nil {
		return fmt.Errorf("doctor not found")
	}
	slot.Booked = 0
	slot.Active = true
	return s.slots.Create(ctx, slot)
}

// PatchSlot applies a partial update on top of the stored slot. Fields the
// caller did not send keep their stored values, so a sparse payload cannot
// blank out a slot.
func (s *Service) PatchSlot(ctx context.Context, id uuid.UUID, patch SlotPatch) (*DoctorSlot, error) {
	slot, err := s.slots.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.SlotDate != nil {
		slot.SlotDate = *patch.SlotDate
	}
	if patch.StartTime != nil {
		slot.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		slot.EndTime = *patch.EndTime
	}
	if patch.Capacity != nil {
		if *patch.Capacity < slot.Booked {
			return nil, fmt.Errorf("capacity %d is below booked count %d", *patch.Capacity, slot.Booked)
		}
		slot.Capacity = *patch.Capacity
	}
	if patch.Active != nil {
		slot.Active = *patch.Active
	}
	if err := validateSlotTimes(slot.StartTime, slot.EndTime); err != nil {
		return nil, err
	}

	if err := s.slots.Update(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

func (s *Service) DeleteSlot(ctx context.Context, id uuid.UUID) error {
	return s.slots.Delete(ctx, id)
}

func (s *Service) ListSlots(ctx context.Context, doctorID uuid.UUID) ([]*DoctorSlot, error) {
	return s.slots.ListByDoctor(ctx, doctorID)
}

func validateSlotTimes(start, end string) error {
	st, err := time.Parse("15:04", start)
	if err != nil {
		return fmt.Errorf("invalid start time %q", start)
	}
	et, err := time.Parse("15:04", end)
	if err != nil {
		return fmt.Errorf("invalid end time %q", end)
	}
	if !et.After(st) {
		return fmt.Errorf("slot end time must be after start time")
	}
	return nil
}

// -- Staff --

func (s *Service) CreateStaff(ctx context.Context, member *Staff) error {
	if member.DiagnosticCenterID == uuid.Nil {
		return fmt.Errorf("diagnostic center id is required")
	}
	if member.Name == "" {
		return fmt.Errorf("staff name is required")
	}
	if member.Role == "" {
		return fmt.Errorf("staff role is required")
	}
	member.Active = true
	return s.staff.Create(ctx, member)
}

func (s *Service) GetStaff(ctx context.Context, id uuid.UUID) (*Staff, error) {
	return s.staff.GetByID(ctx, id)
}

func (s *Service) UpdateStaff(ctx context.Context, member *Staff) error {
	if member.Name == "" {
		return fmt.Errorf("staff name is required")
	}
	if member.Role == "" {
		return fmt.Errorf("staff role is required")
	}
	return s.staff.Update(ctx, member)
}

func (s *Service) DeleteStaff(ctx context.Context, id uuid.UUID) error {
	return s.staff.Delete(ctx, id)
}

func (s *Service) ListStaff(ctx context.Context, centerID uuid.UUID, search string, limit, offset int) ([]*Staff, int, error) {
	return s.staff.List(ctx, centerID, search, limit, offset)
}

// staffMapping defines the column layout for staff bulk transfer.
var staffMapping = bulk.Mapping{
	{Header: "Name", Field: "name"},
	{Header: "Role", Field: "role"},
	{Header: "Phone", Field: "phone"},
	{Header: "Email", Field: "email"},
	{Header: "Joined On", Field: "joined_on"},
	{Header: "Active", Field: "active"},
}

const staffDateLayout = "02-01-2006"

// ExportStaff writes every staff member of a center as CSV or XLSX.
func (s *Service) ExportStaff(ctx context.Context, w io.Writer, centerID uuid.UUID, format string) error {
	members, err := s.staff.ListAllByCenter(ctx, centerID)
	if err != nil {
		return err
	}

	rows := make([]bulk.Row, 0, len(members))
	for _, m := range members {
		row := bulk.Row{
			"name":   m.Name,
			"role":   m.Role,
			"active": bulk.FormatYesNo(m.Active),
		}
		if m.Phone != nil {
			row["phone"] = *m.Phone
		}
		if m.Email != nil {
			row["email"] = *m.Email
		}
		if m.JoinedOn != nil {
			row["joined_on"] = m.JoinedOn.Format(staffDateLayout)
		}
		rows = append(rows, row)
	}

	switch format {
	case "xlsx":
		return bulk.ExportXLSX(w, staffMapping, rows)
	default:
		return bulk.ExportCSV(w, staffMapping, rows)
	}
}

// ImportStaff reads a CSV or XLSX roster and creates a staff member per row.
// Rows without a name are skipped; the count of created members is returned.
func (s *Service) ImportStaff(ctx context.Context, centerID uuid.UUID, filename string, r io.Reader) (int, error) {
	rows, err := bulk.Import(filename, r)
	if err != nil {
		return 0, err
	}

	created := 0
	for i, row := range rows {
		name := row["Name"]
		if name == "" {
			continue
		}
		member := &Staff{
			DiagnosticCenterID: centerID,
			Name:               name,
			Role:               row["Role"],
		}
		if member.Role == "" {
			member.Role = "staff"
		}
		if v := row["Phone"]; v != "" {
			member.Phone = &v
		}
		if v := row["Email"]; v != "" {
			member.Email = &v
		}
		if v := row["Joined On"]; v != "" {
			if t, err := time.Parse(staffDateLayout, v); err == nil {
				member.JoinedOn = &t
			}
		}
		if err := s.CreateStaff(ctx, member); err != nil {
			return created, fmt.Errorf("row %d: %w", i+2, err)
		}
		created++
	}
	return created, nil
}
