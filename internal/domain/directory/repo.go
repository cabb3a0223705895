package directory

import (
	"context"

	"github.com/google/uuid"
)

type DiagnosticCenterRepository interface {
	Create(ctx context.Context, dc *DiagnosticCenter) error
	GetByID(ctx context.Context, id uuid.UUID) (*DiagnosticCenter, error)
	Update(ctx context.Context, dc *DiagnosticCenter) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search string, limit, offset int) ([]*DiagnosticCenter, int, error)
}

type DoctorRepository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	Update(ctx context.Context, d *Doctor) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search string, centerID *uuid.UUID, limit, offset int) ([]*Doctor, int, error)
}

type DoctorSlotRepository interface {
	Create(ctx context.Context, s *DoctorSlot) error
	GetByID(ctx context.Context, id uuid.UUID) (*DoctorSlot, error)
	Update(ctx context.Context, s *DoctorSlot) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*DoctorSlot, error)
}

type StaffRepository interface {
	Create(ctx context.Context, s *Staff) error
	GetByID(ctx context.Context, id uuid.UUID) (*Staff, error)
	Update(ctx context.Context, s *Staff) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, centerID uuid.UUID, search string, limit, offset int) ([]*Staff, int, error)
	ListAllByCenter(ctx context.Context, centerID uuid.UUID) ([]*Staff, error)
}
