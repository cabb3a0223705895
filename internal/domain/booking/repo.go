package booking

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows the booking set a listing operates on. Zero values
// mean "any".
type Filter struct {
	Status             Status
	CompanyID          *uuid.UUID
	DiagnosticCenterID *uuid.UUID
}

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByRef(ctx context.Context, ref string) (*Booking, error)
	Update(ctx context.Context, b *Booking) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListAll(ctx context.Context, f Filter) ([]*Booking, error)
}
