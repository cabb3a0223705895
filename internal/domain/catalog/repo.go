package catalog

import (
	"context"

	"github.com/google/uuid"
)

type HealthPackageRepository interface {
	Create(ctx context.Context, p *HealthPackage) error
	GetByID(ctx context.Context, id uuid.UUID) (*HealthPackage, error)
	Update(ctx context.Context, p *HealthPackage) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search string, limit, offset int) ([]*HealthPackage, int, error)
	ListAll(ctx context.Context) ([]*HealthPackage, error)
}

type LabTestRepository interface {
	Create(ctx context.Context, t *LabTest) error
	GetByID(ctx context.Context, id uuid.UUID) (*LabTest, error)
	Update(ctx context.Context, t *LabTest) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search, category string, limit, offset int) ([]*LabTest, int, error)
	ListAll(ctx context.Context) ([]*LabTest, error)
}

type XRayServiceRepository interface {
	Create(ctx context.Context, x *XRayService) error
	GetByID(ctx context.Context, id uuid.UUID) (*XRayService, error)
	Update(ctx context.Context, x *XRayService) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search string, limit, offset int) ([]*XRayService, int, error)
	ListAll(ctx context.Context) ([]*XRayService, error)
}
