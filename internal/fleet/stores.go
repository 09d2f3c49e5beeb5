package fleet

import (
	"context"

	"motoyard/internal/models"
)

// VehicleStore is the persistence contract the engine consumes.
// Lookups return (nil, nil) when the row is absent.
type VehicleStore interface {
	GetByID(ctx context.Context, id uint) (*models.Vehicle, error)
	GetByPlate(ctx context.Context, plate string) (*models.Vehicle, error)
	GetByChassis(ctx context.Context, chassis string) (*models.Vehicle, error)
	ExistsByPlate(ctx context.Context, plate string, excludeID uint) (bool, error)
	ExistsByChassis(ctx context.Context, chassis string, excludeID uint) (bool, error)
	GetPage(ctx context.Context, p models.PageParams) ([]models.Vehicle, int64, error)
	GetPageByYard(ctx context.Context, yardID uint, p models.PageParams) ([]models.Vehicle, int64, error)
	CountByYard(ctx context.Context, yardID uint) (int64, error)
	Create(ctx context.Context, v *models.Vehicle) error
	Update(ctx context.Context, v *models.Vehicle) error
	Delete(ctx context.Context, id uint) error
}

type YardStore interface {
	GetByID(ctx context.Context, id uint) (*models.Yard, error)
	GetPage(ctx context.Context, p models.PageParams) ([]models.Yard, int64, error)
	Create(ctx context.Context, y *models.Yard) error
	Update(ctx context.Context, y *models.Yard) error
	Delete(ctx context.Context, id uint) error
}
