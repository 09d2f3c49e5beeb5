package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"motoyard/internal/models"
)

type VehicleStore struct{ db *gorm.DB }

func NewVehicleStore(db *gorm.DB) *VehicleStore { return &VehicleStore{db: db} }

// GetByID returns (nil, nil) when the vehicle does not exist.
func (s *VehicleStore) GetByID(ctx context.Context, id uint) (*models.Vehicle, error) {
	var v models.Vehicle
	err := s.db.WithContext(ctx).Preload("Yard").First(&v, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *VehicleStore) GetByPlate(ctx context.Context, plate string) (*models.Vehicle, error) {
	var v models.Vehicle
	err := s.db.WithContext(ctx).Preload("Yard").
		Where("plate = ?", NormalizePlate(plate)).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *VehicleStore) GetByChassis(ctx context.Context, chassis string) (*models.Vehicle, error) {
	var v models.Vehicle
	err := s.db.WithContext(ctx).Preload("Yard").
		Where("chassis = ?", NormalizeChassis(chassis)).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *VehicleStore) ExistsByPlate(ctx context.Context, plate string, excludeID uint) (bool, error) {
	q := s.db.WithContext(ctx).Model(&models.Vehicle{}).Where("plate = ?", NormalizePlate(plate))
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *VehicleStore) ExistsByChassis(ctx context.Context, chassis string, excludeID uint) (bool, error) {
	q := s.db.WithContext(ctx).Model(&models.Vehicle{}).Where("chassis = ?", NormalizeChassis(chassis))
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// vehicleSortColumns is the fixed set of sortable keys; anything else
// falls back to id ascending.
var vehicleSortColumns = map[string]string{
	"model":      "model",
	"plate":      "plate",
	"year":       "year",
	"created_at": "created_at",
}

func (s *VehicleStore) GetPage(ctx context.Context, p models.PageParams) ([]models.Vehicle, int64, error) {
	p = p.Normalize()
	q := s.db.WithContext(ctx).Model(&models.Vehicle{})
	if p.Search != "" {
		like := "%" + NormalizePlate(p.Search) + "%"
		q = q.Where("plate LIKE ? OR chassis LIKE ?", like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	q = q.Order(orderClause(vehicleSortColumns, p))
	var items []models.Vehicle
	err := q.Preload("Yard").Offset(p.Offset()).Limit(p.Size).Find(&items).Error
	return items, total, err
}

// GetPageByYard pages the vehicles currently assigned to one yard.
func (s *VehicleStore) GetPageByYard(ctx context.Context, yardID uint, p models.PageParams) ([]models.Vehicle, int64, error) {
	p = p.Normalize()
	q := s.db.WithContext(ctx).Model(&models.Vehicle{}).Where("yard_id = ?", yardID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []models.Vehicle
	err := q.Order(orderClause(vehicleSortColumns, p)).
		Offset(p.Offset()).Limit(p.Size).Find(&items).Error
	return items, total, err
}

func (s *VehicleStore) CountByYard(ctx context.Context, yardID uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Vehicle{}).
		Where("yard_id = ?", yardID).Count(&n).Error
	return n, err
}

func (s *VehicleStore) Create(ctx context.Context, v *models.Vehicle) error {
	v.Plate = NormalizePlate(v.Plate)
	v.Chassis = NormalizeChassis(v.Chassis)
	err := s.db.WithContext(ctx).Create(v).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (s *VehicleStore) Update(ctx context.Context, v *models.Vehicle) error {
	v.Plate = NormalizePlate(v.Plate)
	v.Chassis = NormalizeChassis(v.Chassis)
	err := s.db.WithContext(ctx).Save(v).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (s *VehicleStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Vehicle{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func orderClause(columns map[string]string, p models.PageParams) string {
	col, ok := columns[p.SortBy]
	if !ok {
		return "id ASC"
	}
	if p.SortDesc {
		return col + " DESC"
	}
	return col + " ASC"
}
