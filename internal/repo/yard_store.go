package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"motoyard/internal/models"
)

type YardStore struct{ db *gorm.DB }

func NewYardStore(db *gorm.DB) *YardStore { return &YardStore{db: db} }

// GetByID returns (nil, nil) when the yard does not exist.
func (s *YardStore) GetByID(ctx context.Context, id uint) (*models.Yard, error) {
	var y models.Yard
	err := s.db.WithContext(ctx).First(&y, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &y, nil
}

var yardSortColumns = map[string]string{
	"name":       "name",
	"city":       "city",
	"capacity":   "capacity",
	"created_at": "created_at",
}

func (s *YardStore) GetPage(ctx context.Context, p models.PageParams) ([]models.Yard, int64, error) {
	p = p.Normalize()
	q := s.db.WithContext(ctx).Model(&models.Yard{})
	if p.Search != "" {
		like := "%" + p.Search + "%"
		q = q.Where("name LIKE ? OR city LIKE ?", like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []models.Yard
	err := q.Order(orderClause(yardSortColumns, p)).
		Offset(p.Offset()).Limit(p.Size).Find(&items).Error
	return items, total, err
}

func (s *YardStore) Create(ctx context.Context, y *models.Yard) error {
	return s.db.WithContext(ctx).Create(y).Error
}

func (s *YardStore) Update(ctx context.Context, y *models.Yard) error {
	return s.db.WithContext(ctx).Save(y).Error
}

func (s *YardStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Yard{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
