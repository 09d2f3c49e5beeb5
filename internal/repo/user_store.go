package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"motoyard/internal/models"
)

type UserStore struct{ db *gorm.DB }

func NewUserStore(db *gorm.DB) *UserStore { return &UserStore{db: db} }

// GetByID returns (nil, nil) when the user does not exist.
func (s *UserStore) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error) {
	q := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", NormalizeEmail(email))
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

var userSortColumns = map[string]string{
	"name":       "name",
	"email":      "email",
	"created_at": "created_at",
}

func (s *UserStore) GetPage(ctx context.Context, p models.PageParams) ([]models.User, int64, error) {
	p = p.Normalize()
	q := s.db.WithContext(ctx).Model(&models.User{})
	if p.Search != "" {
		like := "%" + p.Search + "%"
		q = q.Where("name LIKE ? OR email LIKE ?", like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []models.User
	err := q.Order(orderClause(userSortColumns, p)).
		Offset(p.Offset()).Limit(p.Size).Find(&items).Error
	return items, total, err
}

func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	u.Email = NormalizeEmail(u.Email)
	err := s.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (s *UserStore) Update(ctx context.Context, u *models.User) error {
	u.Email = NormalizeEmail(u.Email)
	err := s.db.WithContext(ctx).Save(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (s *UserStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
