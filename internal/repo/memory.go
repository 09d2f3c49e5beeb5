package repo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"motoyard/internal/models"
)

// In-memory stores back the no-database configuration and the test
// suites. They mirror the GORM stores' contracts, including natural-key
// normalization and duplicate detection; the mutex makes writes
// race-free without a database constraint.

type MemVehicleStore struct {
	mu     sync.RWMutex
	nextID uint
	rows   map[uint]*models.Vehicle
	yards  *MemYardStore // optional, for preloading the yard reference
}

func NewMemVehicleStore(yards *MemYardStore) *MemVehicleStore {
	return &MemVehicleStore{rows: make(map[uint]*models.Vehicle), yards: yards}
}

func (s *MemVehicleStore) clone(v *models.Vehicle) *models.Vehicle {
	cp := *v
	if v.YardID != nil {
		id := *v.YardID
		cp.YardID = &id
		if s.yards != nil {
			if y, _ := s.yards.GetByID(context.Background(), id); y != nil {
				cp.Yard = y
			}
		}
	}
	return &cp
}

func (s *MemVehicleStore) GetByID(_ context.Context, id uint) (*models.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	return s.clone(v), nil
}

func (s *MemVehicleStore) GetByPlate(_ context.Context, plate string) (*models.Vehicle, error) {
	plate = NormalizePlate(plate)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.rows {
		if v.Plate == plate {
			return s.clone(v), nil
		}
	}
	return nil, nil
}

func (s *MemVehicleStore) GetByChassis(_ context.Context, chassis string) (*models.Vehicle, error) {
	chassis = NormalizeChassis(chassis)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.rows {
		if v.Chassis == chassis {
			return s.clone(v), nil
		}
	}
	return nil, nil
}

func (s *MemVehicleStore) ExistsByPlate(_ context.Context, plate string, excludeID uint) (bool, error) {
	plate = NormalizePlate(plate)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, v := range s.rows {
		if id != excludeID && v.Plate == plate {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemVehicleStore) ExistsByChassis(_ context.Context, chassis string, excludeID uint) (bool, error) {
	chassis = NormalizeChassis(chassis)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, v := range s.rows {
		if id != excludeID && v.Chassis == chassis {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemVehicleStore) GetPage(_ context.Context, p models.PageParams) ([]models.Vehicle, int64, error) {
	p = p.Normalize()
	s.mu.RLock()
	all := make([]*models.Vehicle, 0, len(s.rows))
	for _, v := range s.rows {
		if p.Search != "" {
			needle := NormalizePlate(p.Search)
			if !strings.Contains(v.Plate, needle) && !strings.Contains(v.Chassis, needle) {
				continue
			}
		}
		all = append(all, v)
	}
	s.mu.RUnlock()
	sortVehicles(all, p)
	return s.pageOf(all, p), int64(len(all)), nil
}

func (s *MemVehicleStore) GetPageByYard(_ context.Context, yardID uint, p models.PageParams) ([]models.Vehicle, int64, error) {
	p = p.Normalize()
	s.mu.RLock()
	all := make([]*models.Vehicle, 0)
	for _, v := range s.rows {
		if v.YardID != nil && *v.YardID == yardID {
			all = append(all, v)
		}
	}
	s.mu.RUnlock()
	sortVehicles(all, p)
	return s.pageOf(all, p), int64(len(all)), nil
}

func (s *MemVehicleStore) pageOf(all []*models.Vehicle, p models.PageParams) []models.Vehicle {
	out := []models.Vehicle{}
	for i := p.Offset(); i < len(all) && len(out) < p.Size; i++ {
		out = append(out, *s.clone(all[i]))
	}
	return out
}

func (s *MemVehicleStore) CountByYard(_ context.Context, yardID uint) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, v := range s.rows {
		if v.YardID != nil && *v.YardID == yardID {
			n++
		}
	}
	return n, nil
}

func (s *MemVehicleStore) Create(_ context.Context, v *models.Vehicle) error {
	v.Plate = NormalizePlate(v.Plate)
	v.Chassis = NormalizeChassis(v.Chassis)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.Plate == v.Plate || row.Chassis == v.Chassis {
			return ErrDuplicate
		}
	}
	s.nextID++
	v.ID = s.nextID
	now := time.Now().UTC()
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
	v.UpdatedAt = now
	cp := *v
	cp.Yard = nil
	s.rows[v.ID] = &cp
	return nil
}

func (s *MemVehicleStore) Update(_ context.Context, v *models.Vehicle) error {
	v.Plate = NormalizePlate(v.Plate)
	v.Chassis = NormalizeChassis(v.Chassis)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[v.ID]; !ok {
		return ErrNotFound
	}
	for id, row := range s.rows {
		if id != v.ID && (row.Plate == v.Plate || row.Chassis == v.Chassis) {
			return ErrDuplicate
		}
	}
	v.UpdatedAt = time.Now().UTC()
	cp := *v
	cp.Yard = nil
	s.rows[v.ID] = &cp
	return nil
}

func (s *MemVehicleStore) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

func sortVehicles(all []*models.Vehicle, p models.PageParams) {
	less := func(a, b *models.Vehicle) bool { return a.ID < b.ID }
	switch p.SortBy {
	case "model":
		less = func(a, b *models.Vehicle) bool { return a.Model < b.Model }
	case "plate":
		less = func(a, b *models.Vehicle) bool { return a.Plate < b.Plate }
	case "year":
		less = func(a, b *models.Vehicle) bool { return yearOf(a) < yearOf(b) }
	case "created_at":
		less = func(a, b *models.Vehicle) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
	sort.Slice(all, func(i, j int) bool {
		if p.SortDesc && vehicleSortColumns[p.SortBy] != "" {
			return less(all[j], all[i])
		}
		return less(all[i], all[j])
	})
}

func yearOf(v *models.Vehicle) int {
	if v.Year == nil {
		return 0
	}
	return *v.Year
}

type MemYardStore struct {
	mu     sync.RWMutex
	nextID uint
	rows   map[uint]*models.Yard
}

func NewMemYardStore() *MemYardStore {
	return &MemYardStore{rows: make(map[uint]*models.Yard)}
}

func (s *MemYardStore) GetByID(_ context.Context, id uint) (*models.Yard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	y, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *y
	return &cp, nil
}

func (s *MemYardStore) GetPage(_ context.Context, p models.PageParams) ([]models.Yard, int64, error) {
	p = p.Normalize()
	s.mu.RLock()
	all := make([]*models.Yard, 0, len(s.rows))
	for _, y := range s.rows {
		if p.Search != "" &&
			!strings.Contains(y.Name, p.Search) && !strings.Contains(y.City, p.Search) {
			continue
		}
		all = append(all, y)
	}
	s.mu.RUnlock()

	less := func(a, b *models.Yard) bool { return a.ID < b.ID }
	switch p.SortBy {
	case "name":
		less = func(a, b *models.Yard) bool { return a.Name < b.Name }
	case "city":
		less = func(a, b *models.Yard) bool { return a.City < b.City }
	case "capacity":
		less = func(a, b *models.Yard) bool { return a.Capacity < b.Capacity }
	case "created_at":
		less = func(a, b *models.Yard) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
	sort.Slice(all, func(i, j int) bool {
		if p.SortDesc && yardSortColumns[p.SortBy] != "" {
			return less(all[j], all[i])
		}
		return less(all[i], all[j])
	})

	out := []models.Yard{}
	for i := p.Offset(); i < len(all) && len(out) < p.Size; i++ {
		out = append(out, *all[i])
	}
	return out, int64(len(all)), nil
}

func (s *MemYardStore) Create(_ context.Context, y *models.Yard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	y.ID = s.nextID
	now := time.Now().UTC()
	if y.CreatedAt.IsZero() {
		y.CreatedAt = now
	}
	y.UpdatedAt = now
	cp := *y
	s.rows[y.ID] = &cp
	return nil
}

func (s *MemYardStore) Update(_ context.Context, y *models.Yard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[y.ID]; !ok {
		return ErrNotFound
	}
	y.UpdatedAt = time.Now().UTC()
	cp := *y
	s.rows[y.ID] = &cp
	return nil
}

func (s *MemYardStore) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

type MemUserStore struct {
	mu     sync.RWMutex
	nextID uint
	rows   map[uint]*models.User
}

func NewMemUserStore() *MemUserStore {
	return &MemUserStore{rows: make(map[uint]*models.User)}
}

func (s *MemUserStore) GetByID(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *MemUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	email = NormalizeEmail(email)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.rows {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MemUserStore) ExistsByEmail(_ context.Context, email string, excludeID uint) (bool, error) {
	email = NormalizeEmail(email)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, u := range s.rows {
		if id != excludeID && u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemUserStore) GetPage(_ context.Context, p models.PageParams) ([]models.User, int64, error) {
	p = p.Normalize()
	s.mu.RLock()
	all := make([]*models.User, 0, len(s.rows))
	for _, u := range s.rows {
		if p.Search != "" &&
			!strings.Contains(u.Name, p.Search) && !strings.Contains(u.Email, p.Search) {
			continue
		}
		all = append(all, u)
	}
	s.mu.RUnlock()

	less := func(a, b *models.User) bool { return a.ID < b.ID }
	switch p.SortBy {
	case "name":
		less = func(a, b *models.User) bool { return a.Name < b.Name }
	case "email":
		less = func(a, b *models.User) bool { return a.Email < b.Email }
	case "created_at":
		less = func(a, b *models.User) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
	sort.Slice(all, func(i, j int) bool {
		if p.SortDesc && userSortColumns[p.SortBy] != "" {
			return less(all[j], all[i])
		}
		return less(all[i], all[j])
	})

	out := []models.User{}
	for i := p.Offset(); i < len(all) && len(out) < p.Size; i++ {
		out = append(out, *all[i])
	}
	return out, int64(len(all)), nil
}

func (s *MemUserStore) Create(_ context.Context, u *models.User) error {
	u.Email = NormalizeEmail(u.Email)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.Email == u.Email {
			return ErrDuplicate
		}
	}
	s.nextID++
	u.ID = s.nextID
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	cp := *u
	s.rows[u.ID] = &cp
	return nil
}

func (s *MemUserStore) Update(_ context.Context, u *models.User) error {
	u.Email = NormalizeEmail(u.Email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[u.ID]; !ok {
		return ErrNotFound
	}
	for id, row := range s.rows {
		if id != u.ID && row.Email == u.Email {
			return ErrDuplicate
		}
	}
	u.UpdatedAt = time.Now().UTC()
	cp := *u
	s.rows[u.ID] = &cp
	return nil
}

func (s *MemUserStore) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return ErrNotFound
	}
	delete(s.rows, id)
	return nil
}
