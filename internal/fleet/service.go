package fleet

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"gorm.io/datatypes"

	"motoyard/internal/models"
	"motoyard/internal/repo"
)

const (
	minYear = 1900
	maxYear = 2100
)

// Service holds the uniqueness and allocation rules for vehicles and
// yards. Duplicate pre-checks here are the user-friendly fast path;
// the store unique indexes remain the authoritative enforcement and
// their violations are reported as the same conflict.
type Service struct {
	vehicles VehicleStore
	yards    YardStore
}

func NewService(vehicles VehicleStore, yards YardStore) *Service {
	return &Service{vehicles: vehicles, yards: yards}
}

type CreateVehicleInput struct {
	Model   string `json:"model"`
	Plate   string `json:"plate"`
	Chassis string `json:"chassis"`
	YardID  uint   `json:"yard_id"`
	Year    *int   `json:"year,omitempty"`
	Color   string `json:"color,omitempty"`
}

// CreateVehicleResult distinguishes a fresh row from an existing
// unassigned vehicle that was re-admitted into the requested yard.
type CreateVehicleResult struct {
	Vehicle   *models.Vehicle
	Allocated bool // true when an existing vehicle was allocated instead of created
}

// CreateVehicle registers a vehicle in a yard. A vehicle matching the
// plate or the chassis that is currently parked somewhere is a
// conflict; one that exists but is unassigned is re-admitted into the
// requested yard instead of being rejected as a duplicate.
func (s *Service) CreateVehicle(ctx context.Context, in CreateVehicleInput) (*CreateVehicleResult, error) {
	if strings.TrimSpace(in.Model) == "" {
		return nil, invalidf("model is required")
	}
	if strings.TrimSpace(in.Plate) == "" {
		return nil, invalidf("plate is required")
	}
	if strings.TrimSpace(in.Chassis) == "" {
		return nil, invalidf("chassis is required")
	}
	if in.YardID == 0 {
		return nil, invalidf("yard_id is required")
	}
	if in.Year != nil && (*in.Year < minYear || *in.Year > maxYear) {
		return nil, invalidf("year must be between %d and %d", minYear, maxYear)
	}

	yard, err := s.yards.GetByID(ctx, in.YardID)
	if err != nil {
		return nil, err
	}
	if yard == nil {
		return nil, ErrYardNotFound
	}

	// Plate and chassis are two independent duplicate candidates.
	byPlate, err := s.vehicles.GetByPlate(ctx, in.Plate)
	if err != nil {
		return nil, err
	}
	if byPlate != nil {
		return s.allocateExisting(ctx, byPlate, yard, "plate", in.Plate)
	}

	byChassis, err := s.vehicles.GetByChassis(ctx, in.Chassis)
	if err != nil {
		return nil, err
	}
	if byChassis != nil {
		return s.allocateExisting(ctx, byChassis, yard, "chassis", in.Chassis)
	}

	v := &models.Vehicle{
		Model:   strings.TrimSpace(in.Model),
		Plate:   in.Plate,
		Chassis: in.Chassis,
		Year:    in.Year,
		Color:   strings.TrimSpace(in.Color),
		Active:  true,
		YardID:  &yard.ID,
	}
	if err := s.vehicles.Create(ctx, v); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			// Lost the race against a concurrent registration.
			return nil, conflictf("a vehicle with this plate or chassis already exists")
		}
		return nil, err
	}
	v.Yard = yard
	return &CreateVehicleResult{Vehicle: v}, nil
}

// allocateExisting applies the allocate-or-conflict rule to a vehicle
// that matched one of the natural keys.
func (s *Service) allocateExisting(ctx context.Context, v *models.Vehicle, yard *models.Yard, key, value string) (*CreateVehicleResult, error) {
	if v.Assigned() {
		return nil, conflictf("a vehicle with %s %s is already allocated to yard %s",
			key, value, s.yardName(ctx, *v.YardID, v.Yard))
	}
	v.YardID = &yard.ID
	if err := s.vehicles.Update(ctx, v); err != nil {
		return nil, err
	}
	v.Yard = yard
	return &CreateVehicleResult{Vehicle: v, Allocated: true}, nil
}

func (s *Service) yardName(ctx context.Context, id uint, preloaded *models.Yard) string {
	if preloaded != nil {
		return preloaded.Name
	}
	if y, err := s.yards.GetByID(ctx, id); err == nil && y != nil {
		return y.Name
	}
	return "#" + strconv.FormatUint(uint64(id), 10)
}

type UpdateVehicleInput struct {
	Model   string `json:"model,omitempty"`
	Plate   string `json:"plate,omitempty"`
	Chassis string `json:"chassis,omitempty"`
	YardID  *uint  `json:"yard_id,omitempty"`
	Year    *int   `json:"year,omitempty"`
	Color   string `json:"color,omitempty"`
	Active  *bool  `json:"active,omitempty"`
}

// UpdateVehicle applies the provided fields only (partial semantics).
// A plate or chassis change re-runs the uniqueness check excluding the
// vehicle itself.
func (s *Service) UpdateVehicle(ctx context.Context, id uint, in UpdateVehicleInput) (*models.Vehicle, error) {
	if id == 0 {
		return nil, invalidf("id must be positive")
	}
	v, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrVehicleNotFound
	}
	if in.Year != nil && (*in.Year < minYear || *in.Year > maxYear) {
		return nil, invalidf("year must be between %d and %d", minYear, maxYear)
	}

	var yard *models.Yard
	if in.YardID != nil {
		yard, err = s.yards.GetByID(ctx, *in.YardID)
		if err != nil {
			return nil, err
		}
		if yard == nil {
			return nil, ErrYardNotFound
		}
	}

	if p := strings.TrimSpace(in.Plate); p != "" && !strings.EqualFold(p, v.Plate) {
		exists, err := s.vehicles.ExistsByPlate(ctx, p, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, conflictf("another vehicle with plate %s already exists", p)
		}
		v.Plate = p
	}
	if c := strings.TrimSpace(in.Chassis); c != "" && !strings.EqualFold(c, v.Chassis) {
		exists, err := s.vehicles.ExistsByChassis(ctx, c, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, conflictf("another vehicle with chassis %s already exists", c)
		}
		v.Chassis = c
	}

	if m := strings.TrimSpace(in.Model); m != "" {
		v.Model = m
	}
	if in.YardID != nil {
		v.YardID = in.YardID
		v.Yard = yard
	}
	if in.Year != nil {
		v.Year = in.Year
	}
	if c := strings.TrimSpace(in.Color); c != "" {
		v.Color = c
	}
	if in.Active != nil {
		v.Active = *in.Active
	}

	if err := s.vehicles.Update(ctx, v); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, conflictf("a vehicle with this plate or chassis already exists")
		}
		return nil, err
	}
	return v, nil
}

func (s *Service) DeleteVehicle(ctx context.Context, id uint) error {
	if id == 0 {
		return invalidf("id must be positive")
	}
	v, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if v == nil {
		return ErrVehicleNotFound
	}
	return s.vehicles.Delete(ctx, id)
}

func (s *Service) GetVehicle(ctx context.Context, id uint) (*models.Vehicle, error) {
	if id == 0 {
		return nil, invalidf("id must be positive")
	}
	v, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrVehicleNotFound
	}
	return v, nil
}

func (s *Service) GetVehicleByPlate(ctx context.Context, plate string) (*models.Vehicle, error) {
	if strings.TrimSpace(plate) == "" {
		return nil, invalidf("plate is required")
	}
	v, err := s.vehicles.GetByPlate(ctx, plate)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrVehicleNotFound
	}
	return v, nil
}

func (s *Service) ListVehicles(ctx context.Context, p models.PageParams) ([]models.Vehicle, int64, error) {
	return s.vehicles.GetPage(ctx, p)
}

type CreateYardInput struct {
	Name       string          `json:"name"`
	Address    string          `json:"address"`
	Capacity   int             `json:"capacity"`
	PostalCode string          `json:"postal_code,omitempty"`
	City       string          `json:"city,omitempty"`
	State      string          `json:"state,omitempty"`
	Phone      string          `json:"phone,omitempty"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
}

func (s *Service) CreateYard(ctx context.Context, in CreateYardInput) (*models.Yard, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, invalidf("name is required")
	}
	if strings.TrimSpace(in.Address) == "" {
		return nil, invalidf("address is required")
	}
	if in.Capacity <= 0 {
		return nil, invalidf("capacity must be positive")
	}
	y := &models.Yard{
		Name:       strings.TrimSpace(in.Name),
		Address:    strings.TrimSpace(in.Address),
		Capacity:   in.Capacity,
		PostalCode: in.PostalCode,
		City:       in.City,
		State:      in.State,
		Phone:      in.Phone,
		Metadata:   datatypes.JSON(in.Metadata),
		Active:     true,
	}
	if err := s.yards.Create(ctx, y); err != nil {
		return nil, err
	}
	return y, nil
}

type UpdateYardInput struct {
	Name       string          `json:"name,omitempty"`
	Address    string          `json:"address,omitempty"`
	Capacity   *int            `json:"capacity,omitempty"`
	PostalCode string          `json:"postal_code,omitempty"`
	City       string          `json:"city,omitempty"`
	State      string          `json:"state,omitempty"`
	Phone      string          `json:"phone,omitempty"`
	Active     *bool           `json:"active,omitempty"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
}

func (s *Service) UpdateYard(ctx context.Context, id uint, in UpdateYardInput) (*models.Yard, error) {
	if id == 0 {
		return nil, invalidf("id must be positive")
	}
	y, err := s.yards.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if y == nil {
		return nil, ErrYardNotFound
	}

	if n := strings.TrimSpace(in.Name); n != "" {
		y.Name = n
	}
	if a := strings.TrimSpace(in.Address); a != "" {
		y.Address = a
	}
	if in.Capacity != nil && *in.Capacity > 0 {
		y.Capacity = *in.Capacity
	}
	if in.PostalCode != "" {
		y.PostalCode = in.PostalCode
	}
	if in.City != "" {
		y.City = in.City
	}
	if in.State != "" {
		y.State = in.State
	}
	if in.Phone != "" {
		y.Phone = in.Phone
	}
	if in.Active != nil {
		y.Active = *in.Active
	}
	if len(in.Metadata) > 0 {
		y.Metadata = datatypes.JSON(in.Metadata)
	}

	if err := s.yards.Update(ctx, y); err != nil {
		return nil, err
	}
	return y, nil
}

// DeleteYard refuses to delete a yard that still holds vehicles.
func (s *Service) DeleteYard(ctx context.Context, id uint) error {
	if id == 0 {
		return invalidf("id must be positive")
	}
	y, err := s.yards.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if y == nil {
		return ErrYardNotFound
	}
	n, err := s.vehicles.CountByYard(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return conflictf("cannot delete yard %s: %d vehicle(s) still allocated", y.Name, n)
	}
	return s.yards.Delete(ctx, id)
}

func (s *Service) GetYard(ctx context.Context, id uint) (*models.Yard, error) {
	if id == 0 {
		return nil, invalidf("id must be positive")
	}
	y, err := s.yards.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if y == nil {
		return nil, ErrYardNotFound
	}
	return y, nil
}

func (s *Service) ListYards(ctx context.Context, p models.PageParams) ([]models.Yard, int64, error) {
	return s.yards.GetPage(ctx, p)
}

// FindYards resolves an identifier that is either a numeric id or a
// name fragment.
func (s *Service) FindYards(ctx context.Context, identifier string) ([]models.Yard, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, invalidf("identifier is required")
	}
	if id, err := strconv.ParseUint(identifier, 10, 32); err == nil {
		y, err := s.GetYard(ctx, uint(id))
		if err != nil {
			if errors.Is(err, ErrYardNotFound) {
				return []models.Yard{}, nil
			}
			return nil, err
		}
		return []models.Yard{*y}, nil
	}
	yards, _, err := s.yards.GetPage(ctx, models.PageParams{Page: 1, Size: 100, Search: identifier})
	return yards, err
}

// ListYardVehicles pages the vehicles parked in one yard.
func (s *Service) ListYardVehicles(ctx context.Context, yardID uint, p models.PageParams) ([]models.Vehicle, int64, error) {
	if yardID == 0 {
		return nil, 0, invalidf("id must be positive")
	}
	y, err := s.yards.GetByID(ctx, yardID)
	if err != nil {
		return nil, 0, err
	}
	if y == nil {
		return nil, 0, ErrYardNotFound
	}
	return s.vehicles.GetPageByYard(ctx, yardID, p)
}
