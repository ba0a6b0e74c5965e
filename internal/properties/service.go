package properties

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/haven-pm/haven-pm/internal/geo"
	"github.com/haven-pm/haven-pm/internal/platform/httpx"
	"github.com/haven-pm/haven-pm/internal/shared"
)

// RepositoryPort defines data access methods for properties and units.
type RepositoryPort interface {
	List(ctx context.Context, limit, offset int) ([]Property, error)
	Count(ctx context.Context) (int, error)
	ListMissingCoordinates(ctx context.Context, limit int) ([]Property, error)
	Get(ctx context.Context, id int64) (Property, error)
	Create(ctx context.Context, p Property) (Property, error)
	Update(ctx context.Context, p Property) (Property, error)
	SetCoordinates(ctx context.Context, id int64, lat, lng float64) error
	Delete(ctx context.Context, id int64) error

	ListUnits(ctx context.Context, propertyID int64) ([]Unit, error)
	GetUnit(ctx context.Context, id int64) (Unit, error)
	CreateUnit(ctx context.Context, u Unit) (Unit, error)
	UpdateUnit(ctx context.Context, u Unit) (Unit, error)
	SetUnitOccupied(ctx context.Context, id int64, occupied bool) error
	DeleteUnit(ctx context.Context, id int64) error
}

// Service handles property business logic.
type Service struct {
	repo     RepositoryPort
	geocoder geo.Geocoder
	logger   *slog.Logger
}

// NewService builds Service instance. geocoder may be nil to skip geocoding.
func NewService(repo RepositoryPort, geocoder geo.Geocoder, logger *slog.Logger) *Service {
	return &Service{repo: repo, geocoder: geocoder, logger: logger}
}

// List returns one page of properties plus pagination metadata.
func (s *Service) List(ctx context.Context, page, perPage int) ([]Property, shared.Pagination, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	meta := shared.NewPagination(page, perPage, total)
	props, err := s.repo.List(ctx, meta.PerPage, meta.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return props, meta, nil
}

// Get fetches a single property.
func (s *Service) Get(ctx context.Context, id int64) (Property, error) {
	return s.repo.Get(ctx, id)
}

// CreateInput carries validated intake fields.
type CreateInput struct {
	Address string
	City    string
	State   string
	Zip     string
}

// Create records a property and geocodes its address. A geocode failure
// leaves the coordinates null; the write always goes through.
func (s *Service) Create(ctx context.Context, in CreateInput) (Property, error) {
	in.Address = strings.TrimSpace(in.Address)
	if in.Address == "" {
		return Property{}, fmt.Errorf("address required: %w", httpx.ErrValidation)
	}
	prop := Property{
		Address: in.Address,
		City:    strings.TrimSpace(in.City),
		State:   strings.TrimSpace(in.State),
		Zip:     strings.TrimSpace(in.Zip),
		Status:  StatusActive,
	}
	s.geocode(ctx, &prop)
	return s.repo.Create(ctx, prop)
}

// UpdateInput carries mutable fields; nil pointers leave values unchanged.
type UpdateInput struct {
	Address *string
	City    *string
	State   *string
	Zip     *string
	Status  *string
}

// Update applies partial changes. Changing any address part re-geocodes;
// on failure the stale coordinates are dropped rather than kept.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (Property, error) {
	prop, err := s.repo.Get(ctx, id)
	if err != nil {
		return Property{}, err
	}
	readdressed := false
	if in.Address != nil {
		addr := strings.TrimSpace(*in.Address)
		if addr == "" {
			return Property{}, fmt.Errorf("address required: %w", httpx.ErrValidation)
		}
		if addr != prop.Address {
			prop.Address = addr
			readdressed = true
		}
	}
	if in.City != nil && strings.TrimSpace(*in.City) != prop.City {
		prop.City = strings.TrimSpace(*in.City)
		readdressed = true
	}
	if in.State != nil && strings.TrimSpace(*in.State) != prop.State {
		prop.State = strings.TrimSpace(*in.State)
		readdressed = true
	}
	if in.Zip != nil && strings.TrimSpace(*in.Zip) != prop.Zip {
		prop.Zip = strings.TrimSpace(*in.Zip)
		readdressed = true
	}
	if in.Status != nil {
		if !validStatus(*in.Status) {
			return Property{}, fmt.Errorf("unknown status %q: %w", *in.Status, httpx.ErrValidation)
		}
		prop.Status = *in.Status
	}
	if readdressed {
		prop.Lat, prop.Lng = nil, nil
		s.geocode(ctx, &prop)
	}
	return s.repo.Update(ctx, prop)
}

// Delete removes a property.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// BackfillCoordinates geocodes properties with missing coordinates and
// returns how many were filled in. Used by the scheduled backfill job.
func (s *Service) BackfillCoordinates(ctx context.Context, limit int) (int, error) {
	props, err := s.repo.ListMissingCoordinates(ctx, limit)
	if err != nil {
		return 0, err
	}
	filled := 0
	for _, prop := range props {
		coords, err := s.geocoder.Geocode(ctx, prop.FullAddress())
		if err != nil {
			s.logger.Warn("backfill geocode failed",
				slog.Int64("property_id", prop.ID), slog.Any("error", err))
			continue
		}
		if err := s.repo.SetCoordinates(ctx, prop.ID, coords.Lat, coords.Lng); err != nil {
			return filled, err
		}
		filled++
	}
	return filled, nil
}

func (s *Service) geocode(ctx context.Context, prop *Property) {
	if s.geocoder == nil {
		return
	}
	coords, err := s.geocoder.Geocode(ctx, prop.FullAddress())
	if err != nil {
		s.logger.Warn("geocode failed, storing without coordinates",
			slog.String("address", prop.FullAddress()), slog.Any("error", err))
		return
	}
	prop.Lat, prop.Lng = &coords.Lat, &coords.Lng
}

// ListUnits returns the units of a property.
func (s *Service) ListUnits(ctx context.Context, propertyID int64) ([]Unit, error) {
	return s.repo.ListUnits(ctx, propertyID)
}

// UnitInput carries intake fields for a unit.
type UnitInput struct {
	Label     string
	Bedrooms  int
	Bathrooms float64
	Rent      int64
}

// CreateUnit adds a vacant unit to a property.
func (s *Service) CreateUnit(ctx context.Context, propertyID int64, in UnitInput) (Unit, error) {
	in.Label = strings.TrimSpace(in.Label)
	if in.Label == "" {
		return Unit{}, fmt.Errorf("unit label required: %w", httpx.ErrValidation)
	}
	if _, err := s.repo.Get(ctx, propertyID); err != nil {
		return Unit{}, err
	}
	return s.repo.CreateUnit(ctx, Unit{
		PropertyID: propertyID,
		Label:      in.Label,
		Bedrooms:   in.Bedrooms,
		Bathrooms:  in.Bathrooms,
		Rent:       in.Rent,
	})
}

// UpdateUnit rewrites a unit's attributes.
func (s *Service) UpdateUnit(ctx context.Context, id int64, in UnitInput) (Unit, error) {
	unit, err := s.repo.GetUnit(ctx, id)
	if err != nil {
		return Unit{}, err
	}
	in.Label = strings.TrimSpace(in.Label)
	if in.Label == "" {
		return Unit{}, fmt.Errorf("unit label required: %w", httpx.ErrValidation)
	}
	unit.Label = in.Label
	unit.Bedrooms = in.Bedrooms
	unit.Bathrooms = in.Bathrooms
	unit.Rent = in.Rent
	return s.repo.UpdateUnit(ctx, unit)
}

// DeleteUnit removes a unit.
func (s *Service) DeleteUnit(ctx context.Context, id int64) error {
	return s.repo.DeleteUnit(ctx, id)
}
