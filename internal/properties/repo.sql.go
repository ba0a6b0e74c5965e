package properties

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/haven-pm/haven-pm/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const propertyColumns = `id, address, city, state, zip, lat, lng, status, created_at, updated_at`

func scanProperty(row pgx.Row) (Property, error) {
	var p Property
	err := row.Scan(&p.ID, &p.Address, &p.City, &p.State, &p.Zip, &p.Lat, &p.Lng,
		&p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Property{}, shared.ErrNotFound
		}
		return Property{}, err
	}
	return p, nil
}

// List returns one page of properties ordered by address.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]Property, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+propertyColumns+` FROM properties ORDER BY address LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var props []Property
	for rows.Next() {
		var p Property
		if err := rows.Scan(&p.ID, &p.Address, &p.City, &p.State, &p.Zip, &p.Lat, &p.Lng,
			&p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		props = append(props, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return props, nil
}

// Count returns the total number of properties.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM properties`).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// ListMissingCoordinates returns active properties that were never geocoded.
func (r *Repository) ListMissingCoordinates(ctx context.Context, limit int) ([]Property, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE lat IS NULL AND status = $1 ORDER BY id LIMIT $2`,
		StatusActive, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var props []Property
	for rows.Next() {
		var p Property
		if err := rows.Scan(&p.ID, &p.Address, &p.City, &p.State, &p.Zip, &p.Lat, &p.Lng,
			&p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		props = append(props, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return props, nil
}

// Get fetches a property by ID.
func (r *Repository) Get(ctx context.Context, id int64) (Property, error) {
	return scanProperty(r.pool.QueryRow(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id = $1`, id))
}

// Create inserts a new property.
func (r *Repository) Create(ctx context.Context, p Property) (Property, error) {
	return scanProperty(r.pool.QueryRow(ctx,
		`INSERT INTO properties (address, city, state, zip, lat, lng, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		 RETURNING `+propertyColumns,
		p.Address, p.City, p.State, p.Zip, p.Lat, p.Lng, p.Status))
}

// Update rewrites the mutable columns of an existing property.
func (r *Repository) Update(ctx context.Context, p Property) (Property, error) {
	return scanProperty(r.pool.QueryRow(ctx,
		`UPDATE properties
		 SET address = $2, city = $3, state = $4, zip = $5, lat = $6, lng = $7, status = $8, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+propertyColumns,
		p.ID, p.Address, p.City, p.State, p.Zip, p.Lat, p.Lng, p.Status))
}

// SetCoordinates stores a geocode result for a property.
func (r *Repository) SetCoordinates(ctx context.Context, id int64, lat, lng float64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE properties SET lat = $2, lng = $3, updated_at = NOW() WHERE id = $1`, id, lat, lng)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a property by ID.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

const unitColumns = `id, property_id, label, bedrooms, bathrooms, rent_cents, occupied, created_at, updated_at`

func scanUnit(row pgx.Row) (Unit, error) {
	var u Unit
	err := row.Scan(&u.ID, &u.PropertyID, &u.Label, &u.Bedrooms, &u.Bathrooms, &u.Rent,
		&u.Occupied, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Unit{}, shared.ErrNotFound
		}
		return Unit{}, err
	}
	return u, nil
}

// ListUnits returns all units of a property.
func (r *Repository) ListUnits(ctx context.Context, propertyID int64) ([]Unit, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+unitColumns+` FROM units WHERE property_id = $1 ORDER BY label`, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var units []Unit
	for rows.Next() {
		var u Unit
		if err := rows.Scan(&u.ID, &u.PropertyID, &u.Label, &u.Bedrooms, &u.Bathrooms, &u.Rent,
			&u.Occupied, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return units, nil
}

// GetUnit fetches a unit by ID.
func (r *Repository) GetUnit(ctx context.Context, id int64) (Unit, error) {
	return scanUnit(r.pool.QueryRow(ctx, `SELECT `+unitColumns+` FROM units WHERE id = $1`, id))
}

// CreateUnit inserts a new unit.
func (r *Repository) CreateUnit(ctx context.Context, u Unit) (Unit, error) {
	return scanUnit(r.pool.QueryRow(ctx,
		`INSERT INTO units (property_id, label, bedrooms, bathrooms, rent_cents, occupied, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		 RETURNING `+unitColumns,
		u.PropertyID, u.Label, u.Bedrooms, u.Bathrooms, u.Rent, u.Occupied))
}

// UpdateUnit rewrites the mutable columns of an existing unit.
func (r *Repository) UpdateUnit(ctx context.Context, u Unit) (Unit, error) {
	return scanUnit(r.pool.QueryRow(ctx,
		`UPDATE units
		 SET label = $2, bedrooms = $3, bathrooms = $4, rent_cents = $5, occupied = $6, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+unitColumns,
		u.ID, u.Label, u.Bedrooms, u.Bathrooms, u.Rent, u.Occupied))
}

// SetUnitOccupied flips the occupancy flag of a unit.
func (r *Repository) SetUnitOccupied(ctx context.Context, id int64, occupied bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE units SET occupied = $2, updated_at = NOW() WHERE id = $1`, id, occupied)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteUnit removes a unit by ID.
func (r *Repository) DeleteUnit(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM units WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
