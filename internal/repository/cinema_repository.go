package repository // repository defines data access for cinemas

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel definitions

	"cinebook/internal/model"
)

// ErrCinemaNotFound is returned when a cinema lookup yields no rows.
var ErrCinemaNotFound = errors.New("cinema not found")

// CinemaRepo provides methods to work with cinemas in the database.
type CinemaRepo struct {
	db *sql.DB
}

// NewCinemaRepo constructs a CinemaRepo with the given DB handle.
func NewCinemaRepo(db *sql.DB) *CinemaRepo {
	return &CinemaRepo{db: db}
}

// Create inserts a cinema record. On success the cinema's ID is populated.
func (r *CinemaRepo) Create(ctx context.Context, c *model.Cinema) error {
	const q = `INSERT INTO cinemas (name, city, total_halls) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.City, c.TotalHalls)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// GetByID retrieves a cinema by its ID. It returns ErrCinemaNotFound
// when there is no matching row.
func (r *CinemaRepo) GetByID(ctx context.Context, id uint64) (*model.Cinema, error) {
	const q = `SELECT id, name, city, total_halls, created_at, updated_at FROM cinemas WHERE id = ?`
	var c model.Cinema
	err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Name, &c.City, &c.TotalHalls, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCinemaNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all cinemas ordered by name.
func (r *CinemaRepo) List(ctx context.Context) ([]model.Cinema, error) {
	const q = `SELECT id, name, city, total_halls, created_at, updated_at FROM cinemas ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Cinema
	for rows.Next() {
		var c model.Cinema
		if err := rows.Scan(&c.ID, &c.Name, &c.City, &c.TotalHalls, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
