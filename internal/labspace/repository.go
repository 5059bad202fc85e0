package labspace

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, s *LabSpace) error
	GetByID(ctx context.Context, id string) (*LabSpace, error)
	GetBySlug(ctx context.Context, slug string) (*LabSpace, error)
	List(ctx context.Context, filter Filter) ([]*LabSpace, int, error)
	Update(ctx context.Context, s *LabSpace) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, s *LabSpace) error {
	const query = `
		INSERT INTO public.lab_spaces (name, slug, type, capacity, amenities, safety_requirements, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query,
		s.Name, s.Slug, s.Type, s.Capacity, s.Amenities, s.SafetyRequirements, s.IsActive,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrSlugTaken
		}
		return fmt.Errorf("create lab space failed: %w", err)
	}
	return nil
}

func scanSpace(row pgx.Row) (*LabSpace, error) {
	var s LabSpace
	err := row.Scan(
		&s.ID, &s.Name, &s.Slug, &s.Type, &s.Capacity,
		&s.Amenities, &s.SafetyRequirements, &s.IsActive, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan lab space failed: %w", err)
	}
	return &s, nil
}

const spaceColumns = `id, name, slug, type, capacity, amenities, safety_requirements, is_active, created_at`

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*LabSpace, error) {
	query := `SELECT ` + spaceColumns + ` FROM public.lab_spaces WHERE id = $1`
	return scanSpace(r.pool.QueryRow(ctx, query, id))
}

func (r *pgxRepository) GetBySlug(ctx context.Context, slug string) (*LabSpace, error) {
	query := `SELECT ` + spaceColumns + ` FROM public.lab_spaces WHERE slug = $1`
	return scanSpace(r.pool.QueryRow(ctx, query, slug))
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*LabSpace, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "name", "slug", "type", "capacity",
		"amenities", "safety_requirements", "is_active", "created_at",
		"count(*) OVER() as total_count",
	).From("public.lab_spaces")

	if filter.Type != "" {
		query = query.Where(squirrel.Eq{"type": filter.Type})
	}
	if filter.ActiveOnly {
		query = query.Where(squirrel.Eq{"is_active": true})
	}

	query = query.OrderBy("name ASC")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list lab spaces query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list lab spaces failed: %w", err)
	}
	defer rows.Close()

	var spaces []*LabSpace
	var total int

	for rows.Next() {
		var s LabSpace
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Slug, &s.Type, &s.Capacity,
			&s.Amenities, &s.SafetyRequirements, &s.IsActive, &s.CreatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan lab space failed: %w", err)
		}
		spaces = append(spaces, &s)
	}

	return spaces, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, s *LabSpace) error {
	const query = `
		UPDATE public.lab_spaces
		SET name = $1, slug = $2, type = $3, capacity = $4,
		    amenities = $5, safety_requirements = $6, is_active = $7
		WHERE id = $8
	`
	ct, err := r.pool.Exec(ctx, query,
		s.Name, s.Slug, s.Type, s.Capacity, s.Amenities, s.SafetyRequirements, s.IsActive, s.ID,
	)
	if err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrSlugTaken
		}
		return fmt.Errorf("update lab space failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
