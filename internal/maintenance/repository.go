package maintenance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, b *Block) error
	GetByID(ctx context.Context, id string) (*Block, error)
	List(ctx context.Context, filter Filter) ([]*Block, int, error)
	Delete(ctx context.Context, id string) error

	// HasOverlap checks whether any block on the space intersects [start, end).
	HasOverlap(ctx context.Context, spaceID string, start, end time.Time) (bool, error)

	// ListForSpace returns blocks on the space intersecting [from, to), ordered by starts_at.
	ListForSpace(ctx context.Context, spaceID string, from, to time.Time) ([]*Block, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, b *Block) error {
	const query = `
		INSERT INTO public.maintenance_blocks (lab_space_id, starts_at, ends_at, reason)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query, b.SpaceID, b.StartsAt, b.EndsAt, b.Reason).
		Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return fmt.Errorf("create maintenance block failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Block, error) {
	const query = `
		SELECT m.id, m.lab_space_id, s.name, m.starts_at, m.ends_at, m.reason, m.created_at
		FROM public.maintenance_blocks m
		JOIN public.lab_spaces s ON m.lab_space_id = s.id
		WHERE m.id = $1
	`
	var b Block
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.SpaceID, &b.SpaceName, &b.StartsAt, &b.EndsAt, &b.Reason, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get maintenance block failed: %w", err)
	}
	return &b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Block, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"m.id", "m.lab_space_id", "s.name", "m.starts_at", "m.ends_at", "m.reason", "m.created_at",
		"count(*) OVER() as total_count",
	).
		From("public.maintenance_blocks m").
		Join("public.lab_spaces s ON m.lab_space_id = s.id")

	if filter.SpaceID != "" {
		query = query.Where(squirrel.Eq{"m.lab_space_id": filter.SpaceID})
	}
	// Date range filtering (intersection logic)
	if filter.From != nil {
		query = query.Where(squirrel.Gt{"m.ends_at": filter.From})
	}
	if filter.To != nil {
		query = query.Where(squirrel.Lt{"m.starts_at": filter.To})
	}

	query = query.OrderBy("m.starts_at ASC")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list maintenance blocks query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list maintenance blocks failed: %w", err)
	}
	defer rows.Close()

	var blocks []*Block
	var total int

	for rows.Next() {
		var b Block
		if err := rows.Scan(
			&b.ID, &b.SpaceID, &b.SpaceName, &b.StartsAt, &b.EndsAt, &b.Reason, &b.CreatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan maintenance block failed: %w", err)
		}
		blocks = append(blocks, &b)
	}

	return blocks, total, nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM public.maintenance_blocks WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete maintenance block failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) HasOverlap(ctx context.Context, spaceID string, start, end time.Time) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM public.maintenance_blocks
			WHERE lab_space_id = $1
			  AND starts_at < $3
			  AND ends_at > $2
		)
	`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, spaceID, start, end).Scan(&exists); err != nil {
		return false, fmt.Errorf("check maintenance overlap failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) ListForSpace(ctx context.Context, spaceID string, from, to time.Time) ([]*Block, error) {
	const query = `
		SELECT m.id, m.lab_space_id, s.name, m.starts_at, m.ends_at, m.reason, m.created_at
		FROM public.maintenance_blocks m
		JOIN public.lab_spaces s ON m.lab_space_id = s.id
		WHERE m.lab_space_id = $1
		  AND m.starts_at < $3
		  AND m.ends_at > $2
		ORDER BY m.starts_at ASC
	`
	rows, err := r.pool.Query(ctx, query, spaceID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list maintenance blocks for space failed: %w", err)
	}
	defer rows.Close()

	var blocks []*Block
	for rows.Next() {
		var b Block
		if err := rows.Scan(
			&b.ID, &b.SpaceID, &b.SpaceName, &b.StartsAt, &b.EndsAt, &b.Reason, &b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan maintenance block failed: %w", err)
		}
		blocks = append(blocks, &b)
	}
	return blocks, nil
}
