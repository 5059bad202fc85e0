package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// InTx runs fn against a transaction-scoped Repository. The transaction
	// commits when fn returns nil and rolls back otherwise, so a failing
	// step never leaves a partial write behind.
	InTx(ctx context.Context, fn func(Repository) error) error

	// LockSpace serializes booking writes for one lab space. Only valid
	// inside InTx; the lock releases on commit or rollback.
	LockSpace(ctx context.Context, spaceID string) error

	// LockUser serializes quota read-then-write for one user. Only valid
	// inside InTx.
	LockUser(ctx context.Context, userID string) error

	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	Update(ctx context.Context, b *Booking) error

	// HasOverlap checks if any booking in the active set for the space
	// intersects [start, end). excludeBookingID ignores one booking (for
	// reschedules); pass "" otherwise.
	HasOverlap(ctx context.Context, spaceID string, start, end time.Time, excludeBookingID string) (bool, error)

	// UsedHours sums ledger-rounded duration hours of the user's
	// quota-consuming bookings whose starts_at falls in [from, to).
	UsedHours(ctx context.Context, userID string, from, to time.Time) (float64, error)

	// ListActiveForSpace returns active-set bookings intersecting [from, to),
	// ordered by starts_at.
	ListActiveForSpace(ctx context.Context, spaceID string, from, to time.Time) ([]*Booking, error)

	// MarkNoShows flips approved bookings whose slot fully elapsed without a
	// check-in to no_show. Returns the number of bookings updated.
	MarkNoShows(ctx context.Context, now time.Time) (int64, error)
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, letting every query
// run against either the pool or an open transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgxRepository struct {
	db   querier
	pool *pgxpool.Pool // nil when db is a transaction
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{db: pool, pool: pool}
}

func (r *pgxRepository) InTx(ctx context.Context, fn func(Repository) error) error {
	if r.pool == nil {
		// Already transactional; run in the same transaction.
		return fn(r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction failed: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&pgxRepository{db: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction failed: %w", err)
	}
	return nil
}

// Advisory lock namespaces keep space locks and user locks from colliding.
const (
	lockSeedSpace = 0
	lockSeedUser  = 1
)

func (r *pgxRepository) advisoryLock(ctx context.Context, key string, seed int64) error {
	if r.pool != nil {
		return errors.New("advisory lock requires a transaction")
	}
	_, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, $2))`, key, seed)
	if err != nil {
		return fmt.Errorf("acquire advisory lock failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) LockSpace(ctx context.Context, spaceID string) error {
	return r.advisoryLock(ctx, spaceID, lockSeedSpace)
}

func (r *pgxRepository) LockUser(ctx context.Context, userID string) error {
	return r.advisoryLock(ctx, userID, lockSeedUser)
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	const query = `
		INSERT INTO public.lab_bookings
			(user_id, lab_space_id, title, purpose, slot_type, starts_at, ends_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		b.UserID, b.SpaceID, b.Title, b.Purpose, b.SlotType, b.StartsAt, b.EndsAt, b.Status,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.ExclusionViolation {
			// Backstop behind the advisory lock: the table carries an
			// exclusion constraint over (lab_space_id, tstzrange) for
			// active statuses.
			return ErrSlotUnavailable
		}
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

const bookingSelect = `
	b.id, b.user_id, u.display_name, b.lab_space_id, s.name, s.slug,
	b.title, b.purpose, b.slot_type, b.starts_at, b.ends_at, b.status,
	b.check_in_at, b.check_out_at, b.created_at, b.updated_at`

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID, &b.UserID, &b.UserName, &b.SpaceID, &b.SpaceName, &b.SpaceSlug,
		&b.Title, &b.Purpose, &b.SlotType, &b.StartsAt, &b.EndsAt, &b.Status,
		&b.CheckInAt, &b.CheckOutAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan booking failed: %w", err)
	}
	return &b, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query := `
		SELECT ` + bookingSelect + `
		FROM public.lab_bookings b
		JOIN public.users u ON b.user_id = u.id
		JOIN public.lab_spaces s ON b.lab_space_id = s.id
		WHERE b.id = $1
	`
	return scanBooking(r.db.QueryRow(ctx, query, id))
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"b.id", "b.user_id", "u.display_name", "b.lab_space_id", "s.name", "s.slug",
		"b.title", "b.purpose", "b.slot_type", "b.starts_at", "b.ends_at", "b.status",
		"b.check_in_at", "b.check_out_at", "b.created_at", "b.updated_at",
		"count(*) OVER() as total_count",
	).
		From("public.lab_bookings b").
		Join("public.users u ON b.user_id = u.id").
		Join("public.lab_spaces s ON b.lab_space_id = s.id")

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"b.user_id": filter.UserID})
	}
	if filter.SpaceID != "" {
		query = query.Where(squirrel.Eq{"b.lab_space_id": filter.SpaceID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"b.status": filter.Status})
	}
	if filter.Upcoming {
		query = query.Where(squirrel.Expr("b.starts_at > now()"))
	}

	query = query.OrderBy("b.starts_at DESC")

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
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int

	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.UserName, &b.SpaceID, &b.SpaceName, &b.SpaceSlug,
			&b.Title, &b.Purpose, &b.SlotType, &b.StartsAt, &b.EndsAt, &b.Status,
			&b.CheckInAt, &b.CheckOutAt, &b.CreatedAt, &b.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}

	return bookings, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, b *Booking) error {
	const query = `
		UPDATE public.lab_bookings
		SET status = $1, check_in_at = $2, check_out_at = $3, updated_at = now()
		WHERE id = $4
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, b.Status, b.CheckInAt, b.CheckOutAt, b.ID).
		Scan(&b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update booking failed: %w", err)
	}
	return nil
}

func activeStatusStrings() []string {
	out := make([]string, len(activeStatuses))
	for i, s := range activeStatuses {
		out[i] = string(s)
	}
	return out
}

func (r *pgxRepository) HasOverlap(ctx context.Context, spaceID string, start, end time.Time, excludeBookingID string) (bool, error) {
	// Overlap rule for half-open ranges: existing.start < new.end AND
	// existing.end > new.start. Back-to-back bookings do not conflict.
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	subQuery := psql.Select("1").
		From("public.lab_bookings").
		Where(squirrel.Eq{"lab_space_id": spaceID}).
		Where(squirrel.Eq{"status": activeStatusStrings()}).
		Where(squirrel.Lt{"starts_at": end}).
		Where(squirrel.Gt{"ends_at": start})

	if excludeBookingID != "" {
		subQuery = subQuery.Where(squirrel.NotEq{"id": excludeBookingID})
	}

	sqlStr, args, err := subQuery.ToSql()
	if err != nil {
		return false, fmt.Errorf("build check overlap query failed: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, "SELECT EXISTS ("+sqlStr+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check overlap failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) UsedHours(ctx context.Context, userID string, from, to time.Time) (float64, error) {
	// Per-booking rounding matches TimeRange.Hours so the ledger balances
	// exactly against individually displayed durations.
	const query = `
		SELECT COALESCE(SUM(ROUND((EXTRACT(EPOCH FROM (ends_at - starts_at)) / 3600.0)::numeric, 2)), 0)
		FROM public.lab_bookings
		WHERE user_id = $1
		  AND starts_at >= $2
		  AND starts_at < $3
		  AND status NOT IN ('cancelled', 'rejected')
	`
	var used float64
	if err := r.db.QueryRow(ctx, query, userID, from, to).Scan(&used); err != nil {
		return 0, fmt.Errorf("sum used hours failed: %w", err)
	}
	return used, nil
}

func (r *pgxRepository) ListActiveForSpace(ctx context.Context, spaceID string, from, to time.Time) ([]*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"b.id", "b.user_id", "u.display_name", "b.lab_space_id", "s.name", "s.slug",
		"b.title", "b.purpose", "b.slot_type", "b.starts_at", "b.ends_at", "b.status",
		"b.check_in_at", "b.check_out_at", "b.created_at", "b.updated_at",
	).
		From("public.lab_bookings b").
		Join("public.users u ON b.user_id = u.id").
		Join("public.lab_spaces s ON b.lab_space_id = s.id").
		Where(squirrel.Eq{"b.lab_space_id": spaceID}).
		Where(squirrel.Eq{"b.status": activeStatusStrings()}).
		Where(squirrel.Lt{"b.starts_at": to}).
		Where(squirrel.Gt{"b.ends_at": from}).
		OrderBy("b.starts_at ASC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build active bookings query failed: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list active bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.UserName, &b.SpaceID, &b.SpaceName, &b.SpaceSlug,
			&b.Title, &b.Purpose, &b.SlotType, &b.StartsAt, &b.EndsAt, &b.Status,
			&b.CheckInAt, &b.CheckOutAt, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}

	return bookings, nil
}

func (r *pgxRepository) MarkNoShows(ctx context.Context, now time.Time) (int64, error) {
	const query = `
		UPDATE public.lab_bookings
		SET status = 'no_show', updated_at = now()
		WHERE status = 'approved'
		  AND ends_at < $1
		  AND check_in_at IS NULL
	`
	ct, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("mark no-shows failed: %w", err)
	}
	return ct.RowsAffected(), nil
}
