package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/signme/signme-backend/internal/domain/models"
	"github.com/signme/signme-backend/internal/domain/types"
)

type SessionRepo struct {
	db *pgxpool.Pool
}

func NewSessionRepo(db *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{
		db: db,
	}
}

// Insert persists a new drive row. session_id deliberately carries no
// uniqueness constraint: two drives started within the same second are
// accepted as distinct rows.
func (r *SessionRepo) Insert(ctx context.Context, s *models.Session) error {
	const op = "SessionRepo.Insert"

	if s == nil {
		return errors.New("nil session")
	}

	const q = `
		INSERT INTO sessions (email, session_id, start_location, destination, vehicle_type, session_start_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id;
	`

	err := TxorDB(ctx, r.db).QueryRow(
		ctx, q, s.Email, s.SessionID, s.StartLocation, s.Destination, s.VehicleType, s.StartTime,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// UpdateEnd stamps the end time on the account's open rows with the given
// session id. The email predicate matters: session_id is not unique, and two
// accounts can collide within the same second, so the id alone must never
// select another account's drive. Zero affected rows maps to
// types.ErrSessionNotFound.
func (r *SessionRepo) UpdateEnd(ctx context.Context, email string, sessionID types.SessionID, endTime string) error {
	const op = "SessionRepo.UpdateEnd"

	const q = `
		UPDATE sessions
		SET session_end_time = $3
		WHERE session_id = $1 AND lower(email) = lower($2) AND session_end_time IS NULL;
	`

	tag, err := TxorDB(ctx, r.db).Exec(ctx, q, sessionID, email, endTime)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrSessionNotFound
	}

	return nil
}

// ListByEmail returns all drives of an account, newest first. Ordering uses
// the surrogate key, not to_timestamp over the stored dd-MM-yyyy HH:mm:ss
// strings: ids follow insertion order, and a row with a corrupt timestamp
// must still come back so the aggregator can log and skip it instead of the
// whole query failing.
func (r *SessionRepo) ListByEmail(ctx context.Context, email string) ([]models.Session, error) {
	const op = "SessionRepo.ListByEmail"

	const q = `
		SELECT id, email, session_id, start_location, destination, vehicle_type, session_start_time, session_end_time
		FROM sessions
		WHERE lower(email) = lower($1)
		ORDER BY id DESC;
	`

	rows, err := TxorDB(ctx, r.db).Query(ctx, q, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var s models.Session
		if err := rows.Scan(
			&s.ID,
			&s.Email,
			&s.SessionID,
			&s.StartLocation,
			&s.Destination,
			&s.VehicleType,
			&s.StartTime,
			&s.EndTime,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return sessions, nil
}

// GetBySessionID returns the account's newest drive with the given id, or
// nil. Scoped by email for the same collision reason as UpdateEnd.
func (r *SessionRepo) GetBySessionID(ctx context.Context, email string, sessionID types.SessionID) (*models.Session, error) {
	const op = "SessionRepo.GetBySessionID"

	const q = `
		SELECT id, email, session_id, start_location, destination, vehicle_type, session_start_time, session_end_time
		FROM sessions
		WHERE session_id = $1 AND lower(email) = lower($2)
		ORDER BY id DESC
		LIMIT 1;
	`

	var s models.Session
	err := TxorDB(ctx, r.db).QueryRow(ctx, q, sessionID, email).Scan(
		&s.ID,
		&s.Email,
		&s.SessionID,
		&s.StartLocation,
		&s.Destination,
		&s.VehicleType,
		&s.StartTime,
		&s.EndTime,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &s, nil
}
