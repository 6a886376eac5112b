package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/signme/signme-backend/internal/domain/models"
	"github.com/signme/signme-backend/internal/domain/types"
	pgclient "github.com/signme/signme-backend/pkg/postgres"
)

type AccountRepo struct {
	db *pgxpool.Pool
}

func NewAccountRepo(db *pgxpool.Pool) *AccountRepo {
	return &AccountRepo{
		db: db,
	}
}

// Create inserts an account row. The unique index on lower(email) is the
// authoritative duplicate check; a violation maps to types.ErrEmailExists.
func (r *AccountRepo) Create(ctx context.Context, a *models.Account) (int64, error) {
	const op = "AccountRepo.Create"

	if a == nil {
		return 0, errors.New("nil account")
	}

	const q = `
		INSERT INTO accounts (first_name, last_name, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at;
	`

	err := TxorDB(ctx, r.db).QueryRow(
		ctx, q, a.FirstName, a.LastName, a.Email, a.GetPasswordHash(),
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		if pgclient.IsUniqueViolation(err) {
			return 0, types.ErrEmailExists
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return a.ID, nil
}

// GetByEmail fetches by normalized email. Returns (nil, nil) when absent.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	const op = "AccountRepo.GetByEmail"

	if email == "" {
		return nil, errors.New("email is required")
	}

	const q = `
		SELECT id, first_name, last_name, email, password_hash, date_of_birth, created_at
		FROM accounts
		WHERE lower(email) = lower($1);
	`

	var (
		a    models.Account
		hash string
		dob  sql.NullString
	)
	err := TxorDB(ctx, r.db).QueryRow(ctx, q, email).Scan(
		&a.ID,
		&a.FirstName,
		&a.LastName,
		&a.Email,
		&hash,
		&dob,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // not found
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a.SetPasswordHash(hash)
	if dob.Valid {
		a.DateOfBirth = &dob.String
	}
	return &a, nil
}

// Update rewrites the editable profile fields and reports affected rows;
// zero rows means the email no longer matches an account.
func (r *AccountRepo) Update(ctx context.Context, email, firstName, lastName string, dateOfBirth *string) (int64, error) {
	const op = "AccountRepo.Update"

	const q = `
		UPDATE accounts
		SET first_name = $2, last_name = $3, date_of_birth = $4
		WHERE lower(email) = lower($1);
	`

	tag, err := TxorDB(ctx, r.db).Exec(ctx, q, email, firstName, lastName, dateOfBirth)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return tag.RowsAffected(), nil
}
