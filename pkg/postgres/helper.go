package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsUniqueViolation проверяет, является ли переданная ошибка нарушением
// уникального индекса PostgreSQL (SQLSTATE 23505).
//
// Используется как авторитетный сигнал конфликта e-mail при регистрации:
// прикладная проверка "email уже существует" остаётся только быстрым путём.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError

	// errors.As пытается извлечь конкретный тип *pgconn.PgError из всей цепочки ошибок.
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}

	return false
}

// IsForeignKeyViolation проверяет, является ли переданная ошибка нарушением
// внешнего ключа PostgreSQL (SQLSTATE 23503).
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23503"
	}

	return false
}
