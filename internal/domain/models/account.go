package models

import (
	"context"
	"time"
)

type RegisterRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type Account struct {
	ID           int64     `json:"ID"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	passwordHash string    `json:"-"`
	DateOfBirth  *string   `json:"date_of_birth,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitzero"`
}

func (a *Account) GetPasswordHash() string {
	return a.passwordHash
}

func (a *Account) SetPasswordHash(hash string) {
	a.passwordHash = hash
}

// AnonymousAccount represents an unauthenticated caller.
func AnonymousAccount() *Account {
	return &Account{}
}

func (a *Account) IsAnonymous() bool {
	return a == nil || a.Email == ""
}

// --- context helpers ---

type accountCtxKey struct{}

var accountKey = accountCtxKey{}

func WithAccount(ctx context.Context, a *Account) context.Context {
	return context.WithValue(ctx, accountKey, a)
}

func AccountFromContext(ctx context.Context) *Account {
	if a, ok := ctx.Value(accountKey).(*Account); ok {
		return a
	}
	return nil
}
