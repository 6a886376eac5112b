package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/signme/signme-backend/internal/domain/models"
	"github.com/signme/signme-backend/internal/domain/types"
	"github.com/signme/signme-backend/pkg/logger"
	"github.com/signme/signme-backend/pkg/passhash"
	"github.com/signme/signme-backend/pkg/uuid"
	"github.com/signme/signme-backend/pkg/workerpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockAccountRepo struct {
	createFn     func(ctx context.Context, a *models.Account) (int64, error)
	getByEmailFn func(ctx context.Context, email string) (*models.Account, error)
	updateFn     func(ctx context.Context, email, firstName, lastName string, dateOfBirth *string) (int64, error)
}

func (m *mockAccountRepo) Create(ctx context.Context, a *models.Account) (int64, error) {
	if m.createFn != nil {
		return m.createFn(ctx, a)
	}
	return 1, nil
}

func (m *mockAccountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockAccountRepo) Update(ctx context.Context, email, firstName, lastName string, dateOfBirth *string) (int64, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, email, firstName, lastName, dateOfBirth)
	}
	return 1, nil
}

type mockTokenProvider struct {
	generateFn func(ctx context.Context, acc *models.Account) (*models.TokenPair, error)
}

func (m *mockTokenProvider) GenerateTokens(ctx context.Context, acc *models.Account) (*models.TokenPair, error) {
	if m.generateFn != nil {
		return m.generateFn(ctx, acc)
	}
	return &models.TokenPair{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (m *mockTokenProvider) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	return nil, nil
}

func (m *mockTokenProvider) Validate(ctx context.Context, token string) (*models.CustomClaims, error) {
	return nil, nil
}

func newTestService(t *testing.T, repo AccountRepo, tokens TokenProvider) *Service {
	t.Helper()

	pool := workerpool.New(2)
	t.Cleanup(pool.Close)

	guard := workerpool.NewGuard(pool, "account_test", time.Second)
	return NewService(repo, tokens, guard, logger.NewDiscard())
}

func validRegisterRequest() *models.RegisterRequest {
	return &models.RegisterRequest{
		FirstName:       "Nimal",
		LastName:        "Perera",
		Email:           "nimal@example.com",
		Password:        "Abcdefg1@",
		ConfirmPassword: "Abcdefg1@",
	}
}

// --- tests ---

func TestService_Register(t *testing.T) {
	var created *models.Account
	repo := &mockAccountRepo{
		createFn: func(ctx context.Context, a *models.Account) (int64, error) {
			created = a
			return 42, nil
		},
	}

	svc := newTestService(t, repo, &mockTokenProvider{})

	req := validRegisterRequest()
	req.Email = "  Nimal@Example.COM "

	acc, err := svc.Register(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, acc)

	assert.Equal(t, int64(42), acc.ID)
	assert.Equal(t, "nimal@example.com", acc.Email, "email must be stored normalized")
	require.NotNil(t, created)

	ok, err := passhash.VerifyPassword("Abcdefg1@", created.GetPasswordHash())
	require.NoError(t, err)
	assert.True(t, ok, "stored hash must verify against the original password")
	assert.NotEqual(t, "Abcdefg1@", created.GetPasswordHash())
}

func TestService_Register_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *models.RegisterRequest)
		wantErr error
	}{
		{
			name:    "missing first name",
			mutate:  func(r *models.RegisterRequest) { r.FirstName = "  " },
			wantErr: types.ErrMissingField,
		},
		{
			name:    "missing password",
			mutate:  func(r *models.RegisterRequest) { r.Password = "" },
			wantErr: types.ErrMissingField,
		},
		{
			name:    "invalid email",
			mutate:  func(r *models.RegisterRequest) { r.Email = "not-an-email" },
			wantErr: types.ErrInvalidEmail,
		},
		{
			name: "weak password",
			mutate: func(r *models.RegisterRequest) {
				r.Password = "abcdefg1"
				r.ConfirmPassword = "abcdefg1"
			},
			wantErr: types.ErrWeakPassword,
		},
		{
			name:    "password mismatch",
			mutate:  func(r *models.RegisterRequest) { r.ConfirmPassword = "Abcdefg2@" },
			wantErr: types.ErrPasswordMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockAccountRepo{
				createFn: func(ctx context.Context, a *models.Account) (int64, error) {
					t.Fatal("Create must not be called for invalid input")
					return 0, nil
				},
			}

			svc := newTestService(t, repo, &mockTokenProvider{})

			req := validRegisterRequest()
			tt.mutate(req)

			_, err := svc.Register(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	repo := &mockAccountRepo{
		getByEmailFn: func(ctx context.Context, email string) (*models.Account, error) {
			return &models.Account{ID: 1, Email: email}, nil
		},
	}

	svc := newTestService(t, repo, &mockTokenProvider{})

	_, err := svc.Register(context.Background(), validRegisterRequest())
	assert.ErrorIs(t, err, types.ErrEmailExists)
}

// The pre-check can miss a concurrent insert; the unique index surfaces it
// from Create and the caller still sees the duplicate error.
func TestService_Register_DuplicateEmailRace(t *testing.T) {
	repo := &mockAccountRepo{
		createFn: func(ctx context.Context, a *models.Account) (int64, error) {
			return 0, types.ErrEmailExists
		},
	}

	svc := newTestService(t, repo, &mockTokenProvider{})

	_, err := svc.Register(context.Background(), validRegisterRequest())
	assert.ErrorIs(t, err, types.ErrEmailExists)
}

func TestService_Login(t *testing.T) {
	hash, err := passhash.HashPassword("Abcdefg1@")
	require.NoError(t, err)

	stored := &models.Account{ID: 7, Email: "nimal@example.com"}
	stored.SetPasswordHash(hash)

	repo := &mockAccountRepo{
		getByEmailFn: func(ctx context.Context, email string) (*models.Account, error) {
			if email == "nimal@example.com" {
				return stored, nil
			}
			return nil, nil
		},
	}

	svc := newTestService(t, repo, &mockTokenProvider{})

	t.Run("success", func(t *testing.T) {
		acc, pair, err := svc.Login(context.Background(), "Nimal@Example.com", "Abcdefg1@")
		require.NoError(t, err)
		assert.Equal(t, int64(7), acc.ID)
		assert.Equal(t, "access", pair.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "nimal@example.com", "Wrongpass1@")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "other@example.com", "Abcdefg1@")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_Profile_NotFound(t *testing.T) {
	svc := newTestService(t, &mockAccountRepo{}, &mockTokenProvider{})

	_, err := svc.Profile(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, types.ErrAccountNotFound)
}

func TestService_UpdateProfile(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotEmail string
		repo := &mockAccountRepo{
			updateFn: func(ctx context.Context, email, firstName, lastName string, dateOfBirth *string) (int64, error) {
				gotEmail = email
				return 1, nil
			},
		}

		svc := newTestService(t, repo, &mockTokenProvider{})

		dob := "12-05-1990"
		err := svc.UpdateProfile(context.Background(), "Nimal@Example.com", "Nimal", "Perera", &dob)
		require.NoError(t, err)
		assert.Equal(t, "nimal@example.com", gotEmail)
	})

	t.Run("not found", func(t *testing.T) {
		repo := &mockAccountRepo{
			updateFn: func(ctx context.Context, email, firstName, lastName string, dateOfBirth *string) (int64, error) {
				return 0, nil
			},
		}

		svc := newTestService(t, repo, &mockTokenProvider{})

		err := svc.UpdateProfile(context.Background(), "ghost@example.com", "Ghost", "Writer", nil)
		assert.ErrorIs(t, err, types.ErrAccountNotFound)
	})
}

func TestService_StoreTimeout(t *testing.T) {
	pool := workerpool.New(1)
	t.Cleanup(pool.Close)

	blocked := make(chan struct{})
	t.Cleanup(func() { close(blocked) })

	repo := &mockAccountRepo{
		getByEmailFn: func(ctx context.Context, email string) (*models.Account, error) {
			<-blocked
			return nil, nil
		},
	}

	guard := workerpool.NewGuard(pool, "account_test", 20*time.Millisecond)
	svc := NewService(repo, &mockTokenProvider{}, guard, logger.NewDiscard())

	_, err := svc.Profile(context.Background(), "nimal@example.com")
	assert.ErrorIs(t, err, types.ErrStoreTimeout)
}

func TestService_StoreError(t *testing.T) {
	boom := errors.New("socket closed")
	repo := &mockAccountRepo{
		getByEmailFn: func(ctx context.Context, email string) (*models.Account, error) {
			return nil, boom
		},
	}

	svc := newTestService(t, repo, &mockTokenProvider{})

	_, err := svc.Profile(context.Background(), "nimal@example.com")
	assert.ErrorIs(t, err, boom)
}

// Guards against accidental reuse of the same token id for both tokens.
func TestNewClaimIDs(t *testing.T) {
	a, err := uuid.New()
	require.NoError(t, err)
	b, err := uuid.New()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
