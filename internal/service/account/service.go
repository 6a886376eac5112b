package account

import (
	"context"
	"errors"
	"strings"

	"github.com/signme/signme-backend/internal/domain/models"
	"github.com/signme/signme-backend/internal/domain/types"
	"github.com/signme/signme-backend/internal/service/credential"
	"github.com/signme/signme-backend/pkg/logger"
	wrap "github.com/signme/signme-backend/pkg/logger/wrapper"
	"github.com/signme/signme-backend/pkg/metrics"
	"github.com/signme/signme-backend/pkg/passhash"
	"github.com/signme/signme-backend/pkg/workerpool"
)

const serviceName = "account"

type Service struct {
	accountRepo AccountRepo
	tokens      TokenProvider
	guard       *workerpool.Guard
	log         logger.Logger
}

func NewService(accountRepo AccountRepo, tokens TokenProvider, guard *workerpool.Guard, log logger.Logger) *Service {
	return &Service{
		accountRepo: accountRepo,
		tokens:      tokens,
		guard:       guard,
		log:         log,
	}
}

// Register validates the sign-up request and creates the account.
// The email is normalized (trimmed, lowercased) before any check, so the
// same address never registers twice under different casing.
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.Account, error) {
	ctx = wrap.WithAction(ctx, "account_register")

	if req == nil {
		return nil, types.ErrMissingField
	}

	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	email := NormalizeEmail(req.Email)
	ctx = wrap.WithEmail(ctx, email)

	if firstName == "" || lastName == "" || email == "" || req.Password == "" || req.ConfirmPassword == "" {
		return nil, types.ErrMissingField
	}
	if !credential.ValidEmail(email) {
		return nil, types.ErrInvalidEmail
	}
	if !credential.ValidPassword(req.Password) {
		return nil, types.ErrWeakPassword
	}
	if req.Password != req.ConfirmPassword {
		return nil, types.ErrPasswordMismatch
	}

	// Быстрая проверка на дубликат. Гонку закрывает уникальный индекс в БД.
	existing, err := s.getByEmail(ctx, email)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if existing != nil {
		metrics.RegistrationsTotal.WithLabelValues(serviceName, "duplicate").Inc()
		return nil, types.ErrEmailExists
	}

	hash, err := passhash.HashPassword(req.Password)
	if err != nil {
		s.log.Error(ctx, "failed to hash password", err)
		return nil, ErrUnexpected
	}

	acc := &models.Account{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
	}
	acc.SetPasswordHash(hash)

	err = s.guard.Run(ctx, "account_create", func(ctx context.Context) error {
		id, err := s.accountRepo.Create(ctx, acc)
		if err != nil {
			return err
		}
		acc.ID = id
		return nil
	})
	if err != nil {
		if errors.Is(err, types.ErrEmailExists) {
			metrics.RegistrationsTotal.WithLabelValues(serviceName, "duplicate").Inc()
			return nil, types.ErrEmailExists
		}
		metrics.RegistrationsTotal.WithLabelValues(serviceName, "error").Inc()
		s.log.Error(ctx, "failed to create account", err)
		return nil, wrap.Error(ctx, err)
	}

	metrics.RegistrationsTotal.WithLabelValues(serviceName, "success").Inc()
	s.log.Info(ctx, "account registered")
	return acc, nil
}

// Login verifies credentials and issues a token pair.
func (s *Service) Login(ctx context.Context, email, password string) (*models.Account, *models.TokenPair, error) {
	ctx = wrap.WithAction(ctx, "account_login")

	email = NormalizeEmail(email)
	ctx = wrap.WithEmail(ctx, email)

	if email == "" || password == "" {
		return nil, nil, types.ErrMissingField
	}

	acc, err := s.getByEmail(ctx, email)
	if err != nil {
		return nil, nil, wrap.Error(ctx, err)
	}
	if acc == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if ok, err := passhash.VerifyPassword(password, acc.GetPasswordHash()); err != nil || !ok {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.tokens.GenerateTokens(ctx, acc)
	if err != nil {
		s.log.Error(ctx, "failed to generate tokens", err)
		return nil, nil, ErrTokenGenerateFail
	}

	return acc, pair, nil
}

// Profile returns the account for the given email.
func (s *Service) Profile(ctx context.Context, email string) (*models.Account, error) {
	ctx = wrap.WithAction(ctx, "account_profile")

	acc, err := s.getByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if acc == nil {
		return nil, types.ErrAccountNotFound
	}
	return acc, nil
}

// UpdateProfile changes the mutable account fields.
func (s *Service) UpdateProfile(ctx context.Context, email, firstName, lastName string, dateOfBirth *string) error {
	ctx = wrap.WithAction(ctx, "account_update_profile")

	email = NormalizeEmail(email)
	ctx = wrap.WithEmail(ctx, email)

	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if email == "" || firstName == "" || lastName == "" {
		return types.ErrMissingField
	}

	var affected int64
	err := s.guard.Run(ctx, "account_update", func(ctx context.Context) error {
		n, err := s.accountRepo.Update(ctx, email, firstName, lastName, dateOfBirth)
		if err != nil {
			return err
		}
		affected = n
		return nil
	})
	if err != nil {
		s.log.Error(ctx, "failed to update account", err)
		return wrap.Error(ctx, err)
	}
	if affected == 0 {
		return types.ErrAccountNotFound
	}

	s.log.Info(ctx, "account updated")
	return nil
}

// Authenticate validates an access token and loads its account. Anything
// short of a valid, unexpired access token for an existing account reads as
// an invalid token.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.Account, error) {
	claims, err := s.tokens.Validate(ctx, token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != models.AccessToken {
		return nil, ErrInvalidToken
	}

	acc, err := s.getByEmail(ctx, claims.Email)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if acc == nil {
		return nil, ErrInvalidToken
	}

	return acc, nil
}

// Refresh rotates a refresh token into a new token pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	return s.tokens.Refresh(ctx, refreshToken)
}

func (s *Service) getByEmail(ctx context.Context, email string) (*models.Account, error) {
	var acc *models.Account
	err := s.guard.Run(ctx, "account_get_by_email", func(ctx context.Context) error {
		a, err := s.accountRepo.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		acc = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// NormalizeEmail is the canonical form used for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
