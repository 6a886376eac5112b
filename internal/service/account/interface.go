package account

import (
	"context"

	"github.com/signme/signme-backend/internal/domain/models"
	"github.com/signme/signme-backend/pkg/uuid"
)

type AccountRepo interface {
	Create(ctx context.Context, a *models.Account) (int64, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	Update(ctx context.Context, email, firstName, lastName string, dateOfBirth *string) (int64, error)
}

type RefreshTokenRepo interface {
	Save(ctx context.Context, record *models.RefreshTokenRecord) error
	Get(ctx context.Context, tokenID uuid.UUID) (*models.RefreshTokenRecord, error)
	MarkUsed(ctx context.Context, tokenID uuid.UUID) error
}

type TokenProvider interface {
	GenerateTokens(ctx context.Context, account *models.Account) (*models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Validate(ctx context.Context, token string) (*models.CustomClaims, error)
}
