package dto

import (
	"time"

	"github.com/signme/signme-backend/internal/domain/models"
	"github.com/signme/signme-backend/internal/domain/types"
	"github.com/signme/signme-backend/pkg/validator"
)

type RegisterRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r *RegisterRequest) ToModel() *models.RegisterRequest {
	return &models.RegisterRequest{
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		Email:           r.Email,
		Password:        r.Password,
		ConfirmPassword: r.ConfirmPassword,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type UpdateProfileRequest struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
}

// Surface-level checks only; the password policy itself lives in the
// service layer so it stays identical for every transport.
func ValidateRegister(v *validator.Validator, req *RegisterRequest) {
	v.Check(req.FirstName != "", "first_name", "must be provided")
	v.Check(len(req.FirstName) <= 500, "first_name", "must not be more than 500 bytes long")

	v.Check(req.LastName != "", "last_name", "must be provided")
	v.Check(len(req.LastName) <= 500, "last_name", "must not be more than 500 bytes long")

	v.Check(req.Email != "", "email", "must be provided")
	v.Check(len(req.Email) <= 500, "email", "must not be more than 500 bytes long")

	v.Check(req.Password != "", "password", "must be provided")
	v.Check(len(req.Password) <= 50, "password", "must not be more than 50 bytes long")

	v.Check(req.ConfirmPassword != "", "confirm_password", "must be provided")
}

func ValidateLogin(v *validator.Validator, req *LoginRequest) {
	v.Check(req.Email != "", "email", "must be provided")
	v.Check(req.Password != "", "password", "must be provided")
}

func ValidateRefreshToken(v *validator.Validator, req *RefreshTokenRequest) {
	v.Check(req.RefreshToken != "", "refresh_token", "must be provided")
}

func ValidateUpdateProfile(v *validator.Validator, req *UpdateProfileRequest) {
	v.Check(req.FirstName != "", "first_name", "must be provided")
	v.Check(req.LastName != "", "last_name", "must be provided")

	if req.DateOfBirth != nil {
		_, err := time.Parse(types.DateLayout, *req.DateOfBirth)
		v.Check(err == nil, "date_of_birth", "must be in dd-MM-yyyy format")
	}
}
