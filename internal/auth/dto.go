package auth

import (
	"github.com/google/uuid"

	"github.com/swifthaul/swifthaul-backend/pkg/db/models"
	"github.com/swifthaul/swifthaul-backend/pkg/enums"
)

// RequestOTPInput asks for a login code to be issued to a phone number.
type RequestOTPInput struct {
	Phone string `json:"phone" validate:"required"`
}

// OTPIssued is returned from request-otp. Code is populated only when the
// deployment echoes codes in responses (local development without an SMS
// provider).
type OTPIssued struct {
	Phone string `json:"phone"`
	Code  string `json:"code,omitempty"`
}

// VerifyOTPInput exchanges a phone plus code for a token pair.
type VerifyOTPInput struct {
	Phone string `json:"phone" validate:"required"`
	Code  string `json:"code" validate:"required"`
}

// RefreshInput rotates a refresh token. The expired access token is needed
// to locate the session.
type RefreshInput struct {
	AccessToken  string `json:"accessToken" validate:"required"`
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// AdminLoginInput is the back-office password login payload.
type AdminLoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is the result of a successful login or refresh.
type Session struct {
	AccessToken  string              `json:"accessToken"`
	RefreshToken string              `json:"refreshToken"`
	Role         enums.PrincipalRole `json:"role"`
	PrincipalID  uuid.UUID           `json:"principalId"`

	User   *models.User   `json:"user,omitempty"`
	Driver *models.Driver `json:"driver,omitempty"`
	Admin  *models.Admin  `json:"admin,omitempty"`
}
