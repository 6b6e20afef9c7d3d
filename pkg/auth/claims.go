package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/swifthaul/swifthaul-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	PrincipalID uuid.UUID
	Role        enums.PrincipalRole
	Verified    *bool
	JTI         string
}

// AccessTokenClaims represents the typed JWT issued to clients. The role
// claim identifies which identity table the principal lives in, so request
// handling never probes the user/driver/admin tables to find a token owner.
type AccessTokenClaims struct {
	PrincipalID uuid.UUID           `json:"principal_id"`
	Role        enums.PrincipalRole `json:"role"`
	Verified    *bool               `json:"verified,omitempty"`
	jwt.RegisteredClaims
}
