package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	pkgauth "github.com/swifthaul/swifthaul-backend/pkg/auth"
	"github.com/swifthaul/swifthaul-backend/pkg/auth/session"
	"github.com/swifthaul/swifthaul-backend/pkg/config"
	"github.com/swifthaul/swifthaul-backend/pkg/db/models"
	"github.com/swifthaul/swifthaul-backend/pkg/enums"
	pkgerrors "github.com/swifthaul/swifthaul-backend/pkg/errors"
	"github.com/swifthaul/swifthaul-backend/pkg/otp"
	"github.com/swifthaul/swifthaul-backend/pkg/security"
)

// Service implements the role-partitioned login flows. Users log in with a
// phone OTP and are created on first request. Drivers log in with a phone
// OTP against an existing driver account. Admins log in with a password.
type Service interface {
	RequestOTP(ctx context.Context, role enums.PrincipalRole, input RequestOTPInput) (*OTPIssued, error)
	VerifyOTP(ctx context.Context, role enums.PrincipalRole, input VerifyOTPInput) (*Session, error)
	Refresh(ctx context.Context, input RefreshInput) (*Session, error)
	Logout(ctx context.Context, accessID string) error
	AdminLogin(ctx context.Context, input AdminLoginInput) (*Session, error)
}

type driverSource interface {
	FindByPhone(ctx context.Context, phone string) (*models.Driver, error)
}

type otpManager interface {
	Issue(ctx context.Context, role enums.PrincipalRole, identity string) (string, error)
	Verify(ctx context.Context, role enums.PrincipalRole, identity, code string) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	repo     Repository
	drivers  driverSource
	otp      otpManager
	sessions sessionManager
	jwtCfg   config.JWTConfig
	otpCfg   config.OTPConfig
	now      func() time.Time
}

// NewService wires the auth dependencies.
func NewService(
	repo Repository,
	drivers driverSource,
	otpMgr otpManager,
	sessions sessionManager,
	jwtCfg config.JWTConfig,
	otpCfg config.OTPConfig,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("auth repository required")
	}
	if drivers == nil {
		return nil, fmt.Errorf("driver source required")
	}
	if otpMgr == nil {
		return nil, fmt.Errorf("otp manager required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	return &service{
		repo:     repo,
		drivers:  drivers,
		otp:      otpMgr,
		sessions: sessions,
		jwtCfg:   jwtCfg,
		otpCfg:   otpCfg,
		now:      time.Now,
	}, nil
}

func (s *service) RequestOTP(ctx context.Context, role enums.PrincipalRole, input RequestOTPInput) (*OTPIssued, error) {
	phone := strings.TrimSpace(input.Phone)
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}

	switch role {
	case enums.PrincipalRoleUser:
		// Customers are created on first login. Repeat requests for an
		// existing phone just re-issue the code.
		if _, err := s.repo.FindUserByPhone(ctx, phone); err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up user")
			}
			user := &models.User{Phone: phone, IsActive: true}
			if err := s.repo.CreateUser(ctx, user); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
			}
		}
	case enums.PrincipalRoleDriver:
		driver, err := s.drivers.FindByPhone(ctx, phone)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no driver account for this phone")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up driver")
		}
		if !driver.Active {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "driver account deactivated")
		}
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "otp login is not available for this role")
	}

	code, err := s.otp.Issue(ctx, role, phone)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "issue otp")
	}

	issued := &OTPIssued{Phone: phone}
	if s.otpCfg.EchoInResponse {
		issued.Code = code
	}
	return issued, nil
}

func (s *service) VerifyOTP(ctx context.Context, role enums.PrincipalRole, input VerifyOTPInput) (*Session, error) {
	phone := strings.TrimSpace(input.Phone)
	if phone == "" || strings.TrimSpace(input.Code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone and code are required")
	}
	if role != enums.PrincipalRoleUser && role != enums.PrincipalRoleDriver {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "otp login is not available for this role")
	}

	if err := s.otp.Verify(ctx, role, phone, input.Code); err != nil {
		switch {
		case errors.Is(err, otp.ErrTooManyAttempts):
			return nil, pkgerrors.Wrap(pkgerrors.CodeRateLimit, err, "too many attempts, request a new code")
		case errors.Is(err, otp.ErrCodeMismatch):
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired code")
		default:
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify otp")
		}
	}

	if role == enums.PrincipalRoleDriver {
		return s.startDriverSession(ctx, phone)
	}
	return s.startUserSession(ctx, phone)
}

func (s *service) startUserSession(ctx context.Context, phone string) (*Session, error) {
	user, err := s.repo.FindUserByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired code")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up user")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account deactivated")
	}

	now := s.now().UTC()
	if err := s.repo.UpdateUser(ctx, user.ID, map[string]any{"last_login_at": now}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record login")
	}
	user.LastLoginAt = &now

	sess, err := s.mint(ctx, pkgauth.AccessTokenPayload{
		PrincipalID: user.ID,
		Role:        enums.PrincipalRoleUser,
	})
	if err != nil {
		return nil, err
	}
	sess.User = user
	return sess, nil
}

func (s *service) startDriverSession(ctx context.Context, phone string) (*Session, error) {
	driver, err := s.drivers.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired code")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up driver")
	}
	if !driver.Active {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "driver account deactivated")
	}

	verified := driver.IsVerified()
	sess, err := s.mint(ctx, pkgauth.AccessTokenPayload{
		PrincipalID: driver.ID,
		Role:        enums.PrincipalRoleDriver,
		Verified:    &verified,
	})
	if err != nil {
		return nil, err
	}
	sess.Driver = driver
	return sess, nil
}

func (s *service) AdminLogin(ctx context.Context, input AdminLoginInput) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	admin, err := s.repo.FindAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same response as a wrong password so the endpoint does not
			// confirm which emails exist.
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up admin")
	}
	if !admin.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	ok, err := security.VerifyPassword(input.Password, admin.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	now := s.now().UTC()
	if err := s.repo.UpdateAdmin(ctx, admin.ID, map[string]any{"last_login_at": now}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record login")
	}
	admin.LastLoginAt = &now

	sess, err := s.mint(ctx, pkgauth.AccessTokenPayload{
		PrincipalID: admin.ID,
		Role:        enums.PrincipalRoleAdmin,
	})
	if err != nil {
		return nil, err
	}
	sess.Admin = admin
	return sess, nil
}

func (s *service) Refresh(ctx context.Context, input RefreshInput) (*Session, error) {
	if strings.TrimSpace(input.AccessToken) == "" || strings.TrimSpace(input.RefreshToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "access and refresh tokens are required")
	}

	// The access token may be expired; it is only needed to locate the
	// session and carry the principal forward.
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, input.AccessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, input.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	access, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		PrincipalID: claims.PrincipalID,
		Role:        claims.Role,
		Verified:    claims.Verified,
		JTI:         newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &Session{
		AccessToken:  access,
		RefreshToken: newRefresh,
		Role:         claims.Role,
		PrincipalID:  claims.PrincipalID,
	}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) mint(ctx context.Context, payload pkgauth.AccessTokenPayload) (*Session, error) {
	payload.JTI = session.NewAccessID()

	access, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	refresh, err := s.sessions.Generate(ctx, payload.JTI)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}

	return &Session{
		AccessToken:  access,
		RefreshToken: refresh,
		Role:         payload.Role,
		PrincipalID:  payload.PrincipalID,
	}, nil
}
