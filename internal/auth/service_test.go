package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
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

type stubRepo struct {
	usersByPhone  map[string]*models.User
	adminsByEmail map[string]*models.Admin
	userUpdates   map[uuid.UUID]map[string]any
	adminUpdates  map[uuid.UUID]map[string]any
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		usersByPhone:  map[string]*models.User{},
		adminsByEmail: map[string]*models.Admin{},
		userUpdates:   map[uuid.UUID]map[string]any{},
		adminUpdates:  map[uuid.UUID]map[string]any{},
	}
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) FindUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	if u, ok := s.usersByPhone[phone]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = uuid.New()
	s.usersByPhone[user.Phone] = user
	return nil
}

func (s *stubRepo) UpdateUser(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.userUpdates[id] = updates
	return nil
}

func (s *stubRepo) FindAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	if a, ok := s.adminsByEmail[email]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) UpdateAdmin(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.adminUpdates[id] = updates
	return nil
}

type stubDrivers struct {
	byPhone map[string]*models.Driver
}

func (s *stubDrivers) FindByPhone(ctx context.Context, phone string) (*models.Driver, error) {
	if d, ok := s.byPhone[phone]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubOTP struct {
	issued    map[string]string
	verifyErr error
}

func (s *stubOTP) Issue(ctx context.Context, role enums.PrincipalRole, identity string) (string, error) {
	if s.issued == nil {
		s.issued = map[string]string{}
	}
	s.issued[string(role)+":"+identity] = "424242"
	return "424242", nil
}

func (s *stubOTP) Verify(ctx context.Context, role enums.PrincipalRole, identity, code string) error {
	return s.verifyErr
}

type stubSessions struct {
	generated []string
	revoked   []string
	rotateErr error
}

func (s *stubSessions) Generate(ctx context.Context, accessID string) (string, error) {
	s.generated = append(s.generated, accessID)
	return "refresh-" + accessID, nil
}

func (s *stubSessions) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	next := uuid.NewString()
	return next, "refresh-" + next, nil
}

func (s *stubSessions) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret",
		Issuer:                 "swifthaul-test",
		ExpirationMinutes:      15,
		RefreshTokenTTLMinutes: 60,
	}
}

type fixture struct {
	repo     *stubRepo
	drivers  *stubDrivers
	otp      *stubOTP
	sessions *stubSessions
	svc      Service
}

func newFixture(t *testing.T, echo bool) *fixture {
	t.Helper()
	f := &fixture{
		repo:     newStubRepo(),
		drivers:  &stubDrivers{byPhone: map[string]*models.Driver{}},
		otp:      &stubOTP{},
		sessions: &stubSessions{},
	}
	svc, err := NewService(f.repo, f.drivers, f.otp, f.sessions, testJWTConfig(), config.OTPConfig{
		Digits:         6,
		TTL:            5 * time.Minute,
		MaxAttempts:    5,
		EchoInResponse: echo,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	f.svc = svc
	return f
}

func TestRequestOTPCreatesUserOnFirstLogin(t *testing.T) {
	f := newFixture(t, true)

	issued, err := f.svc.RequestOTP(context.Background(), enums.PrincipalRoleUser, RequestOTPInput{Phone: " +15550100 "})
	if err != nil {
		t.Fatalf("request otp: %v", err)
	}
	if issued.Phone != "+15550100" {
		t.Fatalf("phone not trimmed: %q", issued.Phone)
	}
	if issued.Code != "424242" {
		t.Fatalf("dev deployments echo the code, got %q", issued.Code)
	}
	user := f.repo.usersByPhone["+15550100"]
	if user == nil || !user.IsActive {
		t.Fatalf("user not created active: %+v", user)
	}

	// second request for the same phone re-issues without another create
	if _, err := f.svc.RequestOTP(context.Background(), enums.PrincipalRoleUser, RequestOTPInput{Phone: "+15550100"}); err != nil {
		t.Fatalf("repeat request: %v", err)
	}
	if len(f.repo.usersByPhone) != 1 {
		t.Fatalf("expected one user, got %d", len(f.repo.usersByPhone))
	}
}

func TestRequestOTPHidesCodeByDefault(t *testing.T) {
	f := newFixture(t, false)

	issued, err := f.svc.RequestOTP(context.Background(), enums.PrincipalRoleUser, RequestOTPInput{Phone: "+15550100"})
	if err != nil {
		t.Fatalf("request otp: %v", err)
	}
	if issued.Code != "" {
		t.Fatalf("code must not leak in responses: %q", issued.Code)
	}
}

func TestRequestOTPDriverMustExist(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.svc.RequestOTP(context.Background(), enums.PrincipalRoleDriver, RequestOTPInput{Phone: "+15550100"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown driver, got %v", err)
	}

	f.drivers.byPhone["+15550100"] = &models.Driver{ID: uuid.New(), Phone: "+15550100", Active: false}
	_, err = f.svc.RequestOTP(context.Background(), enums.PrincipalRoleDriver, RequestOTPInput{Phone: "+15550100"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for deactivated driver, got %v", err)
	}
}

func TestRequestOTPRejectsAdminRole(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.svc.RequestOTP(context.Background(), enums.PrincipalRoleAdmin, RequestOTPInput{Phone: "+15550100"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestVerifyOTPStartsUserSession(t *testing.T) {
	f := newFixture(t, false)
	user := &models.User{ID: uuid.New(), Phone: "+15550100", IsActive: true}
	f.repo.usersByPhone[user.Phone] = user

	sess, err := f.svc.VerifyOTP(context.Background(), enums.PrincipalRoleUser, VerifyOTPInput{Phone: user.Phone, Code: "424242"})
	if err != nil {
		t.Fatalf("verify otp: %v", err)
	}
	if sess.Role != enums.PrincipalRoleUser || sess.PrincipalID != user.ID {
		t.Fatalf("unexpected session principal: %+v", sess)
	}
	if sess.AccessToken == "" || sess.RefreshToken == "" {
		t.Fatalf("token pair missing")
	}
	if sess.User == nil || sess.User.LastLoginAt == nil {
		t.Fatalf("login not recorded on returned user")
	}
	if _, ok := f.repo.userUpdates[user.ID]["last_login_at"]; !ok {
		t.Fatalf("last_login_at not persisted")
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), sess.AccessToken)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.PrincipalID != user.ID || claims.Role != enums.PrincipalRoleUser {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if len(f.sessions.generated) != 1 || f.sessions.generated[0] != claims.ID {
		t.Fatalf("session not keyed by jti: %v vs %s", f.sessions.generated, claims.ID)
	}
}

func TestVerifyOTPDriverCarriesVerifiedClaim(t *testing.T) {
	f := newFixture(t, false)
	driver := &models.Driver{ID: uuid.New(), Phone: "+15550100", Active: true}
	driver.Document = &models.DriverDocument{Status: enums.DocumentStatusVerified}
	f.drivers.byPhone[driver.Phone] = driver

	sess, err := f.svc.VerifyOTP(context.Background(), enums.PrincipalRoleDriver, VerifyOTPInput{Phone: driver.Phone, Code: "424242"})
	if err != nil {
		t.Fatalf("verify otp: %v", err)
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), sess.AccessToken)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.Role != enums.PrincipalRoleDriver {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.Verified == nil || !*claims.Verified {
		t.Fatalf("verified claim not carried: %+v", claims.Verified)
	}
}

func TestVerifyOTPMapsCodeErrors(t *testing.T) {
	f := newFixture(t, false)
	f.otp.verifyErr = otp.ErrCodeMismatch
	_, err := f.svc.VerifyOTP(context.Background(), enums.PrincipalRoleUser, VerifyOTPInput{Phone: "+15550100", Code: "000000"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	f.otp.verifyErr = otp.ErrTooManyAttempts
	_, err = f.svc.VerifyOTP(context.Background(), enums.PrincipalRoleUser, VerifyOTPInput{Phone: "+15550100", Code: "000000"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeRateLimit {
		t.Fatalf("expected rate limit, got %v", err)
	}
}

func TestAdminLogin(t *testing.T) {
	f := newFixture(t, false)

	hash, err := security.HashPassword("hunter2hunter2", config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	admin := &models.Admin{ID: uuid.New(), Email: "ops@swifthaul.test", PasswordHash: hash, IsActive: true}
	f.repo.adminsByEmail[admin.Email] = admin

	sess, err := f.svc.AdminLogin(context.Background(), AdminLoginInput{Email: " Ops@SwiftHaul.test ", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if sess.Role != enums.PrincipalRoleAdmin || sess.Admin == nil {
		t.Fatalf("unexpected session: %+v", sess)
	}

	_, err = f.svc.AdminLogin(context.Background(), AdminLoginInput{Email: admin.Email, Password: "wrong-password"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for wrong password, got %v", err)
	}

	// unknown email reads the same as a bad password
	_, err = f.svc.AdminLogin(context.Background(), AdminLoginInput{Email: "nobody@swifthaul.test", Password: "hunter2hunter2"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for unknown email, got %v", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	f := newFixture(t, false)
	userID := uuid.New()

	access, err := pkgauth.MintAccessToken(testJWTConfig(), time.Now(), pkgauth.AccessTokenPayload{
		PrincipalID: userID,
		Role:        enums.PrincipalRoleUser,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	sess, err := f.svc.Refresh(context.Background(), RefreshInput{AccessToken: access, RefreshToken: "refresh-old"})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if sess.PrincipalID != userID || sess.Role != enums.PrincipalRoleUser {
		t.Fatalf("principal not carried forward: %+v", sess)
	}
	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), sess.AccessToken)
	if err != nil {
		t.Fatalf("parse rotated token: %v", err)
	}
	if sess.RefreshToken != "refresh-"+claims.ID {
		t.Fatalf("refresh token not bound to new jti")
	}
}

func TestRefreshRejectsBadSession(t *testing.T) {
	f := newFixture(t, false)
	f.sessions.rotateErr = session.ErrInvalidRefreshToken

	access, err := pkgauth.MintAccessToken(testJWTConfig(), time.Now(), pkgauth.AccessTokenPayload{
		PrincipalID: uuid.New(),
		Role:        enums.PrincipalRoleUser,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	_, err = f.svc.Refresh(context.Background(), RefreshInput{AccessToken: access, RefreshToken: "stolen"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	_, err = f.svc.Refresh(context.Background(), RefreshInput{AccessToken: "not-a-jwt", RefreshToken: "whatever"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for garbage token, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	f := newFixture(t, false)

	if err := f.svc.Logout(context.Background(), "jti-1"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(f.sessions.revoked) != 1 || f.sessions.revoked[0] != "jti-1" {
		t.Fatalf("session not revoked: %v", f.sessions.revoked)
	}

	err := f.svc.Logout(context.Background(), " ")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
