package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"
	"unicode"

	redislib "github.com/redis/go-redis/v9"
	"github.com/swifthaul/swifthaul-backend/pkg/config"
	"github.com/swifthaul/swifthaul-backend/pkg/enums"
	redisclient "github.com/swifthaul/swifthaul-backend/pkg/redis"
)

// ErrCodeMismatch signals a wrong or expired code. Callers treat both the
// same so an attacker cannot distinguish expiry from a bad guess.
var ErrCodeMismatch = errors.New("otp code mismatch or expired")

// ErrTooManyAttempts signals the verification attempt budget is spent.
var ErrTooManyAttempts = errors.New("too many otp attempts")

type otpStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

type otpKeyer interface {
	OTPKey(role, identity string) string
	OTPAttemptsKey(role, identity string) string
}

// Manager issues and verifies one-time login codes kept in Redis.
type Manager struct {
	store otpStore
	keyer otpKeyer
	cfg   config.OTPConfig
}

// NewManager constructs an OTP manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.OTPConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if cfg.Digits < 4 || cfg.Digits > 8 {
		return nil, fmt.Errorf("otp digits must be 4..8")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("otp ttl must be positive")
	}
	if cfg.MaxAttempts <= 0 {
		return nil, fmt.Errorf("otp max attempts must be positive")
	}
	return &Manager{store: client, keyer: client, cfg: cfg}, nil
}

// Issue generates a fresh code for the identity and stores it with the
// configured TTL. Re-issuing replaces any outstanding code and resets the
// attempt counter.
func (m *Manager) Issue(ctx context.Context, role enums.PrincipalRole, identity string) (string, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return "", fmt.Errorf("identity is required")
	}

	code, err := GenerateNumericCode(m.cfg.Digits)
	if err != nil {
		return "", err
	}
	if err := m.store.Set(ctx, m.keyer.OTPKey(string(role), identity), code, m.cfg.TTL); err != nil {
		return "", err
	}
	if err := m.store.Del(ctx, m.keyer.OTPAttemptsKey(string(role), identity)); err != nil {
		return "", err
	}
	return code, nil
}

// Verify checks the provided code against the stored one. The code is
// consumed on success. Each failed attempt is counted; once the budget is
// spent the stored code is burned and ErrTooManyAttempts is returned.
func (m *Manager) Verify(ctx context.Context, role enums.PrincipalRole, identity, code string) error {
	identity = strings.TrimSpace(identity)
	code = strings.TrimSpace(code)
	if identity == "" || !IsNumeric(code) {
		return ErrCodeMismatch
	}

	attempts, err := m.store.IncrWithTTL(ctx, m.keyer.OTPAttemptsKey(string(role), identity), m.cfg.TTL)
	if err != nil {
		return err
	}
	if attempts > int64(m.cfg.MaxAttempts) {
		if err := m.store.Del(ctx, m.keyer.OTPKey(string(role), identity)); err != nil {
			return err
		}
		return ErrTooManyAttempts
	}

	stored, err := m.store.Get(ctx, m.keyer.OTPKey(string(role), identity))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return ErrCodeMismatch
		}
		return err
	}
	if stored != code {
		return ErrCodeMismatch
	}

	return m.store.Del(ctx,
		m.keyer.OTPKey(string(role), identity),
		m.keyer.OTPAttemptsKey(string(role), identity),
	)
}

// GenerateNumericCode returns a crypto-random digit string of the given length.
func GenerateNumericCode(length int) (string, error) {
	if length < 4 || length > 8 {
		return "", fmt.Errorf("otp length must be 4..8")
	}
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}

// IsNumeric reports whether s is a non-empty string of decimal digits.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
