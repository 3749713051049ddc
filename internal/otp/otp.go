package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrInvalidOTP      = errors.New("invalid OTP")
	ErrOTPNotFound     = errors.New("no OTP found or expired")
	ErrTooManyAttempts = errors.New("too many failed attempts, request a new OTP")
)

const defaultMaxAttempts = 5

// codeStore is the subset of the Redis client used to keep codes.
type codeStore interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// OTPService generates and verifies one-time codes stored in Redis.
type OTPService struct {
	redis       codeStore
	otpPrefix   string // e.g. "otp:phone_number"
	expiration  time.Duration
	maxAttempts int64
	now         func() time.Time
}

type OTPServiceOption func(*OTPService)

func NewOTPService(redis codeStore, opts ...OTPServiceOption) *OTPService {
	s := &OTPService{
		redis:       redis,
		otpPrefix:   "otp",
		expiration:  10 * time.Minute,
		maxAttempts: defaultMaxAttempts,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithPrefix sets the Redis key prefix of the codes.
func WithPrefix(prefix string) OTPServiceOption {
	return func(s *OTPService) {
		s.otpPrefix = prefix
	}
}

func WithExpiration(expiration time.Duration) OTPServiceOption {
	return func(s *OTPService) {
		s.expiration = expiration
	}
}

func (s *OTPService) otpKey(identifier string) string {
	return fmt.Sprintf("%s:%s", s.otpPrefix, identifier)
}

func (s *OTPService) attemptsKey(identifier string) string {
	return fmt.Sprintf("%s:attempts:%s", s.otpPrefix, identifier)
}

// GenerateOTP stores a new six digit code for identifier, replacing any previous one.
func (s *OTPService) GenerateOTP(ctx context.Context, identifier string) (code string, expiresAt time.Time, err error) {
	code, err = generateSixDigitOTP()
	if err != nil {
		return "", time.Time{}, err
	}

	if err = s.redis.Set(ctx, s.otpKey(identifier), code, s.expiration).Err(); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to store OTP: %w", err)
	}
	if err = s.redis.Del(ctx, s.attemptsKey(identifier)).Err(); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to reset OTP attempts: %w", err)
	}

	return code, s.now().Add(s.expiration), nil
}

// VerifyOTP checks providedOTP against the stored code. A matching code is consumed.
func (s *OTPService) VerifyOTP(ctx context.Context, identifier, providedOTP string) error {
	if len(providedOTP) != 6 {
		return fmt.Errorf("%w: must be 6 digits", ErrInvalidOTP)
	}

	otpKey := s.otpKey(identifier)
	storedOTP, err := s.redis.Get(ctx, otpKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrOTPNotFound
		}
		return fmt.Errorf("failed to retrieve OTP: %w", err)
	}

	if storedOTP == providedOTP {
		if err = s.redis.Del(ctx, otpKey, s.attemptsKey(identifier)).Err(); err != nil {
			return fmt.Errorf("failed to consume OTP: %w", err)
		}
		return nil
	}

	attempts, err := s.redis.Incr(ctx, s.attemptsKey(identifier)).Result()
	if err != nil {
		return fmt.Errorf("failed to count OTP attempts: %w", err)
	}
	if attempts == 1 {
		s.redis.Expire(ctx, s.attemptsKey(identifier), s.expiration)
	}
	if attempts >= s.maxAttempts {
		s.redis.Del(ctx, otpKey)
		return ErrTooManyAttempts
	}

	return ErrInvalidOTP
}

func generateSixDigitOTP() (string, error) {
	// [100000, 999999]
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
