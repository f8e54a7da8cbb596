// Package auth implements the phone-number OTP flow: code issuance with a
// per-phone cooldown, attempt-limited verification, and session-token minting.
package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/propertyhub/api/internal/config"
	"github.com/propertyhub/api/internal/domain"
	"github.com/propertyhub/api/internal/infrastructure/sms"
	"github.com/propertyhub/api/internal/pkg/id"
	"github.com/propertyhub/api/internal/pkg/phone"
)

// SendOTPResult reports the canonical phone a code was issued for. OTP is
// populated only when the service runs with EchoOTP (development) so automated
// tests can complete the flow without an SMS channel.
type SendOTPResult struct {
	Phone string
	OTP   string
}

type Service interface {
	// SendOTP issues a fresh code for the raw phone number and triggers a
	// best-effort SMS. Delivery failure does not fail the call; verification
	// is the authoritative gate.
	SendOTP(ctx context.Context, rawPhone string) (*SendOTPResult, error)
	// VerifyOTP checks a submitted code. On success it marks the phone
	// verified, clears the OTP state and returns the user plus a signed
	// session token.
	VerifyOTP(ctx context.Context, rawPhone, code string) (*domain.User, string, error)
	// Me resolves the user behind a validated session token.
	Me(ctx context.Context, userID string) (*domain.User, error)
	// UpdateProfile sets optional profile fields on the caller's record.
	UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.User, error)
}

type userStore interface {
	Get(ctx context.Context, phone string) (*domain.User, error)
	GetByID(ctx context.Context, userID string) (*domain.User, error)
	UpsertOTP(ctx context.Context, phone, candidateID, code string, expiry, sentAt time.Time) error
	IncrementAttempts(ctx context.Context, phone string) error
	MarkVerified(ctx context.Context, phone string) error
	UpdateProfile(ctx context.Context, phone string, updates map[string]interface{}) error
}

type jwtSigner interface {
	Sign(userID, phone string, phoneVerified bool) (string, error)
}

type service struct {
	repo   userStore
	sender sms.Sender
	signer jwtSigner
	// EnforceCooldown is off outside production so automated tests can
	// request codes back to back. This is the documented dev bypass, not an
	// accidental branch: it is set once from APP_ENV in main.
	enforceCooldown bool
	echoOTP         bool
}

type ServiceDeps struct {
	UserRepo        userStore
	Sender          sms.Sender
	JWTProvider     jwtSigner
	EnforceCooldown bool
	EchoOTP         bool
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:            deps.UserRepo,
		sender:          deps.Sender,
		signer:          deps.JWTProvider,
		enforceCooldown: deps.EnforceCooldown,
		echoOTP:         deps.EchoOTP,
	}
}

func (s *service) SendOTP(ctx context.Context, rawPhone string) (*SendOTPResult, error) {
	canonical, err := phone.Normalize(rawPhone)
	if err != nil {
		return nil, fmt.Errorf("invalid phone number: %w", domain.ErrBadRequest)
	}

	now := time.Now().UTC()

	existing, err := s.repo.Get(ctx, canonical)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if s.enforceCooldown && existing != nil && existing.LastOTPSent > 0 {
		sinceLast := now.Sub(time.Unix(existing.LastOTPSent, 0))
		if sinceLast < config.OTPResendCooldown {
			return nil, fmt.Errorf("please wait before requesting another code: %w", domain.ErrRateLimited)
		}
	}

	code, err := generateOTP()
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpsertOTP(ctx, canonical, id.New(), code, now.Add(config.OTPValidity), now); err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Your PropertyHub verification code is: %s. This code will expire in %d minutes.",
		code, int(config.OTPValidity.Minutes()))
	if msgID, sendErr := s.sender.Send(ctx, canonical, msg); sendErr != nil {
		// The stored code stays valid; the user can retry delivery by
		// re-requesting after the cooldown.
		slog.Error("failed to send OTP SMS", "phone", canonical, "err", sendErr)
	} else {
		slog.Info("OTP SMS sent", "phone", canonical, "message_id", msgID)
	}

	res := &SendOTPResult{Phone: canonical}
	if s.echoOTP {
		res.OTP = code
	}
	return res, nil
}

func (s *service) VerifyOTP(ctx context.Context, rawPhone, code string) (*domain.User, string, error) {
	canonical, err := phone.Normalize(rawPhone)
	if err != nil {
		return nil, "", fmt.Errorf("invalid phone number: %w", domain.ErrBadRequest)
	}

	u, err := s.repo.Get(ctx, canonical)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", fmt.Errorf("unknown phone number: %w", domain.ErrBadRequest)
		}
		return nil, "", err
	}

	now := time.Now().UTC()
	if !u.HasActiveCode(now) {
		return nil, "", fmt.Errorf("verification code has expired: %w", domain.ErrExpired)
	}
	// Checked before the code comparison so an exhausted record rejects even
	// a correct guess without revealing that it would have matched.
	if u.OTPAttempts >= config.OTPMaxAttempts {
		return nil, "", fmt.Errorf("too many failed attempts, request a new code: %w", domain.ErrTooManyAttempts)
	}

	if u.OTPCode != code {
		if incErr := s.repo.IncrementAttempts(ctx, canonical); incErr != nil {
			return nil, "", incErr
		}
		return nil, "", fmt.Errorf("invalid verification code: %w", domain.ErrBadRequest)
	}

	if err := s.repo.MarkVerified(ctx, canonical); err != nil {
		return nil, "", err
	}
	u.PhoneVerified = true
	u.OTPCode = ""
	u.OTPExpiry = 0
	u.OTPAttempts = 0
	u.LastOTPSent = 0

	token, err := s.signer.Sign(u.UserID, u.Phone, true)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if len(updates) == 0 {
		return u, nil
	}
	if err := s.repo.UpdateProfile(ctx, u.Phone, updates); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, userID)
}

// generateOTP returns a fixed-length numeric code uniformly distributed over
// its full digit range (000000–999999 for 6 digits).
func generateOTP() (string, error) {
	upper := big.NewInt(1)
	for i := 0; i < config.OTPLength; i++ {
		upper.Mul(upper, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, upper)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", config.OTPLength, n), nil
}
