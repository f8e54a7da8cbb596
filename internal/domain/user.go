package domain

import "time"

// User roles.
const (
	RoleUser  = "user"
	RoleAgent = "agent"
	RoleAdmin = "admin"
)

// User is one credential record per canonical phone number. The phone number
// in international form is the partition key; it is written once and never
// changed, so issuing and verifying a code for the same person always lands
// on the same item.
type User struct {
	Phone         string    `json:"phone" dynamodbav:"phone"`
	UserID        string    `json:"id" dynamodbav:"user_id"`
	Name          string    `json:"name,omitempty" dynamodbav:"name"`
	Email         string    `json:"email,omitempty" dynamodbav:"email"`
	Role          string    `json:"role" dynamodbav:"role"`
	OTPCode       string    `json:"-" dynamodbav:"otp_code"`
	OTPExpiry     int64     `json:"-" dynamodbav:"otp_expiry"` // Unix seconds, 0 when no code is outstanding
	OTPAttempts   int       `json:"-" dynamodbav:"otp_attempts"`
	LastOTPSent   int64     `json:"-" dynamodbav:"last_otp_sent"` // Unix seconds, 0 when never sent
	PhoneVerified bool      `json:"phone_verified" dynamodbav:"phone_verified"`
	CreatedAt     time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt     time.Time `json:"updated" dynamodbav:"updated_at"`
}

// HasActiveCode reports whether an unexpired OTP is outstanding at instant now.
func (u *User) HasActiveCode(now time.Time) bool {
	return u.OTPCode != "" && u.OTPExpiry > now.Unix()
}

type SendOTPRequest struct {
	Phone string `json:"phone" validate:"required"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phone" validate:"required"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" validate:"omitempty,email"`
}
