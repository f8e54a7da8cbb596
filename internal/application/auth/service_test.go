package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/propertyhub/api/internal/config"
	"github.com/propertyhub/api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, phone string) (*domain.User, error) {
	args := m.Called(ctx, phone)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) UpsertOTP(ctx context.Context, phone, candidateID, code string, expiry, sentAt time.Time) error {
	return m.Called(ctx, phone, candidateID, code, expiry, sentAt).Error(0)
}
func (m *mockUserStore) IncrementAttempts(ctx context.Context, phone string) error {
	return m.Called(ctx, phone).Error(0)
}
func (m *mockUserStore) MarkVerified(ctx context.Context, phone string) error {
	return m.Called(ctx, phone).Error(0)
}
func (m *mockUserStore) UpdateProfile(ctx context.Context, phone string, updates map[string]interface{}) error {
	return m.Called(ctx, phone, updates).Error(0)
}

type mockSender struct{ mock.Mock }

func (m *mockSender) Send(ctx context.Context, to, message string) (string, error) {
	args := m.Called(ctx, to, message)
	return args.String(0), args.Error(1)
}

type mockSigner struct{ mock.Mock }

func (m *mockSigner) Sign(userID, phone string, phoneVerified bool) (string, error) {
	args := m.Called(userID, phone, phoneVerified)
	return args.String(0), args.Error(1)
}

// --- builders ---

const canonical = "+97699119911"

func newService(us *mockUserStore, snd *mockSender, sg *mockSigner, production bool) Service {
	return NewService(ServiceDeps{
		UserRepo:        us,
		Sender:          snd,
		JWTProvider:     sg,
		EnforceCooldown: production,
		EchoOTP:         !production,
	})
}

func userWithCode(code string, expiry time.Time, attempts int) *domain.User {
	return &domain.User{
		Phone:       canonical,
		UserID:      "01J0TESTUSER",
		Role:        domain.RoleUser,
		OTPCode:     code,
		OTPExpiry:   expiry.Unix(),
		OTPAttempts: attempts,
		LastOTPSent: time.Now().Unix(),
	}
}

// --- SendOTP ---

func TestSendOTP_InvalidFormat(t *testing.T) {
	svc := newService(nil, nil, nil, false)
	_, err := svc.SendOTP(context.Background(), "12345")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestSendOTP_NewPhone_UpsertsAndSends(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, canonical).Return(nil, domain.ErrNotFound)
	us.On("UpsertOTP", mock.Anything, canonical, mock.Anything, mock.MatchedBy(func(code string) bool {
		return len(code) == config.OTPLength
	}), mock.Anything, mock.Anything).Return(nil)
	snd := &mockSender{}
	snd.On("Send", mock.Anything, canonical, mock.Anything).Return("msg-1", nil)

	svc := newService(us, snd, nil, false)
	res, err := svc.SendOTP(context.Background(), "99119911")

	require.NoError(t, err)
	assert.Equal(t, canonical, res.Phone)
	assert.Len(t, res.OTP, config.OTPLength) // dev mode echoes the code
	us.AssertExpectations(t)
	snd.AssertExpectations(t)
}

func TestSendOTP_CooldownEnforcedInProduction(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, canonical).Return(userWithCode("123456", time.Now().Add(5*time.Minute), 0), nil)

	svc := newService(us, nil, nil, true)
	_, err := svc.SendOTP(context.Background(), canonical)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	us.AssertNotCalled(t, "UpsertOTP", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSendOTP_CooldownBypassedInDevelopment(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, canonical).Return(userWithCode("123456", time.Now().Add(5*time.Minute), 0), nil)
	us.On("UpsertOTP", mock.Anything, canonical, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	snd := &mockSender{}
	snd.On("Send", mock.Anything, canonical, mock.Anything).Return("msg-2", nil)

	svc := newService(us, snd, nil, false)
	_, err := svc.SendOTP(context.Background(), canonical)

	require.NoError(t, err)
}

func TestSendOTP_CooldownElapsed_Production(t *testing.T) {
	u := userWithCode("123456", time.Now().Add(-time.Minute), 0)
	u.LastOTPSent = time.Now().Add(-config.OTPResendCooldown - time.Minute).Unix()
	us := &mockUserStore{}
	us.On("Get", mock.Anything, canonical).Return(u, nil)
	us.On("UpsertOTP", mock.Anything, canonical, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	snd := &mockSender{}
	snd.On("Send", mock.Anything, canonical, mock.Anything).Return("msg-3", nil)

	svc := newService(us, snd, nil, true)
	res, err := svc.SendOTP(context.Background(), canonical)

	require.NoError(t, err)
	assert.Empty(t, res.OTP) // production never echoes the code
}

func TestSendOTP_SMSFailureDoesNotFailIssuance(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, canonical).Return(nil, domain.ErrNotFound)
	us.On("UpsertOTP", mock.Anything, canonical, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	snd := &mockSender{}
	snd.On("Send", mock.Anything, canonical, mock.Anything).Return("", errors.New("provider down"))

	svc := newService(us, snd, nil, false)
	res, err := svc.SendOTP(context.Background(), "99119911")

	require.NoError(t, err)
	assert.Equal(t, canonical, res.Phone)
}

func TestSendOTP_PersistenceFailureFailsIssuance(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, canonical).Return(nil, domain.ErrNotFound)
	us.On("UpsertOTP", mock.Anything, canonical, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("dynamo down"))

	svc := newService(us, nil, nil, false)
	_, err := svc.SendOTP(context.Background(), "99119911")

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrBadRequest)
}

// --- VerifyOTP ---

func TestVerifyOTP_UnknownPhone(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, canonical).Return(nil, domain.ErrNotFound)

	svc := newService(us, nil, nil, false)
	_, _, err := svc.VerifyOTP(context.Background(), "99119911", "123456")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestVerifyOTP_Expired_EvenWithMatchingCode(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, canonical).Return(userWithCode("123456", time.Now().Add(-time.Minute), 0), nil)

	svc := newService(us, nil, nil, false)
	_, _, err := svc.VerifyOTP(context.Background(), canonical, "123456")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExpired)
	us.AssertNotCalled(t, "IncrementAttempts", mock.Anything, mock.Anything)
}

func TestVerifyOTP_NoOutstandingCode_Expired(t *testing.T) {
	u := userWithCode("", time.Unix(0, 0), 0)
	u.OTPExpiry = 0
	us := &mockUserStore{}
	us.On("Get", mock.Anything, canonical).Return(u, nil)

	svc := newService(us, nil, nil, false)
	_, _, err := svc.VerifyOTP(context.Background(), canonical, "123456")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExpired)
}

func TestVerifyOTP_CeilingReached_RejectsWithoutIncrementing(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, canonical).Return(userWithCode("123456", time.Now().Add(5*time.Minute), config.OTPMaxAttempts), nil)

	svc := newService(us, nil, nil, false)
	// Correct code — still rejected, and the rejection must not reveal that
	// it would have matched.
	_, _, err := svc.VerifyOTP(context.Background(), canonical, "123456")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTooManyAttempts)
	us.AssertNotCalled(t, "IncrementAttempts", mock.Anything, mock.Anything)
	us.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything)
}

func TestVerifyOTP_Mismatch_IncrementsAttempts(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, canonical).Return(userWithCode("123456", time.Now().Add(5*time.Minute), 1), nil)
	us.On("IncrementAttempts", mock.Anything, canonical).Return(nil)

	svc := newService(us, nil, nil, false)
	_, _, err := svc.VerifyOTP(context.Background(), canonical, "654321")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	us.AssertExpectations(t)
}

func TestVerifyOTP_Match_MarksVerifiedAndSignsToken(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, canonical).Return(userWithCode("123456", time.Now().Add(5*time.Minute), 2), nil)
	us.On("MarkVerified", mock.Anything, canonical).Return(nil)
	sg := &mockSigner{}
	sg.On("Sign", "01J0TESTUSER", canonical, true).Return("signed-token", nil)

	svc := newService(us, nil, sg, false)
	u, token, err := svc.VerifyOTP(context.Background(), "99119911", "123456")

	require.NoError(t, err)
	assert.Equal(t, "signed-token", token)
	assert.True(t, u.PhoneVerified)
	assert.Empty(t, u.OTPCode)
	assert.Zero(t, u.OTPExpiry)
	assert.Zero(t, u.OTPAttempts)
	us.AssertExpectations(t)
	sg.AssertExpectations(t)
}

func TestVerifyOTP_ThreeWrongThenCorrectIsRejected(t *testing.T) {
	// Drive the state machine the way a brute-forcing client would: the
	// store tracks attempts across calls.
	u := userWithCode("123456", time.Now().Add(5*time.Minute), 0)
	us := &mockUserStore{}
	us.On("Get", mock.Anything, canonical).Return(u, nil)
	us.On("IncrementAttempts", mock.Anything, canonical).Run(func(mock.Arguments) {
		u.OTPAttempts++
	}).Return(nil)

	svc := newService(us, nil, nil, false)
	for i := 0; i < config.OTPMaxAttempts; i++ {
		_, _, err := svc.VerifyOTP(context.Background(), canonical, "000000")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrBadRequest)
	}

	_, _, err := svc.VerifyOTP(context.Background(), canonical, "123456")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTooManyAttempts)
	assert.Equal(t, config.OTPMaxAttempts, u.OTPAttempts)
}

func TestVerifyOTP_NormalizationConsistentWithIssuance(t *testing.T) {
	// Issue with one input shape, verify with another: both must resolve to
	// the same record.
	for _, shape := range []string{"99119911", "97699119911", "+976 9911 9911"} {
		us := &mockUserStore{}
		us.On("Get", mock.Anything, canonical).Return(userWithCode("123456", time.Now().Add(5*time.Minute), 0), nil)
		us.On("MarkVerified", mock.Anything, canonical).Return(nil)
		sg := &mockSigner{}
		sg.On("Sign", mock.Anything, canonical, true).Return("tok", nil)

		svc := newService(us, nil, sg, false)
		_, _, err := svc.VerifyOTP(context.Background(), shape, "123456")
		require.NoError(t, err, "shape %q", shape)
	}
}

// --- Me / UpdateProfile ---

func TestMe_Found(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByID", mock.Anything, "01J0TESTUSER").Return(&domain.User{UserID: "01J0TESTUSER", Phone: canonical}, nil)

	svc := newService(us, nil, nil, false)
	u, err := svc.Me(context.Background(), "01J0TESTUSER")

	require.NoError(t, err)
	assert.Equal(t, canonical, u.Phone)
}

func TestUpdateProfile_NoFields_NoWrite(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByID", mock.Anything, "01J0TESTUSER").Return(&domain.User{UserID: "01J0TESTUSER", Phone: canonical}, nil)

	svc := newService(us, nil, nil, false)
	_, err := svc.UpdateProfile(context.Background(), "01J0TESTUSER", domain.UpdateProfileRequest{})

	require.NoError(t, err)
	us.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateProfile_SetsName(t *testing.T) {
	name := "Bat-Erdene"
	us := &mockUserStore{}
	us.On("GetByID", mock.Anything, "01J0TESTUSER").Return(&domain.User{UserID: "01J0TESTUSER", Phone: canonical}, nil)
	us.On("UpdateProfile", mock.Anything, canonical, map[string]interface{}{"name": name}).Return(nil)

	svc := newService(us, nil, nil, false)
	_, err := svc.UpdateProfile(context.Background(), "01J0TESTUSER", domain.UpdateProfileRequest{Name: &name})

	require.NoError(t, err)
	us.AssertExpectations(t)
}

// --- generateOTP ---

func TestGenerateOTP_FixedLengthNumeric(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := generateOTP()
		require.NoError(t, err)
		require.Len(t, code, config.OTPLength)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
	}
}
