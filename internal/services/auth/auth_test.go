package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/eazeeinvoice/eazee-invoice/internal/lib/jwt"
	"github.com/eazeeinvoice/eazee-invoice/internal/lib/password"
	"github.com/eazeeinvoice/eazee-invoice/internal/models"
)

type UsersMock struct{ mock.Mock }

func (m *UsersMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}
func (m *UsersMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newMaker() jwt.Maker {
	return jwt.NewJWTMaker("test-secret-key-for-auth", time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	req := models.DummyRegister{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "supersecret1",
	}

	users := new(UsersMock)
	users.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Username == "alice" &&
			u.Role == "user" &&
			u.SubscriptionStatus == "none" &&
			u.TrialStartDate != nil && u.TrialStartDate.Equal(now) &&
			password.CompareHash(u.PasswordHash, "supersecret1") == nil
	})).Return("uid-123", nil).Once()

	svc := NewAuthService(users, newMaker())
	uid, err := svc.Register(context.Background(), req, now)
	require.NoError(t, err)
	assert.Equal(t, "uid-123", uid)
	users.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	hashed, err := password.GetHash("supersecret1")
	require.NoError(t, err)
	user := &models.User{
		UID:          "uid-123",
		Username:     "alice",
		PasswordHash: hashed,
		Role:         "user",
	}

	tests := []struct {
		name       string
		setupMocks func(m *UsersMock)
		password   string
		wantErr    bool
	}{
		{
			name: "success login",
			setupMocks: func(m *UsersMock) {
				m.On("GetUserByUsername", mock.Anything, "alice").Return(user, nil).Once()
			},
			password: "supersecret1",
		},
		{
			name: "wrong password",
			setupMocks: func(m *UsersMock) {
				m.On("GetUserByUsername", mock.Anything, "alice").Return(user, nil).Once()
			},
			password: "wrongpassword",
			wantErr:  true,
		},
		{
			name: "unknown user",
			setupMocks: func(m *UsersMock) {
				m.On("GetUserByUsername", mock.Anything, "alice").
					Return(nil, errors.New("not found")).Once()
			},
			password: "supersecret1",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UsersMock)
			tt.setupMocks(users)
			svc := NewAuthService(users, newMaker())

			token, role, err := svc.Login(context.Background(), models.DummyLogin{
				Username: "alice",
				Password: tt.password,
			})
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCredentials)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "user", role)

			validated, ok, err := svc.ValidateToken(context.Background(), token)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "alice", validated.Username)
			assert.Equal(t, "uid-123", validated.UID)
		})
	}
}
