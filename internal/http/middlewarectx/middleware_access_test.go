package middlewarectx_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/eazeeinvoice/eazee-invoice/internal/http/middlewarectx"
	"github.com/eazeeinvoice/eazee-invoice/internal/models"

	"io"
	"log/slog"
)

type UserProviderMock struct {
	mock.Mock
}

func (m *UserProviderMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestAccessMiddleware(t *testing.T) {
	now := time.Now().UTC()
	freshTrial := now.Add(-2 * 24 * time.Hour)
	expiredTrial := now.Add(-10 * 24 * time.Hour)
	periodEnd := now.Add(20 * 24 * time.Hour)

	tests := []struct {
		name           string
		username       string
		user           *models.User
		userErr        error
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "trial user passes",
			username:       "alice",
			user:           &models.User{Username: "alice", Role: "user", TrialStartDate: &freshTrial, SubscriptionStatus: "none"},
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
		{
			name:     "subscriber with expired trial passes",
			username: "bob",
			user: &models.User{
				Username: "bob", Role: "user", TrialStartDate: &expiredTrial,
				IsSubscriber: true, SubscriptionStatus: "active",
				SubscriptionCurrentPeriodEnd: &periodEnd,
			},
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
		{
			name:           "expired trial without subscription gets payment required",
			username:       "carol",
			user:           &models.User{Username: "carol", Role: "user", TrialStartDate: &expiredTrial, SubscriptionStatus: "none"},
			wantStatusCode: http.StatusPaymentRequired,
			wantCalled:     false,
		},
		{
			name:           "suspended admin gets forbidden",
			username:       "dave",
			user:           &models.User{Username: "dave", Role: "admin", IsSuspended: true},
			wantStatusCode: http.StatusForbidden,
			wantCalled:     false,
		},
		{
			name:           "missing username in context",
			username:       "",
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "user lookup error",
			username:       "eve",
			userErr:        errors.New("db down"),
			wantStatusCode: http.StatusInternalServerError,
			wantCalled:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UserProviderMock)
			if tt.username != "" {
				users.On("GetUserByUsername", mock.Anything, tt.username).
					Return(tt.user, tt.userErr).Once()
			}

			handlerCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			mw := middlewarectx.AccessMiddleware(newNoopLogger(), users)(nextHandler)

			req := httptest.NewRequest(http.MethodGet, "/invoices", nil)
			if tt.username != "" {
				ctx := context.WithValue(req.Context(), middlewarectx.User, tt.username)
				req = req.WithContext(ctx)
			}
			rec := httptest.NewRecorder()
			mw.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
		})
	}
}

func TestAdminOnlyMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		role           any
		wantStatusCode int
	}{
		{name: "admin passes", role: "admin", wantStatusCode: http.StatusOK},
		{name: "regular user denied", role: "user", wantStatusCode: http.StatusForbidden},
		{name: "missing role denied", role: nil, wantStatusCode: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			mw := middlewarectx.AdminOnlyMiddleware(newNoopLogger())(nextHandler)

			req := httptest.NewRequest(http.MethodPost, "/admin/grant", nil)
			if tt.role != nil {
				ctx := context.WithValue(req.Context(), middlewarectx.Role, tt.role)
				req = req.WithContext(ctx)
			}
			rec := httptest.NewRecorder()
			mw.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
		})
	}
}
