package restore

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/eazeeinvoice/eazee-invoice/internal/http/middlewarectx"
	services "github.com/eazeeinvoice/eazee-invoice/internal/services/recyclebin"
)

// MockService реализует интерфейс restore.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Restore(ctx context.Context, id int, username string, now time.Time) error {
	args := m.Called(ctx, id, username, now)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRestoreHandler(t *testing.T) {
	tests := []struct {
		name           string
		rawID          string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "успешное восстановление",
			rawID: "3",
			setupMock: func(m *MockService) {
				m.On("Restore", mock.Anything, 3, "testuser", mock.AnythingOfType("time.Time")).
					Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"OK"`,
		},
		{
			name:  "срок хранения истёк",
			rawID: "3",
			setupMock: func(m *MockService) {
				m.On("Restore", mock.Anything, 3, "testuser", mock.AnythingOfType("time.Time")).
					Return(services.ErrRestoreExpired)
			},
			expectedStatus: http.StatusGone,
			expectedBody:   `"error":"restore window expired"`,
		},
		{
			name:  "ошибка хранилища",
			rawID: "3",
			setupMock: func(m *MockService) {
				m.On("Restore", mock.Anything, 3, "testuser", mock.AnythingOfType("time.Time")).
					Return(errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"failed to restore"`,
		},
		{
			name:           "некорректный id в URL",
			rawID:          "zzz",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid id"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(newNoopLogger(), mockService)

			req := httptest.NewRequest(http.MethodPost, "/recycle-bin/"+tt.rawID+"/restore", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.rawID)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middlewarectx.User, "testuser")
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
