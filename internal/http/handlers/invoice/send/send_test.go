package send

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/eazeeinvoice/eazee-invoice/internal/http/middlewarectx"
)

// MockService реализует интерфейс send.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Send(ctx context.Context, id int, username string) error {
	args := m.Called(ctx, id, username)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSendHandler(t *testing.T) {
	tests := []struct {
		name           string
		rawID          string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "успешная отправка счёта",
			rawID: "5",
			setupMock: func(m *MockService) {
				m.On("Send", mock.Anything, 5, "testuser").Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"OK"`,
		},
		{
			name:  "недопустимый переход статуса",
			rawID: "5",
			setupMock: func(m *MockService) {
				m.On("Send", mock.Anything, 5, "testuser").
					Return(errors.New("invoice status paid cannot transition to unpaid"))
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `"error":"could not send invoice"`,
		},
		{
			name:           "некорректный id в URL",
			rawID:          "oops",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"failed to decode id from url"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(newNoopLogger(), mockService)

			req := httptest.NewRequest(http.MethodPost, "/invoices/"+tt.rawID+"/send", nil)
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
