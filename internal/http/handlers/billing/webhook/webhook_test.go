package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/eazeeinvoice/eazee-invoice/internal/paymentprovider"
)

// MockService реализует интерфейс webhook.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ProcessWebhookEvent(ctx context.Context, payload paymentprovider.WebhookPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestWebhookHandler(t *testing.T) {
	const secret = "whsec_test"
	validBody := `{"event":"payment.succeeded","object":{"id":"pay-1","status":"succeeded","metadata":{"user_uid":"uid-1"}}}`

	tests := []struct {
		name           string
		body           string
		signature      string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:      "подписанное событие обработано",
			body:      validBody,
			signature: signBody(secret, []byte(validBody)),
			setupMock: func(m *MockService) {
				m.On("ProcessWebhookEvent", mock.Anything, mock.MatchedBy(func(p paymentprovider.WebhookPayload) bool {
					return p.Event == paymentprovider.EventPaymentSucceeded &&
						p.Object.Metadata["user_uid"] == "uid-1"
				})).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"OK"`,
		},
		{
			name:           "без подписи",
			body:           validBody,
			signature:      "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "invalid signature",
		},
		{
			name:           "неверная подпись",
			body:           validBody,
			signature:      signBody("wrong_secret", []byte(validBody)),
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "invalid signature",
		},
		{
			name:           "подпись от другого тела",
			body:           validBody,
			signature:      signBody(secret, []byte(`{"event":"payment.succeeded"}`)),
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "invalid signature",
		},
		{
			name:           "подписанный, но некорректный JSON",
			body:           `{not json`,
			signature:      signBody(secret, []byte(`{not json`)),
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "invalid payload",
		},
		{
			name:      "ошибка обработки события",
			body:      validBody,
			signature: signBody(secret, []byte(validBody)),
			setupMock: func(m *MockService) {
				m.On("ProcessWebhookEvent", mock.Anything, mock.Anything).
					Return(errors.New("unknown user"))
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "failed to process event",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(newNoopLogger(), mockService, secret)

			req := httptest.NewRequest(http.MethodPost, "/billing/webhook", bytes.NewBufferString(tt.body))
			if tt.signature != "" {
				req.Header.Set("X-Api-Signature", tt.signature)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.True(t, strings.Contains(rr.Body.String(), tt.expectedBody))
			mockService.AssertExpectations(t)
		})
	}
}

func TestWebhookHandler_UnsignedPayloadNeverReachesService(t *testing.T) {
	mockService := new(MockService)
	handler := New(newNoopLogger(), mockService, "whsec_test")

	body := `{"event":"payment.succeeded","object":{"metadata":{"user_uid":"attacker-uid"}}}`
	req := httptest.NewRequest(http.MethodPost, "/billing/webhook", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	mockService.AssertNotCalled(t, "ProcessWebhookEvent", mock.Anything, mock.Anything)
}
