package services

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/eazeeinvoice/eazee-invoice/internal/config"
	"github.com/eazeeinvoice/eazee-invoice/internal/models"
)

// MailerMock реализует интерфейс Mailer
type MailerMock struct {
	mock.Mock
}

func (m *MailerMock) Send(email *mail.SGMailV3) (*rest.Response, error) {
	args := m.Called(email)
	if res := args.Get(0); res != nil {
		return res.(*rest.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	return &config.Config{
		Email: config.Email{
			FromAddress: "billing@eazeeinvoice.test",
			FromName:    "Eazee Invoice",
		},
	}
}

func TestSendDocumentEmail(t *testing.T) {
	mailer := new(MailerMock)
	svc := NewSenderService(newTestConfig(), mailer, newNoopLogger())

	job := models.DocumentEmailJob{
		Username:      "testuser",
		DocumentType:  "invoice",
		DocumentID:    42,
		Number:        "INV-42",
		CustomerName:  "Acme",
		CustomerEmail: "billing@acme.example",
		Total:         "120.00",
		DueDate:       "15-07-2025",
	}
	body, err := json.Marshal(job)
	require.NoError(t, err)

	mailer.On("Send", mock.MatchedBy(func(msg *mail.SGMailV3) bool {
		if msg.Subject != "Счёт № INV-42" {
			return false
		}
		if len(msg.Personalizations) != 1 || len(msg.Personalizations[0].To) != 1 {
			return false
		}
		return msg.Personalizations[0].To[0].Address == "billing@acme.example"
	})).Return(&rest.Response{StatusCode: http.StatusAccepted}, nil)

	err = svc.SendDocumentEmail(body)
	require.NoError(t, err)
	mailer.AssertExpectations(t)
}

func TestSendDocumentEmailProviderRejects(t *testing.T) {
	mailer := new(MailerMock)
	svc := NewSenderService(newTestConfig(), mailer, newNoopLogger())

	body, err := json.Marshal(models.DocumentEmailJob{
		DocumentType:  "quote",
		Number:        "Q-7",
		CustomerName:  "Acme",
		CustomerEmail: "billing@acme.example",
	})
	require.NoError(t, err)

	mailer.On("Send", mock.Anything).
		Return(&rest.Response{StatusCode: http.StatusUnauthorized, Body: "bad api key"}, nil)

	err = svc.SendDocumentEmail(body)
	assert.Error(t, err)
}

func TestSendTrialReminder(t *testing.T) {
	mailer := new(MailerMock)
	svc := NewSenderService(newTestConfig(), mailer, newNoopLogger())

	body, err := json.Marshal(models.TrialReminder{
		Email:    "testuser@example.com",
		Username: "testuser",
	})
	require.NoError(t, err)

	mailer.On("Send", mock.MatchedBy(func(msg *mail.SGMailV3) bool {
		return msg.Subject == "Пробный период Eazee Invoice заканчивается сегодня" &&
			msg.Personalizations[0].To[0].Address == "testuser@example.com"
	})).Return(&rest.Response{StatusCode: http.StatusAccepted}, nil)

	err = svc.SendTrialReminder(body)
	require.NoError(t, err)
	mailer.AssertExpectations(t)
}

func TestSendDocumentEmailBadPayload(t *testing.T) {
	mailer := new(MailerMock)
	svc := NewSenderService(newTestConfig(), mailer, newNoopLogger())

	err := svc.SendDocumentEmail([]byte(`{broken`))
	assert.Error(t, err)
	mailer.AssertNotCalled(t, "Send", mock.Anything)
}

func TestSendMailerError(t *testing.T) {
	mailer := new(MailerMock)
	svc := NewSenderService(newTestConfig(), mailer, newNoopLogger())

	body, err := json.Marshal(models.TrialReminder{
		Email:    "testuser@example.com",
		Username: "testuser",
	})
	require.NoError(t, err)

	mailer.On("Send", mock.Anything).Return(nil, errors.New("network error"))

	err = svc.SendTrialReminder(body)
	assert.Error(t, err)
}
