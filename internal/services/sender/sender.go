// Package services содержит логику отправки писем: рендер тела письма
// и доставку через SendGrid. Сообщения приходят из очередей RabbitMQ.
package services

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/eazeeinvoice/eazee-invoice/internal/config"
	"github.com/eazeeinvoice/eazee-invoice/internal/lib/sl"
	"github.com/eazeeinvoice/eazee-invoice/internal/models"
)

// documentEmailBody шаблон письма с документом.
const documentEmailBody = `<p>Здравствуйте, {{.CustomerName}}!</p>
<p>Вам {{if eq .DocumentType "invoice"}}выставлен счёт{{else}}направлено коммерческое предложение{{end}} № {{.Number}}
на сумму {{.Total}}.</p>
<p>{{if eq .DocumentType "invoice"}}Срок оплаты: {{.DueDate}}.{{else}}Предложение действительно до {{.DueDate}}.{{end}}</p>
<p>С уважением,<br>{{.Username}}</p>`

// trialReminderBody шаблон напоминания об окончании пробного периода.
const trialReminderBody = `<p>Здравствуйте, {{.Username}}!</p>
<p>Ваш пробный период в Eazee Invoice заканчивается сегодня.</p>
<p>Чтобы продолжить выставлять счета, оформите подписку в настройках аккаунта.</p>`

// Mailer описывает доставку собранного письма.
type Mailer interface {
	// Send отправляет письмо через провайдера.
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// SenderService рендерит и отправляет письма приложения.
type SenderService struct {
	mailer      Mailer
	fromAddress string
	fromName    string
	log         *slog.Logger

	documentTmpl *template.Template
	reminderTmpl *template.Template
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(cfg *config.Config, mailer Mailer, log *slog.Logger) *SenderService {
	return &SenderService{
		mailer:       mailer,
		fromAddress:  cfg.Email.FromAddress,
		fromName:     cfg.Email.FromName,
		log:          log,
		documentTmpl: template.Must(template.New("document").Parse(documentEmailBody)),
		reminderTmpl: template.Must(template.New("reminder").Parse(trialReminderBody)),
	}
}

// SendDocumentEmail отправляет клиенту письмо с документом.
// Вызывается обработчиком очереди documents.email.
func (s *SenderService) SendDocumentEmail(body []byte) error {
	var job models.DocumentEmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	var buf strings.Builder
	if err := s.documentTmpl.Execute(&buf, job); err != nil {
		return fmt.Errorf("error rendering email body: %w", err)
	}

	var subject string
	if job.DocumentType == "invoice" {
		subject = fmt.Sprintf("Счёт № %s", job.Number)
	} else {
		subject = fmt.Sprintf("Коммерческое предложение № %s", job.Number)
	}
	return s.deliver(job.CustomerName, job.CustomerEmail, subject, buf.String())
}

// SendTrialReminder отправляет пользователю напоминание об окончании
// пробного периода. Вызывается обработчиком очереди trial.reminder.
func (s *SenderService) SendTrialReminder(body []byte) error {
	var reminder models.TrialReminder
	if err := json.Unmarshal(body, &reminder); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	var buf strings.Builder
	if err := s.reminderTmpl.Execute(&buf, reminder); err != nil {
		return fmt.Errorf("error rendering email body: %w", err)
	}
	subject := "Пробный период Eazee Invoice заканчивается сегодня"
	return s.deliver(reminder.Username, reminder.Email, subject, buf.String())
}

func (s *SenderService) deliver(toName, toAddress, subject, htmlBody string) error {
	from := mail.NewEmail(s.fromName, s.fromAddress)
	to := mail.NewEmail(toName, toAddress)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	resp, err := s.mailer.Send(message)
	if err != nil {
		s.log.Error("failed to send email", slog.String("to", toAddress), sl.Err(err))
		return err
	}
	if resp.StatusCode >= 400 {
		s.log.Error("email provider rejected message",
			slog.String("to", toAddress),
			slog.Int("status", resp.StatusCode))
		return fmt.Errorf("email provider returned status %d", resp.StatusCode)
	}
	s.log.Info("email sent", slog.String("to", toAddress), slog.String("subject", subject))
	return nil
}
