package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// Exchange имя exchange для всех уведомлений приложения.
const Exchange = "notifications"

const (
	// QueueDocumentEmail очередь заданий на отправку документов почтой.
	QueueDocumentEmail = "documents.email"
	// RoutingDocumentEmail ключ маршрутизации заданий на отправку документов.
	RoutingDocumentEmail = "document-email"

	// QueueTrialReminder очередь напоминаний об окончании пробного периода.
	QueueTrialReminder = "trial.reminder"
	// RoutingTrialReminder ключ маршрутизации напоминаний.
	RoutingTrialReminder = "trial-reminder"
)

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди приложения.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: QueueDocumentEmail, RoutingKey: RoutingDocumentEmail},
		{QueueName: QueueTrialReminder, RoutingKey: RoutingTrialReminder},
	}
}

// SetupChannel открывает канал, объявляет exchange и привязывает очереди.
func SetupChannel(conn *amqp.Connection, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	err = ch.ExchangeDeclare(
		Exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, q := range queues {
		_, err := ch.QueueDeclare(
			q.QueueName,
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, q.QueueName, err)
		}

		err = ch.QueueBind(
			q.QueueName,
			q.RoutingKey,
			Exchange,
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to bind queue %s with routing key %s: %w", op, q.QueueName, q.RoutingKey, err)
		}
	}

	return ch, nil
}
