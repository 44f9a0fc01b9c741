package rabbitmq

import (
	"context"
	"fmt"
	"log"

	"github.com/streadway/amqp"
)

// maxInflight ограничивает число одновременно обрабатываемых сообщений.
const maxInflight = 10

// ConsumerMessage подписывается на очередь queueName и передает тело каждого
// сообщения в handler. Сообщения обрабатываются параллельно, но не более
// maxInflight разом. Если handler вернул ошибку, сообщение возвращается
// в очередь через Nack и будет доставлено повторно.
func ConsumerMessage(ctx context.Context, ch *amqp.Channel, queueName string, handler func([]byte) error) error {
	const op = "rabbitmq.ConsumerMessage"

	deliveries, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	sem := make(chan struct{}, maxInflight)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-deliveries:
				if !ok {
					return
				}
				sem <- struct{}{}
				go func(msg amqp.Delivery) {
					defer func() { <-sem }()
					consume(msg, handler)
				}(msg)
			}
		}
	}()

	return nil
}

func consume(msg amqp.Delivery, handler func([]byte) error) {
	if err := handler(msg.Body); err != nil {
		if nackErr := msg.Nack(false, true); nackErr != nil {
			log.Printf("failed to nack message: %v", nackErr)
		}
		return
	}
	if ackErr := msg.Ack(false); ackErr != nil {
		log.Printf("failed to ack message: %v", ackErr)
	}
}
