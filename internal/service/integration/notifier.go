package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/RubachokBoss/exam-portal/evaluation-service/internal/models"
	"github.com/RubachokBoss/exam-portal/evaluation-service/pkg/rabbitmq"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// EventNotifier delivers evaluation events to whoever informs students.
type EventNotifier interface {
	Publish(ctx context.Context, event *models.EvaluationEvent) error
	Close() error
}

type rabbitMQNotifier struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   zerolog.Logger
}

// NewRabbitMQNotifier publishes events to a topic exchange, using the event
// type as routing key.
func NewRabbitMQNotifier(url, exchange, queueName, bindingKey string, logger zerolog.Logger) (EventNotifier, error) {
	conn, err := rabbitmq.NewConnection(url)
	if err != nil {
		return nil, err
	}

	channel, err := rabbitmq.NewChannel(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	queue, err := rabbitmq.DeclareTopology(channel, exchange, queueName, bindingKey)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	logger.Info().
		Str("exchange", exchange).
		Str("queue", queue).
		Str("binding_key", bindingKey).
		Msg("Connected to RabbitMQ")

	return &rabbitMQNotifier{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		logger:   logger,
	}, nil
}

func (n *rabbitMQNotifier) Publish(ctx context.Context, event *models.EvaluationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = n.channel.PublishWithContext(
		publishCtx,
		n.exchange,         // exchange
		string(event.Type), // routing key
		false,              // mandatory
		false,              // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    event.ID,
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Unix(event.Timestamp, 0),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	n.logger.Debug().
		Str("event_id", event.ID).
		Str("event_type", string(event.Type)).
		Msg("Evaluation event published")

	return nil
}

func (n *rabbitMQNotifier) Close() error {
	if n.channel != nil {
		if err := n.channel.Close(); err != nil {
			n.logger.Error().Err(err).Msg("Failed to close RabbitMQ channel")
		}
	}

	if n.conn != nil {
		if err := n.conn.Close(); err != nil {
			n.logger.Error().Err(err).Msg("Failed to close RabbitMQ connection")
		}
	}

	return nil
}

type logNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier only logs events. It stands in when RabbitMQ is disabled
// or unreachable.
func NewLogNotifier(logger zerolog.Logger) EventNotifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) Publish(_ context.Context, event *models.EvaluationEvent) error {
	n.logger.Info().
		Str("event_id", event.ID).
		Str("event_type", string(event.Type)).
		Str("roll_no", event.RollNo).
		Str("subject_code", event.SubjectCode).
		Msg("Evaluation event")
	return nil
}

func (n *logNotifier) Close() error {
	return nil
}
