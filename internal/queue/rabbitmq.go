package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	// DefaultQueueName is the default queue name
	DefaultQueueName = "diary_summary_jobs"
	// DefaultDLQName is the default dead letter queue name
	DefaultDLQName = "diary_summary_jobs_dlq"
	// DefaultExchangeName is the default exchange name
	DefaultExchangeName = "diary_jobs"
	// DefaultDelayedExchangeName is the default delayed exchange name (requires plugin)
	DefaultDelayedExchangeName = "diary_jobs_delayed"

	jobsRoutingKey = "jobs"
	dlqRoutingKey  = "dlq"
)

// RabbitMQQueue implements JobQueue using RabbitMQ
type RabbitMQQueue struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *zap.Logger

	// guards channel; amqp channels must not publish from several goroutines at once
	mu sync.Mutex

	queueName           string
	dlqName             string
	exchangeName        string
	delayedExchangeName string
	delayedAvailable    bool
}

// NewRabbitMQQueue creates a new RabbitMQ queue
func NewRabbitMQQueue(amqpURL string, logger *zap.Logger) (*RabbitMQQueue, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to open channel: %w", err), conn.Close())
	}

	q := &RabbitMQQueue{
		conn:                conn,
		channel:             ch,
		logger:              logger,
		queueName:           DefaultQueueName,
		dlqName:             DefaultDLQName,
		exchangeName:        DefaultExchangeName,
		delayedExchangeName: DefaultDelayedExchangeName,
	}

	if err := q.setup(); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to setup queues: %w", err), conn.Close())
	}

	return q, nil
}

// setup configures exchanges and queues
func (q *RabbitMQQueue) setup() error {
	// Delayed exchange needs the rabbitmq_delayed_message_exchange plugin
	err := q.channel.ExchangeDeclare(
		q.delayedExchangeName,
		"x-delayed-message",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		amqp.Table{"x-delayed-type": "direct"},
	)
	if err != nil {
		// A failed declare closes the channel
		if q.channel.IsClosed() {
			newCh, openErr := q.conn.Channel()
			if openErr != nil {
				return fmt.Errorf("failed to reopen channel after delayed exchange error: %w", openErr)
			}
			q.channel = newCh
		}
		q.logger.Warn("delayed_exchange_unavailable", zap.Error(err))
	} else {
		q.delayedAvailable = true
	}

	err = q.channel.ExchangeDeclare(
		q.exchangeName,
		"direct",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	if _, err = q.channel.QueueDeclare(q.dlqName, true, false, false, false, amqp.Table{}); err != nil {
		return fmt.Errorf("failed to declare DLQ: %w", err)
	}
	if err = q.channel.QueueBind(q.dlqName, dlqRoutingKey, q.exchangeName, false, nil); err != nil {
		return fmt.Errorf("failed to bind DLQ: %w", err)
	}

	queueArgs := amqp.Table{
		"x-dead-letter-exchange":    q.exchangeName,
		"x-dead-letter-routing-key": dlqRoutingKey,
	}
	if _, err = q.channel.QueueDeclare(q.queueName, true, false, false, false, queueArgs); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	if err = q.channel.QueueBind(q.queueName, jobsRoutingKey, q.exchangeName, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue to exchange: %w", err)
	}

	if q.delayedAvailable {
		if err = q.channel.QueueBind(q.queueName, jobsRoutingKey, q.delayedExchangeName, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue to delayed exchange: %w", err)
		}
	}

	return nil
}

// Enqueue adds a job to the queue
func (q *RabbitMQQueue) Enqueue(ctx context.Context, job *Job) error {
	jobJSON, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	publishing := amqp.Publishing{
		ContentType:  "application/json",
		Body:         jobJSON,
		DeliveryMode: amqp.Persistent,
		MessageId:    job.ID.String(),
		Timestamp:    job.CreatedAt,
	}

	if job.NotAfter != nil {
		if ttl := time.Until(*job.NotAfter); ttl > 0 {
			publishing.Expiration = strconv.FormatInt(ttl.Milliseconds(), 10)
		}
	}

	exchangeName := q.exchangeName
	if job.NotBefore != nil && q.delayedAvailable {
		if delay := time.Until(*job.NotBefore); delay > 0 {
			exchangeName = q.delayedExchangeName
			publishing.Headers = amqp.Table{"x-delay": delay.Milliseconds()}
		}
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.channel.PublishWithContext(ctx, exchangeName, jobsRoutingKey, false, false, publishing); err != nil {
		return fmt.Errorf("failed to publish job: %w", err)
	}
	return nil
}

// Consume returns a channel of messages from the queue using async delivery.
// Jobs that arrive before their NotBefore are held until due without blocking
// the jobs behind them. Held jobs count against the prefetch window.
func (q *RabbitMQQueue) Consume(ctx context.Context, prefetchCount int) (<-chan *Message, <-chan error, error) {
	consumeCh, err := q.conn.Channel()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create consumer channel: %w", err)
	}

	if err := consumeCh.Qos(prefetchCount, 0, false); err != nil {
		return nil, nil, errors.Join(fmt.Errorf("failed to set QoS: %w", err), consumeCh.Close())
	}

	deliveries, err := consumeCh.Consume(
		q.queueName,
		"",    // consumer tag (empty = auto-generate)
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, nil, errors.Join(fmt.Errorf("failed to start consuming: %w", err), consumeCh.Close())
	}

	msgChan := make(chan *Message, prefetchCount)
	errChan := make(chan error, 1)

	go func() {
		var held sync.WaitGroup
		defer func() {
			held.Wait()
			// may already be closed with the connection
			_ = consumeCh.Close()
			close(msgChan)
			close(errChan)
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case delivery, ok := <-deliveries:
				if !ok {
					q.reportError(errChan, fmt.Errorf("delivery channel closed"))
					return
				}

				var job Job
				if err := json.Unmarshal(delivery.Body, &job); err != nil {
					_ = delivery.Nack(false, false)
					q.reportError(errChan, fmt.Errorf("failed to unmarshal job: %w", err))
					continue
				}

				msg := &Message{
					Job:         &job,
					DeliveryTag: delivery.DeliveryTag,
					Channel:     consumeCh,
				}
				dispatch(ctx, &held, msgChan, msg, func() { _ = delivery.Nack(false, true) })
			}
		}
	}()

	return msgChan, errChan, nil
}

// reportError forwards err without blocking the delivery loop
func (q *RabbitMQQueue) reportError(errChan chan<- error, err error) {
	select {
	case errChan <- err:
	default:
		q.logger.Warn("queue_error_dropped", zap.Error(err))
	}
}

// dispatch forwards msg to out once its job is due. A job that is not due yet
// waits on its own timer in a goroutine tracked by held, so later deliveries
// keep flowing. requeue runs when ctx ends before the message is handed over.
func dispatch(ctx context.Context, held *sync.WaitGroup, out chan<- *Message, msg *Message, requeue func()) {
	send := func() {
		select {
		case <-ctx.Done():
			requeue()
		case out <- msg:
		}
	}

	if msg.Job.NotBefore == nil || !time.Now().Before(*msg.Job.NotBefore) {
		send()
		return
	}

	held.Add(1)
	go func() {
		defer held.Done()
		if !waitUntilDue(ctx, msg.Job) {
			requeue()
			return
		}
		send()
	}()
}

// waitUntilDue blocks until job.NotBefore passes. Returns false if ctx ends first.
func waitUntilDue(ctx context.Context, job *Job) bool {
	if job.NotBefore == nil {
		return true
	}
	delay := time.Until(*job.NotBefore)
	if delay <= 0 {
		return true
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// PurgeOlderThan drops dead letters published more than retention ago.
// The DLQ is FIFO, so the scan stops at the first message still inside the window.
func (q *RabbitMQQueue) PurgeOlderThan(ctx context.Context, retention time.Duration) (int, error) {
	cutoff := time.Now().Add(-retention)

	q.mu.Lock()
	defer q.mu.Unlock()

	purged := 0
	for {
		if err := ctx.Err(); err != nil {
			return purged, err
		}
		msg, ok, err := q.channel.Get(q.dlqName, false)
		if err != nil {
			return purged, fmt.Errorf("failed to read DLQ: %w", err)
		}
		if !ok {
			return purged, nil
		}
		if !msg.Timestamp.IsZero() && msg.Timestamp.After(cutoff) {
			if err := msg.Nack(false, true); err != nil {
				return purged, fmt.Errorf("failed to requeue dead letter: %w", err)
			}
			return purged, nil
		}
		if err := msg.Ack(false); err != nil {
			return purged, fmt.Errorf("failed to drop dead letter: %w", err)
		}
		purged++
	}
}

// HealthCheck verifies the connection and channel are open
func (q *RabbitMQQueue) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if q.conn == nil || q.conn.IsClosed() {
		return errors.New("rabbitmq connection closed")
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.channel == nil || q.channel.IsClosed() {
		return errors.New("rabbitmq channel closed")
	}
	return nil
}

// Close closes the queue connection
func (q *RabbitMQQueue) Close() error {
	var err error
	if q.channel != nil {
		err = q.channel.Close()
	}
	if q.conn != nil {
		err = errors.Join(err, q.conn.Close())
	}
	return err
}

var (
	_ JobQueue  = (*RabbitMQQueue)(nil)
	_ DLQPurger = (*RabbitMQQueue)(nil)
)
