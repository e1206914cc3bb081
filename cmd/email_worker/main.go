package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-task-manager/config"
	"github.com/oksasatya/go-ddd-task-manager/pkg/helpers"
	"github.com/oksasatya/go-ddd-task-manager/pkg/mailer"
	"github.com/oksasatya/go-ddd-task-manager/pkg/mailer/templates"
)

// sender delivers a rendered email.
type sender interface {
	Send(ctx context.Context, to string, msg templates.Message) error
}

// outcome says what to do with a delivery after handling it.
type outcome int

const (
	ack outcome = iota
	drop
	retry
)

// handle decodes, renders and sends one job. Malformed or unrenderable jobs are dropped;
// send failures are retried after a delay.
func handle(ctx context.Context, s sender, body []byte, logger *logrus.Logger) outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		logger.WithError(err).Warn("bad message")
		return drop
	}
	if job.To == "" {
		logger.Warn("message without recipient")
		return drop
	}
	msg, err := job.Resolve()
	if err != nil {
		logger.WithError(err).WithField("template", job.Template).Warn("render failed")
		return drop
	}
	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := s.Send(c, job.To, msg); err != nil {
		logger.WithError(err).WithField("template", job.Template).Warn("send failed")
		return retry
	}
	return ack
}

// RetryCountHeader counts how many times a message went through the delay queue.
const RetryCountHeader = "x-retry-count"

// publisher is the part of *amqp.Channel used to park messages in the delay queue.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

func retryCount(h amqp.Table) int {
	switch v := h[RetryCountHeader].(type) {
	case int8:
		return int(v)
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// settle acknowledges d according to o. A retry parks a copy in the delay queue with an
// incremented RetryCountHeader and acks the original; past maxRetries the message is dropped.
func settle(ctx context.Context, pub publisher, d amqp.Delivery, o outcome, queue string, maxRetries int, logger *logrus.Logger) {
	switch o {
	case ack:
		_ = d.Ack(false)
	case drop:
		_ = d.Nack(false, false)
	case retry:
		n := retryCount(d.Headers)
		if n >= maxRetries {
			logger.WithField("retries", n).Error("email dropped after max retries")
			_ = d.Nack(false, false)
			return
		}
		headers := amqp.Table{}
		for k, v := range d.Headers {
			headers[k] = v
		}
		headers[RetryCountHeader] = int32(n + 1)
		err := pub.PublishWithContext(ctx, "", helpers.RetryQueue(queue), false, false, amqp.Publishing{
			Headers:      headers,
			ContentType:  d.ContentType,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         d.Body,
		})
		if err != nil {
			logger.WithError(err).Warn("park in retry queue failed, requeueing")
			_ = d.Nack(false, true)
			return
		}
		_ = d.Ack(false)
	}
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env, cfg.LogLevel)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		logger.Fatal("Mailgun not configured")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.WithError(err).Fatal("amqp dial")
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.WithError(err).Fatal("amqp channel")
	}
	defer func() { _ = ch.Close() }()

	// Prefetch for fair dispatch across workers
	if err := ch.Qos(16, 0, false); err != nil {
		logger.WithError(err).Fatal("qos")
	}
	if err := helpers.DeclareQueue(ch, cfg.RabbitMQEmailQueue); err != nil {
		logger.WithError(err).Fatal("queue declare")
	}
	if err := helpers.DeclareRetryQueue(ch, cfg.RabbitMQEmailQueue, cfg.EmailRetryDelay); err != nil {
		logger.WithError(err).Fatal("retry queue declare")
	}

	msgs, err := ch.Consume(cfg.RabbitMQEmailQueue, "", false, false, false, false, nil)
	if err != nil {
		logger.WithError(err).Fatal("consume")
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	ctx, stopCtx := context.WithCancel(context.Background())
	defer stopCtx()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			settle(ctx, ch, msg, handle(ctx, mg, msg.Body, logger), cfg.RabbitMQEmailQueue, cfg.EmailMaxRetries, logger)
		}
	}()

	logger.WithField("queue", cfg.RabbitMQEmailQueue).Info("email worker listening")
	<-stop
	logger.Info("shutting down...")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
