// Package consumer reads payment events from RabbitMQ and records them through
// the payment service.
package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/tailwag/walkops/internal/interfaces"
	"github.com/tailwag/walkops/internal/metrics"
	"github.com/tailwag/walkops/internal/models"
)

const (
	reconnectDelay       = 5 * time.Second
	maxReconnectAttempts = 10
	messageTimeout       = 30 * time.Second
)

// Config RabbitMQ bağlantı ayarları
type Config struct {
	URL      string
	Queue    string
	Prefetch int
	Workers  int
}

// PaymentEvent kuyruktan gelen ödeme mesajı (ör. Stripe payment_intent.succeeded relay'i)
type PaymentEvent struct {
	ClientID   int             `json:"client_id"`
	Amount     decimal.Decimal `json:"amount"`
	ExternalID string          `json:"external_id"`
	Method     string          `json:"method"`
	PaidAt     *time.Time      `json:"paid_at"`
}

// Consumer payment event kuyruğunu tüketir
type Consumer struct {
	cfg      Config
	payments interfaces.PaymentServiceInterface

	conn    *amqp.Connection
	channel *amqp.Channel
	mu      sync.RWMutex

	wg sync.WaitGroup
}

// New bağlantı kurmadan consumer oluşturur
func New(cfg Config, payments interfaces.PaymentServiceInterface) *Consumer {
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = 10
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Consumer{cfg: cfg, payments: payments}
}

func (c *Consumer) connect() error {
	conn, err := amqp.Dial(c.cfg.URL)
	if err != nil {
		return fmt.Errorf("failed to dial RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(
		c.cfg.Queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.channel = ch
	c.mu.Unlock()

	log.Info().Str("queue", c.cfg.Queue).Msg("🐇 RabbitMQ bağlantısı kuruldu")
	return nil
}

// Run ctx iptal edilene kadar tüketir. Bağlantı koparsa artan bekleme ile
// yeniden bağlanır; maxReconnectAttempts art arda başarısız olursa hata döner.
func (c *Consumer) Run(ctx context.Context) error {
	attempt := 0
	for {
		if err := c.connect(); err != nil {
			attempt++
			if attempt >= maxReconnectAttempts {
				return fmt.Errorf("giving up after %d attempts: %w", attempt, err)
			}
			delay := reconnectDelay * time.Duration(attempt)
			log.Warn().Err(err).Int("attempt", attempt).Dur("delay", delay).Msg("RabbitMQ bağlantısı başarısız, tekrar denenecek")

			select {
			case <-time.After(delay):
				continue
			case <-ctx.Done():
				return nil
			}
		}
		attempt = 0

		err := c.consume(ctx)
		c.closeConn()
		if ctx.Err() != nil {
			return nil
		}
		log.Error().Err(err).Msg("❌ RabbitMQ bağlantısı koptu, yeniden bağlanılıyor")
	}
}

// consume workers'ı başlatır; ctx bitince ya da bağlantı kapanınca döner
func (c *Consumer) consume(ctx context.Context) error {
	c.mu.RLock()
	conn, channel := c.conn, c.channel
	c.mu.RUnlock()

	msgs, err := channel.Consume(
		c.cfg.Queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	notifyClose := conn.NotifyClose(make(chan *amqp.Error, 1))

	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Info().Int("workers", c.cfg.Workers).Msg("Payment consumer workers başlatıldı")
	for i := 0; i < c.cfg.Workers; i++ {
		c.wg.Add(1)
		go c.worker(workerCtx, msgs, i)
	}

	var closeErr error
	select {
	case <-ctx.Done():
	case amqpErr := <-notifyClose:
		if amqpErr != nil {
			closeErr = amqpErr
		} else {
			closeErr = errors.New("connection closed")
		}
	}

	cancel()
	c.wg.Wait()
	return closeErr
}

func (c *Consumer) worker(ctx context.Context, msgs <-chan amqp.Delivery, workerID int) {
	defer c.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				log.Warn().Int("worker_id", workerID).Msg("message channel closed")
				return
			}
			c.HandleDelivery(ctx, msg)
		}
	}
}

// HandleDelivery tek bir mesajı işler ve ack/nack kararını verir:
// bozuk veya geçersiz mesaj requeue edilmeden nack, duplicate ack,
// geçici hata requeue ile nack.
func (c *Consumer) HandleDelivery(ctx context.Context, msg amqp.Delivery) {
	ctx, cancel := context.WithTimeout(ctx, messageTimeout)
	defer cancel()

	var event PaymentEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Error().Err(err).Str("body", truncate(msg.Body, 200)).Msg("Payment event parse edilemedi")
		metrics.PaymentsRecorded.WithLabelValues("queue", "malformed").Inc()
		_ = msg.Nack(false, false)
		return
	}

	if event.ClientID <= 0 || event.ExternalID == "" {
		log.Error().
			Int("client_id", event.ClientID).
			Str("external_id", event.ExternalID).
			Msg("Payment event eksik alan içeriyor")
		metrics.PaymentsRecorded.WithLabelValues("queue", "malformed").Inc()
		_ = msg.Nack(false, false)
		return
	}

	req := &models.PaymentRequest{
		Amount:     event.Amount,
		Method:     event.Method,
		ExternalID: event.ExternalID,
		PaidAt:     event.PaidAt,
	}

	resp, err := c.payments.RecordPayment(ctx, event.ClientID, req)
	switch {
	case err == nil:
		metrics.PaymentsRecorded.WithLabelValues("queue", "recorded").Inc()
		log.Debug().
			Int("client_id", event.ClientID).
			Str("external_id", event.ExternalID).
			Str("new_balance", resp.NewBalance.StringFixed(2)).
			Msg("Kuyruktan ödeme kaydedildi")
		_ = msg.Ack(false)

	case errors.Is(err, models.ErrDuplicatePayment):
		metrics.PaymentsRecorded.WithLabelValues("queue", "duplicate").Inc()
		log.Info().Str("external_id", event.ExternalID).Msg("Ödeme zaten kayıtlı, ack")
		_ = msg.Ack(false)

	case errors.Is(err, models.ErrInvalidAmount), errors.Is(err, models.ErrClientNotFound):
		metrics.PaymentsRecorded.WithLabelValues("queue", "rejected").Inc()
		log.Error().Err(err).Str("external_id", event.ExternalID).Msg("Ödeme reddedildi")
		_ = msg.Nack(false, false)

	default:
		metrics.PaymentsRecorded.WithLabelValues("queue", "error").Inc()
		log.Warn().Err(err).Str("external_id", event.ExternalID).Msg("Ödeme kaydedilemedi, requeue")
		_ = msg.Nack(false, true)
	}
}

func (c *Consumer) closeConn() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
