package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"gymdesk/internal/logger"
	"gymdesk/internal/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	queueKey  = "gymdesk:emails"
	failedKey = "gymdesk:emails:failed"

	maxTries = 3
)

type EmailJob struct {
	To      string    `json:"to"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Type    string    `json:"type"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

// Sender is what the billing and payroll handlers depend on.
type Sender interface {
	SendPaymentReceipt(ctx context.Context, to, invoiceNumber string, amount decimal.Decimal, currency string) error
	SendSalarySlipNotice(ctx context.Context, to string, month, year int, gross decimal.Decimal, currency string) error
}

type Service struct {
	redis    *redis.Client
	from     string
	fromName string
	smtpHost string
	smtpPort string
	smtpUser string
	smtpPass string
}

func New(fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass, redisAddr string) *Service {
	return &Service{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
		from:     fromEmail,
		fromName: fromName,
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		smtpUser: smtpUser,
		smtpPass: smtpPass,
	}
}

// NewWithClient is used by tests to inject a mock redis client.
func NewWithClient(client *redis.Client) *Service {
	return &Service{redis: client}
}

func (s *Service) Close() error {
	return s.redis.Close()
}

func (s *Service) enqueue(ctx context.Context, job EmailJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, data).Err(); err != nil {
		logger.Errorf("Failed to queue email to %s: %v", job.To, err)
		return err
	}

	metrics.EmailsQueuedTotal.WithLabelValues(job.Type).Inc()
	logger.Infof("Email queued: %s to %s", job.Subject, job.To)
	return nil
}

// Send queues an arbitrary email, mainly for the ops test endpoint.
func (s *Service) Send(ctx context.Context, to, subject, body string) error {
	return s.enqueue(ctx, EmailJob{
		To:      to,
		Subject: subject,
		Body:    body,
		Type:    "generic",
		Created: time.Now(),
	})
}

func (s *Service) SendPaymentReceipt(ctx context.Context, to, invoiceNumber string, amount decimal.Decimal, currency string) error {
	return s.enqueue(ctx, EmailJob{
		To:      to,
		Subject: fmt.Sprintf("Payment received for invoice %s", invoiceNumber),
		Body: fmt.Sprintf("We received your payment of %s %s against invoice %s. Thank you!",
			amount.StringFixed(2), currency, invoiceNumber),
		Type:    "payment_receipt",
		Created: time.Now(),
	})
}

func (s *Service) SendSalarySlipNotice(ctx context.Context, to string, month, year int, gross decimal.Decimal, currency string) error {
	return s.enqueue(ctx, EmailJob{
		To:      to,
		Subject: fmt.Sprintf("Salary slip for %02d/%d", month, year),
		Body: fmt.Sprintf("Your salary slip for %02d/%d has been paid out: %s %s gross.",
			month, year, gross.StringFixed(2), currency),
		Type:    "salary_slip",
		Created: time.Now(),
	})
}

// Start drains the queue until the context is cancelled.
func (s *Service) Start(ctx context.Context) {
	logger.Info("Notification service started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Notification service stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad email data: %v", err)
		return
	}

	job.Tries++
	if err := s.sendNow(job); err != nil {
		logger.Errorf("Failed to send email to %s: %v", job.To, err)

		if job.Tries < maxTries {
			time.Sleep(5 * time.Second)
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, data)
		} else {
			logger.Errorf("Email to %s failed after %d attempts", job.To, maxTries)
			s.saveFailed(job, err)
		}
		return
	}

	logger.Infof("Email sent to %s", job.To)
}

func (s *Service) sendNow(job EmailJob) error {
	if s.smtpHost == "" {
		// no SMTP configured, drop after logging
		logger.Debugf("SMTP not configured, skipping email to %s", job.To)
		return nil
	}

	msg := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		s.fromName, s.from, job.To, job.Subject, job.Body)

	addr := s.smtpHost + ":" + s.smtpPort
	var auth smtp.Auth
	if s.smtpUser != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	return smtp.SendMail(addr, auth, s.from, []string{job.To}, []byte(msg))
}

func (s *Service) saveFailed(job EmailJob, sendErr error) {
	record := map[string]interface{}{
		"job":    job,
		"error":  sendErr.Error(),
		"failed": time.Now(),
	}
	data, err := json.Marshal(record)
	if err != nil {
		return
	}
	s.redis.LPush(context.Background(), failedKey, data)
}
