package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/srihari2761/pickleball-platform/internal/logger"
	"github.com/srihari2761/pickleball-platform/internal/metrics"
)

const (
	queueKey  = "booking_notifications"
	failedKey = "booking_notifications_failed"

	maxTries = 3
)

// Job is one queued notification email.
type Job struct {
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Type    string    `json:"type"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

// Service queues booking notifications in Redis and drains them through an
// SMTP worker, so a slow mail server never sits inside the booking path.
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

// NewWithClient is used by tests to inject a mock Redis client.
func NewWithClient(client *redis.Client, fromEmail, fromName string) *Service {
	return &Service{
		redis:    client,
		from:     fromEmail,
		fromName: fromName,
	}
}

func (s *Service) queue(ctx context.Context, job Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal notification job: %v", err)
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		logger.Errorf("Failed to queue notification to %s: %v", job.To, err)
		metrics.RecordNotification(job.Type, "queue_error")
		return err
	}

	metrics.RecordNotification(job.Type, "queued")
	logger.Infof("Notification queued: %s to %s", job.Subject, job.To)
	return nil
}

func (s *Service) QueueBookingConfirmation(ctx context.Context, to, name, courtName string, start, end time.Time) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour court is booked.\n\nCourt: %s\nWhen: %s - %s\n\nSee you on the court!",
		name,
		courtName,
		start.Format("Jan 2, 2006 3:04 PM"),
		end.Format("3:04 PM"),
	)

	return s.queue(ctx, Job{
		To:      to,
		Name:    name,
		Subject: "Booking confirmed: " + courtName,
		Body:    body,
		Type:    "confirmation",
		Created: time.Now(),
	})
}

func (s *Service) QueueBookingCancellation(ctx context.Context, to, name, courtName string, start time.Time) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour booking at %s on %s has been cancelled. The slot is free again.",
		name,
		courtName,
		start.Format("Jan 2, 2006 3:04 PM"),
	)

	return s.queue(ctx, Job{
		To:      to,
		Name:    name,
		Subject: "Booking cancelled: " + courtName,
		Body:    body,
		Type:    "cancellation",
		Created: time.Now(),
	})
}

// Start runs the worker loop until the context is cancelled.
func (s *Service) Start(ctx context.Context) {
	logger.Info("Notification worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Notification worker stopped")
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

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad notification data: %v", err)
		return
	}

	job.Tries++
	if err := s.sendNow(job); err != nil {
		logger.Errorf("Failed to send notification to %s: %v", job.To, err)

		if job.Tries < maxTries {
			time.Sleep(5 * time.Second)
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, data)
			logger.Infof("Retrying notification to %s (attempt %d)", job.To, job.Tries+1)
		} else {
			logger.Errorf("Notification to %s failed after %d attempts", job.To, maxTries)
			metrics.RecordNotification(job.Type, "failed")
			s.saveFailed(job, err)
		}
		return
	}

	metrics.RecordNotification(job.Type, "sent")
	logger.Infof("Notification sent to %s", job.To)
}

func (s *Service) sendNow(job Job) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.from)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.smtpUser != "" && s.smtpPass != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	addr := s.smtpHost + ":" + s.smtpPort
	return smtp.SendMail(addr, auth, s.from, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(job Job, sendErr error) {
	record := map[string]interface{}{
		"job":       job,
		"error":     sendErr.Error(),
		"failed_at": time.Now(),
	}
	data, err := json.Marshal(record)
	if err != nil {
		return
	}
	s.redis.LPush(context.Background(), failedKey, data)
}

func (s *Service) Close() error {
	return s.redis.Close()
}
