package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/opportune-api/config"
	"github.com/oksasatya/opportune-api/pkg/helpers"
	"github.com/oksasatya/opportune-api/pkg/mailer"
)

const consumerTag = "email-worker"

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadWorker()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env)
	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}

	conn, ch, err := helpers.DialRabbit(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
	if err != nil {
		logger.Fatalf("amqp: %v", err)
	}
	defer func() { _ = conn.Close() }()
	defer func() { _ = ch.Close() }()

	// prefetch for fair dispatch
	if err := ch.Qos(16, 0, false); err != nil {
		logger.Fatalf("qos: %v", err)
	}
	msgs, err := ch.Consume(cfg.RabbitMQEmailQueue, consumerTag, false, false, false, false, nil)
	if err != nil {
		logger.Fatalf("consume: %v", err)
	}

	sender, name := pickSender(cfg)
	wlog := logger.WithFields(logrus.Fields{"queue": cfg.RabbitMQEmailQueue, "sender": name})

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			var job mailer.EmailJob
			if err := json.Unmarshal(msg.Body, &job); err != nil {
				wlog.WithError(err).Warn("malformed email job dropped")
				_ = msg.Nack(false, false)
				continue
			}

			ctx, cancel := context.WithTimeout(context.Background(), cfg.MailTimeout)
			err := mailer.Deliver(ctx, sender, job)
			cancel()
			if err != nil {
				// a job that already failed once is dropped
				requeue := !msg.Redelivered
				wlog.WithError(err).WithFields(logrus.Fields{"to": job.To, "template": job.Template, "requeue": requeue}).
					Error("email delivery failed")
				_ = msg.Nack(false, requeue)
				continue
			}
			_ = msg.Ack(false)
			wlog.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("email sent")
		}
	}()

	wlog.Info("email worker listening")
	<-stop
	wlog.Info("shutting down...")
	_ = ch.Cancel(consumerTag, false)
	select {
	case <-done:
	case <-time.After(cfg.MailTimeout):
	}
}

// pickSender prefers Gmail OAuth2 and falls back to Mailgun.
func pickSender(cfg *config.Config) (mailer.Sender, string) {
	if cfg.GmailConfigured() {
		return mailer.NewGmail(cfg.GmailSender, cfg.CompanyName, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRefreshToken), "gmail"
	}
	return mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender), "mailgun"
}
