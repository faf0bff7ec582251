package mailer

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	mailtpl "github.com/oksasatya/opportune-api/pkg/mailer/templates"
)

// Publisher is the queue side of the email pipeline (see helpers.RabbitPublisher).
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// ResetMail builds password reset emails pointing at the frontend reset page.
type ResetMail struct {
	Branding mailtpl.Branding
	ResetURL string
	TTL      time.Duration
}

// Link returns the frontend URL carrying the token.
func (m ResetMail) Link(token string) string {
	return m.ResetURL + "?token=" + url.QueryEscape(token)
}

// Job returns the templated job for email.
func (m ResetMail) Job(email, token string) EmailJob {
	data := mailtpl.NewPasswordResetData(m.Branding, email, m.Link(token), mailtpl.WithExpiresIn(m.TTL))
	return EmailJob{To: email, Template: mailtpl.PasswordReset, Data: data}
}

// Deliver renders job if it names a template and hands it to s.
func Deliver(ctx context.Context, s Sender, job EmailJob) error {
	if job.To == "" {
		return errors.New("email job without recipient")
	}
	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		var err error
		subject, text, html, err = mailtpl.Render(job.Template, job.Data)
		if err != nil {
			return err
		}
	}
	if subject == "" || (text == "" && html == "") {
		return errors.New("email job without subject or body")
	}
	return s.Send(ctx, job.To, subject, text, html)
}

// QueueNotifier enqueues reset emails for cmd/email_worker.
type QueueNotifier struct {
	Pub  Publisher
	Mail ResetMail
}

func NewQueueNotifier(pub Publisher, mail ResetMail) *QueueNotifier {
	return &QueueNotifier{Pub: pub, Mail: mail}
}

func (n *QueueNotifier) SendPasswordReset(ctx context.Context, email, token string) error {
	return n.Pub.PublishJSON(ctx, n.Mail.Job(email, token))
}

// DirectNotifier renders and sends in-process.
type DirectNotifier struct {
	Sender Sender
	Mail   ResetMail
}

func NewDirectNotifier(s Sender, mail ResetMail) *DirectNotifier {
	return &DirectNotifier{Sender: s, Mail: mail}
}

func (n *DirectNotifier) SendPasswordReset(ctx context.Context, email, token string) error {
	return Deliver(ctx, n.Sender, n.Mail.Job(email, token))
}

// LogNotifier is used when MAIL_SEND_ENABLED=false. The token is never logged.
type LogNotifier struct {
	Logger logrus.FieldLogger
}

func (n LogNotifier) SendPasswordReset(_ context.Context, email, _ string) error {
	if n.Logger != nil {
		n.Logger.WithField("email", email).Info("mail sending disabled; password reset email skipped")
	}
	return nil
}
