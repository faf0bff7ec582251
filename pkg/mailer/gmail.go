package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	gmailSMTPHost = "smtp.gmail.com"
	gmailSMTPPort = 587
	gmailScope    = "https://mail.google.com/"
)

// Gmail sends through Gmail SMTP authenticating with an OAuth2 refresh token (XOAUTH2).
type Gmail struct {
	From   string
	Name   string
	Host   string
	Port   int
	Tokens oauth2.TokenSource
}

// NewGmail builds a sender whose access tokens are refreshed on demand.
func NewGmail(from, displayName, clientID, clientSecret, refreshToken string) *Gmail {
	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{gmailScope},
	}
	ts := conf.TokenSource(context.Background(), &oauth2.Token{RefreshToken: refreshToken})
	return &Gmail{From: from, Name: displayName, Host: gmailSMTPHost, Port: gmailSMTPPort, Tokens: ts}
}

func (g *Gmail) Send(ctx context.Context, to, subject, text, html string) error {
	tok, err := g.Tokens.Token()
	if err != nil {
		return fmt.Errorf("gmail oauth token: %w", err)
	}
	msg, err := g.message(to, subject, text, html)
	if err != nil {
		return err
	}

	c, err := mail.NewClient(g.Host,
		mail.WithPort(g.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthXOAUTH2),
		mail.WithUsername(g.From),
		mail.WithPassword(tok.AccessToken),
		mail.WithTimeout(10*time.Second),
	)
	if err != nil {
		return fmt.Errorf("gmail client: %w", err)
	}
	if err := c.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("gmail send: %w", err)
	}
	return nil
}

// message renders a multipart/alternative message; empty bodies are left out.
func (g *Gmail) message(to, subject, text, html string) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.FromFormat(g.Name, g.From); err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	if err := m.To(to); err != nil {
		return nil, fmt.Errorf("to address: %w", err)
	}
	m.Subject(subject)
	m.SetDate()
	m.SetMessageID()

	switch {
	case text != "" && html != "":
		m.SetBodyString(mail.TypeTextPlain, text)
		m.AddAlternativeString(mail.TypeTextHTML, html)
	case html != "":
		m.SetBodyString(mail.TypeTextHTML, html)
	default:
		m.SetBodyString(mail.TypeTextPlain, text)
	}
	return m, nil
}

var _ Sender = (*Gmail)(nil)
