package templates

import (
	"time"
)

// Branding carries the sender-wide values every email shows.
type Branding struct {
	AppName     string
	CompanyName string
	SupportURL  string
}

// Option pattern
type Option func(*EmailData)

func WithResetURL(url string) Option { return func(d *EmailData) { d.ResetURL = url } }

func WithExpiresAt(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.ExpiresAt = utc
		d.ExpiresAtText = utc.Format("02 January 2006, 15:04")
	}
}

// WithExpiresIn records both the absolute expiry and the lifetime in whole minutes.
func WithExpiresIn(dur time.Duration) Option {
	return func(d *EmailData) {
		WithExpiresAt(time.Now().Add(dur))(d)
		d.ExpiresInMinutes = int(dur.Round(time.Minute) / time.Minute)
	}
}

// NewBaseEmailData fills the common fields, then applies opts.
func NewBaseEmailData(b Branding, typ, email string, opts ...Option) EmailData {
	d := EmailData{
		Email:       email,
		Type:        typ,
		AppName:     b.AppName,
		CompanyName: b.CompanyName,
		SupportURL:  b.SupportURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewPasswordResetData(b Branding, email, resetURL string, opts ...Option) map[string]any {
	opts = append([]Option{WithResetURL(resetURL)}, opts...)
	return ToMap(NewBaseEmailData(b, PasswordReset, email, opts...))
}
