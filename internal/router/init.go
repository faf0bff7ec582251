package router

import (
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/opportune-api/config"
	app "github.com/oksasatya/opportune-api/internal/application"
	"github.com/oksasatya/opportune-api/internal/domain/repository"
	"github.com/oksasatya/opportune-api/internal/infrastructure/listings"
	pginfra "github.com/oksasatya/opportune-api/internal/infrastructure/postgres"
	"github.com/oksasatya/opportune-api/internal/infrastructure/search"
	handlers "github.com/oksasatya/opportune-api/internal/interface/http"
	"github.com/oksasatya/opportune-api/internal/interface/middleware"
	"github.com/oksasatya/opportune-api/internal/router/modules"
	"github.com/oksasatya/opportune-api/pkg/helpers"
	"github.com/oksasatya/opportune-api/pkg/mailer"
	mailtpl "github.com/oksasatya/opportune-api/pkg/mailer/templates"
)

// Deps are the collaborators modules are built from. Optional ones may be nil.
type Deps struct {
	Config *config.Config
	Logger logrus.FieldLogger

	Users        repository.UserRepository
	Applications repository.ApplicationRepository
	Hasher       app.Hasher
	JWT          *helpers.JWTManager
	Notifier     app.Notifier

	Uploader    app.Uploader
	Index       app.ApplicationIndex
	Jobs        app.JobBoard
	Internships app.InternshipBoard
	Cache       redis.Cmdable
	Counter     middleware.Counter
	DB          handlers.Pinger
}

// Services are returned so main can drain background work on shutdown.
type Services struct {
	Auth         *app.AuthService
	Users        *app.UserService
	Applications *app.ApplicationService
	Listings     *app.ListingService
}

// Infra holds the clients main opened. Optional ones stay nil when not configured.
type Infra struct {
	Pool      *pgxpool.Pool
	Redis     *redis.Client
	GCS       *storage.Client
	ES        *elasticsearch.Client
	RabbitPub *helpers.RabbitPublisher
	JWT       *helpers.JWTManager
	Hasher    *helpers.PasswordHasher
}

// BuildDeps assembles Deps from the clients in in.
// Nil clients leave the matching Deps field nil so optional features stay off.
func BuildDeps(cfg *config.Config, logger *logrus.Logger, in Infra) Deps {
	d := Deps{
		Config:   cfg,
		Logger:   logger,
		JWT:      in.JWT,
		Notifier: buildNotifier(cfg, logger, in.RabbitPub),
		Counter:  middleware.NewMemoryCounter(),
	}
	if in.Pool != nil {
		d.Users = pginfra.NewUserRepository(in.Pool)
		d.Applications = pginfra.NewApplicationRepository(in.Pool)
		d.DB = in.Pool
	}
	if in.Hasher != nil {
		d.Hasher = in.Hasher
	}
	if in.Redis != nil {
		d.Cache = in.Redis
		d.Counter = middleware.NewRedisCounter(in.Redis)
	}
	if in.GCS != nil && cfg.GCSBucket != "" {
		d.Uploader = helpers.NewGCSUploader(in.GCS, cfg.GCSBucket)
	}
	if in.ES != nil {
		d.Index = search.NewApplicationIndex(in.ES, cfg.ESApplicationsIndex)
	}

	hc := listings.NewHTTPClient(10 * time.Second)
	if cfg.AdzunaAppID != "" && cfg.AdzunaAppKey != "" {
		d.Jobs = listings.NewAdzuna(cfg.AdzunaAppID, cfg.AdzunaAppKey, hc, listings.NewBreaker(5, 30*time.Second))
	}
	if cfg.JoobleAPIKey != "" {
		d.Internships = listings.NewJooble(cfg.JoobleAPIKey, hc, listings.NewBreaker(5, 30*time.Second))
	}
	return d
}

func buildNotifier(cfg *config.Config, logger *logrus.Logger, pub *helpers.RabbitPublisher) app.Notifier {
	if !cfg.MailSendEnabled {
		return mailer.LogNotifier{Logger: logger}
	}
	mail := mailer.ResetMail{
		Branding: mailtpl.Branding{AppName: cfg.AppName, CompanyName: cfg.CompanyName, SupportURL: cfg.SupportURL},
		ResetURL: cfg.ResetPasswordURL(),
		TTL:      cfg.ResetTokenTTL,
	}
	switch cfg.MailTransport {
	case config.MailTransportMailgun:
		return mailer.NewDirectNotifier(mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender), mail)
	case config.MailTransportGmail:
		return mailer.NewDirectNotifier(
			mailer.NewGmail(cfg.GmailSender, cfg.CompanyName, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRefreshToken),
			mail,
		)
	default:
		if pub != nil {
			return mailer.NewQueueNotifier(pub, mail)
		}
		logger.Warn("email queue unavailable; password reset emails will only be logged")
		return mailer.LogNotifier{Logger: logger}
	}
}

// InitModules builds services, handlers and modules from d and registers them with r.
// This function should be called once during application startup.
func InitModules(r *Registry, d Deps) *Services {
	cfg := d.Config
	svc := &Services{
		Auth: app.NewAuthService(d.Users, d.Hasher, d.JWT, d.Notifier, d.Logger, app.AuthOptions{
			SingleUseResetTokens: cfg.ResetTokenSingleUse,
			ConcealUnknownEmail:  cfg.ForgotPasswordConcealUnknown,
			MailTimeout:          cfg.MailTimeout,
		}),
		Users:        app.NewUserService(d.Users, d.Uploader, d.Logger),
		Applications: app.NewApplicationService(d.Applications, d.Index, d.Logger),
		Listings:     app.NewListingService(d.Jobs, d.Internships, d.Cache, cfg.ListingsCacheTTL, d.Logger),
	}

	var allow middleware.AllowFunc
	if cfg.RateLimitSkipPrivate {
		allow = middleware.AllowPrivateIP()
	}
	attempts := middleware.RateLimit(d.Counter, cfg.RateLimitMax, cfg.RateLimitWindow, middleware.KeyByIPAndPath(), allow, d.Logger)
	perIP := middleware.RateLimit(d.Counter, 120, time.Minute, middleware.KeyByIP(), allow, d.Logger)
	uploads := middleware.RateLimit(d.Counter, 20, time.Hour, middleware.KeyByUserID(), nil, d.Logger)
	auth := middleware.Auth(d.JWT)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc.Auth, d.Logger, cfg.CookieDomain, cfg.CookieSecure), attempts))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc.Users, d.Logger), auth, uploads))
	r.Add(modules.NewApplicationModule(handlers.NewApplicationHandler(svc.Applications, d.Logger), auth))
	r.Add(modules.NewListingModule(handlers.NewListingHandler(svc.Listings, d.Logger), perIP))
	r.Add(modules.NewDebugModule(handlers.NewHealthHandler(d.DB), perIP))
	return svc
}
