package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/opportune-api/internal/domain/entity"
	"github.com/oksasatya/opportune-api/pkg/helpers"
)

const (
	defaultJobsWhat       = "developer"
	defaultJobsWhere      = "London"
	defaultInternKeywords = "internship"
	defaultInternLocation = "India"

	jobsCountry      = "gb"
	workshopsCountry = "in"
	jobsPerPage      = 40
	workshopsPerPage = 100

	workshopFallbackURL = "https://api.adzuna.com/v1/api/workshops/gb/search/1"
)

// JobBoard is satisfied by listings.Adzuna.
type JobBoard interface {
	Search(ctx context.Context, country, what, where string, perPage int) ([]entity.Listing, error)
}

// InternshipBoard is satisfied by listings.Jooble.
type InternshipBoard interface {
	Search(ctx context.Context, keywords, location string) ([]entity.Listing, error)
}

// ListingService proxies third-party boards, caching results in Redis when available.
type ListingService struct {
	Jobs        JobBoard
	Internships InternshipBoard
	Cache       redis.Cmdable
	CacheTTL    time.Duration
	Logger      logrus.FieldLogger
}

func NewListingService(jobs JobBoard, internships InternshipBoard, cache redis.Cmdable, ttl time.Duration, logger logrus.FieldLogger) *ListingService {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return &ListingService{Jobs: jobs, Internships: internships, Cache: cache, CacheTTL: ttl, Logger: logger}
}

func (s *ListingService) FetchJobs(ctx context.Context, what, where string) ([]entity.Listing, error) {
	what = orDefault(what, defaultJobsWhat)
	where = orDefault(where, defaultJobsWhere)
	if s.Jobs == nil {
		return nil, ErrNotConfigured
	}
	return s.cached(ctx, cacheKey("jobs", what, where), func() ([]entity.Listing, error) {
		return s.Jobs.Search(ctx, jobsCountry, what, where, jobsPerPage)
	})
}

func (s *ListingService) FetchInternships(ctx context.Context, keywords, location string) ([]entity.Listing, error) {
	keywords = orDefault(keywords, defaultInternKeywords)
	location = orDefault(location, defaultInternLocation)
	if s.Internships == nil {
		return nil, ErrNotConfigured
	}
	return s.cached(ctx, cacheKey("internships", keywords, location), func() ([]entity.Listing, error) {
		return s.Internships.Search(ctx, keywords, location)
	})
}

func (s *ListingService) FetchWorkshops(ctx context.Context) ([]entity.Listing, error) {
	if s.Jobs == nil {
		return nil, ErrNotConfigured
	}
	return s.cached(ctx, cacheKey("workshops"), func() ([]entity.Listing, error) {
		out, err := s.Jobs.Search(ctx, workshopsCountry, "workshop", "", workshopsPerPage)
		if err != nil {
			return nil, err
		}
		for i := range out {
			out[i].Title = orDefault(out[i].Title, "Unnamed Workshop")
			out[i].Company = orDefault(out[i].Company, "Unknown")
			out[i].Location = orDefault(out[i].Location, "Unknown")
			out[i].URL = orDefault(out[i].URL, workshopFallbackURL)
		}
		return out, nil
	})
}

func (s *ListingService) cached(ctx context.Context, key string, fetch func() ([]entity.Listing, error)) ([]entity.Listing, error) {
	if s.Cache != nil {
		var hit []entity.Listing
		found, err := helpers.RedisGetJSON(ctx, s.Cache, key, &hit)
		if err != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("listings cache read failed")
		}
		if found {
			return hit, nil
		}
	}

	out, err := fetch()
	if err != nil {
		s.Logger.WithError(err).WithField("key", key).Error("listings upstream failed")
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if s.Cache != nil && s.CacheTTL > 0 {
		if err := helpers.RedisSetJSON(ctx, s.Cache, key, out, s.CacheTTL); err != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("listings cache write failed")
		}
	}
	return out, nil
}

func cacheKey(kind string, parts ...string) string {
	for i, p := range parts {
		parts[i] = strings.ToLower(p)
	}
	return "listings:" + kind + ":" + strings.Join(parts, "|")
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}
