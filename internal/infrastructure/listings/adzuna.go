package listings

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/oksasatya/opportune-api/internal/domain/entity"
)

const (
	SourceAdzuna         = "adzuna"
	DefaultAdzunaBaseURL = "https://api.adzuna.com/v1/api/jobs"
)

// Adzuna queries the Adzuna job search API.
type Adzuna struct {
	client
	BaseURL string
	AppID   string
	AppKey  string
}

func NewAdzuna(appID, appKey string, hc *http.Client, br *Breaker) *Adzuna {
	return &Adzuna{
		client:  newClient(SourceAdzuna, hc, br),
		BaseURL: DefaultAdzunaBaseURL,
		AppID:   appID,
		AppKey:  appKey,
	}
}

type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
}

type adzunaResult struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	RedirectURL string  `json:"redirect_url"`
	Created     string  `json:"created"`
	SalaryMin   float64 `json:"salary_min"`
	SalaryMax   float64 `json:"salary_max"`
	Company     struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string `json:"display_name"`
	} `json:"location"`
}

// Search fetches the first results page for country (e.g. "gb", "in").
func (a *Adzuna) Search(ctx context.Context, country, what, where string, perPage int) ([]entity.Listing, error) {
	q := url.Values{}
	q.Set("app_id", a.AppID)
	q.Set("app_key", a.AppKey)
	q.Set("results_per_page", strconv.Itoa(perPage))
	if what != "" {
		q.Set("what", what)
	}
	if where != "" {
		q.Set("where", where)
	}
	endpoint := fmt.Sprintf("%s/%s/search/1?%s", a.BaseURL, url.PathEscape(country), q.Encode())

	var resp adzunaResponse
	if err := a.doJSON(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}

	out := make([]entity.Listing, 0, len(resp.Results))
	for _, r := range resp.Results {
		out = append(out, entity.Listing{
			ID:          r.ID,
			Title:       r.Title,
			Company:     r.Company.DisplayName,
			Location:    r.Location.DisplayName,
			URL:         r.RedirectURL,
			Description: r.Description,
			Salary:      salaryRange(r.SalaryMin, r.SalaryMax),
			Created:     r.Created,
			Source:      SourceAdzuna,
		})
	}
	return out, nil
}

func salaryRange(lo, hi float64) string {
	switch {
	case lo <= 0 && hi <= 0:
		return ""
	case hi <= 0 || lo == hi:
		return strconv.FormatFloat(lo, 'f', 0, 64)
	case lo <= 0:
		return strconv.FormatFloat(hi, 'f', 0, 64)
	}
	return strconv.FormatFloat(lo, 'f', 0, 64) + "-" + strconv.FormatFloat(hi, 'f', 0, 64)
}
