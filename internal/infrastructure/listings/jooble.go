package listings

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/oksasatya/opportune-api/internal/domain/entity"
)

const (
	SourceJooble         = "jooble"
	DefaultJoobleBaseURL = "https://jooble.org/api"
)

// Jooble queries the Jooble REST API, which takes the key in the path.
type Jooble struct {
	client
	BaseURL string
	APIKey  string
}

func NewJooble(apiKey string, hc *http.Client, br *Breaker) *Jooble {
	return &Jooble{
		client:  newClient(SourceJooble, hc, br),
		BaseURL: DefaultJoobleBaseURL,
		APIKey:  apiKey,
	}
}

type joobleRequest struct {
	Keywords string `json:"keywords"`
	Location string `json:"location,omitempty"`
}

type joobleResponse struct {
	Jobs []joobleJob `json:"jobs"`
}

type joobleJob struct {
	ID       json64 `json:"id"`
	Title    string `json:"title"`
	Location string `json:"location"`
	Snippet  string `json:"snippet"`
	Salary   string `json:"salary"`
	Link     string `json:"link"`
	Company  string `json:"company"`
	Updated  string `json:"updated"`
}

func (j *Jooble) Search(ctx context.Context, keywords, location string) ([]entity.Listing, error) {
	var resp joobleResponse
	endpoint := j.BaseURL + "/" + url.PathEscape(j.APIKey)
	if err := j.doJSON(ctx, http.MethodPost, endpoint, joobleRequest{Keywords: keywords, Location: location}, &resp); err != nil {
		return nil, err
	}

	out := make([]entity.Listing, 0, len(resp.Jobs))
	for _, r := range resp.Jobs {
		out = append(out, entity.Listing{
			ID:          string(r.ID),
			Title:       r.Title,
			Company:     r.Company,
			Location:    r.Location,
			URL:         r.Link,
			Description: r.Snippet,
			Salary:      r.Salary,
			Created:     r.Updated,
			Source:      SourceJooble,
		})
	}
	return out, nil
}

// json64 accepts ids sent either as JSON numbers or strings.
type json64 string

func (v *json64) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		s, err := strconv.Unquote(string(b))
		if err != nil {
			return err
		}
		*v = json64(s)
		return nil
	}
	if string(b) == "null" {
		return nil
	}
	*v = json64(b)
	return nil
}
