package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/opportune-api/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

const applicationsMapping = `{
  "mappings": {
    "properties": {
      "id":           {"type": "keyword"},
      "user_id":      {"type": "keyword"},
      "job_id":       {"type": "keyword"},
      "title":        {"type": "text"},
      "company":      {"type": "text"},
      "category":     {"type": "keyword"},
      "applied_date": {"type": "date"},
      "created_at":   {"type": "date"}
    }
  }
}`

// ApplicationIndex keeps a searchable copy of applications in Elasticsearch.
type ApplicationIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewApplicationIndex(es *elasticsearch.Client, index string) *ApplicationIndex {
	return &ApplicationIndex{ES: es, Index: index}
}

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (x *ApplicationIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.ES.Indices.Exists([]string{x.Index}, x.ES.Indices.Exists.WithContext(c))
	if err != nil {
		return fmt.Errorf("es exists: %w", err)
	}
	_ = res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = x.ES.Indices.Create(x.Index,
		x.ES.Indices.Create.WithContext(c),
		x.ES.Indices.Create.WithBody(strings.NewReader(applicationsMapping)),
	)
	if err != nil {
		return fmt.Errorf("es create index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && !strings.Contains(res.String(), "resource_already_exists_exception") {
		return fmt.Errorf("es create index: %s", res.Status())
	}
	return nil
}

type applicationDoc struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	JobID       string `json:"job_id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Category    string `json:"category"`
	AppliedDate string `json:"applied_date"`
	CreatedAt   string `json:"created_at"`
}

func (x *ApplicationIndex) Put(ctx context.Context, a *entity.Application) error {
	b, err := json.Marshal(applicationDoc{
		ID:          a.ID,
		UserID:      a.UserID,
		JobID:       a.JobID,
		Title:       a.Title,
		Company:     a.Company,
		Category:    a.Category,
		AppliedDate: a.AppliedDate.Format(time.DateOnly),
		CreatedAt:   a.CreatedAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{Index: x.Index, DocumentID: a.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return fmt.Errorf("es index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

// Search runs a multi_match over title and company restricted to userID's documents.
func (x *ApplicationIndex) Search(ctx context.Context, userID, q string, size int) ([]entity.Application, error) {
	if size <= 0 || size > 50 {
		size = 20
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":     q,
						"fields":    []string{"title^2", "company"},
						"fuzziness": "AUTO",
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"user_id": userID},
				},
			},
		},
		"size": size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := x.ES.Search(
		x.ES.Search.WithContext(c),
		x.ES.Search.WithIndex(x.Index),
		x.ES.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, fmt.Errorf("es search: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source applicationDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("es decode: %w", err)
	}

	out := make([]entity.Application, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		d := h.Source
		a := entity.Application{
			ID:       d.ID,
			UserID:   d.UserID,
			JobID:    d.JobID,
			Title:    d.Title,
			Company:  d.Company,
			Category: d.Category,
		}
		a.AppliedDate, _ = time.Parse(time.DateOnly, d.AppliedDate)
		a.CreatedAt, _ = time.Parse(time.RFC3339Nano, d.CreatedAt)
		out = append(out, a)
	}
	return out, nil
}
