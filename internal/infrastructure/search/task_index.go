// Package search mirrors tasks into Elasticsearch for per-owner full-text search.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/go-ddd-task-manager/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

type TaskIndex struct {
	ES        *elasticsearch.Client
	IndexName string
}

func NewTaskIndex(es *elasticsearch.Client, index string) *TaskIndex {
	return &TaskIndex{ES: es, IndexName: index}
}

type taskSource struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	UserID      string `json:"userId"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func toSource(t entity.Task) taskSource {
	return taskSource{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		UserID:      t.UserID,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   t.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (s taskSource) task() entity.Task {
	t := entity.Task{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Status:      entity.TaskStatus(s.Status),
		UserID:      s.UserID,
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339Nano, s.CreatedAt)
	t.UpdatedAt, _ = time.Parse(time.RFC3339Nano, s.UpdatedAt)
	return t
}

// Index upserts the task document under its id.
func (x *TaskIndex) Index(ctx context.Context, t entity.Task) error {
	b, err := json.Marshal(toSource(t))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.IndexName, DocumentID: t.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

// Delete removes the task document. A missing document is not an error.
func (x *TaskIndex) Delete(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: x.IndexName, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es delete: %s", res.Status())
	}
	return nil
}

// searchBody restricts matches to the owner with a term filter and ranks title above description.
func searchBody(userID, q string, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"filter": []any{
					map[string]any{"term": map[string]any{"userId.keyword": userID}},
				},
				"must": []any{
					map[string]any{"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"title^2", "description"},
					}},
				},
			},
		},
		"size": size,
	}
}

func (x *TaskIndex) Search(ctx context.Context, userID, q string, size int) ([]entity.Task, error) {
	b, err := json.Marshal(searchBody(userID, q, size))
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.ES.Search(x.ES.Search.WithContext(c), x.ES.Search.WithIndex(x.IndexName), x.ES.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	// Searching before the first write hits a missing index.
	if res.StatusCode == 404 {
		return []entity.Task{}, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source taskSource `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]entity.Task, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		// The filter already scopes by owner; this guards against a mapping without the keyword subfield.
		if h.Source.UserID != userID {
			continue
		}
		out = append(out, h.Source.task())
	}
	return out, nil
}
