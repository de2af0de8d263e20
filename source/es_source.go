package source

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/hatlonely/tablex/query"
	"github.com/pkg/errors"
)

type ESSourceOptions struct {
	Addresses  []string      `cfg:"addresses" def:"[\"http://localhost:9200\"]"`
	Username   string        `cfg:"username"`
	Password   string        `cfg:"password"`
	APIKey     string        `cfg:"apiKey"`
	Index      string        `cfg:"index" validate:"required"`
	Timeout    time.Duration `cfg:"timeout" def:"30s"`
	MaxRetries int           `cfg:"maxRetries" def:"3"`
}

// ESSource 从 elasticsearch 索引读取行，过滤条件由 Query.ToES 下推
type ESSource[T any] struct {
	client *elasticsearch.Client
	index  string
}

func NewESSourceWithOptions[T any](options *ESSourceOptions) (*ESSource[T], error) {
	if options.Index == "" {
		return nil, errors.New("index is required")
	}
	addresses := options.Addresses
	if len(addresses) == 0 {
		addresses = []string{"http://localhost:9200"}
	}
	timeout := options.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: addresses,
		Username:  options.Username,
		Password:  options.Password,
		APIKey:    options.APIKey,
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: timeout,
		},
		MaxRetries: options.MaxRetries,
	})
	if err != nil {
		return nil, errors.Wrap(err, "elasticsearch.NewClient failed")
	}

	res, err := client.Info()
	if err != nil {
		return nil, errors.Wrap(err, "elasticsearch.Info failed")
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, errors.Errorf("elasticsearch connection error: %s", res.String())
	}

	return &ESSource[T]{client: client, index: options.Index}, nil
}

func searchBody(options *ListOptions) (map[string]any, error) {
	body := map[string]any{
		"query": map[string]any{"match_all": map[string]any{}},
	}
	if options == nil {
		return body, nil
	}

	if options.Query != nil {
		body["query"] = options.Query.ToES()
	}
	if options.Limit > 0 {
		body["size"] = options.Limit
	}
	if options.Offset > 0 {
		body["from"] = options.Offset
	}
	if options.OrderBy != "" {
		if err := query.CheckField(options.OrderBy); err != nil {
			return nil, err
		}
		order := "asc"
		if options.OrderDesc {
			order = "desc"
		}
		body["sort"] = []map[string]any{
			{options.OrderBy: map[string]any{"order": order}},
		}
	}
	return body, nil
}

type searchResult[T any] struct {
	Hits struct {
		Hits []struct {
			ID     string `json:"_id"`
			Source T      `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s *ESSource[T]) List(ctx context.Context, options *ListOptions) ([]T, error) {
	body, err := searchBody(options)
	if err != nil {
		return nil, err
	}
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "marshal search body failed")
	}

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(buf),
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, errors.Wrap(err, "elasticsearch.Search failed")
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, errors.Errorf("search error: %s", res.String())
	}

	var result searchResult[T]
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, errors.Wrap(err, "decode search result failed")
	}

	rows := make([]T, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		rows = append(rows, hit.Source)
	}
	return rows, nil
}

func (s *ESSource[T]) Close() error {
	return nil
}
