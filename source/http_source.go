package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const DefaultBaseURL = "https://api.patron.com"

type HTTPSourceOptions struct {
	BaseURL string        `cfg:"baseURL" def:"https://api.patron.com"`
	APIKey  string        `cfg:"apiKey"`
	Path    string        `cfg:"path" validate:"required"`
	Timeout time.Duration `cfg:"timeout" def:"30s"`
	// Params 固定的查询参数，例如 series_id
	Params map[string]string `cfg:"params"`
}

// APIError 服务端返回的非 2xx 响应
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
	Code       string `json:"code"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error: status %d, code %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// HTTPSource 从 REST 接口读取行，只下推 limit/offset，接口返回行数组
type HTTPSource[T any] struct {
	client  *http.Client
	baseURL string
	apiKey  string
	path    string
	params  map[string]string
}

func NewHTTPSourceWithOptions[T any](options *HTTPSourceOptions) (*HTTPSource[T], error) {
	if options.Path == "" {
		return nil, errors.New("path is required")
	}

	baseURL := options.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, errors.Wrapf(err, "invalid baseURL %q", baseURL)
	}
	timeout := options.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &HTTPSource[T]{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  options.APIKey,
		path:    options.Path,
		params:  options.Params,
	}, nil
}

func (s *HTTPSource[T]) url(options *ListOptions) string {
	values := url.Values{}
	for k, v := range s.params {
		values.Set(k, v)
	}
	if options != nil {
		if options.Limit > 0 {
			values.Set("limit", strconv.Itoa(options.Limit))
		}
		if options.Offset > 0 {
			values.Set("offset", strconv.Itoa(options.Offset))
		}
	}

	u := s.baseURL + s.path
	if len(values) > 0 {
		u += "?" + values.Encode()
	}
	return u
}

func (s *HTTPSource[T]) List(ctx context.Context, options *ListOptions) ([]T, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url(options), nil)
	if err != nil {
		return nil, errors.Wrap(err, "http.NewRequest failed")
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	res, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s failed", s.path)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response body failed")
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: res.StatusCode}
		if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(body))
			if apiErr.Message == "" {
				apiErr.Message = http.StatusText(res.StatusCode)
			}
		}
		return nil, apiErr
	}

	var rows []T
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, errors.Wrap(err, "decode response failed")
	}
	return rows, nil
}

func (s *HTTPSource[T]) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
