// Package catalog looks up plant species in the Perenual catalog and turns
// them into draft plants.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the Perenual v2 API root.
const DefaultBaseURL = "https://perenual.com/api/v2"

// DefaultTimeout bounds a single lookup.
const DefaultTimeout = 10 * time.Second

// Record is a species entry as the rest of the app sees it.
type Record struct {
	ID               int64
	CommonName       string
	Family           string
	ScientificNames  []string
	WateringLabel    string
	FertilizingLabel string
	RepottingLabel   string
	ImageURL         string
}

// Service finds species matching a free-text query, best match first.
type Service interface {
	Search(ctx context.Context, query string) ([]Record, error)
}

// Client talks to the Perenual species-list endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

// New creates a Client. A zero timeout selects DefaultTimeout.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

var _ Service = (*Client)(nil)

// speciesListResponse mirrors GET /species-list.
type speciesListResponse struct {
	Data []species `json:"data"`
}

type species struct {
	ID             int64         `json:"id"`
	CommonName     string        `json:"common_name"`
	Watering       string        `json:"watering"`
	ScientificName []string      `json:"scientific_name"`
	OtherName      []string      `json:"other_name"`
	Family         *string       `json:"family"`
	Cultivar       *string       `json:"cultivar"`
	Genus          string        `json:"genus"`
	DefaultImage   *defaultImage `json:"default_image"`
}

type defaultImage struct {
	OriginalURL string `json:"original_url"`
	RegularURL  string `json:"regular_url"`
	Thumbnail   string `json:"thumbnail"`
}

// Search queries the catalog. Transport errors and non-2xx responses are
// returned as errors; an empty result is not an error.
func (c *Client) Search(ctx context.Context, query string) ([]Record, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("q", query)
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/species-list?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searching species %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("search %q: unexpected status %d", query, resp.StatusCode)
	}

	var body speciesListResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	records := make([]Record, 0, len(body.Data))
	for _, s := range body.Data {
		records = append(records, s.record())
	}
	return records, nil
}

func (s species) record() Record {
	r := Record{
		ID:               s.ID,
		CommonName:       s.CommonName,
		ScientificNames:  s.ScientificName,
		WateringLabel:    s.Watering,
		FertilizingLabel: deref(s.Cultivar),
		RepottingLabel:   repottingLabel(s),
		Family:           deref(s.Family),
	}
	if s.DefaultImage != nil {
		r.ImageURL = s.DefaultImage.OriginalURL
	}
	return r
}

// repottingLabel picks the field repotting intervals are derived from. The
// catalog has no repotting frequency, so the watering label stands in.
func repottingLabel(s species) string {
	return s.Watering
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
