// Package news fetches top headlines from a NewsAPI-compatible endpoint.
//
// Failures never reach callers: any transport, status or decoding problem is
// logged and reported as an empty result. A circuit breaker sits in front of
// the endpoint so a dead upstream shows up as state transitions in the logs
// and stops being called for a while. Nothing is retried or cached.
package news

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"newsdesk/internal/domain"
)

const (
	DefaultBaseURL = "https://newsapi.org/v2/top-headlines"
	DefaultCountry = "us"
)

// Fetcher returns headlines for an optional category and a country.
type Fetcher interface {
	Fetch(ctx context.Context, category, country string) []domain.Headline
}

type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Logger     *logrus.Logger
	// Breaker settings; zero values pick the defaults below.
	MaxFailures  uint32
	BreakerReset time.Duration
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *logrus.Logger
	breaker *gobreaker.CircuitBreaker
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if cfg.BreakerReset == 0 {
		cfg.BreakerReset = 30 * time.Second
	}

	log := cfg.Logger
	c := &Client{
		baseURL: cfg.BaseURL,
		apiKey:  strings.TrimSpace(cfg.APIKey),
		http:    cfg.HTTPClient,
		log:     log,
	}
	maxFailures := cfg.MaxFailures
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "headlines",
		MaxRequests: 1,
		Timeout:     cfg.BreakerReset,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{"breaker": name, "from": from.String(), "to": to.String()}).
				Warn("headline circuit breaker state changed")
		},
	})

	if c.apiKey == "" {
		log.Warn("news api key is not configured; external headlines are disabled")
	}
	return c
}

// Fetch returns the headlines for category (empty for all) and country
// (empty for DefaultCountry). The result is never nil.
func (c *Client) Fetch(ctx context.Context, category, country string) []domain.Headline {
	if c.apiKey == "" {
		return []domain.Headline{}
	}
	if country == "" {
		country = DefaultCountry
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, category, country)
	})
	if err != nil {
		c.log.WithError(err).WithFields(logrus.Fields{
			"category": category,
			"country":  country,
			"breaker":  c.breaker.State().String(),
		}).Warn("fetch headlines failed")
		return []domain.Headline{}
	}
	return out.([]domain.Headline)
}

func (c *Client) fetch(ctx context.Context, category, country string) ([]domain.Headline, error) {
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}
	q := endpoint.Query()
	q.Set("apiKey", c.apiKey)
	q.Set("country", country)
	if category != "" {
		q.Set("category", category)
	}
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request headlines")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payload topHeadlinesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "decode headlines")
	}
	if payload.Status != "ok" {
		return nil, errors.Errorf("api status %q: %s %s", payload.Status, payload.Code, payload.Message)
	}

	headlines := make([]domain.Headline, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		headlines = append(headlines, a.toDomain())
	}
	return headlines, nil
}

type topHeadlinesResponse struct {
	Status       string            `json:"status"`
	Code         string            `json:"code"`
	Message      string            `json:"message"`
	TotalResults int               `json:"totalResults"`
	Articles     []headlinePayload `json:"articles"`
}

type headlinePayload struct {
	Source struct {
		ID   *string `json:"id"`
		Name string  `json:"name"`
	} `json:"source"`
	Author      *string    `json:"author"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	URL         string     `json:"url"`
	URLToImage  *string    `json:"urlToImage"`
	PublishedAt *time.Time `json:"publishedAt"`
	Content     *string    `json:"content"`
}

func (p headlinePayload) toDomain() domain.Headline {
	return domain.Headline{
		Source: domain.HeadlineSource{
			ID:   deref(p.Source.ID),
			Name: p.Source.Name,
		},
		Author:      deref(p.Author),
		Title:       p.Title,
		Description: deref(p.Description),
		URL:         p.URL,
		ImageURL:    deref(p.URLToImage),
		Content:     deref(p.Content),
		PublishedAt: p.PublishedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ Fetcher = (*Client)(nil)
