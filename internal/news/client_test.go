package news

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const okBody = `{
  "status": "ok",
  "totalResults": 2,
  "articles": [
    {"source": {"id": null, "name": "Wire"}, "author": null, "title": "First", "description": "d1",
     "url": "https://example.com/1", "urlToImage": "https://example.com/1.png",
     "publishedAt": "2024-05-01T10:00:00Z", "content": null},
    {"source": {"id": "bbc", "name": "BBC"}, "author": "Jane", "title": "Second", "description": null,
     "url": "https://example.com/2", "urlToImage": null, "publishedAt": null, "content": "body"}
  ]
}`

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestFetch_Success(t *testing.T) {
	var gotQuery atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query())
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, okBody)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "k", Logger: quietLogger()})
	got := c.Fetch(context.Background(), "", "")

	require.Len(t, got, 2)
	assert.Equal(t, "First", got[0].Title)
	assert.Equal(t, "Wire", got[0].Source.Name)
	assert.Equal(t, "https://example.com/1.png", got[0].ImageURL)
	require.NotNil(t, got[0].PublishedAt)
	assert.True(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC).Equal(*got[0].PublishedAt))
	assert.Equal(t, "bbc", got[1].Source.ID)
	assert.Equal(t, "Jane", got[1].Author)
	assert.Nil(t, got[1].PublishedAt)

	q := gotQuery.Load().(url.Values)
	assert.Equal(t, []string{"k"}, q["apiKey"])
	assert.Equal(t, []string{"us"}, q["country"])
	_, hasCategory := q["category"]
	assert.False(t, hasCategory)
}

func TestFetch_PassesCategoryAndCountry(t *testing.T) {
	var gotQuery atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query())
		_, _ = io.WriteString(w, `{"status":"ok","articles":[]}`)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "k", Logger: quietLogger()})
	got := c.Fetch(context.Background(), "technology", "gb")
	assert.NotNil(t, got)
	assert.Empty(t, got)

	q := gotQuery.Load().(url.Values)
	assert.Equal(t, []string{"technology"}, q["category"])
	assert.Equal(t, []string{"gb"}, q["country"])
}

func TestFetch_FailuresYieldEmpty(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"unauthorized": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"status":"error","code":"apiKeyInvalid","message":"bad key"}`)
		},
		"bad json": func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"status":`)
		},
		"api error status": func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"status":"error","code":"rateLimited","message":"slow down"}`)
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()

			c := NewClient(Config{BaseURL: srv.URL, APIKey: "k", Logger: quietLogger()})
			got := c.Fetch(context.Background(), "business", "us")
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestFetch_UnreachableYieldsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c := NewClient(Config{BaseURL: addr, APIKey: "k", Logger: quietLogger()})
	got := c.Fetch(context.Background(), "", "us")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFetch_MissingAPIKeySkipsRequest(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = io.WriteString(w, okBody)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Logger: quietLogger()})
	got := c.Fetch(context.Background(), "", "")
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Zero(t, calls.Load())
}

func TestFetch_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "k", Logger: quietLogger(), MaxFailures: 3, BreakerReset: time.Hour})
	for i := 0; i < 5; i++ {
		assert.Empty(t, c.Fetch(context.Background(), "", "us"))
	}
	assert.Equal(t, int32(3), calls.Load(), "open breaker short-circuits without calling upstream")
}

func TestNewClient_DefaultTransportHasNoTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = io.WriteString(w, okBody)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "k", Logger: quietLogger()})
	assert.Zero(t, c.http.Timeout)

	got := c.Fetch(context.Background(), "", "us")
	assert.Len(t, got, 2)
}
