package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmcode/sns-qa/pkg/config"
	"github.com/helmcode/sns-qa/pkg/model"
)

func testRequest() *model.AnalysisRequest {
	return &model.AnalysisRequest{
		Platform: model.PlatformLinkedIn,
		Content:  "Great post!",
		Hashtags: []string{"#SNS Square", "#random"},
	}
}

func TestAnalyzeSendsRequest(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/analyze", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{"raw_json":{"overall_score":82}}`))
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL + "/"})
	body, err := c.Analyze(context.Background(), testRequest())
	require.NoError(t, err)
	assert.JSONEq(t, `{"raw_json":{"overall_score":82}}`, string(body))

	assert.Equal(t, "linkedin", got["platform"])
	assert.Equal(t, "Great post!", got["content"])
	assert.Equal(t, []any{"#SNS Square", "#random"}, got["hashtags"])
	for _, key := range []string{"title", "geo", "niche", "target_audience"} {
		v, present := got[key]
		assert.True(t, present, "%s must be sent as null", key)
		assert.Nil(t, v)
	}
}

func TestAnalyzeErrorDetail(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"detail string", http.StatusInternalServerError, `{"detail":"Model returned invalid JSON"}`, "Model returned invalid JSON"},
		{"detail list", http.StatusUnprocessableEntity, `{"detail":[{"msg":"field required"}]}`, GenericFailure},
		{"html body", http.StatusBadGateway, `<html>bad gateway</html>`, GenericFailure},
		{"empty detail", http.StatusBadRequest, `{"detail":""}`, GenericFailure},
		{"invalid json on success", http.StatusOK, `not json`, GenericFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New(Options{BaseURL: srv.URL}).Analyze(context.Background(), testRequest())
			require.Error(t, err)

			var te *TransportError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, tt.message, te.Message)
			assert.Equal(t, tt.status, te.StatusCode)
		})
	}
}

func TestAnalyzeTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond, MaxRetries: 3, RetryDelay: time.Millisecond})
	_, err := c.Analyze(context.Background(), testRequest())
	require.Error(t, err)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, GenericFailure, te.Message)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestAnalyzeRetriesNetworkErrorsOnly(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL, MaxRetries: 2, RetryDelay: time.Millisecond})
	_, err := c.Analyze(context.Background(), testRequest())
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	// Nothing listens on a closed server's address.
	closed := httptest.NewServer(http.NotFoundHandler())
	addr := closed.URL
	closed.Close()

	_, err = New(Options{BaseURL: addr, MaxRetries: 1, RetryDelay: time.Millisecond}).Analyze(context.Background(), testRequest())
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 0, te.StatusCode)
	assert.Equal(t, GenericFailure, te.Message)
}

func TestResolveBaseURL(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"", LocalDevOrigin},
		{"localhost", LocalDevOrigin},
		{"LOCALHOST:3000", LocalDevOrigin},
		{"127.0.0.1", LocalDevOrigin},
		{"[::1]:8080", LocalDevOrigin},
		{"app.localhost", LocalDevOrigin},
		{"http://localhost:5173", LocalDevOrigin},
		{"qa.snssquare.com", "https://qa.snssquare.com/api"},
		{"qa.snssquare.com:8443", "https://qa.snssquare.com:8443/api"},
		{"http://10.0.0.5:8080/anything", "http://10.0.0.5:8080/api"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveBaseURL(tt.host), tt.host)
	}
}

func TestFromConfig(t *testing.T) {
	c := FromConfig(&config.Config{Host: "qa.example.org", Timeout: time.Second}, nil)
	assert.Equal(t, "https://qa.example.org/api", c.BaseURL())

	c = FromConfig(&config.Config{Host: "qa.example.org", BaseURL: "http://override:9000/", Timeout: time.Second}, nil)
	assert.Equal(t, "http://override:9000", c.BaseURL())
}
