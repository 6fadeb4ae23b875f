package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/helmcode/sns-qa/pkg/logging"
	"github.com/helmcode/sns-qa/pkg/model"
)

// GenericFailure is shown when the service gives no usable error detail.
const GenericFailure = "Analysis failed. Please try again."

const maxBodyBytes = 10 << 20

// TransportError covers network failures, timeouts, non-2xx statuses and
// bodies that are not JSON. Message is safe to show to the user.
type TransportError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

func (e *TransportError) Unwrap() error { return e.Err }

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	HTTPClient *http.Client
	Logger     *logrus.Logger
}

// Client posts analysis requests to the QA service.
type Client struct {
	baseURL  string
	timeout  time.Duration
	http     *http.Client
	executor failsafe.Executor[*http.Response]
	logger   *logrus.Logger
}

func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 500 * time.Millisecond
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	return &Client{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		timeout:  opts.Timeout,
		http:     opts.HTTPClient,
		executor: failsafe.With[*http.Response](newRetryPolicy(opts.MaxRetries, opts.RetryDelay)),
		logger:   opts.Logger,
	}
}

// newRetryPolicy retries network errors only. A response, even a 5xx, is
// final so that its body can still be read for an error detail.
//
//nolint:bodyclose // *http.Response is a type parameter here
func newRetryPolicy(maxRetries int, delay time.Duration) retrypolicy.RetryPolicy[*http.Response] {
	return retrypolicy.NewBuilder[*http.Response]().
		HandleIf(func(_ *http.Response, err error) bool {
			return err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
		}).
		WithBackoff(delay, 10*delay).
		WithMaxRetries(maxRetries).
		ReturnLastFailure().
		Build()
}

// BaseURL returns the origin requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Analyze sends req to {base}/analyze and returns the raw JSON body.
func (c *Client) Analyze(ctx context.Context, req *model.AnalysisRequest) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := c.baseURL + "/analyze"
	start := time.Now()
	attempt := 0

	resp, err := c.executor.WithContext(ctx).Get(func() (*http.Response, error) {
		attempt++
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Accept", "application/json")

		c.logger.WithFields(logrus.Fields{"url": url, "attempt": attempt}).Debug("sending analysis request")
		return c.http.Do(httpReq)
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = errors.Join(ctxErr, err)
		}
		c.logger.WithFields(logrus.Fields{
			"url":     url,
			"attempt": attempt,
			"elapsed": time.Since(start),
		}).WithError(err).Debug("analysis request failed")
		return nil, &TransportError{Message: GenericFailure, Err: err}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Message: GenericFailure, Err: fmt.Errorf("read response: %w", err)}
	}

	c.logger.WithFields(logrus.Fields{
		"url":     url,
		"status":  resp.StatusCode,
		"bytes":   len(respBytes),
		"elapsed": time.Since(start),
	}).Debug("analysis response received")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{
			StatusCode: resp.StatusCode,
			Message:    errorDetail(respBytes),
			Err:        fmt.Errorf("service returned status %d", resp.StatusCode),
		}
	}
	if !gjson.ValidBytes(respBytes) {
		return nil, &TransportError{
			StatusCode: resp.StatusCode,
			Message:    GenericFailure,
			Err:        errors.New("response body is not valid JSON"),
		}
	}
	return respBytes, nil
}

// errorDetail pulls the "detail" string out of an error body.
func errorDetail(body []byte) string {
	if !gjson.ValidBytes(body) {
		return GenericFailure
	}
	detail := gjson.GetBytes(body, "detail")
	if detail.Type != gjson.String || strings.TrimSpace(detail.Str) == "" {
		return GenericFailure
	}
	return detail.Str
}
