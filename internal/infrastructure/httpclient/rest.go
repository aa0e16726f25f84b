package httpclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"neo_wallet/internal/pkg/metrics"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// StatusError is a non-2xx answer of a REST service.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request to %s failed with status %d: %s", e.URL, e.StatusCode, e.Body)
}

// restClient is the fasthttp transport shared by the REST adapters.
type restClient struct {
	client  *fasthttp.Client
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger
	target  string
}

func newRestClient(target string, timeout time.Duration, limiter *rate.Limiter, logger *zap.Logger) *restClient {
	return &restClient{
		client:  &fasthttp.Client{Name: "neo_wallet"},
		timeout: timeout,
		limiter: limiter,
		logger:  logger,
		target:  target,
	}
}

// NewLimiter builds the shared request limiter. A non-positive rps disables limiting.
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

func (c *restClient) getJSON(ctx context.Context, method, requestURL string, out any) error {
	return c.do(ctx, method, fasthttp.MethodGet, requestURL, nil, out)
}

func (c *restClient) postJSON(ctx context.Context, method, requestURL string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body for %s: %w", requestURL, err)
	}
	return c.do(ctx, method, fasthttp.MethodPost, requestURL, payload, out)
}

func (c *restClient) do(ctx context.Context, method, httpMethod, requestURL string, payload []byte, out any) (err error) {
	started := time.Now()
	defer func() { metrics.ObserveRemoteCall(c.target, method, started, err) }()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	c.logger.Debug("Sending request", zap.String("method", httpMethod), zap.String("url", requestURL))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(httpMethod)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.SetContentType("application/json")
		req.SetBodyRaw(payload)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		c.logger.Error("Failed to execute request", zap.String("url", requestURL), zap.Error(err))
		return fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
	}

	rawBody := resp.Body()
	if status := resp.StatusCode(); status < 200 || status >= 300 {
		c.logger.Error("API request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", status),
			zap.ByteString("responseBody", rawBody))
		return &StatusError{URL: requestURL, StatusCode: status, Body: strings.TrimSpace(string(rawBody))}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(rawBody, out); err != nil {
		c.logger.Error("Failed to unmarshal response",
			zap.String("url", requestURL),
			zap.ByteString("responseBody", rawBody),
			zap.Error(err))
		return fmt.Errorf("failed to unmarshal response from %s: %w", requestURL, err)
	}
	return nil
}
