package providers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/stationmap/weather-proxy/internal/weather"
)

// newBreaker builds the per-provider circuit breaker. An open breaker fails
// fast without issuing the upstream call.
func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

var errNoHTTPClient = errors.New("http client not configured")

// doRequest executes exactly one HTTP attempt through the circuit breaker and
// classifies the outcome into the service error taxonomy. There are no
// retries: a failed upstream call surfaces to the caller immediately.
func doRequest(ctx context.Context, client *http.Client, cb *gobreaker.CircuitBreaker, req *http.Request) (*http.Response, error) {
	if client == nil {
		return nil, errNoHTTPClient
	}

	req = req.WithContext(ctx)

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, &weather.UpstreamStatusError{Status: resp.StatusCode}
		}
		return resp, nil
	})
	if err != nil {
		return nil, classify(err)
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return resp, nil
}

// classify maps transport and breaker errors onto the taxonomy the HTTP
// boundary understands.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return weather.ErrUpstreamTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return weather.ErrUpstreamTimeout
	}
	var statusErr *weather.UpstreamStatusError
	if errors.As(err, &statusErr) {
		return statusErr
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("circuit breaker open: %w", err)
	}
	return err
}

func floatPtr(v float64) *float64 {
	return &v
}
