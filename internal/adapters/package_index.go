package adapters

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"rtsi-fw/internal/ports"
	"rtsi-fw/internal/shared"
)

const DefaultPackageIndexURL = "https://pypi.org"

type httpRetryConfig struct {
	timeout   time.Duration
	retries   uint64
	baseDelay time.Duration
}

func defaultHTTPRetryConfig() httpRetryConfig {
	return httpRetryConfig{
		timeout:   10 * time.Second,
		retries:   3,
		baseDelay: 200 * time.Millisecond,
	}
}

// PackageIndexAdapter queries the JSON API of a PyPI compatible index.
type PackageIndexAdapter struct {
	BaseURL string
	client  *http.Client
	retry   httpRetryConfig
}

func NewPackageIndexAdapter(baseURL string) PackageIndexAdapter {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultPackageIndexURL
	}
	cfg := defaultHTTPRetryConfig()
	return PackageIndexAdapter{
		BaseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: cfg.timeout},
		retry:   cfg,
	}
}

// Exists is true only for a 200 answer.  404 is a definite "no"; server
// errors and rate limiting are retried with exponential backoff.
func (a PackageIndexAdapter) Exists(ctx context.Context, name string) (bool, error) {
	endpoint := a.BaseURL + "/pypi/" + url.PathEscape(name) + "/json"
	var found bool
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to create request").
				WithCause(err))
		}
		resp, err := a.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)

		switch {
		case resp.StatusCode == http.StatusOK:
			found = true
			return nil
		case resp.StatusCode == http.StatusNotFound:
			found = false
			return nil
		case resp.StatusCode >= http.StatusInternalServerError, resp.StatusCode == http.StatusTooManyRequests:
			return shared.HTTPStatusError(resp.StatusCode, endpoint)
		default:
			return backoff.Permanent(shared.HTTPStatusError(resp.StatusCode, endpoint))
		}
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = a.retry.baseDelay
	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, a.retry.retries), ctx))
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("package", name).Msg("package index lookup failed")
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("package index lookup failed").
			WithCause(err)
	}
	return found, nil
}

var _ ports.PackageIndexPort = PackageIndexAdapter{}
