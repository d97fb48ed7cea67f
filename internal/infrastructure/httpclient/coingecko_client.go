package httpclient

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"portfolio_dashboard/internal/app/port"
	"portfolio_dashboard/internal/pkg/metrics"
	"portfolio_dashboard/internal/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const apiKeyHeader = "x-cg-demo-api-key"

// CoinGeckoOptions configures the CoinGecko client.
type CoinGeckoOptions struct {
	BaseURL          string
	APIKey           string
	Timeout          time.Duration
	MaxIDsPerRequest int
	// RateLimit is the number of requests per second; zero disables throttling.
	RateLimit float64
	Burst     int
}

// coinGeckoClientImpl implements port.PriceServiceClient against /simple/price.
type coinGeckoClientImpl struct {
	client           *fasthttp.Client
	baseURL          string
	apiKey           string
	timeout          time.Duration
	maxIDsPerRequest int
	limiter          *rate.Limiter
	logger           *zap.Logger
}

// NewCoinGeckoClient creates a new CoinGecko price client.
func NewCoinGeckoClient(opts CoinGeckoOptions, logger *zap.Logger) port.PriceServiceClient {
	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return &coinGeckoClientImpl{
		client:           &fasthttp.Client{},
		baseURL:          strings.TrimRight(opts.BaseURL, "/"),
		apiKey:           opts.APIKey,
		timeout:          opts.Timeout,
		maxIDsPerRequest: opts.MaxIDsPerRequest,
		limiter:          limiter,
		logger:           logger.Named("CoinGeckoClient"),
	}
}

// GetSimplePrices implements port.PriceServiceClient. Ids are requested in batches of
// maxIDsPerRequest; any failed batch fails the whole call.
func (c *coinGeckoClientImpl) GetSimplePrices(ctx context.Context, ids []string, vsCurrency string) (map[string]map[string]float64, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("ids cannot be empty")
	}

	result := make(map[string]map[string]float64, len(ids))
	for _, batch := range utils.BatchStrings(ids, c.maxIDsPerRequest) {
		prices, err := c.fetchBatch(ctx, batch, vsCurrency)
		if err != nil {
			return nil, err
		}
		for id, byCurrency := range prices {
			result[id] = byCurrency
		}
	}
	return result, nil
}

func (c *coinGeckoClientImpl) fetchBatch(ctx context.Context, ids []string, vsCurrency string) (map[string]map[string]float64, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	query := url.Values{}
	query.Set("ids", strings.Join(ids, ","))
	query.Set("vs_currencies", vsCurrency)
	requestURL := fmt.Sprintf("%s/simple/price?%s", c.baseURL, query.Encode())

	c.logger.Debug("Requesting prices from CoinGecko", zap.String("url", requestURL))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	start := time.Now()
	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		metrics.PriceServiceRequestDuration.WithLabelValues("transport_error").Observe(time.Since(start).Seconds())
		c.logger.Error("Failed to execute request to CoinGecko", zap.String("url", requestURL), zap.Error(err))
		return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
	}
	metrics.PriceServiceRequestDuration.WithLabelValues(fmt.Sprintf("%d", resp.StatusCode())).Observe(time.Since(start).Seconds())

	rawBody := resp.Body()
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		c.logger.Error("CoinGecko API request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody),
		)
		return nil, fmt.Errorf("HTTP error! status: %d", resp.StatusCode())
	}

	var prices map[string]map[string]float64
	if err := json.Unmarshal(rawBody, &prices); err != nil {
		c.logger.Error("Failed to unmarshal CoinGecko response",
			zap.String("url", requestURL),
			zap.ByteString("responseBody", rawBody),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to unmarshal CoinGecko response from %s: %w", requestURL, err)
	}
	if prices == nil {
		return nil, fmt.Errorf("CoinGecko response from %s is not an object", requestURL)
	}

	c.logger.Debug("Successfully unmarshalled CoinGecko response", zap.Int("idCount", len(prices)))
	return prices, nil
}
