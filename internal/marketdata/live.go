package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"defisim/internal/core"
	apperrors "defisim/pkg/errors"
	httpclient "defisim/pkg/http"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// DefaultLiveTimeout bounds a live fetch before failing over to sample data.
const DefaultLiveTimeout = 10 * time.Second

// LiveClient fetches market data from protocol gateway APIs. It fails
// closed: any timeout, connectivity problem, bad status, or unparseable
// payload surfaces as a taxonomy error and never as fabricated data.
type LiveClient struct {
	http      *httpclient.Client
	limiter   *rate.Limiter
	endpoints map[Protocol]string
	timeout   time.Duration
	logger    core.ILogger
}

// NewLiveClient creates a live market data client. endpoints maps each
// protocol to its gateway URL; a zero timeout uses DefaultLiveTimeout.
func NewLiveClient(endpoints map[Protocol]string, timeout time.Duration, logger core.ILogger) *LiveClient {
	if timeout <= 0 {
		timeout = DefaultLiveTimeout
	}
	return &LiveClient{
		http:      httpclient.NewClient(timeout),
		limiter:   rate.NewLimiter(rate.Every(time.Second), 5),
		endpoints: endpoints,
		timeout:   timeout,
		logger:    logger.WithField("component", "marketdata_live"),
	}
}

// liveAsset mirrors the gateway payload, which encodes numeric fields as
// strings to avoid float truncation in transit.
type liveAsset struct {
	ID                   string `json:"id"`
	Symbol               string `json:"symbol"`
	Name                 string `json:"name"`
	PriceUSD             string `json:"priceUSD"`
	InterestRate         string `json:"interestRate"`
	LiquidationThreshold string `json:"liquidationThreshold"`
}

type livePayload struct {
	Assets []liveAsset `json:"assets"`
}

// Fetch retrieves and validates the live asset universe for a protocol.
func (c *LiveClient) Fetch(ctx context.Context, protocol Protocol) (MarketData, error) {
	endpoint, ok := c.endpoints[protocol]
	if !ok || endpoint == "" {
		return MarketData{}, fmt.Errorf("%w: no live endpoint configured for %s",
			apperrors.ErrNetwork, protocol.DisplayName())
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return MarketData{}, fmt.Errorf("%w: rate limiter interrupted: %v", apperrors.ErrNetwork, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := c.http.Get(ctx, endpoint, nil)
	if err != nil {
		return MarketData{}, c.classifyTransportError(protocol, err)
	}

	if len(body) == 0 {
		return MarketData{}, fmt.Errorf("%w: %s API responded with no content; please use sample data mode",
			apperrors.ErrEmptyPayload, protocol.DisplayName())
	}

	var payload livePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return MarketData{}, fmt.Errorf("%w: the %s response could not be parsed; please use sample data mode",
			apperrors.ErrUnparseable, protocol.DisplayName())
	}
	if len(payload.Assets) == 0 {
		return MarketData{}, fmt.Errorf("%w: the %s response listed no assets; please use sample data mode",
			apperrors.ErrEmptyPayload, protocol.DisplayName())
	}

	assets := make([]core.Asset, 0, len(payload.Assets))
	for _, raw := range payload.Assets {
		asset, err := convertLiveAsset(raw)
		if err != nil {
			return MarketData{}, fmt.Errorf("%w: %v", apperrors.ErrUnparseable, err)
		}
		assets = append(assets, asset)
	}

	return MarketData{Protocol: protocol, Assets: assets}, nil
}

func convertLiveAsset(raw liveAsset) (core.Asset, error) {
	price, err := decimal.NewFromString(raw.PriceUSD)
	if err != nil {
		return core.Asset{}, fmt.Errorf("asset %q: bad priceUSD %q", raw.Symbol, raw.PriceUSD)
	}
	interestRate, err := decimal.NewFromString(raw.InterestRate)
	if err != nil {
		return core.Asset{}, fmt.Errorf("asset %q: bad interestRate %q", raw.Symbol, raw.InterestRate)
	}
	threshold, err := decimal.NewFromString(raw.LiquidationThreshold)
	if err != nil {
		return core.Asset{}, fmt.Errorf("asset %q: bad liquidationThreshold %q", raw.Symbol, raw.LiquidationThreshold)
	}

	asset := core.Asset{
		ID:                   raw.ID,
		Symbol:               raw.Symbol,
		Name:                 raw.Name,
		PriceUSD:             price.InexactFloat64(),
		InterestRate:         interestRate.InexactFloat64(),
		LiquidationThreshold: threshold.InexactFloat64(),
	}
	if err := validateAsset(asset); err != nil {
		return core.Asset{}, err
	}
	return asset, nil
}

func (c *LiveClient) classifyTransportError(protocol Protocol, err error) error {
	name := protocol.DisplayName()

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%w: the %s API did not respond within %s; please use sample data mode",
			apperrors.ErrTimeout, name, c.timeout)
	default:
	}

	var apiErr *httpclient.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: the %s API returned status %d; please use sample data mode",
			apperrors.ErrBadStatus, name, apiErr.StatusCode)
	}

	return fmt.Errorf("%w: could not reach the %s API; check your connection or use sample data mode",
		apperrors.ErrNetwork, name)
}
