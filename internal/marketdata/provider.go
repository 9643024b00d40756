package marketdata

import (
	"context"

	"defisim/internal/core"
	"defisim/pkg/telemetry"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/fallback"
)

// Provider composes the live client with the bundled sample sets. Live
// failures never propagate to callers: a fallback policy substitutes the
// sample set and reports a notice so the UI can tell the user what
// happened. The numeric core only ever sees validated assets.
type Provider struct {
	live    *LiveClient
	logger  core.ILogger
	metrics *telemetry.MetricsHolder
}

// NewProvider creates a provider. live may be nil, in which case live
// requests are served from sample data with a notice.
func NewProvider(live *LiveClient, logger core.ILogger) *Provider {
	return &Provider{
		live:    live,
		logger:  logger.WithField("component", "marketdata_provider"),
		metrics: telemetry.GetGlobalMetrics(),
	}
}

// Assets returns the asset universe for a protocol. When live is false the
// sample set is served directly. When live is true the gateway is queried
// with the configured timeout; on any failure the sample set is substituted
// and a non-empty notice describes why. The returned error is non-nil only
// when the sample set itself is unusable.
func (p *Provider) Assets(ctx context.Context, protocol Protocol, live bool) (MarketData, string, error) {
	if !live || p.live == nil {
		p.metrics.RecordMarketDataRequest(ctx, protocol.String(), "sample")
		md, err := LoadSample(protocol)
		return md, "", err
	}

	p.metrics.RecordMarketDataRequest(ctx, protocol.String(), "live")

	var notice string
	fb := fallback.NewWithFunc(func(exec failsafe.Execution[MarketData]) (MarketData, error) {
		cause := exec.LastError()
		p.logger.Warn("Live market data unavailable, falling back to sample data",
			"protocol", protocol.String(), "error", cause)
		p.metrics.RecordMarketDataFallback(ctx, protocol.String())
		notice = "Live data unavailable, showing sample data. " + cause.Error()
		return LoadSample(protocol)
	})

	md, err := failsafe.With[MarketData](fb).Get(func() (MarketData, error) {
		return p.live.Fetch(ctx, protocol)
	})
	return md, notice, err
}
