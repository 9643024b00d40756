// Package marketdata supplies priced, rated assets to the simulator: either
// a static bundled sample set keyed by protocol, or a live fetch with a
// bounded timeout that fails closed and falls back to the sample set.
package marketdata

import (
	"fmt"

	"defisim/internal/core"
)

// Protocol identifies a supported lending protocol.
type Protocol int

const (
	ProtocolAave Protocol = iota
	ProtocolCompound
)

// Protocols lists every supported protocol.
func Protocols() []Protocol {
	return []Protocol{ProtocolAave, ProtocolCompound}
}

// String returns the wire form of the protocol.
func (p Protocol) String() string {
	switch p {
	case ProtocolAave:
		return "aave"
	case ProtocolCompound:
		return "compound"
	default:
		return "unknown"
	}
}

// DisplayName returns the protocol name used in user-facing messages.
func (p Protocol) DisplayName() string {
	switch p {
	case ProtocolAave:
		return "Aave"
	case ProtocolCompound:
		return "Compound"
	default:
		return "Unknown"
	}
}

// ParseProtocol parses the wire form of a protocol.
func ParseProtocol(s string) (Protocol, error) {
	switch s {
	case "aave", "":
		return ProtocolAave, nil
	case "compound":
		return ProtocolCompound, nil
	default:
		return ProtocolAave, fmt.Errorf("invalid protocol: %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Protocol) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Protocol) UnmarshalText(data []byte) error {
	parsed, err := ParseProtocol(string(data))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MarketData is a protocol's asset universe.
type MarketData struct {
	Protocol Protocol     `json:"protocol"`
	Assets   []core.Asset `json:"assets"`
}

func validateAsset(a core.Asset) error {
	if a.ID == "" || a.Symbol == "" {
		return fmt.Errorf("asset %q: missing identity", a.Symbol)
	}
	if a.PriceUSD <= 0 {
		return fmt.Errorf("asset %q: priceUSD must be positive, got %v", a.Symbol, a.PriceUSD)
	}
	if a.InterestRate < 0 {
		return fmt.Errorf("asset %q: interestRate must be non-negative, got %v", a.Symbol, a.InterestRate)
	}
	if a.LiquidationThreshold <= 0 || a.LiquidationThreshold > 1 {
		return fmt.Errorf("asset %q: liquidationThreshold must be in (0,1], got %v", a.Symbol, a.LiquidationThreshold)
	}
	return nil
}
