package marketdata

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"defisim/internal/core"
)

//go:embed samples/*.json
var sampleFS embed.FS

var (
	sampleOnce sync.Once
	sampleSets map[Protocol][]core.Asset
	sampleErr  error
)

type samplePayload struct {
	Assets []core.Asset `json:"assets"`
}

func loadSamples() {
	files := map[Protocol]string{
		ProtocolAave:     "samples/aave.sample.json",
		ProtocolCompound: "samples/compound.sample.json",
	}

	sampleSets = make(map[Protocol][]core.Asset, len(files))
	for protocol, path := range files {
		data, err := sampleFS.ReadFile(path)
		if err != nil {
			sampleErr = fmt.Errorf("read sample set %s: %w", path, err)
			return
		}
		var payload samplePayload
		if err := json.Unmarshal(data, &payload); err != nil {
			sampleErr = fmt.Errorf("parse sample set %s: %w", path, err)
			return
		}
		for _, asset := range payload.Assets {
			if err := validateAsset(asset); err != nil {
				sampleErr = fmt.Errorf("sample set %s: %w", path, err)
				return
			}
		}
		sampleSets[protocol] = payload.Assets
	}
}

// LoadSample returns the bundled sample asset set for a protocol. The sets
// are parsed and validated once per process.
func LoadSample(protocol Protocol) (MarketData, error) {
	sampleOnce.Do(loadSamples)
	if sampleErr != nil {
		return MarketData{}, sampleErr
	}
	assets, ok := sampleSets[protocol]
	if !ok {
		return MarketData{}, fmt.Errorf("no sample data for protocol %q", protocol)
	}
	// Hand out a copy; callers must never see shared backing arrays.
	out := make([]core.Asset, len(assets))
	copy(out, assets)
	return MarketData{Protocol: protocol, Assets: out}, nil
}
