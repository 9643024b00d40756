package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_SampleMode(t *testing.T) {
	provider := NewProvider(nil, &testLogger{})

	md, notice, err := provider.Assets(context.Background(), ProtocolAave, false)
	require.NoError(t, err)
	assert.Empty(t, notice)
	assert.Equal(t, ProtocolAave, md.Protocol)
	assert.NotEmpty(t, md.Assets)
}

func TestProvider_LiveModeWithoutClientFallsBack(t *testing.T) {
	provider := NewProvider(nil, &testLogger{})

	md, notice, err := provider.Assets(context.Background(), ProtocolCompound, true)
	require.NoError(t, err)
	assert.Empty(t, notice, "nil client serves samples directly")
	assert.NotEmpty(t, md.Assets)
}

func TestProvider_LiveSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(validLivePayload))
	}))
	defer server.Close()

	live := newLiveTestClient(server.URL, 2*time.Second)
	provider := NewProvider(live, &testLogger{})

	md, notice, err := provider.Assets(context.Background(), ProtocolAave, true)
	require.NoError(t, err)
	assert.Empty(t, notice)
	require.Len(t, md.Assets, 2)
	assert.Equal(t, "ETH", md.Assets[0].Symbol)
}

func TestProvider_LiveFailureFallsBackWithNotice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	live := newLiveTestClient(server.URL, 2*time.Second)
	provider := NewProvider(live, &testLogger{})

	md, notice, err := provider.Assets(context.Background(), ProtocolAave, true)
	require.NoError(t, err, "fallback must absorb the live failure")
	assert.NotEmpty(t, md.Assets, "sample data substituted")
	assert.Contains(t, notice, "Live data unavailable")
	assert.Contains(t, notice, "sample data")
}

func TestProvider_UnconfiguredProtocolFallsBack(t *testing.T) {
	live := NewLiveClient(nil, time.Second, &testLogger{})
	provider := NewProvider(live, &testLogger{})

	md, notice, err := provider.Assets(context.Background(), ProtocolCompound, true)
	require.NoError(t, err)
	assert.NotEmpty(t, md.Assets)
	assert.Contains(t, notice, "Live data unavailable")
}
