package ticker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"YieldSense/internal/domain/models"
)

type countingResolver struct{ calls atomic.Int64 }

func (r *countingResolver) Resolve(_ context.Context, t models.TokenSymbol, _ *float64) models.PricePoint {
	r.calls.Add(1)
	if t == models.TokenSOL {
		return models.PricePoint{Symbol: t, USD: 150, Source: models.SourceDexScreener}
	}
	return models.PricePoint{Symbol: t, Source: models.SourceUnresolved}
}

func TestHubIdleWithoutClients(t *testing.T) {
	res := &countingResolver{}
	h := New(res, WithInterval(10*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	h.Run(ctx)

	assert.Zero(t, res.calls.Load())
}

func TestHubBroadcastsToClient(t *testing.T) {
	res := &countingResolver{}
	h := New(res, WithInterval(20*time.Millisecond))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = h.ServeWS(w, r)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for i := 0; i < 2; i++ {
		var tick struct {
			Type   string              `json:"type"`
			Prices map[string]*float64 `json:"prices"`
			TS     int64               `json:"ts"`
		}
		require.NoError(t, conn.ReadJSON(&tick))
		assert.Equal(t, "prices", tick.Type)
		require.NotNil(t, tick.Prices["sol"])
		assert.Equal(t, 150.0, *tick.Prices["sol"])
		assert.Equal(t, 0.0, *tick.Prices["usdc"])
		assert.Len(t, tick.Prices, len(models.SupportedTokens))
	}
	assert.Equal(t, 1, h.Clients())
}
