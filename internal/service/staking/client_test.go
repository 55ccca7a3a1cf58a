package staking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllAPY(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/apy", r.URL.Path)
		_, _ = w.Write([]byte(`{"lsts":{"jupsol":{"apy":7.9},"msol":{"apy":null}},"updated_at":"2026-01-01"}`))
	}))
	defer srv.Close()

	got, err := New(srv.URL).AllAPY(context.Background())
	require.NoError(t, err)
	lsts := got["lsts"].(map[string]any)
	assert.Equal(t, 7.9, lsts["jupsol"].(map[string]any)["apy"])
	assert.Nil(t, lsts["msol"].(map[string]any)["apy"])
}

func TestTokenAPYLowercasesPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/apy/jupsol", r.URL.Path)
		_, _ = w.Write([]byte(`8.1`))
	}))
	defer srv.Close()

	got, err := New(srv.URL).TokenAPY(context.Background(), "JupSOL")
	require.NoError(t, err)
	assert.Equal(t, 8.1, got)
}

func TestUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := New(srv.URL).AllAPY(context.Background())
	assert.Error(t, err)
}

func TestNotConfigured(t *testing.T) {
	_, err := New("").TokenAPY(context.Background(), "jupsol")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
