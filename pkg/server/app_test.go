package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"YieldSense/pkg/config"
	xhttp "YieldSense/pkg/http"
	applogger "YieldSense/pkg/logger"
)

func TestRunContextStopsOnCancel(t *testing.T) {
	cfg := config.Default()
	l := applogger.Nop()
	srv := xhttp.NewServer(nil, l, xhttp.WithHost("127.0.0.1"), xhttp.WithPort(0), xhttp.WithMetricsPath(""))
	app := New(cfg, l, srv, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- app.RunContext(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}
