package mockserver

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_StartStop(t *testing.T) {
	h, err := NewHandler(nil)
	require.NoError(t, err)
	s := NewServer("127.0.0.1:0", h, nil)

	require.NoError(t, s.Start())
	assert.Error(t, s.Start(), "already running")

	resp, err := http.Get(s.URL() + HealthPath)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop(), "stop is idempotent")
}

func TestServer_Run(t *testing.T) {
	h, err := NewHandler(nil)
	require.NoError(t, err)
	s := NewServer("127.0.0.1:0", h, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get(s.URL() + HealthPath)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("Run did not return")
	}
}

func TestServer_ListenError(t *testing.T) {
	s := NewServer("256.0.0.1:0", http.NotFoundHandler(), nil)
	assert.Error(t, s.Start())
}
