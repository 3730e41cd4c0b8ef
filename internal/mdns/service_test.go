package mdns

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstants(t *testing.T) {
	assert.Equal(t, "_libris._tcp", ServiceType)
	assert.Equal(t, "v1", APIVersion)
	assert.NotEmpty(t, ServerVersion)
}

func TestNewService(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	service := NewService(logger)

	require.NotNil(t, service)
	assert.Nil(t, service.server, "server should be nil before Start")
}

func TestServiceStop(t *testing.T) {
	t.Run("stop when not started is safe", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
		service := NewService(logger)

		service.Stop()
		assert.Nil(t, service.server)
	})

	t.Run("stop can be called multiple times", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
		service := NewService(logger)

		service.Stop()
		service.Stop()
		service.Stop()
	})
}

func TestServiceStart(t *testing.T) {
	// mDNS may fail in environments without multicast support
	// (Docker containers, CI without network access).

	t.Run("start with name succeeds", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		service := NewService(logger)

		err := service.Start("Test Catalogue", 8080)
		if err != nil {
			t.Logf("mDNS start failed (expected in some environments): %v", err)
			return
		}

		assert.NotNil(t, service.server)
		assert.Contains(t, buf.String(), "mDNS advertisement started")
		service.Stop()
	})

	t.Run("start can restart existing server", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
		service := NewService(logger)

		if err := service.Start("Restart Test", 8080); err != nil {
			t.Skipf("mDNS not available in this environment: %v", err)
		}

		err := service.Start("Restart Test", 8081)
		require.NoError(t, err)
		assert.NotNil(t, service.server)

		service.Stop()
	})
}

func TestServiceLifecycle(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	service := NewService(logger)
	require.NotNil(t, service)

	if err := service.Start("Lifecycle Test", 8080); err != nil {
		t.Skipf("mDNS not available: %v", err)
	}
	assert.NotNil(t, service.server)

	service.Stop()
	assert.Nil(t, service.server)
	assert.Contains(t, buf.String(), "mDNS advertisement stopped")
}

func TestServiceConcurrency(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	service := NewService(logger)

	if err := service.Start("Concurrent Test", 8080); err != nil {
		t.Skipf("mDNS not available: %v", err)
	}

	done := make(chan struct{})
	for range 10 {
		go func() {
			service.Stop()
			done <- struct{}{}
		}()
	}
	for range 10 {
		<-done
	}

	assert.Nil(t, service.server)
}
