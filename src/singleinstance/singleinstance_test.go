package singleinstance

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useFreePort points the port range at a single port nothing listens on.
func useFreePort(t *testing.T) int {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := lis.Addr().(*net.TCPAddr).Port
	require.NoError(t, lis.Close())
	t.Setenv("ROI_OVERLAY_PORT_START", strconv.Itoa(port))
	t.Setenv("ROI_OVERLAY_PORT_END", strconv.Itoa(port))
	return port
}

func startServer(t *testing.T, ctx context.Context) Server {
	t.Helper()
	useFreePort(t)
	srv := NewServer()
	if err := srv.Start(ctx); err != nil {
		t.Skipf("loopback listener unavailable in this environment: %v", err)
	}
	t.Cleanup(func() { _ = srv.Close() })
	return srv
}

func TestServerClientRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv := startServer(t, ctx)

	type result struct {
		found bool
		text  string
		err   error
	}
	done := make(chan result, 1)
	go func() {
		found, text, err := NewClient().Query(ctx, KindLast)
		done <- result{found, text, err}
	}()

	conn, err := srv.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, KindLast, conn.Request().Kind)
	require.NoError(t, conn.RespondSuccess("10,10,40,20"))
	require.NoError(t, conn.Close())

	got := <-done
	require.NoError(t, got.err)
	assert.True(t, got.found)
	assert.Equal(t, "10,10,40,20", got.text)
}

func TestServerErrorResponse(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv := startServer(t, ctx)

	errCh := make(chan error, 1)
	go func() {
		_, _, err := NewClient().Query(ctx, KindNext)
		errCh <- err
	}()

	conn, err := srv.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, KindNext, conn.Request().Kind)
	require.NoError(t, conn.RespondError("no selection yet"))
	require.NoError(t, conn.Close())

	err = <-errCh
	require.Error(t, err)
	assert.Equal(t, "no selection yet", err.Error())
}

func TestQueryGivesUpWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	startServer(t, ctx)

	qctx, qcancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer qcancel()
	found, _, err := NewClient().Query(qctx, KindNext)
	assert.True(t, found)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestQueryWithoutResident(t *testing.T) {
	useFreePort(t)
	found, text, err := NewClient().Query(context.Background(), KindLast)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, text)

	_, ok := DetectResidentPort(context.Background())
	assert.False(t, ok)
}

func TestDetectResidentPort(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv := startServer(t, ctx)

	port, ok := DetectResidentPort(ctx)
	assert.True(t, ok)
	assert.Equal(t, srv.Port(), port)
}

func TestGetPortRange(t *testing.T) {
	tests := []struct {
		name             string
		start, end       string
		wantStart, wantE int
	}{
		{"defaults", "", "", defaultPortStart, defaultPortEnd},
		{"custom", "50000", "50010", 50000, 50010},
		{"invalid falls back", "abc", "", defaultPortStart, defaultPortEnd},
		{"clamped low", "80", "2000", 1024, 2000},
		{"swapped", "3000", "2000", 2000, 3000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ROI_OVERLAY_PORT_START", tt.start)
			t.Setenv("ROI_OVERLAY_PORT_END", tt.end)
			start, end := getPortRange()
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantE, end)
		})
	}
}
