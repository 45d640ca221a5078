package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"starpost/pkg/logger"
)

func newTestVerifier() *Verifier {
	v := NewVerifier(logger.NewNop())
	v.Delay = 0
	return v
}

func TestWaitReachableSucceedsImmediately(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.True(t, newTestVerifier().WaitReachable(context.Background(), srv.URL))
}

func TestWaitReachableRetriesUntilServable(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.True(t, newTestVerifier().WaitReachable(context.Background(), srv.URL))
	require.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestWaitReachableGivesUpAfterAttempts(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	v := newTestVerifier()
	v.Attempts = 3
	require.False(t, v.WaitReachable(context.Background(), srv.URL))
	require.Equal(t, int32(3), atomic.LoadInt32(&hits))
}
