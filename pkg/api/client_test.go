package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_Success(t *testing.T) {
	const source = "def main():\n    return None"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/analyze", r.URL.Path)
		assert.Equal(t, source, r.URL.Query().Get("test_func"))
		assert.Equal(t, "Bearer id-token-1", r.Header.Get("Authorization"))

		_, _ = w.Write([]byte("All 3 properties hold."))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 10*time.Second, nil)
	report, err := client.Analyze(context.Background(), "id-token-1", source)
	require.NoError(t, err)
	assert.Equal(t, "All 3 properties hold.", report)
}

func TestAnalyze_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "token expired", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 10*time.Second, nil)
	_, err := client.Analyze(context.Background(), "stale", "def f():\n    pass")
	require.Error(t, err)
	assert.True(t, IsAuthError(err), "401 should satisfy IsAuthError")
	assert.Contains(t, err.Error(), "401")
}

func TestAnalyze_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad function", http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 10*time.Second, nil)
	_, err := client.Analyze(context.Background(), "tok", "nope")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "4xx responses must not be retried")
	assert.False(t, IsAuthError(err))
}

func TestAnalyze_ServerErrorRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "temporary", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("report"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 30*time.Second, nil)
	report, err := client.Analyze(context.Background(), "tok", "def f():\n    pass")
	require.NoError(t, err)
	assert.Equal(t, "report", report)
	assert.Equal(t, int32(2), calls.Load())
}

func TestAnalyze_ErrorBodyTruncated(t *testing.T) {
	long := make([]byte, 4096)
	for i := range long {
		long[i] = 'x'
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write(long)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 10*time.Second, nil)
	_, err := client.Analyze(context.Background(), "tok", "def f():\n    pass")
	require.Error(t, err)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnprocessableEntity, se.StatusCode)
	assert.LessOrEqual(t, len(se.Body), 512)
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	client := NewClient("https://benchify.cloud/", time.Second, nil)
	assert.Equal(t, "https://benchify.cloud", client.baseURL)
}
