package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	client := NewClient(&Options{})
	res, err := client.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "<html>ok</html>", res.HTML)
	assert.Contains(t, res.ContentType, "text/html")
}

func TestClient_GetCustomHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "custom-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "en-US", r.Header.Get("Accept-Language"))
	}))
	defer srv.Close()

	client := NewClient(&Options{
		UserAgent: "custom-agent",
		Headers:   map[string]string{"Accept-Language": "en-US"},
	})
	_, err := client.Get(context.Background(), srv.URL)
	require.NoError(t, err)
}

func TestClient_GetNon200ReturnsResultAndError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("gone"))
	}))
	defer srv.Close()

	client := NewClient(&Options{})
	res, err := client.Get(context.Background(), srv.URL)
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "gone", res.HTML)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, fetchErr.Message, "404")
}

func TestClient_GetInvalidURL(t *testing.T) {
	client := NewClient(&Options{})
	for _, bad := range []string{"", "not a url", "/relative/only"} {
		_, err := client.Get(context.Background(), bad)
		assert.Error(t, err, "url %q", bad)
	}
}

func TestThrottle_EnforcesDelayPerHost(t *testing.T) {
	th := NewThrottle(50 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, th.Wait(ctx, "a.example.com"))
	require.NoError(t, th.Wait(ctx, "a.example.com"))
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestThrottle_HostsAreIndependent(t *testing.T) {
	th := NewThrottle(100 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, th.Wait(ctx, "a.example.com"))
	start := time.Now()
	require.NoError(t, th.Wait(ctx, "b.example.com"))
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestThrottle_ZeroDelayNoOp(t *testing.T) {
	th := NewThrottle(0)
	start := time.Now()
	for i := 0; i < 10; i++ {
		require.NoError(t, th.Wait(context.Background(), "a.example.com"))
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestThrottle_WaitCancellable(t *testing.T) {
	th := NewThrottle(time.Minute)
	ctx := context.Background()
	require.NoError(t, th.Wait(ctx, "a.example.com"))

	cancelCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	err := th.Wait(cancelCtx, "a.example.com")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
