package dataset

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
	sampleDoc         = `{"baseTemperature":8.66,"monthlyVariance":[{"year":1753,"month":1,"variance":-1.366},{"year":1753,"month":2,"variance":-2.223}]}`
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClient_Fetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/global-temperature.json", r.URL.Path)
		assert.Equal(t, contentTypeJSON, r.Header.Get("Accept"))
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = io.WriteString(w, sampleDoc)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/global-temperature.json", 5*time.Second, discardLogger())
	ds, err := c.Fetch(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 8.66, ds.BaseTemperature, 1e-9)
	require.Len(t, ds.MonthlyVariance, 2)
	assert.Equal(t, "1753", ds.MonthlyVariance[0].Year.String())
	assert.Equal(t, "2", ds.MonthlyVariance[1].Month.String())
	assert.InDelta(t, -2.223, ds.MonthlyVariance[1].Variance, 1e-9)
}

func TestClient_Fetch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, "not found")
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, discardLogger())
	_, err := c.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestClient_Fetch_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = io.WriteString(w, "{not json")
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, discardLogger())
	_, err := c.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode dataset")
}

func TestClient_Fetch_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, sampleDoc)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(srv.URL, 5*time.Second, discardLogger())
	_, err := c.Fetch(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_String(t *testing.T) {
	c := NewClient("http://example.test/data.json", time.Second, discardLogger())
	assert.Equal(t, "http://example.test/data.json", c.String())
}

func TestFileSource_Fetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "temps.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleDoc), 0o600))

	ds, err := NewFileSource(path).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, ds.MonthlyVariance, 2)
	assert.Equal(t, path, NewFileSource(path).String())
}

func TestFileSource_Missing(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "nope.json")).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open dataset file")
}
