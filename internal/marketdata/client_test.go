package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comparia/comparia/internal/model"
)

func TestHTTPClient_SearchWrappedPayload(t *testing.T) {
	var gotQuery, gotScope, gotAgent string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/search", r.URL.Path)
		gotQuery = r.URL.Query().Get("q")
		gotScope = r.URL.Query().Get("scope")
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"listings":[{"id":"a1","title":"Omega","price":4200},{"id":"a2","price":3800}]}`))
	}))
	defer ts.Close()

	client, err := NewHTTPClient(HTTPOptions{
		BaseURL:           ts.URL,
		UserAgent:         "Comparia/0.3 (test)",
		RequestsPerSecond: 100,
		Burst:             10,
	})
	require.NoError(t, err)

	got, err := client.Search(context.Background(), "armbandsur omega", model.ScopeEnded)
	require.NoError(t, err)

	assert.Equal(t, "armbandsur omega", gotQuery)
	assert.Equal(t, "ended", gotScope)
	assert.Equal(t, "Comparia/0.3 (test)", gotAgent)
	require.Len(t, got, 2)
	assert.Equal(t, 4200, got[0].Price)
}

func TestHTTPClient_SearchBareArrayPayload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"b1","estimate":5000,"bids":3,"reserve_met":true}]`))
	}))
	defer ts.Close()

	client, err := NewHTTPClient(HTTPOptions{BaseURL: ts.URL, RequestsPerSecond: 100})
	require.NoError(t, err)

	got, err := client.Search(context.Background(), "armbandsur", model.ScopeLive)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 5000, got[0].Estimate)
	assert.True(t, got[0].ReserveMet)
}

func TestHTTPClient_EmptyResultIsNotAnError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"listings":[]}`))
	}))
	defer ts.Close()

	client, err := NewHTTPClient(HTTPOptions{BaseURL: ts.URL, RequestsPerSecond: 100})
	require.NoError(t, err)

	got, err := client.Search(context.Background(), "obskyr sökning", model.ScopeEnded)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHTTPClient_ServerErrorSurfaces(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer ts.Close()

	client, err := NewHTTPClient(HTTPOptions{BaseURL: ts.URL, RequestsPerSecond: 100})
	require.NoError(t, err)

	_, err = client.Search(context.Background(), "mynt", model.ScopeEnded)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestHTTPClient_MalformedPayload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer ts.Close()

	client, err := NewHTTPClient(HTTPOptions{BaseURL: ts.URL, RequestsPerSecond: 100})
	require.NoError(t, err)

	_, err = client.Search(context.Background(), "mynt", model.ScopeEnded)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse search payload")
}

func TestHTTPClient_RespectsRobots(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = w.Write([]byte("User-agent: *\nDisallow: /api\n"))
			return
		}
		t.Errorf("search endpoint reached despite robots.txt disallow: %s", r.URL.Path)
	}))
	defer ts.Close()

	client, err := NewHTTPClient(HTTPOptions{
		BaseURL:           ts.URL,
		RespectRobots:     true,
		RequestsPerSecond: 100,
	})
	require.NoError(t, err)

	_, err = client.Search(context.Background(), "mynt", model.ScopeEnded)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "robots.txt")
}

func TestHTTPClient_RequiresBaseURL(t *testing.T) {
	_, err := NewHTTPClient(HTTPOptions{})
	require.Error(t, err)
}

func TestMockClient_Deterministic(t *testing.T) {
	a := NewMockClient(42)
	b := NewMockClient(42)

	la, err := a.Search(context.Background(), "armbandsur omega", model.ScopeEnded)
	require.NoError(t, err)
	lb, err := b.Search(context.Background(), "armbandsur omega", model.ScopeEnded)
	require.NoError(t, err)

	assert.Equal(t, la, lb)
	assert.NotEmpty(t, la)
}

func TestMockClient_SpecificQueriesComeUpEmpty(t *testing.T) {
	m := NewMockClient(42)

	got, err := m.Search(context.Background(), `armbandsur omega stål "1970-tal"`, model.ScopeEnded)
	require.NoError(t, err)
	assert.Empty(t, got, "4-word query should force the relaxation ladder")

	got, err = m.Search(context.Background(), "armbandsur", model.ScopeEnded)
	require.NoError(t, err)
	assert.NotEmpty(t, got, "single-word query should find plenty")
}

func TestMockClient_ScopesDiffer(t *testing.T) {
	m := NewMockClient(42)

	ended, err := m.Search(context.Background(), "armbandsur", model.ScopeEnded)
	require.NoError(t, err)
	live, err := m.Search(context.Background(), "armbandsur", model.ScopeLive)
	require.NoError(t, err)

	require.NotEmpty(t, ended)
	require.NotEmpty(t, live)
	assert.NotZero(t, ended[0].Price)
	assert.Zero(t, ended[0].Estimate)
	assert.NotZero(t, live[0].Estimate)
	assert.Zero(t, live[0].Price)
}

func TestMockClient_CanceledContext(t *testing.T) {
	m := NewMockClient(42)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Search(ctx, "armbandsur", model.ScopeEnded)
	require.Error(t, err)
}
