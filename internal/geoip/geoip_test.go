package geoip

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDB(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.True(t, strings.HasPrefix(r.UserAgent(), "a2sdecode/"))
		_, _ = w.Write([]byte("mmdb"))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "country.mmdb")

	require.NoError(t, EnsureDB(path, srv.URL, time.Hour))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "mmdb", string(data))
	assert.Equal(t, int32(1), hits.Load())

	// Fresh copy is kept.
	require.NoError(t, EnsureDB(path, srv.URL, time.Hour))
	assert.Equal(t, int32(1), hits.Load())

	// Outdated copy is replaced.
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))
	require.NoError(t, EnsureDB(path, srv.URL, time.Hour))
	assert.Equal(t, int32(2), hits.Load())
}

func TestEnsureDBBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "country.mmdb")
	assert.Error(t, EnsureDB(path, srv.URL, time.Hour))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestParseHost(t *testing.T) {
	assert.Equal(t, "203.0.113.5", ParseHost("203.0.113.5:27015").String())
	assert.Equal(t, "203.0.113.5", ParseHost("203.0.113.5").String())
	assert.Equal(t, "2001:db8::1", ParseHost("[2001:db8::1]:27015").String())
	assert.Nil(t, ParseHost("not-an-ip"))
	assert.Nil(t, ParseHost(""))
}

func TestNilProvider(t *testing.T) {
	var p *Provider
	assert.Equal(t, "", p.CountryCode("203.0.113.5:27015"))
	assert.NoError(t, p.Close())

	_, err := Open(filepath.Join(t.TempDir(), "missing.mmdb"))
	assert.Error(t, err)
}
