package maintenance

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woozymasta/a2sdecode/internal/config"
	"github.com/woozymasta/a2sdecode/internal/fake"
	"github.com/woozymasta/a2sdecode/internal/inspect"
	"github.com/woozymasta/a2sdecode/internal/models"
	"github.com/woozymasta/a2sdecode/internal/storage"
	"github.com/woozymasta/a2sdecode/pkg/a2s"
)

func openStore(t *testing.T) *storage.Repository {
	t.Helper()

	store, err := storage.New(filepath.Join(t.TempDir(), "maintenance.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

// seed archives an INFO response with trailing bytes that only decodes leniently,
// a PING response and an envelope failure.
func seed(t *testing.T, store *storage.Repository, at time.Time) {
	t.Helper()

	port := uint16(27015)
	info := &a2s.SourceInfo{
		Protocol:    17,
		Name:        "Old Build",
		Map:         "cs_office",
		Folder:      "cstrike",
		Game:        "Counter-Strike: Source",
		AppID:       240,
		MaxPlayers:  32,
		ServerType:  a2s.ServerDedicated,
		Environment: a2s.EnvLinux,
		Version:     "1.0.0.22",
		Extra:       a2s.ExtraData{Port: &port},
	}
	payload := append(fake.SourceInfo(info), 0xAA, 0xBB)

	results := []inspect.Result{
		{
			Time:        at,
			Source:      "203.0.113.5:27015",
			Kind:        a2s.KindSingle,
			MessageType: a2s.MessageInfoSource,
			Payload:     payload,
			Error:       "a2s: trailing data after message",
			Size:        len(payload) + 5,
		},
		{
			Time:        at,
			Source:      "203.0.113.5:27015",
			Kind:        a2s.KindSingle,
			MessageType: a2s.MessagePingResponse,
			Payload:     []byte("00000000000000\x00"),
			Record:      "00000000000000",
			Size:        20,
		},
		{
			Time:   at,
			Source: "203.0.113.9:27015",
			Error:  "a2s: malformed packet envelope",
			Size:   2,
		},
	}

	for _, res := range results {
		require.NoError(t, store.SaveResult("session", res, ""))
	}
}

func TestRedecode(t *testing.T) {
	store := openStore(t)
	seed(t, store, time.Now())

	stats, err := Redecode(store, a2s.Strict, 2)
	require.NoError(t, err)
	assert.Equal(t, Stats{Decoded: 1, Failed: 1, Skipped: 1}, stats)

	stats, err = Redecode(store, a2s.Lenient, 2)
	require.NoError(t, err)
	assert.Equal(t, Stats{Decoded: 2, Skipped: 1}, stats)

	records, err := store.ListRecords(models.RecordFilter{MessageType: "I"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].Error)
	assert.Equal(t, "Old Build", records[0].ServerName)
	assert.Equal(t, uint32(240), records[0].AppID)
	assert.Equal(t, "source", records[0].Dialect)
	assert.Contains(t, string(records[0].Record), `"map":"cs_office"`)
}

func TestRun(t *testing.T) {
	store := openStore(t)
	seed(t, store, time.Now().Add(-48*time.Hour))

	cfg := &config.Config{}
	assert.False(t, Run(cfg, store))

	cfg.Storage.PruneFailed = true
	assert.True(t, Run(cfg, store))

	records, err := store.ListRecords(models.RecordFilter{})
	require.NoError(t, err)
	assert.Len(t, records, 1)

	cfg.Storage.PruneFailed = false
	cfg.Storage.PruneBefore = 24 * time.Hour
	assert.True(t, Run(cfg, store))

	records, err = store.ListRecords(models.RecordFilter{})
	require.NoError(t, err)
	assert.Empty(t, records)
}
