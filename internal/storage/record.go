package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/segmentio/ksuid"
	"github.com/woozymasta/a2sdecode/internal/inspect"
	"github.com/woozymasta/a2sdecode/internal/models"
	"github.com/woozymasta/a2sdecode/pkg/a2s"
)

// NewSession returns a sortable id grouping the records of one decode run.
func NewSession() string {
	return ksuid.New().String()
}

// Fingerprint identifies a result by sender and content, so repeated responses collapse into one record.
func Fingerprint(res inspect.Result) string {
	d := xxhash.New()
	_, _ = d.WriteString(res.Source)
	_, _ = d.Write([]byte{0x00, byte(res.Kind), byte(res.MessageType)})
	_, _ = d.Write(res.Payload)
	_, _ = d.WriteString(res.Error)

	if res.Fragment != nil && !res.Reassembled {
		_, _ = fmt.Fprintf(d, "/%d/%d", res.Fragment.ID, res.Fragment.Number)
	}

	return fmt.Sprintf("%016x", d.Sum64())
}

// RecordFromResult converts a decode result into a storable record.
// The message type is stored as its one letter tag.
func RecordFromResult(session string, res inspect.Result, country string) (models.Record, error) {
	seen := res.Time
	if seen.IsZero() {
		seen = time.Now()
	}
	seen = seen.UTC()

	rec := models.Record{
		Session:     session,
		Fingerprint: Fingerprint(res),
		Source:      res.Source,
		CountryCode: country,
		Kind:        kindName(res.Kind),
		Size:        res.Size,
		Error:       res.Error,
		FirstSeen:   seen,
		LastSeen:    seen,
	}
	if res.MessageType != 0 {
		rec.MessageType = string(rune(res.MessageType))
		rec.Payload = append([]byte(nil), res.Payload...)
	}

	if res.Record != nil {
		if err := describe(&rec, res.Record); err != nil {
			return rec, err
		}
	}

	return rec, nil
}

// describe fills the searchable columns and the JSON body from a decoded message.
func describe(rec *models.Record, decoded any) error {
	raw, err := json.Marshal(decoded)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	rec.Record = raw

	switch v := decoded.(type) {
	case a2s.InfoRecord:
		s := v.Summary()
		rec.Dialect = s.Dialect.String()
		rec.ServerName = s.Name
		rec.MapName = s.Map
		rec.GameName = s.Game
		rec.AppID = s.AppID
		rec.Players = int(s.Players)
		rec.MaxPlayers = int(s.MaxPlayers)
	case *a2s.Players:
		rec.Players = len(v.Players)
	}

	return nil
}

func kindName(k a2s.Kind) string {
	if k == 0 {
		return ""
	}

	return k.String()
}

// Redecode decodes the stored payload of rec again and refreshes its
// searchable columns. A decode failure is recorded in rec.Error and returned.
// Records without a message type failed in the envelope and are left as is.
func Redecode(rec *models.Record, c a2s.Completion) error {
	if len(rec.MessageType) != 1 {
		return nil
	}

	rec.Dialect, rec.ServerName, rec.MapName, rec.GameName = "", "", "", ""
	rec.AppID, rec.Players, rec.MaxPlayers = 0, 0, 0
	rec.Record = nil
	rec.Error = ""

	single := &a2s.Single{Type: a2s.MessageType(rec.MessageType[0]), Payload: rec.Payload}
	decoded, err := inspect.DecodeMessage(single, c)
	if err != nil {
		rec.Error = err.Error()
		return err
	}
	if decoded == nil {
		return nil
	}

	return describe(rec, decoded)
}
