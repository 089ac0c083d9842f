package a2s

import (
	"errors"
	"fmt"
)

// Dialect is one of the historical A2S_INFO response layouts.
type Dialect int

// INFO dialects.
const (
	DialectPreGoldSource Dialect = iota + 1
	DialectGoldSource
	DialectSource
)

// String implements fmt.Stringer.
func (d Dialect) String() string {
	switch d {
	case DialectPreGoldSource:
		return "pre-goldsource"
	case DialectGoldSource:
		return "goldsource"
	case DialectSource:
		return "source"
	default:
		return fmt.Sprintf("dialect(%d)", int(d))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Dialect) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Completion is the policy applied to bytes left after the last INFO field.
type Completion int

const (
	// Strict rejects leftover bytes with ErrTrailingData.
	Strict Completion = iota

	// Lenient accepts leftover bytes, as sent by historical truncated single packet responses.
	Lenient
)

// String implements fmt.Stringer.
func (c Completion) String() string {
	if c == Lenient {
		return "lenient"
	}

	return "strict"
}

// InfoRecord is a decoded A2S_INFO response:
// *PreGoldSourceInfo, *GoldSourceInfo or *SourceInfo.
type InfoRecord interface {
	Dialect() Dialect
	Summary() Summary
}

// Summary holds the fields every INFO dialect carries, in a dialect neutral shape.
type Summary struct {
	Name        string      `json:"name"`
	Map         string      `json:"map"`
	Folder      string      `json:"folder"`
	Game        string      `json:"game"`
	Version     string      `json:"version,omitempty"`
	Dialect     Dialect     `json:"dialect"`
	AppID       uint32      `json:"app_id,omitempty"`
	Players     uint8       `json:"players"`
	MaxPlayers  uint8       `json:"max_players"`
	Bots        uint8       `json:"bots"`
	ServerType  ServerType  `json:"server_type"`
	Environment Environment `json:"environment"`
	Private     bool        `json:"private"`
	VAC         bool        `json:"vac"`
}

// DecodeInfo decodes an INFO payload using the dialect implied by its message tag.
// 'I' selects Source. 'm' selects GoldSource and retries as PreGoldSource when the
// payload ends where the VAC and bot fields would start.
func DecodeInfo(mt MessageType, payload []byte, c Completion) (InfoRecord, error) {
	switch mt {
	case MessageInfoSource:
		return DecodeSourceInfo(payload, c)
	case MessageInfoGoldSource:
		info, err := DecodeGoldSourceInfo(payload, c)
		if err == nil {
			return info, nil
		}
		if !errors.Is(err, ErrUnexpectedEOF) {
			return nil, err
		}
		legacy, lerr := DecodePreGoldSourceInfo(payload, c)
		if lerr != nil {
			return nil, err
		}
		return legacy, nil
	default:
		e := newError(ErrUnrecognizedMessageType, 0, "message type")
		e.Detail = mt.String() + " is not an INFO response"
		return nil, e
	}
}

func complete(r *reader, c Completion) error {
	if c == Lenient {
		return nil
	}

	return r.finish("end of INFO")
}
