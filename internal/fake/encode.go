package fake

import (
	"encoding/binary"
	"math"

	"github.com/woozymasta/a2sdecode/pkg/a2s"
)

// Builder appends little endian fields to a payload.
type Builder struct {
	buf []byte
}

// U8 appends raw bytes.
func (b *Builder) U8(v ...byte) *Builder {
	b.buf = append(b.buf, v...)
	return b
}

// U16 appends a uint16.
func (b *Builder) U16(v uint16) *Builder {
	b.buf = binary.LittleEndian.AppendUint16(b.buf, v)
	return b
}

// I16 appends an int16.
func (b *Builder) I16(v int16) *Builder {
	return b.U16(uint16(v))
}

// I32 appends an int32.
func (b *Builder) I32(v int32) *Builder {
	b.buf = binary.LittleEndian.AppendUint32(b.buf, uint32(v))
	return b
}

// U32 appends a uint32.
func (b *Builder) U32(v uint32) *Builder {
	b.buf = binary.LittleEndian.AppendUint32(b.buf, v)
	return b
}

// U64 appends a uint64.
func (b *Builder) U64(v uint64) *Builder {
	b.buf = binary.LittleEndian.AppendUint64(b.buf, v)
	return b
}

// F32 appends an IEEE 754 float32.
func (b *Builder) F32(v float32) *Builder {
	return b.U32(math.Float32bits(v))
}

// Bool appends 1 or 0.
func (b *Builder) Bool(v bool) *Builder {
	if v {
		return b.U8(1)
	}
	return b.U8(0)
}

// Str appends a NUL terminated string.
func (b *Builder) Str(s string) *Builder {
	b.buf = append(append(b.buf, s...), 0x00)
	return b
}

// Bytes returns the built payload.
func (b *Builder) Bytes() []byte {
	return b.buf
}

// SourceInfo encodes a Source 'I' payload. The EDF byte is derived from the
// non-nil extra fields and written only when non-zero.
func SourceInfo(info *a2s.SourceInfo) []byte {
	b := &Builder{}
	b.U8(info.Protocol).
		Str(info.Name).Str(info.Map).Str(info.Folder).Str(info.Game).
		U16(info.AppID).
		U8(info.Players, info.MaxPlayers, info.Bots, byte(info.ServerType), byte(info.Environment)).
		Bool(info.Private).Bool(info.VAC)

	if a2s.IsShipApp(info.AppID) {
		ship := info.TheShip
		if ship == nil {
			ship = &a2s.TheShip{}
		}
		b.U8(byte(ship.Mode), ship.Witnesses, ship.Duration)
	}

	b.Str(info.Version)

	x := info.Extra
	edf := info.EDF
	if x.Port != nil {
		edf |= a2s.EDFPort
	}
	if x.SteamID != nil {
		edf |= a2s.EDFSteamID
	}
	if x.SourceTVPort != nil {
		edf |= a2s.EDFSourceTV
	}
	if x.Keywords != nil {
		edf |= a2s.EDFKeywords
	}
	if x.GameID != nil {
		edf |= a2s.EDFGameID
	}
	if edf == 0 {
		return b.Bytes()
	}

	b.U8(edf)
	if edf&a2s.EDFPort != 0 {
		b.U16(deref(x.Port))
	}
	if edf&a2s.EDFSteamID != 0 {
		b.U64(deref(x.SteamID))
	}
	if edf&a2s.EDFSourceTV != 0 {
		b.U16(deref(x.SourceTVPort)).Str(deref(x.SourceTVName))
	}
	if edf&a2s.EDFKeywords != 0 {
		b.Str(deref(x.Keywords))
	}
	if edf&a2s.EDFGameID != 0 {
		b.U64(deref(x.GameID))
	}

	return b.Bytes()
}

// GoldSourceInfo encodes a GoldSource 'm' payload.
func GoldSourceInfo(info *a2s.GoldSourceInfo) []byte {
	b := &Builder{}
	goldSourceBody(b, &info.PreGoldSourceInfo)
	b.Bool(info.VAC).U8(info.Bots)

	return b.Bytes()
}

// PreGoldSourceInfo encodes an 'm' payload without the VAC and bot bytes.
func PreGoldSourceInfo(info *a2s.PreGoldSourceInfo) []byte {
	b := &Builder{}
	goldSourceBody(b, info)

	return b.Bytes()
}

func goldSourceBody(b *Builder, info *a2s.PreGoldSourceInfo) {
	b.Str(info.Address).Str(info.Name).Str(info.Map).Str(info.Folder).Str(info.Game).
		U8(info.Players, info.MaxPlayers, info.Protocol, byte(info.ServerType), byte(info.Environment)).
		Bool(info.Private).Bool(info.IsMod)

	if !info.IsMod {
		return
	}

	m := info.Mod
	if m == nil {
		m = &a2s.HalfLifeMod{}
	}
	b.Str(m.Link).Str(m.DownloadLink).U8(0x00).
		I32(m.Version).I32(m.Size).
		U8(byte(m.Type), byte(m.DLL))
}

// Players encodes a 'D' payload. Ship records follow when every player has one.
func Players(p *a2s.Players) []byte {
	b := &Builder{}
	b.U8(p.Count)

	ships := len(p.Players) > 0
	for _, pl := range p.Players {
		b.U8(pl.Index).Str(pl.Name).I32(pl.Score).F32(pl.Duration)
		if pl.Ship == nil {
			ships = false
		}
	}

	if ships {
		for _, pl := range p.Players {
			b.I32(pl.Ship.Deaths).I32(pl.Ship.Money)
		}
	}

	return b.Bytes()
}

// Rules encodes an 'E' payload, Remaining is appended verbatim.
func Rules(r *a2s.Rules) []byte {
	b := &Builder{}
	b.I16(r.Count)
	for _, rule := range r.Rules {
		b.Str(rule.Name).Str(rule.Value)
	}
	b.U8([]byte(r.Remaining)...)

	return b.Bytes()
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}

	return *p
}
