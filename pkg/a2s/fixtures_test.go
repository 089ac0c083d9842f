package a2s

import (
	"encoding/binary"
	"math"
)

// goldSourceCS is the Counter-Strike 1.6 INFO payload from the protocol wiki.
var goldSourceCS = []byte{
	0x37, 0x37, 0x2E, 0x31, 0x31, 0x31, 0x2E, 0x31, 0x39, 0x34, 0x2E, 0x31,
	0x31, 0x30, 0x3A, 0x32, 0x37, 0x30, 0x31, 0x35, 0x00, 0x46, 0x52, 0x20,
	0x2D, 0x20, 0x56, 0x65, 0x72, 0x79, 0x47, 0x61, 0x6D, 0x65, 0x73, 0x2E,
	0x6E, 0x65, 0x74, 0x20, 0x2D, 0x20, 0x44, 0x65, 0x61, 0x74, 0x6D, 0x61,
	0x74, 0x63, 0x68, 0x20, 0x2D, 0x20, 0x6F, 0x6E, 0x6C, 0x79, 0x20, 0x73,
	0x75, 0x72, 0x66, 0x5F, 0x73, 0x6B, 0x69, 0x20, 0x2D, 0x20, 0x6E, 0x67,
	0x52, 0x00, 0x73, 0x75, 0x72, 0x66, 0x5F, 0x73, 0x6B, 0x69, 0x00, 0x63,
	0x73, 0x74, 0x72, 0x69, 0x6B, 0x65, 0x00, 0x43, 0x6F, 0x75, 0x6E, 0x74,
	0x65, 0x72, 0x2D, 0x53, 0x74, 0x72, 0x69, 0x6B, 0x65, 0x00, 0x0C, 0x12,
	0x2F, 0x64, 0x6C, 0x00, 0x01, 0x77, 0x77, 0x77, 0x2E, 0x63, 0x6F, 0x75,
	0x6E, 0x74, 0x65, 0x72, 0x2D, 0x73, 0x74, 0x72, 0x69, 0x6B, 0x65, 0x2E,
	0x6E, 0x65, 0x74, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x9E,
	0xF7, 0x0A, 0x00, 0x01, 0x01, 0x00,
}

// sourceCSS is the Counter-Strike: Source INFO payload from the protocol wiki, sent without an EDF byte.
var sourceCSS = []byte{
	0x02, 0x67, 0x61, 0x6D, 0x65, 0x32, 0x78, 0x73, 0x2E, 0x63, 0x6F, 0x6D,
	0x20, 0x43, 0x6F, 0x75, 0x6E, 0x74, 0x65, 0x72, 0x2D, 0x53, 0x74, 0x72,
	0x69, 0x6B, 0x65, 0x20, 0x53, 0x6F, 0x75, 0x72, 0x63, 0x65, 0x20, 0x23,
	0x31, 0x00, 0x64, 0x65, 0x5F, 0x64, 0x75, 0x73, 0x74, 0x00, 0x63, 0x73,
	0x74, 0x72, 0x69, 0x6B, 0x65, 0x00, 0x43, 0x6F, 0x75, 0x6E, 0x74, 0x65,
	0x72, 0x2D, 0x53, 0x74, 0x72, 0x69, 0x6B, 0x65, 0x3A, 0x20, 0x53, 0x6F,
	0x75, 0x72, 0x63, 0x65, 0x00, 0xF0, 0x00, 0x05, 0x10, 0x04, 0x64, 0x6C,
	0x00, 0x00, 0x31, 0x2E, 0x30, 0x2E, 0x30, 0x2E, 0x32, 0x32, 0x00,
}

// sourceShip is a The Ship INFO payload (app 2400) without an EDF byte.
var sourceShip = []byte{
	0x07, 0x53, 0x68, 0x69, 0x70, 0x20, 0x53, 0x65, 0x72, 0x76, 0x65, 0x72,
	0x00, 0x62, 0x61, 0x74, 0x61, 0x76, 0x69, 0x65, 0x72, 0x00, 0x73, 0x68,
	0x69, 0x70, 0x00, 0x54, 0x68, 0x65, 0x20, 0x53, 0x68, 0x69, 0x70, 0x00,
	0x60, 0x09, 0x01, 0x05, 0x00, 0x6C, 0x77, 0x00, 0x00, 0x01, 0x03, 0x03,
	0x31, 0x2E, 0x30, 0x2E, 0x30, 0x2E, 0x34, 0x00,
}

// twoPlayers is the two player PLAYER payload from the protocol wiki.
var twoPlayers = []byte{
	0x02, 0x01, 0x5B, 0x44, 0x5D, 0x2D, 0x2D, 0x2D, 0x2D, 0x3E, 0x54, 0x2E,
	0x4E, 0x2E, 0x57, 0x3C, 0x2D, 0x2D, 0x2D, 0x2D, 0x00, 0x0E, 0x00, 0x00,
	0x00, 0xB4, 0x97, 0x00, 0x44, 0x02, 0x4B, 0x69, 0x6C, 0x6C, 0x65, 0x72,
	0x20, 0x21, 0x21, 0x21, 0x00, 0x05, 0x00, 0x00, 0x00, 0x69, 0x24, 0xD9,
	0x43,
}

// shipPlayers is a The Ship PLAYER payload: six players followed by six ship records.
var shipPlayers = []byte{
	0x06, 0x00, 0x53, 0x68, 0x69, 0x70, 0x6D, 0x61, 0x74, 0x65, 0x31, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x80, 0xBF, 0x01, 0x53, 0x68, 0x69,
	0x70, 0x6D, 0x61, 0x74, 0x65, 0x32, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x80, 0xBF, 0x02, 0x53, 0x68, 0x69, 0x70, 0x6D, 0x61, 0x74, 0x65,
	0x33, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x80, 0xBF, 0x03, 0x53,
	0x68, 0x69, 0x70, 0x6D, 0x61, 0x74, 0x65, 0x34, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x80, 0xBF, 0x04, 0x53, 0x68, 0x69, 0x70, 0x6D, 0x61,
	0x74, 0x65, 0x35, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x80, 0xBF,
	0x07, 0x28, 0x31, 0x29, 0x4C, 0x61, 0x6E, 0x64, 0x4C, 0x75, 0x62, 0x62,
	0x65, 0x72, 0x00, 0x00, 0x00, 0x00, 0x00, 0xD3, 0x8E, 0x68, 0x45, 0x00,
	0x00, 0x00, 0x00, 0xC4, 0x09, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xC4,
	0x09, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xC4, 0x09, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0xC4, 0x09, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xC4,
	0x09, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xC4, 0x09, 0x00, 0x00,
}

// payload builds little endian test buffers.
type payload []byte

func (p payload) u8(v ...byte) payload { return append(p, v...) }

func (p payload) u16(v uint16) payload { return binary.LittleEndian.AppendUint16(p, v) }

func (p payload) i32(v int32) payload { return binary.LittleEndian.AppendUint32(p, uint32(v)) }

func (p payload) u32(v uint32) payload { return binary.LittleEndian.AppendUint32(p, v) }

func (p payload) u64(v uint64) payload { return binary.LittleEndian.AppendUint64(p, v) }

func (p payload) f32(v float32) payload { return p.u32(math.Float32bits(v)) }

func (p payload) str(s string) payload { return append(append(p, s...), 0x00) }

// sourceHead builds a Source INFO payload up to and including the VAC byte.
func sourceHead(appID uint16) payload {
	return payload{}.
		u8(17).
		str("Chaotic TTT").
		str("ttt_minecraft_b5").
		str("garrysmod").
		str("Trouble in Terrorist Town").
		u16(appID).
		u8(12, 24, 0).
		u8('d', 'l', 0, 1)
}
