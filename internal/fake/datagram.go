package fake

import (
	"github.com/woozymasta/a2sdecode/pkg/a2s"
)

// Single wraps a payload into a single packet datagram.
func Single(mt a2s.MessageType, payload []byte) []byte {
	b := &Builder{}
	b.I32(a2s.HeaderSingle).U8(byte(mt)).U8(payload...)

	return b.Bytes()
}

// SourceSplit splits a single packet datagram into Source fragments of at most
// chunk payload bytes. The size field is written when withSize is set.
func SourceSplit(id int32, datagram []byte, chunk int, withSize bool) [][]byte {
	parts := split(datagram, chunk)

	out := make([][]byte, 0, len(parts))
	for i, part := range parts {
		b := &Builder{}
		b.I32(a2s.HeaderSplit).I32(id).U8(byte(len(parts)), byte(i))
		if withSize {
			b.U16(uint16(chunk))
		}
		out = append(out, b.U8(part...).Bytes())
	}

	return out
}

// GoldSourceSplit splits a single packet datagram into GoldSource fragments.
// At most 15 fragments fit the packed header.
func GoldSourceSplit(id int32, datagram []byte, chunk int) [][]byte {
	parts := split(datagram, chunk)

	out := make([][]byte, 0, len(parts))
	for i, part := range parts {
		b := &Builder{}
		b.I32(a2s.HeaderSplit).I32(id).U8(byte(i)<<4 | byte(len(parts))&0x0F)
		out = append(out, b.U8(part...).Bytes())
	}

	return out
}

func split(data []byte, chunk int) [][]byte {
	if chunk <= 0 {
		chunk = len(data)
	}

	var parts [][]byte
	for len(data) > chunk {
		parts = append(parts, data[:chunk])
		data = data[chunk:]
	}

	return append(parts, data)
}
