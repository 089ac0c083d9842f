package a2s

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		kind    Kind
		rest    []byte
		wantErr error
	}{
		{name: "single", data: []byte{0xFF, 0xFF, 0xFF, 0xFF, 'I', 0x11}, kind: KindSingle, rest: []byte{'I', 0x11}},
		{name: "split", data: []byte{0xFE, 0xFF, 0xFF, 0xFF, 0x01}, kind: KindFragment, rest: []byte{0x01}},
		{name: "malformed", data: []byte{0xFD, 0xFF, 0xFF, 0xFF, 'I'}, wantErr: ErrMalformedEnvelope},
		{name: "zero header", data: []byte{0x00, 0x00, 0x00, 0x00}, wantErr: ErrMalformedEnvelope},
		{name: "short", data: []byte{0xFF, 0xFF}, wantErr: ErrUnexpectedEOF},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			kind, rest, err := Classify(tc.data)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.kind, kind)
			assert.Equal(t, tc.rest, rest)
		})
	}
}

func TestDecodeSingle(t *testing.T) {
	datagram := append([]byte{0xFF, 0xFF, 0xFF, 0xFF, 'I'}, sourceCSS...)

	pkt, err := Decode(datagram, FragmentOptions{})
	require.NoError(t, err)
	require.Equal(t, KindSingle, pkt.Kind())

	single := pkt.(*Single)
	assert.Equal(t, MessageInfoSource, single.Type)
	assert.Equal(t, sourceCSS, single.Payload)

	// The payload borrows the datagram.
	assert.Same(t, &datagram[5], &single.Payload[0])
}

func TestDecodeSingleUnknownType(t *testing.T) {
	_, err := DecodeSingle([]byte{0xFF, 0xFF, 0xFF, 0xFF, 'Z', 0x00})
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrUnrecognizedMessageType)
	assert.True(t, IsRecoverable(err))
	assert.Equal(t, 4, ErrorOffset(err))

	_, err = DecodeSingle([]byte{0x00, 0x00, 0x00, 0x00, 'I'})
	assert.False(t, IsRecoverable(err))

	_, err = DecodeSingle([]byte{0xFE, 0xFF, 0xFF, 0xFF, 0x00})
	assert.ErrorIs(t, err, ErrMalformedEnvelope)
}

func TestMessageTypes(t *testing.T) {
	for _, tag := range []byte("TImUDVEijWA") {
		mt := MessageType(tag)
		assert.True(t, mt.Known(), "tag %q", tag)

		single, err := ParseSingle([]byte{tag})
		require.NoError(t, err)
		assert.Equal(t, mt, single.Type)
		assert.Empty(t, single.Payload)
	}

	assert.False(t, MessageType('x').Known())
	assert.Equal(t, "unrecognized(0x78)", MessageType('x').String())
}

func TestGoldSourceFragment(t *testing.T) {
	// Fragment 2 of 3.
	datagram := payload{}.i32(HeaderSplit).i32(1234).u8(0x23).u8('a', 'b')

	pkt, err := Decode(datagram, FragmentOptions{Dialect: FragmentGoldSource})
	require.NoError(t, err)

	f := pkt.(*Fragment)
	assert.Equal(t, int32(1234), f.ID)
	assert.Equal(t, uint8(2), f.Number)
	assert.Equal(t, uint8(3), f.Total)
	assert.Nil(t, f.Size)
	assert.Nil(t, f.Compression)
	assert.Equal(t, []byte("ab"), f.Payload)
}

func TestSourceFragment(t *testing.T) {
	t.Run("with size", func(t *testing.T) {
		body := payload{}.i32(77).u8(4, 1).u16(1248).u8(0xAA)

		f, err := ParseSourceFragment(body, true)
		require.NoError(t, err)
		assert.Equal(t, int32(77), f.ID)
		assert.Equal(t, uint8(4), f.Total)
		assert.Equal(t, uint8(1), f.Number)
		require.NotNil(t, f.Size)
		assert.Equal(t, uint16(1248), *f.Size)
		assert.Nil(t, f.Compression)
		assert.False(t, f.Compressed())
		assert.Equal(t, []byte{0xAA}, f.Payload)
	})

	t.Run("without size", func(t *testing.T) {
		body := payload{}.i32(77).u8(2, 0).u8(0xFF, 0xFF)

		f, err := ParseSourceFragment(body, false)
		require.NoError(t, err)
		assert.Nil(t, f.Size)
		assert.Equal(t, []byte{0xFF, 0xFF}, f.Payload)
	})

	t.Run("compressed first fragment", func(t *testing.T) {
		id := int32(-2147483600)
		body := payload{}.i32(id).u8(3, 0).u16(1248).i32(4000).u32(0xDEADBEEF).u8('B', 'Z')

		f, err := ParseSourceFragment(body, true)
		require.NoError(t, err)
		assert.True(t, f.Compressed())
		require.NotNil(t, f.Compression)
		assert.Equal(t, Compression{DecompressedSize: 4000, CRC32: 0xDEADBEEF}, *f.Compression)
		assert.Equal(t, []byte("BZ"), f.Payload)
	})

	t.Run("compressed later fragment has no compression fields", func(t *testing.T) {
		body := payload{}.i32(-5).u8(3, 1).u16(1248).u8(0x01, 0x02, 0x03, 0x04)

		f, err := ParseSourceFragment(body, true)
		require.NoError(t, err)
		assert.True(t, f.Compressed())
		assert.Nil(t, f.Compression)
		assert.Len(t, f.Payload, 4)
	})

	t.Run("truncated compression fields", func(t *testing.T) {
		datagram := payload{}.i32(HeaderSplit).i32(-5).u8(3, 0).u16(1248).i32(4000).u8(0x01)

		_, err := Decode(datagram, FragmentOptions{})
		assert.ErrorIs(t, err, ErrUnexpectedEOF)
		// Header 4 + id 4 + counts 2 + size 2 + decompressed size 4.
		assert.Equal(t, 16, ErrorOffset(err))
	})

	t.Run("uncompressed", func(t *testing.T) {
		// Positive id: fragment 0 carries no compression block even when bytes follow.
		body := payload{}.i32(5).u8(2, 0).u16(1248).i32(4000).u32(1)

		f, err := ParseSourceFragment(body, true)
		require.NoError(t, err)
		assert.Nil(t, f.Compression)
		assert.Len(t, f.Payload, 8)
	})
}

func TestSourceOmitsSize(t *testing.T) {
	assert.True(t, SourceOmitsSize(215, 1))
	assert.True(t, SourceOmitsSize(17550, 0))
	assert.True(t, SourceOmitsSize(17700, 17))
	assert.True(t, SourceOmitsSize(240, 7))
	assert.False(t, SourceOmitsSize(240, 17))
	assert.False(t, SourceOmitsSize(730, 17))

	assert.Equal(t, FragmentOptions{Dialect: FragmentSource, OmitSize: true}, OptionsForApp(240, 7))
	assert.Equal(t, FragmentOptions{Dialect: FragmentSource}, OptionsForApp(4000, 17))
}

func TestDecodeDeterministic(t *testing.T) {
	inputs := [][]byte{
		append([]byte{0xFF, 0xFF, 0xFF, 0xFF, 'I'}, sourceCSS...),
		payload{}.i32(HeaderSplit).i32(-5).u8(3, 0).u16(1248).i32(4000).u32(1).u8('B', 'Z'),
		payload{}.i32(HeaderSplit).i32(-5).u8(3, 0).u16(1248).i32(4000),
		{0xFF, 0xFF, 0xFF, 0xFF, 'Z'},
		{0xFD, 0xFF},
	}

	for _, opts := range []FragmentOptions{{}, {Dialect: FragmentGoldSource}, {OmitSize: true}} {
		for _, in := range inputs {
			a, errA := Decode(in, opts)
			b, errB := Decode(in, opts)
			assert.Equal(t, a, b)
			assert.Equal(t, errA, errB)
			assert.Equal(t, ErrorOffset(errA), ErrorOffset(errB))
		}
	}
}
