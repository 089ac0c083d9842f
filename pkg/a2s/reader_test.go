package a2s

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderIntegers(t *testing.T) {
	buf := payload{}.u8(0x7F).u16(0xFFFE).i32(-2).u64(0x0102030405060708).f32(1.5)
	r := newReader(buf)

	u8, err := r.uint8("u8")
	require.NoError(t, err)
	assert.Equal(t, uint8(0x7F), u8)

	i16, err := r.int16("i16")
	require.NoError(t, err)
	assert.Equal(t, int16(-2), i16)

	i32, err := r.int32("i32")
	require.NoError(t, err)
	assert.Equal(t, int32(-2), i32)

	u64, err := r.uint64("u64")
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0102030405060708), u64)

	f32, err := r.float32("f32")
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), f32)

	assert.True(t, r.empty())
}

func TestReaderShortRead(t *testing.T) {
	r := newReaderAt([]byte{0x01, 0x02, 0x03}, 4)

	_, err := r.uint32("value")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnexpectedEOF))
	assert.Equal(t, 4, ErrorOffset(err))

	// A failed read leaves the cursor where it was.
	v, err := r.uint16("value")
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0201), v)
}

func TestReaderBool(t *testing.T) {
	r := newReader([]byte{0x00, 0x01, 0xFF})

	for _, want := range []bool{false, true, true} {
		got, err := r.bool("flag")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := r.bool("flag")
	assert.ErrorIs(t, err, ErrUnexpectedEOF)
}

func TestReaderCString(t *testing.T) {
	t.Run("terminated", func(t *testing.T) {
		r := newReader(payload{}.str("de_dust").str(""))

		s, err := r.cstring("map")
		require.NoError(t, err)
		assert.Equal(t, "de_dust", s)

		s, err = r.cstring("empty")
		require.NoError(t, err)
		assert.Equal(t, "", s)
		assert.True(t, r.empty())
	})

	t.Run("missing terminator", func(t *testing.T) {
		r := newReaderAt([]byte("abc"), 10)

		_, err := r.cstring("name")
		assert.ErrorIs(t, err, ErrUnexpectedEOF)
		assert.Equal(t, 10, ErrorOffset(err))
	})

	t.Run("invalid utf-8 is replaced", func(t *testing.T) {
		r := newReader([]byte{'a', 0xFF, 'b', 0xC3, 0x00})

		s, err := r.cstring("name")
		require.NoError(t, err)
		assert.Equal(t, "a�b�", s)
	})

	t.Run("string is a copy", func(t *testing.T) {
		buf := payload{}.str("abc")
		r := newReader(buf)

		s, err := r.cstring("name")
		require.NoError(t, err)
		buf[0] = 'z'
		assert.Equal(t, "abc", s)
	})
}

func TestReaderOptional(t *testing.T) {
	r := newReader([]byte{0x31})

	b, ok := r.optUint8()
	assert.True(t, ok)
	assert.Equal(t, uint8(0x31), b)

	_, ok = r.optUint8()
	assert.False(t, ok)

	r = newReader([]byte{0x01, 0x02})
	_, ok = r.optInt32()
	assert.False(t, ok)
	assert.Equal(t, 2, r.remaining())
}

func TestReaderNullAndFinish(t *testing.T) {
	r := newReader([]byte{0x00, 0x05, 0x01})

	require.NoError(t, r.null("placeholder"))

	err := r.null("placeholder")
	assert.ErrorIs(t, err, ErrUnexpectedValue)
	assert.Equal(t, 1, ErrorOffset(err))

	err = r.finish("end")
	assert.ErrorIs(t, err, ErrTrailingData)
	assert.Equal(t, 2, ErrorOffset(err))

	assert.Equal(t, []byte{0x01}, r.rest())
	assert.NoError(t, r.finish("end"))
}
