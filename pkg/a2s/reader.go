package a2s

import (
	"bytes"
	"encoding/binary"
	"math"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// reader is a read cursor over a borrowed byte slice.
// It never writes to the slice; strings are copied out.
type reader struct {
	data []byte
	off  int
	base int
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

// newReaderAt starts a cursor whose reported offsets are shifted by base,
// used when data is a suffix of a larger datagram.
func newReaderAt(data []byte, base int) *reader {
	return &reader{data: data, base: base}
}

// pos returns the absolute offset of the cursor.
func (r *reader) pos() int {
	return r.base + r.off
}

func (r *reader) remaining() int {
	return len(r.data) - r.off
}

func (r *reader) empty() bool {
	return r.off >= len(r.data)
}

// take returns the next n bytes and advances, or fails with ErrUnexpectedEOF leaving the cursor in place.
func (r *reader) take(n int, field string) ([]byte, error) {
	if r.remaining() < n {
		return nil, newError(ErrUnexpectedEOF, r.pos(), field)
	}
	b := r.data[r.off : r.off+n]
	r.off += n

	return b, nil
}

func (r *reader) uint8(field string) (uint8, error) {
	b, err := r.take(1, field)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

func (r *reader) int16(field string) (int16, error) {
	v, err := r.uint16(field)
	return int16(v), err
}

func (r *reader) uint16(field string) (uint16, error) {
	b, err := r.take(2, field)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint16(b), nil
}

func (r *reader) int32(field string) (int32, error) {
	v, err := r.uint32(field)
	return int32(v), err
}

func (r *reader) uint32(field string) (uint32, error) {
	b, err := r.take(4, field)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(b), nil
}

func (r *reader) uint64(field string) (uint64, error) {
	b, err := r.take(8, field)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint64(b), nil
}

func (r *reader) float32(field string) (float32, error) {
	v, err := r.uint32(field)
	if err != nil {
		return 0, err
	}

	return math.Float32frombits(v), nil
}

// bool reads one byte; zero is false, anything else is true.
func (r *reader) bool(field string) (bool, error) {
	b, err := r.uint8(field)
	return b != 0, err
}

// cstring reads bytes up to a 0x00 terminator and consumes the terminator.
func (r *reader) cstring(field string) (string, error) {
	i := bytes.IndexByte(r.data[r.off:], 0x00)
	if i < 0 {
		return "", newError(ErrUnexpectedEOF, r.pos(), field)
	}
	raw := r.data[r.off : r.off+i]
	r.off += i + 1

	return decodeString(raw), nil
}

// optUint8 reads one byte if any is left. Absence is not an error.
func (r *reader) optUint8() (uint8, bool) {
	if r.empty() {
		return 0, false
	}
	b := r.data[r.off]
	r.off++

	return b, true
}

// optInt32 reads an int32 if at least four bytes are left.
func (r *reader) optInt32() (int32, bool) {
	if r.remaining() < 4 {
		return 0, false
	}
	v, _ := r.int32("")

	return v, true
}

// null consumes one byte which must be 0x00.
func (r *reader) null(field string) error {
	at := r.pos()
	b, err := r.uint8(field)
	if err != nil {
		return err
	}
	if b != 0 {
		e := newError(ErrUnexpectedValue, at, field)
		e.Detail = "expected 0x00"
		return e
	}

	return nil
}

// rest returns the unread suffix without copying.
func (r *reader) rest() []byte {
	b := r.data[r.off:]
	r.off = len(r.data)

	return b
}

// finish fails with ErrTrailingData if bytes are left.
func (r *reader) finish(field string) error {
	if !r.empty() {
		e := newError(ErrTrailingData, r.pos(), field)
		e.Detail = strconv.Itoa(r.remaining()) + " bytes left"
		return e
	}

	return nil
}

// decodeString copies raw into a string, replacing invalid UTF-8 sequences with U+FFFD.
func decodeString(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	s, err := unicode.UTF8.NewDecoder().Bytes(raw)
	if err != nil {
		return string(bytes.ToValidUTF8(raw, []byte(string(utf8.RuneError))))
	}

	return string(s)
}
