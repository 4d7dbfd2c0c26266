package codec

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/daniacca/alchesim/internal/hexgrid"
)

// reader walks a byte buffer tracking its offset for error reporting.
// All integers are little-endian fixed width; strings are a 7-bit
// varint length followed by UTF-8 bytes; lists are an int32 count
// followed by that many elements. Reads past the end of the buffer
// return a FormatError, never panic.
type reader struct {
	data []byte
	pos  int
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

func (r *reader) remaining() int {
	return len(r.data) - r.pos
}

func (r *reader) take(n int, what string) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, formatErrorf(r.pos, what, "%d bytes remaining", r.remaining())
	}
	out := r.data[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

func (r *reader) byte(what string) (byte, error) {
	b, err := r.take(1, what)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) sbyte(what string) (int8, error) {
	b, err := r.byte(what)
	return int8(b), err
}

func (r *reader) int32(what string) (int32, error) {
	b, err := r.take(4, what)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

func (r *reader) int64(what string) (int64, error) {
	b, err := r.take(8, what)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}

func (r *reader) uint64(what string) (uint64, error) {
	b, err := r.take(8, what)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// varint reads the 7-bit group length prefix: low seven bits of each
// byte carry the value, the high bit marks continuation. Continuation
// past nine bytes would shift into the sign bit, so it is rejected
// rather than wrapped negative.
func (r *reader) varint(what string) (int, error) {
	start := r.pos
	value, shift := 0, 0
	for {
		b, err := r.byte(what)
		if err != nil {
			return 0, err
		}
		value |= int(b&0x7F) << shift
		shift += 7
		if b&0x80 == 0 {
			return value, nil
		}
		if shift >= 63 {
			return 0, formatErrorf(start, what+" varint", "continuation past %d bytes", shift/7)
		}
	}
}

func (r *reader) string(what string) (string, error) {
	start := r.pos
	length, err := r.varint(what + " length")
	if err != nil {
		return "", err
	}
	raw, err := r.take(length, what)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(raw) {
		return "", formatErrorf(start, what+" as valid UTF-8", "invalid byte sequence")
	}
	return string(raw), nil
}

func (r *reader) count(what string) (int, error) {
	n, err := r.int32(what + " count")
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, formatErrorf(r.pos-4, "non-negative "+what+" count", "%d", n)
	}
	return int(n), nil
}

// bHexIndex reads a signed-byte-pair hex index, the compact form used
// inside molecule layouts.
func (r *reader) bHexIndex(what string) (hexgrid.HexIndex, error) {
	q, err := r.sbyte(what + " q")
	if err != nil {
		return hexgrid.HexIndex{}, err
	}
	rr, err := r.sbyte(what + " r")
	if err != nil {
		return hexgrid.HexIndex{}, err
	}
	return hexgrid.HexIndex{Q: int(q), R: int(rr)}, nil
}

// iHexIndex reads an int32-pair hex index, the wide form used for
// absolute board positions.
func (r *reader) iHexIndex(what string) (hexgrid.HexIndex, error) {
	q, err := r.int32(what + " q")
	if err != nil {
		return hexgrid.HexIndex{}, err
	}
	rr, err := r.int32(what + " r")
	if err != nil {
		return hexgrid.HexIndex{}, err
	}
	return hexgrid.HexIndex{Q: int(q), R: int(rr)}, nil
}
