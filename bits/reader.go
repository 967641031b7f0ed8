/*
DESCRIPTION
  reader.go provides a bit reader over an in-memory codestream buffer, used
  by every substream decoder in the jxl package tree. Bits are consumed
  least-significant-bit first within each byte, as required by the JPEG XL
  codestream syntax, which is the opposite convention from AusOcean's H.264
  bit reader (github.com/ausocean/av/codec/h264/h264dec/bits), which reads
  most-significant-bit first. The buffered-peek shape is kept the same.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bits provides a least-significant-bit-first bit reader over a
// byte buffer, with bookmark-based rewind for table-of-contents driven
// random access into a JPEG XL codestream.
package bits

import (
	"math"

	"github.com/pkg/errors"
)

// ErrUnexpectedEOF is returned when a read would consume bits past the end
// of the buffered data.
var ErrUnexpectedEOF = errors.New("bits: unexpected end of buffer")

// ErrValidation is returned by ZeroPadToByte when a skipped padding bit is
// non-zero.
var ErrValidation = errors.New("bits: validation failed")

// Reader reads bits LSB-first from a byte buffer. The zero value is not
// usable; construct with NewReader.
//
// A Reader may be backed by a buffer that grows over time (progressive /
// streaming decode): callers append newly-available bytes with Grow and
// retry a read that previously failed with ErrUnexpectedEOF.
type Reader struct {
	buf    []byte
	bitPos uint64 // next bit to read, 0-indexed from start of buf
}

// NewReader returns a Reader over buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Grow appends more bytes to the buffer backing r, used by progressive
// decoders that feed the reader as data arrives.
func (r *Reader) Grow(b []byte) {
	r.buf = append(r.buf, b...)
}

// bitLen returns the total number of bits currently buffered.
func (r *Reader) bitLen() uint64 {
	return uint64(len(r.buf)) * 8
}

// ReadBits reads n bits, 0 <= n <= 32, and returns them as the
// least-significant n bits of the result; the first bit read (LSB-first
// within its byte) becomes bit 0 of the result, the second bit becomes bit
// 1, and so on.
func (r *Reader) ReadBits(n int) (uint32, error) {
	if n < 0 || n > 32 {
		return 0, errors.Errorf("bits: ReadBits: n=%d out of range", n)
	}
	if uint64(n) > r.bitLen()-r.bitPos {
		return 0, ErrUnexpectedEOF
	}
	var v uint32
	for i := 0; i < n; i++ {
		byteIdx := r.bitPos >> 3
		bitOff := uint(r.bitPos & 7)
		bit := (r.buf[byteIdx] >> bitOff) & 1
		v |= uint32(bit) << uint(i)
		r.bitPos++
	}
	return v, nil
}

// ReadBool reads a single bit and returns it as a bool.
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadBits(1)
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

// ZeroPadToByte consumes the 0..=7 remaining bits up to the next byte
// boundary, failing if any of them are non-zero, per the "byte_align" codec
// operation run after every frame.
func (r *Reader) ZeroPadToByte() error {
	for r.bitPos%8 != 0 {
		b, err := r.ReadBits(1)
		if err != nil {
			return err
		}
		if b != 0 {
			return errors.Wrap(ErrValidation, "zero_pad_to_byte: non-zero padding bit")
		}
	}
	return nil
}

// ByteAligned reports whether the reader sits on a byte boundary.
func (r *Reader) ByteAligned() bool {
	return r.bitPos%8 == 0
}

// NumReadBits returns the current bit cursor, i.e. the "bit position" used
// for table-of-contents bookmark arithmetic.
func (r *Reader) NumReadBits() uint64 {
	return r.bitPos
}

// SkipToBookmark restores the bit cursor to pos, as used when jumping to a
// table-of-contents entry. It fails if pos is not covered by the buffered
// data.
func (r *Reader) SkipToBookmark(pos uint64) error {
	if pos > r.bitLen() {
		return errors.Wrapf(ErrUnexpectedEOF, "skip_to_bookmark: position %d beyond buffered %d bits", pos, r.bitLen())
	}
	r.bitPos = pos
	return nil
}

// U32Dist parameterizes the four-way selector coding used by read_u32: a
// 2-bit tag chooses one of four (constant, extra-bit-count) pairs, and the
// result is the chosen constant plus the value of the extra bits.
type U32Dist struct {
	Const [4]uint32
	Extra [4]int
}

// ReadU32 implements the read_u32(c0, c1+u(k1), c2+u(k2), c3+u(k3)) family
// used throughout JPEG XL bundles.
func (r *Reader) ReadU32(d U32Dist) (uint32, error) {
	sel, err := r.ReadBits(2)
	if err != nil {
		return 0, errors.Wrap(err, "read_u32: selector")
	}
	if d.Extra[sel] == 0 {
		return d.Const[sel], nil
	}
	extra, err := r.ReadBits(d.Extra[sel])
	if err != nil {
		return 0, errors.Wrap(err, "read_u32: extra bits")
	}
	return d.Const[sel] + extra, nil
}

// ReadU64 implements the U64 coding: a 2-bit selector choosing a directly
// coded small value, an 4- or 8-bit extension, or a chain of 8-bit
// continuations for arbitrarily large values.
func (r *Reader) ReadU64() (uint64, error) {
	sel, err := r.ReadBits(2)
	if err != nil {
		return 0, errors.Wrap(err, "read_u64: selector")
	}
	switch sel {
	case 0:
		return 0, nil
	case 1:
		v, err := r.ReadBits(4)
		if err != nil {
			return 0, errors.Wrap(err, "read_u64: 4-bit extension")
		}
		return uint64(v) + 1, nil
	case 2:
		v, err := r.ReadBits(8)
		if err != nil {
			return 0, errors.Wrap(err, "read_u64: 8-bit extension")
		}
		return uint64(v) + 17, nil
	default: // 3
		v, err := r.ReadBits(12)
		if err != nil {
			return 0, errors.Wrap(err, "read_u64: 12-bit base")
		}
		value := uint64(v)
		shift := uint(12)
		for shift < 64 {
			more, err := r.ReadBool()
			if err != nil {
				return 0, errors.Wrap(err, "read_u64: continuation flag")
			}
			if !more {
				break
			}
			chunk, err := r.ReadBits(8)
			if err != nil {
				return 0, errors.Wrap(err, "read_u64: 8-bit continuation")
			}
			value |= uint64(chunk) << shift
			shift += 8
		}
		return value, nil
	}
}

// ReadF16AsF32 parses an IEEE-754 binary16 value and widens it losslessly
// to float32.
func (r *Reader) ReadF16AsF32() (float32, error) {
	bits16, err := r.ReadBits(16)
	if err != nil {
		return 0, errors.Wrap(err, "read_f16")
	}
	sign := uint32(bits16>>15) & 1
	exp := uint32(bits16>>10) & 0x1f
	mant := uint32(bits16) & 0x3ff

	var f32bits uint32
	switch {
	case exp == 0 && mant == 0: // zero
		f32bits = sign << 31
	case exp == 0: // subnormal half -> normalize into float32
		// Shift mantissa left until the implicit leading bit would be set,
		// adjusting the exponent accordingly (float16 subnormal has
		// exponent field 0, actual exponent -14).
		e := -14
		m := mant
		for m&0x400 == 0 {
			m <<= 1
			e--
		}
		m &= 0x3ff
		f32bits = (sign << 31) | uint32(int32(e)+127) << 23 | (m << 13)
	case exp == 0x1f: // inf/nan
		f32bits = (sign << 31) | (0xff << 23) | (mant << 13)
	default:
		f32bits = (sign << 31) | ((exp - 15 + 127) << 23) | (mant << 13)
	}
	return math.Float32frombits(f32bits), nil
}
