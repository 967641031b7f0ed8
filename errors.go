/*
DESCRIPTION
  errors.go defines the stable error kinds produced by the decoding core, and
  a typed *Error wrapping them with github.com/pkg/errors-compatible causes,
  the same wrapping idiom used throughout github.com/ausocean/av/codec/h264/h264dec.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package jxl provides the decoding core of a JPEG XL still-image and
// animation decoder: the frame-decode pipeline from codestream bytes to
// rendered keyframes, as specified in ISO/IEC 18181.
package jxl

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind names one of the decoder's stable, switchable error categories.
type Kind int

const (
	// KindUnexpectedEOF signals that the buffer was exhausted during a read.
	// Recoverable during progressive decode.
	KindUnexpectedEOF Kind = iota
	// KindValidationFailed signals a field value violating a named invariant.
	KindValidationFailed
	// KindInvalidEnum signals an unknown discriminator value.
	KindInvalidEnum
	// KindInvalidAnsStream signals an ANS finalization mismatch.
	KindInvalidAnsStream
	// KindInvalidIccStream signals an embedded ICC decompression failure.
	KindInvalidIccStream
	// KindInvalidRctParams signals an inconsistent RCT transform.
	KindInvalidRctParams
	// KindInvalidPaletteParams signals an inconsistent palette transform.
	KindInvalidPaletteParams
	// KindInvalidSqueezeParams signals an inconsistent squeeze transform.
	KindInvalidSqueezeParams
	// KindUninitializedLfFrame signals a frame referencing an undecoded LF level.
	KindUninitializedLfFrame
	// KindInvalidReference signals a patch/blend referring to an empty slot.
	KindInvalidReference
	// KindFrameDataIncomplete signals progressive-read underflow.
	KindFrameDataIncomplete
	// KindPropertyNotFound signals an MA tree property index out of range.
	KindPropertyNotFound
	// KindAllocationFailed signals the allocation tracker denied a request.
	KindAllocationFailed
)

func (k Kind) String() string {
	switch k {
	case KindUnexpectedEOF:
		return "UnexpectedEof"
	case KindValidationFailed:
		return "ValidationFailed"
	case KindInvalidEnum:
		return "InvalidEnum"
	case KindInvalidAnsStream:
		return "InvalidAnsStream"
	case KindInvalidIccStream:
		return "InvalidIccStream"
	case KindInvalidRctParams:
		return "InvalidRctParams"
	case KindInvalidPaletteParams:
		return "InvalidPaletteParams"
	case KindInvalidSqueezeParams:
		return "InvalidSqueezeParams"
	case KindUninitializedLfFrame:
		return "UninitializedLfFrame"
	case KindInvalidReference:
		return "InvalidReference"
	case KindFrameDataIncomplete:
		return "FrameDataIncomplete"
	case KindPropertyNotFound:
		return "PropertyNotFound"
	case KindAllocationFailed:
		return "AllocationFailed"
	default:
		return "Unknown"
	}
}

// Error is the typed error returned by every decoding operation. Callers
// switch on Kind rather than string-matching.
type Error struct {
	Kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("jxl: %s: %s: %v", e.Kind, e.msg, e.err)
	}
	return fmt.Sprintf("jxl: %s: %s", e.Kind, e.msg)
}

// Unwrap exposes the wrapped cause for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// newErr builds an *Error of the given kind.
func newErr(k Kind, msg string, err error) *Error {
	return &Error{Kind: k, msg: msg, err: err}
}

// Recoverable reports whether a frame-decode caller may retry after
// supplying more bytes, per §7: only UnexpectedEof and FrameDataIncomplete
// are recoverable.
func (e *Error) Recoverable() bool {
	return e.Kind == KindUnexpectedEOF || e.Kind == KindFrameDataIncomplete
}

func errUnexpectedEOF(msg string, cause error) error {
	return newErr(KindUnexpectedEOF, msg, cause)
}

func errValidation(msg string) error {
	return newErr(KindValidationFailed, msg, nil)
}

func errInvalidEnum(name string, value uint32) error {
	return newErr(KindInvalidEnum, fmt.Sprintf("%s=%d", name, value), nil)
}

func errNeedMoreData(msg string) error {
	return newErr(KindFrameDataIncomplete, msg, nil)
}

// wrap attaches context to err the way h264dec's parse.go wraps bit-reader
// errors, while preserving err's pkg/errors cause chain.
func wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, msg)
}
