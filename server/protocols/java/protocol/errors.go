package protocol

import "github.com/gear6io/mcwire/pkg/errors"

// Wire format error codes
var (
	ErrBufferUnderrun     = errors.MustNewCode("protocol.read_past_end")
	ErrBufferOverrun      = errors.MustNewCode("protocol.write_past_end")
	ErrBufferNotFilled    = errors.MustNewCode("protocol.buffer_not_filled")
	ErrMalformedVarInt    = errors.MustNewCode("protocol.malformed_varint")
	ErrInvalidUtf8        = errors.MustNewCode("protocol.invalid_utf8")
	ErrStringTooLong      = errors.MustNewCode("protocol.string_too_long")
	ErrUnknownPacket      = errors.MustNewCode("protocol.unknown_packet")
	ErrTrailingBytes      = errors.MustNewCode("protocol.trailing_bytes")
	ErrUnsupportedPacket  = errors.MustNewCode("protocol.unsupported_packet")
	ErrDuplicatePacket    = errors.MustNewCode("protocol.duplicate_packet")
	ErrWrongDirection     = errors.MustNewCode("protocol.wrong_direction")
	ErrTruncatedFrame     = errors.MustNewCode("protocol.truncated_frame")
	ErrInvalidFrameLength = errors.MustNewCode("protocol.invalid_frame_length")
	ErrFrameTooLarge      = errors.MustNewCode("protocol.frame_too_large")
)
