package protocol

import (
	"encoding/binary"
	"strconv"
	"unicode/utf8"

	"github.com/gear6io/mcwire/pkg/errors"
)

// Encoder is the write half of a Field. Len must equal the number of bytes
// Encode writes so packets can be sized before they are written.
type Encoder interface {
	Len() int
	Encode(out *OutputBuffer) error
}

// Field is a value with a wire representation. Decode needs a pointer, so
// plain values like UnsignedShort(80) are only Encoders.
type Field interface {
	Encoder
	Decode(in *InputBuffer) error
}

// UnsignedByte is a single raw byte.
type UnsignedByte uint8

func (v UnsignedByte) Len() int { return 1 }

func (v UnsignedByte) Encode(out *OutputBuffer) error {
	return out.WriteByte(byte(v))
}

func (v *UnsignedByte) Decode(in *InputBuffer) error {
	c, err := in.ReadByte()
	if err != nil {
		return err
	}
	*v = UnsignedByte(c)
	return nil
}

// UnsignedShort is a big endian uint16.
type UnsignedShort uint16

func (v UnsignedShort) Len() int { return 2 }

func (v UnsignedShort) Encode(out *OutputBuffer) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(v))
	return out.WriteBytes(b[:])
}

func (v *UnsignedShort) Decode(in *InputBuffer) error {
	b, err := in.ReadBytes(2)
	if err != nil {
		return err
	}
	*v = UnsignedShort(binary.BigEndian.Uint16(b))
	return nil
}

// Long is a big endian int64.
type Long int64

func (v Long) Len() int { return 8 }

func (v Long) Encode(out *OutputBuffer) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	return out.WriteBytes(b[:])
}

func (v *Long) Decode(in *InputBuffer) error {
	b, err := in.ReadBytes(8)
	if err != nil {
		return err
	}
	*v = Long(binary.BigEndian.Uint64(b))
	return nil
}

// String is a VarInt byte count followed by that many UTF-8 bytes.
type String string

func (s String) Len() int {
	return VarIntLen(uint64(len(s))) + len(s)
}

func (s String) Encode(out *OutputBuffer) error {
	if len(s) > MaxStringBytes {
		return errors.Newf(ErrStringTooLong, "string of %d bytes exceeds %d", len(s), MaxStringBytes)
	}
	if err := VarInt(len(s)).Encode(out); err != nil {
		return err
	}
	return out.WriteBytes([]byte(s))
}

func (s *String) Decode(in *InputBuffer) error {
	n, err := readVarInt(in)
	if err != nil {
		return err
	}
	if n > MaxStringBytes {
		return errors.Newf(ErrStringTooLong, "string length %d exceeds %d", n, MaxStringBytes)
	}
	b, err := in.ReadBytes(int(n))
	if err != nil {
		return err
	}
	if !utf8.Valid(b) {
		return errors.New(ErrInvalidUtf8, "string is not valid UTF-8", nil).
			AddContext("offset", strconv.Itoa(in.Position()-len(b)))
	}
	*s = String(b)
	return nil
}
