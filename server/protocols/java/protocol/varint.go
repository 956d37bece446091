package protocol

import "github.com/gear6io/mcwire/pkg/errors"

// VarInt is an unsigned base-128 integer, least significant group first, with
// 0x80 set on every byte but the last.
type VarInt uint64

// AppendVarInt appends the minimal encoding of v to dst.
func AppendVarInt(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// VarIntLen returns the encoded size of v.
func VarIntLen(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// DecodeVarInt decodes a VarInt from the start of b and returns the value and
// the number of bytes consumed.
func DecodeVarInt(b []byte) (uint64, int, error) {
	var value uint64
	for i := 0; i < MaxVarIntLen; i++ {
		if i >= len(b) {
			return 0, 0, errors.Newf(ErrMalformedVarInt, "varint ends after %d bytes without a terminating byte", i)
		}
		c := b[i]
		if i == MaxVarIntLen-1 && c > 1 {
			return 0, 0, errors.New(ErrMalformedVarInt, "varint overflows 64 bits", nil)
		}
		value |= uint64(c&0x7F) << (7 * i)
		if c&0x80 == 0 {
			return value, i + 1, nil
		}
	}
	return 0, 0, errors.Newf(ErrMalformedVarInt, "varint longer than %d bytes", MaxVarIntLen)
}

func readVarInt(in *InputBuffer) (uint64, error) {
	var value uint64
	for i := 0; i < MaxVarIntLen; i++ {
		c, err := in.ReadByte()
		if err != nil {
			return 0, errors.New(ErrMalformedVarInt, "varint ends without a terminating byte", err)
		}
		if i == MaxVarIntLen-1 && c > 1 {
			return 0, errors.New(ErrMalformedVarInt, "varint overflows 64 bits", nil)
		}
		value |= uint64(c&0x7F) << (7 * i)
		if c&0x80 == 0 {
			return value, nil
		}
	}
	return 0, errors.Newf(ErrMalformedVarInt, "varint longer than %d bytes", MaxVarIntLen)
}

func (v VarInt) Len() int {
	return VarIntLen(uint64(v))
}

func (v VarInt) Encode(out *OutputBuffer) error {
	var scratch [MaxVarIntLen]byte
	return out.WriteBytes(AppendVarInt(scratch[:0], uint64(v)))
}

func (v *VarInt) Decode(in *InputBuffer) error {
	value, err := readVarInt(in)
	if err != nil {
		return err
	}
	*v = VarInt(value)
	return nil
}
