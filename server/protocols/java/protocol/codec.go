package protocol

import (
	"io"

	"github.com/gear6io/mcwire/pkg/errors"
)

// PayloadLen is the encoded size of p's fields, without id or length prefix.
func PayloadLen(p Packet) int {
	n := 0
	for _, f := range p.Schema() {
		n += f.Value.Len()
	}
	return n
}

// Pack encodes p as a complete frame: VarInt length, id byte, fields.
func Pack(p Packet) ([]byte, error) {
	body := 1 + PayloadLen(p)
	out := NewOutputBuffer(VarIntLen(uint64(body)) + body)

	if err := VarInt(body).Encode(out); err != nil {
		return nil, err
	}
	if err := out.WriteByte(byte(p.ID())); err != nil {
		return nil, err
	}
	for _, f := range p.Schema() {
		if err := f.Value.Encode(out); err != nil {
			return nil, withPacket(err, p).AddContext("field", f.Name)
		}
	}
	return out.Bytes()
}

// Unpack decodes payload (the bytes after the id) into p's fields.
func Unpack(p Packet, payload []byte) error {
	in := NewInputBuffer(payload)
	for _, f := range p.Schema() {
		if err := f.Value.Decode(in); err != nil {
			if errors.HasCode(err, ErrBufferUnderrun) {
				return withPacket(errors.Newf(ErrUnknownPacket, "payload of %d bytes too short for %s", len(payload), p.Name()).WithCause(err), p).
					AddContext("field", f.Name)
			}
			return withPacket(err, p).AddContext("field", f.Name)
		}
	}
	if in.HasNext() {
		return withPacket(errors.Newf(ErrTrailingBytes, "%d bytes left after %s", in.Remaining(), p.Name()), p)
	}
	return nil
}

// WritePacket packs p and writes the frame to w in one call.
func WritePacket(w io.Writer, p Packet) error {
	frame, err := Pack(p)
	if err != nil {
		return err
	}
	_, err = w.Write(frame)
	return err
}

func withPacket(err error, p Packet) *errors.Error {
	e, ok := err.(*errors.Error)
	if !ok {
		e = errors.New(errors.CommonInternal, "packet codec", err)
	}
	return e.AddContext("packet", p.Name()).
		AddContext("state", p.State().String()).
		AddContext("id", p.ID().String())
}
