package protocol

import (
	"math"
	"strings"
	"testing"

	"github.com/gear6io/mcwire/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeField(t *testing.T, f Encoder) []byte {
	t.Helper()
	out := NewOutputBuffer(f.Len())
	require.NoError(t, f.Encode(out))
	b, err := out.Bytes()
	require.NoError(t, err)
	return b
}

func TestUnsignedShortIsBigEndian(t *testing.T) {
	assert.Equal(t, []byte{0x30, 0x39}, encodeField(t, UnsignedShort(12345)))
	assert.Equal(t, []byte{0x00, 0x50}, encodeField(t, UnsignedShort(80)))
}

func TestLongIsBigEndian(t *testing.T) {
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFE}, encodeField(t, Long(-2)))
}

func TestStringEncoding(t *testing.T) {
	b := encodeField(t, String("127.0.0.1"))
	assert.Equal(t, append([]byte{9}, "127.0.0.1"...), b)

	assert.Equal(t, []byte{0}, encodeField(t, String("")))

	long := String(strings.Repeat("a", 200))
	b = encodeField(t, long)
	assert.Equal(t, []byte{0xC8, 0x01}, b[:2])
	assert.Len(t, b, 202)
}

func TestFieldRoundTrip(t *testing.T) {
	ub := UnsignedByte(200)
	us := UnsignedShort(math.MaxUint16)
	vi := VarInt(1 << 40)
	lg := Long(math.MinInt64)
	st := String("héllo, wörld ✓")

	for _, f := range []Field{&ub, &us, &vi, &lg, &st} {
		b := encodeField(t, f)
		assert.Len(t, b, f.Len())
	}

	var (
		gotUB UnsignedByte
		gotUS UnsignedShort
		gotVI VarInt
		gotLG Long
		gotST String
	)
	pairs := []struct{ in, out Field }{
		{&ub, &gotUB}, {&us, &gotUS}, {&vi, &gotVI}, {&lg, &gotLG}, {&st, &gotST},
	}
	for _, p := range pairs {
		in := NewInputBuffer(encodeField(t, p.in))
		require.NoError(t, p.out.Decode(in))
		assert.False(t, in.HasNext())
	}

	assert.Equal(t, ub, gotUB)
	assert.Equal(t, us, gotUS)
	assert.Equal(t, vi, gotVI)
	assert.Equal(t, lg, gotLG)
	assert.Equal(t, st, gotST)
}

func TestStringDecodeInvalidUtf8(t *testing.T) {
	var s String
	err := s.Decode(NewInputBuffer([]byte{2, 0xC3, 0x28}))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrInvalidUtf8))
}

func TestStringDecodeShortPayload(t *testing.T) {
	var s String
	err := s.Decode(NewInputBuffer([]byte{5, 'a', 'b'}))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrBufferUnderrun))
}

func TestStringTooLong(t *testing.T) {
	var s String
	in := NewInputBuffer(AppendVarInt(nil, MaxStringBytes+1))
	err := s.Decode(in)
	assert.True(t, errors.HasCode(err, ErrStringTooLong))

	big := String(strings.Repeat("x", MaxStringBytes+1))
	err = big.Encode(NewOutputBuffer(big.Len()))
	assert.True(t, errors.HasCode(err, ErrStringTooLong))
}
