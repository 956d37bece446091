package protocol

import (
	"math"
	"testing"

	"github.com/gear6io/mcwire/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendVarIntKnownValues(t *testing.T) {
	tests := []struct {
		value uint64
		want  []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7F}},
		{128, []byte{0x80, 0x01}},
		{300, []byte{0xAC, 0x02}},
		{16384, []byte{0x80, 0x80, 0x01}},
		{2097151, []byte{0xFF, 0xFF, 0x7F}},
		{math.MaxUint32, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x0F}},
		{math.MaxUint64, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01}},
	}

	for _, tt := range tests {
		got := AppendVarInt(nil, tt.value)
		assert.Equal(t, tt.want, got, "encode(%d)", tt.value)
		assert.Equal(t, len(tt.want), VarIntLen(tt.value), "len(%d)", tt.value)

		value, n, err := DecodeVarInt(got)
		require.NoError(t, err)
		assert.Equal(t, tt.value, value)
		assert.Equal(t, len(tt.want), n)
	}
}

func TestVarIntRoundTripIsMinimal(t *testing.T) {
	values := []uint64{2, 63, 64, 255, 256, 16383, 16384, 25565, 1 << 28, 1<<35 - 1, 1 << 49, 1 << 56, 1 << 63}
	for shift := 0; shift < 64; shift++ {
		values = append(values, 1<<shift, 1<<shift-1)
	}

	for _, v := range values {
		enc := AppendVarInt(nil, v)
		for i, c := range enc {
			if i < len(enc)-1 {
				assert.NotZero(t, c&0x80, "value %d byte %d must continue", v, i)
			} else {
				assert.Zero(t, c&0x80, "value %d last byte must terminate", v)
			}
		}
		if len(enc) > 1 {
			assert.NotZero(t, enc[len(enc)-1], "value %d has padding", v)
		}

		got, n, err := DecodeVarInt(enc)
		require.NoError(t, err)
		assert.Equal(t, v, got)
		assert.Equal(t, len(enc), n)
	}
}

func TestDecodeVarIntThreeBytesUsesMultiplicativeShift(t *testing.T) {
	// 0x01 in the third group is worth 1<<14.
	value, n, err := DecodeVarInt([]byte{0x80, 0x80, 0x01})
	require.NoError(t, err)
	assert.Equal(t, uint64(16384), value)
	assert.Equal(t, 3, n)
}

func TestDecodeVarIntIgnoresFollowingBytes(t *testing.T) {
	value, n, err := DecodeVarInt([]byte{0xAC, 0x02, 0xFF, 0xFF})
	require.NoError(t, err)
	assert.Equal(t, uint64(300), value)
	assert.Equal(t, 2, n)
}

func TestDecodeVarIntMalformed(t *testing.T) {
	tests := map[string][]byte{
		"empty":            {},
		"unterminated":     {0x80, 0x80},
		"eleven bytes":     {0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x01},
		"overflows 64 bit": {0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x02},
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := DecodeVarInt(input)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, ErrMalformedVarInt))
		})
	}
}

func TestVarIntFieldDecodeExhausted(t *testing.T) {
	var v VarInt
	err := v.Decode(NewInputBuffer([]byte{0x80}))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrMalformedVarInt))
	assert.True(t, errors.HasCode(err, ErrBufferUnderrun))
}
