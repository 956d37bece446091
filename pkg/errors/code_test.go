package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCode(t *testing.T) {
	valid := []string{
		"protocol.malformed_varint",
		"protocol.read_past_end",
		"java.invalid_state_transition",
		"middleware.pool_at_capacity",
		"a.b",
	}
	for _, s := range valid {
		t.Run(s, func(t *testing.T) {
			code, err := NewCode(s)
			require.NoError(t, err)
			assert.Equal(t, s, code.String())
		})
	}

	invalid := []string{
		"",
		"protocol",
		"Protocol.varint",
		"protocol.varint.extra",
		"protocol.",
		".varint",
		"1protocol.varint",
		"protocol.buffer_underrun",
		"protocol.parse_error",
	}
	for _, s := range invalid {
		t.Run("invalid_"+s, func(t *testing.T) {
			_, err := NewCode(s)
			assert.Error(t, err)
		})
	}
}

func TestMustNewCodePanics(t *testing.T) {
	assert.Panics(t, func() { MustNewCode("not valid") })
	assert.NotPanics(t, func() { MustNewCode("protocol.trailing_bytes") })
}

func TestCodePackageAndName(t *testing.T) {
	code := MustNewCode("protocol.frame_too_large")
	assert.Equal(t, "protocol", code.Package())
	assert.Equal(t, "frame_too_large", code.Name())
	assert.True(t, code.IsValid())
	assert.False(t, Code{}.IsValid())
	assert.True(t, code.Equals(MustNewCode("protocol.frame_too_large")))
	assert.False(t, code.Equals(CommonInternal))
}
