package java

import "github.com/gear6io/mcwire/pkg/errors"

// Java Edition listener error codes
var (
	ErrInvalidStateTransition = errors.MustNewCode("java.invalid_state_transition")
	ErrServerListenFailed     = errors.MustNewCode("java.server_listen_failed")
	ErrPacketWriteFailed      = errors.MustNewCode("java.packet_write_failed")
	ErrStatusEncodeFailed     = errors.MustNewCode("java.status_encode_failed")
	ErrIdleTimeout            = errors.MustNewCode("java.idle_timeout")
	ErrLoginRefused           = errors.MustNewCode("java.login_refused")
)
