package client

import "github.com/gear6io/mcwire/pkg/errors"

// Error codes for client package
var (
	ErrConnectionFailed  = errors.MustNewCode("client.connection_failed")
	ErrStatusProbeFailed = errors.MustNewCode("client.status_probe_failed")
	ErrLoginProbeFailed  = errors.MustNewCode("client.login_probe_failed")
	ErrStatusMalformed   = errors.MustNewCode("client.status_malformed")
	ErrPongMismatch      = errors.MustNewCode("client.pong_mismatch")
	ErrStatusAPIFailed   = errors.MustNewCode("client.status_api_failed")
)
