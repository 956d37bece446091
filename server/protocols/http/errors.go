package http

import "github.com/gear6io/mcwire/pkg/errors"

// HTTP status API error codes
var (
	ErrServerListenFailed = errors.MustNewCode("http.server_listen_failed")
	ErrJournalDisabled    = errors.MustNewCode("http.journal_disabled")
)
