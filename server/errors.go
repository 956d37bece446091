package server

import "github.com/gear6io/mcwire/pkg/errors"

// Server lifecycle error codes
var (
	ErrJournalSetupFailed = errors.MustNewCode("server.journal_setup_failed")
	ErrStartupFailed      = errors.MustNewCode("server.startup_failed")
)
