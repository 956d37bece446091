package journal

import "github.com/gear6io/mcwire/pkg/errors"

// Journal error codes
var (
	ErrJournalOpenFailed    = errors.MustNewCode("journal.open_failed")
	ErrJournalMigration     = errors.MustNewCode("journal.migration_failed")
	ErrJournalWriteFailed   = errors.MustNewCode("journal.write_failed")
	ErrJournalQueryFailed   = errors.MustNewCode("journal.query_failed")
	ErrJournalUnreachable   = errors.MustNewCode("journal.unreachable")
	ErrJournalSessionAbsent = errors.MustNewCode("journal.session_not_found")
)
