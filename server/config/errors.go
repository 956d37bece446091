package config

import "github.com/gear6io/mcwire/pkg/errors"

// Config-specific error codes
var (
	ErrConfigFileReadFailed    = errors.MustNewCode("config.file_read_failed")
	ErrConfigFileParseFailed   = errors.MustNewCode("config.file_parse_failed")
	ErrConfigValidationFailed  = errors.MustNewCode("config.validation_failed")
	ErrConfigFileMarshalFailed = errors.MustNewCode("config.file_marshal_failed")
	ErrConfigFileWriteFailed   = errors.MustNewCode("config.file_write_failed")
	ErrInvalidPort             = errors.MustNewCode("config.invalid_port")
	ErrInvalidChunkSize        = errors.MustNewCode("config.invalid_chunk_size")
	ErrInvalidFrameLimit       = errors.MustNewCode("config.invalid_frame_limit")
	ErrInvalidConnectionLimit  = errors.MustNewCode("config.invalid_connection_limit")
	ErrInvalidIdleTimeout      = errors.MustNewCode("config.invalid_idle_timeout")
	ErrJournalPathRequired     = errors.MustNewCode("config.journal_path_required")
	ErrInvalidJournalQueue     = errors.MustNewCode("config.invalid_journal_queue")
	ErrInvalidGuard            = errors.MustNewCode("config.invalid_guard")

	// Logging-specific error codes
	ErrLogDirectoryCreationFailed = errors.MustNewCode("config.log_directory_creation_failed")
	ErrLogFileOpenFailed          = errors.MustNewCode("config.log_file_open_failed")
	ErrLogFilePathRequired        = errors.MustNewCode("config.log_file_path_required")
	ErrLogCleanupFailed           = errors.MustNewCode("config.log_cleanup_failed")
	ErrLogFileWriterSetupFailed   = errors.MustNewCode("config.log_file_writer_setup_failed")
)
