package config

import "github.com/sqldom/sqldom/pkg/errors"

// Package-specific error codes for config
var (
	ErrConfigFileReadFailed     = errors.MustNewCode("config.file_read_failed")
	ErrConfigFileParseFailed    = errors.MustNewCode("config.file_parse_failed")
	ErrConfigFileMarshalFailed  = errors.MustNewCode("config.file_marshal_failed")
	ErrConfigFileWriteFailed    = errors.MustNewCode("config.file_write_failed")
	ErrConfigValidationFailed   = errors.MustNewCode("config.validation_failed")
	ErrLogDirectoryCreateFailed = errors.MustNewCode("config.log_directory_create_failed")
	ErrLogFileOpenFailed        = errors.MustNewCode("config.log_file_open_failed")
	ErrInvalidLogFormat         = errors.MustNewCode("config.invalid_log_format")
	ErrInvalidLimit             = errors.MustNewCode("config.invalid_limit")
)
