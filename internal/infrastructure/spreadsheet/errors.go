package spreadsheet

import (
	"errors"
)

// Spreadsheet error codes
const (
	ErrCodeInvalidFile   = "INVALID_FILE"
	ErrCodeEmptyFile     = "INVALID_EMPTY_FILE"
	ErrCodeMissingHeader = "INVALID_MISSING_HEADER"
)

// Common spreadsheet errors
var (
	// ErrInvalidFile is returned when the upload is not a readable .xlsx workbook
	ErrInvalidFile = errors.New("file is not a valid .xlsx workbook")

	// ErrEmptyFile is returned when the workbook has no sheet or no rows
	ErrEmptyFile = errors.New("spreadsheet is empty")

	// ErrMissingHeader is returned when the first sheet has no header row
	ErrMissingHeader = errors.New("spreadsheet missing header row")
)

// ErrorCode maps a parser error to its error code. Unknown errors map to "".
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidFile):
		return ErrCodeInvalidFile
	case errors.Is(err, ErrEmptyFile):
		return ErrCodeEmptyFile
	case errors.Is(err, ErrMissingHeader):
		return ErrCodeMissingHeader
	default:
		return ""
	}
}
