package report

import "fmt"

// ParseError indicates the uploaded content could not be decoded as a
// workbook at all. It is fatal to the upload attempt; callers keep whatever
// state they already had.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("decode workbook: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
