package codec

import "fmt"

// FormatError reports a malformed byte stream. It carries the byte
// offset the decoder had reached plus expected/actual context, so a
// bad file can be diagnosed without any global trace state.
type FormatError struct {
	Offset   int
	Expected string
	Actual   string
}

func (e *FormatError) Error() string {
	if e.Actual == "" {
		return fmt.Sprintf("format error at byte %d: %s", e.Offset, e.Expected)
	}
	return fmt.Sprintf("format error at byte %d: expected %s, got %s", e.Offset, e.Expected, e.Actual)
}

func formatErrorf(offset int, expected string, actualFormat string, v ...any) *FormatError {
	return &FormatError{
		Offset:   offset,
		Expected: expected,
		Actual:   fmt.Sprintf(actualFormat, v...),
	}
}
