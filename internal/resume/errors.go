package resume

import "fmt"

// ExtractError represents a failure reading or extracting text from a
// resume file.
type ExtractError struct {
	Path    string
	Message string
	Cause   error
}

func (e *ExtractError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("resume extract error for %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("resume extract error for %s: %s", e.Path, e.Message)
}

func (e *ExtractError) Unwrap() error {
	return e.Cause
}

// UnsupportedFormatError is returned for file extensions the parser cannot
// read. Binary formats (.pdf, .docx) must be converted to text before
// upload.
type UnsupportedFormatError struct {
	Path string
	Ext  string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported resume format %q for %s (supported: .txt, .md)", e.Ext, e.Path)
}
