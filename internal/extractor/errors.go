package extractor

import "errors"

var (
	// ErrEmptyInput is returned for a zero-length document.
	ErrEmptyInput = errors.New("empty document")
	// ErrWrongPasswordOrCorrupt matches every DocumentError. Users are told
	// only this much, whichever of the two actually happened.
	ErrWrongPasswordOrCorrupt = errors.New("wrong password or corrupted PDF")
)

// FailureKind says why a document could not be opened.
type FailureKind int

const (
	WrongPassword FailureKind = iota + 1
	CorruptDocument
)

func (k FailureKind) String() string {
	switch k {
	case WrongPassword:
		return "wrong password"
	case CorruptDocument:
		return "corrupt document"
	default:
		return "unknown"
	}
}

// DocumentError is returned when a PDF cannot be decrypted or read. Its
// message never reveals the Kind; log the Kind, show the message.
type DocumentError struct {
	Kind FailureKind
	Err  error
}

func (e *DocumentError) Error() string {
	return ErrWrongPasswordOrCorrupt.Error()
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrWrongPasswordOrCorrupt) hold for any DocumentError.
func (e *DocumentError) Is(target error) bool {
	return target == ErrWrongPasswordOrCorrupt
}
