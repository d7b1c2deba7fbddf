package ollama

import (
	"errors"
	"fmt"
)

// ErrEmptyResponse is returned when the service answers with no text.
var ErrEmptyResponse = errors.New("ollama returned an empty response")

// ErrorCategory determines whether a failed call is worth retrying.
type ErrorCategory int

const (
	// Recoverable covers 5xx responses and transport failures.
	Recoverable ErrorCategory = iota
	// Irrecoverable covers 4xx responses, such as an unknown model.
	Irrecoverable
)

func (c ErrorCategory) String() string {
	switch c {
	case Recoverable:
		return "Recoverable"
	case Irrecoverable:
		return "Irrecoverable"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// ClassifiedError wraps a failed call with its retry category.
type ClassifiedError struct {
	Category   ErrorCategory
	StatusCode int    // 0 for transport errors
	Body       string // response body, for logs
	Underlying error
}

func (e *ClassifiedError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("[%s] HTTP %d: %v", e.Category, e.StatusCode, e.Underlying)
	}
	return fmt.Sprintf("[%s] %v", e.Category, e.Underlying)
}

func (e *ClassifiedError) Unwrap() error { return e.Underlying }

// IsIrrecoverable reports whether err should not be retried.
func IsIrrecoverable(err error) bool {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Category == Irrecoverable
	}
	return false
}

func classifyStatus(status int, body string) error {
	cat := Recoverable
	if status >= 400 && status < 500 {
		cat = Irrecoverable
	}
	return &ClassifiedError{
		Category:   cat,
		StatusCode: status,
		Body:       body,
		Underlying: fmt.Errorf("ollama status %d", status),
	}
}
