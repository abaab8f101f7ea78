package dom

import "fmt"

// DOMError represents a DOM exception with a name and message.
type DOMError struct {
	Name    string
	Message string
}

func (e *DOMError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// Is makes errors.Is match any DOMError with the same name.
func (e *DOMError) Is(target error) bool {
	t, ok := target.(*DOMError)
	return ok && t.Name == e.Name
}

// Sentinels for errors.Is checks.
var (
	IndexSizeError       = &DOMError{Name: "IndexSizeError"}
	NotFoundError        = &DOMError{Name: "NotFoundError"}
	InvalidStateError    = &DOMError{Name: "InvalidStateError"}
	SyntaxError          = &DOMError{Name: "SyntaxError"}
	InvalidNodeTypeError = &DOMError{Name: "InvalidNodeTypeError"}
)

// ErrNotFound creates a NotFoundError.
func ErrNotFound(message string) *DOMError {
	return &DOMError{Name: "NotFoundError", Message: message}
}

// ErrInvalidState creates an InvalidStateError.
func ErrInvalidState(message string) *DOMError {
	return &DOMError{Name: "InvalidStateError", Message: message}
}

// ErrIndexSize creates an IndexSizeError.
func ErrIndexSize(message string) *DOMError {
	return &DOMError{Name: "IndexSizeError", Message: message}
}

// ErrSyntax creates a SyntaxError.
func ErrSyntax(message string) *DOMError {
	return &DOMError{Name: "SyntaxError", Message: message}
}

// ErrInvalidNodeType creates an InvalidNodeTypeError.
func ErrInvalidNodeType(message string) *DOMError {
	return &DOMError{Name: "InvalidNodeTypeError", Message: message}
}
