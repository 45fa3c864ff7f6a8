package pdfreport

import (
	"errors"
	"fmt"
)

// Sentinel errors for template and build failures.
var (
	ErrNoTemplate         = errors.New("pdfreport: no template has been set")
	ErrInvalidTemplate    = errors.New("pdfreport: invalid template")
	ErrMissingAttribute   = errors.New("pdfreport: missing required attribute")
	ErrUnsupportedElement = errors.New("pdfreport: unsupported template element")
	ErrNestedSections     = errors.New("pdfreport: multiple nested sections are not allowed")
	ErrMissingContent     = errors.New("pdfreport: missing content element")
	ErrRunawayTemplate    = errors.New("pdfreport: section loop safety limit reached")
	ErrNoChartData        = errors.New("pdfreport: no chart data set found")
	ErrInvalidParam       = errors.New("pdfreport: invalid parameter")
)

// ReportError represents an error that occurred during a specific engine
// operation. It wraps an underlying error and includes the operation name
// for context.
type ReportError struct {
	Op  string // operation name, e.g. "ProcessSection", "ProcessContent"
	Err error  // underlying error
}

func (e *ReportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pdfreport.%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("pdfreport.%s: unknown error", e.Op)
}

func (e *ReportError) Unwrap() error {
	return e.Err
}

// newReportError creates a new ReportError wrapping the given error with operation context.
func newReportError(op string, err error) *ReportError {
	return &ReportError{Op: op, Err: err}
}

// elementError ties a sentinel to the template element it was raised for.
func elementError(sentinel error, key string) error {
	return fmt.Errorf("%w [%s]", sentinel, key)
}
