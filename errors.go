package audience

import (
	"errors"
	"fmt"
	"strings"

	eng "github.com/reoring/audience/internal/engine"
)

// Issue codes. Each grammar violation has exactly one code; the code of a
// failure never changes while it propagates out of nested selectors.
const (
	CodeUnknownSelectorKeyword          = "unknown_selector_keyword"
	CodeUnrecognizedSelectorShape       = "unrecognized_selector_shape"
	CodeInvalidAtomicSelector           = "invalid_atomic_selector"
	CodeAtomicSelectorTakesNoArgument   = "atomic_selector_takes_no_argument"
	CodeTypeMismatch                    = "type_mismatch"
	CodeEmptySelectorValue              = "empty_selector_value"
	CodeInvalidValueSelectorShape       = "invalid_value_selector_shape"
	CodeHeterogeneousImplicitOR         = "heterogeneous_implicit_or"
	CodeEmptyImplicitOR                 = "empty_implicit_or"
	CodeEmptyCompoundExpression         = "empty_compound_expression"
	CodeAtomicNotAllowedInCompoundArray = "atomic_not_allowed_in_compound_array"
	CodeNotRequiresExactlyOneChild      = "not_requires_exactly_one_child"
	CodeSelectorTooDeep                 = eng.CodeTooDeep
	// Input-level failures raised below the grammar.
	CodeParseError   = eng.CodeParseError
	CodeDuplicateKey = eng.CodeDuplicateKey
	CodeTruncated    = eng.CodeTruncated
)

// Issue represents a single parse failure.
type Issue struct {
	Path    string // JSON Pointer of the offending node (for example: /and/1/tag).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error (decoder failures, nested issues).
	Offset  int64 // Byte offset in the input source (-1 when unknown).
	// Params carries structured parameters (e.g., {"key":"derp"}) for i18n
	// and diagnostics.
	Params map[string]any
}

func (it Issue) Error() string {
	if it.Path == "" {
		return fmt.Sprintf("%s: %s", it.Code, it.Message)
	}
	return fmt.Sprintf("%s at %s: %s", it.Code, it.Path, it.Message)
}

// Unwrap exposes the cause.
func (it Issue) Unwrap() error { return it.Cause }

// Issues is the single error type returned by every parse entry point.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(iss[i].Error())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap returns the causes of all issues, so errors.Is can reach decoder
// errors such as io.ErrUnexpectedEOF.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// CodeOf returns the code of the first issue carried by err, or "" when err
// is not an Issues error.
func CodeOf(err error) string {
	iss, ok := AsIssues(err)
	if !ok || len(iss) == 0 {
		return ""
	}
	return iss[0].Code
}

func toIssues(err error) Issues {
	if err == nil {
		return nil
	}
	if ii, ok := AsIssues(err); ok {
		return ii
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return AppendIssues(nil, Issue{Code: ie.Code, Path: ie.Path, Message: message(ie.Code, nil), Offset: ie.Offset, Cause: ie})
	}
	if errors.Is(err, eng.ErrTooDeep) {
		return AppendIssues(nil, Issue{Code: CodeSelectorTooDeep, Path: "/", Message: message(CodeSelectorTooDeep, nil), Offset: -1, Cause: err})
	}
	if errors.Is(err, eng.ErrUnsupportedType) {
		return AppendIssues(nil, Issue{Code: CodeUnrecognizedSelectorShape, Path: "/", Message: err.Error(), Offset: -1, Cause: err})
	}
	var ue *eng.UTF8Error
	if errors.As(err, &ue) {
		return AppendIssues(nil, Issue{Code: CodeParseError, Path: "/", Message: ue.Error(), Offset: ue.Offset, Cause: err})
	}
	return AppendIssues(nil, Issue{Code: CodeParseError, Path: "/", Message: err.Error(), Offset: -1, Cause: err})
}
