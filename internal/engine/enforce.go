package engine

import (
	"strconv"
	"strings"
)

// Enforcement wrapper for TokenSource to apply duplicate key handling,
// max nesting checks, and max bytes truncation in a streaming fashion.

// Issue codes produced by the token layer.
const (
	CodeDuplicateKey = "duplicate_key"
	CodeTooDeep      = "selector_too_deep"
	CodeTruncated    = "truncated"
	CodeParseError   = "parse_error"
)

// DuplicateStrictness controls duplicate key handling.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota
	DupWarn
	DupError
)

// SimpleIssue is a minimal issue representation used by internal helpers.
type SimpleIssue struct {
	Code    string
	Path    string
	Message string
	Offset  int64
}

// IssueError is a lightweight error carrying a SimpleIssue.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string { return e.SimpleIssue.Message }

// EnforceOptions controls runtime enforcement behavior.
type EnforceOptions struct {
	OnDuplicate DuplicateStrictness
	// MaxNesting caps container depth (objects and arrays); 0 disables it.
	MaxNesting int
	MaxBytes   int64
	// IssueSink receives non-fatal issues (duplicate keys in warn mode).
	IssueSink func(SimpleIssue)
}

type enforceFrame struct {
	array      bool
	keys       map[string]struct{}
	path       string
	nextIndex  int
	pendingKey string
	hasPending bool
}

// WrapWithEnforcement returns a TokenSource that enforces the duplicate key
// policy, the nesting cap and the byte cap.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	return &enforcingTokenSource{inner: inner, opt: opt}
}

type enforcingTokenSource struct {
	inner TokenSource
	opt   EnforceOptions
	stack []enforceFrame
}

func (e *enforcingTokenSource) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}
	path := e.pathFor(tok)

	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		f := enforceFrame{array: tok.Kind == KindBeginArray, path: path}
		if !f.array {
			f.keys = make(map[string]struct{})
		}
		e.stack = append(e.stack, f)
		if e.opt.MaxNesting > 0 && len(e.stack) > e.opt.MaxNesting {
			return Token{}, e.fail(CodeTooDeep, path, MsgTooDeep, tok.Offset)
		}
	case KindEndObject, KindEndArray:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
		e.memberDone()
	case KindKey:
		if n := len(e.stack); n > 0 && !e.stack[n-1].array {
			top := &e.stack[n-1]
			if _, dup := top.keys[tok.String]; dup && e.opt.OnDuplicate != DupIgnore {
				si := SimpleIssue{Code: CodeDuplicateKey, Path: normalizeIssuePath(path), Message: "key '" + tok.String + "' duplicated", Offset: tok.Offset}
				if e.opt.OnDuplicate == DupError {
					return Token{}, IssueError{si}
				}
				if e.opt.IssueSink != nil {
					e.opt.IssueSink(si)
				}
			}
			top.keys[tok.String] = struct{}{}
			top.pendingKey = tok.String
			top.hasPending = true
		}
	default:
		e.memberDone()
	}

	if e.opt.MaxBytes > 0 {
		if off := e.Location(); off >= 0 && off > e.opt.MaxBytes {
			return Token{}, e.fail(CodeTruncated, path, "max bytes exceeded", off)
		}
	}
	return tok, nil
}

func (e *enforcingTokenSource) fail(code, path, msg string, off int64) error {
	return IssueError{SimpleIssue{Code: code, Path: normalizeIssuePath(path), Message: msg, Offset: off}}
}

func (e *enforcingTokenSource) memberDone() {
	if n := len(e.stack); n > 0 && !e.stack[n-1].array {
		e.stack[n-1].hasPending = false
		e.stack[n-1].pendingKey = ""
	}
}

// pathFor computes the JSON Pointer of the value (or key) the token belongs to.
func (e *enforcingTokenSource) pathFor(tok Token) string {
	if len(e.stack) == 0 {
		return ""
	}
	top := &e.stack[len(e.stack)-1]
	switch tok.Kind {
	case KindKey:
		return joinJSONPointer(top.path, tok.String)
	case KindEndObject, KindEndArray:
		return top.path
	}
	if top.array {
		p := joinJSONPointer(top.path, strconv.Itoa(top.nextIndex))
		top.nextIndex++
		return p
	}
	if top.hasPending {
		return joinJSONPointer(top.path, top.pendingKey)
	}
	return top.path
}

func (e *enforcingTokenSource) Location() int64 { return e.inner.Location() }

func normalizeIssuePath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

var jsonPointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// EscapePointerToken escapes a JSON Pointer reference token (RFC 6901).
func EscapePointerToken(s string) string { return jsonPointerEscaper.Replace(s) }

func joinJSONPointer(base, token string) string {
	return base + "/" + EscapePointerToken(token)
}
