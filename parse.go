package audience

import (
	"context"
	"io"

	eng "github.com/reoring/audience/internal/engine"
)

// Parse builds a Selector from a JSON-compatible Go value: string,
// map[string]any, []any, json.Number, float64, bool or nil, plus typed slices
// and maps of those. Other Go types are reported as unrecognized_selector_shape
// and strings that are not valid UTF-8 as parse_error. Object keys are
// visited in sorted order, so reported paths are deterministic even though Go
// maps are unordered.
func Parse(ctx context.Context, v any, opts ...ParseOpt) (Selector, error) {
	opt := resolveOpt(opts)
	root, err := eng.FromAny(v, opt.maxNesting())
	if err != nil {
		return nil, toIssues(err)
	}
	return parseTree(ctx, root, opt)
}

// ParseFrom is the primary entry point for raw input. It consumes tokens from
// the Source (keeping object member order), applies the duplicate-key,
// nesting and size enforcement from opts, and parses the resulting tree.
func ParseFrom(ctx context.Context, src Source, opts ...ParseOpt) (Selector, error) {
	if src == nil {
		return nil, singleIssue(CodeParseError, "nil source")
	}
	opt := resolveOpt(opts)
	root, err := decodeNodeFromSource(src, opt)
	if err != nil {
		return nil, toIssues(err)
	}
	return parseTree(ctx, root, opt)
}

// ParseJSON parses a JSON document with the current JSON driver. Input that is
// not valid UTF-8 is rejected with parse_error rather than having the bad
// bytes replaced with U+FFFD.
func ParseJSON(ctx context.Context, data []byte, opts ...ParseOpt) (Selector, error) {
	return ParseFrom(ctx, JSONBytes(data), opts...)
}

// StreamParse parses a JSON document from an io.Reader. When MaxBytes is set
// it enforces the size cap up front, otherwise it streams tokens through the
// current driver.
func StreamParse(ctx context.Context, r io.Reader, opts ...ParseOpt) (Selector, error) {
	opt := resolveOpt(opts)
	if opt.MaxBytes > 0 {
		lr := io.LimitReader(r, opt.MaxBytes+1)
		data, err := io.ReadAll(lr)
		if err != nil {
			return nil, singleIssue(CodeParseError, err.Error())
		}
		if int64(len(data)) > opt.MaxBytes {
			return nil, AppendIssues(nil, Issue{Path: "/", Code: CodeTruncated, Message: message(CodeTruncated, nil), Offset: opt.MaxBytes})
		}
		return ParseFrom(ctx, JSONBytes(data), opt)
	}
	return ParseFrom(ctx, JSONReader(r), opt)
}

// DecodeTree reads one value from src with enforcement applied and returns it
// as JSON-compatible Go values (objects as map[string]any). It is the inverse
// companion of ToValue for callers that want to inspect raw input.
func DecodeTree(src Source, opts ...ParseOpt) (any, error) {
	root, err := decodeNodeFromSource(src, resolveOpt(opts))
	if err != nil {
		return nil, toIssues(err)
	}
	return nodeToAny(root), nil
}

func decodeNodeFromSource(src Source, opt ParseOpt) (*eng.Node, error) {
	enforced := eng.WrapWithEnforcement(EngineTokenSource(src), eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.Strictness.OnDuplicateKey),
		MaxNesting:  opt.maxNesting(),
		MaxBytes:    opt.MaxBytes,
	})
	return eng.DecodeNode(enforced)
}

func nodeToAny(n *eng.Node) any {
	switch n.Kind {
	case eng.NodeString:
		return n.Str
	case eng.NodeNumber:
		return jsonNumber(n.Str)
	case eng.NodeBool:
		return n.Bool
	case eng.NodeArray:
		out := make([]any, len(n.Items))
		for i, it := range n.Items {
			out[i] = nodeToAny(it)
		}
		return out
	case eng.NodeObject:
		out := make(map[string]any, len(n.Members))
		for _, m := range n.Members {
			out[m.Key] = nodeToAny(m.Value)
		}
		return out
	default:
		return nil
	}
}

func singleIssue(code, msg string) Issues {
	return AppendIssues(nil, Issue{Path: "/", Code: code, Message: msg, Offset: -1})
}
