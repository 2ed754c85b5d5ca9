package audience

import (
	"strconv"
	"strings"

	"github.com/reoring/audience/i18n"
	eng "github.com/reoring/audience/internal/engine"
)

// pathRef builds JSON Pointer paths in a chain-safe way and creates Issues
// located at the pointer.
type pathRef struct {
	parts []string
}

func rootPath() pathRef { return pathRef{} }

func (p pathRef) Field(name string) pathRef {
	return pathRef{parts: append(append([]string(nil), p.parts...), eng.EscapePointerToken(name))}
}

func (p pathRef) Index(i int) pathRef {
	return pathRef{parts: append(append([]string(nil), p.parts...), strconv.Itoa(i))}
}

func (p pathRef) Pointer() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}

// issue creates a single-entry Issues located at p. n supplies the byte offset
// when the node came from a token source.
func (p pathRef) issue(code string, n *eng.Node, params map[string]string) Issues {
	off := int64(-1)
	if n != nil {
		off = n.Offset
	}
	var pm map[string]any
	if len(params) > 0 {
		pm = make(map[string]any, len(params))
		for k, v := range params {
			pm[k] = v
		}
	}
	return AppendIssues(nil, Issue{Path: p.Pointer(), Code: code, Message: message(code, params), Offset: off, Params: pm})
}

// locate stamps p onto construction issues that carry no path yet. The code
// is left untouched.
func (p pathRef) locate(err error, n *eng.Node) error {
	iss, ok := AsIssues(err)
	if !ok {
		return err
	}
	out := make(Issues, len(iss))
	for i, it := range iss {
		if it.Path == "" {
			it.Path = p.Pointer()
		}
		if it.Offset < 0 && n != nil {
			it.Offset = n.Offset
		}
		out[i] = it
	}
	return out
}

func message(code string, params map[string]string) string { return i18n.T(code, params) }
