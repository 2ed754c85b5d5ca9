package engine

import (
	"errors"
	"io"
	"testing"
)

// sliceSource replays a fixed token list.
type sliceSource struct {
	toks []Token
	i    int
}

func (s *sliceSource) NextToken() (Token, error) {
	if s.i >= len(s.toks) {
		return Token{}, io.EOF
	}
	t := s.toks[s.i]
	s.i++
	return t, nil
}

func (s *sliceSource) Location() int64 {
	if s.i == 0 {
		return -1
	}
	return s.toks[s.i-1].Offset
}

func obj(inner ...Token) []Token {
	out := append([]Token{{Kind: KindBeginObject}}, inner...)
	return append(out, Token{Kind: KindEndObject})
}

func key(s string) Token { return Token{Kind: KindKey, String: s} }
func str(s string) Token { return Token{Kind: KindString, String: s} }

func TestDecodeNode(t *testing.T) {
	toks := obj(key("b"), str("x"), key("a"), Token{Kind: KindBeginArray}, Token{Kind: KindNumber, Number: "1"}, Token{Kind: KindBool, Bool: true}, Token{Kind: KindNull}, Token{Kind: KindEndArray})
	n, err := DecodeNode(&sliceSource{toks: toks})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n.Kind != NodeObject || len(n.Members) != 2 || n.Members[0].Key != "b" {
		t.Fatalf("unexpected node %+v", n)
	}
	a, ok := n.Lookup("a")
	if !ok || a.Kind != NodeArray || len(a.Items) != 3 {
		t.Fatalf("unexpected array %+v", a)
	}
	if a.Items[0].Str != "1" || !a.Items[1].Bool || a.Items[2].Kind != NodeNull {
		t.Fatalf("unexpected items %+v", a.Items)
	}
	if _, ok := n.Lookup("zzz"); ok {
		t.Fatalf("lookup of missing key")
	}
}

func TestDecodeNode_Errors(t *testing.T) {
	if _, err := DecodeNode(&sliceSource{}); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("empty input: %v", err)
	}
	if _, err := DecodeNode(&sliceSource{toks: []Token{{Kind: KindBeginObject}, key("a")}}); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("truncated object: %v", err)
	}
	if _, err := DecodeNode(&sliceSource{toks: obj(str("a"))}); !errors.Is(err, ErrUnexpectedToken) {
		t.Fatalf("value in key position: %v", err)
	}
	if _, err := DecodeNode(&sliceSource{toks: []Token{str("a"), str("b")}}); !errors.Is(err, ErrUnexpectedToken) {
		t.Fatalf("trailing data: %v", err)
	}
}

func TestFromAny(t *testing.T) {
	n, err := FromAny(map[string]any{"z": []string{"a"}, "a": map[any]any{"k": 1.5}, "m": nil}, 0)
	if err != nil {
		t.Fatalf("FromAny: %v", err)
	}
	if got := []string{n.Members[0].Key, n.Members[1].Key, n.Members[2].Key}; got[0] != "a" || got[1] != "m" || got[2] != "z" {
		t.Fatalf("keys not sorted: %v", got)
	}
	if v, _ := n.Members[0].Value.Lookup("k"); v.Kind != NodeNumber || v.Str != "1.5" {
		t.Fatalf("unexpected number %+v", v)
	}
	if n.Offset != -1 {
		t.Fatalf("Go values carry no offsets")
	}

	if _, err := FromAny(map[any]any{1: "x"}, 0); err == nil {
		t.Fatalf("expected error for non-string key")
	}
	if _, err := FromAny(make(chan int), 0); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	n, err = FromAny([]map[string]any{{"b": "x"}, {"a": "y"}}, 0)
	if err != nil || n.Kind != NodeArray || len(n.Items) != 2 || n.Items[1].Members[0].Key != "a" {
		t.Fatalf("typed map slice: %v %+v", err, n)
	}
	var ue *UTF8Error
	if _, err := FromAny(map[string]any{"k": "\xff"}, 0); !errors.As(err, &ue) || ue.Offset != -1 {
		t.Fatalf("expected UTF8Error, got %v", err)
	}
	deep := any("x")
	for i := 0; i < 5; i++ {
		deep = []any{deep}
	}
	if _, err := FromAny(deep, 4); !errors.Is(err, ErrTooDeep) {
		t.Fatalf("expected ErrTooDeep, got %v", err)
	}
	if _, err := FromAny(deep, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnforcement_Paths(t *testing.T) {
	// {"a":[{"b":"x","b":"y"}]}
	toks := obj(key("a"), Token{Kind: KindBeginArray}, Token{Kind: KindBeginObject}, key("b"), str("x"), key("b"), str("y"), Token{Kind: KindEndObject}, Token{Kind: KindEndArray})
	var got []SimpleIssue
	src := WrapWithEnforcement(&sliceSource{toks: toks}, EnforceOptions{OnDuplicate: DupWarn, IssueSink: func(si SimpleIssue) { got = append(got, si) }})
	if _, err := DecodeNode(src); err != nil {
		t.Fatalf("warn mode must not fail: %v", err)
	}
	if len(got) != 1 || got[0].Path != "/a/0/b" || got[0].Code != CodeDuplicateKey {
		t.Fatalf("unexpected issues %+v", got)
	}

	_, err := DecodeNode(WrapWithEnforcement(&sliceSource{toks: toks}, EnforceOptions{OnDuplicate: DupError}))
	var ie IssueError
	if !errors.As(err, &ie) || ie.Path != "/a/0/b" {
		t.Fatalf("expected duplicate error at /a/0/b, got %v", err)
	}

	_, err = DecodeNode(WrapWithEnforcement(&sliceSource{toks: toks}, EnforceOptions{MaxNesting: 2}))
	if !errors.As(err, &ie) || ie.Code != CodeTooDeep || ie.Path != "/a/0" {
		t.Fatalf("expected too deep at /a/0, got %v", err)
	}
}

func TestEnforcement_MaxBytes(t *testing.T) {
	toks := obj(Token{Kind: KindKey, String: "a", Offset: 4}, Token{Kind: KindString, String: "x", Offset: 40})
	_, err := DecodeNode(WrapWithEnforcement(&sliceSource{toks: toks}, EnforceOptions{MaxBytes: 10}))
	var ie IssueError
	if !errors.As(err, &ie) || ie.Code != CodeTruncated || ie.Path != "/a" {
		t.Fatalf("expected truncated at /a, got %v", err)
	}
}

func TestEscapePointerToken(t *testing.T) {
	if got := EscapePointerToken("a/b~c"); got != "a~1b~0c" {
		t.Fatalf("got %q", got)
	}
}

func TestDetectDuplicateKeys_Engine(t *testing.T) {
	toks := obj(key("a"), str("1"), key("a"), str("2"), key("a"), str("3"))
	all, err := DetectDuplicateKeys(&sliceSource{toks: toks}, DupWarn, -1)
	if err != nil || len(all) != 2 {
		t.Fatalf("expected 2 issues, got %v %v", all, err)
	}
	first, _ := DetectDuplicateKeys(&sliceSource{toks: toks}, DupError, -1)
	if len(first) != 1 {
		t.Fatalf("expected to stop at first duplicate, got %v", first)
	}
}

func TestFramer(t *testing.T) {
	var f Framer
	f.BeginObject()
	if !f.String() {
		t.Fatalf("first string in object is a key")
	}
	f.BeginArray()
	if f.String() || f.Depth() != 2 {
		t.Fatalf("strings in arrays are values")
	}
	f.End()
	if !f.String() {
		t.Fatalf("after a container value the next string is a key")
	}
	f.Scalar()
	if !f.String() {
		t.Fatalf("after a scalar value the next string is a key")
	}
	if f.String() {
		t.Fatalf("string following a key is a value")
	}
	f.End()
	if f.Depth() != 0 {
		t.Fatalf("unbalanced framer")
	}
}

func TestCheckUTF8(t *testing.T) {
	if err := CheckUTF8([]byte(`{"k":"日本"}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var ue *UTF8Error
	if err := CheckUTF8([]byte("ab\xffc")); !errors.As(err, &ue) || ue.Offset != 2 {
		t.Fatalf("expected offset 2, got %v", err)
	}
}

// oneByteReader forces every multi-byte sequence across read boundaries.
type oneByteReader struct{ b []byte }

func (r *oneByteReader) Read(p []byte) (int, error) {
	if len(r.b) == 0 {
		return 0, io.EOF
	}
	p[0] = r.b[0]
	r.b = r.b[1:]
	return 1, nil
}

func TestValidatingReader(t *testing.T) {
	in := []byte(`{"k":"日本"}`)
	got, err := io.ReadAll(ValidatingReader(&oneByteReader{b: in}))
	if err != nil || string(got) != string(in) {
		t.Fatalf("expected %q, got %q (%v)", in, got, err)
	}

	got, err = io.ReadAll(ValidatingReader(&oneByteReader{b: []byte("ab\xe6\x97x")}))
	var ue *UTF8Error
	if !errors.As(err, &ue) || ue.Offset != 2 || string(got) != "ab" {
		t.Fatalf("expected UTF8Error at 2 after %q, got %q (%v)", "ab", got, err)
	}

	// A sequence cut off by EOF is invalid too.
	_, err = io.ReadAll(ValidatingReader(&oneByteReader{b: []byte("a\xe6")}))
	if !errors.As(err, &ue) || ue.Offset != 1 {
		t.Fatalf("expected UTF8Error at 1, got %v", err)
	}
}
