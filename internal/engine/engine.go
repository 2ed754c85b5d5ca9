package engine

import (
	"errors"
	"fmt"
	"io"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// ErrUnexpectedToken is returned when a source yields a token that cannot
// appear at the current position (for example a key inside an array).
var ErrUnexpectedToken = errors.New("engine: unexpected token")

// NodeKind classifies a decoded value.
type NodeKind int

const (
	NodeNull NodeKind = iota
	NodeString
	NodeNumber
	NodeBool
	NodeObject
	NodeArray
)

func (k NodeKind) String() string {
	switch k {
	case NodeString:
		return "string"
	case NodeNumber:
		return "number"
	case NodeBool:
		return "boolean"
	case NodeObject:
		return "object"
	case NodeArray:
		return "array"
	default:
		return "null"
	}
}

// Member is one key/value pair of an object node.
type Member struct {
	Key   string
	Value *Node
}

// Node is an order-preserving JSON value. Objects keep members in input order
// so diagnostics and attributed forms do not depend on map iteration.
type Node struct {
	Kind    NodeKind
	Str     string // NodeString, and the textual form of NodeNumber
	Bool    bool
	Members []Member
	Items   []*Node
	Offset  int64
}

// Lookup returns the first member with the exact key.
func (n *Node) Lookup(key string) (*Node, bool) {
	for _, m := range n.Members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// DecodeNode builds a Node from the streaming token source. Trailing tokens
// after the first complete value are rejected.
func DecodeNode(src TokenSource) (*Node, error) {
	tok, err := src.NextToken()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	n, err := decodeValue(src, tok)
	if err != nil {
		return nil, err
	}
	if extra, err := src.NextToken(); err == nil {
		return nil, fmt.Errorf("%w: trailing data at offset %d", ErrUnexpectedToken, extra.Offset)
	} else if err != io.EOF {
		return nil, err
	}
	return n, nil
}

func decodeValue(src TokenSource, tok Token) (*Node, error) {
	switch tok.Kind {
	case KindBeginObject:
		return decodeObject(src, tok.Offset)
	case KindBeginArray:
		return decodeArray(src, tok.Offset)
	case KindString:
		return &Node{Kind: NodeString, Str: tok.String, Offset: tok.Offset}, nil
	case KindNumber:
		return &Node{Kind: NodeNumber, Str: tok.Number, Offset: tok.Offset}, nil
	case KindBool:
		return &Node{Kind: NodeBool, Bool: tok.Bool, Offset: tok.Offset}, nil
	case KindNull:
		return &Node{Kind: NodeNull, Offset: tok.Offset}, nil
	default:
		return nil, ErrUnexpectedToken
	}
}

func decodeObject(src TokenSource, off int64) (*Node, error) {
	n := &Node{Kind: NodeObject, Offset: off}
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, eofAsUnexpected(err)
		}
		if tok.Kind == KindEndObject {
			return n, nil
		}
		if tok.Kind != KindKey {
			return nil, ErrUnexpectedToken
		}
		vt, err := src.NextToken()
		if err != nil {
			return nil, eofAsUnexpected(err)
		}
		v, err := decodeValue(src, vt)
		if err != nil {
			return nil, err
		}
		n.Members = append(n.Members, Member{Key: tok.String, Value: v})
	}
}

func decodeArray(src TokenSource, off int64) (*Node, error) {
	n := &Node{Kind: NodeArray, Offset: off}
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, eofAsUnexpected(err)
		}
		if tok.Kind == KindEndArray {
			return n, nil
		}
		v, err := decodeValue(src, tok)
		if err != nil {
			return nil, err
		}
		n.Items = append(n.Items, v)
	}
}

func eofAsUnexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
